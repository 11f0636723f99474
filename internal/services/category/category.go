// Package category отдает справочник категорий, читая его через кеш.
package category

import (
	"context"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/referral-tracker/internal/models"
)

// cacheKey ключ справочника в кеше. Справочник меняется только миграциями.
const cacheKey = "categories"

// CategoryRepository определяет чтение справочника категорий.
type CategoryRepository interface {
	// ListCategories возвращает все категории.
	ListCategories(ctx context.Context) ([]models.Category, error)
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	// Get пытается получить значение из кеша по ключу.
	Get(key string, result any) (bool, error)
	// Set сохраняет значение в кеш с временем жизни.
	Set(key string, value any, expiration time.Duration) error
}

// CategoryService отдает справочник категорий.
type CategoryService struct {
	repo  CategoryRepository
	cache Cache
	log   *slog.Logger
}

// NewCategoryService создает новый экземпляр CategoryService.
func NewCategoryService(repo CategoryRepository, cache Cache, log *slog.Logger) *CategoryService {
	return &CategoryService{
		repo:  repo,
		cache: cache,
		log:   log,
	}
}

// List возвращает все категории, используя кеш или хранилище.
func (s *CategoryService) List(ctx context.Context) ([]models.Category, error) {
	var result []models.Category
	found, err := s.cache.Get(cacheKey, &result)
	if err != nil {
		s.log.Warn("failed to read categories from cache", slog.Any("err", err))
		found = false
	}
	if found {
		return result, nil
	}

	result, err = s.repo.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(cacheKey, result, 24*time.Hour); err != nil {
		s.log.Warn("failed to cache categories", slog.Any("err", err))
	}
	return result, nil
}
