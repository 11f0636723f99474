// Package referral содержит бизнес-логику управления реферальными ссылками,
// включая лимит бесплатного тарифа и кеширование карточек.
package referral

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/referral-tracker/internal/models"
	"github.com/magabrotheeeer/referral-tracker/internal/storage/repository"
)

// ErrLimitExceeded возвращается при попытке создать ссылку сверх лимита
// бесплатного тарифа.
var ErrLimitExceeded = errors.New("referral limit exceeded")

// recentWindow окно подсчета недавних переходов в карточке ссылки.
const recentWindow = 7 * 24 * time.Hour

// ReferralRepository определяет методы для работы со ссылками в хранилище.
type ReferralRepository interface {
	// CreateReferral вставляет новую ссылку и возвращает созданную строку.
	CreateReferral(ctx context.Context, r models.Referral) (*models.Referral, error)
	// GetReferral возвращает ссылку по ID в рамках владельца.
	GetReferral(ctx context.Context, userID, id string) (*models.Referral, error)
	// UpdateReferral частично обновляет ссылку владельца.
	UpdateReferral(ctx context.Context, userID, id string, upd models.DummyReferralUpdate) (*models.Referral, error)
	// DeleteReferral удаляет ссылку владельца и возвращает количество удалённых строк.
	DeleteReferral(ctx context.Context, userID, id string) (int, error)
	// ListReferrals возвращает страницу ссылок пользователя и общее количество.
	ListReferrals(ctx context.Context, userID string, filter models.ReferralFilter) ([]*models.Referral, int, error)
	// CountUserReferrals подсчитывает все ссылки пользователя.
	CountUserReferrals(ctx context.Context, userID string) (int, error)
	// CountClicksByReferral подсчитывает все переходы по одной ссылке.
	CountClicksByReferral(ctx context.Context, referralID string) (int, error)
	// CountRecentClicksByReferral подсчитывает переходы по ссылке начиная с since.
	CountRecentClicksByReferral(ctx context.Context, referralID string, since time.Time) (int, error)
}

// UserRepository определяет доступ к пользователю для проверки тарифа.
type UserRepository interface {
	// GetUser возвращает пользователя по его UID.
	GetUser(ctx context.Context, userUID string) (*models.User, error)
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	// Get пытается получить значение из кеша по ключу.
	Get(key string, result any) (bool, error)
	// Set сохраняет значение в кеш с временем жизни.
	Set(key string, value any, expiration time.Duration) error
	// Invalidate удаляет значение из кеша по ключу.
	Invalidate(key string) error
}

// ReferralService реализует бизнес-логику работы со ссылками, включая кеширование.
type ReferralService struct {
	repo  ReferralRepository
	users UserRepository
	cache Cache
	log   *slog.Logger
}

// NewReferralService создает новый экземпляр ReferralService.
func NewReferralService(repo ReferralRepository, users UserRepository, cache Cache, log *slog.Logger) *ReferralService {
	return &ReferralService{
		repo:  repo,
		users: users,
		cache: cache,
		log:   log,
	}
}

// Create создает новую ссылку пользователя с учетом лимита бесплатного тарифа.
func (s *ReferralService) Create(ctx context.Context, userUID string, req models.DummyReferral) (*models.Referral, error) {
	user, err := s.users.GetUser(ctx, userUID)
	if err != nil {
		return nil, err
	}
	if !user.IsPro() {
		count, err := s.repo.CountUserReferrals(ctx, userUID)
		if err != nil {
			return nil, err
		}
		if count >= models.FreeTierReferralLimit {
			return nil, ErrLimitExceeded
		}
	}

	referral := models.Referral{
		ID:          uuid.NewString(),
		UserID:      userUID,
		Name:        req.Name,
		Category:    req.Category,
		URL:         req.URL,
		CustomSlug:  req.CustomSlug,
		LogoColor:   req.LogoColor,
		Status:      models.ReferralStatusActive,
		IsFeatured:  req.IsFeatured,
		Description: req.Description,
	}
	created, err := s.repo.CreateReferral(ctx, referral)
	if err != nil {
		return nil, err
	}
	s.log.Info("created new referral", slog.String("id", created.ID))

	cacheKey := fmt.Sprintf("referral:%s", created.ID)
	if err := s.cache.Set(cacheKey, created, time.Hour); err != nil {
		s.log.Warn("failed to cache referral", slog.String("key", cacheKey), slog.Any("err", err))
	}
	return created, nil
}

// List возвращает страницу ссылок пользователя с данными пагинации.
func (s *ReferralService) List(ctx context.Context, userUID string, filter models.ReferralFilter) ([]*models.Referral, models.Pagination, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 || filter.Limit > 100 {
		filter.Limit = 50
	}

	items, total, err := s.repo.ListReferrals(ctx, userUID, filter)
	if err != nil {
		return nil, models.Pagination{}, err
	}
	pagination := models.Pagination{
		Total:      total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: (total + filter.Limit - 1) / filter.Limit,
	}
	return items, pagination, nil
}

// Read возвращает ссылку владельца вместе со счетчиками переходов,
// карточка ссылки читается через кеш.
func (s *ReferralService) Read(ctx context.Context, userUID, id string) (*models.ReferralWithStats, error) {
	var referral *models.Referral
	cacheKey := fmt.Sprintf("referral:%s", id)
	found, err := s.cache.Get(cacheKey, &referral)
	if err != nil {
		s.log.Warn("failed to read from cache", slog.String("key", cacheKey), slog.Any("err", err))
		found = false
	}
	if !found || referral == nil {
		referral, err = s.repo.GetReferral(ctx, userUID, id)
		if err != nil {
			return nil, err
		}
		if err := s.cache.Set(cacheKey, referral, time.Hour); err != nil {
			s.log.Warn("failed to add to cache", slog.String("key", cacheKey), slog.Any("err", err))
		}
	}
	if referral.UserID != userUID {
		return nil, fmt.Errorf("referral.Read: %w", repository.ErrNotFound)
	}

	total, err := s.repo.CountClicksByReferral(ctx, id)
	if err != nil {
		return nil, err
	}
	recent, err := s.repo.CountRecentClicksByReferral(ctx, id, time.Now().UTC().Add(-recentWindow))
	if err != nil {
		return nil, err
	}

	return &models.ReferralWithStats{
		Referral: *referral,
		Stats: models.ReferralStats{
			TotalClicks:  total,
			RecentClicks: recent,
		},
	}, nil
}

// Update частично обновляет ссылку владельца и обновляет кеш.
func (s *ReferralService) Update(ctx context.Context, userUID, id string, req models.DummyReferralUpdate) (*models.Referral, error) {
	updated, err := s.repo.UpdateReferral(ctx, userUID, id, req)
	if err != nil {
		return nil, err
	}
	s.log.Info("updated referral in storage", slog.String("id", id))

	cacheKey := fmt.Sprintf("referral:%s", id)
	if err := s.cache.Set(cacheKey, updated, time.Hour); err != nil {
		s.log.Warn("failed to cache referral", slog.String("key", cacheKey), slog.Any("err", err))
	}
	return updated, nil
}

// Remove удаляет ссылку владельца и инвалидирует кеш.
func (s *ReferralService) Remove(ctx context.Context, userUID, id string) error {
	cacheKey := fmt.Sprintf("referral:%s", id)
	if err := s.cache.Invalidate(cacheKey); err != nil {
		s.log.Warn("failed to remove from cache", slog.String("key", cacheKey), slog.Any("err", err))
	}

	count, err := s.repo.DeleteReferral(ctx, userUID, id)
	if err != nil {
		return err
	}
	if count == 0 {
		return fmt.Errorf("referral.Remove: %w", repository.ErrNotFound)
	}
	return nil
}
