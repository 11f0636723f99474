// Package profile собирает публичный профиль пользователя:
// открытые данные аккаунта и его активные ссылки.
package profile

import (
	"context"
	"errors"
	"log/slog"

	"github.com/magabrotheeeer/referral-tracker/internal/models"
	"github.com/magabrotheeeer/referral-tracker/internal/storage/repository"
)

// ErrProfilePrivate возвращается, когда пользователь закрыл публичный профиль.
var ErrProfilePrivate = errors.New("profile is private")

// ProfileRepository определяет методы хранилища для публичного профиля.
type ProfileRepository interface {
	// GetUserByUsername возвращает пользователя по имени.
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	// GetSettings возвращает настройки пользователя либо ErrNotFound.
	GetSettings(ctx context.Context, userID string) (*models.UserSettings, error)
	// ListPublicReferrals возвращает активные ссылки пользователя для профиля.
	ListPublicReferrals(ctx context.Context, userID string) ([]*models.Referral, error)
}

// ProfileService отдает публичные профили.
type ProfileService struct {
	repo ProfileRepository
	log  *slog.Logger
}

// NewProfileService создает новый экземпляр ProfileService.
func NewProfileService(repo ProfileRepository, log *slog.Logger) *ProfileService {
	return &ProfileService{
		repo: repo,
		log:  log,
	}
}

// Public возвращает открытые данные пользователя и его активные ссылки.
// Отсутствующая строка настроек означает профиль, открытый по умолчанию.
func (s *ProfileService) Public(ctx context.Context, username string) (*models.PublicProfile, []*models.Referral, error) {
	user, err := s.repo.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, nil, err
	}

	settings, err := s.repo.GetSettings(ctx, user.UID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, nil, err
	}
	if settings != nil && !settings.PublicProfile {
		return nil, nil, ErrProfilePrivate
	}

	referrals, err := s.repo.ListPublicReferrals(ctx, user.UID)
	if err != nil {
		return nil, nil, err
	}

	profile := &models.PublicProfile{
		Username:  user.Username,
		FullName:  user.FullName,
		AvatarURL: user.AvatarURL,
		Bio:       user.Bio,
	}
	return profile, referrals, nil
}
