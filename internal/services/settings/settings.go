// Package settings содержит бизнес-логику настроек пользователя и ключей доступа,
// включая проверки тарифа и дополнений.
package settings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/referral-tracker/internal/lib/apikey"
	"github.com/magabrotheeeer/referral-tracker/internal/models"
	"github.com/magabrotheeeer/referral-tracker/internal/storage/repository"
)

var (
	// ErrProRequired возвращается при попытке включить поля тарифа pro на бесплатном тарифе.
	ErrProRequired = errors.New("pro subscription required")
	// ErrAddOnRequired возвращается при попытке задать собственный домен без активного дополнения.
	ErrAddOnRequired = errors.New("custom domain add-on required")
	// ErrAPIAccessDisabled возвращается при создании ключа с выключенным доступом к API.
	ErrAPIAccessDisabled = errors.New("api access is disabled")
)

// SettingsRepository определяет методы хранилища для настроек и ключей.
type SettingsRepository interface {
	// GetSettings возвращает настройки пользователя либо ErrNotFound.
	GetSettings(ctx context.Context, userID string) (*models.UserSettings, error)
	// InsertSettings создает строку настроек пользователя.
	InsertSettings(ctx context.Context, st models.UserSettings) (*models.UserSettings, error)
	// UpdateSettings обновляет существующую строку настроек.
	UpdateSettings(ctx context.Context, st models.UserSettings) (*models.UserSettings, error)
	// HasActiveAddOn проверяет наличие активного дополнения у пользователя.
	HasActiveAddOn(ctx context.Context, userID, addOnType string) (bool, error)
	// CreateAPIKey сохраняет новый ключ доступа и возвращает его метаданные.
	CreateAPIKey(ctx context.Context, key models.APIKey) (*models.CreatedAPIKey, error)
	// DeleteAPIKey удаляет ключ владельца и возвращает количество удалённых строк.
	DeleteAPIKey(ctx context.Context, userID, id string) (int, error)
}

// UserRepository определяет доступ к пользователю для проверки тарифа.
type UserRepository interface {
	// GetUser возвращает пользователя по его UID.
	GetUser(ctx context.Context, userUID string) (*models.User, error)
}

// SettingsService реализует чтение и обновление настроек с гейтингом по тарифу.
type SettingsService struct {
	repo  SettingsRepository
	users UserRepository
	log   *slog.Logger
}

// NewSettingsService создает новый экземпляр SettingsService.
func NewSettingsService(repo SettingsRepository, users UserRepository, log *slog.Logger) *SettingsService {
	return &SettingsService{
		repo:  repo,
		users: users,
		log:   log,
	}
}

// Get возвращает настройки пользователя. Если строки еще нет,
// возвращаются значения по умолчанию без записи в базу.
func (s *SettingsService) Get(ctx context.Context, userUID string) (*models.UserSettings, error) {
	current, err := s.repo.GetSettings(ctx, userUID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			defaults := models.DefaultSettings()
			defaults.UserID = userUID
			return &defaults, nil
		}
		return nil, err
	}
	return current, nil
}

// Update применяет частичное обновление настроек поверх текущих значений.
// Поля тарифа pro доступны только платным пользователям, собственный домен
// дополнительно требует активного дополнения.
func (s *SettingsService) Update(ctx context.Context, userUID string, req models.DummySettings) (*models.UserSettings, error) {
	if req.WantsPremium() {
		user, err := s.users.GetUser(ctx, userUID)
		if err != nil {
			return nil, err
		}
		if !user.IsPro() {
			return nil, ErrProRequired
		}
	}
	if req.CustomDomain != nil && *req.CustomDomain != "" {
		hasAddOn, err := s.repo.HasActiveAddOn(ctx, userUID, models.AddOnCustomDomain)
		if err != nil {
			return nil, err
		}
		if !hasAddOn {
			return nil, ErrAddOnRequired
		}
	}

	current, err := s.repo.GetSettings(ctx, userUID)
	exists := true
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
		exists = false
		defaults := models.DefaultSettings()
		defaults.UserID = userUID
		current = &defaults
	}

	merged := mergeSettings(*current, req)
	if !exists {
		return s.repo.InsertSettings(ctx, merged)
	}
	return s.repo.UpdateSettings(ctx, merged)
}

// mergeSettings накладывает ненулевые поля запроса на текущие настройки.
func mergeSettings(current models.UserSettings, req models.DummySettings) models.UserSettings {
	if req.PublicProfile != nil {
		current.PublicProfile = *req.PublicProfile
	}
	if req.DefaultLogoColor != nil {
		current.DefaultLogoColor = *req.DefaultLogoColor
	}
	if req.CustomDomain != nil {
		if *req.CustomDomain == "" {
			current.CustomDomain = nil
		} else {
			current.CustomDomain = req.CustomDomain
		}
	}
	if req.WhiteLabeling != nil {
		current.WhiteLabeling = *req.WhiteLabeling
	}
	if req.APIAccess != nil {
		current.APIAccess = *req.APIAccess
	}
	if req.AutoExpiringLinks != nil {
		current.AutoExpiringLinks = *req.AutoExpiringLinks
	}
	if req.NotificationPreferences != nil {
		current.NotificationPreferences = req.NotificationPreferences
	}
	if req.ThemePreferences != nil {
		current.ThemePreferences = req.ThemePreferences
	}
	return current
}

// CreateAPIKey выпускает новый ключ доступа. Значение ключа возвращается
// только из этого вызова.
func (s *SettingsService) CreateAPIKey(ctx context.Context, userUID string, req models.DummyAPIKey) (*models.CreatedAPIKey, error) {
	user, err := s.users.GetUser(ctx, userUID)
	if err != nil {
		return nil, err
	}
	if !user.IsPro() {
		return nil, ErrProRequired
	}

	current, err := s.Get(ctx, userUID)
	if err != nil {
		return nil, err
	}
	if !current.APIAccess {
		return nil, ErrAPIAccessDisabled
	}

	token, err := apikey.Generate()
	if err != nil {
		return nil, fmt.Errorf("settings.CreateAPIKey: %w", err)
	}

	permissions := []byte("{}")
	if req.Permissions != nil {
		permissions, err = json.Marshal(req.Permissions)
		if err != nil {
			return nil, fmt.Errorf("settings.CreateAPIKey: %w", err)
		}
	}

	key := models.APIKey{
		ID:          uuid.NewString(),
		UserID:      userUID,
		KeyName:     req.KeyName,
		APIKey:      token,
		Permissions: permissions,
		ExpiresAt:   req.ExpiresAt,
		IsActive:    true,
	}
	created, err := s.repo.CreateAPIKey(ctx, key)
	if err != nil {
		return nil, err
	}
	created.APIKey = token
	s.log.Info("created api key", slog.String("id", created.ID))
	return created, nil
}

// RemoveAPIKey удаляет ключ владельца.
func (s *SettingsService) RemoveAPIKey(ctx context.Context, userUID, id string) error {
	count, err := s.repo.DeleteAPIKey(ctx, userUID, id)
	if err != nil {
		return err
	}
	if count == 0 {
		return fmt.Errorf("settings.RemoveAPIKey: %w", repository.ErrNotFound)
	}
	return nil
}
