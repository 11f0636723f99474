package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/referral-tracker/internal/models"
)

const settingsColumns = `user_id, public_profile, default_logo_color, custom_domain,
			      white_labeling, api_access, auto_expiring_links,
			      notification_preferences, theme_preferences`

func scanSettings(row interface{ Scan(...any) error }) (*models.UserSettings, error) {
	var st models.UserSettings
	var customDomain sql.NullString
	var notificationPrefs, themePrefs []byte
	if err := row.Scan(&st.UserID, &st.PublicProfile, &st.DefaultLogoColor, &customDomain,
		&st.WhiteLabeling, &st.APIAccess, &st.AutoExpiringLinks,
		&notificationPrefs, &themePrefs); err != nil {
		return nil, err
	}
	if customDomain.Valid {
		st.CustomDomain = &customDomain.String
	}
	st.NotificationPreferences = notificationPrefs
	st.ThemePreferences = themePrefs
	return &st, nil
}

// GetSettings возвращает настройки пользователя либо ErrNotFound,
// если строка еще не создавалась.
func (s *Storage) GetSettings(ctx context.Context, userID string) (*models.UserSettings, error) {
	const op = "storage.GetSettings"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + settingsColumns + `
			  FROM user_settings
			  WHERE user_id = $1`
	st, err := scanSettings(s.DB.QueryRowContext(ctx, query, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return st, nil
}

// InsertSettings создает строку настроек пользователя.
func (s *Storage) InsertSettings(ctx context.Context, st models.UserSettings) (*models.UserSettings, error) {
	const op = "storage.InsertSettings"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO user_settings (user_id, public_profile, default_logo_color,
			      custom_domain, white_labeling, api_access, auto_expiring_links,
			      notification_preferences, theme_preferences)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			  RETURNING ` + settingsColumns
	row := s.DB.QueryRowContext(ctx, query,
		st.UserID, st.PublicProfile, st.DefaultLogoColor, st.CustomDomain,
		st.WhiteLabeling, st.APIAccess, st.AutoExpiringLinks,
		[]byte(st.NotificationPreferences), []byte(st.ThemePreferences))
	result, err := scanSettings(row)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// UpdateSettings обновляет существующую строку настроек пользователя.
func (s *Storage) UpdateSettings(ctx context.Context, st models.UserSettings) (*models.UserSettings, error) {
	const op = "storage.UpdateSettings"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE user_settings
			  SET public_profile = $2,
			      default_logo_color = $3,
			      custom_domain = $4,
			      white_labeling = $5,
			      api_access = $6,
			      auto_expiring_links = $7,
			      notification_preferences = $8,
			      theme_preferences = $9
			  WHERE user_id = $1
			  RETURNING ` + settingsColumns
	row := s.DB.QueryRowContext(ctx, query,
		st.UserID, st.PublicProfile, st.DefaultLogoColor, st.CustomDomain,
		st.WhiteLabeling, st.APIAccess, st.AutoExpiringLinks,
		[]byte(st.NotificationPreferences), []byte(st.ThemePreferences))
	result, err := scanSettings(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// HasActiveAddOn проверяет наличие активного дополнения указанного типа у пользователя.
func (s *Storage) HasActiveAddOn(ctx context.Context, userID, addOnType string) (bool, error) {
	const op = "storage.HasActiveAddOn"
	select {
	case <-ctx.Done():
		return false, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var exists bool
	query := `SELECT EXISTS (
			      SELECT 1 FROM add_ons
			      WHERE user_id = $1 AND add_on_type = $2 AND status = 'active'
			  )`
	if err := s.DB.QueryRowContext(ctx, query, userID, addOnType).Scan(&exists); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return exists, nil
}
