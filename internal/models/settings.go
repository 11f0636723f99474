package models

import "encoding/json"

// UserSettings настройки пользователя, один к одному с User.
// Строка создается лениво при первой записи; при чтении отсутствующей
// строки возвращаются значения по умолчанию.
type UserSettings struct {
	UserID                  string          `json:"user_id,omitempty"`
	PublicProfile           bool            `json:"public_profile"`
	DefaultLogoColor        string          `json:"default_logo_color"`
	CustomDomain            *string         `json:"custom_domain"`
	WhiteLabeling           bool            `json:"white_labeling"`
	APIAccess               bool            `json:"api_access"`
	AutoExpiringLinks       bool            `json:"auto_expiring_links"`
	NotificationPreferences json.RawMessage `json:"notification_preferences,omitempty"`
	ThemePreferences        json.RawMessage `json:"theme_preferences,omitempty"`
}

// DefaultSettings возвращает настройки по умолчанию для пользователя без строки в базе.
func DefaultSettings() UserSettings {
	return UserSettings{
		PublicProfile:           true,
		DefaultLogoColor:        "bg-blue-500",
		CustomDomain:            nil,
		WhiteLabeling:           false,
		APIAccess:               false,
		AutoExpiringLinks:       false,
		NotificationPreferences: json.RawMessage("{}"),
		ThemePreferences:        json.RawMessage("{}"),
	}
}

// DummySettings используется для приема данных запроса обновления настроек.
// Нулевые указатели означают "поле не менять".
type DummySettings struct {
	PublicProfile           *bool           `json:"public_profile,omitempty"`
	DefaultLogoColor        *string         `json:"default_logo_color,omitempty"`
	CustomDomain            *string         `json:"custom_domain,omitempty" validate:"omitempty,fqdn"`
	WhiteLabeling           *bool           `json:"white_labeling,omitempty"`
	APIAccess               *bool           `json:"api_access,omitempty"`
	AutoExpiringLinks       *bool           `json:"auto_expiring_links,omitempty"`
	NotificationPreferences json.RawMessage `json:"notification_preferences,omitempty"`
	ThemePreferences        json.RawMessage `json:"theme_preferences,omitempty"`
}

// WantsPremium сообщает, затрагивает ли запрос поля, доступные только на тарифе pro.
func (d *DummySettings) WantsPremium() bool {
	if d.CustomDomain != nil && *d.CustomDomain != "" {
		return true
	}
	if d.WhiteLabeling != nil && *d.WhiteLabeling {
		return true
	}
	if d.APIAccess != nil && *d.APIAccess {
		return true
	}
	if d.AutoExpiringLinks != nil && *d.AutoExpiringLinks {
		return true
	}
	return false
}
