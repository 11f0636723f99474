package models

import (
	"encoding/json"
	"time"
)

// APIKey ключ доступа к API. Значение токена отдается пользователю
// только в ответе на создание, дальше видны лишь метаданные.
type APIKey struct {
	ID          string          `json:"id"`
	UserID      string          `json:"user_id"`
	KeyName     string          `json:"key_name"`
	APIKey      string          `json:"-"`
	Permissions json.RawMessage `json:"permissions,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	LastUsedAt  *time.Time      `json:"last_used_at,omitempty"`
	ExpiresAt   *time.Time      `json:"expires_at,omitempty"`
	IsActive    bool            `json:"is_active"`
}

// DummyAPIKey используется для приема данных запроса создания ключа.
type DummyAPIKey struct {
	KeyName     string          `json:"key_name" validate:"required,min=1,max=100"`
	Permissions map[string]bool `json:"permissions,omitempty"`
	ExpiresAt   *time.Time      `json:"expires_at,omitempty"`
}

// CreatedAPIKey ответ на создание ключа, содержит значение токена.
type CreatedAPIKey struct {
	ID        string    `json:"id"`
	KeyName   string    `json:"key_name"`
	APIKey    string    `json:"api_key"`
	CreatedAt time.Time `json:"created_at"`
}
