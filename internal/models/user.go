// Package models содержит доменные структуры сервиса реферальных ссылок,
// а также вспомогательные типы для приема данных из JSON-запросов.
package models

import "time"

// Уровни подписки пользователя.
const (
	TierFree = "free"
	TierPro  = "pro"
)

// User представляет аккаунт пользователя.
type User struct {
	UID                   string     `json:"id"`
	Email                 string     `json:"email"`
	Username              string     `json:"username"`
	FullName              *string    `json:"full_name,omitempty"`
	AvatarURL             *string    `json:"avatar_url,omitempty"`
	Bio                   *string    `json:"bio,omitempty"`
	PasswordHash          string     `json:"-"`
	SubscriptionTier      string     `json:"subscription_tier"`
	SubscriptionExpiresAt *time.Time `json:"subscription_expires_at,omitempty"`
	StripeCustomerID      *string    `json:"-"`
	CreatedAt             time.Time  `json:"created_at"`
	UpdatedAt             time.Time  `json:"updated_at"`
}

// IsPro сообщает, действует ли у пользователя платный тариф.
func (u *User) IsPro() bool {
	return u.SubscriptionTier == TierPro
}

// DummyRegister используется для приема данных запроса регистрации.
type DummyRegister struct {
	Email    string `json:"email" validate:"required,email"`
	Username string `json:"username" validate:"required,alphanum,min=3,max=32"`
	Password string `json:"password" validate:"required,min=8"`
}

// DummyLogin используется для приема данных запроса входа.
type DummyLogin struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// PublicProfile публичная часть профиля, отдаваемая без аутентификации.
type PublicProfile struct {
	Username  string  `json:"username"`
	FullName  *string `json:"full_name,omitempty"`
	AvatarURL *string `json:"avatar_url,omitempty"`
	Bio       *string `json:"bio,omitempty"`
}
