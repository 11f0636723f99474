package models

import "time"

// Статусы реферальной ссылки.
const (
	ReferralStatusActive   = "active"
	ReferralStatusInactive = "inactive"
)

// FreeTierReferralLimit максимум ссылок на бесплатном тарифе.
const FreeTierReferralLimit = 25

// Referral представляет реферальную ссылку пользователя.
type Referral struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	Name         string    `json:"name"`
	Category     string    `json:"category"`
	URL          string    `json:"url"`
	CustomSlug   *string   `json:"custom_slug,omitempty"`
	LogoColor    string    `json:"logo_color"`
	Status       string    `json:"status"`
	IsFeatured   bool      `json:"is_featured"`
	DisplayOrder *int      `json:"display_order,omitempty"`
	Description  *string   `json:"description,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// DummyReferral используется для приема данных из JSON-запроса на создание ссылки.
type DummyReferral struct {
	Name        string  `json:"name" validate:"required,max=255"`         // Название ссылки
	Category    string  `json:"category" validate:"required"`             // Категория
	URL         string  `json:"url" validate:"required,url"`              // Целевой адрес
	CustomSlug  *string `json:"custom_slug,omitempty"`                    // Короткий слаг (опционально)
	LogoColor   string  `json:"logo_color" validate:"required"`           // Цвет логотипа
	Description *string `json:"description,omitempty"`                    // Описание
	IsFeatured  bool    `json:"is_featured,omitempty"`                    // Закрепить в профиле
}

// DummyReferralUpdate используется для частичного обновления ссылки.
// Нулевые указатели означают "поле не менять".
type DummyReferralUpdate struct {
	Name         *string `json:"name,omitempty" validate:"omitempty,min=1,max=255"`
	Category     *string `json:"category,omitempty" validate:"omitempty,min=1"`
	URL          *string `json:"url,omitempty" validate:"omitempty,url"`
	CustomSlug   *string `json:"custom_slug,omitempty"`
	LogoColor    *string `json:"logo_color,omitempty" validate:"omitempty,min=1"`
	Status       *string `json:"status,omitempty" validate:"omitempty,oneof=active inactive"`
	Description  *string `json:"description,omitempty"`
	IsFeatured   *bool   `json:"is_featured,omitempty"`
	DisplayOrder *int    `json:"display_order,omitempty"`
}

// ReferralFilter параметры выборки списка ссылок.
type ReferralFilter struct {
	Category string
	Status   string
	Sort     string
	Order    string
	Limit    int
	Page     int
}

// ReferralStats счетчики переходов по одной ссылке.
type ReferralStats struct {
	TotalClicks  int `json:"total_clicks"`
	RecentClicks int `json:"recent_clicks"`
}

// ReferralWithStats ссылка вместе со счетчиками переходов.
type ReferralWithStats struct {
	Referral
	Stats ReferralStats `json:"stats"`
}

// Pagination описывает страницу выборки.
type Pagination struct {
	Total      int `json:"total"`
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	TotalPages int `json:"total_pages"`
}

// TopReferral строка рейтинга ссылок по числу переходов.
type TopReferral struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	URL        string  `json:"url"`
	Category   string  `json:"category"`
	CustomSlug *string `json:"custom_slug,omitempty"`
	LogoColor  string  `json:"logo_color"`
	ClickCount int     `json:"click_count"`
}

// RedirectTarget минимальный набор полей ссылки для обработки перехода.
type RedirectTarget struct {
	ID     string
	URL    string
	Status string
	UserID string
}
