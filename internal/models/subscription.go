package models

import "time"

// Статусы подписки. Создается при завершении checkout, дальше меняется
// только webhook-событиями провайдера в одну сторону.
const (
	SubscriptionStatusActive   = "active"
	SubscriptionStatusPastDue  = "past_due"
	SubscriptionStatusCanceled = "canceled"
)

// AddOnCustomDomain тип дополнения, открывающего настройку собственного домена.
const AddOnCustomDomain = "custom_domain"

// Subscription зеркальная запись подписки биллинг-провайдера.
// Пишется только обработчиком webhook, пользователь ее напрямую не меняет.
type Subscription struct {
	ID                 string    `json:"id"`
	UserID             string    `json:"user_id"`
	PlanID             string    `json:"plan_id"`
	Status             string    `json:"status"`
	CurrentPeriodStart time.Time `json:"current_period_start"`
	CurrentPeriodEnd   time.Time `json:"current_period_end"`
	CancelAtPeriodEnd  bool      `json:"cancel_at_period_end"`
	PaymentProvider    string    `json:"payment_provider"`
	ProviderSubID      *string   `json:"payment_provider_subscription_id,omitempty"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// AddOn отдельно купленное дополнение поверх тарифа pro.
type AddOn struct {
	ID                 string    `json:"id"`
	UserID             string    `json:"user_id"`
	AddOnType          string    `json:"add_on_type"`
	Status             string    `json:"status"`
	CurrentPeriodStart time.Time `json:"current_period_start"`
	CurrentPeriodEnd   time.Time `json:"current_period_end"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// DummyCheckout используется для приема данных запроса создания checkout-сессии.
type DummyCheckout struct {
	PriceID    string `json:"price_id" validate:"required"`
	SuccessURL string `json:"success_url" validate:"required,url"`
	CancelURL  string `json:"cancel_url" validate:"required,url"`
}
