package stripeclient

import "encoding/json"

// Customer клиент Stripe.
type Customer struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// CheckoutParams параметры создания checkout-сессии.
type CheckoutParams struct {
	CustomerID string
	PriceID    string
	SuccessURL string
	CancelURL  string
	UserUID    string
}

// CheckoutSession checkout-сессия Stripe.
type CheckoutSession struct {
	ID           string `json:"id"`
	URL          string `json:"url"`
	CustomerID   string `json:"customer"`
	Subscription string `json:"subscription"`
	Metadata     struct {
		UserUID string `json:"user_uid"`
	} `json:"metadata"`
}

// Subscription подписка Stripe.
type Subscription struct {
	ID                 string `json:"id"`
	CustomerID         string `json:"customer"`
	Status             string `json:"status"`
	CurrentPeriodStart int64  `json:"current_period_start"`
	CurrentPeriodEnd   int64  `json:"current_period_end"`
	Items              struct {
		Data []struct {
			Price struct {
				ID string `json:"id"`
			} `json:"price"`
		} `json:"data"`
	} `json:"items"`
}

// PriceID возвращает идентификатор тарифа первой позиции подписки.
func (s *Subscription) PriceID() string {
	if len(s.Items.Data) == 0 {
		return ""
	}
	return s.Items.Data[0].Price.ID
}

// Invoice счет Stripe.
type Invoice struct {
	ID           string `json:"id"`
	CustomerID   string `json:"customer"`
	Subscription string `json:"subscription"`
	AmountDue    int64  `json:"amount_due"`
	Currency     string `json:"currency"`
}

// Event webhook-событие Stripe.
type Event struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Data struct {
		Object json.RawMessage `json:"object"`
	} `json:"data"`
}
