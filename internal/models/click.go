package models

import "time"

// Click одна запись о переходе по реферальной ссылке. Записи не изменяются
// и не удаляются приложением.
type Click struct {
	ID          string    `json:"id"`
	ReferralID  string    `json:"referral_id"`
	ClickedAt   time.Time `json:"clicked_at"`
	IPAddress   *string   `json:"ip_address,omitempty"`
	UserAgent   *string   `json:"user_agent,omitempty"`
	RefererURL  *string   `json:"referer_url,omitempty"`
	CountryCode *string   `json:"country_code,omitempty"`
	Region      *string   `json:"region,omitempty"`
	City        *string   `json:"city,omitempty"`
	DeviceType  *string   `json:"device_type,omitempty"`
	Browser     *string   `json:"browser,omitempty"`
	OS          *string   `json:"os,omitempty"`
}

// ClickEntry данные для вставки записи о переходе.
type ClickEntry struct {
	ReferralID string
	IPAddress  string
	UserAgent  string
	RefererURL string
	DeviceType string
	Browser    string
	OS         string
}

// DayCount количество переходов за один день.
type DayCount struct {
	Day   string `json:"day"`
	Count int    `json:"count"`
}

// AnalyticsOverview сводная статистика пользователя за период.
type AnalyticsOverview struct {
	TotalReferrals int           `json:"total_referrals"`
	TotalClicks    int           `json:"total_clicks"`
	RecentClicks   int           `json:"recent_clicks"`
	ClicksByDay    []DayCount    `json:"clicks_by_day"`
	TopReferrals   []TopReferral `json:"top_referrals"`
}
