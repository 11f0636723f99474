package models

import "time"

// Category справочная строка категории. Приложение их только читает.
type Category struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	DisplayName string    `json:"display_name"`
	ColorCode   string    `json:"color_code"`
	IconName    *string   `json:"icon_name,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}
