package entities

import (
	"time"
)

// WorkingHours is one provider's open/close window for one calendar date.
// At most one row exists per (provider, date). Open and close times are
// wall-clock "HH:MM" strings; a day with no row is simply a closed day.
type WorkingHours struct {
	ID         string    `json:"id" db:"id"`
	ProviderID string    `json:"provider_id" db:"provider_id"`
	Date       time.Time `json:"date" db:"date"`
	OpenTime   string    `json:"open_time" db:"open_time"`
	CloseTime  string    `json:"close_time" db:"close_time"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at"`
}
