package entities

import (
	"time"
)

// Service is one bookable offering owned by a provider. Duration drives all
// interval-overlap computations.
type Service struct {
	ID              string    `json:"id" db:"id"`
	ProviderID      string    `json:"provider_id" db:"provider_id"`
	Name            string    `json:"name" db:"name"`
	Description     string    `json:"description" db:"description"`
	DurationMinutes int       `json:"duration_minutes" db:"duration_minutes"`
	Price           float64   `json:"price" db:"price"`
	IsActive        bool      `json:"is_active" db:"is_active"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time `json:"updated_at" db:"updated_at"`
}
