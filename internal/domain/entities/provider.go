package entities

import (
	"time"
)

// Provider represents a business offering bookable services
// (barbershop, salon, dental clinic, car wash, ...).
type Provider struct {
	ID          string `json:"id" db:"id"`
	OwnerID     string `json:"owner_id" db:"owner_id"`
	Name        string `json:"name" db:"name"`
	Description string `json:"description" db:"description"`
	Category    string `json:"category" db:"category"`
	Address     string `json:"address" db:"address"`
	Phone       string `json:"phone" db:"phone"`

	// Booking configuration. SlotInterval is the granularity of offerable
	// start times (15, 30 or 60 minutes). BookingWindowWeeks counts the
	// current week as week 0. CancellationHours is the minimum lead time
	// for customer self-cancellation; fractional hours allowed.
	SlotInterval       int     `json:"slot_interval" db:"slot_interval"`
	BookingWindowWeeks int     `json:"booking_window_weeks" db:"booking_window_weeks"`
	CancellationHours  float64 `json:"cancellation_hours" db:"cancellation_hours"`

	Rating      float64   `json:"rating" db:"rating"`
	ReviewCount int       `json:"review_count" db:"review_count"`
	IsActive    bool      `json:"is_active" db:"is_active"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// CancellationLeadTime returns the configured lead time as a duration.
func (p *Provider) CancellationLeadTime() time.Duration {
	return time.Duration(p.CancellationHours * float64(time.Hour))
}
