package entities

import (
	"time"
)

// Booking event types published on the event bus. Delivery is best-effort;
// event emission must never fail the operation that triggered it.
const (
	EventBookingCreated       = "booking.created"
	EventBookingCancelled     = "booking.cancelled"
	EventBookingStatusChanged = "booking.status_changed"
	EventScheduleUpdated      = "schedule.updated"
)

// BookingEvent is the fire-and-forget envelope for booking and schedule
// changes, consumed by notification workers and live dashboards.
type BookingEvent struct {
	ID            string            `json:"id"`
	Type          string            `json:"type"`
	AppointmentID string            `json:"appointment_id,omitempty"`
	ProviderID    string            `json:"provider_id"`
	CustomerID    string            `json:"customer_id,omitempty"`
	ActorID       string            `json:"actor_id"`
	Payload       map[string]string `json:"payload,omitempty"`
	OccurredAt    time.Time         `json:"occurred_at"`
}
