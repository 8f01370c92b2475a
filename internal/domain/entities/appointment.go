package entities

import (
	"time"
)

// AppointmentStatus represents the status of an appointment
type AppointmentStatus string

const (
	AppointmentStatusPending   AppointmentStatus = "pending"
	AppointmentStatusConfirmed AppointmentStatus = "confirmed"
	AppointmentStatusCancelled AppointmentStatus = "cancelled"
	AppointmentStatusCompleted AppointmentStatus = "completed"
)

// ParseAppointmentStatus maps a raw string to a known status.
func ParseAppointmentStatus(s string) (AppointmentStatus, bool) {
	switch AppointmentStatus(s) {
	case AppointmentStatusPending, AppointmentStatusConfirmed,
		AppointmentStatusCancelled, AppointmentStatusCompleted:
		return AppointmentStatus(s), true
	}
	return "", false
}

// IsActive reports whether the status still occupies its time slot.
// Cancelled and completed appointments release their interval.
func (s AppointmentStatus) IsActive() bool {
	return s == AppointmentStatusPending || s == AppointmentStatusConfirmed
}

// Appointment represents one booking of a provider service by a customer.
// DurationMinutes is snapshotted from the service at booking time so later
// service edits cannot retroactively change occupied intervals.
type Appointment struct {
	ID                 string            `json:"id" db:"id"`
	CustomerID         string            `json:"customer_id" db:"customer_id"`
	ProviderID         string            `json:"provider_id" db:"provider_id"`
	ServiceID          string            `json:"service_id" db:"service_id"`
	StartTime          time.Time         `json:"start_time" db:"start_time"`
	DurationMinutes    int               `json:"duration_minutes" db:"duration_minutes"`
	Status             AppointmentStatus `json:"status" db:"status"`
	Notes              string            `json:"notes" db:"notes"`
	CancellationReason string            `json:"cancellation_reason,omitempty" db:"cancellation_reason"`
	CreatedAt          time.Time         `json:"created_at" db:"created_at"`
	UpdatedAt          time.Time         `json:"updated_at" db:"updated_at"`
}

// EndTime returns the exclusive end of the occupied interval.
func (a *Appointment) EndTime() time.Time {
	return a.StartTime.Add(time.Duration(a.DurationMinutes) * time.Minute)
}
