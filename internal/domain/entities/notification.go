package entities

import (
	"time"
)

// NotificationType identifies what a notification is about.
type NotificationType string

const (
	NotificationBookingCreated   NotificationType = "booking_created"
	NotificationBookingCancelled NotificationType = "booking_cancelled"
	NotificationStatusChanged    NotificationType = "status_changed"
)

// NotificationStatus tracks the delivery lifecycle of a notification row.
type NotificationStatus string

const (
	NotificationStatusPending NotificationStatus = "pending"
	NotificationStatusSent    NotificationStatus = "sent"
	NotificationStatusFailed  NotificationStatus = "failed"
)

// AppointmentNotification is a persisted, channel-agnostic notification row.
// Actual delivery (email, SMS, push) is handled by out-of-process workers.
type AppointmentNotification struct {
	ID            string             `json:"id" db:"id"`
	AppointmentID string             `json:"appointment_id" db:"appointment_id"`
	RecipientID   string             `json:"recipient_id" db:"recipient_id"`
	Type          NotificationType   `json:"notification_type" db:"notification_type"`
	Status        NotificationStatus `json:"status" db:"status"`
	Message       string             `json:"message" db:"message"`
	CreatedAt     time.Time          `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at" db:"updated_at"`
}
