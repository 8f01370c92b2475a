package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/appointly/appointly-api/internal/domain/entities"
)

// NotificationService persists notification rows for out-of-process delivery
// workers. It never blocks or fails a booking; callers treat errors as
// log-and-continue.
type NotificationService struct {
	db *sqlx.DB
}

// NewNotificationService creates a new notification service.
func NewNotificationService(db *sqlx.DB) *NotificationService {
	return &NotificationService{db: db}
}

// Record inserts one pending notification row.
func (n *NotificationService) Record(ctx context.Context, appointmentID, recipientID string, typ entities.NotificationType, message string) error {
	row := entities.AppointmentNotification{
		ID:            uuid.New().String(),
		AppointmentID: appointmentID,
		RecipientID:   recipientID,
		Type:          typ,
		Status:        entities.NotificationStatusPending,
		Message:       message,
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}
	_, err := n.db.NamedExecContext(ctx, `
		INSERT INTO appointment_notifications
			(id, appointment_id, recipient_id, notification_type, status, message, created_at, updated_at)
		VALUES
			(:id, :appointment_id, :recipient_id, :notification_type, :status, :message, :created_at, :updated_at)`,
		row)
	if err != nil {
		return fmt.Errorf("failed to insert notification: %w", err)
	}
	return nil
}

// ListPending returns undelivered notifications, oldest first, for delivery
// workers to drain.
func (n *NotificationService) ListPending(ctx context.Context, limit int) ([]*entities.AppointmentNotification, error) {
	var rows []*entities.AppointmentNotification
	err := n.db.SelectContext(ctx, &rows, `
		SELECT id, appointment_id, recipient_id, notification_type, status, message, created_at, updated_at
		FROM appointment_notifications
		WHERE status = $1
		ORDER BY created_at ASC
		LIMIT $2`,
		entities.NotificationStatusPending, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending notifications: %w", err)
	}
	return rows, nil
}

// MarkDelivered flips a notification row to sent (or failed).
func (n *NotificationService) MarkDelivered(ctx context.Context, id string, status entities.NotificationStatus) error {
	_, err := n.db.ExecContext(ctx, `
		UPDATE appointment_notifications
		SET status = $1, updated_at = $2
		WHERE id = $3`,
		status, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to update notification %s: %w", id, err)
	}
	return nil
}
