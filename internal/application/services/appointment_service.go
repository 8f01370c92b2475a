package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/appointly/appointly-api/internal/domain/entities"
	"github.com/appointly/appointly-api/internal/domain/providers"
	"github.com/appointly/appointly-api/internal/domain/repositories"
	"github.com/appointly/appointly-api/internal/scheduling"
	apperrors "github.com/appointly/appointly-api/pkg/errors"
)

// AppointmentService handles the lifecycle of existing appointments:
// cancellation, status transitions, and listing. Creation is BookingService's
// job.
type AppointmentService struct {
	appointmentRepo repositories.AppointmentRepository
	providerRepo    repositories.ProviderRepository
	eventBus        providers.EventBus
	notifications   *NotificationService
	audit           *AuditService
	now             func() time.Time
	logger          zerolog.Logger
}

// NewAppointmentService creates a new appointment service. eventBus,
// notifications and audit may be nil. now may be nil, in which case the wall
// clock is used.
func NewAppointmentService(
	appointmentRepo repositories.AppointmentRepository,
	providerRepo repositories.ProviderRepository,
	eventBus providers.EventBus,
	notifications *NotificationService,
	audit *AuditService,
	now func() time.Time,
	logger zerolog.Logger,
) *AppointmentService {
	if now == nil {
		now = time.Now
	}
	return &AppointmentService{
		appointmentRepo: appointmentRepo,
		providerRepo:    providerRepo,
		eventBus:        eventBus,
		notifications:   notifications,
		audit:           audit,
		now:             now,
		logger:          logger,
	}
}

// Get returns one appointment, visible only to its customer, its provider's
// owner, or an admin.
func (s *AppointmentService) Get(ctx context.Context, actor entities.Actor, id string) (*entities.Appointment, error) {
	appointment, err := s.appointmentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(ctx, actor, appointment); err != nil {
		return nil, err
	}
	return appointment, nil
}

// List returns the appointments visible to the actor: admins see everything,
// customers their own bookings, provider owners their provider's bookings.
func (s *AppointmentService) List(ctx context.Context, actor entities.Actor) ([]*entities.Appointment, error) {
	switch {
	case actor.IsAdmin():
		return s.appointmentRepo.ListAll(ctx)
	case actor.IsCustomer():
		return s.appointmentRepo.ListByCustomer(ctx, actor.ID)
	case actor.IsProvider():
		provider, err := s.providerRepo.GetByOwnerID(ctx, actor.ID)
		if err != nil {
			return nil, err
		}
		return s.appointmentRepo.ListByProvider(ctx, provider.ID)
	default:
		return nil, apperrors.NewForbiddenError("unknown actor role")
	}
}

// Cancel cancels an appointment. Customers may cancel their own bookings
// while outside the provider's lead-time window; provider owners may cancel
// any time but must give a reason; admins may always cancel. Cancellation
// never deletes the row.
func (s *AppointmentService) Cancel(ctx context.Context, actor entities.Actor, id, reason string) (*entities.Appointment, error) {
	appointment, err := s.appointmentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if appointment.Status == entities.AppointmentStatusCancelled {
		return nil, apperrors.NewConflictError("appointment is already cancelled")
	}

	provider, err := s.providerRepo.GetByID(ctx, appointment.ProviderID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	reason = strings.TrimSpace(reason)

	switch {
	case actor.IsAdmin():
		// Admins bypass the lead-time rule.
	case actor.IsCustomer():
		if actor.ID != appointment.CustomerID {
			return nil, apperrors.NewForbiddenError("you can only cancel your own appointments")
		}
		if !scheduling.CanCustomerCancel(appointment, provider, now) {
			return nil, apperrors.NewForbiddenError(fmt.Sprintf(
				"cancellation requires at least %.1f hours notice", provider.CancellationHours))
		}
	case actor.IsProvider():
		if provider.OwnerID != actor.ID {
			return nil, apperrors.NewForbiddenError("you can only cancel appointments for your own business")
		}
		if reason == "" {
			return nil, apperrors.NewValidationError("a cancellation reason is required", nil)
		}
	default:
		return nil, apperrors.NewForbiddenError("unknown actor role")
	}

	appointment.Status = entities.AppointmentStatusCancelled
	appointment.CancellationReason = reason
	appointment.UpdatedAt = now
	if err := s.appointmentRepo.Update(ctx, appointment); err != nil {
		return nil, err
	}

	s.dispatchChange(ctx, actor, appointment, provider, entities.EventBookingCancelled,
		entities.NotificationBookingCancelled,
		fmt.Sprintf("Booking for %s was cancelled", appointment.StartTime.Format("2006-01-02 15:04")))
	return appointment, nil
}

// Allowed status transitions. Cancellation is handled by Cancel so the
// policy checks there always apply.
var statusEdges = map[entities.AppointmentStatus][]entities.AppointmentStatus{
	entities.AppointmentStatusPending:   {entities.AppointmentStatusConfirmed, entities.AppointmentStatusCancelled},
	entities.AppointmentStatusConfirmed: {entities.AppointmentStatusCancelled, entities.AppointmentStatusCompleted},
}

// SetStatus transitions an appointment along a permitted edge. Transitions
// to cancelled delegate to Cancel.
func (s *AppointmentService) SetStatus(ctx context.Context, actor entities.Actor, id, newStatus string) (*entities.Appointment, error) {
	status, ok := entities.ParseAppointmentStatus(newStatus)
	if !ok || status == entities.AppointmentStatusPending {
		return nil, apperrors.NewValidationError(fmt.Sprintf("invalid target status %q", newStatus), nil)
	}

	appointment, err := s.appointmentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(ctx, actor, appointment); err != nil {
		return nil, err
	}

	if !edgeAllowed(appointment.Status, status) {
		return nil, apperrors.NewConflictError(fmt.Sprintf(
			"cannot transition appointment from %s to %s", appointment.Status, status))
	}
	if status == entities.AppointmentStatusCancelled {
		return s.Cancel(ctx, actor, id, "")
	}

	provider, err := s.providerRepo.GetByID(ctx, appointment.ProviderID)
	if err != nil {
		return nil, err
	}

	appointment.Status = status
	appointment.UpdatedAt = s.now()
	if err := s.appointmentRepo.Update(ctx, appointment); err != nil {
		return nil, err
	}

	s.dispatchChange(ctx, actor, appointment, provider, entities.EventBookingStatusChanged,
		entities.NotificationStatusChanged,
		fmt.Sprintf("Booking for %s is now %s", appointment.StartTime.Format("2006-01-02 15:04"), status))
	return appointment, nil
}

func edgeAllowed(from, to entities.AppointmentStatus) bool {
	for _, allowed := range statusEdges[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// authorize rejects actors with no claim on the appointment.
func (s *AppointmentService) authorize(ctx context.Context, actor entities.Actor, a *entities.Appointment) error {
	switch {
	case actor.IsAdmin():
		return nil
	case actor.IsCustomer():
		if actor.ID == a.CustomerID {
			return nil
		}
	case actor.IsProvider():
		provider, err := s.providerRepo.GetByID(ctx, a.ProviderID)
		if err != nil {
			return err
		}
		if provider.OwnerID == actor.ID {
			return nil
		}
	}
	return apperrors.NewForbiddenError("you do not have access to this appointment")
}

// dispatchChange emits event, notification and audit side effects for a
// lifecycle change. Failures are logged and swallowed.
func (s *AppointmentService) dispatchChange(ctx context.Context, actor entities.Actor, a *entities.Appointment, p *entities.Provider, eventType string, notifType entities.NotificationType, message string) {
	if s.eventBus != nil {
		event := &entities.BookingEvent{
			ID:            uuid.New().String(),
			Type:          eventType,
			AppointmentID: a.ID,
			ProviderID:    a.ProviderID,
			CustomerID:    a.CustomerID,
			ActorID:       actor.ID,
			Payload:       map[string]string{"status": string(a.Status)},
			OccurredAt:    s.now(),
		}
		if err := s.eventBus.Publish(ctx, event); err != nil {
			s.logger.Warn().Err(err).Str("appointment_id", a.ID).Msg("failed to publish booking event")
		}
	}
	if s.notifications != nil {
		for _, recipient := range []string{a.CustomerID, p.OwnerID} {
			if recipient == actor.ID {
				continue
			}
			if err := s.notifications.Record(ctx, a.ID, recipient, notifType, message); err != nil {
				s.logger.Warn().Err(err).Str("appointment_id", a.ID).Msg("failed to record notification")
			}
		}
	}
	if s.audit != nil {
		if err := s.audit.Record(ctx, actor.ID, eventType, "appointment", a.ID, string(a.Status)); err != nil {
			s.logger.Warn().Err(err).Str("appointment_id", a.ID).Msg("failed to record audit entry")
		}
	}
}
