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

// BookingRequest carries one booking attempt.
type BookingRequest struct {
	ProviderID string
	ServiceID  string
	StartTime  time.Time
	Notes      string
}

// BookingService runs the admission-control sequence for new appointments.
// Checks run in a fixed order and the first failure wins; the overlap check
// and the insert execute under a per-provider-per-day lock so two racing
// requests can never both be admitted into intersecting intervals.
type BookingService struct {
	appointmentRepo repositories.AppointmentRepository
	scheduleRepo    repositories.ScheduleRepository
	providerRepo    repositories.ProviderRepository
	serviceRepo     repositories.ServiceRepository
	eventBus        providers.EventBus
	notifications   *NotificationService
	audit           *AuditService
	now             func() time.Time
	logger          zerolog.Logger
}

// NewBookingService creates a new booking service. eventBus, notifications
// and audit may be nil; side effects are skipped when the collaborator is
// absent. now may be nil, in which case the wall clock is used.
func NewBookingService(
	appointmentRepo repositories.AppointmentRepository,
	scheduleRepo repositories.ScheduleRepository,
	providerRepo repositories.ProviderRepository,
	serviceRepo repositories.ServiceRepository,
	eventBus providers.EventBus,
	notifications *NotificationService,
	audit *AuditService,
	now func() time.Time,
	logger zerolog.Logger,
) *BookingService {
	if now == nil {
		now = time.Now
	}
	return &BookingService{
		appointmentRepo: appointmentRepo,
		scheduleRepo:    scheduleRepo,
		providerRepo:    providerRepo,
		serviceRepo:     serviceRepo,
		eventBus:        eventBus,
		notifications:   notifications,
		audit:           audit,
		now:             now,
		logger:          logger,
	}
}

// Book attempts to create an appointment for the acting customer. On
// success the appointment is persisted with status pending and the
// booking-created side effects are dispatched best-effort.
func (s *BookingService) Book(ctx context.Context, actor entities.Actor, req BookingRequest) (*entities.Appointment, error) {
	if !actor.IsCustomer() {
		return nil, apperrors.NewForbiddenError("only customers can book appointments")
	}
	if req.ProviderID == "" || req.ServiceID == "" {
		return nil, apperrors.NewValidationError("provider_id and service_id are required", nil)
	}
	now := s.now()
	if req.StartTime.IsZero() || !req.StartTime.After(now) {
		return nil, apperrors.NewValidationError("appointment time must be in the future", nil)
	}

	provider, err := s.providerRepo.GetByID(ctx, req.ProviderID)
	if err != nil {
		return nil, err
	}

	day := scheduling.DayOf(req.StartTime)

	// Duplicate-per-day: one active booking per service per calendar day.
	existing, err := s.appointmentRepo.ListByCustomer(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	for _, a := range existing {
		if a.Status.IsActive() && a.ServiceID == req.ServiceID && scheduling.DayOf(a.StartTime).Equal(day) {
			return nil, apperrors.NewConflictError(
				fmt.Sprintf("you already have a booking for this service on %s", scheduling.ISODate(day)))
		}
	}

	service, err := s.serviceRepo.GetByID(ctx, req.ServiceID)
	if err != nil {
		return nil, err
	}

	hours, err := s.scheduleRepo.GetByProviderAndDate(ctx, req.ProviderID, day)
	if err != nil {
		if apperrors.IsType(err, apperrors.ErrorTypeNotFound) {
			return nil, apperrors.NewNotFoundError(
				fmt.Sprintf("provider has no working hours on %s", scheduling.ISODate(day)))
		}
		return nil, err
	}

	open, err := scheduling.ToMinutes(hours.OpenTime)
	if err != nil {
		return nil, err
	}
	closeMins, err := scheduling.ToMinutes(hours.CloseTime)
	if err != nil {
		return nil, err
	}
	slotStart := scheduling.MinuteOf(req.StartTime)
	requested := scheduling.Span{Start: slotStart, End: slotStart + service.DurationMinutes}
	window := scheduling.Span{Start: open, End: closeMins}
	if open >= closeMins || !window.Contains(requested) {
		return nil, apperrors.NewConflictError(fmt.Sprintf(
			"requested time %s-%s is outside working hours %s-%s",
			scheduling.FromMinutes(requested.Start), scheduling.FromMinutes(requested.End),
			hours.OpenTime, hours.CloseTime))
	}

	appointment := &entities.Appointment{
		ID:              uuid.New().String(),
		CustomerID:      actor.ID,
		ProviderID:      req.ProviderID,
		ServiceID:       req.ServiceID,
		StartTime:       req.StartTime,
		DurationMinutes: service.DurationMinutes,
		Status:          entities.AppointmentStatusPending,
		Notes:           strings.TrimSpace(req.Notes),
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	// Overlap check and insert run atomically under the provider-day lock.
	err = s.appointmentRepo.InProviderDayLock(ctx, req.ProviderID, day, func(ctx context.Context, tx repositories.AppointmentTx) error {
		active, err := tx.ListActiveForDay(ctx, req.ProviderID, day)
		if err != nil {
			return err
		}
		if scheduling.AnyOverlap(requested, scheduling.BusySpans(active)) {
			return apperrors.NewConflictError("the requested slot is already taken")
		}
		return tx.Insert(ctx, appointment)
	})
	if err != nil {
		return nil, err
	}

	s.dispatchBookingCreated(ctx, actor, appointment, provider)
	return appointment, nil
}

// dispatchBookingCreated emits the post-commit side effects. Every failure
// here is logged and swallowed; the booking already succeeded.
func (s *BookingService) dispatchBookingCreated(ctx context.Context, actor entities.Actor, a *entities.Appointment, p *entities.Provider) {
	if s.eventBus != nil {
		event := &entities.BookingEvent{
			ID:            uuid.New().String(),
			Type:          entities.EventBookingCreated,
			AppointmentID: a.ID,
			ProviderID:    a.ProviderID,
			CustomerID:    a.CustomerID,
			ActorID:       actor.ID,
			Payload: map[string]string{
				"service_id": a.ServiceID,
				"start_time": a.StartTime.Format(time.RFC3339),
			},
			OccurredAt: s.now(),
		}
		if err := s.eventBus.Publish(ctx, event); err != nil {
			s.logger.Warn().Err(err).Str("appointment_id", a.ID).Msg("failed to publish booking event")
		}
	}
	if s.notifications != nil {
		msg := fmt.Sprintf("Booking at %s confirmed pending provider approval", a.StartTime.Format("2006-01-02 15:04"))
		if err := s.notifications.Record(ctx, a.ID, a.CustomerID, entities.NotificationBookingCreated, msg); err != nil {
			s.logger.Warn().Err(err).Str("appointment_id", a.ID).Msg("failed to record customer notification")
		}
		providerMsg := fmt.Sprintf("New booking request for %s", a.StartTime.Format("2006-01-02 15:04"))
		if err := s.notifications.Record(ctx, a.ID, p.OwnerID, entities.NotificationBookingCreated, providerMsg); err != nil {
			s.logger.Warn().Err(err).Str("appointment_id", a.ID).Msg("failed to record provider notification")
		}
	}
	if s.audit != nil {
		details := fmt.Sprintf("provider=%s service=%s start=%s", a.ProviderID, a.ServiceID, a.StartTime.Format(time.RFC3339))
		if err := s.audit.Record(ctx, actor.ID, "booking.created", "appointment", a.ID, details); err != nil {
			s.logger.Warn().Err(err).Str("appointment_id", a.ID).Msg("failed to record audit entry")
		}
	}
}
