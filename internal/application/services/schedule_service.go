package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/appointly/appointly-api/internal/domain/entities"
	"github.com/appointly/appointly-api/internal/domain/providers"
	"github.com/appointly/appointly-api/internal/domain/repositories"
	"github.com/appointly/appointly-api/internal/scheduling"
	apperrors "github.com/appointly/appointly-api/pkg/errors"
)

// ScheduleService manages provider working-hours records. Rows become
// immutable once their window has started or their day has passed.
type ScheduleService struct {
	scheduleRepo    repositories.ScheduleRepository
	providerRepo    repositories.ProviderRepository
	appointmentRepo repositories.AppointmentRepository
	eventBus        providers.EventBus
	audit           *AuditService
	now             func() time.Time
	logger          zerolog.Logger
}

// NewScheduleService creates a new schedule service. eventBus and audit may
// be nil. now may be nil, in which case the wall clock is used.
func NewScheduleService(
	scheduleRepo repositories.ScheduleRepository,
	providerRepo repositories.ProviderRepository,
	appointmentRepo repositories.AppointmentRepository,
	eventBus providers.EventBus,
	audit *AuditService,
	now func() time.Time,
	logger zerolog.Logger,
) *ScheduleService {
	if now == nil {
		now = time.Now
	}
	return &ScheduleService{
		scheduleRepo:    scheduleRepo,
		providerRepo:    providerRepo,
		appointmentRepo: appointmentRepo,
		eventBus:        eventBus,
		audit:           audit,
		now:             now,
		logger:          logger,
	}
}

// Create adds a working-hours row for one date. Past dates are rejected
// outright; a date that already has a row is a conflict.
func (s *ScheduleService) Create(ctx context.Context, actor entities.Actor, providerID, date, openTime, closeTime string) (*entities.WorkingHours, error) {
	provider, err := s.providerRepo.GetByID(ctx, providerID)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeOwner(actor, provider); err != nil {
		return nil, err
	}

	now := s.now()
	day, err := scheduling.ParseISODate(date, now.Location())
	if err != nil {
		return nil, err
	}
	if day.Before(scheduling.DayOf(now)) {
		return nil, apperrors.NewValidationError("cannot create working hours for a past date", nil)
	}
	if err := validateWindow(openTime, closeTime); err != nil {
		return nil, err
	}

	if _, err := s.scheduleRepo.GetByProviderAndDate(ctx, providerID, day); err == nil {
		return nil, apperrors.NewConflictError(fmt.Sprintf("working hours already exist for %s", date))
	} else if !apperrors.IsType(err, apperrors.ErrorTypeNotFound) {
		return nil, err
	}

	hours := &entities.WorkingHours{
		ID:         uuid.New().String(),
		ProviderID: providerID,
		Date:       day,
		OpenTime:   openTime,
		CloseTime:  closeTime,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.scheduleRepo.Create(ctx, hours); err != nil {
		return nil, err
	}

	s.dispatchScheduleUpdated(ctx, actor, providerID, hours.ID, "created "+date)
	return hours, nil
}

// CopyToDates creates the same open/close window on many dates at once.
// Past dates and dates that already have a row are skipped silently, making
// the operation idempotent. Returns the number of rows actually created.
func (s *ScheduleService) CopyToDates(ctx context.Context, actor entities.Actor, providerID string, dates []string, openTime, closeTime string) (int, error) {
	provider, err := s.providerRepo.GetByID(ctx, providerID)
	if err != nil {
		return 0, err
	}
	if err := s.authorizeOwner(actor, provider); err != nil {
		return 0, err
	}
	if err := validateWindow(openTime, closeTime); err != nil {
		return 0, err
	}

	now := s.now()
	today := scheduling.DayOf(now)
	created := 0
	for _, date := range dates {
		day, err := scheduling.ParseISODate(date, now.Location())
		if err != nil {
			return created, err
		}
		if day.Before(today) {
			continue
		}
		if _, err := s.scheduleRepo.GetByProviderAndDate(ctx, providerID, day); err == nil {
			continue
		} else if !apperrors.IsType(err, apperrors.ErrorTypeNotFound) {
			return created, err
		}

		hours := &entities.WorkingHours{
			ID:         uuid.New().String(),
			ProviderID: providerID,
			Date:       day,
			OpenTime:   openTime,
			CloseTime:  closeTime,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		if err := s.scheduleRepo.Create(ctx, hours); err != nil {
			// A concurrent create for the same date is still a skip, not a
			// failure.
			if apperrors.IsType(err, apperrors.ErrorTypeConflict) {
				continue
			}
			return created, err
		}
		created++
	}

	if created > 0 {
		s.dispatchScheduleUpdated(ctx, actor, providerID, "", fmt.Sprintf("bulk-created %d days", created))
	}
	return created, nil
}

// Update changes the open/close window of an unlocked row.
func (s *ScheduleService) Update(ctx context.Context, actor entities.Actor, scheduleID, openTime, closeTime string) (*entities.WorkingHours, error) {
	hours, provider, err := s.loadOwned(ctx, actor, scheduleID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	if scheduling.IsScheduleLocked(hours, now) {
		return nil, apperrors.NewLockedError("working hours can no longer be edited once their window has started")
	}
	if err := validateWindow(openTime, closeTime); err != nil {
		return nil, err
	}

	hours.OpenTime = openTime
	hours.CloseTime = closeTime
	hours.UpdatedAt = now
	if err := s.scheduleRepo.Update(ctx, hours); err != nil {
		return nil, err
	}

	s.dispatchScheduleUpdated(ctx, actor, provider.ID, hours.ID, "updated "+scheduling.ISODate(hours.Date))
	return hours, nil
}

// Delete removes an unlocked row, provided no active appointments exist for
// that day.
func (s *ScheduleService) Delete(ctx context.Context, actor entities.Actor, scheduleID string) error {
	hours, provider, err := s.loadOwned(ctx, actor, scheduleID)
	if err != nil {
		return err
	}

	now := s.now()
	if scheduling.IsScheduleLocked(hours, now) {
		return apperrors.NewLockedError("working hours can no longer be deleted once their window has started")
	}

	active, err := s.appointmentRepo.CountActiveForDay(ctx, provider.ID, hours.Date)
	if err != nil {
		return err
	}
	if active > 0 {
		return apperrors.NewConflictError(fmt.Sprintf(
			"%d active appointments exist on %s", active, scheduling.ISODate(hours.Date)))
	}

	if err := s.scheduleRepo.Delete(ctx, scheduleID); err != nil {
		return err
	}

	s.dispatchScheduleUpdated(ctx, actor, provider.ID, hours.ID, "deleted "+scheduling.ISODate(hours.Date))
	return nil
}

// ListWeek returns a provider's working hours for the week containing
// weekStart, for the provider's own management view.
func (s *ScheduleService) ListWeek(ctx context.Context, actor entities.Actor, providerID, weekStart string) ([]*entities.WorkingHours, error) {
	provider, err := s.providerRepo.GetByID(ctx, providerID)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeOwner(actor, provider); err != nil {
		return nil, err
	}

	now := s.now()
	monday := scheduling.StartOfWeek(now)
	if weekStart != "" {
		requested, err := scheduling.ParseISODate(weekStart, now.Location())
		if err != nil {
			return nil, err
		}
		monday = scheduling.StartOfWeek(requested)
	}
	return s.scheduleRepo.ListByProviderRange(ctx, providerID, monday, monday.AddDate(0, 0, 7))
}

func (s *ScheduleService) loadOwned(ctx context.Context, actor entities.Actor, scheduleID string) (*entities.WorkingHours, *entities.Provider, error) {
	hours, err := s.scheduleRepo.GetByID(ctx, scheduleID)
	if err != nil {
		return nil, nil, err
	}
	provider, err := s.providerRepo.GetByID(ctx, hours.ProviderID)
	if err != nil {
		return nil, nil, err
	}
	if err := s.authorizeOwner(actor, provider); err != nil {
		return nil, nil, err
	}
	return hours, provider, nil
}

func (s *ScheduleService) authorizeOwner(actor entities.Actor, provider *entities.Provider) error {
	if actor.IsAdmin() {
		return nil
	}
	if actor.IsProvider() && provider.OwnerID == actor.ID {
		return nil
	}
	return apperrors.NewForbiddenError("only the provider owner can manage this schedule")
}

func validateWindow(openTime, closeTime string) error {
	open, err := scheduling.ToMinutes(openTime)
	if err != nil {
		return err
	}
	closeMins, err := scheduling.ToMinutes(closeTime)
	if err != nil {
		return err
	}
	if open >= closeMins {
		return apperrors.NewValidationError("open time must be before close time", nil)
	}
	return nil
}

func (s *ScheduleService) dispatchScheduleUpdated(ctx context.Context, actor entities.Actor, providerID, scheduleID, details string) {
	if s.eventBus != nil {
		event := &entities.BookingEvent{
			ID:         uuid.New().String(),
			Type:       entities.EventScheduleUpdated,
			ProviderID: providerID,
			ActorID:    actor.ID,
			Payload:    map[string]string{"details": details},
			OccurredAt: s.now(),
		}
		if err := s.eventBus.Publish(ctx, event); err != nil {
			s.logger.Warn().Err(err).Str("provider_id", providerID).Msg("failed to publish schedule event")
		}
	}
	if s.audit != nil {
		if err := s.audit.Record(ctx, actor.ID, entities.EventScheduleUpdated, "working_hours", scheduleID, details); err != nil {
			s.logger.Warn().Err(err).Str("provider_id", providerID).Msg("failed to record audit entry")
		}
	}
}
