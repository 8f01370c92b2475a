package services

import (
	"context"
	"fmt"
	"time"

	"github.com/appointly/appointly-api/internal/domain/entities"
	"github.com/appointly/appointly-api/internal/domain/repositories"
	"github.com/appointly/appointly-api/internal/scheduling"
	apperrors "github.com/appointly/appointly-api/pkg/errors"
)

// AvailabilityService computes per-slot availability views. It is strictly
// read-only; admission control lives in BookingService.
type AvailabilityService struct {
	providerRepo    repositories.ProviderRepository
	scheduleRepo    repositories.ScheduleRepository
	appointmentRepo repositories.AppointmentRepository
	now             func() time.Time
}

// NewAvailabilityService creates a new availability service. now may be nil,
// in which case the wall clock is used.
func NewAvailabilityService(
	providerRepo repositories.ProviderRepository,
	scheduleRepo repositories.ScheduleRepository,
	appointmentRepo repositories.AppointmentRepository,
	now func() time.Time,
) *AvailabilityService {
	if now == nil {
		now = time.Now
	}
	return &AvailabilityService{
		providerRepo:    providerRepo,
		scheduleRepo:    scheduleRepo,
		appointmentRepo: appointmentRepo,
		now:             now,
	}
}

// ComputeWeek returns the 7-day slot view for the week containing weekStart
// ("YYYY-MM-DD", empty means the current week). viewerID, when non-empty,
// lets the viewer's own bookings surface as "user-booked" instead of
// "booked".
func (s *AvailabilityService) ComputeWeek(ctx context.Context, providerID, weekStart, viewerID string) (*entities.WeekSlots, error) {
	provider, err := s.providerRepo.GetByID(ctx, providerID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	currentMonday := scheduling.StartOfWeek(now)

	monday := currentMonday
	if weekStart != "" {
		requested, err := scheduling.ParseISODate(weekStart, now.Location())
		if err != nil {
			return nil, err
		}
		monday = scheduling.StartOfWeek(requested)
	}

	if monday.Before(currentMonday) {
		return nil, apperrors.NewConflictError("requested week is in the past")
	}
	// Count weeks by calendar steps; a DST transition makes the wall-clock
	// distance between two Mondays differ from a whole number of weeks.
	offsetWeeks := 0
	for cursor := currentMonday.AddDate(0, 0, 7); !cursor.After(monday); cursor = cursor.AddDate(0, 0, 7) {
		offsetWeeks++
	}
	if offsetWeeks > provider.BookingWindowWeeks-1 {
		return nil, apperrors.NewConflictError(
			fmt.Sprintf("requested week is outside the %d-week booking window", provider.BookingWindowWeeks))
	}

	hours, err := s.scheduleRepo.ListByProviderRange(ctx, providerID, monday, monday.AddDate(0, 0, 7))
	if err != nil {
		return nil, err
	}
	hoursByDate := make(map[string]*entities.WorkingHours, len(hours))
	for _, h := range hours {
		hoursByDate[scheduling.ISODate(h.Date)] = h
	}

	week := &entities.WeekSlots{
		ProviderID: providerID,
		WeekStart:  scheduling.ISODate(monday),
		Label:      scheduling.WeekLabel(monday),
		Days:       make([]entities.DaySlots, 0, 7),
	}
	for i := 0; i < 7; i++ {
		day := monday.AddDate(0, 0, i)
		daySlots, err := s.buildDay(ctx, provider, day, hoursByDate[scheduling.ISODate(day)], viewerID, now)
		if err != nil {
			return nil, err
		}
		week.Days = append(week.Days, daySlots)
	}
	return week, nil
}

// ComputeDay returns the slot view for a single date. Kept for the
// day-oriented slots endpoint that predates the weekly view.
func (s *AvailabilityService) ComputeDay(ctx context.Context, providerID, date, viewerID string) (*entities.DaySlots, error) {
	provider, err := s.providerRepo.GetByID(ctx, providerID)
	if err != nil {
		return nil, err
	}
	now := s.now()
	day, err := scheduling.ParseISODate(date, now.Location())
	if err != nil {
		return nil, err
	}

	hours, err := s.scheduleRepo.GetByProviderAndDate(ctx, providerID, day)
	if err != nil && !apperrors.IsType(err, apperrors.ErrorTypeNotFound) {
		return nil, err
	}

	daySlots, err := s.buildDay(ctx, provider, day, hours, viewerID, now)
	if err != nil {
		return nil, err
	}
	return &daySlots, nil
}

// buildDay assembles the slot list for one calendar day. A missing
// working-hours row means a closed day, not an error. A row whose window is
// empty or inverted yields no bookable slots.
func (s *AvailabilityService) buildDay(ctx context.Context, provider *entities.Provider, day time.Time, hours *entities.WorkingHours, viewerID string, now time.Time) (entities.DaySlots, error) {
	daySlots := entities.DaySlots{
		Date:      scheduling.ISODate(day),
		DayOfWeek: day.Format("Monday"),
		Slots:     []entities.Slot{},
	}
	if hours == nil {
		daySlots.Closed = true
		return daySlots, nil
	}

	open, errOpen := scheduling.ToMinutes(hours.OpenTime)
	closeMins, errClose := scheduling.ToMinutes(hours.CloseTime)
	if errOpen != nil || errClose != nil || open >= closeMins {
		daySlots.Closed = true
		return daySlots, nil
	}

	starts := scheduling.GenerateSlots(open, closeMins, provider.SlotInterval)
	if len(starts) == 0 {
		return daySlots, nil
	}

	appointments, err := s.appointmentRepo.ListActiveForDay(ctx, provider.ID, day)
	if err != nil {
		return entities.DaySlots{}, err
	}
	busy := scheduling.BusySpans(appointments)

	for _, start := range starts {
		slotSpan := scheduling.Span{Start: start, End: start + provider.SlotInterval}

		status := entities.SlotStatusAvailable
		if scheduling.At(day, start).Before(now) {
			status = entities.SlotStatusPast
		} else {
			occupied, mine := false, false
			for _, b := range busy {
				if slotSpan.Overlaps(b.Span) {
					occupied = true
					if viewerID != "" && b.CustomerID == viewerID {
						mine = true
					}
				}
			}
			if mine {
				status = entities.SlotStatusUserBooked
			} else if occupied {
				status = entities.SlotStatusBooked
			}
		}

		daySlots.Slots = append(daySlots.Slots, entities.Slot{
			Time:   scheduling.FromMinutes(start),
			Status: status,
		})
	}
	return daySlots, nil
}
