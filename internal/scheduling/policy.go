package scheduling

import (
	"time"

	"github.com/appointly/appointly-api/internal/domain/entities"
)

// CanCustomerCancel reports whether a customer may still self-cancel the
// appointment at the given moment. Allowed iff the appointment is not
// already cancelled and the remaining lead time is at least the provider's
// configured window. The boundary is inclusive: exactly cancellationHours
// of lead time still permits cancellation.
func CanCustomerCancel(a *entities.Appointment, p *entities.Provider, now time.Time) bool {
	if a.Status == entities.AppointmentStatusCancelled {
		return false
	}
	return a.StartTime.Sub(now) >= p.CancellationLeadTime()
}

// IsScheduleLocked reports whether a working-hours row may no longer be
// edited or deleted. A row is locked once its calendar day has passed, or
// on the day itself once the open time has been reached. A row with an
// unparseable open time is treated as locked; a malformed row that has
// already taken effect must not become editable by accident.
func IsScheduleLocked(h *entities.WorkingHours, now time.Time) bool {
	day := DayOf(h.Date)
	today := DayOf(now)
	if day.Before(today) {
		return true
	}
	if !day.Equal(today) {
		return false
	}
	open, err := ToMinutes(h.OpenTime)
	if err != nil {
		return true
	}
	return MinuteOf(now) >= open
}
