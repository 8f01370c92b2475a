package scheduling

import (
	"github.com/appointly/appointly-api/internal/domain/entities"
)

// Span is a half-open [Start, End) interval in minutes since midnight.
type Span struct {
	Start int
	End   int
}

// Overlaps reports whether two half-open spans intersect. Back-to-back
// spans (one ending exactly where the other starts) do not overlap.
func (s Span) Overlaps(o Span) bool {
	return s.Start < o.End && o.Start < s.End
}

// Contains reports whether o lies entirely within s.
func (s Span) Contains(o Span) bool {
	return s.Start <= o.Start && o.End <= s.End
}

// BusySpan is an occupied span annotated with who booked it.
type BusySpan struct {
	Span
	CustomerID string
}

// BusySpans projects active appointments onto their occupied minute spans.
// Cancelled and completed appointments are skipped.
func BusySpans(appointments []*entities.Appointment) []BusySpan {
	var busy []BusySpan
	for _, a := range appointments {
		if !a.Status.IsActive() {
			continue
		}
		start := MinuteOf(a.StartTime)
		busy = append(busy, BusySpan{
			Span:       Span{Start: start, End: start + a.DurationMinutes},
			CustomerID: a.CustomerID,
		})
	}
	return busy
}

// AnyOverlap reports whether span intersects any busy span.
func AnyOverlap(span Span, busy []BusySpan) bool {
	for _, b := range busy {
		if span.Overlaps(b.Span) {
			return true
		}
	}
	return false
}
