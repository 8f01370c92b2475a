package scheduling

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/appointly/appointly-api/internal/domain/entities"
)

func TestSpanOverlaps(t *testing.T) {
	a := Span{Start: 540, End: 600} // 09:00-10:00

	assert.True(t, a.Overlaps(Span{Start: 570, End: 630}))
	assert.True(t, a.Overlaps(Span{Start: 500, End: 541}))
	assert.True(t, a.Overlaps(Span{Start: 550, End: 560}))

	// Half-open semantics: back-to-back intervals do not overlap.
	assert.False(t, a.Overlaps(Span{Start: 600, End: 660}))
	assert.False(t, a.Overlaps(Span{Start: 480, End: 540}))
	assert.False(t, a.Overlaps(Span{Start: 700, End: 730}))
}

func TestSpanContains(t *testing.T) {
	day := Span{Start: 540, End: 1020} // 09:00-17:00
	assert.True(t, day.Contains(Span{Start: 540, End: 600}))
	assert.True(t, day.Contains(Span{Start: 990, End: 1020}))
	assert.False(t, day.Contains(Span{Start: 990, End: 1021}))
	assert.False(t, day.Contains(Span{Start: 539, End: 600}))
}

func TestBusySpansSkipsInactive(t *testing.T) {
	day := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	appts := []*entities.Appointment{
		{CustomerID: "c1", StartTime: At(day, 540), DurationMinutes: 30, Status: entities.AppointmentStatusConfirmed},
		{CustomerID: "c2", StartTime: At(day, 600), DurationMinutes: 60, Status: entities.AppointmentStatusCancelled},
		{CustomerID: "c3", StartTime: At(day, 720), DurationMinutes: 45, Status: entities.AppointmentStatusPending},
	}

	busy := BusySpans(appts)
	assert.Len(t, busy, 2)
	assert.Equal(t, BusySpan{Span: Span{Start: 540, End: 570}, CustomerID: "c1"}, busy[0])
	assert.Equal(t, BusySpan{Span: Span{Start: 720, End: 765}, CustomerID: "c3"}, busy[1])
}

func TestAnyOverlap(t *testing.T) {
	busy := []BusySpan{
		{Span: Span{Start: 540, End: 570}},
		{Span: Span{Start: 660, End: 720}},
	}
	assert.True(t, AnyOverlap(Span{Start: 560, End: 590}, busy))
	assert.False(t, AnyOverlap(Span{Start: 570, End: 660}, busy))
	assert.False(t, AnyOverlap(Span{Start: 720, End: 780}, busy))
}
