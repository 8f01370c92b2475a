package scheduling

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToMinutes(t *testing.T) {
	cases := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"00:00", 0, false},
		{"09:00", 540, false},
		{"09:30", 570, false},
		{"23:59", 1439, false},
		{"24:00", 0, true},
		{"09:60", 0, true},
		{"9", 0, true},
		{"", 0, true},
		{"ab:cd", 0, true},
	}
	for _, tc := range cases {
		got, err := ToMinutes(tc.in)
		if tc.wantErr {
			assert.Error(t, err, "input %q", tc.in)
			continue
		}
		require.NoError(t, err, "input %q", tc.in)
		assert.Equal(t, tc.want, got, "input %q", tc.in)
	}
}

func TestFromMinutes(t *testing.T) {
	assert.Equal(t, "00:00", FromMinutes(0))
	assert.Equal(t, "09:05", FromMinutes(545))
	assert.Equal(t, "17:30", FromMinutes(1050))
}

func TestToMinutesFromMinutesRoundTrip(t *testing.T) {
	for mins := 0; mins < 24*60; mins += 7 {
		back, err := ToMinutes(FromMinutes(mins))
		require.NoError(t, err)
		assert.Equal(t, mins, back)
	}
}

func TestGenerateSlots(t *testing.T) {
	// 09:00-12:00 at 30 min yields six starts, close excluded.
	slots := GenerateSlots(540, 720, 30)
	assert.Equal(t, []int{540, 570, 600, 630, 660, 690}, slots)

	// Interval not dividing the window evenly: last slot may run past close,
	// but its start is still before close.
	slots = GenerateSlots(540, 650, 60)
	assert.Equal(t, []int{540, 600}, slots)

	// Empty and inverted windows produce no slots.
	assert.Empty(t, GenerateSlots(600, 600, 30))
	assert.Empty(t, GenerateSlots(700, 600, 30))

	// Degenerate interval must not spin forever.
	assert.Empty(t, GenerateSlots(540, 720, 0))
}

func TestStartOfWeek(t *testing.T) {
	loc := time.UTC
	// 2026-01-07 is a Wednesday; its week starts Monday 2026-01-05.
	wed := time.Date(2026, 1, 7, 15, 30, 0, 0, loc)
	assert.Equal(t, time.Date(2026, 1, 5, 0, 0, 0, 0, loc), StartOfWeek(wed))

	// Sunday belongs to the week that started the previous Monday.
	sun := time.Date(2026, 1, 11, 8, 0, 0, 0, loc)
	assert.Equal(t, time.Date(2026, 1, 5, 0, 0, 0, 0, loc), StartOfWeek(sun))

	// A Monday is its own week start.
	mon := time.Date(2026, 1, 5, 23, 59, 0, 0, loc)
	assert.Equal(t, time.Date(2026, 1, 5, 0, 0, 0, 0, loc), StartOfWeek(mon))
}

func TestAtAndMinuteOf(t *testing.T) {
	day := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	at := At(day, 570)
	assert.Equal(t, 9, at.Hour())
	assert.Equal(t, 30, at.Minute())
	assert.Equal(t, 570, MinuteOf(at))
}

func TestParseISODate(t *testing.T) {
	d, err := ParseISODate("2026-02-14", time.UTC)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 2, 14, 0, 0, 0, 0, time.UTC), d)

	_, err = ParseISODate("14/02/2026", time.UTC)
	assert.Error(t, err)
}

func TestWeekLabel(t *testing.T) {
	assert.Equal(t, "Jan 5 - Jan 11, 2026", WeekLabel(time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "Dec 29, 2025 - Jan 4, 2026", WeekLabel(time.Date(2025, 12, 29, 0, 0, 0, 0, time.UTC)))
}
