// Package scheduling holds the pure calendar and interval math used by the
// availability and booking services. Everything here is deterministic and
// free of I/O; callers inject the clock.
package scheduling

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	apperrors "github.com/appointly/appointly-api/pkg/errors"
)

// ToMinutes parses a wall-clock "HH:MM" string into minutes since midnight.
func ToMinutes(hhmm string) (int, error) {
	parts := strings.Split(hhmm, ":")
	if len(parts) != 2 {
		return 0, apperrors.NewValidationError(fmt.Sprintf("invalid time %q, expected HH:MM", hhmm), nil)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, apperrors.NewValidationError(fmt.Sprintf("invalid hour in %q", hhmm), nil)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, apperrors.NewValidationError(fmt.Sprintf("invalid minute in %q", hhmm), nil)
	}
	return h*60 + m, nil
}

// FromMinutes renders minutes since midnight as zero-padded "HH:MM".
func FromMinutes(mins int) string {
	return fmt.Sprintf("%02d:%02d", mins/60, mins%60)
}

// GenerateSlots returns every slot start between open and close, stepping by
// interval. A slot is emitted as long as its start is strictly before close;
// whether the booked service then fits before closing is checked at booking
// time, not here.
func GenerateSlots(openMins, closeMins, interval int) []int {
	if interval <= 0 {
		return nil
	}
	var starts []int
	for t := openMins; t < closeMins; t += interval {
		starts = append(starts, t)
	}
	return starts
}

// StartOfWeek returns the Monday of the ISO week containing t, truncated to
// midnight in t's location.
func StartOfWeek(t time.Time) time.Time {
	offset := int(t.Weekday()) - int(time.Monday)
	if offset < 0 {
		offset = 6 // Sunday
	}
	return DayOf(t).AddDate(0, 0, -offset)
}

// DayOf truncates t to midnight in its own location.
func DayOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// MinuteOf returns t's wall-clock position as minutes since midnight.
func MinuteOf(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}

// At places a minutes-since-midnight offset onto a calendar day.
func At(day time.Time, mins int) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), mins/60, mins%60, 0, 0, day.Location())
}

// ISODate formats a time as "YYYY-MM-DD".
func ISODate(t time.Time) string {
	return t.Format("2006-01-02")
}

// ParseISODate parses a "YYYY-MM-DD" date in the given location.
func ParseISODate(s string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation("2006-01-02", s, loc)
	if err != nil {
		return time.Time{}, apperrors.NewValidationError(fmt.Sprintf("invalid date %q, expected YYYY-MM-DD", s), err)
	}
	return t, nil
}

// WeekLabel renders a human-readable range for a week starting at monday,
// e.g. "Jan 5 - Jan 11, 2026".
func WeekLabel(monday time.Time) string {
	sunday := monday.AddDate(0, 0, 6)
	if monday.Year() == sunday.Year() {
		return fmt.Sprintf("%s - %s, %d", monday.Format("Jan 2"), sunday.Format("Jan 2"), monday.Year())
	}
	return fmt.Sprintf("%s, %d - %s, %d", monday.Format("Jan 2"), monday.Year(), sunday.Format("Jan 2"), sunday.Year())
}
