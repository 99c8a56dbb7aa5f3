package clock

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	// MinutesPerHour is the number of minutes in an hour
	MinutesPerHour = 60
	// MinutesPerDay is the number of minutes in a day
	MinutesPerDay = 24 * MinutesPerHour
)

// Format renders minutes since midnight in 24 hour "HH:MM" form.
// Values past midnight wrap, so 1450 renders as "00:10".
func Format(minutes int) string {
	m := Wrap(minutes)
	return fmt.Sprintf("%02d:%02d", m/MinutesPerHour, m%MinutesPerHour)
}

// Parse reads a 24 hour "HH:MM" string into minutes since midnight
func Parse(s string) (int, error) {
	hh, mm, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok || len(mm) != 2 {
		return 0, fmt.Errorf("clock: invalid time %q", s)
	}
	hours, err := strconv.Atoi(hh)
	if err != nil || hours < 0 || hours > 23 {
		return 0, fmt.Errorf("clock: invalid hour in %q", s)
	}
	mins, err := strconv.Atoi(mm)
	if err != nil || mins < 0 || mins > 59 {
		return 0, fmt.Errorf("clock: invalid minute in %q", s)
	}
	return hours*MinutesPerHour + mins, nil
}

// Wrap reduces minutes into [0, MinutesPerDay)
func Wrap(minutes int) int {
	m := minutes % MinutesPerDay
	if m < 0 {
		m += MinutesPerDay
	}
	return m
}

// Between returns the forward distance in minutes from start to end on a 24 hour dial
func Between(start, end int) int {
	return Wrap(end - start)
}
