package parse

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// ClockLayout is the wall-clock layout alarms are stored and matched in.
const ClockLayout = "15:04"

var (
	// ErrMalformedClock is returned when a value is not two ':'-separated integers.
	ErrMalformedClock = errors.New("malformed clock value")
	// ErrClockOutOfRange is returned when the hour or minute is outside the day.
	ErrClockOutOfRange = errors.New("clock value out of range")
)

var numRe = regexp.MustCompile(`^[+-]?\d+$`)

// Clock is a minute-resolution time of day.
type Clock struct {
	Hour   int
	Minute int
}

// String renders the clock zero-padded, e.g. "07:05".
func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

// ParseClock parses an "H:M" or "HH:MM" value. Surrounding whitespace on each
// part is ignored.
func ParseClock(raw string) (Clock, error) {
	parts := strings.Split(raw, ":")
	if len(parts) != 2 {
		return Clock{}, fmt.Errorf("%w: %q", ErrMalformedClock, raw)
	}

	hour, err := parsePart(parts[0])
	if err != nil {
		return Clock{}, fmt.Errorf("%w: %q", err, raw)
	}
	minute, err := parsePart(parts[1])
	if err != nil {
		return Clock{}, fmt.Errorf("%w: %q", err, raw)
	}

	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return Clock{}, fmt.Errorf("%w: %q", ErrClockOutOfRange, raw)
	}
	return Clock{Hour: hour, Minute: minute}, nil
}

func parsePart(s string) (int, error) {
	s = strings.TrimSpace(s)
	if !numRe.MatchString(s) {
		return 0, ErrMalformedClock
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		// Only overflow can fail here; it is a number, just not one on a clock face.
		return 0, ErrClockOutOfRange
	}
	return n, nil
}

// FormatClock truncates t to the minute and renders it as HH:MM.
func FormatClock(t time.Time) string {
	return t.Format(ClockLayout)
}
