package domain

import (
	"fmt"
	"regexp"
	"strconv"
)

var clockPattern = regexp.MustCompile(`^(\d{1,2}):(\d{2})$`)

// Clock is a validated time of day.
type Clock struct {
	Hour   int
	Minute int
}

// String formats the clock as zero-padded "HH:MM".
func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

// Minutes returns minutes since midnight.
func (c Clock) Minutes() int {
	return c.Hour*60 + c.Minute
}

// ParseClock parses "H:MM" or "HH:MM" in 24-hour form.
func ParseClock(s string) (Clock, error) {
	m := clockPattern.FindStringSubmatch(s)
	if m == nil {
		return Clock{}, fmt.Errorf("time %q must be HH:MM", s)
	}
	h, _ := strconv.Atoi(m[1])
	min, _ := strconv.Atoi(m[2])
	if h > 23 || min > 59 {
		return Clock{}, fmt.Errorf("time %q out of range", s)
	}
	return Clock{Hour: h, Minute: min}, nil
}

// ClockOrNil returns the parsed clock, or nil when s is empty or invalid.
// Readers that need a duration treat invalid times as absent.
func ClockOrNil(s string) *Clock {
	c, err := ParseClock(s)
	if err != nil {
		return nil
	}
	return &c
}

// ValidClock reports whether s is a valid "HH:MM" time.
func ValidClock(s string) bool {
	_, err := ParseClock(s)
	return err == nil
}
