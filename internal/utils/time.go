package utils

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/julianstephens/shiftwake/internal/constants"
)

// ErrInvalidTime is returned for strings that are not a 24-hour HH:MM value.
var ErrInvalidTime = errors.New("invalid time (expected HH:MM)")

// TimeToMinutes parses a time string (HH:MM) and returns the number of minutes from midnight.
func TimeToMinutes(timeStr string) (int, error) {
	parts := strings.Split(timeStr, ":")
	if len(parts) != 2 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTime, timeStr)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTime, timeStr)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTime, timeStr)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, fmt.Errorf("%w: %q out of range", ErrInvalidTime, timeStr)
	}
	return h*60 + m, nil
}

// NormalizeMinutes folds a minute value into [0, 1440). Negative values wrap
// backwards past midnight, values of a day or more wrap forwards.
func NormalizeMinutes(totalMinutes int) int {
	return (totalMinutes%constants.MinutesPerDay + constants.MinutesPerDay) % constants.MinutesPerDay
}

// MinutesToTime formats any minute value as a zero-padded HH:MM time of day.
// Which day the value belonged to is not retained.
func MinutesToTime(totalMinutes int) string {
	mins := NormalizeMinutes(totalMinutes)
	return fmt.Sprintf("%02d:%02d", mins/60, mins%60)
}

// LoadLocation loads a timezone location from an IANA timezone name.
// If the timezone is "Local" or empty, it returns the system's local timezone.
func LoadLocation(timezone string) (*time.Location, error) {
	if timezone == "" || timezone == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(timezone)
}

// NowInTimezone returns the current time in the specified timezone.
func NowInTimezone(timezone string) (time.Time, error) {
	loc, err := LoadLocation(timezone)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timezone %q: %w", timezone, err)
	}
	return time.Now().In(loc), nil
}

// ValidateTimeFormat checks if the string is a zero-padded 24-hour HH:MM time.
func ValidateTimeFormat(timeStr string) bool {
	if len(timeStr) != len(constants.TimeFormat) {
		return false
	}
	_, err := TimeToMinutes(timeStr)
	return err == nil
}

// ValidateTimezone checks if the timezone name is valid.
func ValidateTimezone(timezone string) bool {
	if timezone == "" || timezone == "Local" {
		return true
	}
	_, err := time.LoadLocation(timezone)
	return err == nil
}

// AtMinutes returns the instant at the given minute offset from midnight of
// base's calendar day. Negative offsets fall on the previous day.
func AtMinutes(base time.Time, minutes int) time.Time {
	return time.Date(base.Year(), base.Month(), base.Day(), minutes/60, minutes%60, 0, 0, base.Location())
}
