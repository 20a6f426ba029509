package models

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/julianstephens/shiftwake/internal/constants"
	"github.com/julianstephens/shiftwake/internal/utils"
)

// RestShiftID is the reserved id of the rest ("off") shift.
const RestShiftID = "off"

var (
	ErrShiftNotFound      = errors.New("shift not found")
	ErrLastShift          = errors.New("the catalog needs at least one working shift")
	ErrRestShiftProtected = errors.New("the rest shift cannot be removed")
	ErrInvalidDayIndex    = errors.New("day index must be between 0 (Monday) and 6 (Sunday)")
)

// LegacyRestNames are display names older data used to mark a rest day.
var LegacyRestNames = []string{"休", "Rest", "Off"}

// Shift is a named work period. EndTime may be earlier than StartTime for
// overnight shifts.
type Shift struct {
	ID        string `json:"id" validate:"required"`
	Name      string `json:"name" validate:"required"`
	StartTime string `json:"startTime" validate:"required,hhmm"` // HH:MM format
	EndTime   string `json:"endTime" validate:"required,hhmm"`   // HH:MM format
	Rest      bool   `json:"rest,omitempty"`
}

func (s *Shift) Validate() error {
	if err := validate.Struct(s); err != nil {
		return fmt.Errorf("invalid shift %q: %w", s.Name, err)
	}
	return nil
}

// IsOvernight reports whether the shift ends on the following calendar day.
func (s Shift) IsOvernight() bool {
	start, err := utils.TimeToMinutes(s.StartTime)
	if err != nil {
		return false
	}
	end, err := utils.TimeToMinutes(s.EndTime)
	if err != nil {
		return false
	}
	return end < start
}

// DurationMin returns the shift length in minutes, wrapping past midnight.
func (s Shift) DurationMin() (int, error) {
	start, err := utils.TimeToMinutes(s.StartTime)
	if err != nil {
		return 0, err
	}
	end, err := utils.TimeToMinutes(s.EndTime)
	if err != nil {
		return 0, err
	}
	return utils.NormalizeMinutes(end - start), nil
}

// RestPolicy decides whether a shift denotes a rest day. Identity (the Rest
// flag or the reserved id) always wins; name matching is opt-in for data
// written by older versions that only stored a display name.
type RestPolicy struct {
	ReservedID string
	MatchNames bool
	Names      []string
}

// DefaultRestPolicy uses identity-based detection only.
func DefaultRestPolicy() RestPolicy {
	return RestPolicy{ReservedID: RestShiftID, Names: LegacyRestNames}
}

func (p RestPolicy) IsRest(s Shift) bool {
	if s.Rest {
		return true
	}
	if p.ReservedID != "" && s.ID == p.ReservedID {
		return true
	}
	if p.MatchNames {
		name := strings.TrimSpace(s.Name)
		for _, n := range p.Names {
			if strings.EqualFold(name, n) {
				return true
			}
		}
	}
	return false
}

// NewShiftID returns a fresh id for a user-created shift.
func NewShiftID() string {
	return uuid.NewString()
}

// RestShift returns the canonical rest shift.
func RestShift() Shift {
	return Shift{ID: RestShiftID, Name: "Rest", StartTime: "00:00", EndTime: "00:00", Rest: true}
}

// DefaultShifts is the catalog seeded on init.
func DefaultShifts() []Shift {
	return []Shift{
		{ID: "morning", Name: "Morning", StartTime: "08:00", EndTime: "17:00"},
		{ID: "middle", Name: "Middle", StartTime: "14:00", EndTime: "22:00"},
		{ID: "night", Name: "Night", StartTime: "19:00", EndTime: "04:00"},
		RestShift(),
	}
}

// FindShift looks up a shift by id.
func FindShift(catalog []Shift, id string) (Shift, bool) {
	for _, s := range catalog {
		if s.ID == id {
			return s, true
		}
	}
	return Shift{}, false
}

// FindRestShift returns the first shift the policy treats as rest.
func FindRestShift(catalog []Shift, policy RestPolicy) (Shift, bool) {
	for _, s := range catalog {
		if policy.IsRest(s) {
			return s, true
		}
	}
	return Shift{}, false
}

// CheckShiftDeletion guards the catalog invariants: the rest shift is never
// deleted and at least one working shift always remains.
func CheckShiftDeletion(catalog []Shift, id string, policy RestPolicy) error {
	target, ok := FindShift(catalog, id)
	if !ok {
		return ErrShiftNotFound
	}
	if policy.IsRest(target) {
		return ErrRestShiftProtected
	}

	remaining := 0
	for _, s := range catalog {
		if s.ID != id && !policy.IsRest(s) {
			remaining++
		}
	}
	if remaining == 0 {
		return ErrLastShift
	}
	return nil
}

// CheckShiftUpdate applies the same invariants to an edit. Turning the last
// working shift into a rest shift, or the last rest shift into a working one,
// is rejected. Catalogs that already lack one kind are left alone.
func CheckShiftUpdate(catalog []Shift, updated Shift, policy RestPolicy) error {
	if _, ok := FindShift(catalog, updated.ID); !ok {
		return ErrShiftNotFound
	}

	var workingBefore, restBefore, workingAfter, restAfter int
	for _, s := range catalog {
		if policy.IsRest(s) {
			restBefore++
		} else {
			workingBefore++
		}
		if s.ID == updated.ID {
			s = updated
		}
		if policy.IsRest(s) {
			restAfter++
		} else {
			workingAfter++
		}
	}

	switch {
	case workingBefore > 0 && workingAfter == 0:
		return ErrLastShift
	case restBefore > 0 && restAfter == 0:
		return ErrRestShiftProtected
	}
	return nil
}

// DayName returns the display name of a Monday-based day index.
func DayName(day int) string {
	if day < 0 || day >= constants.DaysPerWeek {
		return "?"
	}
	return constants.WeekDays[day]
}
