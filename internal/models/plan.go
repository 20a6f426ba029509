package models

import (
	"fmt"

	"github.com/goccy/go-json"

	"github.com/julianstephens/shiftwake/internal/constants"
)

// WeekPlan maps each Monday-based day index to a shift id. A nil entry means rest.
type WeekPlan [constants.DaysPerWeek]*string

// DayAssignment is one row of the plan as it is serialized.
type DayAssignment struct {
	DayIndex int     `json:"dayIndex"`
	ShiftID  *string `json:"shiftId"`
}

// DefaultWeekPlan assigns the morning shift Monday to Friday and rest on the weekend.
func DefaultWeekPlan() WeekPlan {
	var plan WeekPlan
	for i := range plan {
		id := "morning"
		if i >= 5 {
			id = RestShiftID
		}
		plan[i] = &id
	}
	return plan
}

func ValidDayIndex(day int) bool {
	return day >= 0 && day < constants.DaysPerWeek
}

// ShiftIDFor returns the shift id assigned to a day, or nil for rest.
func (w WeekPlan) ShiftIDFor(day int) (*string, error) {
	if !ValidDayIndex(day) {
		return nil, ErrInvalidDayIndex
	}
	return w[day], nil
}

// Assign overwrites a single day. An empty id is stored as rest.
func (w *WeekPlan) Assign(day int, shiftID *string) error {
	if !ValidDayIndex(day) {
		return ErrInvalidDayIndex
	}
	if shiftID != nil && *shiftID == "" {
		shiftID = nil
	}
	if shiftID != nil {
		id := *shiftID
		shiftID = &id
	}
	w[day] = shiftID
	return nil
}

// ClearShift reassigns every day using shiftID to rest and reports how many changed.
func (w *WeekPlan) ClearShift(shiftID string) int {
	changed := 0
	for i, id := range w {
		if id != nil && *id == shiftID {
			w[i] = nil
			changed++
		}
	}
	return changed
}

// CheckReferences verifies every assigned id exists in the catalog.
func (w WeekPlan) CheckReferences(catalog []Shift) error {
	for day, id := range w {
		if id == nil {
			continue
		}
		if _, ok := FindShift(catalog, *id); !ok {
			return fmt.Errorf("%s: %w: %q", DayName(day), ErrShiftNotFound, *id)
		}
	}
	return nil
}

// Days returns the plan as an ordered list of assignments.
func (w WeekPlan) Days() []DayAssignment {
	days := make([]DayAssignment, constants.DaysPerWeek)
	for i, id := range w {
		days[i] = DayAssignment{DayIndex: i, ShiftID: id}
	}
	return days
}

func (w WeekPlan) MarshalJSON() ([]byte, error) {
	return json.Marshal(w.Days())
}

func (w *WeekPlan) UnmarshalJSON(data []byte) error {
	var days []DayAssignment
	if err := json.Unmarshal(data, &days); err != nil {
		return err
	}
	if len(days) != constants.DaysPerWeek {
		return fmt.Errorf("weekly plan must have %d days, got %d", constants.DaysPerWeek, len(days))
	}
	var plan WeekPlan
	seen := make(map[int]bool, len(days))
	for _, d := range days {
		if seen[d.DayIndex] {
			return fmt.Errorf("weekly plan has duplicate day %d", d.DayIndex)
		}
		seen[d.DayIndex] = true
		if err := plan.Assign(d.DayIndex, d.ShiftID); err != nil {
			return err
		}
	}
	*w = plan
	return nil
}
