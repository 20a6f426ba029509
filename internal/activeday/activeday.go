// Package activeday decides which day of the weekly plan an alarm is being
// prepared for.
package activeday

import (
	"time"

	"github.com/julianstephens/shiftwake/internal/constants"
	"github.com/julianstephens/shiftwake/internal/models"
)

const (
	LabelToday    = "today"
	LabelTomorrow = "tomorrow"
)

// Selection is the day picked for a given instant.
type Selection struct {
	DayIndex int       `json:"dayIndex"` // Monday=0
	IsToday  bool      `json:"isToday"`
	Label    string    `json:"label"`
	ShiftID  *string   `json:"shiftId"`
	Date     time.Time `json:"date"` // midnight of the selected day in now's location
}

// DayName returns the weekday name of the selected day.
func (s Selection) DayName() string {
	return models.DayName(s.DayIndex)
}

// SelectRelevantDay picks today while the hour is before cutoffHour,
// otherwise tomorrow. Before the cutoff the user is assumed to still be
// finishing the previous night.
func SelectRelevantDay(now time.Time, cutoffHour int, plan models.WeekPlan) Selection {
	offset := 1
	if now.Hour() < cutoffHour {
		offset = 0
	}
	return selectWithOffset(now, offset, plan)
}

// SelectTomorrow always selects the following day.
func SelectTomorrow(now time.Time, plan models.WeekPlan) Selection {
	return selectWithOffset(now, 1, plan)
}

// SelectOffset selects the day offset days after now's calendar day. Negative
// offsets select earlier days.
func SelectOffset(now time.Time, offset int, plan models.WeekPlan) Selection {
	return selectWithOffset(now, offset, plan)
}

func selectWithOffset(now time.Time, offset int, plan models.WeekPlan) Selection {
	// time.Weekday counts from Sunday; the plan counts from Monday. The
	// reduced offset is at least -6, so the sum never goes negative.
	day := (int(now.Weekday()) + 6 + offset%constants.DaysPerWeek) % constants.DaysPerWeek

	y, m, d := now.Date()
	date := time.Date(y, m, d+offset, 0, 0, 0, 0, now.Location())

	label := LabelTomorrow
	switch {
	case offset == 0:
		label = LabelToday
	case offset > 1 || offset < 0:
		label = date.Format(constants.DateFormat)
	}

	var shiftID *string
	if id, _ := plan.ShiftIDFor(day); id != nil {
		v := *id
		shiftID = &v
	}

	return Selection{
		DayIndex: day,
		IsToday:  offset == 0,
		Label:    label,
		ShiftID:  shiftID,
		Date:     date,
	}
}

// ResolveShift maps the selection to a catalog entry. An empty day resolves to
// the catalog's rest shift; an id missing from the catalog falls back to the
// first entry. The second return value is false only when the catalog is empty
// and the day is not a rest day.
func ResolveShift(sel Selection, catalog []models.Shift, policy models.RestPolicy) (models.Shift, bool) {
	if sel.ShiftID == nil {
		if rest, ok := models.FindRestShift(catalog, policy); ok {
			return rest, true
		}
		return models.RestShift(), true
	}
	if s, ok := models.FindShift(catalog, *sel.ShiftID); ok {
		return s, true
	}
	if len(catalog) == 0 {
		return models.Shift{}, false
	}
	return catalog[0], true
}
