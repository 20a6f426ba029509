// Package timeline derives the morning checkpoints for a shift by walking
// back from its start time through the user's buffers.
package timeline

import (
	"errors"
	"fmt"

	"github.com/julianstephens/shiftwake/internal/models"
	"github.com/julianstephens/shiftwake/internal/utils"
)

// ErrBufferOverflow is returned when the buffers are too large to walk back
// from the start time without overflowing.
var ErrBufferOverflow = errors.New("buffers are too large to compute a timeline")

// Calculator computes timelines. It holds no mutable state and is safe for
// concurrent use.
type Calculator struct {
	rest models.RestPolicy
}

// New creates a Calculator using identity-based rest detection.
func New() *Calculator {
	return &Calculator{rest: models.DefaultRestPolicy()}
}

// NewWithPolicy creates a Calculator with a custom rest policy.
func NewWithPolicy(policy models.RestPolicy) *Calculator {
	return &Calculator{rest: policy}
}

// RestPolicy returns the policy used to recognise rest shifts.
func (c *Calculator) RestPolicy() models.RestPolicy {
	return c.rest
}

// IsRest reports whether the shift is a rest day under the calculator's policy.
func (c *Calculator) IsRest(shift models.Shift) bool {
	return c.rest.IsRest(shift)
}

// Calculate derives the full timeline. The subtraction order is fixed:
// early arrival, meal, commute, wash-up, snooze. Durations are assumed to be
// non-negative already.
func (c *Calculator) Calculate(shift models.Shift, prefs models.Preferences, meal models.MealSelection) (models.CalculatedTimes, error) {
	if c.rest.IsRest(shift) {
		return models.RestTimes(), nil
	}

	start, err := utils.TimeToMinutes(shift.StartTime)
	if err != nil {
		return models.CalculatedTimes{}, fmt.Errorf("shift %q start time: %w", shift.Name, err)
	}

	var w walk
	raw := models.RawMinutes{Start: start}
	raw.Meeting = w.back(raw.Start, prefs.EarlyArrival)
	raw.ArrivalArea = w.back(raw.Meeting, prefs.MealDuration(meal))
	raw.Departure = w.back(raw.ArrivalArea, prefs.Commute)
	raw.LatestWakeup = w.back(raw.Departure, prefs.WashUp)
	raw.EarliestAlarm = w.back(raw.LatestWakeup, prefs.Snooze)
	if w.err != nil {
		return models.CalculatedTimes{}, fmt.Errorf("shift %q: %w", shift.Name, w.err)
	}

	return models.CalculatedTimes{
		EarliestAlarm:   utils.MinutesToTime(raw.EarliestAlarm),
		LatestWakeup:    utils.MinutesToTime(raw.LatestWakeup),
		DepartureTime:   utils.MinutesToTime(raw.Departure),
		ArrivalAreaTime: utils.MinutesToTime(raw.ArrivalArea),
		MeetingTime:     utils.MinutesToTime(raw.Meeting),
		WorkStartTime:   shift.StartTime,
		Raw:             raw,
	}, nil
}

// CalculateCompact derives the reduced three-checkpoint timeline where the
// meal is a fixed preference folded together with wash-up.
func (c *Calculator) CalculateCompact(shift models.Shift, prefs models.CompactPreferences) (models.CompactTimes, error) {
	if c.rest.IsRest(shift) {
		rest := models.RestTimes()
		return models.CompactTimes{
			AlarmTime:     rest.EarliestAlarm,
			DepartureTime: rest.DepartureTime,
			ArrivalTime:   rest.ArrivalAreaTime,
			WorkStartTime: rest.WorkStartTime,
			Rest:          true,
		}, nil
	}

	start, err := utils.TimeToMinutes(shift.StartTime)
	if err != nil {
		return models.CompactTimes{}, fmt.Errorf("shift %q start time: %w", shift.Name, err)
	}

	var w walk
	arrival := w.back(start, prefs.EarlyArrival)
	departure := w.back(arrival, prefs.Commute)
	alarm := w.back(w.back(departure, prefs.Meal), prefs.WashUp)
	if w.err != nil {
		return models.CompactTimes{}, fmt.Errorf("shift %q: %w", shift.Name, w.err)
	}

	return models.CompactTimes{
		AlarmTime:     utils.MinutesToTime(alarm),
		DepartureTime: utils.MinutesToTime(departure),
		ArrivalTime:   utils.MinutesToTime(arrival),
		WorkStartTime: shift.StartTime,
	}, nil
}

// walk subtracts buffers in sequence and records the first overflow.
type walk struct {
	err error
}

func (w *walk) back(from, buffer int) int {
	if w.err != nil {
		return 0
	}
	to := from - buffer
	if (buffer > 0 && to > from) || (buffer < 0 && to < from) {
		w.err = ErrBufferOverflow
		return 0
	}
	return to
}
