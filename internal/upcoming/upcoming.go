// Package upcoming assembles the timeline for the day the user is currently
// preparing for, reading everything it needs from a store.
package upcoming

import (
	"fmt"
	"time"

	"github.com/julianstephens/shiftwake/internal/activeday"
	"github.com/julianstephens/shiftwake/internal/models"
	"github.com/julianstephens/shiftwake/internal/storage"
	"github.com/julianstephens/shiftwake/internal/timeline"
	"github.com/julianstephens/shiftwake/internal/utils"
)

// Options tweak how the day and meal are chosen.
type Options struct {
	Meal     string // empty uses the default_meal setting
	Tomorrow bool   // ignore the cutoff hour and always use tomorrow
}

// Result is the resolved day with its timeline.
type Result struct {
	Selection   activeday.Selection    `json:"selection"`
	Shift       models.Shift           `json:"shift"`
	Meal        models.MealSelection   `json:"meal"`
	Times       models.CalculatedTimes `json:"times"`
	Checkpoints []models.Checkpoint    `json:"checkpoints"`
	Now         time.Time              `json:"now"`
}

// Resolve picks the relevant day for now (converted to the configured
// timezone), maps it to a shift and calculates its timeline.
func Resolve(store storage.Provider, calc *timeline.Calculator, now time.Time, opts Options) (Result, error) {
	settings, err := store.GetSettings()
	if err != nil {
		return Result{}, fmt.Errorf("failed to load settings: %w", err)
	}
	loc, err := utils.LoadLocation(settings.Timezone)
	if err != nil {
		return Result{}, fmt.Errorf("invalid timezone %q: %w", settings.Timezone, err)
	}
	now = now.In(loc)

	meal := settings.Meal()
	if opts.Meal != "" {
		if meal, err = models.ParseMealSelection(opts.Meal); err != nil {
			return Result{}, err
		}
	}

	prefs, err := store.GetPreferences()
	if err != nil {
		return Result{}, fmt.Errorf("failed to load preferences: %w", err)
	}
	plan, err := store.GetWeekPlan()
	if err != nil {
		return Result{}, fmt.Errorf("failed to load week plan: %w", err)
	}
	catalog, err := store.GetAllShifts()
	if err != nil {
		return Result{}, fmt.Errorf("failed to load shifts: %w", err)
	}

	var sel activeday.Selection
	if opts.Tomorrow {
		sel = activeday.SelectTomorrow(now, plan)
	} else {
		sel = activeday.SelectRelevantDay(now, prefs.CutoffHour, plan)
	}

	shift, ok := activeday.ResolveShift(sel, catalog, calc.RestPolicy())
	if !ok {
		return Result{}, fmt.Errorf("no shift available for %s", sel.DayName())
	}

	times, err := calc.Calculate(shift, prefs, meal)
	if err != nil {
		return Result{}, err
	}

	return Result{
		Selection:   sel,
		Shift:       shift,
		Meal:        meal,
		Times:       times,
		Checkpoints: times.Checkpoints(),
		Now:         now,
	}, nil
}
