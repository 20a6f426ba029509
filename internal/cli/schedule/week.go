package schedule

import (
	"errors"
	"fmt"

	"github.com/julianstephens/shiftwake/internal/activeday"
	"github.com/julianstephens/shiftwake/internal/cli"
	"github.com/julianstephens/shiftwake/internal/models"
	"github.com/julianstephens/shiftwake/internal/utils"
)

// WeekShowCmd lists the weekly plan with each day's earliest alarm.
type WeekShowCmd struct{}

func (c *WeekShowCmd) Run(ctx *cli.Context) error {
	plan, err := ctx.Store.GetWeekPlan()
	if err != nil {
		return fmt.Errorf("failed to load week plan: %w", err)
	}
	catalog, err := ctx.Store.GetAllShifts()
	if err != nil {
		return fmt.Errorf("failed to load shifts: %w", err)
	}
	prefs, err := ctx.Store.GetPreferences()
	if err != nil {
		return fmt.Errorf("failed to load preferences: %w", err)
	}
	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}

	today := -1
	if t, err := utils.NowInTimezone(settings.Timezone); err == nil {
		today = (int(t.Weekday()) + 6) % 7
	}

	calc := ctx.Calc()
	for day, id := range plan {
		alarm := "--:--"
		sel := activeday.Selection{DayIndex: day, ShiftID: id}
		if shift, ok := activeday.ResolveShift(sel, catalog, calc.RestPolicy()); ok {
			if times, err := calc.Calculate(shift, prefs, settings.Meal()); err == nil {
				alarm = times.EarliestAlarm
			}
		}
		marker := " "
		if day == today {
			marker = "*"
		}
		fmt.Printf("%s %-10s %-28s alarm %s\n", marker, models.DayName(day), cli.FormatShiftRef(id, catalog), alarm)
	}
	return nil
}

// WeekSetCmd assigns a shift to a day of the week.
type WeekSetCmd struct {
	Day   string `arg:"" help:"Day name (mon..sun) or index (0=Monday)."`
	Shift string `arg:"" help:"Shift id, or 'rest' to clear the day."`
}

func (c *WeekSetCmd) Run(ctx *cli.Context) error {
	day, err := cli.ParseDay(c.Day)
	if err != nil {
		return err
	}
	id := cli.ParseShiftRef(c.Shift)

	if err := ctx.Store.SetDayShift(day, id); err != nil {
		if errors.Is(err, models.ErrShiftNotFound) {
			return fmt.Errorf("cannot assign %q to %s: %w", c.Shift, models.DayName(day), err)
		}
		return fmt.Errorf("failed to update week plan: %w", err)
	}

	catalog, err := ctx.Store.GetAllShifts()
	if err != nil {
		return fmt.Errorf("failed to load shifts: %w", err)
	}
	fmt.Printf("✓ %s set to %s\n", models.DayName(day), cli.FormatShiftRef(id, catalog))
	return nil
}
