package shifts

import (
	"fmt"

	"github.com/julianstephens/shiftwake/internal/cli"
	"github.com/julianstephens/shiftwake/internal/models"
	"github.com/julianstephens/shiftwake/internal/storage"
)

type ShiftAddCmd struct {
	Name  string `arg:"" help:"Shift name."`
	Start string `arg:"" help:"Start time (HH:MM)."`
	End   string `arg:"" help:"End time (HH:MM), may be earlier than start for overnight shifts."`
	ID    string `help:"Shift id (generated when omitted)."`
	Rest  bool   `help:"Mark the shift as a rest day."`
}

func (c *ShiftAddCmd) Run(ctx *cli.Context) error {
	shift, err := storage.PrepareShift(models.Shift{ID: c.ID, Name: c.Name, StartTime: c.Start, EndTime: c.End, Rest: c.Rest})
	if err != nil {
		return err
	}
	if err := ctx.Store.AddShift(shift); err != nil {
		return fmt.Errorf("failed to add shift: %w", err)
	}
	fmt.Printf("Added shift: %s (ID: %s) %s-%s\n", shift.Name, shift.ID, shift.StartTime, shift.EndTime)
	return nil
}

type ShiftListCmd struct{}

func (c *ShiftListCmd) Run(ctx *cli.Context) error {
	shifts, err := ctx.Store.GetAllShifts()
	if err != nil {
		return fmt.Errorf("failed to load shifts: %w", err)
	}
	policy := ctx.Calc().RestPolicy()

	fmt.Printf("%-38s %-12s %-11s %s\n", "ID", "NAME", "HOURS", "LENGTH")
	for _, s := range shifts {
		if policy.IsRest(s) {
			fmt.Printf("%-38s %-12s %-11s %s\n", s.ID, s.Name, "rest", "-")
			continue
		}
		length := "?"
		if d, err := s.DurationMin(); err == nil {
			length = fmt.Sprintf("%dh%02dm", d/60, d%60)
		}
		hours := s.StartTime + "-" + s.EndTime
		if s.IsOvernight() {
			length += " (overnight)"
		}
		fmt.Printf("%-38s %-12s %-11s %s\n", s.ID, s.Name, hours, length)
	}
	return nil
}

type ShiftEditCmd struct {
	ID    string  `arg:"" help:"Shift ID."`
	Name  *string `help:"New shift name."`
	Start *string `short:"s" help:"New start time (HH:MM)."`
	End   *string `short:"e" help:"New end time (HH:MM)."`
	Rest  *bool   `help:"Set rest status."`
}

func (c *ShiftEditCmd) Run(ctx *cli.Context) error {
	shift, err := ctx.Store.GetShift(c.ID)
	if err != nil {
		return fmt.Errorf("failed to find shift: %w", err)
	}

	if c.Name != nil {
		shift.Name = *c.Name
	}
	if c.Start != nil {
		shift.StartTime = *c.Start
	}
	if c.End != nil {
		shift.EndTime = *c.End
	}
	if c.Rest != nil {
		shift.Rest = *c.Rest
	}

	if shift, err = storage.PrepareShift(shift); err != nil {
		return err
	}
	if err := ctx.Store.UpdateShift(shift); err != nil {
		return fmt.Errorf("failed to update shift: %w", err)
	}
	fmt.Printf("Updated shift: %s (ID: %s) %s-%s\n", shift.Name, shift.ID, shift.StartTime, shift.EndTime)
	return nil
}

type ShiftDeleteCmd struct {
	ID string `arg:"" help:"Shift ID to delete."`
}

func (c *ShiftDeleteCmd) Run(ctx *cli.Context) error {
	shift, err := ctx.Store.GetShift(c.ID)
	if err != nil {
		return fmt.Errorf("failed to find shift with ID %s: %w", c.ID, err)
	}

	plan, err := ctx.Store.GetWeekPlan()
	if err != nil {
		return fmt.Errorf("failed to load week plan: %w", err)
	}

	ctx.PerformAutomaticBackup()
	if err := ctx.Store.DeleteShift(c.ID); err != nil {
		return fmt.Errorf("failed to delete shift: %w", err)
	}

	fmt.Printf("Deleted shift: %s (ID: %s)\n", shift.Name, c.ID)
	if moved := plan.ClearShift(c.ID); moved > 0 {
		fmt.Printf("  %d day(s) moved to rest\n", moved)
	}
	return nil
}
