package system

import (
	"errors"
	"fmt"

	"github.com/goccy/go-json"

	"github.com/julianstephens/shiftwake/internal/cli"
	"github.com/julianstephens/shiftwake/internal/models"
)

type DebugCmd struct {
	DBPath       *DebugDBPathCmd       `cmd:"" help:"Show database path."`
	DumpShift    *DebugDumpShiftCmd    `cmd:"" help:"Dump shift data as JSON."`
	DumpWeek     *DebugDumpWeekCmd     `cmd:"" help:"Dump the week plan as JSON."`
	DumpSettings *DebugDumpSettingsCmd `cmd:"" help:"Dump settings and preferences as JSON."`
}

func printJSON(v any) error {
	jsonBytes, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	fmt.Println(string(jsonBytes))
	return nil
}

type DebugDBPathCmd struct{}

func (cmd *DebugDBPathCmd) Run(ctx *cli.Context) error {
	return printJSON(map[string]string{
		"path": ctx.Store.GetConfigPath(),
	})
}

type DebugDumpShiftCmd struct {
	ID string `arg:"" help:"ID of the shift to dump."`
}

func (cmd *DebugDumpShiftCmd) Run(ctx *cli.Context) error {
	shift, err := ctx.Store.GetShift(cmd.ID)
	if err != nil {
		if errors.Is(err, models.ErrShiftNotFound) {
			return fmt.Errorf("shift not found: %s", cmd.ID)
		}
		return fmt.Errorf("failed to get shift: %w", err)
	}
	return printJSON(shift)
}

type DebugDumpWeekCmd struct{}

func (cmd *DebugDumpWeekCmd) Run(ctx *cli.Context) error {
	plan, err := ctx.Store.GetWeekPlan()
	if err != nil {
		return fmt.Errorf("failed to get week plan: %w", err)
	}
	return printJSON(plan)
}

type DebugDumpSettingsCmd struct{}

func (cmd *DebugDumpSettingsCmd) Run(ctx *cli.Context) error {
	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	prefs, err := ctx.Store.GetPreferences()
	if err != nil {
		return fmt.Errorf("failed to get preferences: %w", err)
	}
	return printJSON(struct {
		Settings    models.Settings    `json:"settings"`
		Preferences models.Preferences `json:"preferences"`
	}{settings, prefs})
}
