package schedule

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/atotto/clipboard"

	"github.com/julianstephens/shiftwake/internal/cli"
	"github.com/julianstephens/shiftwake/internal/models"
	"github.com/julianstephens/shiftwake/internal/reminder"
	"github.com/julianstephens/shiftwake/internal/upcoming"
)

// clipboardWrite is replaced in tests.
var clipboardWrite = clipboard.WriteAll

// ExportCmd writes a checkpoint of the upcoming timeline as an iCalendar reminder.
type ExportCmd struct {
	Checkpoint string `help:"Checkpoint to export (defaults to the notify_checkpoint setting)."`
	Meal       string `help:"Meal taken on site before work (breakfast, lunch, none)."`
	Tomorrow   bool   `help:"Ignore the cutoff hour and export tomorrow's alarm."`
	Output     string `help:"Directory or .ics file to write." short:"o" default:"."`
	Copy       bool   `help:"Also copy the checkpoint time to the clipboard."`
}

func (c *ExportCmd) Run(ctx *cli.Context) error {
	key, err := c.checkpoint(ctx)
	if err != nil {
		return err
	}

	res, err := upcoming.Resolve(ctx.Store, ctx.Calc(), now(), upcoming.Options{Meal: c.Meal, Tomorrow: c.Tomorrow})
	if err != nil {
		return err
	}
	if res.Times.Rest {
		return fmt.Errorf("%s is a rest day, nothing to export", res.Selection.DayName())
	}

	at, _ := res.Times.Get(key)
	data, err := reminder.ExportReminder(at, res.Shift.Name, res.Now)
	if err != nil {
		return err
	}

	path := c.Output
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		path = filepath.Join(path, reminder.Filename(at))
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write reminder: %w", err)
	}
	fmt.Printf("✓ %s %s exported to %s\n", key.Label(), at, path)

	if c.Copy {
		if err := clipboardWrite(at); err != nil {
			fmt.Printf("⚠️  Could not copy to clipboard: %v\n", err)
		} else {
			fmt.Printf("✓ Copied %s to clipboard\n", at)
		}
	}
	return nil
}

func (c *ExportCmd) checkpoint(ctx *cli.Context) (models.CheckpointKey, error) {
	raw := c.Checkpoint
	if raw == "" {
		settings, err := ctx.Store.GetSettings()
		if err != nil {
			return "", fmt.Errorf("failed to load settings: %w", err)
		}
		raw = settings.NotifyCheckpoint
	}
	key, ok := models.ParseCheckpointKey(raw)
	if !ok {
		return "", fmt.Errorf("unknown checkpoint %q", raw)
	}
	return key, nil
}
