package schedule

import (
	"fmt"
	"time"

	"github.com/goccy/go-json"

	"github.com/julianstephens/shiftwake/internal/activeday"
	"github.com/julianstephens/shiftwake/internal/cli"
	"github.com/julianstephens/shiftwake/internal/constants"
	"github.com/julianstephens/shiftwake/internal/models"
	"github.com/julianstephens/shiftwake/internal/upcoming"
)

// now is replaced in tests.
var now = time.Now

// NextCmd prints the alarm timeline for the day being prepared for.
type NextCmd struct {
	Meal     string `help:"Meal taken on site before work (breakfast, lunch, none)."`
	Tomorrow bool   `help:"Ignore the cutoff hour and show tomorrow."`
	Compact  bool   `help:"Show the reduced three-checkpoint timeline."`
	JSON     bool   `help:"Print the timeline as JSON." name:"json"`
}

type compactResult struct {
	Selection   activeday.Selection `json:"selection"`
	Shift       models.Shift        `json:"shift"`
	Times       models.CompactTimes `json:"times"`
	Checkpoints []models.Checkpoint `json:"checkpoints"`
}

func (c *NextCmd) Run(ctx *cli.Context) error {
	res, err := upcoming.Resolve(ctx.Store, ctx.Calc(), now(), upcoming.Options{Meal: c.Meal, Tomorrow: c.Tomorrow})
	if err != nil {
		return err
	}

	checkpoints := res.Checkpoints
	var out any = res
	if c.Compact {
		prefs, err := ctx.Store.GetPreferences()
		if err != nil {
			return fmt.Errorf("failed to load preferences: %w", err)
		}
		times, err := ctx.Calc().CalculateCompact(res.Shift, prefs.Compact(res.Meal))
		if err != nil {
			return err
		}
		checkpoints = times.Checkpoints()
		out = compactResult{Selection: res.Selection, Shift: res.Shift, Times: times, Checkpoints: checkpoints}
	}

	if c.JSON {
		data, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal timeline: %w", err)
		}
		fmt.Println(string(data))
		return nil
	}

	fmt.Print(FormatHeader(res))
	if res.Times.Rest {
		fmt.Println("  Rest day, no alarm needed.")
	}
	fmt.Print(FormatCheckpoints(checkpoints))
	return nil
}

// FormatHeader describes the selected day and shift.
func FormatHeader(res upcoming.Result) string {
	label := res.Selection.Label
	if label == activeday.LabelToday || label == activeday.LabelTomorrow {
		label = fmt.Sprintf("%s (%s, %s)", titleCase(label), res.Selection.DayName(), res.Selection.Date.Format(constants.DateFormat))
	}
	shift := res.Shift.Name
	if !res.Times.Rest {
		shift = fmt.Sprintf("%s %s-%s", res.Shift.Name, res.Shift.StartTime, res.Shift.EndTime)
	}
	return fmt.Sprintf("%s: %s, meal %s\n", label, shift, res.Meal)
}

// FormatCheckpoints renders one aligned line per checkpoint.
func FormatCheckpoints(checkpoints []models.Checkpoint) string {
	var s string
	for _, cp := range checkpoints {
		s += fmt.Sprintf("  %-16s %s\n", cp.Label, cp.Time)
	}
	return s
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return string(s[0]-'a'+'A') + s[1:]
}
