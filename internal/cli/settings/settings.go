package settings

import (
	"fmt"
	"strconv"

	"github.com/julianstephens/shiftwake/internal/cli"
	"github.com/julianstephens/shiftwake/internal/constants"
	"github.com/julianstephens/shiftwake/internal/models"
	"github.com/julianstephens/shiftwake/internal/utils"
)

type SettingsCmd struct {
	List bool `help:"List current settings."`

	Timezone             *string `help:"IANA timezone used to pick the relevant day (or 'Local')."`
	NotificationsEnabled *bool   `help:"Enable or disable notifications."`
	NotifyCheckpoint     *string `help:"Checkpoint that triggers a notification (earliest_alarm, latest_wakeup, departure, ...)."`
	DefaultMeal          *string `help:"Meal used when none is given (breakfast, lunch, none)."`
	LegacyRestNames      *bool   `help:"Also treat shifts named Rest/Off/休 as rest days."`
	APIAddr              *string `name:"api-addr" help:"Listen address of the local API."`
}

func (c *SettingsCmd) Run(ctx *cli.Context) error {
	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	if c.List {
		fmt.Println("Current Settings:")
		fmt.Printf("  Timezone:              %s\n", settings.Timezone)
		fmt.Printf("  Default Meal:          %s\n", settings.DefaultMeal)
		fmt.Printf("  Legacy Rest Names:     %v\n", settings.LegacyRestNames)
		fmt.Printf("  API Address:           %s\n", settings.APIAddr)
		fmt.Println("\nNotification Settings:")
		fmt.Printf("  Notifications Enabled: %v\n", settings.NotificationsEnabled)
		fmt.Printf("  Notify Checkpoint:     %s\n", settings.NotifyCheckpoint)
		return nil
	}

	updated := false
	if c.Timezone != nil {
		if !utils.ValidateTimezone(*c.Timezone) {
			return fmt.Errorf("invalid timezone: %s", *c.Timezone)
		}
		settings.Timezone = *c.Timezone
		updated = true
	}
	if c.NotificationsEnabled != nil {
		settings.NotificationsEnabled = *c.NotificationsEnabled
		updated = true
	}
	if c.NotifyCheckpoint != nil {
		if _, ok := models.ParseCheckpointKey(*c.NotifyCheckpoint); !ok {
			return fmt.Errorf("unknown checkpoint: %s", *c.NotifyCheckpoint)
		}
		settings.NotifyCheckpoint = *c.NotifyCheckpoint
		updated = true
	}
	if c.DefaultMeal != nil {
		meal, err := models.ParseMealSelection(*c.DefaultMeal)
		if err != nil {
			return err
		}
		settings.DefaultMeal = string(meal)
		updated = true
	}
	if c.LegacyRestNames != nil {
		settings.LegacyRestNames = *c.LegacyRestNames
		updated = true
	}
	if c.APIAddr != nil {
		settings.APIAddr = *c.APIAddr
		updated = true
	}

	if updated {
		if err := ctx.Store.SaveSettings(settings); err != nil {
			return fmt.Errorf("failed to save settings: %w", err)
		}
		fmt.Println("Settings updated successfully.")
	} else {
		fmt.Println("No changes specified. Use --list to view settings or flags to update them.")
	}

	return nil
}

// PrefsCmd shows or updates the buffer preferences the timeline is built from.
type PrefsCmd struct {
	Set   []string `short:"s" help:"Set a preference, e.g. --set snooze=15 (repeatable)."`
	Reset bool     `help:"Restore the default preferences."`
}

func (c *PrefsCmd) Run(ctx *cli.Context) error {
	prefs, err := ctx.Store.GetPreferences()
	if err != nil {
		return fmt.Errorf("failed to get preferences: %w", err)
	}

	if c.Reset {
		prefs = models.DefaultPreferences()
	}
	for _, arg := range c.Set {
		key, raw, err := cli.ParseAssignment(arg)
		if err != nil {
			return err
		}
		value, err := strconv.Atoi(raw)
		if err != nil {
			return fmt.Errorf("invalid value for %s: %q is not a whole number", key, raw)
		}
		if err := prefs.Set(key, value); err != nil {
			return err
		}
	}

	if c.Reset || len(c.Set) > 0 {
		if err := ctx.Store.SavePreferences(prefs); err != nil {
			return fmt.Errorf("failed to save preferences: %w", err)
		}
		fmt.Println("Preferences updated successfully.")
	}

	fmt.Println("Current Preferences:")
	for _, key := range models.PreferenceKeys() {
		v, _ := prefs.Get(key)
		unit := "min"
		if key == constants.PrefCutoffHour {
			unit = "h"
		}
		fmt.Printf("  %-14s %d %s\n", key+":", v, unit)
	}
	return nil
}
