package models

import (
	"fmt"

	"github.com/julianstephens/shiftwake/internal/constants"
)

// Settings represents application-wide settings
type Settings struct {
	Timezone             string `json:"timezone"`              // IANA timezone name or "Local"
	NotificationsEnabled bool   `json:"notifications_enabled"` // whether the watcher sends notifications
	NotifyCheckpoint     string `json:"notify_checkpoint"`     // checkpoint key that triggers a notification
	DefaultMeal          string `json:"default_meal"`          // meal selection used when none is given
	LegacyRestNames      bool   `json:"legacy_rest_names"`     // also treat shifts named like "Rest" as rest days
	APIAddr              string `json:"api_addr"`              // listen address of the local API
}

func DefaultSettings() Settings {
	return Settings{
		Timezone:             constants.DefaultTimezone,
		NotificationsEnabled: constants.DefaultNotificationsEnabled,
		NotifyCheckpoint:     constants.DefaultNotifyCheckpoint,
		DefaultMeal:          constants.DefaultMeal,
		LegacyRestNames:      constants.DefaultLegacyRestNames,
		APIAddr:              constants.DefaultAPIAddr,
	}
}

// RestPolicy builds the rest detection policy these settings select.
func (s Settings) RestPolicy() RestPolicy {
	p := DefaultRestPolicy()
	p.MatchNames = s.LegacyRestNames
	return p
}

// Meal parses DefaultMeal, falling back to none.
func (s Settings) Meal() MealSelection {
	m, err := ParseMealSelection(s.DefaultMeal)
	if err != nil {
		return MealNone
	}
	return m
}

// MapToSettings converts a map of key-value pairs to a Settings struct.
func MapToSettings(data map[string]string) (Settings, error) {
	settings := Settings{}

	for key, value := range data {
		switch key {
		case constants.SettingTimezone:
			settings.Timezone = value
		case constants.SettingNotificationsEnabled:
			settings.NotificationsEnabled = value == "true"
		case constants.SettingNotifyCheckpoint:
			settings.NotifyCheckpoint = value
		case constants.SettingDefaultMeal:
			if _, err := ParseMealSelection(value); err != nil {
				return Settings{}, fmt.Errorf("parsing default_meal: %w", err)
			}
			settings.DefaultMeal = value
		case constants.SettingLegacyRestNames:
			settings.LegacyRestNames = value == "true"
		case constants.SettingAPIAddr:
			settings.APIAddr = value
		}
	}
	return settings, nil
}

// SettingsToMap converts a Settings struct to a map of key-value pairs.
func SettingsToMap(settings Settings) map[string]string {
	return map[string]string{
		constants.SettingTimezone:             settings.Timezone,
		constants.SettingNotificationsEnabled: fmt.Sprintf("%v", settings.NotificationsEnabled),
		constants.SettingNotifyCheckpoint:     settings.NotifyCheckpoint,
		constants.SettingDefaultMeal:          settings.DefaultMeal,
		constants.SettingLegacyRestNames:      fmt.Sprintf("%v", settings.LegacyRestNames),
		constants.SettingAPIAddr:              settings.APIAddr,
	}
}

// ApplyDefaultSettings applies default values to missing settings.
func ApplyDefaultSettings(settings *Settings) {
	if settings.Timezone == "" {
		settings.Timezone = constants.DefaultTimezone
	}
	if settings.NotifyCheckpoint == "" {
		settings.NotifyCheckpoint = constants.DefaultNotifyCheckpoint
	}
	if settings.DefaultMeal == "" {
		settings.DefaultMeal = constants.DefaultMeal
	}
	if settings.APIAddr == "" {
		settings.APIAddr = constants.DefaultAPIAddr
	}
}
