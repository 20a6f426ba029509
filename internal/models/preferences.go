package models

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/julianstephens/shiftwake/internal/constants"
)

// MealSelection picks which meal, if any, is eaten on site before the meeting.
type MealSelection string

const (
	MealBreakfast MealSelection = "breakfast"
	MealLunch     MealSelection = "lunch"
	MealNone      MealSelection = "none"
)

// ParseMealSelection accepts breakfast, lunch or none. An empty string means none.
func ParseMealSelection(s string) (MealSelection, error) {
	switch MealSelection(strings.ToLower(strings.TrimSpace(s))) {
	case "", MealNone:
		return MealNone, nil
	case MealBreakfast:
		return MealBreakfast, nil
	case MealLunch:
		return MealLunch, nil
	default:
		return "", fmt.Errorf("invalid meal selection %q (must be breakfast, lunch, or none)", s)
	}
}

// Next cycles none -> breakfast -> lunch -> none.
func (m MealSelection) Next() MealSelection {
	switch m {
	case MealBreakfast:
		return MealLunch
	case MealLunch:
		return MealNone
	default:
		return MealBreakfast
	}
}

// Preferences holds the personal buffers, all in minutes, plus the cutoff hour.
type Preferences struct {
	Snooze       int `json:"snooze" validate:"gte=0"`       // time in bed after the first alarm
	WashUp       int `json:"washUp" validate:"gte=0"`       // washing and dressing
	Breakfast    int `json:"breakfast" validate:"gte=0"`    // on-site breakfast
	Lunch        int `json:"lunch" validate:"gte=0"`        // on-site lunch
	Commute      int `json:"commute" validate:"gte=0"`      // door to door
	EarlyArrival int `json:"earlyArrival" validate:"gte=0"` // buffer before the shift starts
	CutoffHour   int `json:"cutoffHour" validate:"gte=0,lte=23"`
}

func DefaultPreferences() Preferences {
	return Preferences{
		Snooze:       constants.DefaultSnooze,
		WashUp:       constants.DefaultWashUp,
		Breakfast:    constants.DefaultBreakfast,
		Lunch:        constants.DefaultLunch,
		Commute:      constants.DefaultCommute,
		EarlyArrival: constants.DefaultEarlyArrival,
		CutoffHour:   constants.DefaultCutoffHour,
	}
}

func (p *Preferences) Validate() error {
	if err := validate.Struct(p); err != nil {
		return fmt.Errorf("invalid preferences: %w", err)
	}
	return nil
}

// PreferenceKeys lists the settable keys in display order.
func PreferenceKeys() []string {
	return []string{
		constants.PrefSnooze,
		constants.PrefWashUp,
		constants.PrefBreakfast,
		constants.PrefLunch,
		constants.PrefCommute,
		constants.PrefEarlyArrival,
		constants.PrefCutoffHour,
	}
}

// jsonPreferenceKeys maps the camelCase JSON field names onto the stored keys.
var jsonPreferenceKeys = map[string]string{
	"washUp":       constants.PrefWashUp,
	"earlyArrival": constants.PrefEarlyArrival,
	"cutoffHour":   constants.PrefCutoffHour,
}

// PreferenceKey returns the stored key for a key or JSON field name.
func PreferenceKey(name string) string {
	if key, ok := jsonPreferenceKeys[name]; ok {
		return key
	}
	return name
}

// Set updates one preference. The key may also be given as its JSON field
// name. Durations below zero are stored as zero and the cutoff hour is
// clamped into [0,23].
func (p *Preferences) Set(key string, value int) error {
	if value < 0 {
		value = 0
	}
	switch PreferenceKey(key) {
	case constants.PrefSnooze:
		p.Snooze = value
	case constants.PrefWashUp:
		p.WashUp = value
	case constants.PrefBreakfast:
		p.Breakfast = value
	case constants.PrefLunch:
		p.Lunch = value
	case constants.PrefCommute:
		p.Commute = value
	case constants.PrefEarlyArrival:
		p.EarlyArrival = value
	case constants.PrefCutoffHour:
		if value > 23 {
			value = 23
		}
		p.CutoffHour = value
	default:
		return fmt.Errorf("unknown preference %q", key)
	}
	return nil
}

// Get returns one preference by key.
func (p Preferences) Get(key string) (int, bool) {
	switch key {
	case constants.PrefSnooze:
		return p.Snooze, true
	case constants.PrefWashUp:
		return p.WashUp, true
	case constants.PrefBreakfast:
		return p.Breakfast, true
	case constants.PrefLunch:
		return p.Lunch, true
	case constants.PrefCommute:
		return p.Commute, true
	case constants.PrefEarlyArrival:
		return p.EarlyArrival, true
	case constants.PrefCutoffHour:
		return p.CutoffHour, true
	}
	return 0, false
}

// Clamp applies the same bounds as Set to every field.
func (p *Preferences) Clamp() {
	for _, key := range PreferenceKeys() {
		v, _ := p.Get(key)
		_ = p.Set(key, v)
	}
}

// MealDuration returns the on-site meal time for the given selection.
func (p Preferences) MealDuration(meal MealSelection) int {
	switch meal {
	case MealBreakfast:
		return p.Breakfast
	case MealLunch:
		return p.Lunch
	default:
		return 0
	}
}

// CompactPreferences is the reduced configuration with a single fixed meal.
type CompactPreferences struct {
	WashUp       int `json:"washUp"`
	Meal         int `json:"meal"`
	Commute      int `json:"commute"`
	EarlyArrival int `json:"earlyArrival"`
}

// Compact folds the selected meal into the reduced configuration.
func (p Preferences) Compact(meal MealSelection) CompactPreferences {
	return CompactPreferences{
		WashUp:       p.WashUp,
		Meal:         p.MealDuration(meal),
		Commute:      p.Commute,
		EarlyArrival: p.EarlyArrival,
	}
}

// MapToPreferences converts stored key-value pairs into Preferences.
// Missing keys keep their default value.
func MapToPreferences(data map[string]string) (Preferences, error) {
	prefs := DefaultPreferences()
	for key, value := range data {
		n, err := strconv.Atoi(value)
		if err != nil {
			return Preferences{}, fmt.Errorf("parsing %s: %w", key, err)
		}
		if err := prefs.Set(key, n); err != nil {
			// Unknown keys are ignored so newer databases still load.
			continue
		}
	}
	return prefs, nil
}

// PreferencesToMap converts Preferences to key-value pairs for storage.
func PreferencesToMap(p Preferences) map[string]string {
	out := make(map[string]string, len(PreferenceKeys()))
	for _, key := range PreferenceKeys() {
		v, _ := p.Get(key)
		out[key] = strconv.Itoa(v)
	}
	return out
}
