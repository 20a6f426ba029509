package storage

import (
	"errors"
	"fmt"

	"github.com/julianstephens/shiftwake/internal/logger"
	"github.com/julianstephens/shiftwake/internal/models"
)

// Seed fills in whatever a freshly migrated store is missing: settings,
// preferences, the default shift catalog and its week plan. Existing data is
// left untouched, so Seed is safe to call on every init.
func Seed(p Provider) error {
	settings, err := p.GetSettings()
	switch {
	case errors.Is(err, ErrSettingsNotFound):
		settings = models.DefaultSettings()
	case err != nil:
		return fmt.Errorf("failed to read settings: %w", err)
	default:
		models.ApplyDefaultSettings(&settings)
	}
	if err := p.SaveSettings(settings); err != nil {
		return fmt.Errorf("failed to save default settings: %w", err)
	}

	prefs, err := p.GetPreferences()
	if err != nil {
		return fmt.Errorf("failed to read preferences: %w", err)
	}
	if err := p.SavePreferences(prefs); err != nil {
		return fmt.Errorf("failed to save default preferences: %w", err)
	}

	shifts, err := p.GetAllShifts()
	if err != nil {
		return fmt.Errorf("failed to read shifts: %w", err)
	}
	if len(shifts) > 0 {
		return nil
	}

	logger.Info("Seeding default shift catalog")
	for _, s := range models.DefaultShifts() {
		if err := p.AddShift(s); err != nil {
			return fmt.Errorf("failed to add default shift %q: %w", s.Name, err)
		}
	}
	if err := p.SaveWeekPlan(models.DefaultWeekPlan()); err != nil {
		return fmt.Errorf("failed to save default week plan: %w", err)
	}
	return nil
}

// PrepareShift validates a shift before it is written.
func PrepareShift(s models.Shift) (models.Shift, error) {
	if s.ID == "" {
		s.ID = models.NewShiftID()
	}
	if err := s.Validate(); err != nil {
		return models.Shift{}, err
	}
	return s, nil
}
