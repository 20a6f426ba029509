package storage

import (
	"errors"
	"time"

	"github.com/julianstephens/shiftwake/internal/models"
)

var (
	ErrNotInitialized   = errors.New("storage not initialized, run 'shiftwake init' first")
	ErrNotLoaded        = errors.New("storage not loaded")
	ErrSettingsNotFound = errors.New("settings not found")
	ErrDuplicateShift   = errors.New("shift id already exists")
)

type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Settings
	GetSettings() (models.Settings, error)
	SaveSettings(models.Settings) error

	// Preferences
	GetPreferences() (models.Preferences, error)
	SavePreferences(models.Preferences) error

	// Shifts are returned in catalog order. DeleteShift refuses to remove the
	// rest shift or the last working shift, and moves plan days that used the
	// deleted shift to rest.
	AddShift(models.Shift) error
	GetShift(id string) (models.Shift, error)
	GetAllShifts() ([]models.Shift, error)
	UpdateShift(models.Shift) error
	DeleteShift(id string) error

	// Week plan. Assigning an id that is not in the catalog is rejected.
	GetWeekPlan() (models.WeekPlan, error)
	SetDayShift(day int, shiftID *string) error
	SaveWeekPlan(models.WeekPlan) error

	// Notification log, keyed by local date (YYYY-MM-DD) and checkpoint.
	WasNotified(day, checkpoint string) (bool, error)
	RecordNotification(day, checkpoint string, at time.Time) error

	// Utils
	GetConfigPath() string
}
