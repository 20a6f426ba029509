package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/julianstephens/shiftwake/internal/backup"
	"github.com/julianstephens/shiftwake/internal/constants"
	"github.com/julianstephens/shiftwake/internal/logger"
	"github.com/julianstephens/shiftwake/internal/models"
	"github.com/julianstephens/shiftwake/internal/storage"
	"github.com/julianstephens/shiftwake/internal/timeline"
)

type Context struct {
	Store      storage.Provider
	Calculator *timeline.Calculator
}

// PerformAutomaticBackup creates an automatic backup and silently handles errors
func (c *Context) PerformAutomaticBackup() {
	mgr := backup.NewManager(c.Store.GetConfigPath())
	_, err := mgr.CreateBackup()
	if err != nil && !errors.Is(err, backup.ErrUnsupportedBackend) {
		// Log warning but don't interrupt user workflow
		logger.Warn("Automatic backup failed", "error", err)
	}
}

// Calc returns the injected calculator, or one built from the stored settings.
func (c *Context) Calc() *timeline.Calculator {
	if c.Calculator != nil {
		return c.Calculator
	}
	settings, err := c.Store.GetSettings()
	if err != nil {
		return timeline.New()
	}
	return timeline.NewWithPolicy(settings.RestPolicy())
}

var dayMap = map[string]int{
	"mon":       0,
	"monday":    0,
	"tue":       1,
	"tuesday":   1,
	"wed":       2,
	"wednesday": 2,
	"thu":       3,
	"thursday":  3,
	"fri":       4,
	"friday":    4,
	"sat":       5,
	"saturday":  5,
	"sun":       6,
	"sunday":    6,
}

// ParseDay parses a weekday name or a Monday-based index (0=Monday, 6=Sunday).
func ParseDay(s string) (int, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if day, ok := dayMap[s]; ok {
		return day, nil
	}
	num, err := strconv.Atoi(s)
	if err != nil || !models.ValidDayIndex(num) {
		return 0, fmt.Errorf("invalid day %q: %w", s, models.ErrInvalidDayIndex)
	}
	return num, nil
}

// ParseShiftRef turns a command line shift reference into a plan entry.
// "rest" and "none" clear the day; anything else is taken as a shift id.
func ParseShiftRef(s string) *string {
	s = strings.TrimSpace(s)
	switch strings.ToLower(s) {
	case "", "rest", "none":
		return nil
	}
	return &s
}

// ParseAssignment splits a key=value argument.
func ParseAssignment(s string) (string, string, error) {
	key, value, ok := strings.Cut(s, "=")
	key = strings.TrimSpace(key)
	if !ok || key == "" {
		return "", "", fmt.Errorf("invalid assignment %q, expected key=value", s)
	}
	return key, strings.TrimSpace(value), nil
}

// ExpandPath resolves a leading ~ to the user's home directory.
func ExpandPath(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}

// ConfigDir is the directory that holds the store, logs and backups.
func ConfigDir(configPath string) string {
	if configPath == "" || strings.Contains(configPath, "://") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "."
		}
		return filepath.Join(home, ".config", constants.AppName)
	}
	return filepath.Dir(configPath)
}

// FormatShiftRef is the inverse of ParseShiftRef for display.
func FormatShiftRef(id *string, catalog []models.Shift) string {
	if id == nil {
		return "rest"
	}
	if s, ok := models.FindShift(catalog, *id); ok {
		return fmt.Sprintf("%s (%s)", s.Name, s.ID)
	}
	return fmt.Sprintf("%s (missing)", *id)
}
