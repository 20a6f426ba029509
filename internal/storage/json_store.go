package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/goccy/go-json"

	"github.com/julianstephens/shiftwake/internal/models"
)

// Document is the on-disk layout of the JSON store. The shifts, prefs and
// weeklyPlan keys match the browser app's export so either can read the other.
type Document struct {
	Version       int                `json:"version"`
	Settings      *models.Settings   `json:"settings,omitempty"`
	Shifts        []models.Shift     `json:"shifts"`
	Prefs         models.Preferences `json:"prefs"`
	WeeklyPlan    models.WeekPlan    `json:"weeklyPlan"`
	Notifications map[string]string  `json:"notifications,omitempty"` // "day|checkpoint" -> RFC3339 timestamp
}

// JSONStore keeps the whole document in memory and rewrites the file on every
// change. It is safe for concurrent use.
type JSONStore struct {
	path string

	mu  sync.RWMutex
	doc *Document
}

func NewJSONStore(path string) *JSONStore {
	return &JSONStore{path: path}
}

func (s *JSONStore) Init() error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	s.mu.Lock()
	if _, err := os.Stat(s.path); err == nil {
		s.mu.Unlock()
		if err := s.Load(); err != nil {
			return err
		}
	} else {
		settings := models.DefaultSettings()
		s.doc = &Document{
			Version:  1,
			Settings: &settings,
			Prefs:    models.DefaultPreferences(),
		}
		s.mu.Unlock()
	}

	return Seed(s)
}

func (s *JSONStore) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return ErrNotInitialized
		}
		return fmt.Errorf("failed to read storage: %w", err)
	}

	doc := &Document{Prefs: models.DefaultPreferences()}
	if err := json.Unmarshal(data, doc); err != nil {
		return fmt.Errorf("failed to parse storage: %w", err)
	}
	if doc.Settings == nil {
		// Browser exports carry no settings and mark rest days by name only.
		settings := models.DefaultSettings()
		settings.LegacyRestNames = true
		doc.Settings = &settings
	}
	models.ApplyDefaultSettings(doc.Settings)
	doc.Prefs.Clamp()
	s.doc = doc
	return nil
}

func (s *JSONStore) Close() error {
	return nil
}

func (s *JSONStore) GetConfigPath() string {
	return s.path
}

// save writes the document atomically. Callers must hold the write lock.
func (s *JSONStore) save() error {
	data, err := json.MarshalIndent(s.doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize storage: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("failed to write storage: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("failed to write storage: %w", err)
	}
	return nil
}

func (s *JSONStore) GetSettings() (models.Settings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.doc == nil {
		return models.Settings{}, ErrNotLoaded
	}
	if s.doc.Settings == nil {
		return models.Settings{}, ErrSettingsNotFound
	}
	return *s.doc.Settings, nil
}

func (s *JSONStore) SaveSettings(settings models.Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.doc == nil {
		return ErrNotLoaded
	}
	s.doc.Settings = &settings
	return s.save()
}

func (s *JSONStore) GetPreferences() (models.Preferences, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.doc == nil {
		return models.Preferences{}, ErrNotLoaded
	}
	return s.doc.Prefs, nil
}

func (s *JSONStore) SavePreferences(prefs models.Preferences) error {
	prefs.Clamp()
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.doc == nil {
		return ErrNotLoaded
	}
	s.doc.Prefs = prefs
	return s.save()
}

func (s *JSONStore) AddShift(shift models.Shift) error {
	shift, err := PrepareShift(shift)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.doc == nil {
		return ErrNotLoaded
	}
	if _, ok := models.FindShift(s.doc.Shifts, shift.ID); ok {
		return fmt.Errorf("%w: %s", ErrDuplicateShift, shift.ID)
	}
	s.doc.Shifts = append(s.doc.Shifts, shift)
	return s.save()
}

func (s *JSONStore) GetShift(id string) (models.Shift, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.doc == nil {
		return models.Shift{}, ErrNotLoaded
	}
	shift, ok := models.FindShift(s.doc.Shifts, id)
	if !ok {
		return models.Shift{}, fmt.Errorf("%w: %s", models.ErrShiftNotFound, id)
	}
	return shift, nil
}

func (s *JSONStore) GetAllShifts() ([]models.Shift, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.doc == nil {
		return nil, ErrNotLoaded
	}
	out := make([]models.Shift, len(s.doc.Shifts))
	copy(out, s.doc.Shifts)
	return out, nil
}

func (s *JSONStore) UpdateShift(shift models.Shift) error {
	if err := shift.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.doc == nil {
		return ErrNotLoaded
	}
	if err := models.CheckShiftUpdate(s.doc.Shifts, shift, s.doc.Settings.RestPolicy()); err != nil {
		return fmt.Errorf("cannot update shift %s: %w", shift.ID, err)
	}
	for i := range s.doc.Shifts {
		if s.doc.Shifts[i].ID == shift.ID {
			s.doc.Shifts[i] = shift
			return s.save()
		}
	}
	return fmt.Errorf("%w: %s", models.ErrShiftNotFound, shift.ID)
}

func (s *JSONStore) DeleteShift(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.doc == nil {
		return ErrNotLoaded
	}

	if err := models.CheckShiftDeletion(s.doc.Shifts, id, s.doc.Settings.RestPolicy()); err != nil {
		return fmt.Errorf("cannot delete shift %s: %w", id, err)
	}

	kept := s.doc.Shifts[:0]
	for _, shift := range s.doc.Shifts {
		if shift.ID != id {
			kept = append(kept, shift)
		}
	}
	s.doc.Shifts = kept
	s.doc.WeeklyPlan.ClearShift(id)
	return s.save()
}

func (s *JSONStore) GetWeekPlan() (models.WeekPlan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.doc == nil {
		return models.WeekPlan{}, ErrNotLoaded
	}
	return copyPlan(s.doc.WeeklyPlan), nil
}

func (s *JSONStore) SetDayShift(day int, shiftID *string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.doc == nil {
		return ErrNotLoaded
	}

	plan := copyPlan(s.doc.WeeklyPlan)
	if err := plan.Assign(day, shiftID); err != nil {
		return err
	}
	if err := plan.CheckReferences(s.doc.Shifts); err != nil {
		return err
	}
	s.doc.WeeklyPlan = plan
	return s.save()
}

func (s *JSONStore) SaveWeekPlan(plan models.WeekPlan) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.doc == nil {
		return ErrNotLoaded
	}
	if err := plan.CheckReferences(s.doc.Shifts); err != nil {
		return err
	}
	s.doc.WeeklyPlan = copyPlan(plan)
	return s.save()
}

func (s *JSONStore) WasNotified(day, checkpoint string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.doc == nil {
		return false, ErrNotLoaded
	}
	_, ok := s.doc.Notifications[notificationKey(day, checkpoint)]
	return ok, nil
}

func (s *JSONStore) RecordNotification(day, checkpoint string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.doc == nil {
		return ErrNotLoaded
	}
	if s.doc.Notifications == nil {
		s.doc.Notifications = make(map[string]string)
	}
	s.doc.Notifications[notificationKey(day, checkpoint)] = at.UTC().Format(time.RFC3339)
	return s.save()
}

func notificationKey(day, checkpoint string) string {
	return day + "|" + checkpoint
}

func copyPlan(plan models.WeekPlan) models.WeekPlan {
	var out models.WeekPlan
	for i, id := range plan {
		_ = out.Assign(i, id)
	}
	return out
}
