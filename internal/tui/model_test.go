package tui

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/shiftwake/internal/constants"
	"github.com/julianstephens/shiftwake/internal/models"
	"github.com/julianstephens/shiftwake/internal/storage"
	"github.com/julianstephens/shiftwake/internal/timeline"
	"github.com/julianstephens/shiftwake/internal/tui/components/shifts"
)

// Thursday evening, so the relevant day is Friday (morning shift).
var fixedNow = func() time.Time { return time.Date(2025, 1, 16, 22, 0, 0, 0, time.UTC) }

func setupModel(t *testing.T) (Model, *storage.JSONStore) {
	t.Helper()
	store := storage.NewJSONStore(filepath.Join(t.TempDir(), "shiftwake.json"))
	if err := store.Init(); err != nil {
		t.Fatalf("Init() failed: %v", err)
	}
	settings, _ := store.GetSettings()
	settings.Timezone = "UTC"
	if err := store.SaveSettings(settings); err != nil {
		t.Fatal(err)
	}
	return newModel(store, timeline.New(), fixedNow), store
}

func press(t *testing.T, m Model, keys string) Model {
	t.Helper()
	var msg tea.KeyMsg
	switch keys {
	case "tab":
		msg = tea.KeyMsg{Type: tea.KeyTab}
	case "right":
		msg = tea.KeyMsg{Type: tea.KeyRight}
	case "down":
		msg = tea.KeyMsg{Type: tea.KeyDown}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(keys)}
	}
	next, cmd := m.Update(msg)
	m = next.(Model)
	// Feed component messages back in, like the tea runtime would.
	for cmd != nil {
		out := cmd()
		if out == nil {
			break
		}
		if _, ok := out.(tea.QuitMsg); ok {
			break
		}
		next, cmd = m.Update(out)
		m = next.(Model)
	}
	return m
}

func TestNewModelComputesTimeline(t *testing.T) {
	m, _ := setupModel(t)
	if m.result == nil {
		t.Fatalf("expected a timeline, status: %s", m.status)
	}
	if m.result.Selection.DayIndex != 4 {
		t.Errorf("DayIndex = %d, want 4 (Friday)", m.result.Selection.DayIndex)
	}
	if m.result.Times.EarliestAlarm != "06:40" {
		t.Errorf("EarliestAlarm = %q, want 06:40", m.result.Times.EarliestAlarm)
	}
	if !strings.Contains(m.View(), "Today") {
		t.Error("expected tabs in the view")
	}
}

func TestMealCycle(t *testing.T) {
	m, _ := setupModel(t)

	m = press(t, m, "m")
	if m.meal != models.MealBreakfast || m.result.Times.EarliestAlarm != "06:25" {
		t.Errorf("after one press: meal=%s alarm=%s", m.meal, m.result.Times.EarliestAlarm)
	}
	m = press(t, m, "m")
	if m.meal != models.MealLunch || m.result.Times.EarliestAlarm != "06:10" {
		t.Errorf("after two presses: meal=%s alarm=%s", m.meal, m.result.Times.EarliestAlarm)
	}
	m = press(t, m, "m")
	if m.meal != models.MealNone {
		t.Errorf("expected the cycle to return to none, got %s", m.meal)
	}
}

func TestCopyAlarm(t *testing.T) {
	old := clipboardWrite
	defer func() { clipboardWrite = old }()

	var copied string
	clipboardWrite = func(s string) error {
		copied = s
		return nil
	}

	m, _ := setupModel(t)
	m = press(t, m, "c")
	if copied != "06:40" {
		t.Errorf("copied %q, want 06:40", copied)
	}

	clipboardWrite = func(string) error { return errors.New("no display") }
	m = press(t, m, "c")
	if !strings.Contains(m.status, "Clipboard unavailable") {
		t.Errorf("status = %q", m.status)
	}
}

func TestTabsCycle(t *testing.T) {
	m, _ := setupModel(t)
	for _, want := range []constants.SessionState{constants.StateWeek, constants.StateShifts, constants.StatePrefs, constants.StateHome} {
		m = press(t, m, "tab")
		if m.state != want {
			t.Fatalf("state = %d, want %d", m.state, want)
		}
	}
}

func TestWeekAssign(t *testing.T) {
	m, store := setupModel(t)
	m = press(t, m, "tab")

	// The cursor starts on today (Thursday); the next catalog entry after
	// morning is middle.
	m = press(t, m, "right")
	plan, _ := store.GetWeekPlan()
	if plan[3] == nil || *plan[3] != "middle" {
		t.Fatalf("Thursday = %v, want middle (status %q)", plan[3], m.status)
	}

	m = press(t, m, "r")
	plan, _ = store.GetWeekPlan()
	if plan[3] != nil {
		t.Errorf("Thursday = %q, want rest", *plan[3])
	}

	m = press(t, m, "down")
	if m.weekView.Cursor() != 4 {
		t.Errorf("cursor = %d, want 4", m.weekView.Cursor())
	}
}

func TestDeleteShiftConfirm(t *testing.T) {
	m, store := setupModel(t)
	m.state = constants.StateShifts

	next, _ := m.Update(shifts.DeleteShiftMsg{ID: "middle"})
	m = next.(Model)
	if m.state != constants.StateConfirmDelete {
		t.Fatalf("state = %d, want confirm delete", m.state)
	}

	m = press(t, m, "n")
	if m.state != constants.StateShifts {
		t.Errorf("state after cancel = %d", m.state)
	}
	if _, err := store.GetShift("middle"); err != nil {
		t.Error("cancel must keep the shift")
	}

	next, _ = m.Update(shifts.DeleteShiftMsg{ID: "middle"})
	m = press(t, next.(Model), "y")
	if _, err := store.GetShift("middle"); err == nil {
		t.Error("expected the shift to be deleted")
	}

	next, _ = m.Update(shifts.DeleteShiftMsg{ID: models.RestShiftID})
	m = press(t, next.(Model), "y")
	if !strings.Contains(m.status, "Cannot delete") {
		t.Errorf("status = %q, want a refusal", m.status)
	}
}

func TestPrefsFormApply(t *testing.T) {
	prefs := models.DefaultPreferences()
	fm := newPrefsFormModel(prefs)
	fm.Commute = "55"
	fm.CutoffHour = "6"
	fm.Snooze = "oops"
	fm.apply(&prefs)

	if prefs.Commute != 55 || prefs.CutoffHour != 6 {
		t.Errorf("unexpected prefs %+v", prefs)
	}
	if prefs.Snooze != models.DefaultPreferences().Snooze {
		t.Error("unparsable values must leave the field unchanged")
	}
}

func TestValidationWarning(t *testing.T) {
	m, store := setupModel(t)
	if m.validationWarning != "" {
		t.Fatalf("unexpected warning %q", m.validationWarning)
	}

	if err := store.AddShift(models.Shift{ID: "dup", Name: "Morning", StartTime: "09:00", EndTime: "17:00"}); err != nil {
		t.Fatal(err)
	}
	m.refresh()
	if !strings.Contains(m.validationWarning, "1 validation warning") {
		t.Errorf("validationWarning = %q", m.validationWarning)
	}
}
