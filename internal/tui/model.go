package tui

import (
	"fmt"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/shiftwake/internal/activeday"
	"github.com/julianstephens/shiftwake/internal/constants"
	"github.com/julianstephens/shiftwake/internal/models"
	"github.com/julianstephens/shiftwake/internal/storage"
	"github.com/julianstephens/shiftwake/internal/timeline"
	"github.com/julianstephens/shiftwake/internal/tui/components/shifts"
	timelineview "github.com/julianstephens/shiftwake/internal/tui/components/timeline"
	"github.com/julianstephens/shiftwake/internal/tui/components/week"
	"github.com/julianstephens/shiftwake/internal/upcoming"
	"github.com/julianstephens/shiftwake/internal/utils"
	"github.com/julianstephens/shiftwake/internal/validation"
)

var clipboardWrite = clipboard.WriteAll

var tabTitles = []string{"Today", "Week", "Shifts", "Prefs"}

type PrefsFormModel struct {
	Snooze       string
	WashUp       string
	Breakfast    string
	Lunch        string
	Commute      string
	EarlyArrival string
	CutoffHour   string
}

type ShiftFormModel struct {
	Name      string
	StartTime string
	EndTime   string
}

type Model struct {
	store     storage.Provider
	calc      *timeline.Calculator
	now       func() time.Time
	state     constants.SessionState
	prevState constants.SessionState
	keys      KeyMap
	help      help.Model

	timelineView timelineview.Model
	weekView     week.Model
	shiftList    shifts.Model

	prefs        models.Preferences
	meal         models.MealSelection
	tomorrow     bool
	result       *upcoming.Result
	form         *huh.Form
	prefsForm    *PrefsFormModel
	shiftForm    *ShiftFormModel
	editingShift *models.Shift

	shiftToDeleteID     string
	status              string
	formError           string
	validationWarning   string
	validationConflicts []validation.Conflict

	quitting bool
	width    int
	height   int
}

func NewModel(store storage.Provider, calc *timeline.Calculator) Model {
	return newModel(store, calc, time.Now)
}

func newModel(store storage.Provider, calc *timeline.Calculator, now func() time.Time) Model {
	meal := models.MealNone
	today := 0
	if settings, err := store.GetSettings(); err == nil {
		meal = settings.Meal()
		if loc, err := utils.LoadLocation(settings.Timezone); err == nil {
			today = activeday.SelectOffset(now().In(loc), 0, models.WeekPlan{}).DayIndex
		}
	}

	m := Model{
		store:        store,
		calc:         calc,
		now:          now,
		state:        constants.StateHome,
		keys:         DefaultKeyMap(),
		help:         help.New(),
		timelineView: timelineview.New(0, 0),
		weekView:     week.New(models.WeekPlan{}, nil, calc.RestPolicy(), today),
		shiftList:    shifts.New(nil, calc.RestPolicy(), 0, 0),
		meal:         meal,
	}
	m.refresh()
	return m
}

func (m Model) ShortHelp() []key.Binding {
	keys := []key.Binding{m.keys.Tab, m.keys.Quit, m.keys.Help}
	switch m.state {
	case constants.StateHome:
		keys = append(keys, m.keys.Meal, m.keys.Tomorrow, m.keys.Copy)
	case constants.StateWeek:
		keys = append(keys, m.weekView.Keys.Next, m.weekView.Keys.Rest)
	case constants.StatePrefs:
		keys = append(keys, m.keys.Edit)
	}
	return keys
}

func (m Model) FullHelp() [][]key.Binding {
	global := []key.Binding{m.keys.Tab, m.keys.ShiftTab, m.keys.Quit, m.keys.Help}

	var actions []key.Binding
	switch m.state {
	case constants.StateHome:
		actions = []key.Binding{m.keys.Meal, m.keys.Tomorrow, m.keys.Copy}
	case constants.StateWeek:
		wk := m.weekView.Keys
		actions = []key.Binding{wk.Up, wk.Down, wk.Prev, wk.Next, wk.Rest}
	case constants.StateShifts:
		sk := shifts.DefaultKeyMap()
		actions = []key.Binding{sk.Add, sk.Edit, sk.Delete}
	case constants.StatePrefs:
		actions = []key.Binding{m.keys.Edit}
	}

	return [][]key.Binding{global, actions}
}

func (m Model) Init() tea.Cmd {
	return nil
}

// refresh reloads everything shown from the store and recomputes the
// timeline. Errors are surfaced in the status line.
func (m *Model) refresh() {
	prefs, err := m.store.GetPreferences()
	if err != nil {
		m.status = "Failed to load preferences: " + err.Error()
		return
	}
	m.prefs = prefs

	plan, err := m.store.GetWeekPlan()
	if err != nil {
		m.status = "Failed to load week plan: " + err.Error()
		return
	}
	catalog, err := m.store.GetAllShifts()
	if err != nil {
		m.status = "Failed to load shifts: " + err.Error()
		return
	}
	m.weekView.SetData(plan, catalog, m.calc.RestPolicy())
	m.shiftList.SetShifts(catalog, m.calc.RestPolicy())

	res, err := upcoming.Resolve(m.store, m.calc, m.now(), upcoming.Options{
		Meal:     string(m.meal),
		Tomorrow: m.tomorrow,
	})
	if err != nil {
		m.status = "Failed to calculate timeline: " + err.Error()
		return
	}
	m.result = &res
	m.timelineView.SetResult(res)

	m.updateValidationStatus(plan, catalog)
}

func (m *Model) updateValidationStatus(plan models.WeekPlan, catalog []models.Shift) {
	result := validation.New(m.calc).Validate(plan, catalog, m.prefs, m.meal)
	m.validationConflicts = result.Conflicts
	if result.HasConflicts() {
		m.validationWarning = fmt.Sprintf("⚠ %d validation warning(s)", len(result.Conflicts))
	} else {
		m.validationWarning = ""
	}
}
