package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/shiftwake/internal/constants"
	"github.com/julianstephens/shiftwake/internal/models"
	"github.com/julianstephens/shiftwake/internal/storage"
	"github.com/julianstephens/shiftwake/internal/tui/components/shifts"
	"github.com/julianstephens/shiftwake/internal/tui/components/week"
)

const tabCount = 4

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if ws, ok := msg.(tea.WindowSizeMsg); ok {
		m.width = ws.Width
		m.height = ws.Height
		m.help.Width = ws.Width
		m.timelineView.SetSize(ws.Width-4, ws.Height-6)
		m.shiftList.SetSize(ws.Width-4, ws.Height-6)
		return m, nil
	}

	switch m.state {
	case constants.StateEditPrefs, constants.StateEditShift:
		return m.updateForm(msg)
	case constants.StateConfirmDelete:
		return m.updateConfirmDelete(msg)
	}

	switch msg := msg.(type) {
	case week.AssignMsg:
		if err := m.store.SetDayShift(msg.Day, msg.ShiftID); err != nil {
			m.status = "Failed to update plan: " + err.Error()
			return m, nil
		}
		m.status = ""
		m.refresh()
		return m, nil

	case shifts.AddShiftMsg:
		m.editingShift = &models.Shift{}
		m.shiftForm = &ShiftFormModel{}
		return m.openForm(constants.StateEditShift, NewShiftForm(m.shiftForm))

	case shifts.EditShiftMsg:
		s := msg.Shift
		m.editingShift = &s
		m.shiftForm = &ShiftFormModel{Name: s.Name, StartTime: s.StartTime, EndTime: s.EndTime}
		return m.openForm(constants.StateEditShift, NewShiftForm(m.shiftForm))

	case shifts.DeleteShiftMsg:
		m.shiftToDeleteID = msg.ID
		m.prevState = m.state
		m.state = constants.StateConfirmDelete
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Tab):
			m.state = (m.state + 1) % tabCount
			return m, nil
		case key.Matches(msg, m.keys.ShiftTab):
			m.state = (m.state - 1 + tabCount) % tabCount
			return m, nil
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		}
		return m.updateTab(msg)
	}

	return m, nil
}

func (m Model) updateTab(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch m.state {
	case constants.StateHome:
		switch {
		case key.Matches(msg, m.keys.Meal):
			m.meal = m.meal.Next()
			m.refresh()
		case key.Matches(msg, m.keys.Tomorrow):
			m.tomorrow = !m.tomorrow
			m.refresh()
		case key.Matches(msg, m.keys.Copy):
			m.copyAlarm()
		default:
			m.timelineView, cmd = m.timelineView.Update(msg)
		}

	case constants.StateWeek:
		m.weekView, cmd = m.weekView.Update(msg)

	case constants.StateShifts:
		m.shiftList, cmd = m.shiftList.Update(msg)

	case constants.StatePrefs:
		if key.Matches(msg, m.keys.Edit) {
			m.prefsForm = newPrefsFormModel(m.prefs)
			return m.openForm(constants.StateEditPrefs, NewPrefsForm(m.prefsForm))
		}
	}
	return m, cmd
}

func (m *Model) copyAlarm() {
	if m.result == nil || m.result.Times.Rest {
		m.status = "Nothing to copy on a rest day"
		return
	}
	alarm := m.result.Times.EarliestAlarm
	if err := clipboardWrite(alarm); err != nil {
		m.status = "Clipboard unavailable: " + err.Error()
		return
	}
	m.status = "Copied " + alarm + " to the clipboard"
}

func (m Model) openForm(state constants.SessionState, form *huh.Form) (tea.Model, tea.Cmd) {
	m.prevState = m.state
	m.state = state
	m.form = form
	m.formError = ""
	return m, m.form.Init()
}

func (m Model) closeForm() Model {
	m.state = m.prevState
	m.form = nil
	m.editingShift = nil
	return m
}

func (m Model) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && msg.Type == tea.KeyEsc {
		return m.closeForm(), nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		var err error
		if m.state == constants.StateEditPrefs {
			err = m.savePrefs()
		} else {
			err = m.saveShift()
		}
		if err != nil {
			// Stay in the form so the user can retry.
			m.formError = err.Error()
			m.form.State = huh.StateNormal
			return m, cmd
		}
		m = m.closeForm()
		m.refresh()
	case huh.StateAborted:
		m = m.closeForm()
	}
	return m, cmd
}

func (m *Model) savePrefs() error {
	prefs := m.prefs
	m.prefsForm.apply(&prefs)
	return m.store.SavePreferences(prefs)
}

func (m *Model) saveShift() error {
	s := *m.editingShift
	s.Name = m.shiftForm.Name
	s.StartTime = m.shiftForm.StartTime
	s.EndTime = m.shiftForm.EndTime

	if s.ID == "" {
		prepared, err := storage.PrepareShift(s)
		if err != nil {
			return err
		}
		return m.store.AddShift(prepared)
	}
	if err := s.Validate(); err != nil {
		return err
	}
	return m.store.UpdateShift(s)
}

func (m Model) updateConfirmDelete(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.String() {
	case "y", "Y":
		if err := m.store.DeleteShift(m.shiftToDeleteID); err != nil {
			m.status = "Cannot delete: " + err.Error()
		} else {
			m.status = "Shift deleted"
		}
		m.shiftToDeleteID = ""
		m.state = m.prevState
		m.refresh()
	case "n", "N", "esc", "q":
		m.shiftToDeleteID = ""
		m.state = m.prevState
	}
	return m, nil
}
