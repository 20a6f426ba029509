package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/shiftwake/internal/constants"
	"github.com/julianstephens/shiftwake/internal/models"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var content string

	switch m.state {
	case constants.StateHome:
		content = docStyle.Render(m.timelineView.View())
	case constants.StateWeek:
		content = docStyle.Render(m.weekView.View())
	case constants.StateShifts:
		content = docStyle.Render(m.shiftList.View())
	case constants.StatePrefs:
		content = docStyle.Render(m.viewPrefs())
	case constants.StateEditPrefs, constants.StateEditShift:
		content = m.viewForm()
	case constants.StateConfirmDelete:
		content = m.viewConfirmDelete()
	}

	parts := []string{m.viewTabs(), content}
	if m.status != "" {
		parts = append(parts, statusStyle.Render(m.status))
	}
	if m.validationWarning != "" {
		parts = append(parts, warningStyle.Render(m.validationWarning))
	}
	parts = append(parts, m.help.View(m))

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m Model) viewTabs() string {
	var tabs []string
	for i, title := range tabTitles {
		if m.state == constants.SessionState(i) {
			tabs = append(tabs, activeTabStyle.Render(title))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(title))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) viewPrefs() string {
	var b strings.Builder
	for _, k := range models.PreferenceKeys() {
		v, _ := m.prefs.Get(k)
		unit := "min"
		if k == constants.PrefCutoffHour {
			unit = "h"
		}
		b.WriteString(fmt.Sprintf("%-14s %4d %s\n", k, v, unit))
	}
	b.WriteString(fmt.Sprintf("\nmeal: %s", m.meal))
	return b.String()
}

func (m Model) viewForm() string {
	view := m.form.View()
	if m.formError != "" {
		view = lipgloss.JoinVertical(lipgloss.Left, view, dangerStyle.Render(m.formError))
	}
	return docStyle.Render(view)
}

func (m Model) viewConfirmDelete() string {
	name := m.shiftToDeleteID
	if s, err := m.store.GetShift(m.shiftToDeleteID); err == nil {
		name = s.Name
	}
	return lipgloss.Place(m.width, m.height-4,
		lipgloss.Center, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Center,
			dangerStyle.Render(fmt.Sprintf("Delete shift %q? Days using it become rest days.", name)),
			"",
			"[y] Yes",
			"[n] No",
		),
	)
}
