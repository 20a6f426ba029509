package week

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/shiftwake/internal/constants"
	"github.com/julianstephens/shiftwake/internal/models"
)

var (
	dayStyle = lipgloss.NewStyle().
			Width(12)

	cursorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true)

	restStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true)

	todayMarker = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86")).
			Render(" ●")
)

// AssignMsg asks the parent to store a new assignment for a day.
type AssignMsg struct {
	Day     int
	ShiftID *string
}

type KeyMap struct {
	Up   key.Binding
	Down key.Binding
	Prev key.Binding
	Next key.Binding
	Rest key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "prev day"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "next day"),
		),
		Prev: key.NewBinding(
			key.WithKeys("left"),
			key.WithHelp("←", "prev shift"),
		),
		Next: key.NewBinding(
			key.WithKeys("right", "enter"),
			key.WithHelp("→", "next shift"),
		),
		Rest: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "set rest"),
		),
	}
}

type Model struct {
	Keys    KeyMap
	plan    models.WeekPlan
	catalog []models.Shift
	policy  models.RestPolicy
	cursor  int
	today   int
}

func New(plan models.WeekPlan, catalog []models.Shift, policy models.RestPolicy, today int) Model {
	return Model{
		Keys:    DefaultKeyMap(),
		plan:    plan,
		catalog: catalog,
		policy:  policy,
		cursor:  today,
		today:   today,
	}
}

func (m *Model) SetData(plan models.WeekPlan, catalog []models.Shift, policy models.RestPolicy) {
	m.plan = plan
	m.catalog = catalog
	m.policy = policy
}

func (m Model) Cursor() int {
	return m.cursor
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, m.Keys.Up):
		m.cursor = (m.cursor + constants.DaysPerWeek - 1) % constants.DaysPerWeek
	case key.Matches(keyMsg, m.Keys.Down):
		m.cursor = (m.cursor + 1) % constants.DaysPerWeek
	case key.Matches(keyMsg, m.Keys.Next):
		return m, m.assign(m.cycle(1))
	case key.Matches(keyMsg, m.Keys.Prev):
		return m, m.assign(m.cycle(-1))
	case key.Matches(keyMsg, m.Keys.Rest):
		return m, m.assign(nil)
	}
	return m, nil
}

// cycle returns the id of the catalog entry step positions away from the
// current day's assignment.
func (m Model) cycle(step int) *string {
	if len(m.catalog) == 0 {
		return nil
	}
	idx := -1
	if id := m.plan[m.cursor]; id != nil {
		for i, s := range m.catalog {
			if s.ID == *id {
				idx = i
				break
			}
		}
	}
	n := len(m.catalog)
	if idx < 0 && step < 0 {
		idx = 0
	}
	next := ((idx+step)%n + n) % n
	id := m.catalog[next].ID
	return &id
}

func (m Model) assign(id *string) tea.Cmd {
	day := m.cursor
	return func() tea.Msg { return AssignMsg{Day: day, ShiftID: id} }
}

func (m Model) View() string {
	var b strings.Builder
	for day := 0; day < constants.DaysPerWeek; day++ {
		name := models.DayName(day)
		label := m.shiftLabel(day)

		prefix := "  "
		if day == m.cursor {
			prefix = cursorStyle.Render("> ")
			label = cursorStyle.Render(label)
		}
		line := prefix + dayStyle.Render(name) + label
		if day == m.today {
			line += todayMarker
		}
		b.WriteString(line + "\n")
	}
	return b.String()
}

func (m Model) shiftLabel(day int) string {
	id := m.plan[day]
	if id == nil {
		return restStyle.Render("rest")
	}
	s, ok := models.FindShift(m.catalog, *id)
	if !ok {
		return fmt.Sprintf("? (%s)", *id)
	}
	if m.policy.IsRest(s) {
		return restStyle.Render(s.Name)
	}
	return fmt.Sprintf("%s %s-%s", s.Name, s.StartTime, s.EndTime)
}
