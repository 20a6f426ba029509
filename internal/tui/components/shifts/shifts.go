package shifts

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/shiftwake/internal/models"
)

type AddShiftMsg struct{}

type DeleteShiftMsg struct {
	ID string
}

type EditShiftMsg struct {
	Shift models.Shift
}

type Item struct {
	Shift models.Shift
	Rest  bool
}

func (i Item) Title() string {
	if i.Rest {
		return i.Shift.Name + " (rest)"
	}
	return i.Shift.Name
}

func (i Item) Description() string {
	if i.Rest {
		return "no alarm"
	}
	desc := fmt.Sprintf("%s - %s", i.Shift.StartTime, i.Shift.EndTime)
	if d, err := i.Shift.DurationMin(); err == nil {
		desc += fmt.Sprintf(" | %dh%02d", d/60, d%60)
	}
	if i.Shift.IsOvernight() {
		desc += " | overnight"
	}
	return desc
}

func (i Item) FilterValue() string { return i.Shift.Name }

type KeyMap struct {
	Add    key.Binding
	Edit   key.Binding
	Delete key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Add: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "add"),
		),
		Edit: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "edit"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),
	}
}

type Model struct {
	list list.Model
	keys KeyMap
}

func New(catalog []models.Shift, policy models.RestPolicy, width, height int) Model {
	l := list.New(items(catalog, policy), list.NewDefaultDelegate(), width, height)
	l.Title = "Shifts"
	l.SetShowTitle(false)
	l.SetShowHelp(false)

	keys := DefaultKeyMap()
	l.AdditionalShortHelpKeys = func() []key.Binding {
		return []key.Binding{keys.Add, keys.Edit, keys.Delete}
	}
	l.AdditionalFullHelpKeys = func() []key.Binding {
		return []key.Binding{keys.Add, keys.Edit, keys.Delete}
	}

	return Model{list: l, keys: keys}
}

func items(catalog []models.Shift, policy models.RestPolicy) []list.Item {
	out := make([]list.Item, len(catalog))
	for i, s := range catalog {
		out[i] = Item{Shift: s, Rest: policy.IsRest(s)}
	}
	return out
}

func (m *Model) SetShifts(catalog []models.Shift, policy models.RestPolicy) {
	m.list.SetItems(items(catalog, policy))
}

// Selected returns the highlighted shift.
func (m Model) Selected() (models.Shift, bool) {
	i, ok := m.list.SelectedItem().(Item)
	return i.Shift, ok
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.list.FilterState() == list.Filtering {
			break
		}
		switch {
		case key.Matches(msg, m.keys.Add):
			return m, func() tea.Msg { return AddShiftMsg{} }
		case key.Matches(msg, m.keys.Edit):
			if i, ok := m.list.SelectedItem().(Item); ok {
				return m, func() tea.Msg { return EditShiftMsg{Shift: i.Shift} }
			}
		case key.Matches(msg, m.keys.Delete):
			if i, ok := m.list.SelectedItem().(Item); ok {
				return m, func() tea.Msg { return DeleteShiftMsg{ID: i.Shift.ID} }
			}
		}
	}

	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if len(m.list.Items()) == 0 && m.list.FilterState() != list.Filtering {
		return "\n  No shifts yet.\n  Press 'a' to add one."
	}
	return m.list.View()
}

func (m *Model) SetSize(width, height int) {
	m.list.SetSize(width, height)
}
