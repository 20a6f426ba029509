package timeline

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/shiftwake/internal/models"
	"github.com/julianstephens/shiftwake/internal/upcoming"
)

var (
	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Width(18)

	timeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			Bold(true)

	alarmStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true)

	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86")).
			Bold(true).
			MarginBottom(1)

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true)
)

type Model struct {
	viewport viewport.Model
	Result   *upcoming.Result
	width    int
	height   int
}

func New(width, height int) Model {
	return Model{viewport: viewport.New(width, height)}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if m.Result == nil {
		return "No timeline yet."
	}
	return m.viewport.View()
}

func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = height
	m.Render()
}

func (m *Model) SetResult(res upcoming.Result) {
	m.Result = &res
	m.Render()
}

func (m *Model) Render() {
	if m.Result == nil {
		m.viewport.SetContent("No timeline loaded.")
		return
	}
	res := m.Result

	var b strings.Builder
	header := fmt.Sprintf("%s (%s): %s", res.Selection.DayName(), res.Selection.Label, res.Shift.Name)
	if !res.Times.Rest {
		header += fmt.Sprintf(" %s-%s", res.Shift.StartTime, res.Shift.EndTime)
	}
	b.WriteString(headerStyle.Render(header))
	b.WriteString("\n")

	if res.Times.Rest {
		b.WriteString(statusStyle.Render("Rest day, no alarm needed."))
		b.WriteString("\n")
	}

	for _, cp := range res.Checkpoints {
		style := timeStyle
		if cp.Key == models.CheckpointEarliestAlarm {
			style = alarmStyle
		}
		b.WriteString(fmt.Sprintf("%s %s\n", labelStyle.Render(cp.Label), style.Render(cp.Time)))
	}

	b.WriteString("\n")
	b.WriteString(statusStyle.Render(fmt.Sprintf("meal: %s", res.Meal)))
	m.viewport.SetContent(b.String())
}
