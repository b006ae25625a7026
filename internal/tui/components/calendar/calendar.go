package calendar

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/meetmate/internal/models"
)

var (
	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Width(10).
			Align(lipgloss.Right)

	busyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	freeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))

	currentStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Bold(true)

	cursorStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("236"))

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true).
			MarginBottom(1)
)

// Model is the day grid with a movable cursor
type Model struct {
	Views  []models.SlotView
	Cursor int
	width  int
	height int
}

func New(views []models.SlotView) Model {
	return Model{Views: views}
}

func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// SetViews replaces the grid, keeping the cursor in range
func (m *Model) SetViews(views []models.SlotView) {
	m.Views = views
	if m.Cursor >= len(views) {
		m.Cursor = len(views) - 1
	}
	if m.Cursor < 0 {
		m.Cursor = 0
	}
}

func (m *Model) MoveUp() {
	if m.Cursor > 0 {
		m.Cursor--
	}
}

func (m *Model) MoveDown() {
	if m.Cursor < len(m.Views)-1 {
		m.Cursor++
	}
}

// Selected returns the slot under the cursor
func (m Model) Selected() (models.SlotView, bool) {
	if m.Cursor < 0 || m.Cursor >= len(m.Views) {
		return models.SlotView{}, false
	}
	return m.Views[m.Cursor], true
}

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Today"))
	b.WriteString("\n")
	for i, v := range m.Views {
		line := Row(v)
		if i == m.Cursor {
			line = cursorStyle.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}

// Render draws every slot without a cursor
func Render(views []models.SlotView) string {
	var b strings.Builder
	for _, v := range views {
		b.WriteString(Row(v))
		b.WriteString("\n")
	}
	return b.String()
}

// Row draws one slot: label, marker and occupant
func Row(v models.SlotView) string {
	marker := " "
	if v.Current {
		marker = currentStyle.Render("▶")
	}

	var status string
	if v.Busy {
		status = busyStyle.Render(fmt.Sprintf("● %s", v.Occupant))
	} else {
		status = freeStyle.Render("○ free")
	}
	return fmt.Sprintf("%s %s %s", labelStyle.Render(v.Label), marker, status)
}
