package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/meetmate/internal/constants"
	"github.com/julianstephens/meetmate/internal/tui/components/efficiency"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var content string
	switch m.state {
	case constants.StateBook, constants.StateBrief, constants.StateReschedule:
		content = docStyle.Render(m.form.View())
	case constants.StateDelete:
		content = m.viewConfirmDelete()
	default:
		content = m.viewCalendar()
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		headerStyle.Render("MeetMate"),
		content,
		m.viewStatus(),
		m.help.View(m),
	)
}

func (m Model) viewCalendar() string {
	return docStyle.Render(lipgloss.JoinHorizontal(
		lipgloss.Top,
		m.calendarModel.View(),
		"    ",
		efficiency.View(m.svc.Tracker.Snapshot()),
	))
}

func (m Model) viewConfirmDelete() string {
	occupant, _ := m.svc.Scheduler.Occupant(m.pendingLabel)
	body := lipgloss.JoinVertical(lipgloss.Center,
		dangerStyle.Render(fmt.Sprintf("Delete %s at %s?", occupant, m.pendingLabel)),
		"",
		"[y] Yes",
		"[n] No",
	)
	if m.width > 0 && m.height > 4 {
		return lipgloss.Place(m.width, m.height-4, lipgloss.Center, lipgloss.Center, body)
	}
	return docStyle.Render(body)
}

func (m Model) viewStatus() string {
	var lines []string
	if m.status != "" {
		lines = append(lines, statusStyle.Render(m.status))
	}
	for _, w := range m.warnings {
		lines = append(lines, warningStyle.Render("⚠ "+w))
	}
	return strings.Join(lines, "\n")
}
