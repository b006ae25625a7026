package efficiency

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/meetmate/internal/constants"
	tracker "github.com/julianstephens/meetmate/internal/efficiency"
)

var (
	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(0, 1)

	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true)

	bandStyles = map[tracker.Band]lipgloss.Style{
		tracker.BandGood: lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		tracker.BandFair: lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		tracker.BandPoor: lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
	}

	idleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// View renders the last score of every operation kind
func View(scores map[constants.OperationKind]float64) string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("Efficiency"))
	for _, kind := range constants.OperationKinds {
		b.WriteString("\n")
		score, ok := scores[kind]
		if !ok {
			b.WriteString(fmt.Sprintf("%-13s %s", kind, idleStyle.Render("--")))
			continue
		}
		b.WriteString(fmt.Sprintf("%-13s %s", kind, bandStyles[tracker.Rate(score)].Render(fmt.Sprintf("%5.1f%%", score))))
	}
	return panelStyle.Render(b.String())
}
