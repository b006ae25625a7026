package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/meetmate/internal/assistant"
)

type opDoneMsg struct {
	result assistant.Result
	err    error
}

type deliveryDoneMsg struct {
	warnings []error
}

type faceDoneMsg struct {
	found  bool
	result assistant.Result
	err    error
}

// NotifyMsg shows a message on the status line
type NotifyMsg struct {
	Title   string
	Message string
}

// ProgramNotifier delivers user notifications to a running program
type ProgramNotifier struct {
	Program *tea.Program
}

func (n ProgramNotifier) NotifyUser(title, message string) {
	n.Program.Send(NotifyMsg{Title: title, Message: message})
}

func waitForDelivery(d *assistant.Delivery) tea.Cmd {
	return func() tea.Msg {
		return deliveryDoneMsg{warnings: d.Wait()}
	}
}
