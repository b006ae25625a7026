package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/meetmate/internal/constants"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.calendarModel.SetSize(msg.Width, msg.Height)
		return m, nil

	case TickMsg:
		m.refresh()
		return m, tick()

	case NotifyMsg:
		m.status = msg.Message
		if msg.Title != "" {
			m.status = fmt.Sprintf("%s: %s", msg.Title, msg.Message)
		}
		m.refresh()
		return m, nil

	case opDoneMsg:
		m.running = false
		m.refresh()
		if msg.err != nil {
			m.status = fmt.Sprintf("✗ %v", msg.err)
			return m, nil
		}
		m.status = msg.result.Summary
		m.warnings = nil
		for _, w := range msg.result.Warnings {
			m.warnings = append(m.warnings, w.Error())
		}
		if msg.result.Delivery != nil {
			return m, waitForDelivery(msg.result.Delivery)
		}
		return m, nil

	case deliveryDoneMsg:
		for _, w := range msg.warnings {
			m.warnings = append(m.warnings, w.Error())
		}
		return m, nil

	case faceDoneMsg:
		m.running = false
		if msg.err != nil {
			m.status = fmt.Sprintf("✗ %v", msg.err)
			return m, nil
		}
		m.status = msg.result.Summary
		return m, nil
	}

	switch m.state {
	case constants.StateBook, constants.StateBrief, constants.StateReschedule:
		return m.updateForm(msg)
	case constants.StateDelete:
		return m.updateConfirmDelete(msg)
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		return m.handleCalendarKeys(msg)
	}
	return m, nil
}

func (m Model) handleCalendarKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, m.keys.Up):
		m.calendarModel.MoveUp()
	case key.Matches(msg, m.keys.Down):
		m.calendarModel.MoveDown()
	case key.Matches(msg, m.keys.Refresh):
		m.svc.Scheduler.Reload()
		m.refresh()
		m.status = "Calendar reloaded"
	}

	if m.running {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Book):
		return m.openBookForm()
	case key.Matches(msg, m.keys.Brief):
		return m.openBriefForm()
	case key.Matches(msg, m.keys.Delete):
		sel, ok := m.calendarModel.Selected()
		if !ok || !sel.Busy {
			m.status = "Select a booked slot to delete"
			return m, nil
		}
		m.pendingLabel = sel.Label
		m.state = constants.StateDelete
	case key.Matches(msg, m.keys.Reschedule):
		return m.openRescheduleForm()
	case key.Matches(msg, m.keys.Face):
		m.running = true
		m.status = "Looking for a face..."
		return m, m.faceCmd()
	}
	return m, nil
}

func (m Model) openBookForm() (tea.Model, tea.Cmd) {
	free := m.freeLabels()
	if len(free) == 0 {
		m.status = "No free slots today."
		return m, nil
	}

	m.bookForm = &BookFormModel{Label: free[0]}
	if sel, ok := m.calendarModel.Selected(); ok && !sel.Busy {
		m.bookForm.Label = sel.Label
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Meeting").
				Value(&m.bookForm.Name).
				Validate(notBlank("meeting name")),
			huh.NewSelect[string]().
				Title("Slot").
				Options(huh.NewOptions(free...)...).
				Value(&m.bookForm.Label),
		),
	)
	m.state = constants.StateBook
	return m, m.form.Init()
}

func (m Model) openBriefForm() (tea.Model, tea.Cmd) {
	m.briefForm = &BriefFormModel{}
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewText().
				Title("Brief").
				Placeholder("Tomorrow 3 PM about project demo").
				Value(&m.briefForm.Text).
				Validate(notBlank("brief")),
			huh.NewInput().
				Title("Participants").
				Placeholder("a@example.com, 15551234567").
				Value(&m.briefForm.Participants),
		),
	)
	m.state = constants.StateBrief
	return m, m.form.Init()
}

func (m Model) openRescheduleForm() (tea.Model, tea.Cmd) {
	sel, ok := m.calendarModel.Selected()
	if !ok || !sel.Busy {
		m.status = "Select a booked slot to reschedule"
		return m, nil
	}
	free := m.freeLabels()
	if len(free) == 0 {
		m.status = "No free slots today."
		return m, nil
	}

	m.pendingLabel = sel.Label
	m.rescheduleForm = &RescheduleFormModel{Target: free[0]}
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title(fmt.Sprintf("Move %s from %s to", sel.Occupant, sel.Label)).
				Options(huh.NewOptions(free...)...).
				Value(&m.rescheduleForm.Target),
		),
	)
	m.state = constants.StateReschedule
	return m, m.form.Init()
}

func (m Model) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && msg.Type == tea.KeyEsc {
		m.state = constants.StateCalendar
		m.form = nil
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		state := m.state
		m.state = constants.StateCalendar
		m.form = nil
		m.running = true
		switch state {
		case constants.StateBook:
			return m, m.bookCmd(m.bookForm.Label, m.bookForm.Name)
		case constants.StateBrief:
			return m, m.briefCmd(m.briefForm.Text, m.briefForm.Participants)
		case constants.StateReschedule:
			return m, m.rescheduleCmd(m.pendingLabel, m.rescheduleForm.Target)
		}
	case huh.StateAborted:
		m.state = constants.StateCalendar
		m.form = nil
		return m, nil
	}
	return m, cmd
}

func (m Model) updateConfirmDelete(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch keyMsg.String() {
	case "y", "Y":
		m.state = constants.StateCalendar
		m.running = true
		return m, m.deleteCmd(m.pendingLabel)
	case "n", "N", "esc", "q":
		m.state = constants.StateCalendar
		m.pendingLabel = ""
	}
	return m, nil
}

func (m Model) bookCmd(label, name string) tea.Cmd {
	return func() tea.Msg {
		res, err := m.svc.ScheduleManual(m.ctx, label, name)
		return opDoneMsg{result: res, err: err}
	}
}

func (m Model) briefCmd(text, participants string) tea.Cmd {
	return func() tea.Msg {
		res, err := m.svc.ScheduleBrief(m.ctx, text, participants)
		return opDoneMsg{result: res, err: err}
	}
}

func (m Model) deleteCmd(label string) tea.Cmd {
	return func() tea.Msg {
		res, err := m.svc.Delete(m.ctx, label)
		return opDoneMsg{result: res, err: err}
	}
}

func (m Model) rescheduleCmd(from, to string) tea.Cmd {
	return func() tea.Msg {
		res, err := m.svc.Reschedule(m.ctx, from, to)
		return opDoneMsg{result: res, err: err}
	}
}

func (m Model) faceCmd() tea.Cmd {
	return func() tea.Msg {
		found, res, err := m.svc.FaceAuth(m.ctx)
		return faceDoneMsg{found: found, result: res, err: err}
	}
}

func notBlank(field string) func(string) error {
	return func(s string) error {
		for _, r := range s {
			if r != ' ' && r != '\t' && r != '\n' {
				return nil
			}
		}
		return fmt.Errorf("%s is required", field)
	}
}
