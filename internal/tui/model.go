package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/meetmate/internal/assistant"
	"github.com/julianstephens/meetmate/internal/constants"
	"github.com/julianstephens/meetmate/internal/models"
	"github.com/julianstephens/meetmate/internal/tui/components/calendar"
	"github.com/julianstephens/meetmate/internal/utils"
)

type BookFormModel struct {
	Name  string
	Label string
}

type BriefFormModel struct {
	Text         string
	Participants string
}

type RescheduleFormModel struct {
	Target string
}

type Model struct {
	svc            *assistant.Service
	ctx            context.Context
	now            func() time.Time
	state          constants.SessionState
	keys           KeyMap
	help           help.Model
	calendarModel  calendar.Model
	form           *huh.Form
	bookForm       *BookFormModel
	briefForm      *BriefFormModel
	rescheduleForm *RescheduleFormModel
	pendingLabel   string // slot targeted by a delete or reschedule
	status         string
	warnings       []string
	running        bool
	quitting       bool
	width          int
	height         int
}

func NewModel(ctx context.Context, svc *assistant.Service) Model {
	m := Model{
		svc:   svc,
		ctx:   ctx,
		now:   time.Now,
		state: constants.StateCalendar,
		keys:  DefaultKeyMap(),
		help:  help.New(),
	}
	m.calendarModel = calendar.New(m.dayView())
	return m
}

// dayView builds the grid from the scheduler's current calendar
func (m Model) dayView() []models.SlotView {
	return models.DayView(m.svc.Scheduler.Snapshot(), m.svc.Scheduler.Hours(), utils.SlotLabel(m.now()))
}

func (m *Model) refresh() {
	m.calendarModel.SetViews(m.dayView())
}

// freeLabels returns the unoccupied slots in working-hour order
func (m Model) freeLabels() []string {
	var free []string
	for _, v := range m.dayView() {
		if !v.Busy {
			free = append(free, v.Label)
		}
	}
	return free
}

func (m Model) ShortHelp() []key.Binding {
	return m.keys.ShortHelp()
}

func (m Model) FullHelp() [][]key.Binding {
	return m.keys.FullHelp()
}

// TickMsg refreshes the current-hour marker
type TickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(time.Minute, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

func (m Model) Init() tea.Cmd {
	return tick()
}
