package system

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/meetmate/internal/cli"
	"github.com/julianstephens/meetmate/internal/logger"
	"github.com/julianstephens/meetmate/internal/tui"
)

type TuiCmd struct {
	NoReminders bool `help:"Do not run the reminder daemon while the TUI is open."`
}

func (c *TuiCmd) Run(ctx *cli.Context) error {
	ctx.PerformAutomaticBackup()

	runCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	p := tea.NewProgram(tui.NewModel(runCtx, ctx.Assistant), tea.WithAltScreen())
	ctx.Notifier = tui.ProgramNotifier{Program: p}

	if !c.NoReminders {
		d := NewReminderDaemon(ctx)
		go func() {
			if err := d.Run(runCtx); err != nil && runCtx.Err() == nil {
				logger.Error("Reminder daemon exited", "error", err)
			}
		}()
	}

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui exited with error: %w", err)
	}
	return nil
}
