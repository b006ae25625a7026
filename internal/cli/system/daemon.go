package system

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/julianstephens/meetmate/internal/cli"
	"github.com/julianstephens/meetmate/internal/metrics"
	"github.com/julianstephens/meetmate/internal/reminder"
)

type DaemonCmd struct {
	MetricsAddr string `help:"Serve Prometheus metrics on this address (e.g. :9090)." env:"MEETMATE_METRICS_ADDR"`
	Once        bool   `help:"Check the current slot once and exit."`
}

func (c *DaemonCmd) Run(ctx *cli.Context) error {
	d := NewReminderDaemon(ctx)

	if c.Once {
		if !d.Check(context.Background()) {
			fmt.Println("No meeting in the current slot.")
		}
		return nil
	}

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if c.MetricsAddr != "" {
		srv := metrics.NewServer(c.MetricsAddr)
		if err := srv.Start(); err != nil {
			return fmt.Errorf("failed to start metrics server: %w", err)
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Stop(shutdownCtx); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: metrics server shutdown: %v\n", err)
			}
		}()
		fmt.Printf("Metrics available at http://%s/metrics\n", srv.Addr())
	}

	fmt.Printf("Reminder daemon running (poll %s). Press Ctrl+C to stop.\n", ctx.Settings.ReminderPoll)
	if err := d.Run(runCtx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// NewReminderDaemon builds a daemon that reads the store directly, so bookings made by
// other meetmate processes are picked up. Reminders are spoken and also shown through
// ctx.Notifier.
func NewReminderDaemon(ctx *cli.Context) *reminder.Daemon {
	return reminder.NewDaemon(
		reminder.StoreSource{Store: ctx.Store},
		reminder.WithUserNotice(ctx.Assistant, ctx.Notifier),
		reminder.RealClock{},
		reminder.Config{Poll: ctx.Settings.ReminderPoll, Dedupe: ctx.Settings.ReminderDedupe},
	)
}
