package cli

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/julianstephens/meetmate/internal/assistant"
	"github.com/julianstephens/meetmate/internal/backup"
	"github.com/julianstephens/meetmate/internal/efficiency"
	"github.com/julianstephens/meetmate/internal/logger"
	"github.com/julianstephens/meetmate/internal/login"
	"github.com/julianstephens/meetmate/internal/models"
	"github.com/julianstephens/meetmate/internal/notifier"
	"github.com/julianstephens/meetmate/internal/scheduler"
	"github.com/julianstephens/meetmate/internal/storage"
	"github.com/julianstephens/meetmate/internal/storage/postgres"
	"github.com/julianstephens/meetmate/internal/utils"
)

// Settings are the startup values commands need beyond the store
type Settings struct {
	ReminderPoll   time.Duration
	ReminderDedupe time.Duration
	LoginSecret    string
	MaxAttempts    int
	// Password is submitted to the login gate before any prompt is shown
	Password string
}

type Context struct {
	Store     storage.Provider
	Scheduler *scheduler.Scheduler
	Assistant *assistant.Service
	Tracker   *efficiency.Tracker
	Notifier  notifier.UserNotifier
	Settings  Settings
	// Prompt reads a password interactively; nil when stdin is not a terminal
	Prompt PromptFunc
}

// RequireLogin runs the login gate once for this process
func (c *Context) RequireLogin() error {
	gate := login.NewGate(c.Settings.LoginSecret, c.Settings.MaxAttempts)
	return Login(gate, c.Settings.Password, c.Prompt, c.Notifier, c.Assistant.Speaker)
}

// FileBacked reports whether the calendar lives in a local file rather than a database server
func (c *Context) FileBacked() bool {
	_, remote := c.Store.(*postgres.Store)
	return !remote
}

// PerformAutomaticBackup snapshots a file calendar and only logs failures
func (c *Context) PerformAutomaticBackup() {
	if !c.FileBacked() {
		return
	}
	path := c.Store.GetConfigPath()
	if _, err := os.Stat(path); err != nil {
		return
	}
	if _, err := backup.NewManager(path).CreateBackup(); err != nil {
		logger.Warn("Automatic backup failed", "error", err)
	}
}

// Hours returns the configured working-hour labels
func (c *Context) Hours() models.WorkingHours {
	return c.Store.Hours()
}

// Label normalizes a slot typed on the command line ("9am", "15:00")
func (c *Context) Label(input string) string {
	return utils.NormalizeLabel(input)
}

// StdoutNotifier prints user notifications to stdout
type StdoutNotifier struct{}

func (StdoutNotifier) NotifyUser(title, message string) {
	if title == "" {
		fmt.Println(message)
		return
	}
	fmt.Printf("%s: %s\n", title, message)
}

// FormatScore renders an efficiency score with its band ("92.0% (good)")
func FormatScore(score float64) string {
	return fmt.Sprintf("%.1f%% (%s)", score, efficiency.Rate(score))
}

// FormatWarnings renders non-fatal problems as indented lines
func FormatWarnings(warnings []error) string {
	var b strings.Builder
	for _, w := range warnings {
		fmt.Fprintf(&b, "  ⚠ %v\n", w)
	}
	return b.String()
}
