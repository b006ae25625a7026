package main

import (
	stderrors "errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/alecthomas/kong"
	"github.com/mattn/go-isatty"

	"github.com/julianstephens/meetmate/internal/assistant"
	"github.com/julianstephens/meetmate/internal/brief"
	"github.com/julianstephens/meetmate/internal/cli"
	"github.com/julianstephens/meetmate/internal/cli/backups"
	"github.com/julianstephens/meetmate/internal/cli/meetings"
	"github.com/julianstephens/meetmate/internal/cli/system"
	"github.com/julianstephens/meetmate/internal/constants"
	"github.com/julianstephens/meetmate/internal/efficiency"
	"github.com/julianstephens/meetmate/internal/errors"
	"github.com/julianstephens/meetmate/internal/keyring"
	"github.com/julianstephens/meetmate/internal/logger"
	"github.com/julianstephens/meetmate/internal/models"
	"github.com/julianstephens/meetmate/internal/notifier"
	"github.com/julianstephens/meetmate/internal/presence"
	"github.com/julianstephens/meetmate/internal/scheduler"
	"github.com/julianstephens/meetmate/internal/storage"
	"github.com/julianstephens/meetmate/internal/storage/postgres"
	"github.com/julianstephens/meetmate/internal/utils"
)

var CLI struct {
	Version kong.VersionFlag
	Config  string `help:"Calendar file (.json or .db), PostgreSQL connection string, or 'keyring' to use the stored connection string." default:"${calendar}" env:"MEETMATE_CALENDAR"`
	Debug   bool   `help:"Log to stderr as well as the log file."`

	Hours          []string                 `help:"Working-hour slot labels, in order." placeholder:"LABEL" env:"MEETMATE_HOURS"`
	Ideal          map[string]time.Duration `help:"Ideal duration per operation kind (face-auth, schedule, delete, reschedule, hand-gesture)." placeholder:"KIND=DURATION" env:"MEETMATE_IDEALS"`
	ReminderPoll   time.Duration            `help:"Interval between reminder checks." default:"10s" env:"MEETMATE_REMINDER_POLL"`
	ReminderDedupe time.Duration            `help:"Pause after a reminder before checking again." default:"60s" env:"MEETMATE_REMINDER_DEDUPE"`
	LoginSecret    string                   `help:"Login secret. Defaults to the keyring value, then the built-in secret." env:"MEETMATE_LOGIN_SECRET"`
	MaxAttempts    int                      `help:"Login attempts before lockout." default:"3" env:"MEETMATE_MAX_ATTEMPTS"`
	Password       string                   `help:"Password to log in with instead of prompting." env:"MEETMATE_PASSWORD"`
	Quiet          bool                     `help:"Write announcements to the log instead of the tray app."`

	SMTP struct {
		Host     string `help:"SMTP server for participant invitations." env:"MEETMATE_SMTP_HOST"`
		Port     int    `help:"SMTP port." env:"MEETMATE_SMTP_PORT"`
		Username string `help:"SMTP username. The password is read from the keyring (smtp-password)." env:"MEETMATE_SMTP_USERNAME"`
		From     string `help:"Sender address." env:"MEETMATE_SMTP_FROM"`
	} `embed:"" prefix:"smtp-"`
	Message struct {
		Webhook string `help:"Instant message gateway URL." env:"MEETMATE_MESSAGE_WEBHOOK"`
		Token   string `help:"Bearer token for the message gateway." env:"MEETMATE_MESSAGE_TOKEN"`
	} `embed:"" prefix:"message-"`
	PresenceCmd []string `help:"Command that exits 0 when a face is in front of the camera." env:"MEETMATE_PRESENCE_CMD"`

	Init       system.InitCmd         `cmd:"" help:"Initialize the calendar."`
	Tui        system.TuiCmd          `cmd:"" help:"Launch the interactive TUI." default:"1"`
	Day        meetings.DayCmd        `cmd:"" help:"Show today's slots."`
	Book       meetings.BookCmd       `cmd:"" help:"Book a meeting in a slot."`
	Brief      meetings.BriefCmd      `cmd:"" help:"Schedule a meeting from a free-text brief."`
	Delete     meetings.DeleteCmd     `cmd:"" help:"Delete the meeting in a slot."`
	Reschedule meetings.RescheduleCmd `cmd:"" help:"Move a meeting to another slot."`
	Daemon     system.DaemonCmd       `cmd:"" help:"Run the meeting reminder daemon."`
	Face       system.FaceCmd         `cmd:"" help:"Check for a face in front of the camera."`
	Backup     struct {
		Create  backups.BackupCreateCmd  `cmd:"" help:"Create a manual backup." default:"1"`
		List    backups.BackupListCmd    `cmd:"" help:"List available backups."`
		Restore backups.BackupRestoreCmd `cmd:"" help:"Restore from a backup."`
	} `cmd:"" help:"Manage calendar backups."`
	Keyring struct {
		Set    system.KeyringSetCmd    `cmd:"" help:"Store a secret in the OS keyring."`
		Get    system.KeyringGetCmd    `cmd:"" help:"Show a masked secret from the OS keyring."`
		Delete system.KeyringDeleteCmd `cmd:"" help:"Remove a secret from the OS keyring."`
		Status system.KeyringStatusCmd `cmd:"" help:"Check OS keyring availability."`
	} `cmd:"" help:"Manage secrets in the OS keyring."`
}

// commands that do not touch meetings run without the login gate
var ungated = map[string]bool{"init": true, "keyring": true, "backup": true}

// speakerFlushTimeout bounds how long exit waits for tray announcements
const speakerFlushTimeout = 3 * time.Second

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Personal meeting scheduling assistant"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Configuration(kong.JSON, constants.DefaultConfigFile),
		kong.Vars{
			"version":  constants.Version,
			"calendar": constants.DefaultStorePath,
		},
	)

	configDir, err := utils.ExpandPath(constants.DefaultConfigDir)
	if err != nil {
		errors.Fatal(err)
	}
	if err := logger.Init(logger.Config{Debug: CLI.Debug, ConfigDir: configDir}); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to initialize logger: %v\n", err)
	}

	hours, err := workingHours(CLI.Hours)
	if err != nil {
		errors.Fatal(err)
	}
	ideals, err := efficiency.ParseIdeals(CLI.Ideal)
	if err != nil {
		errors.Fatal(err)
	}
	target, err := calendarTarget(CLI.Config)
	if err != nil {
		errors.Fatal(err)
	}

	store := storage.Open(target, hours)
	defer store.Close()

	sched := scheduler.New(store)
	tracker := efficiency.NewTracker(ideals)

	tray := notifier.NewTraySpeaker()
	var speaker notifier.Speaker = tray
	if CLI.Quiet {
		speaker = notifier.LogSpeaker{}
	}
	finish := func() {
		tray.Flush(speakerFlushTimeout)
		store.Close()
	}

	deps := assistant.Deps{
		Scheduler:   sched,
		Interpreter: brief.NewInterpreter(brief.NewWhenExtractor(), hours),
		Tracker:     tracker,
		Speaker:     speaker,
	}
	if email := emailSender(); email != nil {
		deps.Email = email
	}
	if CLI.Message.Webhook != "" {
		deps.Messenger = notifier.NewWebhookMessenger(CLI.Message.Webhook, CLI.Message.Token)
	}
	if len(CLI.PresenceCmd) > 0 {
		deps.Presence = presence.ExecDetector{Command: CLI.PresenceCmd[0], Args: CLI.PresenceCmd[1:]}
	}

	appCtx := &cli.Context{
		Store:     store,
		Scheduler: sched,
		Assistant: assistant.New(deps),
		Tracker:   tracker,
		Notifier:  cli.StdoutNotifier{},
		Settings: cli.Settings{
			ReminderPoll:   CLI.ReminderPoll,
			ReminderDedupe: CLI.ReminderDedupe,
			LoginSecret:    keyring.Resolve(keyring.LoginSecret, CLI.LoginSecret, constants.DefaultLoginSecret),
			MaxAttempts:    CLI.MaxAttempts,
			Password:       CLI.Password,
		},
	}
	if isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd()) {
		appCtx.Prompt = cli.HuhPrompt
	}

	command := strings.Fields(ctx.Command())
	if len(command) > 0 && !ungated[command[0]] {
		if err := appCtx.RequireLogin(); err != nil {
			finish()
			errors.Fatal(err)
		}
	}

	if err := ctx.Run(appCtx); err != nil {
		finish()
		errors.Fatal(err)
	}
	tray.Flush(speakerFlushTimeout)
}

// workingHours normalizes configured labels, or returns the default grid
func workingHours(raw []string) (models.WorkingHours, error) {
	if len(raw) == 0 {
		return models.WorkingHours(constants.DefaultWorkingHours), nil
	}

	hours := make(models.WorkingHours, 0, len(raw))
	for _, r := range raw {
		label := utils.NormalizeLabel(r)
		if label == "" {
			continue
		}
		if hours.Contains(label) {
			return nil, fmt.Errorf("working hour %q listed twice", label)
		}
		hours = append(hours, label)
	}
	if len(hours) == 0 {
		return nil, stderrors.New("at least one working hour is required")
	}
	return hours, nil
}

// calendarTarget expands file paths and resolves the 'keyring' shorthand. PostgreSQL
// passwords must come from the keyring, the environment or .pgpass, never the flag.
func calendarTarget(config string) (string, error) {
	if config == "keyring" {
		connStr, err := keyring.Get(keyring.ConnectionString)
		if err != nil {
			return "", fmt.Errorf("failed to read database-connection from keyring: %w", err)
		}
		if !postgres.IsDSN(connStr) {
			return "", fmt.Errorf("database-connection in keyring is not a PostgreSQL URL or key=value DSN")
		}
		return connStr, nil
	}

	if postgres.IsDSN(config) {
		if _, err := postgres.ValidateConnString(config); err != nil {
			if stderrors.Is(err, postgres.ErrEmbeddedCredentials) {
				return "", fmt.Errorf("%w. Store it with 'meetmate keyring set database-connection <url>' and pass --config keyring", err)
			}
			return "", err
		}
		return config, nil
	}

	return utils.ExpandPath(config)
}

func emailSender() notifier.EmailSender {
	cfg := notifier.SMTPConfig{
		Host:     CLI.SMTP.Host,
		Port:     CLI.SMTP.Port,
		Username: CLI.SMTP.Username,
		From:     CLI.SMTP.From,
	}
	if !cfg.Enabled() {
		return nil
	}
	if cfg.Username != "" {
		cfg.Password = keyring.Resolve(keyring.SMTPPassword, "", "")
	}

	sender, err := notifier.NewSMTPSender(cfg)
	if err != nil {
		logger.Warn("Email invitations disabled", "error", err)
		return nil
	}
	return sender
}
