package constants

import "time"

// OperationKind identifies a user-facing operation whose duration is scored
type OperationKind string

// ContactKind tags a participant as reachable by email or by phone
type ContactKind string

// SessionState represents the current state of the TUI application
type SessionState int

const (
	AppName            = "meetmate"
	DefaultConfigDir   = "~/.config/meetmate"
	DefaultStorePath   = "~/.config/meetmate/calendar.json"
	DefaultConfigFile  = "~/.config/meetmate/config.json"
	Version            = "v0.1.0"
	KeyringLoginUser   = "login-secret"
	KeyringSMTPUser    = "smtp-password"
	KeyringConnStrUser = "database-connection"

	// SlotLabelFormat renders an hour as a slot label ("9:00 AM", "12:00 PM")
	SlotLabelFormat = "3:04 PM"

	// DefaultTopic is used when a brief yields no topic
	DefaultTopic = "General Meeting"
	// TopicFallbackWords is the number of leading words used as a topic when no "about" clause exists
	TopicFallbackWords = 6

	MeetingLinkBase = "https://meet.jit.si/"

	// Login constants
	DefaultLoginSecret = "meetmate"
	DefaultMaxAttempts = 3

	// Reminder constants
	DefaultReminderPoll   = 10 * time.Second
	DefaultReminderDedupe = 60 * time.Second

	// Notify constants
	NotifierLockfileName   = "meetmate-notifier.lock"
	NotificationDurationMs = 5000
	TrayAppIdentifier      = "com.julianstephens.meetmate"

	// Operation kinds
	OpFaceAuth    OperationKind = "face-auth"
	OpSchedule    OperationKind = "schedule"
	OpDelete      OperationKind = "delete"
	OpReschedule  OperationKind = "reschedule"
	OpHandGesture OperationKind = "hand-gesture"

	// Efficiency display bands
	EfficiencyGood = 80.0
	EfficiencyPoor = 50.0

	// Contact kinds
	ContactEmail ContactKind = "email"
	ContactPhone ContactKind = "phone"

	// Session States
	StateCalendar SessionState = iota
	StateBook
	StateBrief
	StateDelete
	StateReschedule
)

// DefaultWorkingHours is the daily slot grid used when none is configured.
var DefaultWorkingHours = []string{
	"9:00 AM", "10:00 AM", "11:00 AM", "12:00 PM",
	"1:00 PM", "2:00 PM", "3:00 PM", "4:00 PM", "5:00 PM",
}

// DefaultIdealDurations are the reference durations each operation kind is scored against.
var DefaultIdealDurations = map[OperationKind]time.Duration{
	OpFaceAuth:    2 * time.Second,
	OpSchedule:    500 * time.Millisecond,
	OpDelete:      200 * time.Millisecond,
	OpReschedule:  600 * time.Millisecond,
	OpHandGesture: 50 * time.Millisecond,
}

// OperationKinds lists every scored operation in display order.
var OperationKinds = []OperationKind{OpFaceAuth, OpSchedule, OpDelete, OpReschedule, OpHandGesture}
