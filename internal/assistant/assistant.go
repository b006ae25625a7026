package assistant

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/julianstephens/meetmate/internal/brief"
	"github.com/julianstephens/meetmate/internal/constants"
	"github.com/julianstephens/meetmate/internal/efficiency"
	"github.com/julianstephens/meetmate/internal/logger"
	"github.com/julianstephens/meetmate/internal/metrics"
	"github.com/julianstephens/meetmate/internal/models"
	"github.com/julianstephens/meetmate/internal/notifier"
	"github.com/julianstephens/meetmate/internal/presence"
	"github.com/julianstephens/meetmate/internal/reminder"
	"github.com/julianstephens/meetmate/internal/scheduler"
)

var (
	copyToClipboardFunc = clipboard.WriteAll
	nowFunc             = time.Now
)

// FaceAuthTimeout bounds a single presence check
const FaceAuthTimeout = 10 * time.Second

// Deps are the collaborators the assistant drives. Email, Messenger and Presence may be nil.
type Deps struct {
	Scheduler   *scheduler.Scheduler
	Interpreter *brief.Interpreter
	Tracker     *efficiency.Tracker
	Speaker     notifier.Speaker
	Email       notifier.EmailSender
	Messenger   notifier.MessageSender
	Presence    presence.Detector
}

// Service runs the user-facing operations. Each operation is timed by the tracker, and
// notifications go out only after the calendar change has been saved.
type Service struct {
	Deps
}

func New(deps Deps) *Service {
	if deps.Speaker == nil {
		deps.Speaker = notifier.LogSpeaker{}
	}
	return &Service{Deps: deps}
}

// Result describes a completed operation
type Result struct {
	OpID     string
	Kind     constants.OperationKind
	Label    string
	From     string
	Occupant string
	Link     string
	Summary  string
	Score    float64
	Contacts []models.Contact
	// Warnings holds non-fatal problems, such as a clipboard that could not be written
	Warnings []error
	// Delivery is set when participant notifications were dispatched
	Delivery *Delivery
}

// Delivery tracks participant notifications running in the background
type Delivery struct {
	done     chan struct{}
	mu       sync.Mutex
	warnings []error
}

func newDelivery() *Delivery {
	return &Delivery{done: make(chan struct{})}
}

func (d *Delivery) add(err error) {
	d.mu.Lock()
	d.warnings = append(d.warnings, err)
	d.mu.Unlock()
}

// Wait blocks until every notification attempt has finished and returns the failures
func (d *Delivery) Wait() []error {
	<-d.done
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]error(nil), d.warnings...)
}

// Done is closed once all notification attempts have finished
func (d *Delivery) Done() <-chan struct{} { return d.done }

// MeetingLink builds the video call link for a meeting booked at t
func MeetingLink(name string, t time.Time) string {
	return fmt.Sprintf("%s%s%d", constants.MeetingLinkBase, strings.ReplaceAll(name, " ", ""), t.Unix())
}

// SpokenNames renders participants for an announcement: email addresses by their local
// part, everything else as typed.
func SpokenNames(participants string) string {
	var names []string
	for _, p := range strings.Split(participants, ",") {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if local, _, ok := strings.Cut(p, "@"); ok {
			p = local
		}
		names = append(names, p)
	}
	if len(names) == 0 {
		return "no participants"
	}
	return strings.Join(names, ", ")
}

// ScheduleManual books name at label
func (s *Service) ScheduleManual(ctx context.Context, label, name string) (Result, error) {
	res := Result{OpID: uuid.NewString(), Kind: constants.OpSchedule, Label: strings.TrimSpace(label), Occupant: strings.TrimSpace(name)}
	opLog := logger.With("op", res.OpID, "kind", res.Kind)

	var err error
	res.Score, err = s.Tracker.Time(constants.OpSchedule, func() error {
		if err := s.Scheduler.Book(label, name); err != nil {
			return err
		}
		res.Link = MeetingLink(res.Occupant, nowFunc())
		res.Warnings = append(res.Warnings, copyLink(res.Link)...)
		return nil
	})
	if err != nil {
		opLog.Warn("Schedule rejected", "label", label, "error", err)
		return res, err
	}

	res.Summary = fmt.Sprintf("Meeting %s scheduled at %s.", res.Occupant, res.Label)
	s.Speaker.Speak(res.Summary)
	opLog.Info("Meeting scheduled", "label", res.Label, "occupant", res.Occupant, "score", res.Score)
	return res, nil
}

// ScheduleBrief interprets a free-text brief, books it, and notifies the participants
func (s *Service) ScheduleBrief(ctx context.Context, text, participants string) (Result, error) {
	res := Result{OpID: uuid.NewString(), Kind: constants.OpSchedule}
	opLog := logger.With("op", res.OpID, "kind", res.Kind)

	var parsed models.ParsedBrief
	var err error
	res.Score, err = s.Tracker.Time(constants.OpSchedule, func() error {
		parsed, err = s.Interpreter.Parse(text, participants, nowFunc(), s.Scheduler.FirstFree)
		if err != nil {
			return err
		}
		if err := s.Scheduler.Book(parsed.Label, parsed.Topic); err != nil {
			return err
		}
		res.Label, res.Occupant, res.Contacts = parsed.Label, parsed.Topic, parsed.Contacts
		res.Link = MeetingLink(parsed.Topic, nowFunc())
		res.Warnings = append(res.Warnings, copyLink(res.Link)...)
		return nil
	})
	if err != nil {
		opLog.Warn("Brief rejected", "error", err)
		return res, err
	}

	res.Summary = fmt.Sprintf("Scheduled %s at %s. Notifying: %s.", res.Occupant, res.Label, SpokenNames(participants))
	s.Speaker.Speak(res.Summary)
	res.Delivery = s.dispatch(ctx, opLog, parsed, res.Link)

	opLog.Info("Brief scheduled", "label", res.Label, "topic", res.Occupant, "explicit", parsed.Explicit, "contacts", len(res.Contacts), "score", res.Score)
	return res, nil
}

// Delete frees label
func (s *Service) Delete(ctx context.Context, label string) (Result, error) {
	res := Result{OpID: uuid.NewString(), Kind: constants.OpDelete, Label: strings.TrimSpace(label)}
	opLog := logger.With("op", res.OpID, "kind", res.Kind)

	var err error
	res.Score, err = s.Tracker.Time(constants.OpDelete, func() error {
		res.Occupant, err = s.Scheduler.Delete(label)
		return err
	})
	if err != nil {
		opLog.Warn("Delete rejected", "label", label, "error", err)
		return res, err
	}

	res.Summary = fmt.Sprintf("Deleted meeting %s at %s", res.Occupant, res.Label)
	s.Speaker.Speak(res.Summary)
	opLog.Info("Meeting deleted", "label", res.Label, "occupant", res.Occupant, "score", res.Score)
	return res, nil
}

// Reschedule moves the meeting at from to to
func (s *Service) Reschedule(ctx context.Context, from, to string) (Result, error) {
	res := Result{OpID: uuid.NewString(), Kind: constants.OpReschedule, From: strings.TrimSpace(from), Label: strings.TrimSpace(to)}
	opLog := logger.With("op", res.OpID, "kind", res.Kind)

	var err error
	res.Score, err = s.Tracker.Time(constants.OpReschedule, func() error {
		res.Occupant, err = s.Scheduler.Reschedule(from, to)
		return err
	})
	if err != nil {
		opLog.Warn("Reschedule rejected", "from", from, "to", to, "error", err)
		return res, err
	}

	res.Summary = fmt.Sprintf("Rescheduled %s from %s to %s", res.Occupant, res.From, res.Label)
	s.Speaker.Speak(res.Summary)
	opLog.Info("Meeting rescheduled", "from", res.From, "to", res.Label, "occupant", res.Occupant, "score", res.Score)
	return res, nil
}

// FaceAuth runs one presence check and reports whether a face was detected
func (s *Service) FaceAuth(ctx context.Context) (bool, Result, error) {
	res := Result{OpID: uuid.NewString(), Kind: constants.OpFaceAuth}
	if s.Presence == nil {
		return false, res, fmt.Errorf("face detection is not configured")
	}

	var found bool
	var err error
	res.Score, err = s.Tracker.Time(constants.OpFaceAuth, func() error {
		found, err = s.Presence.Detect(ctx, FaceAuthTimeout)
		return err
	})
	if err != nil {
		logger.Warn("Face check failed", "op", res.OpID, "error", err)
		return false, res, err
	}

	if found {
		res.Summary = "Face detected."
	} else {
		res.Summary = "No face detected."
	}
	s.Speaker.Speak(res.Summary)
	return found, res, nil
}

// Remind announces a reminder for the meeting at label
func (s *Service) Remind(_ context.Context, occupant, label string) error {
	s.Speaker.Speak(reminder.Text(occupant, label))
	return nil
}

// dispatch sends email and instant messages in the background
func (s *Service) dispatch(ctx context.Context, opLog *log.Logger, parsed models.ParsedBrief, link string) *Delivery {
	d := newDelivery()
	var wg sync.WaitGroup

	if emails := parsed.Emails(); len(emails) > 0 {
		if s.Email == nil {
			d.add(fmt.Errorf("email: %d recipients skipped, no mail server configured", len(emails)))
		} else {
			wg.Add(1)
			go func() {
				defer wg.Done()
				subject := fmt.Sprintf("Meeting: %s", parsed.Topic)
				body := fmt.Sprintf("Meeting '%s' at %s\nJoin: %s", parsed.Topic, parsed.Label, link)
				if err := s.Email.Send(ctx, emails, subject, body); err != nil {
					opLog.Warn("Email delivery failed", "error", err)
					metrics.NotificationFailures.WithLabelValues("email").Inc()
					d.add(fmt.Errorf("email: %w", err))
				}
			}()
		}
	}

	if phones := parsed.Phones(); len(phones) > 0 {
		if s.Messenger == nil {
			d.add(fmt.Errorf("message: %d recipients skipped, no gateway configured", len(phones)))
		} else {
			wg.Add(1)
			go func() {
				defer wg.Done()
				body := fmt.Sprintf("Meeting '%s' at %s. Link: %s", parsed.Topic, parsed.Label, link)
				for _, phone := range phones {
					if err := s.Messenger.SendInstant(ctx, phone, body); err != nil {
						opLog.Warn("Message delivery failed", "to", phone, "error", err)
						metrics.NotificationFailures.WithLabelValues("message").Inc()
						d.add(fmt.Errorf("message to %s: %w", phone, err))
					}
				}
			}()
		}
	}

	go func() {
		wg.Wait()
		close(d.done)
	}()
	return d
}

func copyLink(link string) []error {
	if err := copyToClipboardFunc(link); err != nil {
		logger.Debug("Clipboard unavailable", "error", err)
		return []error{fmt.Errorf("clipboard: %w", err)}
	}
	return nil
}
