package brief

import (
	"regexp"
	"strings"
	"time"

	"github.com/julianstephens/meetmate/internal/constants"
	apperrors "github.com/julianstephens/meetmate/internal/errors"
	"github.com/julianstephens/meetmate/internal/models"
	"github.com/julianstephens/meetmate/internal/utils"
)

// FreeSlotFinder returns the earliest free slot label, or false if the day is full
type FreeSlotFinder func() (string, bool)

// TimeExtractor finds a point in time mentioned in free text
type TimeExtractor interface {
	Extract(text string, now time.Time) (time.Time, bool)
}

var (
	aboutPattern = regexp.MustCompile(`(?i)about\s+(.+?)(?:\.|$)`)
	nonDigits    = regexp.MustCompile(`\D`)
)

// Interpreter turns briefs into booking requests
type Interpreter struct {
	extractor TimeExtractor
	hours     models.WorkingHours
}

// NewInterpreter returns an interpreter for hours. A nil extractor disables time detection
// and every brief falls back to the first free slot.
func NewInterpreter(extractor TimeExtractor, hours models.WorkingHours) *Interpreter {
	return &Interpreter{extractor: extractor, hours: hours}
}

// Parse resolves a brief into a slot, a topic and a participant list
func (i *Interpreter) Parse(text, participants string, now time.Time, findFree FreeSlotFinder) (models.ParsedBrief, error) {
	if strings.TrimSpace(text) == "" {
		return models.ParsedBrief{}, apperrors.ErrEmptyBrief
	}

	label, explicit, err := i.ResolveSlot(text, now, findFree)
	if err != nil {
		return models.ParsedBrief{}, err
	}

	return models.ParsedBrief{
		Label:    label,
		Topic:    ExtractTopic(text),
		Contacts: ExtractContacts(participants),
		Explicit: explicit,
	}, nil
}

// ResolveSlot picks the slot for a brief. A time found in the text wins when it lands on a
// working-hour label; otherwise the first free slot is used.
func (i *Interpreter) ResolveSlot(text string, now time.Time, findFree FreeSlotFinder) (string, bool, error) {
	if label, ok := ExtractTime(i.extractor, text, now); ok && i.hours.Contains(label) {
		return label, true, nil
	}

	if findFree != nil {
		if label, ok := findFree(); ok {
			return label, false, nil
		}
	}
	return "", false, apperrors.ErrNoAvailableSlot
}

// ExtractTime returns the hour label of the first time mentioned in text
func ExtractTime(extractor TimeExtractor, text string, now time.Time) (string, bool) {
	if extractor == nil {
		return "", false
	}
	t, ok := extractor.Extract(text, now)
	if !ok {
		return "", false
	}
	return utils.SlotLabel(t), true
}

// ExtractTopic returns the text after "about", or the first few words of the brief
func ExtractTopic(text string) string {
	if m := aboutPattern.FindStringSubmatch(text); m != nil {
		if topic := strings.TrimSpace(m[1]); topic != "" {
			return topic
		}
	}

	words := strings.Fields(text)
	if len(words) > constants.TopicFallbackWords {
		words = words[:constants.TopicFallbackWords]
	}
	if len(words) == 0 {
		return constants.DefaultTopic
	}
	return strings.Join(words, " ")
}

// ExtractContacts splits a comma separated participant list into typed contacts.
// Entries that are neither an address nor a phone number are dropped.
func ExtractContacts(raw string) []models.Contact {
	var contacts []models.Contact
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if strings.Contains(part, "@") {
			contacts = append(contacts, models.Contact{Kind: constants.ContactEmail, Value: part})
			continue
		}
		if digits := nonDigits.ReplaceAllString(part, ""); digits != "" {
			contacts = append(contacts, models.Contact{Kind: constants.ContactPhone, Value: digits})
		}
	}
	return contacts
}
