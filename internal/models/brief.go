package models

import "github.com/julianstephens/meetmate/internal/constants"

// Contact is a meeting participant reachable by email or by phone.
// Phone values hold digits only.
type Contact struct {
	Kind  constants.ContactKind `json:"kind"`
	Value string                `json:"value"`
}

// IsEmail reports whether the contact is tagged as an email address
func (c Contact) IsEmail() bool { return c.Kind == constants.ContactEmail }

// IsPhone reports whether the contact is tagged as a phone number
func (c Contact) IsPhone() bool { return c.Kind == constants.ContactPhone }

// Brief is the raw user input describing a desired meeting
type Brief struct {
	Text         string
	Participants string
}

// ParsedBrief is a brief resolved into a concrete booking request
type ParsedBrief struct {
	Label    string
	Topic    string
	Contacts []Contact
	// Explicit is true when Label came from a time found in the brief text
	Explicit bool
}

// Emails returns the email contacts in input order
func (p ParsedBrief) Emails() []string {
	var out []string
	for _, c := range p.Contacts {
		if c.IsEmail() {
			out = append(out, c.Value)
		}
	}
	return out
}

// Phones returns the phone contacts in input order
func (p ParsedBrief) Phones() []string {
	var out []string
	for _, c := range p.Contacts {
		if c.IsPhone() {
			out = append(out, c.Value)
		}
	}
	return out
}
