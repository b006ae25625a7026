package models

import (
	"fmt"
	"slices"
	"sort"
)

// Calendar maps a slot label to the name of the meeting occupying it.
// A label that is absent from the map is free.
type Calendar map[string]string

// WorkingHours is the ordered, fixed sequence of bookable slot labels for a day
type WorkingHours []string

// Contains reports whether label is one of the working-hour slots
func (h WorkingHours) Contains(label string) bool {
	return slices.Contains(h, label)
}

// Index returns the position of label in the sequence, or -1
func (h WorkingHours) Index(label string) int {
	return slices.Index(h, label)
}

// Clone returns a copy of the calendar that shares no state with c
func (c Calendar) Clone() Calendar {
	out := make(Calendar, len(c))
	for k, v := range c {
		out[k] = v
	}
	return out
}

// IsFree reports whether label has no occupant
func (c Calendar) IsFree(label string) bool {
	_, ok := c[label]
	return !ok
}

// Labels returns the occupied labels ordered by their position in hours.
// Labels unknown to hours sort last, alphabetically.
func (c Calendar) Labels(hours WorkingHours) []string {
	labels := make([]string, 0, len(c))
	for k := range c {
		labels = append(labels, k)
	}
	sort.Slice(labels, func(i, j int) bool {
		ii, jj := hours.Index(labels[i]), hours.Index(labels[j])
		switch {
		case ii == -1 && jj == -1:
			return labels[i] < labels[j]
		case ii == -1:
			return false
		case jj == -1:
			return true
		}
		return ii < jj
	})
	return labels
}

// SlotView is a single row of the day grid as shown to the user
type SlotView struct {
	Label    string
	Occupant string
	Busy     bool
	Current  bool
}

// DayView renders the calendar against hours, marking the slot equal to currentLabel
func DayView(c Calendar, hours WorkingHours, currentLabel string) []SlotView {
	rows := make([]SlotView, 0, len(hours))
	for _, label := range hours {
		occupant, busy := c[label]
		rows = append(rows, SlotView{
			Label:    label,
			Occupant: occupant,
			Busy:     busy,
			Current:  label == currentLabel,
		})
	}
	return rows
}

// Sanitize returns a copy of c holding only entries whose label is in hours and whose
// occupant is non-empty, along with the labels that were dropped.
func (c Calendar) Sanitize(hours WorkingHours) (Calendar, []string) {
	clean := make(Calendar, len(c))
	var dropped []string
	for label, occupant := range c {
		if !hours.Contains(label) || occupant == "" {
			dropped = append(dropped, label)
			continue
		}
		clean[label] = occupant
	}
	sort.Strings(dropped)
	return clean, dropped
}

// Validate reports the first entry that breaks the calendar invariants for hours
func (c Calendar) Validate(hours WorkingHours) error {
	for _, label := range c.Labels(hours) {
		if !hours.Contains(label) {
			return fmt.Errorf("label %q is not a working-hour slot", label)
		}
		if c[label] == "" {
			return fmt.Errorf("label %q has an empty occupant", label)
		}
	}
	return nil
}
