// Package booking answers time-slot questions against a fixed list of booked meeting-room slots.
package booking

import (
	"fmt"
	"regexp"
	"strings"
)

// DefaultSuggestion is returned alongside a booked slot.
const DefaultSuggestion = "Suggested alternative times: 11:00 AM or 3:00 PM"

const availableMessage = "is available"

// timePattern recognizes "上午10點"/"3點" and "10:00 AM"/"2:00PM". The leftmost match wins.
// Digits are any Unicode decimal digit (full-width "１０" included) and the gap
// before AM/PM is any Unicode whitespace, not only ASCII.
var timePattern = regexp.MustCompile(`(上午|下午)?\p{Nd}{1,2}點|\p{Nd}{1,2}:\p{Nd}{2}[\s\x{0b}\p{Z}\x{85}\x{1c}-\x{1f}]*(AM|PM)`)

// DefaultBookedSlots returns the slots that are already taken.
func DefaultBookedSlots() []string {
	return []string{"10:00 AM", "2:00 PM", "上午10點", "下午2點"}
}

// Result is the outcome of checking one slot.
type Result struct {
	Slot      string
	Available bool
	Message   string
}

// Answer renders the result the way it is reported to the user.
func (r Result) Answer() string {
	if !r.Available {
		return fmt.Sprintf("Time slot %s is booked, %s", r.Slot, r.Message)
	}
	return fmt.Sprintf("Time slot %s %s", r.Slot, r.Message)
}

// Schedule holds the booked slots. Slots are compared as exact strings.
type Schedule struct {
	slots      []string
	booked     map[string]struct{}
	suggestion string
}

// NewSchedule builds a schedule. Nil slots and an empty suggestion fall back to the defaults.
func NewSchedule(slots []string, suggestion string) *Schedule {
	if slots == nil {
		slots = DefaultBookedSlots()
	}
	if strings.TrimSpace(suggestion) == "" {
		suggestion = DefaultSuggestion
	}
	booked := make(map[string]struct{}, len(slots))
	for _, s := range slots {
		booked[s] = struct{}{}
	}
	return &Schedule{
		slots:      append([]string(nil), slots...),
		booked:     booked,
		suggestion: suggestion,
	}
}

// DefaultSchedule returns the schedule with the four built-in booked slots.
func DefaultSchedule() *Schedule {
	return NewSchedule(nil, "")
}

// Slots returns a copy of the booked slots.
func (s *Schedule) Slots() []string {
	return append([]string(nil), s.slots...)
}

// Suggestion returns the message attached to booked slots.
func (s *Schedule) Suggestion() string {
	return s.suggestion
}

// Check reports whether slot is free.
func (s *Schedule) Check(slot string) Result {
	if _, taken := s.booked[slot]; taken {
		return Result{Slot: slot, Available: false, Message: s.suggestion}
	}
	return Result{Slot: slot, Available: true, Message: availableMessage}
}

// Lookup extracts a time expression from question and checks it.
// ok is false when the question contains no recognized time.
func (s *Schedule) Lookup(question string) (Result, bool) {
	slot, ok := ExtractTimeSlot(question)
	if !ok {
		return Result{}, false
	}
	return s.Check(slot), true
}

// ExtractTimeSlot returns the first time expression in question.
func ExtractTimeSlot(question string) (string, bool) {
	slot := timePattern.FindString(question)
	if slot == "" {
		return "", false
	}
	return slot, true
}
