package order

import (
	"errors"
	"fmt"
)

// ErrInvalidTransition matches any TransitionError via errors.Is.
var ErrInvalidTransition = errors.New("invalid order state transition")

// transitions lists, per state, the event types that may legally be appended
// next. States with no entry are terminal.
var transitions = map[State][]string{
	StateInit:             {EventOrderRequested},
	StateRequested:        {EventOrderValidated},
	StateValidated:        {EventPaymentInitiated},
	StatePaymentInitiated: {EventPaymentSucceeded, EventPaymentFailed},
	StatePaymentSucceeded: {EventOrderConfirmed},
	StatePaymentFailed:    {}, // terminal
	StateConfirmed:        {}, // terminal
}

// CanTransition reports whether eventType may be appended to an order
// currently in state from.
func CanTransition(from State, eventType string) bool {
	for _, allowed := range transitions[from] {
		if allowed == eventType {
			return true
		}
	}
	return false
}

// ValidateTransition returns a TransitionError if appending eventType to an
// order in state from is not a legal edge.
func ValidateTransition(from State, eventType string) error {
	if CanTransition(from, eventType) {
		return nil
	}
	return &TransitionError{From: from, Event: eventType}
}

// TransitionError reports a rejected edge.
type TransitionError struct {
	From  State
	Event string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("invalid order state transition: %s does not accept %s", e.From, e.Event)
}

func (e *TransitionError) Is(target error) bool {
	return target == ErrInvalidTransition
}
