package order

import (
	"errors"

	"github.com/TECH-SIGN/OrderEase-sub000/internal/infrastructure/store"
)

// State is an order's lifecycle state. It is never persisted; it only ever
// exists as the result of DeriveState over the order's event sequence.
type State string

const (
	StateInit             State = "INIT"
	StateRequested        State = "REQUESTED"
	StateValidated        State = "VALIDATED"
	StatePaymentInitiated State = "PAYMENT_INITIATED"
	StatePaymentSucceeded State = "PAYMENT_SUCCEEDED"
	StatePaymentFailed    State = "PAYMENT_FAILED"
	StateConfirmed        State = "CONFIRMED"
)

var (
	ErrOrderNotFound = errors.New("order not found")
	ErrInvalidAmount = errors.New("payable amount must be positive")
)

// eventStates projects an event type onto the state it establishes.
var eventStates = map[string]State{
	EventOrderRequested:   StateRequested,
	EventOrderValidated:   StateValidated,
	EventPaymentInitiated: StatePaymentInitiated,
	EventPaymentSucceeded: StatePaymentSucceeded,
	EventPaymentFailed:    StatePaymentFailed,
	EventOrderConfirmed:   StateConfirmed,
}

// DeriveState rebuilds the current state from the order's events in sequence
// order. An empty sequence derives to INIT. The function is deterministic and
// side-effect free, so every caller agrees on state without coordination.
func DeriveState(events []store.Event) State {
	state := StateInit
	for _, ev := range events {
		if s, ok := eventStates[ev.Type]; ok {
			state = s
		}
	}
	return state
}
