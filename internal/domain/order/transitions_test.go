package order

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

var allEventTypes = []string{
	EventOrderRequested,
	EventOrderValidated,
	EventPaymentInitiated,
	EventPaymentSucceeded,
	EventPaymentFailed,
	EventOrderConfirmed,
}

func TestCanTransition_FullMatrix(t *testing.T) {
	allowed := map[State]map[string]bool{
		StateInit:             {EventOrderRequested: true},
		StateRequested:        {EventOrderValidated: true},
		StateValidated:        {EventPaymentInitiated: true},
		StatePaymentInitiated: {EventPaymentSucceeded: true, EventPaymentFailed: true},
		StatePaymentSucceeded: {EventOrderConfirmed: true},
		StatePaymentFailed:    {},
		StateConfirmed:        {},
	}

	for state, edges := range allowed {
		for _, eventType := range allEventTypes {
			got := CanTransition(state, eventType)
			assert.Equal(t, edges[eventType], got,
				"state %s, event %s", state, eventType)
		}
	}
}

func TestCanTransition_TerminalStatesAcceptNothing(t *testing.T) {
	for _, state := range []State{StateConfirmed, StatePaymentFailed} {
		for _, eventType := range allEventTypes {
			assert.False(t, CanTransition(state, eventType),
				"terminal state %s must reject %s", state, eventType)
		}
	}
}

func TestValidateTransition_LegalEdge(t *testing.T) {
	assert.NoError(t, ValidateTransition(StateInit, EventOrderRequested))
	assert.NoError(t, ValidateTransition(StatePaymentInitiated, EventPaymentFailed))
}

func TestValidateTransition_IllegalEdge(t *testing.T) {
	err := ValidateTransition(StateRequested, EventOrderConfirmed)

	assert.ErrorIs(t, err, ErrInvalidTransition)

	var te *TransitionError
	assert.ErrorAs(t, err, &te)
	assert.Equal(t, StateRequested, te.From)
	assert.Equal(t, EventOrderConfirmed, te.Event)
	assert.Contains(t, err.Error(), "REQUESTED")
	assert.Contains(t, err.Error(), "ORDER_CONFIRMED")
}
