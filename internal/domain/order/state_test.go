package order

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/TECH-SIGN/OrderEase-sub000/internal/infrastructure/store"
)

func eventsOf(types ...string) []store.Event {
	events := make([]store.Event, 0, len(types))
	for i, typ := range types {
		events = append(events, store.Event{
			ID:       "ev-" + typ,
			OrderID:  "order-1",
			Type:     typ,
			Sequence: i + 1,
		})
	}
	return events
}

func TestDeriveState_EmptySequence(t *testing.T) {
	assert.Equal(t, StateInit, DeriveState(nil))
	assert.Equal(t, StateInit, DeriveState([]store.Event{}))
}

func TestDeriveState_EachEventEstablishesItsState(t *testing.T) {
	tests := []struct {
		name   string
		events []store.Event
		want   State
	}{
		{"requested", eventsOf(EventOrderRequested), StateRequested},
		{"validated", eventsOf(EventOrderRequested, EventOrderValidated), StateValidated},
		{"payment initiated", eventsOf(EventOrderRequested, EventOrderValidated, EventPaymentInitiated), StatePaymentInitiated},
		{"payment succeeded", eventsOf(EventOrderRequested, EventOrderValidated, EventPaymentInitiated, EventPaymentSucceeded), StatePaymentSucceeded},
		{"payment failed", eventsOf(EventOrderRequested, EventOrderValidated, EventPaymentInitiated, EventPaymentFailed), StatePaymentFailed},
		{"confirmed", eventsOf(EventOrderRequested, EventOrderValidated, EventPaymentInitiated, EventPaymentSucceeded, EventOrderConfirmed), StateConfirmed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DeriveState(tt.events))
		})
	}
}

func TestDeriveState_Deterministic(t *testing.T) {
	events := eventsOf(EventOrderRequested, EventOrderValidated, EventPaymentInitiated)

	first := DeriveState(events)
	for i := 0; i < 100; i++ {
		assert.Equal(t, first, DeriveState(events))
	}
}

func TestDeriveState_IgnoresUnknownEventTypes(t *testing.T) {
	events := eventsOf(EventOrderRequested, "SOMETHING_ELSE")

	assert.Equal(t, StateRequested, DeriveState(events))
}
