package order

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/TECH-SIGN/OrderEase-sub000/internal/infrastructure/store"
)

// AppendTransition derives the order's current state from the tail of its
// event log, validates the candidate event type against it, and appends the
// event. It must run inside the same transaction as the caller's other writes
// so a rolled-back attempt leaves no partial event. Both orchestrators go
// through this single path, which is what keeps them in agreement.
func AppendTransition(ctx context.Context, st store.Store, orderID, eventType, causedBy string, payload any, paymentID *string) (store.Event, error) {
	events, err := st.ListEvents(ctx, orderID)
	if err != nil {
		return store.Event{}, fmt.Errorf("load events for %s: %w", orderID, err)
	}

	state := DeriveState(events)
	if err := ValidateTransition(state, eventType); err != nil {
		return store.Event{}, err
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return store.Event{}, fmt.Errorf("marshal %s payload: %w", eventType, err)
	}

	return st.AppendEvent(ctx, store.Event{
		ID:        uuid.New().String(),
		OrderID:   orderID,
		Type:      eventType,
		CausedBy:  causedBy,
		PaymentID: paymentID,
		Payload:   data,
		CreatedAt: time.Now().UTC(),
	})
}
