package notification

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TECH-SIGN/OrderEase-sub000/internal/domain/order"
	"github.com/TECH-SIGN/OrderEase-sub000/internal/email"
	"github.com/TECH-SIGN/OrderEase-sub000/internal/infrastructure/store"
	"github.com/TECH-SIGN/OrderEase-sub000/internal/infrastructure/store/mocks"
)

func newTestHandler() (*Handler, *mocks.MockStore) {
	st := mocks.NewMockStore()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	// No SMTP address: sending degrades to a log line.
	return NewHandler(email.NewService("", "orders@example.com", log), st, log), st
}

func validatedEvent(t *testing.T, orderID string) []byte {
	t.Helper()
	payload, err := json.Marshal(order.CheckoutTotals{TotalPrice: 1897, TotalItemCount: 3})
	require.NoError(t, err)
	value, err := json.Marshal(store.Event{
		ID:      "ev-1",
		OrderID: orderID,
		Type:    order.EventOrderValidated,
		Payload: payload,
	})
	require.NoError(t, err)
	return value
}

func TestHandler_HandleEvent_OrderValidated(t *testing.T) {
	h, st := newTestHandler()
	ctx := context.Background()

	require.NoError(t, st.InsertUser(ctx, store.User{ID: "user-1", Email: "alice@example.com"}))
	require.NoError(t, st.InsertOrder(ctx, store.Order{ID: "order-1", UserID: "user-1"}))
	require.NoError(t, st.InsertItemSnapshots(ctx, []store.ItemSnapshot{
		{OrderID: "order-1", FoodID: "food-1", FoodName: "Pizza", UnitPrice: 1299, Quantity: 1},
	}))

	err := h.HandleEvent(ctx, []byte("order-1"), validatedEvent(t, "order-1"))

	assert.NoError(t, err)
}

func TestHandler_HandleEvent_IgnoresOtherEventTypes(t *testing.T) {
	h, _ := newTestHandler()

	value, err := json.Marshal(store.Event{
		ID:      "ev-1",
		OrderID: "order-1",
		Type:    order.EventPaymentInitiated,
	})
	require.NoError(t, err)

	// No order exists, but non-validated events are skipped before any load.
	assert.NoError(t, h.HandleEvent(context.Background(), []byte("order-1"), value))
}

func TestHandler_HandleEvent_UnknownOrder(t *testing.T) {
	h, _ := newTestHandler()

	err := h.HandleEvent(context.Background(), []byte("order-1"), validatedEvent(t, "order-1"))

	assert.Error(t, err)
}

func TestHandler_HandleEvent_MissingUserIsSkipped(t *testing.T) {
	h, st := newTestHandler()
	ctx := context.Background()

	require.NoError(t, st.InsertOrder(ctx, store.Order{ID: "order-1", UserID: "ghost"}))

	// No user row: nothing to notify, but the message must not be retried.
	assert.NoError(t, h.HandleEvent(ctx, []byte("order-1"), validatedEvent(t, "order-1")))
}

func TestHandler_HandleEvent_MalformedMessage(t *testing.T) {
	h, _ := newTestHandler()

	err := h.HandleEvent(context.Background(), nil, []byte("{not json"))

	assert.Error(t, err)
}
