package order_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TECH-SIGN/OrderEase-sub000/internal/domain/order"
	"github.com/TECH-SIGN/OrderEase-sub000/internal/infrastructure/store/mocks"
)

func TestAppendTransition_AppendsWithNextSequence(t *testing.T) {
	st := mocks.NewMockStore()
	ctx := context.Background()
	orderID := "order-1"

	totals := order.CheckoutTotals{TotalPrice: 1897, TotalItemCount: 3}
	ev, err := order.AppendTransition(ctx, st, orderID, order.EventOrderRequested, order.ActorUser, totals, nil)
	require.NoError(t, err)
	assert.NotEmpty(t, ev.ID)
	assert.Equal(t, 1, ev.Sequence)
	assert.Equal(t, order.ActorUser, ev.CausedBy)

	ev, err = order.AppendTransition(ctx, st, orderID, order.EventOrderValidated, order.ActorSystem, totals, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, ev.Sequence)

	var got order.CheckoutTotals
	require.NoError(t, json.Unmarshal(ev.Payload, &got))
	assert.Equal(t, totals, got)
}

func TestAppendTransition_RejectsIllegalEdge(t *testing.T) {
	st := mocks.NewMockStore()
	ctx := context.Background()
	orderID := "order-1"

	// Nothing has happened yet, so ORDER_CONFIRMED cannot be the first event.
	_, err := order.AppendTransition(ctx, st, orderID, order.EventOrderConfirmed, order.ActorSystem, nil, nil)

	assert.ErrorIs(t, err, order.ErrInvalidTransition)
	events, listErr := st.ListEvents(ctx, orderID)
	require.NoError(t, listErr)
	assert.Empty(t, events)
}

func TestAppendTransition_CarriesPaymentID(t *testing.T) {
	st := mocks.NewMockStore()
	ctx := context.Background()
	orderID := "order-1"

	totals := order.CheckoutTotals{TotalPrice: 500, TotalItemCount: 1}
	_, err := order.AppendTransition(ctx, st, orderID, order.EventOrderRequested, order.ActorUser, totals, nil)
	require.NoError(t, err)
	_, err = order.AppendTransition(ctx, st, orderID, order.EventOrderValidated, order.ActorSystem, totals, nil)
	require.NoError(t, err)

	paymentID := "pay-1"
	details := order.PaymentDetails{Amount: 500, Provider: "stub"}
	ev, err := order.AppendTransition(ctx, st, orderID, order.EventPaymentInitiated, order.ActorSystem, details, &paymentID)
	require.NoError(t, err)

	require.NotNil(t, ev.PaymentID)
	assert.Equal(t, paymentID, *ev.PaymentID)
}
