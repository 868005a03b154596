package cart

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TECH-SIGN/OrderEase-sub000/internal/catalog"
	"github.com/TECH-SIGN/OrderEase-sub000/internal/infrastructure/store"
	"github.com/TECH-SIGN/OrderEase-sub000/internal/infrastructure/store/mocks"
)

func newTestService() (*Service, *mocks.MockStore) {
	st := mocks.NewMockStore()
	return NewService(st, slog.New(slog.NewTextHandler(io.Discard, nil))), st
}

func TestService_AddItem_CreatesCartLazily(t *testing.T) {
	svc, st := newTestService()
	ctx := context.Background()
	require.NoError(t, st.InsertFood(ctx, store.Food{ID: "food-1", Name: "Pizza", Price: 1299, Available: true}))

	err := svc.AddItem(ctx, "user-1", "food-1", 2)

	require.NoError(t, err)
	c, err := svc.Get(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, c.Lines, 1)
	assert.Equal(t, "food-1", c.Lines[0].FoodID)
	assert.Equal(t, 2, c.Lines[0].Quantity)
	assert.Equal(t, int64(1299), c.Lines[0].UnitPrice)
}

func TestService_AddItem_SameFoodAccumulates(t *testing.T) {
	svc, st := newTestService()
	ctx := context.Background()
	require.NoError(t, st.InsertFood(ctx, store.Food{ID: "food-1", Name: "Pizza", Price: 1299, Available: true}))

	require.NoError(t, svc.AddItem(ctx, "user-1", "food-1", 1))
	require.NoError(t, svc.AddItem(ctx, "user-1", "food-1", 2))

	c, err := svc.Get(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, c.Lines, 1)
	assert.Equal(t, 3, c.Lines[0].Quantity)
}

func TestService_AddItem_InvalidQuantity(t *testing.T) {
	svc, _ := newTestService()

	assert.ErrorIs(t, svc.AddItem(context.Background(), "user-1", "food-1", 0), ErrInvalidQuantity)
	assert.ErrorIs(t, svc.AddItem(context.Background(), "user-1", "food-1", -1), ErrInvalidQuantity)
}

func TestService_AddItem_UnknownFood(t *testing.T) {
	svc, _ := newTestService()

	err := svc.AddItem(context.Background(), "user-1", "missing", 1)

	assert.ErrorIs(t, err, catalog.ErrFoodNotFound)
}

func TestService_AddItem_UnavailableFood(t *testing.T) {
	svc, st := newTestService()
	ctx := context.Background()
	require.NoError(t, st.InsertFood(ctx, store.Food{ID: "food-1", Name: "Pizza", Price: 1299, Available: false}))

	err := svc.AddItem(ctx, "user-1", "food-1", 1)

	assert.ErrorIs(t, err, catalog.ErrFoodUnavailable)
}

func TestService_RemoveItem(t *testing.T) {
	svc, st := newTestService()
	ctx := context.Background()
	require.NoError(t, st.InsertFood(ctx, store.Food{ID: "food-1", Name: "Pizza", Price: 1299, Available: true}))
	require.NoError(t, svc.AddItem(ctx, "user-1", "food-1", 1))

	require.NoError(t, svc.RemoveItem(ctx, "user-1", "food-1"))

	c, err := svc.Get(ctx, "user-1")
	require.NoError(t, err)
	assert.Empty(t, c.Lines)
}

func TestService_RemoveItem_NoCartIsNoop(t *testing.T) {
	svc, _ := newTestService()

	assert.NoError(t, svc.RemoveItem(context.Background(), "user-1", "food-1"))
}

func TestService_Get_NoCartReturnsEmpty(t *testing.T) {
	svc, _ := newTestService()

	c, err := svc.Get(context.Background(), "user-1")

	require.NoError(t, err)
	assert.Equal(t, "user-1", c.UserID)
	assert.Empty(t, c.Lines)
}
