package catalog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TECH-SIGN/OrderEase-sub000/internal/infrastructure/store"
	"github.com/TECH-SIGN/OrderEase-sub000/internal/infrastructure/store/mocks"
)

func TestService_Create_Success(t *testing.T) {
	svc := NewService(mocks.NewMockStore())

	f, err := svc.Create(context.Background(), "  Pizza  ", 1299)

	require.NoError(t, err)
	assert.NotEmpty(t, f.ID)
	assert.Equal(t, "Pizza", f.Name)
	assert.Equal(t, int64(1299), f.Price)
	assert.True(t, f.Available)
}

func TestService_Create_Invalid(t *testing.T) {
	svc := NewService(mocks.NewMockStore())
	ctx := context.Background()

	_, err := svc.Create(ctx, "", 1299)
	assert.ErrorIs(t, err, ErrInvalidName)

	_, err = svc.Create(ctx, "   ", 1299)
	assert.ErrorIs(t, err, ErrInvalidName)

	_, err = svc.Create(ctx, "Pizza", 0)
	assert.ErrorIs(t, err, ErrInvalidPrice)
}

func TestService_Update_Success(t *testing.T) {
	svc := NewService(mocks.NewMockStore())
	ctx := context.Background()

	f, err := svc.Create(ctx, "Pizza", 1299)
	require.NoError(t, err)

	updated, err := svc.Update(ctx, f.ID, 1499, false)

	require.NoError(t, err)
	assert.Equal(t, int64(1499), updated.Price)
	assert.False(t, updated.Available)

	got, err := svc.Get(ctx, f.ID)
	require.NoError(t, err)
	assert.Equal(t, updated, got)
}

func TestService_Update_NotFound(t *testing.T) {
	svc := NewService(mocks.NewMockStore())

	_, err := svc.Update(context.Background(), "missing", 1499, true)

	assert.ErrorIs(t, err, ErrFoodNotFound)
}

func TestService_Get_NotFound(t *testing.T) {
	svc := NewService(mocks.NewMockStore())

	_, err := svc.Get(context.Background(), "missing")

	assert.ErrorIs(t, err, ErrFoodNotFound)
}

func TestService_Seed_SkipsExisting(t *testing.T) {
	st := mocks.NewMockStore()
	svc := NewService(st)
	ctx := context.Background()

	seed := []store.Food{
		{ID: "food-1", Name: "Pizza", Price: 1299, Available: true},
		{ID: "food-2", Name: "Cola", Price: 299, Available: true},
	}
	require.NoError(t, svc.Seed(ctx, seed))

	// Re-seeding with a changed price does not overwrite.
	seed[0].Price = 9999
	require.NoError(t, svc.Seed(ctx, seed))

	f, err := svc.Get(ctx, "food-1")
	require.NoError(t, err)
	assert.Equal(t, int64(1299), f.Price)

	foods, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, foods, 2)
}
