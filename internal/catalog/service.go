package catalog

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/TECH-SIGN/OrderEase-sub000/internal/infrastructure/store"
)

var (
	ErrFoodNotFound    = errors.New("food not found")
	ErrFoodUnavailable = errors.New("food is not available for order")
	ErrInvalidName     = errors.New("food name is required")
	ErrInvalidPrice    = errors.New("food price must be positive")
)

// Service manages the food catalog. Checkout only ever reads it; prices live
// here until the moment they are snapshotted onto an order.
type Service struct {
	db store.DB
}

func NewService(db store.DB) *Service {
	return &Service{db: db}
}

func (s *Service) Create(ctx context.Context, name string, price int64) (store.Food, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return store.Food{}, ErrInvalidName
	}
	if price <= 0 {
		return store.Food{}, ErrInvalidPrice
	}

	f := store.Food{
		ID:        uuid.New().String(),
		Name:      name,
		Price:     price,
		Available: true,
	}
	if err := s.db.InsertFood(ctx, f); err != nil {
		return store.Food{}, err
	}
	return f, nil
}

func (s *Service) Update(ctx context.Context, id string, price int64, available bool) (store.Food, error) {
	if price <= 0 {
		return store.Food{}, ErrInvalidPrice
	}

	f, err := s.db.GetFood(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return store.Food{}, ErrFoodNotFound
	}
	if err != nil {
		return store.Food{}, err
	}

	f.Price = price
	f.Available = available
	if err := s.db.UpdateFood(ctx, f); err != nil {
		return store.Food{}, err
	}
	return f, nil
}

func (s *Service) Get(ctx context.Context, id string) (store.Food, error) {
	f, err := s.db.GetFood(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return store.Food{}, ErrFoodNotFound
	}
	return f, err
}

func (s *Service) List(ctx context.Context) ([]store.Food, error) {
	return s.db.ListFoods(ctx)
}

// Seed inserts foods that do not exist yet. Used by local bootstrap.
func (s *Service) Seed(ctx context.Context, foods []store.Food) error {
	for _, f := range foods {
		if f.ID == "" {
			f.ID = uuid.New().String()
		}
		if _, err := s.db.GetFood(ctx, f.ID); err == nil {
			continue
		} else if !errors.Is(err, store.ErrNotFound) {
			return err
		}
		if err := s.db.InsertFood(ctx, f); err != nil {
			return err
		}
	}
	return nil
}
