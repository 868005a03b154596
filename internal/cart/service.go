package cart

import (
	"context"
	"errors"
	"log/slog"

	"github.com/TECH-SIGN/OrderEase-sub000/internal/catalog"
	"github.com/TECH-SIGN/OrderEase-sub000/internal/infrastructure/store"
)

var ErrInvalidQuantity = errors.New("quantity must be positive")

// Service manages the one-cart-per-user shopping cart. Carts are created
// lazily on the first add; checkout clears the lines but keeps the cart row.
type Service struct {
	db  store.DB
	log *slog.Logger
}

func NewService(db store.DB, log *slog.Logger) *Service {
	return &Service{db: db, log: log}
}

// AddItem adds quantity of a food to the user's cart, creating the cart if
// needed. Adding an item already in the cart increases its quantity.
func (s *Service) AddItem(ctx context.Context, userID, foodID string, quantity int) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}

	return s.db.InTx(ctx, func(st store.Store) error {
		f, err := st.GetFood(ctx, foodID)
		if errors.Is(err, store.ErrNotFound) {
			return catalog.ErrFoodNotFound
		}
		if err != nil {
			return err
		}
		if !f.Available {
			return catalog.ErrFoodUnavailable
		}

		c, err := st.EnsureCart(ctx, userID)
		if err != nil {
			return err
		}
		return st.UpsertCartLine(ctx, c.ID, foodID, quantity)
	})
}

func (s *Service) RemoveItem(ctx context.Context, userID, foodID string) error {
	return s.db.InTx(ctx, func(st store.Store) error {
		c, err := st.CartForUser(ctx, userID)
		if errors.Is(err, store.ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		return st.DeleteCartLine(ctx, c.ID, foodID)
	})
}

// Get returns the user's cart. A user with no cart yet gets an empty one.
func (s *Service) Get(ctx context.Context, userID string) (store.Cart, error) {
	c, err := s.db.CartForUser(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return store.Cart{UserID: userID}, nil
	}
	return c, err
}
