package checkout

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/TECH-SIGN/OrderEase-sub000/internal/domain/order"
	"github.com/TECH-SIGN/OrderEase-sub000/internal/infrastructure/store"
)

var (
	ErrEmptyCart             = errors.New("cart has no items")
	ErrMissingIdempotencyKey = errors.New("idempotency key is required")

	// ErrUnavailableItems matches any UnavailableItemsError via errors.Is.
	ErrUnavailableItems = errors.New("items no longer available")
)

// UnavailableItemsError names the cart items that can no longer be ordered.
type UnavailableItemsError struct {
	Names []string
}

func (e *UnavailableItemsError) Error() string {
	return "items no longer available: " + strings.Join(e.Names, ", ")
}

func (e *UnavailableItemsError) Is(target error) bool {
	return target == ErrUnavailableItems
}

// Publisher pushes committed events to the event bus. Publication is best
// effort and happens only after the transaction has committed.
type Publisher interface {
	Publish(ctx context.Context, key string, event any) error
}

// Service converts a user's cart into an order. The whole conversion runs in
// one transaction: either the order, its snapshots, its first two events, the
// idempotency record and the cart cleanup all commit, or none of them do.
type Service struct {
	db  store.DB
	pub Publisher
	log *slog.Logger
}

func NewService(db store.DB, pub Publisher, log *slog.Logger) *Service {
	return &Service{db: db, pub: pub, log: log}
}

// Checkout creates exactly one order per idempotency key and returns its id.
// Retrying with the same key returns the same order without re-executing any
// side effect, including under concurrent duplicate submissions: the unique
// constraint on the key turns the losing writer's conflict into a read of the
// winner's cached result.
func (s *Service) Checkout(ctx context.Context, userID, idempotencyKey string) (string, error) {
	if idempotencyKey == "" {
		return "", ErrMissingIdempotencyKey
	}

	var (
		orderID  string
		replayed bool
		appended []store.Event
	)
	err := s.db.InTx(ctx, func(st store.Store) error {
		rec, err := st.GetIdempotencyRecord(ctx, idempotencyKey)
		if err == nil {
			orderID = rec.OrderID
			replayed = true
			return nil
		}
		if !errors.Is(err, store.ErrNotFound) {
			return err
		}

		c, err := st.CartForUser(ctx, userID)
		if errors.Is(err, store.ErrNotFound) {
			return ErrEmptyCart
		}
		if err != nil {
			return err
		}
		if len(c.Lines) == 0 {
			return ErrEmptyCart
		}
		var unavailable []string
		for _, line := range c.Lines {
			if !line.Available {
				unavailable = append(unavailable, line.FoodName)
			}
		}
		if len(unavailable) > 0 {
			return &UnavailableItemsError{Names: unavailable}
		}

		o := store.Order{
			ID:             uuid.New().String(),
			UserID:         userID,
			IdempotencyKey: idempotencyKey,
			CreatedAt:      time.Now().UTC(),
		}
		if err := st.InsertOrder(ctx, o); err != nil {
			return err
		}

		snaps := make([]store.ItemSnapshot, 0, len(c.Lines))
		var totalPrice int64
		var totalItems int
		for _, line := range c.Lines {
			snaps = append(snaps, store.ItemSnapshot{
				OrderID:   o.ID,
				FoodID:    line.FoodID,
				FoodName:  line.FoodName,
				UnitPrice: line.UnitPrice,
				Quantity:  line.Quantity,
			})
			totalPrice += line.UnitPrice * int64(line.Quantity)
			totalItems += line.Quantity
		}
		if err := st.InsertItemSnapshots(ctx, snaps); err != nil {
			return err
		}

		totals := order.CheckoutTotals{TotalPrice: totalPrice, TotalItemCount: totalItems}
		ev, err := order.AppendTransition(ctx, st, o.ID, order.EventOrderRequested, order.ActorUser, totals, nil)
		if err != nil {
			return err
		}
		appended = append(appended, ev)
		ev, err = order.AppendTransition(ctx, st, o.ID, order.EventOrderValidated, order.ActorSystem, totals, nil)
		if err != nil {
			return err
		}
		appended = append(appended, ev)

		if err := st.InsertIdempotencyRecord(ctx, store.IdempotencyRecord{
			Key:         idempotencyKey,
			RequestHash: requestHash(userID, c.ID),
			OrderID:     o.ID,
			CreatedAt:   time.Now().UTC(),
		}); err != nil {
			return err
		}

		if err := st.ClearCart(ctx, c.ID); err != nil {
			return err
		}

		orderID = o.ID
		return nil
	})
	if errors.Is(err, store.ErrDuplicateIdempotencyKey) {
		// A concurrent request with the same key committed first. Our
		// transaction rolled back; return the winner's result instead.
		rec, readErr := s.db.GetIdempotencyRecord(ctx, idempotencyKey)
		if readErr != nil {
			return "", fmt.Errorf("recover from idempotency conflict: %w", readErr)
		}
		s.log.Info("checkout deduplicated after key conflict",
			"user_id", userID, "order_id", rec.OrderID)
		return rec.OrderID, nil
	}
	if err != nil {
		return "", err
	}

	if replayed {
		s.log.Info("checkout replayed from idempotency record",
			"user_id", userID, "order_id", orderID)
		return orderID, nil
	}

	s.log.Info("checkout committed", "user_id", userID, "order_id", orderID)
	s.publish(ctx, appended)
	return orderID, nil
}

func (s *Service) publish(ctx context.Context, events []store.Event) {
	if s.pub == nil {
		return
	}
	for _, ev := range events {
		if err := s.pub.Publish(ctx, ev.OrderID, ev); err != nil {
			s.log.Warn("publish order event", "event_type", ev.Type,
				"order_id", ev.OrderID, "error", err)
		}
	}
}

// requestHash fingerprints the originating request from the caller identity
// and the cart it was taken against.
func requestHash(userID, cartID string) string {
	sum := sha256.Sum256([]byte(userID + ":" + cartID))
	return hex.EncodeToString(sum[:])
}
