package payment

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/TECH-SIGN/OrderEase-sub000/internal/domain/order"
	"github.com/TECH-SIGN/OrderEase-sub000/internal/infrastructure/store"
)

// Payment row statuses.
const (
	StatusInitiated = "INITIATED"
	StatusSucceeded = "SUCCEEDED"
	StatusFailed    = "FAILED"
)

var ErrPaymentNotFound = errors.New("payment not found")

// Publisher pushes committed events to the event bus, best effort.
type Publisher interface {
	Publish(ctx context.Context, key string, event any) error
}

// Service runs the payment side of the two-phase checkout flow. Each public
// operation is one transaction that re-derives the order's state from its
// event log before acting, so it is safe to call after a crash between the
// checkout commit and payment initiation.
type Service struct {
	db       store.DB
	provider Provider
	pub      Publisher
	log      *slog.Logger
}

func NewService(db store.DB, provider Provider, pub Publisher, log *slog.Logger) *Service {
	return &Service{db: db, provider: provider, pub: pub, log: log}
}

// Initiate records payment intent for a VALIDATED order and returns the new
// payment id. Calling it twice fails the second time with an invalid
// transition instead of double-charging.
func (s *Service) Initiate(ctx context.Context, orderID string) (string, error) {
	var (
		paymentID string
		appended  []store.Event
	)
	err := s.db.InTx(ctx, func(st store.Store) error {
		events, err := st.ListEvents(ctx, orderID)
		if err != nil {
			return err
		}
		if len(events) == 0 {
			return order.ErrOrderNotFound
		}
		state := order.DeriveState(events)
		if err := order.ValidateTransition(state, order.EventPaymentInitiated); err != nil {
			return err
		}

		snaps, err := st.ListItemSnapshots(ctx, orderID)
		if err != nil {
			return err
		}
		var amount int64
		for _, snap := range snaps {
			amount += snap.UnitPrice * int64(snap.Quantity)
		}
		if amount <= 0 {
			return order.ErrInvalidAmount
		}

		p := store.Payment{
			ID:        uuid.New().String(),
			OrderID:   orderID,
			Provider:  s.provider.Name(),
			Amount:    amount,
			Status:    StatusInitiated,
			CreatedAt: time.Now().UTC(),
		}
		if err := st.InsertPayment(ctx, p); err != nil {
			return err
		}

		details := order.PaymentDetails{Amount: amount, Provider: p.Provider}
		ev, err := order.AppendTransition(ctx, st, orderID, order.EventPaymentInitiated, order.ActorSystem, details, &p.ID)
		if err != nil {
			return err
		}
		appended = append(appended, ev)
		paymentID = p.ID
		return nil
	})
	if err != nil {
		return "", err
	}

	s.log.Info("payment initiated", "order_id", orderID, "payment_id", paymentID)
	s.publish(ctx, appended)
	return paymentID, nil
}

// RecordResult records the gateway's outcome for an initiated payment. The
// event append goes through the same transition-validated path as everything
// else, so an out-of-order result is rejected rather than applied.
func (s *Service) RecordResult(ctx context.Context, paymentID string, succeeded bool) error {
	var appended []store.Event
	err := s.db.InTx(ctx, func(st store.Store) error {
		p, err := st.GetPayment(ctx, paymentID)
		if errors.Is(err, store.ErrNotFound) {
			return ErrPaymentNotFound
		}
		if err != nil {
			return err
		}

		eventType, status := order.EventPaymentSucceeded, StatusSucceeded
		if !succeeded {
			eventType, status = order.EventPaymentFailed, StatusFailed
		}

		details := order.PaymentDetails{Amount: p.Amount, Provider: p.Provider}
		ev, err := order.AppendTransition(ctx, st, p.OrderID, eventType, order.ActorPaymentGateway, details, &p.ID)
		if err != nil {
			return err
		}
		if err := st.UpdatePaymentStatus(ctx, p.ID, status); err != nil {
			return err
		}
		appended = append(appended, ev)
		return nil
	})
	if err != nil {
		return err
	}

	s.log.Info("payment result recorded", "payment_id", paymentID, "succeeded", succeeded)
	s.publish(ctx, appended)
	return nil
}

// Confirm moves a PAYMENT_SUCCEEDED order into its terminal CONFIRMED state.
func (s *Service) Confirm(ctx context.Context, orderID string) error {
	var appended []store.Event
	err := s.db.InTx(ctx, func(st store.Store) error {
		events, err := st.ListEvents(ctx, orderID)
		if err != nil {
			return err
		}
		if len(events) == 0 {
			return order.ErrOrderNotFound
		}

		details := order.ConfirmationDetails{PaymentID: latestPaymentID(events)}
		ev, err := order.AppendTransition(ctx, st, orderID, order.EventOrderConfirmed, order.ActorSystem, details, nil)
		if err != nil {
			return err
		}
		appended = append(appended, ev)
		return nil
	})
	if err != nil {
		return err
	}

	s.log.Info("order confirmed", "order_id", orderID)
	s.publish(ctx, appended)
	return nil
}

func latestPaymentID(events []store.Event) string {
	for i := len(events) - 1; i >= 0; i-- {
		if events[i].PaymentID != nil {
			return *events[i].PaymentID
		}
	}
	return ""
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
