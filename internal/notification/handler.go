package notification

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/TECH-SIGN/OrderEase-sub000/internal/domain/order"
	"github.com/TECH-SIGN/OrderEase-sub000/internal/email"
	"github.com/TECH-SIGN/OrderEase-sub000/internal/infrastructure/store"
)

// Handler turns published order events into customer notifications. It runs
// in the notifier process, downstream of the checkout transaction, so a
// failed mail never affects order state.
type Handler struct {
	emailService *email.Service
	db           store.DB
	log          *slog.Logger
}

func NewHandler(emailService *email.Service, db store.DB, log *slog.Logger) *Handler {
	return &Handler{emailService: emailService, db: db, log: log}
}

// HandleEvent processes one event from the order-events topic.
func (h *Handler) HandleEvent(ctx context.Context, key, value []byte) error {
	var ev store.Event
	if err := json.Unmarshal(value, &ev); err != nil {
		h.log.Error("unmarshal event", "error", err)
		return err
	}

	if ev.Type != order.EventOrderValidated {
		return nil
	}
	return h.handleOrderValidated(ctx, ev)
}

func (h *Handler) handleOrderValidated(ctx context.Context, ev store.Event) error {
	o, err := h.db.GetOrder(ctx, ev.OrderID)
	if err != nil {
		h.log.Error("load order", "order_id", ev.OrderID, "error", err)
		return err
	}
	u, err := h.db.GetUser(ctx, o.UserID)
	if err != nil {
		// The order may predate the user store; nothing to notify.
		h.log.Warn("load user", "user_id", o.UserID, "error", err)
		return nil
	}

	snaps, err := h.db.ListItemSnapshots(ctx, ev.OrderID)
	if err != nil {
		return err
	}

	var totals order.CheckoutTotals
	if err := json.Unmarshal(ev.Payload, &totals); err != nil {
		h.log.Error("unmarshal totals payload", "order_id", ev.OrderID, "error", err)
		return err
	}

	lines := make([]email.OrderLine, len(snaps))
	for i, snap := range snaps {
		lines[i] = email.OrderLine{
			Name:      snap.FoodName,
			Quantity:  snap.Quantity,
			UnitPrice: snap.UnitPrice,
		}
	}

	if err := h.emailService.SendOrderConfirmation(u.Email, o.ID, totals.TotalPrice, lines); err != nil {
		h.log.Error("send confirmation", "order_id", o.ID, "error", err)
		return err
	}

	h.log.Info("order confirmation sent", "order_id", o.ID, "to", u.Email)
	return nil
}
