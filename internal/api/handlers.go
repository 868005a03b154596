package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/TECH-SIGN/OrderEase-sub000/internal/api/middleware"
	"github.com/TECH-SIGN/OrderEase-sub000/internal/cart"
	"github.com/TECH-SIGN/OrderEase-sub000/internal/catalog"
	"github.com/TECH-SIGN/OrderEase-sub000/internal/checkout"
	"github.com/TECH-SIGN/OrderEase-sub000/internal/domain/order"
	"github.com/TECH-SIGN/OrderEase-sub000/internal/infrastructure/store"
	"github.com/TECH-SIGN/OrderEase-sub000/internal/payment"
)

// IdempotencyKeyHeader carries the caller-generated checkout key.
const IdempotencyKeyHeader = "Idempotency-Key"

type Handlers struct {
	checkoutSvc *checkout.Service
	paymentSvc  *payment.Service
	cartSvc     *cart.Service
	catalogSvc  *catalog.Service
	db          store.DB
	log         *slog.Logger
}

func NewHandlers(
	checkoutSvc *checkout.Service,
	paymentSvc *payment.Service,
	cartSvc *cart.Service,
	catalogSvc *catalog.Service,
	db store.DB,
	log *slog.Logger,
) *Handlers {
	return &Handlers{
		checkoutSvc: checkoutSvc,
		paymentSvc:  paymentSvc,
		cartSvc:     cartSvc,
		catalogSvc:  catalogSvc,
		db:          db,
		log:         log,
	}
}

// Checkout

func (h *Handlers) Checkout(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())
	key := r.Header.Get(IdempotencyKeyHeader)

	orderID, err := h.checkoutSvc.Checkout(r.Context(), userID, key)
	if err != nil {
		switch {
		case errors.Is(err, checkout.ErrMissingIdempotencyKey):
			respondError(w, err.Error(), http.StatusBadRequest)
		case errors.Is(err, checkout.ErrEmptyCart):
			respondError(w, err.Error(), http.StatusUnprocessableEntity)
		case errors.Is(err, checkout.ErrUnavailableItems):
			respondError(w, err.Error(), http.StatusUnprocessableEntity)
		default:
			h.log.Error("checkout failed", "user_id", userID, "error", err)
			respondError(w, "checkout failed", http.StatusInternalServerError)
		}
		return
	}

	respondJSON(w, http.StatusCreated, map[string]string{"order_id": orderID})
}

// Orders

type orderResponse struct {
	Order          store.Order          `json:"order"`
	Status         order.State          `json:"status"`
	TotalPrice     int64                `json:"total_price"`
	TotalItemCount int                  `json:"total_item_count"`
	Items          []store.ItemSnapshot `json:"items"`
}

func (h *Handlers) GetOrder(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "orderID")

	o, err := h.db.GetOrder(r.Context(), orderID)
	if errors.Is(err, store.ErrNotFound) {
		respondError(w, "order not found", http.StatusNotFound)
		return
	}
	if err != nil {
		respondError(w, "load order failed", http.StatusInternalServerError)
		return
	}
	if o.UserID != middleware.UserID(r.Context()) {
		respondError(w, "order not found", http.StatusNotFound)
		return
	}

	events, err := h.db.ListEvents(r.Context(), orderID)
	if err != nil {
		respondError(w, "load events failed", http.StatusInternalServerError)
		return
	}
	snaps, err := h.db.ListItemSnapshots(r.Context(), orderID)
	if err != nil {
		respondError(w, "load items failed", http.StatusInternalServerError)
		return
	}

	var totalPrice int64
	var totalItems int
	for _, snap := range snaps {
		totalPrice += snap.UnitPrice * int64(snap.Quantity)
		totalItems += snap.Quantity
	}

	respondJSON(w, http.StatusOK, orderResponse{
		Order:          o,
		Status:         order.DeriveState(events),
		TotalPrice:     totalPrice,
		TotalItemCount: totalItems,
		Items:          snaps,
	})
}

func (h *Handlers) GetOrderEvents(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "orderID")

	o, err := h.db.GetOrder(r.Context(), orderID)
	if errors.Is(err, store.ErrNotFound) || (err == nil && o.UserID != middleware.UserID(r.Context())) {
		respondError(w, "order not found", http.StatusNotFound)
		return
	}
	if err != nil {
		respondError(w, "load order failed", http.StatusInternalServerError)
		return
	}

	events, err := h.db.ListEvents(r.Context(), orderID)
	if err != nil {
		respondError(w, "load events failed", http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusOK, events)
}

// Payments

func (h *Handlers) InitiatePayment(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "orderID")

	paymentID, err := h.paymentSvc.Initiate(r.Context(), orderID)
	if err != nil {
		switch {
		case errors.Is(err, order.ErrOrderNotFound):
			respondError(w, "order not found", http.StatusNotFound)
		case errors.Is(err, order.ErrInvalidTransition):
			respondError(w, err.Error(), http.StatusConflict)
		case errors.Is(err, order.ErrInvalidAmount):
			respondError(w, err.Error(), http.StatusUnprocessableEntity)
		default:
			h.log.Error("initiate payment failed", "order_id", orderID, "error", err)
			respondError(w, "initiate payment failed", http.StatusInternalServerError)
		}
		return
	}

	respondJSON(w, http.StatusCreated, map[string]string{"payment_id": paymentID})
}

func (h *Handlers) RecordPaymentResult(w http.ResponseWriter, r *http.Request) {
	paymentID := chi.URLParam(r, "paymentID")

	var req struct {
		Succeeded bool `json:"succeeded"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, err.Error(), http.StatusBadRequest)
		return
	}

	err := h.paymentSvc.RecordResult(r.Context(), paymentID, req.Succeeded)
	if err != nil {
		switch {
		case errors.Is(err, payment.ErrPaymentNotFound):
			respondError(w, "payment not found", http.StatusNotFound)
		case errors.Is(err, order.ErrInvalidTransition):
			respondError(w, err.Error(), http.StatusConflict)
		default:
			h.log.Error("record payment result failed", "payment_id", paymentID, "error", err)
			respondError(w, "record payment result failed", http.StatusInternalServerError)
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) ConfirmOrder(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "orderID")

	err := h.paymentSvc.Confirm(r.Context(), orderID)
	if err != nil {
		switch {
		case errors.Is(err, order.ErrOrderNotFound):
			respondError(w, "order not found", http.StatusNotFound)
		case errors.Is(err, order.ErrInvalidTransition):
			respondError(w, err.Error(), http.StatusConflict)
		default:
			h.log.Error("confirm order failed", "order_id", orderID, "error", err)
			respondError(w, "confirm order failed", http.StatusInternalServerError)
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Cart

func (h *Handlers) GetCart(w http.ResponseWriter, r *http.Request) {
	c, err := h.cartSvc.Get(r.Context(), middleware.UserID(r.Context()))
	if err != nil {
		respondError(w, "load cart failed", http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusOK, c)
}

func (h *Handlers) AddToCart(w http.ResponseWriter, r *http.Request) {
	var req struct {
		FoodID   string `json:"food_id"`
		Quantity int    `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, err.Error(), http.StatusBadRequest)
		return
	}

	err := h.cartSvc.AddItem(r.Context(), middleware.UserID(r.Context()), req.FoodID, req.Quantity)
	if err != nil {
		switch {
		case errors.Is(err, cart.ErrInvalidQuantity):
			respondError(w, err.Error(), http.StatusBadRequest)
		case errors.Is(err, catalog.ErrFoodNotFound):
			respondError(w, err.Error(), http.StatusNotFound)
		case errors.Is(err, catalog.ErrFoodUnavailable):
			respondError(w, err.Error(), http.StatusUnprocessableEntity)
		default:
			respondError(w, "add to cart failed", http.StatusInternalServerError)
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) RemoveFromCart(w http.ResponseWriter, r *http.Request) {
	foodID := chi.URLParam(r, "foodID")

	if err := h.cartSvc.RemoveItem(r.Context(), middleware.UserID(r.Context()), foodID); err != nil {
		respondError(w, "remove from cart failed", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Catalog

func (h *Handlers) ListFoods(w http.ResponseWriter, r *http.Request) {
	foods, err := h.catalogSvc.List(r.Context())
	if err != nil {
		respondError(w, "list foods failed", http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusOK, foods)
}

func (h *Handlers) CreateFood(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name  string `json:"name"`
		Price int64  `json:"price"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, err.Error(), http.StatusBadRequest)
		return
	}

	f, err := h.catalogSvc.Create(r.Context(), req.Name, req.Price)
	if err != nil {
		switch {
		case errors.Is(err, catalog.ErrInvalidName), errors.Is(err, catalog.ErrInvalidPrice):
			respondError(w, err.Error(), http.StatusBadRequest)
		default:
			respondError(w, "create food failed", http.StatusInternalServerError)
		}
		return
	}
	respondJSON(w, http.StatusCreated, f)
}

func (h *Handlers) UpdateFood(w http.ResponseWriter, r *http.Request) {
	foodID := chi.URLParam(r, "foodID")

	var req struct {
		Price     int64 `json:"price"`
		Available bool  `json:"available"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, err.Error(), http.StatusBadRequest)
		return
	}

	f, err := h.catalogSvc.Update(r.Context(), foodID, req.Price, req.Available)
	if err != nil {
		switch {
		case errors.Is(err, catalog.ErrFoodNotFound):
			respondError(w, err.Error(), http.StatusNotFound)
		case errors.Is(err, catalog.ErrInvalidPrice):
			respondError(w, err.Error(), http.StatusBadRequest)
		default:
			respondError(w, "update food failed", http.StatusInternalServerError)
		}
		return
	}
	respondJSON(w, http.StatusOK, f)
}

// Helpers

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, message string, status int) {
	respondJSON(w, status, map[string]string{"error": message})
}
