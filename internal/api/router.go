package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/TECH-SIGN/OrderEase-sub000/internal/api/middleware"
	"github.com/TECH-SIGN/OrderEase-sub000/internal/auth"
)

func NewRouter(h *Handlers, authHandlers *AuthHandlers, jwtService *auth.JWTService, log *slog.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Recoverer)
	r.Use(requestLogger(log))

	r.Post("/auth/register", authHandlers.Register)
	r.Post("/auth/login", authHandlers.Login)

	r.Get("/foods", h.ListFoods)

	// Gateway result callback; the stub gateway posts here.
	r.Post("/payments/{paymentID}/result", h.RecordPaymentResult)

	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(jwtService))

		r.Get("/cart", h.GetCart)
		r.Post("/cart/items", h.AddToCart)
		r.Delete("/cart/items/{foodID}", h.RemoveFromCart)

		r.Post("/checkout", h.Checkout)
		r.Get("/orders/{orderID}", h.GetOrder)
		r.Get("/orders/{orderID}/events", h.GetOrderEvents)
		r.Post("/orders/{orderID}/payment", h.InitiatePayment)
		r.Post("/orders/{orderID}/confirm", h.ConfirmOrder)
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(jwtService))
		r.Use(middleware.RequireRole(auth.RoleAdmin))

		r.Post("/foods", h.CreateFood)
		r.Put("/foods/{foodID}", h.UpdateFood)
	})

	return r
}

func requestLogger(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			log.Info("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"duration_ms", time.Since(start).Milliseconds(),
			)
		})
	}
}
