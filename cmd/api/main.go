package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/TECH-SIGN/OrderEase-sub000/internal/api"
	"github.com/TECH-SIGN/OrderEase-sub000/internal/auth"
	"github.com/TECH-SIGN/OrderEase-sub000/internal/cart"
	"github.com/TECH-SIGN/OrderEase-sub000/internal/catalog"
	"github.com/TECH-SIGN/OrderEase-sub000/internal/checkout"
	"github.com/TECH-SIGN/OrderEase-sub000/internal/config"
	"github.com/TECH-SIGN/OrderEase-sub000/internal/infrastructure/kafka"
	"github.com/TECH-SIGN/OrderEase-sub000/internal/infrastructure/store/postgres"
	"github.com/TECH-SIGN/OrderEase-sub000/internal/logging"
	"github.com/TECH-SIGN/OrderEase-sub000/internal/payment"
)

func main() {
	log := logging.New("api")

	cfg, err := config.Load()
	if err != nil {
		log.Error("load config", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := postgres.Open(cfg.DatabaseURL)
	if err != nil {
		log.Error("connect postgres", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.EnsureSchema(ctx); err != nil {
		log.Error("ensure schema", "error", err)
		os.Exit(1)
	}
	log.Info("connected to postgres")

	producer := kafka.NewProducer(cfg.KafkaBrokers, cfg.KafkaTopic)
	defer producer.Close()

	jwtService := auth.NewJWTService(cfg.JWTSecret, cfg.TokenExpiry)
	authSvc := auth.NewService(db, jwtService)
	catalogSvc := catalog.NewService(db)
	cartSvc := cart.NewService(db, log)
	checkoutSvc := checkout.NewService(db, producer, log)
	paymentSvc := payment.NewService(db, payment.NewProvider(cfg.PaymentProvider), producer, log)

	handlers := api.NewHandlers(checkoutSvc, paymentSvc, cartSvc, catalogSvc, db, log)
	authHandlers := api.NewAuthHandlers(authSvc)
	router := api.NewRouter(handlers, authHandlers, jwtService, log)

	srv := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		log.Info("http server listening", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http server", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown", "error", err)
	}
}
