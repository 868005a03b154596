package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/TECH-SIGN/OrderEase-sub000/internal/config"
	"github.com/TECH-SIGN/OrderEase-sub000/internal/email"
	"github.com/TECH-SIGN/OrderEase-sub000/internal/infrastructure/kafka"
	"github.com/TECH-SIGN/OrderEase-sub000/internal/infrastructure/store/postgres"
	"github.com/TECH-SIGN/OrderEase-sub000/internal/logging"
	"github.com/TECH-SIGN/OrderEase-sub000/internal/notification"
)

func main() {
	log := logging.New("notifier")

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

	emailSvc := email.NewService(cfg.SMTPAddr, cfg.SMTPFrom, log)
	handler := notification.NewHandler(emailSvc, db, log)

	consumer := kafka.NewConsumer(cfg.KafkaBrokers, cfg.KafkaTopic, cfg.KafkaGroupID, log)
	defer consumer.Close()

	log.Info("notifier consuming", "topic", cfg.KafkaTopic, "group", cfg.KafkaGroupID)
	if err := consumer.Consume(ctx, handler.HandleEvent); err != nil && ctx.Err() == nil {
		log.Error("consume", "error", err)
		os.Exit(1)
	}
	log.Info("notifier stopped")
}
