package main

import (
	"context"
	"flag"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/appointly/appointly-api/internal/application/services"
	"github.com/appointly/appointly-api/internal/domain/entities"
	"github.com/appointly/appointly-api/internal/infrastructure/clients/postgres"
	"github.com/appointly/appointly-api/pkg/config"
)

// Drains pending notification rows written by the booking flow. Delivery here
// is just a structured log line; a real channel (email, SMS, push) plugs in
// at deliver() without touching the API service.
func main() {
	var interval time.Duration
	var batchSize int
	flag.DurationVar(&interval, "interval", 30*time.Second, "polling interval")
	flag.IntVar(&batchSize, "batch", 50, "notifications per polling cycle")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to initialize PostgreSQL client: %v", err)
	}
	defer pgClient.Close()

	notifications := services.NewNotificationService(sqlx.NewDb(pgClient.DB(), "postgres"))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Printf("Notifier started, polling every %s", interval)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if err := drain(ctx, notifications, batchSize); err != nil {
			log.Printf("Drain failed: %v", err)
		}

		select {
		case <-ctx.Done():
			log.Println("Notifier shutting down")
			return
		case <-ticker.C:
		}
	}
}

func drain(ctx context.Context, notifications *services.NotificationService, batchSize int) error {
	pending, err := notifications.ListPending(ctx, batchSize)
	if err != nil {
		return err
	}

	for _, n := range pending {
		status := entities.NotificationStatusSent
		if err := deliver(n); err != nil {
			log.Printf("Delivery failed for notification %s: %v", n.ID, err)
			status = entities.NotificationStatusFailed
		}
		if err := notifications.MarkDelivered(ctx, n.ID, status); err != nil {
			log.Printf("Failed to mark notification %s: %v", n.ID, err)
		}
	}

	if len(pending) > 0 {
		log.Printf("Processed %d notifications", len(pending))
	}
	return nil
}

func deliver(n *entities.AppointmentNotification) error {
	log.Printf("notify recipient=%s type=%s appointment=%s: %s",
		n.RecipientID, n.Type, n.AppointmentID, n.Message)
	return nil
}
