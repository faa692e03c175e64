package app

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/adeleke-taiwo-dev/HR-LeaveFlow/internal/messaging/kafka"
	"github.com/adeleke-taiwo-dev/HR-LeaveFlow/internal/messaging/kafka/producer"
	"github.com/adeleke-taiwo-dev/HR-LeaveFlow/internal/shared/connection"
)

// RunWorker starts the outbox publisher: it polls outbox_events and pushes
// pending rows to Kafka until a shutdown signal arrives.
func RunWorker() error {
	db, err := connection.ConnectGORMWithRetry(
		envOr("DB_HOST", "localhost"),
		envOr("DB_USER", "postgres"),
		envOr("DB_PASSWORD", "postgres"),
		envOr("DB_NAME", "hr_leaveflow"),
		envOr("DB_PORT", "5432"),
		envOr("DB_SSLMODE", "disable"),
		5,
	)
	if err != nil {
		return err
	}

	writer, err := connection.ConnectKafkaWithRetry(envOr("KAFKA_BROKER", "localhost:9092"), 5)
	if err != nil {
		return err
	}
	defer writer.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		sig := <-quit
		zap.L().Info("worker shutdown signal received", zap.String("signal", sig.String()))
		cancel()
	}()

	producer.ProcessOutboxEvents(ctx, kafka.NewOutboxRepository(db), writer, zap.L(), 3*time.Second)
	return nil
}
