package outbox

import (
	"context"
	"log/slog"
	"math"
	"time"

	"github.com/miniflavors/checkout/internal/dal/interfaces/ioutboxrepo"
	"github.com/miniflavors/checkout/internal/dal/rabbitmq"
	"github.com/spf13/viper"
	"github.com/streadway/amqp"
)

// Worker publishes order-created events from the outbox table to
// RabbitMQ. Publication is at least once: a row is deleted only after the
// broker accepts the message, and failed publishes back off exponentially
// until the retry budget runs out.
type Worker struct {
	outboxRepo    ioutboxrepo.IOutboxRepository
	rabbitClient  *rabbitmq.Client
	pollInterval  time.Duration
	batchSize     int
	retryInterval time.Duration
	stopCh        chan struct{}
}

// NewWorker creates a new outbox worker.
func NewWorker(
	outboxRepo ioutboxrepo.IOutboxRepository,
	rabbitClient *rabbitmq.Client,
) *Worker {
	pollIntervalSeconds := viper.GetInt("rabbitmq.outbox.poll_interval_seconds")
	if pollIntervalSeconds == 0 {
		pollIntervalSeconds = 10
	}

	batchSize := viper.GetInt("rabbitmq.outbox.batch_size")
	if batchSize == 0 {
		batchSize = 100
	}

	retryIntervalSeconds := viper.GetInt("rabbitmq.outbox.retry_interval_seconds")
	if retryIntervalSeconds == 0 {
		retryIntervalSeconds = 30
	}

	return &Worker{
		outboxRepo:    outboxRepo,
		rabbitClient:  rabbitClient,
		pollInterval:  time.Duration(pollIntervalSeconds) * time.Second,
		batchSize:     batchSize,
		retryInterval: time.Duration(retryIntervalSeconds) * time.Second,
		stopCh:        make(chan struct{}),
	}
}

// Start begins publishing pending events.
func (w *Worker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	slog.Info("Outbox worker started", "poll_interval", w.pollInterval, "batch_size", w.batchSize)

	for {
		select {
		case <-ctx.Done():
			slog.Info("Outbox worker shutting down")

			return
		case <-w.stopCh:
			slog.Info("Outbox worker stopped")

			return
		case <-ticker.C:
			w.processMessages(ctx)
		}
	}
}

// Stop stops the worker.
func (w *Worker) Stop() {
	close(w.stopCh)
}

// processMessages retrieves and publishes pending messages from the outbox.
func (w *Worker) processMessages(ctx context.Context) {
	messages, err := w.outboxRepo.GetPendingMessages(ctx, w.batchSize)
	if err != nil {
		slog.Error("Failed to get pending messages from outbox", "error", err)

		return
	}

	if len(messages) == 0 {
		return
	}

	slog.Info("Publishing outbox messages", "count", len(messages))

	for _, msg := range messages {
		err := w.rabbitClient.Channel().Publish(
			msg.ExchangeName,
			msg.RoutingKey,
			false,
			false,
			amqp.Publishing{
				ContentType: msg.ContentType,
				Body:        msg.Payload,
			},
		)
		if err != nil {
			w.handlePublishFailure(ctx, msg.ID, msg.RetryCount, err)

			continue
		}

		if err := w.outboxRepo.Delete(ctx, msg.ID); err != nil {
			slog.Error("Failed to delete published outbox message", "id", msg.ID, "error", err)
		}
	}
}

// handlePublishFailure records the failure and schedules the next attempt
// with exponential backoff.
func (w *Worker) handlePublishFailure(ctx context.Context, id int64, retryCount int, publishErr error) {
	retryCount++
	backoff := time.Duration(math.Pow(2, float64(retryCount))) * w.retryInterval
	nextRetryAt := time.Now().Add(backoff)

	slog.Error("Failed to publish outbox message",
		"id", id,
		"retry_count", retryCount,
		"next_retry_at", nextRetryAt,
		"error", publishErr,
	)

	if err := w.outboxRepo.UpdateRetry(ctx, id, retryCount, publishErr.Error(), nextRetryAt); err != nil {
		slog.Error("Failed to update outbox retry state", "id", id, "error", err)
	}
}
