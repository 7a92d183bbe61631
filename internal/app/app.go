package app

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/miniflavors/checkout/internal/config"
	"github.com/miniflavors/checkout/internal/dal/postgres"
	"github.com/miniflavors/checkout/internal/dal/rabbitmq"
	orderrepo "github.com/miniflavors/checkout/internal/dal/repositories/order/postgres"
	outboxrepo "github.com/miniflavors/checkout/internal/dal/repositories/outbox/postgres"
	"github.com/miniflavors/checkout/internal/notify"
	"github.com/miniflavors/checkout/internal/notify/email"
	"github.com/miniflavors/checkout/internal/notify/whatsapp"
	"github.com/miniflavors/checkout/internal/otel"
	"github.com/miniflavors/checkout/internal/service/models/outbox"
	"github.com/miniflavors/checkout/internal/service/services/checkoutsvc"
	httptransport "github.com/miniflavors/checkout/internal/transport/http"
	outboxworker "github.com/miniflavors/checkout/internal/worker/outbox"
)

// App represents the application.
type App struct {
	checkoutSvc    *checkoutsvc.CheckoutService
	transport      *httptransport.HTTPTransport
	outboxWorker   *outboxworker.Worker
	rabbitMqClient *rabbitmq.Client
	postgresClient *postgres.Client
	otelController *otel.OtelController
}

// MustNewApp creates a new application.
func MustNewApp() *App {
	otelController := otel.MustInitOtel()
	postgresClient := postgres.MustNewClient()
	orderRepository := orderrepo.NewOrderRepository(postgresClient)

	waCfg := config.WhatsApp()
	emailCfg := config.Email()

	var senders []notify.Sender
	if waCfg.Configured() {
		senders = append(senders, whatsapp.NewClient(waCfg.Token, waCfg.PhoneNumberID))
	}
	if emailCfg.Configured() {
		senders = append(senders, email.NewClient(emailCfg.APIKey, emailCfg.From))
	}

	checkoutSvc := checkoutsvc.MustNewCheckoutService(
		checkoutsvc.WithOrderRepository(orderRepository),
		checkoutsvc.WithDispatcher(notify.NewDispatcher(senders...)),
		checkoutsvc.WithChannelSettings(checkoutsvc.ChannelSettings{
			WhatsAppEnabled: waCfg.Configured(),
			WhatsAppStoreTo: waCfg.StoreTo,
			EmailEnabled:    emailCfg.Configured(),
			EmailStoreInbox: emailCfg.StoreInbox,
		}),
	)

	transport := httptransport.NewHTTPTransport(checkoutSvc)
	transport.RegisterRoutes()

	app := &App{
		checkoutSvc:    checkoutSvc,
		transport:      transport,
		postgresClient: postgresClient,
		otelController: otelController,
	}

	// Order events are best effort: without a broker the service still
	// takes orders, and the outbox keeps them until a broker shows up.
	rabbitClient, err := rabbitmq.NewClient()
	if err != nil {
		slog.Warn("RabbitMQ unavailable, order events deferred to outbox", "error", err)

		return app
	}

	if err := rabbitClient.DeclareTopology(
		outbox.OrdersExchange,
		outbox.OrderCreatedQueue,
		outbox.OrderCreatedRoutingKey,
	); err != nil {
		slog.Warn("RabbitMQ topology declaration failed, order events deferred", "error", err)
		if closeErr := rabbitClient.Close(); closeErr != nil {
			slog.Error("RabbitMQ connection close error", "error", closeErr)
		}

		return app
	}

	app.rabbitMqClient = rabbitClient
	app.outboxWorker = outboxworker.NewWorker(
		outboxrepo.NewOutboxRepository(postgresClient),
		rabbitClient,
	)

	return app
}

// Run starts the application.
// Tracks interrupt signal to gracefully shut down the application.
func (a *App) Run() {
	// Create a channel to receive OS signals
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		slog.Info("Starting HTTP server")
		if err := a.transport.Run(); err != nil {
			slog.Error("HTTP server error", "error", err)
		}
	}()

	if a.outboxWorker != nil {
		go func() {
			slog.Info("Starting outbox worker")
			a.outboxWorker.Start(ctx)
		}()
	}

	<-stop
	slog.Info("Shutdown signal received")
	cancel()

	a.gracefulShutdown()
}

// gracefulShutdown stops the HTTP server, the outbox worker and every
// client connection in order.
func (a *App) gracefulShutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.transport.Shutdown(ctx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	} else {
		slog.Info("HTTP server stopped gracefully")
	}

	if a.outboxWorker != nil {
		a.outboxWorker.Stop()
		slog.Info("Outbox worker stopped gracefully")
	}

	if a.rabbitMqClient != nil {
		if err := a.rabbitMqClient.Close(); err != nil {
			slog.Error("RabbitMQ connection close error", "error", err)
		} else {
			slog.Info("RabbitMQ connection closed gracefully")
		}
	}

	a.postgresClient.Close()
	slog.Info("Database connection closed gracefully")

	if err := a.otelController.Shutdown(); err != nil {
		slog.Error("Otel trace provider shutdown error", "error", err)
	} else {
		slog.Info("Otel trace provider closed gracefully")
	}

	slog.Info("Application shutdown complete")
}
