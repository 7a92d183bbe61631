package outbox

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/miniflavors/checkout/internal/service/models/order"
)

// Routing for order-created events published to RabbitMQ.
const (
	OrdersExchange         = "orders"
	OrderCreatedQueue      = "order.created"
	OrderCreatedRoutingKey = "order.created"
)

// OutboxMessage represents a pending event awaiting publication to
// RabbitMQ. Rows are written in the same transaction as the order they
// describe and removed after a successful publish.
type OutboxMessage struct {
	ID           int64
	QueueName    string
	ExchangeName string
	RoutingKey   string
	Payload      []byte
	ContentType  string
	RetryCount   int
	MaxRetries   int
	LastError    string
	CreatedAt    time.Time
	UpdatedAt    time.Time
	NextRetryAt  time.Time
}

// OrderCreatedEvent is the payload published for every persisted order.
// Consumers dedupe on the order id; delivery is at least once.
type OrderCreatedEvent struct {
	EventID    string    `json:"eventId"`
	OrderID    int64     `json:"orderId"`
	Numero     int64     `json:"numero"`
	Referencia string    `json:"referencia"`
	Nombre     string    `json:"nombre"`
	Total      string    `json:"total"`
	ItemCount  int       `json:"itemCount"`
	CreatedAt  time.Time `json:"createdAt"`
}

// NewOrderCreatedMessage builds the outbox row for a freshly persisted
// order. Card and contact details stay out of the event on purpose.
func NewOrderCreatedMessage(o order.Order) (OutboxMessage, error) {
	payload, err := json.Marshal(OrderCreatedEvent{
		EventID:    uuid.NewString(),
		OrderID:    o.ID,
		Numero:     o.Number,
		Referencia: o.Referencia,
		Nombre:     o.Nombre,
		Total:      o.Total,
		ItemCount:  len(o.Items),
		CreatedAt:  o.CreatedAt,
	})
	if err != nil {
		return OutboxMessage{}, fmt.Errorf("failed to marshal order created event: %w", err)
	}

	now := time.Now()

	return OutboxMessage{
		QueueName:    OrderCreatedQueue,
		ExchangeName: OrdersExchange,
		RoutingKey:   OrderCreatedRoutingKey,
		Payload:      payload,
		ContentType:  "application/json",
		MaxRetries:   5,
		CreatedAt:    now,
		UpdatedAt:    now,
		NextRetryAt:  now,
	}, nil
}
