package iorderrepo

import (
	"context"

	"github.com/miniflavors/checkout/internal/service/models/checkout"
	"github.com/miniflavors/checkout/internal/service/models/order"
)

// IOrderRepository defines the interface for order persistence.
type IOrderRepository interface {
	// CreateOrder atomically assigns the next order number and persists
	// the order with its items.
	CreateOrder(ctx context.Context, payload checkout.Payload) (order.Order, error)

	// Query retrieves orders for the admin listing, sorted and capped.
	Query(ctx context.Context, filter order.QueryOrdersModel) ([]order.Order, error)
}
