package postgresrepo

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/miniflavors/checkout/internal/dal/postgres"
	"github.com/miniflavors/checkout/internal/service/models/checkout"
	"github.com/miniflavors/checkout/internal/service/models/order"
	"github.com/miniflavors/checkout/internal/service/models/orderitem"
	"github.com/miniflavors/checkout/internal/service/models/outbox"
)

// OrderRepository implements the order repository for PostgreSQL.
type OrderRepository struct {
	client *postgres.Client
}

// NewOrderRepository creates a new order repository.
func NewOrderRepository(client *postgres.Client) *OrderRepository {
	return &OrderRepository{
		client: client,
	}
}

// CreateOrder persists the order, its items and the order-created outbox
// row in one transaction. The order number comes from a dedicated
// sequence evaluated inside the insert, so two concurrent calls can never
// observe or assign the same number, and no committed row exists without
// one.
func (r *OrderRepository) CreateOrder(ctx context.Context, p checkout.Payload) (order.Order, error) {
	tx, err := r.client.Pool().Begin(ctx)
	if err != nil {
		return order.Order{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query, args, err := sq.Insert("orders").
		Columns("nombre", "correo", "telefono", "direccion", "notas", "metodo_pago", "monto", "total").
		Values(p.Nombre, p.Correo, p.Telefono, p.Direccion, p.Notas, p.MetodoPago, p.Monto, p.Total).
		Suffix("RETURNING id, number, created_at").
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return order.Order{}, fmt.Errorf("failed to build insert query: %w", err)
	}

	o := order.Order{
		Nombre:     p.Nombre,
		Correo:     p.Correo,
		Telefono:   p.Telefono,
		Direccion:  p.Direccion,
		Notas:      p.Notas,
		MetodoPago: p.MetodoPago,
		Monto:      p.Monto,
		Total:      p.Total,
	}
	if err := tx.QueryRow(ctx, query, args...).Scan(&o.ID, &o.Number, &o.CreatedAt); err != nil {
		return order.Order{}, fmt.Errorf("failed to insert order: %w", err)
	}
	o.Referencia = order.FormatReference(o.Number)

	if len(p.Items) > 0 {
		builder := sq.Insert("order_items").
			Columns("order_id", "titulo", "cantidad", "precio").
			Suffix("RETURNING id").
			PlaceholderFormat(sq.Dollar)
		for _, item := range p.Items {
			builder = builder.Values(o.ID, item.Titulo, item.Cantidad, item.Precio)
		}

		query, args, err := builder.ToSql()
		if err != nil {
			return order.Order{}, fmt.Errorf("failed to build item insert query: %w", err)
		}

		rows, err := tx.Query(ctx, query, args...)
		if err != nil {
			return order.Order{}, fmt.Errorf("failed to insert order items: %w", err)
		}

		o.Items = make([]orderitem.OrderItem, 0, len(p.Items))
		i := 0
		for rows.Next() {
			item := p.Items[i]
			item.OrderID = o.ID
			if err := rows.Scan(&item.ID); err != nil {
				rows.Close()
				return order.Order{}, fmt.Errorf("failed to scan order item: %w", err)
			}
			o.Items = append(o.Items, item)
			i++
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return order.Order{}, fmt.Errorf("rows iteration error: %w", err)
		}
	} else {
		o.Items = []orderitem.OrderItem{}
	}

	msg, err := outbox.NewOrderCreatedMessage(o)
	if err != nil {
		return order.Order{}, err
	}

	query, args, err = sq.Insert("outbox").
		Columns(
			"queue_name",
			"exchange_name",
			"routing_key",
			"payload",
			"content_type",
			"retry_count",
			"max_retries",
			"last_error",
			"created_at",
			"updated_at",
			"next_retry_at",
		).
		Values(
			msg.QueueName,
			msg.ExchangeName,
			msg.RoutingKey,
			msg.Payload,
			msg.ContentType,
			msg.RetryCount,
			msg.MaxRetries,
			msg.LastError,
			msg.CreatedAt,
			msg.UpdatedAt,
			msg.NextRetryAt,
		).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return order.Order{}, fmt.Errorf("failed to build outbox insert query: %w", err)
	}

	if _, err := tx.Exec(ctx, query, args...); err != nil {
		return order.Order{}, fmt.Errorf("failed to insert outbox message: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return order.Order{}, fmt.Errorf("failed to commit order: %w", err)
	}

	return o, nil
}

// Query retrieves orders with their items for the admin listing. The
// result is capped regardless of the requested limit.
func (r *OrderRepository) Query(ctx context.Context, filter order.QueryOrdersModel) ([]order.Order, error) {
	filter = filter.Normalize()

	builder := sq.Select("id", "number", "nombre", "correo", "telefono", "direccion", "notas", "metodo_pago", "monto", "total", "created_at").
		From("orders").
		Limit(uint64(filter.Limit)).
		PlaceholderFormat(sq.Dollar)

	switch filter.Sort {
	case order.SortName:
		builder = builder.OrderBy("nombre ASC", "created_at DESC")
	default:
		builder = builder.OrderBy("created_at DESC", "id DESC")
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select query: %w", err)
	}

	rows, err := r.client.Pool().Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	var result []order.Order
	for rows.Next() {
		var o order.Order
		err := rows.Scan(
			&o.ID,
			&o.Number,
			&o.Nombre,
			&o.Correo,
			&o.Telefono,
			&o.Direccion,
			&o.Notas,
			&o.MetodoPago,
			&o.Monto,
			&o.Total,
			&o.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		o.Referencia = order.FormatReference(o.Number)
		o.Items = []orderitem.OrderItem{}
		result = append(result, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	if len(result) == 0 {
		return []order.Order{}, nil
	}

	if err := r.loadItems(ctx, result); err != nil {
		return nil, err
	}

	return result, nil
}

func (r *OrderRepository) loadItems(ctx context.Context, orders []order.Order) error {
	ids := make([]int64, len(orders))
	byID := make(map[int64]*order.Order, len(orders))
	for i := range orders {
		ids[i] = orders[i].ID
		byID[orders[i].ID] = &orders[i]
	}

	query, args, err := sq.Select("id", "order_id", "titulo", "cantidad", "precio").
		From("order_items").
		Where(sq.Eq{"order_id": ids}).
		OrderBy("id ASC").
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build item select query: %w", err)
	}

	rows, err := r.client.Pool().Query(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to query order items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var item orderitem.OrderItem
		if err := rows.Scan(&item.ID, &item.OrderID, &item.Titulo, &item.Cantidad, &item.Precio); err != nil {
			return fmt.Errorf("failed to scan order item: %w", err)
		}
		if o, ok := byID[item.OrderID]; ok {
			o.Items = append(o.Items, item)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("rows iteration error: %w", err)
	}

	return nil
}
