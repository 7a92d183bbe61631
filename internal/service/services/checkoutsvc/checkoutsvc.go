package checkoutsvc

import (
	"context"
	"fmt"

	"github.com/miniflavors/checkout/internal/dal/interfaces/iorderrepo"
	"github.com/miniflavors/checkout/internal/metrics"
	"github.com/miniflavors/checkout/internal/notify"
	"github.com/miniflavors/checkout/internal/notify/email"
	"github.com/miniflavors/checkout/internal/notify/whatsapp"
	"github.com/miniflavors/checkout/internal/phone"
	"github.com/miniflavors/checkout/internal/receipt"
	"github.com/miniflavors/checkout/internal/service/models/checkout"
	"github.com/miniflavors/checkout/internal/service/models/order"
)

// dispatcher is the notification fan-out capability the service consumes.
type dispatcher interface {
	Dispatch(ctx context.Context, tasks []notify.Task) notify.Batch
}

// ChannelSettings describes which notification channels are fully
// configured and where the store's own copy of each receipt goes. A
// channel with any credential missing counts as disabled.
type ChannelSettings struct {
	WhatsAppEnabled bool
	WhatsAppStoreTo string
	EmailEnabled    bool
	EmailStoreInbox string
}

// CheckoutService orchestrates order intake: validate, persist, render
// receipts and fan the notifications out.
type CheckoutService struct {
	orderRepo  iorderrepo.IOrderRepository
	dispatcher dispatcher
	channels   ChannelSettings
}

// option is a function that configures the CheckoutService.
type option func(*CheckoutService)

// MustNewCheckoutService creates a new CheckoutService.
func MustNewCheckoutService(opts ...option) *CheckoutService {
	s := &CheckoutService{}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// WithOrderRepository sets the order repository.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithOrderRepository(repo iorderrepo.IOrderRepository) option {
	return func(s *CheckoutService) {
		s.orderRepo = repo
	}
}

// WithDispatcher sets the notification dispatcher.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithDispatcher(d dispatcher) option {
	return func(s *CheckoutService) {
		s.dispatcher = d
	}
}

// WithChannelSettings sets the notification channel configuration.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithChannelSettings(cs ChannelSettings) option {
	return func(s *CheckoutService) {
		s.channels = cs
	}
}

// Checkout runs the full intake pipeline. Once the order is persisted
// there is no way back: a notification failure is reported as an error,
// but the order keeps its assigned reference and stays on record.
func (s *CheckoutService) Checkout(ctx context.Context, p checkout.Payload) (checkout.Result, error) {
	if !s.channels.WhatsAppEnabled && !s.channels.EmailEnabled {
		return checkout.Result{}, checkout.NewError(
			checkout.KindConfiguration,
			"Faltan variables de entorno de notificaciones.",
		)
	}

	if p.Nombre == "" || p.Telefono == "" || len(p.Items) == 0 {
		return checkout.Result{}, checkout.NewError(
			checkout.KindValidation,
			"Datos incompletos para la orden.",
		)
	}

	o, err := s.orderRepo.CreateOrder(ctx, p)
	if err != nil {
		e := checkout.NewError(checkout.KindStorage, "No se pudo registrar la orden.")
		e.Detail = err.Error()
		return checkout.Result{}, e
	}
	metrics.OrdersCreated.Inc()

	// The client-supplied reference is discarded in favor of the
	// server-assigned one.
	p.Referencia = o.Referencia

	storeReceipt := receipt.Render(p, receipt.AudienceStore)
	buyerReceipt := receipt.Render(p, receipt.AudienceBuyer)

	tasks := s.buildTasks(p, o.Referencia, storeReceipt, buyerReceipt)

	batch := s.dispatcher.Dispatch(ctx, tasks)
	if failure, failed := batch.FirstFailure(); failed {
		e := checkout.NewError(checkout.KindNotification, "Error enviando notificaciones.")
		e.Detail = failure.Detail
		e.Referencia = o.Referencia
		return checkout.Result{}, e
	}

	return checkout.Result{Referencia: o.Referencia}, nil
}

// buildTasks assembles the dispatch batch: the store's own copy on every
// enabled channel, plus the buyer's copy wherever the buyer left a usable
// contact. Recipients that normalize to nothing are dropped.
func (s *CheckoutService) buildTasks(p checkout.Payload, referencia, storeReceipt, buyerReceipt string) []notify.Task {
	var tasks []notify.Task

	if s.channels.WhatsAppEnabled {
		if to := phone.Normalize(s.channels.WhatsAppStoreTo); to != "" {
			tasks = append(tasks, notify.Task{
				Channel:   whatsapp.ChannelName,
				Recipient: to,
				Body:      storeReceipt,
			})
		}
		if to := phone.Normalize(p.Telefono); to != "" {
			tasks = append(tasks, notify.Task{
				Channel:   whatsapp.ChannelName,
				Recipient: to,
				Body:      buyerReceipt,
			})
		}
	}

	if s.channels.EmailEnabled {
		if s.channels.EmailStoreInbox != "" {
			tasks = append(tasks, notify.Task{
				Channel:   email.ChannelName,
				Recipient: s.channels.EmailStoreInbox,
				Subject:   fmt.Sprintf("Recibo de pago - Pedido %s", referencia),
				Body:      storeReceipt,
			})
		}
		if p.Correo != "" {
			tasks = append(tasks, notify.Task{
				Channel:   email.ChannelName,
				Recipient: p.Correo,
				Subject:   fmt.Sprintf("Confirmacion de pedido %s - Mini Flavors", referencia),
				Body:      buyerReceipt,
			})
		}
	}

	return tasks
}

// ListOrders retrieves recent orders for the admin surface.
func (s *CheckoutService) ListOrders(ctx context.Context, q order.QueryOrdersModel) ([]order.Order, error) {
	return s.orderRepo.Query(ctx, q)
}
