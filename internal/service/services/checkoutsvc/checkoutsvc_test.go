package checkoutsvc

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/miniflavors/checkout/internal/notify"
	"github.com/miniflavors/checkout/internal/service/models/checkout"
	"github.com/miniflavors/checkout/internal/service/models/order"
	"github.com/miniflavors/checkout/internal/service/models/orderitem"
)

type fakeOrderRepo struct {
	created []checkout.Payload
	fail    bool
	orders  []order.Order
}

func (f *fakeOrderRepo) CreateOrder(_ context.Context, p checkout.Payload) (order.Order, error) {
	if f.fail {
		return order.Order{}, errors.New("connection refused")
	}
	f.created = append(f.created, p)
	o := order.Order{
		ID:         int64(len(f.created)),
		Number:     7,
		Nombre:     p.Nombre,
		Telefono:   p.Telefono,
		Referencia: order.FormatReference(7),
		Items:      p.Items,
	}
	f.orders = append(f.orders, o)
	return o, nil
}

func (f *fakeOrderRepo) Query(_ context.Context, _ order.QueryOrdersModel) ([]order.Order, error) {
	return f.orders, nil
}

type fakeDispatcher struct {
	batches [][]notify.Task
	fail    bool
}

func (f *fakeDispatcher) Dispatch(_ context.Context, tasks []notify.Task) notify.Batch {
	f.batches = append(f.batches, tasks)
	outcomes := make([]notify.Outcome, len(tasks))
	for i, task := range tasks {
		outcomes[i] = notify.Outcome{Task: task, OK: true, Status: 200}
	}
	if f.fail && len(outcomes) > 0 {
		last := len(outcomes) - 1
		outcomes[last].OK = false
		outcomes[last].Status = 500
		outcomes[last].Detail = "provider rejected"
	}
	return notify.Batch{Outcomes: outcomes}
}

func validPayload() checkout.Payload {
	return checkout.Payload{
		Nombre:     "Ana Lopez",
		Telefono:   "555-123-4567",
		Correo:     "ana@example.com",
		Referencia: "client-supplied",
		Total:      "$120.00",
		Items: []orderitem.OrderItem{
			{Titulo: "Brownie", Cantidad: 2, Precio: "$40.00"},
		},
	}
}

func newService(repo *fakeOrderRepo, d *fakeDispatcher, cs ChannelSettings) *CheckoutService {
	return MustNewCheckoutService(
		WithOrderRepository(repo),
		WithDispatcher(d),
		WithChannelSettings(cs),
	)
}

func allChannels() ChannelSettings {
	return ChannelSettings{
		WhatsAppEnabled: true,
		WhatsAppStoreTo: "555-000-1111",
		EmailEnabled:    true,
		EmailStoreInbox: "pedidos@miniflavors.example",
	}
}

func TestCheckoutSuccess(t *testing.T) {
	repo := &fakeOrderRepo{}
	d := &fakeDispatcher{}
	s := newService(repo, d, allChannels())

	res, err := s.Checkout(context.Background(), validPayload())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Referencia != "0007" {
		t.Errorf("expected reference 0007, got %q", res.Referencia)
	}
	if len(repo.created) != 1 {
		t.Fatalf("expected one persisted order, got %d", len(repo.created))
	}
	if len(d.batches) != 1 {
		t.Fatalf("expected one dispatch, got %d", len(d.batches))
	}

	// Store and buyer on both channels: four tasks.
	tasks := d.batches[0]
	if len(tasks) != 4 {
		t.Fatalf("expected 4 tasks, got %d: %+v", len(tasks), tasks)
	}
	for _, task := range tasks {
		if !strings.Contains(task.Body, "Referencia: 0007") {
			t.Errorf("receipt must carry the server-assigned reference, got:\n%s", task.Body)
		}
		if strings.Contains(task.Body, "client-supplied") {
			t.Errorf("client-supplied reference must be discarded, got:\n%s", task.Body)
		}
	}
}

func TestCheckoutValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*checkout.Payload)
	}{
		{"missing name", func(p *checkout.Payload) { p.Nombre = "" }},
		{"missing phone", func(p *checkout.Payload) { p.Telefono = "" }},
		{"empty items", func(p *checkout.Payload) { p.Items = nil }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &fakeOrderRepo{}
			d := &fakeDispatcher{}
			s := newService(repo, d, allChannels())

			p := validPayload()
			tt.mutate(&p)

			_, err := s.Checkout(context.Background(), p)
			var ce *checkout.Error
			if !errors.As(err, &ce) || ce.Kind != checkout.KindValidation {
				t.Fatalf("expected validation error, got %v", err)
			}
			if len(repo.created) != 0 {
				t.Error("rejected payload must not be persisted")
			}
			if len(d.batches) != 0 {
				t.Error("rejected payload must not be dispatched")
			}
		})
	}
}

func TestCheckoutConfigurationMissing(t *testing.T) {
	repo := &fakeOrderRepo{}
	d := &fakeDispatcher{}
	s := newService(repo, d, ChannelSettings{})

	_, err := s.Checkout(context.Background(), validPayload())
	var ce *checkout.Error
	if !errors.As(err, &ce) || ce.Kind != checkout.KindConfiguration {
		t.Fatalf("expected configuration error, got %v", err)
	}
	if len(repo.created) != 0 || len(d.batches) != 0 {
		t.Error("configuration failure must happen before any side effect")
	}
}

func TestCheckoutStorageFailure(t *testing.T) {
	repo := &fakeOrderRepo{fail: true}
	d := &fakeDispatcher{}
	s := newService(repo, d, allChannels())

	_, err := s.Checkout(context.Background(), validPayload())
	var ce *checkout.Error
	if !errors.As(err, &ce) || ce.Kind != checkout.KindStorage {
		t.Fatalf("expected storage error, got %v", err)
	}
	if len(d.batches) != 0 {
		t.Error("no notification may be attempted without a durable order")
	}
}

func TestCheckoutNotificationFailureKeepsOrder(t *testing.T) {
	repo := &fakeOrderRepo{}
	d := &fakeDispatcher{fail: true}
	s := newService(repo, d, allChannels())

	_, err := s.Checkout(context.Background(), validPayload())
	var ce *checkout.Error
	if !errors.As(err, &ce) || ce.Kind != checkout.KindNotification {
		t.Fatalf("expected notification error, got %v", err)
	}
	if ce.Referencia != "0007" {
		t.Errorf("notification error must still carry the assigned reference, got %q", ce.Referencia)
	}
	if ce.Detail != "provider rejected" {
		t.Errorf("error should carry the provider diagnostic, got %q", ce.Detail)
	}

	// The order stays on record.
	orders, err := s.ListOrders(context.Background(), order.QueryOrdersModel{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(orders) != 1 || orders[0].Referencia != "0007" {
		t.Errorf("persisted order must survive the notification failure: %+v", orders)
	}
}

func TestCheckoutBuyerWithoutContactStillNotifiesStore(t *testing.T) {
	repo := &fakeOrderRepo{}
	d := &fakeDispatcher{}
	s := newService(repo, d, ChannelSettings{
		EmailEnabled:    true,
		EmailStoreInbox: "pedidos@miniflavors.example",
	})

	p := validPayload()
	p.Correo = ""

	if _, err := s.Checkout(context.Background(), p); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tasks := d.batches[0]
	if len(tasks) != 1 {
		t.Fatalf("expected only the store task, got %+v", tasks)
	}
	if tasks[0].Recipient != "pedidos@miniflavors.example" {
		t.Errorf("unexpected recipient %q", tasks[0].Recipient)
	}
}

func TestCheckoutEmptyTaskListSucceeds(t *testing.T) {
	repo := &fakeOrderRepo{}
	d := &fakeDispatcher{}
	// WhatsApp enabled but the store number strips to nothing and the
	// buyer phone is unusable only after normalization, not validation.
	s := newService(repo, d, ChannelSettings{
		WhatsAppEnabled: true,
		WhatsAppStoreTo: "n/a",
	})

	p := validPayload()
	p.Telefono = "sin telefono"

	res, err := s.Checkout(context.Background(), p)
	if err != nil {
		t.Fatalf("an empty dispatch batch must not fail the order: %v", err)
	}
	if res.Referencia != "0007" {
		t.Errorf("expected reference 0007, got %q", res.Referencia)
	}
	if len(d.batches[0]) != 0 {
		t.Errorf("expected empty batch, got %+v", d.batches[0])
	}
}
