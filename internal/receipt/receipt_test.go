package receipt

import (
	"strings"
	"testing"

	"github.com/miniflavors/checkout/internal/service/models/checkout"
	"github.com/miniflavors/checkout/internal/service/models/orderitem"
)

func samplePayload() checkout.Payload {
	return checkout.Payload{
		Nombre:     "Ana Lopez",
		Correo:     "ana@example.com",
		Telefono:   "555-123-4567",
		Direccion:  "Av. Siempre Viva 742",
		MetodoPago: "Transferencia",
		Monto:      "$120.00",
		Referencia: "0007",
		Total:      "$120.00",
		Items: []orderitem.OrderItem{
			{Titulo: "Brownie", Cantidad: 2, Precio: "$40.00"},
			{Titulo: "Galleta", Cantidad: 1, Precio: "$40.00"},
		},
	}
}

func TestRenderAudiences(t *testing.T) {
	p := samplePayload()

	store := Render(p, AudienceStore)
	buyer := Render(p, AudienceBuyer)

	if !strings.HasPrefix(store, "Recibo de pago - Mini Flavors") {
		t.Errorf("store receipt header wrong:\n%s", store)
	}
	if !strings.HasPrefix(buyer, "Confirmacion de pedido - Mini Flavors") {
		t.Errorf("buyer receipt header wrong:\n%s", buyer)
	}
	if strings.Contains(store, "Tu pedido fue enviado correctamente") {
		t.Error("store receipt must not contain the buyer closing line")
	}
	if !strings.Contains(buyer, "Tu pedido fue enviado correctamente. Gracias por tu compra.") {
		t.Error("buyer receipt missing closing line")
	}

	// Aside from header, closing and the render timestamp, both renders
	// carry identical content.
	storeLines := strings.Split(store, "\n")
	buyerLines := strings.Split(buyer, "\n")
	if len(storeLines) != len(buyerLines) {
		t.Fatalf("line counts differ: store %d, buyer %d", len(storeLines), len(buyerLines))
	}
	for i := 1; i < len(storeLines)-1; i++ {
		if strings.HasPrefix(storeLines[i], "Fecha: ") {
			continue
		}
		if storeLines[i] != buyerLines[i] {
			t.Errorf("line %d differs: %q vs %q", i, storeLines[i], buyerLines[i])
		}
	}
}

func TestRenderItems(t *testing.T) {
	p := samplePayload()
	got := Render(p, AudienceStore)

	if !strings.Contains(got, "- Brownie x2 ($40.00)") {
		t.Errorf("item line missing:\n%s", got)
	}
	if !strings.Contains(got, "- Galleta x1 ($40.00)") {
		t.Errorf("item line missing:\n%s", got)
	}

	p.Items = nil
	got = Render(p, AudienceStore)
	if !strings.Contains(got, "Sin productos") {
		t.Errorf("empty item list should render placeholder:\n%s", got)
	}
}

func TestRenderNotesOmittedWhenBlank(t *testing.T) {
	p := samplePayload()
	if got := Render(p, AudienceStore); strings.Contains(got, "Notas:") {
		t.Errorf("blank notes must not render a label:\n%s", got)
	}

	p.Notas = "sin nueces"
	if got := Render(p, AudienceStore); !strings.Contains(got, "Notas: sin nueces") {
		t.Errorf("notes line missing:\n%s", got)
	}
}

func TestRenderCardBlock(t *testing.T) {
	p := samplePayload()
	p.MetodoPago = MetodoTarjeta
	p.TarjetaNombre = "Ana Lopez"
	p.TarjetaNumero = "4111 1111 1111 1234"
	p.TarjetaVencimiento = "12/27"

	store := Render(p, AudienceStore)
	if !strings.Contains(store, "Tarjeta:") {
		t.Errorf("card block missing on store receipt:\n%s", store)
	}
	if !strings.Contains(store, "Numero: **** 1234") {
		t.Errorf("card number must be masked to last four:\n%s", store)
	}
	if strings.Contains(store, "4111") {
		t.Errorf("full card number leaked:\n%s", store)
	}

	buyer := Render(p, AudienceBuyer)
	if strings.Contains(buyer, "Tarjeta:") {
		t.Errorf("buyer receipt must not carry the card block:\n%s", buyer)
	}

	// Non-card payment never renders the block even with card fields set.
	p.MetodoPago = "Efectivo"
	if got := Render(p, AudienceStore); strings.Contains(got, "Tarjeta:") {
		t.Errorf("card block rendered for non-card method:\n%s", got)
	}
}

func TestRenderZeroValuePayload(t *testing.T) {
	var p checkout.Payload
	got := Render(p, AudienceBuyer)
	if !strings.Contains(got, "Nombre: ") {
		t.Errorf("zero payload should still render labels:\n%s", got)
	}
	if !strings.Contains(got, "Sin productos") {
		t.Errorf("zero payload should render placeholder items:\n%s", got)
	}
}

func TestMaskCardNumber(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"4111 1111 1111 1234", "**** 1234"},
		{"1234", "**** 1234"},
		{"12", "****"},
		{"", "****"},
	}
	for _, tt := range tests {
		if got := MaskCardNumber(tt.in); got != tt.want {
			t.Errorf("MaskCardNumber(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
