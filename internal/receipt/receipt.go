package receipt

import (
	"fmt"
	"strings"
	"time"

	"github.com/miniflavors/checkout/internal/service/models/checkout"
)

// Audience selects which party a rendered receipt is addressed to.
type Audience string

const (
	// AudienceStore renders the internal payment receipt.
	AudienceStore Audience = "store"
	// AudienceBuyer renders the order confirmation sent to the customer.
	AudienceBuyer Audience = "buyer"
)

// MetodoTarjeta is the payment-method value that enables the card block
// on the store receipt.
const MetodoTarjeta = "Tarjeta"

// Render builds the plain-text receipt for one audience. It never fails:
// missing fields render as empty values and optional lines are dropped
// entirely. The embedded date is the render time, so two renders of the
// same payload may differ in that line alone.
func Render(p checkout.Payload, audience Audience) string {
	lines := make([]string, 0, 16+len(p.Items))

	if audience == AudienceBuyer {
		lines = append(lines, "Confirmacion de pedido - Mini Flavors")
	} else {
		lines = append(lines, "Recibo de pago - Mini Flavors")
	}
	lines = append(lines,
		"Fecha: "+time.Now().Format("02/01/2006 15:04:05"),
		"Nombre: "+p.Nombre,
		"Correo: "+p.Correo,
		"Telefono: "+p.Telefono,
		"Direccion: "+p.Direccion,
	)
	if p.Notas != "" {
		lines = append(lines, "Notas: "+p.Notas)
	}

	lines = append(lines,
		"Pago:",
		"Metodo: "+p.MetodoPago,
		"Referencia: "+p.Referencia,
		"Monto: "+p.Monto,
	)
	// Card details stay off the buyer copy, and the number is always masked.
	if audience == AudienceStore && p.MetodoPago == MetodoTarjeta {
		lines = append(lines, cardBlock(p)...)
	}

	lines = append(lines, "Detalle de productos:")
	if len(p.Items) == 0 {
		lines = append(lines, "Sin productos")
	} else {
		for _, item := range p.Items {
			lines = append(lines, fmt.Sprintf("- %s x%d (%s)", item.Titulo, item.Cantidad, item.Precio))
		}
	}

	lines = append(lines, "Total: "+p.Total)
	if audience == AudienceBuyer {
		lines = append(lines, "Tu pedido fue enviado correctamente. Gracias por tu compra.")
	} else {
		lines = append(lines, "Gracias por tu compra.")
	}

	return strings.Join(lines, "\n")
}

func cardBlock(p checkout.Payload) []string {
	if p.TarjetaNombre == "" && p.TarjetaNumero == "" && p.TarjetaVencimiento == "" {
		return nil
	}
	block := []string{"Tarjeta:"}
	if p.TarjetaNombre != "" {
		block = append(block, "Nombre: "+p.TarjetaNombre)
	}
	if p.TarjetaNumero != "" {
		block = append(block, "Numero: "+MaskCardNumber(p.TarjetaNumero))
	}
	if p.TarjetaVencimiento != "" {
		block = append(block, "Vencimiento: "+p.TarjetaVencimiento)
	}
	return block
}

// MaskCardNumber reduces a card number to its last four digits. Anything
// shorter masks completely.
func MaskCardNumber(raw string) string {
	var digits []rune
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			digits = append(digits, r)
		}
	}
	if len(digits) < 4 {
		return "****"
	}
	return "**** " + string(digits[len(digits)-4:])
}
