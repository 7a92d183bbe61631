package order

import (
	"fmt"
	"time"

	"github.com/miniflavors/checkout/internal/service/models/orderitem"
)

// Order represents a placed order as persisted by the checkout service.
// Payment amounts are opaque display strings supplied by the storefront;
// they are never parsed into numeric values.
type Order struct {
	ID         int64                 `json:"id"`
	Number     int64                 `json:"numero"`
	Nombre     string                `json:"nombre"`
	Correo     string                `json:"correo"`
	Telefono   string                `json:"telefono"`
	Direccion  string                `json:"direccion"`
	Notas      string                `json:"notas"`
	MetodoPago string                `json:"metodoPago"`
	Monto      string                `json:"monto"`
	Referencia string                `json:"referencia"`
	Total      string                `json:"total"`
	Items      []orderitem.OrderItem `json:"items"`
	CreatedAt  time.Time             `json:"createdAt"`
}

// FormatReference renders an order number as the display reference shown
// to the buyer: zero-padded to four digits, widening past 9999.
func FormatReference(number int64) string {
	return fmt.Sprintf("%04d", number)
}
