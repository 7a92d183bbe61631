package checkout

import (
	"fmt"

	"github.com/miniflavors/checkout/internal/service/models/orderitem"
)

// Payload is the checkout request body as sent by the storefront. Field
// names follow the storefront's own JSON contract. Card fields travel with
// the request for receipt rendering but are never persisted.
type Payload struct {
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

	TarjetaNombre      string `json:"tarjetaNombre"`
	TarjetaNumero      string `json:"tarjetaNumero"`
	TarjetaVencimiento string `json:"tarjetaVencimiento"`
}

// Result is the outcome of a successful checkout.
type Result struct {
	Referencia string `json:"referencia"`
}

// ErrorKind classifies a checkout failure. The service layer is the only
// place that assigns kinds; lower layers return plain errors.
type ErrorKind string

const (
	// KindConfiguration means required channel or storage configuration is
	// absent. Nothing was attempted.
	KindConfiguration ErrorKind = "configuration"
	// KindValidation means the payload was incomplete. Nothing was attempted.
	KindValidation ErrorKind = "validation"
	// KindStorage means the order could not be persisted. No notification
	// was attempted; the order is not placed.
	KindStorage ErrorKind = "storage"
	// KindNotification means the order was persisted but at least one
	// channel send failed. The order IS placed and its reference is valid.
	KindNotification ErrorKind = "notification"
)

// Error is a classified checkout failure. Detail carries provider
// diagnostics for logging; Message is safe to return to the client.
type Error struct {
	Kind    ErrorKind
	Message string
	Detail  string

	// Referencia is set for notification failures, where the order was
	// durably persisted before dispatch failed.
	Referencia string
}

func (e *Error) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s: %s: %s", e.Kind, e.Message, e.Detail)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// NewError builds a classified checkout error.
func NewError(kind ErrorKind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}
