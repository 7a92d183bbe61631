package orderitem

// OrderItem represents one line of an order. Quantity and price are kept
// exactly as the storefront sent them; the price is a display string.
type OrderItem struct {
	ID       int64  `json:"id,omitempty"`
	OrderID  int64  `json:"orderId,omitempty"`
	Titulo   string `json:"titulo"`
	Cantidad int    `json:"cantidad"`
	Precio   string `json:"precio"`
}
