package dto

import "time"

// OrderItemRequest is one line of a checkout payload.
type OrderItemRequest struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Image     string `json:"image"`
	Qty       int    `json:"qty"`
	UnitPrice string `json:"unit_price"`
}

// ShippingAddressPayload travels in both requests and responses.
type ShippingAddressPayload struct {
	Address    string `json:"address"`
	City       string `json:"city"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
}

// CreateOrderRequest describes a checkout submission. The items and
// order totals are recomputed server-side.
type CreateOrderRequest struct {
	Items           []OrderItemRequest     `json:"items"`
	ShippingAddress ShippingAddressPayload `json:"shipping_address"`
	PaymentMethod   string                 `json:"payment_method"`
	ShippingPrice   string                 `json:"shipping_price"`
	TaxPrice        string                 `json:"tax_price"`
}

// OrderItemResponse represents a stored order line.
type OrderItemResponse struct {
	ID        int64  `json:"id"`
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Image     string `json:"image"`
	Qty       int    `json:"qty"`
	UnitPrice string `json:"unit_price"`
}

// OrderResponse represents an order with its payment and delivery state.
type OrderResponse struct {
	ID              int64                  `json:"id"`
	UserID          int64                  `json:"user_id"`
	Items           []OrderItemResponse    `json:"items,omitempty"`
	ShippingAddress ShippingAddressPayload `json:"shipping_address"`
	PaymentMethod   string                 `json:"payment_method"`
	ItemsPrice      string                 `json:"items_price"`
	ShippingPrice   string                 `json:"shipping_price"`
	TaxPrice        string                 `json:"tax_price"`
	TotalPrice      string                 `json:"total_price"`
	IsPaid          bool                   `json:"is_paid"`
	PaidAt          *time.Time             `json:"paid_at,omitempty"`
	TransactionRef  string                 `json:"transaction_ref,omitempty"`
	IsDelivered     bool                   `json:"is_delivered"`
	DeliveredAt     *time.Time             `json:"delivered_at,omitempty"`
	CreatedAt       time.Time              `json:"created_at"`
}

// OrderListResponse is a paged admin listing.
type OrderListResponse struct {
	Orders []OrderResponse `json:"orders"`
	Total  int64           `json:"total"`
}
