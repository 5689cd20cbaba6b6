package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderItem is a line item snapshotted at order-creation time. It stays
// unchanged even if the catalog entry is later edited or removed.
type OrderItem struct {
	ID         int64
	ProductRef string
	Name       string
	Image      string
	Qty        int
	UnitPrice  decimal.Decimal
}

// ShippingAddress is captured once at checkout.
type ShippingAddress struct {
	Address    string `json:"address"`
	City       string `json:"city"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
}

// Order describes a customer purchase with its price breakdown and the two
// one-way status flags. TotalPrice always equals
// ItemsPrice + ShippingPrice + TaxPrice, computed at creation.
type Order struct {
	ID              int64
	UserID          int64
	Items           []OrderItem
	ShippingAddress ShippingAddress
	PaymentMethod   string
	ItemsPrice      decimal.Decimal
	ShippingPrice   decimal.Decimal
	TaxPrice        decimal.Decimal
	TotalPrice      decimal.Decimal
	IsPaid          bool
	PaidAt          *time.Time
	TransactionRef  string
	IsDelivered     bool
	DeliveredAt     *time.Time
	CreatedAt       time.Time
}
