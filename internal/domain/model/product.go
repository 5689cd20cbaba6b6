package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Review is a customer opinion attached to a product.
// At most one review per user per product.
type Review struct {
	UserID    int64
	UserName  string
	Rating    int
	Comment   string
	CreatedAt time.Time
}

// Product is a catalog entry.
type Product struct {
	ID           string
	Name         string
	Image        string
	Brand        string
	Category     string
	Description  string
	Price        decimal.Decimal
	CountInStock int
	Rating       float64
	NumReviews   int
	Reviews      []Review
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ProductPage is one page of catalog listing results.
type ProductPage struct {
	Products []Product
	Page     int
	Pages    int
	Total    int64
}
