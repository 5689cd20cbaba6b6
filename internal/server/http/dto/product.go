package dto

import "time"

// ProductRequest describes the editable fields of a catalog entry.
// Prices travel as strings to keep cents exact.
type ProductRequest struct {
	Name         string `json:"name"`
	Image        string `json:"image"`
	Brand        string `json:"brand"`
	Category     string `json:"category"`
	Description  string `json:"description"`
	Price        string `json:"price"`
	CountInStock int    `json:"count_in_stock"`
}

// ReviewRequest describes a review submission.
type ReviewRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

// ReviewResponse represents a stored review.
type ReviewResponse struct {
	UserID    int64     `json:"user_id"`
	UserName  string    `json:"user_name"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
}

// ProductResponse represents a catalog entry.
type ProductResponse struct {
	ID           string           `json:"id"`
	Name         string           `json:"name"`
	Image        string           `json:"image"`
	Brand        string           `json:"brand"`
	Category     string           `json:"category"`
	Description  string           `json:"description"`
	Price        string           `json:"price"`
	CountInStock int              `json:"count_in_stock"`
	Rating       float64          `json:"rating"`
	NumReviews   int              `json:"num_reviews"`
	Reviews      []ReviewResponse `json:"reviews,omitempty"`
	CreatedAt    time.Time        `json:"created_at"`
}

// ProductPageResponse is one page of catalog results.
type ProductPageResponse struct {
	Products []ProductResponse `json:"products"`
	Page     int               `json:"page"`
	Pages    int               `json:"pages"`
	Total    int64             `json:"total"`
}
