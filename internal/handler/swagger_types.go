package handler

import (
	"crossquote/internal/domain"
)

// Swagger type definitions for API documentation.
// These types are used by swag to generate OpenAPI documentation.

// --- Request Types ---

// QuoteRequestBody documents the quote request body.
type QuoteRequestBody struct {
	Items       []CartItemBody     `json:"items"`
	Destination domain.Destination `json:"destination"`
	Preferences domain.Preferences `json:"preferences"`
	Package     *domain.Dimensions `json:"package,omitempty"`
}

// CartItemBody documents one cart line.
type CartItemBody struct {
	ID        string                   `json:"id" example:"sku-1001"`
	Quantity  int                      `json:"quantity" example:"2"`
	UnitPrice string                   `json:"unit_price" example:"49.90"`
	Currency  string                   `json:"currency" example:"EUR"`
	WeightKg  float64                  `json:"weight_kg" example:"0.35"`
	HSCode    string                   `json:"hs_code,omitempty" example:"610910"`
	Product   domain.ProductDescriptor `json:"product"`
}

// ValidateCodeRequest represents the HS code validation request body.
type ValidateCodeRequest struct {
	Code string `json:"code" binding:"required" example:"8517.12"`
}

// ShippingOptionsRequest represents the logistics options request body.
// Destination, when set, overrides package.destination.
type ShippingOptionsRequest struct {
	Package     domain.ShippingPackage `json:"package"`
	Destination string                 `json:"destination" example:"DE"`
	Preferences domain.Preferences     `json:"preferences"`
}
