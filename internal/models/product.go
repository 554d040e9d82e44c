package models

import (
	"time"

	"github.com/aaravmahajanofficial/storefront/internal/money"
)

type ProductStatus string

const (
	ProductStatusActive   ProductStatus = "active"
	ProductStatusDraft    ProductStatus = "draft"
	ProductStatusArchived ProductStatus = "archived"
)

// Product is the read-only catalog shape consumed by the cart.
type Product struct {
	ID        int64         `json:"id"`
	Name      string        `json:"name"`
	Slug      string        `json:"slug"`
	Price     money.Money   `json:"price"`
	Image     string        `json:"image"`
	Sizes     []string      `json:"sizes,omitempty"`
	Colors    []string      `json:"colors,omitempty"`
	Status    ProductStatus `json:"status"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

func (p *Product) Purchasable() bool {
	return p.Status == ProductStatusActive
}

// OffersVariant reports whether the requested size/color are valid for the
// product. Products without declared options accept an empty selection only.
func (p *Product) OffersVariant(v Variant) bool {
	return offers(p.Sizes, v.Size) && offers(p.Colors, v.Color)
}

func offers(options []string, choice string) bool {
	if choice == "" {
		return true
	}

	for _, o := range options {
		if o == choice {
			return true
		}
	}

	return false
}
