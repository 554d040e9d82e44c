package models

import (
	"strings"
	"time"

	"github.com/aaravmahajanofficial/storefront/internal/money"
)

type DiscountKind string

const (
	DiscountPercentage DiscountKind = "percentage"
	DiscountFixed      DiscountKind = "fixed"
)

type DiscountCode struct {
	ID                      int64        `json:"id"`
	Code                    string       `json:"code"`
	Kind                    DiscountKind `json:"type"`
	Value                   int64        `json:"value"` // percent for percentage, minor units for fixed
	Currency                string       `json:"currency"`
	MinPurchase             int64        `json:"min_purchase_amount"`
	ValidFrom               time.Time    `json:"valid_from"`
	ValidUntil              time.Time    `json:"valid_until"`
	UsageLimit              int64        `json:"usage_limit"`
	UsageCount              int64        `json:"usage_count"`
	ApplicableProductIDs    []int64      `json:"applicable_product_ids,omitempty"`
	ApplicableCollectionIDs []int64      `json:"applicable_collection_ids,omitempty"`
	Active                  bool         `json:"active"`
	CreatedAt               time.Time    `json:"created_at"`
	UpdatedAt               time.Time    `json:"updated_at"`
}

// ActiveAt reports whether now falls in [ValidFrom, ValidUntil).
func (d *DiscountCode) ActiveAt(now time.Time) bool {
	return !now.Before(d.ValidFrom) && now.Before(d.ValidUntil)
}

func (d *DiscountCode) Exhausted() bool {
	return d.UsageLimit > 0 && d.UsageCount >= d.UsageLimit
}

func (d *DiscountCode) Restricted() bool {
	return len(d.ApplicableProductIDs) > 0 || len(d.ApplicableCollectionIDs) > 0
}

func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// DiscountDecision is the outcome of validating a code against a cart
// snapshot. It never implies a redemption has been recorded.
type DiscountDecision struct {
	Code           string       `json:"code"`
	Kind           DiscountKind `json:"type"`
	DiscountAmount money.Money  `json:"discount_amount"`
	Display        string       `json:"discount_display"`
}

type CreateDiscountRequest struct {
	Code                    string       `json:"code" validate:"required,min=3,max=64,alphanum"`
	Kind                    DiscountKind `json:"type" validate:"required,oneof=percentage fixed"`
	Value                   string       `json:"value" validate:"required"`
	MinPurchase             string       `json:"min_purchase_amount,omitempty"`
	ValidFrom               time.Time    `json:"valid_from" validate:"required"`
	ValidUntil              time.Time    `json:"valid_until" validate:"required,gtfield=ValidFrom"`
	UsageLimit              int64        `json:"usage_limit" validate:"gte=0"`
	ApplicableProductIDs    []int64      `json:"applicable_product_ids,omitempty" validate:"omitempty,dive,gt=0"`
	ApplicableCollectionIDs []int64      `json:"applicable_collection_ids,omitempty" validate:"omitempty,dive,gt=0"`
	Active                  *bool        `json:"active,omitempty"`
}

type VerifyDiscountRequest struct {
	Code string `json:"code" validate:"required,max=64"`
}
