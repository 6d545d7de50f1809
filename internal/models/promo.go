package models

import "github.com/uptrace/bun"

const (
	DiscountPercent = "percent"
	DiscountFlat    = "flat"
)

// PromoCode is a discount token. Codes are stored uppercase; lookups
// normalize first. Read-only from the booking flow's perspective.
type PromoCode struct {
	bun.BaseModel `bun:"table:promocodes"`

	Code          string  `bun:"code,pk" json:"code"`
	DiscountType  string  `bun:"discount_type,notnull" json:"discount_type"`
	DiscountValue float64 `bun:"discount_value,notnull" json:"discount_value"`
	IsActive      bool    `bun:"is_active,notnull" json:"is_active"`
}

// DiscountAmount computes the discount this code grants against a subtotal,
// capped at the subtotal. The service never applies it to a booking total;
// discount application stays with the caller.
func (p PromoCode) DiscountAmount(subtotal float64) float64 {
	if subtotal <= 0 {
		return 0
	}
	var amount float64
	switch p.DiscountType {
	case DiscountPercent:
		amount = subtotal * p.DiscountValue / 100
	case DiscountFlat:
		amount = p.DiscountValue
	default:
		return 0
	}
	if amount > subtotal {
		amount = subtotal
	}
	return amount
}

// PromoValidation reports discount terms or the rejection reason.
type PromoValidation struct {
	Valid         bool    `json:"valid"`
	Code          string  `json:"code,omitempty"`
	DiscountType  string  `json:"discount_type,omitempty"`
	DiscountValue float64 `json:"discount_value,omitempty"`
	Message       string  `json:"message,omitempty"`
}
