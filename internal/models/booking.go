package models

import (
	"time"

	"github.com/uptrace/bun"
)

// BookingRequest is the checkout payload. Pricing fields arrive from the
// caller but are recomputed server-side before acceptance.
type BookingRequest struct {
	ExperienceID int64  `json:"experienceId"`
	SlotID       string `json:"slotId"`
	FullName     string `json:"fullName"`
	Email        string `json:"email"`
	Quantity     int    `json:"quantity"`
	PromoCode    string `json:"promoCode,omitempty"`
	Price        int64  `json:"price"`
	Subtotal     int64  `json:"subtotal"`
	Taxes        int64  `json:"taxes"`
	Total        int64  `json:"total"`
}

// Booking is an immutable audit row. Created exactly once per accepted
// request, never updated or deleted.
type Booking struct {
	bun.BaseModel `bun:"table:bookings"`

	ID           string    `bun:"id,pk" json:"id"`
	ExperienceID int64     `bun:"experience_id,notnull" json:"experience_id"`
	SlotID       string    `bun:"slot_id,notnull" json:"slot_id"`
	FullName     string    `bun:"full_name,notnull" json:"full_name"`
	Email        string    `bun:"email,notnull" json:"email"`
	Quantity     int       `bun:"quantity,notnull" json:"quantity"`
	PromoCode    string    `bun:"promo_code,nullzero" json:"promo_code,omitempty"`
	Price        int64     `bun:"price,notnull" json:"price"`
	Subtotal     int64     `bun:"subtotal,notnull" json:"subtotal"`
	Taxes        int64     `bun:"taxes,notnull" json:"taxes"`
	Total        int64     `bun:"total,notnull" json:"total"`
	CreatedAt    time.Time `bun:"created_at,notnull" json:"created_at"`
}

// BookingResponse is returned to the confirmation screen. QR carries a
// base64-encoded PNG of the booking reference.
type BookingResponse struct {
	BookingID string    `json:"bookingId"`
	CreatedAt time.Time `json:"createdAt"`
	QR        string    `json:"qr,omitempty"`
}
