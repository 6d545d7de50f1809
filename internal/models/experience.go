package models

import "github.com/uptrace/bun"

// Experience is a bookable activity offering. Reference data, seeded out of
// band and never mutated by the booking flow.
type Experience struct {
	bun.BaseModel `bun:"table:experiences"`

	ID          int64  `bun:"id,pk,autoincrement" json:"id"`
	Title       string `bun:"title,notnull" json:"title"`
	Location    string `bun:"location,notnull" json:"location"`
	Description string `bun:"description,nullzero" json:"description"`
	Price       int64  `bun:"price,notnull" json:"price"`
	Image       string `bun:"image,nullzero" json:"image"`
	AltText     string `bun:"alt_text,nullzero" json:"alt_text"`
}

// ExperienceDetail is the detail-view payload: the experience fields spread
// at the top level plus its slots for the availability window.
type ExperienceDetail struct {
	Experience
	Slots []Slot `json:"slots"`
}
