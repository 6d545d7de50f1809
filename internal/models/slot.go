package models

import "github.com/uptrace/bun"

// SlotTimes is the fixed daily schedule. Slot times are labels from this set,
// not timestamps; ordering follows the slice, not the clock (lexicographic
// ordering would put "1:00 pm" before "11:00 am").
var SlotTimes = []string{"07:00 am", "09:00 am", "11:00 am", "1:00 pm"}

// SlotTimeIndex returns the schedule position of a time label, or -1 if the
// label is not part of the fixed schedule.
func SlotTimeIndex(label string) int {
	for i, t := range SlotTimes {
		if t == label {
			return i
		}
	}
	return -1
}

// Slot is one date+time instance of an experience with finite capacity.
// SlotsLeft only ever decreases, and only through the booking transaction.
type Slot struct {
	bun.BaseModel `bun:"table:slots"`

	ID           string `bun:"id,pk" json:"id"`
	ExperienceID int64  `bun:"experience_id,notnull" json:"-"`
	Date         string `bun:"date,notnull" json:"date"` // yyyy-mm-dd
	Time         string `bun:"time,notnull" json:"time"`
	TimeIndex    int    `bun:"time_index,notnull" json:"-"`
	SlotsLeft    int    `bun:"slots_left,notnull" json:"slots_left"`
}
