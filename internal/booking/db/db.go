package db

import (
	"context"
	"database/sql"
	"ms-experiences/internal/models"

	"github.com/uptrace/bun"
)

// DB is the only writer of slots_left and the only creator of booking rows.
type DB struct {
	Bun *bun.DB
}

// ReserveSlot runs the booking transaction: verify the slot exists, decrement
// its capacity, insert the booking row — all inside one database transaction.
//
// The decrement is a conditional update (slots_left >= quantity in the WHERE
// clause), so the capacity check and the decrement are a single atomic
// statement. Concurrent requests for the same slot serialize on the row and
// re-evaluate the condition; their combined accepted quantity can never
// exceed the capacity at the time the first one commits. If the insert fails
// afterwards, the transaction rolls back and the decrement is undone.
func (d *DB) ReserveSlot(ctx context.Context, booking *models.Booking) error {
	return d.Bun.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		exists, err := tx.NewSelect().
			Model((*models.Slot)(nil)).
			Where("id = ?", booking.SlotID).
			Where("experience_id = ?", booking.ExperienceID).
			Exists(ctx)
		if err != nil {
			return err
		}
		if !exists {
			return models.ErrInvalidSlot
		}

		res, err := tx.NewUpdate().
			Model((*models.Slot)(nil)).
			Set("slots_left = slots_left - ?", booking.Quantity).
			Where("id = ?", booking.SlotID).
			Where("slots_left >= ?", booking.Quantity).
			Exec(ctx)
		if err != nil {
			return err
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if affected == 0 {
			return models.ErrSlotsExhausted
		}

		_, err = tx.NewInsert().Model(booking).Exec(ctx)
		return err
	})
}

// GetBookingByID → fetch one booking by its ID
func (d *DB) GetBookingByID(ctx context.Context, id string) (*models.Booking, error) {
	var booking models.Booking
	err := d.Bun.NewSelect().
		Model(&booking).
		Where("id = ?", id).
		Limit(1).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

// CountBookingsForSlot → number of booking rows against a slot
func (d *DB) CountBookingsForSlot(ctx context.Context, slotID string) (int, error) {
	return d.Bun.NewSelect().
		Model((*models.Booking)(nil)).
		Where("slot_id = ?", slotID).
		Count(ctx)
}
