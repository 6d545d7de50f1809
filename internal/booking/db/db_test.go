package db_test

import (
	"context"
	"database/sql"
	"ms-experiences/internal/booking/db"
	"ms-experiences/internal/models"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	_ "github.com/uptrace/bun/driver/sqliteshim"
)

func setupTestDB(t *testing.T) (*db.DB, *bun.DB) {
	sqldb, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to connect to in-memory database: %v", err)
	}
	sqldb.SetMaxOpenConns(1)

	bunDB := bun.NewDB(sqldb, sqlitedialect.New())

	for _, model := range []interface{}{(*models.Slot)(nil), (*models.Booking)(nil)} {
		_, err = bunDB.NewCreateTable().Model(model).Exec(context.Background())
		if err != nil {
			t.Fatalf("Failed to create table for %T: %v", model, err)
		}
	}

	return &db.DB{Bun: bunDB}, bunDB
}

func insertSlot(t *testing.T, bunDB *bun.DB, slotsLeft int) models.Slot {
	slot := models.Slot{
		ID:           uuid.NewString(),
		ExperienceID: 1,
		Date:         "2025-09-01",
		Time:         "07:00 am",
		TimeIndex:    0,
		SlotsLeft:    slotsLeft,
	}
	_, err := bunDB.NewInsert().Model(&slot).Exec(context.Background())
	require.NoError(t, err)
	return slot
}

func slotsLeft(t *testing.T, bunDB *bun.DB, slotID string) int {
	var slot models.Slot
	err := bunDB.NewSelect().Model(&slot).Where("id = ?", slotID).Scan(context.Background())
	require.NoError(t, err)
	return slot.SlotsLeft
}

func testBooking(slotID string, quantity int) models.Booking {
	return models.Booking{
		ID:           uuid.NewString(),
		ExperienceID: 1,
		SlotID:       slotID,
		FullName:     "Asha Rao",
		Email:        "asha@example.com",
		Quantity:     quantity,
		Price:        999,
		Subtotal:     int64(quantity) * 999,
		Taxes:        60,
		Total:        int64(quantity)*999 + 60,
		CreatedAt:    time.Now().UTC(),
	}
}

func TestReserveSlotDecrementsAndInserts(t *testing.T) {
	store, bunDB := setupTestDB(t)
	defer bunDB.Close()

	slot := insertSlot(t, bunDB, 5)

	booking := testBooking(slot.ID, 2)
	err := store.ReserveSlot(context.Background(), &booking)
	require.NoError(t, err)

	assert.Equal(t, 3, slotsLeft(t, bunDB, slot.ID))

	stored, err := store.GetBookingByID(context.Background(), booking.ID)
	require.NoError(t, err)
	assert.Equal(t, slot.ID, stored.SlotID)
	assert.Equal(t, 2, stored.Quantity)
}

func TestReserveSlotInvalidSlot(t *testing.T) {
	store, bunDB := setupTestDB(t)
	defer bunDB.Close()

	insertSlot(t, bunDB, 5)

	booking := testBooking("no-such-slot", 1)
	err := store.ReserveSlot(context.Background(), &booking)
	assert.ErrorIs(t, err, models.ErrInvalidSlot)

	count, err := store.CountBookingsForSlot(context.Background(), "no-such-slot")
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestReserveSlotWrongExperience(t *testing.T) {
	store, bunDB := setupTestDB(t)
	defer bunDB.Close()

	slot := insertSlot(t, bunDB, 5)

	booking := testBooking(slot.ID, 1)
	booking.ExperienceID = 99
	err := store.ReserveSlot(context.Background(), &booking)
	assert.ErrorIs(t, err, models.ErrInvalidSlot)
	assert.Equal(t, 5, slotsLeft(t, bunDB, slot.ID))
}

func TestReserveSlotInsufficientCapacity(t *testing.T) {
	store, bunDB := setupTestDB(t)
	defer bunDB.Close()

	slot := insertSlot(t, bunDB, 2)

	booking := testBooking(slot.ID, 3)
	err := store.ReserveSlot(context.Background(), &booking)
	assert.ErrorIs(t, err, models.ErrSlotsExhausted)

	// no partial state: capacity untouched, no booking row
	assert.Equal(t, 2, slotsLeft(t, bunDB, slot.ID))
	count, err := store.CountBookingsForSlot(context.Background(), slot.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

// Two requests for 3 against a slot with capacity 5: the first wins, the
// second sees the decremented capacity and fails, leaving exactly 2.
func TestReserveSlotExhaustionScenario(t *testing.T) {
	store, bunDB := setupTestDB(t)
	defer bunDB.Close()

	slot := insertSlot(t, bunDB, 5)

	first := testBooking(slot.ID, 3)
	require.NoError(t, store.ReserveSlot(context.Background(), &first))

	second := testBooking(slot.ID, 3)
	err := store.ReserveSlot(context.Background(), &second)
	assert.ErrorIs(t, err, models.ErrSlotsExhausted)

	assert.Equal(t, 2, slotsLeft(t, bunDB, slot.ID))
	count, err := store.CountBookingsForSlot(context.Background(), slot.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

// A failing insert must roll the decrement back.
func TestReserveSlotRollsBackOnInsertFailure(t *testing.T) {
	store, bunDB := setupTestDB(t)
	defer bunDB.Close()

	slot := insertSlot(t, bunDB, 5)

	first := testBooking(slot.ID, 1)
	require.NoError(t, store.ReserveSlot(context.Background(), &first))
	assert.Equal(t, 4, slotsLeft(t, bunDB, slot.ID))

	// reusing the booking ID violates the primary key inside the transaction
	second := testBooking(slot.ID, 1)
	second.ID = first.ID
	err := store.ReserveSlot(context.Background(), &second)
	assert.Error(t, err)

	assert.Equal(t, 4, slotsLeft(t, bunDB, slot.ID))
	count, err := store.CountBookingsForSlot(context.Background(), slot.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
