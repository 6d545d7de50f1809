package db_test

import (
	"context"
	"database/sql"
	"ms-experiences/internal/catalog/db"
	"ms-experiences/internal/models"
	"testing"

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

	for _, model := range []interface{}{(*models.Experience)(nil), (*models.Slot)(nil)} {
		_, err = bunDB.NewCreateTable().Model(model).Exec(context.Background())
		if err != nil {
			t.Fatalf("Failed to create table for %T: %v", model, err)
		}
	}

	// the slot window upsert needs the composite uniqueness the schema has
	_, err = bunDB.NewCreateIndex().
		Model((*models.Slot)(nil)).
		Index("idx_slots_experience_date_time").
		Unique().
		Column("experience_id", "date", "time").
		Exec(context.Background())
	require.NoError(t, err)

	return &db.DB{Bun: bunDB}, bunDB
}

func insertExperience(t *testing.T, bunDB *bun.DB, id int64, title string, price int64) {
	experience := models.Experience{
		ID:       id,
		Title:    title,
		Location: "Udupi",
		Price:    price,
	}
	_, err := bunDB.NewInsert().Model(&experience).Exec(context.Background())
	require.NoError(t, err)
}

func TestListExperiencesOrderedByID(t *testing.T) {
	store, bunDB := setupTestDB(t)
	defer bunDB.Close()

	insertExperience(t, bunDB, 2, "Coffee Trail", 1299)
	insertExperience(t, bunDB, 1, "Kayaking", 999)

	experiences, err := store.ListExperiences(context.Background())
	require.NoError(t, err)
	require.Len(t, experiences, 2)
	assert.Equal(t, int64(1), experiences[0].ID)
	assert.Equal(t, int64(2), experiences[1].ID)
}

func TestGetExperienceByIDNotFound(t *testing.T) {
	store, bunDB := setupTestDB(t)
	defer bunDB.Close()

	_, err := store.GetExperienceByID(context.Background(), 42)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestEnsureSlotWindowCreatesWindow(t *testing.T) {
	store, bunDB := setupTestDB(t)
	defer bunDB.Close()

	insertExperience(t, bunDB, 1, "Kayaking", 999)

	err := store.EnsureSlotWindow(context.Background(), 1, "2025-09-01", 5, 5)
	require.NoError(t, err)

	slots, err := store.SlotsInWindow(context.Background(), 1, "2025-09-01", 5)
	require.NoError(t, err)
	require.Len(t, slots, 5*len(models.SlotTimes))

	// ordered by date, then by schedule position
	assert.Equal(t, "2025-09-01", slots[0].Date)
	assert.Equal(t, "07:00 am", slots[0].Time)
	assert.Equal(t, "1:00 pm", slots[3].Time)
	assert.Equal(t, "2025-09-02", slots[4].Date)
	assert.Equal(t, "2025-09-05", slots[len(slots)-1].Date)

	for _, slot := range slots {
		assert.Equal(t, 5, slot.SlotsLeft)
	}
}

// A second materialization must not touch existing rows: a decremented slot
// keeps its remaining capacity.
func TestEnsureSlotWindowNeverRegeneratesCapacity(t *testing.T) {
	store, bunDB := setupTestDB(t)
	defer bunDB.Close()

	insertExperience(t, bunDB, 1, "Kayaking", 999)
	require.NoError(t, store.EnsureSlotWindow(context.Background(), 1, "2025-09-01", 5, 5))

	slots, err := store.SlotsInWindow(context.Background(), 1, "2025-09-01", 5)
	require.NoError(t, err)
	booked := slots[0]

	_, err = bunDB.NewUpdate().
		Model((*models.Slot)(nil)).
		Set("slots_left = ?", 2).
		Where("id = ?", booked.ID).
		Exec(context.Background())
	require.NoError(t, err)

	require.NoError(t, store.EnsureSlotWindow(context.Background(), 1, "2025-09-01", 5, 5))

	after, err := store.SlotsInWindow(context.Background(), 1, "2025-09-01", 5)
	require.NoError(t, err)
	require.Len(t, after, len(slots))
	assert.Equal(t, booked.ID, after[0].ID)
	assert.Equal(t, 2, after[0].SlotsLeft)
}

func TestSlotsInWindowExcludesOtherDatesAndExperiences(t *testing.T) {
	store, bunDB := setupTestDB(t)
	defer bunDB.Close()

	insertExperience(t, bunDB, 1, "Kayaking", 999)
	insertExperience(t, bunDB, 2, "Coffee Trail", 1299)

	require.NoError(t, store.EnsureSlotWindow(context.Background(), 1, "2025-09-01", 5, 5))
	require.NoError(t, store.EnsureSlotWindow(context.Background(), 2, "2025-09-01", 5, 5))

	// a slot just past the window
	outside := models.Slot{
		ID:           "outside",
		ExperienceID: 1,
		Date:         "2025-09-06",
		Time:         "07:00 am",
		TimeIndex:    0,
		SlotsLeft:    5,
	}
	_, err := bunDB.NewInsert().Model(&outside).Exec(context.Background())
	require.NoError(t, err)

	slots, err := store.SlotsInWindow(context.Background(), 1, "2025-09-01", 5)
	require.NoError(t, err)
	assert.Len(t, slots, 5*len(models.SlotTimes))
	for _, slot := range slots {
		assert.NotEqual(t, "outside", slot.ID)
	}
}
