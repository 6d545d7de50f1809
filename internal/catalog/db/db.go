package db

import (
	"context"
	"database/sql"
	"errors"
	"ms-experiences/internal/models"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// DB owns the experiences and slots relations. It is the single source of
// truth for slots_left; the only writer of that column is the booking
// transaction in the booking store.
type DB struct {
	Bun *bun.DB
}

// ---------------- EXPERIENCES ----------------

// ListExperiences → all experiences, stable order by id
func (d *DB) ListExperiences(ctx context.Context) ([]models.Experience, error) {
	experiences := make([]models.Experience, 0)
	err := d.Bun.NewSelect().
		Model(&experiences).
		Order("id ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return experiences, nil
}

// GetExperienceByID → fetch one experience by its ID
func (d *DB) GetExperienceByID(ctx context.Context, id int64) (*models.Experience, error) {
	var experience models.Experience
	err := d.Bun.NewSelect().
		Model(&experience).
		Where("id = ?", id).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, err
	}
	return &experience, nil
}

// ---------------- SLOTS ----------------

// EnsureSlotWindow materializes the rolling availability window for an
// experience: one slot per day per schedule time, starting at capacity.
// Rows that already exist are left untouched, so a decremented slot never
// regains capacity on the next read.
func (d *DB) EnsureSlotWindow(ctx context.Context, experienceID int64, from string, days, capacity int) error {
	dates, err := windowDates(from, days)
	if err != nil {
		return err
	}

	slots := make([]models.Slot, 0, days*len(models.SlotTimes))
	for _, date := range dates {
		for i, label := range models.SlotTimes {
			slots = append(slots, models.Slot{
				ID:           uuid.NewString(),
				ExperienceID: experienceID,
				Date:         date,
				Time:         label,
				TimeIndex:    i,
				SlotsLeft:    capacity,
			})
		}
	}

	_, err = d.Bun.NewInsert().
		Model(&slots).
		On("CONFLICT (experience_id, date, time) DO NOTHING").
		Exec(ctx)
	return err
}

// SlotsInWindow → the experience's slots within [from, from+days), ordered
// by date then by the fixed schedule position
func (d *DB) SlotsInWindow(ctx context.Context, experienceID int64, from string, days int) ([]models.Slot, error) {
	dates, err := windowDates(from, days)
	if err != nil {
		return nil, err
	}
	end := dates[len(dates)-1]

	slots := make([]models.Slot, 0)
	err = d.Bun.NewSelect().
		Model(&slots).
		Where("experience_id = ?", experienceID).
		Where("date >= ?", from).
		Where("date <= ?", end).
		Order("date ASC", "time_index ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return slots, nil
}

// windowDates expands a yyyy-mm-dd start date into the dates of the window.
func windowDates(from string, days int) ([]string, error) {
	start, err := time.Parse("2006-01-02", from)
	if err != nil {
		return nil, err
	}
	if days < 1 {
		days = 1
	}
	dates := make([]string, days)
	for i := range dates {
		dates[i] = start.AddDate(0, 0, i).Format("2006-01-02")
	}
	return dates, nil
}

// GetSlotByID → fetch one slot by its ID
func (d *DB) GetSlotByID(ctx context.Context, id string) (*models.Slot, error) {
	var slot models.Slot
	err := d.Bun.NewSelect().
		Model(&slot).
		Where("id = ?", id).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrInvalidSlot
		}
		return nil, err
	}
	return &slot, nil
}
