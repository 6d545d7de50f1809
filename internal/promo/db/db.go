package db

import (
	"context"
	"database/sql"
	"errors"
	"ms-experiences/internal/models"

	"github.com/uptrace/bun"
)

// DB owns the promocodes relation. Read-only from the booking flow.
type DB struct {
	Bun *bun.DB
}

// GetByCode → fetch one promo code; callers pass the already-normalized
// (uppercase) code
func (d *DB) GetByCode(ctx context.Context, code string) (*models.PromoCode, error) {
	var promo models.PromoCode
	err := d.Bun.NewSelect().
		Model(&promo).
		Where("code = ?", code).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, err
	}
	return &promo, nil
}
