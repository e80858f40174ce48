package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"vehicle-alert-service/internal/models"
)

// GetConsumableOverview computes the user's nearest upcoming replacement
// date across all tracked consumables. A user without a consumable record or
// without any upcoming date gets an overview with an empty NextDueDate.
func (d *DB) GetConsumableOverview(ctx context.Context, userID string) (models.ConsumableOverview, error) {
	query := `
        SELECT engine_oil_due_date, battery_due_date, coolant_due_date,
               transmission_oil_due_date, brake_oil_due_date, aircon_filter_due_date
        FROM consumables
        WHERE user_id = $1`

	var dates [6]*string
	err := d.Pool.QueryRow(ctx, query, userID).Scan(
		&dates[0], &dates[1], &dates[2], &dates[3], &dates[4], &dates[5])
	if err != nil {
		if err == pgx.ErrNoRows {
			return models.ConsumableOverview{UserID: userID}, nil
		}
		return models.ConsumableOverview{}, fmt.Errorf("failed to get consumable overview for user_id %s: %w", userID, err)
	}

	// YYYYMMDD strings order lexicographically, so min works directly.
	today := time.Now().Format("20060102")
	next := ""
	for _, date := range dates {
		if date == nil || *date < today {
			continue
		}
		if next == "" || *date < next {
			next = *date
		}
	}
	return models.ConsumableOverview{UserID: userID, NextDueDate: next}, nil
}
