package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/charliewang306-ui/fitfuel-planner-sub001/internal/database"
	"github.com/charliewang306-ui/fitfuel-planner-sub001/internal/models"
)

type IntakeRepository struct {
	db *database.DB
}

func NewIntakeRepository(db *database.DB) *IntakeRepository {
	return &IntakeRepository{db: db}
}

// Log stores a beverage entry, assigning its id.
func (r *IntakeRepository) Log(ctx context.Context, entry *models.BeverageLog) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	return r.db.Pool.QueryRow(ctx,
		`INSERT INTO beverage_logs (log_id, user_id, day_key, beverage, amount_oz, effective_oz, was_reduced)
		 VALUES ($1::uuid, $2, $3, $4, $5, $6, $7)
		 RETURNING logged_at`,
		entry.ID, entry.UserID, entry.DayKey, entry.Beverage, entry.AmountOz, entry.EffectiveOz, entry.WasReduced,
	).Scan(&entry.LoggedAt)
}

// DayTotals sums effective hydration for one day, overall and per beverage.
func (r *IntakeRepository) DayTotals(ctx context.Context, userID int64, dayKey string) (*models.DayIntake, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT beverage, COALESCE(SUM(effective_oz), 0) FROM beverage_logs
		 WHERE user_id = $1 AND day_key = $2 GROUP BY beverage`,
		userID, dayKey,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	totals := &models.DayIntake{ByBeverage: make(map[string]float64)}
	for rows.Next() {
		var beverage string
		var oz float64
		if err := rows.Scan(&beverage, &oz); err != nil {
			return nil, err
		}
		totals.ByBeverage[beverage] = oz
		totals.EffectiveOz += oz
	}
	return totals, rows.Err()
}
