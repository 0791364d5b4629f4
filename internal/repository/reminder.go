package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/charliewang306-ui/fitfuel-planner-sub001/internal/database"
	"github.com/charliewang306-ui/fitfuel-planner-sub001/internal/models"
)

type ReminderRepository struct {
	db *database.DB
}

func NewReminderRepository(db *database.DB) *ReminderRepository {
	return &ReminderRepository{db: db}
}

const reminderColumns = `reminder_id::text, user_id, day_key, type, meal_type, scheduled_time, scheduled_at,
	status, delayed_until, completed_at, notified_at, last_message_id, updated_at, created_at`

func scanReminder(row pgx.Row) (*models.Reminder, error) {
	r := &models.Reminder{}
	err := row.Scan(&r.ID, &r.UserID, &r.DayKey, &r.Type, &r.MealType, &r.ScheduledTime, &r.ScheduledAt,
		&r.Status, &r.DelayedUntil, &r.CompletedAt, &r.NotifiedAt, &r.LastMessageID, &r.UpdatedAt, &r.CreatedAt)
	if err != nil {
		return nil, err
	}
	return r, nil
}

func scanReminders(rows pgx.Rows) ([]*models.Reminder, error) {
	defer rows.Close()

	var reminders []*models.Reminder
	for rows.Next() {
		r, err := scanReminder(rows)
		if err != nil {
			return nil, err
		}
		reminders = append(reminders, r)
	}
	return reminders, rows.Err()
}

func reminderKey(typ models.ReminderType, meal models.MealType, clock string) string {
	return string(typ) + "|" + string(meal) + "|" + clock
}

// ReplaceDay materializes a freshly generated plan for one day. Untouched
// pending rows are replaced; rows the user already acted on are kept and
// their slot is not re-inserted, so regenerating the same day is idempotent.
func (r *ReminderRepository) ReplaceDay(ctx context.Context, userID int64, dayKey string, plan []models.ScheduledReminder) ([]*models.Reminder, error) {
	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx,
		`DELETE FROM reminders WHERE user_id = $1 AND day_key = $2 AND status = 'pending' AND notified_at IS NULL`,
		userID, dayKey,
	)
	if err != nil {
		return nil, err
	}

	rows, err := tx.Query(ctx,
		`SELECT type, meal_type, scheduled_time FROM reminders WHERE user_id = $1 AND day_key = $2`,
		userID, dayKey,
	)
	if err != nil {
		return nil, err
	}
	kept := make(map[string]bool)
	for rows.Next() {
		var typ models.ReminderType
		var meal models.MealType
		var clock string
		if err := rows.Scan(&typ, &meal, &clock); err != nil {
			rows.Close()
			return nil, err
		}
		kept[reminderKey(typ, meal, clock)] = true
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	batch := &pgx.Batch{}
	for _, s := range plan {
		if kept[reminderKey(s.Type, s.MealType, s.ScheduledTime)] {
			continue
		}
		batch.Queue(
			`INSERT INTO reminders (reminder_id, user_id, day_key, type, meal_type, scheduled_time, scheduled_at, status)
			 VALUES ($1::uuid, $2, $3, $4, $5, $6, $7, 'pending')`,
			uuid.NewString(), userID, dayKey, s.Type, s.MealType, s.ScheduledTime, s.At,
		)
	}
	if batch.Len() > 0 {
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return nil, err
		}
	}

	dayRows, err := tx.Query(ctx,
		`SELECT `+reminderColumns+` FROM reminders WHERE user_id = $1 AND day_key = $2 ORDER BY scheduled_at ASC`,
		userID, dayKey,
	)
	if err != nil {
		return nil, err
	}
	reminders, err := scanReminders(dayRows)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return reminders, nil
}

// GetByDay lists one user's reminders for a day key, earliest first.
func (r *ReminderRepository) GetByDay(ctx context.Context, userID int64, dayKey string) ([]*models.Reminder, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT `+reminderColumns+` FROM reminders WHERE user_id = $1 AND day_key = $2 ORDER BY scheduled_at ASC`,
		userID, dayKey,
	)
	if err != nil {
		return nil, err
	}
	return scanReminders(rows)
}

func (r *ReminderRepository) GetByID(ctx context.Context, reminderID string, userID int64) (*models.Reminder, error) {
	return scanReminder(r.db.Pool.QueryRow(ctx,
		`SELECT `+reminderColumns+` FROM reminders WHERE reminder_id = $1::uuid AND user_id = $2`,
		reminderID, userID,
	))
}

// GetOpen returns pending, delayed and postponed reminders whose target is
// at or before until.
func (r *ReminderRepository) GetOpen(ctx context.Context, until time.Time) ([]*models.Reminder, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT `+reminderColumns+` FROM reminders
		 WHERE status IN ('pending', 'delayed', 'postponed')
		   AND COALESCE(delayed_until, scheduled_at) <= $1
		 ORDER BY COALESCE(delayed_until, scheduled_at) ASC`,
		until,
	)
	if err != nil {
		return nil, err
	}
	return scanReminders(rows)
}

// UpdateStatus writes the lifecycle fields of one reminder. Last write wins.
func (r *ReminderRepository) UpdateStatus(ctx context.Context, reminder *models.Reminder) error {
	_, err := r.db.Pool.Exec(ctx,
		`UPDATE reminders SET status = $1, delayed_until = $2, completed_at = $3, updated_at = $4
		 WHERE reminder_id = $5::uuid AND user_id = $6`,
		reminder.Status, reminder.DelayedUntil, reminder.CompletedAt, reminder.UpdatedAt,
		reminder.ID, reminder.UserID,
	)
	return err
}

// SetNotified records a delivered notification and its message id.
func (r *ReminderRepository) SetNotified(ctx context.Context, reminderID string, at time.Time, messageID *int) error {
	_, err := r.db.Pool.Exec(ctx,
		`UPDATE reminders SET notified_at = $1, last_message_id = $2 WHERE reminder_id = $3::uuid`,
		at, messageID, reminderID,
	)
	return err
}
