package repository

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/charliewang306-ui/fitfuel-planner-sub001/internal/database"
	"github.com/charliewang306-ui/fitfuel-planner-sub001/internal/models"
)

type ScheduleConfigRepository struct {
	db          *database.DB
	defaultZone string
}

// NewScheduleConfigRepository creates the repository. New users start in
// defaultZone; empty means UTC.
func NewScheduleConfigRepository(db *database.DB, defaultZone string) *ScheduleConfigRepository {
	if defaultZone == "" {
		defaultZone = models.DefaultTimezone
	}
	return &ScheduleConfigRepository{db: db, defaultZone: defaultZone}
}

const scheduleConfigColumns = `user_id, timezone, wake_time, sleep_time, snacks_count,
	water_interval_hours, quiet_period_enabled, pre_sleep_cutoff_hours,
	night_mode_buffer_min, last_reminder_buffer_min, allow_light_protein_after_cutoff,
	auto_reschedule_meals, min_gap_between_meals_min, water_reminders_per_day,
	water_goal_override_oz, today_exercise_minutes, weight_lb,
	flexibility_window_enabled, flexibility_window_minutes, missed_grace_minutes,
	planner_enabled, updated_at`

func scanScheduleConfig(row pgx.Row) (*models.ScheduleConfig, error) {
	c := &models.ScheduleConfig{}
	err := row.Scan(
		&c.UserID,
		&c.Timezone,
		&c.WakeTime,
		&c.SleepTime,
		&c.SnacksCount,
		&c.WaterIntervalHours,
		&c.QuietPeriodEnabled,
		&c.PreSleepCutoffHours,
		&c.NightModeBufferMin,
		&c.LastReminderBufferMin,
		&c.AllowLightProteinAfterCutoff,
		&c.AutoRescheduleMeals,
		&c.MinGapBetweenMealsMin,
		&c.WaterRemindersPerDay,
		&c.WaterGoalOverrideOz,
		&c.TodayExerciseMinutes,
		&c.WeightLb,
		&c.FlexibilityWindowEnabled,
		&c.FlexibilityWindowMinutes,
		&c.MissedGraceMinutes,
		&c.PlannerEnabled,
		&c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// GetOrCreate retrieves the user's schedule config, creating the defaults if none exist
func (r *ScheduleConfigRepository) GetOrCreate(ctx context.Context, userID int64) (*models.ScheduleConfig, error) {
	return scanScheduleConfig(r.db.Pool.QueryRow(ctx,
		`INSERT INTO schedule_configs (user_id, timezone) VALUES ($1, $2)
		 ON CONFLICT (user_id) DO UPDATE SET user_id = EXCLUDED.user_id
		 RETURNING `+scheduleConfigColumns,
		userID, r.defaultZone,
	))
}

func (r *ScheduleConfigRepository) GetByUserID(ctx context.Context, userID int64) (*models.ScheduleConfig, error) {
	return scanScheduleConfig(r.db.Pool.QueryRow(ctx,
		`SELECT `+scheduleConfigColumns+` FROM schedule_configs WHERE user_id = $1`,
		userID,
	))
}

// ListEnabled returns every config with the planner switched on.
func (r *ScheduleConfigRepository) ListEnabled(ctx context.Context) ([]*models.ScheduleConfig, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT `+scheduleConfigColumns+` FROM schedule_configs WHERE planner_enabled = true ORDER BY user_id`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var configs []*models.ScheduleConfig
	for rows.Next() {
		c, err := scanScheduleConfig(rows)
		if err != nil {
			return nil, err
		}
		configs = append(configs, c)
	}
	return configs, rows.Err()
}

// Update validates and stores the config.
func (r *ScheduleConfigRepository) Update(ctx context.Context, c *models.ScheduleConfig) error {
	if err := c.Validate(); err != nil {
		return err
	}
	_, err := r.db.Pool.Exec(ctx,
		`UPDATE schedule_configs SET
		    timezone = $2, wake_time = $3, sleep_time = $4, snacks_count = $5,
		    water_interval_hours = $6, quiet_period_enabled = $7, pre_sleep_cutoff_hours = $8,
		    night_mode_buffer_min = $9, last_reminder_buffer_min = $10,
		    allow_light_protein_after_cutoff = $11, auto_reschedule_meals = $12,
		    min_gap_between_meals_min = $13, water_reminders_per_day = $14,
		    water_goal_override_oz = $15, today_exercise_minutes = $16, weight_lb = $17,
		    flexibility_window_enabled = $18, flexibility_window_minutes = $19,
		    missed_grace_minutes = $20, planner_enabled = $21, updated_at = NOW()
		 WHERE user_id = $1`,
		c.UserID, c.Timezone, c.WakeTime, c.SleepTime, c.SnacksCount,
		c.WaterIntervalHours, c.QuietPeriodEnabled, c.PreSleepCutoffHours,
		c.NightModeBufferMin, c.LastReminderBufferMin,
		c.AllowLightProteinAfterCutoff, c.AutoRescheduleMeals,
		c.MinGapBetweenMealsMin, c.WaterRemindersPerDay,
		c.WaterGoalOverrideOz, c.TodayExerciseMinutes, c.WeightLb,
		c.FlexibilityWindowEnabled, c.FlexibilityWindowMinutes,
		c.MissedGraceMinutes, c.PlannerEnabled,
	)
	return err
}
