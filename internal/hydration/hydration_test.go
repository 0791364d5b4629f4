package hydration

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/charliewang306-ui/fitfuel-planner-sub001/internal/models"
)

func TestDefaultDailyTargetOz(t *testing.T) {
	assert.Equal(t, 40.0, DefaultDailyTargetOz(0))
	assert.Equal(t, 40.0, DefaultDailyTargetOz(60))
	assert.Equal(t, 96.0, DefaultDailyTargetOz(160))
	assert.Equal(t, 109.0, DefaultDailyTargetOz(181))
}

func TestExerciseBonusOz(t *testing.T) {
	cases := map[float64]float64{
		-10: 0,
		0:   0,
		15:  6,
		30:  12,
		45:  18,
		60:  24,
		90:  33,
		300: 96,
	}
	for minutes, want := range cases {
		assert.InDelta(t, want, ExerciseBonusOz(minutes), 1e-9, "minutes=%v", minutes)
	}
}

func TestExerciseBonusIsMonotonic(t *testing.T) {
	prev := 0.0
	for m := 0.0; m <= 240; m += 0.5 {
		got := ExerciseBonusOz(m)
		assert.GreaterOrEqual(t, got, prev, "minutes=%v", m)
		prev = got
	}
}

func TestSuggestPerReminderOz(t *testing.T) {
	assert.Equal(t, 8.0, SuggestPerReminderOz(32, 4, false))
	assert.Equal(t, 4.0, SuggestPerReminderOz(32, 4, true))
	assert.Equal(t, 0.0, SuggestPerReminderOz(32, 0, false))
	assert.Equal(t, 0.0, SuggestPerReminderOz(-10, 2, false))
	assert.Equal(t, 12.0, SuggestPerReminderOz(33, 3, false))
	assert.Equal(t, 0.0, SuggestPerReminderOz(3, 2, false))
}

func TestGuide(t *testing.T) {
	g := Guide(GuidanceInput{
		WeightLb:        160,
		ExerciseMinutes: 30,
		DrankOz:         28,
		RemindersLeft:   5,
	})
	assert.Equal(t, 108.0, g.TargetOz)
	assert.Equal(t, 12.0, g.BonusFromExerciseOz)
	assert.Equal(t, 80.0, g.RemainingOz)
	assert.Equal(t, 16.0, g.SuggestPerReminderOz)
	assert.Equal(t, float64(MaxHourlyOz), g.MaxHourlyOz)
	assert.False(t, g.Flags.IsLate)
}

func TestGuideOverrideAndCap(t *testing.T) {
	g := Guide(GuidanceInput{WeightLb: 200, OverrideOz: 100, RemindersLeft: 1})
	assert.Equal(t, 100.0, g.TargetOz)
	assert.Equal(t, float64(MaxHourlyOz), g.SuggestPerReminderOz)

	g = Guide(GuidanceInput{OverrideOz: 64, DrankOz: 80, RemindersLeft: 3, IsLate: true})
	assert.Equal(t, 0.0, g.RemainingOz)
	assert.Equal(t, 0.0, g.SuggestPerReminderOz)
	assert.True(t, g.Flags.IsLate)
}

func TestInputFromConfig(t *testing.T) {
	in := InputFromConfig(models.ScheduleConfig{WeightLb: 150, WaterGoalOverrideOz: 70, TodayExerciseMinutes: 20})
	assert.Equal(t, 150.0, in.WeightLb)
	assert.Equal(t, 70.0, in.OverrideOz)
	assert.Equal(t, 20.0, in.ExerciseMinutes)
}

func TestRemindersLeft(t *testing.T) {
	now := time.Date(2024, time.June, 10, 12, 0, 0, 0, time.UTC)
	later := now.Add(2 * time.Hour)
	reminders := []models.Reminder{
		{Type: models.ReminderTypeWater, Status: models.StatusPending, ScheduledAt: now.Add(-time.Hour)},
		{Type: models.ReminderTypeWater, Status: models.StatusPending, ScheduledAt: now.Add(time.Hour)},
		{Type: models.ReminderTypeWater, Status: models.StatusDelayed, ScheduledAt: now.Add(-time.Hour), DelayedUntil: &later},
		{Type: models.ReminderTypeWater, Status: models.StatusCompleted, ScheduledAt: now.Add(3 * time.Hour)},
		{Type: models.ReminderTypeMeal, Status: models.StatusPending, ScheduledAt: now.Add(time.Hour)},
	}
	assert.Equal(t, 2, RemindersLeft(reminders, now))
}

func TestCalculateEffectiveHydrationCoffeeCap(t *testing.T) {
	c, err := CalculateEffectiveHydration(40, "black-coffee", 0, 64)
	require.NoError(t, err)
	assert.InDelta(t, 19.2, c.EffectiveOz, 1e-9)
	assert.InDelta(t, 10.8, c.CappedOz, 1e-9)
	assert.True(t, c.WasReduced)
	assert.Equal(t, 40.0, c.AmountOz)

	c, err = CalculateEffectiveHydration(8, "black-coffee", 19.2, 64)
	require.NoError(t, err)
	assert.InDelta(t, 0, c.EffectiveOz, 1e-9)
	assert.True(t, c.WasReduced)
}

func TestCalculateEffectiveHydrationUnderCap(t *testing.T) {
	c, err := CalculateEffectiveHydration(8, "black-coffee", 0, 64)
	require.NoError(t, err)
	assert.InDelta(t, 6, c.EffectiveOz, 1e-9)
	assert.False(t, c.WasReduced)

	c, err = CalculateEffectiveHydration(20, "unsweetened-tea", 200, 64)
	require.NoError(t, err)
	assert.InDelta(t, 17, c.EffectiveOz, 1e-9)
	assert.False(t, c.WasReduced)

	c, err = CalculateEffectiveHydration(16, " Water ", 0, 64)
	require.NoError(t, err)
	assert.Equal(t, "water", c.Beverage)
	assert.InDelta(t, 16, c.EffectiveOz, 1e-9)
}

func TestCalculateEffectiveHydrationCaloric(t *testing.T) {
	for _, drink := range []string{"juice", "soda", "milk", "sweetened-tea", "sports-drink", "smoothie", "alcohol"} {
		c, err := CalculateEffectiveHydration(12, drink, 0, 64)
		require.NoError(t, err, drink)
		assert.Zero(t, c.EffectiveOz, drink)
		assert.True(t, c.Caloric, drink)
		assert.False(t, c.WasReduced, drink)
	}
}

func TestCalculateEffectiveHydrationErrors(t *testing.T) {
	_, err := CalculateEffectiveHydration(8, "kombucha", 0, 64)
	assert.ErrorIs(t, err, ErrUnknownBeverage)

	_, err = CalculateEffectiveHydration(-1, "water", 0, 64)
	assert.ErrorIs(t, err, ErrInvalidAmount)
}

func TestTypes(t *testing.T) {
	types := Types()
	assert.Len(t, types, 11)
	assert.Equal(t, "alcohol", types[0])
	assert.Contains(t, types, "black-coffee")
}
