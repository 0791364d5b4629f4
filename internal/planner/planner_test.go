package planner

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/charliewang306-ui/fitfuel-planner-sub001/internal/models"
	"github.com/charliewang306-ui/fitfuel-planner-sub001/internal/window"
)

var monday = time.Date(2024, time.June, 10, 6, 0, 0, 0, time.UTC)

func clockOf(t time.Time) string { return models.FormatClock(t) }

func dayConfig(wake, sleep string, snacks int) models.ScheduleConfig {
	return models.ScheduleConfig{
		WakeTime:            wake,
		SleepTime:           sleep,
		SnacksCount:         snacks,
		PreSleepCutoffHours: 2.5,
		AutoRescheduleMeals: true,
		WaterIntervalHours:  2.5,
		QuietPeriodEnabled:  true,
	}
}

func TestGenerateMealScheduleReferenceDay(t *testing.T) {
	s, err := GenerateMealSchedule(dayConfig("07:00", "23:00", 2), 2, monday)
	require.NoError(t, err)

	assert.Equal(t, "20:30", clockOf(s.Window.End))
	assert.Equal(t, "07:45", clockOf(s.Breakfast.Time))
	assert.Equal(t, "12:00", clockOf(s.Lunch.Time))
	assert.Equal(t, "16:30", clockOf(s.Dinner.Time))
	require.NotNil(t, s.Snack1)
	require.NotNil(t, s.Snack2)
	assert.Equal(t, "09:45", clockOf(s.Snack1.Time))
	assert.Equal(t, "14:00", clockOf(s.Snack2.Time))

	for _, slot := range s.Slots() {
		assert.False(t, slot.Rescheduled, slot.Name)
	}
	assert.Len(t, s.Slots(), 5)
}

func TestGenerateMealScheduleSnackCount(t *testing.T) {
	for snacks, want := range map[int]int{0: 3, 1: 4, 2: 5} {
		s, err := GenerateMealSchedule(dayConfig("07:00", "23:00", snacks), snacks, monday)
		require.NoError(t, err)
		assert.Len(t, s.Slots(), want, "snacks=%d", snacks)
	}
}

func TestGenerateMealScheduleReschedulesDinner(t *testing.T) {
	cfg := dayConfig("12:00", "23:00", 0)

	s, err := GenerateMealSchedule(cfg, 0, monday)
	require.NoError(t, err)
	assert.Equal(t, "20:00", clockOf(s.Dinner.Time))
	assert.True(t, s.Dinner.Rescheduled)
	assert.Equal(t, "17:00", clockOf(s.Lunch.Time))
	assert.False(t, s.Lunch.Rescheduled)

	cfg.AutoRescheduleMeals = false
	s, err = GenerateMealSchedule(cfg, 0, monday)
	require.NoError(t, err)
	assert.Equal(t, "21:30", clockOf(s.Dinner.Time))
	assert.False(t, s.Dinner.Rescheduled)
}

func TestGenerateMealScheduleResolvesCollisions(t *testing.T) {
	s, err := GenerateMealSchedule(dayConfig("16:00", "23:00", 2), 2, monday)
	require.NoError(t, err)

	assert.Equal(t, "16:00", clockOf(s.Breakfast.Time))
	assert.Equal(t, "18:00", clockOf(s.Lunch.Time))
	assert.Equal(t, "20:00", clockOf(s.Dinner.Time))

	require.NotNil(t, s.Snack1)
	assert.Equal(t, "18:45", clockOf(s.Snack1.Time))
	assert.Nil(t, s.Snack2)
	require.Len(t, s.Dropped, 1)
	assert.Equal(t, "snack2", s.Dropped[0].Name)
}

func TestGenerateMealScheduleWithoutWindow(t *testing.T) {
	s, err := GenerateMealSchedule(dayConfig("21:00", "23:00", 2), 2, monday)
	require.NoError(t, err)
	assert.False(t, s.Window.Available())
	assert.Empty(t, s.Slots())
}

func TestMealsKeepWallClockAcrossDST(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)
	cfg := dayConfig("00:30", "23:00", 0).WithDefaults()

	for _, day := range []int{8, 1} {
		month := time.March
		if day == 1 {
			month = time.November
		}
		start := time.Date(2026, month, day, 0, 30, 0, 0, ny)
		end := time.Date(2026, month, day, 20, 30, 0, 0, ny)
		w := window.EatingWindow{Start: start, End: end, DurationHours: end.Sub(start).Hours()}

		s := placeMeals(cfg, 0, w)
		assert.Equal(t, "01:15", clockOf(s.Breakfast.Time), month.String())
		assert.Equal(t, "05:30", clockOf(s.Lunch.Time), month.String())
		assert.Equal(t, "10:00", clockOf(s.Dinner.Time), month.String())
		assert.Equal(t, day, s.Lunch.Time.Day())
	}
}

func TestValidateMealTime(t *testing.T) {
	start := time.Date(2024, time.June, 10, 7, 0, 0, 0, time.UTC)
	w := window.EatingWindow{Start: start, End: start.Add(10 * time.Hour), DurationHours: 10}

	got, moved := ValidateMealTime(start.Add(2*time.Hour), w, true)
	assert.Equal(t, start.Add(2*time.Hour), got)
	assert.False(t, moved)

	got, moved = ValidateMealTime(w.End, w, true)
	assert.Equal(t, w.End, got)
	assert.False(t, moved)

	got, moved = ValidateMealTime(w.End.Add(time.Minute), w, true)
	assert.Equal(t, w.End.Add(-30*time.Minute), got)
	assert.True(t, moved)

	got, moved = ValidateMealTime(w.End.Add(time.Hour), w, false)
	assert.Equal(t, w.End.Add(time.Hour), got)
	assert.False(t, moved)

	tiny := window.EatingWindow{Start: start, End: start.Add(10 * time.Minute), DurationHours: 1.0 / 6}
	got, moved = ValidateMealTime(start.Add(time.Hour), tiny, true)
	assert.Equal(t, start, got)
	assert.True(t, moved)
}

func TestScaleLateNightPortion(t *testing.T) {
	assert.InDelta(t, 60.0, ScaleLateNightPortion(100, 10), 1e-9)
	assert.InDelta(t, 60.0, ScaleLateNightPortion(100, -5), 1e-9)
	assert.InDelta(t, 80.0, ScaleLateNightPortion(100, 30), 1e-9)
	assert.InDelta(t, 80.0, ScaleLateNightPortion(100, 59), 1e-9)
	assert.InDelta(t, 100.0, ScaleLateNightPortion(100, 60), 1e-9)
	assert.InDelta(t, 100.0, ScaleLateNightPortion(100, 240), 1e-9)
}

func TestGenerateWaterReminders(t *testing.T) {
	wake := time.Date(2024, time.June, 10, 7, 0, 0, 0, time.UTC)
	sleep := time.Date(2024, time.June, 10, 23, 0, 0, 0, time.UTC)

	got, err := GenerateWaterReminders(wake, sleep, 2.5, true)
	require.NoError(t, err)

	var clocks []string
	for _, ts := range got {
		clocks = append(clocks, clockOf(ts))
		assert.False(t, InQuietPeriod(ts, 7*60, 23*60), clockOf(ts))
	}
	assert.Equal(t, []string{"08:00", "10:30", "13:00", "15:30", "18:00", "20:30"}, clocks)
}

func TestGenerateWaterRemindersRejectsBadInterval(t *testing.T) {
	wake := time.Date(2024, time.June, 10, 7, 0, 0, 0, time.UTC)
	_, err := GenerateWaterReminders(wake, wake.Add(16*time.Hour), 0, false)
	assert.ErrorIs(t, err, models.ErrInvalidSchedule)
}

func TestWaterQuietPeriodDropsNearSleep(t *testing.T) {
	wake := time.Date(2024, time.June, 10, 7, 0, 0, 0, time.UTC)
	sleep := time.Date(2024, time.June, 10, 22, 30, 0, 0, time.UTC)

	loud, err := waterTimes(wake, sleep, 2, false, 10*time.Minute)
	require.NoError(t, err)
	quiet, err := waterTimes(wake, sleep, 2, true, 10*time.Minute)
	require.NoError(t, err)

	assert.Equal(t, "22:00", clockOf(loud[len(loud)-1]))
	assert.Equal(t, "20:00", clockOf(quiet[len(quiet)-1]))
	assert.Len(t, quiet, len(loud)-1)
}

func TestInQuietPeriodWrapsMidnight(t *testing.T) {
	late := time.Date(2024, time.June, 10, 23, 50, 0, 0, time.UTC)
	early := time.Date(2024, time.June, 10, 0, 20, 0, 0, time.UTC)

	assert.True(t, InQuietPeriod(late, 10, 12*60))
	assert.True(t, InQuietPeriod(early, 9*60, 23*60+55))
	assert.False(t, InQuietPeriod(early, 9*60, 23*60))
}

func TestBuildDayPlan(t *testing.T) {
	plan, err := BuildDayPlan(dayConfig("07:00", "23:00", 2), monday)
	require.NoError(t, err)

	assert.Equal(t, "2024-06-10", plan.DayKey)
	require.Len(t, plan.Reminders, 11)
	assert.Equal(t, models.ReminderTypeMeal, plan.Reminders[0].Type)
	assert.Equal(t, models.MealBreakfast, plan.Reminders[0].MealType)
	assert.Equal(t, "07:45", plan.Reminders[0].ScheduledTime)
	assert.Equal(t, models.ReminderTypeWater, plan.Reminders[1].Type)
	assert.Equal(t, "08:00", plan.Reminders[1].ScheduledTime)

	for i := 1; i < len(plan.Reminders); i++ {
		assert.False(t, plan.Reminders[i].At.Before(plan.Reminders[i-1].At))
	}
	assert.Equal(t, "FREQ=MINUTELY;INTERVAL=150", plan.WaterRule())
}

func TestBuildDayPlanCapsWaterReminders(t *testing.T) {
	cfg := dayConfig("07:00", "23:00", 0)
	cfg.WaterRemindersPerDay = 3

	plan, err := BuildDayPlan(cfg, monday)
	require.NoError(t, err)

	water := 0
	for _, r := range plan.Reminders {
		if r.Type == models.ReminderTypeWater {
			water++
		}
	}
	assert.Equal(t, 3, water)
}

func TestBuildDayPlanOrdersPastMidnight(t *testing.T) {
	cfg := dayConfig("11:00", "02:00", 1)

	plan, err := BuildDayPlan(cfg, monday)
	require.NoError(t, err)

	last := plan.Reminders[len(plan.Reminders)-1]
	assert.Equal(t, models.ReminderTypeWater, last.Type)
	assert.Equal(t, "00:30", last.ScheduledTime)
}

func TestBuildDayPlanFailsFast(t *testing.T) {
	cfg := dayConfig("07:00", "07:00", 0)
	_, err := BuildDayPlan(cfg, monday)
	assert.ErrorIs(t, err, models.ErrInvalidSchedule)

	cfg = dayConfig("07:00", "23:00", 3)
	_, err = BuildDayPlan(cfg, monday)
	assert.ErrorIs(t, err, models.ErrInvalidSchedule)
}
