// Package planner places meals, snacks and water reminders inside a user's
// waking day.
package planner

import (
	"sort"
	"time"

	"github.com/charliewang306-ui/fitfuel-planner-sub001/internal/models"
	"github.com/charliewang306-ui/fitfuel-planner-sub001/internal/window"
)

// Fixed offsets from the eating window start. They keep at least two hours
// between consecutive meals over a typical 14–16h waking day.
const (
	BreakfastOffset = 45 * time.Minute
	Snack1Offset    = 165 * time.Minute
	LunchOffset     = 300 * time.Minute
	Snack2Offset    = 420 * time.Minute
	DinnerOffset    = 570 * time.Minute

	// RescheduleLead is how far before the window end a late meal is moved.
	RescheduleLead = 30 * time.Minute
)

// MealSlot is one placed meal or snack.
type MealSlot struct {
	Name        string          `json:"name"`
	MealType    models.MealType `json:"meal_type"`
	Time        time.Time       `json:"time"`
	Rescheduled bool            `json:"rescheduled"`
}

// MealSchedule is the day's meal placement. Snack fields are nil when not
// requested or dropped; an unavailable window yields no slots at all.
type MealSchedule struct {
	Window    window.EatingWindow `json:"window"`
	Breakfast *MealSlot           `json:"breakfast,omitempty"`
	Lunch     *MealSlot           `json:"lunch,omitempty"`
	Dinner    *MealSlot           `json:"dinner,omitempty"`
	Snack1    *MealSlot           `json:"snack1,omitempty"`
	Snack2    *MealSlot           `json:"snack2,omitempty"`
	Dropped   []MealSlot          `json:"dropped,omitempty"`
}

// Slots returns the placed slots in time order.
func (s MealSchedule) Slots() []MealSlot {
	var out []MealSlot
	for _, slot := range []*MealSlot{s.Breakfast, s.Snack1, s.Lunch, s.Snack2, s.Dinner} {
		if slot != nil {
			out = append(out, *slot)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Time.Before(out[j].Time) })
	return out
}

// GenerateMealSchedule places breakfast, lunch, dinner and up to two snacks at
// fixed offsets from the eating window start, then runs every slot through
// ValidateMealTime.
func GenerateMealSchedule(cfg models.ScheduleConfig, snacksCount int, now time.Time) (MealSchedule, error) {
	w, err := window.Calculate(cfg, now)
	if err != nil {
		return MealSchedule{}, err
	}
	return placeMeals(cfg.WithDefaults(), snacksCount, w), nil
}

func placeMeals(cfg models.ScheduleConfig, snacksCount int, w window.EatingWindow) MealSchedule {
	s := MealSchedule{Window: w}
	if !w.Available() {
		return s
	}

	place := func(name string, mealType models.MealType, offset time.Duration) *MealSlot {
		t, moved := ValidateMealTime(wallClockAfter(w.Start, offset), w, cfg.AutoRescheduleMeals)
		return &MealSlot{Name: name, MealType: mealType, Time: t, Rescheduled: moved}
	}

	s.Breakfast = place("breakfast", models.MealBreakfast, BreakfastOffset)
	s.Lunch = place("lunch", models.MealLunch, LunchOffset)
	s.Dinner = place("dinner", models.MealDinner, DinnerOffset)
	if snacksCount >= 1 {
		s.Snack1 = place("snack1", models.MealSnack, Snack1Offset)
	}
	if snacksCount >= 2 {
		s.Snack2 = place("snack2", models.MealSnack, Snack2Offset)
	}

	minGap := time.Duration(cfg.MinGapBetweenMealsMin) * time.Minute
	spreadMains(s.Breakfast, s.Lunch, s.Dinner, w.Start, minGap)
	s.Snack1 = s.dropCrowdedSnack(s.Snack1, minGap)
	s.Snack2 = s.dropCrowdedSnack(s.Snack2, minGap)
	return s
}

// wallClockAfter adds offset to start's time of day, so a DST jump between
// the two does not move the meal by an hour.
func wallClockAfter(start time.Time, offset time.Duration) time.Time {
	return models.OnDay(start, start.Hour()*60+start.Minute()+int(offset/time.Minute))
}

// ValidateMealTime moves a time past the window end to RescheduleLead before
// the end when autoReschedule is on; otherwise the time is kept as-is. The
// moved time never precedes the window start.
func ValidateMealTime(t time.Time, w window.EatingWindow, autoReschedule bool) (time.Time, bool) {
	if !t.After(w.End) || !autoReschedule {
		return t, false
	}
	moved := w.End.Add(-RescheduleLead)
	if moved.Before(w.Start) {
		moved = w.Start
	}
	return moved, true
}

// spreadMains pulls a rescheduled main meal back so it keeps minGap to the
// next one. Meals that were not moved are left alone.
func spreadMains(breakfast, lunch, dinner *MealSlot, start time.Time, minGap time.Duration) {
	mains := []*MealSlot{breakfast, lunch, dinner}
	for i := len(mains) - 2; i >= 0; i-- {
		cur, next := mains[i], mains[i+1]
		if !cur.Rescheduled && !next.Rescheduled {
			continue
		}
		if next.Time.Sub(cur.Time) >= minGap {
			continue
		}
		t := next.Time.Add(-minGap)
		if t.Before(start) {
			t = start
		}
		cur.Time = t
		cur.Rescheduled = true
	}
}

func (s *MealSchedule) dropCrowdedSnack(snack *MealSlot, minGap time.Duration) *MealSlot {
	if snack == nil || !snack.Rescheduled {
		return snack
	}
	for _, main := range []*MealSlot{s.Breakfast, s.Lunch, s.Dinner} {
		gap := snack.Time.Sub(main.Time)
		if gap < 0 {
			gap = -gap
		}
		if gap < minGap {
			s.Dropped = append(s.Dropped, *snack)
			return nil
		}
	}
	return snack
}

// ScaleLateNightPortion shrinks a portion as the cutoff approaches: 60% under
// 30 minutes, 80% under an hour, full size otherwise.
func ScaleLateNightPortion(grams float64, minutesBeforeCutoff float64) float64 {
	switch {
	case minutesBeforeCutoff < 30:
		return grams * 0.6
	case minutesBeforeCutoff < 60:
		return grams * 0.8
	default:
		return grams
	}
}
