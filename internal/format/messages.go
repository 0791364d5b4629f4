package format

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charliewang306-ui/fitfuel-planner-sub001/internal/hydration"
	"github.com/charliewang306-ui/fitfuel-planner-sub001/internal/lifecycle"
	"github.com/charliewang306-ui/fitfuel-planner-sub001/internal/models"
	"github.com/charliewang306-ui/fitfuel-planner-sub001/internal/planner"
	"github.com/charliewang306-ui/fitfuel-planner-sub001/internal/rrule"
	"github.com/charliewang306-ui/fitfuel-planner-sub001/internal/window"
)

// PlanUnavailable is shown when today's plan could not be built.
const PlanUnavailable = "⚠️ Could not build today's plan. Check your schedule with /help and try /plan again."

func reminderIcon(t models.ReminderType) string {
	switch t {
	case models.ReminderTypeWater:
		return "💧"
	case models.ReminderTypeSnack:
		return "🍎"
	default:
		return "🍽"
	}
}

// PlanText renders a day plan with the current time mode.
func PlanText(plan planner.DayPlan, mode window.TimeMode) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📅 **Plan for %s**\n", plan.DayKey)

	w := plan.Meals.Window
	if w.Available() {
		fmt.Fprintf(&b, "🕒 Eating window `%s`–`%s` (%s)\n",
			models.FormatClock(w.Start), models.FormatClock(w.End), Duration(w.End.Sub(w.Start)))
	} else {
		b.WriteString("🕒 No eating window today\n")
	}
	b.WriteString("_" + mode.Message + "_\n\n")

	if len(plan.Reminders) == 0 {
		b.WriteString("Nothing scheduled.")
		return b.String()
	}
	for _, r := range plan.Reminders {
		label := "Water"
		if r.MealType != "" {
			label = strings.ToUpper(string(r.MealType[:1])) + string(r.MealType[1:])
		}
		fmt.Fprintf(&b, "%s `%s` %s", reminderIcon(r.Type), r.ScheduledTime, label)
		if r.Rescheduled {
			b.WriteString(" (moved before cutoff)")
		}
		if r.MealType != "" && w.Available() {
			b.WriteString(portionHint(w.End.Sub(r.At)))
		}
		b.WriteString("\n")
	}
	for _, d := range plan.Meals.Dropped {
		fmt.Fprintf(&b, "✂️ %s dropped: too close to a meal\n", d.Name)
	}
	if plan.WaterStep > 0 {
		fmt.Fprintf(&b, "\n💧 Water %s", rrule.Describe(plan.WaterStep))
	}
	return b.String()
}

// portionHint suggests a smaller portion for meals in the last hour before
// the cutoff.
func portionHint(beforeCutoff time.Duration) string {
	if beforeCutoff < 0 || beforeCutoff >= time.Hour {
		return ""
	}
	pct := planner.ScaleLateNightPortion(100, beforeCutoff.Minutes())
	return fmt.Sprintf(" (about %.0f%% portion)", pct)
}

// ReminderText renders a due reminder. flex may be nil.
func ReminderText(r *models.Reminder, countdown time.Duration, flex *lifecycle.Flexibility) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s **%s** at `%s`\n", reminderIcon(r.Type), r.Label(), r.ScheduledTime)
	if lifecycle.IsOverdue(countdown) {
		fmt.Fprintf(&b, "⏰ Overdue by %s", Duration(-countdown))
	} else {
		fmt.Fprintf(&b, "⏳ In %s", Duration(countdown))
	}
	if r.Status == models.StatusDelayed || r.Status == models.StatusPostponed {
		b.WriteString(" (snoozed)")
	}
	if flex != nil && flex.Message != "" {
		b.WriteString("\n_" + flex.Message + "_")
	}
	return b.String()
}

// GuidanceText renders a water guidance snapshot.
func GuidanceText(g hydration.WaterGuidance) string {
	var b strings.Builder
	b.WriteString("💧 **Hydration**\n\n")
	fmt.Fprintf(&b, "Target: %s", Oz(g.TargetOz))
	if g.BonusFromExerciseOz > 0 {
		fmt.Fprintf(&b, " (incl. %s for exercise)", Oz(g.BonusFromExerciseOz))
	}
	fmt.Fprintf(&b, "\nDrank: %s\nRemaining: %s\n", Oz(g.DrankOz), Oz(g.RemainingOz))

	switch {
	case g.RemainingOz <= 0:
		b.WriteString("\n✅ Target reached.")
	case g.RemindersLeft == 0:
		b.WriteString("\nNo reminders left today.")
	default:
		fmt.Fprintf(&b, "\nNext %d reminders: about **%s** each (max %s per hour)",
			g.RemindersLeft, Oz(g.SuggestPerReminderOz), Oz(g.MaxHourlyOz))
	}
	if g.Flags.IsLate {
		b.WriteString("\n_Evening: smaller sips to protect your sleep._")
	}
	return b.String()
}

// ContributionText confirms a logged beverage.
func ContributionText(c hydration.Contribution, totalOz float64) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🥤 Logged %s of %s\n", Oz(c.AmountOz), c.Beverage)
	switch {
	case c.Caloric:
		b.WriteString("_This drink has calories and does not count toward water._")
	case c.WasReduced:
		fmt.Fprintf(&b, "Counted %s; %s over today's %s limit did not count.", Oz(c.EffectiveOz), Oz(c.CappedOz), c.Beverage)
	default:
		fmt.Fprintf(&b, "Counted %s.", Oz(c.EffectiveOz))
	}
	fmt.Fprintf(&b, "\nToday: **%s**", Oz(totalOz))
	return b.String()
}

// Oz formats an amount with at most one decimal.
func Oz(v float64) string {
	return strconv.FormatFloat(float64(int64(v*10+0.5))/10, 'f', -1, 64) + " oz"
}

// Duration renders d as hours and minutes.
func Duration(d time.Duration) string {
	if d < time.Minute {
		return "under a minute"
	}
	minutes := int(d.Minutes())
	hours, mins := minutes/60, minutes%60
	switch {
	case hours == 0:
		return fmt.Sprintf("%d min", mins)
	case mins == 0:
		return fmt.Sprintf("%d h", hours)
	default:
		return fmt.Sprintf("%d h %d min", hours, mins)
	}
}
