package handlers

import (
	"context"
	"fmt"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/charliewang306-ui/fitfuel-planner-sub001/internal/format"
	"github.com/charliewang306-ui/fitfuel-planner-sub001/internal/lifecycle"
	"github.com/charliewang306-ui/fitfuel-planner-sub001/internal/models"
	"github.com/charliewang306-ui/fitfuel-planner-sub001/internal/planner"
	"github.com/charliewang306-ui/fitfuel-planner-sub001/internal/window"
)

// countdownWindow is how close to its target a live reminder shows a countdown.
const countdownWindow = time.Hour

func (h *Handlers) handlePlan(ctx context.Context, msg *tgbotapi.Message) {
	cfg, ok := h.loadConfig(ctx, msg)
	if !ok {
		return
	}
	now := h.userClock(cfg).Now()

	plan, err := planner.BuildDayPlan(*cfg, now)
	if err != nil {
		h.logger.Warnw("Failed to build plan", "user_id", cfg.UserID, "error", err)
		h.sendMessage(msg.Chat.ID, format.PlanUnavailable)
		return
	}
	mode, err := window.ClassifyTimeMode(*cfg, now)
	if err != nil {
		h.sendMessage(msg.Chat.ID, format.PlanUnavailable)
		return
	}
	h.sendMessage(msg.Chat.ID, format.PlanText(plan, mode))
}

var statusIcons = map[string]string{
	lifecycle.DisplayCountdown:     "⏳",
	string(models.StatusPending):   "▫️",
	string(models.StatusPostponed): "💤",
	string(models.StatusDelayed):   "💤",
	string(models.StatusMissed):    "⚠️",
	string(models.StatusCompleted): "✅",
	string(models.StatusSkipped):   "⏭",
}

func (h *Handlers) handleToday(ctx context.Context, msg *tgbotapi.Message) {
	cfg, ok := h.loadConfig(ctx, msg)
	if !ok {
		return
	}
	c := h.userClock(cfg)
	now := c.Now()

	reminders, err := h.repos.Reminder.GetByDay(ctx, cfg.UserID, c.DayKey())
	if err != nil {
		h.logger.Errorw("Failed to get reminders", "user_id", cfg.UserID, "error", err)
		h.sendMessage(msg.Chat.ID, "Could not load today's reminders, please try again later.")
		return
	}
	if len(reminders) == 0 {
		h.sendMessage(msg.Chat.ID, "Nothing scheduled yet today. Try /plan.")
		return
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "📋 **Today** (%s)\n\n", c.DayKey())
	for _, r := range reminders {
		label, countdown, err := lifecycle.Display(r, now, countdownWindow)
		if err != nil {
			continue
		}
		fmt.Fprintf(&sb, "%s `%s` %s", statusIcons[label], r.ScheduledTime, r.Label())
		if label == lifecycle.DisplayCountdown {
			if lifecycle.IsOverdue(countdown) {
				fmt.Fprintf(&sb, " - overdue %s", format.Duration(-countdown))
			} else {
				fmt.Fprintf(&sb, " - in %s", format.Duration(countdown))
			}
		}
		sb.WriteString("\n")
	}
	h.sendMessage(msg.Chat.ID, sb.String())
}
