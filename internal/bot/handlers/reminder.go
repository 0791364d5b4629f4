package handlers

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/charliewang306-ui/fitfuel-planner-sub001/internal/lifecycle"
	"github.com/charliewang306-ui/fitfuel-planner-sub001/internal/models"
)

// Reminder button actions as they appear in callback data.
const (
	callbackDone   = "done"
	callbackSkip   = "skip"
	callbackSnooze = "snooze"
)

// ReminderKeyboard is attached to every delivered reminder.
func ReminderKeyboard(reminderID string) tgbotapi.InlineKeyboardMarkup {
	snooze := func(d time.Duration) tgbotapi.InlineKeyboardButton {
		minutes := int(d.Minutes())
		return tgbotapi.NewInlineKeyboardButtonData(fmt.Sprintf("💤 %d min", minutes),
			fmt.Sprintf("rem:%s:%s:%d", callbackSnooze, reminderID, minutes))
	}
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✅ Done", "rem:"+callbackDone+":"+reminderID),
			tgbotapi.NewInlineKeyboardButtonData("⏭ Skip", "rem:"+callbackSkip+":"+reminderID),
		),
		tgbotapi.NewInlineKeyboardRow(
			snooze(lifecycle.Snooze15),
			snooze(lifecycle.Snooze30),
			snooze(lifecycle.Snooze60),
		),
	)
}

// parseReminderCallback turns "<action>:<id>[:minutes]" into a lifecycle action.
func parseReminderCallback(parts []string) (lifecycle.Action, string, time.Duration, error) {
	if len(parts) < 2 || parts[1] == "" {
		return "", "", 0, fmt.Errorf("malformed reminder callback %v", parts)
	}
	id := parts[1]
	switch parts[0] {
	case callbackDone:
		return lifecycle.ActionComplete, id, 0, nil
	case callbackSkip:
		return lifecycle.ActionSkip, id, 0, nil
	case callbackSnooze:
		if len(parts) < 3 {
			return "", "", 0, fmt.Errorf("snooze without delay")
		}
		minutes, err := strconv.Atoi(parts[2])
		if err != nil {
			return "", "", 0, fmt.Errorf("bad snooze delay %q: %w", parts[2], err)
		}
		return lifecycle.ActionPostpone, id, time.Duration(minutes) * time.Minute, nil
	}
	return "", "", 0, fmt.Errorf("unknown reminder action %q", parts[0])
}

func (h *Handlers) handleReminderCallback(ctx context.Context, callback *tgbotapi.CallbackQuery, parts []string) {
	chatID := callback.Message.Chat.ID
	messageID := callback.Message.MessageID

	action, id, delay, err := parseReminderCallback(parts)
	if err != nil {
		h.logger.Warnw("Ignoring reminder callback", "data", callback.Data, "error", err)
		return
	}

	// Scoped by user, so a forwarded button cannot touch someone else's reminder.
	r, err := h.repos.Reminder.GetByID(ctx, id, callback.From.ID)
	if err != nil {
		h.logger.Errorw("Failed to get reminder", "reminder_id", id, "user_id", callback.From.ID, "error", err)
		h.editMessageText(chatID, messageID, "This reminder no longer exists.")
		return
	}

	now := h.now()
	err = lifecycle.Apply(r, action, delay, now)
	var terr *lifecycle.TransitionError
	switch {
	case errors.As(err, &terr):
		h.editMessageText(chatID, messageID, fmt.Sprintf("%s was already %s.", r.Label(), terr.From))
		return
	case err != nil:
		h.logger.Warnw("Failed to apply reminder action", "reminder_id", id, "action", action, "error", err)
		return
	}

	if err := h.repos.Reminder.UpdateStatus(ctx, r); err != nil {
		h.logger.Errorw("Failed to update reminder", "reminder_id", id, "error", err)
		h.editMessageText(chatID, messageID, "Could not save that, please try again.")
		return
	}
	h.logger.Infow("Reminder updated", "reminder_id", id, "user_id", r.UserID, "action", action, "status", r.Status)

	if action == lifecycle.ActionPostpone {
		// The scheduler re-delivers at the new target.
		h.sched.Notify()
	}
	h.editMessageText(chatID, messageID, actionResultText(r, h.userLocation(ctx, r.UserID)))
}

func (h *Handlers) userLocation(ctx context.Context, userID int64) *time.Location {
	cfg, err := h.repos.Config.GetOrCreate(ctx, userID)
	if err != nil {
		return time.UTC
	}
	return h.userClock(cfg).Location()
}

func actionResultText(r *models.Reminder, loc *time.Location) string {
	switch r.Status {
	case models.StatusCompleted:
		return fmt.Sprintf("✅ %s done. Nice!", r.Label())
	case models.StatusSkipped:
		return fmt.Sprintf("⏭ %s skipped.", r.Label())
	case models.StatusPostponed, models.StatusDelayed:
		if r.DelayedUntil != nil {
			return fmt.Sprintf("💤 %s snoozed until `%s`.", r.Label(), models.FormatClock(r.DelayedUntil.In(loc)))
		}
	}
	return fmt.Sprintf("%s: %s", r.Label(), r.Status)
}
