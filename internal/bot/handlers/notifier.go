package handlers

import (
	"context"
	"fmt"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/charliewang306-ui/fitfuel-planner-sub001/internal/format"
	"github.com/charliewang306-ui/fitfuel-planner-sub001/internal/lifecycle"
	"github.com/charliewang306-ui/fitfuel-planner-sub001/internal/models"
)

// Notifier delivers scheduler output to Telegram. Private chats share the
// user's ID, so reminders go to r.UserID.
type Notifier struct {
	api    Sender
	logger *zap.SugaredLogger
}

func NewNotifier(api Sender, logger *zap.SugaredLogger) *Notifier {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Notifier{api: api, logger: logger}
}

// SendReminder replaces the previous message for r, if any, and returns the
// new message ID.
func (n *Notifier) SendReminder(ctx context.Context, r *models.Reminder, cfg models.ScheduleConfig, now time.Time) (int, error) {
	if r.LastMessageID != nil {
		del := tgbotapi.NewDeleteMessage(r.UserID, *r.LastMessageID)
		if _, err := n.api.Request(del); err != nil {
			n.logger.Debugw("Failed to delete previous reminder message", "reminder_id", r.ID, "msg_id", *r.LastMessageID, "error", err)
		}
	}

	countdown, err := lifecycle.Countdown(r, now)
	if err != nil {
		return 0, fmt.Errorf("countdown for reminder %s: %w", r.ID, err)
	}
	var flex *lifecycle.Flexibility
	if f, ok, err := lifecycle.FlexibilityFor(r, cfg, now); err == nil && ok {
		flex = &f
	}

	parsed := format.ParseMarkdown(format.ReminderText(r, countdown, flex))
	msg := tgbotapi.NewMessage(r.UserID, parsed.Text)
	msg.Entities = parsed.Entities
	msg.ReplyMarkup = ReminderKeyboard(r.ID)

	sent, err := n.api.Send(msg)
	if err != nil {
		return 0, fmt.Errorf("send reminder %s: %w", r.ID, err)
	}
	return sent.MessageID, nil
}

func (n *Notifier) SendPlanFailure(ctx context.Context, userID int64) error {
	parsed := format.ParseMarkdown(format.PlanUnavailable)
	msg := tgbotapi.NewMessage(userID, parsed.Text)
	msg.Entities = parsed.Entities
	if _, err := n.api.Send(msg); err != nil {
		return fmt.Errorf("send plan failure to %d: %w", userID, err)
	}
	return nil
}
