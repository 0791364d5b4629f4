package handlers

import (
	"context"
	"fmt"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/charliewang306-ui/fitfuel-planner-sub001/internal/clock"
	"github.com/charliewang306-ui/fitfuel-planner-sub001/internal/format"
	"github.com/charliewang306-ui/fitfuel-planner-sub001/internal/models"
)

// Sender is the part of *tgbotapi.BotAPI the handlers use.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

type UserStore interface {
	GetOrCreate(ctx context.Context, userID int64, userName string) (*models.User, error)
}

type ConfigStore interface {
	GetOrCreate(ctx context.Context, userID int64) (*models.ScheduleConfig, error)
	Update(ctx context.Context, c *models.ScheduleConfig) error
}

type ReminderStore interface {
	GetByDay(ctx context.Context, userID int64, dayKey string) ([]*models.Reminder, error)
	GetByID(ctx context.Context, reminderID string, userID int64) (*models.Reminder, error)
	UpdateStatus(ctx context.Context, r *models.Reminder) error
}

type IntakeStore interface {
	Log(ctx context.Context, entry *models.BeverageLog) error
	DayTotals(ctx context.Context, userID int64, dayKey string) (*models.DayIntake, error)
}

// Scheduler is the part of the reminder loop the handlers poke. Notify asks
// for an immediate sweep; Rebuild regenerates one user's plan for today.
type Scheduler interface {
	Notify()
	Rebuild(userID int64)
}

type noopScheduler struct{}

func (noopScheduler) Notify()       {}
func (noopScheduler) Rebuild(int64) {}

type Repositories struct {
	User     UserStore
	Config   ConfigStore
	Reminder ReminderStore
	Intake   IntakeStore
}

type Handlers struct {
	api     Sender
	repos   *Repositories
	sched   Scheduler
	now     func() time.Time
	logger  *zap.SugaredLogger
}

// New wires the handlers. sched may be nil until the scheduler exists; see
// SetScheduler.
func New(api Sender, repos *Repositories, sched Scheduler, now func() time.Time, logger *zap.SugaredLogger) *Handlers {
	if sched == nil {
		sched = noopScheduler{}
	}
	if now == nil {
		now = time.Now
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Handlers{api: api, repos: repos, sched: sched, now: now, logger: logger}
}

func (h *Handlers) SetScheduler(sched Scheduler) {
	if sched == nil {
		sched = noopScheduler{}
	}
	h.sched = sched
}

// HandleMessage answers plain text; only commands are understood.
func (h *Handlers) HandleMessage(ctx context.Context, msg *tgbotapi.Message) {
	if msg.Text == "" {
		return
	}
	h.sendMessage(msg.Chat.ID, "I only understand commands. Use /help to see them.")
}

func (h *Handlers) HandleCommand(ctx context.Context, msg *tgbotapi.Message) {
	// Ensure user exists
	if _, err := h.repos.User.GetOrCreate(ctx, msg.From.ID, msg.From.UserName); err != nil {
		h.logger.Errorw("Failed to get/create user", "user_id", msg.From.ID, "error", err)
		return
	}

	switch msg.Command() {
	case "start":
		h.handleStart(ctx, msg)
	case "help":
		h.handleHelp(ctx, msg)
	case "plan":
		h.handlePlan(ctx, msg)
	case "today":
		h.handleToday(ctx, msg)
	case "water":
		h.handleWater(ctx, msg)
	case "drink":
		h.handleDrink(ctx, msg)
	case "settings":
		h.handleSettings(ctx, msg)
	case "set":
		h.handleSet(ctx, msg)
	default:
		h.sendMessage(msg.Chat.ID, "Unknown command. Use /help to see what I can do.")
	}
}

func (h *Handlers) HandleCallbackQuery(ctx context.Context, callback *tgbotapi.CallbackQuery) {
	// Answer callback to remove loading state
	if _, err := h.api.Request(tgbotapi.NewCallback(callback.ID, "")); err != nil {
		h.logger.Warnw("Failed to answer callback", "error", err)
	}
	if callback.Message == nil {
		return
	}

	// Callback data: "rem:<action>:<id>[:minutes]" or "settings:<action>[:...]"
	parts := strings.Split(callback.Data, ":")
	if len(parts) < 2 {
		return
	}
	switch parts[0] {
	case "rem":
		h.handleReminderCallback(ctx, callback, parts[1:])
	case "settings":
		h.handleSettingsCallback(ctx, callback, parts[1:])
	}
}

// userClock returns a clock in the user's configured zone.
func (h *Handlers) userClock(cfg *models.ScheduleConfig) *clock.Clock {
	return clock.ForZone(cfg.Timezone, h.now, h.logger)
}

func (h *Handlers) loadConfig(ctx context.Context, msg *tgbotapi.Message) (*models.ScheduleConfig, bool) {
	cfg, err := h.repos.Config.GetOrCreate(ctx, msg.From.ID)
	if err != nil {
		h.logger.Errorw("Failed to get schedule config", "user_id", msg.From.ID, "error", err)
		h.sendMessage(msg.Chat.ID, "Could not load your settings, please try again later.")
		return nil, false
	}
	return cfg, true
}

func (h *Handlers) sendMessage(chatID int64, text string) {
	parsed := format.ParseMarkdown(text)
	msg := tgbotapi.NewMessage(chatID, parsed.Text)
	msg.Entities = parsed.Entities
	if _, err := h.api.Send(msg); err != nil {
		h.logger.Errorw("Failed to send message", "chat_id", chatID, "error", err)
	}
}

func (h *Handlers) editMessageText(chatID int64, messageID int, text string) {
	parsed := format.ParseMarkdown(text)
	edit := tgbotapi.NewEditMessageText(chatID, messageID, parsed.Text)
	edit.Entities = parsed.Entities
	if _, err := h.api.Send(edit); err != nil {
		h.logger.Errorw("Failed to edit message", "chat_id", chatID, "message_id", messageID, "error", err)
	}
}

func (h *Handlers) editMessageWithKeyboard(chatID int64, messageID int, text string, keyboard tgbotapi.InlineKeyboardMarkup) {
	parsed := format.ParseMarkdown(text)
	edit := tgbotapi.NewEditMessageTextAndMarkup(chatID, messageID, parsed.Text, keyboard)
	edit.Entities = parsed.Entities
	if _, err := h.api.Send(edit); err != nil {
		h.logger.Errorw("Failed to edit message", "chat_id", chatID, "message_id", messageID, "error", err)
	}
}

func (h *Handlers) deleteMessage(chatID int64, messageID int) {
	if _, err := h.api.Request(tgbotapi.NewDeleteMessage(chatID, messageID)); err != nil {
		h.logger.Warnw("Failed to delete message", "chat_id", chatID, "message_id", messageID, "error", err)
	}
}

func (h *Handlers) handleStart(ctx context.Context, msg *tgbotapi.Message) {
	cfg, ok := h.loadConfig(ctx, msg)
	if !ok {
		return
	}
	h.sched.Notify()

	text := fmt.Sprintf(`👋 Hi %s!

I plan your meals, snacks and water around your day.
Your day runs from `+"`%s`"+` to `+"`%s`"+` (%s).

/plan shows today's plan, /water your hydration.
Change your times with /set, e.g. /set wake 06:30

Use /help to see all commands`, msg.From.FirstName, cfg.WakeTime, cfg.SleepTime, cfg.Timezone)
	h.sendMessage(msg.Chat.ID, text)
}

func (h *Handlers) handleHelp(ctx context.Context, msg *tgbotapi.Message) {
	text := `📖 **Commands**

**Plan**
/plan - today's meals and water
/today - today's reminders and their status

**Hydration**
/water - how much to drink next
/drink <type> <oz> - log a drink, e.g. /drink black-coffee 8

**Settings**
/settings - show your schedule
/set <field> <value> - change it (wake, sleep, snacks, interval, zone, weight, exercise, goal, flex)`
	h.sendMessage(msg.Chat.ID, text)
}
