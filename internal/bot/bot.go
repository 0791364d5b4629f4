package bot

import (
	"context"
	"fmt"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/charliewang306-ui/fitfuel-planner-sub001/internal/bot/handlers"
	"github.com/charliewang306-ui/fitfuel-planner-sub001/internal/database"
	"github.com/charliewang306-ui/fitfuel-planner-sub001/internal/repository"
)

type Bot struct {
	api      *tgbotapi.BotAPI
	handlers *handlers.Handlers
	notifier *handlers.Notifier
	logger   *zap.SugaredLogger
}

// Options configures the bot. Scheduler is told when a user changes
// anything that affects their plan.
type Options struct {
	DefaultTimezone string
	Scheduler       handlers.Scheduler
	Logger          *zap.SugaredLogger
}

func New(api *tgbotapi.BotAPI, db *database.DB, opts Options) *Bot {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}

	repos := &handlers.Repositories{
		User:     repository.NewUserRepository(db),
		Config:   repository.NewScheduleConfigRepository(db, opts.DefaultTimezone),
		Reminder: repository.NewReminderRepository(db),
		Intake:   repository.NewIntakeRepository(db),
	}

	return &Bot{
		api:      api,
		handlers: handlers.New(api, repos, opts.Scheduler, time.Now, logger.Named("handlers")),
		notifier: handlers.NewNotifier(api, logger.Named("notifier")),
		logger:   logger,
	}
}

// Notifier returns the reminder delivery used by the scheduler.
func (b *Bot) Notifier() *handlers.Notifier {
	return b.notifier
}

// SetScheduler attaches the scheduler when it is built after the bot.
func (b *Bot) SetScheduler(sched handlers.Scheduler) {
	b.handlers.SetScheduler(sched)
}

func (b *Bot) Start(ctx context.Context) error {
	b.logger.Infow("Authorized on account", "username", b.api.Self.UserName)

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)
	defer b.api.StopReceivingUpdates()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return fmt.Errorf("update channel closed")
			}
			go b.handleUpdate(ctx, update)
		}
	}
}

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Errorw("Panic while handling update", "update_id", update.UpdateID, "panic", r)
		}
	}()

	// Handle callback queries (inline keyboard buttons)
	if update.CallbackQuery != nil {
		b.handlers.HandleCallbackQuery(ctx, update.CallbackQuery)
		return
	}

	if update.Message == nil {
		return
	}
	if update.Message.IsCommand() {
		b.handlers.HandleCommand(ctx, update.Message)
		return
	}
	b.handlers.HandleMessage(ctx, update.Message)
}
