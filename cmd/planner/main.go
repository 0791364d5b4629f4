package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/charliewang306-ui/fitfuel-planner-sub001/internal/bot"
	"github.com/charliewang306-ui/fitfuel-planner-sub001/internal/clock"
	"github.com/charliewang306-ui/fitfuel-planner-sub001/internal/config"
	"github.com/charliewang306-ui/fitfuel-planner-sub001/internal/database"
	"github.com/charliewang306-ui/fitfuel-planner-sub001/internal/daystate"
	"github.com/charliewang306-ui/fitfuel-planner-sub001/internal/logging"
	"github.com/charliewang306-ui/fitfuel-planner-sub001/internal/repository"
	"github.com/charliewang306-ui/fitfuel-planner-sub001/internal/scheduler"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the YAML config file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "fitfuel: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	// Load configuration
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Env)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer logger.Sync() //nolint:errcheck

	// Create context with cancellation
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Connect to database
	db, err := database.New(ctx, cfg.DatabaseURI, logger.Named("database"))
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()
	logger.Info("Connected to database")

	if err := db.Migrate(ctx); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	// Local day stamps survive restarts so a restart mid-day does not rebuild plans
	state, err := daystate.OpenSQLite(ctx, cfg.StatePath)
	if err != nil {
		return err
	}
	defer state.Close()

	tgAPI, err := tgbotapi.NewBotAPI(cfg.TelegramToken)
	if err != nil {
		return fmt.Errorf("failed to create Telegram API: %w", err)
	}

	b := bot.New(tgAPI, db, bot.Options{
		DefaultTimezone: cfg.DefaultTimezone,
		Logger:          logger.Named("bot"),
	})

	sched := scheduler.New(
		repository.NewScheduleConfigRepository(db, cfg.DefaultTimezone),
		repository.NewReminderRepository(db),
		daystate.NewTracker(state, logger.Named("daystate")),
		b.Notifier(),
		scheduler.Options{
			CheckInterval:    time.Duration(cfg.Scheduler.CheckInterval) * time.Second,
			FallbackInterval: time.Duration(cfg.Scheduler.FallbackInterval) * time.Second,
			StartupDelay:     time.Duration(cfg.Scheduler.StartupDelay) * time.Second,
			Logger:           logger.Named("scheduler"),
		},
	)
	sched.OnDayChange(func(userID int64, stamp clock.DayStamp) {
		logger.Debugw("Plan refreshed for new local day", "user_id", userID, "day", stamp.Key, "zone", stamp.Zone)
	})
	b.SetScheduler(sched)

	go sched.Start(ctx)

	logger.Info("Starting bot")
	if err := b.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("bot error: %w", err)
	}
	logger.Info("Shut down")
	return nil
}
