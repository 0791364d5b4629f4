package handlers

import (
	"context"
	"errors"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/charliewang306-ui/fitfuel-planner-sub001/internal/format"
	"github.com/charliewang306-ui/fitfuel-planner-sub001/internal/hydration"
	"github.com/charliewang306-ui/fitfuel-planner-sub001/internal/models"
	"github.com/charliewang306-ui/fitfuel-planner-sub001/internal/window"
)

// guidance assembles today's WaterGuidance for a user.
func (h *Handlers) guidance(ctx context.Context, cfg *models.ScheduleConfig) (hydration.WaterGuidance, *models.DayIntake, error) {
	c := h.userClock(cfg)
	now := c.Now()

	totals, err := h.repos.Intake.DayTotals(ctx, cfg.UserID, c.DayKey())
	if err != nil {
		return hydration.WaterGuidance{}, nil, err
	}
	reminders, err := h.repos.Reminder.GetByDay(ctx, cfg.UserID, c.DayKey())
	if err != nil {
		return hydration.WaterGuidance{}, nil, err
	}
	left := make([]models.Reminder, 0, len(reminders))
	for _, r := range reminders {
		left = append(left, *r)
	}

	in := hydration.InputFromConfig(*cfg)
	in.DrankOz = totals.EffectiveOz
	in.RemindersLeft = hydration.RemindersLeft(left, now)
	if mode, err := window.ClassifyTimeMode(*cfg, now); err == nil {
		in.IsLate = mode.IsLate()
	}
	return hydration.Guide(in), totals, nil
}

func (h *Handlers) handleWater(ctx context.Context, msg *tgbotapi.Message) {
	cfg, ok := h.loadConfig(ctx, msg)
	if !ok {
		return
	}
	g, _, err := h.guidance(ctx, cfg)
	if err != nil {
		h.logger.Errorw("Failed to build water guidance", "user_id", cfg.UserID, "error", err)
		h.sendMessage(msg.Chat.ID, "Could not load your hydration, please try again later.")
		return
	}
	h.sendMessage(msg.Chat.ID, format.GuidanceText(g))
}

func (h *Handlers) handleDrink(ctx context.Context, msg *tgbotapi.Message) {
	usage := "Usage: /drink <type> <oz>\nTypes: " + strings.Join(hydration.Types(), ", ")

	args := strings.Fields(msg.CommandArguments())
	if len(args) != 2 {
		h.sendMessage(msg.Chat.ID, usage)
		return
	}
	amount, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		h.sendMessage(msg.Chat.ID, "Amount must be a number of ounces, e.g. /drink water 12")
		return
	}

	cfg, ok := h.loadConfig(ctx, msg)
	if !ok {
		return
	}
	g, totals, err := h.guidance(ctx, cfg)
	if err != nil {
		h.logger.Errorw("Failed to build water guidance", "user_id", cfg.UserID, "error", err)
		h.sendMessage(msg.Chat.ID, "Could not log your drink, please try again later.")
		return
	}

	beverage := strings.ToLower(args[0])
	contribution, err := hydration.CalculateEffectiveHydration(amount, beverage, totals.ByBeverage[beverage], g.TargetOz)
	switch {
	case errors.Is(err, hydration.ErrUnknownBeverage):
		h.sendMessage(msg.Chat.ID, "I don't know that drink.\n"+usage)
		return
	case errors.Is(err, hydration.ErrInvalidAmount):
		h.sendMessage(msg.Chat.ID, "Amount cannot be negative.")
		return
	case err != nil:
		h.sendMessage(msg.Chat.ID, "Could not log your drink, please try again later.")
		return
	}

	entry := &models.BeverageLog{
		UserID:      cfg.UserID,
		DayKey:      h.userClock(cfg).DayKey(),
		Beverage:    contribution.Beverage,
		AmountOz:    contribution.AmountOz,
		EffectiveOz: contribution.EffectiveOz,
		WasReduced:  contribution.WasReduced,
	}
	if err := h.repos.Intake.Log(ctx, entry); err != nil {
		h.logger.Errorw("Failed to log beverage", "user_id", cfg.UserID, "error", err)
		h.sendMessage(msg.Chat.ID, "Could not log your drink, please try again later.")
		return
	}
	h.logger.Infow("Logged beverage", "user_id", cfg.UserID, "beverage", entry.Beverage,
		"amount_oz", entry.AmountOz, "effective_oz", entry.EffectiveOz, "was_reduced", entry.WasReduced)

	h.sendMessage(msg.Chat.ID, format.ContributionText(contribution, totals.EffectiveOz+contribution.EffectiveOz))
}
