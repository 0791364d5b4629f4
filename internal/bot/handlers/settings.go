package handlers

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/charliewang306-ui/fitfuel-planner-sub001/internal/format"
	"github.com/charliewang306-ui/fitfuel-planner-sub001/internal/models"
	"github.com/charliewang306-ui/fitfuel-planner-sub001/internal/rrule"
)

var errUnknownSetting = errors.New("unknown setting")

// handleSettings shows the schedule with toggles for the boolean options
func (h *Handlers) handleSettings(ctx context.Context, msg *tgbotapi.Message) {
	cfg, ok := h.loadConfig(ctx, msg)
	if !ok {
		return
	}

	parsed := format.ParseMarkdown(settingsText(cfg))
	reply := tgbotapi.NewMessage(msg.Chat.ID, parsed.Text)
	reply.Entities = parsed.Entities
	reply.ReplyMarkup = settingsKeyboard(cfg)

	if _, err := h.api.Send(reply); err != nil {
		h.logger.Errorw("Failed to send settings menu", "chat_id", msg.Chat.ID, "error", err)
	}
}

// handleSettingsCallback handles "settings:toggle:<field>" and "settings:close"
func (h *Handlers) handleSettingsCallback(ctx context.Context, callback *tgbotapi.CallbackQuery, parts []string) {
	chatID := callback.Message.Chat.ID
	messageID := callback.Message.MessageID

	switch parts[0] {
	case "close":
		h.deleteMessage(chatID, messageID)
	case "toggle":
		if len(parts) < 2 {
			return
		}
		cfg, err := h.repos.Config.GetOrCreate(ctx, callback.From.ID)
		if err != nil {
			h.logger.Errorw("Failed to get schedule config", "user_id", callback.From.ID, "error", err)
			return
		}
		if !toggleSetting(cfg, parts[1]) {
			return
		}
		if err := h.repos.Config.Update(ctx, cfg); err != nil {
			h.logger.Errorw("Failed to toggle setting", "user_id", cfg.UserID, "field", parts[1], "error", err)
			return
		}
		h.sched.Rebuild(cfg.UserID)
		h.editMessageWithKeyboard(chatID, messageID, settingsText(cfg), settingsKeyboard(cfg))
	}
}

func (h *Handlers) handleSet(ctx context.Context, msg *tgbotapi.Message) {
	args := strings.Fields(msg.CommandArguments())
	if len(args) != 2 {
		h.sendMessage(msg.Chat.ID, setUsage)
		return
	}

	cfg, ok := h.loadConfig(ctx, msg)
	if !ok {
		return
	}

	if err := applySetting(cfg, strings.ToLower(args[0]), args[1]); err != nil {
		h.sendMessage(msg.Chat.ID, fmt.Sprintf("❌ %v\n\n%s", err, setUsage))
		return
	}
	if err := cfg.Validate(); err != nil {
		h.sendMessage(msg.Chat.ID, "❌ That value is out of range. Check /help.")
		return
	}
	if err := h.repos.Config.Update(ctx, cfg); err != nil {
		h.logger.Errorw("Failed to update schedule config", "user_id", cfg.UserID, "error", err)
		h.sendMessage(msg.Chat.ID, "Could not save your settings, please try again later.")
		return
	}
	h.logger.Infow("Schedule config updated", "user_id", cfg.UserID, "field", args[0], "value", args[1])
	h.sched.Rebuild(cfg.UserID)

	h.sendMessage(msg.Chat.ID, "✅ Saved. Your plan will be rebuilt.\n\n"+settingsText(cfg))
}

const setUsage = `Usage: /set <field> <value>
wake 06:30 | sleep 23:00 | snacks 0-2 | interval 2-3 (hours)
zone Europe/Berlin | weight 170 (lb) | exercise 45 (min today)
goal 80 (oz, 0 = automatic) | grace 60 (min) | flex on/off`

// applySetting writes one user-supplied value into cfg. Range checks are left
// to cfg.Validate.
func applySetting(cfg *models.ScheduleConfig, field, value string) error {
	switch field {
	case "wake", "sleep":
		if _, err := models.ParseClock(value); err != nil {
			return fmt.Errorf("time must look like 07:30")
		}
		if field == "wake" {
			cfg.WakeTime = value
		} else {
			cfg.SleepTime = value
		}
	case "snacks", "grace":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("%s must be a whole number", field)
		}
		if field == "snacks" {
			cfg.SnacksCount = n
		} else {
			cfg.MissedGraceMinutes = n
		}
	case "interval", "weight", "exercise", "goal":
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("%s must be a number", field)
		}
		switch field {
		case "interval":
			cfg.WaterIntervalHours = v
		case "weight":
			cfg.WeightLb = v
		case "exercise":
			cfg.TodayExerciseMinutes = v
		case "goal":
			cfg.WaterGoalOverrideOz = v
		}
	case "zone":
		if _, err := time.LoadLocation(value); err != nil {
			return fmt.Errorf("unknown time zone %q", value)
		}
		cfg.Timezone = value
	case "flex":
		on, err := parseOnOff(value)
		if err != nil {
			return err
		}
		cfg.FlexibilityWindowEnabled = on
	default:
		return fmt.Errorf("%w %q", errUnknownSetting, field)
	}
	return nil
}

func parseOnOff(v string) (bool, error) {
	switch strings.ToLower(v) {
	case "on", "yes", "true", "1":
		return true, nil
	case "off", "no", "false", "0":
		return false, nil
	}
	return false, fmt.Errorf("use on or off")
}

// toggleSetting flips one boolean option; false for an unknown field.
func toggleSetting(cfg *models.ScheduleConfig, field string) bool {
	switch field {
	case "planner":
		cfg.PlannerEnabled = !cfg.PlannerEnabled
	case "quiet":
		cfg.QuietPeriodEnabled = !cfg.QuietPeriodEnabled
	case "reschedule":
		cfg.AutoRescheduleMeals = !cfg.AutoRescheduleMeals
	case "protein":
		cfg.AllowLightProteinAfterCutoff = !cfg.AllowLightProteinAfterCutoff
	case "flex":
		cfg.FlexibilityWindowEnabled = !cfg.FlexibilityWindowEnabled
	default:
		return false
	}
	return true
}

func onOff(v bool) string {
	if v {
		return "✅"
	}
	return "❌"
}

func settingsText(cfg *models.ScheduleConfig) string {
	c := cfg.WithDefaults()
	goal := "automatic"
	if c.WaterGoalOverrideOz > 0 {
		goal = format.Oz(c.WaterGoalOverrideOz)
	}
	var sb strings.Builder
	sb.WriteString("⚙️ **Settings**\n\n")
	fmt.Fprintf(&sb, "🌅 Wake `%s`, 🌙 sleep `%s` (%s)\n", c.WakeTime, c.SleepTime, c.Timezone)
	fmt.Fprintf(&sb, "🍎 Snacks: %d\n", c.SnacksCount)
	fmt.Fprintf(&sb, "💧 Water %s, goal %s\n", rrule.Describe(time.Duration(c.WaterIntervalMinutes())*time.Minute), goal)
	if c.WeightLb > 0 {
		fmt.Fprintf(&sb, "⚖️ Weight: %.0f lb\n", c.WeightLb)
	}
	if c.TodayExerciseMinutes > 0 {
		fmt.Fprintf(&sb, "🏃 Exercise today: %.0f min\n", c.TodayExerciseMinutes)
	}
	fmt.Fprintf(&sb, "⏱ Missed after %d min\n\n", c.MissedGraceMinutes)
	fmt.Fprintf(&sb, "%s Reminders\n", onOff(c.PlannerEnabled))
	fmt.Fprintf(&sb, "%s Quiet hours for water\n", onOff(c.QuietPeriodEnabled))
	fmt.Fprintf(&sb, "%s Move meals into the eating window\n", onOff(c.AutoRescheduleMeals))
	fmt.Fprintf(&sb, "%s Light protein after cutoff\n", onOff(c.AllowLightProteinAfterCutoff))
	fmt.Fprintf(&sb, "%s Tolerance window (%d min)", onOff(c.FlexibilityWindowEnabled), c.FlexibilityWindowMinutes)
	return sb.String()
}

func settingsKeyboard(cfg *models.ScheduleConfig) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(onOff(cfg.PlannerEnabled)+" Reminders", "settings:toggle:planner"),
			tgbotapi.NewInlineKeyboardButtonData(onOff(cfg.QuietPeriodEnabled)+" Quiet hours", "settings:toggle:quiet"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(onOff(cfg.AutoRescheduleMeals)+" Reschedule", "settings:toggle:reschedule"),
			tgbotapi.NewInlineKeyboardButtonData(onOff(cfg.AllowLightProteinAfterCutoff)+" Late protein", "settings:toggle:protein"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(onOff(cfg.FlexibilityWindowEnabled)+" Tolerance", "settings:toggle:flex"),
			tgbotapi.NewInlineKeyboardButtonData("❌ Close", "settings:close"),
		),
	)
}
