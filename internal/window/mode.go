package window

import (
	"time"

	"github.com/charliewang306-ui/fitfuel-planner-sub001/internal/models"
)

type Mode string

const (
	ModeNormal Mode = "normal"
	ModeNight  Mode = "night"
	ModeCutoff Mode = "cutoff"
)

// TimeMode classifies a moment of the day for food guidance.
type TimeMode struct {
	Mode                Mode      `json:"mode"`
	Message             string    `json:"message"`
	LightProteinAllowed bool      `json:"light_protein_allowed"`
	CutoffStart         time.Time `json:"cutoff_start"`
	NightStart          time.Time `json:"night_start"`
}

// IsLate reports whether hydration and portions should be reduced.
func (m TimeMode) IsLate() bool {
	return m.Mode == ModeNight || m.Mode == ModeCutoff
}

// ClassifyTimeMode returns cutoff from sleep−cutoff onward, night from
// sleep−nightModeBufferMin onward, normal otherwise. Lower bounds are closed.
func ClassifyTimeMode(cfg models.ScheduleConfig, now time.Time) (TimeMode, error) {
	cfg = cfg.WithDefaults()
	day, err := activeDay(cfg, now)
	if err != nil {
		return TimeMode{}, err
	}

	cutoffStart := day.Sleep.Add(-time.Duration(cfg.CutoffMinutes()) * time.Minute)
	nightStart := day.Sleep.Add(-time.Duration(cfg.NightModeBufferMin) * time.Minute)

	mode := TimeMode{CutoffStart: cutoffStart, NightStart: nightStart}
	switch {
	case !now.Before(cutoffStart):
		mode.Mode = ModeCutoff
		mode.LightProteinAllowed = cfg.AllowLightProteinAfterCutoff
		if mode.LightProteinAllowed {
			mode.Message = "Eating window closed. Only light, high-protein, low-fat, low-carb items until bedtime."
		} else {
			mode.Message = "Eating window closed. Water only until bedtime."
		}
	case !now.Before(nightStart):
		mode.Mode = ModeNight
		mode.LightProteinAllowed = true
		mode.Message = "Evening mode: prefer lean protein and low-fiber foods."
	default:
		mode.Mode = ModeNormal
		mode.LightProteinAllowed = true
		mode.Message = "Eating window open."
	}
	return mode, nil
}
