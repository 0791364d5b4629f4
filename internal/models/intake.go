package models

import "time"

// BeverageLog is one logged drink. Raw amount is always recorded; the
// effective amount is what counted toward the water target.
type BeverageLog struct {
	ID          string    `json:"id"`
	UserID      int64     `json:"user_id"`
	DayKey      string    `json:"day_key"`
	Beverage    string    `json:"beverage"`
	AmountOz    float64   `json:"amount_oz"`
	EffectiveOz float64   `json:"effective_oz"`
	WasReduced  bool      `json:"was_reduced"`
	LoggedAt    time.Time `json:"logged_at"`
}

// DayIntake aggregates a user's logged drinks for one local day.
type DayIntake struct {
	EffectiveOz float64
	ByBeverage  map[string]float64 // effective oz per beverage type
}
