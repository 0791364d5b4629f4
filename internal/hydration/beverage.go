package hydration

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
)

var (
	ErrUnknownBeverage = errors.New("unknown beverage type")
	ErrInvalidAmount   = errors.New("beverage amount must not be negative")
)

// Beverage describes how much of a drink counts toward the water target.
// MaxContributionPercent bounds the share of the daily target one type may
// cover.
type Beverage struct {
	Type                   string  `json:"type"`
	HydrationFactor        float64 `json:"hydration_factor"`
	MaxContributionPercent float64 `json:"max_contribution_percent"`
	Caloric                bool    `json:"caloric"`
}

var catalogue = map[string]Beverage{
	"water":           {Type: "water", HydrationFactor: 1.0, MaxContributionPercent: 100},
	"sparkling-water": {Type: "sparkling-water", HydrationFactor: 1.0, MaxContributionPercent: 100},
	"unsweetened-tea": {Type: "unsweetened-tea", HydrationFactor: 0.85, MaxContributionPercent: 100},
	"black-coffee":    {Type: "black-coffee", HydrationFactor: 0.75, MaxContributionPercent: 30},
	"juice":           {Type: "juice", Caloric: true},
	"soda":            {Type: "soda", Caloric: true},
	"milk":            {Type: "milk", Caloric: true},
	"sweetened-tea":   {Type: "sweetened-tea", Caloric: true},
	"sports-drink":    {Type: "sports-drink", Caloric: true},
	"smoothie":        {Type: "smoothie", Caloric: true},
	"alcohol":         {Type: "alcohol", Caloric: true},
}

// Lookup returns the catalogue entry for a beverage type.
func Lookup(beverageType string) (Beverage, error) {
	b, ok := catalogue[strings.ToLower(strings.TrimSpace(beverageType))]
	if !ok {
		return Beverage{}, fmt.Errorf("%w: %q", ErrUnknownBeverage, beverageType)
	}
	return b, nil
}

// Types lists the known beverage types in alphabetical order.
func Types() []string {
	out := make([]string, 0, len(catalogue))
	for k := range catalogue {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

type Contribution struct {
	AmountOz    float64 `json:"amount_oz"`
	Beverage    string  `json:"beverage"`
	EffectiveOz float64 `json:"effective_oz"`
	CappedOz    float64 `json:"capped_oz"` // credit withheld by the cap
	WasReduced  bool    `json:"was_reduced"`
	Caloric     bool    `json:"caloric"`
}

// CalculateEffectiveHydration credits amountOz of a beverage. For capped
// types the credit already earned today (cumulativeSoFar) plus this one may
// not exceed dailyTarget × cap%; anything above is withheld and flagged.
// The raw amount is always returned so callers can still log it.
func CalculateEffectiveHydration(amountOz float64, beverageType string, cumulativeSoFar, dailyTarget float64) (Contribution, error) {
	if amountOz < 0 || math.IsNaN(amountOz) {
		return Contribution{}, fmt.Errorf("%w: %v", ErrInvalidAmount, amountOz)
	}
	b, err := Lookup(beverageType)
	if err != nil {
		return Contribution{}, err
	}

	c := Contribution{AmountOz: amountOz, Beverage: b.Type, Caloric: b.Caloric}
	if b.Caloric || b.HydrationFactor == 0 {
		return c, nil
	}

	base := amountOz * b.HydrationFactor
	effective := base
	if b.MaxContributionPercent < 100 {
		limit := dailyTarget * b.MaxContributionPercent / 100
		room := math.Max(0, limit-math.Max(0, cumulativeSoFar))
		effective = math.Min(base, room)
	}

	c.EffectiveOz = effective
	c.CappedOz = base - effective
	c.WasReduced = c.CappedOz > 0
	return c, nil
}
