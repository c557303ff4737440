package models

import "time"

// Rounding modes stored in pricing_settings.rounding_mode. The end_* modes
// force the fractional part of a computed price to a fixed marketing value.
const (
	RoundingNone  = "none"
	RoundingEndX0 = "end_x0"
	RoundingEndX5 = "end_x5"
	RoundingEndX9 = "end_x9"
)

// PricingSettings is the single-row set of global pricing knobs. Markup and
// target ratio feed the price candidates; ml-per-dash/drop convert the
// recipe-only units; Rounding applies to computed (not manual) prices.
type PricingSettings struct {
	MarkupMultiplier float64   `json:"markup_multiplier" db:"markup_multiplier"`
	TargetCostRatio  float64   `json:"target_cost_ratio" db:"target_cost_ratio"` // cost / sale price, 0..1
	MlPerDash        float64   `json:"ml_per_dash" db:"ml_per_dash"`
	MlPerDrop        float64   `json:"ml_per_drop" db:"ml_per_drop"`
	Rounding         string    `json:"rounding_mode" db:"rounding_mode"`
	UpdatedAt        time.Time `json:"updated_at" db:"updated_at"`
}

// ValidRoundingMode reports whether mode is one of the known rounding tags.
func ValidRoundingMode(mode string) bool {
	switch mode {
	case RoundingNone, RoundingEndX0, RoundingEndX5, RoundingEndX9:
		return true
	default:
		return false
	}
}
