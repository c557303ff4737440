package pricing

import (
	"math"

	"github.com/fffffranco2-lgtm/drink-cost-calculator-sub000/internal/models"
)

// eps is the tolerance used when snapping a price onto a rounding target, so
// that binary float noise (40.000000000004) still counts as "already there".
const eps = 1e-9

// Quote is the full pricing picture of one drink: its recipe cost, the three
// sale price candidates and the price selected by the drink's price mode.
// Selected is the value that gets locked into order lines.
type Quote struct {
	Cost     float64 `json:"cost"`
	Markup   float64 `json:"markup_price"`
	Margin   float64 `json:"margin_price"`
	Manual   float64 `json:"manual_price"`
	Selected float64 `json:"selected_price"`
}

// RoundPsych applies the configured psychological rounding to a computed
// price, forcing its fractional part onto the target ending. Prices are only
// ever moved up (within eps), so a rounded price is stable under re-rounding.
//
// The end_x0 mode is deliberately not the f=0.0 case of the generic rule: it
// rounds up to the next whole number unless the price is already integral,
// which is how the historical behavior shipped and what printed menus show.
func RoundPsych(price float64, mode string) float64 {
	var target float64
	switch mode {
	case models.RoundingEndX0:
		base := math.Floor(price)
		if price-base <= eps {
			return base
		}
		return base + 1
	case models.RoundingEndX5:
		target = 0.5
	case models.RoundingEndX9:
		target = 0.9
	default:
		return price
	}
	base := math.Floor(price)
	candidate := base + target
	if price <= candidate+eps {
		return candidate
	}
	return candidate + 1
}

// Round2 rounds to currency precision: two decimals, half to the nearest cent.
func Round2(x float64) float64 {
	return math.Round(x*100) / 100
}

// QuoteDrink prices one drink against a catalog and settings. Rounding is
// applied to the markup and margin candidates only; a manual price is taken
// verbatim because the operator typed exactly what they want to charge.
func QuoteDrink(drink models.Drink, ingredients map[int64]models.Ingredient, s models.PricingSettings) Quote {
	q := Quote{Cost: RecipeCost(drink.Recipe, ingredients, s)}
	q.Markup = RoundPsych(q.Cost*s.MarkupMultiplier, s.Rounding)
	if s.TargetCostRatio > 0 {
		q.Margin = RoundPsych(q.Cost/s.TargetCostRatio, s.Rounding)
	}
	if drink.ManualPrice != nil {
		q.Manual = *drink.ManualPrice
	}
	q.Selected = q.selectedFor(drink.PriceMode)
	return q
}

// SelectPublicPrice returns the drink's public sale price under its price
// mode. This value becomes the immutable unit price of order lines, so the
// selection must stay reproducible bit for bit.
func SelectPublicPrice(drink models.Drink, ingredients map[int64]models.Ingredient, s models.PricingSettings) float64 {
	return QuoteDrink(drink, ingredients, s).Selected
}

func (q Quote) selectedFor(mode string) float64 {
	switch mode {
	case models.PriceModeManual:
		return q.Manual
	case models.PriceModeTargetMargin:
		return q.Margin
	default:
		return q.Markup
	}
}
