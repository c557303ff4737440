// Package pricing turns the ingredient catalog and a drink recipe into a
// sellable price. Every function here is pure: no storage access, no clock,
// no shared state, safe for any number of concurrent callers.
package pricing

import (
	"github.com/fffffranco2-lgtm/drink-cost-calculator-sub000/internal/models"
)

// CostPerVolume resolves an ingredient to its cost per millilitre.
// The second return value is false for unit-priced ingredients, which have no
// volume cost at all; callers should use UnitCost for those instead.
// Malformed data degrades to a 0 cost rather than an error so that one bad
// catalog row can never break pricing of a whole menu.
func CostPerVolume(ing models.Ingredient) (float64, bool) {
	switch p := ing.Pricing.(type) {
	case models.VolumePricing:
		if p.CostPerMl > 0 {
			return p.CostPerMl, true
		}
		return 0, true
	case models.ContainerPricing:
		yield := p.YieldMl
		if yield <= 0 {
			yield = p.VolumeMl
		}
		effective := yield * (1 - clampPercent(p.LossPercent)/100)
		// Guard before dividing: zero or negative price/yield must produce a
		// plain 0, never a division by zero or a negative cost.
		if p.Price <= 0 || effective <= 0 {
			return 0, true
		}
		return p.Price / effective, true
	case models.UnitPricing:
		return 0, false
	default:
		return 0, true
	}
}

// UnitCost returns the cost of one discrete piece of an ingredient.
// Ingredients that are not unit-priced cost 0 per piece.
func UnitCost(ing models.Ingredient) float64 {
	if p, ok := ing.Pricing.(models.UnitPricing); ok && p.CostPerUnit > 0 {
		return p.CostPerUnit
	}
	return 0
}

// VolumeMl converts a recipe quantity in the given unit to millilitres.
// Dash and drop sizes come from the global settings; volume is the identity.
func VolumeMl(qty float64, unit string, s models.PricingSettings) float64 {
	switch unit {
	case models.UnitDash:
		return qty * s.MlPerDash
	case models.UnitDrop:
		return qty * s.MlPerDrop
	default:
		return qty
	}
}

// RecipeCost sums the cost of every recipe item against the ingredient
// catalog. A dangling ingredient reference contributes 0 — a deleted
// ingredient must not crash price computation for drinks still carrying it.
func RecipeCost(items []models.RecipeItem, ingredients map[int64]models.Ingredient, s models.PricingSettings) float64 {
	var total float64
	for _, item := range items {
		ing, ok := ingredients[item.IngredientID]
		if !ok {
			continue
		}
		if item.Unit == models.UnitDiscrete {
			total += item.Quantity * UnitCost(ing)
			continue
		}
		perMl, ok := CostPerVolume(ing)
		if !ok {
			// Unit-priced ingredient measured by volume: no volume cost.
			continue
		}
		total += VolumeMl(item.Quantity, item.Unit, s) * perMl
	}
	return total
}

func clampPercent(p float64) float64 {
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}
