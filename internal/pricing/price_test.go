package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fffffranco2-lgtm/drink-cost-calculator-sub000/internal/models"
)

func TestRoundPsych(t *testing.T) {
	tests := []struct {
		name  string
		price float64
		mode  string
		want  float64
	}{
		{"none keeps price", 12.34, models.RoundingNone, 12.34},
		{"unknown mode keeps price", 12.34, "bananas", 12.34},

		{"x0 integral stays", 40.00, models.RoundingEndX0, 40.00},
		{"x0 rounds up", 40.01, models.RoundingEndX0, 41.00},
		{"x0 near integral stays", 40.0000000001, models.RoundingEndX0, 40.00},
		{"x0 zero", 0, models.RoundingEndX0, 0},

		{"x5 below target snaps up", 40.20, models.RoundingEndX5, 40.50},
		{"x5 on target stays", 40.50, models.RoundingEndX5, 40.50},
		{"x5 above target next half", 40.70, models.RoundingEndX5, 41.50},
		{"x5 integral goes to half", 40.00, models.RoundingEndX5, 40.50},

		{"x9 markup forty", 40.00, models.RoundingEndX9, 40.90},
		{"x9 on target stays", 39.90, models.RoundingEndX9, 39.90},
		{"x9 above target next ninety", 40.95, models.RoundingEndX9, 41.90},
		{"x9 small price", 0.50, models.RoundingEndX9, 0.90},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, RoundPsych(tt.price, tt.mode), 1e-9)
		})
	}
}

func TestRoundPsychIdempotent(t *testing.T) {
	modes := []string{models.RoundingNone, models.RoundingEndX0, models.RoundingEndX5, models.RoundingEndX9}
	for _, mode := range modes {
		for price := 0.0; price < 25.0; price += 0.07 {
			once := RoundPsych(price, mode)
			twice := RoundPsych(once, mode)
			require.InDelta(t, once, twice, 1e-9, "mode %s price %.2f", mode, price)
		}
	}
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 7.5, Round2(7.4999999999))
	assert.Equal(t, 2.35, Round2(2.345))
	assert.Equal(t, 0.0, Round2(0.0049999))
	assert.Equal(t, 81.8, Round2(40.9*2))
}

func quoteFixtures() (map[int64]models.Ingredient, models.PricingSettings) {
	ingredients := map[int64]models.Ingredient{
		1: {ID: 1, Name: "gin", Pricing: models.ContainerPricing{Price: 120, VolumeMl: 750, YieldMl: 720}},
	}
	settings := models.PricingSettings{
		MarkupMultiplier: 4,
		TargetCostRatio:  0.25,
		MlPerDash:        0.9,
		MlPerDrop:        0.05,
		Rounding:         models.RoundingEndX9,
	}
	return ingredients, settings
}

func TestQuoteDrink(t *testing.T) {
	ingredients, settings := quoteFixtures()
	recipe := []models.RecipeItem{{IngredientID: 1, Quantity: 45, Unit: models.UnitVolume}}

	t.Run("markup mode", func(t *testing.T) {
		drink := models.Drink{Name: "G&T", PriceMode: models.PriceModeMarkup, Recipe: recipe}
		q := QuoteDrink(drink, ingredients, settings)
		require.InDelta(t, 7.5, q.Cost, 1e-9)
		// 7.5 * 4 = 30.00 -> ends in .90
		require.InDelta(t, 30.90, q.Markup, 1e-9)
		// 7.5 / 0.25 = 30.00 -> ends in .90
		require.InDelta(t, 30.90, q.Margin, 1e-9)
		require.Equal(t, q.Markup, q.Selected)
	})

	t.Run("target margin mode", func(t *testing.T) {
		drink := models.Drink{Name: "G&T", PriceMode: models.PriceModeTargetMargin, Recipe: recipe}
		q := QuoteDrink(drink, ingredients, settings)
		require.Equal(t, q.Margin, q.Selected)
	})

	t.Run("manual price is never rounded", func(t *testing.T) {
		manual := 33.33
		drink := models.Drink{Name: "G&T", PriceMode: models.PriceModeManual, ManualPrice: &manual, Recipe: recipe}
		q := QuoteDrink(drink, ingredients, settings)
		require.Equal(t, 33.33, q.Selected)
	})

	t.Run("manual mode without manual price sells for zero", func(t *testing.T) {
		drink := models.Drink{Name: "G&T", PriceMode: models.PriceModeManual, Recipe: recipe}
		require.Zero(t, SelectPublicPrice(drink, ingredients, settings))
	})

	t.Run("zero target ratio disables margin candidate", func(t *testing.T) {
		noRatio := settings
		noRatio.TargetCostRatio = 0
		drink := models.Drink{Name: "G&T", PriceMode: models.PriceModeTargetMargin, Recipe: recipe}
		q := QuoteDrink(drink, ingredients, noRatio)
		require.Zero(t, q.Margin)
		require.Zero(t, q.Selected)
	})

	t.Run("cost ten markup four rounds to forty ninety", func(t *testing.T) {
		flat := models.PricingSettings{MarkupMultiplier: 4, Rounding: models.RoundingEndX9}
		ing := map[int64]models.Ingredient{7: {ID: 7, Pricing: models.VolumePricing{CostPerMl: 1}}}
		drink := models.Drink{
			PriceMode: models.PriceModeMarkup,
			Recipe:    []models.RecipeItem{{IngredientID: 7, Quantity: 10, Unit: models.UnitVolume}},
		}
		// cost 10.00 -> raw markup 40.00 -> 40.00 <= 40.90 -> 40.90
		require.InDelta(t, 40.90, SelectPublicPrice(drink, ing, flat), 1e-9)
	})
}
