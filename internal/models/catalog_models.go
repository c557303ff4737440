package models

import "time"

// Pricing model tags stored in ingredients.pricing_model.
const (
	PricingByVolume    = "by_volume"
	PricingByContainer = "by_container"
	PricingByUnit      = "by_unit"
)

// PricingModel is the sealed set of ways an ingredient's cost can be derived.
// Exactly one variant is active per ingredient; database columns belonging to
// the other variants are ignored on load, not validated away.
type PricingModel interface {
	ModelTag() string
}

// VolumePricing prices an ingredient directly per millilitre.
type VolumePricing struct {
	CostPerMl float64 `json:"cost_per_ml" db:"cost_per_ml"`
}

func (VolumePricing) ModelTag() string { return PricingByVolume }

// ContainerPricing derives the cost per millilitre from a purchased container:
// price divided by the usable volume after pouring losses.
type ContainerPricing struct {
	Price       float64 `json:"price" db:"container_price"`
	VolumeMl    float64 `json:"volume_ml" db:"container_volume_ml"` // nominal volume printed on the bottle
	YieldMl     float64 `json:"yield_ml" db:"container_yield_ml"`   // usable volume; 0 falls back to VolumeMl
	LossPercent float64 `json:"loss_percent" db:"loss_percent"`     // additional loss, clamped to 0..100
}

func (ContainerPricing) ModelTag() string { return PricingByContainer }

// UnitPricing prices an ingredient per discrete piece (olives, eggs, napkins on a skewer).
// Such ingredients carry no volume cost.
type UnitPricing struct {
	CostPerUnit float64 `json:"cost_per_unit" db:"cost_per_unit"`
}

func (UnitPricing) ModelTag() string { return PricingByUnit }

// Ingredient is a catalog entry the recipes reference.
type Ingredient struct {
	ID        int64        `json:"id" db:"id"`
	Name      string       `json:"name" db:"name"`
	Pricing   PricingModel `json:"-"`
	CreatedAt time.Time    `json:"created_at" db:"created_at"`
	UpdatedAt time.Time    `json:"updated_at" db:"updated_at"`
}

// Recipe item units. Dash and drop are recipe-only units converted to
// millilitres through PricingSettings at costing time.
const (
	UnitVolume   = "volume"
	UnitDiscrete = "discrete"
	UnitDash     = "dash"
	UnitDrop     = "drop"
)

// RecipeItem links a drink to one ingredient with a quantity and unit.
type RecipeItem struct {
	ID           int64   `json:"id" db:"id"`
	DrinkID      int64   `json:"drink_id" db:"drink_id"`
	IngredientID int64   `json:"ingredient_id" db:"ingredient_id"`
	Quantity     float64 `json:"quantity" db:"quantity"`
	Unit         string  `json:"unit" db:"unit"`
	Position     int     `json:"position" db:"position"`
}

// Price modes stored in drinks.price_mode.
const (
	PriceModeMarkup       = "markup"
	PriceModeTargetMargin = "target_margin"
	PriceModeManual       = "manual"
)

// Drink is a sellable recipe. ManualPrice is only meaningful in manual mode;
// IsPublic controls whether the drink appears on the public menu and can be ordered.
type Drink struct {
	ID          int64        `json:"id" db:"id"`
	Name        string       `json:"name" db:"name"`
	PriceMode   string       `json:"price_mode" db:"price_mode"`
	ManualPrice *float64     `json:"manual_price,omitempty" db:"manual_price"`
	IsPublic    bool         `json:"is_public" db:"is_public"`
	Recipe      []RecipeItem `json:"recipe"`
	CreatedAt   time.Time    `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at" db:"updated_at"`
}

// CatalogSnapshot is one consistent read of the pricing inputs plus the
// watermark of the most recent catalog change. Order creation prices against
// a snapshot so every line of one order sees the same catalog state.
type CatalogSnapshot struct {
	Ingredients map[int64]Ingredient `json:"-"`
	Drinks      []Drink              `json:"drinks"`
	Settings    PricingSettings      `json:"settings"`
	UpdatedAt   time.Time            `json:"updated_at"`
}

// DrinkByID returns the snapshot drink with the given id, or nil.
func (s *CatalogSnapshot) DrinkByID(id int64) *Drink {
	for i := range s.Drinks {
		if s.Drinks[i].ID == id {
			return &s.Drinks[i]
		}
	}
	return nil
}
