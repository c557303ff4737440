package services

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fffffranco2-lgtm/drink-cost-calculator-sub000/internal/models"
	"github.com/fffffranco2-lgtm/drink-cost-calculator-sub000/internal/pricing"
	"github.com/fffffranco2-lgtm/drink-cost-calculator-sub000/internal/repositories"
)

// --- Catalog DTOs ---

// IngredientRequest creates or fully replaces an ingredient. Only the fields
// of the selected pricing model are read; the rest are ignored.
type IngredientRequest struct {
	Name         string  `json:"name" binding:"required"`
	PricingModel string  `json:"pricing_model" binding:"required"`
	CostPerMl    float64 `json:"cost_per_ml"`
	Price        float64 `json:"price"`
	VolumeMl     float64 `json:"volume_ml"`
	YieldMl      float64 `json:"yield_ml"`
	LossPercent  float64 `json:"loss_percent"`
	CostPerUnit  float64 `json:"cost_per_unit"`
}

// RecipeItemRequest is one ingredient reference inside a drink request.
type RecipeItemRequest struct {
	IngredientID int64   `json:"ingredient_id" binding:"required"`
	Quantity     float64 `json:"quantity"`
	Unit         string  `json:"unit" binding:"required"`
}

// DrinkRequest creates or fully replaces a drink, recipe included.
type DrinkRequest struct {
	Name        string              `json:"name" binding:"required"`
	PriceMode   string              `json:"price_mode" binding:"required"`
	ManualPrice *float64            `json:"manual_price"`
	IsPublic    bool                `json:"is_public"`
	Recipe      []RecipeItemRequest `json:"recipe"`
}

// SettingsRequest replaces the global pricing settings.
type SettingsRequest struct {
	MarkupMultiplier float64 `json:"markup_multiplier"`
	TargetCostRatio  float64 `json:"target_cost_ratio"`
	MlPerDash        float64 `json:"ml_per_dash"`
	MlPerDrop        float64 `json:"ml_per_drop"`
	Rounding         string  `json:"rounding_mode" binding:"required"`
}

// MenuItem is one publicly listed drink with its live display price.
type MenuItem struct {
	ID    int64   `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

// --- CatalogService Interface ---

// CatalogService manages the pricing reference data and exposes the snapshot
// the order pipeline prices against.
type CatalogService interface {
	CreateIngredient(req IngredientRequest) (*models.Ingredient, error)
	GetIngredientByID(id int64) (*models.Ingredient, error)
	GetIngredients() ([]models.Ingredient, error)
	UpdateIngredient(id int64, req IngredientRequest) (*models.Ingredient, error)
	DeleteIngredient(id int64) error

	CreateDrink(req DrinkRequest) (*models.Drink, error)
	GetDrinkByID(id int64) (*models.Drink, error)
	GetDrinks() ([]models.Drink, error)
	UpdateDrink(id int64, req DrinkRequest) (*models.Drink, error)
	DeleteDrink(id int64) error
	DrinkQuote(id int64) (*pricing.Quote, error)

	GetSettings() (*models.PricingSettings, error)
	UpdateSettings(req SettingsRequest) (*models.PricingSettings, error)

	Snapshot() (*models.CatalogSnapshot, error)
	Menu(since *time.Time) ([]MenuItem, time.Time, bool, error)
}

type catalogService struct {
	catalogRepo repositories.CatalogRepository
	db          *sql.DB
}

// NewCatalogService creates a new instance of CatalogService.
func NewCatalogService(repo repositories.CatalogRepository, db *sql.DB) CatalogService {
	return &catalogService{catalogRepo: repo, db: db}
}

// --- Ingredient Methods ---

func pricingFromRequest(req IngredientRequest) (models.PricingModel, error) {
	switch req.PricingModel {
	case models.PricingByVolume:
		return models.VolumePricing{CostPerMl: req.CostPerMl}, nil
	case models.PricingByContainer:
		return models.ContainerPricing{
			Price:       req.Price,
			VolumeMl:    req.VolumeMl,
			YieldMl:     req.YieldMl,
			LossPercent: req.LossPercent,
		}, nil
	case models.PricingByUnit:
		return models.UnitPricing{CostPerUnit: req.CostPerUnit}, nil
	default:
		return nil, fmt.Errorf("%w: unknown pricing model '%s'", ErrValidation, req.PricingModel)
	}
}

func (s *catalogService) CreateIngredient(req IngredientRequest) (*models.Ingredient, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, fmt.Errorf("%w: ingredient name cannot be empty", ErrValidation)
	}
	p, err := pricingFromRequest(req)
	if err != nil {
		return nil, err
	}
	ing := &models.Ingredient{Name: strings.TrimSpace(req.Name), Pricing: p}
	id, err := s.catalogRepo.CreateIngredient(s.db, ing)
	if err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, fmt.Errorf("%w: %s", ErrConflict, err.Error())
		}
		return nil, fmt.Errorf("failed to create ingredient: %w", err)
	}
	return s.catalogRepo.GetIngredientByID(id)
}

func (s *catalogService) GetIngredientByID(id int64) (*models.Ingredient, error) {
	ing, err := s.catalogRepo.GetIngredientByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: ingredient %d", ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to get ingredient: %w", err)
	}
	return ing, nil
}

func (s *catalogService) GetIngredients() ([]models.Ingredient, error) {
	return s.catalogRepo.GetIngredients()
}

func (s *catalogService) UpdateIngredient(id int64, req IngredientRequest) (*models.Ingredient, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, fmt.Errorf("%w: ingredient name cannot be empty", ErrValidation)
	}
	p, err := pricingFromRequest(req)
	if err != nil {
		return nil, err
	}
	ing := &models.Ingredient{ID: id, Name: strings.TrimSpace(req.Name), Pricing: p}
	if err := s.catalogRepo.UpdateIngredient(s.db, ing); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: ingredient %d", ErrNotFound, id)
		}
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, fmt.Errorf("%w: %s", ErrConflict, err.Error())
		}
		return nil, fmt.Errorf("failed to update ingredient: %w", err)
	}
	return s.catalogRepo.GetIngredientByID(id)
}

func (s *catalogService) DeleteIngredient(id int64) error {
	// Recipes referencing the ingredient are left alone: a dangling reference
	// costs 0 at pricing time instead of breaking the drink.
	if err := s.catalogRepo.DeleteIngredient(s.db, id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return fmt.Errorf("%w: ingredient %d", ErrNotFound, id)
		}
		return fmt.Errorf("failed to delete ingredient: %w", err)
	}
	return nil
}

// --- Drink Methods ---

func validateDrinkRequest(req DrinkRequest) error {
	if strings.TrimSpace(req.Name) == "" {
		return fmt.Errorf("%w: drink name cannot be empty", ErrValidation)
	}
	switch req.PriceMode {
	case models.PriceModeMarkup, models.PriceModeTargetMargin, models.PriceModeManual:
	default:
		return fmt.Errorf("%w: unknown price mode '%s'", ErrValidation, req.PriceMode)
	}
	for _, item := range req.Recipe {
		switch item.Unit {
		case models.UnitVolume, models.UnitDiscrete, models.UnitDash, models.UnitDrop:
		default:
			return fmt.Errorf("%w: unknown recipe unit '%s'", ErrValidation, item.Unit)
		}
		if item.Quantity < 0 {
			return fmt.Errorf("%w: recipe quantity cannot be negative", ErrValidation)
		}
	}
	return nil
}

func drinkFromRequest(req DrinkRequest) *models.Drink {
	recipe := make([]models.RecipeItem, 0, len(req.Recipe))
	for i, item := range req.Recipe {
		recipe = append(recipe, models.RecipeItem{
			IngredientID: item.IngredientID,
			Quantity:     item.Quantity,
			Unit:         item.Unit,
			Position:     i,
		})
	}
	return &models.Drink{
		Name:        strings.TrimSpace(req.Name),
		PriceMode:   req.PriceMode,
		ManualPrice: req.ManualPrice,
		IsPublic:    req.IsPublic,
		Recipe:      recipe,
	}
}

func (s *catalogService) CreateDrink(req DrinkRequest) (*models.Drink, error) {
	if err := validateDrinkRequest(req); err != nil {
		return nil, err
	}
	drink := drinkFromRequest(req)

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("%w: starting transaction: %v", ErrUpstream, err)
	}
	defer tx.Rollback()

	id, err := s.catalogRepo.CreateDrink(tx, drink)
	if err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, fmt.Errorf("%w: %s", ErrConflict, err.Error())
		}
		return nil, fmt.Errorf("failed to create drink: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("%w: committing drink: %v", ErrUpstream, err)
	}
	return s.catalogRepo.GetDrinkByID(id)
}

func (s *catalogService) GetDrinkByID(id int64) (*models.Drink, error) {
	drink, err := s.catalogRepo.GetDrinkByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: drink %d", ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to get drink: %w", err)
	}
	return drink, nil
}

func (s *catalogService) GetDrinks() ([]models.Drink, error) {
	return s.catalogRepo.GetDrinks(false)
}

func (s *catalogService) UpdateDrink(id int64, req DrinkRequest) (*models.Drink, error) {
	if err := validateDrinkRequest(req); err != nil {
		return nil, err
	}
	drink := drinkFromRequest(req)
	drink.ID = id

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("%w: starting transaction: %v", ErrUpstream, err)
	}
	defer tx.Rollback()

	if err := s.catalogRepo.UpdateDrink(tx, drink); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: drink %d", ErrNotFound, id)
		}
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, fmt.Errorf("%w: %s", ErrConflict, err.Error())
		}
		return nil, fmt.Errorf("failed to update drink: %w", err)
	}
	if err := s.catalogRepo.ReplaceRecipe(tx, id, drink.Recipe); err != nil {
		return nil, fmt.Errorf("failed to replace recipe: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("%w: committing drink update: %v", ErrUpstream, err)
	}
	return s.catalogRepo.GetDrinkByID(id)
}

func (s *catalogService) DeleteDrink(id int64) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("%w: starting transaction: %v", ErrUpstream, err)
	}
	defer tx.Rollback()

	if err := s.catalogRepo.DeleteDrink(tx, id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return fmt.Errorf("%w: drink %d", ErrNotFound, id)
		}
		return fmt.Errorf("failed to delete drink: %w", err)
	}
	return tx.Commit()
}

// DrinkQuote prices one drink against the current catalog — the calculator
// screen's data source.
func (s *catalogService) DrinkQuote(id int64) (*pricing.Quote, error) {
	snapshot, err := s.Snapshot()
	if err != nil {
		return nil, err
	}
	drink := snapshot.DrinkByID(id)
	if drink == nil {
		return nil, fmt.Errorf("%w: drink %d", ErrNotFound, id)
	}
	q := pricing.QuoteDrink(*drink, snapshot.Ingredients, snapshot.Settings)
	return &q, nil
}

// --- Settings Methods ---

func (s *catalogService) GetSettings() (*models.PricingSettings, error) {
	settings, err := s.catalogRepo.GetSettings()
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			// A fresh database has no settings row yet; defaults apply.
			return &models.PricingSettings{Rounding: models.RoundingNone}, nil
		}
		return nil, fmt.Errorf("failed to get settings: %w", err)
	}
	return settings, nil
}

func (s *catalogService) UpdateSettings(req SettingsRequest) (*models.PricingSettings, error) {
	if !models.ValidRoundingMode(req.Rounding) {
		return nil, fmt.Errorf("%w: unknown rounding mode '%s'", ErrValidation, req.Rounding)
	}
	if req.TargetCostRatio < 0 || req.TargetCostRatio > 1 {
		return nil, fmt.Errorf("%w: target cost ratio must be within [0,1]", ErrValidation)
	}
	if req.MarkupMultiplier < 0 || req.MlPerDash < 0 || req.MlPerDrop < 0 {
		return nil, fmt.Errorf("%w: negative settings values", ErrValidation)
	}
	settings := &models.PricingSettings{
		MarkupMultiplier: req.MarkupMultiplier,
		TargetCostRatio:  req.TargetCostRatio,
		MlPerDash:        req.MlPerDash,
		MlPerDrop:        req.MlPerDrop,
		Rounding:         req.Rounding,
	}
	if err := s.catalogRepo.UpdateSettings(s.db, settings); err != nil {
		return nil, fmt.Errorf("failed to update settings: %w", err)
	}
	return settings, nil
}

// --- Snapshot & Menu ---

// Snapshot reads the full pricing input in one pass. Order creation prices
// every cart line against a single snapshot so mid-request catalog edits
// cannot split an order across two catalog states.
func (s *catalogService) Snapshot() (*models.CatalogSnapshot, error) {
	ingredients, err := s.catalogRepo.GetIngredients()
	if err != nil {
		return nil, fmt.Errorf("%w: reading ingredients: %v", ErrUpstream, err)
	}
	drinks, err := s.catalogRepo.GetDrinks(false)
	if err != nil {
		return nil, fmt.Errorf("%w: reading drinks: %v", ErrUpstream, err)
	}
	settings, err := s.GetSettings()
	if err != nil {
		return nil, fmt.Errorf("%w: reading settings: %v", ErrUpstream, err)
	}
	watermark, err := s.catalogRepo.LastUpdated()
	if err != nil {
		return nil, fmt.Errorf("%w: reading catalog watermark: %v", ErrUpstream, err)
	}

	byID := make(map[int64]models.Ingredient, len(ingredients))
	for _, ing := range ingredients {
		byID[ing.ID] = ing
	}
	return &models.CatalogSnapshot{
		Ingredients: byID,
		Drinks:      drinks,
		Settings:    *settings,
		UpdatedAt:   watermark,
	}, nil
}

// Menu returns the publicly visible drinks with their display prices.
// When since is set and the catalog has not changed past it (ties included),
// the third return value is false and the caller should answer "no change".
func (s *catalogService) Menu(since *time.Time) ([]MenuItem, time.Time, bool, error) {
	watermark, err := s.catalogRepo.LastUpdated()
	if err != nil {
		return nil, time.Time{}, false, fmt.Errorf("%w: reading catalog watermark: %v", ErrUpstream, err)
	}
	if since != nil && !watermark.After(*since) {
		return nil, watermark, false, nil
	}

	snapshot, err := s.Snapshot()
	if err != nil {
		return nil, time.Time{}, false, err
	}
	items := []MenuItem{}
	for _, drink := range snapshot.Drinks {
		if !drink.IsPublic {
			continue
		}
		items = append(items, MenuItem{
			ID:    drink.ID,
			Name:  drink.Name,
			Price: pricing.Round2(pricing.SelectPublicPrice(drink, snapshot.Ingredients, snapshot.Settings)),
		})
	}
	return items, snapshot.UpdatedAt, true, nil
}
