package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/fffffranco2-lgtm/drink-cost-calculator-sub000/internal/models"
)

// CatalogRepository defines the interface for catalog-related database
// operations: ingredients, drinks with their recipe items, and the single-row
// pricing settings.
type CatalogRepository interface {
	// Ingredient methods
	CreateIngredient(executor SQLExecutor, ing *models.Ingredient) (int64, error)
	GetIngredientByID(id int64) (*models.Ingredient, error)
	GetIngredients() ([]models.Ingredient, error)
	UpdateIngredient(executor SQLExecutor, ing *models.Ingredient) error
	DeleteIngredient(executor SQLExecutor, id int64) error

	// Drink methods
	CreateDrink(executor SQLExecutor, drink *models.Drink) (int64, error)
	GetDrinkByID(id int64) (*models.Drink, error)
	GetDrinks(onlyPublic bool) ([]models.Drink, error)
	UpdateDrink(executor SQLExecutor, drink *models.Drink) error
	DeleteDrink(executor SQLExecutor, id int64) error
	ReplaceRecipe(executor SQLExecutor, drinkID int64, items []models.RecipeItem) error

	// Settings methods
	GetSettings() (*models.PricingSettings, error)
	UpdateSettings(executor SQLExecutor, s *models.PricingSettings) error

	// LastUpdated returns the watermark of the most recent catalog change
	// across ingredients, drinks and settings.
	LastUpdated() (time.Time, error)
}

type catalogRepository struct {
	db *sql.DB
}

// NewCatalogRepository creates a new instance of CatalogRepository.
func NewCatalogRepository(db *sql.DB) CatalogRepository {
	return &catalogRepository{db: db}
}

// --- Ingredient Methods ---

// pricingColumns flattens an ingredient's active pricing variant into the
// full column set. Columns belonging to other variants are written as zero;
// on load only the active variant's columns are read back.
func pricingColumns(p models.PricingModel) (tag string, costPerMl, containerPrice, containerVolume, containerYield, lossPercent, costPerUnit float64) {
	switch v := p.(type) {
	case models.VolumePricing:
		return models.PricingByVolume, v.CostPerMl, 0, 0, 0, 0, 0
	case models.ContainerPricing:
		return models.PricingByContainer, 0, v.Price, v.VolumeMl, v.YieldMl, v.LossPercent, 0
	case models.UnitPricing:
		return models.PricingByUnit, 0, 0, 0, 0, 0, v.CostPerUnit
	default:
		return models.PricingByVolume, 0, 0, 0, 0, 0, 0
	}
}

func scanIngredient(s scanner) (models.Ingredient, error) {
	var ing models.Ingredient
	var tag string
	var costPerMl, containerPrice, containerVolume, containerYield, lossPercent, costPerUnit float64
	err := s.Scan(
		&ing.ID, &ing.Name, &tag,
		&costPerMl, &containerPrice, &containerVolume, &containerYield, &lossPercent, &costPerUnit,
		&ing.CreatedAt, &ing.UpdatedAt,
	)
	if err != nil {
		return ing, err
	}
	switch tag {
	case models.PricingByContainer:
		ing.Pricing = models.ContainerPricing{
			Price:       containerPrice,
			VolumeMl:    containerVolume,
			YieldMl:     containerYield,
			LossPercent: lossPercent,
		}
	case models.PricingByUnit:
		ing.Pricing = models.UnitPricing{CostPerUnit: costPerUnit}
	default:
		ing.Pricing = models.VolumePricing{CostPerMl: costPerMl}
	}
	return ing, nil
}

const ingredientColumns = `id, name, pricing_model,
	cost_per_ml, container_price, container_volume_ml, container_yield_ml, loss_percent, cost_per_unit,
	created_at, updated_at`

func (r *catalogRepository) CreateIngredient(executor SQLExecutor, ing *models.Ingredient) (int64, error) {
	query := `INSERT INTO ingredients
	            (name, pricing_model, cost_per_ml, container_price, container_volume_ml,
	             container_yield_ml, loss_percent, cost_per_unit, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	          RETURNING id`
	tag, costPerMl, cPrice, cVolume, cYield, loss, costPerUnit := pricingColumns(ing.Pricing)
	now := time.Now()
	err := executor.QueryRow(query,
		ing.Name, tag, costPerMl, cPrice, cVolume, cYield, loss, costPerUnit, now, now,
	).Scan(&ing.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, fmt.Errorf("%w: ingredient name '%s' already exists", ErrDuplicateKey, ing.Name)
		}
		return 0, fmt.Errorf("%w: creating ingredient: %v", ErrDatabaseError, err)
	}
	return ing.ID, nil
}

func (r *catalogRepository) GetIngredientByID(id int64) (*models.Ingredient, error) {
	query := `SELECT ` + ingredientColumns + ` FROM ingredients WHERE id = $1`
	ing, err := scanIngredient(r.db.QueryRow(query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting ingredient by ID %d: %v", ErrDatabaseError, id, err)
	}
	return &ing, nil
}

func (r *catalogRepository) GetIngredients() ([]models.Ingredient, error) {
	query := `SELECT ` + ingredientColumns + ` FROM ingredients ORDER BY name`
	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("%w: querying ingredients: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	ingredients := []models.Ingredient{}
	for rows.Next() {
		ing, err := scanIngredient(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanning ingredient: %v", ErrDatabaseError, err)
		}
		ingredients = append(ingredients, ing)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating ingredient rows: %v", ErrDatabaseError, err)
	}
	return ingredients, nil
}

func (r *catalogRepository) UpdateIngredient(executor SQLExecutor, ing *models.Ingredient) error {
	query := `UPDATE ingredients SET
	            name = $1, pricing_model = $2, cost_per_ml = $3, container_price = $4,
	            container_volume_ml = $5, container_yield_ml = $6, loss_percent = $7,
	            cost_per_unit = $8, updated_at = $9
	          WHERE id = $10`
	tag, costPerMl, cPrice, cVolume, cYield, loss, costPerUnit := pricingColumns(ing.Pricing)
	result, err := executor.Exec(query,
		ing.Name, tag, costPerMl, cPrice, cVolume, cYield, loss, costPerUnit, time.Now(), ing.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: ingredient name '%s' already exists", ErrDuplicateKey, ing.Name)
		}
		return fmt.Errorf("%w: updating ingredient ID %d: %v", ErrDatabaseError, ing.ID, err)
	}
	return requireRowsAffected(result, "ingredient", ing.ID)
}

func (r *catalogRepository) DeleteIngredient(executor SQLExecutor, id int64) error {
	result, err := executor.Exec(`DELETE FROM ingredients WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("%w: deleting ingredient ID %d: %v", ErrDatabaseError, id, err)
	}
	return requireRowsAffected(result, "ingredient", id)
}

// --- Drink Methods ---

func (r *catalogRepository) CreateDrink(executor SQLExecutor, drink *models.Drink) (int64, error) {
	query := `INSERT INTO drinks (name, price_mode, manual_price, is_public, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6)
	          RETURNING id`
	now := time.Now()
	err := executor.QueryRow(query,
		drink.Name, drink.PriceMode, drink.ManualPrice, drink.IsPublic, now, now,
	).Scan(&drink.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, fmt.Errorf("%w: drink name '%s' already exists", ErrDuplicateKey, drink.Name)
		}
		return 0, fmt.Errorf("%w: creating drink: %v", ErrDatabaseError, err)
	}
	if err := r.ReplaceRecipe(executor, drink.ID, drink.Recipe); err != nil {
		return 0, err
	}
	return drink.ID, nil
}

func (r *catalogRepository) GetDrinkByID(id int64) (*models.Drink, error) {
	drink := &models.Drink{}
	query := `SELECT id, name, price_mode, manual_price, is_public, created_at, updated_at
	          FROM drinks WHERE id = $1`
	err := r.db.QueryRow(query, id).Scan(
		&drink.ID, &drink.Name, &drink.PriceMode, &drink.ManualPrice, &drink.IsPublic,
		&drink.CreatedAt, &drink.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting drink by ID %d: %v", ErrDatabaseError, id, err)
	}
	recipes, err := r.recipesByDrink(id)
	if err != nil {
		return nil, err
	}
	drink.Recipe = recipes[id]
	if drink.Recipe == nil {
		drink.Recipe = []models.RecipeItem{}
	}
	return drink, nil
}

func (r *catalogRepository) GetDrinks(onlyPublic bool) ([]models.Drink, error) {
	query := `SELECT id, name, price_mode, manual_price, is_public, created_at, updated_at
	          FROM drinks`
	if onlyPublic {
		query += ` WHERE is_public`
	}
	query += ` ORDER BY name`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("%w: querying drinks: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	drinks := []models.Drink{}
	for rows.Next() {
		var d models.Drink
		if err := rows.Scan(&d.ID, &d.Name, &d.PriceMode, &d.ManualPrice, &d.IsPublic, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, fmt.Errorf("%w: scanning drink: %v", ErrDatabaseError, err)
		}
		d.Recipe = []models.RecipeItem{}
		drinks = append(drinks, d)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating drink rows: %v", ErrDatabaseError, err)
	}

	recipes, err := r.recipesByDrink(0)
	if err != nil {
		return nil, err
	}
	for i := range drinks {
		if items, ok := recipes[drinks[i].ID]; ok {
			drinks[i].Recipe = items
		}
	}
	return drinks, nil
}

// recipesByDrink loads recipe items grouped by drink. drinkID 0 loads all of
// them in one query, which the list and snapshot paths use to avoid N+1 reads.
func (r *catalogRepository) recipesByDrink(drinkID int64) (map[int64][]models.RecipeItem, error) {
	query := `SELECT id, drink_id, ingredient_id, quantity, unit, position
	          FROM drink_ingredients`
	args := []interface{}{}
	if drinkID > 0 {
		query += ` WHERE drink_id = $1`
		args = append(args, drinkID)
	}
	query += ` ORDER BY drink_id, position, id`

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: querying recipe items: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	recipes := map[int64][]models.RecipeItem{}
	for rows.Next() {
		var item models.RecipeItem
		if err := rows.Scan(&item.ID, &item.DrinkID, &item.IngredientID, &item.Quantity, &item.Unit, &item.Position); err != nil {
			return nil, fmt.Errorf("%w: scanning recipe item: %v", ErrDatabaseError, err)
		}
		recipes[item.DrinkID] = append(recipes[item.DrinkID], item)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating recipe item rows: %v", ErrDatabaseError, err)
	}
	return recipes, nil
}

func (r *catalogRepository) UpdateDrink(executor SQLExecutor, drink *models.Drink) error {
	query := `UPDATE drinks SET name = $1, price_mode = $2, manual_price = $3, is_public = $4, updated_at = $5
	          WHERE id = $6`
	result, err := executor.Exec(query,
		drink.Name, drink.PriceMode, drink.ManualPrice, drink.IsPublic, time.Now(), drink.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: drink name '%s' already exists", ErrDuplicateKey, drink.Name)
		}
		return fmt.Errorf("%w: updating drink ID %d: %v", ErrDatabaseError, drink.ID, err)
	}
	return requireRowsAffected(result, "drink", drink.ID)
}

func (r *catalogRepository) DeleteDrink(executor SQLExecutor, id int64) error {
	if _, err := executor.Exec(`DELETE FROM drink_ingredients WHERE drink_id = $1`, id); err != nil {
		return fmt.Errorf("%w: deleting recipe items for drink ID %d: %v", ErrDatabaseError, id, err)
	}
	result, err := executor.Exec(`DELETE FROM drinks WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("%w: deleting drink ID %d: %v", ErrDatabaseError, id, err)
	}
	return requireRowsAffected(result, "drink", id)
}

// ReplaceRecipe swaps a drink's recipe items for the given list. Recipe edits
// always replace the whole list, so positions stay dense and deterministic.
func (r *catalogRepository) ReplaceRecipe(executor SQLExecutor, drinkID int64, items []models.RecipeItem) error {
	if _, err := executor.Exec(`DELETE FROM drink_ingredients WHERE drink_id = $1`, drinkID); err != nil {
		return fmt.Errorf("%w: clearing recipe for drink ID %d: %v", ErrDatabaseError, drinkID, err)
	}
	query := `INSERT INTO drink_ingredients (drink_id, ingredient_id, quantity, unit, position)
	          VALUES ($1, $2, $3, $4, $5)`
	for i, item := range items {
		if _, err := executor.Exec(query, drinkID, item.IngredientID, item.Quantity, item.Unit, i); err != nil {
			return fmt.Errorf("%w: inserting recipe item for drink ID %d: %v", ErrDatabaseError, drinkID, err)
		}
	}
	return nil
}

// --- Settings Methods ---

func (r *catalogRepository) GetSettings() (*models.PricingSettings, error) {
	s := &models.PricingSettings{}
	query := `SELECT markup_multiplier, target_cost_ratio, ml_per_dash, ml_per_drop, rounding_mode, updated_at
	          FROM pricing_settings WHERE id = 1`
	err := r.db.QueryRow(query).Scan(
		&s.MarkupMultiplier, &s.TargetCostRatio, &s.MlPerDash, &s.MlPerDrop, &s.Rounding, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting pricing settings: %v", ErrDatabaseError, err)
	}
	return s, nil
}

func (r *catalogRepository) UpdateSettings(executor SQLExecutor, s *models.PricingSettings) error {
	query := `INSERT INTO pricing_settings (id, markup_multiplier, target_cost_ratio, ml_per_dash, ml_per_drop, rounding_mode, updated_at)
	          VALUES (1, $1, $2, $3, $4, $5, $6)
	          ON CONFLICT (id) DO UPDATE SET
	            markup_multiplier = EXCLUDED.markup_multiplier,
	            target_cost_ratio = EXCLUDED.target_cost_ratio,
	            ml_per_dash = EXCLUDED.ml_per_dash,
	            ml_per_drop = EXCLUDED.ml_per_drop,
	            rounding_mode = EXCLUDED.rounding_mode,
	            updated_at = EXCLUDED.updated_at`
	s.UpdatedAt = time.Now()
	if _, err := executor.Exec(query,
		s.MarkupMultiplier, s.TargetCostRatio, s.MlPerDash, s.MlPerDrop, s.Rounding, s.UpdatedAt,
	); err != nil {
		return fmt.Errorf("%w: updating pricing settings: %v", ErrDatabaseError, err)
	}
	return nil
}

// --- Watermark ---

func (r *catalogRepository) LastUpdated() (time.Time, error) {
	var t time.Time
	query := `SELECT GREATEST(
	            COALESCE((SELECT MAX(updated_at) FROM ingredients), to_timestamp(0)),
	            COALESCE((SELECT MAX(updated_at) FROM drinks), to_timestamp(0)),
	            COALESCE((SELECT MAX(updated_at) FROM pricing_settings), to_timestamp(0)))`
	if err := r.db.QueryRow(query).Scan(&t); err != nil {
		return time.Time{}, fmt.Errorf("%w: getting catalog watermark: %v", ErrDatabaseError, err)
	}
	return t, nil
}

// requireRowsAffected converts "0 rows touched" into ErrNotFound for update
// and delete statements keyed by id.
func requireRowsAffected(result sql.Result, entity string, id int64) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: getting rows affected for %s ID %d: %v", ErrDatabaseError, entity, id, err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
