package handlers

import (
	"net/http"
	"time"

	"github.com/fffffranco2-lgtm/drink-cost-calculator-sub000/internal/services"
	"github.com/fffffranco2-lgtm/drink-cost-calculator-sub000/pkg/utils"

	"github.com/gin-gonic/gin"
)

// DrinkHandler holds the catalog service for the drink and public menu
// surfaces.
type DrinkHandler struct {
	catalogService services.CatalogService
}

// NewDrinkHandler creates a new DrinkHandler.
func NewDrinkHandler(cs services.CatalogService) *DrinkHandler {
	return &DrinkHandler{catalogService: cs}
}

// CreateDrink handles POST /drinks.
func (h *DrinkHandler) CreateDrink(c *gin.Context) {
	var req services.DrinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationFailed(c, "Invalid request payload: "+err.Error())
		return
	}

	drink, err := h.catalogService.CreateDrink(req)
	if err != nil {
		respondServiceError(c, err, "Failed to create drink.")
		return
	}
	c.JSON(http.StatusCreated, drink)
}

// GetDrinks handles GET /drinks.
func (h *DrinkHandler) GetDrinks(c *gin.Context) {
	drinks, err := h.catalogService.GetDrinks()
	if err != nil {
		respondServiceError(c, err, "Failed to list drinks.")
		return
	}
	c.JSON(http.StatusOK, drinks)
}

// GetDrinkByID handles GET /drinks/:id.
func (h *DrinkHandler) GetDrinkByID(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	drink, err := h.catalogService.GetDrinkByID(id)
	if err != nil {
		respondServiceError(c, err, "Failed to get drink.")
		return
	}
	c.JSON(http.StatusOK, drink)
}

// UpdateDrink handles PUT /drinks/:id, replacing the recipe atomically.
func (h *DrinkHandler) UpdateDrink(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req services.DrinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationFailed(c, "Invalid request payload: "+err.Error())
		return
	}

	drink, err := h.catalogService.UpdateDrink(id, req)
	if err != nil {
		respondServiceError(c, err, "Failed to update drink.")
		return
	}
	c.JSON(http.StatusOK, drink)
}

// DeleteDrink handles DELETE /drinks/:id.
func (h *DrinkHandler) DeleteDrink(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.catalogService.DeleteDrink(id); err != nil {
		respondServiceError(c, err, "Failed to delete drink.")
		return
	}
	c.Status(http.StatusNoContent)
}

// GetDrinkQuote handles GET /drinks/:id/pricing — the calculator screen's
// cost/candidate breakdown.
func (h *DrinkHandler) GetDrinkQuote(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	quote, err := h.catalogService.DrinkQuote(id)
	if err != nil {
		respondServiceError(c, err, "Failed to price drink.")
		return
	}
	c.JSON(http.StatusOK, quote)
}

// GetMenu handles GET /menu: the public listing of visible drinks with
// display prices. With ?since=<watermark> a 304 is returned when nothing
// changed, so pollers pay nothing for quiet periods.
func (h *DrinkHandler) GetMenu(c *gin.Context) {
	var since *time.Time
	if sinceStr := c.Query("since"); sinceStr != "" {
		t, err := utils.ParseWatermark(sinceStr)
		if err != nil {
			utils.RespondValidationFailed(c, "Invalid since parameter")
			return
		}
		since = &t
	}

	items, watermark, changed, err := h.catalogService.Menu(since)
	if err != nil {
		respondServiceError(c, err, "Failed to load menu.")
		return
	}
	if !changed {
		c.Status(http.StatusNotModified)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items, "updated_at": watermark})
}
