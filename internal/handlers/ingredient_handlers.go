package handlers

import (
	"net/http"

	"github.com/fffffranco2-lgtm/drink-cost-calculator-sub000/internal/services"
	"github.com/fffffranco2-lgtm/drink-cost-calculator-sub000/pkg/utils"

	"github.com/gin-gonic/gin"
)

// IngredientHandler holds the catalog service for the ingredient surface.
type IngredientHandler struct {
	catalogService services.CatalogService
}

// NewIngredientHandler creates a new IngredientHandler.
func NewIngredientHandler(cs services.CatalogService) *IngredientHandler {
	return &IngredientHandler{catalogService: cs}
}

// CreateIngredient handles POST /ingredients.
func (h *IngredientHandler) CreateIngredient(c *gin.Context) {
	var req services.IngredientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationFailed(c, "Invalid request payload: "+err.Error())
		return
	}

	ing, err := h.catalogService.CreateIngredient(req)
	if err != nil {
		respondServiceError(c, err, "Failed to create ingredient.")
		return
	}
	c.JSON(http.StatusCreated, ing)
}

// GetIngredients handles GET /ingredients.
func (h *IngredientHandler) GetIngredients(c *gin.Context) {
	ingredients, err := h.catalogService.GetIngredients()
	if err != nil {
		respondServiceError(c, err, "Failed to list ingredients.")
		return
	}
	c.JSON(http.StatusOK, ingredients)
}

// GetIngredientByID handles GET /ingredients/:id.
func (h *IngredientHandler) GetIngredientByID(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	ing, err := h.catalogService.GetIngredientByID(id)
	if err != nil {
		respondServiceError(c, err, "Failed to get ingredient.")
		return
	}
	c.JSON(http.StatusOK, ing)
}

// UpdateIngredient handles PUT /ingredients/:id.
func (h *IngredientHandler) UpdateIngredient(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req services.IngredientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationFailed(c, "Invalid request payload: "+err.Error())
		return
	}

	ing, err := h.catalogService.UpdateIngredient(id, req)
	if err != nil {
		respondServiceError(c, err, "Failed to update ingredient.")
		return
	}
	c.JSON(http.StatusOK, ing)
}

// DeleteIngredient handles DELETE /ingredients/:id.
func (h *IngredientHandler) DeleteIngredient(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.catalogService.DeleteIngredient(id); err != nil {
		respondServiceError(c, err, "Failed to delete ingredient.")
		return
	}
	c.Status(http.StatusNoContent)
}
