package handlers

import (
	"net/http"

	"github.com/fffffranco2-lgtm/drink-cost-calculator-sub000/internal/services"
	"github.com/fffffranco2-lgtm/drink-cost-calculator-sub000/pkg/utils"

	"github.com/gin-gonic/gin"
)

// SettingHandler exposes the single-row pricing settings.
type SettingHandler struct {
	catalogService services.CatalogService
}

// NewSettingHandler creates a new SettingHandler.
func NewSettingHandler(cs services.CatalogService) *SettingHandler {
	return &SettingHandler{catalogService: cs}
}

// GetSettings handles GET /settings.
func (h *SettingHandler) GetSettings(c *gin.Context) {
	settings, err := h.catalogService.GetSettings()
	if err != nil {
		respondServiceError(c, err, "Failed to get settings.")
		return
	}
	c.JSON(http.StatusOK, settings)
}

// UpdateSettings handles PUT /settings.
func (h *SettingHandler) UpdateSettings(c *gin.Context) {
	var req services.SettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationFailed(c, "Invalid request payload: "+err.Error())
		return
	}

	settings, err := h.catalogService.UpdateSettings(req)
	if err != nil {
		respondServiceError(c, err, "Failed to update settings.")
		return
	}
	c.JSON(http.StatusOK, settings)
}
