package handlers

import (
	"errors"
	"net/http"

	"github.com/fffffranco2-lgtm/drink-cost-calculator-sub000/internal/services"
	"github.com/fffffranco2-lgtm/drink-cost-calculator-sub000/pkg/utils"

	"github.com/gin-gonic/gin"
)

// respondServiceError maps the service sentinel errors onto HTTP statuses.
// Unknown errors stay a generic 500 so internals never leak to clients.
func respondServiceError(c *gin.Context, err error, message string) {
	utils.LogError(err, message)
	switch {
	case errors.Is(err, services.ErrValidation):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, message, err.Error()))
	case errors.Is(err, services.ErrNotFound):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, message, err.Error()))
	case errors.Is(err, services.ErrConflict):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, message, err.Error()))
	case errors.Is(err, services.ErrUpstream):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusServiceUnavailable, utils.ErrCodeUpstream, message, "Upstream dependency unavailable"))
	default:
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, message, "Internal error"))
	}
}

// pathID parses the :id path parameter; on failure it responds 400 and
// returns false.
func pathID(c *gin.Context) (int64, bool) {
	id, err := utils.StrToInt64(c.Param("id"))
	if err != nil || id <= 0 {
		utils.RespondValidationFailed(c, "Invalid id path parameter")
		return 0, false
	}
	return id, true
}
