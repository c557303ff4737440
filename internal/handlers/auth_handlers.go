package handlers

import (
	"errors"
	"net/http"

	"github.com/fffffranco2-lgtm/drink-cost-calculator-sub000/internal/services"
	"github.com/fffffranco2-lgtm/drink-cost-calculator-sub000/pkg/utils"

	"github.com/gin-gonic/gin"
)

// AuthHandler holds the auth service.
type AuthHandler struct {
	authService services.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(as services.AuthService) *AuthHandler {
	return &AuthHandler{authService: as}
}

// Login trades operator credentials for an access token.
func (h *AuthHandler) Login(c *gin.Context) {
	var req services.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationFailed(c, "Invalid request payload: "+err.Error())
		return
	}

	resp, err := h.authService.Login(req)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusUnauthorized, utils.ErrCodeUnauthorized, "Invalid username or password.", ""))
			return
		}
		respondServiceError(c, err, "Login failed.")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Me returns the authenticated operator's profile.
func (h *AuthHandler) Me(c *gin.Context) {
	operatorID, exists := c.Get("operatorID")
	if !exists {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusUnauthorized, utils.ErrCodeUnauthorized, "Operator identity missing from context.", ""))
		return
	}

	operator, err := h.authService.Profile(operatorID.(int64))
	if err != nil {
		respondServiceError(c, err, "Failed to load operator profile.")
		return
	}
	c.JSON(http.StatusOK, operator)
}
