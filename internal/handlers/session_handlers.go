package handlers

import (
	"net/http"

	"github.com/fffffranco2-lgtm/drink-cost-calculator-sub000/internal/services"

	"github.com/gin-gonic/gin"
)

// SessionHandler exposes the service-session lifecycle to operators.
type SessionHandler struct {
	sessionService services.SessionService
}

// NewSessionHandler creates a new SessionHandler.
func NewSessionHandler(ss services.SessionService) *SessionHandler {
	return &SessionHandler{sessionService: ss}
}

// GetActive handles GET /sessions/active.
func (h *SessionHandler) GetActive(c *gin.Context) {
	session, err := h.sessionService.GetActive()
	if err != nil {
		respondServiceError(c, err, "Failed to get active session.")
		return
	}
	c.JSON(http.StatusOK, session)
}

// Open handles POST /sessions/open. Idempotent: opening twice returns the
// same session.
func (h *SessionHandler) Open(c *gin.Context) {
	session, err := h.sessionService.Open()
	if err != nil {
		respondServiceError(c, err, "Failed to open session.")
		return
	}
	c.JSON(http.StatusOK, session)
}

// Close handles POST /sessions/close. Closing with no open session is a
// no-op answered with 204.
func (h *SessionHandler) Close(c *gin.Context) {
	session, err := h.sessionService.Close()
	if err != nil {
		respondServiceError(c, err, "Failed to close session.")
		return
	}
	if session == nil {
		c.Status(http.StatusNoContent)
		return
	}
	c.JSON(http.StatusOK, session)
}
