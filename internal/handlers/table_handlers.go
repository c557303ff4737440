package handlers

import (
	"net/http"

	"github.com/fffffranco2-lgtm/drink-cost-calculator-sub000/internal/tableauth"
	"github.com/fffffranco2-lgtm/drink-cost-calculator-sub000/pkg/utils"

	"github.com/gin-gonic/gin"
)

// TableHandler issues signed table links for printed QR labels.
type TableHandler struct {
	authenticator *tableauth.Authenticator
	publicBaseURL string
}

// NewTableHandler creates a new TableHandler.
func NewTableHandler(auth *tableauth.Authenticator, publicBaseURL string) *TableHandler {
	return &TableHandler{authenticator: auth, publicBaseURL: publicBaseURL}
}

// GetTableLink handles GET /tables/:code/link. The returned URL carries the
// table code and its signature; rendering it into a QR image is the label
// tooling's job.
func (h *TableHandler) GetTableLink(c *gin.Context) {
	code := tableauth.NormalizeTableCode(c.Param("code"))
	if code == "" {
		utils.RespondValidationFailed(c, "Invalid table code")
		return
	}

	sig := h.authenticator.Sign(code)
	c.JSON(http.StatusOK, gin.H{
		"table": code,
		"sig":   sig,
		"url":   h.publicBaseURL + "/order?table=" + code + "&sig=" + sig,
	})
}
