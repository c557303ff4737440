package handlers

import (
	"encoding/base64"
	"net/http"

	"github.com/fffffranco2-lgtm/drink-cost-calculator-sub000/internal/services"
	"github.com/fffffranco2-lgtm/drink-cost-calculator-sub000/pkg/utils"

	"github.com/gin-gonic/gin"
)

// PrintHandler exposes ticket rendering, dispatch and the challenge signer.
type PrintHandler struct {
	printService services.PrintService
}

// NewPrintHandler creates a new PrintHandler.
func NewPrintHandler(ps services.PrintService) *PrintHandler {
	return &PrintHandler{printService: ps}
}

// printRequest optionally overrides the target printer.
type printRequest struct {
	Device string `json:"device"`
}

// PrintOrder handles POST /orders/:id/print.
func (h *PrintHandler) PrintOrder(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req printRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.RespondValidationFailed(c, "Invalid request payload: "+err.Error())
			return
		}
	}

	if err := h.printService.PrintOrder(c.Request.Context(), id, req.Device); err != nil {
		respondServiceError(c, err, "Failed to print order.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"printed": true})
}

// GetTicket handles GET /orders/:id/ticket, returning the raw ESC/POS bytes
// for bridges that fetch tickets instead of receiving them.
func (h *PrintHandler) GetTicket(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	payload, err := h.printService.TicketBytes(id)
	if err != nil {
		respondServiceError(c, err, "Failed to build ticket.")
		return
	}
	c.Data(http.StatusOK, "application/octet-stream", payload)
}

// challengeRequest carries the bridge's opaque challenge, base64-encoded.
type challengeRequest struct {
	Challenge string `json:"challenge" binding:"required"`
}

// SignChallenge handles POST /print/challenge for the certificate-
// authenticated print channel.
func (h *PrintHandler) SignChallenge(c *gin.Context) {
	var req challengeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationFailed(c, "Invalid request payload: "+err.Error())
		return
	}
	challenge, err := base64.StdEncoding.DecodeString(req.Challenge)
	if err != nil {
		utils.RespondValidationFailed(c, "Challenge must be base64")
		return
	}

	signature, err := h.printService.SignChallenge(challenge)
	if err != nil {
		respondServiceError(c, err, "Failed to sign challenge.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"signature": base64.StdEncoding.EncodeToString(signature)})
}
