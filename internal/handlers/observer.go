package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/agentryleigh/decoherence-log/backend/internal/observer"
)

type ObserverHandler struct {
	responder *observer.Responder
}

func NewObserverHandler(responder *observer.Responder) *ObserverHandler {
	return &ObserverHandler{responder: responder}
}

// Chat runs one turn of the Fold dialogue (PROTECTED). The transcript is
// client-owned: it comes in with the request and goes back out extended
// with the new exchange.
func (h *ObserverHandler) Chat(c *gin.Context) {
	var input struct {
		Message    string              `json:"message" binding:"required"`
		Transcript []observer.Exchange `json:"transcript"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Message is required"})
		return
	}

	reply := h.responder.Respond(input.Message)
	transcript := append(input.Transcript,
		observer.Exchange{Role: "user", Text: input.Message},
		observer.Exchange{Role: "observer", Text: reply},
	)

	c.JSON(http.StatusOK, gin.H{
		"reply":      reply,
		"transcript": transcript,
	})
}
