package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
)

type chatRequest struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message" binding:"required"`
}

// GetRecommendations godoc
// @Summary      Get current portfolio recommendations
// @Description  Returns the displayed analysis and the three recommendations
// @Tags         advisor
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Router       /api/recommendations [get]
func (h *Handler) GetRecommendations(c *gin.Context) {
	_, span := h.tracer.Start(c.Request.Context(), "handler.get-recommendations")
	defer span.End()

	state := h.dash.Snapshot()
	c.JSON(http.StatusOK, gin.H{
		"analysis":        state.Analysis,
		"recommendations": state.Recommendations,
	})
}

// RegenerateRecommendations godoc
// @Summary      Regenerate portfolio recommendations
// @Description  Runs a fresh recommendation pass and returns the result
// @Tags         advisor
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Router       /api/recommendations [post]
func (h *Handler) RegenerateRecommendations(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.regenerate-recommendations")
	defer span.End()

	state := h.dash.Regenerate(ctx)
	c.JSON(http.StatusOK, gin.H{
		"analysis":        state.Analysis,
		"recommendations": state.Recommendations,
	})
}

// Chat godoc
// @Summary      Ask the advisor a question
// @Description  Sends one message to the AI advisor; omit session_id to start a new conversation
// @Tags         advisor
// @Accept       json
// @Produce      json
// @Param        chat  body  chatRequest  true  "Message"
// @Success      200  {object}  map[string]string
// @Failure      400  {object}  map[string]string
// @Router       /api/chat [post]
func (h *Handler) Chat(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.chat")
	defer span.End()

	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "message must not be blank"})
		return
	}

	sessionID := strings.TrimSpace(req.SessionID)
	if sessionID == "" {
		sessionID = uuid.NewString()
	}
	span.SetAttributes(attribute.String("session_id", sessionID))

	reply := h.dash.Chat(ctx, sessionID, req.Message)
	c.JSON(http.StatusOK, gin.H{
		"session_id": sessionID,
		"reply":      reply,
	})
}
