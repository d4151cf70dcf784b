package handler

import (
	"net/http"
	"strings"

	"crypto-nexus/internal/domain"
	"crypto-nexus/internal/portfolio"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
)

type holdingRequest struct {
	Symbol   string  `json:"symbol" binding:"required"`
	Amount   float64 `json:"amount" binding:"required"`
	AvgPrice float64 `json:"avg_price" binding:"required"`
}

// GetPortfolio godoc
// @Summary      Get the valued portfolio
// @Description  Returns all holdings priced against the current market snapshot
// @Tags         portfolio
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Router       /api/portfolio [get]
func (h *Handler) GetPortfolio(c *gin.Context) {
	_, span := h.tracer.Start(c.Request.Context(), "handler.get-portfolio")
	defer span.End()

	state := h.dash.Snapshot()
	val := portfolio.Valuate(h.portfolio.List(), state.Assets)

	c.JSON(http.StatusOK, gin.H{
		"positions":        val.Positions,
		"total_invested":   val.TotalInvested,
		"total_value":      val.TotalValue,
		"total_profit":     val.TotalProfit,
		"total_profit_pct": val.TotalProfitPct,
	})
}

// UpsertHolding godoc
// @Summary      Add or replace a holding
// @Description  Creates the holding or replaces the existing one for the same symbol
// @Tags         portfolio
// @Accept       json
// @Produce      json
// @Param        holding  body  holdingRequest  true  "Holding"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]string
// @Router       /api/portfolio [post]
func (h *Handler) UpsertHolding(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.upsert-holding")
	defer span.End()

	var req holdingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	holding := domain.Holding{
		Symbol:   strings.ToUpper(strings.TrimSpace(req.Symbol)),
		Amount:   req.Amount,
		AvgPrice: req.AvgPrice,
	}
	span.SetAttributes(attribute.String("symbol", holding.Symbol))

	if err := h.portfolio.Upsert(ctx, holding); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"holdings": h.portfolio.List()})
}

// RemoveHolding godoc
// @Summary      Remove a holding
// @Description  Deletes the holding for the given symbol
// @Tags         portfolio
// @Produce      json
// @Param        symbol  path  string  true  "Asset symbol (e.g., BTC)"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  map[string]string
// @Router       /api/portfolio/{symbol} [delete]
func (h *Handler) RemoveHolding(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.remove-holding")
	defer span.End()

	symbol := strings.ToUpper(c.Param("symbol"))
	span.SetAttributes(attribute.String("symbol", symbol))

	if err := h.portfolio.Remove(ctx, symbol); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"holdings": h.portfolio.List()})
}
