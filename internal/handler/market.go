package handler

import (
	"net/http"
	"strconv"
	"time"

	"crypto-nexus/internal/chartimg"
	"crypto-nexus/internal/domain"
	"crypto-nexus/internal/market"
	"crypto-nexus/internal/news"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
)

// GetAssets godoc
// @Summary      Get the tracked asset snapshot
// @Description  Returns current prices for all six tracked assets plus data-source liveness
// @Tags         market
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Router       /api/assets [get]
func (h *Handler) GetAssets(c *gin.Context) {
	_, span := h.tracer.Start(c.Request.Context(), "handler.get-assets")
	defer span.End()

	state := h.dash.Snapshot()
	c.JSON(http.StatusOK, gin.H{
		"assets":      state.Assets,
		"live":        state.Live,
		"last_update": state.LastUpdate,
	})
}

// GetChart godoc
// @Summary      Get a chart series for one asset
// @Description  Returns the price series for the requested window (1, 7 or 30 days)
// @Tags         market
// @Produce      json
// @Param        id    path   string  true   "Asset id (e.g., bitcoin, ethereum)"
// @Param        days  query  int     false  "Chart window in days (1, 7 or 30)"  default(7)
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]string
// @Router       /api/assets/{id}/chart [get]
func (h *Handler) GetChart(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.get-chart")
	defer span.End()

	assetID := c.Param("id")
	span.SetAttributes(attribute.String("asset.id", assetID))

	if _, ok := domain.CoinGeckoIDToSymbol[assetID]; !ok {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":         "unsupported asset: " + assetID,
			"supported_ids": domain.CatalogIDs,
		})
		return
	}

	days := chartWindow(c)
	series := h.charts.FetchSeries(ctx, assetID, days)

	c.JSON(http.StatusOK, gin.H{
		"asset_id": assetID,
		"days":     days,
		"points":   series,
	})
}

// GetChartPNG godoc
// @Summary      Get a chart image for one asset
// @Description  Renders the price series for the requested window as a PNG
// @Tags         market
// @Produce      png
// @Param        id    path   string  true   "Asset id (e.g., bitcoin, ethereum)"
// @Param        days  query  int     false  "Chart window in days (1, 7 or 30)"  default(7)
// @Success      200  {file}  binary
// @Failure      400  {object}  map[string]string
// @Router       /api/assets/{id}/chart.png [get]
func (h *Handler) GetChartPNG(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.get-chart-png")
	defer span.End()

	assetID := c.Param("id")
	span.SetAttributes(attribute.String("asset.id", assetID))

	symbol, ok := domain.CoinGeckoIDToSymbol[assetID]
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":         "unsupported asset: " + assetID,
			"supported_ids": domain.CatalogIDs,
		})
		return
	}

	days := chartWindow(c)
	series := h.charts.FetchSeries(ctx, assetID, days)

	png, err := chartimg.Render(symbol+" "+strconv.Itoa(days)+"d", series)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Data(http.StatusOK, "image/png", png)
}

// GetNews godoc
// @Summary      Get the news feed
// @Description  Returns the current headline set
// @Tags         news
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Router       /api/news [get]
func (h *Handler) GetNews(c *gin.Context) {
	_, span := h.tracer.Start(c.Request.Context(), "handler.get-news")
	defer span.End()

	c.JSON(http.StatusOK, gin.H{"news": news.Feed(time.Now())})
}

func chartWindow(c *gin.Context) int {
	days := 7
	if v := c.Query("days"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			days = n
		}
	}
	return market.NormalizeWindow(days)
}
