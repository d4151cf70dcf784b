package handler

import (
	"context"

	"crypto-nexus/internal/dashboard"
	"crypto-nexus/internal/domain"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"
)

// DashboardController is the dashboard surface the HTTP layer exposes.
type DashboardController interface {
	Snapshot() dashboard.State
	Regenerate(ctx context.Context) dashboard.State
	Chat(ctx context.Context, sessionID, message string) string
}

// ChartService fetches a chart series independent of the dashboard's
// current selection.
type ChartService interface {
	FetchSeries(ctx context.Context, assetID string, windowDays int) []domain.ChartPoint
}

// PortfolioStore is the holdings surface behind the portfolio endpoints.
type PortfolioStore interface {
	List() []domain.Holding
	Upsert(ctx context.Context, h domain.Holding) error
	Remove(ctx context.Context, symbol string) error
}

type Handler struct {
	tracer    trace.Tracer
	dash      DashboardController
	charts    ChartService
	portfolio PortfolioStore
}

func New(tracer trace.Tracer, dash DashboardController, charts ChartService, portfolio PortfolioStore) *Handler {
	return &Handler{
		tracer:    tracer,
		dash:      dash,
		charts:    charts,
		portfolio: portfolio,
	}
}

// RegisterRoutes wires all endpoints. Mutating routes sit behind the
// API key middleware; read routes stay open.
func (h *Handler) RegisterRoutes(r *gin.Engine, apiKey string) {
	r.GET("/health", h.Health)
	r.GET("/api/assets", h.GetAssets)
	r.GET("/api/assets/:id/chart", h.GetChart)
	r.GET("/api/assets/:id/chart.png", h.GetChartPNG)
	r.GET("/api/portfolio", h.GetPortfolio)
	r.GET("/api/news", h.GetNews)
	r.GET("/api/recommendations", h.GetRecommendations)

	protected := r.Group("/api", APIKeyAuth(apiKey))
	protected.POST("/portfolio", h.UpsertHolding)
	protected.DELETE("/portfolio/:symbol", h.RemoveHolding)
	protected.POST("/recommendations", h.RegenerateRecommendations)
	protected.POST("/chat", h.Chat)
}
