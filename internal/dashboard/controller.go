// Package dashboard holds the UI-independent controller behind the web,
// terminal and bot frontends. It owns the displayed state and sequences
// the market, portfolio and advisor services the way a single dashboard
// session would.
package dashboard

import (
	"context"
	"sync"
	"time"

	"crypto-nexus/internal/domain"
	"crypto-nexus/internal/market"
	"crypto-nexus/internal/news"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// MarketService is the market data surface the controller consumes.
type MarketService interface {
	FetchMarket(ctx context.Context) ([]domain.Asset, bool)
	FetchSeries(ctx context.Context, assetID string, windowDays int) []domain.ChartPoint
}

// PortfolioStore exposes the holdings the controller values and analyzes.
type PortfolioStore interface {
	List() []domain.Holding
}

// Advisor produces chat replies and structured recommendations.
type Advisor interface {
	Ask(ctx context.Context, sessionID, message string, holdings []domain.Holding, assets []domain.Asset) string
	Recommend(ctx context.Context, holdings []domain.Holding, assets []domain.Asset) domain.AnalysisResult
}

// State is one consistent snapshot of everything the dashboard displays.
type State struct {
	Assets          []domain.Asset
	Live            bool
	LastUpdate      time.Time
	SelectedID      string
	WindowDays      int
	Chart           []domain.ChartPoint
	News            []domain.NewsItem
	Analysis        string
	Recommendations []domain.Recommendation
	Typing          bool
}

// Controller serializes all state mutation behind one mutex. Frontends
// read via Snapshot and mutate via the exported operations.
type Controller struct {
	tracer    trace.Tracer
	market    MarketService
	portfolio PortfolioStore
	advisor   Advisor
	now       func() time.Time

	mu           sync.Mutex
	state        State
	autoAnalyzed bool
}

func NewController(tracer trace.Tracer, m MarketService, p PortfolioStore, a Advisor) *Controller {
	return &Controller{
		tracer:    tracer,
		market:    m,
		portfolio: p,
		advisor:   a,
		now:       time.Now,
		state: State{
			SelectedID: domain.CatalogIDs[0],
			WindowDays: 7,
		},
	}
}

// RefreshMarket reloads prices, the chart for the current selection and
// the news strip. The first refresh that yields assets also triggers one
// automatic recommendation pass; later refreshes leave the displayed
// recommendations alone so a regenerate is always user-initiated.
func (c *Controller) RefreshMarket(ctx context.Context) State {
	ctx, span := c.tracer.Start(ctx, "dashboard.refresh-market")
	defer span.End()

	assets, live := c.market.FetchMarket(ctx)
	span.SetAttributes(attribute.Bool("market.live", live))

	c.mu.Lock()
	c.state.Assets = assets
	c.state.Live = live
	c.state.LastUpdate = c.now()
	c.state.News = news.Feed(c.state.LastUpdate)
	selected, window := c.state.SelectedID, c.state.WindowDays
	runAuto := !c.autoAnalyzed && len(assets) > 0
	if runAuto {
		c.autoAnalyzed = true
	}
	c.mu.Unlock()

	chart := c.market.FetchSeries(ctx, selected, window)

	c.mu.Lock()
	c.state.Chart = chart
	c.mu.Unlock()

	if runAuto {
		result := c.advisor.Recommend(ctx, c.portfolio.List(), assets)
		c.mu.Lock()
		c.state.Analysis = result.Analysis
		c.state.Recommendations = result.Recommendations
		c.mu.Unlock()
	}

	return c.Snapshot()
}

// SelectAsset switches the chart to another asset and refetches the
// series. Fetches are not fenced: when two selections race, whichever
// response lands last is displayed, even if it belongs to the earlier
// selection.
func (c *Controller) SelectAsset(ctx context.Context, assetID string) State {
	ctx, span := c.tracer.Start(ctx, "dashboard.select-asset")
	defer span.End()
	span.SetAttributes(attribute.String("asset.id", assetID))

	c.mu.Lock()
	c.state.SelectedID = assetID
	window := c.state.WindowDays
	c.mu.Unlock()

	chart := c.market.FetchSeries(ctx, assetID, window)

	c.mu.Lock()
	c.state.Chart = chart
	c.mu.Unlock()
	return c.Snapshot()
}

// SetWindow changes the chart range. Unsupported values are coerced the
// same way the market service coerces them, so state and chart agree.
func (c *Controller) SetWindow(ctx context.Context, days int) State {
	ctx, span := c.tracer.Start(ctx, "dashboard.set-window")
	defer span.End()

	days = market.NormalizeWindow(days)
	span.SetAttributes(attribute.Int("chart.window_days", days))

	c.mu.Lock()
	c.state.WindowDays = days
	selected := c.state.SelectedID
	c.mu.Unlock()

	chart := c.market.FetchSeries(ctx, selected, days)

	c.mu.Lock()
	c.state.Chart = chart
	c.mu.Unlock()
	return c.Snapshot()
}

// Chat forwards one user message to the advisor with the current market
// snapshot as context. The typing flag is raised for the duration of the
// call so frontends can show an indicator.
func (c *Controller) Chat(ctx context.Context, sessionID, message string) string {
	ctx, span := c.tracer.Start(ctx, "dashboard.chat")
	defer span.End()

	c.mu.Lock()
	c.state.Typing = true
	assets := c.state.Assets
	c.mu.Unlock()

	reply := c.advisor.Ask(ctx, sessionID, message, c.portfolio.List(), assets)

	c.mu.Lock()
	c.state.Typing = false
	c.mu.Unlock()
	return reply
}

// Regenerate re-runs the recommendation pass on demand.
func (c *Controller) Regenerate(ctx context.Context) State {
	ctx, span := c.tracer.Start(ctx, "dashboard.regenerate")
	defer span.End()

	c.mu.Lock()
	assets := c.state.Assets
	c.mu.Unlock()

	result := c.advisor.Recommend(ctx, c.portfolio.List(), assets)

	c.mu.Lock()
	c.state.Analysis = result.Analysis
	c.state.Recommendations = result.Recommendations
	c.mu.Unlock()
	return c.Snapshot()
}

// Valuation prices the stored holdings against the displayed snapshot.
func (c *Controller) Valuation() ([]domain.Asset, []domain.Holding) {
	c.mu.Lock()
	assets := c.state.Assets
	c.mu.Unlock()
	return assets, c.portfolio.List()
}

// Snapshot returns a copy of the displayed state. Slices are shared with
// the controller and must be treated as read-only by callers.
func (c *Controller) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}
