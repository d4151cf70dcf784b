package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"crypto-nexus/internal/domain"

	"go.opentelemetry.io/otel/trace"
)

const coingeckoBaseURL = "https://api.coingecko.com/api/v3"

// CoinGeckoClient fetches market snapshots and chart series from the
// CoinGecko free API.
type CoinGeckoClient struct {
	client  *http.Client
	baseURL string
	tracer  trace.Tracer
	pacer   *Pacer
}

func NewCoinGeckoClient(tracer trace.Tracer) *CoinGeckoClient {
	return &CoinGeckoClient{
		client:  &http.Client{Timeout: 30 * time.Second},
		baseURL: coingeckoBaseURL,
		tracer:  tracer,
		pacer:   NewPacer(6 * time.Second),
	}
}

// FetchMarkets fetches the current snapshot for the given CoinGecko ids in
// a single batched request.
func (c *CoinGeckoClient) FetchMarkets(ctx context.Context, ids []string) ([]domain.Asset, error) {
	_, span := c.tracer.Start(ctx, "coingecko.fetch-markets")
	defer span.End()

	url := fmt.Sprintf("%s/coins/markets?vs_currency=usd&ids=%s&order=market_cap_desc&sparkline=false&price_change_percentage=24h",
		c.baseURL, strings.Join(ids, ","))

	body, err := c.doRequest(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("fetch markets: %w", err)
	}

	var raw []struct {
		ID                       string  `json:"id"`
		Symbol                   string  `json:"symbol"`
		Name                     string  `json:"name"`
		CurrentPrice             float64 `json:"current_price"`
		PriceChangePercentage24h float64 `json:"price_change_percentage_24h"`
		MarketCap                float64 `json:"market_cap"`
		TotalVolume              float64 `json:"total_volume"`
		Image                    string  `json:"image"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, &ParseError{Err: fmt.Errorf("markets payload: %w", err)}
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("fetch markets: %w", ErrEmptyPayload)
	}

	assets := make([]domain.Asset, 0, len(raw))
	for _, coin := range raw {
		symbol, ok := domain.CoinGeckoIDToSymbol[coin.ID]
		if !ok {
			// Not in the configured catalog: derive the symbol from
			// the provider's own data.
			symbol = strings.ToUpper(coin.Symbol)
		}
		assets = append(assets, domain.Asset{
			ID:        coin.ID,
			Symbol:    symbol,
			Name:      coin.Name,
			Price:     coin.CurrentPrice,
			Change24h: coin.PriceChangePercentage24h,
			MarketCap: coin.MarketCap,
			Volume24h: coin.TotalVolume,
			Icon:      domain.CatalogIcon(coin.ID),
			Image:     coin.Image,
		})
	}
	return assets, nil
}

// FetchMarketChart fetches the historical price/volume series for one coin
// over windowDays and reduces it to the window's exact point count.
func (c *CoinGeckoClient) FetchMarketChart(ctx context.Context, id string, windowDays int) ([]domain.ChartPoint, error) {
	_, span := c.tracer.Start(ctx, "coingecko.fetch-market-chart")
	defer span.End()

	url := fmt.Sprintf("%s/coins/%s/market_chart?vs_currency=usd&days=%d",
		c.baseURL, id, windowDays)

	body, err := c.doRequest(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("fetch market chart for %s: %w", id, err)
	}

	var raw struct {
		Prices       [][]float64 `json:"prices"`
		TotalVolumes [][]float64 `json:"total_volumes"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, &ParseError{Err: fmt.Errorf("market chart payload for %s: %w", id, err)}
	}

	points := buildSeries(raw.Prices, raw.TotalVolumes, windowDays)
	if points == nil {
		return nil, fmt.Errorf("market chart for %s: %w", id, ErrEmptyPayload)
	}
	return points, nil
}

func (c *CoinGeckoClient) doRequest(ctx context.Context, url string) ([]byte, error) {
	if err := c.pacer.Wait(ctx); err != nil {
		return nil, fmt.Errorf("pacer wait: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &NetworkError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, &StatusError{Code: resp.StatusCode, Body: string(body)}
	}

	return io.ReadAll(resp.Body)
}

// buildSeries reduces the raw market_chart arrays to exactly the window's
// point count, labelling each point for display. Returns nil when the raw
// series cannot fill the window.
func buildSeries(prices, volumes [][]float64, windowDays int) []domain.ChartPoint {
	want := domain.WindowPoints(windowDays)

	usable := make([][]float64, 0, len(prices))
	for _, pt := range prices {
		if len(pt) >= 2 {
			usable = append(usable, pt)
		}
	}
	if len(usable) < want {
		return nil
	}

	points := make([]domain.ChartPoint, 0, want)
	for k := 0; k < want; k++ {
		// Last raw sample of each of the `want` evenly sized buckets.
		idx := (k+1)*len(usable)/want - 1
		ts := time.UnixMilli(int64(usable[idx][0]))

		var volume float64
		if idx < len(volumes) && len(volumes[idx]) >= 2 {
			volume = volumes[idx][1]
		}

		points = append(points, domain.ChartPoint{
			Time:   FormatPointLabel(ts, windowDays),
			Price:  usable[idx][1],
			Volume: volume,
		})
	}
	return points
}

// FormatPointLabel renders an axis label: hour:minute inside a single day,
// day and month for longer windows.
func FormatPointLabel(t time.Time, windowDays int) string {
	if windowDays == 1 {
		return t.Format("15:04")
	}
	return t.Format("2 Jan")
}
