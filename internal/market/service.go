package market

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"crypto-nexus/internal/domain"
	"crypto-nexus/internal/provider"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel/trace"
)

const (
	snapshotCacheKey = "market:snapshot"
	snapshotCacheTTL = 5 * time.Minute
)

// Provider fetches live market data.
type Provider interface {
	FetchMarkets(ctx context.Context, ids []string) ([]domain.Asset, error)
	FetchMarketChart(ctx context.Context, id string, windowDays int) ([]domain.ChartPoint, error)
}

type RedisClient interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Get(ctx context.Context, key string) *redis.StringCmd
}

// Service serves market snapshots and chart series. Every external failure
// is absorbed locally: callers always receive usable data, degraded to the
// static snapshot or a synthetic series when the API is down.
type Service struct {
	tracer   trace.Tracer
	provider Provider
	redis    RedisClient
	now      func() time.Time
}

func NewService(tracer trace.Tracer, p Provider, redisClient RedisClient) *Service {
	return &Service{
		tracer:   tracer,
		provider: p,
		redis:    redisClient,
		now:      time.Now,
	}
}

// FetchMarket fetches the current snapshot for the whole catalog in one
// batched call. The second return reports whether the data is live; on any
// failure the static fallback snapshot is substituted so the result is
// never empty.
func (s *Service) FetchMarket(ctx context.Context) ([]domain.Asset, bool) {
	ctx, span := s.tracer.Start(ctx, "market.fetch-market")
	defer span.End()

	assets, err := s.provider.FetchMarkets(ctx, domain.CatalogIDs)
	if err != nil {
		span.RecordError(err)
		log.Printf("market fetch failed, serving fallback snapshot: %v", err)
		return provider.FallbackAssets(), false
	}

	if s.redis != nil {
		if err := s.cacheSnapshot(ctx, assets); err != nil {
			log.Printf("snapshot cache write error: %v", err)
		}
	}
	return assets, true
}

// CurrentAssets returns the most recent snapshot, reading through the
// Redis cache before hitting the API.
func (s *Service) CurrentAssets(ctx context.Context) []domain.Asset {
	ctx, span := s.tracer.Start(ctx, "market.current-assets")
	defer span.End()

	if s.redis != nil {
		cached, err := s.cachedSnapshot(ctx)
		if err != nil {
			log.Printf("snapshot cache read error: %v", err)
		}
		if len(cached) > 0 {
			return cached
		}
	}

	assets, _ := s.FetchMarket(ctx)
	return assets
}

// FetchSeries returns the chart series for one asset over windowDays.
// It never fails observably: when the live series is unavailable it
// synthesizes one anchored at the asset's last known price.
func (s *Service) FetchSeries(ctx context.Context, assetID string, windowDays int) []domain.ChartPoint {
	ctx, span := s.tracer.Start(ctx, "market.fetch-series")
	defer span.End()

	windowDays = NormalizeWindow(windowDays)

	points, err := s.provider.FetchMarketChart(ctx, assetID, windowDays)
	if err == nil {
		return points
	}
	span.RecordError(err)
	log.Printf("chart fetch failed for %s, synthesizing series: %v", assetID, err)

	anchor := s.assetByID(ctx, assetID)
	return provider.SyntheticSeries(anchor, windowDays, s.now())
}

// NormalizeWindow coerces an arbitrary day count onto a supported window.
func NormalizeWindow(days int) int {
	for _, w := range domain.SupportedWindows {
		if days == w {
			return days
		}
	}
	return 1
}

func (s *Service) assetByID(ctx context.Context, assetID string) domain.Asset {
	for _, a := range s.CurrentAssets(ctx) {
		if a.ID == assetID {
			return a
		}
	}
	for _, a := range provider.FallbackAssets() {
		if a.ID == assetID {
			return a
		}
	}
	return domain.Asset{ID: assetID, Symbol: assetID}
}

func (s *Service) cacheSnapshot(ctx context.Context, assets []domain.Asset) error {
	data, err := json.Marshal(assets)
	if err != nil {
		return err
	}
	return s.redis.Set(ctx, snapshotCacheKey, data, snapshotCacheTTL).Err()
}

func (s *Service) cachedSnapshot(ctx context.Context) ([]domain.Asset, error) {
	data, err := s.redis.Get(ctx, snapshotCacheKey).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var assets []domain.Asset
	if err := json.Unmarshal(data, &assets); err != nil {
		return nil, err
	}
	return assets, nil
}
