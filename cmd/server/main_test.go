package main

import (
	"context"
	"net/http"
	"os"
	"testing"
	"time"

	"crypto-nexus/internal/cache"
	"crypto-nexus/internal/config"
	"crypto-nexus/internal/dashboard"
	"crypto-nexus/internal/domain"
	"crypto-nexus/internal/job"
	"crypto-nexus/internal/market"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

func TestMainBootstrap(t *testing.T) {
	gin.SetMode(gin.TestMode)
	restore := stubServerDeps()
	defer restore()

	done := make(chan struct{})
	go func() {
		main()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("main did not exit")
	}
}

func stubServerDeps() func() {
	origLoadEnv := loadEnvFunc
	origLoadConfig := loadConfigFunc
	origInitPostgres := initPostgresFunc
	origInitRedis := initRedisFunc
	origInitTracer := initTracerFunc
	origNewMarketClient := newMarketClientFunc
	origStartPoller := startPollerFunc
	origStartTelegram := startTelegramBotFunc
	origNewRouter := newRouterFunc
	origSetupSignal := setupSignalNotify
	origWait := waitForSignalFunc
	origStartHTTP := startHTTPServerFunc
	origShutdownHTTP := shutdownHTTPServerFunc

	loadEnvFunc = func(...string) error { return nil }
	loadConfigFunc = func() *config.Config {
		return &config.Config{RedisURL: "", DatabaseURL: "", MarketPollSecs: 1, HTTPPort: 8080}
	}
	initPostgresFunc = func(context.Context, string) {}
	initRedisFunc = func(context.Context, string) {
		// Unreachable address: reads fail fast and the store keeps defaults
		cache.Client = redis.NewClient(&redis.Options{
			Addr:               "127.0.0.1:1",
			MaxRetries:         -1,
			DialerRetries:      1,
			DialerRetryTimeout: time.Millisecond,
		})
	}
	initTracerFunc = func(ctx context.Context) (*sdktrace.TracerProvider, trace.Tracer, error) {
		tp := sdktrace.NewTracerProvider()
		return tp, tp.Tracer("test"), nil
	}
	newMarketClientFunc = func(trace.Tracer) market.Provider { return stubMarketProvider{} }
	startPollerFunc = func(*job.MarketPoller, context.Context) {}
	startTelegramBotFunc = func(string, *dashboard.Controller) {}
	newRouterFunc = func(...gin.OptionFunc) *gin.Engine { return gin.New() }
	setupSignalNotify = func(c chan<- os.Signal, sig ...os.Signal) {}
	waitForSignalFunc = func(<-chan os.Signal) {}
	startHTTPServerFunc = func(*http.Server) error { return http.ErrServerClosed }
	shutdownHTTPServerFunc = func(*http.Server, context.Context) error { return nil }

	return func() {
		loadEnvFunc = origLoadEnv
		loadConfigFunc = origLoadConfig
		initPostgresFunc = origInitPostgres
		initRedisFunc = origInitRedis
		initTracerFunc = origInitTracer
		newMarketClientFunc = origNewMarketClient
		startPollerFunc = origStartPoller
		startTelegramBotFunc = origStartTelegram
		newRouterFunc = origNewRouter
		setupSignalNotify = origSetupSignal
		waitForSignalFunc = origWait
		startHTTPServerFunc = origStartHTTP
		shutdownHTTPServerFunc = origShutdownHTTP
		cache.Client = nil
	}
}

type stubMarketProvider struct{}

func (stubMarketProvider) FetchMarkets(ctx context.Context, ids []string) ([]domain.Asset, error) {
	return []domain.Asset{{ID: "bitcoin", Symbol: "BTC", Price: 1}}, nil
}

func (stubMarketProvider) FetchMarketChart(ctx context.Context, id string, windowDays int) ([]domain.ChartPoint, error) {
	return nil, nil
}
