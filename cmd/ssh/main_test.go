package main

import (
	"context"
	"os"
	"testing"
	"time"

	"crypto-nexus/internal/cache"
	"crypto-nexus/internal/config"
	"crypto-nexus/internal/domain"
	"crypto-nexus/internal/market"

	"github.com/charmbracelet/ssh"
	"github.com/redis/go-redis/v9"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

func TestMainBootstrap(t *testing.T) {
	restore := stubSSHDeps()
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

func stubSSHDeps() func() {
	origLoadEnv := loadEnvFunc
	origLoadConfig := loadConfigFunc
	origInitPostgres := initPostgresFunc
	origInitRedis := initRedisFunc
	origInitTracer := initTracerFunc
	origNewMarketClient := newMarketClientFunc
	origNewWishServer := newWishServerFunc
	origSetupSignal := setupSignalNotify
	origWait := waitForSignalFunc

	loadEnvFunc = func(...string) error { return nil }
	loadConfigFunc = func() *config.Config {
		return &config.Config{
			RedisURL:       "",
			DatabaseURL:    "",
			SSHPort:        2222,
			SSHHostKeyPath: ".ssh/test_key",
		}
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
	newWishServerFunc = func(ops ...ssh.Option) (*ssh.Server, error) {
		return nil, nil
	}
	setupSignalNotify = func(c chan<- os.Signal, sig ...os.Signal) {}
	waitForSignalFunc = func(<-chan os.Signal) {}

	return func() {
		loadEnvFunc = origLoadEnv
		loadConfigFunc = origLoadConfig
		initPostgresFunc = origInitPostgres
		initRedisFunc = origInitRedis
		initTracerFunc = origInitTracer
		newMarketClientFunc = origNewMarketClient
		newWishServerFunc = origNewWishServer
		setupSignalNotify = origSetupSignal
		waitForSignalFunc = origWait
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
