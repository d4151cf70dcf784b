package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"crypto-nexus/internal/advisor"
	"crypto-nexus/internal/bot"
	"crypto-nexus/internal/cache"
	"crypto-nexus/internal/config"
	"crypto-nexus/internal/dashboard"
	"crypto-nexus/internal/db"
	"crypto-nexus/internal/handler"
	"crypto-nexus/internal/job"
	"crypto-nexus/internal/market"
	"crypto-nexus/internal/portfolio"
	"crypto-nexus/internal/provider"
	"crypto-nexus/internal/repository"
	"crypto-nexus/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/trace"

	_ "crypto-nexus/docs"
)

var (
	loadEnvFunc         = godotenv.Load
	loadConfigFunc      = config.Load
	initPostgresFunc    = db.InitPostgres
	initRedisFunc       = cache.InitRedis
	initTracerFunc      = tracing.InitTracer
	newMarketClientFunc = func(tracer trace.Tracer) market.Provider {
		return provider.NewCoinGeckoClient(tracer)
	}
	newMarketPollerFunc    = job.NewMarketPoller
	startPollerFunc        = func(p *job.MarketPoller, ctx context.Context) { go p.Start(ctx) }
	startTelegramBotFunc   = bot.StartTelegramBot
	newRouterFunc          = gin.Default
	setupSignalNotify      = signal.Notify
	waitForSignalFunc      = func(quit <-chan os.Signal) { <-quit }
	startHTTPServerFunc    = func(srv *http.Server) error { return srv.ListenAndServe() }
	shutdownHTTPServerFunc = func(srv *http.Server, ctx context.Context) error { return srv.Shutdown(ctx) }
)

// @title           Crypto Nexus API
// @version         1.0
// @description     Crypto dashboard with portfolio tracking and an AI advisor.

// @host      localhost:8080
// @BasePath  /
func main() {
	loadEnvFunc()

	cfg := loadConfigFunc()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	initRedisFunc(ctx, cfg.RedisURL)
	if cfg.DatabaseURL != "" {
		initPostgresFunc(ctx, cfg.DatabaseURL)
	}

	tp, tracer, err := initTracerFunc(ctx)
	if err != nil {
		log.Fatalf("failed to initialize tracer: %v", err)
	}
	defer func() {
		if err := tp.Shutdown(ctx); err != nil {
			log.Printf("error shutting down tracer provider: %v", err)
		}
	}()

	// Conversation store: Postgres when configured, in-memory otherwise
	var convStore advisor.ConversationStore
	if db.Pool != nil {
		convRepo := repository.NewConversationRepository(db.Pool, tracer)
		if err := convRepo.RunMigrations(ctx); err != nil {
			log.Fatalf("failed to run migrations: %v", err)
		}
		convStore = convRepo
	} else {
		convStore = advisor.NewMemoryStore()
	}

	marketSvc := market.NewService(tracer, newMarketClientFunc(tracer), cache.Client)

	store := portfolio.NewStore(tracer, cache.Client)
	store.Load(ctx)

	var llm advisor.LLMClient
	if cfg.OpenAIAPIKey != "" {
		llm = advisor.NewOpenAIClient(cfg.OpenAIAPIKey)
	} else {
		llm = advisor.NewDisabledClient()
	}
	advisorSvc := advisor.NewService(tracer, llm, convStore, cfg.OpenAIModel, cfg.AdvisorMaxHistory)

	controller := dashboard.NewController(tracer, marketSvc, store, advisorSvc)

	poller := newMarketPollerFunc(tracer, job.RefresherFunc(func(ctx context.Context) {
		controller.RefreshMarket(ctx)
	}), cfg.MarketPollSecs)
	startPollerFunc(poller, ctx)

	startTelegramBotFunc(cfg.TelegramBotToken, controller)

	h := handler.New(tracer, controller, marketSvc, store)

	r := newRouterFunc()
	r.Use(otelgin.Middleware("crypto-nexus"))

	h.RegisterRoutes(r, cfg.APIKey)
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	srv := &http.Server{
		Addr:    ":" + strconv.Itoa(cfg.HTTPPort),
		Handler: r,
	}

	go func() {
		if err := startHTTPServerFunc(srv); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	setupSignalNotify(quit, syscall.SIGINT, syscall.SIGTERM)
	waitForSignalFunc(quit)
	log.Println("Shutting down server...")

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := shutdownHTTPServerFunc(srv, shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exiting")
}
