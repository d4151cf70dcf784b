package main

import (
	"context"
	"fmt"
	"log"
	"os"
	ossignal "os/signal"
	"syscall"
	"time"

	"crypto-nexus/internal/advisor"
	"crypto-nexus/internal/cache"
	"crypto-nexus/internal/config"
	"crypto-nexus/internal/dashboard"
	"crypto-nexus/internal/db"
	"crypto-nexus/internal/market"
	"crypto-nexus/internal/portfolio"
	"crypto-nexus/internal/provider"
	"crypto-nexus/internal/repository"
	"crypto-nexus/internal/tui"
	"crypto-nexus/pkg/tracing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/bubbletea"
	"github.com/charmbracelet/wish/logging"
	"github.com/joho/godotenv"
	"go.opentelemetry.io/otel/trace"
	gossh "golang.org/x/crypto/ssh"
)

// ctxKey is a typed context key to avoid collisions.
type ctxKey string

const sessionKey ctxKey = "session_id"

var (
	loadEnvFunc         = godotenv.Load
	loadConfigFunc      = config.Load
	initPostgresFunc    = db.InitPostgres
	initRedisFunc       = cache.InitRedis
	initTracerFunc      = tracing.InitTracer
	newMarketClientFunc = func(tracer trace.Tracer) market.Provider {
		return provider.NewCoinGeckoClient(tracer)
	}
	newWishServerFunc = wish.NewServer
	setupSignalNotify = ossignal.Notify
	waitForSignalFunc = func(quit <-chan os.Signal) { <-quit }
)

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

	var convStore advisor.ConversationStore
	if db.Pool != nil {
		convStore = repository.NewConversationRepository(db.Pool, tracer)
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

	addr := fmt.Sprintf("0.0.0.0:%d", cfg.SSHPort)

	srv, err := newWishServerFunc(
		wish.WithAddress(addr),
		wish.WithHostKeyPath(cfg.SSHHostKeyPath),
		wish.WithPublicKeyAuth(func(ctx ssh.Context, key ssh.PublicKey) bool {
			// Anyone with a key may connect; the fingerprint keys the
			// advisor conversation so history follows the same client.
			fingerprint := gossh.FingerprintSHA256(key)
			ctx.SetValue(sessionKey, "ssh:"+fingerprint)
			log.Printf("SSH session accepted: fingerprint=%s", fingerprint)
			return true
		}),
		wish.WithMiddleware(
			bubbletea.Middleware(func(s ssh.Session) (tea.Model, []tea.ProgramOption) {
				sessionID, _ := s.Context().Value(sessionKey).(string)
				if sessionID == "" {
					sessionID = "ssh:" + s.User()
				}

				model := tui.NewModel(controller, sessionID)
				pty, _, _ := s.Pty()
				model.SetSize(pty.Window.Width, pty.Window.Height)

				return model, []tea.ProgramOption{tea.WithAltScreen()}
			}),
			logging.Middleware(),
		),
	)
	if err != nil {
		log.Fatalf("failed to create SSH server: %v", err)
	}

	if srv != nil {
		go func() {
			log.Printf("SSH server listening on %s", addr)
			if err := srv.ListenAndServe(); err != nil {
				log.Printf("SSH server stopped: %v", err)
			}
		}()
	}

	quit := make(chan os.Signal, 1)
	setupSignalNotify(quit, syscall.SIGINT, syscall.SIGTERM)
	waitForSignalFunc(quit)
	log.Println("Shutting down SSH server...")

	cancel()

	if srv != nil {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("SSH server shutdown error: %v", err)
		}
	}

	log.Println("SSH server exited")
}
