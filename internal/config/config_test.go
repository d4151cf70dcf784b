package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("REDIS_URL", "")
	t.Setenv("MARKET_POLL_SECS", "")
	t.Setenv("OPENAI_MODEL", "")
	t.Setenv("HTTP_PORT", "")
	t.Setenv("SSH_PORT", "")
	t.Setenv("SSH_HOST_KEY_PATH", "")

	cfg := Load()
	if cfg.RedisURL != "localhost:6379" {
		t.Fatalf("expected default redis url, got %s", cfg.RedisURL)
	}
	if cfg.MarketPollSecs != 60 {
		t.Fatalf("expected default poll secs 60, got %d", cfg.MarketPollSecs)
	}
	if cfg.OpenAIModel != "gpt-4o-mini" {
		t.Fatalf("expected default model, got %s", cfg.OpenAIModel)
	}
	if cfg.HTTPPort != 8080 || cfg.SSHPort != 2222 {
		t.Fatalf("unexpected default ports: %d/%d", cfg.HTTPPort, cfg.SSHPort)
	}
	if cfg.SSHHostKeyPath == "" {
		t.Fatal("expected default host key path")
	}
}

func TestLoadWithEnv(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "token")
	t.Setenv("DATABASE_URL", "postgres://example")
	t.Setenv("REDIS_URL", "redis:6379")
	t.Setenv("MARKET_POLL_SECS", "120")
	t.Setenv("OPENAI_MODEL", "gpt-4o")
	t.Setenv("HTTP_PORT", "9090")

	cfg := Load()
	if cfg.TelegramBotToken != "token" || cfg.DatabaseURL != "postgres://example" || cfg.RedisURL != "redis:6379" {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if cfg.MarketPollSecs != 120 {
		t.Fatalf("expected poll secs 120, got %d", cfg.MarketPollSecs)
	}
	if cfg.OpenAIModel != "gpt-4o" || cfg.HTTPPort != 9090 {
		t.Fatalf("unexpected overrides: %+v", cfg)
	}

	t.Setenv("MARKET_POLL_SECS", "bad")
	cfg = Load()
	if cfg.MarketPollSecs != 60 {
		t.Fatalf("invalid poll secs should fall back to default, got %d", cfg.MarketPollSecs)
	}
}
