package config

import (
	"os"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Server.Port == "" {
		t.Fatalf("expected a default server port, got %+v", cfg.Server)
	}
	if cfg.RateLimit.CreateLimit != 10 || cfg.RateLimit.CreateWindow != time.Hour {
		t.Fatalf("unexpected create policy: %+v", cfg.RateLimit)
	}
	if cfg.RateLimit.UpdateLimit != 60 || cfg.RateLimit.UpdateWindow != time.Minute {
		t.Fatalf("unexpected update policy: %+v", cfg.RateLimit)
	}
}

func TestLoadFromEnv(t *testing.T) {
	os.Setenv("MONGODB_URI", "mongodb://localhost:27017/testdb")
	os.Setenv("REDIS_HOST", "localhost")
	os.Setenv("RATE_LIMIT_UPDATE", "5")
	defer func() {
		os.Unsetenv("MONGODB_URI")
		os.Unsetenv("REDIS_HOST")
		os.Unsetenv("RATE_LIMIT_UPDATE")
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.MongoDB.URI == "" || cfg.Redis.Host == "" {
		t.Fatalf("unexpected empty config values: %+v", cfg)
	}
	if cfg.RateLimit.UpdateLimit != 5 {
		t.Fatalf("RATE_LIMIT_UPDATE not honored: %+v", cfg.RateLimit)
	}
}
