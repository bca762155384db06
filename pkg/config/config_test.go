package config

import (
	"testing"
	"time"

	"github.com/coolbeans/pharmstruct/pkg/engine"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{
		"PORT", "MODEL_ID", "ENGINE_URL", "KEY", "CACHE_DIR",
		"MAX_INPUT_LENGTH", "RATE_LIMIT_PREDICT", "RATE_LIMIT_BURST",
		"POPULATE_DELAY_SECONDS",
	} {
		t.Setenv(name, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg := Load()

	if cfg.ListenAddr != ":7870" {
		t.Errorf("ListenAddr = %q, want :7870", cfg.ListenAddr)
	}
	if cfg.ModelID != engine.DefaultModelID {
		t.Errorf("ModelID = %q, want %q", cfg.ModelID, engine.DefaultModelID)
	}
	if cfg.EngineURL != "" {
		t.Errorf("EngineURL = %q, want empty", cfg.EngineURL)
	}
	if cfg.MaxInputLength != 3000 {
		t.Errorf("MaxInputLength = %d, want 3000", cfg.MaxInputLength)
	}
	if cfg.PredictPerHour != 100 || cfg.PredictBurst != 10 {
		t.Errorf("rate limits = %d/%d, want 100/10", cfg.PredictPerHour, cfg.PredictBurst)
	}
	if cfg.PopulateDelay != 6*time.Second {
		t.Errorf("PopulateDelay = %v, want 6s", cfg.PopulateDelay)
	}
	if cfg.CacheDir == "" {
		t.Error("CacheDir is empty")
	}
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "8080")
	t.Setenv("MODEL_ID", "gemini-2.5-pro")
	t.Setenv("ENGINE_URL", "http://extractor.internal/extract")
	t.Setenv("KEY", "secret")
	t.Setenv("CACHE_DIR", "/var/cache/pharmstruct")
	t.Setenv("MAX_INPUT_LENGTH", "5000")
	t.Setenv("RATE_LIMIT_PREDICT", "50")
	t.Setenv("RATE_LIMIT_BURST", "5")
	t.Setenv("POPULATE_DELAY_SECONDS", "1")

	cfg := Load()

	if cfg.ListenAddr != ":8080" {
		t.Errorf("ListenAddr = %q", cfg.ListenAddr)
	}
	if cfg.ModelID != "gemini-2.5-pro" {
		t.Errorf("ModelID = %q", cfg.ModelID)
	}
	if cfg.EngineURL != "http://extractor.internal/extract" {
		t.Errorf("EngineURL = %q", cfg.EngineURL)
	}
	if cfg.APIKey != "secret" {
		t.Errorf("APIKey = %q", cfg.APIKey)
	}
	if cfg.CacheDir != "/var/cache/pharmstruct" {
		t.Errorf("CacheDir = %q", cfg.CacheDir)
	}
	if cfg.MaxInputLength != 5000 {
		t.Errorf("MaxInputLength = %d", cfg.MaxInputLength)
	}
	if cfg.PredictPerHour != 50 || cfg.PredictBurst != 5 {
		t.Errorf("rate limits = %d/%d", cfg.PredictPerHour, cfg.PredictBurst)
	}
	if cfg.PopulateDelay != time.Second {
		t.Errorf("PopulateDelay = %v", cfg.PopulateDelay)
	}
}

func TestLoad_InvalidIntFallsBack(t *testing.T) {
	clearEnv(t)
	t.Setenv("MAX_INPUT_LENGTH", "not-a-number")

	if cfg := Load(); cfg.MaxInputLength != 3000 {
		t.Errorf("MaxInputLength = %d, want default 3000", cfg.MaxInputLength)
	}
}
