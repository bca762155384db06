// Package config loads runtime settings from a .env file (when present) and
// the environment.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/coolbeans/pharmstruct/pkg/engine"
)

// Config holds all runtime configuration for the service and CLI.
type Config struct {
	// ListenAddr is the HTTP bind address, e.g. ":7870".
	ListenAddr string

	// ModelID is the default extraction model; overridable per request via
	// the X-Model-ID header.
	ModelID string

	// EngineURL is the extraction service endpoint. Empty means the offline
	// rule-based engine.
	EngineURL string

	// APIKey authenticates against the extraction service.
	APIKey string

	// CacheDir holds the result cache file and population lock marker.
	CacheDir string

	// MaxInputLength caps accepted report text, in bytes.
	MaxInputLength int

	// PredictPerHour is the per-client request budget for /predict.
	PredictPerHour int

	// PredictBurst is the per-client burst allowance for /predict.
	PredictBurst int

	// PopulateDelay is the pause between batch-populated samples.
	PopulateDelay time.Duration
}

// Load reads .env (best effort) then environment variables, applying
// defaults for anything unset.
func Load() *Config {
	_ = godotenv.Load()

	port := envString("PORT", "7870")

	cacheDir := envString("CACHE_DIR", "")
	if cacheDir == "" {
		cacheDir = os.TempDir() + "/cache"
	}

	return &Config{
		ListenAddr:     ":" + port,
		ModelID:        envString("MODEL_ID", engine.DefaultModelID),
		EngineURL:      envString("ENGINE_URL", ""),
		APIKey:         envString("KEY", ""),
		CacheDir:       cacheDir,
		MaxInputLength: envInt("MAX_INPUT_LENGTH", 3000),
		PredictPerHour: envInt("RATE_LIMIT_PREDICT", 100),
		PredictBurst:   envInt("RATE_LIMIT_BURST", 10),
		PopulateDelay:  time.Duration(envInt("POPULATE_DELAY_SECONDS", 6)) * time.Second,
	}
}

func envString(name, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(name)); value != "" {
		return value
	}
	return fallback
}

func envInt(name string, fallback int) int {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}
