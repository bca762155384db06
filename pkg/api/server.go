// Package api exposes the report structuring pipeline over HTTP.
package api

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/coolbeans/pharmstruct/pkg/cache"
	"github.com/coolbeans/pharmstruct/pkg/config"
	"github.com/coolbeans/pharmstruct/pkg/engine"
	"github.com/coolbeans/pharmstruct/pkg/preprocess"
	"github.com/coolbeans/pharmstruct/pkg/report"
)

// Request headers recognized by /predict.
const (
	useCacheHeader = "X-Use-Cache"
	sampleIDHeader = "X-Sample-ID"
	modelIDHeader  = "X-Model-ID"
)

// EngineFactory builds an extraction engine for a model id. The server keeps
// one structurer per model it has seen.
type EngineFactory func(modelID string) engine.Engine

// Server handles HTTP requests for report structuring and cache inspection.
type Server struct {
	store     *cache.Store
	cfg       *config.Config
	logger    *slog.Logger
	newEngine EngineFactory
	limiter   *clientLimiter

	mu          sync.Mutex
	structurers map[string]*report.Structurer
}

// New creates an API server. The cache store is shared, owned state passed in
// by reference; the server never creates its own.
func New(store *cache.Store, cfg *config.Config, newEngine EngineFactory, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		store:       store,
		cfg:         cfg,
		logger:      logger,
		newEngine:   newEngine,
		limiter:     newClientLimiter(cfg.PredictPerHour, cfg.PredictBurst),
		structurers: make(map[string]*report.Structurer),
	}
}

// Handler returns the routed HTTP handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /predict", s.rateLimited(s.predict))
	mux.HandleFunc("GET /cache/stats", s.cacheStats)
	mux.HandleFunc("GET /health", s.health)
	return withCORS(mux)
}

// Run starts the HTTP server on the configured address.
func (s *Server) Run() error {
	s.logger.Info("starting server", "addr", s.cfg.ListenAddr, "model", s.cfg.ModelID)
	return http.ListenAndServe(s.cfg.ListenAddr, s.Handler())
}

// withCORS adds CORS headers for frontend development.
func withCORS(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-Use-Cache, X-Sample-ID, X-Model-ID")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		h.ServeHTTP(w, r)
	})
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) cacheStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.store.Stats())
}

func (s *Server) predict(w http.ResponseWriter, r *http.Request) {
	reqID := uuid.NewString()[:8]

	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read request body")
		return
	}
	data := string(body)

	if strings.TrimSpace(data) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"error":      "Empty input",
			"message":    "Input text is required",
			"max_length": s.cfg.MaxInputLength,
		})
		return
	}
	if len(data) > s.cfg.MaxInputLength {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"error":      "Input too long",
			"message":    fmt.Sprintf("Input length (%d characters) exceeds maximum allowed length of %d characters", len(data), s.cfg.MaxInputLength),
			"max_length": s.cfg.MaxInputLength,
		})
		return
	}

	useCache := true
	if raw := r.Header.Get(useCacheHeader); raw != "" {
		useCache = strings.EqualFold(raw, "true")
	}
	sampleID := r.Header.Get(sampleIDHeader)
	modelID := r.Header.Get(modelIDHeader)
	if modelID == "" {
		modelID = s.cfg.ModelID
	}

	processed := preprocess.Report(data)
	key := cache.Key(processed, sampleID)

	if useCache {
		if payload, ok := s.store.Get(key); ok {
			s.logger.Info("cache hit, returning cached result", "req", reqID, "key", key)
			s.respondPayload(w, payload, map[string]any{"from_cache": true})
			return
		}
	}

	s.logger.Info("processing report", "req", reqID, "model", modelID)
	resp, err := s.structurer(modelID).Predict(r.Context(), processed)
	if err != nil {
		// Post-validation the only expected error is a blank preprocessed
		// document (e.g. input that sanitized away entirely).
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	payload, err := json.Marshal(resp)
	if err != nil {
		s.logger.Error("failed to encode response", "req", reqID, "error", err)
		writeError(w, http.StatusInternalServerError, "Processing error. Please try a different input.")
		return
	}
	if useCache {
		s.store.Put(key, payload)
	}

	s.respondPayload(w, payload, map[string]any{"sanitized_input": processed})
}

// structurer returns the structurer for a model id, creating it on first use.
func (s *Server) structurer(modelID string) *report.Structurer {
	s.mu.Lock()
	defer s.mu.Unlock()
	if st, ok := s.structurers[modelID]; ok {
		return st
	}
	s.logger.Info("creating structurer", "model", modelID)
	st := report.NewStructurer(s.newEngine(modelID))
	s.structurers[modelID] = st
	return st
}

// respondPayload writes a stored or freshly computed payload merged with
// extra top-level fields. Cached payloads from older versions may lack the
// text field; it is backfilled for frontend compatibility.
func (s *Server) respondPayload(w http.ResponseWriter, payload json.RawMessage, extra map[string]any) {
	var merged map[string]any
	if err := json.Unmarshal(payload, &merged); err != nil {
		s.logger.Error("corrupt cached payload", "error", err)
		writeError(w, http.StatusInternalServerError, "corrupt cached payload")
		return
	}
	if _, ok := merged["text"]; !ok {
		merged["text"] = ""
	}
	for key, value := range extra {
		merged[key] = value
	}
	writeJSON(w, http.StatusOK, merged)
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
