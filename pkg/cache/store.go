// Package cache persists structuring results in a single JSON file keyed by
// sample id or content hash. The file is the source of truth; the in-memory
// map is a write-through mirror loaded at construction and flushed to disk
// after every mutation with a full-file rewrite. That costs O(cache size) per
// write, which is acceptable here: the cache is small and writes happen at
// most once per cache miss.
package cache

import (
	"bytes"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

const (
	cacheFileName = "sample_cache.json"

	samplePrefix = "sample_"
	customPrefix = "custom_"
)

// Store is the file-backed result cache. All methods are safe for concurrent
// use within one process; cross-process exclusion exists only for Populate.
type Store struct {
	mu      sync.Mutex
	dir     string
	file    string
	entries map[string]json.RawMessage
	logger  *slog.Logger
}

// NewStore opens (or initializes) the cache in dir. An unreadable or corrupt
// cache file is logged and treated as an empty cache, never as a fatal error.
func NewStore(dir string, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	store := &Store{
		dir:     dir,
		file:    filepath.Join(dir, cacheFileName),
		entries: make(map[string]json.RawMessage),
		logger:  logger,
	}
	store.load()
	return store
}

// Key derives the cache key for a report. An explicit sample id keys as
// "sample_<id>" (without doubling an existing prefix); otherwise the
// preprocessed text keys as "custom_<md5>". Identical text under two sample
// ids therefore caches twice, while id-less submissions of the same text
// collapse to one entry.
//
// The sample and hash namespaces are distinguished only by prefix; an id
// crafted to look like a hash key is not detected or rejected.
func Key(text, sampleID string) string {
	if sampleID != "" {
		if strings.HasPrefix(sampleID, samplePrefix) {
			return sampleID
		}
		return samplePrefix + sampleID
	}
	sum := md5.Sum([]byte(text))
	return customPrefix + hex.EncodeToString(sum[:])
}

// Get returns the stored payload for key. A hit is a pure read.
func (s *Store) Get(key string) (json.RawMessage, bool) {
	s.mu.Lock()
	payload, ok := s.entries[key]
	s.mu.Unlock()
	if ok {
		s.logger.Info("cache hit", "key", key)
	}
	return payload, ok
}

// Put stores payload under key and persists the whole cache.
func (s *Store) Put(key string, payload json.RawMessage) {
	s.mu.Lock()
	s.entries[key] = payload
	s.save()
	s.mu.Unlock()
	s.logger.Info("cached result", "key", key)
}

// Remove deletes the entry for the given sample id, persisting on success.
// It reports whether an entry was removed.
func (s *Store) Remove(sampleID string) bool {
	key := Key("", sampleID)
	s.mu.Lock()
	_, ok := s.entries[key]
	if ok {
		delete(s.entries, key)
		s.save()
	}
	s.mu.Unlock()
	if ok {
		s.logger.Info("removed sample from cache", "id", sampleID)
	} else {
		s.logger.Warn("sample not found in cache", "id", sampleID)
	}
	return ok
}

// Clear empties the cache and persists the empty map.
func (s *Store) Clear() {
	s.mu.Lock()
	s.entries = make(map[string]json.RawMessage)
	s.save()
	s.mu.Unlock()
	s.logger.Info("cache cleared")
}

// Stats summarizes the cache contents and backing file.
type Stats struct {
	TotalEntries    int    `json:"total_entries"`
	SampleEntries   int    `json:"sample_entries"`
	CustomEntries   int    `json:"custom_entries"`
	CacheFile       string `json:"cache_file"`
	CacheFileExists bool   `json:"cache_file_exists"`
}

// Stats returns entry counts by key namespace plus file metadata.
func (s *Store) Stats() Stats {
	s.mu.Lock()
	stats := Stats{
		TotalEntries: len(s.entries),
		CacheFile:    s.file,
	}
	for key := range s.entries {
		switch {
		case strings.HasPrefix(key, samplePrefix):
			stats.SampleEntries++
		case strings.HasPrefix(key, customPrefix):
			stats.CustomEntries++
		}
	}
	s.mu.Unlock()

	if _, err := os.Stat(s.file); err == nil {
		stats.CacheFileExists = true
	}
	return stats
}

// load reads the cache file into memory, starting empty when the file is
// missing or unreadable.
func (s *Store) load() {
	data, err := os.ReadFile(s.file)
	if err != nil {
		if os.IsNotExist(err) {
			s.logger.Info("no existing cache file found, starting with empty cache", "file", s.file)
		} else {
			s.logger.Error("error loading cache", "file", s.file, "error", err)
		}
		return
	}
	if err := json.Unmarshal(data, &s.entries); err != nil {
		s.logger.Error("error parsing cache file, starting with empty cache", "file", s.file, "error", err)
		s.entries = make(map[string]json.RawMessage)
		return
	}
	s.logger.Info("loaded cache", "entries", len(s.entries))
}

// save writes the whole cache to disk as pretty-printed UTF-8 JSON with
// non-ASCII characters preserved unescaped. Write failures are logged and
// swallowed. Callers must hold s.mu.
func (s *Store) save() {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		s.logger.Error("error creating cache directory", "dir", s.dir, "error", err)
		return
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s.entries); err != nil {
		s.logger.Error("error encoding cache", "error", err)
		return
	}

	if err := os.WriteFile(s.file, buf.Bytes(), 0o644); err != nil {
		s.logger.Error("error saving cache", "file", s.file, "error", err)
		return
	}
	s.logger.Info("saved cache", "entries", len(s.entries))
}

// File returns the path of the backing cache file.
func (s *Store) File() string {
	return s.file
}

// Dir returns the cache directory.
func (s *Store) Dir() string {
	return s.dir
}

// ensureDir creates the cache directory if needed.
func (s *Store) ensureDir() error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create cache directory %s: %w", s.dir, err)
	}
	return nil
}
