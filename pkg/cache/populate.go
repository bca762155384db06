package cache

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// lockFileName marks an in-flight (or recently completed) batch population.
// Its content is informational only.
const lockFileName = ".cache_lock"

// DefaultPopulateDelay is the pause between processed samples, a courtesy to
// the extraction service's rate limit rather than a correctness requirement.
const DefaultPopulateDelay = 6 * time.Second

// SampleReport is one canned report for batch cache population.
type SampleReport struct {
	ID   string `json:"id" yaml:"id"`
	Text string `json:"text" yaml:"text"`
}

// ComputeFunc produces the payload to cache for one report text.
type ComputeFunc func(text string) (json.RawMessage, error)

// Populate computes and caches results for any samples not already cached
// (all of them when force is set), pausing delay between processed items.
// Samples that fail to compute are logged and skipped; the batch continues.
//
// A lock marker file serializes populations across processes: when the
// marker already exists and force is false the whole batch is skipped. The
// marker is created atomically (create-if-absent) and removed when the batch
// finishes, regardless of outcome.
func (s *Store) Populate(samples []SampleReport, compute ComputeFunc, force bool, delay time.Duration) error {
	if len(samples) == 0 {
		s.logger.Info("no sample reports provided for cache population")
		return nil
	}
	if err := s.ensureDir(); err != nil {
		return err
	}

	lockPath := filepath.Join(s.dir, lockFileName)
	if force {
		// A forced run proceeds even when a marker was left behind.
		_ = os.Remove(lockPath)
	}
	lock, err := os.OpenFile(lockPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			s.logger.Info("cache population already in progress or recently completed")
			return nil
		}
		return fmt.Errorf("create lock marker %s: %w", lockPath, err)
	}
	fmt.Fprintf(lock, "%d\n", os.Getpid())
	lock.Close()
	defer os.Remove(lockPath)

	s.logger.Info("starting cache population", "samples", len(samples))

	for i, sample := range samples {
		if sample.ID == "" || strings.TrimSpace(sample.Text) == "" {
			s.logger.Warn("sample missing id or text, skipping", "index", i)
			continue
		}

		key := Key(sample.Text, sample.ID)
		if !force {
			if _, ok := s.Get(key); ok {
				s.logger.Info("sample already cached, skipping", "id", sample.ID)
				continue
			}
		}

		s.logger.Info("processing sample", "id", sample.ID, "progress", fmt.Sprintf("%d/%d", i+1, len(samples)))
		payload, err := compute(sample.Text)
		if err != nil {
			s.logger.Error("error processing sample", "id", sample.ID, "error", err)
			continue
		}
		s.Put(key, payload)

		if delay > 0 && i < len(samples)-1 {
			time.Sleep(delay)
		}
	}

	s.logger.Info("cache population completed")
	return nil
}
