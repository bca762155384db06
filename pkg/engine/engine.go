package engine

import "context"

// DefaultModelID is used when no model is requested explicitly.
const DefaultModelID = "gemini-2.5-flash"

// Engine turns raw report text into labeled extractions. Implementations call
// out to whatever does the actual extraction (a remote model-backed service,
// or a deterministic rule set for offline use); the structuring core only
// depends on this interface.
type Engine interface {
	Extract(ctx context.Context, text string) ([]Extraction, error)
}

// Options configure an extraction run. AcceptLesserMatch and FuzzyThreshold
// are owned settings passed explicitly to the service: lesser alignment
// matches are rejected and fuzzy alignment uses a 0.50 threshold unless the
// caller decides otherwise.
type Options struct {
	ModelID           string
	APIKey            string
	Temperature       float64
	MaxCharBuffer     int
	AcceptLesserMatch bool
	FuzzyThreshold    float64
}

// DefaultOptions returns the standard extraction settings.
func DefaultOptions() Options {
	return Options{
		ModelID:        DefaultModelID,
		MaxCharBuffer:  2000,
		FuzzyThreshold: 0.50,
	}
}
