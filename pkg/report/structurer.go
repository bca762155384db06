package report

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/coolbeans/pharmstruct/pkg/engine"
)

// ErrEmptyInput is returned when the report text is empty or whitespace-only.
var ErrEmptyInput = errors.New("report text cannot be empty")

// Response is the complete structuring payload consumed by the presentation
// layer and stored in the result cache.
type Response struct {
	Segments          []Segment         `json:"segments"`
	AnnotatedDocument AnnotatedDocument `json:"annotated_document_json"`
	Text              string            `json:"text"`
	RawPrompt         string            `json:"raw_prompt,omitempty"`
}

// AnnotatedDocument mirrors the raw engine output included verbatim in the
// response alongside the segmented view. On serialization trouble it carries
// an error message instead of extractions so the presentation layer never
// crashes on a missing field.
type AnnotatedDocument struct {
	Extractions []SerializedExtraction `json:"extractions,omitempty"`
	Error       string                 `json:"error,omitempty"`
}

// SerializedExtraction is the cache/response form of one raw extraction.
type SerializedExtraction struct {
	Text            string              `json:"extraction_text"`
	Class           string              `json:"extraction_class"`
	Attributes      map[string]string   `json:"attributes,omitempty"`
	CharInterval    *SerializedInterval `json:"char_interval,omitempty"`
	AlignmentStatus string              `json:"alignment_status,omitempty"`
}

// SerializedInterval carries best-effort start/stop positions; either side
// may be null when the upstream span was only partially resolved.
type SerializedInterval struct {
	StartPos *int `json:"start_pos"`
	EndPos   *int `json:"end_pos"`
}

// Structurer drives the extraction engine and assembles structuring results.
// It is stateless apart from its collaborators and safe for concurrent use.
type Structurer struct {
	engine   engine.Engine
	examples []engine.ExampleDocument
}

// NewStructurer creates a Structurer backed by the given extraction engine.
func NewStructurer(eng engine.Engine) *Structurer {
	return &Structurer{
		engine:   eng,
		examples: engine.DefaultExamples(),
	}
}

// Predict structures a report: it invokes the extraction engine once, builds
// and organizes segments, and renders the plain-text view.
//
// Empty or whitespace-only input returns ErrEmptyInput. An engine failure
// does not return an error; it yields a payload whose text explains the
// failure and whose segment list is empty, preserving liveness downstream.
func (s *Structurer) Predict(ctx context.Context, reportText string) (*Response, error) {
	if strings.TrimSpace(reportText) == "" {
		return nil, ErrEmptyInput
	}

	extractions, err := s.engine.Extract(ctx, reportText)
	if err != nil {
		return &Response{
			Segments:          []Segment{},
			AnnotatedDocument: AnnotatedDocument{Error: err.Error()},
			Text:              fmt.Sprintf("Error processing report: %v", err),
		}, nil
	}

	segments := Organize(BuildSegments(extractions))

	return &Response{
		Segments:          segments,
		AnnotatedDocument: serializeExtractions(extractions),
		Text:              RenderText(segments),
		RawPrompt:         engine.BuildPrompt(s.examples, reportText),
	}, nil
}

// serializeExtractions converts raw extractions into their response form.
func serializeExtractions(extractions []engine.Extraction) AnnotatedDocument {
	serialized := make([]SerializedExtraction, 0, len(extractions))
	for _, extraction := range extractions {
		serialized = append(serialized, SerializedExtraction{
			Text:            extraction.Text,
			Class:           extraction.Class,
			Attributes:      extraction.Attributes,
			CharInterval:    serializeInterval(extraction.CharInterval),
			AlignmentStatus: extraction.AlignmentStatus,
		})
	}
	return AnnotatedDocument{Extractions: serialized}
}

// serializeInterval preserves whatever endpoint positions coerce to integers,
// leaving the rest null.
func serializeInterval(ci *engine.CharInterval) *SerializedInterval {
	if ci == nil {
		return nil
	}
	out := &SerializedInterval{}
	if start, ok := coercePosition(ci.StartPos, "start"); ok {
		out.StartPos = &start
	}
	if end, ok := coercePosition(ci.EndPos, "stop"); ok {
		out.EndPos = &end
	}
	return out
}
