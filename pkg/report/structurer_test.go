package report

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/coolbeans/pharmstruct/pkg/engine"
)

// stubEngine returns a fixed extraction list.
type stubEngine struct {
	extractions []engine.Extraction
	err         error
}

func (s *stubEngine) Extract(context.Context, string) ([]engine.Extraction, error) {
	return s.extractions, s.err
}

func TestPredict_EmptyInput(t *testing.T) {
	structurer := NewStructurer(&stubEngine{})

	for _, input := range []string{"", "   \n\t  "} {
		_, err := structurer.Predict(context.Background(), input)
		if !errors.Is(err, ErrEmptyInput) {
			t.Errorf("Predict(%q) error = %v, want ErrEmptyInput", input, err)
		}
	}
}

func TestPredict_EngineFailureYieldsErrorPayload(t *testing.T) {
	structurer := NewStructurer(&stubEngine{err: errors.New("service unavailable")})

	resp, err := structurer.Predict(context.Background(), "FINDINGS: Normal.")
	if err != nil {
		t.Fatalf("Predict returned error %v, want error payload instead", err)
	}
	if !strings.HasPrefix(resp.Text, "Error processing report:") {
		t.Errorf("Text = %q, want error message", resp.Text)
	}
	if len(resp.Segments) != 0 {
		t.Errorf("Segments = %v, want empty", resp.Segments)
	}
	if resp.AnnotatedDocument.Error == "" {
		t.Error("AnnotatedDocument.Error is empty, want failure message")
	}
}

func TestPredict_FullPipeline(t *testing.T) {
	structurer := NewStructurer(&stubEngine{extractions: []engine.Extraction{
		{
			Text:         "EXAMINATION: Chest CT",
			Class:        "findings_prefix",
			Attributes:   engine.Attributes{"section": "examination"},
			CharInterval: &engine.CharInterval{StartPos: 0, EndPos: 21},
		},
		{
			Text:         "Normal lungs.",
			Class:        "results_body",
			Attributes:   engine.Attributes{"section": "Lungs", "clinical_significance": "NORMAL"},
			CharInterval: &engine.CharInterval{StartPos: 33, EndPos: 46},
		},
		{Text: "No acute findings.", Class: "conclusions_suffix"},
		{Text: "ignored", Class: "unknown_class"},
	}})

	resp, err := structurer.Predict(context.Background(), "EXAMINATION: Chest CT\n\nFINDINGS: Normal lungs.\n\nIMPRESSION: No acute findings.")
	if err != nil {
		t.Fatalf("Predict: %v", err)
	}

	if len(resp.Segments) != 3 {
		t.Fatalf("got %d segments, want 3", len(resp.Segments))
	}
	if resp.Segments[0].Zone != ZonePrefix || resp.Segments[1].Zone != ZoneBody || resp.Segments[2].Zone != ZoneSuffix {
		t.Errorf("segments out of zone order: %+v", resp.Segments)
	}
	if resp.Segments[1].Significance != "normal" {
		t.Errorf("significance = %q, want %q", resp.Segments[1].Significance, "normal")
	}

	for _, want := range []string{"EXAMINATION:", "Chest CT", "FINDINGS:", "Lungs: Normal lungs.", "IMPRESSION:", "No acute findings."} {
		if !strings.Contains(resp.Text, want) {
			t.Errorf("rendered text missing %q:\n%s", want, resp.Text)
		}
	}

	if len(resp.AnnotatedDocument.Extractions) != 4 {
		t.Errorf("serialized %d extractions, want all 4 (including unmapped)", len(resp.AnnotatedDocument.Extractions))
	}
	if resp.RawPrompt == "" {
		t.Error("RawPrompt is empty")
	}
}

func TestPredict_EmptyExtractionListRendersEmptyZones(t *testing.T) {
	structurer := NewStructurer(&stubEngine{})

	resp, err := structurer.Predict(context.Background(), "Some report text")
	if err != nil {
		t.Fatalf("Predict: %v", err)
	}
	if len(resp.Segments) != 0 {
		t.Errorf("Segments = %v, want empty", resp.Segments)
	}
	if resp.Text != "" {
		t.Errorf("Text = %q, want empty", resp.Text)
	}

	// The payload must encode segments as [], not null.
	data, err := json.Marshal(resp)
	if err != nil {
		t.Fatalf("marshal response: %v", err)
	}
	if !strings.Contains(string(data), `"segments":[]`) {
		t.Errorf("payload does not encode empty segment list: %s", data)
	}
}

func TestSerializeInterval_PartialSpans(t *testing.T) {
	out := serializeInterval(&engine.CharInterval{StartPos: 5})
	if out == nil {
		t.Fatal("serializeInterval returned nil for present interval")
	}
	if out.StartPos == nil || *out.StartPos != 5 {
		t.Errorf("StartPos = %v, want 5", out.StartPos)
	}
	if out.EndPos != nil {
		t.Errorf("EndPos = %v, want nil", *out.EndPos)
	}

	if serializeInterval(nil) != nil {
		t.Error("serializeInterval(nil) should be nil")
	}
}
