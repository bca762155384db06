package engine

import (
	"context"
	"strings"
	"testing"
)

const ruleSample = `STUDY TITLE: Phase II Trial of Drug ABC

FINDINGS:
Mild nausea observed.
No evidence of hepatotoxicity.

IMPRESSION:
Drug is well tolerated.`

func TestRuleEngine_ClassifiesHeadingBlocks(t *testing.T) {
	extractions, err := NewRuleEngine().Extract(context.Background(), ruleSample)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}

	wantClasses := map[string]string{
		"STUDY TITLE: Phase II Trial of Drug ABC": "document_header",
		"Mild nausea observed.":                   "results_body",
		"No evidence of hepatotoxicity.":          "results_body",
		"Drug is well tolerated.":                 "conclusions_suffix",
	}

	if len(extractions) != len(wantClasses) {
		t.Fatalf("got %d extractions, want %d: %+v", len(extractions), len(wantClasses), extractions)
	}
	for _, extraction := range extractions {
		want, ok := wantClasses[extraction.Text]
		if !ok {
			t.Errorf("unexpected extraction text %q", extraction.Text)
			continue
		}
		if extraction.Class != want {
			t.Errorf("class for %q = %q, want %q", extraction.Text, extraction.Class, want)
		}
	}
}

func TestRuleEngine_IntervalsMatchSourceText(t *testing.T) {
	extractions, err := NewRuleEngine().Extract(context.Background(), ruleSample)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}

	for _, extraction := range extractions {
		ci := extraction.CharInterval
		if ci == nil {
			t.Errorf("extraction %q has no interval", extraction.Text)
			continue
		}
		start, end := ci.StartPos.(int), ci.EndPos.(int)
		if got := ruleSample[start:end]; got != extraction.Text {
			t.Errorf("interval [%d:%d] = %q, want %q", start, end, got, extraction.Text)
		}
	}
}

func TestRuleEngine_ExaminationHeading(t *testing.T) {
	extractions, err := NewRuleEngine().Extract(context.Background(), "EXAMINATION: Chest CT\n\nFINDINGS:\nNormal lungs.")
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}

	if len(extractions) < 2 {
		t.Fatalf("got %d extractions, want at least 2", len(extractions))
	}
	exam := extractions[0]
	if exam.Class != "findings_prefix" {
		t.Errorf("exam class = %q, want findings_prefix", exam.Class)
	}
	if exam.Attributes["section"] != "examination" {
		t.Errorf("exam section = %q, want examination", exam.Attributes["section"])
	}
	if exam.Text != "EXAMINATION: Chest CT" {
		t.Errorf("exam text = %q", exam.Text)
	}
}

func TestRuleEngine_SignificanceHeuristic(t *testing.T) {
	tests := []struct {
		line string
		want string
	}{
		{"No evidence of recurrence.", "normal"},
		{"Severe hepatotoxicity in 2 patients.", "significant"},
		{"Primary endpoint met (p<0.001).", "significant"},
		{"Mild headache reported.", "minor"},
		{"Follow-up imaging scheduled.", ""},
	}

	for _, tt := range tests {
		if got := significanceOf(tt.line); got != tt.want {
			t.Errorf("significanceOf(%q) = %q, want %q", tt.line, got, tt.want)
		}
	}
}

func TestRuleEngine_MethodologyBlockKeptWhole(t *testing.T) {
	text := "OBJECTIVES:\nPrimary: reduce HbA1c\nSecondary: assess safety\n\nRESULTS:\nEndpoint met."
	extractions, err := NewRuleEngine().Extract(context.Background(), text)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}

	var objectives *Extraction
	for i := range extractions {
		if extractions[i].Class == "methodology_body" {
			objectives = &extractions[i]
		}
	}
	if objectives == nil {
		t.Fatal("no methodology_body extraction")
	}
	if !strings.Contains(objectives.Text, "Primary: reduce HbA1c") || !strings.Contains(objectives.Text, "Secondary: assess safety") {
		t.Errorf("methodology block split: %q", objectives.Text)
	}
}

func TestRuleEngine_UnstructuredTextFallsBackToResults(t *testing.T) {
	extractions, err := NewRuleEngine().Extract(context.Background(), "patient improved steadily over two weeks")
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if len(extractions) != 1 {
		t.Fatalf("got %d extractions, want 1", len(extractions))
	}
	if extractions[0].Class != "results_body" {
		t.Errorf("class = %q, want results_body", extractions[0].Class)
	}
}
