package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadSamples(t *testing.T) {
	path := filepath.Join(t.TempDir(), "samples.yaml")
	content := `- id: diabetes_trial
  text: |
    STUDY TITLE: Phase II Trial of Drug ABC

    FINDINGS:
    Primary endpoint met.
- id: imaging_report
  text: "EXAMINATION: Chest CT"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	samples, err := LoadSamples(path)
	if err != nil {
		t.Fatalf("LoadSamples: %v", err)
	}

	if len(samples) != 2 {
		t.Fatalf("got %d samples, want 2", len(samples))
	}
	if samples[0].ID != "diabetes_trial" {
		t.Errorf("samples[0].ID = %q", samples[0].ID)
	}
	if !strings.Contains(samples[0].Text, "Primary endpoint met.") {
		t.Errorf("samples[0].Text = %q", samples[0].Text)
	}
	if samples[1].ID != "imaging_report" || samples[1].Text != "EXAMINATION: Chest CT" {
		t.Errorf("samples[1] = %+v", samples[1])
	}
}

func TestLoadSamples_MissingFile(t *testing.T) {
	if _, err := LoadSamples(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("LoadSamples returned nil error for a missing file")
	}
}

func TestLoadSamples_MalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("id: [unclosed"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadSamples(path); err == nil {
		t.Error("LoadSamples returned nil error for malformed YAML")
	}
}
