package engine

import (
	"strings"
	"testing"
)

func TestBuildPrompt_IncludesExamplesAndInput(t *testing.T) {
	prompt := BuildPrompt(DefaultExamples(), "FINDINGS: Normal lungs.")

	for _, want := range []string{
		"# PharmStruct Prompt",
		"## Example 1",
		"## Example 2",
		"STUDY TITLE: Phase II Randomized Trial of Drug ABC in Type 2 Diabetes",
		`"extraction_class": "results_body"`,
		"## Inference Example:",
		"FINDINGS: Normal lungs.",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestBuildPrompt_OmitsInferenceSectionForEmptyInput(t *testing.T) {
	prompt := BuildPrompt(DefaultExamples(), "")
	if strings.Contains(prompt, "## Inference Example:") {
		t.Error("prompt has an inference section for empty input")
	}
}

func TestDefaultExamples_CoverAllFourClasses(t *testing.T) {
	seen := make(map[string]bool)
	for _, example := range DefaultExamples() {
		for _, extraction := range example.Extractions {
			seen[extraction.Class] = true
		}
	}

	for _, class := range []string{"document_header", "methodology_body", "results_body", "conclusions_suffix"} {
		if !seen[class] {
			t.Errorf("no example extraction with class %q", class)
		}
	}
}
