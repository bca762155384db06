package engine

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Instruction is the task description sent to the extraction service. It
// defines the four section categories the service labels extractions with.
const Instruction = `# PharmStruct Prompt

## Task Description

You are a pharmaceutical intelligence assistant specialized in categorizing pharmaceutical documents into structured sections:

- **document_header** -- All text that appears before the main content including study identifiers, objectives, and methodological framework.
- **methodology_body** -- Study design, patient demographics, inclusion/exclusion criteria, and procedural details.
- **results_body** -- Primary and secondary endpoints, efficacy data, safety findings, and statistical analyses.
- **conclusions_suffix** -- Interpretations, clinical implications, regulatory recommendations, and future directions.

### Critical Rule:
If a document contains only results without methodological context, do not create a methodology_body extraction. Start directly with results_body extractions for the clinical content.

### Professional Output Standards:
All extracted text must maintain the scientific rigor and professional coherence expected in pharmaceutical documentation. Preserve statistical data with appropriate precision and keep regulatory terminology compliant.
`

// ExampleDocument pairs an input document with its expected extractions, used
// for few-shot prompting and as ground truth in tests.
type ExampleDocument struct {
	Text        string       `json:"text"`
	Extractions []Extraction `json:"extractions"`
}

// DefaultExamples returns the built-in few-shot examples covering a clinical
// trial header/methodology document and a results-only document.
func DefaultExamples() []ExampleDocument {
	return []ExampleDocument{
		{
			Text: strings.TrimSpace(`
STUDY TITLE: Phase II Randomized Trial of Drug ABC in Type 2 Diabetes
PROTOCOL NUMBER: ABC-2024-001
SPONSOR: PharmaCorp Inc.

OBJECTIVES:
Primary: Evaluate efficacy of Drug ABC in reducing HbA1c
Secondary: Assess safety and tolerability

PATIENT POPULATION: 240 adults with Type 2 diabetes, HbA1c 7.5-10.5%`),
			Extractions: []Extraction{
				{
					Text:       "STUDY TITLE: Phase II Randomized Trial of Drug ABC in Type 2 Diabetes",
					Class:      "document_header",
					Attributes: Attributes{"section": "Study Title"},
				},
				{
					Text:       "PROTOCOL NUMBER: ABC-2024-001",
					Class:      "document_header",
					Attributes: Attributes{"section": "Protocol Number"},
				},
				{
					Text:       "SPONSOR: PharmaCorp Inc.",
					Class:      "document_header",
					Attributes: Attributes{"section": "Sponsor"},
				},
				{
					Text:       "OBJECTIVES: Primary: Evaluate efficacy of Drug ABC in reducing HbA1c Secondary: Assess safety and tolerability",
					Class:      "methodology_body",
					Attributes: Attributes{"section": "Objectives"},
				},
				{
					Text:       "PATIENT POPULATION: 240 adults with Type 2 diabetes, HbA1c 7.5-10.5%",
					Class:      "methodology_body",
					Attributes: Attributes{"section": "Patient Population"},
				},
			},
		},
		{
			Text: strings.TrimSpace(`
RESULTS:
Primary endpoint met: HbA1c reduction of 1.2% vs placebo (p<0.001)
Grade 2 nausea reported in 8% of patients

CONCLUSIONS:
Drug ABC demonstrates clinically meaningful glycemic control.`),
			Extractions: []Extraction{
				{
					Text:  "Primary endpoint met: HbA1c reduction of 1.2% vs placebo (p<0.001)",
					Class: "results_body",
					Attributes: Attributes{
						"section":               "Results",
						"clinical_significance": "significant",
					},
				},
				{
					Text:  "Grade 2 nausea reported in 8% of patients",
					Class: "results_body",
					Attributes: Attributes{
						"section":               "Results",
						"clinical_significance": "minor",
					},
				},
				{
					Text:       "Drug ABC demonstrates clinically meaningful glycemic control.",
					Class:      "conclusions_suffix",
					Attributes: Attributes{"section": "Conclusions"},
				},
			},
		},
	}
}

// BuildPrompt renders the full markdown prompt: the instruction, the few-shot
// examples with their expected JSON output, and, when inputText is non-empty,
// an inference section for the document being processed.
func BuildPrompt(examples []ExampleDocument, inputText string) string {
	var b strings.Builder
	b.WriteString(Instruction)
	b.WriteString("\n# Few-Shot Examples\n")

	for i, example := range examples {
		if i > 0 {
			b.WriteString("\n---\n")
		}
		expected, err := json.MarshalIndent(map[string][]Extraction{"extractions": example.Extractions}, "", "  ")
		if err != nil {
			continue
		}
		fmt.Fprintf(&b, "\n## Example %d\n\n**Input Text:**\n```\n%s\n```\n\n**Expected Output:**\n```json\n%s\n```\n", i+1, example.Text, expected)
	}

	if inputText != "" {
		fmt.Fprintf(&b, "\n## Inference Example:\n\n**Input Text:**\n```\n%s\n```\n\n**Expected Output:**\n", inputText)
	}

	return b.String()
}
