package engine

import (
	"context"
	"regexp"
	"strings"
)

// headingPattern matches section headings like "FINDINGS:" or "STUDY TITLE:"
// at the start of a line, capturing the heading and any trailing text.
var headingPattern = regexp.MustCompile(`^([A-Z][A-Z /&-]+):[ \t]*(.*)$`)

// examHeadings name the examination statement at the top of a report.
var examHeadings = map[string]bool{
	"EXAMINATION": true,
	"EXAM":        true,
	"STUDY":       true,
}

// headingClasses maps known section headings to extraction classes. Headings
// not listed here default to results_body.
var headingClasses = map[string]string{
	"STUDY TITLE":        "document_header",
	"PROTOCOL NUMBER":    "document_header",
	"SPONSOR":            "document_header",
	"STUDY DESIGN":       "document_header",
	"INDICATION":         "document_header",
	"HISTORY":            "document_header",
	"COMPARISON":         "document_header",
	"OBJECTIVES":         "methodology_body",
	"METHODS":            "methodology_body",
	"PATIENT POPULATION": "methodology_body",
	"INCLUSION CRITERIA": "methodology_body",
	"EXCLUSION CRITERIA": "methodology_body",
	"DOSING":             "methodology_body",
	"FINDINGS":           "results_body",
	"RESULTS":            "results_body",
	"EFFICACY":           "results_body",
	"SAFETY":             "results_body",
	"ADVERSE EVENTS":     "results_body",
	"PRIMARY ENDPOINT":   "results_body",
	"SECONDARY ENDPOINT": "results_body",
	"LABORATORY":         "results_body",
	"IMPRESSION":         "conclusions_suffix",
	"CONCLUSION":         "conclusions_suffix",
	"CONCLUSIONS":        "conclusions_suffix",
	"RECOMMENDATIONS":    "conclusions_suffix",
	"ASSESSMENT":         "conclusions_suffix",
}

// RuleEngine is a deterministic, offline extraction engine. It recognizes
// uppercase "HEADING:" sections and emits one extraction per header line or
// finding line, with exact character intervals into the input text. It exists
// for development, testing, and cache population without a remote service.
type RuleEngine struct{}

// NewRuleEngine creates the offline rule-based engine.
func NewRuleEngine() *RuleEngine {
	return &RuleEngine{}
}

// line is one input line with its character span.
type line struct {
	text  string
	start int
	end   int
}

// Extract derives extractions from the heading structure of the text.
func (e *RuleEngine) Extract(_ context.Context, text string) ([]Extraction, error) {
	lines := splitLines(text)

	hasHeading := false
	for _, ln := range lines {
		if headingPattern.MatchString(ln.text) {
			hasHeading = true
			break
		}
	}

	var extractions []Extraction
	sawHeading := false
	currentClass := ""
	currentSection := ""

	for i := 0; i < len(lines); i++ {
		ln := lines[i]
		trimmed := strings.TrimSpace(ln.text)
		if trimmed == "" {
			continue
		}

		if m := headingPattern.FindStringSubmatch(ln.text); m != nil {
			heading := strings.TrimSpace(m[1])
			sawHeading = true

			if examHeadings[heading] {
				// The whole examination line is the extraction; the renderer
				// strips the heading token when printing.
				extractions = append(extractions, Extraction{
					Text:       trimmed,
					Class:      "findings_prefix",
					Attributes: Attributes{"section": "examination"},
					CharInterval: &CharInterval{
						StartPos: ln.start,
						EndPos:   ln.start + len(trimmed),
					},
					AlignmentStatus: "match_exact",
				})
				currentClass = ""
				continue
			}

			class, known := headingClasses[heading]
			if !known {
				class = "results_body"
			}
			section := titleCase(heading)

			switch class {
			case "document_header":
				extractions = append(extractions, Extraction{
					Text:       trimmed,
					Class:      class,
					Attributes: Attributes{"section": section},
					CharInterval: &CharInterval{
						StartPos: ln.start,
						EndPos:   ln.start + len(trimmed),
					},
					AlignmentStatus: "match_exact",
				})
				currentClass = ""
			case "methodology_body":
				// Methodology blocks are kept whole: heading plus its
				// continuation lines form a single extraction.
				blockEnd := ln.start + len(trimmed)
				parts := []string{trimmed}
				for i+1 < len(lines) {
					next := strings.TrimSpace(lines[i+1].text)
					if next == "" || headingPattern.MatchString(lines[i+1].text) {
						break
					}
					i++
					parts = append(parts, next)
					blockEnd = lines[i].start + len(next)
				}
				extractions = append(extractions, Extraction{
					Text:       strings.Join(parts, " "),
					Class:      class,
					Attributes: Attributes{"section": section},
					CharInterval: &CharInterval{
						StartPos: ln.start,
						EndPos:   blockEnd,
					},
					AlignmentStatus: "match_exact",
				})
				currentClass = ""
			default:
				// Findings and conclusions emit one extraction per line so
				// each statement gets its own hover interval.
				currentClass = class
				currentSection = section
				if rest := strings.TrimSpace(m[2]); rest != "" {
					offset := ln.start + strings.Index(ln.text, rest)
					extractions = append(extractions, findingExtraction(rest, currentClass, currentSection, offset))
				}
			}
			continue
		}

		if currentClass != "" {
			offset := ln.start + strings.Index(ln.text, trimmed)
			extractions = append(extractions, findingExtraction(trimmed, currentClass, currentSection, offset))
			continue
		}

		if !sawHeading && hasHeading {
			// Text before the first heading is header material. Documents with
			// no headings at all fall through to the results fallback below.
			extractions = append(extractions, Extraction{
				Text:  trimmed,
				Class: "document_header",
				CharInterval: &CharInterval{
					StartPos: ln.start + strings.Index(ln.text, trimmed),
					EndPos:   ln.start + strings.Index(ln.text, trimmed) + len(trimmed),
				},
				AlignmentStatus: "match_exact",
			})
		}
	}

	if len(extractions) == 0 && strings.TrimSpace(text) != "" {
		trimmed := strings.TrimSpace(text)
		offset := strings.Index(text, trimmed)
		extractions = append(extractions, Extraction{
			Text:  trimmed,
			Class: "results_body",
			CharInterval: &CharInterval{
				StartPos: offset,
				EndPos:   offset + len(trimmed),
			},
			AlignmentStatus: "match_exact",
		})
	}

	return extractions, nil
}

// findingExtraction builds a results or conclusions extraction for one line,
// annotating clinical significance with a keyword heuristic.
func findingExtraction(text, class, section string, offset int) Extraction {
	attrs := Attributes{"section": section}
	if sig := significanceOf(text); sig != "" {
		attrs["clinical_significance"] = sig
	}
	return Extraction{
		Text:       text,
		Class:      class,
		Attributes: attrs,
		CharInterval: &CharInterval{
			StartPos: offset,
			EndPos:   offset + len(text),
		},
		AlignmentStatus: "match_exact",
	}
}

// significanceOf guesses a clinical significance tag from finding keywords.
// Returns "" when no keyword applies.
func significanceOf(text string) string {
	lower := strings.ToLower(text)
	switch {
	case strings.Contains(lower, "severe") ||
		strings.Contains(lower, "significant") ||
		strings.Contains(lower, "grade 3") ||
		strings.Contains(lower, "grade 4") ||
		strings.Contains(lower, "p<0.0") ||
		strings.Contains(lower, "p < 0.0"):
		return "significant"
	case strings.Contains(lower, "normal") ||
		strings.Contains(lower, "unremarkable") ||
		strings.Contains(lower, "no acute") ||
		strings.Contains(lower, "no evidence"):
		return "normal"
	case strings.Contains(lower, "mild") ||
		strings.Contains(lower, "minor") ||
		strings.Contains(lower, "grade 1") ||
		strings.Contains(lower, "grade 2"):
		return "minor"
	default:
		return ""
	}
}

// splitLines splits text into lines with their character spans.
func splitLines(text string) []line {
	var lines []line
	start := 0
	for start <= len(text) {
		idx := strings.IndexByte(text[start:], '\n')
		if idx < 0 {
			lines = append(lines, line{text: text[start:], start: start, end: len(text)})
			break
		}
		lines = append(lines, line{text: text[start : start+idx], start: start, end: start + idx})
		start += idx + 1
	}
	return lines
}

// titleCase converts an uppercase heading like "STUDY TITLE" to "Study Title".
func titleCase(heading string) string {
	words := strings.Fields(strings.ToLower(heading))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
