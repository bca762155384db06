package report

import (
	"strings"

	"github.com/coolbeans/pharmstruct/pkg/engine"
)

// Attribute keys recognized by the segment builder.
const (
	sectionAttributeKey      = "section"
	significanceAttributeKey = "clinical_significance"
)

// Segment is the per-interval renderable unit derived from one extraction.
// A segment carries at most one interval; extractions without a resolvable
// interval produce a single segment with an empty interval list, which still
// renders and highlights as a whole block.
type Segment struct {
	Zone         Zone       `json:"type"`
	Label        string     `json:"label"`
	Content      string     `json:"content"`
	Intervals    []Interval `json:"intervals"`
	Significance string     `json:"significance,omitempty"`
}

// BuildSegments converts extractions into segments. Extractions whose class
// maps to no zone contribute nothing. Malformed attributes or intervals
// degrade to defaults; a bad extraction never aborts the rest of the list.
func BuildSegments(extractions []engine.Extraction) []Segment {
	var segments []Segment
	for _, extraction := range extractions {
		zone, ok := MapSection(extraction.Class)
		if !ok {
			continue
		}

		label := sectionLabel(extraction.Attributes, zone)
		significance := clinicalSignificance(extraction.Attributes)

		var intervals []Interval
		if iv, ok := ResolveInterval(extraction.CharInterval); ok {
			intervals = append(intervals, iv)
		}

		segments = append(segments, segmentsForIntervals(zone, label, extraction.Text, intervals, significance)...)
	}
	return segments
}

// segmentsForIntervals expands one extraction into segments, one per
// interval. With no intervals it emits a single interval-less segment. With
// several it replicates content across them rather than splitting it.
func segmentsForIntervals(zone Zone, label, content string, intervals []Interval, significance string) []Segment {
	if len(intervals) == 0 {
		return []Segment{{
			Zone:         zone,
			Label:        label,
			Content:      content,
			Intervals:    []Interval{},
			Significance: significance,
		}}
	}
	segments := make([]Segment, 0, len(intervals))
	for _, iv := range intervals {
		segments = append(segments, Segment{
			Zone:         zone,
			Label:        label,
			Content:      content,
			Intervals:    []Interval{iv},
			Significance: significance,
		})
	}
	return segments
}

// sectionLabel returns the attribute-provided subsection label, falling back
// to the zone's display name.
func sectionLabel(attributes engine.Attributes, zone Zone) string {
	if label := attributes[sectionAttributeKey]; label != "" {
		return label
	}
	return zone.DisplayName()
}

// clinicalSignificance returns the normalized significance tag, or "" when
// absent.
func clinicalSignificance(attributes engine.Attributes) string {
	return strings.ToLower(attributes[significanceAttributeKey])
}
