package report

// Organize reorders segments into presentation order: all PREFIX segments in
// original order, then BODY segments regrouped by label (groups ordered by
// the label's first appearance, original order within a group), then all
// SUFFIX segments in original order. Upstream extraction interleaves related
// findings with other topics; presentation needs all findings of one
// subsection adjacent. The result is a stable permutation of the input.
func Organize(segments []Segment) []Segment {
	var prefix, suffix []Segment
	bodyByLabel := make(map[string][]Segment)
	var labelOrder []string

	for _, segment := range segments {
		switch segment.Zone {
		case ZonePrefix:
			prefix = append(prefix, segment)
		case ZoneBody:
			if _, seen := bodyByLabel[segment.Label]; !seen {
				labelOrder = append(labelOrder, segment.Label)
			}
			bodyByLabel[segment.Label] = append(bodyByLabel[segment.Label], segment)
		case ZoneSuffix:
			suffix = append(suffix, segment)
		}
	}

	organized := make([]Segment, 0, len(segments))
	organized = append(organized, prefix...)
	for _, label := range labelOrder {
		organized = append(organized, bodyByLabel[label]...)
	}
	organized = append(organized, suffix...)
	return organized
}
