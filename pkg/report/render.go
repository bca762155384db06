package report

import (
	"strings"
	"unicode"
)

// Fixed zone banners in the rendered document.
const (
	findingsHeader    = "FINDINGS:"
	impressionHeader  = "IMPRESSION:"
	examinationHeader = "EXAMINATION:"

	examinationLabel = "examination"
)

// examPrefixes are the heading tokens stripped from examination lines before
// they are printed under the EXAMINATION banner.
var examPrefixes = []string{"EXAMINATION:", "EXAM:", "STUDY:"}

// groupKey identifies one (zone, label) rendering group.
type groupKey struct {
	zone  Zone
	label string
}

// contentGroup holds the deduplicated contents of one rendering group in
// first-seen order.
type contentGroup struct {
	key      groupKey
	contents []string
}

// RenderText formats organized segments into a single plain-text document:
// prefix material (with the examination banner special case), a FINDINGS
// block of "label: joined content" lines, and an IMPRESSION block. Repeated
// identical content within a (zone, label) group renders once.
func RenderText(segments []Segment) string {
	groups := groupContents(segments)

	var parts []string
	parts = renderPrefix(parts, groups, segments)
	parts = renderBody(parts, groups)
	parts = renderSuffix(parts, groups)

	return strings.TrimRightFunc(strings.Join(parts, "\n"), unicode.IsSpace)
}

// groupContents groups segment contents by (zone, label), preserving first-
// seen group order and deduplicating identical content within each group.
func groupContents(segments []Segment) []contentGroup {
	var groups []contentGroup
	index := make(map[groupKey]int)

	for _, segment := range segments {
		key := groupKey{zone: segment.Zone, label: segment.Label}
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, contentGroup{key: key})
		}
		content := strings.TrimSpace(segment.Content)
		if !contains(groups[i].contents, content) {
			groups[i].contents = append(groups[i].contents, content)
		}
	}
	return groups
}

func contains(items []string, target string) bool {
	for _, item := range items {
		if item == target {
			return true
		}
	}
	return false
}

// renderPrefix emits prefix-zone material. When any prefix segment carries a
// meaningful label the groups render individually, with examination groups
// under the EXAMINATION banner; otherwise all prefix contents concatenate
// into one unbannered block.
func renderPrefix(parts []string, groups []contentGroup, segments []Segment) []string {
	structured := false
	for _, segment := range segments {
		if segment.Zone == ZonePrefix && segment.Label != "" && strings.ToLower(segment.Label) != ZonePrefix.DisplayName() {
			structured = true
			break
		}
	}

	if !structured {
		var plain []string
		for _, group := range groups {
			if group.key.zone == ZonePrefix {
				plain = append(plain, group.contents...)
			}
		}
		if len(plain) > 0 {
			parts = append(parts, strings.TrimRightFunc(strings.Join(plain, "\n\n"), unicode.IsSpace))
		}
		return parts
	}

	for _, group := range groups {
		if group.key.zone != ZonePrefix {
			continue
		}
		if strings.ToLower(group.key.label) == examinationLabel {
			parts = append(parts, examinationHeader, "")
			for _, content := range group.contents {
				if stripped := stripExamPrefix(content); stripped != "" {
					parts = append(parts, stripped)
				}
			}
			parts = append(parts, "")
			continue
		}
		for _, content := range group.contents {
			if content != "" {
				parts = append(parts, content)
			}
		}
		parts = append(parts, "")
	}
	return parts
}

// renderBody emits the FINDINGS block: one "label: joined content" line per
// body group, blank-line separated.
func renderBody(parts []string, groups []contentGroup) []string {
	var bodyGroups []contentGroup
	for _, group := range groups {
		if group.key.zone == ZoneBody {
			bodyGroups = append(bodyGroups, group)
		}
	}
	if len(bodyGroups) == 0 {
		return parts
	}

	if len(parts) > 0 {
		parts = append(parts, "")
	}
	parts = append(parts, findingsHeader, "")
	for _, group := range bodyGroups {
		combined := strings.TrimSpace(strings.Join(group.contents, " "))
		if combined != "" {
			parts = append(parts, group.key.label+": "+combined, "")
		}
	}
	return parts
}

// renderSuffix emits the IMPRESSION block as one newline-separated run of all
// suffix contents.
func renderSuffix(parts []string, groups []contentGroup) []string {
	var all []string
	found := false
	for _, group := range groups {
		if group.key.zone == ZoneSuffix {
			found = true
			all = append(all, group.contents...)
		}
	}
	if !found {
		return parts
	}

	if len(parts) > 0 && strings.TrimSpace(parts[len(parts)-1]) != "" {
		parts = append(parts, "")
	}
	parts = append(parts, impressionHeader, "")
	parts = append(parts, strings.TrimRightFunc(strings.Join(all, "\n"), unicode.IsSpace))
	return parts
}

// stripExamPrefix removes a leading examination heading token from a line.
func stripExamPrefix(text string) string {
	upper := strings.ToUpper(text)
	for _, prefix := range examPrefixes {
		if strings.HasPrefix(upper, prefix) {
			return strings.TrimLeftFunc(text[len(prefix):], unicode.IsSpace)
		}
	}
	return strings.TrimSpace(text)
}
