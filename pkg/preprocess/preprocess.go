// Package preprocess normalizes raw pharmaceutical report text before it
// reaches the extraction engine. Reports arrive with decorative Unicode
// symbols and non-standard structural formatting that downstream prompting
// does not handle; both are rewritten to plain equivalents here.
package preprocess

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// symbolReplacer translates problematic Unicode symbols to ASCII equivalents.
var symbolReplacer = strings.NewReplacer(
	"•", "*", // bullet
	"●", "*", // black circle
	"➡", "->", // rightwards arrow
	"", "->", // private-use arrow from Word documents
	"→", "->",
	"←", "<-",
	"×", "x",
	"↑", "up",
	"♂", "male",
	"♀", "female",
	"‐", "-", // hyphen
	"–", "-", // en dash
	"—", "-", // em dash
	" ", " ", // no-break space
)

var (
	spacesPattern     = regexp.MustCompile(`[ \t]+`)
	blankLinesPattern = regexp.MustCompile(`\n\s*\n\s*\n+`)

	// Structure normalization patterns.
	beginWrapperPattern = regexp.MustCompile(`(?i)---\s*BEGIN [^-]+---\n*`)
	endWrapperPattern   = regexp.MustCompile(`(?i)\n*---\s*END [^-]+---\s*`)
	starHeaderPattern   = regexp.MustCompile(`\*{3}\s*([^*]+?)\s*\*{3}`)
	bulletPattern       = regexp.MustCompile(`(?m)^[ \t]*[*\x{2022}\x{25CF}-]+\s*`)
	enumPattern         = regexp.MustCompile(`(?m)^[ \t]*(\d+)[).][ \t]+`)
)

// SanitizeText repairs Unicode and normalizes whitespace: NFC normalization,
// control character removal, symbol translation, space collapsing, newline
// normalization, and blank-line squeezing.
func SanitizeText(text string) string {
	out := norm.NFC.String(text)
	out = removeControlChars(out)
	out = symbolReplacer.Replace(out)
	out = spacesPattern.ReplaceAllString(out, " ")
	out = strings.ReplaceAll(out, "\r\n", "\n")
	out = strings.ReplaceAll(out, "\r", "\n")
	out = blankLinesPattern.ReplaceAllString(out, "\n\n")
	return strings.TrimSpace(out)
}

// NormalizeStructure rewrites structural decoration: BEGIN/END report
// wrappers are removed, ***Header*** becomes "Header:", bullet prefixes are
// dropped, and "1)" style enumerations become "1. ".
func NormalizeStructure(text string) string {
	text = beginWrapperPattern.ReplaceAllString(text, "")
	text = endWrapperPattern.ReplaceAllString(text, "")
	text = starHeaderPattern.ReplaceAllString(text, "$1:")
	text = bulletPattern.ReplaceAllString(text, "")
	text = enumPattern.ReplaceAllString(text, "$1. ")
	return strings.TrimSpace(text)
}

// Report runs the full preprocessing pass: sanitize, then normalize
// structure. This is the entry point callers use before extraction and
// before deriving cache keys.
func Report(raw string) string {
	return NormalizeStructure(SanitizeText(raw))
}

// removeControlChars drops control characters other than tab, newline, and
// carriage return (newline handling happens later in the pass).
func removeControlChars(text string) string {
	return strings.Map(func(r rune) rune {
		if r == '\t' || r == '\n' || r == '\r' {
			return r
		}
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, text)
}
