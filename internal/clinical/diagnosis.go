package clinical

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// PendingDiagnosis is returned when there is no assessment to extract from.
const PendingDiagnosis = "Pending clinical evaluation"

// minStatementLen is the rune count a line or fragment must exceed to count
// as a statement rather than a heading or stray token.
const minStatementLen = 10

var leadingMarkerRe = regexp.MustCompile(`^[\d.\-*]+\s*`)

// ExtractPrimary picks the most probable diagnosis out of a ranked
// differential. The first prose line (not a bullet) longer than ten
// characters wins; numbering is stripped from it.
func ExtractPrimary(assessment string) string {
	if assessment == "" {
		return PendingDiagnosis
	}

	for _, line := range strings.Split(assessment, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || isBulletLine(line) {
			continue
		}
		candidate := strings.TrimSpace(leadingMarkerRe.ReplaceAllString(line, ""))
		if utf8.RuneCountInString(candidate) > minStatementLen {
			return candidate
		}
	}

	first := strings.SplitN(assessment, "\n", 2)[0]
	if first == "" {
		return PendingDiagnosis
	}
	return first
}

func isBulletLine(line string) bool {
	return strings.HasPrefix(line, "-") ||
		strings.HasPrefix(line, "*") ||
		strings.HasPrefix(line, "•")
}
