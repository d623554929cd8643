package clinical

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	numberedMarkerRe = regexp.MustCompile(`\n\d+\.\s+`)
	bulletMarkerRe   = regexp.MustCompile(`\n[-*]\s+`)
	sentenceEndRe    = regexp.MustCompile(`([.!?])\s+`)
)

// ToList turns a narrative paragraph into discrete statements. Numbered
// markers win over bullets, bullets win over sentence splitting; tiers are
// never merged. A non-empty input never yields an empty list.
func ToList(text string) []string {
	if text == "" {
		return []string{}
	}

	// A marker on the very first line has no newline before it; the leading
	// newline makes it split like the rest and leaves an empty preamble.
	marked := "\n" + text

	if items := splitAfterPreamble(numberedMarkerRe, marked); len(items) > 0 {
		return items
	}
	if numberedMarkerRe.MatchString(marked) {
		return []string{text}
	}

	if items := splitAfterPreamble(bulletMarkerRe, marked); len(items) > 0 {
		return items
	}
	if bulletMarkerRe.MatchString(marked) {
		return []string{text}
	}

	if items := splitSentences(text); len(items) > 0 {
		return items
	}
	return []string{text}
}

func splitAfterPreamble(marker *regexp.Regexp, text string) []string {
	parts := marker.Split(text, -1)
	if len(parts) < 2 {
		return nil
	}
	items := make([]string, 0, len(parts)-1)
	for _, part := range parts[1:] {
		if part = strings.TrimSpace(part); part != "" {
			items = append(items, part)
		}
	}
	return items
}

func splitSentences(text string) []string {
	var items []string
	for _, line := range strings.Split(text, "\n") {
		for _, fragment := range strings.Split(sentenceEndRe.ReplaceAllString(line, "$1\n"), "\n") {
			fragment = strings.TrimSpace(fragment)
			if utf8.RuneCountInString(fragment) > minStatementLen {
				items = append(items, fragment)
			}
		}
	}
	return items
}
