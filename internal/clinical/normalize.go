package clinical

import (
	"regexp"
	"strings"
)

var (
	// Leftover bracket-emphasis artifacts, removed in this order.
	bracketArtifacts = []*regexp.Regexp{
		regexp.MustCompile(`\[\*\*`),
		regexp.MustCompile(`\*\*\]`),
		regexp.MustCompile(`\[\*`),
		regexp.MustCompile(`\*\]`),
	}

	// Spans stay on one line and never contain markup, so text that is
	// already wrapped cannot be wrapped again.
	boldStarRe       = regexp.MustCompile(`\*\*([^*<>\n]+?)\*\*`)
	boldUnderscoreRe = regexp.MustCompile(`__([^_<>\n]+?)__`)
)

const strongReplacement = "<strong>$1</strong>"

// Normalize strips model markdown artifacts from free text and turns paired
// emphasis markers (**x**, __x__) into <strong> wrappers. The result is
// trimmed. Normalize(Normalize(s)) == Normalize(s).
func Normalize(text string) string {
	if text == "" {
		return ""
	}

	for {
		stripped := text
		for _, re := range bracketArtifacts {
			stripped = re.ReplaceAllString(stripped, "")
		}
		if stripped == text {
			break
		}
		text = stripped
	}

	text = boldStarRe.ReplaceAllString(text, strongReplacement)
	text = boldUnderscoreRe.ReplaceAllString(text, strongReplacement)

	return strings.TrimSpace(text)
}

// NormalizeAll applies Normalize to every item, keeping order.
func NormalizeAll(items []string) []string {
	if items == nil {
		return []string{}
	}
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = Normalize(item)
	}
	return out
}
