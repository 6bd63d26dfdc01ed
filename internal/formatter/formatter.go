// Package formatter turns a raw speech-to-text transcript into one sentence per line.
package formatter

import (
	"regexp"
	"strings"
)

// boundary matches a sentence-ending mark and the whitespace after it. Only the
// last mark of a run like "..." or "?!" is followed by whitespace, so a run
// splits once.
var boundary = regexp.MustCompile(`[.!?]\s+`)

// Format splits raw after every '.', '!' or '?' that is followed by whitespace and
// joins the sentences with newlines. Punctuation stays with its sentence; the
// separating whitespace is dropped. Nothing else is normalized.
func Format(raw string) string {
	return strings.Join(Sentences(raw), "\n")
}

// Sentences returns the pieces Format joins.
func Sentences(raw string) []string {
	var out []string
	start := 0
	for _, m := range boundary.FindAllStringIndex(raw, -1) {
		out = append(out, raw[start:m[0]+1])
		start = m[1]
	}
	if start < len(raw) {
		out = append(out, raw[start:])
	}
	return out
}

// CountSentences returns the number of lines in an already formatted transcript.
func CountSentences(formatted string) int {
	if formatted == "" {
		return 0
	}
	return strings.Count(formatted, "\n") + 1
}
