// internal/extract/section.go
package extract

import (
	"strings"
	"unicode/utf8"
)

const (
	minCandidateLen = 20
	minSentenceLen  = 15
	maxSentenceLen  = 300
	maxSentences    = 6
)

// Section returns up to six sentences of text that mention any of keywords,
// in source order. Keywords are expected in lowercase.
func Section(text string, keywords []string) []string {
	out := make([]string, 0, maxSentences)

	for _, candidate := range sentenceSplit.Split(text, -1) {
		trimmed := strings.TrimSpace(candidate)
		if utf8.RuneCountInString(trimmed) <= minCandidateLen {
			continue
		}
		if !containsAny(strings.ToLower(candidate), keywords) {
			continue
		}

		n := utf8.RuneCountInString(trimmed)
		if n <= minSentenceLen || n >= maxSentenceLen {
			continue
		}

		out = append(out, trimmed)
		if len(out) == maxSentences {
			break
		}
	}

	return out
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}
