package extract

import (
	"fmt"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestSection(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		keywords []string
		expected []string
	}{
		{
			name:     "keeps matching sentences in order",
			text:     "Retailers face a costly problem with stockouts. Our team is great. Another challenge is shrinkage across stores!",
			keywords: SectionKeywords["problem"],
			expected: []string{
				"Retailers face a costly problem with stockouts",
				"Another challenge is shrinkage across stores",
			},
		},
		{
			name:     "keyword match is case-insensitive",
			text:     "The PROBLEM is that nobody reconciles invoices on time.",
			keywords: []string{"problem"},
			expected: []string{"The PROBLEM is that nobody reconciles invoices on time"},
		},
		{
			name:     "short candidates are dropped",
			text:     "A problem. Big problem!",
			keywords: []string{"problem"},
			expected: []string{},
		},
		{
			name:     "no keyword match yields empty",
			text:     "This sentence is long enough but mentions nothing relevant at all.",
			keywords: []string{"funding"},
			expected: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Section(tt.text, tt.keywords))
		})
	}
}

func TestSection_CapsAtSixSentences(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 10; i++ {
		fmt.Fprintf(&b, "Problem number %d hurts warehouse operators daily. ", i)
	}

	got := Section(b.String(), []string{"problem"})

	assert.Len(t, got, 6)
	assert.Equal(t, "Problem number 0 hurts warehouse operators daily", got[0])
	assert.Equal(t, "Problem number 5 hurts warehouse operators daily", got[5])
}

func TestSection_LengthWindow(t *testing.T) {
	long := "The problem " + strings.Repeat("really ", 50) + "matters"
	text := long + ". The problem is small but real. Problem here ok."

	got := Section(text, []string{"problem"})

	assert.Equal(t, []string{"The problem is small but real"}, got)
	for _, s := range got {
		n := utf8.RuneCountInString(s)
		assert.Greater(t, n, 15)
		assert.Less(t, n, 300)
	}
}
