package genai

import (
	"fmt"
	"strings"
)

// ExtractJSON pulls the JSON object out of a model reply. Markdown code
// fences and surrounding prose are tolerated.
func ExtractJSON(reply string) ([]byte, error) {
	s := strings.TrimSpace(reply)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	}

	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end <= start {
		return nil, fmt.Errorf("%w: no JSON object in reply", ErrInvalidOutput)
	}
	return []byte(s[start : end+1]), nil
}
