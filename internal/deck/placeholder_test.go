package deck

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPlaceholder_URL(t *testing.T) {
	tests := []struct {
		name  string
		p     Placeholder
		label string
		want  string
	}{
		{"default", DefaultPlaceholder, "Thank You", "/placeholder.svg?height=400&width=600&text=Thank+You"},
		{"escapes label", DefaultPlaceholder, "R&D / Lab", "/placeholder.svg?height=400&width=600&text=R%26D+%2F+Lab"},
		{"custom size", Placeholder{Base: "https://cdn.example.com/ph.svg", Width: 800, Height: 450}, "Team", "https://cdn.example.com/ph.svg?height=450&width=800&text=Team"},
		{"zero value falls back", Placeholder{}, "Team", "/placeholder.svg?height=400&width=600&text=Team"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.p.URL(tt.label))
		})
	}
}
