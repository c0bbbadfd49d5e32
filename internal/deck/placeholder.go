package deck

import (
	"fmt"
	"net/url"
)

// Placeholder builds always-resolvable image references for slides that have
// no generated image.
type Placeholder struct {
	Base   string
	Width  int
	Height int
}

var DefaultPlaceholder = Placeholder{Base: "/placeholder.svg", Width: 600, Height: 400}

// URL returns the placeholder reference labelled with label.
func (p Placeholder) URL(label string) string {
	base, w, h := p.Base, p.Width, p.Height
	if base == "" {
		base = DefaultPlaceholder.Base
	}
	if w <= 0 {
		w = DefaultPlaceholder.Width
	}
	if h <= 0 {
		h = DefaultPlaceholder.Height
	}
	return fmt.Sprintf("%s?height=%d&width=%d&text=%s", base, h, w, url.QueryEscape(label))
}
