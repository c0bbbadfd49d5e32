// internal/models/slide.go
package models

type SlideType string

const (
	SlideIntro   SlideType = "intro"
	SlideTitle   SlideType = "title"
	SlideContent SlideType = "content"
	SlideChart   SlideType = "chart"
	SlideImage   SlideType = "image"
)

func (t SlideType) Valid() bool {
	switch t {
	case SlideIntro, SlideTitle, SlideContent, SlideChart, SlideImage:
		return true
	}
	return false
}

type SlideMetric struct {
	Label string `json:"label"`
	Value string `json:"value"`
	Icon  Icon   `json:"icon"`
}

// Slide is the record handed to the rendering layer. Only ImageURL changes
// after creation, once image generation finishes.
type Slide struct {
	ID           int           `json:"id"`
	Type         SlideType     `json:"type"`
	Title        string        `json:"title"`
	Content      string        `json:"content,omitempty"`
	BulletPoints []string      `json:"bulletPoints,omitempty"`
	ChartData    *ChartSeries  `json:"chartData,omitempty"`
	ImageURL     string        `json:"imageUrl,omitempty"`
	ImagePrompt  string        `json:"imagePrompt,omitempty"`
	Metrics      []SlideMetric `json:"metrics,omitempty"`
}
