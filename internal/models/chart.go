// internal/models/chart.go
package models

type ChartKind string

const (
	ChartBar   ChartKind = "bar"
	ChartLine  ChartKind = "line"
	ChartArea  ChartKind = "area"
	ChartPie   ChartKind = "pie"
	ChartRadar ChartKind = "radar"
)

// Valid reports whether k is a kind the renderer can draw.
func (k ChartKind) Valid() bool {
	switch k {
	case ChartBar, ChartLine, ChartArea, ChartPie, ChartRadar:
		return true
	}
	return false
}

// ChartPoint is one labelled value. Subject and A are only used by radar charts.
type ChartPoint struct {
	Name    string   `json:"name"`
	Value   float64  `json:"value"`
	Subject string   `json:"subject,omitempty"`
	A       *float64 `json:"A,omitempty"`
}

type ChartSeries struct {
	Type ChartKind    `json:"type"`
	Data []ChartPoint `json:"data"`
}

// ChartIntent selects a synthesis recipe.
type ChartIntent string

const (
	IntentGrowth    ChartIntent = "growth"
	IntentFinancial ChartIntent = "financial"
)
