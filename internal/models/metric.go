// internal/models/metric.go
package models

type MetricType string

const (
	MetricRevenue  MetricType = "revenue"
	MetricUsers    MetricType = "users"
	MetricGrowth   MetricType = "growth"
	MetricTeam     MetricType = "team"
	MetricFunding  MetricType = "funding"
	MetricTraction MetricType = "traction"
)

// Metric is a number found in text, normalized to base units.
type Metric struct {
	Context string     `json:"context"`
	Value   float64    `json:"value"`
	Type    MetricType `json:"type"`
}

// FirstMetric returns the earliest metric of type t. Metric lists are ordered,
// so the first hit is the representative value for that type.
func FirstMetric(metrics []Metric, t MetricType) (Metric, bool) {
	for _, m := range metrics {
		if m.Type == t {
			return m, true
		}
	}
	return Metric{}, false
}
