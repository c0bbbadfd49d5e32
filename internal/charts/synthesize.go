// Package charts derives plausible chart series from extracted metrics when
// no real time series is available.
package charts

import (
	"math"

	"pitchcraft/internal/models"
)

// recipe scales a base value across a fixed set of labels.
type recipe struct {
	kind        models.ChartKind
	labels      []string
	multipliers []float64
	divisor     float64
	round       func(float64) float64
}

var quarters = []string{"Q1", "Q2", "Q3", "Q4", "Q5", "Q6"}
var years = []string{"Year 1", "Year 2", "Year 3", "Year 4", "Year 5"}

var (
	usersGrowth = recipe{
		kind:        models.ChartArea,
		labels:      quarters,
		multipliers: []float64{0.4, 0.6, 0.8, 1.0, 1.3, 1.7},
		divisor:     1,
		round:       math.Round,
	}
	tractionGrowth = recipe{
		kind:        models.ChartLine,
		labels:      []string{"Jan", "Feb", "Mar", "Apr", "May", "Jun"},
		multipliers: []float64{0.3, 0.5, 0.7, 0.9, 1.0, 1.2},
		divisor:     1,
		round:       math.Round,
	}
	revenueProjection = recipe{
		kind:        models.ChartBar,
		labels:      years,
		multipliers: []float64{1.0, 2.1, 3.8, 6.2, 9.5},
		divisor:     1e6,
		round:       round1,
	}
	fundingProjection = recipe{
		kind:        models.ChartBar,
		labels:      []string{"Seed", "Series A", "Series B", "Series C", "IPO"},
		multipliers: []float64{0.2, 0.6, 1.0, 2.5, 5.0},
		divisor:     1e6,
		round:       round1,
	}
)

var (
	defaultGrowth    = []float64{1200, 2800, 4500, 7200, 11500, 18000}
	defaultFinancial = []float64{0.5, 2.1, 5.8, 12.4, 24.7}
)

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// Synthesize builds a series for intent. Growth prefers users then traction,
// financial prefers revenue then funding. Without a usable metric a fixed
// default series is returned; unknown intents get the financial default.
func Synthesize(metrics []models.Metric, intent models.ChartIntent) models.ChartSeries {
	switch intent {
	case models.IntentGrowth:
		if m, ok := models.FirstMetric(metrics, models.MetricUsers); ok {
			return usersGrowth.apply(m.Value)
		}
		if m, ok := models.FirstMetric(metrics, models.MetricTraction); ok {
			return tractionGrowth.apply(m.Value)
		}
		return literal(models.ChartArea, quarters, defaultGrowth)

	case models.IntentFinancial:
		if m, ok := models.FirstMetric(metrics, models.MetricRevenue); ok {
			return revenueProjection.apply(m.Value)
		}
		if m, ok := models.FirstMetric(metrics, models.MetricFunding); ok {
			return fundingProjection.apply(m.Value)
		}
	}

	return literal(models.ChartBar, years, defaultFinancial)
}

// ParseIntent reports whether s names a known intent.
func ParseIntent(s string) (models.ChartIntent, bool) {
	switch models.ChartIntent(s) {
	case models.IntentGrowth, models.IntentFinancial:
		return models.ChartIntent(s), true
	}
	return "", false
}

func (r recipe) apply(base float64) models.ChartSeries {
	scaled := base / r.divisor
	points := make([]models.ChartPoint, len(r.labels))
	for i, label := range r.labels {
		points[i] = models.ChartPoint{Name: label, Value: r.round(scaled * r.multipliers[i])}
	}
	return models.ChartSeries{Type: r.kind, Data: points}
}

func literal(kind models.ChartKind, labels []string, values []float64) models.ChartSeries {
	points := make([]models.ChartPoint, len(labels))
	for i, label := range labels {
		points[i] = models.ChartPoint{Name: label, Value: values[i]}
	}
	return models.ChartSeries{Type: kind, Data: points}
}
