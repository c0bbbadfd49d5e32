package charts

import (
	"testing"

	"pitchcraft/internal/models"

	"github.com/stretchr/testify/assert"
)

func values(s models.ChartSeries) []float64 {
	out := make([]float64, len(s.Data))
	for i, p := range s.Data {
		out[i] = p.Value
	}
	return out
}

func labels(s models.ChartSeries) []string {
	out := make([]string, len(s.Data))
	for i, p := range s.Data {
		out[i] = p.Name
	}
	return out
}

func TestSynthesize(t *testing.T) {
	tests := []struct {
		name   string
		input  []models.Metric
		intent models.ChartIntent
		kind   models.ChartKind
		values []float64
		labels []string
	}{
		{
			name:   "growth from users",
			input:  []models.Metric{{Type: models.MetricUsers, Value: 1000}},
			intent: models.IntentGrowth,
			kind:   models.ChartArea,
			values: []float64{400, 600, 800, 1000, 1300, 1700},
			labels: []string{"Q1", "Q2", "Q3", "Q4", "Q5", "Q6"},
		},
		{
			name:   "growth from traction rounds to integers",
			input:  []models.Metric{{Type: models.MetricTraction, Value: 3333}},
			intent: models.IntentGrowth,
			kind:   models.ChartLine,
			values: []float64{1000, 1667, 2333, 3000, 3333, 4000},
			labels: []string{"Jan", "Feb", "Mar", "Apr", "May", "Jun"},
		},
		{
			name:   "financial from revenue",
			input:  []models.Metric{{Type: models.MetricRevenue, Value: 3000000}},
			intent: models.IntentFinancial,
			kind:   models.ChartBar,
			values: []float64{3.0, 6.3, 11.4, 18.6, 28.5},
			labels: []string{"Year 1", "Year 2", "Year 3", "Year 4", "Year 5"},
		},
		{
			name:   "financial from funding",
			input:  []models.Metric{{Type: models.MetricFunding, Value: 2000000}},
			intent: models.IntentFinancial,
			kind:   models.ChartBar,
			values: []float64{0.4, 1.2, 2, 5, 10},
			labels: []string{"Seed", "Series A", "Series B", "Series C", "IPO"},
		},
		{
			name:   "growth default",
			input:  []models.Metric{{Type: models.MetricRevenue, Value: 5e6}},
			intent: models.IntentGrowth,
			kind:   models.ChartArea,
			values: []float64{1200, 2800, 4500, 7200, 11500, 18000},
			labels: []string{"Q1", "Q2", "Q3", "Q4", "Q5", "Q6"},
		},
		{
			name:   "financial default",
			input:  nil,
			intent: models.IntentFinancial,
			kind:   models.ChartBar,
			values: []float64{0.5, 2.1, 5.8, 12.4, 24.7},
			labels: []string{"Year 1", "Year 2", "Year 3", "Year 4", "Year 5"},
		},
		{
			name:   "unknown intent uses financial default",
			input:  []models.Metric{{Type: models.MetricUsers, Value: 1000}},
			intent: models.ChartIntent("churn"),
			kind:   models.ChartBar,
			values: []float64{0.5, 2.1, 5.8, 12.4, 24.7},
			labels: []string{"Year 1", "Year 2", "Year 3", "Year 4", "Year 5"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Synthesize(tt.input, tt.intent)
			assert.Equal(t, tt.kind, got.Type)
			assert.Equal(t, tt.values, values(got))
			assert.Equal(t, tt.labels, labels(got))
		})
	}
}

func TestSynthesize_UsesEarliestMetricOfPreferredType(t *testing.T) {
	metrics := []models.Metric{
		{Type: models.MetricTraction, Value: 100},
		{Type: models.MetricUsers, Value: 10},
		{Type: models.MetricUsers, Value: 99999},
	}

	got := Synthesize(metrics, models.IntentGrowth)

	assert.Equal(t, models.ChartArea, got.Type)
	assert.Equal(t, []float64{4, 6, 8, 10, 13, 17}, values(got))
}

func TestSynthesize_SeriesAreMonotonic(t *testing.T) {
	for _, m := range []models.Metric{
		{Type: models.MetricUsers, Value: 777},
		{Type: models.MetricTraction, Value: 12345},
		{Type: models.MetricRevenue, Value: 1234567},
		{Type: models.MetricFunding, Value: 7654321},
	} {
		intent := models.IntentGrowth
		if m.Type == models.MetricRevenue || m.Type == models.MetricFunding {
			intent = models.IntentFinancial
		}
		v := values(Synthesize([]models.Metric{m}, intent))
		for i := 1; i < len(v); i++ {
			assert.GreaterOrEqual(t, v[i], v[i-1], "%s point %d", m.Type, i)
		}
	}
}

func TestParseIntent(t *testing.T) {
	intent, ok := ParseIntent("growth")
	assert.True(t, ok)
	assert.Equal(t, models.IntentGrowth, intent)

	_, ok = ParseIntent("pie")
	assert.False(t, ok)
}
