// internal/extract/metrics.go
package extract

import (
	"math"
	"strconv"
	"strings"

	"pitchcraft/internal/models"
)

// Numbers returns every metric found in text, ordered by rule priority and
// then by position. Same-typed metrics are not merged.
func Numbers(text string) []models.Metric {
	metrics := make([]models.Metric, 0)

	for _, rule := range MetricRules {
		for _, m := range rule.Pattern.FindAllStringSubmatch(text, -1) {
			raw := strings.ReplaceAll(m[rule.ValueGroup], ",", "")
			n, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				continue
			}

			value := n * rule.Multiplier
			if math.IsNaN(value) || math.IsInf(value, 0) || value <= 0 {
				continue
			}

			metrics = append(metrics, models.Metric{
				Context: m[0],
				Value:   value,
				Type:    rule.Type,
			})
		}
	}

	return metrics
}
