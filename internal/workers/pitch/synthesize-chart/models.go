package synthesizechart

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"pitchcraft/internal/models"
)

type Input struct {
	Metrics []models.Metric `json:"metrics"`
	Intent  string          `json:"intent"`
}

func (i Input) Validate() error {
	return validation.ValidateStruct(&i,
		validation.Field(&i.Intent,
			validation.Required,
			validation.In(string(models.IntentGrowth), string(models.IntentFinancial)),
		),
	)
}

type Output struct {
	ChartData models.ChartSeries `json:"chartData"`
}
