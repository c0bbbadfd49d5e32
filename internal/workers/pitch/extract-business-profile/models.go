// internal/workers/pitch/extract-business-profile/models.go
package extractbusinessprofile

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"pitchcraft/internal/models"
)

type Input struct {
	Text string `json:"text"`
}

func (i *Input) Validate(maxLength int) error {
	i.Text = strings.TrimSpace(i.Text)
	return validation.ValidateStruct(i,
		validation.Field(&i.Text, validation.Required, validation.RuneLength(1, maxLength)),
	)
}

type Output struct {
	Profile *models.BusinessProfile `json:"profile"`
	Cached  bool                    `json:"cached"`
}
