package generateimages

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

type Input struct {
	Prompts []string `json:"prompts"`
}

func (i Input) Validate(maxPrompts int) error {
	return validation.ValidateStruct(&i,
		validation.Field(&i.Prompts,
			validation.Required,
			validation.Length(1, maxPrompts),
			validation.Each(validation.Required),
		),
	)
}

type Output struct {
	Images []string `json:"images"`
	Note   string   `json:"note,omitempty"`
}
