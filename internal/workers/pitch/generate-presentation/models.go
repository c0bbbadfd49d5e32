package generatepresentation

import (
	"strings"
	"unicode/utf8"

	commonerrors "pitchcraft/internal/common/errors"
	"pitchcraft/internal/models"
)

type Input struct {
	Text string `json:"text"`
}

// Validate trims the text and enforces the rune limit.
func (i *Input) Validate(maxLength int) error {
	i.Text = strings.TrimSpace(i.Text)
	if i.Text == "" {
		return commonerrors.NewTextRequiredError()
	}
	if n := utf8.RuneCountInString(i.Text); maxLength > 0 && n > maxLength {
		return commonerrors.NewTextTooLongError(n, maxLength)
	}
	return nil
}

type Output struct {
	DeckID      string      `json:"deckId"`
	CompanyName string      `json:"companyName"`
	Tier        models.Tier `json:"tier"`
	SlideCount  int         `json:"slideCount"`
	Note        string      `json:"note,omitempty"`
}
