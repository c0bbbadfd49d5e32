package notifydeckready

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"pitchcraft/internal/models"
)

const (
	StatusSent     = "sent"
	StatusDisabled = "disabled"
	StatusFailed   = "failed"
)

type Input struct {
	DeckID         string      `json:"deckId"`
	CompanyName    string      `json:"companyName"`
	RecipientEmail string      `json:"recipientEmail,omitempty"`
	SlideCount     int         `json:"slideCount"`
	Tier           models.Tier `json:"tier"`
}

func (i Input) Validate() error {
	return validation.ValidateStruct(&i,
		validation.Field(&i.DeckID, validation.Required),
		validation.Field(&i.RecipientEmail, is.EmailFormat),
		validation.Field(&i.SlideCount, validation.Min(0)),
	)
}

type Output struct {
	NotificationID string    `json:"notificationId"`
	Status         string    `json:"status"`
	Channels       []string  `json:"channels,omitempty"`
	SentAt         time.Time `json:"sentAt"`
}
