// internal/models/deck.go
package models

import "time"

// Tier records how much of a deck came from generative services.
type Tier string

const (
	TierGenerative        Tier = "generative"
	TierPlaceholderImages Tier = "generative_placeholder_images"
	TierStructured        Tier = "structured"
)

// Deck is a generated presentation together with the profile it was built from.
type Deck struct {
	ID          string           `json:"id"`
	CompanyName string           `json:"companyName"`
	Tier        Tier             `json:"tier"`
	Note        string           `json:"note,omitempty"`
	Slides      []Slide          `json:"slides"`
	Profile     *BusinessProfile `json:"profile,omitempty"`
	CreatedAt   time.Time        `json:"createdAt"`
}
