// Package store persists generated decks.
package store

import (
	"context"
	"errors"
	"time"

	"pitchcraft/internal/models"
)

var ErrNotFound = errors.New("DECK_NOT_FOUND")

// DeckStore saves and loads decks by id.
type DeckStore interface {
	Save(ctx context.Context, deck *models.Deck) error
	Get(ctx context.Context, id string) (*models.Deck, error)
}

// Pruner removes decks created before a cutoff.
type Pruner interface {
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// Expirer is a Pruner that also reports which decks it removed.
type Expirer interface {
	DeleteExpired(ctx context.Context, cutoff time.Time) ([]string, error)
}

// Evicter drops decks by id.
type Evicter interface {
	Delete(ctx context.Context, ids ...string) error
}
