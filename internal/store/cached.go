package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"pitchcraft/internal/common/logger"
	"pitchcraft/internal/models"
)

// CachedStore reads through a cache in front of a durable store. Cache
// failures are logged and never fail the call.
type CachedStore struct {
	primary DeckStore
	cache   DeckStore
	logger  logger.Logger
}

func NewCachedStore(primary, cache DeckStore, log logger.Logger) *CachedStore {
	return &CachedStore{
		primary: primary,
		cache:   cache,
		logger:  log.With(map[string]interface{}{"component": "deck-store"}),
	}
}

func (s *CachedStore) Save(ctx context.Context, deck *models.Deck) error {
	if err := s.primary.Save(ctx, deck); err != nil {
		return err
	}
	if err := s.cache.Save(ctx, deck); err != nil {
		s.logger.Warn("deck cache write failed", map[string]interface{}{
			"deckId": deck.ID,
			"error":  err.Error(),
		})
	}
	return nil
}

func (s *CachedStore) Get(ctx context.Context, id string) (*models.Deck, error) {
	deck, err := s.cache.Get(ctx, id)
	if err == nil {
		return deck, nil
	}
	if !errors.Is(err, ErrNotFound) {
		s.logger.Warn("deck cache read failed", map[string]interface{}{
			"deckId": id,
			"error":  err.Error(),
		})
	}

	deck, err = s.primary.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Save(ctx, deck); err != nil {
		s.logger.Warn("deck cache fill failed", map[string]interface{}{
			"deckId": id,
			"error":  err.Error(),
		})
	}
	return deck, nil
}

// DeleteOlderThan expires decks in the primary store and evicts the same ids
// from the cache, so a pruned deck is never served from a stale cache entry.
// An eviction failure is returned after the primary delete has happened; the
// leftover entries still expire with the cache TTL.
func (s *CachedStore) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	expirer, ok := s.primary.(Expirer)
	if !ok {
		return 0, fmt.Errorf("primary deck store cannot expire decks")
	}

	ids, err := expirer.DeleteExpired(ctx, cutoff)
	if err != nil {
		return 0, err
	}

	evicter, ok := s.cache.(Evicter)
	if !ok || len(ids) == 0 {
		return int64(len(ids)), nil
	}
	if err := evicter.Delete(ctx, ids...); err != nil {
		s.logger.Warn("deck cache eviction failed", map[string]interface{}{
			"decks": len(ids),
			"error": err.Error(),
		})
		return int64(len(ids)), fmt.Errorf("evict %d expired decks: %w", len(ids), err)
	}
	return int64(len(ids)), nil
}
