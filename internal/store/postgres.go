package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"pitchcraft/internal/models"
)

// PostgresStore is the durable deck store backed by the presentations table.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const upsertDeck = `
	INSERT INTO presentations (id, company_name, tier, slide_count, deck, created_at)
	VALUES ($1, $2, $3, $4, $5, $6)
	ON CONFLICT (id) DO UPDATE SET
		company_name = EXCLUDED.company_name,
		tier = EXCLUDED.tier,
		slide_count = EXCLUDED.slide_count,
		deck = EXCLUDED.deck
`

func (s *PostgresStore) Save(ctx context.Context, deck *models.Deck) error {
	data, err := json.Marshal(deck)
	if err != nil {
		return fmt.Errorf("marshal deck: %w", err)
	}

	_, err = s.db.ExecContext(ctx, upsertDeck,
		deck.ID,
		deck.CompanyName,
		string(deck.Tier),
		len(deck.Slides),
		data,
		deck.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert presentation: %w", err)
	}
	return nil
}

func (s *PostgresStore) Get(ctx context.Context, id string) (*models.Deck, error) {
	var data []byte
	err := s.db.QueryRowContext(ctx, `SELECT deck FROM presentations WHERE id = $1`, id).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query presentation: %w", err)
	}

	var deck models.Deck
	if err := json.Unmarshal(data, &deck); err != nil {
		return nil, fmt.Errorf("unmarshal deck: %w", err)
	}
	return &deck, nil
}

// DeleteExpired removes decks created before cutoff and returns their ids.
func (s *PostgresStore) DeleteExpired(ctx context.Context, cutoff time.Time) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `DELETE FROM presentations WHERE created_at < $1 RETURNING id`, cutoff)
	if err != nil {
		return nil, fmt.Errorf("delete presentations: %w", err)
	}
	defer rows.Close()

	ids := make([]string, 0)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan deleted id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("delete presentations: %w", err)
	}
	return ids, nil
}

// DeleteOlderThan removes decks created before cutoff and reports how many
// rows were deleted.
func (s *PostgresStore) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	ids, err := s.DeleteExpired(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	return int64(len(ids)), nil
}
