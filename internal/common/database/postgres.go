package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"pitchcraft/internal/common/config"

	_ "github.com/lib/pq"
)

type PostgresClient struct {
	DB *sql.DB
}

func NewPostgres(cfg config.PostgresConfig) (*PostgresClient, error) {
	db, err := sql.Open("postgres", cfg.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxConnections)
	db.SetMaxIdleConns(cfg.MaxIdle)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(5 * time.Minute)

	return &PostgresClient{DB: db}, nil
}

func (c *PostgresClient) Ping(ctx context.Context) error {
	return c.DB.PingContext(ctx)
}

func (c *PostgresClient) Close() error {
	if c.DB != nil {
		return c.DB.Close()
	}
	return nil
}

// decksSchema is applied at startup; statements are idempotent.
const decksSchema = `
CREATE TABLE IF NOT EXISTS presentations (
	id           UUID PRIMARY KEY,
	company_name TEXT        NOT NULL,
	tier         TEXT        NOT NULL,
	slide_count  INTEGER     NOT NULL,
	deck         JSONB       NOT NULL,
	created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_presentations_created_at ON presentations (created_at);
`

// Migrate creates the presentations table when it does not exist.
func (c *PostgresClient) Migrate(ctx context.Context) error {
	if _, err := c.DB.ExecContext(ctx, decksSchema); err != nil {
		return fmt.Errorf("migrate presentations: %w", err)
	}
	return nil
}
