package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pitchcraft/internal/common/logger"
	"pitchcraft/internal/models"
)

// ==========================
// Helpers
// ==========================

func testDeck(id string) *models.Deck {
	return &models.Deck{
		ID:          id,
		CompanyName: "Acme Robotics",
		Tier:        models.TierStructured,
		Note:        "offline",
		Slides: []models.Slide{
			{ID: 0, Type: models.SlideIntro, Title: "PitchCraft AI"},
			{ID: 1, Type: models.SlideTitle, Title: "Acme Robotics"},
		},
		CreatedAt: time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC),
	}
}

func setupMiniredis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

type memStore struct {
	decks     map[string]*models.Deck
	saveErr   error
	getErr    error
	deleteErr error
	gets      int
}

func newMemStore() *memStore {
	return &memStore{decks: map[string]*models.Deck{}}
}

func (m *memStore) Save(_ context.Context, d *models.Deck) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.decks[d.ID] = d
	return nil
}

func (m *memStore) Get(_ context.Context, id string) (*models.Deck, error) {
	m.gets++
	if m.getErr != nil {
		return nil, m.getErr
	}
	d, ok := m.decks[id]
	if !ok {
		return nil, ErrNotFound
	}
	return d, nil
}

func (m *memStore) DeleteExpired(_ context.Context, cutoff time.Time) ([]string, error) {
	if m.deleteErr != nil {
		return nil, m.deleteErr
	}
	ids := make([]string, 0)
	for id, d := range m.decks {
		if d.CreatedAt.Before(cutoff) {
			ids = append(ids, id)
			delete(m.decks, id)
		}
	}
	return ids, nil
}

func (m *memStore) Delete(_ context.Context, ids ...string) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	for _, id := range ids {
		delete(m.decks, id)
	}
	return nil
}

// ==========================
// Redis
// ==========================

func TestRedisStore_SaveAndGet(t *testing.T) {
	mr, client := setupMiniredis(t)
	s := NewRedisStore(client, time.Hour)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, testDeck("d-1")))

	assert.True(t, mr.Exists("deck:d-1"))
	assert.Equal(t, time.Hour, mr.TTL("deck:d-1"))

	got, err := s.Get(ctx, "d-1")
	require.NoError(t, err)
	assert.Equal(t, "Acme Robotics", got.CompanyName)
	assert.Equal(t, models.TierStructured, got.Tier)
	assert.Len(t, got.Slides, 2)
	assert.True(t, got.CreatedAt.Equal(testDeck("d-1").CreatedAt))
}

func TestRedisStore_Delete(t *testing.T) {
	mr, client := setupMiniredis(t)
	s := NewRedisStore(client, time.Hour)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, testDeck("d-1")))
	require.NoError(t, s.Save(ctx, testDeck("d-2")))

	require.NoError(t, s.Delete(ctx, "d-1", "missing"))
	assert.False(t, mr.Exists("deck:d-1"))
	assert.True(t, mr.Exists("deck:d-2"))

	assert.NoError(t, s.Delete(ctx))
}

func TestRedisStore_Expiry(t *testing.T) {
	mr, client := setupMiniredis(t)
	s := NewRedisStore(client, time.Minute)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, testDeck("d-2")))
	mr.FastForward(2 * time.Minute)

	_, err := s.Get(ctx, "d-2")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestRedisStore_Missing(t *testing.T) {
	_, client := setupMiniredis(t)
	s := NewRedisStore(client, time.Minute)

	_, err := s.Get(context.Background(), "nope")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestRedisStore_Corrupt(t *testing.T) {
	mr, client := setupMiniredis(t)
	s := NewRedisStore(client, time.Minute)
	require.NoError(t, mr.Set("deck:bad", "{not json"))

	_, err := s.Get(context.Background(), "bad")
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrNotFound))
}

func TestRedisStore_Unavailable(t *testing.T) {
	mr, client := setupMiniredis(t)
	s := NewRedisStore(client, time.Minute)
	mr.Close()

	err := s.Save(context.Background(), testDeck("d-3"))
	assert.Error(t, err)
}

// ==========================
// Postgres
// ==========================

func TestPostgresStore_Save(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	deck := testDeck("7b0c2c1e-0a4e-4f7e-9a53-4bb1d1f0f001")
	mock.ExpectExec("INSERT INTO presentations").
		WithArgs(deck.ID, "Acme Robotics", "structured", 2, sqlmock.AnyArg(), deck.CreatedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, NewPostgresStore(db).Save(context.Background(), deck))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_SaveError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("INSERT INTO presentations").WillReturnError(sql.ErrConnDone)

	err = NewPostgresStore(db).Save(context.Background(), testDeck("d"))
	assert.True(t, errors.Is(err, sql.ErrConnDone))
}

func TestPostgresStore_Get(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	data, _ := json.Marshal(testDeck("d-1"))
	mock.ExpectQuery(`SELECT deck FROM presentations WHERE id = \$1`).
		WithArgs("d-1").
		WillReturnRows(sqlmock.NewRows([]string{"deck"}).AddRow(data))

	got, err := NewPostgresStore(db).Get(context.Background(), "d-1")
	require.NoError(t, err)
	assert.Equal(t, "d-1", got.ID)
	assert.Equal(t, "PitchCraft AI", got.Slides[0].Title)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_GetMissing(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT deck FROM presentations`).
		WithArgs("nope").
		WillReturnRows(sqlmock.NewRows([]string{"deck"}))

	_, err = NewPostgresStore(db).Get(context.Background(), "nope")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestPostgresStore_DeleteOlderThan(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	cutoff := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`DELETE FROM presentations WHERE created_at < \$1 RETURNING id`).
		WithArgs(cutoff).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("d-1").AddRow("d-2").AddRow("d-3").AddRow("d-4"))

	n, err := NewPostgresStore(db).DeleteOlderThan(context.Background(), cutoff)
	require.NoError(t, err)
	assert.Equal(t, int64(4), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_DeleteExpired(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	cutoff := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`DELETE FROM presentations WHERE created_at < \$1 RETURNING id`).
		WithArgs(cutoff).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("old-1").AddRow("old-2"))

	ids, err := NewPostgresStore(db).DeleteExpired(context.Background(), cutoff)
	require.NoError(t, err)
	assert.Equal(t, []string{"old-1", "old-2"}, ids)

	mock.ExpectQuery(`DELETE FROM presentations`).WillReturnError(sql.ErrConnDone)
	_, err = NewPostgresStore(db).DeleteExpired(context.Background(), cutoff)
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// ==========================
// Read-through cache
// ==========================

func TestCachedStore_SaveWritesBoth(t *testing.T) {
	primary, cache := newMemStore(), newMemStore()
	s := NewCachedStore(primary, cache, logger.NewTestLogger(t))

	require.NoError(t, s.Save(context.Background(), testDeck("d-1")))
	assert.Contains(t, primary.decks, "d-1")
	assert.Contains(t, cache.decks, "d-1")
}

func TestCachedStore_CacheWriteFailureIgnored(t *testing.T) {
	primary, cache := newMemStore(), newMemStore()
	cache.saveErr = errors.New("redis down")
	s := NewCachedStore(primary, cache, logger.NewNoOpLogger())

	require.NoError(t, s.Save(context.Background(), testDeck("d-1")))
	assert.Contains(t, primary.decks, "d-1")
}

func TestCachedStore_PrimaryFailure(t *testing.T) {
	primary, cache := newMemStore(), newMemStore()
	primary.saveErr = errors.New("postgres down")
	s := NewCachedStore(primary, cache, logger.NewNoOpLogger())

	assert.Error(t, s.Save(context.Background(), testDeck("d-1")))
	assert.Empty(t, cache.decks)
}

func TestCachedStore_GetFillsCache(t *testing.T) {
	primary, cache := newMemStore(), newMemStore()
	primary.decks["d-1"] = testDeck("d-1")
	s := NewCachedStore(primary, cache, logger.NewNoOpLogger())
	ctx := context.Background()

	got, err := s.Get(ctx, "d-1")
	require.NoError(t, err)
	assert.Equal(t, "d-1", got.ID)
	assert.Contains(t, cache.decks, "d-1")

	_, err = s.Get(ctx, "d-1")
	require.NoError(t, err)
	assert.Equal(t, 1, primary.gets)
}

func TestCachedStore_CacheErrorFallsBack(t *testing.T) {
	primary, cache := newMemStore(), newMemStore()
	primary.decks["d-1"] = testDeck("d-1")
	cache.getErr = errors.New("redis down")
	s := NewCachedStore(primary, cache, logger.NewNoOpLogger())

	got, err := s.Get(context.Background(), "d-1")
	require.NoError(t, err)
	assert.Equal(t, "d-1", got.ID)
}

func TestCachedStore_NotFound(t *testing.T) {
	s := NewCachedStore(newMemStore(), newMemStore(), logger.NewNoOpLogger())

	_, err := s.Get(context.Background(), "nope")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestCachedStore_DeleteOlderThanEvictsCache(t *testing.T) {
	primary, cache := newMemStore(), newMemStore()
	s := NewCachedStore(primary, cache, logger.NewTestLogger(t))
	ctx := context.Background()

	old := testDeck("old")
	fresh := testDeck("fresh")
	fresh.CreatedAt = old.CreatedAt.Add(48 * time.Hour)
	require.NoError(t, s.Save(ctx, old))
	require.NoError(t, s.Save(ctx, fresh))

	n, err := s.DeleteOlderThan(ctx, old.CreatedAt.Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assert.NotContains(t, cache.decks, "old")
	assert.Contains(t, cache.decks, "fresh")

	_, err = s.Get(ctx, "old")
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.NotContains(t, cache.decks, "old")
}

func TestCachedStore_DeleteOlderThanPostgresAndRedis(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	mr, client := setupMiniredis(t)

	s := NewCachedStore(NewPostgresStore(db), NewRedisStore(client, time.Hour), logger.NewTestLogger(t))
	ctx := context.Background()
	require.NoError(t, NewRedisStore(client, time.Hour).Save(ctx, testDeck("old-deck")))

	cutoff := time.Date(2026, 10, 2, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`DELETE FROM presentations WHERE created_at < \$1 RETURNING id`).
		WithArgs(cutoff).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("old-deck"))
	mock.ExpectQuery("SELECT deck FROM presentations").
		WithArgs("old-deck").
		WillReturnError(sql.ErrNoRows)

	n, err := s.DeleteOlderThan(ctx, cutoff)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assert.False(t, mr.Exists("deck:old-deck"))

	_, err = s.Get(ctx, "old-deck")
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCachedStore_DeleteOlderThanErrors(t *testing.T) {
	ctx := context.Background()
	cutoff := time.Date(2026, 10, 2, 0, 0, 0, 0, time.UTC)

	primary, cache := newMemStore(), newMemStore()
	primary.deleteErr = errors.New("postgres down")
	_, err := NewCachedStore(primary, cache, logger.NewNoOpLogger()).DeleteOlderThan(ctx, cutoff)
	assert.Error(t, err)

	primary, cache = newMemStore(), newMemStore()
	primary.decks["old"] = testDeck("old")
	cache.deleteErr = errors.New("redis down")
	n, err := NewCachedStore(primary, cache, logger.NewNoOpLogger()).DeleteOlderThan(ctx, cutoff)
	assert.Error(t, err)
	assert.Equal(t, int64(1), n)
	assert.NotContains(t, primary.decks, "old")
}
