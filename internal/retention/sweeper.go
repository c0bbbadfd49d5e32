// internal/retention/sweeper.go
package retention

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"pitchcraft/internal/common/logger"
	"pitchcraft/internal/store"
)

const DefaultSchedule = "@hourly"

type Config struct {
	Schedule string
	MaxAge   time.Duration
	Timeout  time.Duration
}

// Target is a named store that expired decks are removed from.
type Target struct {
	Name   string
	Pruner store.Pruner
}

// Result maps each target name to the number of records it removed.
type Result map[string]int64

// Sweeper deletes decks older than MaxAge from every target on a cron
// schedule.
type Sweeper struct {
	targets []Target
	config  Config
	logger  logger.Logger
	cron    *cron.Cron
	now     func() time.Time

	mu sync.Mutex
}

func NewSweeper(cfg Config, log logger.Logger, targets ...Target) (*Sweeper, error) {
	if len(targets) == 0 {
		return nil, fmt.Errorf("retention needs at least one target")
	}
	for _, t := range targets {
		if t.Pruner == nil {
			return nil, fmt.Errorf("retention target %q has no pruner", t.Name)
		}
	}
	if cfg.MaxAge <= 0 {
		return nil, fmt.Errorf("retention max age must be positive")
	}
	if cfg.Schedule == "" {
		cfg.Schedule = DefaultSchedule
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = time.Minute
	}

	s := &Sweeper{
		targets: targets,
		config:  cfg,
		logger:  log.With(map[string]interface{}{"component": "retention"}),
		cron:    cron.New(),
		now:     time.Now,
	}

	if _, err := s.cron.AddFunc(cfg.Schedule, s.tick); err != nil {
		return nil, fmt.Errorf("invalid retention schedule %q: %w", cfg.Schedule, err)
	}
	return s, nil
}

func (s *Sweeper) Start() {
	s.logger.Info("retention sweep scheduled", map[string]interface{}{
		"schedule": s.config.Schedule,
		"maxAge":   s.config.MaxAge.String(),
	})
	s.cron.Start()
}

// Stop halts scheduling and waits for a running sweep to finish.
func (s *Sweeper) Stop() {
	<-s.cron.Stop().Done()
}

func (s *Sweeper) tick() {
	ctx, cancel := context.WithTimeout(context.Background(), s.config.Timeout)
	defer cancel()

	if _, err := s.RunOnce(ctx); err != nil {
		s.logger.Error("retention sweep failed", map[string]interface{}{
			"error": err.Error(),
		})
	}
}

// RunOnce deletes every deck created before now minus MaxAge from each
// target in order. A failing target does not stop the others; the failures
// are joined into the returned error. Concurrent calls are serialized.
func (s *Sweeper) RunOnce(ctx context.Context) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().Add(-s.config.MaxAge)
	result := make(Result, len(s.targets))
	var errs []error

	for _, t := range s.targets {
		n, err := t.Pruner.DeleteOlderThan(ctx, cutoff)
		result[t.Name] = n
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: delete before %s: %w", t.Name, cutoff.Format(time.RFC3339), err))
			continue
		}
		s.logger.Info("retention sweep complete", map[string]interface{}{
			"target":  t.Name,
			"deleted": n,
			"cutoff":  cutoff.Format(time.RFC3339),
		})
	}

	return result, errors.Join(errs...)
}
