package jobs

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"connectibles/internal/observability"
)

type chillPurger interface {
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// ChillCleanup deletes chill posts older than ttl on every tick.
type ChillCleanup struct {
	repo     chillPurger
	ttl      time.Duration
	interval time.Duration
	now      func() time.Time
}

func NewChillCleanup(repo chillPurger, ttl, interval time.Duration) *ChillCleanup {
	return &ChillCleanup{repo: repo, ttl: ttl, interval: interval, now: time.Now}
}

// RunOnce purges expired posts and returns how many were removed.
func (j *ChillCleanup) RunOnce(ctx context.Context) (int64, error) {
	cutoff := j.now().Add(-j.ttl)
	deleted, err := j.repo.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	observability.AddChillPostsDeleted(deleted)
	log.Info().Int64("deleted", deleted).Time("cutoff", cutoff).Msg("chill posts cleaned up")
	return deleted, nil
}

// Run ticks until ctx is cancelled. A failed run is logged and the next tick
// proceeds normally.
func (j *ChillCleanup) Run(ctx context.Context) {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := j.RunOnce(ctx); err != nil {
				log.Error().Err(err).Msg("chill cleanup failed")
			}
		}
	}
}
