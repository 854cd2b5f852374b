package fedicomments

import (
	"context"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/alnah/go-fedicomments/internal/task"
)

// NewDispatcher returns a Dispatcher for background work running with ctx.
// Failures are logged to logger, which may be nil.
func NewDispatcher(ctx context.Context, logger logrus.FieldLogger) *Dispatcher {
	return task.NewDispatcher(ctx, logger)
}

// Stats fetches the like and boost counters of the root post. On Misskey,
// likes are the total reaction count and boosts are the renotes listed by
// the server (at most one page).
func (s *Service) Stats(ctx context.Context, instance string, flavor Flavor, postID string) (Stats, error) {
	if postID == "" {
		return Stats{}, ErrEmptyPostID
	}
	flavor, err := s.resolveFlavor(ctx, instance, flavor)
	if err != nil {
		return Stats{}, err
	}

	if flavor == Mastodon {
		status, err := s.client.Status(ctx, instance, postID)
		if err != nil {
			return Stats{}, fmt.Errorf("%w: %w", ErrRootPost, err)
		}
		return Stats{Reactions: status.FavouritesCount, Boosts: status.ReblogsCount}, nil
	}

	note, err := s.client.Note(ctx, instance, postID)
	if err != nil {
		return Stats{}, fmt.Errorf("%w: %w", ErrRootPost, err)
	}
	renotes, err := s.client.Renotes(ctx, instance, postID)
	if err != nil {
		return Stats{}, err
	}
	return Stats{Reactions: note.ReactionCount, Boosts: len(renotes)}, nil
}

// StatsResult receives counters fetched in the background.
type StatsResult struct {
	mu    sync.Mutex
	stats Stats
	ok    bool
}

// Get returns the counters and whether the fetch succeeded. Before the
// dispatcher has been waited on, it may report false.
func (r *StatsResult) Get() (Stats, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stats, r.ok
}

func (r *StatsResult) set(s Stats) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stats, r.ok = s, true
}

// StatsInBackground starts Stats on d and returns immediately. Failures are
// logged by the dispatcher and leave the result empty.
func (s *Service) StatsInBackground(d *Dispatcher, instance string, flavor Flavor, postID string) *StatsResult {
	result := &StatsResult{}
	d.Go("stats", func(ctx context.Context) error {
		stats, err := s.Stats(ctx, instance, flavor, postID)
		if err != nil {
			return err
		}
		result.set(stats)
		return nil
	})
	return result
}
