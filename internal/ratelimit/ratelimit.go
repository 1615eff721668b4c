// Package ratelimit gates writes with a per-key sliding-window quota.
//
// The limiter itself is stateless: the window of recent events lives in a
// shared counter store (the same database the posts live in), so every
// replica of the service sees the same quota. Correctness rests on the
// store's atomic consume, not on in-process serialization.
package ratelimit

import (
	"context"
	"time"

	"github.com/sakif/emoji-feed/internal/repository"
)

// Limiter decides whether a write by key may proceed right now.
// Implementations must be safe for concurrent use.
type Limiter interface {
	TryConsume(ctx context.Context, key string) (bool, error)
}

// Window is a sliding-window Limiter: at most limit events per key within
// the trailing per duration.
type Window struct {
	store repository.RateEventStore
	limit int
	per   time.Duration
	now   func() time.Time
}

// NewWindow creates a sliding-window limiter over the given counter store.
func NewWindow(store repository.RateEventStore, limit int, per time.Duration) *Window {
	return &Window{
		store: store,
		limit: limit,
		per:   per,
		now:   time.Now,
	}
}

// TryConsume records an event for key and reports true, or reports false if
// the key already has limit events inside the trailing window.
func (w *Window) TryConsume(ctx context.Context, key string) (bool, error) {
	now := w.now().UTC()
	return w.store.ConsumeRate(ctx, key, now.Add(-w.per), now, w.limit)
}
