// Package repository defines the storage contracts implemented by the
// database adapters. Services depend on these interfaces, never on a
// concrete backend.
package repository

import (
	"context"
	"time"

	"github.com/sakif/emoji-feed/internal/model"
)

// MaxFeedLimit caps every feed query. Callers may ask for less, never more.
const MaxFeedLimit = 100

// PostRepository is the contract over the persistent post store.
//
// Posts are insert-only: there is no update or delete. The adapter assigns
// ID and CreatedAt on Create and performs no content validation — that
// happens upstream in the service.
type PostRepository interface {
	Create(ctx context.Context, post *model.Post) error

	// ListAll returns up to limit posts, newest first.
	ListAll(ctx context.Context, limit int) ([]model.Post, error)

	// ListByAuthor returns up to limit posts by one author, newest first.
	ListByAuthor(ctx context.Context, authorID string, limit int) ([]model.Post, error)

	// GetByID returns apperror.NotFound when no post has the given id.
	GetByID(ctx context.Context, id string) (*model.Post, error)
}

// RateEventStore is the shared counter store backing the sliding-window rate
// limiter. ConsumeRate must atomically discard events before windowStart,
// count the remainder for key, and record a new event at now only if the
// count is below limit. It reports whether the event was recorded.
//
// Atomicity here is what makes the limiter correct across replicas: the
// window state lives in the store, not in process memory.
type RateEventStore interface {
	ConsumeRate(ctx context.Context, key string, windowStart, now time.Time, limit int) (bool, error)
}
