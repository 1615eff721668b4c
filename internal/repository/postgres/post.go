package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/rs/xid"
	"github.com/sakif/emoji-feed/internal/apperror"
	"github.com/sakif/emoji-feed/internal/model"
	"github.com/sakif/emoji-feed/internal/repository"
)

var (
	_ repository.PostRepository = (*DB)(nil)
	_ repository.RateEventStore = (*DB)(nil)
)

// Create inserts a post, assigning its ID and CreatedAt in place.
func (db *DB) Create(ctx context.Context, post *model.Post) error {
	post.ID = xid.New().String()
	post.CreatedAt = time.Now().UTC()

	_, err := db.pool.Exec(ctx,
		`INSERT INTO posts (id, author_id, content, created_at)
		 VALUES ($1, $2, $3, $4)`,
		post.ID, post.AuthorID, post.Content, post.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("postgres: creating post: %w", err)
	}
	return nil
}

// ListAll returns up to limit posts, newest first.
func (db *DB) ListAll(ctx context.Context, limit int) ([]model.Post, error) {
	limit = clampLimit(limit)

	rows, err := db.pool.Query(ctx,
		`SELECT id, author_id, content, created_at
		 FROM posts
		 ORDER BY created_at DESC, id DESC
		 LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("postgres: listing posts: %w", err)
	}
	defer rows.Close()

	return scanPosts(rows, limit)
}

// ListByAuthor returns up to limit posts by one author, newest first.
func (db *DB) ListByAuthor(ctx context.Context, authorID string, limit int) ([]model.Post, error) {
	limit = clampLimit(limit)

	rows, err := db.pool.Query(ctx,
		`SELECT id, author_id, content, created_at
		 FROM posts
		 WHERE author_id = $1
		 ORDER BY created_at DESC, id DESC
		 LIMIT $2`,
		authorID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("postgres: listing posts for author %s: %w", authorID, err)
	}
	defer rows.Close()

	return scanPosts(rows, limit)
}

// GetByID returns apperror.NotFound when no post matches.
func (db *DB) GetByID(ctx context.Context, id string) (*model.Post, error) {
	var post model.Post

	err := db.pool.QueryRow(ctx,
		`SELECT id, author_id, content, created_at FROM posts WHERE id = $1`,
		id,
	).Scan(&post.ID, &post.AuthorID, &post.Content, &post.CreatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NotFound("post", id)
		}
		return nil, fmt.Errorf("postgres: getting post %s: %w", id, err)
	}

	return &post, nil
}

// ConsumeRate implements the sliding-window counter: prune events that fell
// out of the window, count the rest, and record a new event only when under
// limit. A per-key advisory lock serializes concurrent consumers — under
// READ COMMITTED two plain statements for the same key could both count the
// old window and both insert, admitting writes past the limit. The lock is
// released automatically at commit or rollback.
func (db *DB) ConsumeRate(ctx context.Context, key string, windowStart, now time.Time, limit int) (bool, error) {
	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return false, fmt.Errorf("postgres: starting rate tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx,
		`SELECT pg_advisory_xact_lock(hashtext('rate:' || $1))`,
		key,
	); err != nil {
		return false, fmt.Errorf("postgres: locking rate key %s: %w", key, err)
	}

	if _, err := tx.Exec(ctx,
		`DELETE FROM rate_events WHERE key = $1 AND created_at < $2`,
		key, windowStart,
	); err != nil {
		return false, fmt.Errorf("postgres: pruning rate events: %w", err)
	}

	var count int
	if err := tx.QueryRow(ctx,
		`SELECT COUNT(*) FROM rate_events WHERE key = $1`,
		key,
	).Scan(&count); err != nil {
		return false, fmt.Errorf("postgres: counting rate events: %w", err)
	}

	if count >= limit {
		// Denied — nothing to record, but the prune is still worth keeping.
		if err := tx.Commit(ctx); err != nil {
			return false, fmt.Errorf("postgres: committing rate tx: %w", err)
		}
		return false, nil
	}

	if _, err := tx.Exec(ctx,
		`INSERT INTO rate_events (key, created_at) VALUES ($1, $2)`,
		key, now,
	); err != nil {
		return false, fmt.Errorf("postgres: recording rate event: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return false, fmt.Errorf("postgres: committing rate tx: %w", err)
	}
	return true, nil
}

func clampLimit(limit int) int {
	if limit <= 0 || limit > repository.MaxFeedLimit {
		return repository.MaxFeedLimit
	}
	return limit
}

func scanPosts(rows pgx.Rows, capHint int) ([]model.Post, error) {
	posts := make([]model.Post, 0, capHint)

	for rows.Next() {
		var p model.Post
		if err := rows.Scan(&p.ID, &p.AuthorID, &p.Content, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("postgres: scanning post row: %w", err)
		}
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: iterating posts: %w", err)
	}

	return posts, nil
}
