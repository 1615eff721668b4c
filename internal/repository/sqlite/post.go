package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/xid"
	"github.com/sakif/emoji-feed/internal/apperror"
	"github.com/sakif/emoji-feed/internal/model"
	"github.com/sakif/emoji-feed/internal/repository"
)

// Compile-time interface checks.
var (
	_ repository.PostRepository = (*DB)(nil)
	_ repository.RateEventStore = (*DB)(nil)
)

// Create inserts a post, assigning its ID and CreatedAt in place.
//
// xid ids are 20 URL-safe chars and sort by creation time, which keeps the
// primary key index append-mostly.
func (db *DB) Create(ctx context.Context, post *model.Post) error {
	post.ID = xid.New().String()
	post.CreatedAt = time.Now().UTC()

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO posts (id, author_id, content, created_at)
		 VALUES (?, ?, ?, ?)`,
		post.ID,
		post.AuthorID,
		post.Content,
		post.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating post: %w", err)
	}

	return nil
}

// ListAll returns up to limit posts, newest first.
func (db *DB) ListAll(ctx context.Context, limit int) ([]model.Post, error) {
	limit = clampLimit(limit)

	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, author_id, content, created_at
		 FROM posts
		 ORDER BY created_at DESC, id DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing posts: %w", err)
	}
	defer rows.Close()

	return scanPosts(rows, limit)
}

// ListByAuthor returns up to limit posts by one author, newest first.
func (db *DB) ListByAuthor(ctx context.Context, authorID string, limit int) ([]model.Post, error) {
	limit = clampLimit(limit)

	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, author_id, content, created_at
		 FROM posts
		 WHERE author_id = ?
		 ORDER BY created_at DESC, id DESC
		 LIMIT ?`,
		authorID,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing posts for author %s: %w", authorID, err)
	}
	defer rows.Close()

	return scanPosts(rows, limit)
}

// GetByID returns apperror.NotFound when no post matches.
func (db *DB) GetByID(ctx context.Context, id string) (*model.Post, error) {
	var post model.Post

	err := db.conn.QueryRowContext(ctx,
		`SELECT id, author_id, content, created_at
		 FROM posts
		 WHERE id = ?`,
		id,
	).Scan(&post.ID, &post.AuthorID, &post.Content, &post.CreatedAt)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("post", id)
		}
		return nil, fmt.Errorf("sqlite: getting post %s: %w", id, err)
	}

	return &post, nil
}

// ConsumeRate implements the sliding-window counter: prune events that fell
// out of the window, count the rest, and record a new event only when under
// limit. The whole sequence runs in one transaction so concurrent writers
// for the same key serialize on the store, not on this process.
func (db *DB) ConsumeRate(ctx context.Context, key string, windowStart, now time.Time, limit int) (bool, error) {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("sqlite: starting rate tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM rate_events WHERE key = ? AND created_at < ?`,
		key, windowStart,
	); err != nil {
		return false, fmt.Errorf("sqlite: pruning rate events: %w", err)
	}

	var count int
	if err := tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM rate_events WHERE key = ?`,
		key,
	).Scan(&count); err != nil {
		return false, fmt.Errorf("sqlite: counting rate events: %w", err)
	}

	if count >= limit {
		// Denied — nothing to record, but the prune is still worth keeping.
		if err := tx.Commit(); err != nil {
			return false, fmt.Errorf("sqlite: committing rate tx: %w", err)
		}
		return false, nil
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO rate_events (key, created_at) VALUES (?, ?)`,
		key, now,
	); err != nil {
		return false, fmt.Errorf("sqlite: recording rate event: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("sqlite: committing rate tx: %w", err)
	}
	return true, nil
}

func clampLimit(limit int) int {
	if limit <= 0 || limit > repository.MaxFeedLimit {
		return repository.MaxFeedLimit
	}
	return limit
}

func scanPosts(rows *sql.Rows, capHint int) ([]model.Post, error) {
	posts := make([]model.Post, 0, capHint)

	for rows.Next() {
		var p model.Post
		if err := rows.Scan(&p.ID, &p.AuthorID, &p.Content, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("sqlite: scanning post row: %w", err)
		}
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating posts: %w", err)
	}

	return posts, nil
}
