// Package model defines the data structures shared across the application.
package model

import "time"

// Post is a single published post. The repository assigns ID and CreatedAt
// on creation; posts are never updated or deleted afterwards.
//
// AuthorID references an identity owned by the external identity provider.
// It is not checked for existence at write time — the author is resolved
// lazily when the post is read.
type Post struct {
	ID        string    `json:"id"        db:"id"`
	AuthorID  string    `json:"authorId"  db:"author_id"`
	Content   string    `json:"content"   db:"content"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}
