// Package service contains the business logic: validation, rate limiting,
// and the read-time join between stored posts and provider-owned authors.
//
// The service depends only on interfaces — repository, resolver, limiter —
// so the HTTP layer above and the storage below can change independently,
// and tests inject in-memory fakes.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sakif/emoji-feed/internal/apperror"
	"github.com/sakif/emoji-feed/internal/model"
	"github.com/sakif/emoji-feed/internal/ratelimit"
	"github.com/sakif/emoji-feed/internal/repository"
)

// FeedLimit is how many posts every feed read requests from the store.
const FeedLimit = repository.MaxFeedLimit

// AuthorResolver resolves a deduplicated set of author ids to their
// client-facing view. Satisfied by identity.Resolver.
type AuthorResolver interface {
	ResolveAuthors(ctx context.Context, ids []string) (map[string]model.Author, error)
}

// PostService orchestrates the post procedures.
type PostService struct {
	repo     repository.PostRepository
	resolver AuthorResolver
	limiter  ratelimit.Limiter
	rule     ContentRule
	logger   *slog.Logger
}

// NewPostService wires the service. The limiter and content rule are
// injected so deployments can tune the quota and product policy without
// touching this package.
func NewPostService(
	repo repository.PostRepository,
	resolver AuthorResolver,
	limiter ratelimit.Limiter,
	rule ContentRule,
	logger *slog.Logger,
) *PostService {
	return &PostService{
		repo:     repo,
		resolver: resolver,
		limiter:  limiter,
		rule:     rule,
		logger:   logger,
	}
}

// GetAll returns the global feed: up to FeedLimit entries, newest first.
func (s *PostService) GetAll(ctx context.Context) ([]model.FeedEntry, error) {
	posts, err := s.repo.ListAll(ctx, FeedLimit)
	if err != nil {
		s.logger.Error("failed to list posts", slog.String("error", err.Error()))
		return nil, fmt.Errorf("listing posts: %w", err)
	}

	return s.assemble(ctx, posts)
}

// GetByAuthor returns one author's feed, newest first. An empty result is
// valid — this service cannot tell "no posts yet" from "no such author".
func (s *PostService) GetByAuthor(ctx context.Context, authorID string) ([]model.FeedEntry, error) {
	authorID = strings.TrimSpace(authorID)
	if authorID == "" {
		return nil, apperror.ValidationFailed("authorId", "author id is required")
	}

	posts, err := s.repo.ListByAuthor(ctx, authorID, FeedLimit)
	if err != nil {
		s.logger.Error("failed to list posts by author",
			slog.String("author_id", authorID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("listing posts for author %s: %w", authorID, err)
	}

	return s.assemble(ctx, posts)
}

// GetByID returns a slice of length 0 or 1. The slice shape reuses the
// assembly path; callers treat length 0 as not found.
func (s *PostService) GetByID(ctx context.Context, id string) ([]model.FeedEntry, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, apperror.ValidationFailed("id", "post id is required")
	}

	post, err := s.repo.GetByID(ctx, id)
	if err != nil {
		// "No such post" is an empty feed, not an error, on read paths.
		if errors.Is(err, apperror.ErrNotFound) {
			return []model.FeedEntry{}, nil
		}
		return nil, err
	}

	return s.assemble(ctx, []model.Post{*post})
}

// Create validates content, charges the author's write quota, and persists
// the post. authorID comes from the authentication layer, never from the
// request body. Returns the raw post — the author is the caller, already
// known to the client.
func (s *PostService) Create(ctx context.Context, authorID, content string) (*model.Post, error) {
	if authorID == "" {
		return nil, apperror.Unauthenticated("sign in to post")
	}

	if err := validateContent(content, s.rule); err != nil {
		return nil, err
	}

	// Quota check happens before the store is touched; a denied write costs
	// nothing but the counter round-trip.
	allowed, err := s.limiter.TryConsume(ctx, authorID)
	if err != nil {
		s.logger.Error("rate limiter failed",
			slog.String("author_id", authorID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("checking rate limit: %w", err)
	}
	if !allowed {
		s.logger.Warn("post rejected by rate limit", slog.String("author_id", authorID))
		return nil, apperror.RateLimited(authorID)
	}

	post := &model.Post{
		AuthorID: authorID,
		Content:  content,
	}
	if err := s.repo.Create(ctx, post); err != nil {
		s.logger.Error("failed to create post",
			slog.String("author_id", authorID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("creating post: %w", err)
	}

	s.logger.Info("post created",
		slog.String("id", post.ID),
		slog.String("author_id", post.AuthorID),
	)

	return post, nil
}

// assemble joins posts with their resolved authors, preserving input order.
//
// All distinct author ids go to the resolver in one call — never one call
// per post. A post whose author is missing from the provider's response is
// a consistency violation between the store and the identity provider; it
// fails the whole read rather than being silently skipped.
func (s *PostService) assemble(ctx context.Context, posts []model.Post) ([]model.FeedEntry, error) {
	entries := make([]model.FeedEntry, 0, len(posts))
	if len(posts) == 0 {
		return entries, nil
	}

	seen := make(map[string]bool, len(posts))
	ids := make([]string, 0, len(posts))
	for _, p := range posts {
		if !seen[p.AuthorID] {
			seen[p.AuthorID] = true
			ids = append(ids, p.AuthorID)
		}
	}

	authors, err := s.resolver.ResolveAuthors(ctx, ids)
	if err != nil {
		s.logger.Error("failed to resolve authors", slog.String("error", err.Error()))
		return nil, fmt.Errorf("resolving authors: %w", err)
	}

	for _, p := range posts {
		author, ok := authors[p.AuthorID]
		if !ok {
			s.logger.Error("post references unknown author",
				slog.String("post_id", p.ID),
				slog.String("author_id", p.AuthorID),
			)
			return nil, apperror.AuthorNotResolved(p.ID, p.AuthorID)
		}
		entries = append(entries, model.FeedEntry{Post: p, Author: author})
	}

	return entries, nil
}
