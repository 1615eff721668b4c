package identity

import (
	"context"
	"fmt"

	"github.com/sakif/emoji-feed/internal/apperror"
	"github.com/sakif/emoji-feed/internal/model"
)

// githubProvider is the linked-account provider whose handle serves as the
// display-name fallback when an identity has no primary username.
const githubProvider = "oauth_github"

// Resolver maps author ids to their client-facing view via the provider.
type Resolver struct {
	provider Provider
}

func NewResolver(provider Provider) *Resolver {
	return &Resolver{provider: provider}
}

// ResolveAuthors fetches the given author ids from the provider and returns
// them keyed by id. Callers deduplicate ids beforehand; inputs larger than
// MaxBatchSize are split across multiple provider calls.
//
// Ids unknown to the provider are absent from the result — the caller
// decides whether that is an error. An identity with no usable display
// username fails the whole resolution (no placeholder substitution).
func (r *Resolver) ResolveAuthors(ctx context.Context, ids []string) (map[string]model.Author, error) {
	authors := make(map[string]model.Author, len(ids))

	for start := 0; start < len(ids); start += MaxBatchSize {
		end := min(start+MaxBatchSize, len(ids))

		users, err := r.provider.FetchUsers(ctx, ids[start:end])
		if err != nil {
			return nil, fmt.Errorf("resolving authors: %w", err)
		}

		for _, u := range users {
			author, err := mapAuthor(u)
			if err != nil {
				return nil, err
			}
			authors[author.ID] = author
		}
	}

	return authors, nil
}

// ResolveByUsername returns the author view for a single username.
func (r *Resolver) ResolveByUsername(ctx context.Context, username string) (*model.Author, error) {
	user, err := r.provider.FetchUserByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	author, err := mapAuthor(*user)
	if err != nil {
		return nil, err
	}
	return &author, nil
}

// mapAuthor converts a provider record to the client-facing shape.
//
// Display-name chain: primary username, else the linked GitHub handle.
// Both absent is a hard error — a feed entry must never carry an empty
// username.
func mapAuthor(u User) (model.Author, error) {
	author := model.Author{
		ID:               u.ID,
		Username:         u.Username,
		ExternalUsername: externalUsername(u),
		ProfileImageURL:  u.ProfileImageURL,
	}

	if author.Username == "" {
		if author.ExternalUsername == "" {
			return model.Author{}, apperror.UsernameUnresolvable(u.ID)
		}
		author.Username = author.ExternalUsername
	}

	return author, nil
}

func externalUsername(u User) string {
	for _, acct := range u.ExternalAccounts {
		if acct.Provider == githubProvider {
			return acct.Username
		}
	}
	return ""
}
