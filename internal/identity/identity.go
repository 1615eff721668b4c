// Package identity talks to the external identity provider and resolves
// post authors into their client-facing shape.
//
// The provider is the source of truth for usernames and profile images;
// this service stores only author ids and joins against the provider at
// read time.
package identity

import "context"

// MaxBatchSize is the most user ids the provider accepts in one lookup.
// The resolver chunks larger inputs.
const MaxBatchSize = 100

// User is the portion of the provider's user record this service reads.
// The provider returns a much larger object; we only decode what we need.
type User struct {
	ID               string            `json:"id"`
	Username         string            `json:"username"`
	ProfileImageURL  string            `json:"profile_image_url"`
	ExternalAccounts []ExternalAccount `json:"external_accounts"`
}

// ExternalAccount is a third-party account linked to a provider identity,
// e.g. a GitHub account connected through OAuth.
type ExternalAccount struct {
	Provider string `json:"provider"`
	Username string `json:"username"`
}

// Provider is the contract over the external identity service.
type Provider interface {
	// FetchUsers returns the records for the given ids in one batched call.
	// Unknown ids are simply absent from the result, not an error.
	// len(ids) must not exceed MaxBatchSize.
	FetchUsers(ctx context.Context, ids []string) ([]User, error)

	// FetchUserByUsername returns apperror.NotFound for unknown usernames.
	FetchUserByUsername(ctx context.Context, username string) (*User, error)
}
