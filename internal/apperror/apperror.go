// Package apperror defines the application's error taxonomy.
//
// Services return these errors; the HTTP layer maps them to status codes with
// errors.Is. Sentinels mark the kind, AppError carries the human-readable
// message and the offending field or identifier.
package apperror

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrValidation      = errors.New("validation error")
	ErrRateLimited     = errors.New("rate limited")
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrInternal        = errors.New("internal error")
)

type AppError struct {
	Err     error  // sentinel marking the error kind
	Message string // human-readable error message
	Field   string // optional: field or identifier causing the error
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NotFound(resource, id string) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Message: fmt.Sprintf("%s not found with id %s", resource, id),
	}
}

func ValidationFailed(field, message string) *AppError {
	return &AppError{
		Err:     ErrValidation,
		Message: message,
		Field:   field,
	}
}

// RateLimited reports that the given author exceeded the write quota.
// Field carries the throttled author id so the boundary can distinguish this
// from a generic validation failure.
func RateLimited(authorID string) *AppError {
	return &AppError{
		Err:     ErrRateLimited,
		Message: "too many posts, slow down",
		Field:   authorID,
	}
}

// Unauthenticated reports a write attempted without a resolved caller identity.
func Unauthenticated(message string) *AppError {
	return &AppError{
		Err:     ErrUnauthenticated,
		Message: message,
	}
}

// AuthorNotResolved reports a post whose author id has no matching identity
// record — a consistency violation between the store and the identity
// provider. Callers log it with both ids before surfacing.
func AuthorNotResolved(postID, authorID string) *AppError {
	return &AppError{
		Err:     ErrInternal,
		Message: fmt.Sprintf("author %s for post %s could not be resolved", authorID, postID),
		Field:   authorID,
	}
}

// UsernameUnresolvable reports an identity with neither a primary username nor
// a linked external account handle. The read fails rather than returning a
// post with an empty display name.
func UsernameUnresolvable(authorID string) *AppError {
	return &AppError{
		Err:     ErrInternal,
		Message: fmt.Sprintf("author %s has no usable display username", authorID),
		Field:   authorID,
	}
}
