package apperror

import (
	"errors"
	"strings"
	"testing"
)

func TestErrorsIs(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		target    error
		wantMatch bool
	}{
		{
			name:      "NotFound wraps ErrNotFound",
			err:       NotFound("post", "abc123"),
			target:    ErrNotFound,
			wantMatch: true,
		},
		{
			name:      "ValidationFailed wraps ErrValidation",
			err:       ValidationFailed("content", "content is required"),
			target:    ErrValidation,
			wantMatch: true,
		},
		{
			name:      "RateLimited wraps ErrRateLimited",
			err:       RateLimited("user_1"),
			target:    ErrRateLimited,
			wantMatch: true,
		},
		{
			name:      "RateLimited does NOT match ErrValidation",
			err:       RateLimited("user_1"),
			target:    ErrValidation,
			wantMatch: false,
		},
		{
			name:      "Unauthenticated wraps ErrUnauthenticated",
			err:       Unauthenticated("sign in to post"),
			target:    ErrUnauthenticated,
			wantMatch: true,
		},
		{
			name:      "AuthorNotResolved wraps ErrInternal",
			err:       AuthorNotResolved("post_1", "user_1"),
			target:    ErrInternal,
			wantMatch: true,
		},
		{
			name:      "UsernameUnresolvable wraps ErrInternal",
			err:       UsernameUnresolvable("user_1"),
			target:    ErrInternal,
			wantMatch: true,
		},
		{
			name:      "NotFound does NOT match ErrInternal",
			err:       NotFound("post", "abc123"),
			target:    ErrInternal,
			wantMatch: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := errors.Is(tt.err, tt.target)
			if got != tt.wantMatch {
				t.Errorf("errors.Is(%v, %v) = %v, want %v", tt.err, tt.target, got, tt.wantMatch)
			}
		})
	}
}

func TestErrorMessages(t *testing.T) {
	tests := []struct {
		name        string
		err         *AppError
		wantMessage string
	}{
		{
			name:        "NotFound message includes resource and id",
			err:         NotFound("post", "abc123"),
			wantMessage: "post not found with id abc123",
		},
		{
			name:        "ValidationFailed uses custom message",
			err:         ValidationFailed("content", "content is required"),
			wantMessage: "content is required",
		},
		{
			name:        "AuthorNotResolved names both ids",
			err:         AuthorNotResolved("post_9", "user_7"),
			wantMessage: "author user_7 for post post_9 could not be resolved",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.wantMessage {
				t.Errorf("Error() = %q, want %q", got, tt.wantMessage)
			}
		})
	}
}

func TestRateLimitedCarriesAuthor(t *testing.T) {
	// The throttled identifier rides in Field so the handler can report who
	// was limited without parsing the message.
	err := RateLimited("user_42")

	if err.Field != "user_42" {
		t.Errorf("Field = %q, want %q", err.Field, "user_42")
	}
}

func TestUsernameUnresolvableMentionsAuthor(t *testing.T) {
	err := UsernameUnresolvable("user_3")

	if err.Field != "user_3" {
		t.Errorf("Field = %q, want %q", err.Field, "user_3")
	}
	if !strings.Contains(err.Message, "user_3") {
		t.Errorf("Message = %q, want it to mention the author id", err.Message)
	}
}

func TestUnwrap(t *testing.T) {
	err := NotFound("post", "abc123")
	if unwrapped := err.Unwrap(); unwrapped != ErrNotFound {
		t.Errorf("Unwrap() = %v, want %v", unwrapped, ErrNotFound)
	}
}
