package model

// Author is the client-facing view of an identity record, derived per request
// and never persisted by this service.
//
// Username is the primary display name from the identity provider and may be
// empty there; ExternalUsername is the handle of a linked external account
// (GitHub) used as a fallback. After resolution every Author attached to a
// returned post has a non-empty Username — the resolver fails instead of
// emitting an entry with an unresolvable display name.
type Author struct {
	ID               string `json:"id"`
	Username         string `json:"username"`
	ExternalUsername string `json:"externalUsername,omitempty"`
	ProfileImageURL  string `json:"profileImageUrl"`
}

// FeedEntry pairs a stored post with its resolved author. Computed fresh on
// every read; ordering is inherited from the underlying post query.
type FeedEntry struct {
	Post   Post   `json:"post"`
	Author Author `json:"author"`
}
