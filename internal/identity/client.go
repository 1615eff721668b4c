package identity

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"golang.org/x/oauth2"

	"github.com/sakif/emoji-feed/internal/apperror"
)

// Client is the HTTP implementation of Provider.
//
// Requests carry a long-lived service token. We wrap it in an oauth2
// TokenSource so the http.Client attaches the Authorization header on every
// call and the transport stays swappable in tests.
type Client struct {
	baseURL string
	http    *http.Client
}

var _ Provider = (*Client)(nil)

// NewClient creates a Client for the provider API at baseURL.
func NewClient(baseURL, token string) *Client {
	src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    oauth2.NewClient(context.Background(), src),
	}
}

// FetchUsers looks up a batch of user records by id.
//
// GET {base}/v1/users?user_id=a&user_id=b&limit=N
func (c *Client) FetchUsers(ctx context.Context, ids []string) ([]User, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	if len(ids) > MaxBatchSize {
		return nil, fmt.Errorf("identity: batch of %d exceeds provider cap %d", len(ids), MaxBatchSize)
	}

	q := url.Values{}
	for _, id := range ids {
		q.Add("user_id", id)
	}
	q.Set("limit", strconv.Itoa(MaxBatchSize))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/v1/users?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("identity: building user batch request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("identity: fetching user batch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("identity: user batch returned status %d", resp.StatusCode)
	}

	var users []User
	if err := json.NewDecoder(resp.Body).Decode(&users); err != nil {
		return nil, fmt.Errorf("identity: decoding user batch: %w", err)
	}

	return users, nil
}

// FetchUserByUsername looks up a single user record by username.
//
// GET {base}/v1/users?username=octocat
func (c *Client) FetchUserByUsername(ctx context.Context, username string) (*User, error) {
	q := url.Values{}
	q.Set("username", username)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/v1/users?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("identity: building username request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("identity: fetching user by username: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("identity: username lookup returned status %d", resp.StatusCode)
	}

	var users []User
	if err := json.NewDecoder(resp.Body).Decode(&users); err != nil {
		return nil, fmt.Errorf("identity: decoding username lookup: %w", err)
	}
	if len(users) == 0 {
		return nil, apperror.NotFound("user", username)
	}

	return &users[0], nil
}
