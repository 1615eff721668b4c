package identity

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sakif/emoji-feed/internal/apperror"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func TestClientFetchUsers(t *testing.T) {
	var gotAuth string
	var gotIDs []string

	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotIDs = r.URL.Query()["user_id"]
		json.NewEncoder(w).Encode([]User{
			{ID: "user_1", Username: "alice"},
			{ID: "user_2", Username: "bob"},
		})
	})

	c := NewClient(srv.URL, "secret-token")
	users, err := c.FetchUsers(context.Background(), []string{"user_1", "user_2"})
	if err != nil {
		t.Fatalf("FetchUsers() error = %v", err)
	}

	if gotAuth != "Bearer secret-token" {
		t.Errorf("Authorization = %q, want bearer token", gotAuth)
	}
	if len(gotIDs) != 2 || gotIDs[0] != "user_1" || gotIDs[1] != "user_2" {
		t.Errorf("user_id params = %v", gotIDs)
	}
	if len(users) != 2 || users[0].Username != "alice" {
		t.Errorf("users = %+v", users)
	}
}

func TestClientFetchUsers_EmptyInputSkipsCall(t *testing.T) {
	called := false
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	c := NewClient(srv.URL, "tok")
	users, err := c.FetchUsers(context.Background(), nil)
	if err != nil {
		t.Fatalf("FetchUsers() error = %v", err)
	}
	if users != nil || called {
		t.Errorf("expected no call and no users; called=%v users=%v", called, users)
	}
}

func TestClientFetchUsers_RejectsOversizedBatch(t *testing.T) {
	c := NewClient("http://unused", "tok")

	ids := make([]string, MaxBatchSize+1)
	if _, err := c.FetchUsers(context.Background(), ids); err == nil {
		t.Fatal("expected error for oversized batch")
	}
}

func TestClientFetchUsers_SurfacesProviderFailure(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	c := NewClient(srv.URL, "tok")
	if _, err := c.FetchUsers(context.Background(), []string{"user_1"}); err == nil {
		t.Fatal("expected error for non-200 response")
	}
}

func TestClientFetchUserByUsername(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("username") != "alice" {
			json.NewEncoder(w).Encode([]User{})
			return
		}
		json.NewEncoder(w).Encode([]User{{ID: "user_1", Username: "alice"}})
	})

	c := NewClient(srv.URL, "tok")

	user, err := c.FetchUserByUsername(context.Background(), "alice")
	if err != nil {
		t.Fatalf("FetchUserByUsername() error = %v", err)
	}
	if user.ID != "user_1" {
		t.Errorf("ID = %q, want user_1", user.ID)
	}

	_, err = c.FetchUserByUsername(context.Background(), "nobody")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("unknown username error = %v, want ErrNotFound", err)
	}
}
