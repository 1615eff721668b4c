package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/emoji-feed/internal/apperror"
	"github.com/sakif/emoji-feed/internal/auth"
	"github.com/sakif/emoji-feed/internal/handler"
	"github.com/sakif/emoji-feed/internal/model"
	"github.com/sakif/emoji-feed/internal/ratelimit"
	"github.com/sakif/emoji-feed/internal/service"
)

// fakeRepo is a minimal in-memory PostRepository.
type fakeRepo struct {
	posts []model.Post
}

func (f *fakeRepo) Create(_ context.Context, post *model.Post) error {
	post.ID = "post_1"
	post.CreatedAt = time.Now().UTC()
	f.posts = append(f.posts, *post)
	return nil
}

func (f *fakeRepo) ListAll(_ context.Context, limit int) ([]model.Post, error) {
	if len(f.posts) > limit {
		return f.posts[:limit], nil
	}
	return f.posts, nil
}

func (f *fakeRepo) ListByAuthor(_ context.Context, authorID string, limit int) ([]model.Post, error) {
	var out []model.Post
	for _, p := range f.posts {
		if p.AuthorID == authorID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeRepo) GetByID(_ context.Context, id string) (*model.Post, error) {
	for _, p := range f.posts {
		if p.ID == id {
			found := p
			return &found, nil
		}
	}
	return nil, apperror.NotFound("post", id)
}

type fakeResolver struct {
	authors map[string]model.Author
}

func (f *fakeResolver) ResolveAuthors(_ context.Context, ids []string) (map[string]model.Author, error) {
	out := make(map[string]model.Author)
	for _, id := range ids {
		if a, ok := f.authors[id]; ok {
			out[id] = a
		}
	}
	return out, nil
}

func newTestHandler(t *testing.T) (*handler.PostHandler, *fakeRepo, *auth.TokenService) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	repo := &fakeRepo{}
	resolver := &fakeResolver{authors: map[string]model.Author{
		"user_1": {ID: "user_1", Username: "alice"},
	}}
	limiter := ratelimit.NewWindow(ratelimit.NewMemoryStore(), 3, time.Minute)
	svc := service.NewPostService(repo, resolver, limiter, service.EmojiOnly, logger)
	tokens, err := auth.NewTokenService("test-secret-at-least-16-chars")
	require.NoError(t, err)
	return handler.NewPostHandler(svc, logger), repo, tokens
}

// createRouter mounts the create route behind RequireAuth, matching the
// production route table.
func createRouter(h *handler.PostHandler, tokens *auth.TokenService) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("POST /api/posts", auth.RequireAuth(tokens)(http.HandlerFunc(h.HandleCreate)))
	return mux
}

func TestHandleGetAll(t *testing.T) {
	h, repo, _ := newTestHandler(t)
	repo.Create(context.Background(), &model.Post{AuthorID: "user_1", Content: "😀"})

	req := httptest.NewRequest(http.MethodGet, "/api/posts", nil)
	rec := httptest.NewRecorder()
	h.HandleGetAll(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var entries []model.FeedEntry
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &entries))
	require.Len(t, entries, 1)
	assert.Equal(t, "😀", entries[0].Post.Content)
	assert.Equal(t, "alice", entries[0].Author.Username)
}

func TestHandleGetByAuthor(t *testing.T) {
	h, repo, _ := newTestHandler(t)
	repo.Create(context.Background(), &model.Post{AuthorID: "user_1", Content: "😀"})

	req := httptest.NewRequest(http.MethodGet, "/api/users/user_1/posts", nil)
	req.SetPathValue("userID", "user_1")
	rec := httptest.NewRecorder()
	h.HandleGetByAuthor(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var entries []model.FeedEntry
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &entries))
	require.Len(t, entries, 1)
}

func TestHandleGetByID_NotFound(t *testing.T) {
	h, _, _ := newTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/api/posts/nonexistent", nil)
	req.SetPathValue("id", "nonexistent")
	rec := httptest.NewRecorder()
	h.HandleGetByID(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)

	var body handler.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "not_found", body.Error)
}

func TestHandleCreate(t *testing.T) {
	h, _, tokens := newTestHandler(t)
	router := createRouter(h, tokens)

	token, err := tokens.Generate("user_1")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/posts",
		bytes.NewBufferString(`{"content":"😀"}`))
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)

	var post model.Post
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &post))
	assert.Equal(t, "user_1", post.AuthorID)
	assert.Equal(t, "😀", post.Content)
	assert.NotEmpty(t, post.ID)
}

func TestHandleCreate_RequiresAuth(t *testing.T) {
	h, repo, tokens := newTestHandler(t)
	router := createRouter(h, tokens)

	req := httptest.NewRequest(http.MethodPost, "/api/posts",
		bytes.NewBufferString(`{"content":"😀"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Empty(t, repo.posts)
}

func TestHandleCreate_ValidationError(t *testing.T) {
	h, _, tokens := newTestHandler(t)
	router := createRouter(h, tokens)

	token, err := tokens.Generate("user_1")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/posts",
		bytes.NewBufferString(`{"content":"not emoji"}`))
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var body handler.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "validation_error", body.Error)
	assert.Equal(t, "content", body.Field)
}

func TestHandleCreate_RateLimited(t *testing.T) {
	h, _, tokens := newTestHandler(t)
	router := createRouter(h, tokens)

	token, err := tokens.Generate("user_1")
	require.NoError(t, err)

	post := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/posts",
			bytes.NewBufferString(`{"content":"😀"}`))
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusCreated, post().Code, "request %d", i+1)
	}

	rec := post()
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)

	var body handler.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "rate_limited", body.Error)
	assert.Equal(t, "user_1", body.Field)
}
