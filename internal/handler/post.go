// Package handler exposes the service procedures over HTTP. Handlers parse
// requests, call the service, and translate results and errors to JSON —
// no business rules live here.
package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/sakif/emoji-feed/internal/apperror"
	"github.com/sakif/emoji-feed/internal/auth"
	"github.com/sakif/emoji-feed/internal/service"
)

// PostHandler serves the feed and post-creation endpoints.
type PostHandler struct {
	posts  *service.PostService
	logger *slog.Logger
}

func NewPostHandler(posts *service.PostService, logger *slog.Logger) *PostHandler {
	return &PostHandler{posts: posts, logger: logger}
}

// HandleGetAll serves GET /api/posts: the global feed, newest first.
func (h *PostHandler) HandleGetAll(w http.ResponseWriter, r *http.Request) {
	entries, err := h.posts.GetAll(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, entries)
}

// HandleGetByAuthor serves GET /api/users/{userID}/posts.
func (h *PostHandler) HandleGetByAuthor(w http.ResponseWriter, r *http.Request) {
	entries, err := h.posts.GetByAuthor(r.Context(), r.PathValue("userID"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, entries)
}

// HandleGetByID serves GET /api/posts/{id}. The service returns a slice of
// length 0 or 1; an empty slice becomes 404 here.
func (h *PostHandler) HandleGetByID(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	entries, err := h.posts.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	if len(entries) == 0 {
		writeError(w, apperror.NotFound("post", id))
		return
	}

	writeJSON(w, http.StatusOK, entries)
}

type createPostRequest struct {
	Content string `json:"content"`
}

// HandleCreate serves POST /api/posts. The author is the authenticated
// caller from the request context — never the request body.
func (h *PostHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, apperror.Unauthenticated("sign in to post"))
		return
	}

	var req createPostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid create post body", slog.String("error", err.Error()))
		writeError(w, apperror.ValidationFailed("body", "invalid JSON body"))
		return
	}

	post, err := h.posts.Create(r.Context(), userID, req.Content)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, post)
}
