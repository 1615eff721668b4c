package handler

import (
	"log/slog"
	"net/http"

	"github.com/sakif/emoji-feed/internal/identity"
)

// ProfileHandler serves identity lookups for profile pages.
type ProfileHandler struct {
	resolver *identity.Resolver
	logger   *slog.Logger
}

func NewProfileHandler(resolver *identity.Resolver, logger *slog.Logger) *ProfileHandler {
	return &ProfileHandler{resolver: resolver, logger: logger}
}

// HandleGetByUsername serves GET /api/profiles/{username}.
func (h *ProfileHandler) HandleGetByUsername(w http.ResponseWriter, r *http.Request) {
	author, err := h.resolver.ResolveByUsername(r.Context(), r.PathValue("username"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, author)
}
