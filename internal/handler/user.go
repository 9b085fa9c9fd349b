package handler

import (
	"log/slog"
	"net/http"

	"github.com/notesapi/notesapi/internal/service"
)

// UserHandler serves user listings.
type UserHandler struct {
	users  *service.UserService
	logger *slog.Logger
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(users *service.UserService, logger *slog.Logger) *UserHandler {
	return &UserHandler{users: users, logger: logger}
}

// List handles GET /users.
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	names, err := h.users.ListUsernames(r.Context())
	if err != nil {
		reportInternal(h.logger, r, "list users failed", err)
		writeError(w, http.StatusInternalServerError, "Could not retrieve users.")
		return
	}
	writeJSON(w, http.StatusOK, names)
}
