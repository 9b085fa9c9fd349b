package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/notesapi/notesapi/internal/auth"
	"github.com/notesapi/notesapi/internal/handler/dto"
	"github.com/notesapi/notesapi/internal/service"
)

// AuthHandler issues tokens.
type AuthHandler struct {
	users  *service.UserService
	codec  *auth.Codec
	logger *slog.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(users *service.UserService, codec *auth.Codec, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		users:  users,
		codec:  codec,
		logger: logger,
	}
}

// Login handles POST /login. Unknown usernames are provisioned on first use.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeDecodeError(w, err)
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	user, err := h.users.GetOrCreateUser(r.Context(), *req.Username)
	if err != nil {
		if errors.Is(err, service.ErrInvalidUsername) {
			writeError(w, http.StatusBadRequest, "Username cannot be empty")
			return
		}
		reportInternal(h.logger, r, "login failed", err)
		writeError(w, http.StatusInternalServerError, "Could not process user login or creation.")
		return
	}

	h.logger.Info("user_login",
		slog.Int64("user_id", user.ID),
	)

	writeJSON(w, http.StatusOK, dto.LoginResponse{Token: h.codec.Encode(user.ID)})
}
