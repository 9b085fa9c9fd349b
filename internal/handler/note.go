package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/notesapi/notesapi/internal/auth"
	"github.com/notesapi/notesapi/internal/handler/dto"
	"github.com/notesapi/notesapi/internal/service"
)

// NoteHandler handles HTTP requests for note operations.
// Every route expects auth middleware to have stored the caller's user id.
type NoteHandler struct {
	svc    *service.NoteService
	logger *slog.Logger
}

// NewNoteHandler creates a new NoteHandler.
func NewNoteHandler(svc *service.NoteService, logger *slog.Logger) *NoteHandler {
	return &NoteHandler{
		svc:    svc,
		logger: logger,
	}
}

// List handles GET /notes.
func (h *NoteHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := auth.MustUserIDFromContext(r.Context())

	notes, err := h.svc.ListNotes(r.Context(), userID)
	if err != nil {
		reportInternal(h.logger, r, "list notes failed", err)
		writeError(w, http.StatusInternalServerError, "Could not retrieve notes.")
		return
	}

	if len(notes) == 0 {
		writeError(w, http.StatusNotFound, "No notes found for this user.")
		return
	}

	writeJSON(w, http.StatusOK, dto.ToNoteResponses(notes))
}

// Create handles POST /notes.
func (h *NoteHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := auth.MustUserIDFromContext(r.Context())

	var req dto.CreateNoteRequest
	if err := decodeJSON(r, &req); err != nil {
		writeDecodeError(w, err)
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	note, err := h.svc.CreateNote(r.Context(), userID, req.ToInput())
	if err != nil {
		// An unknown user here means the token outlived its user.
		reportInternal(h.logger, r, "create note failed", err)
		writeError(w, http.StatusInternalServerError, "Could not create note.")
		return
	}

	h.logger.Info("note_created",
		slog.Int64("note_id", note.ID),
		slog.Int64("user_id", userID),
	)

	writeJSON(w, http.StatusCreated, dto.ToNoteResponse(note))
}

// Update handles PUT /notes/{note_id}.
func (h *NoteHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID := auth.MustUserIDFromContext(r.Context())

	noteID, ok := noteIDParam(w, r)
	if !ok {
		return
	}

	var req dto.UpdateNoteRequest
	if err := decodeJSON(r, &req); err != nil {
		writeDecodeError(w, err)
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	note, err := h.svc.UpdateNote(r.Context(), userID, noteID, req.ToPatch())
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			writeError(w, http.StatusUnauthorized, "Invalid user token.")
		case errors.Is(err, service.ErrNoteNotFound):
			writeError(w, http.StatusBadRequest, fmt.Sprintf("Note with id %d not found.", noteID))
		default:
			reportInternal(h.logger, r, "update note failed", err)
			writeError(w, http.StatusInternalServerError, "Could not update note due to a server error.")
		}
		return
	}

	writeJSON(w, http.StatusOK, dto.ToNoteResponse(note))
}

// Delete handles DELETE /notes/{note_id}.
func (h *NoteHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := auth.MustUserIDFromContext(r.Context())

	noteID, ok := noteIDParam(w, r)
	if !ok {
		return
	}

	if err := h.svc.DeleteNote(r.Context(), userID, noteID); err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			writeError(w, http.StatusUnauthorized, "Invalid user token.")
		case errors.Is(err, service.ErrNoteNotFound):
			writeError(w, http.StatusNotFound, fmt.Sprintf("Note with id %d not found or access denied.", noteID))
		default:
			reportInternal(h.logger, r, "delete note failed", err)
			writeError(w, http.StatusInternalServerError, "Could not delete note due to a server error.")
		}
		return
	}

	h.logger.Info("note_deleted",
		slog.Int64("note_id", noteID),
		slog.Int64("user_id", userID),
	)

	w.WriteHeader(http.StatusNoContent)
}

// noteIDParam parses the {note_id} path segment, writing 422 on failure.
func noteIDParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "note_id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "note_id must be an integer")
		return 0, false
	}
	return id, true
}
