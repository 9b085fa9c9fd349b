// Package handler provides HTTP request handlers.
package handler

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/getsentry/sentry-go"

	"github.com/notesapi/notesapi/internal/handler/dto"
	"github.com/notesapi/notesapi/internal/middleware"
)

// Version is reported by the root endpoint.
const Version = "1.0.0"

// Handler serves endpoints that have no dependencies.
type Handler struct{}

// New creates a new Handler instance.
func New() *Handler {
	return &Handler{}
}

// Hello reports the service name and version.
// GET /
func (h *Handler) Hello(w http.ResponseWriter, r *http.Request) {
	response := map[string]string{
		"message": "Notes API",
		"version": Version,
	}
	writeJSON(w, http.StatusOK, response)
}

// NotFound handles 404 responses.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusNotFound, "Not Found")
}

// MethodNotAllowed handles 405 responses.
func (h *Handler) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusMethodNotAllowed, "Method Not Allowed")
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// writeError writes an error response with a human-readable detail.
func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, dto.ErrorResponse{Detail: detail})
}

var errTrailingData = errors.New("request body must contain a single JSON value")

// decodeJSON decodes the request body into dst. The body must hold exactly
// one JSON value. Bodies over the configured size limit surface as
// *http.MaxBytesError.
func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		return err
	}

	var extra json.RawMessage
	switch err := dec.Decode(&extra); {
	case errors.Is(err, io.EOF):
		return nil
	case err != nil:
		return err
	default:
		return errTrailingData
	}
}

// writeDecodeError maps a body decode failure to 413 or 422.
func writeDecodeError(w http.ResponseWriter, err error) {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		writeError(w, http.StatusRequestEntityTooLarge, "Request body too large")
		return
	}
	writeError(w, http.StatusUnprocessableEntity, "Invalid request body")
}

// reportInternal logs an unexpected failure and forwards it to Sentry.
// sentry.CaptureException is a no-op when Sentry is not initialized.
func reportInternal(logger *slog.Logger, r *http.Request, msg string, err error) {
	logger.Error(msg,
		slog.String("error", err.Error()),
		slog.String("endpoint", r.Method+" "+r.URL.Path),
		slog.String("request_id", middleware.GetRequestID(r.Context())),
	)
	sentry.CaptureException(err)
}
