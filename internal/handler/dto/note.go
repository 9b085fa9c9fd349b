// Package dto provides Data Transfer Objects for API requests and responses.
package dto

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/notesapi/notesapi/internal/model"
)

// Validation errors returned by request Validate methods.
var (
	ErrUsernameRequired = errors.New("username is required")
	ErrUsernameTooLong  = fmt.Errorf("username must be at most %d characters", model.MaxUsernameLength)
	ErrTitleRequired    = errors.New("note_title is required")
	ErrTitleInvalid     = fmt.Errorf("note_title must be between 1 and %d characters", model.MaxNoteTitleLength)
	ErrTagsTooLong      = fmt.Errorf("note_tags must be at most %d characters", model.MaxNoteTagsLength)
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Detail string `json:"detail"`
}

// LoginRequest represents the request body for POST /login.
type LoginRequest struct {
	Username *string `json:"username"`
}

// Validate checks the body shape. Blank usernames are left to the service.
func (r *LoginRequest) Validate() error {
	if r.Username == nil {
		return ErrUsernameRequired
	}
	if utf8.RuneCountInString(strings.TrimSpace(*r.Username)) > model.MaxUsernameLength {
		return ErrUsernameTooLong
	}
	return nil
}

// LoginResponse carries the issued token.
type LoginResponse struct {
	Token string `json:"token"`
}

// CreateNoteRequest represents the request body for POST /notes.
type CreateNoteRequest struct {
	NoteTitle       *string `json:"note_title"`
	NoteDescription *string `json:"note_description"`
	NoteTags        *string `json:"note_tags"`
}

// Validate checks required fields and lengths.
func (r *CreateNoteRequest) Validate() error {
	if r.NoteTitle == nil {
		return ErrTitleRequired
	}
	if !model.ValidTitle(*r.NoteTitle) {
		return ErrTitleInvalid
	}
	if r.NoteTags != nil && !model.ValidTags(*r.NoteTags) {
		return ErrTagsTooLong
	}
	return nil
}

// ToInput converts the request to a service input.
func (r *CreateNoteRequest) ToInput() model.NoteInput {
	return model.NoteInput{
		Title:       *r.NoteTitle,
		Description: r.NoteDescription,
		Tags:        r.NoteTags,
	}
}

// UpdateNoteRequest represents the request body for PUT /notes/{note_id}.
// A field that is absent is left unchanged; a field sent as null is cleared.
type UpdateNoteRequest struct {
	NoteTitle       model.OptionalString
	NoteDescription model.OptionalString
	NoteTags        model.OptionalString
}

var jsonNull = []byte("null")

// UnmarshalJSON records which fields were present in the body.
func (r *UpdateNoteRequest) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == nil {
		return errors.New("request body must be a JSON object")
	}

	fields := []struct {
		name string
		dst  *model.OptionalString
	}{
		{"note_title", &r.NoteTitle},
		{"note_description", &r.NoteDescription},
		{"note_tags", &r.NoteTags},
	}

	for _, f := range fields {
		msg, ok := raw[f.name]
		if !ok {
			continue
		}
		f.dst.Set = true
		if bytes.Equal(bytes.TrimSpace(msg), jsonNull) {
			continue
		}
		var s string
		if err := json.Unmarshal(msg, &s); err != nil {
			return fmt.Errorf("%s must be a string: %w", f.name, err)
		}
		f.dst.Value = &s
	}

	return nil
}

// Validate checks supplied fields. A title cannot be cleared.
func (r *UpdateNoteRequest) Validate() error {
	if r.NoteTitle.Set {
		if r.NoteTitle.Value == nil {
			return ErrTitleRequired
		}
		if !model.ValidTitle(*r.NoteTitle.Value) {
			return ErrTitleInvalid
		}
	}
	if r.NoteTags.Value != nil && !model.ValidTags(*r.NoteTags.Value) {
		return ErrTagsTooLong
	}
	return nil
}

// ToPatch converts the request to a service patch.
func (r *UpdateNoteRequest) ToPatch() model.NotePatch {
	return model.NotePatch{
		Title:       r.NoteTitle,
		Description: r.NoteDescription,
		Tags:        r.NoteTags,
	}
}

// NoteResponse represents a note in API responses.
type NoteResponse struct {
	NoteID          int64     `json:"note_id"`
	NoteTitle       string    `json:"note_title"`
	NoteDescription *string   `json:"note_description"`
	NoteTags        *string   `json:"note_tags"`
	CreatedAt       time.Time `json:"created_at"`
}

// ToNoteResponse converts a model.Note to a NoteResponse.
func ToNoteResponse(n *model.Note) NoteResponse {
	return NoteResponse{
		NoteID:          n.ID,
		NoteTitle:       n.Title,
		NoteDescription: n.Description,
		NoteTags:        n.Tags,
		CreatedAt:       n.CreatedAt,
	}
}

// ToNoteResponses converts a slice of notes, never returning nil.
func ToNoteResponses(notes []*model.Note) []NoteResponse {
	out := make([]NoteResponse, 0, len(notes))
	for _, n := range notes {
		out = append(out, ToNoteResponse(n))
	}
	return out
}
