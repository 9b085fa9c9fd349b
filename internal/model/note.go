package model

import (
	"time"
	"unicode/utf8"
)

// Column widths of notes.note_title and notes.note_tags.
const (
	MaxNoteTitleLength = 255
	MaxNoteTagsLength  = 255
)

// Note is a user-owned record with a title and optional description and tags.
type Note struct {
	ID          int64     `json:"note_id"`
	UserID      int64     `json:"-"`
	Title       string    `json:"note_title"`
	Description *string   `json:"note_description"`
	Tags        *string   `json:"note_tags"`
	CreatedAt   time.Time `json:"created_at"`
}

// OwnedBy reports whether the note belongs to userID.
func (n *Note) OwnedBy(userID int64) bool {
	return n.UserID == userID
}

// NoteInput carries the fields of a new note.
type NoteInput struct {
	Title       string
	Description *string
	Tags        *string
}

// OptionalString is a patch field that distinguishes "not supplied" from
// "supplied as null". Value is nil for an explicit null.
type OptionalString struct {
	Set   bool
	Value *string
}

// Some returns a supplied, non-null OptionalString.
func Some(s string) OptionalString {
	return OptionalString{Set: true, Value: &s}
}

// Null returns a supplied OptionalString that clears the column.
func Null() OptionalString {
	return OptionalString{Set: true}
}

// NotePatch is a partial update. Only fields with Set true are written.
type NotePatch struct {
	Title       OptionalString
	Description OptionalString
	Tags        OptionalString
}

// IsEmpty reports whether the patch supplies no fields.
func (p NotePatch) IsEmpty() bool {
	return !p.Title.Set && !p.Description.Set && !p.Tags.Set
}

// Apply returns a copy of n with the patch applied.
func (p NotePatch) Apply(n Note) Note {
	if p.Title.Set && p.Title.Value != nil {
		n.Title = *p.Title.Value
	}
	if p.Description.Set {
		n.Description = p.Description.Value
	}
	if p.Tags.Set {
		n.Tags = p.Tags.Value
	}
	return n
}

// ValidTitle reports whether s fits the note title column.
func ValidTitle(s string) bool {
	n := utf8.RuneCountInString(s)
	return n >= 1 && n <= MaxNoteTitleLength
}

// ValidTags reports whether s fits the note tags column. Empty is allowed.
func ValidTags(s string) bool {
	return utf8.RuneCountInString(s) <= MaxNoteTagsLength
}
