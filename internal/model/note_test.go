package model

import (
	"strings"
	"testing"
	"time"
)

func strPtr(s string) *string { return &s }

func TestNotePatch_IsEmpty(t *testing.T) {
	t.Parallel()

	if !(NotePatch{}).IsEmpty() {
		t.Error("zero patch should be empty")
	}
	if (NotePatch{Tags: Null()}).IsEmpty() {
		t.Error("patch with explicit null should not be empty")
	}
	if (NotePatch{Title: Some("x")}).IsEmpty() {
		t.Error("patch with title should not be empty")
	}
}

func TestNotePatch_Apply(t *testing.T) {
	t.Parallel()

	base := Note{
		ID:          1,
		UserID:      2,
		Title:       "Old",
		Description: strPtr("keep me"),
		Tags:        strPtr("a,b"),
	}

	got := NotePatch{Title: Some("New"), Tags: Null()}.Apply(base)

	if got.Title != "New" {
		t.Errorf("Title = %s, want New", got.Title)
	}
	if got.Description == nil || *got.Description != "keep me" {
		t.Errorf("Description should be unchanged, got %v", got.Description)
	}
	if got.Tags != nil {
		t.Errorf("Tags should be cleared, got %v", *got.Tags)
	}
	if base.Title != "Old" {
		t.Error("Apply must not modify the original note")
	}
}

func TestNote_OwnedBy(t *testing.T) {
	t.Parallel()

	n := &Note{UserID: 3}
	if !n.OwnedBy(3) || n.OwnedBy(4) {
		t.Error("OwnedBy returned wrong result")
	}
}

func TestValidTitle(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		title string
		want  bool
	}{
		{"empty", "", false},
		{"one char", "a", true},
		{"at limit", strings.Repeat("a", MaxNoteTitleLength), true},
		{"over limit", strings.Repeat("a", MaxNoteTitleLength+1), false},
		{"multibyte at limit", strings.Repeat("é", MaxNoteTitleLength), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValidTitle(tt.title); got != tt.want {
				t.Errorf("ValidTitle(%d chars) = %v, want %v", len(tt.title), got, tt.want)
			}
		})
	}
}

func TestValidTags(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		tags string
		want bool
	}{
		{"empty", "", true},
		{"at limit", strings.Repeat("t", MaxNoteTagsLength), true},
		{"over limit", strings.Repeat("t", MaxNoteTagsLength+1), false},
		{"multibyte at limit", strings.Repeat("é", MaxNoteTagsLength), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValidTags(tt.tags); got != tt.want {
				t.Errorf("ValidTags(%d chars) = %v, want %v", len(tt.tags), got, tt.want)
			}
		})
	}
}

func TestCachedUser_RoundTrip(t *testing.T) {
	t.Parallel()

	u := &User{ID: 5, Username: "alice", CreatedAt: time.Date(2024, 1, 2, 3, 4, 5, 6, time.UTC)}
	got, ok := u.ToCachedUser().ToUser(5)
	if !ok {
		t.Fatal("ToUser reported incomplete entry")
	}
	if got.ID != 5 || got.Username != "alice" || !got.CreatedAt.Equal(u.CreatedAt) {
		t.Errorf("round trip mismatch: %+v", got)
	}

	if _, ok := (&CachedUser{}).ToUser(5); ok {
		t.Error("empty cache entry should be reported incomplete")
	}
}
