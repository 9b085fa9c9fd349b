// Package service provides business logic for the application.
package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/notesapi/notesapi/internal/model"
)

// Service errors. Each operation documents which of these it can return.
var (
	ErrInvalidUsername = errors.New("username cannot be empty")
	ErrUserNotFound    = errors.New("user not found")
	ErrNoteNotFound    = errors.New("note not found")
	ErrStorage         = errors.New("storage failure")

	// ErrNoteVanished is wrapped in a StorageError when a note passed the
	// ownership check but was gone by the time it was written.
	ErrNoteVanished = errors.New("note disappeared after ownership check")
)

// StorageError reports an unexpected persistence failure.
// errors.Is(err, ErrStorage) matches any StorageError.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// Is makes every StorageError match ErrStorage.
func (e *StorageError) Is(target error) bool {
	return target == ErrStorage
}

func storageError(op string, err error) error {
	return &StorageError{Op: op, Err: err}
}

// UserStore is the persistence surface for users.
type UserStore interface {
	FindUserByID(ctx context.Context, id int64) (*model.User, error)
	FindUserByUsername(ctx context.Context, username string) (*model.User, error)
	InsertUser(ctx context.Context, username string) (*model.User, error)
	ListUsernames(ctx context.Context) ([]string, error)
}

// NoteStore is the persistence surface for notes. It does not check ownership.
type NoteStore interface {
	InsertNote(ctx context.Context, userID int64, in model.NoteInput) (*model.Note, error)
	FindNoteByID(ctx context.Context, noteID int64) (*model.Note, error)
	FindNotesByUserID(ctx context.Context, userID int64) ([]*model.Note, error)
	UpdateNote(ctx context.Context, noteID int64, patch model.NotePatch) (*model.Note, error)
	DeleteNote(ctx context.Context, noteID int64) (bool, error)
}

// UserCache is an optional cache of users by id. It never decides that a
// user is missing; the UserStore does.
// GetUser returns cache.ErrCacheMiss (or any error) when the entry is unusable.
type UserCache interface {
	GetUser(ctx context.Context, id int64) (*model.User, error)
	SetUser(ctx context.Context, user *model.User) error
	DeleteUser(ctx context.Context, id int64) error
}
