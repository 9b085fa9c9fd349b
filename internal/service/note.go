package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/notesapi/notesapi/internal/metrics"
	"github.com/notesapi/notesapi/internal/model"
	"github.com/notesapi/notesapi/internal/repository"
)

// NoteService enforces note ownership on top of NoteStore.
type NoteService struct {
	notes   NoteStore
	users   UserStore
	cache   UserCache
	metrics metrics.Recorder
	logger  *slog.Logger
}

// NewNoteService creates a new NoteService. userCache may be nil.
func NewNoteService(notes NoteStore, users UserStore, userCache UserCache, recorder metrics.Recorder, logger *slog.Logger) *NoteService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &NoteService{
		notes:   notes,
		users:   users,
		cache:   userCache,
		metrics: recorder,
		logger:  logger,
	}
}

// CreateNote stores a note owned by userID.
//
// Returns ErrUserNotFound or a StorageError.
func (s *NoteService) CreateNote(ctx context.Context, userID int64, in model.NoteInput) (*model.Note, error) {
	if _, err := s.requireStoredUser(ctx, userID, "create"); err != nil {
		return nil, err
	}

	note, err := s.notes.InsertNote(ctx, userID, in)
	if err != nil {
		return nil, storageError("insert note", err)
	}

	s.metrics.IncNoteCreated()
	return note, nil
}

// ListNotes returns the user's notes, newest first. An unknown user simply
// has no notes.
//
// Returns a StorageError on failure.
func (s *NoteService) ListNotes(ctx context.Context, userID int64) ([]*model.Note, error) {
	notes, err := s.notes.FindNotesByUserID(ctx, userID)
	if err != nil {
		return nil, storageError("list notes", err)
	}
	if notes == nil {
		notes = []*model.Note{}
	}
	return notes, nil
}

// UpdateNote applies patch to a note owned by userID. An empty patch returns
// the current note without writing.
//
// Returns ErrUserNotFound, ErrNoteNotFound (absent or owned by someone else)
// or a StorageError.
func (s *NoteService) UpdateNote(ctx context.Context, userID, noteID int64, patch model.NotePatch) (*model.Note, error) {
	fromCache, err := s.requireUser(ctx, userID, "update")
	if err != nil {
		return nil, err
	}

	note, err := s.requireOwnedNote(ctx, userID, noteID, "update")
	if err != nil {
		return nil, s.confirmUser(ctx, userID, fromCache, err, "update")
	}

	if patch.IsEmpty() {
		return note, nil
	}

	updated, err := s.notes.UpdateNote(ctx, noteID, patch)
	if err != nil {
		if errors.Is(err, repository.ErrNoteNotFound) {
			return nil, storageError("update note", ErrNoteVanished)
		}
		return nil, storageError("update note", err)
	}

	s.metrics.IncNoteUpdated()
	return updated, nil
}

// DeleteNote removes a note owned by userID.
//
// Returns ErrUserNotFound, ErrNoteNotFound (absent or owned by someone else)
// or a StorageError.
func (s *NoteService) DeleteNote(ctx context.Context, userID, noteID int64) error {
	fromCache, err := s.requireUser(ctx, userID, "delete")
	if err != nil {
		return err
	}

	if _, err := s.requireOwnedNote(ctx, userID, noteID, "delete"); err != nil {
		return s.confirmUser(ctx, userID, fromCache, err, "delete")
	}

	deleted, err := s.notes.DeleteNote(ctx, noteID)
	if err != nil {
		return storageError("delete note", err)
	}
	if !deleted {
		return storageError("delete note", ErrNoteVanished)
	}

	s.metrics.IncNoteDeleted()
	return nil
}

// requireUser is the user gate for update and delete. A cache hit is
// accepted provisionally and reported through fromCache; see confirmUser.
func (s *NoteService) requireUser(ctx context.Context, userID int64, op string) (fromCache bool, err error) {
	if _, ok := cachedUser(ctx, s.cache, s.metrics, s.logger, userID); ok {
		return true, nil
	}
	_, err = s.requireStoredUser(ctx, userID, op)
	return false, err
}

func (s *NoteService) requireStoredUser(ctx context.Context, userID int64, op string) (*model.User, error) {
	user, err := storedUser(ctx, s.users, s.cache, s.logger, userID)
	if errors.Is(err, ErrUserNotFound) {
		s.logger.Warn("note operation for unknown user",
			slog.String("op", op),
			slog.Int64("user_id", userID),
		)
	}
	return user, err
}

// confirmUser re-checks the store before a note-gate failure is returned
// for a user that was only vouched for by the cache. Finding an owned note
// needs no re-check: notes cascade with their user.
func (s *NoteService) confirmUser(ctx context.Context, userID int64, fromCache bool, noteErr error, op string) error {
	if !fromCache || !errors.Is(noteErr, ErrNoteNotFound) {
		return noteErr
	}
	if _, err := s.requireStoredUser(ctx, userID, op); err != nil {
		return err
	}
	return noteErr
}

// requireOwnedNote collapses "missing" and "owned by another user" into
// ErrNoteNotFound so callers cannot probe for other users' note ids.
func (s *NoteService) requireOwnedNote(ctx context.Context, userID, noteID int64, op string) (*model.Note, error) {
	note, err := s.notes.FindNoteByID(ctx, noteID)
	if err != nil {
		if errors.Is(err, repository.ErrNoteNotFound) {
			return nil, ErrNoteNotFound
		}
		return nil, storageError("find note", err)
	}

	if !note.OwnedBy(userID) {
		s.metrics.IncNoteAccessDenied()
		s.logger.Warn("note access denied",
			slog.String("op", op),
			slog.Int64("user_id", userID),
			slog.Int64("note_id", noteID),
		)
		return nil, ErrNoteNotFound
	}

	return note, nil
}
