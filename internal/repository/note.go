package repository

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/notesapi/notesapi/internal/model"
)

// Common errors for note repository operations.
var (
	ErrNoteNotFound = errors.New("note not found")
)

const noteColumns = "note_id, user_id, note_title, note_description, note_tags, created_at"

// InsertNote stores a new note for userID and returns the stored row.
func (r *Repository) InsertNote(ctx context.Context, userID int64, in model.NoteInput) (*model.Note, error) {
	query := `
		INSERT INTO notes (user_id, note_title, note_description, note_tags)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + noteColumns

	var note *model.Note
	err := r.inTx(ctx, func(tx pgx.Tx) error {
		var err error
		note, err = scanNote(tx.QueryRow(ctx, query, userID, in.Title, in.Description, in.Tags))
		return err
	})

	if err != nil {
		return nil, fmt.Errorf("failed to insert note: %w", err)
	}

	return note, nil
}

// FindNoteByID retrieves a note regardless of owner.
func (r *Repository) FindNoteByID(ctx context.Context, noteID int64) (*model.Note, error) {
	query := `SELECT ` + noteColumns + ` FROM notes WHERE note_id = $1`

	var note *model.Note
	err := r.inTx(ctx, func(tx pgx.Tx) error {
		var err error
		note, err = scanNote(tx.QueryRow(ctx, query, noteID))
		return err
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNoteNotFound
		}
		return nil, fmt.Errorf("failed to get note by ID: %w", err)
	}

	return note, nil
}

// FindNotesByUserID returns the user's notes, newest first.
func (r *Repository) FindNotesByUserID(ctx context.Context, userID int64) ([]*model.Note, error) {
	query := `
		SELECT ` + noteColumns + `
		FROM notes
		WHERE user_id = $1
		ORDER BY created_at DESC, note_id DESC`

	notes := []*model.Note{}
	err := r.inTx(ctx, func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx, query, userID)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			note, err := scanNote(rows)
			if err != nil {
				return err
			}
			notes = append(notes, note)
		}
		return rows.Err()
	})

	if err != nil {
		return nil, fmt.Errorf("failed to list notes: %w", err)
	}

	return notes, nil
}

// UpdateNote writes only the fields set in patch and returns the updated row.
// Returns ErrNoteNotFound if no row matched.
func (r *Repository) UpdateNote(ctx context.Context, noteID int64, patch model.NotePatch) (*model.Note, error) {
	if patch.IsEmpty() {
		return nil, errors.New("update note: empty patch")
	}

	b := psql.Update("notes").Where(sq.Eq{"note_id": noteID}).Suffix("RETURNING " + noteColumns)
	if patch.Title.Set {
		b = b.Set("note_title", patch.Title.Value)
	}
	if patch.Description.Set {
		b = b.Set("note_description", patch.Description.Value)
	}
	if patch.Tags.Set {
		b = b.Set("note_tags", patch.Tags.Value)
	}

	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build note update: %w", err)
	}

	var note *model.Note
	err = r.inTx(ctx, func(tx pgx.Tx) error {
		var err error
		note, err = scanNote(tx.QueryRow(ctx, query, args...))
		return err
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNoteNotFound
		}
		return nil, fmt.Errorf("failed to update note: %w", err)
	}

	return note, nil
}

// DeleteNote removes a note. Reports whether a row was deleted.
func (r *Repository) DeleteNote(ctx context.Context, noteID int64) (bool, error) {
	query := `DELETE FROM notes WHERE note_id = $1`

	var deleted bool
	err := r.inTx(ctx, func(tx pgx.Tx) error {
		result, err := tx.Exec(ctx, query, noteID)
		if err != nil {
			return err
		}
		deleted = result.RowsAffected() > 0
		return nil
	})

	if err != nil {
		return false, fmt.Errorf("failed to delete note: %w", err)
	}

	return deleted, nil
}

func scanNote(row pgx.Row) (*model.Note, error) {
	var note model.Note
	err := row.Scan(
		&note.ID,
		&note.UserID,
		&note.Title,
		&note.Description,
		&note.Tags,
		&note.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &note, nil
}
