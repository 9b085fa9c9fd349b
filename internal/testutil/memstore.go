package testutil

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/notesapi/notesapi/internal/model"
	"github.com/notesapi/notesapi/internal/repository"
)

// MemoryStore is an in-memory stand-in for repository.Repository.
// It returns the same sentinel errors and orderings as the Postgres gateway.
type MemoryStore struct {
	mu         sync.Mutex
	users      map[int64]*model.User
	notes      map[int64]*model.Note
	nextUserID int64
	nextNoteID int64
	clock      time.Time
	writes     int

	// Err, when set, is returned by every operation.
	Err error
	// BeforeWrite, when set, runs before UpdateNote and DeleteNote touch the
	// store. Tests use it to simulate a concurrent delete.
	BeforeWrite func(noteID int64)
	// AfterFind, when set, runs after FindUserByUsername reports a miss.
	// Tests use it to widen the get-or-create race window.
	AfterFind func(username string)
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users: make(map[int64]*model.User),
		notes: make(map[int64]*model.Note),
		clock: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

// Writes reports how many mutating calls reached the store.
func (m *MemoryStore) Writes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes
}

// UserCount reports the number of stored users.
func (m *MemoryStore) UserCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.users)
}

// RemoveNote deletes a note directly, bypassing write accounting and hooks.
func (m *MemoryStore) RemoveNote(noteID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.notes, noteID)
}

// tick returns a strictly increasing timestamp. Callers hold mu.
func (m *MemoryStore) tick() time.Time {
	m.clock = m.clock.Add(time.Second)
	return m.clock
}

// FindUserByID implements service.UserStore.
func (m *MemoryStore) FindUserByID(ctx context.Context, id int64) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	u, ok := m.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

// FindUserByUsername implements service.UserStore.
func (m *MemoryStore) FindUserByUsername(ctx context.Context, username string) (*model.User, error) {
	m.mu.Lock()
	if m.Err != nil {
		m.mu.Unlock()
		return nil, m.Err
	}
	for _, u := range m.users {
		if u.Username == username {
			cp := *u
			m.mu.Unlock()
			return &cp, nil
		}
	}
	hook := m.AfterFind
	m.mu.Unlock()

	if hook != nil {
		hook(username)
	}
	return nil, repository.ErrUserNotFound
}

// InsertUser implements service.UserStore.
func (m *MemoryStore) InsertUser(ctx context.Context, username string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	m.writes++
	for _, u := range m.users {
		if u.Username == username {
			return nil, repository.ErrUsernameExists
		}
	}
	m.nextUserID++
	u := &model.User{ID: m.nextUserID, Username: username, CreatedAt: m.tick()}
	m.users[u.ID] = u
	cp := *u
	return &cp, nil
}

// ListUsernames implements service.UserStore.
func (m *MemoryStore) ListUsernames(ctx context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	names := make([]string, 0, len(m.users))
	for _, u := range m.users {
		names = append(names, u.Username)
	}
	sort.Strings(names)
	return names, nil
}

// InsertNote implements service.NoteStore.
func (m *MemoryStore) InsertNote(ctx context.Context, userID int64, in model.NoteInput) (*model.Note, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	m.writes++
	m.nextNoteID++
	n := &model.Note{
		ID:          m.nextNoteID,
		UserID:      userID,
		Title:       in.Title,
		Description: in.Description,
		Tags:        in.Tags,
		CreatedAt:   m.tick(),
	}
	m.notes[n.ID] = n
	cp := *n
	return &cp, nil
}

// FindNoteByID implements service.NoteStore.
func (m *MemoryStore) FindNoteByID(ctx context.Context, noteID int64) (*model.Note, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	n, ok := m.notes[noteID]
	if !ok {
		return nil, repository.ErrNoteNotFound
	}
	cp := *n
	return &cp, nil
}

// FindNotesByUserID implements service.NoteStore.
func (m *MemoryStore) FindNotesByUserID(ctx context.Context, userID int64) ([]*model.Note, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	notes := []*model.Note{}
	for _, n := range m.notes {
		if n.UserID == userID {
			cp := *n
			notes = append(notes, &cp)
		}
	}
	sort.Slice(notes, func(i, j int) bool {
		if !notes[i].CreatedAt.Equal(notes[j].CreatedAt) {
			return notes[i].CreatedAt.After(notes[j].CreatedAt)
		}
		return notes[i].ID > notes[j].ID
	})
	return notes, nil
}

// UpdateNote implements service.NoteStore.
func (m *MemoryStore) UpdateNote(ctx context.Context, noteID int64, patch model.NotePatch) (*model.Note, error) {
	if hook := m.beforeWrite(); hook != nil {
		hook(noteID)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	m.writes++
	n, ok := m.notes[noteID]
	if !ok {
		return nil, repository.ErrNoteNotFound
	}
	updated := patch.Apply(*n)
	m.notes[noteID] = &updated
	cp := updated
	return &cp, nil
}

// DeleteNote implements service.NoteStore.
func (m *MemoryStore) DeleteNote(ctx context.Context, noteID int64) (bool, error) {
	if hook := m.beforeWrite(); hook != nil {
		hook(noteID)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return false, m.Err
	}
	m.writes++
	if _, ok := m.notes[noteID]; !ok {
		return false, nil
	}
	delete(m.notes, noteID)
	return true, nil
}

func (m *MemoryStore) beforeWrite() func(int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.BeforeWrite
}
