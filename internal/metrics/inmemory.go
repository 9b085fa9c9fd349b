package metrics

import (
	"sync/atomic"
)

// Snapshot captures current in-memory counters.
type Snapshot struct {
	LoginsExisting    uint64
	LoginsCreated     uint64
	LoginsRace        uint64
	UserCacheHits     uint64
	UserCacheMisses   uint64
	NotesCreated      uint64
	NotesUpdated      uint64
	NotesDeleted      uint64
	NoteAccessDenials uint64
}

// InMemoryRecorder stores metrics in memory. The API server exposes it on /metrics.
type InMemoryRecorder struct {
	loginsExisting    uint64
	loginsCreated     uint64
	loginsRace        uint64
	userCacheHits     uint64
	userCacheMisses   uint64
	notesCreated      uint64
	notesUpdated      uint64
	notesDeleted      uint64
	noteAccessDenials uint64
}

// NewInMemory returns a Recorder that stores counters in memory.
func NewInMemory() *InMemoryRecorder {
	return &InMemoryRecorder{}
}

// Snapshot returns a copy of the counters.
func (m *InMemoryRecorder) Snapshot() Snapshot {
	return Snapshot{
		LoginsExisting:    atomic.LoadUint64(&m.loginsExisting),
		LoginsCreated:     atomic.LoadUint64(&m.loginsCreated),
		LoginsRace:        atomic.LoadUint64(&m.loginsRace),
		UserCacheHits:     atomic.LoadUint64(&m.userCacheHits),
		UserCacheMisses:   atomic.LoadUint64(&m.userCacheMisses),
		NotesCreated:      atomic.LoadUint64(&m.notesCreated),
		NotesUpdated:      atomic.LoadUint64(&m.notesUpdated),
		NotesDeleted:      atomic.LoadUint64(&m.notesDeleted),
		NoteAccessDenials: atomic.LoadUint64(&m.noteAccessDenials),
	}
}

// IncLogin increments the counter for a login outcome. Unknown outcomes are ignored.
func (m *InMemoryRecorder) IncLogin(outcome string) {
	switch outcome {
	case LoginExisting:
		atomic.AddUint64(&m.loginsExisting, 1)
	case LoginCreated:
		atomic.AddUint64(&m.loginsCreated, 1)
	case LoginRace:
		atomic.AddUint64(&m.loginsRace, 1)
	}
}

// IncUserCacheHit increments cache hit counter.
func (m *InMemoryRecorder) IncUserCacheHit() {
	atomic.AddUint64(&m.userCacheHits, 1)
}

// IncUserCacheMiss increments cache miss counter.
func (m *InMemoryRecorder) IncUserCacheMiss() {
	atomic.AddUint64(&m.userCacheMisses, 1)
}

// IncNoteCreated increments note created counter.
func (m *InMemoryRecorder) IncNoteCreated() {
	atomic.AddUint64(&m.notesCreated, 1)
}

// IncNoteUpdated increments note updated counter.
func (m *InMemoryRecorder) IncNoteUpdated() {
	atomic.AddUint64(&m.notesUpdated, 1)
}

// IncNoteDeleted increments note deleted counter.
func (m *InMemoryRecorder) IncNoteDeleted() {
	atomic.AddUint64(&m.notesDeleted, 1)
}

// IncNoteAccessDenied increments the counter of rejected foreign-note access.
func (m *InMemoryRecorder) IncNoteAccessDenied() {
	atomic.AddUint64(&m.noteAccessDenials, 1)
}
