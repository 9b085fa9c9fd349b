// Package metrics provides lightweight hooks for instrumentation.
package metrics

// Login outcomes recorded by IncLogin.
const (
	LoginExisting = "existing" // username already present
	LoginCreated  = "created"  // new user inserted
	LoginRace     = "race"     // insert lost a concurrent race and re-read the winner
)

// Recorder captures metric events for the application.
// Implementations can expose these to Prometheus, StatsD, etc.
type Recorder interface {
	// User metrics
	IncLogin(outcome string)
	IncUserCacheHit()
	IncUserCacheMiss()

	// Note management metrics
	IncNoteCreated()
	IncNoteUpdated()
	IncNoteDeleted()
	IncNoteAccessDenied()
}

// Snapshotter exposes a snapshot of current metrics.
type Snapshotter interface {
	Snapshot() Snapshot
}
