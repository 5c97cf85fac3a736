package learning

import "sync"

// Store persists learning records keyed by an opaque caller-supplied
// identity (typically a user or workspace ID). The engine never assumes a
// storage medium; implementations live in infrastructure.
type Store interface {
	// Load returns the record for an identity, or nil when none exists
	// yet.
	Load(identity string) (*Record, error)

	// Save writes the record for an identity.
	Save(identity string, record *Record) error
}

// Tracker wraps a Store with the load-merge-save lifecycle around each
// accept/deny event. Events are atomic: the mutex guarantees at most one
// writer, and a failed save leaves the stored record untouched.
type Tracker struct {
	store    Store
	identity string
	mu       sync.Mutex
}

// NewTracker creates a tracker for one identity.
func NewTracker(store Store, identity string) *Tracker {
	return &Tracker{store: store, identity: identity}
}

// Current loads the identity's record, returning a fresh empty record when
// none has been saved yet.
func (t *Tracker) Current() (*Record, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.load()
}

// Accept records an accepted suggestion.
func (t *Tracker) Accept(ev Event) error {
	ev.Accepted = true
	return t.apply(ev)
}

// Deny records a denied suggestion.
func (t *Tracker) Deny(ev Event) error {
	ev.Accepted = false
	return t.apply(ev)
}

func (t *Tracker) apply(ev Event) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	record, err := t.load()
	if err != nil {
		return err
	}
	record.Apply(ev)
	return t.store.Save(t.identity, record)
}

func (t *Tracker) load() (*Record, error) {
	record, err := t.store.Load(t.identity)
	if err != nil {
		return nil, err
	}
	if record == nil {
		record = NewRecord()
	}
	return record, nil
}
