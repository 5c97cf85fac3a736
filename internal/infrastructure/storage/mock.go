package storage

import (
	"sync"

	"github.com/eshaffer321/bankrecon/internal/domain/learning"
)

// MockStore is an in-memory learning.Store for testing.
// It is safe for concurrent use and records call counts for assertions.
type MockStore struct {
	mu      sync.Mutex
	records map[string]*learning.Record

	// Call tracking
	LoadCalls int
	SaveCalls int

	// Error injection
	LoadErr error
	SaveErr error
}

// Compile-time check that MockStore implements learning.Store
var _ learning.Store = (*MockStore)(nil)

// NewMockStore creates a new mock store
func NewMockStore() *MockStore {
	return &MockStore{
		records: make(map[string]*learning.Record),
	}
}

// Load returns the stored record for an identity, or nil when none exists
func (m *MockStore) Load(identity string) (*learning.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.LoadCalls++
	if m.LoadErr != nil {
		return nil, m.LoadErr
	}
	return m.records[identity], nil
}

// Save stores the record for an identity
func (m *MockStore) Save(identity string, record *learning.Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.SaveCalls++
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.records[identity] = record
	return nil
}
