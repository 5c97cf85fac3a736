package storage

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eshaffer321/bankrecon/internal/domain/learning"
)

func newTestStorage(t *testing.T) *Storage {
	t.Helper()
	s, err := NewStorage(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestStorage_LoadMissingRecord(t *testing.T) {
	s := newTestStorage(t)

	record, err := s.Load("nobody")
	require.NoError(t, err)
	assert.Nil(t, record)
}

func TestStorage_SaveAndLoadRoundTrip(t *testing.T) {
	s := newTestStorage(t)

	record := learning.NewRecord()
	record.Apply(learning.Event{
		Timestamp:       time.Now().UTC(),
		Accepted:        true,
		BankDescription: "CHECK 4412 ACME SUPPLY",
		GLAccount:       "20-4412",
		GLDescription:   "Acme supply payment",
		Amount:          decimal.NewFromInt(1250),
	})
	require.NoError(t, s.Save("workspace-1", record))

	loaded, err := s.Load("workspace-1")
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, record.DescAccount, loaded.DescAccount)
	assert.Len(t, loaded.Feedback, 1)
}

func TestStorage_SaveUpserts(t *testing.T) {
	s := newTestStorage(t)

	first := learning.NewRecord()
	require.NoError(t, s.Save("workspace-1", first))

	second := learning.NewRecord()
	second.Apply(learning.Event{Accepted: true, BankDescription: "DEPOSIT", GLAccount: "10-100", Amount: decimal.NewFromInt(50)})
	require.NoError(t, s.Save("workspace-1", second))

	loaded, err := s.Load("workspace-1")
	require.NoError(t, err)
	assert.Len(t, loaded.Feedback, 1)
}

func TestStorage_IdentitiesAreIsolated(t *testing.T) {
	s := newTestStorage(t)

	record := learning.NewRecord()
	record.Apply(learning.Event{Accepted: true, BankDescription: "WIRE", GLAccount: "30-100", Amount: decimal.NewFromInt(75)})
	require.NoError(t, s.Save("alpha", record))

	loaded, err := s.Load("beta")
	require.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestStorage_MigrationsAreIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	s1, err := NewStorage(path)
	require.NoError(t, err)
	require.NoError(t, s1.Save("workspace-1", learning.NewRecord()))
	require.NoError(t, s1.Close())

	// Reopening runs the migration pass again; applied versions are skipped.
	s2, err := NewStorage(path)
	require.NoError(t, err)
	defer func() { _ = s2.Close() }()

	loaded, err := s2.Load("workspace-1")
	require.NoError(t, err)
	assert.NotNil(t, loaded)
}

func TestStorage_RunHistory(t *testing.T) {
	s := newTestStorage(t)

	runID, err := s.StartRun("statement.xlsx", "ledger.csv")
	require.NoError(t, err)
	require.NoError(t, s.CompleteRun(runID, 40, 55, 32, 8, 23))

	runs, err := s.RecentRuns(10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "statement.xlsx", runs[0].BankFile)
	assert.Equal(t, "completed", runs[0].Status)
	assert.Equal(t, 32, runs[0].MatchedCount)
	assert.Equal(t, 8, runs[0].UnmatchedBank)
	assert.Equal(t, 23, runs[0].UnmatchedGL)
}

func TestMockStore_TracksCallsAndInjectsErrors(t *testing.T) {
	m := NewMockStore()

	_, err := m.Load("x")
	require.NoError(t, err)
	require.NoError(t, m.Save("x", learning.NewRecord()))
	assert.Equal(t, 1, m.LoadCalls)
	assert.Equal(t, 1, m.SaveCalls)

	m.SaveErr = assert.AnError
	assert.Error(t, m.Save("x", learning.NewRecord()))
}
