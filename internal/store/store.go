package store

import (
	"context"
	"errors"
	"sync"
)

// SnapshotRepository persists full store snapshots.
type SnapshotRepository interface {
	// Load returns the most recent snapshot and its version. ErrNoSnapshot
	// signals an empty backing store.
	Load(ctx context.Context) (Data, uint64, error)
	Save(ctx context.Context, data Data, version uint64) error
}

// ErrNoSnapshot indicates no persisted snapshot exists yet.
var ErrNoSnapshot = errors.New("store: no snapshot available")

// Store holds the entity collections and replaces them wholesale on every
// mutation. A reader never observes a half-applied change; the version
// counter is bumped on each write so consumers can detect staleness.
type Store struct {
	mu      sync.RWMutex
	data    Data
	version uint64
	repo    SnapshotRepository
}

// New builds a Store seeded with data at the given version. repo may be nil
// for a purely in-memory store (tests).
func New(data Data, version uint64, repo SnapshotRepository) *Store {
	return &Store{data: data, version: version, repo: repo}
}

// Open loads the latest snapshot from repo, falling back to an empty store
// when none has been saved yet.
func Open(ctx context.Context, repo SnapshotRepository) (*Store, error) {
	data, version, err := repo.Load(ctx)
	if err != nil {
		if errors.Is(err, ErrNoSnapshot) {
			return New(Data{}, 0, repo), nil
		}
		return nil, err
	}
	return New(data, version, repo), nil
}

// Snapshot returns the current store value. The returned slices must be
// treated as immutable; mutators build replacements via Update.
func (s *Store) Snapshot() Data {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data
}

// Version returns the write counter for the current snapshot.
func (s *Store) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

// Update applies fn to the current snapshot and swaps in the returned value.
// The snapshot is persisted before it becomes visible; a failed save leaves
// the store unchanged. fn must not modify the input slices in place.
func (s *Store) Update(ctx context.Context, fn func(Data) (Data, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := fn(s.data)
	if err != nil {
		return err
	}
	version := s.version + 1
	if s.repo != nil {
		if err := s.repo.Save(ctx, next, version); err != nil {
			return err
		}
	}
	s.data = next
	s.version = version
	return nil
}

// Replace swaps the entire store content, used by backup restore.
func (s *Store) Replace(ctx context.Context, data Data) error {
	return s.Update(ctx, func(Data) (Data, error) {
		return data, nil
	})
}
