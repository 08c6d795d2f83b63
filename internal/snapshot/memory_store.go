package snapshot

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/idrefz/deltaboard/internal/domain"
)

// MemoryStore is an in-memory Store used by tests and as a scratch
// backend. It keeps the full snapshot sequence.
type MemoryStore struct {
	mu        sync.Mutex
	snapshots []*domain.Snapshot
	history   []domain.UploadEntry
}

// NewMemoryStore constructs an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Put(ctx context.Context, snap *domain.Snapshot) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if snap.Version == "" {
		snap.Version = uuid.NewString()
	}
	if snap.UploadedAt.IsZero() {
		snap.UploadedAt = time.Now().UTC()
	}

	stored := *snap
	stored.Tickets = append([]domain.Ticket(nil), snap.Tickets...)
	s.snapshots = append(s.snapshots, &stored)
	s.history = append(s.history, domain.UploadEntry{
		UploadedAt: stored.UploadedAt,
		Hash:       stored.Hash,
		Version:    stored.Version,
	})
	return stored.Version, nil
}

func (s *MemoryStore) Latest(ctx context.Context) (*domain.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.snapshots) == 0 {
		return nil, nil
	}
	return s.snapshots[len(s.snapshots)-1], nil
}

func (s *MemoryStore) Previous(ctx context.Context) (*domain.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.snapshots) < 2 {
		return nil, nil
	}
	return s.snapshots[len(s.snapshots)-2], nil
}

func (s *MemoryStore) History(ctx context.Context) ([]domain.UploadEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.UploadEntry(nil), s.history...), nil
}

func (s *MemoryStore) LastHash(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.history) == 0 {
		return "", nil
	}
	return s.history[len(s.history)-1].Hash, nil
}
