package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/CoolCerebralTech/Mirathi-System-sub006/internal/estate/models"
	id "github.com/CoolCerebralTech/Mirathi-System-sub006/pkg/domain"
	"github.com/CoolCerebralTech/Mirathi-System-sub006/pkg/platform/sentinel"
)

// MemoryStore holds estates as snapshots behind one mutex. Execute holds
// the lock across the whole read-modify-write cycle, so mutations on the
// same store are fully serialized. Suitable for tests and for single-node
// development runs.
type MemoryStore struct {
	mu      sync.RWMutex
	estates map[id.EstateID]models.EstateSnapshot
}

// NewMemory constructs an empty in-memory store.
func NewMemory() *MemoryStore {
	return &MemoryStore{estates: make(map[id.EstateID]models.EstateSnapshot)}
}

func (s *MemoryStore) Create(_ context.Context, estate *models.Estate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.estates[estate.ID]; exists {
		return fmt.Errorf("estate %s: %w", estate.ID, sentinel.ErrAlreadyExists)
	}
	s.estates[estate.ID] = estate.Snapshot()
	estate.MarkPersisted()
	return nil
}

func (s *MemoryStore) Get(_ context.Context, estateID id.EstateID) (*models.Estate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.load(estateID)
}

func (s *MemoryStore) Save(_ context.Context, estate *models.Estate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(estate)
}

func (s *MemoryStore) Execute(ctx context.Context, estateID id.EstateID, fn func(*models.Estate) error) (*models.Estate, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	estate, err := s.load(estateID)
	if err != nil {
		return nil, err
	}
	if err := fn(estate); err != nil {
		return nil, err
	}
	if err := s.save(estate); err != nil {
		return nil, err
	}
	return estate, nil
}

// load must be called with at least a read lock held.
func (s *MemoryStore) load(estateID id.EstateID) (*models.Estate, error) {
	snap, ok := s.estates[estateID]
	if !ok {
		return nil, fmt.Errorf("estate %s: %w", estateID, sentinel.ErrNotFound)
	}
	return models.RehydrateEstate(snap)
}

// save must be called with the write lock held.
func (s *MemoryStore) save(estate *models.Estate) error {
	current, ok := s.estates[estate.ID]
	if !ok {
		return fmt.Errorf("estate %s: %w", estate.ID, sentinel.ErrNotFound)
	}
	if current.Version != estate.LoadedVersion() {
		return fmt.Errorf("estate %s: stored version %d, loaded %d: %w",
			estate.ID, current.Version, estate.LoadedVersion(), sentinel.ErrConflict)
	}
	s.estates[estate.ID] = estate.Snapshot()
	estate.MarkPersisted()
	return nil
}
