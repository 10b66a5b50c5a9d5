package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/CoolCerebralTech/Mirathi-System-sub006/internal/audit"
	id "github.com/CoolCerebralTech/Mirathi-System-sub006/pkg/domain"
)

// InMemoryStore keeps the audit trail in process memory, for tests and
// single-node development.
type InMemoryStore struct {
	mu       sync.RWMutex
	byEstate map[id.EstateID][]audit.Record
	ordered  []audit.Record
	seen     map[uuid.UUID]struct{}
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		byEstate: make(map[id.EstateID][]audit.Record),
		seen:     make(map[uuid.UUID]struct{}),
	}
}

func (s *InMemoryStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byEstate = make(map[id.EstateID][]audit.Record)
	s.ordered = nil
	s.seen = make(map[uuid.UUID]struct{})
}

func (s *InMemoryStore) Append(_ context.Context, record audit.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.seen[record.ID]; ok {
		return nil
	}
	s.seen[record.ID] = struct{}{}
	s.byEstate[record.EstateID] = append(s.byEstate[record.EstateID], record)
	s.ordered = append(s.ordered, record)
	return nil
}

func (s *InMemoryStore) ListByEstate(_ context.Context, estateID id.EstateID, limit int) ([]audit.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return lastN(s.byEstate[estateID], limit), nil
}

func (s *InMemoryStore) ListRecent(_ context.Context, limit int) ([]audit.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return lastN(s.ordered, limit), nil
}

// lastN copies the newest records, newest first.
func lastN(records []audit.Record, limit int) []audit.Record {
	if limit <= 0 || limit > len(records) {
		limit = len(records)
	}
	out := make([]audit.Record, 0, limit)
	for i := len(records) - 1; i >= len(records)-limit; i-- {
		out = append(out, records[i])
	}
	return out
}
