package family

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	id "github.com/CoolCerebralTech/Mirathi-System-sub006/pkg/domain"
	"github.com/CoolCerebralTech/Mirathi-System-sub006/pkg/platform/sentinel"
)

// Static is an in-memory Provider backed by registered fixtures. It serves
// development and tests; production deployments wrap a real registry client.
type Static struct {
	mu         sync.RWMutex
	structures map[id.PersonID]*FamilyStructure
}

// NewStatic constructs an empty fixture provider.
func NewStatic() *Static {
	return &Static{structures: make(map[id.PersonID]*FamilyStructure)}
}

// NewStaticFromFile builds a fixture provider from a JSON file holding an
// array of family structures. Deployments without a registry integration
// maintain the file by hand; with one, it backs distribution while the
// registry is unreachable.
func NewStaticFromFile(path string) (*Static, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read family fixtures: %w", err)
	}

	var structures []*FamilyStructure
	if err := json.Unmarshal(raw, &structures); err != nil {
		return nil, fmt.Errorf("parse family fixtures: %w", err)
	}

	s := NewStatic()
	for i, structure := range structures {
		if err := s.Register(structure); err != nil {
			return nil, fmt.Errorf("fixture %d: %w", i, err)
		}
	}
	return s, nil
}

// Register stores a family structure fixture, replacing any previous fixture
// for the same deceased person.
func (s *Static) Register(structure *FamilyStructure) error {
	if err := structure.Validate(); err != nil {
		return fmt.Errorf("register family structure: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.structures[structure.DeceasedID] = structure.clone()
	return nil
}

// FamilyStructure returns a copy of the registered fixture, or
// sentinel.ErrNotFound when the deceased is unknown.
func (s *Static) FamilyStructure(_ context.Context, deceasedID id.PersonID) (*FamilyStructure, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	structure, ok := s.structures[deceasedID]
	if !ok {
		return nil, fmt.Errorf("family structure for %s: %w", deceasedID, sentinel.ErrNotFound)
	}
	return structure.clone(), nil
}

// clone returns a deep copy so callers cannot mutate shared fixtures.
func (f *FamilyStructure) clone() *FamilyStructure {
	out := &FamilyStructure{
		DeceasedID: f.DeceasedID,
		Spouses:    append([]FamilyMember(nil), f.Spouses...),
		Children:   append([]FamilyMember(nil), f.Children...),
		Parents:    append([]FamilyMember(nil), f.Parents...),
		Polygamous: f.Polygamous,
	}
	for _, h := range f.Houses {
		house := PolygamousHouse{
			ID:       h.ID,
			Name:     h.Name,
			Order:    h.Order,
			Children: append([]FamilyMember(nil), h.Children...),
		}
		if h.Widow != nil {
			widow := *h.Widow
			house.Widow = &widow
		}
		out.Houses = append(out.Houses, house)
	}
	return out
}
