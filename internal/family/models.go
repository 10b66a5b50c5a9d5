package family

import (
	"fmt"

	id "github.com/CoolCerebralTech/Mirathi-System-sub006/pkg/domain"
)

// Relationship classifies a family member relative to the deceased.
type Relationship string

const (
	RelationshipSpouse Relationship = "SPOUSE"
	RelationshipChild  Relationship = "CHILD"
	RelationshipParent Relationship = "PARENT"
)

// FamilyMember is one person in the deceased's family tree as reported by
// the upstream registry. The alive flag is as of the date of death.
type FamilyMember struct {
	ID           id.PersonID  `json:"id"`
	FullName     string       `json:"full_name"`
	Relationship Relationship `json:"relationship"`
	Alive        bool         `json:"alive"`
}

// PolygamousHouse is one sub-family unit of a polygamous estate: a widow
// and her children. Order preserves the marriage sequence reported by the
// registry; it is informational and never affects allocation weight.
type PolygamousHouse struct {
	ID       id.HouseID     `json:"id"`
	Name     string         `json:"name"`
	Order    int            `json:"order"`
	Widow    *FamilyMember  `json:"widow,omitempty"`
	Children []FamilyMember `json:"children,omitempty"`
}

// WidowAlive reports whether the house's widow is present and living.
func (h PolygamousHouse) WidowAlive() bool {
	return h.Widow != nil && h.Widow.Alive
}

// LivingChildren returns the house's children who survived the deceased.
func (h PolygamousHouse) LivingChildren() []FamilyMember {
	return living(h.Children)
}

// HasLivingMembers reports whether anyone in the house survived the deceased.
func (h PolygamousHouse) HasLivingMembers() bool {
	return h.WidowAlive() || len(h.LivingChildren()) > 0
}

// Weight is the house's proportional allocation weight: the count of living
// children, or one for a childless house whose widow is living. A house with
// no living members weighs zero and takes no share.
func (h PolygamousHouse) Weight() int {
	n := len(h.LivingChildren())
	if n > 0 {
		return n
	}
	if h.WidowAlive() {
		return 1
	}
	return 0
}

// FamilyStructure is the read-only family snapshot used by distribution.
// It is supplied by an external provider and never mutated by this system.
type FamilyStructure struct {
	DeceasedID id.PersonID       `json:"deceased_id"`
	Spouses    []FamilyMember    `json:"spouses,omitempty"`
	Children   []FamilyMember    `json:"children,omitempty"`
	Parents    []FamilyMember    `json:"parents,omitempty"`
	Polygamous bool              `json:"polygamous"`
	Houses     []PolygamousHouse `json:"houses,omitempty"`
}

// LivingSpouses returns the spouses who survived the deceased.
func (f *FamilyStructure) LivingSpouses() []FamilyMember {
	return living(f.Spouses)
}

// LivingChildren returns the children who survived the deceased.
func (f *FamilyStructure) LivingChildren() []FamilyMember {
	return living(f.Children)
}

// LivingParents returns the parents who survived the deceased.
func (f *FamilyStructure) LivingParents() []FamilyMember {
	return living(f.Parents)
}

func (f *FamilyStructure) HasLivingSpouse() bool {
	return len(f.LivingSpouses()) > 0
}

func (f *FamilyStructure) HasLivingChildren() bool {
	return len(f.LivingChildren()) > 0
}

func (f *FamilyStructure) HasLivingParents() bool {
	return len(f.LivingParents()) > 0
}

// Validate checks the structural consistency of a registry response before
// it is used for allocation.
func (f *FamilyStructure) Validate() error {
	if f == nil {
		return fmt.Errorf("family structure is nil")
	}
	if f.DeceasedID.IsNil() {
		return fmt.Errorf("deceased id is required")
	}
	if f.Polygamous && len(f.Houses) == 0 {
		return fmt.Errorf("polygamous structure carries no houses")
	}
	if !f.Polygamous && len(f.Houses) > 0 {
		return fmt.Errorf("monogamous structure carries %d houses", len(f.Houses))
	}
	for i, h := range f.Houses {
		if h.Widow == nil && len(h.Children) == 0 {
			return fmt.Errorf("house %d (%s) has neither widow nor children", i, h.Name)
		}
	}
	return nil
}

func living(members []FamilyMember) []FamilyMember {
	out := make([]FamilyMember, 0, len(members))
	for _, m := range members {
		if m.Alive {
			out = append(out, m)
		}
	}
	return out
}
