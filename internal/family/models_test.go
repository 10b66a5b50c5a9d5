package family

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	id "github.com/CoolCerebralTech/Mirathi-System-sub006/pkg/domain"
	"github.com/CoolCerebralTech/Mirathi-System-sub006/pkg/platform/sentinel"
)

type FamilySuite struct {
	suite.Suite
}

func TestFamilySuite(t *testing.T) {
	suite.Run(t, new(FamilySuite))
}

func member(rel Relationship, alive bool) FamilyMember {
	return FamilyMember{
		ID:           id.NewPersonID(),
		FullName:     "member",
		Relationship: rel,
		Alive:        alive,
	}
}

// =============================================================================
// Living-member filters
// =============================================================================

func (s *FamilySuite) TestLivingFilters() {
	f := &FamilyStructure{
		DeceasedID: id.NewPersonID(),
		Spouses:    []FamilyMember{member(RelationshipSpouse, true), member(RelationshipSpouse, false)},
		Children:   []FamilyMember{member(RelationshipChild, false), member(RelationshipChild, false)},
		Parents:    []FamilyMember{member(RelationshipParent, true)},
	}

	s.Len(f.LivingSpouses(), 1)
	s.Empty(f.LivingChildren())
	s.Len(f.LivingParents(), 1)
	s.True(f.HasLivingSpouse())
	s.False(f.HasLivingChildren())
	s.True(f.HasLivingParents())
}

// =============================================================================
// House weights
// =============================================================================

func (s *FamilySuite) TestHouseWeight() {
	widow := member(RelationshipSpouse, true)

	s.Run("weight follows living child count", func() {
		h := PolygamousHouse{
			Widow: &widow,
			Children: []FamilyMember{
				member(RelationshipChild, true),
				member(RelationshipChild, true),
				member(RelationshipChild, false),
			},
		}
		s.Equal(2, h.Weight())
	})

	s.Run("childless house with living widow weighs one", func() {
		h := PolygamousHouse{Widow: &widow}
		s.Equal(1, h.Weight())
		s.True(h.HasLivingMembers())
	})

	s.Run("house with no living members weighs zero", func() {
		deceased := member(RelationshipSpouse, false)
		h := PolygamousHouse{
			Widow:    &deceased,
			Children: []FamilyMember{member(RelationshipChild, false)},
		}
		s.Equal(0, h.Weight())
		s.False(h.HasLivingMembers())
	})

	s.Run("living children outrank a living widow for weight", func() {
		h := PolygamousHouse{
			Widow:    &widow,
			Children: []FamilyMember{member(RelationshipChild, true)},
		}
		s.Equal(1, h.Weight())
	})
}

// =============================================================================
// Validation
// =============================================================================

func (s *FamilySuite) TestValidate() {
	s.Run("polygamous without houses rejected", func() {
		f := &FamilyStructure{DeceasedID: id.NewPersonID(), Polygamous: true}
		s.Error(f.Validate())
	})

	s.Run("monogamous with houses rejected", func() {
		f := &FamilyStructure{
			DeceasedID: id.NewPersonID(),
			Houses:     []PolygamousHouse{{Name: "stray"}},
		}
		s.Error(f.Validate())
	})

	s.Run("missing deceased id rejected", func() {
		f := &FamilyStructure{}
		s.Error(f.Validate())
	})

	s.Run("empty house rejected", func() {
		f := &FamilyStructure{
			DeceasedID: id.NewPersonID(),
			Polygamous: true,
			Houses:     []PolygamousHouse{{Name: "empty"}},
		}
		s.Error(f.Validate())
	})

	s.Run("well formed structure accepted", func() {
		widow := member(RelationshipSpouse, true)
		f := &FamilyStructure{
			DeceasedID: id.NewPersonID(),
			Polygamous: true,
			Houses:     []PolygamousHouse{{Name: "first house", Widow: &widow}},
		}
		s.NoError(f.Validate())
	})
}

// =============================================================================
// Static provider
// =============================================================================

func (s *FamilySuite) TestStaticProvider() {
	ctx := context.Background()
	static := NewStatic()
	deceased := id.NewPersonID()

	s.Run("unknown deceased returns not found", func() {
		_, err := static.FamilyStructure(ctx, deceased)
		s.ErrorIs(err, sentinel.ErrNotFound)
	})

	s.Run("registered fixture is returned by value", func() {
		fixture := &FamilyStructure{
			DeceasedID: deceased,
			Spouses:    []FamilyMember{member(RelationshipSpouse, true)},
		}
		s.Require().NoError(static.Register(fixture))

		got, err := static.FamilyStructure(ctx, deceased)
		s.Require().NoError(err)
		s.Equal(deceased, got.DeceasedID)

		// Mutating the answer must not leak back into the fixture.
		got.Spouses[0].Alive = false
		again, err := static.FamilyStructure(ctx, deceased)
		s.Require().NoError(err)
		s.True(again.Spouses[0].Alive)
	})

	s.Run("invalid fixture rejected at registration", func() {
		s.Error(static.Register(&FamilyStructure{}))
	})
}
