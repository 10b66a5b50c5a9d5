//go:build integration

package family_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/CoolCerebralTech/Mirathi-System-sub006/internal/family"
	id "github.com/CoolCerebralTech/Mirathi-System-sub006/pkg/domain"
	"github.com/CoolCerebralTech/Mirathi-System-sub006/pkg/testutil/containers"
)

type CachedProviderSuite struct {
	suite.Suite
	redis  *containers.RedisContainer
	static *family.Static
	cached *family.Cached
}

func TestCachedProviderSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(CachedProviderSuite))
}

func (s *CachedProviderSuite) SetupSuite() {
	mgr := containers.GetManager()
	s.redis = mgr.GetRedis(s.T())
}

func (s *CachedProviderSuite) SetupTest() {
	ctx := context.Background()
	s.Require().NoError(s.redis.FlushAll(ctx))

	s.static = family.NewStatic()
	var err error
	s.cached, err = family.NewCached(s.static, s.redis.Client,
		family.WithCacheTTL(time.Minute))
	s.Require().NoError(err)
}

func (s *CachedProviderSuite) fixture() *family.FamilyStructure {
	spouse := family.FamilyMember{
		ID:           id.NewPersonID(),
		FullName:     "Akinyi Odhiambo",
		Relationship: family.RelationshipSpouse,
		Alive:        true,
	}
	return &family.FamilyStructure{
		DeceasedID: id.NewPersonID(),
		Spouses:    []family.FamilyMember{spouse},
	}
}

func (s *CachedProviderSuite) TestReadThrough() {
	ctx := context.Background()
	fixture := s.fixture()
	s.Require().NoError(s.static.Register(fixture))

	// First read fills the cache from the upstream provider.
	first, err := s.cached.FamilyStructure(ctx, fixture.DeceasedID)
	s.Require().NoError(err)
	s.Equal(fixture.DeceasedID, first.DeceasedID)

	// Remove the upstream fixture: the cache must still answer.
	s.static = family.NewStatic()
	cached, err := family.NewCached(s.static, s.redis.Client)
	s.Require().NoError(err)

	second, err := cached.FamilyStructure(ctx, fixture.DeceasedID)
	s.Require().NoError(err)
	s.Equal(fixture.DeceasedID, second.DeceasedID)
	s.Len(second.Spouses, 1)
}

func (s *CachedProviderSuite) TestInvalidate() {
	ctx := context.Background()
	fixture := s.fixture()
	s.Require().NoError(s.static.Register(fixture))

	_, err := s.cached.FamilyStructure(ctx, fixture.DeceasedID)
	s.Require().NoError(err)

	s.Require().NoError(s.cached.Invalidate(ctx, fixture.DeceasedID))

	// Change the upstream answer; the next read must reflect it.
	fixture.Spouses[0].Alive = false
	s.Require().NoError(s.static.Register(fixture))

	got, err := s.cached.FamilyStructure(ctx, fixture.DeceasedID)
	s.Require().NoError(err)
	s.False(got.Spouses[0].Alive)
}

func (s *CachedProviderSuite) TestUpstreamMissNotCached() {
	ctx := context.Background()
	unknown := id.NewPersonID()

	_, err := s.cached.FamilyStructure(ctx, unknown)
	s.Error(err)

	// A later registration must be visible despite the earlier miss.
	fixture := s.fixture()
	fixture.DeceasedID = unknown
	s.Require().NoError(s.static.Register(fixture))

	got, err := s.cached.FamilyStructure(ctx, unknown)
	s.Require().NoError(err)
	s.Equal(unknown, got.DeceasedID)
}
