package distribution_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"github.com/CoolCerebralTech/Mirathi-System-sub006/internal/distribution"
	"github.com/CoolCerebralTech/Mirathi-System-sub006/internal/estate/models"
	"github.com/CoolCerebralTech/Mirathi-System-sub006/internal/estate/store"
	"github.com/CoolCerebralTech/Mirathi-System-sub006/internal/family"
	familymocks "github.com/CoolCerebralTech/Mirathi-System-sub006/internal/family/mocks"
	id "github.com/CoolCerebralTech/Mirathi-System-sub006/pkg/domain"
	dErrors "github.com/CoolCerebralTech/Mirathi-System-sub006/pkg/domain-errors"
	"github.com/CoolCerebralTech/Mirathi-System-sub006/pkg/money"
)

// captureSink records published events for assertions.
type captureSink struct {
	mu     sync.Mutex
	events []models.Event
}

func (c *captureSink) Publish(_ context.Context, events ...models.Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, events...)
}

type DistributionServiceSuite struct {
	suite.Suite
	ctx      context.Context
	now      time.Time
	death    time.Time
	store    *store.MemoryStore
	sink     *captureSink
	ctrl     *gomock.Controller
	families *familymocks.MockProvider
	svc      *distribution.Service
}

func TestDistributionServiceSuite(t *testing.T) {
	suite.Run(t, new(DistributionServiceSuite))
}

func (s *DistributionServiceSuite) SetupTest() {
	s.ctx = context.Background()
	s.now = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	s.death = s.now.AddDate(-1, 0, 0)
	s.store = store.NewMemory()
	s.sink = &captureSink{}
	s.ctrl = gomock.NewController(s.T())
	s.families = familymocks.NewMockProvider(s.ctrl)
	s.svc = distribution.NewService(s.store, s.families,
		distribution.WithEventSink(s.sink),
		distribution.WithClock(func() time.Time { return s.now }),
	)
}

// createReadyEstate persists an estate that passes the distribution gate.
func (s *DistributionServiceSuite) createReadyEstate(assetValue float64) *models.Estate {
	e, err := models.NewEstate(id.NewEstateID(), "Estate of Atieno Okoth",
		id.NewPersonID(), s.death, money.New(0, "KES"), s.now)
	s.Require().NoError(err)

	a, err := models.NewAsset(id.NewAssetID(), "Four-acre plot, Kisumu",
		models.AssetKindLand, money.New(assetValue, "KES"), nil, s.now)
	s.Require().NoError(err)
	_, err = e.AddAsset(a, s.now)
	s.Require().NoError(err)
	_, err = e.VerifyAsset(a.ID, s.now)
	s.Require().NoError(err)

	s.Require().NoError(s.store.Create(s.ctx, e))
	return e
}

func (s *DistributionServiceSuite) TestCalculate() {
	estate := s.createReadyEstate(900000)
	s.families.EXPECT().
		FamilyStructure(gomock.Any(), estate.DeceasedID).
		Return(&family.FamilyStructure{
			DeceasedID: estate.DeceasedID,
			Spouses: []family.FamilyMember{{
				ID: id.NewPersonID(), FullName: "Akinyi Okoth",
				Relationship: family.RelationshipSpouse, Alive: true,
			}},
			Children: []family.FamilyMember{
				{ID: id.NewPersonID(), FullName: "Wanjiru Okoth",
					Relationship: family.RelationshipChild, Alive: true},
				{ID: id.NewPersonID(), FullName: "Baraka Okoth",
					Relationship: family.RelationshipChild, Alive: true},
			},
		}, nil)

	result, err := s.svc.Calculate(s.ctx, estate.ID)
	s.Require().NoError(err)

	s.Equal(distribution.ScenarioSpouseAndChildren, result.Scenario)
	s.Len(result.Shares, 3)
	s.Equal("900000.00 KES", result.DistributedValue().String())
	s.Equal(s.now, result.CalculatedAt)

	s.Require().Len(s.sink.events, 1)
	event := s.sink.events[0]
	s.Equal(models.EventDistributionCalculated, event.Type)
	s.Equal(estate.ID, event.EstateID)
	s.Equal("SPOUSE_AND_CHILDREN", event.Details["scenario"])
	s.Equal("3", event.Details["shares"])
	s.Equal("900000.00 KES", event.Details["distributed"])
}

func (s *DistributionServiceSuite) TestCalculateUnknownEstate() {
	_, err := s.svc.Calculate(s.ctx, id.NewEstateID())
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	s.Empty(s.sink.events)
}

func (s *DistributionServiceSuite) TestCalculateFamilyLookupFails() {
	estate := s.createReadyEstate(900000)
	s.families.EXPECT().
		FamilyStructure(gomock.Any(), estate.DeceasedID).
		Return(nil, errors.New("registry unreachable"))

	_, err := s.svc.Calculate(s.ctx, estate.ID)
	s.True(dErrors.HasCode(err, dErrors.CodeInternal))
	s.Contains(err.Error(), "failed to fetch family structure")
	s.Empty(s.sink.events)
}

func (s *DistributionServiceSuite) TestCalculateBlockedEstate() {
	e, err := models.NewEstate(id.NewEstateID(), "Estate of Atieno Okoth",
		id.NewPersonID(), s.death, money.New(500000, "KES"), s.now)
	s.Require().NoError(err)
	s.Require().NoError(s.store.Create(s.ctx, e))

	s.families.EXPECT().
		FamilyStructure(gomock.Any(), e.DeceasedID).
		Return(&family.FamilyStructure{
			DeceasedID: e.DeceasedID,
			Spouses: []family.FamilyMember{{
				ID: id.NewPersonID(), FullName: "Akinyi Okoth",
				Relationship: family.RelationshipSpouse, Alive: true,
			}},
		}, nil)

	_, err = s.svc.Calculate(s.ctx, e.ID)
	s.True(dErrors.HasCode(err, dErrors.CodeDistributionNotAllowed))
	s.Empty(s.sink.events)
}
