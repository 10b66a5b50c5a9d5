package audit_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/CoolCerebralTech/Mirathi-System-sub006/internal/audit"
	"github.com/CoolCerebralTech/Mirathi-System-sub006/internal/audit/store/memory"
	"github.com/CoolCerebralTech/Mirathi-System-sub006/internal/estate/models"
	id "github.com/CoolCerebralTech/Mirathi-System-sub006/pkg/domain"
)

type RecorderSuite struct {
	suite.Suite
	ctx   context.Context
	now   time.Time
	store *memory.InMemoryStore
}

func TestRecorderSuite(t *testing.T) {
	suite.Run(t, new(RecorderSuite))
}

func (s *RecorderSuite) SetupTest() {
	s.ctx = context.Background()
	s.now = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	s.store = memory.NewInMemoryStore()
}

func (s *RecorderSuite) TestPublishAppendsRecords() {
	recorder := audit.NewRecorder(s.store, nil)
	estateID := id.NewEstateID()

	opened := models.NewEvent(estateID, models.EventEstateOpened, s.now, nil)
	deposited := models.NewEvent(estateID, models.EventFundsDeposited, s.now.Add(time.Minute), map[string]string{
		"amount": "KES 5000.00",
	})
	recorder.Publish(s.ctx, opened, deposited)

	records, err := s.store.ListByEstate(s.ctx, estateID, 0)
	s.Require().NoError(err)
	s.Require().Len(records, 2)

	// Newest first.
	s.Equal(string(models.EventFundsDeposited), records[0].Kind)
	s.Equal("KES 5000.00", records[0].Details["amount"])
	s.Equal(string(models.EventEstateOpened), records[1].Kind)
	s.Equal(opened.ID, records[1].ID)
	s.Equal(estateID, records[1].EstateID)
}

// Redelivering the same event must not duplicate the trail.
func (s *RecorderSuite) TestPublishIsIdempotent() {
	recorder := audit.NewRecorder(s.store, nil)
	estateID := id.NewEstateID()
	event := models.NewEvent(estateID, models.EventDebtRecorded, s.now, nil)

	recorder.Publish(s.ctx, event)
	recorder.Publish(s.ctx, event)

	records, err := s.store.ListByEstate(s.ctx, estateID, 0)
	s.Require().NoError(err)
	s.Len(records, 1)
}

func (s *RecorderSuite) TestListRecentSpansEstates() {
	recorder := audit.NewRecorder(s.store, nil)
	first := id.NewEstateID()
	second := id.NewEstateID()

	recorder.Publish(s.ctx, models.NewEvent(first, models.EventEstateOpened, s.now, nil))
	recorder.Publish(s.ctx, models.NewEvent(second, models.EventEstateOpened, s.now.Add(time.Second), nil))
	recorder.Publish(s.ctx, models.NewEvent(first, models.EventAssetAdded, s.now.Add(2*time.Second), nil))

	records, err := s.store.ListRecent(s.ctx, 2)
	s.Require().NoError(err)
	s.Require().Len(records, 2)
	s.Equal(string(models.EventAssetAdded), records[0].Kind)
	s.Equal(second, records[1].EstateID)
}

// Events queued through the sink reach the store once the worker drains
// them, including the flush on shutdown.
func (s *RecorderSuite) TestChannelSinkAndWorker() {
	sink := audit.NewChannelSink(16, nil)
	worker := audit.NewWorker(s.store, sink.Inbox(), nil)

	ctx, cancel := context.WithCancel(s.ctx)
	done := make(chan error, 1)
	go func() {
		done <- worker.Run(ctx)
	}()

	estateID := id.NewEstateID()
	sink.Publish(s.ctx, models.NewEvent(estateID, models.EventEstateOpened, s.now, nil))
	sink.Publish(s.ctx, models.NewEvent(estateID, models.EventGiftRecorded, s.now.Add(time.Minute), nil))

	s.Eventually(func() bool {
		records, err := s.store.ListByEstate(s.ctx, estateID, 0)
		return err == nil && len(records) == 2
	}, 2*time.Second, 10*time.Millisecond)

	// A burst right before shutdown is flushed by the drain.
	sink.Publish(s.ctx, models.NewEvent(estateID, models.EventGiftConfirmed, s.now.Add(2*time.Minute), nil))
	cancel()
	s.ErrorIs(<-done, context.Canceled)

	records, err := s.store.ListByEstate(s.ctx, estateID, 0)
	s.Require().NoError(err)
	s.Len(records, 3)
}
