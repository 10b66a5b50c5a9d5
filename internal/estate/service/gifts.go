package service

import (
	"context"
	"time"

	"github.com/CoolCerebralTech/Mirathi-System-sub006/internal/estate/models"
	id "github.com/CoolCerebralTech/Mirathi-System-sub006/pkg/domain"
	dErrors "github.com/CoolCerebralTech/Mirathi-System-sub006/pkg/domain-errors"
)

// RecordGift registers a lifetime transfer made by the deceased.
func (s *Service) RecordGift(ctx context.Context, estateID id.EstateID, req RecordGiftRequest) (*models.GiftInterVivos, error) {
	req.Normalize()
	giftID := id.NewGiftID()

	estate, err := s.mutate(ctx, estateID, "record gift", func(e *models.Estate, now time.Time) ([]models.Event, error) {
		gift, err := models.NewGiftInterVivos(giftID, req.RecipientID, req.RecipientName,
			req.Description, req.Value, req.GivenAt, req.CourtOrderedInclusion, now)
		if err != nil {
			return nil, asValidation(err)
		}
		return e.RecordGift(gift, now)
	})
	if err != nil {
		return nil, err
	}
	return findGift(estate, giftID)
}

// ContestGift marks a gift as challenged by an interested party.
func (s *Service) ContestGift(ctx context.Context, estateID id.EstateID, giftID id.GiftID) (*models.Estate, error) {
	return s.mutate(ctx, estateID, "contest gift", func(e *models.Estate, now time.Time) ([]models.Event, error) {
		return e.ContestGift(giftID, now)
	})
}

// ConfirmGift settles a gift as genuine; it becomes hotchpot-countable.
func (s *Service) ConfirmGift(ctx context.Context, estateID id.EstateID, giftID id.GiftID) (*models.Estate, error) {
	return s.mutate(ctx, estateID, "confirm gift", func(e *models.Estate, now time.Time) ([]models.Event, error) {
		return e.ConfirmGift(giftID, now)
	})
}

// ExcludeGift removes a gift from all estate calculations.
func (s *Service) ExcludeGift(ctx context.Context, estateID id.EstateID, giftID id.GiftID) (*models.Estate, error) {
	return s.mutate(ctx, estateID, "exclude gift", func(e *models.Estate, now time.Time) ([]models.Event, error) {
		return e.ExcludeGift(giftID, now)
	})
}

// ReclassifyGiftAsLoan converts a contested gift into a receivable owed to
// the estate.
func (s *Service) ReclassifyGiftAsLoan(ctx context.Context, estateID id.EstateID, giftID id.GiftID) (*models.Estate, error) {
	return s.mutate(ctx, estateID, "reclassify gift as loan", func(e *models.Estate, now time.Time) ([]models.Event, error) {
		return e.ReclassifyGiftAsLoan(giftID, now)
	})
}

func findGift(estate *models.Estate, giftID id.GiftID) (*models.GiftInterVivos, error) {
	for _, g := range estate.Gifts {
		if g.ID == giftID {
			return g, nil
		}
	}
	return nil, dErrors.New(dErrors.CodeInternal, "recorded gift missing from estate")
}
