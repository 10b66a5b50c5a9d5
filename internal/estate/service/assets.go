package service

import (
	"context"
	"time"

	"github.com/CoolCerebralTech/Mirathi-System-sub006/internal/estate/models"
	id "github.com/CoolCerebralTech/Mirathi-System-sub006/pkg/domain"
	dErrors "github.com/CoolCerebralTech/Mirathi-System-sub006/pkg/domain-errors"
	"github.com/CoolCerebralTech/Mirathi-System-sub006/pkg/money"
)

// AddAsset records a newly discovered item of property and returns it.
func (s *Service) AddAsset(ctx context.Context, estateID id.EstateID, req AddAssetRequest) (*models.Asset, error) {
	req.Normalize()
	assetID := id.NewAssetID()

	estate, err := s.mutate(ctx, estateID, "add asset", func(e *models.Estate, now time.Time) ([]models.Event, error) {
		asset, err := models.NewAsset(assetID, req.Description, req.Kind,
			req.EstimatedValue, req.AcquiredAt, now)
		if err != nil {
			return nil, asValidation(err)
		}
		return e.AddAsset(asset, now)
	})
	if err != nil {
		return nil, err
	}
	return findAsset(estate, assetID)
}

// VerifyAsset confirms ownership and valuation of an asset.
func (s *Service) VerifyAsset(ctx context.Context, estateID id.EstateID, assetID id.AssetID) (*models.Estate, error) {
	return s.mutate(ctx, estateID, "verify asset", func(e *models.Estate, now time.Time) ([]models.Event, error) {
		return e.VerifyAsset(assetID, now)
	})
}

// DisputeAsset flags contested ownership; the asset leaves the
// distributable pool until resolved.
func (s *Service) DisputeAsset(ctx context.Context, estateID id.EstateID, assetID id.AssetID, reason string) (*models.Estate, error) {
	return s.mutate(ctx, estateID, "dispute asset", func(e *models.Estate, now time.Time) ([]models.Event, error) {
		return e.DisputeAsset(assetID, reason, now)
	})
}

// ResolveAssetDispute returns a disputed asset to the verified pool.
func (s *Service) ResolveAssetDispute(ctx context.Context, estateID id.EstateID, assetID id.AssetID) (*models.Estate, error) {
	return s.mutate(ctx, estateID, "resolve asset dispute", func(e *models.Estate, now time.Time) ([]models.Event, error) {
		return e.ResolveAssetDispute(assetID, now)
	})
}

// ExcludeAsset removes an asset from the estate, typically after a dispute
// establishes it was never the deceased's property.
func (s *Service) ExcludeAsset(ctx context.Context, estateID id.EstateID, assetID id.AssetID) (*models.Estate, error) {
	return s.mutate(ctx, estateID, "exclude asset", func(e *models.Estate, now time.Time) ([]models.Event, error) {
		return e.ExcludeAsset(assetID, now)
	})
}

// LiquidateAsset converts an asset to cash at the realized price.
func (s *Service) LiquidateAsset(ctx context.Context, estateID id.EstateID, assetID id.AssetID, proceeds money.Money) (*models.Estate, error) {
	return s.mutate(ctx, estateID, "liquidate asset", func(e *models.Estate, now time.Time) ([]models.Event, error) {
		return e.LiquidateAsset(assetID, proceeds, now)
	})
}

func findAsset(estate *models.Estate, assetID id.AssetID) (*models.Asset, error) {
	for _, a := range estate.Assets {
		if a.ID == assetID {
			return a, nil
		}
	}
	return nil, dErrors.New(dErrors.CodeInternal, "created asset missing from estate")
}
