package models

import (
	"time"

	id "github.com/CoolCerebralTech/Mirathi-System-sub006/pkg/domain"
	dErrors "github.com/CoolCerebralTech/Mirathi-System-sub006/pkg/domain-errors"
	"github.com/CoolCerebralTech/Mirathi-System-sub006/pkg/money"
)

// AssetKind categorizes estate property for reporting and valuation.
type AssetKind string

const (
	AssetKindLand           AssetKind = "land"
	AssetKindBuilding       AssetKind = "building"
	AssetKindVehicle        AssetKind = "vehicle"
	AssetKindBankAccount    AssetKind = "bank_account"
	AssetKindShares         AssetKind = "shares"
	AssetKindLivestock      AssetKind = "livestock"
	AssetKindBusiness       AssetKind = "business"
	AssetKindHouseholdGoods AssetKind = "household_goods"
	AssetKindOther          AssetKind = "other"
)

// ParseAssetKind constructs an AssetKind from external input.
func ParseAssetKind(s string) (AssetKind, error) {
	k := AssetKind(s)
	if !k.IsValid() {
		return "", dErrors.Newf(dErrors.CodeInvalidInput, "unknown asset kind %q", s)
	}
	return k, nil
}

func (k AssetKind) IsValid() bool {
	switch k {
	case AssetKindLand, AssetKindBuilding, AssetKindVehicle, AssetKindBankAccount,
		AssetKindShares, AssetKindLivestock, AssetKindBusiness,
		AssetKindHouseholdGoods, AssetKindOther:
		return true
	}
	return false
}

func (k AssetKind) String() string { return string(k) }

// AssetStatus tracks an asset through verification toward liquidation or
// exclusion.
type AssetStatus string

const (
	AssetStatusPendingVerification AssetStatus = "pending_verification"
	AssetStatusVerified            AssetStatus = "verified"
	AssetStatusDisputed            AssetStatus = "disputed"
	AssetStatusLiquidated          AssetStatus = "liquidated"
	AssetStatusExcluded            AssetStatus = "excluded"
)

var assetTransitions = map[AssetStatus][]AssetStatus{
	AssetStatusPendingVerification: {AssetStatusVerified, AssetStatusDisputed, AssetStatusExcluded},
	AssetStatusVerified:            {AssetStatusDisputed, AssetStatusLiquidated},
	AssetStatusDisputed:            {AssetStatusVerified, AssetStatusExcluded},
}

func (s AssetStatus) IsValid() bool {
	switch s {
	case AssetStatusPendingVerification, AssetStatusVerified, AssetStatusDisputed,
		AssetStatusLiquidated, AssetStatusExcluded:
		return true
	}
	return false
}

// CanTransitionTo reports whether the status machine permits moving to target.
func (s AssetStatus) CanTransitionTo(target AssetStatus) bool {
	for _, allowed := range assetTransitions[s] {
		if allowed == target {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transitions are possible.
func (s AssetStatus) IsTerminal() bool {
	return len(assetTransitions[s]) == 0
}

func (s AssetStatus) String() string { return string(s) }

// Asset is an item of estate property.
//
// Invariants:
//   - Description is non-empty and at most 256 characters
//   - EstimatedValue is never negative
//   - Status transitions follow assetTransitions only
//   - Liquidated and excluded assets contribute zero to the distributable base
type Asset struct {
	ID             id.AssetID  `json:"id"`
	Description    string      `json:"description"`
	Kind           AssetKind   `json:"kind"`
	EstimatedValue money.Money `json:"estimated_value"`
	Status         AssetStatus `json:"status"`
	AcquiredAt     *time.Time  `json:"acquired_at,omitempty"`
	VerifiedAt     *time.Time  `json:"verified_at,omitempty"`
	DisputeReason  string      `json:"dispute_reason,omitempty"`
	CreatedAt      time.Time   `json:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at"`
}

func NewAsset(
	assetID id.AssetID,
	description string,
	kind AssetKind,
	estimatedValue money.Money,
	acquiredAt *time.Time,
	now time.Time,
) (*Asset, error) {
	if description == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "asset description cannot be empty")
	}
	if len(description) > 256 {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "asset description must be 256 characters or less")
	}
	if !kind.IsValid() {
		return nil, dErrors.Newf(dErrors.CodeInvariantViolation, "unknown asset kind %q", kind)
	}
	if estimatedValue.IsNegative() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "asset value cannot be negative")
	}
	return &Asset{
		ID:             assetID,
		Description:    description,
		Kind:           kind,
		EstimatedValue: estimatedValue,
		Status:         AssetStatusPendingVerification,
		AcquiredAt:     acquiredAt,
		CreatedAt:      now,
		UpdatedAt:      now,
	}, nil
}

func (a *Asset) transitionTo(target AssetStatus, now time.Time) error {
	if !a.Status.CanTransitionTo(target) {
		return dErrors.Newf(dErrors.CodeInvalidTransition,
			"asset cannot move from %s to %s", a.Status, target)
	}
	a.Status = target
	a.UpdatedAt = now
	return nil
}

// Verify confirms the asset exists and belongs to the estate.
func (a *Asset) Verify(now time.Time) error {
	if err := a.transitionTo(AssetStatusVerified, now); err != nil {
		return err
	}
	a.VerifiedAt = &now
	a.DisputeReason = ""
	return nil
}

// Dispute flags the asset's ownership or valuation as contested. Disputed
// assets keep their estimated value; the dispute gates distribution instead.
func (a *Asset) Dispute(reason string, now time.Time) error {
	if reason == "" {
		return dErrors.New(dErrors.CodeInvariantViolation, "dispute reason cannot be empty")
	}
	if err := a.transitionTo(AssetStatusDisputed, now); err != nil {
		return err
	}
	a.DisputeReason = reason
	return nil
}

// ResolveDispute restores a disputed asset to verified.
func (a *Asset) ResolveDispute(now time.Time) error {
	if a.Status != AssetStatusDisputed {
		return dErrors.New(dErrors.CodeInvalidTransition, "asset is not disputed")
	}
	if err := a.transitionTo(AssetStatusVerified, now); err != nil {
		return err
	}
	a.VerifiedAt = &now
	a.DisputeReason = ""
	return nil
}

// Exclude removes the asset from the estate permanently, for example when a
// dispute establishes third-party ownership.
func (a *Asset) Exclude(now time.Time) error {
	return a.transitionTo(AssetStatusExcluded, now)
}

// Liquidate marks a verified asset as sold. The caller credits the sale
// proceeds to the estate's cash.
func (a *Asset) Liquidate(now time.Time) error {
	return a.transitionTo(AssetStatusLiquidated, now)
}

// DistributableValue is the asset's contribution to the gross estate: the
// estimated value, or zero once liquidated or excluded.
func (a *Asset) DistributableValue() money.Money {
	if a.Status == AssetStatusLiquidated || a.Status == AssetStatusExcluded {
		return money.Zero(a.EstimatedValue.Currency())
	}
	return a.EstimatedValue
}

func (a *Asset) IsVerified() bool { return a.Status == AssetStatusVerified }
func (a *Asset) IsDisputed() bool { return a.Status == AssetStatusDisputed }
