package handler

import (
	"strings"
	"time"

	"github.com/CoolCerebralTech/Mirathi-System-sub006/internal/estate/models"
	"github.com/CoolCerebralTech/Mirathi-System-sub006/internal/estate/service"
	id "github.com/CoolCerebralTech/Mirathi-System-sub006/pkg/domain"
	dErrors "github.com/CoolCerebralTech/Mirathi-System-sub006/pkg/domain-errors"
	"github.com/CoolCerebralTech/Mirathi-System-sub006/pkg/money"
)

// OpenEstateRequest is the HTTP request body for POST /v1/estates.
type OpenEstateRequest struct {
	Name        string      `json:"name"`
	DeceasedID  string      `json:"deceased_id"`
	DateOfDeath time.Time   `json:"date_of_death"`
	OpeningCash money.Money `json:"opening_cash"`

	parsedDeceasedID id.PersonID
}

func (r *OpenEstateRequest) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	if r.Name == "" {
		return dErrors.New(dErrors.CodeValidation, "name is required")
	}
	if r.DateOfDeath.IsZero() {
		return dErrors.New(dErrors.CodeValidation, "date_of_death is required")
	}
	deceasedID, err := id.ParsePersonID(strings.TrimSpace(r.DeceasedID))
	if err != nil {
		return err
	}
	r.parsedDeceasedID = deceasedID
	return nil
}

// ToService converts the body into the service request.
func (r *OpenEstateRequest) ToService() service.OpenEstateRequest {
	return service.OpenEstateRequest{
		Name:        r.Name,
		DeceasedID:  r.parsedDeceasedID,
		DateOfDeath: r.DateOfDeath,
		OpeningCash: r.OpeningCash,
	}
}

// DepositFundsRequest is the body for POST /v1/estates/{estateID}/funds.
type DepositFundsRequest struct {
	Amount money.Money `json:"amount"`
	Source string      `json:"source"`
}

func (r *DepositFundsRequest) Validate() error {
	r.Source = strings.TrimSpace(r.Source)
	if !r.Amount.IsPositive() {
		return dErrors.New(dErrors.CodeValidation, "amount must be positive")
	}
	return nil
}

// AddAssetRequest is the body for POST /v1/estates/{estateID}/assets.
type AddAssetRequest struct {
	Description    string      `json:"description"`
	Kind           string      `json:"kind"`
	EstimatedValue money.Money `json:"estimated_value"`
	AcquiredAt     *time.Time  `json:"acquired_at,omitempty"`

	parsedKind models.AssetKind
}

func (r *AddAssetRequest) Validate() error {
	r.Description = strings.TrimSpace(r.Description)
	if r.Description == "" {
		return dErrors.New(dErrors.CodeValidation, "description is required")
	}
	kind, err := models.ParseAssetKind(strings.TrimSpace(r.Kind))
	if err != nil {
		return err
	}
	r.parsedKind = kind
	return nil
}

func (r *AddAssetRequest) ToService() service.AddAssetRequest {
	return service.AddAssetRequest{
		Description:    r.Description,
		Kind:           r.parsedKind,
		EstimatedValue: r.EstimatedValue,
		AcquiredAt:     r.AcquiredAt,
	}
}

// DisputeRequest carries the grounds for disputing an asset or a debt, or
// for rejecting a dependency claim.
type DisputeRequest struct {
	Reason string `json:"reason"`
}

func (r *DisputeRequest) Validate() error {
	r.Reason = strings.TrimSpace(r.Reason)
	if r.Reason == "" {
		return dErrors.New(dErrors.CodeValidation, "reason is required")
	}
	return nil
}

// LiquidateAssetRequest is the body for
// POST /v1/estates/{estateID}/assets/{assetID}/liquidate.
type LiquidateAssetRequest struct {
	Proceeds money.Money `json:"proceeds"`
}

func (r *LiquidateAssetRequest) Validate() error {
	if r.Proceeds.IsNegative() {
		return dErrors.New(dErrors.CodeValidation, "proceeds cannot be negative")
	}
	return nil
}

// RecordDebtRequest is the body for POST /v1/estates/{estateID}/debts.
type RecordDebtRequest struct {
	CreditorName   string      `json:"creditor_name"`
	Kind           string      `json:"kind"`
	Amount         money.Money `json:"amount"`
	InterestRate   float64     `json:"interest_rate"`
	IsSecured      bool        `json:"is_secured"`
	SecuredAssetID string      `json:"secured_asset_id,omitempty"`
	IncurredAt     time.Time   `json:"incurred_at"`

	parsedKind           models.DebtKind
	parsedSecuredAssetID *id.AssetID
}

func (r *RecordDebtRequest) Validate() error {
	r.CreditorName = strings.TrimSpace(r.CreditorName)
	if r.CreditorName == "" {
		return dErrors.New(dErrors.CodeValidation, "creditor_name is required")
	}
	kind, err := models.ParseDebtKind(strings.TrimSpace(r.Kind))
	if err != nil {
		return err
	}
	r.parsedKind = kind

	if r.IncurredAt.IsZero() {
		return dErrors.New(dErrors.CodeValidation, "incurred_at is required")
	}

	if secured := strings.TrimSpace(r.SecuredAssetID); secured != "" {
		assetID, err := id.ParseAssetID(secured)
		if err != nil {
			return err
		}
		r.parsedSecuredAssetID = &assetID
	}
	return nil
}

func (r *RecordDebtRequest) ToService() service.RecordDebtRequest {
	return service.RecordDebtRequest{
		CreditorName:   r.CreditorName,
		Kind:           r.parsedKind,
		Amount:         r.Amount,
		InterestRate:   r.InterestRate,
		IsSecured:      r.IsSecured,
		SecuredAssetID: r.parsedSecuredAssetID,
		IncurredAt:     r.IncurredAt,
	}
}

// PayDebtRequest is the body for
// POST /v1/estates/{estateID}/debts/{debtID}/payments.
type PayDebtRequest struct {
	Amount money.Money `json:"amount"`
}

func (r *PayDebtRequest) Validate() error {
	if !r.Amount.IsPositive() {
		return dErrors.New(dErrors.CodeValidation, "amount must be positive")
	}
	return nil
}

// RecordGiftRequest is the body for POST /v1/estates/{estateID}/gifts.
type RecordGiftRequest struct {
	RecipientID           string      `json:"recipient_id"`
	RecipientName         string      `json:"recipient_name"`
	Description           string      `json:"description"`
	Value                 money.Money `json:"value"`
	GivenAt               time.Time   `json:"given_at"`
	CourtOrderedInclusion bool        `json:"court_ordered_inclusion"`

	parsedRecipientID id.PersonID
}

func (r *RecordGiftRequest) Validate() error {
	r.RecipientName = strings.TrimSpace(r.RecipientName)
	r.Description = strings.TrimSpace(r.Description)
	if r.RecipientName == "" {
		return dErrors.New(dErrors.CodeValidation, "recipient_name is required")
	}
	if r.GivenAt.IsZero() {
		return dErrors.New(dErrors.CodeValidation, "given_at is required")
	}
	recipientID, err := id.ParsePersonID(strings.TrimSpace(r.RecipientID))
	if err != nil {
		return err
	}
	r.parsedRecipientID = recipientID
	return nil
}

func (r *RecordGiftRequest) ToService() service.RecordGiftRequest {
	return service.RecordGiftRequest{
		RecipientID:           r.parsedRecipientID,
		RecipientName:         r.RecipientName,
		Description:           r.Description,
		Value:                 r.Value,
		GivenAt:               r.GivenAt,
		CourtOrderedInclusion: r.CourtOrderedInclusion,
	}
}

// RegisterDependantRequest is the body for
// POST /v1/estates/{estateID}/dependants.
type RegisterDependantRequest struct {
	ClaimantID             string      `json:"claimant_id"`
	FullName               string      `json:"full_name"`
	Relationship           string      `json:"relationship"`
	MonthlyNeeds           money.Money `json:"monthly_needs"`
	PreviousMonthlySupport money.Money `json:"previous_monthly_support"`
	DependencyPercent      float64     `json:"dependency_percent"`
	DateOfBirth            *time.Time  `json:"date_of_birth,omitempty"`
	Incapacitated          bool        `json:"incapacitated"`

	parsedClaimantID   id.PersonID
	parsedRelationship models.Relationship
}

func (r *RegisterDependantRequest) Validate() error {
	r.FullName = strings.TrimSpace(r.FullName)
	if r.FullName == "" {
		return dErrors.New(dErrors.CodeValidation, "full_name is required")
	}
	relationship, err := models.ParseRelationship(strings.TrimSpace(r.Relationship))
	if err != nil {
		return err
	}
	r.parsedRelationship = relationship

	claimantID, err := id.ParsePersonID(strings.TrimSpace(r.ClaimantID))
	if err != nil {
		return err
	}
	r.parsedClaimantID = claimantID
	return nil
}

func (r *RegisterDependantRequest) ToService() service.RegisterDependantRequest {
	return service.RegisterDependantRequest{
		ClaimantID:             r.parsedClaimantID,
		FullName:               r.FullName,
		Relationship:           r.parsedRelationship,
		MonthlyNeeds:           r.MonthlyNeeds,
		PreviousMonthlySupport: r.PreviousMonthlySupport,
		DependencyPercent:      r.DependencyPercent,
		DateOfBirth:            r.DateOfBirth,
		Incapacitated:          r.Incapacitated,
	}
}

// EvidenceRequest is the body for
// POST /v1/estates/{estateID}/dependants/{dependantID}/evidence.
type EvidenceRequest struct {
	Kind        string `json:"kind"`
	Reference   string `json:"reference"`
	Description string `json:"description,omitempty"`
}

func (r *EvidenceRequest) Validate() error {
	r.Reference = strings.TrimSpace(r.Reference)
	r.Description = strings.TrimSpace(r.Description)
	if r.Reference == "" {
		return dErrors.New(dErrors.CodeValidation, "reference is required")
	}
	kind := models.EvidenceKind(strings.TrimSpace(r.Kind))
	if !kind.IsValid() {
		return dErrors.Newf(dErrors.CodeValidation, "unknown evidence kind %q", r.Kind)
	}
	return nil
}

func (r *EvidenceRequest) ToService() service.EvidenceRequest {
	return service.EvidenceRequest{
		Kind:        models.EvidenceKind(strings.TrimSpace(r.Kind)),
		Reference:   r.Reference,
		Description: r.Description,
	}
}

// FreezeRequest is the body for POST /v1/estates/{estateID}/freeze.
type FreezeRequest struct {
	Reason string `json:"reason"`
}

func (r *FreezeRequest) Validate() error {
	r.Reason = strings.TrimSpace(r.Reason)
	if r.Reason == "" {
		return dErrors.New(dErrors.CodeValidation, "reason is required")
	}
	return nil
}

// StatusRequest is the body for POST /v1/estates/{estateID}/status. The
// target status selects the lifecycle transition; the aggregate decides
// whether the move is legal from its current state.
type StatusRequest struct {
	Status string `json:"status"`

	parsedStatus models.EstateStatus
}

func (r *StatusRequest) Validate() error {
	status := models.EstateStatus(strings.TrimSpace(r.Status))
	if !status.IsValid() {
		return dErrors.Newf(dErrors.CodeValidation, "unknown estate status %q", r.Status)
	}
	if status == models.EstateStatusSetup {
		return dErrors.New(dErrors.CodeValidation, "an estate cannot return to setup")
	}
	r.parsedStatus = status
	return nil
}

// TargetStatus returns the validated lifecycle target.
func (r *StatusRequest) TargetStatus() models.EstateStatus {
	return r.parsedStatus
}
