package service

import (
	"strings"
	"time"

	"github.com/CoolCerebralTech/Mirathi-System-sub006/internal/estate/models"
	id "github.com/CoolCerebralTech/Mirathi-System-sub006/pkg/domain"
	dErrors "github.com/CoolCerebralTech/Mirathi-System-sub006/pkg/domain-errors"
	"github.com/CoolCerebralTech/Mirathi-System-sub006/pkg/money"
)

// OpenEstateRequest carries the facts needed to open an estate. Deep
// validation happens in the aggregate constructor.
type OpenEstateRequest struct {
	Name        string
	DeceasedID  id.PersonID
	DateOfDeath time.Time
	OpeningCash money.Money
}

func (r *OpenEstateRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
}

// AddAssetRequest registers a newly discovered item of estate property.
type AddAssetRequest struct {
	Description    string
	Kind           models.AssetKind
	EstimatedValue money.Money
	AcquiredAt     *time.Time
}

func (r *AddAssetRequest) Normalize() {
	r.Description = strings.TrimSpace(r.Description)
}

// RecordDebtRequest registers a creditor claim against the estate.
type RecordDebtRequest struct {
	CreditorName   string
	Kind           models.DebtKind
	Amount         money.Money
	InterestRate   float64
	IsSecured      bool
	SecuredAssetID *id.AssetID
	IncurredAt     time.Time
}

func (r *RecordDebtRequest) Normalize() {
	r.CreditorName = strings.TrimSpace(r.CreditorName)
}

// RecordGiftRequest registers a lifetime transfer for hotchpot
// consideration.
type RecordGiftRequest struct {
	RecipientID           id.PersonID
	RecipientName         string
	Description           string
	Value                 money.Money
	GivenAt               time.Time
	CourtOrderedInclusion bool
}

func (r *RecordGiftRequest) Normalize() {
	r.RecipientName = strings.TrimSpace(r.RecipientName)
	r.Description = strings.TrimSpace(r.Description)
}

// RegisterDependantRequest files a dependency claim against the estate.
type RegisterDependantRequest struct {
	ClaimantID             id.PersonID
	FullName               string
	Relationship           models.Relationship
	MonthlyNeeds           money.Money
	PreviousMonthlySupport money.Money
	DependencyPercent      float64
	DateOfBirth            *time.Time
	Incapacitated          bool
}

func (r *RegisterDependantRequest) Normalize() {
	r.FullName = strings.TrimSpace(r.FullName)
}

// EvidenceRequest attaches a supporting document to a dependency claim.
type EvidenceRequest struct {
	Kind        models.EvidenceKind
	Reference   string
	Description string
}

func (r *EvidenceRequest) Normalize() {
	r.Reference = strings.TrimSpace(r.Reference)
	r.Description = strings.TrimSpace(r.Description)
}

func (r *EvidenceRequest) Validate() error {
	if !r.Kind.IsValid() {
		return dErrors.Newf(dErrors.CodeValidation, "unknown evidence kind %q", r.Kind)
	}
	if r.Reference == "" {
		return dErrors.New(dErrors.CodeValidation, "evidence reference cannot be empty")
	}
	return nil
}
