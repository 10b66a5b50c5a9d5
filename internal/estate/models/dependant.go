package models

import (
	"time"

	id "github.com/CoolCerebralTech/Mirathi-System-sub006/pkg/domain"
	dErrors "github.com/CoolCerebralTech/Mirathi-System-sub006/pkg/domain-errors"
	"github.com/CoolCerebralTech/Mirathi-System-sub006/pkg/money"
)

const adultAge = 18

// Relationship classifies a dependency claim under section 29.
type Relationship string

const (
	RelationshipSpouse  Relationship = "spouse"
	RelationshipChild   Relationship = "child"
	RelationshipParent  Relationship = "parent"
	RelationshipSibling Relationship = "sibling"
	RelationshipOther   Relationship = "other"
)

// ParseRelationship constructs a Relationship from external input.
func ParseRelationship(s string) (Relationship, error) {
	r := Relationship(s)
	if !r.IsValid() {
		return "", dErrors.Newf(dErrors.CodeInvalidInput, "unknown relationship %q", s)
	}
	return r, nil
}

func (r Relationship) IsValid() bool {
	switch r {
	case RelationshipSpouse, RelationshipChild, RelationshipParent,
		RelationshipSibling, RelationshipOther:
		return true
	}
	return false
}

// IsAutomatic reports whether dependency is presumed without evidence.
// Spouses and children fall under s.29(a); everyone else must prove
// maintenance under s.29(b).
func (r Relationship) IsAutomatic() bool {
	return r == RelationshipSpouse || r == RelationshipChild
}

// Section names the statutory basis of the claim.
func (r Relationship) Section() string {
	if r.IsAutomatic() {
		return "s.29(a)"
	}
	return "s.29(b)"
}

func (r Relationship) String() string { return string(r) }

// EvidenceKind labels a supporting document for a dependency claim.
type EvidenceKind string

const (
	EvidenceKindBirthCertificate    EvidenceKind = "birth_certificate"
	EvidenceKindMarriageCertificate EvidenceKind = "marriage_certificate"
	EvidenceKindAffidavit           EvidenceKind = "affidavit"
	EvidenceKindSchoolRecords       EvidenceKind = "school_records"
	EvidenceKindMedicalRecords      EvidenceKind = "medical_records"
	EvidenceKindFinancialRecords    EvidenceKind = "financial_records"
	EvidenceKindOther               EvidenceKind = "other"
)

func (k EvidenceKind) IsValid() bool {
	switch k {
	case EvidenceKindBirthCertificate, EvidenceKindMarriageCertificate,
		EvidenceKindAffidavit, EvidenceKindSchoolRecords, EvidenceKindMedicalRecords,
		EvidenceKindFinancialRecords, EvidenceKindOther:
		return true
	}
	return false
}

func (k EvidenceKind) String() string { return string(k) }

// Evidence is a document supporting a dependency claim.
type Evidence struct {
	Kind        EvidenceKind `json:"kind"`
	Reference   string       `json:"reference"`
	Description string       `json:"description,omitempty"`
	SubmittedAt time.Time    `json:"submitted_at"`
}

// DependantStatus tracks a dependency claim through verification.
type DependantStatus string

const (
	DependantStatusPendingVerification DependantStatus = "pending_verification"
	DependantStatusVerified            DependantStatus = "verified"
	DependantStatusRejected            DependantStatus = "rejected"
	DependantStatusSettled             DependantStatus = "settled"
)

var dependantTransitions = map[DependantStatus][]DependantStatus{
	DependantStatusPendingVerification: {DependantStatusVerified, DependantStatusRejected},
	DependantStatusRejected:            {DependantStatusPendingVerification},
	DependantStatusVerified:            {DependantStatusSettled},
}

func (s DependantStatus) IsValid() bool {
	switch s {
	case DependantStatusPendingVerification, DependantStatusVerified,
		DependantStatusRejected, DependantStatusSettled:
		return true
	}
	return false
}

// CanTransitionTo reports whether the status machine permits moving to target.
func (s DependantStatus) CanTransitionTo(target DependantStatus) bool {
	for _, allowed := range dependantTransitions[s] {
		if allowed == target {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transitions are possible.
func (s DependantStatus) IsTerminal() bool {
	return len(dependantTransitions[s]) == 0
}

func (s DependantStatus) String() string { return string(s) }

// LegalDependant is a person claiming reasonable provision from the estate
// under section 29. Verified dependants are provided for before any
// beneficiary share is computed.
//
// Invariants:
//   - FullName is non-empty and at most 128 characters
//   - MonthlyNeeds and PreviousMonthlySupport are never negative
//   - DependencyPercent is within [0, 100]
//   - Verification of an s.29(b) claim requires at least one evidence item
//   - Status transitions follow dependantTransitions only
type LegalDependant struct {
	ID                     id.DependantID  `json:"id"`
	ClaimantID             id.PersonID     `json:"claimant_id"`
	FullName               string          `json:"full_name"`
	Relationship           Relationship    `json:"relationship"`
	MonthlyNeeds           money.Money     `json:"monthly_needs"`
	PreviousMonthlySupport money.Money     `json:"previous_monthly_support"`
	DependencyPercent      float64         `json:"dependency_percent"`
	DateOfBirth            *time.Time      `json:"date_of_birth,omitempty"`
	Incapacitated          bool            `json:"incapacitated"`
	Evidence               []Evidence      `json:"evidence,omitempty"`
	Status                 DependantStatus `json:"status"`
	RejectionReason        string          `json:"rejection_reason,omitempty"`
	CreatedAt              time.Time       `json:"created_at"`
	UpdatedAt              time.Time       `json:"updated_at"`
}

func NewLegalDependant(
	dependantID id.DependantID,
	claimantID id.PersonID,
	fullName string,
	relationship Relationship,
	monthlyNeeds money.Money,
	previousMonthlySupport money.Money,
	dependencyPercent float64,
	dateOfBirth *time.Time,
	incapacitated bool,
	now time.Time,
) (*LegalDependant, error) {
	if fullName == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "dependant name cannot be empty")
	}
	if len(fullName) > 128 {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "dependant name must be 128 characters or less")
	}
	if claimantID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "dependant claimant id cannot be empty")
	}
	if !relationship.IsValid() {
		return nil, dErrors.Newf(dErrors.CodeInvariantViolation, "unknown relationship %q", relationship)
	}
	if monthlyNeeds.IsNegative() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "monthly needs cannot be negative")
	}
	if previousMonthlySupport.IsNegative() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "previous monthly support cannot be negative")
	}
	if dependencyPercent < 0 || dependencyPercent > 100 {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "dependency percent must be between 0 and 100")
	}
	return &LegalDependant{
		ID:                     dependantID,
		ClaimantID:             claimantID,
		FullName:               fullName,
		Relationship:           relationship,
		MonthlyNeeds:           monthlyNeeds,
		PreviousMonthlySupport: previousMonthlySupport,
		DependencyPercent:      dependencyPercent,
		DateOfBirth:            dateOfBirth,
		Incapacitated:          incapacitated,
		Status:                 DependantStatusPendingVerification,
		CreatedAt:              now,
		UpdatedAt:              now,
	}, nil
}

func (d *LegalDependant) transitionTo(target DependantStatus, now time.Time) error {
	if !d.Status.CanTransitionTo(target) {
		return dErrors.Newf(dErrors.CodeInvalidTransition,
			"dependant cannot move from %s to %s", d.Status, target)
	}
	d.Status = target
	d.UpdatedAt = now
	return nil
}

// AddEvidence attaches a supporting document. Settled claims are closed to
// further evidence.
func (d *LegalDependant) AddEvidence(ev Evidence, now time.Time) error {
	if d.Status == DependantStatusSettled {
		return dErrors.New(dErrors.CodeInvalidTransition, "dependant claim is settled")
	}
	if !ev.Kind.IsValid() {
		return dErrors.Newf(dErrors.CodeInvariantViolation, "unknown evidence kind %q", ev.Kind)
	}
	if ev.Reference == "" {
		return dErrors.New(dErrors.CodeInvariantViolation, "evidence reference cannot be empty")
	}
	d.Evidence = append(d.Evidence, ev)
	d.UpdatedAt = now
	return nil
}

// Verify accepts the dependency claim. Claims outside the s.29(a)
// presumption need at least one evidence item on file.
func (d *LegalDependant) Verify(now time.Time) error {
	if !d.Relationship.IsAutomatic() && len(d.Evidence) == 0 {
		return dErrors.Newf(dErrors.CodeValidation,
			"%s claim under %s requires supporting evidence", d.Relationship, d.Relationship.Section())
	}
	if err := d.transitionTo(DependantStatusVerified, now); err != nil {
		return err
	}
	d.RejectionReason = ""
	return nil
}

// Reject declines the dependency claim.
func (d *LegalDependant) Reject(reason string, now time.Time) error {
	if reason == "" {
		return dErrors.New(dErrors.CodeInvariantViolation, "rejection reason cannot be empty")
	}
	if err := d.transitionTo(DependantStatusRejected, now); err != nil {
		return err
	}
	d.RejectionReason = reason
	return nil
}

// Resubmit reopens a rejected claim after new evidence is filed.
func (d *LegalDependant) Resubmit(now time.Time) error {
	return d.transitionTo(DependantStatusPendingVerification, now)
}

// Settle records that the dependant's provision has been paid out.
func (d *LegalDependant) Settle(now time.Time) error {
	return d.transitionTo(DependantStatusSettled, now)
}

func (d *LegalDependant) IsVerified() bool {
	return d.Status == DependantStatusVerified
}

// AnnualProvision is the yearly maintenance estimate: stated monthly needs
// when present, otherwise the share of previous support actually relied on.
func (d *LegalDependant) AnnualProvision() money.Money {
	if d.MonthlyNeeds.IsPositive() {
		return d.MonthlyNeeds.MulInt(12)
	}
	return d.PreviousMonthlySupport.MulFloat(d.DependencyPercent / 100).MulInt(12)
}

// IsMinorAt reports whether the dependant was under 18 at the given date.
func (d *LegalDependant) IsMinorAt(t time.Time) bool {
	if d.DateOfBirth == nil {
		return false
	}
	return ageInYears(*d.DateOfBirth, t) < adultAge
}

// MinorLumpSum estimates the provision owed a minor for the years between
// the date of death and their majority: annual provision times whole years
// remaining until 18. Adults and dependants without a recorded birth date
// get zero.
func (d *LegalDependant) MinorLumpSum(dateOfDeath time.Time) money.Money {
	if !d.IsMinorAt(dateOfDeath) {
		return money.Zero(d.MonthlyNeeds.Currency())
	}
	remaining := adultAge - ageInYears(*d.DateOfBirth, dateOfDeath)
	return d.AnnualProvision().MulInt(int64(remaining))
}

// TotalProvision is the annual provision plus any minor lump sum, the figure
// deducted from the estate before beneficiary shares.
func (d *LegalDependant) TotalProvision(dateOfDeath time.Time) money.Money {
	total, err := d.AnnualProvision().Add(d.MinorLumpSum(dateOfDeath))
	if err != nil {
		return d.AnnualProvision()
	}
	return total
}

// ageInYears is the whole-year age at the reference date.
func ageInYears(dateOfBirth, at time.Time) int {
	years := at.Year() - dateOfBirth.Year()
	anniversary := dateOfBirth.AddDate(years, 0, 0)
	if anniversary.After(at) {
		years--
	}
	return years
}
