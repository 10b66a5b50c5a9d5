package models

import (
	"time"

	id "github.com/CoolCerebralTech/Mirathi-System-sub006/pkg/domain"
	dErrors "github.com/CoolCerebralTech/Mirathi-System-sub006/pkg/domain-errors"
	"github.com/CoolCerebralTech/Mirathi-System-sub006/pkg/money"
)

// DebtStatus tracks a creditor claim through verification, dispute, and
// payment.
type DebtStatus string

const (
	DebtStatusOutstanding         DebtStatus = "outstanding"
	DebtStatusPartiallyPaid       DebtStatus = "partially_paid"
	DebtStatusDisputed            DebtStatus = "disputed"
	DebtStatusPendingVerification DebtStatus = "pending_verification"
	DebtStatusInCollection        DebtStatus = "in_collection"
	DebtStatusUnderReview         DebtStatus = "under_review"
	DebtStatusSettled             DebtStatus = "settled"
	DebtStatusWrittenOff          DebtStatus = "written_off"
	DebtStatusForgiven            DebtStatus = "forgiven"
	DebtStatusStatuteBarred       DebtStatus = "statute_barred"
	DebtStatusDischarged          DebtStatus = "discharged"
	DebtStatusConverted           DebtStatus = "converted"
)

// debtTransitions is the full lifecycle graph. Forgiven, discharged, and
// converted claims arrive only through imported records; nothing transitions
// into them here.
var debtTransitions = map[DebtStatus][]DebtStatus{
	DebtStatusOutstanding: {
		DebtStatusPartiallyPaid, DebtStatusDisputed, DebtStatusPendingVerification,
		DebtStatusInCollection, DebtStatusSettled, DebtStatusWrittenOff,
		DebtStatusStatuteBarred,
	},
	DebtStatusPartiallyPaid: {
		DebtStatusSettled, DebtStatusDisputed, DebtStatusInCollection,
		DebtStatusWrittenOff,
	},
	DebtStatusDisputed: {
		DebtStatusOutstanding, DebtStatusUnderReview, DebtStatusWrittenOff,
	},
	DebtStatusPendingVerification: {
		DebtStatusOutstanding, DebtStatusDisputed, DebtStatusWrittenOff,
	},
	DebtStatusInCollection: {
		DebtStatusSettled, DebtStatusPartiallyPaid, DebtStatusWrittenOff,
	},
	DebtStatusUnderReview: {
		DebtStatusOutstanding, DebtStatusWrittenOff,
	},
}

func (s DebtStatus) IsValid() bool {
	switch s {
	case DebtStatusOutstanding, DebtStatusPartiallyPaid, DebtStatusDisputed,
		DebtStatusPendingVerification, DebtStatusInCollection, DebtStatusUnderReview,
		DebtStatusSettled, DebtStatusWrittenOff, DebtStatusForgiven,
		DebtStatusStatuteBarred, DebtStatusDischarged, DebtStatusConverted:
		return true
	}
	return false
}

// CanTransitionTo reports whether the status machine permits moving to target.
func (s DebtStatus) CanTransitionTo(target DebtStatus) bool {
	for _, allowed := range debtTransitions[s] {
		if allowed == target {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the claim is closed and no further transitions
// are possible.
func (s DebtStatus) IsTerminal() bool {
	return len(debtTransitions[s]) == 0
}

func (s DebtStatus) String() string { return string(s) }

// Debt is a creditor claim against the estate.
//
// Invariants:
//   - CreditorName is non-empty and at most 128 characters
//   - InitialAmount is positive; 0 <= OutstandingBalance <= InitialAmount
//   - InterestRate is within [0, 1]
//   - SecuredAssetID is set if and only if IsSecured
//   - Priority follows PriorityForKind, replaced by the statute-barred
//     pseudo-tier when the claim lapses
//   - Status transitions follow debtTransitions only
type Debt struct {
	ID                 id.DebtID    `json:"id"`
	CreditorName       string       `json:"creditor_name"`
	Kind               DebtKind     `json:"kind"`
	InitialAmount      money.Money  `json:"initial_amount"`
	OutstandingBalance money.Money  `json:"outstanding_balance"`
	InterestRate       float64      `json:"interest_rate"`
	Priority           DebtPriority `json:"priority"`
	IsSecured          bool         `json:"is_secured"`
	SecuredAssetID     *id.AssetID  `json:"secured_asset_id,omitempty"`
	Status             DebtStatus   `json:"status"`
	DisputeReason      string       `json:"dispute_reason,omitempty"`
	IncurredAt         time.Time    `json:"incurred_at"`
	CreatedAt          time.Time    `json:"created_at"`
	UpdatedAt          time.Time    `json:"updated_at"`
}

func NewDebt(
	debtID id.DebtID,
	creditorName string,
	kind DebtKind,
	initialAmount money.Money,
	interestRate float64,
	isSecured bool,
	securedAssetID *id.AssetID,
	incurredAt time.Time,
	now time.Time,
) (*Debt, error) {
	if creditorName == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "creditor name cannot be empty")
	}
	if len(creditorName) > 128 {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "creditor name must be 128 characters or less")
	}
	if !kind.IsValid() {
		return nil, dErrors.Newf(dErrors.CodeInvariantViolation, "unknown debt kind %q", kind)
	}
	if !initialAmount.IsPositive() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "debt amount must be positive")
	}
	if interestRate < 0 || interestRate > 1 {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "interest rate must be between 0 and 1")
	}
	if isSecured && (securedAssetID == nil || securedAssetID.IsNil()) {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "secured debt requires a secured asset reference")
	}
	if !isSecured && securedAssetID != nil {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "unsecured debt cannot reference a secured asset")
	}
	return &Debt{
		ID:                 debtID,
		CreditorName:       creditorName,
		Kind:               kind,
		InitialAmount:      initialAmount,
		OutstandingBalance: initialAmount,
		InterestRate:       interestRate,
		Priority:           PriorityForKind(kind),
		IsSecured:          isSecured,
		SecuredAssetID:     securedAssetID,
		Status:             DebtStatusOutstanding,
		IncurredAt:         incurredAt,
		CreatedAt:          now,
		UpdatedAt:          now,
	}, nil
}

func (d *Debt) transitionTo(target DebtStatus, now time.Time) error {
	if !d.Status.CanTransitionTo(target) {
		return dErrors.Newf(dErrors.CodeInvalidTransition,
			"debt cannot move from %s to %s", d.Status, target)
	}
	d.Status = target
	d.UpdatedAt = now
	return nil
}

// AcceptsPayment reports whether the claim is in a state where payments
// apply. Disputed and closed claims do not take payments.
func (d *Debt) AcceptsPayment() bool {
	switch d.Status {
	case DebtStatusOutstanding, DebtStatusPartiallyPaid, DebtStatusInCollection:
		return true
	}
	return false
}

// RecordPayment reduces the outstanding balance and advances the status:
// settled at zero balance, partially paid otherwise.
func (d *Debt) RecordPayment(amount money.Money, now time.Time) error {
	if !d.AcceptsPayment() {
		return dErrors.Newf(dErrors.CodeInvalidTransition,
			"debt in status %s cannot accept payment", d.Status)
	}
	if !amount.IsPositive() {
		return dErrors.New(dErrors.CodeInvariantViolation, "payment amount must be positive")
	}
	remaining, err := d.OutstandingBalance.Sub(amount)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInvariantViolation, "payment currency mismatch")
	}
	if remaining.IsNegative() {
		return dErrors.New(dErrors.CodeInvariantViolation, "payment exceeds outstanding balance")
	}
	target := DebtStatusPartiallyPaid
	if remaining.IsZero() {
		target = DebtStatusSettled
	}
	if target != d.Status {
		if err := d.transitionTo(target, now); err != nil {
			return err
		}
	}
	d.OutstandingBalance = remaining
	d.UpdatedAt = now
	return nil
}

// Dispute contests the claim's validity or amount.
func (d *Debt) Dispute(reason string, now time.Time) error {
	if reason == "" {
		return dErrors.New(dErrors.CodeInvariantViolation, "dispute reason cannot be empty")
	}
	if err := d.transitionTo(DebtStatusDisputed, now); err != nil {
		return err
	}
	d.DisputeReason = reason
	return nil
}

// BeginReview escalates a disputed claim to formal review.
func (d *Debt) BeginReview(now time.Time) error {
	return d.transitionTo(DebtStatusUnderReview, now)
}

// ResolveDispute restores a disputed or reviewed claim to outstanding.
func (d *Debt) ResolveDispute(now time.Time) error {
	if d.Status != DebtStatusDisputed && d.Status != DebtStatusUnderReview {
		return dErrors.New(dErrors.CodeInvalidTransition, "debt is not disputed")
	}
	if err := d.transitionTo(DebtStatusOutstanding, now); err != nil {
		return err
	}
	d.DisputeReason = ""
	return nil
}

// RequireVerification parks a claim pending documentary proof.
func (d *Debt) RequireVerification(now time.Time) error {
	return d.transitionTo(DebtStatusPendingVerification, now)
}

// ConfirmVerified returns a verified claim to the payable pool.
func (d *Debt) ConfirmVerified(now time.Time) error {
	if d.Status != DebtStatusPendingVerification {
		return dErrors.New(dErrors.CodeInvalidTransition, "debt is not pending verification")
	}
	return d.transitionTo(DebtStatusOutstanding, now)
}

// SendToCollection hands the claim to a collection process.
func (d *Debt) SendToCollection(now time.Time) error {
	return d.transitionTo(DebtStatusInCollection, now)
}

// MarkStatuteBarred closes a claim whose limitation period has lapsed and
// demotes it below every enforceable tier.
func (d *Debt) MarkStatuteBarred(now time.Time) error {
	if err := d.transitionTo(DebtStatusStatuteBarred, now); err != nil {
		return err
	}
	d.Priority = StatuteBarredPriority()
	return nil
}

// WriteOff abandons the claim as uncollectible.
func (d *Debt) WriteOff(now time.Time) error {
	return d.transitionTo(DebtStatusWrittenOff, now)
}

// HasOutstandingBalance reports whether the claim still reduces the estate:
// an open status with money owing.
func (d *Debt) HasOutstandingBalance() bool {
	return !d.Status.IsTerminal() && d.OutstandingBalance.IsPositive()
}

// AwaitingPayment reports whether the claim sits in the payment queue. Only
// outstanding and partially paid claims hold up junior creditors; disputed
// and parked claims are resolved through their own lifecycle first.
func (d *Debt) AwaitingPayment() bool {
	return d.Status == DebtStatusOutstanding || d.Status == DebtStatusPartiallyPaid
}

func (d *Debt) IsSettled() bool  { return d.Status == DebtStatusSettled }
func (d *Debt) IsDisputed() bool { return d.Status == DebtStatusDisputed }
