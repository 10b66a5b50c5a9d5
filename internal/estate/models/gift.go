package models

import (
	"time"

	id "github.com/CoolCerebralTech/Mirathi-System-sub006/pkg/domain"
	dErrors "github.com/CoolCerebralTech/Mirathi-System-sub006/pkg/domain-errors"
	"github.com/CoolCerebralTech/Mirathi-System-sub006/pkg/money"
)

// GiftStatus tracks a lifetime gift through contestation.
type GiftStatus string

const (
	GiftStatusConfirmed          GiftStatus = "confirmed"
	GiftStatusContested          GiftStatus = "contested"
	GiftStatusExcluded           GiftStatus = "excluded"
	GiftStatusReclassifiedAsLoan GiftStatus = "reclassified_as_loan"
)

var giftTransitions = map[GiftStatus][]GiftStatus{
	GiftStatusConfirmed: {GiftStatusContested},
	GiftStatusContested: {GiftStatusConfirmed, GiftStatusExcluded, GiftStatusReclassifiedAsLoan},
}

func (s GiftStatus) IsValid() bool {
	switch s {
	case GiftStatusConfirmed, GiftStatusContested, GiftStatusExcluded, GiftStatusReclassifiedAsLoan:
		return true
	}
	return false
}

// CanTransitionTo reports whether the status machine permits moving to target.
func (s GiftStatus) CanTransitionTo(target GiftStatus) bool {
	for _, allowed := range giftTransitions[s] {
		if allowed == target {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transitions are possible.
func (s GiftStatus) IsTerminal() bool {
	return len(giftTransitions[s]) == 0
}

func (s GiftStatus) String() string { return string(s) }

// GiftInterVivos is a gift the deceased made during their lifetime. Gifts to
// beneficiaries are brought into hotchpot when calculating shares so that
// lifetime advances count against inheritance.
//
// Invariants:
//   - RecipientName is non-empty
//   - ValueAtTimeOfGift is positive and never re-valued; appreciation after
//     the gift date is ignored
//   - GivenAt is non-zero
//   - Status transitions follow giftTransitions only
//   - Only confirmed gifts enter hotchpot
type GiftInterVivos struct {
	ID                    id.GiftID   `json:"id"`
	RecipientID           id.PersonID `json:"recipient_id"`
	RecipientName         string      `json:"recipient_name"`
	Description           string      `json:"description"`
	ValueAtTimeOfGift     money.Money `json:"value_at_time_of_gift"`
	GivenAt               time.Time   `json:"given_at"`
	Status                GiftStatus  `json:"status"`
	CourtOrderedInclusion bool        `json:"court_ordered_inclusion"`
	Verified              bool        `json:"verified"`
	CreatedAt             time.Time   `json:"created_at"`
	UpdatedAt             time.Time   `json:"updated_at"`
}

func NewGiftInterVivos(
	giftID id.GiftID,
	recipientID id.PersonID,
	recipientName string,
	description string,
	value money.Money,
	givenAt time.Time,
	courtOrderedInclusion bool,
	now time.Time,
) (*GiftInterVivos, error) {
	if recipientName == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "gift recipient name cannot be empty")
	}
	if len(recipientName) > 128 {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "gift recipient name must be 128 characters or less")
	}
	if recipientID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "gift recipient id cannot be empty")
	}
	if !value.IsPositive() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "gift value must be positive")
	}
	if givenAt.IsZero() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "gift date cannot be empty")
	}
	return &GiftInterVivos{
		ID:                    giftID,
		RecipientID:           recipientID,
		RecipientName:         recipientName,
		Description:           description,
		ValueAtTimeOfGift:     value,
		GivenAt:               givenAt,
		Status:                GiftStatusConfirmed,
		CourtOrderedInclusion: courtOrderedInclusion,
		CreatedAt:             now,
		UpdatedAt:             now,
	}, nil
}

func (g *GiftInterVivos) transitionTo(target GiftStatus, now time.Time) error {
	if !g.Status.CanTransitionTo(target) {
		return dErrors.Newf(dErrors.CodeInvalidTransition,
			"gift cannot move from %s to %s", g.Status, target)
	}
	g.Status = target
	g.UpdatedAt = now
	return nil
}

// Contest challenges the gift's validity or characterization.
func (g *GiftInterVivos) Contest(now time.Time) error {
	return g.transitionTo(GiftStatusContested, now)
}

// Confirm settles a contested gift as a genuine gift.
func (g *GiftInterVivos) Confirm(now time.Time) error {
	return g.transitionTo(GiftStatusConfirmed, now)
}

// Exclude removes a contested gift from all calculations permanently.
func (g *GiftInterVivos) Exclude(now time.Time) error {
	return g.transitionTo(GiftStatusExcluded, now)
}

// ReclassifyAsLoan resolves a contested gift as a loan to the recipient.
// The corresponding receivable is recorded separately in the ledger.
func (g *GiftInterVivos) ReclassifyAsLoan(now time.Time) error {
	return g.transitionTo(GiftStatusReclassifiedAsLoan, now)
}

// MarkVerified records documentary confirmation of the gift's value and date.
func (g *GiftInterVivos) MarkVerified(now time.Time) {
	g.Verified = true
	g.UpdatedAt = now
}

// IsConfirmed reports whether the gift counts for hotchpot.
func (g *GiftInterVivos) IsConfirmed() bool {
	return g.Status == GiftStatusConfirmed
}
