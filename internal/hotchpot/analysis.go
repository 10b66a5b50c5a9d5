package hotchpot

import (
	"time"

	"github.com/shopspring/decimal"

	id "github.com/CoolCerebralTech/Mirathi-System-sub006/pkg/domain"
	"github.com/CoolCerebralTech/Mirathi-System-sub006/pkg/money"
)

// EligibleGift is one confirmed gift pulled into the pool, with the reasons
// it qualified.
type EligibleGift struct {
	GiftID        id.GiftID   `json:"gift_id"`
	RecipientID   id.PersonID `json:"recipient_id"`
	RecipientName string      `json:"recipient_name"`
	Value         money.Money `json:"value"`
	GivenAt       time.Time   `json:"given_at"`
	Verified      bool        `json:"verified"`
	Reasons       []string    `json:"reasons"`
}

// RecipientSummary totals the eligible gifts one beneficiary received.
type RecipientSummary struct {
	RecipientID     id.PersonID     `json:"recipient_id"`
	RecipientName   string          `json:"recipient_name"`
	GiftCount       int             `json:"gift_count"`
	TotalValue      money.Money     `json:"total_value"`
	ShareOfAdjusted decimal.Decimal `json:"share_of_adjusted"`
}

// Analysis is the complete hotchpot picture for an estate at a point in
// time. Warnings and recommendations are advisory; they never block a
// distribution on their own.
type Analysis struct {
	EstateID        id.EstateID        `json:"estate_id"`
	Currency        string             `json:"currency"`
	NetEstateValue  money.Money        `json:"net_estate_value"`
	EligibleGifts   []EligibleGift     `json:"eligible_gifts,omitempty"`
	TotalAdditions  money.Money        `json:"total_additions"`
	AdjustedValue   money.Money        `json:"adjusted_value"`
	Recipients      []RecipientSummary `json:"recipients,omitempty"`
	Warnings        []string           `json:"warnings,omitempty"`
	Recommendations []string           `json:"recommendations,omitempty"`
	Criteria        Criteria           `json:"-"`
	ComputedAt      time.Time          `json:"computed_at"`
}

// DeductionFor is the amount already advanced to one recipient: the sum of
// their eligible gifts. Distribution subtracts it from the recipient's
// share, floored at zero.
func (a Analysis) DeductionFor(recipientID id.PersonID) money.Money {
	for _, r := range a.Recipients {
		if r.RecipientID == recipientID {
			return r.TotalValue
		}
	}
	return money.Zero(a.Currency)
}
