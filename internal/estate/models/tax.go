package models

import (
	"time"

	dErrors "github.com/CoolCerebralTech/Mirathi-System-sub006/pkg/domain-errors"
	"github.com/CoolCerebralTech/Mirathi-System-sub006/pkg/money"
)

// TaxStatus is the revenue authority's view of the estate.
type TaxStatus string

const (
	TaxStatusPending TaxStatus = "pending"
	TaxStatusFiled   TaxStatus = "filed"
	TaxStatusCleared TaxStatus = "cleared"
	TaxStatusExempt  TaxStatus = "exempt"
)

func (s TaxStatus) IsValid() bool {
	switch s {
	case TaxStatusPending, TaxStatusFiled, TaxStatusCleared, TaxStatusExempt:
		return true
	}
	return false
}

func (s TaxStatus) String() string { return string(s) }

// TaxCompliance is the estate's standing with the revenue authority,
// refreshed from the external tax provider. It is a value carried on the
// estate, not an owned entity.
type TaxCompliance struct {
	Status        TaxStatus   `json:"status"`
	Liability     money.Money `json:"liability"`
	Paid          money.Money `json:"paid"`
	CertificateNo string      `json:"certificate_no,omitempty"`
	CheckedAt     time.Time   `json:"checked_at"`
}

// NewTaxCompliance validates a compliance record from the provider.
func NewTaxCompliance(status TaxStatus, liability, paid money.Money, certificateNo string, checkedAt time.Time) (TaxCompliance, error) {
	if !status.IsValid() {
		return TaxCompliance{}, dErrors.Newf(dErrors.CodeInvariantViolation, "unknown tax status %q", status)
	}
	if liability.IsNegative() {
		return TaxCompliance{}, dErrors.New(dErrors.CodeInvariantViolation, "tax liability cannot be negative")
	}
	if paid.IsNegative() {
		return TaxCompliance{}, dErrors.New(dErrors.CodeInvariantViolation, "tax paid cannot be negative")
	}
	if liability.Currency() != "" && paid.Currency() != "" && liability.Currency() != paid.Currency() {
		return TaxCompliance{}, dErrors.New(dErrors.CodeInvariantViolation, "tax liability and paid amounts must share a currency")
	}
	return TaxCompliance{
		Status:        status,
		Liability:     liability,
		Paid:          paid,
		CertificateNo: certificateNo,
		CheckedAt:     checkedAt,
	}, nil
}

// ClearedForDistribution reports whether the revenue authority no longer
// blocks distribution.
func (t TaxCompliance) ClearedForDistribution() bool {
	return t.Status == TaxStatusCleared || t.Status == TaxStatusExempt
}

// Outstanding is the unpaid tax still owed, floored at zero. It reduces the
// estate's net value.
func (t TaxCompliance) Outstanding() money.Money {
	d := t.Liability.Amount().Sub(t.Paid.Amount())
	if d.IsNegative() {
		return money.Zero(t.Liability.Currency())
	}
	return money.NewFromDecimal(d, t.Liability.Currency())
}
