package models

import (
	"sort"

	dErrors "github.com/CoolCerebralTech/Mirathi-System-sub006/pkg/domain-errors"
)

// DebtKind classifies a debt for statutory priority assignment.
type DebtKind string

const (
	DebtKindFuneralExpense      DebtKind = "funeral_expense"
	DebtKindTestamentaryExpense DebtKind = "testamentary_expense"
	DebtKindMortgage            DebtKind = "mortgage"
	DebtKindSecuredLoan         DebtKind = "secured_loan"
	DebtKindTax                 DebtKind = "tax"
	DebtKindRates               DebtKind = "rates"
	DebtKindWages               DebtKind = "wages"
	DebtKindMedicalBill         DebtKind = "medical_bill"
	DebtKindPersonalLoan        DebtKind = "personal_loan"
	DebtKindSupplierCredit      DebtKind = "supplier_credit"
	DebtKindOtherUnsecured      DebtKind = "other_unsecured"
)

// ParseDebtKind constructs a DebtKind from external input.
func ParseDebtKind(s string) (DebtKind, error) {
	k := DebtKind(s)
	if !k.IsValid() {
		return "", dErrors.Newf(dErrors.CodeInvalidInput, "unknown debt kind %q", s)
	}
	return k, nil
}

// IsValid checks the kind against the supported set.
func (k DebtKind) IsValid() bool {
	switch k {
	case DebtKindFuneralExpense, DebtKindTestamentaryExpense, DebtKindMortgage,
		DebtKindSecuredLoan, DebtKindTax, DebtKindRates, DebtKindWages,
		DebtKindMedicalBill, DebtKindPersonalLoan, DebtKindSupplierCredit,
		DebtKindOtherUnsecured:
		return true
	}
	return false
}

func (k DebtKind) String() string { return string(k) }

// Statutory payment tiers under section 45. Tier 1 is paid first; the
// statute-barred pseudo-tier ranks below every enforceable claim.
const (
	TierFuneralExpenses      = 1
	TierTestamentaryExpenses = 2
	TierSecuredDebts         = 3
	TierTaxesRatesWages      = 4
	TierUnsecuredGeneral     = 5
	TierStatuteBarred        = 6
)

// DebtPriority is the value object binding a debt to its statutory rank.
// Two debts compare by tier alone; Label and Citation exist for rendering
// orders of payment and court schedules.
type DebtPriority struct {
	Tier     int    `json:"tier"`
	Label    string `json:"label"`
	Citation string `json:"citation"`
}

// PriorityForKind maps a debt kind to its statutory tier. This mapping is the
// debt priority engine: every debt passes through here exactly once at
// creation, and again only if it becomes statute-barred.
func PriorityForKind(kind DebtKind) DebtPriority {
	switch kind {
	case DebtKindFuneralExpense:
		return DebtPriority{Tier: TierFuneralExpenses, Label: "Funeral expenses", Citation: "s.45(1)(a)"}
	case DebtKindTestamentaryExpense:
		return DebtPriority{Tier: TierTestamentaryExpenses, Label: "Testamentary and administration expenses", Citation: "s.45(1)(b)"}
	case DebtKindMortgage, DebtKindSecuredLoan:
		return DebtPriority{Tier: TierSecuredDebts, Label: "Secured creditors", Citation: "s.45(1)(c)"}
	case DebtKindTax, DebtKindRates, DebtKindWages:
		return DebtPriority{Tier: TierTaxesRatesWages, Label: "Taxes, rates and wages", Citation: "s.45(1)(d)"}
	default:
		return DebtPriority{Tier: TierUnsecuredGeneral, Label: "Unsecured creditors", Citation: "s.45(1)(e)"}
	}
}

// StatuteBarredPriority is assigned when a claim passes its limitation
// period. It ranks below all enforceable tiers.
func StatuteBarredPriority() DebtPriority {
	return DebtPriority{Tier: TierStatuteBarred, Label: "Statute-barred claims", Citation: "Limitation of Actions Act"}
}

// Compare orders two priorities: negative when p is senior to o (paid
// earlier), zero when they share a tier.
func (p DebtPriority) Compare(o DebtPriority) int {
	return p.Tier - o.Tier
}

// Senior reports whether p must be retired before o.
func (p DebtPriority) Senior(o DebtPriority) bool {
	return p.Tier < o.Tier
}

// IsCritical reports whether outstanding debts at this tier block
// distribution (tiers 1-4).
func (p DebtPriority) IsCritical() bool {
	return p.Tier <= TierTaxesRatesWages
}

// SortDebtsByPriority orders debts for payment scheduling: statutory tier
// first, then creation time, then id. The statute leaves same-tier ordering
// undefined; creation order is the documented tie-break here so payment
// schedules are reproducible.
func SortDebtsByPriority(debts []*Debt) {
	sort.SliceStable(debts, func(i, j int) bool {
		if c := debts[i].Priority.Compare(debts[j].Priority); c != 0 {
			return c < 0
		}
		if !debts[i].CreatedAt.Equal(debts[j].CreatedAt) {
			return debts[i].CreatedAt.Before(debts[j].CreatedAt)
		}
		return debts[i].ID.String() < debts[j].ID.String()
	})
}
