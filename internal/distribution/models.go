package distribution

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/CoolCerebralTech/Mirathi-System-sub006/internal/estate/models"
	"github.com/CoolCerebralTech/Mirathi-System-sub006/internal/family"
	id "github.com/CoolCerebralTech/Mirathi-System-sub006/pkg/domain"
	"github.com/CoolCerebralTech/Mirathi-System-sub006/pkg/money"
)

// ShareType is the legal form of a beneficiary's entitlement.
type ShareType string

const (
	// ShareTypeLifeInterest is possession and use of the estate for the
	// holder's lifetime, terminating on death or remarriage. It carries no
	// capital value of its own; the capital sits in the matching remainder.
	ShareTypeLifeInterest ShareType = "LIFE_INTEREST"
	// ShareTypeRemainder is the capital interest that vests when a life
	// interest terminates.
	ShareTypeRemainder ShareType = "REMAINDER"
	// ShareTypeAbsolute is outright ownership with immediate vesting.
	ShareTypeAbsolute ShareType = "ABSOLUTE"
)

// BearsValue reports whether a share of this type carries capital that
// counts toward the distributed total. Life interests do not; their capital
// is already counted in the matching remainders.
func (t ShareType) BearsValue() bool {
	return t == ShareTypeRemainder || t == ShareTypeAbsolute
}

// Scenario names the family configuration that drove the allocation.
type Scenario string

const (
	ScenarioSpouseAndChildren Scenario = "SPOUSE_AND_CHILDREN"
	ScenarioSpouseOnly        Scenario = "SPOUSE_ONLY"
	ScenarioChildrenOnly      Scenario = "CHILDREN_ONLY"
	ScenarioParentsOnly       Scenario = "PARENTS_ONLY"
	ScenarioNoEligibleHeirs   Scenario = "NO_ELIGIBLE_HEIRS"
	ScenarioPolygamous        Scenario = "POLYGAMOUS"
)

// BeneficiaryShare is one person's computed entitlement. Percentage is
// always expressed against the full distributable remainder, so absolute
// percentages sum to one hundred across houses.
type BeneficiaryShare struct {
	BeneficiaryID     id.PersonID         `json:"beneficiary_id"`
	BeneficiaryName   string              `json:"beneficiary_name"`
	Relationship      family.Relationship `json:"relationship"`
	ShareType         ShareType           `json:"share_type"`
	Percentage        decimal.Decimal     `json:"percentage"`
	GrossValue        money.Money         `json:"gross_value"`
	HotchpotDeduction money.Money         `json:"hotchpot_deduction"`
	NetValue          money.Money         `json:"net_value"`
	HouseID           *id.HouseID         `json:"house_id,omitempty"`
	HouseName         string              `json:"house_name,omitempty"`
}

// DependantProvision is the maintenance set aside for one verified
// dependant before any beneficiary takes.
type DependantProvision struct {
	DependantID     id.DependantID      `json:"dependant_id"`
	FullName        string              `json:"full_name"`
	Relationship    models.Relationship `json:"relationship"`
	AnnualProvision money.Money         `json:"annual_provision"`
	MinorLumpSum    money.Money         `json:"minor_lump_sum"`
	Total           money.Money         `json:"total"`
}

// HouseAllocation is one polygamous house's slice of the remainder.
type HouseAllocation struct {
	HouseID    id.HouseID      `json:"house_id"`
	HouseName  string          `json:"house_name"`
	Weight     int             `json:"weight"`
	Percentage decimal.Decimal `json:"percentage"`
	Allocation money.Money     `json:"allocation"`
}

// Breakdown traces the money from gross estate to distributable remainder.
type Breakdown struct {
	GrossEstate            money.Money `json:"gross_estate"`
	NetEstate              money.Money `json:"net_estate"`
	HotchpotAdditions      money.Money `json:"hotchpot_additions"`
	AdjustedEstate         money.Money `json:"adjusted_estate"`
	DependantProvisions    money.Money `json:"dependant_provisions"`
	DistributableRemainder money.Money `json:"distributable_remainder"`
}

// Result is a complete intestate distribution order for one estate.
type Result struct {
	EstateID                  id.EstateID          `json:"estate_id"`
	Currency                  string               `json:"currency"`
	Scenario                  Scenario             `json:"scenario"`
	Breakdown                 Breakdown            `json:"breakdown"`
	Provisions                []DependantProvision `json:"provisions,omitempty"`
	Shares                    []BeneficiaryShare   `json:"shares,omitempty"`
	Houses                    []HouseAllocation    `json:"houses,omitempty"`
	Warnings                  []string             `json:"warnings,omitempty"`
	RequiresCourtIntervention bool                 `json:"requires_court_intervention"`
	CalculatedAt              time.Time            `json:"calculated_at"`
}

// DistributedValue totals the capital actually allocated: the net value of
// every value-bearing share. Life interests are excluded so the same money
// is never counted twice.
func (r *Result) DistributedValue() money.Money {
	total := money.Zero(r.Currency)
	for _, share := range r.Shares {
		if share.ShareType.BearsValue() {
			total = money.NewFromDecimal(total.Amount().Add(share.NetValue.Amount()), r.Currency)
		}
	}
	return total
}
