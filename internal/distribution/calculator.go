// Package distribution computes per-beneficiary shares for an intestate
// estate. The calculator is pure: given an estate and its family structure
// it produces a distribution order, or a typed error naming every reason
// the estate cannot be distributed yet.
package distribution

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/CoolCerebralTech/Mirathi-System-sub006/internal/estate/models"
	"github.com/CoolCerebralTech/Mirathi-System-sub006/internal/family"
	"github.com/CoolCerebralTech/Mirathi-System-sub006/internal/hotchpot"
	"github.com/CoolCerebralTech/Mirathi-System-sub006/internal/specification"
	id "github.com/CoolCerebralTech/Mirathi-System-sub006/pkg/domain"
	dErrors "github.com/CoolCerebralTech/Mirathi-System-sub006/pkg/domain-errors"
	"github.com/CoolCerebralTech/Mirathi-System-sub006/pkg/money"
	pstrings "github.com/CoolCerebralTech/Mirathi-System-sub006/pkg/platform/strings"
)

var (
	hundred = decimal.NewFromInt(100)
	// validationTolerance absorbs decimal division tails when checking that
	// percentages and totals reconcile.
	validationTolerance = decimal.NewFromFloat(0.01)
)

// Calculator derives distribution orders. Safe for concurrent use.
type Calculator struct {
	hotchpot *hotchpot.Calculator
}

// CalculatorOption configures a Calculator.
type CalculatorOption func(*Calculator)

// WithHotchpotCriteria overrides the default hotchpot criteria.
func WithHotchpotCriteria(criteria hotchpot.Criteria) CalculatorOption {
	return func(c *Calculator) {
		c.hotchpot = hotchpot.NewCalculator(criteria)
	}
}

// NewCalculator constructs a calculator with default hotchpot criteria.
func NewCalculator(opts ...CalculatorOption) *Calculator {
	c := &Calculator{hotchpot: hotchpot.NewCalculator(hotchpot.DefaultCriteria())}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// DetermineScenario classifies the family configuration. A polygamous
// structure with no living house members has no eligible heirs.
func DetermineScenario(f *family.FamilyStructure) Scenario {
	if f.Polygamous {
		for _, h := range f.Houses {
			if h.Weight() > 0 {
				return ScenarioPolygamous
			}
		}
		return ScenarioNoEligibleHeirs
	}
	switch {
	case f.HasLivingSpouse() && f.HasLivingChildren():
		return ScenarioSpouseAndChildren
	case f.HasLivingSpouse():
		return ScenarioSpouseOnly
	case f.HasLivingChildren():
		return ScenarioChildrenOnly
	case f.HasLivingParents():
		return ScenarioParentsOnly
	default:
		return ScenarioNoEligibleHeirs
	}
}

// CalculateIntestateDistribution produces the distribution order for an
// estate. The estate must pass every readiness predicate; a failure returns
// distribution_not_allowed with all blocking reasons in the error detail.
func (c *Calculator) CalculateIntestateDistribution(e *models.Estate, fam *family.FamilyStructure, now time.Time) (*Result, error) {
	if e == nil {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "estate is required")
	}
	if err := fam.Validate(); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInvalidInput, "family structure rejected")
	}

	if reasons := specification.BlockingReasons(e); len(reasons) > 0 {
		return nil, dErrors.New(dErrors.CodeDistributionNotAllowed,
			"estate is not ready for distribution").
			WithDetail("blocking_reasons", strings.Join(reasons, "; "))
	}

	analysis := c.hotchpot.Analyze(e, now)

	result := &Result{
		EstateID:     e.ID,
		Currency:     e.Currency,
		Scenario:     DetermineScenario(fam),
		CalculatedAt: now,
	}
	result.Warnings = append(result.Warnings, analysis.Warnings...)

	provisions, provisionTotal := dependantProvisions(e)
	result.Provisions = provisions

	remainder := minus(analysis.AdjustedValue, provisionTotal, e.Currency)
	result.Breakdown = Breakdown{
		GrossEstate:            plus(e.GrossAssetValue(), e.CashOnHand, e.Currency),
		NetEstate:              e.NetValue,
		HotchpotAdditions:      analysis.TotalAdditions,
		AdjustedEstate:         analysis.AdjustedValue,
		DependantProvisions:    provisionTotal,
		DistributableRemainder: remainder,
	}

	base := remainder
	if remainder.IsNegative() {
		result.RequiresCourtIntervention = true
		result.Warnings = append(result.Warnings,
			"dependant provisions exceed the adjusted estate; court directions are required before distribution")
		base = money.Zero(e.Currency)
	}

	switch result.Scenario {
	case ScenarioSpouseAndChildren:
		c.allocateSpouseAndChildren(result, fam.LivingSpouses(), fam.LivingChildren(), base, hundred, nil, "")
	case ScenarioSpouseOnly:
		c.allocateAbsolute(result, fam.LivingSpouses(), base, hundred, nil, "")
	case ScenarioChildrenOnly:
		c.allocateAbsolute(result, fam.LivingChildren(), base, hundred, nil, "")
	case ScenarioParentsOnly:
		c.allocateAbsolute(result, fam.LivingParents(), base, hundred, nil, "")
	case ScenarioPolygamous:
		c.allocatePolygamous(result, fam, base)
	case ScenarioNoEligibleHeirs:
		result.Warnings = append(result.Warnings,
			"no eligible heirs survive the deceased; the estate passes to the state as bona vacantia")
	}

	c.applyHotchpotDeductions(result, analysis)

	if err := c.validate(result); err != nil {
		return nil, err
	}

	result.Warnings = pstrings.DedupeAndTrim(result.Warnings)
	return result, nil
}

// allocateSpouseAndChildren gives the spouses a life interest over the whole
// allocation and splits the capital remainder equally among the children.
func (c *Calculator) allocateSpouseAndChildren(result *Result, spouses, children []family.FamilyMember, base money.Money, basePct decimal.Decimal, houseID *id.HouseID, houseName string) {
	spouseValues := splitEqual(base, len(spouses), result.Currency)
	spousePct := basePct.Div(decimal.NewFromInt(int64(len(spouses))))
	for i, spouse := range spouses {
		result.Shares = append(result.Shares, BeneficiaryShare{
			BeneficiaryID:     spouse.ID,
			BeneficiaryName:   spouse.FullName,
			Relationship:      spouse.Relationship,
			ShareType:         ShareTypeLifeInterest,
			Percentage:        spousePct,
			GrossValue:        spouseValues[i],
			HotchpotDeduction: money.Zero(result.Currency),
			NetValue:          spouseValues[i],
			HouseID:           houseID,
			HouseName:         houseName,
		})
	}

	childValues := splitEqual(base, len(children), result.Currency)
	childPct := basePct.Div(decimal.NewFromInt(int64(len(children))))
	for i, child := range children {
		result.Shares = append(result.Shares, BeneficiaryShare{
			BeneficiaryID:     child.ID,
			BeneficiaryName:   child.FullName,
			Relationship:      child.Relationship,
			ShareType:         ShareTypeRemainder,
			Percentage:        childPct,
			GrossValue:        childValues[i],
			HotchpotDeduction: money.Zero(result.Currency),
			NetValue:          childValues[i],
			HouseID:           houseID,
			HouseName:         houseName,
		})
	}
}

// allocateAbsolute splits the allocation outright and equally.
func (c *Calculator) allocateAbsolute(result *Result, members []family.FamilyMember, base money.Money, basePct decimal.Decimal, houseID *id.HouseID, houseName string) {
	values := splitEqual(base, len(members), result.Currency)
	pct := basePct.Div(decimal.NewFromInt(int64(len(members))))
	for i, m := range members {
		result.Shares = append(result.Shares, BeneficiaryShare{
			BeneficiaryID:     m.ID,
			BeneficiaryName:   m.FullName,
			Relationship:      m.Relationship,
			ShareType:         ShareTypeAbsolute,
			Percentage:        pct,
			GrossValue:        values[i],
			HotchpotDeduction: money.Zero(result.Currency),
			NetValue:          values[i],
			HouseID:           houseID,
			HouseName:         houseName,
		})
	}
}

// allocatePolygamous splits the remainder across houses in proportion to
// their weights, then allocates each house's slice with the monogamous
// rules applied to that house's widow and children.
func (c *Calculator) allocatePolygamous(result *Result, fam *family.FamilyStructure, base money.Money) {
	var houses []family.PolygamousHouse
	var weights []int
	totalWeight := 0
	for _, h := range fam.Houses {
		if w := h.Weight(); w > 0 {
			houses = append(houses, h)
			weights = append(weights, w)
			totalWeight += w
		}
	}

	allocations := splitByWeight(base, weights, result.Currency)
	for i, h := range houses {
		housePct := decimal.NewFromInt(int64(weights[i])).Mul(hundred).
			Div(decimal.NewFromInt(int64(totalWeight)))
		houseID := h.ID

		result.Houses = append(result.Houses, HouseAllocation{
			HouseID:    houseID,
			HouseName:  h.Name,
			Weight:     weights[i],
			Percentage: housePct,
			Allocation: allocations[i],
		})

		var spouses []family.FamilyMember
		if h.WidowAlive() {
			spouses = []family.FamilyMember{*h.Widow}
		}
		children := h.LivingChildren()

		switch {
		case len(spouses) > 0 && len(children) > 0:
			c.allocateSpouseAndChildren(result, spouses, children, allocations[i], housePct, &houseID, h.Name)
		case len(spouses) > 0:
			c.allocateAbsolute(result, spouses, allocations[i], housePct, &houseID, h.Name)
		default:
			c.allocateAbsolute(result, children, allocations[i], housePct, &houseID, h.Name)
		}
	}
}

// applyHotchpotDeductions charges each beneficiary's lifetime advances
// against their value-bearing shares, floored at zero. The excess of an
// advance over the share is never clawed back.
func (c *Calculator) applyHotchpotDeductions(result *Result, analysis hotchpot.Analysis) {
	remaining := make(map[id.PersonID]decimal.Decimal)
	for i := range result.Shares {
		share := &result.Shares[i]
		if !share.ShareType.BearsValue() {
			continue
		}
		deduction := analysis.DeductionFor(share.BeneficiaryID)
		if deduction.IsZero() {
			continue
		}
		rem, ok := remaining[share.BeneficiaryID]
		if !ok {
			rem = deduction.Amount()
		}
		applied := decimal.Min(rem, share.GrossValue.Amount())
		remaining[share.BeneficiaryID] = rem.Sub(applied)

		share.HotchpotDeduction = money.NewFromDecimal(applied, result.Currency)
		share.NetValue = money.NewFromDecimal(share.GrossValue.Amount().Sub(applied), result.Currency)

		if rem.GreaterThan(share.GrossValue.Amount()) {
			result.Warnings = append(result.Warnings,
				share.BeneficiaryName+"'s lifetime advances exceed their share; the excess is not clawed back")
		}
	}
}

// validate enforces the calculator's own output invariants. A violation is
// a bug in the allocation logic, never a caller error.
func (c *Calculator) validate(result *Result) error {
	valueBearingPct := decimal.Zero
	hasValueBearing := false
	type scope struct{ life, remainder bool }
	scopes := make(map[string]*scope)

	for _, share := range result.Shares {
		key := ""
		if share.HouseID != nil {
			key = share.HouseID.String()
		}
		sc, ok := scopes[key]
		if !ok {
			sc = &scope{}
			scopes[key] = sc
		}
		switch share.ShareType {
		case ShareTypeLifeInterest:
			sc.life = true
		case ShareTypeRemainder:
			sc.remainder = true
		}
		if share.ShareType.BearsValue() {
			hasValueBearing = true
			valueBearingPct = valueBearingPct.Add(share.Percentage)
		}
	}

	if hasValueBearing {
		if diff := valueBearingPct.Sub(hundred).Abs(); diff.GreaterThan(validationTolerance) {
			return dErrors.Newf(dErrors.CodeInternal,
				"distribution validation failed: capital percentages sum to %s, want 100", valueBearingPct)
		}
	}

	for key, sc := range scopes {
		if sc.life && !sc.remainder {
			return dErrors.Newf(dErrors.CodeInternal,
				"distribution validation failed: life interest without a matching remainder (scope %q)", key)
		}
	}

	distributed := result.DistributedValue()
	base := result.Breakdown.DistributableRemainder
	if base.IsNegative() {
		base = money.Zero(result.Currency)
	}
	if distributed.Amount().Sub(base.Amount()).GreaterThan(validationTolerance) {
		return dErrors.Newf(dErrors.CodeInternal,
			"distribution validation failed: distributed %s exceeds remainder %s", distributed, base)
	}

	if !result.RequiresCourtIntervention {
		committed := distributed.Amount().Add(result.Breakdown.DependantProvisions.Amount())
		if committed.Sub(result.Breakdown.AdjustedEstate.Amount()).GreaterThan(validationTolerance) {
			return dErrors.Newf(dErrors.CodeInternal,
				"distribution validation failed: allocations %s exceed the adjusted estate %s",
				money.NewFromDecimal(committed, result.Currency), result.Breakdown.AdjustedEstate)
		}
	}
	return nil
}

func dependantProvisions(e *models.Estate) ([]DependantProvision, money.Money) {
	deps := e.VerifiedDependants()
	total := money.Zero(e.Currency)
	out := make([]DependantProvision, 0, len(deps))
	for _, d := range deps {
		provision := DependantProvision{
			DependantID:     d.ID,
			FullName:        d.FullName,
			Relationship:    d.Relationship,
			AnnualProvision: d.AnnualProvision(),
			MinorLumpSum:    d.MinorLumpSum(e.DateOfDeath),
			Total:           d.TotalProvision(e.DateOfDeath),
		}
		out = append(out, provision)
		total = plus(total, provision.Total, e.Currency)
	}
	return out, total
}

// splitEqual divides total into n parts rounded to the cent; the last part
// absorbs the rounding remainder so the parts sum back to total exactly.
func splitEqual(total money.Money, n int, currency string) []money.Money {
	if n <= 0 {
		return nil
	}
	each := total.Amount().Div(decimal.NewFromInt(int64(n))).Round(2)
	out := make([]money.Money, n)
	running := decimal.Zero
	for i := 0; i < n-1; i++ {
		out[i] = money.NewFromDecimal(each, currency)
		running = running.Add(each)
	}
	out[n-1] = money.NewFromDecimal(total.Amount().Sub(running), currency)
	return out
}

// splitByWeight divides total in proportion to the weights, again letting
// the last part absorb the rounding remainder.
func splitByWeight(total money.Money, weights []int, currency string) []money.Money {
	if len(weights) == 0 {
		return nil
	}
	sum := 0
	for _, w := range weights {
		sum += w
	}
	out := make([]money.Money, len(weights))
	running := decimal.Zero
	for i, w := range weights {
		if i == len(weights)-1 {
			out[i] = money.NewFromDecimal(total.Amount().Sub(running), currency)
			break
		}
		part := total.Amount().
			Mul(decimal.NewFromInt(int64(w))).
			Div(decimal.NewFromInt(int64(sum))).
			Round(2)
		out[i] = money.NewFromDecimal(part, currency)
		running = running.Add(part)
	}
	return out
}

func plus(a, b money.Money, currency string) money.Money {
	return money.NewFromDecimal(a.Amount().Add(b.Amount()), currency)
}

func minus(a, b money.Money, currency string) money.Money {
	return money.NewFromDecimal(a.Amount().Sub(b.Amount()), currency)
}
