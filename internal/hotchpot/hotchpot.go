// Package hotchpot brings lifetime gifts back into the estate before shares
// are computed, so that advances the deceased made while alive count against
// the recipient's inheritance. Only confirmed gifts qualify, and only when
// they are large, recent, or ordered in by a court.
package hotchpot

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/CoolCerebralTech/Mirathi-System-sub006/internal/estate/models"
	"github.com/CoolCerebralTech/Mirathi-System-sub006/pkg/money"
	pstrings "github.com/CoolCerebralTech/Mirathi-System-sub006/pkg/platform/strings"
)

// Criteria tunes which confirmed gifts are pulled into hotchpot and when
// the analysis raises advisory warnings. All percents are fractions of one.
type Criteria struct {
	// PercentOfEstateThreshold marks a gift as material when its value
	// exceeds this fraction of the net estate. Applied only while the net
	// estate is positive.
	PercentOfEstateThreshold decimal.Decimal
	// YearsBeforeDeath pulls in gifts given within this many years of the
	// date of death regardless of size.
	YearsBeforeDeath int
	// IncludeCourtOrdered honors court orders directing a gift into the pool.
	IncludeCourtOrdered bool
	// HighValueWarningPercent flags a single recipient holding more than
	// this fraction of the adjusted pool.
	HighValueWarningPercent decimal.Decimal
	// InflationWarningPercent flags additions that grow the estate by more
	// than this fraction of its net value.
	InflationWarningPercent decimal.Decimal
	// DeathbedWindowMonths flags gifts given within this many months of
	// death for undue-influence review.
	DeathbedWindowMonths int
}

// DefaultCriteria returns the statutory defaults used in production.
func DefaultCriteria() Criteria {
	return Criteria{
		PercentOfEstateThreshold: decimal.NewFromFloat(0.10),
		YearsBeforeDeath:         5,
		IncludeCourtOrdered:      true,
		HighValueWarningPercent:  decimal.NewFromFloat(0.30),
		InflationWarningPercent:  decimal.NewFromFloat(0.50),
		DeathbedWindowMonths:     6,
	}
}

// Calculator applies one set of criteria to estates.
type Calculator struct {
	criteria Criteria
}

// NewCalculator constructs a calculator. Zero-valued criteria fields fall
// back to the defaults so a partially configured Criteria stays safe.
func NewCalculator(criteria Criteria) *Calculator {
	defaults := DefaultCriteria()
	if criteria.PercentOfEstateThreshold.IsZero() {
		criteria.PercentOfEstateThreshold = defaults.PercentOfEstateThreshold
	}
	if criteria.YearsBeforeDeath == 0 {
		criteria.YearsBeforeDeath = defaults.YearsBeforeDeath
	}
	if criteria.HighValueWarningPercent.IsZero() {
		criteria.HighValueWarningPercent = defaults.HighValueWarningPercent
	}
	if criteria.InflationWarningPercent.IsZero() {
		criteria.InflationWarningPercent = defaults.InflationWarningPercent
	}
	if criteria.DeathbedWindowMonths == 0 {
		criteria.DeathbedWindowMonths = defaults.DeathbedWindowMonths
	}
	return &Calculator{criteria: criteria}
}

// Analyze builds the full hotchpot picture for an estate: which gifts come
// back in, the adjusted pool, per-recipient totals, and advisory findings.
func (c *Calculator) Analyze(e *models.Estate, now time.Time) Analysis {
	analysis := Analysis{
		EstateID:       e.ID,
		Currency:       e.Currency,
		NetEstateValue: e.NetValue,
		Criteria:       c.criteria,
		ComputedAt:     now,
	}

	additions := decimal.Zero
	var warnings, recommendations []string
	unverified := 0
	deathbed := 0
	contested := 0

	for _, g := range e.Gifts {
		if g.Status == models.GiftStatusContested {
			contested++
		}
		eligible, reasons := c.evaluate(g, e.NetValue, e.DateOfDeath)
		if !eligible {
			continue
		}
		analysis.EligibleGifts = append(analysis.EligibleGifts, EligibleGift{
			GiftID:        g.ID,
			RecipientID:   g.RecipientID,
			RecipientName: g.RecipientName,
			Value:         g.ValueAtTimeOfGift,
			GivenAt:       g.GivenAt,
			Verified:      g.Verified,
			Reasons:       reasons,
		})
		additions = additions.Add(g.ValueAtTimeOfGift.Amount())

		if !g.Verified {
			unverified++
			warnings = append(warnings, fmt.Sprintf(
				"eligible gift to %s (%s) lacks documentary verification",
				g.RecipientName, g.ValueAtTimeOfGift))
		}
		if c.withinDeathbedWindow(g.GivenAt, e.DateOfDeath) {
			deathbed++
			warnings = append(warnings, fmt.Sprintf(
				"gift to %s was made within %d months of death",
				g.RecipientName, c.criteria.DeathbedWindowMonths))
		}
	}

	analysis.TotalAdditions = money.NewFromDecimal(additions, e.Currency)
	analysis.AdjustedValue = money.NewFromDecimal(e.NetValue.Amount().Add(additions), e.Currency)
	analysis.Recipients = c.summarizeRecipients(analysis)

	if e.NetValue.IsPositive() && additions.GreaterThan(e.NetValue.Amount().Mul(c.criteria.InflationWarningPercent)) {
		warnings = append(warnings, fmt.Sprintf(
			"hotchpot additions inflate the estate by more than %s%%",
			c.criteria.InflationWarningPercent.Mul(decimal.NewFromInt(100)).StringFixed(0)))
	}
	for _, r := range analysis.Recipients {
		if r.ShareOfAdjusted.GreaterThan(c.criteria.HighValueWarningPercent) {
			warnings = append(warnings, fmt.Sprintf(
				"recipient %s received more than %s%% of the adjusted estate",
				r.RecipientName,
				c.criteria.HighValueWarningPercent.Mul(decimal.NewFromInt(100)).StringFixed(0)))
		}
	}

	if unverified > 0 {
		recommendations = append(recommendations, fmt.Sprintf(
			"obtain documentary verification for %d eligible gift(s) before final distribution", unverified))
	}
	if deathbed > 0 {
		recommendations = append(recommendations,
			"review transfers made shortly before death for undue influence")
	}
	if contested > 0 {
		recommendations = append(recommendations, fmt.Sprintf(
			"resolve %d contested gift(s); contested gifts are excluded until confirmed", contested))
	}

	analysis.Warnings = pstrings.DedupeAndTrim(warnings)
	analysis.Recommendations = pstrings.DedupeAndTrim(recommendations)
	return analysis
}

// evaluate applies the eligibility rule to a single gift. A gift must be
// confirmed, and then any one of the three triggers pulls it in.
func (c *Calculator) evaluate(g *models.GiftInterVivos, netValue money.Money, death time.Time) (bool, []string) {
	if !g.IsConfirmed() {
		return false, nil
	}

	var reasons []string
	if netValue.IsPositive() {
		threshold := netValue.Amount().Mul(c.criteria.PercentOfEstateThreshold)
		if g.ValueAtTimeOfGift.Amount().GreaterThan(threshold) {
			reasons = append(reasons, fmt.Sprintf(
				"value exceeds %s%% of the net estate",
				c.criteria.PercentOfEstateThreshold.Mul(decimal.NewFromInt(100)).StringFixed(0)))
		}
	}
	if !g.GivenAt.Before(death.AddDate(-c.criteria.YearsBeforeDeath, 0, 0)) {
		reasons = append(reasons, fmt.Sprintf(
			"given within %d years of death", c.criteria.YearsBeforeDeath))
	}
	if c.criteria.IncludeCourtOrdered && g.CourtOrderedInclusion {
		reasons = append(reasons, "inclusion ordered by the court")
	}
	return len(reasons) > 0, reasons
}

func (c *Calculator) withinDeathbedWindow(givenAt, death time.Time) bool {
	return !givenAt.Before(death.AddDate(0, -c.criteria.DeathbedWindowMonths, 0)) &&
		!givenAt.After(death)
}

// summarizeRecipients groups eligible gifts per recipient and computes each
// recipient's share of the adjusted pool.
func (c *Calculator) summarizeRecipients(analysis Analysis) []RecipientSummary {
	order := make([]string, 0, len(analysis.EligibleGifts))
	grouped := make(map[string]*RecipientSummary)
	for _, g := range analysis.EligibleGifts {
		key := g.RecipientID.String()
		summary, ok := grouped[key]
		if !ok {
			summary = &RecipientSummary{
				RecipientID:   g.RecipientID,
				RecipientName: g.RecipientName,
				TotalValue:    money.Zero(analysis.Currency),
			}
			grouped[key] = summary
			order = append(order, key)
		}
		summary.GiftCount++
		summary.TotalValue = money.NewFromDecimal(
			summary.TotalValue.Amount().Add(g.Value.Amount()), analysis.Currency)
	}

	out := make([]RecipientSummary, 0, len(order))
	for _, key := range order {
		summary := grouped[key]
		if analysis.AdjustedValue.IsPositive() {
			summary.ShareOfAdjusted = summary.TotalValue.Amount().
				Div(analysis.AdjustedValue.Amount())
		}
		out = append(out, *summary)
	}
	return out
}
