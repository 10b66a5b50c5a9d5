// Package solvency produces the financial report behind the estate's
// solvent/insolvent standing: gross assets, liquid funds, liabilities
// grouped by statutory tier, unpaid tax, and the resulting net position.
// The aggregate caches the same net-value formula after every mutation;
// this package expands it into a shape fit for the API and for court
// schedules of payment.
package solvency

import (
	"time"

	"github.com/CoolCerebralTech/Mirathi-System-sub006/internal/estate/models"
	id "github.com/CoolCerebralTech/Mirathi-System-sub006/pkg/domain"
	"github.com/CoolCerebralTech/Mirathi-System-sub006/pkg/money"
)

// TierLiability totals the open claims of one statutory tier.
type TierLiability struct {
	Tier        int         `json:"tier"`
	Label       string      `json:"label"`
	Citation    string      `json:"citation"`
	Count       int         `json:"count"`
	Outstanding money.Money `json:"outstanding"`
}

// Report is a point-in-time solvency statement for an estate.
type Report struct {
	EstateID          id.EstateID     `json:"estate_id"`
	Currency          string          `json:"currency"`
	GrossAssetValue   money.Money     `json:"gross_asset_value"`
	CashOnHand        money.Money     `json:"cash_on_hand"`
	TotalLiabilities  money.Money     `json:"total_liabilities"`
	LiabilitiesByTier []TierLiability `json:"liabilities_by_tier"`
	TaxOutstanding    money.Money     `json:"tax_outstanding"`
	NetValue          money.Money     `json:"net_value"`
	Solvent           bool            `json:"solvent"`
	Shortfall         money.Money     `json:"shortfall"`
	ComputedAt        time.Time       `json:"computed_at"`
}

// Evaluate builds the solvency report from the estate's current ledger.
// The net value here always equals the aggregate's cached NetValue because
// both run the same formula over the same ledger state.
func Evaluate(e *models.Estate, now time.Time) Report {
	report := Report{
		EstateID:        e.ID,
		Currency:        e.Currency,
		GrossAssetValue: e.GrossAssetValue(),
		CashOnHand:      e.CashOnHand,
		TaxOutstanding:  e.TaxCompliance.Outstanding(),
		ComputedAt:      now,
	}

	byTier := make(map[int]*TierLiability)
	total := money.Zero(e.Currency)
	for _, d := range e.Debts {
		if !d.HasOutstandingBalance() {
			continue
		}
		total = money.NewFromDecimal(total.Amount().Add(d.OutstandingBalance.Amount()), e.Currency)
		t, ok := byTier[d.Priority.Tier]
		if !ok {
			t = &TierLiability{
				Tier:        d.Priority.Tier,
				Label:       d.Priority.Label,
				Citation:    d.Priority.Citation,
				Outstanding: money.Zero(e.Currency),
			}
			byTier[d.Priority.Tier] = t
		}
		t.Count++
		t.Outstanding = money.NewFromDecimal(t.Outstanding.Amount().Add(d.OutstandingBalance.Amount()), e.Currency)
	}
	report.TotalLiabilities = total

	for tier := models.TierFuneralExpenses; tier <= models.TierStatuteBarred; tier++ {
		if t, ok := byTier[tier]; ok {
			report.LiabilitiesByTier = append(report.LiabilitiesByTier, *t)
		}
	}

	net := report.GrossAssetValue.Amount().
		Add(report.CashOnHand.Amount()).
		Sub(report.TotalLiabilities.Amount()).
		Sub(report.TaxOutstanding.Amount())
	report.NetValue = money.NewFromDecimal(net, e.Currency)
	report.Solvent = !report.NetValue.IsNegative()
	if report.Solvent {
		report.Shortfall = money.Zero(e.Currency)
	} else {
		report.Shortfall = report.NetValue.Neg()
	}
	return report
}

// CriticalOutstanding totals the open claims in tiers 1 through 4, the set
// that blocks any distribution while unpaid.
func (r Report) CriticalOutstanding() money.Money {
	total := money.Zero(r.Currency)
	for _, t := range r.LiabilitiesByTier {
		if t.Tier <= models.TierTaxesRatesWages {
			total = money.NewFromDecimal(total.Amount().Add(t.Outstanding.Amount()), r.Currency)
		}
	}
	return total
}
