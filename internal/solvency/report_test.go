package solvency

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/CoolCerebralTech/Mirathi-System-sub006/internal/estate/models"
	id "github.com/CoolCerebralTech/Mirathi-System-sub006/pkg/domain"
	"github.com/CoolCerebralTech/Mirathi-System-sub006/pkg/money"
)

type ReportSuite struct {
	suite.Suite
	now    time.Time
	estate *models.Estate
}

func TestReportSuite(t *testing.T) {
	suite.Run(t, new(ReportSuite))
}

func (s *ReportSuite) SetupTest() {
	s.now = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	var err error
	s.estate, err = models.NewEstate(id.NewEstateID(), "Estate of Njoroge Mwangi",
		id.NewPersonID(), s.now.AddDate(-1, 0, 0), money.New(50000, "KES"), s.now)
	s.Require().NoError(err)
}

func (s *ReportSuite) addAsset(value float64) {
	a, err := models.NewAsset(id.NewAssetID(), "asset", models.AssetKindLand,
		money.New(value, "KES"), nil, s.now)
	s.Require().NoError(err)
	_, err = s.estate.AddAsset(a, s.now)
	s.Require().NoError(err)
}

func (s *ReportSuite) addDebt(kind models.DebtKind, amount float64) *models.Debt {
	d, err := models.NewDebt(id.NewDebtID(), "creditor", kind,
		money.New(amount, "KES"), 0, false, nil, s.now.AddDate(-1, -1, 0), s.now)
	s.Require().NoError(err)
	_, err = s.estate.AddDebt(d, s.now)
	s.Require().NoError(err)
	return d
}

// =============================================================================
// Report arithmetic
// =============================================================================

func (s *ReportSuite) TestEvaluateSolventEstate() {
	s.addAsset(400000)
	s.addDebt(models.DebtKindFuneralExpense, 30000)
	s.addDebt(models.DebtKindPersonalLoan, 70000)

	report := Evaluate(s.estate, s.now)

	s.Equal("400000.00 KES", report.GrossAssetValue.String())
	s.Equal("50000.00 KES", report.CashOnHand.String())
	s.Equal("100000.00 KES", report.TotalLiabilities.String())
	s.Equal("350000.00 KES", report.NetValue.String())
	s.True(report.Solvent)
	s.True(report.Shortfall.IsZero())
}

func (s *ReportSuite) TestEvaluateInsolventEstate() {
	s.addAsset(20000)
	s.addDebt(models.DebtKindMedicalBill, 100000)

	report := Evaluate(s.estate, s.now)

	s.False(report.Solvent)
	s.Equal("-30000.00 KES", report.NetValue.String())
	s.Equal("30000.00 KES", report.Shortfall.String())
}

func (s *ReportSuite) TestTierGrouping() {
	s.addDebt(models.DebtKindFuneralExpense, 10000)
	s.addDebt(models.DebtKindFuneralExpense, 5000)
	s.addDebt(models.DebtKindTax, 20000)
	s.addDebt(models.DebtKindPersonalLoan, 40000)

	report := Evaluate(s.estate, s.now)

	s.Require().Len(report.LiabilitiesByTier, 3)

	s.Equal(models.TierFuneralExpenses, report.LiabilitiesByTier[0].Tier)
	s.Equal(2, report.LiabilitiesByTier[0].Count)
	s.Equal("15000.00 KES", report.LiabilitiesByTier[0].Outstanding.String())

	s.Equal(models.TierTaxesRatesWages, report.LiabilitiesByTier[1].Tier)
	s.Equal("20000.00 KES", report.LiabilitiesByTier[1].Outstanding.String())

	s.Equal(models.TierUnsecuredGeneral, report.LiabilitiesByTier[2].Tier)

	s.Equal("35000.00 KES", report.CriticalOutstanding().String())
}

func (s *ReportSuite) TestSettledDebtsExcluded() {
	s.addAsset(500000)
	d := s.addDebt(models.DebtKindFuneralExpense, 30000)

	_, err := s.estate.PayDebt(d.ID, money.New(30000, "KES"), s.now)
	s.Require().NoError(err)

	report := Evaluate(s.estate, s.now)
	s.True(report.TotalLiabilities.IsZero())
	s.Empty(report.LiabilitiesByTier)
}

// =============================================================================
// Agreement with the aggregate's cached solvency
// =============================================================================

func (s *ReportSuite) TestMatchesAggregateAfterMutations() {
	s.addAsset(300000)
	debt := s.addDebt(models.DebtKindWages, 80000)

	report := Evaluate(s.estate, s.now)
	s.True(report.NetValue.Equal(s.estate.NetValue))
	s.Equal(report.Solvent, s.estate.IsSolvent)

	_, err := s.estate.PayDebt(debt.ID, money.New(50000, "KES"), s.now)
	s.Require().NoError(err)

	report = Evaluate(s.estate, s.now)
	s.True(report.NetValue.Equal(s.estate.NetValue))
	s.Equal("30000.00 KES", report.TotalLiabilities.String())

	tc, err := models.NewTaxCompliance(models.TaxStatusFiled,
		money.New(40000, "KES"), money.New(10000, "KES"), "", s.now)
	s.Require().NoError(err)
	_, err = s.estate.ApplyTaxCompliance(tc, s.now)
	s.Require().NoError(err)

	report = Evaluate(s.estate, s.now)
	s.Equal("30000.00 KES", report.TaxOutstanding.String())
	s.True(report.NetValue.Equal(s.estate.NetValue))
	s.Equal(report.Solvent, s.estate.IsSolvent)
}
