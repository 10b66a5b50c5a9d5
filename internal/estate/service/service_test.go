package service_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"github.com/CoolCerebralTech/Mirathi-System-sub006/internal/estate/models"
	"github.com/CoolCerebralTech/Mirathi-System-sub006/internal/estate/service"
	"github.com/CoolCerebralTech/Mirathi-System-sub006/internal/estate/store"
	taxmocks "github.com/CoolCerebralTech/Mirathi-System-sub006/internal/tax/mocks"
	id "github.com/CoolCerebralTech/Mirathi-System-sub006/pkg/domain"
	dErrors "github.com/CoolCerebralTech/Mirathi-System-sub006/pkg/domain-errors"
	"github.com/CoolCerebralTech/Mirathi-System-sub006/pkg/money"
	"github.com/CoolCerebralTech/Mirathi-System-sub006/pkg/platform/sentinel"
)

// captureSink records published events for assertions.
type captureSink struct {
	mu     sync.Mutex
	events []models.Event
}

func (c *captureSink) Publish(_ context.Context, events ...models.Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, events...)
}

func (c *captureSink) kinds() []models.EventType {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]models.EventType, 0, len(c.events))
	for _, e := range c.events {
		out = append(out, e.Type)
	}
	return out
}

type ServiceSuite struct {
	suite.Suite
	ctx   context.Context
	now   time.Time
	death time.Time
	store *store.MemoryStore
	sink  *captureSink
	tax   *taxmocks.MockProvider
	ctrl  *gomock.Controller
	svc   *service.Service
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.ctx = context.Background()
	s.now = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	s.death = s.now.AddDate(-1, 0, 0)
	s.store = store.NewMemory()
	s.sink = &captureSink{}
	s.ctrl = gomock.NewController(s.T())
	s.tax = taxmocks.NewMockProvider(s.ctrl)
	s.svc = service.New(s.store, s.tax,
		service.WithEventSink(s.sink),
		service.WithClock(func() time.Time { return s.now }),
	)
}

func (s *ServiceSuite) openEstate(cash float64) *models.Estate {
	estate, err := s.svc.OpenEstate(s.ctx, service.OpenEstateRequest{
		Name:        "Estate of Atieno Okoth",
		DeceasedID:  id.NewPersonID(),
		DateOfDeath: s.death,
		OpeningCash: money.New(cash, "KES"),
	})
	s.Require().NoError(err)
	return estate
}

func (s *ServiceSuite) recordDebt(estateID id.EstateID, creditor string, kind models.DebtKind, amount float64) *models.Debt {
	debt, err := s.svc.RecordDebt(s.ctx, estateID, service.RecordDebtRequest{
		CreditorName: creditor,
		Kind:         kind,
		Amount:       money.New(amount, "KES"),
		IncurredAt:   s.death.AddDate(0, -2, 0),
	})
	s.Require().NoError(err)
	return debt
}

// =============================================================================
// Opening and loading
// =============================================================================

func (s *ServiceSuite) TestOpenEstate() {
	estate := s.openEstate(250000)

	s.Equal(models.EstateStatusSetup, estate.Status)
	s.True(estate.CashOnHand.Equal(money.New(250000, "KES")))
	s.Contains(s.sink.kinds(), models.EventEstateOpened)

	loaded, err := s.svc.GetEstate(s.ctx, estate.ID)
	s.Require().NoError(err)
	s.Equal(estate.Name, loaded.Name)

	s.Run("empty name is a validation error", func() {
		_, err := s.svc.OpenEstate(s.ctx, service.OpenEstateRequest{
			Name:        "   ",
			DeceasedID:  id.NewPersonID(),
			DateOfDeath: s.death,
			OpeningCash: money.New(1000, "KES"),
		})
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})
}

func (s *ServiceSuite) TestGetEstateNotFound() {
	_, err := s.svc.GetEstate(s.ctx, id.NewEstateID())
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}

func (s *ServiceSuite) TestDepositFunds() {
	estate := s.openEstate(100000)

	updated, err := s.svc.DepositFunds(s.ctx, estate.ID, money.New(40000, "KES"), "rent collected")
	s.Require().NoError(err)
	s.True(updated.CashOnHand.Equal(money.New(140000, "KES")))
	s.Contains(s.sink.kinds(), models.EventFundsDeposited)

	stored, err := s.svc.GetEstate(s.ctx, estate.ID)
	s.Require().NoError(err)
	s.True(stored.CashOnHand.Equal(money.New(140000, "KES")))
}

// =============================================================================
// Assets
// =============================================================================

func (s *ServiceSuite) TestAddAndVerifyAsset() {
	estate := s.openEstate(50000)

	asset, err := s.svc.AddAsset(s.ctx, estate.ID, service.AddAssetRequest{
		Description:    "Four-acre plot, Kisumu",
		Kind:           models.AssetKindLand,
		EstimatedValue: money.New(1500000, "KES"),
	})
	s.Require().NoError(err)
	s.Equal(models.AssetStatusPendingVerification, asset.Status)

	updated, err := s.svc.VerifyAsset(s.ctx, estate.ID, asset.ID)
	s.Require().NoError(err)
	s.Equal(models.AssetStatusVerified, updated.Assets[0].Status)
	s.Contains(s.sink.kinds(), models.EventAssetVerified)

	s.Run("empty description is a validation error", func() {
		_, err := s.svc.AddAsset(s.ctx, estate.ID, service.AddAssetRequest{
			Kind:           models.AssetKindVehicle,
			EstimatedValue: money.New(500000, "KES"),
		})
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})

	s.Run("failed add leaves the estate untouched", func() {
		stored, err := s.svc.GetEstate(s.ctx, estate.ID)
		s.Require().NoError(err)
		s.Len(stored.Assets, 1)
	})
}

func (s *ServiceSuite) TestAssetDisputeLifecycle() {
	estate := s.openEstate(50000)
	asset, err := s.svc.AddAsset(s.ctx, estate.ID, service.AddAssetRequest{
		Description:    "Toyota Probox",
		Kind:           models.AssetKindVehicle,
		EstimatedValue: money.New(800000, "KES"),
	})
	s.Require().NoError(err)

	_, err = s.svc.DisputeAsset(s.ctx, estate.ID, asset.ID, "claimed by brother")
	s.Require().NoError(err)

	updated, err := s.svc.ResolveAssetDispute(s.ctx, estate.ID, asset.ID)
	s.Require().NoError(err)
	s.Equal(models.AssetStatusVerified, updated.Assets[0].Status)
}

// =============================================================================
// Debts and the statutory order
// =============================================================================

// A junior claim cannot be paid while a senior claim has an outstanding
// balance elsewhere in the ledger.
func (s *ServiceSuite) TestPayDebtEnforcesStatutoryOrder() {
	estate := s.openEstate(500000)
	funeral := s.recordDebt(estate.ID, "Lee Funeral Home", models.DebtKindFuneralExpense, 80000)
	supplier := s.recordDebt(estate.ID, "Mombasa Suppliers", models.DebtKindSupplierCredit, 150000)

	_, err := s.svc.PayDebt(s.ctx, estate.ID, supplier.ID, money.New(50000, "KES"))
	s.True(dErrors.HasCode(err, dErrors.CodeStatutoryOrder))

	_, err = s.svc.PayDebt(s.ctx, estate.ID, funeral.ID, money.New(80000, "KES"))
	s.Require().NoError(err)

	updated, err := s.svc.PayDebt(s.ctx, estate.ID, supplier.ID, money.New(150000, "KES"))
	s.Require().NoError(err)
	s.True(updated.CashOnHand.Equal(money.New(270000, "KES")))

	kinds := s.sink.kinds()
	s.Contains(kinds, models.EventDebtPaymentMade)
	s.Contains(kinds, models.EventDebtSettled)
}

func (s *ServiceSuite) TestPayDebtInsufficientCash() {
	estate := s.openEstate(10000)
	debt := s.recordDebt(estate.ID, "Lee Funeral Home", models.DebtKindFuneralExpense, 80000)

	_, err := s.svc.PayDebt(s.ctx, estate.ID, debt.ID, money.New(50000, "KES"))
	s.True(dErrors.HasCode(err, dErrors.CodeInsufficientLiquidity))
}

func (s *ServiceSuite) TestDebtLifecycle() {
	estate := s.openEstate(200000)
	loan := s.recordDebt(estate.ID, "Equity Bank", models.DebtKindPersonalLoan, 100000)

	_, err := s.svc.DisputeDebt(s.ctx, estate.ID, loan.ID, "signature contested")
	s.Require().NoError(err)
	_, err = s.svc.ResolveDebtDispute(s.ctx, estate.ID, loan.ID)
	s.Require().NoError(err)

	updated, err := s.svc.MarkDebtStatuteBarred(s.ctx, estate.ID, loan.ID)
	s.Require().NoError(err)
	s.Equal(models.TierStatuteBarred, updated.Debts[0].Priority.Tier)
	s.False(updated.Debts[0].HasOutstandingBalance())

	stale := s.recordDebt(estate.ID, "Nakuru Hardware", models.DebtKindSupplierCredit, 30000)
	final, err := s.svc.WriteOffDebt(s.ctx, estate.ID, stale.ID)
	s.Require().NoError(err)
	s.False(final.Debts[1].HasOutstandingBalance())
}

// =============================================================================
// Gifts and dependants
// =============================================================================

func (s *ServiceSuite) TestGiftLifecycle() {
	estate := s.openEstate(100000)

	gift, err := s.svc.RecordGift(s.ctx, estate.ID, service.RecordGiftRequest{
		RecipientID:   id.NewPersonID(),
		RecipientName: "Baraka Okoth",
		Description:   "matatu",
		Value:         money.New(350000, "KES"),
		GivenAt:       s.death.AddDate(-2, 0, 0),
	})
	s.Require().NoError(err)

	_, err = s.svc.ContestGift(s.ctx, estate.ID, gift.ID)
	s.Require().NoError(err)
	updated, err := s.svc.ConfirmGift(s.ctx, estate.ID, gift.ID)
	s.Require().NoError(err)
	s.Equal(models.GiftStatusConfirmed, updated.Gifts[0].Status)
	s.True(updated.ConfirmedGiftValue().Equal(money.New(350000, "KES")))
}

func (s *ServiceSuite) TestDependantVerificationFlow() {
	estate := s.openEstate(100000)
	dob := s.now.AddDate(-12, 0, 0)

	dep, err := s.svc.RegisterDependant(s.ctx, estate.ID, service.RegisterDependantRequest{
		ClaimantID:        id.NewPersonID(),
		FullName:          "Wanjiru Okoth",
		Relationship:      models.RelationshipChild,
		MonthlyNeeds:      money.New(15000, "KES"),
		DependencyPercent: 0.8,
		DateOfBirth:       &dob,
	})
	s.Require().NoError(err)
	s.Equal(models.DependantStatusPendingVerification, dep.Status)

	_, err = s.svc.SubmitDependantEvidence(s.ctx, estate.ID, dep.ID, service.EvidenceRequest{
		Kind:      models.EvidenceKindBirthCertificate,
		Reference: "BC-2012-48211",
	})
	s.Require().NoError(err)

	updated, err := s.svc.VerifyDependant(s.ctx, estate.ID, dep.ID)
	s.Require().NoError(err)
	s.Equal(models.DependantStatusVerified, updated.Dependants[0].Status)

	s.Run("unknown evidence kind is rejected before the store", func() {
		_, err := s.svc.SubmitDependantEvidence(s.ctx, estate.ID, dep.ID, service.EvidenceRequest{
			Kind:      "rumor",
			Reference: "n/a",
		})
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})
}

// =============================================================================
// Freeze and lifecycle
// =============================================================================

func (s *ServiceSuite) TestFreezeBlocksMutations() {
	estate := s.openEstate(100000)

	_, err := s.svc.Freeze(s.ctx, estate.ID, "court order 114 of 2024")
	s.Require().NoError(err)

	_, err = s.svc.DepositFunds(s.ctx, estate.ID, money.New(1000, "KES"), "rent")
	s.True(dErrors.HasCode(err, dErrors.CodeEstateFrozen))

	_, err = s.svc.Unfreeze(s.ctx, estate.ID)
	s.Require().NoError(err)
	_, err = s.svc.DepositFunds(s.ctx, estate.ID, money.New(1000, "KES"), "rent")
	s.NoError(err)
}

func (s *ServiceSuite) TestLifecycleToDistribution() {
	estate := s.openEstate(500000)

	asset, err := s.svc.AddAsset(s.ctx, estate.ID, service.AddAssetRequest{
		Description:    "Four-acre plot, Kisumu",
		Kind:           models.AssetKindLand,
		EstimatedValue: money.New(1500000, "KES"),
	})
	s.Require().NoError(err)
	_, err = s.svc.VerifyAsset(s.ctx, estate.ID, asset.ID)
	s.Require().NoError(err)

	_, err = s.svc.BeginEvaluation(s.ctx, estate.ID)
	s.Require().NoError(err)
	_, err = s.svc.BeginAdministration(s.ctx, estate.ID)
	s.Require().NoError(err)

	s.Run("gate fails while tax is pending", func() {
		_, err := s.svc.MarkReadyForDistribution(s.ctx, estate.ID)
		s.True(dErrors.HasCode(err, dErrors.CodeTaxNotCleared))
	})

	clearance, err := models.NewTaxCompliance(models.TaxStatusCleared,
		money.New(50000, "KES"), money.New(50000, "KES"), "KRA-CL-2024-7741", s.now)
	s.Require().NoError(err)
	s.tax.EXPECT().Clearance(gomock.Any(), estate.ID).Return(clearance, nil)

	_, err = s.svc.RefreshTaxCompliance(s.ctx, estate.ID)
	s.Require().NoError(err)

	updated, err := s.svc.MarkReadyForDistribution(s.ctx, estate.ID)
	s.Require().NoError(err)
	s.Equal(models.EstateStatusReadyForDistribution, updated.Status)

	s.Run("late claim pulls the estate back, then readiness is re-earned", func() {
		reverted, err := s.svc.RevertToAdministration(s.ctx, estate.ID)
		s.Require().NoError(err)
		s.Equal(models.EstateStatusAdministration, reverted.Status)

		again, err := s.svc.MarkReadyForDistribution(s.ctx, estate.ID)
		s.Require().NoError(err)
		s.Equal(models.EstateStatusReadyForDistribution, again.Status)
	})

	final, err := s.svc.BeginDistribution(s.ctx, estate.ID)
	s.Require().NoError(err)
	s.Equal(models.EstateStatusDistributing, final.Status)

	closed, err := s.svc.CloseEstate(s.ctx, estate.ID)
	s.Require().NoError(err)
	s.Equal(models.EstateStatusClosed, closed.Status)
}

func (s *ServiceSuite) TestRefreshTaxComplianceProviderFailure() {
	estate := s.openEstate(100000)
	s.tax.EXPECT().Clearance(gomock.Any(), estate.ID).
		Return(models.TaxCompliance{}, errors.New("kra unreachable"))

	_, err := s.svc.RefreshTaxCompliance(s.ctx, estate.ID)
	s.True(dErrors.HasCode(err, dErrors.CodeInternal))
}

// =============================================================================
// Reports
// =============================================================================

func (s *ServiceSuite) TestSolvencyReport() {
	estate := s.openEstate(300000)
	s.recordDebt(estate.ID, "Lee Funeral Home", models.DebtKindFuneralExpense, 80000)

	report, err := s.svc.SolvencyReport(s.ctx, estate.ID)
	s.Require().NoError(err)
	s.True(report.Solvent)
	s.True(report.NetValue.Equal(money.New(220000, "KES")))
	s.Require().Len(report.LiabilitiesByTier, 1)
	s.Equal(models.TierFuneralExpenses, report.LiabilitiesByTier[0].Tier)
}

func (s *ServiceSuite) TestDistributionReadiness() {
	estate := s.openEstate(300000)

	report, err := s.svc.DistributionReadiness(s.ctx, estate.ID)
	s.Require().NoError(err)
	s.False(report.Ready)
	s.NotEmpty(report.BlockingReasons)
}

func (s *ServiceSuite) TestHotchpotAnalysisThroughService() {
	estate := s.openEstate(800000)
	_, err := s.svc.RecordGift(s.ctx, estate.ID, service.RecordGiftRequest{
		RecipientID:   id.NewPersonID(),
		RecipientName: "Baraka Okoth",
		Description:   "matatu",
		Value:         money.New(200000, "KES"),
		GivenAt:       s.death.AddDate(-2, 0, 0),
	})
	s.Require().NoError(err)

	analysis, err := s.svc.HotchpotAnalysis(s.ctx, estate.ID)
	s.Require().NoError(err)
	s.True(analysis.AdjustedValue.Equal(money.New(1000000, "KES")))
	s.Len(analysis.EligibleGifts, 1)
}

// =============================================================================
// Error translation
// =============================================================================

// conflictStore forces a conflict to verify the sentinel is translated for
// callers.
type conflictStore struct {
	store.Store
}

func (c *conflictStore) Execute(context.Context, id.EstateID, func(*models.Estate) error) (*models.Estate, error) {
	return nil, sentinel.ErrConflict
}

func (s *ServiceSuite) TestConflictTranslation() {
	svc := service.New(&conflictStore{Store: s.store}, s.tax,
		service.WithClock(func() time.Time { return s.now }))

	_, err := svc.DepositFunds(s.ctx, id.NewEstateID(), money.New(1000, "KES"), "rent")
	s.True(dErrors.HasCode(err, dErrors.CodeConcurrencyConflict))
}
