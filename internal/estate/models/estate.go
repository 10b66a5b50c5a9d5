package models

import (
	"time"

	id "github.com/CoolCerebralTech/Mirathi-System-sub006/pkg/domain"
	dErrors "github.com/CoolCerebralTech/Mirathi-System-sub006/pkg/domain-errors"
	"github.com/CoolCerebralTech/Mirathi-System-sub006/pkg/money"
)

// EstateStatus tracks the administration workflow.
type EstateStatus string

const (
	EstateStatusSetup                EstateStatus = "setup"
	EstateStatusEvaluation           EstateStatus = "evaluation"
	EstateStatusAdministration       EstateStatus = "administration"
	EstateStatusReadyForDistribution EstateStatus = "ready_for_distribution"
	EstateStatusDistributing         EstateStatus = "distributing"
	EstateStatusClosed               EstateStatus = "closed"
)

// estateTransitions moves forward only, with the two explicit revert paths
// back to administration when readiness is lost mid-flight.
var estateTransitions = map[EstateStatus][]EstateStatus{
	EstateStatusSetup:                {EstateStatusEvaluation},
	EstateStatusEvaluation:           {EstateStatusAdministration},
	EstateStatusAdministration:       {EstateStatusReadyForDistribution},
	EstateStatusReadyForDistribution: {EstateStatusDistributing, EstateStatusAdministration},
	EstateStatusDistributing:         {EstateStatusClosed, EstateStatusAdministration},
}

func (s EstateStatus) IsValid() bool {
	switch s {
	case EstateStatusSetup, EstateStatusEvaluation, EstateStatusAdministration,
		EstateStatusReadyForDistribution, EstateStatusDistributing, EstateStatusClosed:
		return true
	}
	return false
}

// CanTransitionTo reports whether the workflow permits moving to target.
func (s EstateStatus) CanTransitionTo(target EstateStatus) bool {
	for _, allowed := range estateTransitions[s] {
		if allowed == target {
			return true
		}
	}
	return false
}

func (s EstateStatus) String() string { return string(s) }

// Estate is the aggregate root for a deceased person's estate: the single
// unit of consistency for its assets, debts, lifetime gifts, and dependant
// claims. All ledger entities are owned exclusively by their estate and are
// created and mutated only through it.
//
// Invariants:
//   - Name is non-empty and at most 128 characters
//   - Version strictly increases on every state mutation
//   - CashOnHand is never negative
//   - No mutating operation proceeds while frozen, except Unfreeze
//   - Status transitions follow estateTransitions only
//   - Every ledger value shares the estate's currency
//   - NetValue and IsSolvent are recomputed after every ledger mutation
//
// Mutating methods validate before touching state, so a returned error
// means the aggregate is unchanged. They return the domain events the
// mutation caused; the aggregate never buffers events itself.
type Estate struct {
	ID            id.EstateID       `json:"id"`
	Name          string            `json:"name"`
	DeceasedID    id.PersonID       `json:"deceased_id"`
	DateOfDeath   time.Time         `json:"date_of_death"`
	Status        EstateStatus      `json:"status"`
	Currency      string            `json:"currency"`
	CashOnHand    money.Money       `json:"cash_on_hand"`
	Assets        []*Asset          `json:"assets"`
	Debts         []*Debt           `json:"debts"`
	Gifts         []*GiftInterVivos `json:"gifts"`
	Dependants    []*LegalDependant `json:"dependants"`
	TaxCompliance TaxCompliance     `json:"tax_compliance"`
	IsFrozen      bool              `json:"is_frozen"`
	FrozenReason  string            `json:"frozen_reason,omitempty"`
	NetValue      money.Money       `json:"net_value"`
	IsSolvent     bool              `json:"is_solvent"`
	Version       int64             `json:"version"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`

	// loadedVersion is the version read from storage, compared at save for
	// optimistic concurrency. Zero for estates not yet persisted.
	loadedVersion int64
}

func NewEstate(
	estateID id.EstateID,
	name string,
	deceasedID id.PersonID,
	dateOfDeath time.Time,
	openingCash money.Money,
	now time.Time,
) (*Estate, error) {
	if name == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "estate name cannot be empty")
	}
	if len(name) > 128 {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "estate name must be 128 characters or less")
	}
	if deceasedID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "deceased reference cannot be empty")
	}
	if dateOfDeath.IsZero() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "date of death cannot be empty")
	}
	if openingCash.IsNegative() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "opening cash cannot be negative")
	}
	currency := openingCash.Currency()
	if currency == "" {
		currency = money.DefaultCurrency
	}
	e := &Estate{
		ID:          estateID,
		Name:        name,
		DeceasedID:  deceasedID,
		DateOfDeath: dateOfDeath,
		Status:      EstateStatusSetup,
		Currency:    currency,
		CashOnHand:  money.NewFromDecimal(openingCash.Amount(), currency),
		TaxCompliance: TaxCompliance{
			Status:    TaxStatusPending,
			Liability: money.Zero(currency),
			Paid:      money.Zero(currency),
		},
		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
	}
	e.NetValue = e.computeNetValue()
	e.IsSolvent = !e.NetValue.IsNegative()
	return e, nil
}

// guardMutable rejects mutations on frozen or closed estates.
func (e *Estate) guardMutable() error {
	if e.IsFrozen {
		return dErrors.New(dErrors.CodeEstateFrozen, "estate is frozen").
			WithDetail("reason", e.FrozenReason)
	}
	if e.Status == EstateStatusClosed {
		return dErrors.New(dErrors.CodeInvalidTransition, "estate is closed")
	}
	return nil
}

// checkCurrency rejects ledger values denominated in a foreign currency.
// Zero values without a currency are accepted.
func (e *Estate) checkCurrency(m money.Money) error {
	if m.Currency() != "" && m.Currency() != e.Currency {
		return dErrors.Newf(dErrors.CodeInvariantViolation,
			"currency %s does not match estate ledger currency %s", m.Currency(), e.Currency)
	}
	return nil
}

// touch bumps the version after a successful mutation.
func (e *Estate) touch(now time.Time) {
	e.Version++
	e.UpdatedAt = now
}

// computeNetValue is the solvency formula: distributable assets plus cash,
// minus open debt balances and unpaid tax.
func (e *Estate) computeNetValue() money.Money {
	total := e.CashOnHand.Amount()
	for _, a := range e.Assets {
		total = total.Add(a.DistributableValue().Amount())
	}
	for _, d := range e.Debts {
		if d.HasOutstandingBalance() {
			total = total.Sub(d.OutstandingBalance.Amount())
		}
	}
	total = total.Sub(e.TaxCompliance.Outstanding().Amount())
	return money.NewFromDecimal(total, e.Currency)
}

// recalculateSolvency refreshes the cached net value and emits an event only
// when the estate crosses the solvency boundary, in either direction.
func (e *Estate) recalculateSolvency(now time.Time) []Event {
	wasSolvent := e.IsSolvent
	e.NetValue = e.computeNetValue()
	e.IsSolvent = !e.NetValue.IsNegative()
	switch {
	case wasSolvent && !e.IsSolvent:
		return []Event{NewEvent(e.ID, EventEstateWentInsolvent, now, map[string]string{
			"net_value": e.NetValue.String(),
			"shortfall": e.NetValue.Neg().String(),
		})}
	case !wasSolvent && e.IsSolvent:
		return []Event{NewEvent(e.ID, EventEstateSolvencyRestored, now, map[string]string{
			"net_value": e.NetValue.String(),
		})}
	}
	return nil
}

func (e *Estate) findAsset(assetID id.AssetID) *Asset {
	for _, a := range e.Assets {
		if a.ID == assetID {
			return a
		}
	}
	return nil
}

func (e *Estate) findDebt(debtID id.DebtID) *Debt {
	for _, d := range e.Debts {
		if d.ID == debtID {
			return d
		}
	}
	return nil
}

func (e *Estate) findGift(giftID id.GiftID) *GiftInterVivos {
	for _, g := range e.Gifts {
		if g.ID == giftID {
			return g
		}
	}
	return nil
}

func (e *Estate) findDependant(dependantID id.DependantID) *LegalDependant {
	for _, d := range e.Dependants {
		if d.ID == dependantID {
			return d
		}
	}
	return nil
}

// Freeze halts all mutations, typically on a court order.
func (e *Estate) Freeze(reason string, now time.Time) ([]Event, error) {
	if reason == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "freeze reason cannot be empty")
	}
	if e.IsFrozen {
		return nil, dErrors.New(dErrors.CodeInvalidTransition, "estate is already frozen")
	}
	if e.Status == EstateStatusClosed {
		return nil, dErrors.New(dErrors.CodeInvalidTransition, "estate is closed")
	}
	e.IsFrozen = true
	e.FrozenReason = reason
	e.touch(now)
	return []Event{NewEvent(e.ID, EventEstateFrozen, now, map[string]string{
		"reason": reason,
	})}, nil
}

// Unfreeze lifts a freeze. This is the one mutation permitted while frozen.
func (e *Estate) Unfreeze(now time.Time) ([]Event, error) {
	if !e.IsFrozen {
		return nil, dErrors.New(dErrors.CodeInvalidTransition, "estate is not frozen")
	}
	e.IsFrozen = false
	e.FrozenReason = ""
	e.touch(now)
	return []Event{NewEvent(e.ID, EventEstateUnfrozen, now, nil)}, nil
}

// DepositFunds credits cash to the estate, for example collected rent or a
// transferred bank balance.
func (e *Estate) DepositFunds(amount money.Money, source string, now time.Time) ([]Event, error) {
	if err := e.guardMutable(); err != nil {
		return nil, err
	}
	if !amount.IsPositive() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "deposit amount must be positive")
	}
	if err := e.checkCurrency(amount); err != nil {
		return nil, err
	}
	cash, err := e.CashOnHand.Add(amount)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInvariantViolation, "deposit currency mismatch")
	}
	e.CashOnHand = cash
	e.touch(now)
	events := []Event{NewEvent(e.ID, EventFundsDeposited, now, map[string]string{
		"amount":  amount.String(),
		"source":  source,
		"balance": e.CashOnHand.String(),
	})}
	return append(events, e.recalculateSolvency(now)...), nil
}

// AddAsset records a newly discovered item of estate property.
func (e *Estate) AddAsset(asset *Asset, now time.Time) ([]Event, error) {
	if err := e.guardMutable(); err != nil {
		return nil, err
	}
	if e.findAsset(asset.ID) != nil {
		return nil, dErrors.New(dErrors.CodeConflict, "asset is already recorded")
	}
	if err := e.checkCurrency(asset.EstimatedValue); err != nil {
		return nil, err
	}
	e.Assets = append(e.Assets, asset)
	e.touch(now)
	events := []Event{NewEvent(e.ID, EventAssetAdded, now, map[string]string{
		"asset_id": asset.ID.String(),
		"kind":     asset.Kind.String(),
		"value":    asset.EstimatedValue.String(),
	})}
	return append(events, e.recalculateSolvency(now)...), nil
}

// VerifyAsset confirms an asset's existence and title.
func (e *Estate) VerifyAsset(assetID id.AssetID, now time.Time) ([]Event, error) {
	if err := e.guardMutable(); err != nil {
		return nil, err
	}
	asset := e.findAsset(assetID)
	if asset == nil {
		return nil, dErrors.New(dErrors.CodeNotFound, "asset not found")
	}
	if err := asset.Verify(now); err != nil {
		return nil, err
	}
	e.touch(now)
	events := []Event{NewEvent(e.ID, EventAssetVerified, now, map[string]string{
		"asset_id": assetID.String(),
	})}
	return append(events, e.recalculateSolvency(now)...), nil
}

// DisputeAsset flags an asset's ownership or valuation as contested.
func (e *Estate) DisputeAsset(assetID id.AssetID, reason string, now time.Time) ([]Event, error) {
	if err := e.guardMutable(); err != nil {
		return nil, err
	}
	asset := e.findAsset(assetID)
	if asset == nil {
		return nil, dErrors.New(dErrors.CodeNotFound, "asset not found")
	}
	if err := asset.Dispute(reason, now); err != nil {
		return nil, err
	}
	e.touch(now)
	events := []Event{NewEvent(e.ID, EventAssetDisputed, now, map[string]string{
		"asset_id": assetID.String(),
		"reason":   reason,
	})}
	return append(events, e.recalculateSolvency(now)...), nil
}

// ResolveAssetDispute restores a disputed asset to verified.
func (e *Estate) ResolveAssetDispute(assetID id.AssetID, now time.Time) ([]Event, error) {
	if err := e.guardMutable(); err != nil {
		return nil, err
	}
	asset := e.findAsset(assetID)
	if asset == nil {
		return nil, dErrors.New(dErrors.CodeNotFound, "asset not found")
	}
	if err := asset.ResolveDispute(now); err != nil {
		return nil, err
	}
	e.touch(now)
	events := []Event{NewEvent(e.ID, EventAssetDisputeResolved, now, map[string]string{
		"asset_id": assetID.String(),
	})}
	return append(events, e.recalculateSolvency(now)...), nil
}

// ExcludeAsset removes an asset from the estate permanently.
func (e *Estate) ExcludeAsset(assetID id.AssetID, now time.Time) ([]Event, error) {
	if err := e.guardMutable(); err != nil {
		return nil, err
	}
	asset := e.findAsset(assetID)
	if asset == nil {
		return nil, dErrors.New(dErrors.CodeNotFound, "asset not found")
	}
	if err := asset.Exclude(now); err != nil {
		return nil, err
	}
	e.touch(now)
	events := []Event{NewEvent(e.ID, EventAssetExcluded, now, map[string]string{
		"asset_id": assetID.String(),
	})}
	return append(events, e.recalculateSolvency(now)...), nil
}

// LiquidateAsset records the sale of a verified asset and credits the
// proceeds to cash. Proceeds may differ from the estimated value.
func (e *Estate) LiquidateAsset(assetID id.AssetID, proceeds money.Money, now time.Time) ([]Event, error) {
	if err := e.guardMutable(); err != nil {
		return nil, err
	}
	asset := e.findAsset(assetID)
	if asset == nil {
		return nil, dErrors.New(dErrors.CodeNotFound, "asset not found")
	}
	if proceeds.IsNegative() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "liquidation proceeds cannot be negative")
	}
	if err := e.checkCurrency(proceeds); err != nil {
		return nil, err
	}
	cash, err := e.CashOnHand.Add(proceeds)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInvariantViolation, "proceeds currency mismatch")
	}
	if err := asset.Liquidate(now); err != nil {
		return nil, err
	}
	e.CashOnHand = cash
	e.touch(now)
	events := []Event{NewEvent(e.ID, EventAssetLiquidated, now, map[string]string{
		"asset_id": assetID.String(),
		"proceeds": proceeds.String(),
		"balance":  e.CashOnHand.String(),
	})}
	return append(events, e.recalculateSolvency(now)...), nil
}

// AddDebt records a creditor claim. A secured claim must reference an asset
// already on the ledger.
func (e *Estate) AddDebt(debt *Debt, now time.Time) ([]Event, error) {
	if err := e.guardMutable(); err != nil {
		return nil, err
	}
	if e.findDebt(debt.ID) != nil {
		return nil, dErrors.New(dErrors.CodeConflict, "debt is already recorded")
	}
	if err := e.checkCurrency(debt.InitialAmount); err != nil {
		return nil, err
	}
	if debt.IsSecured {
		if debt.SecuredAssetID == nil || e.findAsset(*debt.SecuredAssetID) == nil {
			return nil, dErrors.New(dErrors.CodeInvariantViolation,
				"secured debt references an asset not on the estate ledger")
		}
	}
	e.Debts = append(e.Debts, debt)
	e.touch(now)
	events := []Event{NewEvent(e.ID, EventDebtRecorded, now, map[string]string{
		"debt_id":  debt.ID.String(),
		"creditor": debt.CreditorName,
		"amount":   debt.InitialAmount.String(),
		"tier":     debt.Priority.Label,
	})}
	return append(events, e.recalculateSolvency(now)...), nil
}

// seniorUnpaidDebt finds the most senior claim, other than target, still
// awaiting payment at a strictly higher priority than target.
func (e *Estate) seniorUnpaidDebt(target *Debt) *Debt {
	var blocking *Debt
	for _, d := range e.Debts {
		if d.ID == target.ID || !d.AwaitingPayment() {
			continue
		}
		if !d.Priority.Senior(target.Priority) {
			continue
		}
		if blocking == nil || d.Priority.Senior(blocking.Priority) {
			blocking = d
		}
	}
	return blocking
}

// PayDebt pays a creditor from estate cash, enforcing the section 45 order
// of payment: a claim is payable only when every more senior claim has been
// fully retired.
func (e *Estate) PayDebt(debtID id.DebtID, amount money.Money, now time.Time) ([]Event, error) {
	if err := e.guardMutable(); err != nil {
		return nil, err
	}
	if !amount.IsPositive() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "payment amount must be positive")
	}
	debt := e.findDebt(debtID)
	if debt == nil {
		return nil, dErrors.New(dErrors.CodeNotFound, "debt not found")
	}
	if err := e.checkCurrency(amount); err != nil {
		return nil, err
	}
	remainingCash, err := e.CashOnHand.Sub(amount)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInvariantViolation, "payment currency mismatch")
	}
	if remainingCash.IsNegative() {
		return nil, dErrors.Newf(dErrors.CodeInsufficientLiquidity,
			"estate holds %s in cash, cannot pay %s", e.CashOnHand, amount).
			WithDetail("available", e.CashOnHand.String()).
			WithDetail("requested", amount.String())
	}
	if blocking := e.seniorUnpaidDebt(debt); blocking != nil {
		return nil, dErrors.Newf(dErrors.CodeStatutoryOrder,
			"section 45 order of payment: %s (tier %d, %s outstanding) must be settled before %s (tier %d)",
			blocking.CreditorName, blocking.Priority.Tier, blocking.OutstandingBalance,
			debt.CreditorName, debt.Priority.Tier).
			WithDetail("blocking_debt_id", blocking.ID.String()).
			WithDetail("blocking_tier", blocking.Priority.Label).
			WithDetail("blocking_outstanding", blocking.OutstandingBalance.String())
	}
	if err := debt.RecordPayment(amount, now); err != nil {
		return nil, err
	}
	e.CashOnHand = remainingCash
	e.touch(now)
	events := []Event{NewEvent(e.ID, EventDebtPaymentMade, now, map[string]string{
		"debt_id":  debtID.String(),
		"creditor": debt.CreditorName,
		"amount":   amount.String(),
		"balance":  debt.OutstandingBalance.String(),
	})}
	if debt.IsSettled() {
		events = append(events, NewEvent(e.ID, EventDebtSettled, now, map[string]string{
			"debt_id":  debtID.String(),
			"creditor": debt.CreditorName,
		}))
	}
	return append(events, e.recalculateSolvency(now)...), nil
}

// DisputeDebt contests a creditor claim.
func (e *Estate) DisputeDebt(debtID id.DebtID, reason string, now time.Time) ([]Event, error) {
	if err := e.guardMutable(); err != nil {
		return nil, err
	}
	debt := e.findDebt(debtID)
	if debt == nil {
		return nil, dErrors.New(dErrors.CodeNotFound, "debt not found")
	}
	if err := debt.Dispute(reason, now); err != nil {
		return nil, err
	}
	e.touch(now)
	events := []Event{NewEvent(e.ID, EventDebtDisputed, now, map[string]string{
		"debt_id": debtID.String(),
		"reason":  reason,
	})}
	return append(events, e.recalculateSolvency(now)...), nil
}

// ResolveDebtDispute restores a disputed claim to the payment queue.
func (e *Estate) ResolveDebtDispute(debtID id.DebtID, now time.Time) ([]Event, error) {
	if err := e.guardMutable(); err != nil {
		return nil, err
	}
	debt := e.findDebt(debtID)
	if debt == nil {
		return nil, dErrors.New(dErrors.CodeNotFound, "debt not found")
	}
	if err := debt.ResolveDispute(now); err != nil {
		return nil, err
	}
	e.touch(now)
	events := []Event{NewEvent(e.ID, EventDebtDisputeResolved, now, map[string]string{
		"debt_id": debtID.String(),
	})}
	return append(events, e.recalculateSolvency(now)...), nil
}

// MarkDebtStatuteBarred closes a claim whose limitation period has lapsed.
func (e *Estate) MarkDebtStatuteBarred(debtID id.DebtID, now time.Time) ([]Event, error) {
	if err := e.guardMutable(); err != nil {
		return nil, err
	}
	debt := e.findDebt(debtID)
	if debt == nil {
		return nil, dErrors.New(dErrors.CodeNotFound, "debt not found")
	}
	if err := debt.MarkStatuteBarred(now); err != nil {
		return nil, err
	}
	e.touch(now)
	events := []Event{NewEvent(e.ID, EventDebtStatuteBarred, now, map[string]string{
		"debt_id":  debtID.String(),
		"creditor": debt.CreditorName,
	})}
	return append(events, e.recalculateSolvency(now)...), nil
}

// WriteOffDebt abandons a claim as uncollectible.
func (e *Estate) WriteOffDebt(debtID id.DebtID, now time.Time) ([]Event, error) {
	if err := e.guardMutable(); err != nil {
		return nil, err
	}
	debt := e.findDebt(debtID)
	if debt == nil {
		return nil, dErrors.New(dErrors.CodeNotFound, "debt not found")
	}
	if err := debt.WriteOff(now); err != nil {
		return nil, err
	}
	e.touch(now)
	events := []Event{NewEvent(e.ID, EventDebtWrittenOff, now, map[string]string{
		"debt_id":  debtID.String(),
		"creditor": debt.CreditorName,
	})}
	return append(events, e.recalculateSolvency(now)...), nil
}

// RecordGift records a lifetime gift for hotchpot consideration.
func (e *Estate) RecordGift(gift *GiftInterVivos, now time.Time) ([]Event, error) {
	if err := e.guardMutable(); err != nil {
		return nil, err
	}
	if e.findGift(gift.ID) != nil {
		return nil, dErrors.New(dErrors.CodeConflict, "gift is already recorded")
	}
	if err := e.checkCurrency(gift.ValueAtTimeOfGift); err != nil {
		return nil, err
	}
	if gift.GivenAt.After(e.DateOfDeath) {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "gift cannot postdate the death")
	}
	e.Gifts = append(e.Gifts, gift)
	e.touch(now)
	events := []Event{NewEvent(e.ID, EventGiftRecorded, now, map[string]string{
		"gift_id":   gift.ID.String(),
		"recipient": gift.RecipientName,
		"value":     gift.ValueAtTimeOfGift.String(),
	})}
	return append(events, e.recalculateSolvency(now)...), nil
}

// ContestGift challenges a recorded gift.
func (e *Estate) ContestGift(giftID id.GiftID, now time.Time) ([]Event, error) {
	if err := e.guardMutable(); err != nil {
		return nil, err
	}
	gift := e.findGift(giftID)
	if gift == nil {
		return nil, dErrors.New(dErrors.CodeNotFound, "gift not found")
	}
	if err := gift.Contest(now); err != nil {
		return nil, err
	}
	e.touch(now)
	return []Event{NewEvent(e.ID, EventGiftContested, now, map[string]string{
		"gift_id": giftID.String(),
	})}, nil
}

// ConfirmGift settles a contested gift as genuine.
func (e *Estate) ConfirmGift(giftID id.GiftID, now time.Time) ([]Event, error) {
	if err := e.guardMutable(); err != nil {
		return nil, err
	}
	gift := e.findGift(giftID)
	if gift == nil {
		return nil, dErrors.New(dErrors.CodeNotFound, "gift not found")
	}
	if err := gift.Confirm(now); err != nil {
		return nil, err
	}
	e.touch(now)
	return []Event{NewEvent(e.ID, EventGiftConfirmed, now, map[string]string{
		"gift_id": giftID.String(),
	})}, nil
}

// ExcludeGift removes a contested gift from all calculations.
func (e *Estate) ExcludeGift(giftID id.GiftID, now time.Time) ([]Event, error) {
	if err := e.guardMutable(); err != nil {
		return nil, err
	}
	gift := e.findGift(giftID)
	if gift == nil {
		return nil, dErrors.New(dErrors.CodeNotFound, "gift not found")
	}
	if err := gift.Exclude(now); err != nil {
		return nil, err
	}
	e.touch(now)
	return []Event{NewEvent(e.ID, EventGiftExcluded, now, map[string]string{
		"gift_id": giftID.String(),
	})}, nil
}

// ReclassifyGiftAsLoan resolves a contested gift as a loan. The receivable
// is recorded against the recipient separately.
func (e *Estate) ReclassifyGiftAsLoan(giftID id.GiftID, now time.Time) ([]Event, error) {
	if err := e.guardMutable(); err != nil {
		return nil, err
	}
	gift := e.findGift(giftID)
	if gift == nil {
		return nil, dErrors.New(dErrors.CodeNotFound, "gift not found")
	}
	if err := gift.ReclassifyAsLoan(now); err != nil {
		return nil, err
	}
	e.touch(now)
	return []Event{NewEvent(e.ID, EventGiftReclassified, now, map[string]string{
		"gift_id":   giftID.String(),
		"recipient": gift.RecipientName,
		"value":     gift.ValueAtTimeOfGift.String(),
	})}, nil
}

// RegisterDependant records a dependency claim against the estate.
func (e *Estate) RegisterDependant(dep *LegalDependant, now time.Time) ([]Event, error) {
	if err := e.guardMutable(); err != nil {
		return nil, err
	}
	if e.findDependant(dep.ID) != nil {
		return nil, dErrors.New(dErrors.CodeConflict, "dependant is already registered")
	}
	if err := e.checkCurrency(dep.MonthlyNeeds); err != nil {
		return nil, err
	}
	if err := e.checkCurrency(dep.PreviousMonthlySupport); err != nil {
		return nil, err
	}
	e.Dependants = append(e.Dependants, dep)
	e.touch(now)
	return []Event{NewEvent(e.ID, EventDependantRegistered, now, map[string]string{
		"dependant_id": dep.ID.String(),
		"relationship": dep.Relationship.String(),
		"section":      dep.Relationship.Section(),
	})}, nil
}

// SubmitDependantEvidence files a supporting document for a claim. A
// rejected claim reopens for verification.
func (e *Estate) SubmitDependantEvidence(dependantID id.DependantID, ev Evidence, now time.Time) ([]Event, error) {
	if err := e.guardMutable(); err != nil {
		return nil, err
	}
	dep := e.findDependant(dependantID)
	if dep == nil {
		return nil, dErrors.New(dErrors.CodeNotFound, "dependant not found")
	}
	if err := dep.AddEvidence(ev, now); err != nil {
		return nil, err
	}
	if dep.Status == DependantStatusRejected {
		if err := dep.Resubmit(now); err != nil {
			return nil, err
		}
	}
	e.touch(now)
	return []Event{NewEvent(e.ID, EventDependantEvidenceAdded, now, map[string]string{
		"dependant_id": dependantID.String(),
		"kind":         ev.Kind.String(),
	})}, nil
}

// VerifyDependant accepts a dependency claim.
func (e *Estate) VerifyDependant(dependantID id.DependantID, now time.Time) ([]Event, error) {
	if err := e.guardMutable(); err != nil {
		return nil, err
	}
	dep := e.findDependant(dependantID)
	if dep == nil {
		return nil, dErrors.New(dErrors.CodeNotFound, "dependant not found")
	}
	if err := dep.Verify(now); err != nil {
		return nil, err
	}
	e.touch(now)
	return []Event{NewEvent(e.ID, EventDependantVerified, now, map[string]string{
		"dependant_id": dependantID.String(),
	})}, nil
}

// RejectDependant declines a dependency claim.
func (e *Estate) RejectDependant(dependantID id.DependantID, reason string, now time.Time) ([]Event, error) {
	if err := e.guardMutable(); err != nil {
		return nil, err
	}
	dep := e.findDependant(dependantID)
	if dep == nil {
		return nil, dErrors.New(dErrors.CodeNotFound, "dependant not found")
	}
	if err := dep.Reject(reason, now); err != nil {
		return nil, err
	}
	e.touch(now)
	return []Event{NewEvent(e.ID, EventDependantRejected, now, map[string]string{
		"dependant_id": dependantID.String(),
		"reason":       reason,
	})}, nil
}

// SettleDependant records that a verified dependant's provision was paid.
func (e *Estate) SettleDependant(dependantID id.DependantID, now time.Time) ([]Event, error) {
	if err := e.guardMutable(); err != nil {
		return nil, err
	}
	dep := e.findDependant(dependantID)
	if dep == nil {
		return nil, dErrors.New(dErrors.CodeNotFound, "dependant not found")
	}
	if err := dep.Settle(now); err != nil {
		return nil, err
	}
	e.touch(now)
	return []Event{NewEvent(e.ID, EventDependantSettled, now, map[string]string{
		"dependant_id": dependantID.String(),
	})}, nil
}

// ApplyTaxCompliance replaces the estate's revenue standing with a fresh
// provider record.
func (e *Estate) ApplyTaxCompliance(tc TaxCompliance, now time.Time) ([]Event, error) {
	if err := e.guardMutable(); err != nil {
		return nil, err
	}
	if err := e.checkCurrency(tc.Liability); err != nil {
		return nil, err
	}
	if err := e.checkCurrency(tc.Paid); err != nil {
		return nil, err
	}
	e.TaxCompliance = tc
	e.touch(now)
	events := []Event{NewEvent(e.ID, EventTaxComplianceUpdated, now, map[string]string{
		"status":      tc.Status.String(),
		"outstanding": tc.Outstanding().String(),
	})}
	return append(events, e.recalculateSolvency(now)...), nil
}

func (e *Estate) transitionStatus(target EstateStatus, now time.Time) ([]Event, error) {
	if err := e.guardMutable(); err != nil {
		return nil, err
	}
	if !e.Status.CanTransitionTo(target) {
		return nil, dErrors.Newf(dErrors.CodeInvalidTransition,
			"estate cannot move from %s to %s", e.Status, target)
	}
	from := e.Status
	e.Status = target
	e.touch(now)
	return []Event{NewEvent(e.ID, EventEstateStatusChanged, now, map[string]string{
		"from": from.String(),
		"to":   target.String(),
	})}, nil
}

// BeginEvaluation starts asset and debt discovery.
func (e *Estate) BeginEvaluation(now time.Time) ([]Event, error) {
	return e.transitionStatus(EstateStatusEvaluation, now)
}

// BeginAdministration starts active administration of the ledger.
func (e *Estate) BeginAdministration(now time.Time) ([]Event, error) {
	return e.transitionStatus(EstateStatusAdministration, now)
}

// MarkReadyForDistribution moves the estate to the distribution gate. The
// readiness conditions are checked first; the first failure aborts.
func (e *Estate) MarkReadyForDistribution(now time.Time) ([]Event, error) {
	if err := e.ValidateReadyForDistribution(e.TaxCompliance.ClearedForDistribution()); err != nil {
		return nil, err
	}
	return e.transitionStatus(EstateStatusReadyForDistribution, now)
}

// BeginDistribution starts paying out shares. Readiness is re-checked
// because the ledger may have moved since the estate was marked ready.
func (e *Estate) BeginDistribution(now time.Time) ([]Event, error) {
	if err := e.ValidateReadyForDistribution(e.TaxCompliance.ClearedForDistribution()); err != nil {
		return nil, err
	}
	return e.transitionStatus(EstateStatusDistributing, now)
}

// RevertToAdministration pulls the estate back when readiness is lost, for
// example a late claim surfacing after the gate.
func (e *Estate) RevertToAdministration(now time.Time) ([]Event, error) {
	return e.transitionStatus(EstateStatusAdministration, now)
}

// Close ends administration. Only a distributing estate can close.
func (e *Estate) Close(now time.Time) ([]Event, error) {
	return e.transitionStatus(EstateStatusClosed, now)
}

// ValidateReadyForDistribution checks the distribution gate and returns the
// first failing condition as a typed error, in fixed priority order: frozen,
// insolvent, tax not cleared, unresolved disputes.
func (e *Estate) ValidateReadyForDistribution(taxCleared bool) error {
	if e.IsFrozen {
		return dErrors.New(dErrors.CodeEstateFrozen, "estate is frozen").
			WithDetail("reason", e.FrozenReason)
	}
	if !e.IsSolvent {
		return dErrors.Newf(dErrors.CodeEstateInsolvent,
			"estate is insolvent by %s", e.NetValue.Neg()).
			WithDetail("net_value", e.NetValue.String())
	}
	if !taxCleared {
		return dErrors.New(dErrors.CodeTaxNotCleared, "tax clearance has not been issued").
			WithDetail("tax_status", e.TaxCompliance.Status.String())
	}
	disputedAssets := e.DisputedAssetCount()
	disputedDebts := e.DisputedDebtCount()
	if disputedAssets > 0 || disputedDebts > 0 {
		return dErrors.Newf(dErrors.CodeUnresolvedDisputes,
			"estate has unresolved disputes: %d assets, %d debts", disputedAssets, disputedDebts)
	}
	return nil
}

// GrossAssetValue totals the distributable value of all assets.
func (e *Estate) GrossAssetValue() money.Money {
	total := money.Zero(e.Currency)
	for _, a := range e.Assets {
		total = money.NewFromDecimal(total.Amount().Add(a.DistributableValue().Amount()), e.Currency)
	}
	return total
}

// TotalDebtOutstanding totals open claim balances.
func (e *Estate) TotalDebtOutstanding() money.Money {
	total := money.Zero(e.Currency)
	for _, d := range e.Debts {
		if d.HasOutstandingBalance() {
			total = money.NewFromDecimal(total.Amount().Add(d.OutstandingBalance.Amount()), e.Currency)
		}
	}
	return total
}

// ConfirmedGiftValue totals the gifts eligible for hotchpot consideration.
func (e *Estate) ConfirmedGiftValue() money.Money {
	total := money.Zero(e.Currency)
	for _, g := range e.Gifts {
		if g.IsConfirmed() {
			total = money.NewFromDecimal(total.Amount().Add(g.ValueAtTimeOfGift.Amount()), e.Currency)
		}
	}
	return total
}

// DistributablePool is the hotchpot-adjusted pool: net value plus confirmed
// lifetime gifts brought back in.
func (e *Estate) DistributablePool() money.Money {
	return money.NewFromDecimal(e.NetValue.Amount().Add(e.ConfirmedGiftValue().Amount()), e.Currency)
}

// VerifiedDependants lists the claims that must be provided for before any
// beneficiary share.
func (e *Estate) VerifiedDependants() []*LegalDependant {
	var out []*LegalDependant
	for _, d := range e.Dependants {
		if d.IsVerified() {
			out = append(out, d)
		}
	}
	return out
}

// HasVerifiedAsset reports whether at least one asset passed verification.
func (e *Estate) HasVerifiedAsset() bool {
	for _, a := range e.Assets {
		if a.IsVerified() {
			return true
		}
	}
	return false
}

// HasOutstandingCriticalDebts reports whether any open claim in tiers 1
// through 4 still reduces the estate.
func (e *Estate) HasOutstandingCriticalDebts() bool {
	for _, d := range e.Debts {
		if d.HasOutstandingBalance() && d.Priority.IsCritical() {
			return true
		}
	}
	return false
}

// DisputedAssetCount counts assets under dispute.
func (e *Estate) DisputedAssetCount() int {
	n := 0
	for _, a := range e.Assets {
		if a.IsDisputed() {
			n++
		}
	}
	return n
}

// DisputedDebtCount counts claims under dispute.
func (e *Estate) DisputedDebtCount() int {
	n := 0
	for _, d := range e.Debts {
		if d.IsDisputed() {
			n++
		}
	}
	return n
}
