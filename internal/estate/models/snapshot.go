package models

import (
	"time"

	id "github.com/CoolCerebralTech/Mirathi-System-sub006/pkg/domain"
	dErrors "github.com/CoolCerebralTech/Mirathi-System-sub006/pkg/domain-errors"
	"github.com/CoolCerebralTech/Mirathi-System-sub006/pkg/money"
)

// EstateSnapshot is the flat persistence record for an estate and all its
// owned children. Stores map it to their own schema and reconstruct the
// aggregate from an equivalent record via RehydrateEstate. Net value and
// solvency are derived, not persisted.
type EstateSnapshot struct {
	ID            id.EstateID
	Name          string
	DeceasedID    id.PersonID
	DateOfDeath   time.Time
	Status        EstateStatus
	Currency      string
	CashOnHand    money.Money
	Assets        []Asset
	Debts         []Debt
	Gifts         []GiftInterVivos
	Dependants    []LegalDependant
	TaxCompliance TaxCompliance
	IsFrozen      bool
	FrozenReason  string
	Version       int64
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Snapshot copies the aggregate into its flat persistence record. Children
// are copied by value so the snapshot never aliases live aggregate state.
func (e *Estate) Snapshot() EstateSnapshot {
	snap := EstateSnapshot{
		ID:            e.ID,
		Name:          e.Name,
		DeceasedID:    e.DeceasedID,
		DateOfDeath:   e.DateOfDeath,
		Status:        e.Status,
		Currency:      e.Currency,
		CashOnHand:    e.CashOnHand,
		TaxCompliance: e.TaxCompliance,
		IsFrozen:      e.IsFrozen,
		FrozenReason:  e.FrozenReason,
		Version:       e.Version,
		CreatedAt:     e.CreatedAt,
		UpdatedAt:     e.UpdatedAt,
	}
	for _, a := range e.Assets {
		c := *a
		c.AcquiredAt = copyTimePtr(a.AcquiredAt)
		c.VerifiedAt = copyTimePtr(a.VerifiedAt)
		snap.Assets = append(snap.Assets, c)
	}
	for _, d := range e.Debts {
		c := *d
		if d.SecuredAssetID != nil {
			v := *d.SecuredAssetID
			c.SecuredAssetID = &v
		}
		snap.Debts = append(snap.Debts, c)
	}
	for _, g := range e.Gifts {
		snap.Gifts = append(snap.Gifts, *g)
	}
	for _, dep := range e.Dependants {
		c := *dep
		c.DateOfBirth = copyTimePtr(dep.DateOfBirth)
		c.Evidence = append([]Evidence(nil), dep.Evidence...)
		snap.Dependants = append(snap.Dependants, c)
	}
	return snap
}

// RehydrateEstate reconstructs an aggregate from a stored snapshot. The
// snapshot's version becomes the loaded version for the optimistic
// concurrency check at save. Derived solvency fields are recomputed.
func RehydrateEstate(snap EstateSnapshot) (*Estate, error) {
	if snap.ID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInternal, "estate record has no id")
	}
	if !snap.Status.IsValid() {
		return nil, dErrors.Newf(dErrors.CodeInternal, "estate record has unknown status %q", snap.Status)
	}
	if snap.Version < 1 {
		return nil, dErrors.New(dErrors.CodeInternal, "estate record has no version")
	}
	if snap.CashOnHand.IsNegative() {
		return nil, dErrors.New(dErrors.CodeInternal, "estate record has negative cash")
	}
	currency := snap.Currency
	if currency == "" {
		currency = money.DefaultCurrency
	}
	e := &Estate{
		ID:            snap.ID,
		Name:          snap.Name,
		DeceasedID:    snap.DeceasedID,
		DateOfDeath:   snap.DateOfDeath,
		Status:        snap.Status,
		Currency:      currency,
		CashOnHand:    snap.CashOnHand,
		TaxCompliance: snap.TaxCompliance,
		IsFrozen:      snap.IsFrozen,
		FrozenReason:  snap.FrozenReason,
		Version:       snap.Version,
		CreatedAt:     snap.CreatedAt,
		UpdatedAt:     snap.UpdatedAt,
		loadedVersion: snap.Version,
	}
	for i := range snap.Assets {
		a := snap.Assets[i]
		a.AcquiredAt = copyTimePtr(snap.Assets[i].AcquiredAt)
		a.VerifiedAt = copyTimePtr(snap.Assets[i].VerifiedAt)
		e.Assets = append(e.Assets, &a)
	}
	for i := range snap.Debts {
		d := snap.Debts[i]
		if snap.Debts[i].SecuredAssetID != nil {
			v := *snap.Debts[i].SecuredAssetID
			d.SecuredAssetID = &v
		}
		e.Debts = append(e.Debts, &d)
	}
	for i := range snap.Gifts {
		g := snap.Gifts[i]
		e.Gifts = append(e.Gifts, &g)
	}
	for i := range snap.Dependants {
		dep := snap.Dependants[i]
		dep.DateOfBirth = copyTimePtr(snap.Dependants[i].DateOfBirth)
		dep.Evidence = append([]Evidence(nil), snap.Dependants[i].Evidence...)
		e.Dependants = append(e.Dependants, &dep)
	}
	e.NetValue = e.computeNetValue()
	e.IsSolvent = !e.NetValue.IsNegative()
	return e, nil
}

// LoadedVersion is the version this aggregate was read at, the expected
// value for the store's compare-and-swap on save.
func (e *Estate) LoadedVersion() int64 {
	return e.loadedVersion
}

// MarkPersisted records a successful save, so further mutations on the same
// in-memory aggregate CAS against the saved version.
func (e *Estate) MarkPersisted() {
	e.loadedVersion = e.Version
}

func copyTimePtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
