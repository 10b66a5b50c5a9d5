package specification

import (
	"fmt"

	"github.com/CoolCerebralTech/Mirathi-System-sub006/internal/estate/models"
)

// Solvent requires a non-negative net estate value.
func Solvent() Spec[*models.Estate] {
	return New("solvent", func(e *models.Estate) bool {
		return e.IsSolvent
	})
}

// NoOutstandingCriticalDebts requires every tier 1-4 claim to be fully
// retired or closed through its own lifecycle.
func NoOutstandingCriticalDebts() Spec[*models.Estate] {
	return New("no_outstanding_critical_debts", func(e *models.Estate) bool {
		return !e.HasOutstandingCriticalDebts()
	})
}

// HasVerifiedAsset requires at least one asset to have passed verification.
// An estate of entirely unverified property has nothing provable to
// distribute.
func HasVerifiedAsset() Spec[*models.Estate] {
	return New("has_verified_asset", func(e *models.Estate) bool {
		return e.HasVerifiedAsset()
	})
}

// NotFrozen requires the estate to be free of a court freeze.
func NotFrozen() Spec[*models.Estate] {
	return New("not_frozen", func(e *models.Estate) bool {
		return !e.IsFrozen
	})
}

// NoDisputedAssets requires every asset dispute to be resolved.
func NoDisputedAssets() Spec[*models.Estate] {
	return New("no_disputed_assets", func(e *models.Estate) bool {
		return e.DisputedAssetCount() == 0
	})
}

// NoDisputedDebts requires every debt dispute to be resolved.
func NoDisputedDebts() Spec[*models.Estate] {
	return New("no_disputed_debts", func(e *models.Estate) bool {
		return e.DisputedDebtCount() == 0
	})
}

// estateCheck pairs a specification with its human-readable failure reason.
type estateCheck struct {
	spec   Spec[*models.Estate]
	reason func(*models.Estate) string
}

// orderedChecks is the single source of truth for gate ordering. Blocking
// reasons are always reported in this sequence.
func orderedChecks() []estateCheck {
	return []estateCheck{
		{NotFrozen(), func(e *models.Estate) string {
			return fmt.Sprintf("estate is frozen: %s", e.FrozenReason)
		}},
		{Solvent(), func(e *models.Estate) string {
			return fmt.Sprintf("estate is insolvent by %s", e.NetValue.Neg())
		}},
		{NoOutstandingCriticalDebts(), func(e *models.Estate) string {
			n := 0
			for _, d := range e.Debts {
				if d.HasOutstandingBalance() && d.Priority.IsCritical() {
					n++
				}
			}
			return fmt.Sprintf("%d critical debts (tiers 1-4) remain outstanding", n)
		}},
		{HasVerifiedAsset(), func(e *models.Estate) string {
			return "no asset has passed verification"
		}},
		{NoDisputedAssets(), func(e *models.Estate) string {
			return fmt.Sprintf("%d assets are under dispute", e.DisputedAssetCount())
		}},
		{NoDisputedDebts(), func(e *models.Estate) string {
			return fmt.Sprintf("%d debts are under dispute", e.DisputedDebtCount())
		}},
	}
}

// ReadyForDistribution is the composite distribution gate: all six
// conditions must hold.
func ReadyForDistribution() Spec[*models.Estate] {
	checks := orderedChecks()
	specs := make([]Spec[*models.Estate], 0, len(checks))
	for _, c := range checks {
		specs = append(specs, c.spec)
	}
	return And("ready_for_distribution", specs...)
}

// BlockingReasons reports every failing gate condition, one reason per
// failing predicate, in the fixed check order. Empty means the estate
// passes the gate.
func BlockingReasons(e *models.Estate) []string {
	var reasons []string
	for _, c := range orderedChecks() {
		if !c.spec.IsSatisfiedBy(e) {
			reasons = append(reasons, c.reason(e))
		}
	}
	return reasons
}
