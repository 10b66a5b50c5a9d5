package models

import (
	"time"

	"github.com/google/uuid"

	id "github.com/CoolCerebralTech/Mirathi-System-sub006/pkg/domain"
)

// EventType names a fact recorded against an estate's timeline.
type EventType string

const (
	EventEstateOpened           EventType = "estate.opened"
	EventEstateStatusChanged    EventType = "estate.status_changed"
	EventEstateFrozen           EventType = "estate.frozen"
	EventEstateUnfrozen         EventType = "estate.unfrozen"
	EventEstateWentInsolvent    EventType = "estate.went_insolvent"
	EventEstateSolvencyRestored EventType = "estate.solvency_restored"
	EventFundsDeposited         EventType = "estate.funds_deposited"
	EventTaxComplianceUpdated   EventType = "estate.tax_compliance_updated"

	EventAssetAdded           EventType = "asset.added"
	EventAssetVerified        EventType = "asset.verified"
	EventAssetDisputed        EventType = "asset.disputed"
	EventAssetDisputeResolved EventType = "asset.dispute_resolved"
	EventAssetExcluded        EventType = "asset.excluded"
	EventAssetLiquidated      EventType = "asset.liquidated"

	EventDebtRecorded        EventType = "debt.recorded"
	EventDebtPaymentMade     EventType = "debt.payment_made"
	EventDebtSettled         EventType = "debt.settled"
	EventDebtDisputed        EventType = "debt.disputed"
	EventDebtDisputeResolved EventType = "debt.dispute_resolved"
	EventDebtStatuteBarred   EventType = "debt.statute_barred"
	EventDebtWrittenOff      EventType = "debt.written_off"

	EventGiftRecorded     EventType = "gift.recorded"
	EventGiftContested    EventType = "gift.contested"
	EventGiftConfirmed    EventType = "gift.confirmed"
	EventGiftExcluded     EventType = "gift.excluded"
	EventGiftReclassified EventType = "gift.reclassified_as_loan"

	EventDependantRegistered    EventType = "dependant.registered"
	EventDependantEvidenceAdded EventType = "dependant.evidence_added"
	EventDependantVerified      EventType = "dependant.verified"
	EventDependantRejected      EventType = "dependant.rejected"
	EventDependantSettled       EventType = "dependant.settled"

	EventDistributionCalculated EventType = "distribution.calculated"
)

// Event is a domain fact produced by an estate mutation. Mutating methods
// return the events they caused; callers persist and publish them, the
// aggregate never buffers.
type Event struct {
	ID         uuid.UUID         `json:"id"`
	EstateID   id.EstateID       `json:"estate_id"`
	Type       EventType         `json:"type"`
	OccurredAt time.Time         `json:"occurred_at"`
	Details    map[string]string `json:"details,omitempty"`
}

// NewEvent stamps a fresh event for the estate's timeline.
func NewEvent(estateID id.EstateID, typ EventType, at time.Time, details map[string]string) Event {
	return Event{
		ID:         uuid.New(),
		EstateID:   estateID,
		Type:       typ,
		OccurredAt: at,
		Details:    details,
	}
}
