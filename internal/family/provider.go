package family

//go:generate mockgen -source=provider.go -destination=mocks/mocks.go -package=mocks Provider

import (
	"context"

	id "github.com/CoolCerebralTech/Mirathi-System-sub006/pkg/domain"
)

// Provider supplies the family structure of a deceased person. The engine
// treats the registry as the single source of truth for kinship; providers
// must return the structure as of the date of death.
type Provider interface {
	FamilyStructure(ctx context.Context, deceasedID id.PersonID) (*FamilyStructure, error)
}
