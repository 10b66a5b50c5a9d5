// Package domain defines the typed identifiers shared across the estate
// administration services. Each ID wraps uuid.UUID so the compiler rejects
// cross-type assignment (an AssetID can never be passed where a DebtID is
// expected).
//
// Construct via the ParseXxxID functions at trust boundaries (handlers,
// adapters); direct casting bypasses validation and is reserved for
// internally-generated values.
package domain

import (
	"github.com/google/uuid"

	dErrors "github.com/CoolCerebralTech/Mirathi-System-sub006/pkg/domain-errors"
)

// EstateID identifies an estate aggregate.
type EstateID uuid.UUID

// PersonID identifies a natural person (deceased, beneficiary, claimant,
// gift recipient). Person records live in the family subsystem; here it is
// an opaque reference.
type PersonID uuid.UUID

// AssetID identifies an asset owned by an estate.
type AssetID uuid.UUID

// DebtID identifies a debt owed by an estate.
type DebtID uuid.UUID

// GiftID identifies an inter-vivos gift recorded against an estate.
type GiftID uuid.UUID

// DependantID identifies a legal dependant claim against an estate.
type DependantID uuid.UUID

// HouseID identifies a polygamous house within a family structure.
type HouseID uuid.UUID

func (id EstateID) String() string    { return uuid.UUID(id).String() }
func (id PersonID) String() string    { return uuid.UUID(id).String() }
func (id AssetID) String() string     { return uuid.UUID(id).String() }
func (id DebtID) String() string      { return uuid.UUID(id).String() }
func (id GiftID) String() string      { return uuid.UUID(id).String() }
func (id DependantID) String() string { return uuid.UUID(id).String() }
func (id HouseID) String() string     { return uuid.UUID(id).String() }

func (id EstateID) IsNil() bool    { return uuid.UUID(id) == uuid.Nil }
func (id PersonID) IsNil() bool    { return uuid.UUID(id) == uuid.Nil }
func (id AssetID) IsNil() bool     { return uuid.UUID(id) == uuid.Nil }
func (id DebtID) IsNil() bool      { return uuid.UUID(id) == uuid.Nil }
func (id GiftID) IsNil() bool      { return uuid.UUID(id) == uuid.Nil }
func (id DependantID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }
func (id HouseID) IsNil() bool     { return uuid.UUID(id) == uuid.Nil }

// NewEstateID generates a fresh estate identifier.
func NewEstateID() EstateID { return EstateID(uuid.New()) }

// NewPersonID generates a fresh person identifier.
func NewPersonID() PersonID { return PersonID(uuid.New()) }

// NewAssetID generates a fresh asset identifier.
func NewAssetID() AssetID { return AssetID(uuid.New()) }

// NewDebtID generates a fresh debt identifier.
func NewDebtID() DebtID { return DebtID(uuid.New()) }

// NewGiftID generates a fresh gift identifier.
func NewGiftID() GiftID { return GiftID(uuid.New()) }

// NewDependantID generates a fresh dependant identifier.
func NewDependantID() DependantID { return DependantID(uuid.New()) }

// NewHouseID generates a fresh house identifier.
func NewHouseID() HouseID { return HouseID(uuid.New()) }

// MarshalText keeps the canonical string form in JSON and text encodings.
func (id EstateID) MarshalText() ([]byte, error)    { return []byte(id.String()), nil }
func (id PersonID) MarshalText() ([]byte, error)    { return []byte(id.String()), nil }
func (id AssetID) MarshalText() ([]byte, error)     { return []byte(id.String()), nil }
func (id DebtID) MarshalText() ([]byte, error)      { return []byte(id.String()), nil }
func (id GiftID) MarshalText() ([]byte, error)      { return []byte(id.String()), nil }
func (id DependantID) MarshalText() ([]byte, error) { return []byte(id.String()), nil }
func (id HouseID) MarshalText() ([]byte, error)     { return []byte(id.String()), nil }

// UnmarshalText applies the same validation as the Parse functions.
func (id *EstateID) UnmarshalText(b []byte) error {
	u, err := parseUUID(string(b), "estate id")
	if err != nil {
		return err
	}
	*id = EstateID(u)
	return nil
}

func (id *PersonID) UnmarshalText(b []byte) error {
	u, err := parseUUID(string(b), "person id")
	if err != nil {
		return err
	}
	*id = PersonID(u)
	return nil
}

func (id *AssetID) UnmarshalText(b []byte) error {
	u, err := parseUUID(string(b), "asset id")
	if err != nil {
		return err
	}
	*id = AssetID(u)
	return nil
}

func (id *DebtID) UnmarshalText(b []byte) error {
	u, err := parseUUID(string(b), "debt id")
	if err != nil {
		return err
	}
	*id = DebtID(u)
	return nil
}

func (id *GiftID) UnmarshalText(b []byte) error {
	u, err := parseUUID(string(b), "gift id")
	if err != nil {
		return err
	}
	*id = GiftID(u)
	return nil
}

func (id *DependantID) UnmarshalText(b []byte) error {
	u, err := parseUUID(string(b), "dependant id")
	if err != nil {
		return err
	}
	*id = DependantID(u)
	return nil
}

func (id *HouseID) UnmarshalText(b []byte) error {
	u, err := parseUUID(string(b), "house id")
	if err != nil {
		return err
	}
	*id = HouseID(u)
	return nil
}

// parseUUID enforces the shared invariant: IDs must be valid, non-empty,
// non-nil UUIDs.
func parseUUID(s, what string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, dErrors.Newf(dErrors.CodeInvalidInput, "%s cannot be empty", what)
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.Newf(dErrors.CodeInvalidInput, "invalid %s", what)
	}
	if u == uuid.Nil {
		return uuid.Nil, dErrors.Newf(dErrors.CodeInvalidInput, "%s cannot be the nil UUID", what)
	}
	return u, nil
}

// ParseEstateID constructs an EstateID from external input.
func ParseEstateID(s string) (EstateID, error) {
	u, err := parseUUID(s, "estate id")
	return EstateID(u), err
}

// ParsePersonID constructs a PersonID from external input.
func ParsePersonID(s string) (PersonID, error) {
	u, err := parseUUID(s, "person id")
	return PersonID(u), err
}

// ParseAssetID constructs an AssetID from external input.
func ParseAssetID(s string) (AssetID, error) {
	u, err := parseUUID(s, "asset id")
	return AssetID(u), err
}

// ParseDebtID constructs a DebtID from external input.
func ParseDebtID(s string) (DebtID, error) {
	u, err := parseUUID(s, "debt id")
	return DebtID(u), err
}

// ParseGiftID constructs a GiftID from external input.
func ParseGiftID(s string) (GiftID, error) {
	u, err := parseUUID(s, "gift id")
	return GiftID(u), err
}

// ParseDependantID constructs a DependantID from external input.
func ParseDependantID(s string) (DependantID, error) {
	u, err := parseUUID(s, "dependant id")
	return DependantID(u), err
}

// ParseHouseID constructs a HouseID from external input.
func ParseHouseID(s string) (HouseID, error) {
	u, err := parseUUID(s, "house id")
	return HouseID(u), err
}
