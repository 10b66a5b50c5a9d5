package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "github.com/CoolCerebralTech/Mirathi-System-sub006/pkg/domain-errors"
)

// TestParseEstateID_Invariants validates the parsing invariant:
// "IDs must be valid, non-empty, non-nil UUIDs".
func TestParseEstateID_Invariants(t *testing.T) {
	t.Run("rejects empty string", func(t *testing.T) {
		_, err := ParseEstateID("")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("rejects invalid format", func(t *testing.T) {
		_, err := ParseEstateID("not-a-uuid")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("rejects nil UUID", func(t *testing.T) {
		_, err := ParseEstateID(uuid.Nil.String())
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("accepts valid UUID", func(t *testing.T) {
		valid := uuid.New()
		id, err := ParseEstateID(valid.String())
		require.NoError(t, err)
		assert.Equal(t, EstateID(valid), id)
	})
}

// TestTypeDistinction verifies the compiler enforces type safety between ID
// kinds. If this compiles, the invariant holds; the runtime check documents it.
func TestTypeDistinction(t *testing.T) {
	assetID := AssetID(uuid.New())
	debtID := DebtID(uuid.New())

	// These would fail to compile if types were interchangeable:
	// var _ AssetID = debtID  // compile error
	// var _ DebtID = assetID  // compile error

	assert.NotEqual(t, uuid.UUID(assetID), uuid.UUID(debtID))
}

func TestParseDebtID_RoundTrip(t *testing.T) {
	want := NewDebtID()
	got, err := ParseDebtID(want.String())
	require.NoError(t, err)
	assert.Equal(t, want, got)
	assert.False(t, got.IsNil())
}
