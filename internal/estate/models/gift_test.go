package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "github.com/CoolCerebralTech/Mirathi-System-sub006/pkg/domain"
	"github.com/CoolCerebralTech/Mirathi-System-sub006/pkg/money"
)

func TestGiftLifecycle(t *testing.T) {
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	given := now.AddDate(-3, 0, 0)

	newGift := func(t *testing.T) *GiftInterVivos {
		g, err := NewGiftInterVivos(id.NewGiftID(), id.NewPersonID(), "Otieno Odhiambo",
			"matatu business capital", money.New(400000, "KES"), given, false, now)
		require.NoError(t, err)
		return g
	}

	t.Run("starts confirmed and hotchpot eligible", func(t *testing.T) {
		g := newGift(t)
		assert.Equal(t, GiftStatusConfirmed, g.Status)
		assert.True(t, g.IsConfirmed())
	})

	t.Run("contest and confirm round trip", func(t *testing.T) {
		g := newGift(t)
		require.NoError(t, g.Contest(now))
		assert.False(t, g.IsConfirmed())
		require.NoError(t, g.Confirm(now))
		assert.True(t, g.IsConfirmed())
	})

	t.Run("only contested gifts can be excluded or reclassified", func(t *testing.T) {
		g := newGift(t)
		require.Error(t, g.Exclude(now))
		require.Error(t, g.ReclassifyAsLoan(now))

		require.NoError(t, g.Contest(now))
		require.NoError(t, g.ReclassifyAsLoan(now))
		assert.True(t, g.Status.IsTerminal())
		require.Error(t, g.Confirm(now))
	})

	t.Run("value is fixed at the gift date", func(t *testing.T) {
		g := newGift(t)
		require.NoError(t, g.Contest(now))
		require.NoError(t, g.Confirm(now))
		assert.True(t, g.ValueAtTimeOfGift.Equal(money.New(400000, "KES")))
	})

	t.Run("zero value rejected", func(t *testing.T) {
		_, err := NewGiftInterVivos(id.NewGiftID(), id.NewPersonID(), "recipient",
			"", money.Zero("KES"), given, false, now)
		require.Error(t, err)
	})
}
