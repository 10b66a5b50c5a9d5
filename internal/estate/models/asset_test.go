package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "github.com/CoolCerebralTech/Mirathi-System-sub006/pkg/domain"
	"github.com/CoolCerebralTech/Mirathi-System-sub006/pkg/money"
)

func TestAssetLifecycle(t *testing.T) {
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	newAsset := func(t *testing.T) *Asset {
		a, err := NewAsset(id.NewAssetID(), "LR 209/1234 Nairobi", AssetKindLand,
			money.New(2000000, "KES"), nil, now)
		require.NoError(t, err)
		return a
	}

	t.Run("starts pending with full distributable value", func(t *testing.T) {
		a := newAsset(t)
		assert.Equal(t, AssetStatusPendingVerification, a.Status)
		assert.True(t, a.DistributableValue().Equal(a.EstimatedValue))
	})

	t.Run("verify dispute resolve cycle", func(t *testing.T) {
		a := newAsset(t)
		require.NoError(t, a.Verify(now))
		require.NotNil(t, a.VerifiedAt)

		require.NoError(t, a.Dispute("boundary overlap with neighbour", now))
		assert.True(t, a.IsDisputed())
		assert.True(t, a.DistributableValue().Equal(a.EstimatedValue),
			"disputes gate distribution, not valuation")

		require.NoError(t, a.ResolveDispute(now))
		assert.True(t, a.IsVerified())
		assert.Empty(t, a.DisputeReason)
	})

	t.Run("liquidated and excluded zero out", func(t *testing.T) {
		a := newAsset(t)
		require.NoError(t, a.Verify(now))
		require.NoError(t, a.Liquidate(now))
		assert.True(t, a.DistributableValue().IsZero())
		assert.True(t, a.Status.IsTerminal())

		b := newAsset(t)
		require.NoError(t, b.Exclude(now))
		assert.True(t, b.DistributableValue().IsZero())
	})

	t.Run("pending asset cannot liquidate", func(t *testing.T) {
		a := newAsset(t)
		require.Error(t, a.Liquidate(now))
	})

	t.Run("empty dispute reason rejected", func(t *testing.T) {
		a := newAsset(t)
		require.Error(t, a.Dispute("", now))
		assert.Equal(t, AssetStatusPendingVerification, a.Status)
	})
}
