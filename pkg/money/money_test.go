package money

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArithmetic(t *testing.T) {
	t.Run("add same currency", func(t *testing.T) {
		sum, err := New(100_000, "KES").Add(New(50_000, "KES"))
		require.NoError(t, err)
		assert.True(t, sum.Equal(New(150_000, "KES")))
	})

	t.Run("cross-currency add is rejected", func(t *testing.T) {
		_, err := New(100, "KES").Add(New(100, "USD"))
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrCurrencyMismatch)
	})

	t.Run("zero value interoperates with any currency", func(t *testing.T) {
		var zero Money
		sum, err := zero.Add(New(75, "KES"))
		require.NoError(t, err)
		assert.Equal(t, "KES", sum.Currency())
		assert.True(t, sum.Equal(New(75, "KES")))
	})

	t.Run("sub may go negative", func(t *testing.T) {
		d, err := New(100, "KES").Sub(New(250, "KES"))
		require.NoError(t, err)
		assert.True(t, d.IsNegative())
	})

	t.Run("sub floor clamps at zero", func(t *testing.T) {
		d, err := New(100, "KES").SubFloor(New(250, "KES"))
		require.NoError(t, err)
		assert.True(t, d.IsZero())
	})

	t.Run("equal split reconciles exactly", func(t *testing.T) {
		pool := New(900_000, "KES")
		share := pool.DivInt(3)
		total, err := Sum("KES", share, share, share)
		require.NoError(t, err)
		assert.True(t, total.Equal(pool))
	})
}

func TestComparisons(t *testing.T) {
	a := New(500, "KES")
	b := New(700, "KES")

	assert.True(t, b.GreaterThan(a))
	assert.True(t, a.LessThan(b))
	assert.False(t, a.Equal(b))
	assert.False(t, a.GreaterThan(New(500, "USD"))) // cross-currency: not greater
}

func TestParsing(t *testing.T) {
	t.Run("valid decimal string", func(t *testing.T) {
		m, err := NewFromString("1500.75", "KES")
		require.NoError(t, err)
		assert.Equal(t, "1500.75 KES", m.String())
	})

	t.Run("garbage is rejected", func(t *testing.T) {
		_, err := NewFromString("a lot", "KES")
		require.Error(t, err)
	})

	t.Run("empty currency defaults", func(t *testing.T) {
		m, err := NewFromString("10", "")
		require.NoError(t, err)
		assert.Equal(t, DefaultCurrency, m.Currency())
	})
}

func TestJSONRoundTrip(t *testing.T) {
	in := New(250_000.50, "KES")
	raw, err := json.Marshal(in)
	require.NoError(t, err)
	assert.JSONEq(t, `{"amount":"250000.5","currency":"KES"}`, string(raw))

	var out Money
	require.NoError(t, json.Unmarshal(raw, &out))
	assert.True(t, in.Equal(out))
}
