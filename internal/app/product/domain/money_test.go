package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMoney(t *testing.T) {
	t.Run("valid money creation", func(t *testing.T) {
		m, err := NewMoney(100, 1)
		require.NoError(t, err)
		num, denom, err := m.Parts()
		require.NoError(t, err)
		assert.Equal(t, int64(100), num)
		assert.Equal(t, int64(1), denom)
	})

	t.Run("zero denominator returns error", func(t *testing.T) {
		_, err := NewMoney(100, 0)
		assert.Error(t, err)
	})

	t.Run("negative denominator returns error", func(t *testing.T) {
		_, err := NewMoney(100, -1)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "positive")
	})

	t.Run("parts are reduced", func(t *testing.T) {
		num, denom, err := MustMoney(250, 100).Parts()
		require.NoError(t, err)
		assert.Equal(t, int64(5), num)
		assert.Equal(t, int64(2), denom)
	})
}

func TestMoney_Add(t *testing.T) {
	m1 := MustMoney(100, 1)
	m2 := MustMoney(50, 100)

	assert.Equal(t, "100.50", m1.Add(m2).String())
	assert.Equal(t, "100.00", m1.String(), "operands are not modified")
}

func TestMoney_PartsOverflow(t *testing.T) {
	big := MustMoney(math.MaxInt64, 1).Add(MustMoney(1, 1))
	_, _, err := big.Parts()
	assert.ErrorIs(t, err, ErrMoneyOverflow)
}

func TestMoney_Equal(t *testing.T) {
	tests := []struct {
		name  string
		a, b  *Money
		equal bool
	}{
		{name: "same representation", a: MustMoney(100, 1), b: MustMoney(100, 1), equal: true},
		{name: "different representation", a: MustMoney(1, 2), b: MustMoney(50, 100), equal: true},
		{name: "different amount", a: MustMoney(1, 2), b: MustMoney(1, 3), equal: false},
		{name: "both nil", a: nil, b: nil, equal: true},
		{name: "one nil", a: MustMoney(1, 1), b: nil, equal: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.equal, tt.a.Equal(tt.b))
			assert.Equal(t, tt.equal, tt.b.Equal(tt.a))
		})
	}
}

func TestMoney_IsPositive(t *testing.T) {
	assert.True(t, MustMoney(1, 100).IsPositive())
	assert.False(t, MustMoney(0, 1).IsPositive())
	assert.False(t, MustMoney(-1, 1).IsPositive())
}
