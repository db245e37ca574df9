package domain

import (
	"fmt"
	"math/big"
)

// Money is an exact monetary amount stored as a rational number.
type Money struct {
	rat *big.Rat
}

// NewMoney creates Money from numerator/denominator, e.g. NewMoney(249900, 100) is 2499.00.
func NewMoney(numerator, denominator int64) (*Money, error) {
	if denominator <= 0 {
		return nil, fmt.Errorf("denominator must be positive, got %d", denominator)
	}
	return &Money{rat: big.NewRat(numerator, denominator)}, nil
}

// MustMoney is NewMoney for constants; it panics on an invalid denominator.
func MustMoney(numerator, denominator int64) *Money {
	m, err := NewMoney(numerator, denominator)
	if err != nil {
		panic(err)
	}
	return m
}

// Parts returns the reduced numerator and denominator.
// Returns ErrMoneyOverflow if either does not fit in an int64.
func (m *Money) Parts() (numerator, denominator int64, err error) {
	num, denom := m.rat.Num(), m.rat.Denom()
	if !num.IsInt64() || !denom.IsInt64() {
		return 0, 0, ErrMoneyOverflow
	}
	return num.Int64(), denom.Int64(), nil
}

// Add returns m + other.
func (m *Money) Add(other *Money) *Money {
	return &Money{rat: new(big.Rat).Add(m.rat, other.rat)}
}

// IsPositive returns true if the amount is greater than zero.
func (m *Money) IsPositive() bool {
	return m.rat.Sign() > 0
}

// Equal reports whether both amounts are the same value, whatever their representation.
func (m *Money) Equal(other *Money) bool {
	if m == nil || other == nil {
		return m == other
	}
	return m.rat.Cmp(other.rat) == 0
}

// String returns the amount with two decimals.
func (m *Money) String() string {
	return m.rat.FloatString(2)
}
