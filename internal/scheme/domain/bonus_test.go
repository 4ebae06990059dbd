package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateBonus_CompleteSets(t *testing.T) {
	result, err := CalculateBonus(decimal.NewFromInt(24), "12+1")
	require.NoError(t, err)

	assert.Equal(t, int64(2), result.CompleteSets)
	assert.True(t, result.BonusQuantity.Equal(decimal.NewFromInt(2)))
	assert.True(t, result.TotalQuantity.Equal(decimal.NewFromInt(26)))
}

func TestCalculateBonus_PartialSetEarnsNothingExtra(t *testing.T) {
	result, err := CalculateBonus(decimal.NewFromInt(15), "12+1")
	require.NoError(t, err)

	assert.Equal(t, int64(1), result.CompleteSets)
	assert.True(t, result.BonusQuantity.Equal(decimal.NewFromInt(1)))
	assert.True(t, result.TotalQuantity.Equal(decimal.NewFromInt(16)))
}

func TestCalculateBonus_BelowThreshold(t *testing.T) {
	result, err := CalculateBonus(decimal.NewFromInt(5), "12+1")
	require.NoError(t, err)

	assert.Equal(t, int64(0), result.CompleteSets)
	assert.True(t, result.BonusQuantity.IsZero())
	assert.True(t, result.TotalQuantity.Equal(decimal.NewFromInt(5)))
}

func TestCalculateBonus_MultiUnitBonus(t *testing.T) {
	result, err := CalculateBonus(decimal.NewFromInt(20), "10+2")
	require.NoError(t, err)

	assert.Equal(t, int64(2), result.CompleteSets)
	assert.True(t, result.BonusQuantity.Equal(decimal.NewFromInt(4)))
}

func TestCalculateBonus_InvalidFormat(t *testing.T) {
	for _, format := range []string{"", "12", "12+", "+1", "a+b", "12-1", "12+1+1", "1.5+1"} {
		_, err := CalculateBonus(decimal.NewFromInt(10), format)
		assert.ErrorIs(t, err, ErrInvalidSchemeFormat, "format %q", format)
	}
}

func TestCalculateBonus_InvalidOperands(t *testing.T) {
	for _, format := range []string{"0+1", "12+0", "0+0"} {
		_, err := CalculateBonus(decimal.NewFromInt(10), format)
		assert.ErrorIs(t, err, ErrInvalidSchemeOperands, "format %q", format)
	}
}

func TestCalculateBonus_ZeroQuantityValidFormat(t *testing.T) {
	result, err := CalculateBonus(decimal.Zero, "12+1")
	require.NoError(t, err)

	assert.Equal(t, int64(0), result.CompleteSets)
	assert.True(t, result.BonusQuantity.IsZero())
}

func TestCalculateBonus_FormatValidatedBeforeQuantity(t *testing.T) {
	_, err := CalculateBonus(decimal.Zero, "broken")
	assert.ErrorIs(t, err, ErrInvalidSchemeFormat)
}
