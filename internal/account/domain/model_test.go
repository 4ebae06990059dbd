package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestCalculateAdvanceTax(t *testing.T) {
	account := Account{AdvanceTaxRate: decimal.NewFromFloat(0.5)}

	got := account.CalculateAdvanceTax(decimal.NewFromInt(1000))
	assert.True(t, got.Equal(decimal.NewFromInt(5)))
}

func TestCalculateAdvanceTax_NoRateConfigured(t *testing.T) {
	account := Account{}

	got := account.CalculateAdvanceTax(decimal.NewFromInt(1000))
	assert.True(t, got.IsZero())
}

func TestCalculateAdvanceTax_NonPositiveBase(t *testing.T) {
	account := Account{AdvanceTaxRate: decimal.NewFromFloat(0.5)}

	assert.True(t, account.CalculateAdvanceTax(decimal.Zero).IsZero())
	assert.True(t, account.CalculateAdvanceTax(decimal.NewFromInt(-100)).IsZero())
}

func TestCalculateNonFilerGST(t *testing.T) {
	nonFiler := Account{FilerStatus: FilerStatusNonFiler}
	got := nonFiler.CalculateNonFilerGST(decimal.NewFromInt(1000))
	assert.True(t, got.Equal(decimal.NewFromInt(1)))

	filer := Account{FilerStatus: FilerStatusFiler}
	assert.True(t, filer.CalculateNonFilerGST(decimal.NewFromInt(1000)).IsZero())
}
