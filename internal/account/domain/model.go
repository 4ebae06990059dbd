package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// PartyType distinguishes the two ledger parties an invoice can reference.
type PartyType string

const (
	PartyTypeCustomer PartyType = "customer"
	PartyTypeSupplier PartyType = "supplier"
)

// FilerStatus mirrors the tax authority registration state of the party.
type FilerStatus string

const (
	FilerStatusFiler    FilerStatus = "filer"
	FilerStatusNonFiler FilerStatus = "non_filer"
)

// nonFilerGSTRate is the surcharge applied to non-filing counterparties (0.1%).
var nonFilerGSTRate = decimal.NewFromFloat(0.1)

// Account is a customer or supplier party.
type Account struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	CompanyID snowflake.ID `gorm:"not null;index" json:"company_id"`
	Type      PartyType    `gorm:"type:text;not null;index" json:"type"`
	Name      string       `gorm:"type:text;not null" json:"name"`
	Phone     string       `gorm:"type:text" json:"phone,omitempty"`
	Address   string       `gorm:"type:text" json:"address,omitempty"`
	City      string       `gorm:"type:text" json:"city,omitempty"`

	// Tax registration attributes driving advance tax and the non-filer surcharge.
	NTN            *string         `gorm:"type:text" json:"ntn,omitempty"`
	LicenseNumber  *string         `gorm:"type:text" json:"license_number,omitempty"`
	FilerStatus    FilerStatus     `gorm:"type:text;not null;default:'filer'" json:"filer_status"`
	AdvanceTaxRate decimal.Decimal `gorm:"type:decimal(6,4);default:0" json:"advance_tax_rate"`

	CreditLimit    decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"credit_limit"`
	CreditDays     int             `gorm:"default:0" json:"credit_days"`
	OpeningBalance decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"opening_balance"`

	Active    bool              `gorm:"not null;default:true" json:"active"`
	Metadata  datatypes.JSONMap `gorm:"type:jsonb" json:"metadata,omitempty"`
	CreatedAt time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Account) TableName() string { return "accounts" }

// IsNonFiler reports whether the non-filer surcharge applies to this party.
func (a *Account) IsNonFiler() bool {
	return a.FilerStatus == FilerStatusNonFiler
}

// CalculateAdvanceTax returns the withholding amount for a taxable base using
// the party's registration-driven rate. Zero when no rate is configured.
func (a *Account) CalculateAdvanceTax(taxable decimal.Decimal) decimal.Decimal {
	if a.AdvanceTaxRate.LessThanOrEqual(decimal.Zero) || taxable.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	return taxable.Mul(a.AdvanceTaxRate).Div(decimal.NewFromInt(100))
}

// CalculateNonFilerGST returns the non-filer surcharge for a taxable base.
// Zero for registered filers.
func (a *Account) CalculateNonFilerGST(taxable decimal.Decimal) decimal.Decimal {
	if !a.IsNonFiler() || taxable.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	return taxable.Mul(nonFilerGSTRate).Div(decimal.NewFromInt(100))
}
