// Package domain contains the party ledger models.
package domain

import (
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	accountdomain "github.com/pharmatrade/medinv/internal/account/domain"
	"github.com/shopspring/decimal"
)

// EntryDirection represents debit or credit postings against a party.
type EntryDirection string

const (
	EntryDirectionDebit  EntryDirection = "debit"
	EntryDirectionCredit EntryDirection = "credit"
)

// EntrySourceType names the financial event behind a posting.
type EntrySourceType string

const (
	SourceTypeInvoice    EntrySourceType = "invoice"
	SourceTypeReturn     EntrySourceType = "return"
	SourceTypePayment    EntrySourceType = "payment"
	SourceTypeOpening    EntrySourceType = "opening"
	SourceTypeAdjustment EntrySourceType = "adjustment"
)

// LedgerEntry is an immutable posting against a party's running balance.
// Debits increase what the party owes us; credits decrease it.
type LedgerEntry struct {
	ID         snowflake.ID            `gorm:"primaryKey" json:"id"`
	CompanyID  snowflake.ID            `gorm:"not null;index;uniqueIndex:ux_ledger_source,priority:1" json:"company_id"`
	PartyID    snowflake.ID            `gorm:"not null;index" json:"party_id"`
	PartyType  accountdomain.PartyType `gorm:"type:text;not null" json:"party_type"`
	SourceType EntrySourceType         `gorm:"type:text;not null;uniqueIndex:ux_ledger_source,priority:2" json:"source_type"`
	SourceID   snowflake.ID            `gorm:"not null;uniqueIndex:ux_ledger_source,priority:3" json:"source_id"`
	Direction  EntryDirection          `gorm:"type:text;not null" json:"direction"`
	Amount     decimal.Decimal         `gorm:"type:decimal(20,4);not null" json:"amount"`
	OccurredAt time.Time               `gorm:"not null;index" json:"occurred_at"`
	CreatedAt  time.Time               `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (LedgerEntry) TableName() string { return "ledger_entries" }

var (
	ErrInvalidCompany   = errors.New("invalid_company")
	ErrInvalidParty     = errors.New("invalid_party")
	ErrInvalidSource    = errors.New("invalid_source")
	ErrInvalidAmount    = errors.New("invalid_amount")
	ErrInvalidDirection = errors.New("invalid_direction")
)
