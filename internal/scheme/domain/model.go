// Package domain contains promotional scheme models and the bonus calculator.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

// SchemeType selects which line tracking field a scheme writes.
type SchemeType string

const (
	SchemeType1 SchemeType = "scheme1"
	SchemeType2 SchemeType = "scheme2"
)

// Scheme is a promotional rule granting bonus quantity or extra discount when
// a quantity threshold is met. Immutable during a single computation pass.
type Scheme struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	CompanyID snowflake.ID `gorm:"not null;index" json:"company_id"`
	Name      string       `gorm:"type:text;not null" json:"name"`

	// Format is the bonus rule, e.g. "12+1": buy 12, get 1 free.
	Format string     `gorm:"type:text;not null" json:"format"`
	Type   SchemeType `gorm:"type:text;not null;default:'scheme1'" json:"type"`

	StartDate time.Time `gorm:"not null" json:"start_date"`
	EndDate   time.Time `gorm:"not null" json:"end_date"`
	Active    bool      `gorm:"not null;default:true" json:"active"`

	// Qualifying quantity window. MaximumQuantity of zero means unbounded.
	MinimumQuantity decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"minimum_quantity"`
	MaximumQuantity decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"maximum_quantity"`

	// Extra invoice-level levers a scheme may carry.
	Discount2Percent decimal.Decimal `gorm:"type:decimal(6,4);default:0" json:"discount2_percent"`
	To2Percent       decimal.Decimal `gorm:"type:decimal(6,4);default:0" json:"to2_percent"`

	ClaimAccountID *snowflake.ID `gorm:"index" json:"claim_account_id,omitempty"`

	// Eligibility allow-lists; empty lists apply the scheme to everyone.
	Items     []SchemeItem     `gorm:"foreignKey:SchemeID" json:"items,omitempty"`
	Customers []SchemeCustomer `gorm:"foreignKey:SchemeID" json:"customers,omitempty"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Scheme) TableName() string { return "schemes" }

// SchemeItem is an item allow-list entry.
type SchemeItem struct {
	ID       snowflake.ID `gorm:"primaryKey" json:"id"`
	SchemeID snowflake.ID `gorm:"not null;index" json:"scheme_id"`
	ItemID   snowflake.ID `gorm:"not null;index" json:"item_id"`
}

// TableName sets the database table name.
func (SchemeItem) TableName() string { return "scheme_items" }

// SchemeCustomer is a customer allow-list entry.
type SchemeCustomer struct {
	ID         snowflake.ID `gorm:"primaryKey" json:"id"`
	SchemeID   snowflake.ID `gorm:"not null;index" json:"scheme_id"`
	CustomerID snowflake.ID `gorm:"not null;index" json:"customer_id"`
}

// TableName sets the database table name.
func (SchemeCustomer) TableName() string { return "scheme_customers" }

// ActiveOn reports whether the scheme window covers the given date.
func (s *Scheme) ActiveOn(date time.Time) bool {
	if !s.Active {
		return false
	}
	return !date.Before(s.StartDate) && !date.After(s.EndDate)
}

// AppliesToItem checks the item allow-list; an empty list applies to all items.
func (s *Scheme) AppliesToItem(itemID snowflake.ID) bool {
	if len(s.Items) == 0 {
		return true
	}
	for _, entry := range s.Items {
		if entry.ItemID == itemID {
			return true
		}
	}
	return false
}

// AppliesToCustomer checks the customer allow-list; an empty list applies to
// all customers. A nil customer (purchase invoices) passes only the empty list.
func (s *Scheme) AppliesToCustomer(customerID *snowflake.ID) bool {
	if len(s.Customers) == 0 {
		return true
	}
	if customerID == nil {
		return false
	}
	for _, entry := range s.Customers {
		if entry.CustomerID == *customerID {
			return true
		}
	}
	return false
}

// QuantityQualifies checks the qualifying window. A zero maximum is unbounded.
func (s *Scheme) QuantityQualifies(qty decimal.Decimal) bool {
	if qty.LessThan(s.MinimumQuantity) {
		return false
	}
	if s.MaximumQuantity.GreaterThan(decimal.Zero) && qty.GreaterThan(s.MaximumQuantity) {
		return false
	}
	return true
}
