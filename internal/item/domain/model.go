// Package domain contains the item catalogue models.
package domain

import (
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

// Item is a priced stock-keeping unit.
type Item struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	CompanyID snowflake.ID `gorm:"not null;index" json:"company_id"`
	Code      string       `gorm:"type:text;not null" json:"code"`
	Name      string       `gorm:"type:text;not null" json:"name"`
	Packing   string       `gorm:"type:text" json:"packing,omitempty"`

	// CartonSize is the number of boxes packed into one carton.
	CartonSize int64 `gorm:"default:0" json:"carton_size"`
	// BoxSize is the number of retail units in one box.
	BoxSize int64 `gorm:"default:0" json:"box_size"`

	TradePrice  decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"trade_price"`
	RetailPrice decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"retail_price"`
	GSTRate     decimal.Decimal `gorm:"type:decimal(6,4);default:18" json:"gst_rate"`

	Active    bool      `gorm:"not null;default:true" json:"active"`
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Item) TableName() string { return "items" }

var (
	ErrInvalidCompany = errors.New("invalid_company")
	ErrInvalidCode    = errors.New("invalid_code")
	ErrInvalidName    = errors.New("invalid_name")
	ErrNotFound       = errors.New("not_found")
)
