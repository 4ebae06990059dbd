// Package seed fills an empty development database with a usable starting set
// of parties and items.
package seed

import (
	"time"

	"github.com/bwmarrin/snowflake"
	accountdomain "github.com/pharmatrade/medinv/internal/account/domain"
	"github.com/pharmatrade/medinv/internal/config"
	itemdomain "github.com/pharmatrade/medinv/internal/item/domain"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// EnsureDevData seeds demo accounts and items once. Existing rows for the
// company make it a no-op so restarts never duplicate data.
func EnsureDevData(conn *gorm.DB, cfg config.Config) error {
	companyID := snowflake.ID(cfg.DefaultCompanyID)
	if companyID == 0 {
		return nil
	}

	var count int64
	if err := conn.Model(&accountdomain.Account{}).
		Where("company_id = ?", companyID).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	node, err := snowflake.NewNode(2)
	if err != nil {
		return err
	}
	now := time.Now().UTC()

	accounts := []accountdomain.Account{
		{
			ID:             node.Generate(),
			CompanyID:      companyID,
			Type:           accountdomain.PartyTypeCustomer,
			Name:           "City Pharmacy",
			City:           "Lahore",
			FilerStatus:    accountdomain.FilerStatusFiler,
			AdvanceTaxRate: decimal.NewFromFloat(0.5),
			CreditLimit:    decimal.NewFromInt(500000),
			CreditDays:     30,
			Active:         true,
			CreatedAt:      now,
			UpdatedAt:      now,
		},
		{
			ID:          node.Generate(),
			CompanyID:   companyID,
			Type:        accountdomain.PartyTypeCustomer,
			Name:        "Wellness Medical Store",
			City:        "Karachi",
			FilerStatus: accountdomain.FilerStatusNonFiler,
			Active:      true,
			CreatedAt:   now,
			UpdatedAt:   now,
		},
		{
			ID:          node.Generate(),
			CompanyID:   companyID,
			Type:        accountdomain.PartyTypeSupplier,
			Name:        "National Distributors",
			City:        "Lahore",
			FilerStatus: accountdomain.FilerStatusFiler,
			Active:      true,
			CreatedAt:   now,
			UpdatedAt:   now,
		},
	}
	if err := conn.Create(&accounts).Error; err != nil {
		return err
	}

	items := []itemdomain.Item{
		{
			ID:          node.Generate(),
			CompanyID:   companyID,
			Code:        "PARA-500",
			Name:        "Paracetamol 500mg",
			Packing:     "10x10",
			CartonSize:  144,
			BoxSize:     100,
			TradePrice:  decimal.NewFromFloat(85.50),
			RetailPrice: decimal.NewFromInt(100),
			GSTRate:     decimal.NewFromInt(18),
			Active:      true,
			CreatedAt:   now,
			UpdatedAt:   now,
		},
		{
			ID:          node.Generate(),
			CompanyID:   companyID,
			Code:        "AMOX-250",
			Name:        "Amoxicillin 250mg",
			Packing:     "2x10",
			CartonSize:  200,
			BoxSize:     20,
			TradePrice:  decimal.NewFromFloat(190.25),
			RetailPrice: decimal.NewFromInt(224),
			GSTRate:     decimal.NewFromInt(4),
			Active:      true,
			CreatedAt:   now,
			UpdatedAt:   now,
		},
	}
	return conn.Create(&items).Error
}
