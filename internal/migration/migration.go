// Package migration creates the schema on startup so the service is usable
// out of the box for local and self-hosted environments.
package migration

import (
	accountdomain "github.com/pharmatrade/medinv/internal/account/domain"
	auditdomain "github.com/pharmatrade/medinv/internal/audit/domain"
	"github.com/pharmatrade/medinv/internal/config"
	invoicedomain "github.com/pharmatrade/medinv/internal/invoice/domain"
	itemdomain "github.com/pharmatrade/medinv/internal/item/domain"
	ledgerdomain "github.com/pharmatrade/medinv/internal/ledger/domain"
	schemedomain "github.com/pharmatrade/medinv/internal/scheme/domain"
	"github.com/pharmatrade/medinv/internal/seed"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config) error {
		if err := RunMigrations(conn); err != nil {
			return err
		}

		if cfg.SeedEnabled {
			return seed.EnsureDevData(conn, cfg)
		}
		return nil
	}),
)

func RunMigrations(conn *gorm.DB) error {
	return conn.AutoMigrate(
		&accountdomain.Account{},
		&itemdomain.Item{},
		&schemedomain.Scheme{},
		&schemedomain.SchemeItem{},
		&schemedomain.SchemeCustomer{},
		&invoicedomain.Invoice{},
		&invoicedomain.InvoiceLine{},
		&ledgerdomain.LedgerEntry{},
		&auditdomain.AuditLog{},
	)
}
