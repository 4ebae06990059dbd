package service

import (
	"context"
	"fmt"
	"time"

	"github.com/bwmarrin/snowflake"
	accountdomain "github.com/pharmatrade/medinv/internal/account/domain"
	invoicedomain "github.com/pharmatrade/medinv/internal/invoice/domain"
	ledgerdomain "github.com/pharmatrade/medinv/internal/ledger/domain"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
}

// Service posts party ledger entries and evaluates balances against credit
// limits. It implements both the posting port and the balance-calculation
// port consumed by the invoice service.
type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
}

func NewService(p Params) *Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("ledger.service"),
		genID: p.GenID,
	}
}

// AsBalanceCalculator exposes the service through the invoice-side port.
func AsBalanceCalculator(s *Service) invoicedomain.BalanceCalculator { return s }

// AsLedgerPoster exposes the service through the invoice-side posting port.
func AsLedgerPoster(s *Service) invoicedomain.LedgerPoster { return s }

// PostInvoice writes the ledger posting for a confirmed invoice. Sales debit
// the customer; purchases credit the supplier; returns post the opposite
// direction. The unique source index makes reposting a no-op.
func (s *Service) PostInvoice(ctx context.Context, inv *invoicedomain.Invoice) error {
	partyID := inv.PartyID()
	if partyID == nil || *partyID == 0 {
		return ledgerdomain.ErrInvalidParty
	}
	if inv.GrandTotal.LessThan(decimal.Zero) {
		return ledgerdomain.ErrInvalidAmount
	}

	direction := ledgerdomain.EntryDirectionDebit
	sourceType := ledgerdomain.SourceTypeInvoice
	if inv.Type.IsPurchaseFamily() {
		direction = ledgerdomain.EntryDirectionCredit
	}
	if inv.Type.IsReturn() {
		sourceType = ledgerdomain.SourceTypeReturn
		if direction == ledgerdomain.EntryDirectionDebit {
			direction = ledgerdomain.EntryDirectionCredit
		} else {
			direction = ledgerdomain.EntryDirectionDebit
		}
	}

	now := time.Now().UTC()
	return s.db.WithContext(ctx).Exec(
		`INSERT INTO ledger_entries (
			id, company_id, party_id, party_type, source_type, source_id,
			direction, amount, occurred_at, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (company_id, source_type, source_id) DO NOTHING`,
		s.genID.Generate(),
		inv.CompanyID,
		*partyID,
		inv.Type.PartyType(),
		sourceType,
		inv.ID,
		direction,
		inv.GrandTotal,
		inv.InvoiceDate.UTC(),
		now,
	).Error
}

// ReverseInvoice removes the posting for a cancelled invoice.
func (s *Service) ReverseInvoice(ctx context.Context, inv *invoicedomain.Invoice) error {
	return s.db.WithContext(ctx).Exec(
		`DELETE FROM ledger_entries
		 WHERE company_id = ? AND source_id = ? AND source_type IN (?, ?)`,
		inv.CompanyID,
		inv.ID,
		ledgerdomain.SourceTypeInvoice,
		ledgerdomain.SourceTypeReturn,
	).Error
}

type balanceRow struct {
	Debit  decimal.Decimal
	Credit decimal.Decimal
}

// CalculateBalanceSummary derives the party's running balance as of the
// invoice date and evaluates the new grand total against the credit limit.
func (s *Service) CalculateBalanceSummary(
	ctx context.Context,
	partyID snowflake.ID,
	invoiceDate time.Time,
	grandTotal decimal.Decimal,
	partyType accountdomain.PartyType,
) (invoicedomain.BalanceSummary, error) {
	if partyID == 0 {
		return invoicedomain.BalanceSummary{}, ledgerdomain.ErrInvalidParty
	}

	var account accountdomain.Account
	if err := s.db.WithContext(ctx).
		Where("id = ? AND type = ?", partyID, partyType).
		First(&account).Error; err != nil {
		return invoicedomain.BalanceSummary{}, err
	}

	var row balanceRow
	err := s.db.WithContext(ctx).Raw(
		`SELECT
			COALESCE(SUM(CASE WHEN direction = 'debit' THEN amount ELSE 0 END), 0) AS debit,
			COALESCE(SUM(CASE WHEN direction = 'credit' THEN amount ELSE 0 END), 0) AS credit
		 FROM ledger_entries
		 WHERE party_id = ? AND occurred_at <= ?`,
		partyID,
		invoiceDate.UTC(),
	).Scan(&row).Error
	if err != nil {
		return invoicedomain.BalanceSummary{}, err
	}

	previous := account.OpeningBalance.Add(row.Debit).Sub(row.Credit)
	total := previous.Add(grandTotal)

	summary := invoicedomain.BalanceSummary{
		PreviousBalance: previous,
		TotalBalance:    total,
	}

	if partyType == accountdomain.PartyTypeCustomer && account.CreditLimit.GreaterThan(decimal.Zero) {
		summary.AvailableCredit = account.CreditLimit.Sub(total)
		if total.GreaterThan(account.CreditLimit) {
			summary.CreditLimitExceeded = true
			summary.Warning = fmt.Sprintf(
				"credit limit %s exceeded: balance would reach %s",
				account.CreditLimit.StringFixed(2),
				total.StringFixed(2),
			)
		}
	}

	return summary, nil
}
