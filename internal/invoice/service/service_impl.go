package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	accountdomain "github.com/pharmatrade/medinv/internal/account/domain"
	auditdomain "github.com/pharmatrade/medinv/internal/audit/domain"
	"github.com/pharmatrade/medinv/internal/clock"
	"github.com/pharmatrade/medinv/internal/companyctx"
	"github.com/pharmatrade/medinv/internal/invoice/calc"
	invoicedomain "github.com/pharmatrade/medinv/internal/invoice/domain"
	itemdomain "github.com/pharmatrade/medinv/internal/item/domain"
	"github.com/pharmatrade/medinv/internal/metrics"
	"github.com/pharmatrade/medinv/pkg/repository"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ServiceParam struct {
	fx.In

	DB      *gorm.DB
	Log     *zap.Logger
	GenID   *snowflake.Node
	Clock   clock.Clock
	Schemes invoicedomain.SchemeApplier
	Balance invoicedomain.BalanceCalculator
	Cartons invoicedomain.CartonCalculator
	Ledger  invoicedomain.LedgerPoster
	Audit   auditdomain.Recorder
	Metrics *metrics.Metrics
}

type Service struct {
	db      *gorm.DB
	log     *zap.Logger
	genID   *snowflake.Node
	clock   clock.Clock
	schemes invoicedomain.SchemeApplier
	balance invoicedomain.BalanceCalculator
	cartons invoicedomain.CartonCalculator
	ledger  invoicedomain.LedgerPoster
	audit   auditdomain.Recorder
	metrics *metrics.Metrics

	accountrepo repository.Repository[accountdomain.Account]
	itemrepo    repository.Repository[itemdomain.Item]
}

func NewService(p ServiceParam) invoicedomain.Service {
	return &Service{
		db:      p.DB,
		log:     p.Log.Named("invoice.service"),
		genID:   p.GenID,
		clock:   p.Clock,
		schemes: p.Schemes,
		balance: p.Balance,
		cartons: p.Cartons,
		ledger:  p.Ledger,
		audit:   p.Audit,
		metrics: p.Metrics,

		accountrepo: repository.ProvideStore[accountdomain.Account](p.DB),
		itemrepo:    repository.ProvideStore[itemdomain.Item](p.DB),
	}
}

// partyRates adapts the loaded account to the rate port consumed by the
// computation pipeline.
type partyRates struct {
	account *accountdomain.Account
}

func (r partyRates) AdvanceTaxRate() decimal.Decimal { return r.account.AdvanceTaxRate }
func (r partyRates) IsNonFiler() bool                { return r.account.IsNonFiler() }
func (r partyRates) CalculateAdvanceTax(taxable decimal.Decimal) decimal.Decimal {
	return r.account.CalculateAdvanceTax(taxable)
}
func (r partyRates) CalculateNonFilerGST(taxable decimal.Decimal) decimal.Decimal {
	return r.account.CalculateNonFilerGST(taxable)
}

func (s *Service) Create(ctx context.Context, req invoicedomain.CreateInvoiceRequest) (*invoicedomain.Invoice, error) {
	companyID, err := s.companyIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	if err := validateCreate(req); err != nil {
		return nil, err
	}

	now := s.clock.Now()
	inv := &invoicedomain.Invoice{
		ID:                  s.genID.Generate(),
		CompanyID:           companyID,
		Type:                req.Type,
		Status:              invoicedomain.InvoiceStatusDraft,
		PaymentStatus:       invoicedomain.PaymentStatusPending,
		InvoiceDate:         req.InvoiceDate,
		DueDate:             req.DueDate,
		IsEstimate:          req.IsEstimate,
		ExpiryDate:          req.ExpiryDate,
		To1Percent:          req.To1Percent,
		To1Amount:           req.To1Amount,
		To2Percent:          req.To2Percent,
		To2Amount:           req.To2Amount,
		IncomeTaxableAmount: req.IncomeTaxableAmount,
		CreatedAt:           now,
		UpdatedAt:           now,
	}

	if req.CustomerID != nil {
		id, err := snowflake.ParseString(strings.TrimSpace(*req.CustomerID))
		if err != nil {
			return nil, invoicedomain.ErrMissingCustomer
		}
		inv.CustomerID = &id
	}
	if req.SupplierID != nil {
		id, err := snowflake.ParseString(strings.TrimSpace(*req.SupplierID))
		if err != nil {
			return nil, invoicedomain.ErrMissingSupplier
		}
		inv.SupplierID = &id
	}
	if req.SupplierBillNumber != nil {
		inv.SupplierBillNumber = req.SupplierBillNumber
	}
	if req.Return != nil {
		originalID, err := snowflake.ParseString(strings.TrimSpace(req.Return.OriginalInvoiceID))
		if err != nil {
			return nil, invoicedomain.ErrMissingOriginalInvoice
		}
		inv.OriginalInvoiceID = &originalID
		reason := req.Return.Reason
		inv.ReturnReason = &reason
		if req.Return.Notes != "" {
			notes := req.Return.Notes
			inv.ReturnNotes = &notes
		}
		returnDate := now
		if req.Return.Date != nil {
			returnDate = *req.Return.Date
		}
		inv.ReturnDate = &returnDate
	}

	lines, err := s.buildLines(ctx, inv.ID, req.Items, now)
	if err != nil {
		return nil, err
	}
	inv.Items = lines

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		number, err := s.nextNumber(tx, companyID, inv.Type, inv.InvoiceDate)
		if err != nil {
			return err
		}
		inv.InvoiceNumber = number

		if err := s.checkDuplicateBill(tx, inv); err != nil {
			return err
		}
		if err := s.runComputation(ctx, inv, calc.Options{}); err != nil {
			return err
		}
		s.takeBalanceSnapshot(ctx, inv)

		return tx.Create(inv).Error
	})
	if err != nil {
		return nil, err
	}

	s.metrics.InvoicesComputed.WithLabelValues(string(inv.Type)).Inc()
	s.audit.Record(ctx, auditdomain.Entry{
		EntityType: "invoice",
		EntityID:   inv.ID,
		Action:     "created",
		Changes: map[string]interface{}{
			"invoice_number": inv.InvoiceNumber,
			"type":           string(inv.Type),
			"grand_total":    inv.GrandTotal.String(),
		},
	})

	return inv, nil
}

func (s *Service) Update(ctx context.Context, id string, req invoicedomain.UpdateInvoiceRequest) (*invoicedomain.Invoice, error) {
	companyID, err := s.companyIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	inv, err := s.loadInvoice(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	if err := ensureEditable(inv); err != nil {
		return nil, err
	}
	if req.Revision != 0 && req.Revision != inv.Revision {
		return nil, invoicedomain.ErrStaleInvoice
	}

	now := s.clock.Now()
	previousIncomeTax := inv.IncomeTax
	previousGrandTotal := inv.GrandTotal

	if req.DueDate != nil {
		inv.DueDate = *req.DueDate
	}
	if req.ExpiryDate != nil {
		inv.ExpiryDate = req.ExpiryDate
	}
	if req.SupplierBillNumber != nil {
		inv.SupplierBillNumber = req.SupplierBillNumber
	}
	if req.To1Percent != nil {
		inv.To1Percent = *req.To1Percent
	}
	if req.To1Amount != nil {
		inv.To1Amount = *req.To1Amount
	}
	if req.To2Percent != nil {
		inv.To2Percent = *req.To2Percent
	}
	if req.To2Amount != nil {
		inv.To2Amount = *req.To2Amount
	}
	if req.IncomeTaxableAmount != nil {
		inv.IncomeTaxableAmount = *req.IncomeTaxableAmount
	}
	if inv.DueDate.Before(inv.InvoiceDate) {
		return nil, invoicedomain.ErrDueBeforeInvoiceDate
	}
	if inv.ExpiryDate != nil && inv.ExpiryDate.Before(inv.InvoiceDate) {
		return nil, invoicedomain.ErrExpiryBeforeInvoice
	}

	if req.Items != nil {
		lines, err := s.buildLines(ctx, inv.ID, req.Items, now)
		if err != nil {
			return nil, err
		}
		inv.Items = lines
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.checkDuplicateBill(tx, inv); err != nil {
			return err
		}
		if err := s.runComputation(ctx, inv, calc.Options{PreviousIncomeTax: &previousIncomeTax}); err != nil {
			return err
		}
		if !inv.GrandTotal.Equal(previousGrandTotal) {
			s.takeBalanceSnapshot(ctx, inv)
		}
		inv.UpdatedAt = now
		return s.persistUpdate(tx, inv)
	})
	if err != nil {
		return nil, err
	}

	s.metrics.InvoicesComputed.WithLabelValues(string(inv.Type)).Inc()
	s.audit.Record(ctx, auditdomain.Entry{
		EntityType: "invoice",
		EntityID:   inv.ID,
		Action:     "updated",
		Changes: map[string]interface{}{
			"invoice_number": inv.InvoiceNumber,
			"grand_total":    inv.GrandTotal.String(),
			"revision":       inv.Revision,
		},
	})

	return inv, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (invoicedomain.Invoice, error) {
	companyID, err := s.companyIDFromContext(ctx)
	if err != nil {
		return invoicedomain.Invoice{}, err
	}

	inv, err := s.loadInvoice(ctx, companyID, id)
	if err != nil {
		return invoicedomain.Invoice{}, err
	}
	return *inv, nil
}

func (s *Service) List(ctx context.Context, req invoicedomain.ListInvoiceRequest) (invoicedomain.ListInvoiceResponse, error) {
	companyID, err := s.companyIDFromContext(ctx)
	if err != nil {
		return invoicedomain.ListInvoiceResponse{}, err
	}

	query := s.db.WithContext(ctx).
		Preload("Items").
		Where("company_id = ?", companyID)

	if req.Type != nil {
		query = query.Where("type = ?", *req.Type)
	}
	if req.Status != nil {
		query = query.Where("status = ?", *req.Status)
	}
	if req.CustomerID != nil {
		query = query.Where("customer_id = ?", *req.CustomerID)
	}
	if req.SupplierID != nil {
		query = query.Where("supplier_id = ?", *req.SupplierID)
	}
	if req.DateFrom != nil {
		query = query.Where("invoice_date >= ?", *req.DateFrom)
	}
	if req.DateTo != nil {
		query = query.Where("invoice_date <= ?", *req.DateTo)
	}

	var invoices []invoicedomain.Invoice
	if err := query.Order("created_at DESC").Find(&invoices).Error; err != nil {
		return invoicedomain.ListInvoiceResponse{}, err
	}

	return invoicedomain.ListInvoiceResponse{Invoices: invoices}, nil
}

func (s *Service) Confirm(ctx context.Context, id string) error {
	companyID, err := s.companyIDFromContext(ctx)
	if err != nil {
		return err
	}

	inv, err := s.loadInvoice(ctx, companyID, id)
	if err != nil {
		return err
	}
	switch inv.Status {
	case invoicedomain.InvoiceStatusCancelled:
		return invoicedomain.ErrInvoiceCancelled
	case invoicedomain.InvoiceStatusConfirmed, invoicedomain.InvoiceStatusPaid:
		return nil
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.ledger.PostInvoice(ctx, inv); err != nil {
			return err
		}
		return tx.Model(&invoicedomain.Invoice{}).
			Where("id = ?", inv.ID).
			Updates(map[string]interface{}{
				"status":     invoicedomain.InvoiceStatusConfirmed,
				"updated_at": s.clock.Now(),
			}).Error
	})
	if err != nil {
		return err
	}

	s.metrics.LedgerPostings.WithLabelValues("post").Inc()
	s.audit.Record(ctx, auditdomain.Entry{
		EntityType: "invoice",
		EntityID:   inv.ID,
		Action:     "confirmed",
		Changes:    map[string]interface{}{"invoice_number": inv.InvoiceNumber},
	})
	return nil
}

func (s *Service) MarkAsPaid(ctx context.Context, id string) error {
	companyID, err := s.companyIDFromContext(ctx)
	if err != nil {
		return err
	}

	inv, err := s.loadInvoice(ctx, companyID, id)
	if err != nil {
		return err
	}
	switch inv.Status {
	case invoicedomain.InvoiceStatusCancelled:
		return invoicedomain.ErrInvoiceCancelled
	case invoicedomain.InvoiceStatusPaid:
		return invoicedomain.ErrInvoiceAlreadyPaid
	case invoicedomain.InvoiceStatusDraft:
		return invoicedomain.ErrInvoiceNotDraft
	}

	err = s.db.WithContext(ctx).Model(&invoicedomain.Invoice{}).
		Where("id = ?", inv.ID).
		Updates(map[string]interface{}{
			"status":         invoicedomain.InvoiceStatusPaid,
			"payment_status": invoicedomain.PaymentStatusPaid,
			"updated_at":     s.clock.Now(),
		}).Error
	if err != nil {
		return err
	}

	s.audit.Record(ctx, auditdomain.Entry{
		EntityType: "invoice",
		EntityID:   inv.ID,
		Action:     "paid",
		Changes:    map[string]interface{}{"invoice_number": inv.InvoiceNumber},
	})
	return nil
}

func (s *Service) Cancel(ctx context.Context, id string, reason string) error {
	companyID, err := s.companyIDFromContext(ctx)
	if err != nil {
		return err
	}

	inv, err := s.loadInvoice(ctx, companyID, id)
	if err != nil {
		return err
	}
	switch inv.Status {
	case invoicedomain.InvoiceStatusCancelled:
		return invoicedomain.ErrInvoiceCancelled
	case invoicedomain.InvoiceStatusPaid:
		return invoicedomain.ErrInvoiceAlreadyPaid
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if inv.Status == invoicedomain.InvoiceStatusConfirmed {
			if err := s.ledger.ReverseInvoice(ctx, inv); err != nil {
				return err
			}
		}
		metadata := inv.Metadata
		if metadata == nil {
			metadata = datatypes.JSONMap{}
		}
		metadata["cancel_reason"] = reason
		return tx.Model(&invoicedomain.Invoice{}).
			Where("id = ?", inv.ID).
			Updates(map[string]interface{}{
				"status":     invoicedomain.InvoiceStatusCancelled,
				"metadata":   metadata,
				"updated_at": s.clock.Now(),
			}).Error
	})
	if err != nil {
		return err
	}

	if inv.Status == invoicedomain.InvoiceStatusConfirmed {
		s.metrics.LedgerPostings.WithLabelValues("reverse").Inc()
	}
	s.audit.Record(ctx, auditdomain.Entry{
		EntityType: "invoice",
		EntityID:   inv.ID,
		Action:     "cancelled",
		Changes: map[string]interface{}{
			"invoice_number": inv.InvoiceNumber,
			"reason":         reason,
		},
	})
	return nil
}

// AddItem appends one line and recomputes every derived total. The stored
// income tax never survives an item mutation: without a fresh taxable base it
// resets to zero.
func (s *Service) AddItem(ctx context.Context, id string, line invoicedomain.LineRequest) (*invoicedomain.Invoice, error) {
	return s.mutateItems(ctx, id, func(inv *invoicedomain.Invoice, now time.Time) error {
		built, err := s.buildLines(ctx, inv.ID, []invoicedomain.LineRequest{line}, now)
		if err != nil {
			return err
		}
		inv.Items = append(inv.Items, built...)
		return nil
	}, "item_added")
}

// RemoveItem drops one line and recomputes with the same stored-income-tax
// reset as AddItem. Removing the last line is rejected.
func (s *Service) RemoveItem(ctx context.Context, id string, lineID string) (*invoicedomain.Invoice, error) {
	return s.mutateItems(ctx, id, func(inv *invoicedomain.Invoice, _ time.Time) error {
		targetID, err := snowflake.ParseString(strings.TrimSpace(lineID))
		if err != nil {
			return invoicedomain.ErrLineNotFound
		}

		kept := inv.Items[:0]
		found := false
		for _, item := range inv.Items {
			if item.ID == targetID {
				found = true
				continue
			}
			kept = append(kept, item)
		}
		if !found {
			return invoicedomain.ErrLineNotFound
		}
		if len(kept) == 0 {
			return invoicedomain.ErrEmptyItems
		}
		inv.Items = kept
		return nil
	}, "item_removed")
}

func (s *Service) GenerateNextInvoiceNumber(ctx context.Context, t invoicedomain.InvoiceType) (string, error) {
	companyID, err := s.companyIDFromContext(ctx)
	if err != nil {
		return "", err
	}
	return s.nextNumber(s.db.WithContext(ctx), companyID, t, s.clock.Now())
}

func (s *Service) mutateItems(
	ctx context.Context,
	id string,
	mutate func(inv *invoicedomain.Invoice, now time.Time) error,
	action string,
) (*invoicedomain.Invoice, error) {
	companyID, err := s.companyIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	inv, err := s.loadInvoice(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	if err := ensureEditable(inv); err != nil {
		return nil, err
	}

	now := s.clock.Now()
	previousGrandTotal := inv.GrandTotal

	if err := mutate(inv, now); err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.runComputation(ctx, inv, calc.Options{}); err != nil {
			return err
		}
		if !inv.GrandTotal.Equal(previousGrandTotal) {
			s.takeBalanceSnapshot(ctx, inv)
		}
		inv.UpdatedAt = now
		return s.persistUpdate(tx, inv)
	})
	if err != nil {
		return nil, err
	}

	s.metrics.InvoicesComputed.WithLabelValues(string(inv.Type)).Inc()
	s.audit.Record(ctx, auditdomain.Entry{
		EntityType: "invoice",
		EntityID:   inv.ID,
		Action:     action,
		Changes: map[string]interface{}{
			"invoice_number": inv.InvoiceNumber,
			"grand_total":    inv.GrandTotal.String(),
		},
	})

	return inv, nil
}

// runComputation is the ordered totals pass shared by every write path:
// schemes first, then the pure pipeline with the party's tax rates, then
// carton quantities.
func (s *Service) runComputation(ctx context.Context, inv *invoicedomain.Invoice, opts calc.Options) error {
	if inv.Type == invoicedomain.InvoiceTypeSales {
		if err := s.schemes.ApplyToInvoice(ctx, inv); err != nil {
			return err
		}
	}

	rates, err := s.resolveRates(ctx, inv)
	if err != nil {
		return err
	}
	if err := calc.Compute(inv, rates, opts); err != nil {
		return err
	}

	cartonQty, err := s.cartons.InvoiceCartonQty(ctx, inv)
	if err != nil {
		return err
	}
	inv.CartonQty = cartonQty
	return nil
}

// resolveRates loads the invoice party. A missing account downgrades the
// party-driven taxes to zero rather than failing the save.
func (s *Service) resolveRates(ctx context.Context, inv *invoicedomain.Invoice) (invoicedomain.AccountRates, error) {
	partyID := inv.PartyID()
	if partyID == nil || *partyID == 0 {
		return nil, nil
	}

	account, err := s.accountrepo.FindOne(ctx, &accountdomain.Account{
		ID:        *partyID,
		CompanyID: inv.CompanyID,
		Type:      inv.Type.PartyType(),
	})
	if err != nil {
		return nil, err
	}
	if account == nil {
		s.log.Warn("invoice party not found, skipping party-driven taxes",
			zap.Int64("party_id", int64(*partyID)),
			zap.String("type", string(inv.Type)),
		)
		return nil, nil
	}

	return partyRates{account: account}, nil
}

// takeBalanceSnapshot evaluates the ledger balance and credit limit. Lookup
// failures degrade to safe defaults so a ledger outage never blocks invoicing.
func (s *Service) takeBalanceSnapshot(ctx context.Context, inv *invoicedomain.Invoice) {
	reset := func() {
		inv.PreviousBalance = decimal.Zero
		inv.TotalBalance = inv.GrandTotal
		inv.AvailableCredit = decimal.Zero
		inv.CreditLimitExceeded = false
		inv.CreditLimitWarning = ""
	}

	partyID := inv.PartyID()
	if partyID == nil || *partyID == 0 {
		reset()
		return
	}

	summary, err := s.balance.CalculateBalanceSummary(ctx, *partyID, inv.InvoiceDate, inv.GrandTotal, inv.Type.PartyType())
	if err != nil {
		s.metrics.BalanceLookupFailures.Inc()
		s.log.Warn("balance lookup failed, using safe defaults",
			zap.Int64("party_id", int64(*partyID)),
			zap.Error(err),
		)
		reset()
		return
	}

	inv.PreviousBalance = summary.PreviousBalance
	inv.TotalBalance = summary.TotalBalance
	inv.AvailableCredit = summary.AvailableCredit
	inv.CreditLimitExceeded = summary.CreditLimitExceeded
	inv.CreditLimitWarning = summary.Warning
}

// nextNumber produces {SI|PI}{year}{seq} where seq is a six-digit counter of
// the family's documents within the invoice year.
func (s *Service) nextNumber(tx *gorm.DB, companyID snowflake.ID, t invoicedomain.InvoiceType, at time.Time) (string, error) {
	prefix := fmt.Sprintf("%s%d", t.NumberPrefix(), at.Year())

	var count int64
	err := tx.Model(&invoicedomain.Invoice{}).
		Where("company_id = ? AND invoice_number LIKE ?", companyID, prefix+"%").
		Count(&count).Error
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("%s%06d", prefix, count+1), nil
}

// checkDuplicateBill rejects a purchase-family save whose supplier bill number
// is already carried by another active invoice of the same supplier. The
// comparison is exact; no trimming or case folding.
func (s *Service) checkDuplicateBill(tx *gorm.DB, inv *invoicedomain.Invoice) error {
	if !inv.Type.IsPurchaseFamily() || inv.SupplierBillNumber == nil || inv.SupplierID == nil {
		return nil
	}

	var existing invoicedomain.Invoice
	err := tx.
		Where("company_id = ? AND supplier_id = ? AND supplier_bill_number = ?",
			inv.CompanyID, *inv.SupplierID, *inv.SupplierBillNumber).
		Where("status <> ?", invoicedomain.InvoiceStatusCancelled).
		Where("type IN ?", []invoicedomain.InvoiceType{
			invoicedomain.InvoiceTypePurchase,
			invoicedomain.InvoiceTypeReturnPurchase,
		}).
		Where("id <> ?", inv.ID).
		First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	s.metrics.DuplicateBillRejections.Inc()
	return &invoicedomain.DuplicateBillError{
		InvoiceNumber: existing.InvoiceNumber,
		InvoiceDate:   existing.InvoiceDate,
	}
}

// persistUpdate writes the invoice guarded by its revision and replaces the
// line set. A concurrent save bumps the revision first and loses nothing; the
// later writer observes zero affected rows.
func (s *Service) persistUpdate(tx *gorm.DB, inv *invoicedomain.Invoice) error {
	currentRevision := inv.Revision
	inv.Revision = currentRevision + 1

	res := tx.Model(&invoicedomain.Invoice{}).
		Where("id = ? AND revision = ?", inv.ID, currentRevision).
		Select("*").
		Omit("id", "created_at", "Items").
		Updates(inv)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return invoicedomain.ErrStaleInvoice
	}

	if err := tx.Where("invoice_id = ?", inv.ID).Delete(&invoicedomain.InvoiceLine{}).Error; err != nil {
		return err
	}
	for i := range inv.Items {
		inv.Items[i].InvoiceID = inv.ID
		if inv.Items[i].ID == 0 {
			inv.Items[i].ID = s.genID.Generate()
		}
	}
	return tx.Create(&inv.Items).Error
}

func (s *Service) buildLines(ctx context.Context, invoiceID snowflake.ID, reqs []invoicedomain.LineRequest, now time.Time) ([]invoicedomain.InvoiceLine, error) {
	if len(reqs) == 0 {
		return nil, invoicedomain.ErrEmptyItems
	}

	lines := make([]invoicedomain.InvoiceLine, 0, len(reqs))
	for _, req := range reqs {
		itemID, err := snowflake.ParseString(strings.TrimSpace(req.ItemID))
		if err != nil {
			return nil, itemdomain.ErrNotFound
		}

		line := invoicedomain.InvoiceLine{
			ID:               s.genID.Generate(),
			InvoiceID:        invoiceID,
			ItemID:           itemID,
			Quantity:         req.Quantity,
			UnitPrice:        req.UnitPrice,
			DiscountPercent:  req.DiscountPercent,
			BoxQuantity:      req.BoxQuantity,
			UnitQuantity:     req.UnitQuantity,
			BoxRate:          req.BoxRate,
			UnitRate:         req.UnitRate,
			Discount1Percent: req.Discount1Percent,
			Discount2Percent: req.Discount2Percent,
			SchemeQuantity:   req.SchemeQuantity,
			CreatedAt:        now,
		}

		if !line.UsesBoxPricing() && !line.Quantity.IsPositive() {
			return nil, invoicedomain.ErrInvalidQuantity
		}
		if line.SchemeQuantity.GreaterThan(line.Quantity) {
			return nil, invoicedomain.ErrSchemeQtyExceedsQty
		}

		if req.GSTRate != nil {
			line.GSTRate = *req.GSTRate
		} else {
			item, err := s.itemrepo.FindOne(ctx, &itemdomain.Item{ID: itemID})
			if err != nil {
				return nil, err
			}
			if item == nil {
				return nil, gorm.ErrRecordNotFound
			}
			line.GSTRate = item.GSTRate
		}

		lines = append(lines, line)
	}

	return lines, nil
}

func (s *Service) loadInvoice(ctx context.Context, companyID snowflake.ID, id string) (*invoicedomain.Invoice, error) {
	invoiceID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return nil, invoicedomain.ErrInvalidInvoiceID
	}

	var inv invoicedomain.Invoice
	err = s.db.WithContext(ctx).
		Preload("Items").
		Where("id = ? AND company_id = ?", invoiceID, companyID).
		First(&inv).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, invoicedomain.ErrInvoiceNotFound
	}
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

func (s *Service) companyIDFromContext(ctx context.Context) (snowflake.ID, error) {
	companyID, ok := companyctx.CompanyIDFromContext(ctx)
	if !ok || companyID == 0 {
		return 0, invoicedomain.ErrInvalidCompany
	}
	return snowflake.ID(companyID), nil
}

func validateCreate(req invoicedomain.CreateInvoiceRequest) error {
	switch req.Type {
	case invoicedomain.InvoiceTypeSales, invoicedomain.InvoiceTypeReturnSales:
		if req.CustomerID == nil || strings.TrimSpace(*req.CustomerID) == "" {
			return invoicedomain.ErrMissingCustomer
		}
	case invoicedomain.InvoiceTypePurchase, invoicedomain.InvoiceTypeReturnPurchase:
		if req.SupplierID == nil || strings.TrimSpace(*req.SupplierID) == "" {
			return invoicedomain.ErrMissingSupplier
		}
	default:
		return invoicedomain.ErrInvalidInvoiceType
	}

	if len(req.Items) == 0 {
		return invoicedomain.ErrEmptyItems
	}
	if req.DueDate.Before(req.InvoiceDate) {
		return invoicedomain.ErrDueBeforeInvoiceDate
	}
	if req.ExpiryDate != nil && req.ExpiryDate.Before(req.InvoiceDate) {
		return invoicedomain.ErrExpiryBeforeInvoice
	}

	if req.Type.IsPurchaseFamily() {
		if req.SupplierBillNumber == nil || *req.SupplierBillNumber == "" {
			return invoicedomain.ErrMissingSupplierBill
		}
	}

	if req.Type.IsReturn() {
		if req.Return == nil || strings.TrimSpace(req.Return.Reason) == "" {
			return invoicedomain.ErrMissingReturnMetadata
		}
		if strings.TrimSpace(req.Return.OriginalInvoiceID) == "" {
			return invoicedomain.ErrMissingOriginalInvoice
		}
	}

	return nil
}

func ensureEditable(inv *invoicedomain.Invoice) error {
	switch inv.Status {
	case invoicedomain.InvoiceStatusCancelled:
		return invoicedomain.ErrInvoiceCancelled
	case invoicedomain.InvoiceStatusPaid:
		return invoicedomain.ErrInvoiceAlreadyPaid
	case invoicedomain.InvoiceStatusConfirmed:
		return invoicedomain.ErrInvoiceNotDraft
	}
	return nil
}
