package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	accountdomain "github.com/pharmatrade/medinv/internal/account/domain"
	auditdomain "github.com/pharmatrade/medinv/internal/audit/domain"
	"github.com/pharmatrade/medinv/internal/clock"
	"github.com/pharmatrade/medinv/internal/companyctx"
	invoicedomain "github.com/pharmatrade/medinv/internal/invoice/domain"
	itemdomain "github.com/pharmatrade/medinv/internal/item/domain"
	"github.com/pharmatrade/medinv/internal/metrics"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type stubSchemes struct {
	to2 decimal.Decimal
}

func (s *stubSchemes) ApplyToInvoice(ctx context.Context, inv *invoicedomain.Invoice) error {
	inv.SchemeTo2Percent = s.to2
	return nil
}

type stubBalance struct {
	summary invoicedomain.BalanceSummary
	err     error
	calls   int
}

func (s *stubBalance) CalculateBalanceSummary(ctx context.Context, partyID snowflake.ID, invoiceDate time.Time, grandTotal decimal.Decimal, partyType accountdomain.PartyType) (invoicedomain.BalanceSummary, error) {
	s.calls++
	return s.summary, s.err
}

type stubCartons struct{}

func (stubCartons) ItemCartonQty(ctx context.Context, line *invoicedomain.InvoiceLine) (int64, error) {
	return 0, nil
}

func (stubCartons) InvoiceCartonQty(ctx context.Context, inv *invoicedomain.Invoice) (int64, error) {
	return 0, nil
}

type stubLedger struct {
	posted   int
	reversed int
}

func (s *stubLedger) PostInvoice(ctx context.Context, inv *invoicedomain.Invoice) error {
	s.posted++
	return nil
}

func (s *stubLedger) ReverseInvoice(ctx context.Context, inv *invoicedomain.Invoice) error {
	s.reversed++
	return nil
}

type stubAudit struct{}

func (stubAudit) Record(ctx context.Context, entry auditdomain.Entry) {}

type fixture struct {
	db      *gorm.DB
	svc     invoicedomain.Service
	node    *snowflake.Node
	clock   *clock.FakeClock
	schemes *stubSchemes
	balance *stubBalance
	ledger  *stubLedger
	ctx     context.Context
}

const testCompanyID int64 = 1

func setup(t *testing.T) *fixture {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&accountdomain.Account{},
		&itemdomain.Item{},
		&invoicedomain.Invoice{},
		&invoicedomain.InvoiceLine{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	fakeClock := clock.NewFakeClock(time.Date(2025, 3, 15, 10, 0, 0, 0, time.UTC))
	balance := &stubBalance{
		summary: invoicedomain.BalanceSummary{
			PreviousBalance: decimal.NewFromInt(1000),
			TotalBalance:    decimal.NewFromInt(2000),
			AvailableCredit: decimal.NewFromInt(3000),
		},
	}
	ledger := &stubLedger{}
	schemes := &stubSchemes{}

	svc := NewService(ServiceParam{
		DB:      db,
		Log:     zap.NewNop(),
		GenID:   node,
		Clock:   fakeClock,
		Schemes: schemes,
		Balance: balance,
		Cartons: stubCartons{},
		Ledger:  ledger,
		Audit:   stubAudit{},
		Metrics: metrics.New(),
	})

	return &fixture{
		db:      db,
		svc:     svc,
		node:    node,
		clock:   fakeClock,
		schemes: schemes,
		balance: balance,
		ledger:  ledger,
		ctx:     companyctx.WithCompanyID(context.Background(), testCompanyID),
	}
}

func (f *fixture) createAccount(t *testing.T, partyType accountdomain.PartyType) string {
	t.Helper()

	account := accountdomain.Account{
		ID:          f.node.Generate(),
		CompanyID:   snowflake.ID(testCompanyID),
		Type:        partyType,
		Name:        "Test Party",
		FilerStatus: accountdomain.FilerStatusFiler,
		Active:      true,
	}
	require.NoError(t, f.db.Create(&account).Error)
	return account.ID.String()
}

func (f *fixture) createItem(t *testing.T, gstRate int64) string {
	t.Helper()

	item := itemdomain.Item{
		ID:        f.node.Generate(),
		CompanyID: snowflake.ID(testCompanyID),
		Code:      fmt.Sprintf("ITEM-%d", gstRate),
		Name:      "Test Item",
		GSTRate:   decimal.NewFromInt(gstRate),
		Active:    true,
	}
	require.NoError(t, f.db.Create(&item).Error)
	return item.ID.String()
}

func salesRequest(customerID, itemID string) invoicedomain.CreateInvoiceRequest {
	gst := decimal.NewFromInt(18)
	invoiceDate := time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)
	return invoicedomain.CreateInvoiceRequest{
		Type:        invoicedomain.InvoiceTypeSales,
		CustomerID:  &customerID,
		InvoiceDate: invoiceDate,
		DueDate:     invoiceDate.AddDate(0, 1, 0),
		Items: []invoicedomain.LineRequest{
			{
				ItemID:    itemID,
				Quantity:  decimal.NewFromInt(10),
				UnitPrice: decimal.NewFromInt(100),
				GSTRate:   &gst,
			},
		},
	}
}

func purchaseRequest(supplierID, itemID, billNumber string) invoicedomain.CreateInvoiceRequest {
	req := salesRequest("", itemID)
	req.Type = invoicedomain.InvoiceTypePurchase
	req.CustomerID = nil
	req.SupplierID = &supplierID
	req.SupplierBillNumber = &billNumber
	return req
}

func TestCreate_NumberingIsSequentialPerYear(t *testing.T) {
	f := setup(t)
	customerID := f.createAccount(t, accountdomain.PartyTypeCustomer)
	itemID := f.createItem(t, 18)

	first, err := f.svc.Create(f.ctx, salesRequest(customerID, itemID))
	require.NoError(t, err)
	assert.Equal(t, "SI2025000001", first.InvoiceNumber)

	second, err := f.svc.Create(f.ctx, salesRequest(customerID, itemID))
	require.NoError(t, err)
	assert.Equal(t, "SI2025000002", second.InvoiceNumber)
}

func TestCreate_PurchaseUsesPIPrefix(t *testing.T) {
	f := setup(t)
	supplierID := f.createAccount(t, accountdomain.PartyTypeSupplier)
	itemID := f.createItem(t, 18)

	inv, err := f.svc.Create(f.ctx, purchaseRequest(supplierID, itemID, "B-100"))
	require.NoError(t, err)
	assert.Equal(t, "PI2025000001", inv.InvoiceNumber)
}

func TestCreate_ComputesAndPersistsTotals(t *testing.T) {
	f := setup(t)
	customerID := f.createAccount(t, accountdomain.PartyTypeCustomer)
	itemID := f.createItem(t, 18)

	req := salesRequest(customerID, itemID)
	req.To1Percent = decimal.NewFromInt(10)
	req.To2Percent = decimal.NewFromInt(5)

	inv, err := f.svc.Create(f.ctx, req)
	require.NoError(t, err)

	assert.True(t, inv.Subtotal.Equal(decimal.NewFromInt(1000)))
	assert.True(t, inv.To1Amount.Equal(decimal.NewFromInt(100)))
	assert.True(t, inv.To2Amount.Equal(decimal.NewFromInt(45)))
	assert.True(t, inv.GST18Total.Equal(decimal.NewFromInt(180)))
	// 1000 - 100 - 45 + 180
	assert.True(t, inv.GrandTotal.Equal(decimal.NewFromInt(1035)))

	stored, err := f.svc.GetByID(f.ctx, inv.ID.String())
	require.NoError(t, err)
	assert.True(t, stored.GrandTotal.Equal(inv.GrandTotal))
	require.Len(t, stored.Items, 1)
	assert.True(t, stored.Items[0].GSTAmount.Equal(decimal.NewFromInt(180)))
}

func TestCreate_LineGSTRateDefaultsFromItem(t *testing.T) {
	f := setup(t)
	customerID := f.createAccount(t, accountdomain.PartyTypeCustomer)
	itemID := f.createItem(t, 4)

	req := salesRequest(customerID, itemID)
	req.Items[0].GSTRate = nil

	inv, err := f.svc.Create(f.ctx, req)
	require.NoError(t, err)

	assert.True(t, inv.Items[0].GSTRate.Equal(decimal.NewFromInt(4)))
	assert.True(t, inv.GST4Total.Equal(decimal.NewFromInt(40)))
	assert.True(t, inv.GST18Total.IsZero())
}

func TestCreate_BalanceSnapshotStored(t *testing.T) {
	f := setup(t)
	customerID := f.createAccount(t, accountdomain.PartyTypeCustomer)
	itemID := f.createItem(t, 18)

	inv, err := f.svc.Create(f.ctx, salesRequest(customerID, itemID))
	require.NoError(t, err)

	assert.Equal(t, 1, f.balance.calls)
	assert.True(t, inv.PreviousBalance.Equal(decimal.NewFromInt(1000)))
	assert.True(t, inv.TotalBalance.Equal(decimal.NewFromInt(2000)))
}

func TestCreate_BalanceLookupFailureDegrades(t *testing.T) {
	f := setup(t)
	f.balance.err = errors.New("ledger unavailable")
	customerID := f.createAccount(t, accountdomain.PartyTypeCustomer)
	itemID := f.createItem(t, 18)

	inv, err := f.svc.Create(f.ctx, salesRequest(customerID, itemID))
	require.NoError(t, err)

	assert.True(t, inv.PreviousBalance.IsZero())
	assert.True(t, inv.TotalBalance.Equal(inv.GrandTotal))
	assert.True(t, inv.AvailableCredit.IsZero())
	assert.False(t, inv.CreditLimitExceeded)
	assert.Empty(t, inv.CreditLimitWarning)
}

func TestCreate_DuplicateSupplierBillRejected(t *testing.T) {
	f := setup(t)
	supplierID := f.createAccount(t, accountdomain.PartyTypeSupplier)
	itemID := f.createItem(t, 18)

	first, err := f.svc.Create(f.ctx, purchaseRequest(supplierID, itemID, "B-100"))
	require.NoError(t, err)

	_, err = f.svc.Create(f.ctx, purchaseRequest(supplierID, itemID, "B-100"))
	require.Error(t, err)
	assert.ErrorIs(t, err, invoicedomain.ErrDuplicateBillNumber)

	var dup *invoicedomain.DuplicateBillError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, first.InvoiceNumber, dup.InvoiceNumber)
}

func TestCreate_SameBillDifferentSupplierAllowed(t *testing.T) {
	f := setup(t)
	supplierA := f.createAccount(t, accountdomain.PartyTypeSupplier)
	supplierB := f.createAccount(t, accountdomain.PartyTypeSupplier)
	itemID := f.createItem(t, 18)

	_, err := f.svc.Create(f.ctx, purchaseRequest(supplierA, itemID, "B-100"))
	require.NoError(t, err)

	_, err = f.svc.Create(f.ctx, purchaseRequest(supplierB, itemID, "B-100"))
	assert.NoError(t, err)
}

func TestCreate_CancelledInvoiceFreesBillNumber(t *testing.T) {
	f := setup(t)
	supplierID := f.createAccount(t, accountdomain.PartyTypeSupplier)
	itemID := f.createItem(t, 18)

	first, err := f.svc.Create(f.ctx, purchaseRequest(supplierID, itemID, "B-100"))
	require.NoError(t, err)
	require.NoError(t, f.svc.Cancel(f.ctx, first.ID.String(), "entry error"))

	_, err = f.svc.Create(f.ctx, purchaseRequest(supplierID, itemID, "B-100"))
	assert.NoError(t, err)
}

func TestCreate_BillNumberComparedExactly(t *testing.T) {
	f := setup(t)
	supplierID := f.createAccount(t, accountdomain.PartyTypeSupplier)
	itemID := f.createItem(t, 18)

	_, err := f.svc.Create(f.ctx, purchaseRequest(supplierID, itemID, "B-100"))
	require.NoError(t, err)

	_, err = f.svc.Create(f.ctx, purchaseRequest(supplierID, itemID, "B-100 "))
	assert.NoError(t, err)
}

func TestCreate_Validation(t *testing.T) {
	f := setup(t)
	customerID := f.createAccount(t, accountdomain.PartyTypeCustomer)
	itemID := f.createItem(t, 18)

	t.Run("missing customer", func(t *testing.T) {
		req := salesRequest(customerID, itemID)
		req.CustomerID = nil
		_, err := f.svc.Create(f.ctx, req)
		assert.ErrorIs(t, err, invoicedomain.ErrMissingCustomer)
	})

	t.Run("empty items", func(t *testing.T) {
		req := salesRequest(customerID, itemID)
		req.Items = nil
		_, err := f.svc.Create(f.ctx, req)
		assert.ErrorIs(t, err, invoicedomain.ErrEmptyItems)
	})

	t.Run("due before invoice date", func(t *testing.T) {
		req := salesRequest(customerID, itemID)
		req.DueDate = req.InvoiceDate.AddDate(0, 0, -1)
		_, err := f.svc.Create(f.ctx, req)
		assert.ErrorIs(t, err, invoicedomain.ErrDueBeforeInvoiceDate)
	})

	t.Run("zero quantity", func(t *testing.T) {
		req := salesRequest(customerID, itemID)
		req.Items[0].Quantity = decimal.Zero
		_, err := f.svc.Create(f.ctx, req)
		assert.ErrorIs(t, err, invoicedomain.ErrInvalidQuantity)
	})

	t.Run("scheme quantity exceeds quantity", func(t *testing.T) {
		req := salesRequest(customerID, itemID)
		req.Items[0].SchemeQuantity = decimal.NewFromInt(20)
		_, err := f.svc.Create(f.ctx, req)
		assert.ErrorIs(t, err, invoicedomain.ErrSchemeQtyExceedsQty)
	})

	t.Run("purchase without bill number", func(t *testing.T) {
		supplierID := f.createAccount(t, accountdomain.PartyTypeSupplier)
		req := purchaseRequest(supplierID, itemID, "B-1")
		req.SupplierBillNumber = nil
		_, err := f.svc.Create(f.ctx, req)
		assert.ErrorIs(t, err, invoicedomain.ErrMissingSupplierBill)
	})

	t.Run("return purchase without bill number", func(t *testing.T) {
		supplierID := f.createAccount(t, accountdomain.PartyTypeSupplier)
		req := purchaseRequest(supplierID, itemID, "B-2")
		req.Type = invoicedomain.InvoiceTypeReturnPurchase
		req.SupplierBillNumber = nil
		_, err := f.svc.Create(f.ctx, req)
		assert.ErrorIs(t, err, invoicedomain.ErrMissingSupplierBill)
	})

	t.Run("return without metadata", func(t *testing.T) {
		req := salesRequest(customerID, itemID)
		req.Type = invoicedomain.InvoiceTypeReturnSales
		_, err := f.svc.Create(f.ctx, req)
		assert.ErrorIs(t, err, invoicedomain.ErrMissingReturnMetadata)
	})

	t.Run("missing company context", func(t *testing.T) {
		_, err := f.svc.Create(context.Background(), salesRequest(customerID, itemID))
		assert.ErrorIs(t, err, invoicedomain.ErrInvalidCompany)
	})
}

func TestUpdate_RecomputesTotalsAndBumpsRevision(t *testing.T) {
	f := setup(t)
	customerID := f.createAccount(t, accountdomain.PartyTypeCustomer)
	itemID := f.createItem(t, 18)

	inv, err := f.svc.Create(f.ctx, salesRequest(customerID, itemID))
	require.NoError(t, err)
	require.Equal(t, int64(0), inv.Revision)

	to1 := decimal.NewFromInt(10)
	updated, err := f.svc.Update(f.ctx, inv.ID.String(), invoicedomain.UpdateInvoiceRequest{
		To1Percent: &to1,
	})
	require.NoError(t, err)

	assert.Equal(t, int64(1), updated.Revision)
	assert.True(t, updated.To1Amount.Equal(decimal.NewFromInt(100)))
	// 1000 - 100 + 180
	assert.True(t, updated.GrandTotal.Equal(decimal.NewFromInt(1080)))
}

func TestUpdate_SchemeTO2StableAcrossSaves(t *testing.T) {
	f := setup(t)
	f.schemes.to2 = decimal.NewFromInt(3)
	customerID := f.createAccount(t, accountdomain.PartyTypeCustomer)
	itemID := f.createItem(t, 18)

	inv, err := f.svc.Create(f.ctx, salesRequest(customerID, itemID))
	require.NoError(t, err)
	// 3% of the 1000 subtotal; 1000 - 30 + 180
	require.True(t, inv.To2Amount.Equal(decimal.NewFromInt(30)), "to2 %s", inv.To2Amount)
	require.True(t, inv.GrandTotal.Equal(decimal.NewFromInt(1150)))

	first, err := f.svc.Update(f.ctx, inv.ID.String(), invoicedomain.UpdateInvoiceRequest{})
	require.NoError(t, err)
	second, err := f.svc.Update(f.ctx, inv.ID.String(), invoicedomain.UpdateInvoiceRequest{})
	require.NoError(t, err)

	assert.True(t, second.To2Amount.Equal(decimal.NewFromInt(30)), "to2 %s", second.To2Amount)
	assert.True(t, second.GrandTotal.Equal(first.GrandTotal))
	assert.True(t, second.To2Percent.IsZero())
}

func TestUpdate_StaleRevisionRejected(t *testing.T) {
	f := setup(t)
	customerID := f.createAccount(t, accountdomain.PartyTypeCustomer)
	itemID := f.createItem(t, 18)

	inv, err := f.svc.Create(f.ctx, salesRequest(customerID, itemID))
	require.NoError(t, err)

	_, err = f.svc.Update(f.ctx, inv.ID.String(), invoicedomain.UpdateInvoiceRequest{
		Revision: 99,
	})
	assert.ErrorIs(t, err, invoicedomain.ErrStaleInvoice)
}

func TestUpdate_IncomeTaxCarriedWhenBaseAbsent(t *testing.T) {
	f := setup(t)
	customerID := f.createAccount(t, accountdomain.PartyTypeCustomer)
	itemID := f.createItem(t, 18)

	req := salesRequest(customerID, itemID)
	req.IncomeTaxableAmount = decimal.NewFromInt(10000)
	inv, err := f.svc.Create(f.ctx, req)
	require.NoError(t, err)
	require.True(t, inv.IncomeTax.Equal(decimal.NewFromInt(550)))

	zero := decimal.Zero
	updated, err := f.svc.Update(f.ctx, inv.ID.String(), invoicedomain.UpdateInvoiceRequest{
		IncomeTaxableAmount: &zero,
	})
	require.NoError(t, err)

	assert.True(t, updated.IncomeTax.Equal(decimal.NewFromInt(550)))
}

func TestLifecycle_ConfirmPostsLedger(t *testing.T) {
	f := setup(t)
	customerID := f.createAccount(t, accountdomain.PartyTypeCustomer)
	itemID := f.createItem(t, 18)

	inv, err := f.svc.Create(f.ctx, salesRequest(customerID, itemID))
	require.NoError(t, err)

	require.NoError(t, f.svc.Confirm(f.ctx, inv.ID.String()))
	assert.Equal(t, 1, f.ledger.posted)

	// Confirming again is a no-op
	require.NoError(t, f.svc.Confirm(f.ctx, inv.ID.String()))
	assert.Equal(t, 1, f.ledger.posted)
}

func TestLifecycle_PaidAndCancelledGuards(t *testing.T) {
	f := setup(t)
	customerID := f.createAccount(t, accountdomain.PartyTypeCustomer)
	itemID := f.createItem(t, 18)

	inv, err := f.svc.Create(f.ctx, salesRequest(customerID, itemID))
	require.NoError(t, err)

	// Draft cannot be paid
	assert.ErrorIs(t, f.svc.MarkAsPaid(f.ctx, inv.ID.String()), invoicedomain.ErrInvoiceNotDraft)

	require.NoError(t, f.svc.Confirm(f.ctx, inv.ID.String()))
	require.NoError(t, f.svc.MarkAsPaid(f.ctx, inv.ID.String()))

	assert.ErrorIs(t, f.svc.MarkAsPaid(f.ctx, inv.ID.String()), invoicedomain.ErrInvoiceAlreadyPaid)
	assert.ErrorIs(t, f.svc.Cancel(f.ctx, inv.ID.String(), "late"), invoicedomain.ErrInvoiceAlreadyPaid)

	to1 := decimal.NewFromInt(5)
	_, err = f.svc.Update(f.ctx, inv.ID.String(), invoicedomain.UpdateInvoiceRequest{To1Percent: &to1})
	assert.ErrorIs(t, err, invoicedomain.ErrInvoiceAlreadyPaid)
}

func TestLifecycle_CancelConfirmedReversesLedger(t *testing.T) {
	f := setup(t)
	customerID := f.createAccount(t, accountdomain.PartyTypeCustomer)
	itemID := f.createItem(t, 18)

	inv, err := f.svc.Create(f.ctx, salesRequest(customerID, itemID))
	require.NoError(t, err)
	require.NoError(t, f.svc.Confirm(f.ctx, inv.ID.String()))

	require.NoError(t, f.svc.Cancel(f.ctx, inv.ID.String(), "wrong party"))
	assert.Equal(t, 1, f.ledger.reversed)

	assert.ErrorIs(t, f.svc.Cancel(f.ctx, inv.ID.String(), "again"), invoicedomain.ErrInvoiceCancelled)
}

func TestAddItem_RecomputesTotals(t *testing.T) {
	f := setup(t)
	customerID := f.createAccount(t, accountdomain.PartyTypeCustomer)
	itemID := f.createItem(t, 18)

	inv, err := f.svc.Create(f.ctx, salesRequest(customerID, itemID))
	require.NoError(t, err)

	gst := decimal.NewFromInt(4)
	updated, err := f.svc.AddItem(f.ctx, inv.ID.String(), invoicedomain.LineRequest{
		ItemID:    itemID,
		Quantity:  decimal.NewFromInt(5),
		UnitPrice: decimal.NewFromInt(200),
		GSTRate:   &gst,
	})
	require.NoError(t, err)

	require.Len(t, updated.Items, 2)
	assert.True(t, updated.Subtotal.Equal(decimal.NewFromInt(2000)))
	assert.True(t, updated.GST4Total.Equal(decimal.NewFromInt(40)))
	assert.Equal(t, int64(1), updated.Revision)
}

func TestRemoveItem_LastLineRejected(t *testing.T) {
	f := setup(t)
	customerID := f.createAccount(t, accountdomain.PartyTypeCustomer)
	itemID := f.createItem(t, 18)

	inv, err := f.svc.Create(f.ctx, salesRequest(customerID, itemID))
	require.NoError(t, err)

	_, err = f.svc.RemoveItem(f.ctx, inv.ID.String(), inv.Items[0].ID.String())
	assert.ErrorIs(t, err, invoicedomain.ErrEmptyItems)
}

func TestRemoveItem_DropsLineAndRecomputes(t *testing.T) {
	f := setup(t)
	customerID := f.createAccount(t, accountdomain.PartyTypeCustomer)
	itemID := f.createItem(t, 18)

	req := salesRequest(customerID, itemID)
	gst := decimal.NewFromInt(18)
	req.Items = append(req.Items, invoicedomain.LineRequest{
		ItemID:    itemID,
		Quantity:  decimal.NewFromInt(5),
		UnitPrice: decimal.NewFromInt(200),
		GSTRate:   &gst,
	})

	inv, err := f.svc.Create(f.ctx, req)
	require.NoError(t, err)
	require.True(t, inv.Subtotal.Equal(decimal.NewFromInt(2000)))

	updated, err := f.svc.RemoveItem(f.ctx, inv.ID.String(), inv.Items[1].ID.String())
	require.NoError(t, err)

	require.Len(t, updated.Items, 1)
	assert.True(t, updated.Subtotal.Equal(decimal.NewFromInt(1000)))
}

func TestRemoveItem_UnknownLine(t *testing.T) {
	f := setup(t)
	customerID := f.createAccount(t, accountdomain.PartyTypeCustomer)
	itemID := f.createItem(t, 18)

	inv, err := f.svc.Create(f.ctx, salesRequest(customerID, itemID))
	require.NoError(t, err)

	_, err = f.svc.RemoveItem(f.ctx, inv.ID.String(), f.node.Generate().String())
	assert.ErrorIs(t, err, invoicedomain.ErrLineNotFound)
}

func TestGenerateNextInvoiceNumber_PeeksWithoutReserving(t *testing.T) {
	f := setup(t)
	customerID := f.createAccount(t, accountdomain.PartyTypeCustomer)
	itemID := f.createItem(t, 18)

	number, err := f.svc.GenerateNextInvoiceNumber(f.ctx, invoicedomain.InvoiceTypeSales)
	require.NoError(t, err)
	assert.Equal(t, "SI2025000001", number)

	inv, err := f.svc.Create(f.ctx, salesRequest(customerID, itemID))
	require.NoError(t, err)
	assert.Equal(t, number, inv.InvoiceNumber)
}

func TestList_FiltersByTypeAndStatus(t *testing.T) {
	f := setup(t)
	customerID := f.createAccount(t, accountdomain.PartyTypeCustomer)
	supplierID := f.createAccount(t, accountdomain.PartyTypeSupplier)
	itemID := f.createItem(t, 18)

	_, err := f.svc.Create(f.ctx, salesRequest(customerID, itemID))
	require.NoError(t, err)
	_, err = f.svc.Create(f.ctx, purchaseRequest(supplierID, itemID, "B-1"))
	require.NoError(t, err)

	salesType := invoicedomain.InvoiceTypeSales
	resp, err := f.svc.List(f.ctx, invoicedomain.ListInvoiceRequest{Type: &salesType})
	require.NoError(t, err)
	require.Len(t, resp.Invoices, 1)
	assert.Equal(t, invoicedomain.InvoiceTypeSales, resp.Invoices[0].Type)

	draft := invoicedomain.InvoiceStatusDraft
	resp, err = f.svc.List(f.ctx, invoicedomain.ListInvoiceRequest{Status: &draft})
	require.NoError(t, err)
	assert.Len(t, resp.Invoices, 2)
}
