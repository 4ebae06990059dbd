package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	accountdomain "github.com/pharmatrade/medinv/internal/account/domain"
	"github.com/shopspring/decimal"
)

// AccountRates exposes the party attributes the tax calculator depends on.
type AccountRates interface {
	AdvanceTaxRate() decimal.Decimal
	CalculateAdvanceTax(taxable decimal.Decimal) decimal.Decimal
	IsNonFiler() bool
	CalculateNonFilerGST(taxable decimal.Decimal) decimal.Decimal
}

// BalanceSummary is the ledger snapshot evaluated against the grand total.
type BalanceSummary struct {
	PreviousBalance     decimal.Decimal `json:"previous_balance"`
	TotalBalance        decimal.Decimal `json:"total_balance"`
	AvailableCredit     decimal.Decimal `json:"available_credit"`
	CreditLimitExceeded bool            `json:"credit_limit_exceeded"`
	Warning             string          `json:"warning"`
}

// BalanceCalculator reads the party ledger. Failures must be treated as
// non-fatal by callers: the save degrades to safe defaults instead of aborting.
type BalanceCalculator interface {
	CalculateBalanceSummary(ctx context.Context, partyID snowflake.ID, invoiceDate time.Time, grandTotal decimal.Decimal, partyType accountdomain.PartyType) (BalanceSummary, error)
}

// LedgerPoster writes and reverses the ledger postings behind an invoice.
type LedgerPoster interface {
	PostInvoice(ctx context.Context, inv *Invoice) error
	ReverseInvoice(ctx context.Context, inv *Invoice) error
}

// CartonCalculator derives carton quantities from box quantities.
type CartonCalculator interface {
	ItemCartonQty(ctx context.Context, line *InvoiceLine) (int64, error)
	InvoiceCartonQty(ctx context.Context, inv *Invoice) (int64, error)
}

// SchemeApplier runs the invoice-wide scheme pass before totals are computed.
type SchemeApplier interface {
	ApplyToInvoice(ctx context.Context, inv *Invoice) error
}

// LineRequest is the caller-supplied shape of one invoice line.
type LineRequest struct {
	ItemID           string           `json:"item_id"`
	Quantity         decimal.Decimal  `json:"quantity"`
	UnitPrice        decimal.Decimal  `json:"unit_price"`
	DiscountPercent  decimal.Decimal  `json:"discount_percent"`
	BoxQuantity      decimal.Decimal  `json:"box_quantity"`
	UnitQuantity     decimal.Decimal  `json:"unit_quantity"`
	BoxRate          decimal.Decimal  `json:"box_rate"`
	UnitRate         decimal.Decimal  `json:"unit_rate"`
	GSTRate          *decimal.Decimal `json:"gst_rate,omitempty"`
	Discount1Percent decimal.Decimal  `json:"discount1_percent"`
	Discount2Percent decimal.Decimal  `json:"discount2_percent"`
	SchemeQuantity   decimal.Decimal  `json:"scheme_quantity"`
}

// ReturnRequest carries the metadata required for return-family invoices.
type ReturnRequest struct {
	OriginalInvoiceID string     `json:"original_invoice_id"`
	Reason            string     `json:"reason"`
	Notes             string     `json:"notes"`
	Date              *time.Time `json:"date,omitempty"`
}

type CreateInvoiceRequest struct {
	Type               InvoiceType     `json:"type"`
	CustomerID         *string         `json:"customer_id,omitempty"`
	SupplierID         *string         `json:"supplier_id,omitempty"`
	SupplierBillNumber *string         `json:"supplier_bill_number,omitempty"`
	InvoiceDate        time.Time       `json:"invoice_date"`
	DueDate            time.Time       `json:"due_date"`
	IsEstimate         bool            `json:"is_estimate"`
	ExpiryDate         *time.Time      `json:"expiry_date,omitempty"`
	To1Percent         decimal.Decimal `json:"to1_percent"`
	To1Amount          decimal.Decimal `json:"to1_amount"`
	To2Percent         decimal.Decimal `json:"to2_percent"`
	To2Amount          decimal.Decimal `json:"to2_amount"`
	IncomeTaxableAmount decimal.Decimal `json:"income_taxable_amount"`
	Return             *ReturnRequest  `json:"return,omitempty"`
	Items              []LineRequest   `json:"items"`
}

type UpdateInvoiceRequest struct {
	DueDate             *time.Time       `json:"due_date,omitempty"`
	ExpiryDate          *time.Time       `json:"expiry_date,omitempty"`
	SupplierBillNumber  *string          `json:"supplier_bill_number,omitempty"`
	To1Percent          *decimal.Decimal `json:"to1_percent,omitempty"`
	To1Amount           *decimal.Decimal `json:"to1_amount,omitempty"`
	To2Percent          *decimal.Decimal `json:"to2_percent,omitempty"`
	To2Amount           *decimal.Decimal `json:"to2_amount,omitempty"`
	IncomeTaxableAmount *decimal.Decimal `json:"income_taxable_amount,omitempty"`
	Items               []LineRequest    `json:"items,omitempty"`
	Revision            int64            `json:"revision"`
}

type ListInvoiceRequest struct {
	Type       *InvoiceType
	Status     *InvoiceStatus
	CustomerID *snowflake.ID
	SupplierID *snowflake.ID
	DateFrom   *time.Time
	DateTo     *time.Time
}

type ListInvoiceResponse struct {
	Invoices []Invoice `json:"invoices"`
}

type Service interface {
	Create(ctx context.Context, req CreateInvoiceRequest) (*Invoice, error)
	Update(ctx context.Context, id string, req UpdateInvoiceRequest) (*Invoice, error)
	GetByID(ctx context.Context, id string) (Invoice, error)
	List(ctx context.Context, req ListInvoiceRequest) (ListInvoiceResponse, error)
	Confirm(ctx context.Context, id string) error
	MarkAsPaid(ctx context.Context, id string) error
	Cancel(ctx context.Context, id string, reason string) error
	AddItem(ctx context.Context, id string, line LineRequest) (*Invoice, error)
	RemoveItem(ctx context.Context, id string, lineID string) (*Invoice, error)
	GenerateNextInvoiceNumber(ctx context.Context, t InvoiceType) (string, error)
}
