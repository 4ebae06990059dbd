// Package domain contains the invoice aggregate and its persistence models.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	accountdomain "github.com/pharmatrade/medinv/internal/account/domain"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// InvoiceType is the document family of an invoice.
type InvoiceType string

const (
	InvoiceTypeSales          InvoiceType = "sales"
	InvoiceTypePurchase       InvoiceType = "purchase"
	InvoiceTypeReturnSales    InvoiceType = "return_sales"
	InvoiceTypeReturnPurchase InvoiceType = "return_purchase"
)

// IsSalesFamily reports whether the invoice bills a customer.
func (t InvoiceType) IsSalesFamily() bool {
	return t == InvoiceTypeSales || t == InvoiceTypeReturnSales
}

// IsPurchaseFamily reports whether the invoice bills a supplier.
func (t InvoiceType) IsPurchaseFamily() bool {
	return t == InvoiceTypePurchase || t == InvoiceTypeReturnPurchase
}

// IsReturn reports whether the invoice reverses an original document.
func (t InvoiceType) IsReturn() bool {
	return t == InvoiceTypeReturnSales || t == InvoiceTypeReturnPurchase
}

// NumberPrefix returns the document-number prefix for the family.
func (t InvoiceType) NumberPrefix() string {
	if t.IsPurchaseFamily() {
		return "PI"
	}
	return "SI"
}

// PartyType returns the ledger party the family settles against.
func (t InvoiceType) PartyType() accountdomain.PartyType {
	if t.IsPurchaseFamily() {
		return accountdomain.PartyTypeSupplier
	}
	return accountdomain.PartyTypeCustomer
}

// InvoiceStatus represents invoice lifecycle states.
type InvoiceStatus string

const (
	InvoiceStatusDraft     InvoiceStatus = "draft"
	InvoiceStatusConfirmed InvoiceStatus = "confirmed"
	InvoiceStatusPaid      InvoiceStatus = "paid"
	InvoiceStatusCancelled InvoiceStatus = "cancelled"
)

// PaymentStatus tracks settlement progress independent of lifecycle.
type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPartial PaymentStatus = "partial"
	PaymentStatusPaid    PaymentStatus = "paid"
)

// Invoice is the root aggregate. All monetary totals are derived by the
// computation pipeline on every save and must never be hand-edited.
type Invoice struct {
	ID            snowflake.ID  `gorm:"primaryKey" json:"id"`
	CompanyID     snowflake.ID  `gorm:"not null;index" json:"company_id"`
	InvoiceNumber string        `gorm:"type:text;uniqueIndex" json:"invoice_number"`
	Type          InvoiceType   `gorm:"type:text;not null;index" json:"type"`
	Status        InvoiceStatus `gorm:"type:text;not null;default:'draft'" json:"status"`
	PaymentStatus PaymentStatus `gorm:"type:text;not null;default:'pending'" json:"payment_status"`

	CustomerID *snowflake.ID `gorm:"index" json:"customer_id,omitempty"`
	SupplierID *snowflake.ID `gorm:"index" json:"supplier_id,omitempty"`

	// Supplier's own bill number; unique per supplier among active purchase
	// invoices, compared exactly (case- and whitespace-sensitive).
	SupplierBillNumber *string `gorm:"type:text;index" json:"supplier_bill_number,omitempty"`

	OriginalInvoiceID *snowflake.ID `gorm:"index" json:"original_invoice_id,omitempty"`
	ReturnReason      *string       `gorm:"type:text" json:"return_reason,omitempty"`
	ReturnNotes       *string       `gorm:"type:text" json:"return_notes,omitempty"`
	ReturnDate        *time.Time    `json:"return_date,omitempty"`

	InvoiceDate time.Time  `gorm:"not null" json:"invoice_date"`
	DueDate     time.Time  `gorm:"not null" json:"due_date"`
	IsEstimate  bool       `gorm:"not null;default:false" json:"is_estimate"`
	ExpiryDate  *time.Time `json:"expiry_date,omitempty"`

	// Trade offers. Amounts are derived from percents when the percent is
	// positive, otherwise the supplied amount is taken as a fixed offer.
	To1Percent decimal.Decimal `gorm:"type:decimal(6,4);default:0" json:"to1_percent"`
	To1Amount  decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"to1_amount"`
	To2Percent decimal.Decimal `gorm:"type:decimal(6,4);default:0" json:"to2_percent"`
	To2Amount  decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"to2_amount"`

	// SchemeTo2Percent is the TO2 contributed by scheme application, kept
	// apart from the caller-supplied percent and rebuilt from scratch on
	// every pass so repeated saves never compound it.
	SchemeTo2Percent decimal.Decimal `gorm:"type:decimal(6,4);default:0" json:"scheme_to2_percent"`

	// IncomeTaxableAmount is the base supplied for the flat income tax levy.
	IncomeTaxableAmount decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"income_taxable_amount"`
	IncomeTax           decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"income_tax"`

	// Derived totals.
	Subtotal         decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"subtotal"`
	TotalDiscount    decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"total_discount"`
	TotalTax         decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"total_tax"`
	GrandTotal       decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"grand_total"`
	GST18Total       decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"gst_18_total"`
	GST4Total        decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"gst_4_total"`
	AdvanceTaxTotal  decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"advance_tax_total"`
	NonFilerGSTTotal decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"non_filer_gst_total"`
	IncomeTaxTotal   decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"income_tax_total"`

	// Balance snapshot taken at save time when the invoice is new or its
	// grand total changed.
	PreviousBalance     decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"previous_balance"`
	TotalBalance        decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"total_balance"`
	AvailableCredit     decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"available_credit"`
	CreditLimitExceeded bool            `gorm:"not null;default:false" json:"credit_limit_exceeded"`
	CreditLimitWarning  string          `gorm:"type:text" json:"credit_limit_warning,omitempty"`

	CartonQty int64 `gorm:"default:0" json:"carton_qty"`

	// Revision guards against concurrent saves racing the number generator
	// and duplicate-bill check.
	Revision int64 `gorm:"not null;default:0" json:"revision"`

	Items []InvoiceLine `gorm:"foreignKey:InvoiceID" json:"items"`

	Metadata  datatypes.JSONMap `gorm:"type:jsonb" json:"metadata,omitempty"`
	CreatedAt time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Invoice) TableName() string { return "invoices" }

// PartyID returns the referenced party id for the invoice family.
func (inv *Invoice) PartyID() *snowflake.ID {
	if inv.Type.IsPurchaseFamily() {
		return inv.SupplierID
	}
	return inv.CustomerID
}

// InvoiceLine is a priced row owned by one invoice.
type InvoiceLine struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	InvoiceID snowflake.ID `gorm:"not null;index" json:"invoice_id"`
	ItemID    snowflake.ID `gorm:"not null;index" json:"item_id"`

	Quantity        decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"quantity"`
	UnitPrice       decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"unit_price"`
	DiscountPercent decimal.Decimal `gorm:"type:decimal(6,4);default:0" json:"discount_percent"`

	// Alternate box/unit split pricing. When either quantity is positive the
	// line subtotal uses boxQuantity*boxRate + unitQuantity*unitRate.
	BoxQuantity  decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"box_quantity"`
	UnitQuantity decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"unit_quantity"`
	BoxRate      decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"box_rate"`
	UnitRate     decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"unit_rate"`

	GSTRate decimal.Decimal `gorm:"type:decimal(6,4);default:18" json:"gst_rate"`

	// Tiered scheme-driven discounts, additive with the base discount.
	Discount1Percent decimal.Decimal `gorm:"type:decimal(6,4);default:0" json:"discount1_percent"`
	Discount1Amount  decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"discount1_amount"`
	Discount2Percent decimal.Decimal `gorm:"type:decimal(6,4);default:0" json:"discount2_percent"`
	Discount2Amount  decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"discount2_amount"`

	// Bonus quantities awarded by scheme application; quantity tracking only.
	Scheme1Quantity decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"scheme1_quantity"`
	Scheme2Quantity decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"scheme2_quantity"`

	// SchemeQuantity is the portion of Quantity received free of charge under
	// a supplier scheme (purchase invoices only). 0 <= SchemeQuantity <= Quantity.
	SchemeQuantity decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"scheme_quantity"`

	// Derived; overwritten on every computation pass.
	Subtotal          decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"subtotal"`
	DiscountAmount    decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"discount_amount"`
	GSTAmount         decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"gst_amount"`
	AdvanceTaxPercent decimal.Decimal `gorm:"type:decimal(6,4);default:0" json:"advance_tax_percent"`
	AdvanceTaxAmount  decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"advance_tax_amount"`
	TaxAmount         decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"tax_amount"`
	LineTotal         decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"line_total"`
	CartonQty         int64           `gorm:"default:0" json:"carton_qty"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (InvoiceLine) TableName() string { return "invoice_lines" }

// UsesBoxPricing reports whether the alternate box/unit pricing applies.
func (l *InvoiceLine) UsesBoxPricing() bool {
	return l.BoxQuantity.GreaterThan(decimal.Zero) || l.UnitQuantity.GreaterThan(decimal.Zero)
}
