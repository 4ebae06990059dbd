package domain

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrInvalidCompany         = errors.New("invalid_company")
	ErrInvalidInvoiceID       = errors.New("invalid_invoice_id")
	ErrInvalidInvoiceType     = errors.New("invalid_invoice_type")
	ErrInvoiceNotFound        = errors.New("invoice_not_found")
	ErrMissingCustomer        = errors.New("missing_customer")
	ErrMissingSupplier        = errors.New("missing_supplier")
	ErrEmptyItems             = errors.New("empty_items")
	ErrInvalidQuantity        = errors.New("invalid_quantity")
	ErrDueBeforeInvoiceDate   = errors.New("due_before_invoice_date")
	ErrExpiryBeforeInvoice    = errors.New("expiry_before_invoice_date")
	ErrMissingReturnMetadata  = errors.New("missing_return_metadata")
	ErrMissingOriginalInvoice = errors.New("missing_original_invoice")
	ErrMissingSupplierBill    = errors.New("missing_supplier_bill_number")
	ErrSchemeQtyExceedsQty    = errors.New("scheme_quantity_exceeds_quantity")
	ErrInvoiceNotDraft        = errors.New("invoice_not_draft")
	ErrInvoiceCancelled       = errors.New("invoice_cancelled")
	ErrInvoiceAlreadyPaid     = errors.New("invoice_already_paid")
	ErrLineNotFound           = errors.New("line_not_found")
	ErrStaleInvoice           = errors.New("stale_invoice")
	ErrDuplicateBillNumber    = errors.New("duplicate_bill_number")
)

// DuplicateBillError names the conflicting document so callers can surface it.
type DuplicateBillError struct {
	InvoiceNumber string
	InvoiceDate   time.Time
}

func (e *DuplicateBillError) Error() string {
	return fmt.Sprintf("duplicate_bill_number: already used by invoice %s dated %s",
		e.InvoiceNumber, e.InvoiceDate.Format("2006-01-02"))
}

func (e *DuplicateBillError) Unwrap() error {
	return ErrDuplicateBillNumber
}
