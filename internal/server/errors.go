package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	accountdomain "github.com/pharmatrade/medinv/internal/account/domain"
	invoicedomain "github.com/pharmatrade/medinv/internal/invoice/domain"
	itemdomain "github.com/pharmatrade/medinv/internal/item/domain"
	schemedomain "github.com/pharmatrade/medinv/internal/scheme/domain"
	"gorm.io/gorm"
)

type ValidationError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func (v ValidationErrors) Error() string {
	return "validation error"
}

type errorPayload struct {
	Type    string            `json:"type"`
	Message string            `json:"message"`
	Errors  []ValidationError `json:"errors,omitempty"`
}

type errorResponse struct {
	Error errorPayload `json:"error"`
}

var (
	ErrInvalidRequest = errors.New("invalid_request")
	ErrNotFound       = errors.New("not_found")
)

func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, payload := mapError(lastErr.Err)
		c.Header("Content-Type", "application/json")
		c.AbortWithStatusJSON(status, errorResponse{Error: payload})
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func newValidationError(field, code, message string) error {
	return &ValidationErrors{
		Errors: []ValidationError{
			{
				Field:   field,
				Code:    code,
				Message: message,
			},
		},
	}
}

func mapError(err error) (int, errorPayload) {
	if err == nil {
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}

	if vErr := asValidationErrors(err); vErr != nil {
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors:  vErr.Errors,
		}
	}

	var dupErr *invoicedomain.DuplicateBillError
	if errors.As(err, &dupErr) {
		return http.StatusConflict, errorPayload{
			Type:    "duplicate_bill_number",
			Message: dupErr.Error(),
		}
	}

	switch {
	case isValidationError(err):
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: err.Error(),
		}
	case isConflictError(err):
		return http.StatusConflict, errorPayload{
			Type:    "conflict",
			Message: err.Error(),
		}
	case isNotFoundError(err):
		return http.StatusNotFound, errorPayload{
			Type:    "not_found",
			Message: "not found",
		}
	default:
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}
}

func asValidationErrors(err error) *ValidationErrors {
	var vErr *ValidationErrors
	if errors.As(err, &vErr) && vErr != nil {
		return vErr
	}
	return nil
}

func isValidationError(err error) bool {
	switch {
	case errors.Is(err, ErrInvalidRequest),
		errors.Is(err, invoicedomain.ErrInvalidCompany),
		errors.Is(err, invoicedomain.ErrInvalidInvoiceType),
		errors.Is(err, invoicedomain.ErrMissingCustomer),
		errors.Is(err, invoicedomain.ErrMissingSupplier),
		errors.Is(err, invoicedomain.ErrEmptyItems),
		errors.Is(err, invoicedomain.ErrInvalidQuantity),
		errors.Is(err, invoicedomain.ErrDueBeforeInvoiceDate),
		errors.Is(err, invoicedomain.ErrExpiryBeforeInvoice),
		errors.Is(err, invoicedomain.ErrMissingReturnMetadata),
		errors.Is(err, invoicedomain.ErrMissingOriginalInvoice),
		errors.Is(err, invoicedomain.ErrMissingSupplierBill),
		errors.Is(err, invoicedomain.ErrSchemeQtyExceedsQty),
		errors.Is(err, accountdomain.ErrInvalidCompany),
		errors.Is(err, accountdomain.ErrInvalidName),
		errors.Is(err, accountdomain.ErrInvalidPartyType),
		errors.Is(err, accountdomain.ErrInvalidID),
		errors.Is(err, accountdomain.ErrInvalidPageToken),
		errors.Is(err, itemdomain.ErrInvalidCompany),
		errors.Is(err, itemdomain.ErrInvalidCode),
		errors.Is(err, itemdomain.ErrInvalidName),
		errors.Is(err, schemedomain.ErrInvalidCompany),
		errors.Is(err, schemedomain.ErrInvalidName),
		errors.Is(err, schemedomain.ErrInvalidWindow),
		errors.Is(err, schemedomain.ErrInvalidID),
		errors.Is(err, schemedomain.ErrInvalidSchemeFormat),
		errors.Is(err, schemedomain.ErrInvalidSchemeOperands):
		return true
	default:
		return false
	}
}

func isConflictError(err error) bool {
	switch {
	case errors.Is(err, invoicedomain.ErrDuplicateBillNumber),
		errors.Is(err, invoicedomain.ErrStaleInvoice),
		errors.Is(err, invoicedomain.ErrInvoiceNotDraft),
		errors.Is(err, invoicedomain.ErrInvoiceCancelled),
		errors.Is(err, invoicedomain.ErrInvoiceAlreadyPaid):
		return true
	default:
		return false
	}
}

func isNotFoundError(err error) bool {
	switch {
	case errors.Is(err, ErrNotFound),
		errors.Is(err, invoicedomain.ErrInvalidInvoiceID),
		errors.Is(err, invoicedomain.ErrInvoiceNotFound),
		errors.Is(err, invoicedomain.ErrLineNotFound),
		errors.Is(err, accountdomain.ErrNotFound),
		errors.Is(err, itemdomain.ErrNotFound),
		errors.Is(err, schemedomain.ErrNotFound),
		errors.Is(err, gorm.ErrRecordNotFound):
		return true
	default:
		return false
	}
}
