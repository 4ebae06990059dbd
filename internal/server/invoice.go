package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	invoicedomain "github.com/pharmatrade/medinv/internal/invoice/domain"
)

func (s *Server) ListInvoices(c *gin.Context) {
	req := invoicedomain.ListInvoiceRequest{}

	if v := strings.TrimSpace(c.Query("type")); v != "" {
		t := invoicedomain.InvoiceType(v)
		req.Type = &t
	}
	if v := strings.TrimSpace(c.Query("status")); v != "" {
		status := invoicedomain.InvoiceStatus(v)
		req.Status = &status
	}
	if v := strings.TrimSpace(c.Query("customer_id")); v != "" {
		id, err := snowflake.ParseString(v)
		if err != nil {
			AbortWithError(c, newValidationError("customer_id", "invalid_id", "invalid customer id"))
			return
		}
		req.CustomerID = &id
	}
	if v := strings.TrimSpace(c.Query("supplier_id")); v != "" {
		id, err := snowflake.ParseString(v)
		if err != nil {
			AbortWithError(c, newValidationError("supplier_id", "invalid_id", "invalid supplier id"))
			return
		}
		req.SupplierID = &id
	}
	if v := strings.TrimSpace(c.Query("date_from")); v != "" {
		from, err := time.Parse("2006-01-02", v)
		if err != nil {
			AbortWithError(c, newValidationError("date_from", "invalid_date", "invalid date"))
			return
		}
		req.DateFrom = &from
	}
	if v := strings.TrimSpace(c.Query("date_to")); v != "" {
		to, err := time.Parse("2006-01-02", v)
		if err != nil {
			AbortWithError(c, newValidationError("date_to", "invalid_date", "invalid date"))
			return
		}
		req.DateTo = &to
	}

	resp, err := s.invoiceSvc.List(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp.Invoices})
}

func (s *Server) CreateInvoice(c *gin.Context) {
	var req invoicedomain.CreateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, newValidationError("request", "invalid_request", "invalid request body"))
		return
	}

	inv, err := s.invoiceSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": inv})
}

func (s *Server) GetInvoiceByID(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if _, err := snowflake.ParseString(id); err != nil {
		AbortWithError(c, newValidationError("id", "invalid_id", "invalid id"))
		return
	}

	inv, err := s.invoiceSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": inv})
}

func (s *Server) UpdateInvoice(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))

	var req invoicedomain.UpdateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, newValidationError("request", "invalid_request", "invalid request body"))
		return
	}

	inv, err := s.invoiceSvc.Update(c.Request.Context(), id, req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": inv})
}

func (s *Server) ConfirmInvoice(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if err := s.invoiceSvc.Confirm(c.Request.Context(), id); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "confirmed"})
}

func (s *Server) MarkInvoicePaid(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if err := s.invoiceSvc.MarkAsPaid(c.Request.Context(), id); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "paid"})
}

func (s *Server) CancelInvoice(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))

	var body struct {
		Reason string `json:"reason"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		AbortWithError(c, newValidationError("request", "invalid_request", "invalid request body"))
		return
	}

	if err := s.invoiceSvc.Cancel(c.Request.Context(), id, body.Reason); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "cancelled"})
}

func (s *Server) AddInvoiceItem(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))

	var req invoicedomain.LineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, newValidationError("request", "invalid_request", "invalid request body"))
		return
	}

	inv, err := s.invoiceSvc.AddItem(c.Request.Context(), id, req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": inv})
}

func (s *Server) RemoveInvoiceItem(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	lineID := strings.TrimSpace(c.Param("lineId"))

	inv, err := s.invoiceSvc.RemoveItem(c.Request.Context(), id, lineID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": inv})
}

func (s *Server) NextInvoiceNumber(c *gin.Context) {
	t := invoicedomain.InvoiceType(strings.TrimSpace(c.Query("type")))
	switch t {
	case invoicedomain.InvoiceTypeSales, invoicedomain.InvoiceTypePurchase,
		invoicedomain.InvoiceTypeReturnSales, invoicedomain.InvoiceTypeReturnPurchase:
	default:
		AbortWithError(c, newValidationError("type", "invalid_type", "invalid invoice type"))
		return
	}

	number, err := s.invoiceSvc.GenerateNextInvoiceNumber(c.Request.Context(), t)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"invoice_number": number}})
}
