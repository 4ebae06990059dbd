package server

import (
	"net/http"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	accountdomain "github.com/pharmatrade/medinv/internal/account/domain"
)

func (s *Server) ListAccounts(c *gin.Context) {
	req := accountdomain.ListAccountRequest{}

	if v := strings.TrimSpace(c.Query("type")); v != "" {
		t := accountdomain.PartyType(v)
		req.Type = &t
	}
	if v := strings.TrimSpace(c.Query("city")); v != "" {
		req.City = v
	}
	req.SortBy = c.Query("sort_by")
	req.OrderBy = c.Query("order_by")
	if err := c.ShouldBindQuery(&req.Pagination); err != nil {
		AbortWithError(c, newValidationError("pagination", "invalid_pagination", "invalid pagination parameters"))
		return
	}

	resp, err := s.accountSvc.List(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp.Accounts, "page_info": resp.PageInfo})
}

func (s *Server) CreateAccount(c *gin.Context) {
	var req accountdomain.CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, newValidationError("request", "invalid_request", "invalid request body"))
		return
	}

	account, err := s.accountSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": account})
}

func (s *Server) GetAccountByID(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if _, err := snowflake.ParseString(id); err != nil {
		AbortWithError(c, newValidationError("id", "invalid_id", "invalid id"))
		return
	}

	account, err := s.accountSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": account})
}
