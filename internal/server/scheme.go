package server

import (
	"net/http"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	schemedomain "github.com/pharmatrade/medinv/internal/scheme/domain"
)

func (s *Server) ListSchemes(c *gin.Context) {
	req := schemedomain.ListSchemeRequest{}

	if v := strings.TrimSpace(c.Query("active")); v != "" {
		active := v == "true"
		req.Active = &active
	}

	resp, err := s.schemeSvc.List(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp.Schemes})
}

func (s *Server) CreateScheme(c *gin.Context) {
	var req schemedomain.CreateSchemeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, newValidationError("request", "invalid_request", "invalid request body"))
		return
	}

	scheme, err := s.schemeSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": scheme})
}

func (s *Server) GetSchemeByID(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if _, err := snowflake.ParseString(id); err != nil {
		AbortWithError(c, newValidationError("id", "invalid_id", "invalid id"))
		return
	}

	scheme, err := s.schemeSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": scheme})
}
