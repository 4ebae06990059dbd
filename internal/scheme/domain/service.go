package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

var (
	ErrInvalidCompany = errors.New("invalid_company")
	ErrInvalidName    = errors.New("invalid_name")
	ErrInvalidWindow  = errors.New("invalid_window")
	ErrInvalidID      = errors.New("invalid_id")
	ErrNotFound       = errors.New("not_found")
)

type CreateSchemeRequest struct {
	Name             string          `json:"name"`
	Format           string          `json:"format"`
	Type             SchemeType      `json:"type"`
	StartDate        time.Time       `json:"start_date"`
	EndDate          time.Time       `json:"end_date"`
	MinimumQuantity  decimal.Decimal `json:"minimum_quantity"`
	MaximumQuantity  decimal.Decimal `json:"maximum_quantity"`
	Discount2Percent decimal.Decimal `json:"discount2_percent"`
	To2Percent       decimal.Decimal `json:"to2_percent"`
	ClaimAccountID   *string         `json:"claim_account_id,omitempty"`
	ItemIDs          []string        `json:"item_ids,omitempty"`
	CustomerIDs      []string        `json:"customer_ids,omitempty"`
}

type ListSchemeRequest struct {
	Active *bool
}

type ListSchemeResponse struct {
	Schemes []Scheme `json:"schemes"`
}

type Service interface {
	Create(ctx context.Context, req CreateSchemeRequest) (*Scheme, error)
	List(ctx context.Context, req ListSchemeRequest) (ListSchemeResponse, error)
	GetByID(ctx context.Context, id string) (Scheme, error)
	// GetActiveSchemes returns schemes whose activity window covers the date,
	// with allow-lists preloaded.
	GetActiveSchemes(ctx context.Context, companyID snowflake.ID, date time.Time) ([]Scheme, error)
}
