package domain

import (
	"context"

	"github.com/pharmatrade/medinv/pkg/db/pagination"
	"github.com/shopspring/decimal"
)

type ListAccountRequest struct {
	Type   *PartyType
	City   string
	Active *bool

	SortBy     string
	OrderBy    string
	Pagination pagination.Pagination
}

type ListAccountResponse struct {
	Accounts []Account            `json:"accounts"`
	PageInfo *pagination.PageInfo `json:"page_info,omitempty"`
}

type CreateAccountRequest struct {
	Type           PartyType       `json:"type"`
	Name           string          `json:"name"`
	Phone          string          `json:"phone"`
	Address        string          `json:"address"`
	City           string          `json:"city"`
	NTN            *string         `json:"ntn,omitempty"`
	LicenseNumber  *string         `json:"license_number,omitempty"`
	FilerStatus    FilerStatus     `json:"filer_status"`
	AdvanceTaxRate decimal.Decimal `json:"advance_tax_rate"`
	CreditLimit    decimal.Decimal `json:"credit_limit"`
	CreditDays     int             `json:"credit_days"`
	OpeningBalance decimal.Decimal `json:"opening_balance"`
}

type Service interface {
	Create(ctx context.Context, req CreateAccountRequest) (*Account, error)
	List(ctx context.Context, req ListAccountRequest) (ListAccountResponse, error)
	GetByID(ctx context.Context, id string) (Account, error)
}
