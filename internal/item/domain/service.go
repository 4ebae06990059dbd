package domain

import (
	"context"

	"github.com/shopspring/decimal"
)

type CreateItemRequest struct {
	Code        string           `json:"code"`
	Name        string           `json:"name"`
	Packing     string           `json:"packing"`
	CartonSize  int64            `json:"carton_size"`
	BoxSize     int64            `json:"box_size"`
	TradePrice  decimal.Decimal  `json:"trade_price"`
	RetailPrice decimal.Decimal  `json:"retail_price"`
	GSTRate     *decimal.Decimal `json:"gst_rate,omitempty"`
}

type ListItemRequest struct {
	Active *bool
	Code   string

	SortBy  string
	OrderBy string
	Limit   int
}

type ListItemResponse struct {
	Items []Item `json:"items"`
}

type Service interface {
	Create(ctx context.Context, req CreateItemRequest) (*Item, error)
	List(ctx context.Context, req ListItemRequest) (ListItemResponse, error)
	GetByID(ctx context.Context, id string) (Item, error)
}
