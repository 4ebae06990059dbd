package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/pharmatrade/medinv/internal/companyctx"
	itemdomain "github.com/pharmatrade/medinv/internal/item/domain"
	"github.com/pharmatrade/medinv/pkg/db/option"
	"github.com/pharmatrade/medinv/pkg/repository"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ServiceParam struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node

	itemrepo repository.Repository[itemdomain.Item]
}

func NewService(p ServiceParam) itemdomain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("item.service"),
		genID: p.GenID,

		itemrepo: repository.ProvideStore[itemdomain.Item](p.DB),
	}
}

func (s *Service) Create(ctx context.Context, req itemdomain.CreateItemRequest) (*itemdomain.Item, error) {
	companyID, err := s.companyIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	code := strings.TrimSpace(req.Code)
	if code == "" {
		return nil, itemdomain.ErrInvalidCode
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, itemdomain.ErrInvalidName
	}

	// GST defaults to the standard 18 percent rate unless the caller
	// supplies one, including an explicit zero for exempt items.
	gstRate := decimal.NewFromInt(18)
	if req.GSTRate != nil {
		gstRate = *req.GSTRate
	}

	now := time.Now().UTC()
	item := &itemdomain.Item{
		ID:          s.genID.Generate(),
		CompanyID:   companyID,
		Code:        code,
		Name:        name,
		Packing:     strings.TrimSpace(req.Packing),
		CartonSize:  req.CartonSize,
		BoxSize:     req.BoxSize,
		TradePrice:  req.TradePrice,
		RetailPrice: req.RetailPrice,
		GSTRate:     gstRate,
		Active:      true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.itemrepo.Create(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *Service) List(ctx context.Context, req itemdomain.ListItemRequest) (itemdomain.ListItemResponse, error) {
	companyID, err := s.companyIDFromContext(ctx)
	if err != nil {
		return itemdomain.ListItemResponse{}, err
	}

	filter := &itemdomain.Item{CompanyID: companyID}
	if code := strings.TrimSpace(req.Code); code != "" {
		filter.Code = code
	}
	if req.Active != nil {
		filter.Active = *req.Active
	}

	opts := []option.QueryOption{
		option.WithSortBy(option.QuerySortBy{
			Allow:   map[string]bool{"created_at": true, "code": true, "name": true},
			SortBy:  req.SortBy,
			OrderBy: req.OrderBy,
		}),
	}
	if req.Limit > 0 {
		opts = append(opts, option.WithLimit(req.Limit))
	}

	rows, err := s.itemrepo.Find(ctx, filter, opts...)
	if err != nil {
		return itemdomain.ListItemResponse{}, err
	}

	items := make([]itemdomain.Item, 0, len(rows))
	for _, row := range rows {
		if row == nil {
			continue
		}
		items = append(items, *row)
	}

	return itemdomain.ListItemResponse{Items: items}, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (itemdomain.Item, error) {
	companyID, err := s.companyIDFromContext(ctx)
	if err != nil {
		return itemdomain.Item{}, err
	}

	itemID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return itemdomain.Item{}, itemdomain.ErrNotFound
	}

	row, err := s.itemrepo.FindOne(ctx, &itemdomain.Item{ID: itemID, CompanyID: companyID})
	if err != nil {
		return itemdomain.Item{}, err
	}
	if row == nil {
		return itemdomain.Item{}, gorm.ErrRecordNotFound
	}

	return *row, nil
}

func (s *Service) companyIDFromContext(ctx context.Context) (snowflake.ID, error) {
	companyID, ok := companyctx.CompanyIDFromContext(ctx)
	if !ok || companyID == 0 {
		return 0, itemdomain.ErrInvalidCompany
	}
	return snowflake.ID(companyID), nil
}
