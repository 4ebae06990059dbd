package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	accountdomain "github.com/pharmatrade/medinv/internal/account/domain"
	"github.com/pharmatrade/medinv/internal/companyctx"
	"github.com/pharmatrade/medinv/pkg/db/option"
	"github.com/pharmatrade/medinv/pkg/db/pagination"
	"github.com/pharmatrade/medinv/pkg/repository"
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

	accountrepo repository.Repository[accountdomain.Account]
}

func NewService(p ServiceParam) accountdomain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("account.service"),
		genID: p.GenID,

		accountrepo: repository.ProvideStore[accountdomain.Account](p.DB),
	}
}

func (s *Service) Create(ctx context.Context, req accountdomain.CreateAccountRequest) (*accountdomain.Account, error) {
	companyID, err := s.companyIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, accountdomain.ErrInvalidName
	}
	if req.Type != accountdomain.PartyTypeCustomer && req.Type != accountdomain.PartyTypeSupplier {
		return nil, accountdomain.ErrInvalidPartyType
	}

	filerStatus := req.FilerStatus
	if filerStatus == "" {
		filerStatus = accountdomain.FilerStatusFiler
	}

	now := time.Now().UTC()
	account := &accountdomain.Account{
		ID:             s.genID.Generate(),
		CompanyID:      companyID,
		Type:           req.Type,
		Name:           name,
		Phone:          strings.TrimSpace(req.Phone),
		Address:        strings.TrimSpace(req.Address),
		City:           strings.TrimSpace(req.City),
		NTN:            req.NTN,
		LicenseNumber:  req.LicenseNumber,
		FilerStatus:    filerStatus,
		AdvanceTaxRate: req.AdvanceTaxRate,
		CreditLimit:    req.CreditLimit,
		CreditDays:     req.CreditDays,
		OpeningBalance: req.OpeningBalance,
		Active:         true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.accountrepo.Create(ctx, account); err != nil {
		return nil, err
	}
	return account, nil
}

func (s *Service) List(ctx context.Context, req accountdomain.ListAccountRequest) (accountdomain.ListAccountResponse, error) {
	companyID, err := s.companyIDFromContext(ctx)
	if err != nil {
		return accountdomain.ListAccountResponse{}, err
	}

	filter := &accountdomain.Account{CompanyID: companyID}
	if req.Type != nil {
		filter.Type = *req.Type
	}
	if city := strings.TrimSpace(req.City); city != "" {
		filter.City = city
	}
	if req.Active != nil {
		filter.Active = *req.Active
	}

	pageSize := req.Pagination.PageSize
	if pageSize <= 0 {
		pageSize = 10
	}
	if pageSize > 250 {
		pageSize = 250
	}

	sortable := map[string]bool{"id": true, "created_at": true, "name": true, "city": true}
	opts := []option.QueryOption{option.WithLimit(pageSize + 1)}
	if token := strings.TrimSpace(req.Pagination.PageToken); token != "" {
		cursor, err := pagination.DecodeCursor(token)
		if err != nil {
			return accountdomain.ListAccountResponse{}, accountdomain.ErrInvalidPageToken
		}
		cursorID, err := snowflake.ParseString(cursor.ID)
		if err != nil {
			return accountdomain.ListAccountResponse{}, accountdomain.ErrInvalidPageToken
		}
		// Cursor pages walk ids downward, so sorting is pinned while a
		// token is in play.
		opts = append(opts,
			option.ApplyOperator(option.Condition{Field: "id", Operator: option.LT, Value: cursorID}),
			option.WithSortBy(option.QuerySortBy{Allow: sortable, SortBy: "id", OrderBy: "DESC"}),
		)
	} else {
		opts = append(opts, option.WithSortBy(option.QuerySortBy{
			Allow:   sortable,
			SortBy:  req.SortBy,
			OrderBy: req.OrderBy,
		}))
	}

	items, err := s.accountrepo.Find(ctx, filter, opts...)
	if err != nil {
		return accountdomain.ListAccountResponse{}, err
	}

	pageInfo := pagination.BuildCursorPageInfo(items, pageSize, func(a *accountdomain.Account) string {
		token, err := pagination.EncodeCursor(pagination.Cursor{ID: a.ID.String()})
		if err != nil {
			return ""
		}
		return token
	})
	if len(items) > pageSize {
		items = items[:pageSize]
	}

	accounts := make([]accountdomain.Account, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		accounts = append(accounts, *item)
	}

	return accountdomain.ListAccountResponse{Accounts: accounts, PageInfo: pageInfo}, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (accountdomain.Account, error) {
	companyID, err := s.companyIDFromContext(ctx)
	if err != nil {
		return accountdomain.Account{}, err
	}

	accountID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return accountdomain.Account{}, accountdomain.ErrInvalidID
	}

	item, err := s.accountrepo.FindOne(ctx, &accountdomain.Account{ID: accountID, CompanyID: companyID})
	if err != nil {
		return accountdomain.Account{}, err
	}
	if item == nil {
		return accountdomain.Account{}, gorm.ErrRecordNotFound
	}

	return *item, nil
}

func (s *Service) companyIDFromContext(ctx context.Context) (snowflake.ID, error) {
	companyID, ok := companyctx.CompanyIDFromContext(ctx)
	if !ok || companyID == 0 {
		return 0, accountdomain.ErrInvalidCompany
	}
	return snowflake.ID(companyID), nil
}
