package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/pharmatrade/medinv/internal/companyctx"
	schemedomain "github.com/pharmatrade/medinv/internal/scheme/domain"
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

	schemerepo repository.Repository[schemedomain.Scheme]
}

func NewService(p ServiceParam) schemedomain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("scheme.service"),
		genID: p.GenID,

		schemerepo: repository.ProvideStore[schemedomain.Scheme](p.DB),
	}
}

func (s *Service) Create(ctx context.Context, req schemedomain.CreateSchemeRequest) (*schemedomain.Scheme, error) {
	companyID, err := s.companyIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, schemedomain.ErrInvalidName
	}
	if req.EndDate.Before(req.StartDate) {
		return nil, schemedomain.ErrInvalidWindow
	}

	// Reject malformed bonus rules up front instead of at first application.
	if _, err := schemedomain.CalculateBonus(req.MinimumQuantity, req.Format); err != nil {
		return nil, err
	}

	schemeType := req.Type
	if schemeType == "" {
		schemeType = schemedomain.SchemeType1
	}

	now := time.Now().UTC()
	scheme := &schemedomain.Scheme{
		ID:               s.genID.Generate(),
		CompanyID:        companyID,
		Name:             name,
		Format:           strings.TrimSpace(req.Format),
		Type:             schemeType,
		StartDate:        req.StartDate.UTC(),
		EndDate:          req.EndDate.UTC(),
		Active:           true,
		MinimumQuantity:  req.MinimumQuantity,
		MaximumQuantity:  req.MaximumQuantity,
		Discount2Percent: req.Discount2Percent,
		To2Percent:       req.To2Percent,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if req.ClaimAccountID != nil {
		claimID, err := snowflake.ParseString(strings.TrimSpace(*req.ClaimAccountID))
		if err != nil {
			return nil, schemedomain.ErrInvalidID
		}
		scheme.ClaimAccountID = &claimID
	}

	for _, raw := range req.ItemIDs {
		itemID, err := snowflake.ParseString(strings.TrimSpace(raw))
		if err != nil {
			return nil, schemedomain.ErrInvalidID
		}
		scheme.Items = append(scheme.Items, schemedomain.SchemeItem{
			ID:       s.genID.Generate(),
			SchemeID: scheme.ID,
			ItemID:   itemID,
		})
	}
	for _, raw := range req.CustomerIDs {
		customerID, err := snowflake.ParseString(strings.TrimSpace(raw))
		if err != nil {
			return nil, schemedomain.ErrInvalidID
		}
		scheme.Customers = append(scheme.Customers, schemedomain.SchemeCustomer{
			ID:         s.genID.Generate(),
			SchemeID:   scheme.ID,
			CustomerID: customerID,
		})
	}

	if err := s.schemerepo.Create(ctx, scheme); err != nil {
		return nil, err
	}
	return scheme, nil
}

func (s *Service) List(ctx context.Context, req schemedomain.ListSchemeRequest) (schemedomain.ListSchemeResponse, error) {
	companyID, err := s.companyIDFromContext(ctx)
	if err != nil {
		return schemedomain.ListSchemeResponse{}, err
	}

	filter := &schemedomain.Scheme{CompanyID: companyID}
	if req.Active != nil {
		filter.Active = *req.Active
	}

	items, err := s.schemerepo.Find(ctx, filter)
	if err != nil {
		return schemedomain.ListSchemeResponse{}, err
	}

	schemes := make([]schemedomain.Scheme, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		schemes = append(schemes, *item)
	}

	return schemedomain.ListSchemeResponse{Schemes: schemes}, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (schemedomain.Scheme, error) {
	companyID, err := s.companyIDFromContext(ctx)
	if err != nil {
		return schemedomain.Scheme{}, err
	}

	schemeID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return schemedomain.Scheme{}, schemedomain.ErrInvalidID
	}

	var scheme schemedomain.Scheme
	err = s.db.WithContext(ctx).
		Preload("Items").
		Preload("Customers").
		Where(&schemedomain.Scheme{ID: schemeID, CompanyID: companyID}).
		First(&scheme).Error
	if err != nil {
		return schemedomain.Scheme{}, err
	}

	return scheme, nil
}

func (s *Service) GetActiveSchemes(ctx context.Context, companyID snowflake.ID, date time.Time) ([]schemedomain.Scheme, error) {
	var schemes []schemedomain.Scheme
	err := s.db.WithContext(ctx).
		Preload("Items").
		Preload("Customers").
		Where("company_id = ? AND active = ? AND start_date <= ? AND end_date >= ?",
			companyID, true, date.UTC(), date.UTC()).
		Order("created_at ASC").
		Find(&schemes).Error
	if err != nil {
		return nil, err
	}
	return schemes, nil
}

func (s *Service) companyIDFromContext(ctx context.Context) (snowflake.ID, error) {
	companyID, ok := companyctx.CompanyIDFromContext(ctx)
	if !ok || companyID == 0 {
		return 0, schemedomain.ErrInvalidCompany
	}
	return snowflake.ID(companyID), nil
}
