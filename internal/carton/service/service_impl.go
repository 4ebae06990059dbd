package service

import (
	"context"

	invoicedomain "github.com/pharmatrade/medinv/internal/invoice/domain"
	itemdomain "github.com/pharmatrade/medinv/internal/item/domain"
	"github.com/pharmatrade/medinv/pkg/repository"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB  *gorm.DB
	Log *zap.Logger
}

// Service derives carton quantities from box quantities using each item's
// carton size.
type Service struct {
	log *zap.Logger

	itemrepo repository.Repository[itemdomain.Item]
}

func NewService(p Params) invoicedomain.CartonCalculator {
	return &Service{
		log:      p.Log.Named("carton.service"),
		itemrepo: repository.ProvideStore[itemdomain.Item](p.DB),
	}
}

// ItemCartonQty returns how many full cartons the line's box quantity fills.
// Lines without box pricing, and items without a carton size, count zero.
func (s *Service) ItemCartonQty(ctx context.Context, line *invoicedomain.InvoiceLine) (int64, error) {
	if !line.BoxQuantity.IsPositive() {
		return 0, nil
	}

	item, err := s.itemrepo.FindOne(ctx, &itemdomain.Item{ID: line.ItemID})
	if err != nil {
		return 0, err
	}
	if item == nil || item.CartonSize <= 0 {
		return 0, nil
	}

	return line.BoxQuantity.IntPart() / item.CartonSize, nil
}

// InvoiceCartonQty sums the carton quantity over all lines.
func (s *Service) InvoiceCartonQty(ctx context.Context, inv *invoicedomain.Invoice) (int64, error) {
	var total int64
	for i := range inv.Items {
		qty, err := s.ItemCartonQty(ctx, &inv.Items[i])
		if err != nil {
			return 0, err
		}
		inv.Items[i].CartonQty = qty
		total += qty
	}
	return total, nil
}
