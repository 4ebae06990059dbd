package service

import (
	"context"

	invoicedomain "github.com/pharmatrade/medinv/internal/invoice/domain"
	schemedomain "github.com/pharmatrade/medinv/internal/scheme/domain"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type ApplierParam struct {
	fx.In

	Log     *zap.Logger
	Schemes schemedomain.Service
}

// Applier runs the invoice-wide scheme pass. It mutates scheme tracking
// fields on the lines and accumulates scheme-driven TO2 at invoice level; it
// never touches prices directly.
type Applier struct {
	log     *zap.Logger
	schemes schemedomain.Service
}

func NewApplier(p ApplierParam) invoicedomain.SchemeApplier {
	return &Applier{
		log:     p.Log.Named("scheme.applier"),
		schemes: p.Schemes,
	}
}

func (a *Applier) ApplyToInvoice(ctx context.Context, inv *invoicedomain.Invoice) error {
	// Rebuilt from scratch each pass; a stored contribution from a previous
	// save never carries over, and a scheme that has since expired drops out.
	inv.SchemeTo2Percent = decimal.Zero

	schemes, err := a.schemes.GetActiveSchemes(ctx, inv.CompanyID, inv.InvoiceDate)
	if err != nil {
		return err
	}
	if len(schemes) == 0 {
		return nil
	}

	// A scheme contributes its TO2 once per invoice, however many lines it
	// matched.
	to2Applied := make(map[int64]bool, len(schemes))

	for i := range inv.Items {
		line := &inv.Items[i]

		for j := range schemes {
			scheme := &schemes[j]
			if !scheme.AppliesToItem(line.ItemID) {
				continue
			}
			if !scheme.AppliesToCustomer(inv.CustomerID) {
				continue
			}
			if !scheme.QuantityQualifies(line.Quantity) {
				continue
			}

			bonus, err := schemedomain.CalculateBonus(line.Quantity, scheme.Format)
			if err != nil {
				return err
			}

			// First eligible scheme wins each tracking field; list order is
			// application order.
			switch scheme.Type {
			case schemedomain.SchemeType2:
				if line.Scheme2Quantity.IsZero() {
					line.Scheme2Quantity = bonus.BonusQuantity
				}
			default:
				if line.Scheme1Quantity.IsZero() {
					line.Scheme1Quantity = bonus.BonusQuantity
				}
			}

			if scheme.Discount2Percent.GreaterThan(decimal.Zero) && line.Discount2Percent.IsZero() {
				line.Discount2Percent = scheme.Discount2Percent
			}

			if scheme.To2Percent.GreaterThan(decimal.Zero) && !to2Applied[int64(scheme.ID)] {
				inv.SchemeTo2Percent = inv.SchemeTo2Percent.Add(scheme.To2Percent)
				to2Applied[int64(scheme.ID)] = true
			}
		}
	}

	return nil
}
