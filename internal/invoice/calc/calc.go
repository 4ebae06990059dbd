// Package calc implements the invoice totals pipeline as an explicit, ordered
// set of pure stages: line subtotals, discounts, taxes, trade offers and the
// grand total. The stages run in a fixed order because each consumes the
// previous stage's output. Recomputing from the same inputs always yields the
// same derived values.
package calc

import (
	"github.com/pharmatrade/medinv/internal/invoice/domain"
	"github.com/shopspring/decimal"
)

var (
	hundred = decimal.NewFromInt(100)

	gstRate18 = decimal.NewFromInt(18)
	gstRate4  = decimal.NewFromInt(4)

	// incomeTaxRate is the flat levy applied to the supplied taxable base (5.5%).
	incomeTaxRate = decimal.NewFromFloat(5.5)
)

// moneyScale is the precision persisted for derived monetary values.
const moneyScale = 4

// Options controls behavior that depends on previously stored totals.
type Options struct {
	// PreviousIncomeTax preserves a stored income tax figure when no taxable
	// base is supplied in this pass. Nil zeroes the figure instead, which is
	// what item mutations want so stale income tax never survives a changed
	// item set.
	PreviousIncomeTax *decimal.Decimal
}

// ResolveLineSubtotal computes the pre-tax value of a line. Box/unit split
// pricing wins over plain quantity pricing whenever either split quantity is
// positive.
func ResolveLineSubtotal(line *domain.InvoiceLine) decimal.Decimal {
	if line.UsesBoxPricing() {
		return line.BoxQuantity.Mul(line.BoxRate).Add(line.UnitQuantity.Mul(line.UnitRate))
	}
	return line.Quantity.Mul(line.UnitPrice)
}

// ApplyLineDiscount derives the three additive discount amounts from their
// percents (a zero percent keeps the supplied amount as a fixed discount) and
// returns the taxable amount.
func ApplyLineDiscount(line *domain.InvoiceLine) decimal.Decimal {
	base := line.Subtotal.Mul(line.DiscountPercent).Div(hundred)
	if line.Discount1Percent.GreaterThan(decimal.Zero) {
		line.Discount1Amount = line.Subtotal.Mul(line.Discount1Percent).Div(hundred)
	}
	if line.Discount2Percent.GreaterThan(decimal.Zero) {
		line.Discount2Amount = line.Subtotal.Mul(line.Discount2Percent).Div(hundred)
	}
	line.DiscountAmount = base.Add(line.Discount1Amount).Add(line.Discount2Amount)
	return line.Subtotal.Sub(line.DiscountAmount)
}

// CalculateLineTax writes the GST and advance tax for one line and returns the
// non-filer surcharge contribution, which accumulates at invoice level only.
// A nil rates provider means the party could not be resolved; taxes that
// depend on it are simply not applied.
func CalculateLineTax(line *domain.InvoiceLine, taxable decimal.Decimal, rates domain.AccountRates) decimal.Decimal {
	line.GSTAmount = decimal.Zero
	if line.GSTRate.GreaterThan(decimal.Zero) {
		line.GSTAmount = taxable.Mul(line.GSTRate).Div(hundred)
	}

	line.AdvanceTaxPercent = decimal.Zero
	line.AdvanceTaxAmount = decimal.Zero
	nonFiler := decimal.Zero
	if rates != nil {
		if rates.AdvanceTaxRate().GreaterThan(decimal.Zero) {
			line.AdvanceTaxPercent = rates.AdvanceTaxRate()
			line.AdvanceTaxAmount = rates.CalculateAdvanceTax(taxable)
		}
		if rates.IsNonFiler() {
			nonFiler = rates.CalculateNonFilerGST(taxable)
		}
	}

	line.TaxAmount = line.GSTAmount.Add(line.AdvanceTaxAmount)
	line.LineTotal = taxable.Add(line.TaxAmount)
	return nonFiler
}

// TradeOffers derives TO1 and TO2. TO1 applies to the raw subtotal; TO2
// compounds on the TO1-reduced base. A zero percent keeps the supplied amount
// as a fixed offer with no recomputation.
func TradeOffers(subtotal, to1Percent, to1Amount, to2Percent, to2Amount decimal.Decimal) (decimal.Decimal, decimal.Decimal) {
	to1 := to1Amount
	if to1Percent.GreaterThan(decimal.Zero) {
		to1 = subtotal.Mul(to1Percent).Div(hundred)
	}

	afterTO1 := subtotal.Sub(to1)
	to2 := to2Amount
	if to2Percent.GreaterThan(decimal.Zero) {
		to2 = afterTO1.Mul(to2Percent).Div(hundred)
	}
	return to1, to2
}

// CalculateIncomeTax returns the flat 5.5% levy on the supplied base, clamped
// to zero for a missing, zero or negative base.
func CalculateIncomeTax(base *decimal.Decimal) decimal.Decimal {
	if base == nil || base.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	return base.Mul(incomeTaxRate).Div(hundred)
}

// Compute runs the full pipeline over the invoice, overwriting every derived
// field. It fails only on a structurally empty item list; valid numeric input
// never fails.
func Compute(inv *domain.Invoice, rates domain.AccountRates, opts Options) error {
	if len(inv.Items) == 0 {
		return domain.ErrEmptyItems
	}

	subtotal := decimal.Zero
	totalDiscount := decimal.Zero
	lineTax := decimal.Zero
	gst18 := decimal.Zero
	gst4 := decimal.Zero
	advanceTax := decimal.Zero
	nonFiler := decimal.Zero

	for i := range inv.Items {
		line := &inv.Items[i]

		line.Subtotal = ResolveLineSubtotal(line)
		taxable := ApplyLineDiscount(line)
		nonFiler = nonFiler.Add(CalculateLineTax(line, taxable, rates))

		roundLine(line)

		subtotal = subtotal.Add(line.Subtotal)
		totalDiscount = totalDiscount.Add(line.DiscountAmount)
		lineTax = lineTax.Add(line.TaxAmount)
		advanceTax = advanceTax.Add(line.AdvanceTaxAmount)
		switch {
		case line.GSTRate.Equal(gstRate18):
			gst18 = gst18.Add(line.GSTAmount)
		case line.GSTRate.Equal(gstRate4):
			gst4 = gst4.Add(line.GSTAmount)
		}
	}

	// Caller-supplied and scheme-contributed TO2 add up; the scheme part lives
	// in its own field so recomputation stays stable across saves.
	to2Percent := inv.To2Percent.Add(inv.SchemeTo2Percent)
	to1, to2 := TradeOffers(subtotal, inv.To1Percent, inv.To1Amount, to2Percent, inv.To2Amount)

	totalTax := lineTax.Add(nonFiler)

	incomeTax := decimal.Zero
	if inv.IncomeTaxableAmount.GreaterThan(decimal.Zero) {
		incomeTax = CalculateIncomeTax(&inv.IncomeTaxableAmount)
	} else if opts.PreviousIncomeTax != nil {
		incomeTax = *opts.PreviousIncomeTax
	}

	inv.Subtotal = subtotal.Round(moneyScale)
	inv.TotalDiscount = totalDiscount.Round(moneyScale)
	inv.To1Amount = to1.Round(moneyScale)
	inv.To2Amount = to2.Round(moneyScale)
	inv.GST18Total = gst18.Round(moneyScale)
	inv.GST4Total = gst4.Round(moneyScale)
	inv.AdvanceTaxTotal = advanceTax.Round(moneyScale)
	inv.NonFilerGSTTotal = nonFiler.Round(moneyScale)
	inv.TotalTax = totalTax.Round(moneyScale)
	inv.IncomeTax = incomeTax.Round(moneyScale)
	inv.IncomeTaxTotal = inv.IncomeTax
	inv.GrandTotal = inv.Subtotal.
		Sub(inv.TotalDiscount).
		Sub(inv.To1Amount).
		Sub(inv.To2Amount).
		Add(inv.TotalTax).
		Round(moneyScale)

	return nil
}

func roundLine(line *domain.InvoiceLine) {
	line.Subtotal = line.Subtotal.Round(moneyScale)
	line.DiscountAmount = line.DiscountAmount.Round(moneyScale)
	line.Discount1Amount = line.Discount1Amount.Round(moneyScale)
	line.Discount2Amount = line.Discount2Amount.Round(moneyScale)
	line.GSTAmount = line.GSTAmount.Round(moneyScale)
	line.AdvanceTaxAmount = line.AdvanceTaxAmount.Round(moneyScale)
	line.TaxAmount = line.TaxAmount.Round(moneyScale)
	line.LineTotal = line.LineTotal.Round(moneyScale)
}
