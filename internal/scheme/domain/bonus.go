package domain

import (
	"errors"
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidSchemeFormat   = errors.New("invalid_scheme_format")
	ErrInvalidSchemeOperands = errors.New("invalid_scheme_operands")
)

// schemeFormatPattern matches BUY+BONUS rules such as "12+1".
var schemeFormatPattern = regexp.MustCompile(`^(\d+)\+(\d+)$`)

// BonusResult is the outcome of applying a BUY+BONUS rule to a quantity.
type BonusResult struct {
	CompleteSets  int64           `json:"complete_sets"`
	BonusQuantity decimal.Decimal `json:"bonus_quantity"`
	TotalQuantity decimal.Decimal `json:"total_quantity"`
}

// CalculateBonus parses a BUY+BONUS format string and applies it to the
// quantity. The format is always validated; a zero or missing quantity then
// yields a zero bonus without error.
func CalculateBonus(qty decimal.Decimal, format string) (BonusResult, error) {
	match := schemeFormatPattern.FindStringSubmatch(strings.TrimSpace(format))
	if match == nil {
		return BonusResult{}, ErrInvalidSchemeFormat
	}

	buy, err := strconv.ParseInt(match[1], 10, 64)
	if err != nil {
		return BonusResult{}, ErrInvalidSchemeFormat
	}
	bonus, err := strconv.ParseInt(match[2], 10, 64)
	if err != nil {
		return BonusResult{}, ErrInvalidSchemeFormat
	}
	if buy <= 0 || bonus <= 0 {
		return BonusResult{}, ErrInvalidSchemeOperands
	}

	if qty.LessThanOrEqual(decimal.Zero) {
		return BonusResult{TotalQuantity: qty}, nil
	}

	sets := qty.Div(decimal.NewFromInt(buy)).Floor().IntPart()
	bonusQty := decimal.NewFromInt(sets * bonus)

	return BonusResult{
		CompleteSets:  sets,
		BonusQuantity: bonusQty,
		TotalQuantity: qty.Add(bonusQty),
	}, nil
}
