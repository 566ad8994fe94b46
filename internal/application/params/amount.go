package params

import (
	"fmt"
	"strings"

	"github.com/KretovDmitry/atm/internal/application/errs"
	"github.com/shopspring/decimal"
)

const (
	// MinorUnitDigits is the number of fractional digits an amount may carry.
	MinorUnitDigits = 2
	// MaxIntegerDigits bounds the whole part of an amount.
	MaxIntegerDigits = 15

	maxAmountLength = 32
)

// ParseAmount converts user input into a positive amount of money.
// Exponent notation is accepted as long as the value stays within
// MaxIntegerDigits whole digits and MinorUnitDigits fractional ones.
func ParseAmount(raw string) (decimal.Decimal, error) {
	text := strings.TrimSpace(raw)
	if text == "" {
		return decimal.Zero, fmt.Errorf("%w: empty", errs.ErrInvalidAmount)
	}
	if len(text) > maxAmountLength {
		return decimal.Zero, fmt.Errorf("%w: longer than %d characters", errs.ErrInvalidAmount, maxAmountLength)
	}

	amount, err := decimal.NewFromString(text)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", errs.ErrInvalidAmount, raw)
	}

	// Checked before any arithmetic: rescaling costs time linear in the exponent.
	exp := int64(amount.Exponent())
	if exp < -maxAmountLength || exp+int64(amount.NumDigits()) > MaxIntegerDigits {
		return decimal.Zero, fmt.Errorf("%w: %q is out of range", errs.ErrInvalidAmount, raw)
	}

	// Sub-cent precision cannot be represented in minor units.
	if !amount.Equal(amount.Truncate(MinorUnitDigits)) {
		return decimal.Zero, fmt.Errorf("%w: %q has more than %d decimal places",
			errs.ErrInvalidAmount, raw, MinorUnitDigits)
	}

	if !amount.IsPositive() {
		return decimal.Zero, fmt.Errorf("%w: %s", errs.ErrNonPositiveAmount, amount.String())
	}

	return amount, nil
}
