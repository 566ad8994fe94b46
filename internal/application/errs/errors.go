package errs

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Common sentinel errors.
var (
	ErrWrongPin           = errors.New("wrong pin")
	ErrNotAuthenticated   = errors.New("not authenticated")
	ErrInvalidAmount      = errors.New("invalid amount")
	ErrNonPositiveAmount  = errors.New("amount must be greater than zero")
	ErrInsufficientFunds  = errors.New("insufficient funds")
	ErrUnknownCommand     = errors.New("unknown command")
	ErrInvalidRequest     = errors.New("invalid request")
	ErrInvalidContentType = errors.New("invalid content type")
	ErrRateLimit          = errors.New("rate limit")
)

// Type just for murshallig purpose.
// Should only be used immediately before marshalling.
type JSON struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// InsufficientFundsError reports a rejected withdrawal together with
// the balance it was checked against.
type InsufficientFundsError struct {
	Balance   decimal.Decimal
	Shortfall decimal.Decimal
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("%s: balance %s, short by %s",
		ErrInsufficientFunds, e.Balance.StringFixed(2), e.Shortfall.StringFixed(2))
}

func (e *InsufficientFundsError) Is(target error) bool {
	return target == ErrInsufficientFunds
}
