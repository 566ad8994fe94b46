// Package presenter turns session outcomes into the texts shown to the user.
package presenter

import (
	"errors"
	"fmt"
	"strings"

	"github.com/KretovDmitry/atm/internal/application/errs"
	"github.com/KretovDmitry/atm/internal/application/services"
	"github.com/KretovDmitry/atm/internal/domain/entities"
	"github.com/shopspring/decimal"
)

const (
	Welcome          = "Welcome to ATM. Please authenticate with your PIN."
	NotAuthenticated = "Please authenticate first with your PIN."
	InvalidAmount    = "Invalid input. Please enter a valid amount."
	NonPositive      = "Amount must be greater than zero."
	NoTransactions   = "No transactions yet."
	HistoryCleared   = "Transaction history cleared."
	UnknownCommand   = "Unknown command."
	TryLater         = "Too many attempts. Please try again later."
	InternalError    = "Something went wrong. Please try again."
)

// Money formats an amount with two decimal places and a dollar sign.
func Money(d decimal.Decimal) string {
	return "$" + d.StringFixed(2)
}

// Result renders a successful command outcome.
func Result(r *entities.Result) string {
	switch r.Command {
	case entities.Withdraw:
		return fmt.Sprintf("Withdrawal of %s successful.\nBalance: %s", Money(r.Amount), Money(r.Balance))
	case entities.Deposit:
		return fmt.Sprintf("Deposit of %s successful.\nBalance: %s", Money(r.Amount), Money(r.Balance))
	case entities.CheckBalance:
		return "Current Balance: " + Money(r.Balance)
	case entities.ViewHistory:
		if r.Empty() {
			return NoTransactions
		}
		var b strings.Builder
		b.WriteString("Transaction History:")
		for _, t := range r.History {
			b.WriteString("\n")
			b.WriteString(t.Text)
		}
		return b.String()
	}
	return UnknownCommand
}

// Error renders a failed command outcome.
func Error(err error) string {
	var fundsErr *errs.InsufficientFundsError

	switch {
	case errors.As(err, &fundsErr):
		return "Insufficient funds for withdrawal.\nBalance: " + Money(fundsErr.Balance)
	case errors.Is(err, errs.ErrNotAuthenticated):
		return NotAuthenticated
	case errors.Is(err, errs.ErrWrongPin):
		return services.MessageAuthFailure
	case errors.Is(err, errs.ErrNonPositiveAmount):
		return NonPositive
	case errors.Is(err, errs.ErrInvalidAmount):
		return InvalidAmount
	case errors.Is(err, errs.ErrUnknownCommand):
		return UnknownCommand
	case errors.Is(err, errs.ErrRateLimit):
		return TryLater
	}
	return InternalError
}
