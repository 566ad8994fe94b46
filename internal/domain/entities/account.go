package entities

import (
	"fmt"

	"github.com/KretovDmitry/atm/internal/application/errs"
	"github.com/shopspring/decimal"
)

// Account holds the balance and the transaction log.
// It is not safe for concurrent use; callers serialize access.
type Account struct {
	balance decimal.Decimal
	history []Transaction
}

// NewAccount creates an account with the given starting balance.
func NewAccount(initial decimal.Decimal) (*Account, error) {
	if initial.IsNegative() {
		return nil, fmt.Errorf("%w: negative starting balance %s",
			errs.ErrInvalidAmount, initial.StringFixed(2))
	}
	return &Account{balance: initial}, nil
}

func (a *Account) Balance() decimal.Decimal {
	return a.balance
}

// Deposit adds amount to the balance and records it.
func (a *Account) Deposit(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return fmt.Errorf("%w: deposit of %s", errs.ErrInvalidAmount, amount.String())
	}

	a.balance = a.balance.Add(amount)
	a.history = append(a.history, newTransaction(DEPOSIT, amount, a.balance))

	return nil
}

// Withdraw subtracts amount from the balance and records it.
// An amount above the balance leaves the account untouched and
// yields *errs.InsufficientFundsError.
func (a *Account) Withdraw(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return fmt.Errorf("%w: withdrawal of %s", errs.ErrInvalidAmount, amount.String())
	}

	if amount.GreaterThan(a.balance) {
		return &errs.InsufficientFundsError{
			Balance:   a.balance,
			Shortfall: amount.Sub(a.balance),
		}
	}

	a.balance = a.balance.Sub(amount)
	a.history = append(a.history, newTransaction(WITHDRAW, amount, a.balance))

	return nil
}

// History returns a copy of the log in insertion order.
func (a *Account) History() []Transaction {
	out := make([]Transaction, len(a.history))
	copy(out, a.history)
	return out
}

func (a *Account) ClearHistory() {
	a.history = nil
}
