package entities

import "github.com/shopspring/decimal"

// Result is the outcome of a dispatched command.
type Result struct {
	Command Command
	// Amount moved by Withdraw or Deposit.
	Amount decimal.Decimal
	// Balance after the command completed.
	Balance decimal.Decimal
	// History is set for ViewHistory only.
	History []Transaction
}

// Empty reports whether a ViewHistory result holds no transactions.
func (r *Result) Empty() bool {
	return r.Command == ViewHistory && len(r.History) == 0
}
