package entities

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type TransactionKind string

const (
	DEPOSIT  TransactionKind = "DEPOSIT"
	WITHDRAW TransactionKind = "WITHDRAW"
)

// Transaction is a single entry of the account history.
type Transaction struct {
	ID          uuid.UUID
	Kind        TransactionKind
	Amount      decimal.Decimal
	Balance     decimal.Decimal
	Text        string
	ProcessedAt time.Time
}

func newTransaction(kind TransactionKind, amount, balance decimal.Decimal) Transaction {
	return Transaction{
		ID:          uuid.New(),
		Kind:        kind,
		Amount:      amount,
		Balance:     balance,
		Text:        transactionText(kind, amount),
		ProcessedAt: time.Now(),
	}
}

func transactionText(kind TransactionKind, amount decimal.Decimal) string {
	switch kind {
	case DEPOSIT:
		return fmt.Sprintf("Deposited: $%s", amount.StringFixed(2))
	case WITHDRAW:
		return fmt.Sprintf("Withdrew: $%s", amount.StringFixed(2))
	}
	return fmt.Sprintf("%s: $%s", kind, amount.StringFixed(2))
}
