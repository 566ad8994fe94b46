package response

import (
	"time"

	"github.com/KretovDmitry/atm/internal/application/interfaces"
	"github.com/KretovDmitry/atm/internal/domain/entities"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Authenticate struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func NewAuthenticate(r interfaces.AuthResult) Authenticate {
	return Authenticate{Success: r.Success, Message: r.Message}
}

type Session struct {
	Authenticated bool `json:"authenticated"`
}

type Message struct {
	Message string `json:"message"`
}

type Transaction struct {
	ID          uuid.UUID                `json:"id"`
	Kind        entities.TransactionKind `json:"kind"`
	Amount      decimal.Decimal          `json:"amount"`
	Balance     decimal.Decimal          `json:"balance"`
	Text        string                   `json:"text"`
	ProcessedAt time.Time                `json:"processed_at"`
}

type Command struct {
	Command entities.Command `json:"command"`
	Amount  *decimal.Decimal `json:"amount,omitempty"`
	Balance decimal.Decimal  `json:"balance"`
	History []Transaction    `json:"history,omitempty"`
	Empty   bool             `json:"empty,omitempty"`
	Message string           `json:"message"`
}

func NewCommand(r *entities.Result, message string) Command {
	res := Command{
		Command: r.Command,
		Balance: r.Balance,
		Message: message,
	}

	if r.Command.NeedsAmount() {
		amount := r.Amount
		res.Amount = &amount
	}

	if r.Command == entities.ViewHistory {
		res.Empty = r.Empty()
		res.History = make([]Transaction, len(r.History))
		for i, t := range r.History {
			res.History[i] = Transaction{
				ID:          t.ID,
				Kind:        t.Kind,
				Amount:      t.Amount,
				Balance:     t.Balance,
				Text:        t.Text,
				ProcessedAt: t.ProcessedAt,
			}
		}
	}

	return res
}
