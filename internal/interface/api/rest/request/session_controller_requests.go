package request

import (
	"encoding/json"
	"fmt"

	"github.com/KretovDmitry/atm/internal/application/errs"
	"github.com/KretovDmitry/atm/internal/domain/entities"
)

// Authenticate defines parameters for Authenticate.
type Authenticate struct {
	PIN string `json:"pin"`
}

// Amount defines parameters for Withdraw and Deposit.
type Amount struct {
	Amount AmountText `json:"amount"`
}

// Dispatch defines parameters for Dispatch.
type Dispatch struct {
	Command entities.Command `json:"command"`
	Amount  AmountText       `json:"amount"`
}

// AmountText keeps the amount exactly as the user typed it.
// Both JSON strings and JSON numbers are accepted.
type AmountText string

func (a *AmountText) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*a = AmountText(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("%w: amount must be a string or a number", errs.ErrInvalidRequest)
	}
	*a = AmountText(n.String())

	return nil
}
