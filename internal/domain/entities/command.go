package entities

import (
	"fmt"
	"strings"

	"github.com/KretovDmitry/atm/internal/application/errs"
)

// Command is one of the account actions a session can dispatch.
type Command int

const (
	CheckBalance Command = iota + 1
	ViewHistory
	Withdraw
	Deposit
)

var commandNames = map[Command]string{
	CheckBalance: "CheckBalance",
	ViewHistory:  "ViewHistory",
	Withdraw:     "Withdraw",
	Deposit:      "Deposit",
}

func (c Command) String() string {
	if name, ok := commandNames[c]; ok {
		return name
	}
	return fmt.Sprintf("Command(%d)", int(c))
}

// Valid reports whether c is one of the declared commands.
func (c Command) Valid() bool {
	_, ok := commandNames[c]
	return ok
}

// NeedsAmount reports whether the command takes an amount argument.
func (c Command) NeedsAmount() bool {
	return c == Withdraw || c == Deposit
}

// ParseCommand resolves a command name, case-insensitively.
// Besides the canonical names it accepts the short forms
// "balance" and "history".
func ParseCommand(name string) (Command, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	switch key {
	case "balance":
		return CheckBalance, nil
	case "history":
		return ViewHistory, nil
	}
	for c, n := range commandNames {
		if strings.ToLower(n) == key {
			return c, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", errs.ErrUnknownCommand, name)
}

func (c Command) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("%w: %d", errs.ErrUnknownCommand, int(c))
	}
	return []byte(c.String()), nil
}

func (c *Command) UnmarshalText(text []byte) error {
	parsed, err := ParseCommand(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
