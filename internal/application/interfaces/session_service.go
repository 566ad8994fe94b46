package interfaces

import (
	"context"

	"github.com/KretovDmitry/atm/internal/domain/entities"
)

// AuthResult is the outcome of a PIN check.
type AuthResult struct {
	Success bool
	Message string
}

// SessionService represents all session actions.
type SessionService interface {
	Authenticate(ctx context.Context, pin string) (AuthResult, error)
	IsAuthenticated() bool
	Dispatch(ctx context.Context, cmd entities.Command, amount string) (*entities.Result, error)
	ClearHistory(ctx context.Context) error
}
