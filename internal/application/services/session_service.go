package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/KretovDmitry/atm/internal/application/errs"
	"github.com/KretovDmitry/atm/internal/application/interfaces"
	"github.com/KretovDmitry/atm/internal/application/params"
	"github.com/KretovDmitry/atm/internal/domain/entities"
	"github.com/KretovDmitry/atm/pkg/logger"
	"golang.org/x/crypto/bcrypt"
)

const (
	MessageAuthSuccess = "Authentication successful. Please choose a transaction."
	MessageAuthFailure = "Invalid PIN. Please try again."

	maxPINLength = 72
)

// Session gates access to a single account behind a PIN.
// It is not safe for concurrent use; presentation layers
// must serialize calls.
type Session struct {
	account       *entities.Account
	pinHash       []byte
	authenticated bool
	logger        logger.Logger
}

// NewSession hashes pin with the given bcrypt cost and returns
// an unauthenticated session over account.
func NewSession(account *entities.Account, pin string, cost int, logger logger.Logger) (*Session, error) {
	if account == nil {
		return nil, errors.New("nil dependency: account")
	}
	if logger == nil {
		return nil, errors.New("nil dependency: logger")
	}
	if pin == "" || len(pin) > maxPINLength {
		return nil, fmt.Errorf("pin must be 1 to %d bytes long", maxPINLength)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(pin), cost)
	if err != nil {
		return nil, fmt.Errorf("hash pin: %w", err)
	}

	return &Session{account: account, pinHash: hash, logger: logger}, nil
}

var _ interfaces.SessionService = (*Session)(nil)

// Authenticate checks pin against the stored hash. A wrong pin
// leaves the session unauthenticated, even if it was authenticated before.
func (s *Session) Authenticate(ctx context.Context, pin string) (interfaces.AuthResult, error) {
	err := bcrypt.ErrMismatchedHashAndPassword
	// bcrypt ignores input past its key size, so longer values never match.
	if len(pin) <= maxPINLength {
		err = bcrypt.CompareHashAndPassword(s.pinHash, []byte(pin))
	}
	if err != nil {
		s.authenticated = false
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			s.logger.With(ctx).Warn("authentication failed: wrong pin")
			return interfaces.AuthResult{Message: MessageAuthFailure}, errs.ErrWrongPin
		}
		s.logger.With(ctx).Warnf("authentication failed: %s", err)
		return interfaces.AuthResult{Message: MessageAuthFailure},
			fmt.Errorf("%w: %s", errs.ErrWrongPin, err)
	}

	if !s.authenticated {
		s.logger.With(ctx).Info("session authenticated")
	}
	s.authenticated = true

	return interfaces.AuthResult{Success: true, Message: MessageAuthSuccess}, nil
}

func (s *Session) IsAuthenticated() bool {
	return s.authenticated
}

// Dispatch runs cmd against the account. Withdraw and Deposit
// take their amount from rawAmount; other commands ignore it.
func (s *Session) Dispatch(ctx context.Context, cmd entities.Command, rawAmount string) (*entities.Result, error) {
	if !s.authenticated {
		return nil, fmt.Errorf("%w: %s", errs.ErrNotAuthenticated, cmd)
	}

	log := s.logger.With(ctx, "command", cmd.String())

	switch cmd {
	case entities.CheckBalance:
		return &entities.Result{Command: cmd, Balance: s.account.Balance()}, nil

	case entities.ViewHistory:
		return &entities.Result{
			Command: cmd,
			Balance: s.account.Balance(),
			History: s.account.History(),
		}, nil

	case entities.Withdraw, entities.Deposit:
		amount, err := params.ParseAmount(rawAmount)
		if err != nil {
			log.Debugf("rejected amount: %s", err)
			return nil, err
		}

		if cmd == entities.Withdraw {
			err = s.account.Withdraw(amount)
		} else {
			err = s.account.Deposit(amount)
		}
		if err != nil {
			log.Infof("%s of %s rejected: %s", cmd, amount.StringFixed(2), err)
			return nil, err
		}

		log.Infof("%s of %s completed", cmd, amount.StringFixed(2))

		return &entities.Result{
			Command: cmd,
			Amount:  amount,
			Balance: s.account.Balance(),
		}, nil
	}

	return nil, fmt.Errorf("%w: %s", errs.ErrUnknownCommand, cmd)
}

// ClearHistory empties the transaction log of an authenticated session.
func (s *Session) ClearHistory(ctx context.Context) error {
	if !s.authenticated {
		return fmt.Errorf("%w: clear history", errs.ErrNotAuthenticated)
	}

	s.account.ClearHistory()
	s.logger.With(ctx).Info("transaction history cleared")

	return nil
}
