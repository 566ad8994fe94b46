package services

import (
	"context"
	"strings"
	"testing"

	"github.com/KretovDmitry/atm/internal/application/errs"
	"github.com/KretovDmitry/atm/internal/domain/entities"
	"github.com/KretovDmitry/atm/pkg/logger"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testPIN = "1234"

func newTestSession(t *testing.T, balance string) *Session {
	t.Helper()

	account, err := entities.NewAccount(decimal.RequireFromString(balance))
	require.NoError(t, err)

	l, _ := logger.NewForTest()
	s, err := NewSession(account, testPIN, bcrypt.MinCost, l)
	require.NoError(t, err)

	return s
}

func authenticated(t *testing.T, balance string) *Session {
	t.Helper()
	s := newTestSession(t, balance)
	res, err := s.Authenticate(context.Background(), testPIN)
	require.NoError(t, err)
	require.True(t, res.Success)
	return s
}

func TestNewSession(t *testing.T) {
	account, err := entities.NewAccount(decimal.Zero)
	require.NoError(t, err)
	l, _ := logger.NewForTest()

	_, err = NewSession(nil, testPIN, bcrypt.MinCost, l)
	assert.Error(t, err)

	_, err = NewSession(account, testPIN, bcrypt.MinCost, nil)
	assert.Error(t, err)

	_, err = NewSession(account, "", bcrypt.MinCost, l)
	assert.Error(t, err)

	_, err = NewSession(account, strings.Repeat("1", 73), bcrypt.MinCost, l)
	assert.Error(t, err)

	s, err := NewSession(account, testPIN, bcrypt.MinCost, l)
	require.NoError(t, err)
	assert.False(t, s.IsAuthenticated())
	assert.NotContains(t, string(s.pinHash), testPIN)
}

func TestAuthenticate(t *testing.T) {
	ctx := context.Background()
	s := newTestSession(t, "1000.00")

	res, err := s.Authenticate(ctx, "0000")
	assert.ErrorIs(t, err, errs.ErrWrongPin)
	assert.False(t, res.Success)
	assert.Equal(t, MessageAuthFailure, res.Message)
	assert.False(t, s.IsAuthenticated())

	res, err = s.Authenticate(ctx, testPIN)
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, MessageAuthSuccess, res.Message)
	assert.True(t, s.IsAuthenticated())

	// Re-authentication is a no-op.
	res, err = s.Authenticate(ctx, testPIN)
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.True(t, s.IsAuthenticated())

	// A wrong pin drops the session.
	_, err = s.Authenticate(ctx, "4321")
	assert.ErrorIs(t, err, errs.ErrWrongPin)
	assert.False(t, s.IsAuthenticated())
}

func TestAuthenticateOverlongPIN(t *testing.T) {
	s := newTestSession(t, "1000.00")

	res, err := s.Authenticate(context.Background(), testPIN+strings.Repeat("x", 80))
	assert.ErrorIs(t, err, errs.ErrWrongPin)
	assert.False(t, res.Success)
	assert.False(t, s.IsAuthenticated())
}

func TestAuthenticateLogsFailure(t *testing.T) {
	account, err := entities.NewAccount(decimal.Zero)
	require.NoError(t, err)
	l, recorded := logger.NewForTest()
	s, err := NewSession(account, testPIN, bcrypt.MinCost, l)
	require.NoError(t, err)

	_, _ = s.Authenticate(context.Background(), "0000")

	entries := recorded.FilterMessage("authentication failed: wrong pin").All()
	assert.Len(t, entries, 1)
}

func TestDispatchRequiresAuthentication(t *testing.T) {
	t.Parallel()

	commands := []entities.Command{
		entities.CheckBalance,
		entities.ViewHistory,
		entities.Withdraw,
		entities.Deposit,
	}

	for _, cmd := range commands {
		cmd := cmd

		t.Run(cmd.String(), func(t *testing.T) {
			t.Parallel()

			s := newTestSession(t, "1000.00")
			res, err := s.Dispatch(context.Background(), cmd, "10")
			assert.ErrorIs(t, err, errs.ErrNotAuthenticated)
			assert.Nil(t, res)

			assert.ErrorIs(t, s.ClearHistory(context.Background()), errs.ErrNotAuthenticated)
		})
	}
}

func TestDispatchAmountValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		cmd     entities.Command
		amount  string
		wantErr error
	}{
		{name: "deposit letters", cmd: entities.Deposit, amount: "abc", wantErr: errs.ErrInvalidAmount},
		{name: "deposit negative", cmd: entities.Deposit, amount: "-5", wantErr: errs.ErrNonPositiveAmount},
		{name: "deposit zero", cmd: entities.Deposit, amount: "0", wantErr: errs.ErrNonPositiveAmount},
		{name: "deposit empty", cmd: entities.Deposit, amount: "", wantErr: errs.ErrInvalidAmount},
		{name: "withdraw letters", cmd: entities.Withdraw, amount: "ten", wantErr: errs.ErrInvalidAmount},
		{name: "withdraw zero", cmd: entities.Withdraw, amount: "0.00", wantErr: errs.ErrNonPositiveAmount},
		{name: "withdraw sub-cent", cmd: entities.Withdraw, amount: "1.005", wantErr: errs.ErrInvalidAmount},
		{name: "deposit huge exponent", cmd: entities.Deposit, amount: "1e50000000", wantErr: errs.ErrInvalidAmount},
		{name: "withdraw tiny exponent", cmd: entities.Withdraw, amount: "1e-5000000", wantErr: errs.ErrInvalidAmount},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			s := authenticated(t, "1000.00")
			res, err := s.Dispatch(context.Background(), tt.cmd, tt.amount)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, res)

			balance, err := s.Dispatch(context.Background(), entities.CheckBalance, "")
			require.NoError(t, err)
			assert.Equal(t, "1000.00", balance.Balance.StringFixed(2))
		})
	}
}

func TestDispatchUnknownCommand(t *testing.T) {
	s := authenticated(t, "1000.00")

	_, err := s.Dispatch(context.Background(), entities.Command(99), "")
	assert.ErrorIs(t, err, errs.ErrUnknownCommand)
}

func TestDispatchIgnoresAmountForReads(t *testing.T) {
	s := authenticated(t, "1000.00")

	res, err := s.Dispatch(context.Background(), entities.CheckBalance, "garbage")
	require.NoError(t, err)
	assert.Equal(t, "1000.00", res.Balance.StringFixed(2))

	res, err = s.Dispatch(context.Background(), entities.ViewHistory, "garbage")
	require.NoError(t, err)
	assert.True(t, res.Empty())
}

func TestScenarioDeposit(t *testing.T) {
	ctx := context.Background()
	s := newTestSession(t, "1000.00")

	res, err := s.Authenticate(ctx, "1234")
	require.NoError(t, err)
	require.True(t, res.Success)

	dep, err := s.Dispatch(ctx, entities.Deposit, "200")
	require.NoError(t, err)
	assert.Equal(t, entities.Deposit, dep.Command)
	assert.Equal(t, "200.00", dep.Amount.StringFixed(2))
	assert.Equal(t, "1200.00", dep.Balance.StringFixed(2))

	hist, err := s.Dispatch(ctx, entities.ViewHistory, "")
	require.NoError(t, err)
	assert.False(t, hist.Empty())
	require.Len(t, hist.History, 1)
	assert.Equal(t, entities.DEPOSIT, hist.History[0].Kind)
	assert.Equal(t, "200.00", hist.History[0].Amount.StringFixed(2))
}

func TestScenarioWrongPin(t *testing.T) {
	ctx := context.Background()
	s := newTestSession(t, "1000.00")

	_, err := s.Authenticate(ctx, "0000")
	require.ErrorIs(t, err, errs.ErrWrongPin)

	_, err = s.Dispatch(ctx, entities.CheckBalance, "")
	assert.ErrorIs(t, err, errs.ErrNotAuthenticated)
}

func TestScenarioInsufficientFunds(t *testing.T) {
	ctx := context.Background()
	s := authenticated(t, "1000.00")

	_, err := s.Dispatch(ctx, entities.Withdraw, "5000")
	require.ErrorIs(t, err, errs.ErrInsufficientFunds)

	res, err := s.Dispatch(ctx, entities.CheckBalance, "")
	require.NoError(t, err)
	assert.Equal(t, "1000.00", res.Balance.StringFixed(2))
}

func TestScenarioDrainAccount(t *testing.T) {
	ctx := context.Background()
	s := authenticated(t, "1000.00")

	res, err := s.Dispatch(ctx, entities.Withdraw, "1000")
	require.NoError(t, err)
	assert.Equal(t, "0.00", res.Balance.StringFixed(2))

	_, err = s.Dispatch(ctx, entities.Withdraw, "0.01")
	assert.ErrorIs(t, err, errs.ErrInsufficientFunds)
}

func TestClearHistory(t *testing.T) {
	ctx := context.Background()
	s := authenticated(t, "1000.00")

	_, err := s.Dispatch(ctx, entities.Deposit, "10")
	require.NoError(t, err)

	require.NoError(t, s.ClearHistory(ctx))

	res, err := s.Dispatch(ctx, entities.ViewHistory, "")
	require.NoError(t, err)
	assert.True(t, res.Empty())
	assert.Equal(t, "1010.00", res.Balance.StringFixed(2))
}
