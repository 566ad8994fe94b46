// Package console drives a session from a line-oriented terminal.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/KretovDmitry/atm/internal/application/interfaces"
	"github.com/KretovDmitry/atm/internal/domain/entities"
	"github.com/KretovDmitry/atm/internal/interface/presenter"
	"github.com/KretovDmitry/atm/pkg/logger"
)

const (
	prompt = "> "
	help   = `Commands:
  auth <pin>         authenticate with your PIN
  balance            show the current balance
  history            show the transaction history
  deposit <amount>   deposit money
  withdraw <amount>  withdraw money
  clear              clear the transaction history
  status             show whether the session is authenticated
  help               show this help
  quit               leave`
)

// Terminal reads commands from in and writes the outcome of each to out.
type Terminal struct {
	session interfaces.SessionService
	in      io.Reader
	out     io.Writer
	logger  logger.Logger
}

func New(session interfaces.SessionService, in io.Reader, out io.Writer, logger logger.Logger) (*Terminal, error) {
	if session == nil {
		return nil, errors.New("nil dependency: session")
	}
	if logger == nil {
		return nil, errors.New("nil dependency: logger")
	}
	return &Terminal{session: session, in: in, out: out, logger: logger}, nil
}

// Run processes input until quit, end of input or ctx cancellation.
// Cancellation is honored while waiting for input.
func (t *Terminal) Run(ctx context.Context) error {
	lines, errc := t.readLines(ctx)

	t.println(presenter.Welcome)

	for {
		if err := ctx.Err(); err != nil {
			return nil
		}

		t.print(prompt)

		select {
		case <-ctx.Done():
			t.println("")
			return nil
		case line, ok := <-lines:
			if !ok {
				t.println("")
				return <-errc
			}
			if quit := t.handle(ctx, line); quit {
				t.println("Goodbye.")
				return nil
			}
		}
	}
}

// readLines scans t.in in the background. The error channel receives
// the scan error before lines is closed.
func (t *Terminal) readLines(ctx context.Context) (<-chan string, <-chan error) {
	lines := make(chan string)
	errc := make(chan error, 1)

	go func() {
		var err error
		defer func() {
			errc <- err
			close(lines)
		}()

		scanner := bufio.NewScanner(t.in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		err = scanner.Err()
	}()

	return lines, errc
}

func (t *Terminal) handle(ctx context.Context, line string) (quit bool) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false
	}

	name, arg := strings.ToLower(fields[0]), ""
	if len(fields) > 1 {
		arg = fields[1]
	}

	switch name {
	case "quit", "exit":
		return true
	case "help":
		t.println(help)
		return false
	case "status":
		if t.session.IsAuthenticated() {
			t.println("Authenticated.")
		} else {
			t.println("Not authenticated.")
		}
		return false
	case "auth", "authenticate", "pin":
		res, err := t.session.Authenticate(ctx, arg)
		if err != nil {
			t.logger.With(ctx).Debugf("terminal authenticate: %s", err)
		}
		t.println(res.Message)
		return false
	case "clear":
		if err := t.session.ClearHistory(ctx); err != nil {
			t.println(presenter.Error(err))
			return false
		}
		t.println(presenter.HistoryCleared)
		return false
	}

	cmd, err := entities.ParseCommand(name)
	if err != nil {
		t.println(fmt.Sprintf("%s Type \"help\" for a list of commands.", presenter.UnknownCommand))
		return false
	}

	res, err := t.session.Dispatch(ctx, cmd, arg)
	if err != nil {
		t.println(presenter.Error(err))
		return false
	}
	t.println(presenter.Result(res))

	return false
}

func (t *Terminal) print(s string) {
	_, _ = io.WriteString(t.out, s)
}

func (t *Terminal) println(s string) {
	_, _ = io.WriteString(t.out, s+"\n")
}
