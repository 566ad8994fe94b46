package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/KretovDmitry/atm/internal/application/services"
	"github.com/KretovDmitry/atm/internal/config"
	"github.com/KretovDmitry/atm/internal/domain/entities"
	"github.com/KretovDmitry/atm/internal/interface/console"
	"github.com/KretovDmitry/atm/pkg/logger"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load application configurations.
	cfg := config.MustLoad()

	// Without a log file only errors reach the terminal.
	if cfg.Logger.Path == "" {
		cfg.Logger.Level = "error"
	}
	logger := logger.New(cfg)
	defer func() {
		_ = logger.Sync()
	}()

	balance, err := cfg.StartingBalance()
	if err != nil {
		return fmt.Errorf("failed to read starting balance: %w", err)
	}

	account, err := entities.NewAccount(balance)
	if err != nil {
		return fmt.Errorf("failed to init account: %w", err)
	}

	session, err := services.NewSession(account, cfg.ATM.PIN, cfg.ATM.PINHashCost, logger)
	if err != nil {
		return fmt.Errorf("failed to init session: %w", err)
	}

	term, err := console.New(session, os.Stdin, os.Stdout, logger)
	if err != nil {
		return fmt.Errorf("failed to init terminal: %w", err)
	}

	return term.Run(ctx)
}
