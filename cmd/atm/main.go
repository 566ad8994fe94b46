package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/KretovDmitry/atm/internal/application/services"
	"github.com/KretovDmitry/atm/internal/config"
	"github.com/KretovDmitry/atm/internal/domain/entities"
	rest "github.com/KretovDmitry/atm/internal/interface/api/rest/chi"
	"github.com/KretovDmitry/atm/internal/interface/api/rest/middleware"
	"github.com/KretovDmitry/atm/pkg/limiter"
	"github.com/KretovDmitry/atm/pkg/logger"
)

// Version indicates the current version of the application.
var Version = "1.0.0"

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	// Server run context.
	serverCtx, serverStopCtx := context.WithCancel(context.Background())
	defer serverStopCtx()

	// Load application configurations.
	cfg := config.MustLoad()

	// Create root logger tagged with server version.
	logger := logger.New(cfg).With(serverCtx, "version", Version)
	defer func() {
		_ = logger.Sync()
	}()

	balance, err := cfg.StartingBalance()
	if err != nil {
		return fmt.Errorf("failed to read starting balance: %w", err)
	}

	// Init the single account served by this process.
	account, err := entities.NewAccount(balance)
	if err != nil {
		return fmt.Errorf("failed to init account: %w", err)
	}

	// Init session guarding the account.
	session, err := services.NewSession(account, cfg.ATM.PIN, cfg.ATM.PINHashCost, logger)
	if err != nil {
		return fmt.Errorf("failed to init session: %w", err)
	}

	// Create root router.
	router := rest.InitChi(logger)

	// Register session routes with PIN attempts throttled.
	throttle := limiter.NewDynamicRateLimiter(cfg.Throttle.Interval, cfg.Throttle.Burst)
	rest.NewSessionController(session, rest.ChiServerOptions{
		BaseURL:    "/api/atm",
		BaseRouter: router,
		AuthMiddlewares: []rest.MiddlewareFunc{
			middleware.Throttle(throttle, logger),
		},
	})

	// Re-apply throttle settings on SIGHUP.
	go func() {
		hup := make(chan os.Signal, 1)
		signal.Notify(hup, syscall.SIGHUP)
		defer signal.Stop(hup)

		for {
			select {
			case <-serverCtx.Done():
				return
			case <-hup:
				load := func() (*config.Config, error) { return config.LoadArgs(os.Args[1:]) }
				if err := reloadThrottle(serverCtx, throttle, load, logger); err != nil {
					logger.Errorf("reload throttle settings: %s", err)
				}
			}
		}
	}()

	// Build HTTP server.
	hs := &http.Server{
		Addr:              cfg.HTTPServer.Address,
		ReadHeaderTimeout: cfg.HTTPServer.Timeout,
		IdleTimeout:       cfg.HTTPServer.IdleTimeout,
		Handler:           router,
	}

	// Graceful shutdown.
	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, syscall.SIGINT,
			syscall.SIGTERM, syscall.SIGQUIT, os.Interrupt)

		signal := <-sig

		logger.With(serverCtx, "signal", signal.String()).
			Infof("Shutting down server with %s timeout",
				cfg.HTTPServer.ShutdownTimeout)

		shutdownCtx, cancel := context.WithTimeout(serverCtx, cfg.HTTPServer.ShutdownTimeout)
		defer cancel()

		if err := hs.Shutdown(shutdownCtx); err != nil {
			logger.Errorf("graceful shutdown failed: %s", err)
		}
		serverStopCtx()
	}()

	// Start the HTTP server with graceful shutdown.
	logger.Infof("ATM %v is running at %v with starting balance %s",
		Version, cfg.HTTPServer.Address, balance.StringFixed(2))
	if err = hs.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("run server failed: %w", err)
	}

	// Wait for server context to be stopped or force exit if timeout exceeded.
	select {
	case <-serverCtx.Done():
	case <-time.After(cfg.HTTPServer.ShutdownTimeout):
		return errors.New("graceful shutdown timed out.. forcing exit")
	}

	return nil
}

// reloadThrottle reads the configuration again and applies
// its throttle settings to l.
func reloadThrottle(ctx context.Context, l *limiter.DynamicRateLimiter,
	load func() (*config.Config, error), logger logger.Logger,
) error {
	cfg, err := load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	l.Update(cfg.Throttle.Interval, cfg.Throttle.Burst)
	logger.With(ctx, "interval", cfg.Throttle.Interval, "burst", cfg.Throttle.Burst).
		Info("throttle settings reloaded")

	return nil
}
