package rest

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/KretovDmitry/atm/internal/application/errs"
	"github.com/KretovDmitry/atm/internal/application/interfaces"
	"github.com/KretovDmitry/atm/internal/domain/entities"
	"github.com/KretovDmitry/atm/internal/interface/api/rest/header"
	"github.com/KretovDmitry/atm/internal/interface/api/rest/request"
	"github.com/KretovDmitry/atm/internal/interface/api/rest/response"
	"github.com/KretovDmitry/atm/internal/interface/presenter"
	"github.com/go-chi/chi/v5"
)

// SessionController exposes a session over HTTP.
// The session is not safe for concurrent use, so every call into it
// is serialized.
type SessionController struct {
	mu      sync.Mutex
	service interfaces.SessionService
}

// NewSessionController registers http.Handlers with additional options.
func NewSessionController(service interfaces.SessionService, options ChiServerOptions) *SessionController {
	r := options.BaseRouter

	if r == nil {
		r = chi.NewRouter()
	}

	c := &SessionController{
		service: service,
	}

	r.Group(func(r chi.Router) {
		for _, middleware := range options.Middlewares {
			r.Use(middleware)
		}

		r.Group(func(r chi.Router) {
			for _, middleware := range options.AuthMiddlewares {
				r.Use(middleware)
			}
			r.Post(options.BaseURL+"/authenticate", c.Authenticate)
		})

		r.Get(options.BaseURL+"/session", c.GetSession)
		r.Get(options.BaseURL+"/balance", c.GetBalance)
		r.Get(options.BaseURL+"/history", c.GetHistory)
		r.Delete(options.BaseURL+"/history", c.ClearHistory)
		r.Post(options.BaseURL+"/withdraw", c.Withdraw)
		r.Post(options.BaseURL+"/deposit", c.Deposit)
		r.Post(options.BaseURL+"/commands", c.Dispatch)
	})

	return c
}

// Check PIN (POST /api/atm/authenticate HTTP/1.1).
func (c *SessionController) Authenticate(w http.ResponseWriter, r *http.Request) {
	var payload request.Authenticate

	if err := decodeJSONBody(r, &payload); err != nil {
		ErrorHandlerFunc(w, r, err)
		return
	}

	if payload.PIN == "" {
		ErrorHandlerFunc(w, r, fmt.Errorf("%w: pin is required", errs.ErrInvalidRequest))
		return
	}

	c.mu.Lock()
	result, err := c.service.Authenticate(r.Context(), payload.PIN)
	c.mu.Unlock()

	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, response.NewAuthenticate(result))
	case errors.Is(err, errs.ErrWrongPin):
		writeJSON(w, http.StatusUnauthorized, response.NewAuthenticate(result))
	default:
		ErrorHandlerFunc(w, r, err)
	}
}

// Get session state (GET /api/atm/session HTTP/1.1).
func (c *SessionController) GetSession(w http.ResponseWriter, _ *http.Request) {
	c.mu.Lock()
	authenticated := c.service.IsAuthenticated()
	c.mu.Unlock()

	writeJSON(w, http.StatusOK, response.Session{Authenticated: authenticated})
}

// Get balance (GET /api/atm/balance HTTP/1.1).
func (c *SessionController) GetBalance(w http.ResponseWriter, r *http.Request) {
	c.dispatch(w, r, entities.CheckBalance, "")
}

// Get transaction history (GET /api/atm/history HTTP/1.1).
func (c *SessionController) GetHistory(w http.ResponseWriter, r *http.Request) {
	c.dispatch(w, r, entities.ViewHistory, "")
}

// Clear transaction history (DELETE /api/atm/history HTTP/1.1).
func (c *SessionController) ClearHistory(w http.ResponseWriter, r *http.Request) {
	c.mu.Lock()
	err := c.service.ClearHistory(r.Context())
	c.mu.Unlock()

	if err != nil {
		ErrorHandlerFunc(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, response.Message{Message: presenter.HistoryCleared})
}

// Withdraw (POST /api/atm/withdraw HTTP/1.1).
func (c *SessionController) Withdraw(w http.ResponseWriter, r *http.Request) {
	c.dispatchWithAmount(w, r, entities.Withdraw)
}

// Deposit (POST /api/atm/deposit HTTP/1.1).
func (c *SessionController) Deposit(w http.ResponseWriter, r *http.Request) {
	c.dispatchWithAmount(w, r, entities.Deposit)
}

// Run any command (POST /api/atm/commands HTTP/1.1).
func (c *SessionController) Dispatch(w http.ResponseWriter, r *http.Request) {
	var payload request.Dispatch

	if err := decodeJSONBody(r, &payload); err != nil {
		ErrorHandlerFunc(w, r, err)
		return
	}

	c.dispatch(w, r, payload.Command, string(payload.Amount))
}

func (c *SessionController) dispatchWithAmount(w http.ResponseWriter, r *http.Request, cmd entities.Command) {
	var payload request.Amount

	if err := decodeJSONBody(r, &payload); err != nil {
		ErrorHandlerFunc(w, r, err)
		return
	}

	c.dispatch(w, r, cmd, string(payload.Amount))
}

func (c *SessionController) dispatch(w http.ResponseWriter, r *http.Request, cmd entities.Command, amount string) {
	c.mu.Lock()
	result, err := c.service.Dispatch(r.Context(), cmd, amount)
	c.mu.Unlock()

	if err != nil {
		ErrorHandlerFunc(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, response.NewCommand(result, presenter.Result(result)))
}

// decodeJSONBody checks the content type, then reads, decodes and closes the body.
func decodeJSONBody(r *http.Request, v any) error {
	if !header.IsApplicationJSONContentType(r) {
		return fmt.Errorf("%w: %s", errs.ErrInvalidContentType, r.Header.Get("Content-Type"))
	}

	defer r.Body.Close()

	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return checkJSONDecodeError(err)
	}

	return nil
}
