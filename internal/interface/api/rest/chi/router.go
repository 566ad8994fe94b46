package rest

import (
	"fmt"
	"net/http"

	"github.com/KretovDmitry/atm/internal/application/errs"
	"github.com/KretovDmitry/atm/pkg/accesslog"
	"github.com/KretovDmitry/atm/pkg/logger"
	"github.com/KretovDmitry/atm/pkg/unzip"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/nanmu42/gzip"
)

func InitChi(logger logger.Logger) *chi.Mux {
	router := chi.NewRouter()
	router.Use(accesslog.Handler(logger))
	router.Use(middleware.Recoverer)
	router.Use(gzip.DefaultHandler().WrapHandler)
	router.Use(unzip.Middleware(logger, func(w http.ResponseWriter, r *http.Request, err error) {
		ErrorHandlerFunc(w, r, fmt.Errorf("%w: %s", errs.ErrInvalidRequest, err))
	}))

	return router
}

type (
	MiddlewareFunc func(http.Handler) http.Handler

	ChiServerOptions struct {
		BaseRouter  chi.Router
		BaseURL     string
		Middlewares []MiddlewareFunc
		// Applied to the PIN check only.
		AuthMiddlewares []MiddlewareFunc
	}
)
