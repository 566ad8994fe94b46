package middleware

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"

	"github.com/KretovDmitry/atm/internal/application/errs"
	"github.com/KretovDmitry/atm/internal/interface/presenter"
	"github.com/KretovDmitry/atm/pkg/limiter"
	"github.com/KretovDmitry/atm/pkg/logger"
)

// Throttle middleware rejects requests once the limiter runs out of tokens.
func Throttle(l *limiter.DynamicRateLimiter, log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		f := func(w http.ResponseWriter, r *http.Request) {
			if !l.Allow() {
				interval, _ := l.Settings()
				log.With(r.Context()).Warnf("throttled %s %s", r.Method, r.URL.Path)
				w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(interval.Seconds()))))
				errorHandlerFunc(w, r, fmt.Errorf("%w: too many attempts", errs.ErrRateLimit))
				return
			}

			next.ServeHTTP(w, r)
		}

		return http.HandlerFunc(f)
	}
}

// errorHandlerFunc handles sending of an error in the JSON format,
// writing appropriate status code and handling the failure to marshal that.
func errorHandlerFunc(w http.ResponseWriter, _ *http.Request, err error) {
	errJSON := errs.JSON{Error: err.Error(), Message: presenter.Error(err)}
	code := http.StatusInternalServerError

	if errors.Is(err, errs.ErrRateLimit) {
		code = http.StatusTooManyRequests
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)

	if err = json.NewEncoder(w).Encode(errJSON); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
