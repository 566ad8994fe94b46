// Package accesslog provides a middleware that records every RESTful API call in a log message.
package accesslog

import (
	"net/http"
	"time"

	"github.com/KretovDmitry/atm/pkg/logger"
	"github.com/go-chi/chi/v5/middleware"
)

// RequestIDHeader is read from incoming requests and echoed back in responses.
const RequestIDHeader = "X-Request-ID"

// Handler returns a middleware that records an access log message for every HTTP request being processed.
func Handler(l logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// Associate a request ID with the request context.
			ctx := logger.WithRequestID(r.Context(), r.Header.Get(RequestIDHeader))
			id, _ := logger.RequestID(ctx)
			w.Header().Set(RequestIDHeader, id)

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r.WithContext(ctx))

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}

			l.With(ctx, "duration", time.Since(start).Milliseconds(), "status", status).
				Infof("%s %s %s %d %d", r.Method, r.URL.Path, r.Proto, status, ww.BytesWritten())
		}
		return http.HandlerFunc(fn)
	}
}
