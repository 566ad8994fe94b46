package rest

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/KretovDmitry/atm/internal/application/errs"
	"github.com/KretovDmitry/atm/internal/interface/presenter"
	"github.com/KretovDmitry/atm/pkg/unzip"
)

func checkJSONDecodeError(err error) error {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return fmt.Errorf("%w: %s must be of type %s, got %s",
			errs.ErrInvalidRequest, typeErr.Field, typeErr.Type, typeErr.Value)
	}
	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		return fmt.Errorf("%w: malformed JSON at offset %d", errs.ErrInvalidRequest, syntaxErr.Offset)
	}
	var maxBytesErr *http.MaxBytesError
	if errors.As(err, &maxBytesErr) {
		return fmt.Errorf("%w: body exceeds %d bytes", errs.ErrInvalidRequest, maxBytesErr.Limit)
	}
	if errors.Is(err, unzip.ErrMalformedBody) {
		return fmt.Errorf("%w: %s", errs.ErrInvalidRequest, err)
	}
	if errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: empty body", errs.ErrInvalidRequest)
	}
	if errors.Is(err, io.ErrUnexpectedEOF) {
		return fmt.Errorf("%w: truncated body", errs.ErrInvalidRequest)
	}

	return err
}

// ErrorHandlerFunc handles sending of an error in the JSON format,
// writing appropriate status code and handling the failure to marshal that.
func ErrorHandlerFunc(w http.ResponseWriter, _ *http.Request, err error) {
	errJSON := errs.JSON{Error: err.Error(), Message: presenter.Error(err)}
	code := http.StatusInternalServerError

	switch {
	// Status Bad Request (400).
	case errors.Is(err, errs.ErrInvalidRequest) ||
		errors.Is(err, errs.ErrInvalidAmount) ||
		errors.Is(err, errs.ErrNonPositiveAmount) ||
		errors.Is(err, errs.ErrUnknownCommand):
		code = http.StatusBadRequest

	// Status Unauthorized (401).
	case errors.Is(err, errs.ErrNotAuthenticated) ||
		errors.Is(err, errs.ErrWrongPin):
		code = http.StatusUnauthorized

	// Status Payment Required (402).
	case errors.Is(err, errs.ErrInsufficientFunds):
		code = http.StatusPaymentRequired

	// Status Unsupported Media Type (415).
	case errors.Is(err, errs.ErrInvalidContentType):
		code = http.StatusUnsupportedMediaType

	// Status Too Many Requests (429).
	case errors.Is(err, errs.ErrRateLimit):
		code = http.StatusTooManyRequests
	}

	writeJSON(w, code, errJSON)
}

func writeJSON(w http.ResponseWriter, code int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)

	if err := json.NewEncoder(w).Encode(payload); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
