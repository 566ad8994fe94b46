// Package unzip decompresses gzip-encoded request bodies.
package unzip

import (
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/KretovDmitry/atm/pkg/logger"
)

// MaxBodyBytes caps a decompressed request body.
const MaxBodyBytes = 1 << 20

// ErrMalformedBody is reported for bodies that are not valid gzip streams.
var ErrMalformedBody = errors.New("malformed gzip body")

// ErrorHandler writes the response for a body that cannot be decompressed.
type ErrorHandler func(w http.ResponseWriter, r *http.Request, err error)

// compressReader decompresses the wrapped body and closes both streams.
type compressReader struct {
	r  io.ReadCloser
	zr *gzip.Reader
}

func newCompressReader(r io.ReadCloser) (*compressReader, error) {
	zr, err := gzip.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrMalformedBody, err)
	}

	return &compressReader{r: r, zr: zr}, nil
}

func (c *compressReader) Read(p []byte) (int, error) {
	n, err := c.zr.Read(p)
	if err != nil && !errors.Is(err, io.EOF) {
		return n, fmt.Errorf("%w: %s", ErrMalformedBody, err)
	}
	return n, err
}

func (c *compressReader) Close() error {
	zerr := c.zr.Close()
	if err := c.r.Close(); err != nil {
		return fmt.Errorf("close body: %w", err)
	}
	return zerr
}

// Middleware replaces gzip-encoded request bodies with their decompressed
// content. Bodies with any other encoding are passed through untouched.
func Middleware(logger logger.Logger, onError ErrorHandler) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		f := func(w http.ResponseWriter, r *http.Request) {
			if !sendsGzip(r.Header.Get("Content-Encoding")) {
				next.ServeHTTP(w, r)
				return
			}

			cr, err := newCompressReader(r.Body)
			if err != nil {
				logger.With(r.Context()).Warnf("decompress request body: %s", err)
				onError(w, r, err)
				return
			}
			defer cr.Close()

			r.Body = http.MaxBytesReader(w, cr, MaxBodyBytes)
			r.Header.Del("Content-Encoding")
			r.Header.Del("Content-Length")
			r.ContentLength = -1

			next.ServeHTTP(w, r)
		}
		return http.HandlerFunc(f)
	}
}

func sendsGzip(contentEncoding string) bool {
	enc := strings.TrimSpace(contentEncoding)
	return strings.EqualFold(enc, "gzip") || strings.EqualFold(enc, "x-gzip")
}
