/*
   Copyright 2025 The DIRPX Authors

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

// Package demo wires the demonstration routes of the storefront API. Every
// failing route resolves through the same error responder.
package demo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"dirpx.dev/apperr"
	"dirpx.dev/apperr/adapter"
	"dirpx.dev/apperr/apis"
	"dirpx.dev/apperr/boundary"
	"dirpx.dev/apperr/category"
	"dirpx.dev/apperr/code"
	"dirpx.dev/apperr/httpx"
	"dirpx.dev/apperr/severity"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/redis/go-redis/v9"
)

// NewMux returns the demo routes wrapped in request id and panic recovery
// middleware. Unmatched routes answer with a NOT_FOUND failure.
func NewMux(eh httpx.ErrorHandler) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", handleHealthz)
	mux.Handle("GET /api/test/custom-error", httpx.Wrap(handleCustomError, eh))
	mux.Handle("GET /api/test/bad-request", httpx.Wrap(handleBadRequest, eh))
	mux.Handle("GET /api/test/panic", httpx.Wrap(handlePanic, eh))
	mux.Handle("GET /api/test/async", httpx.Wrap(handleAsync, eh))
	mux.Handle("GET /api/test/library-error", httpx.Wrap(handleLibraryError, eh))
	mux.Handle("/", httpx.NotFound(eh))
	return httpx.RequestID(httpx.Recover(eh)(mux))
}

func handleHealthz(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func handleCustomError(http.ResponseWriter, *http.Request) error {
	return apperr.New("This is a custom test error", http.StatusInternalServerError,
		code.InternalServerError, category.Internal, severity.Low)
}

func handleBadRequest(http.ResponseWriter, *http.Request) error {
	return boundary.New(http.StatusBadRequest, "")
}

func handlePanic(http.ResponseWriter, *http.Request) error {
	var stock map[string]int
	stock["sku-1"]-- // nil map write
	return nil
}

// handleAsync fails on a background goroutine; the failure still reaches the
// responder through boundary.Go.
func handleAsync(_ http.ResponseWriter, r *http.Request) error {
	done := boundary.Go(func() error {
		return apperr.ExternalService("Inventory service did not respond",
			apperr.WithContext(apperr.ErrorContext{Operation: "reserveStock", Resource: "inventory"}))
	})
	select {
	case te := <-done:
		if te != nil {
			return te
		}
		return nil
	case <-r.Context().Done():
		return r.Context().Err()
	}
}

// libraryErrors are the driver failures the library-error route can raise,
// keyed by the "source" query parameter.
var libraryErrors = map[string]func() error{
	"postgres": func() error { return fmt.Errorf("load order 1042: %w", pgx.ErrNoRows) },
	"postgres-unique": func() error {
		return &pgconn.PgError{Severity: "ERROR", Code: "23505", Message: "duplicate key value violates unique constraint \"orders_idempotency_key\""}
	},
	"redis":   func() error { return fmt.Errorf("read cart cache: %w", redis.Nil) },
	"timeout": func() error { return fmt.Errorf("payment authorize: %w", context.DeadlineExceeded) },
}

// handleLibraryError raises a driver error and translates it the way
// repository code does, so the status comes from the driver error.
func handleLibraryError(_ http.ResponseWriter, r *http.Request) error {
	source := r.URL.Query().Get("source")
	raise, ok := libraryErrors[source]
	if !ok {
		return apperr.Validation(fmt.Sprintf("Unknown source %q", source),
			apperr.WithDetails([]apis.Detail{{Type: "field", Field: "source", Reason: "one_of"}}))
	}
	return adapter.Translate(raise())
}
