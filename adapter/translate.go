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

package adapter

import (
	"context"
	"errors"
	"net/http"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/redis/go-redis/v9"
)

// StatusClientClosedRequest is the non-standard status (nginx) used when the
// caller went away before the response was written.
const StatusClientClosedRequest = 499

// LibraryError is a library failure annotated with the HTTP status it
// should surface as. It implements apis.StatusCoder, so the normalizer keeps
// the status, but it is not an AppError: the response stays generic and the
// failure is logged as an incident.
type LibraryError struct {
	status int
	source string
	err    error
}

// Error returns "<source>: <original error>".
func (e *LibraryError) Error() string { return e.source + ": " + e.err.Error() }

// Unwrap returns the original library error.
func (e *LibraryError) Unwrap() error { return e.err }

// StatusCode implements apis.StatusCoder.
func (e *LibraryError) StatusCode() int { return e.status }

// Source names the library family, e.g. "postgres".
func (e *LibraryError) Source() string { return e.source }

type translator func(error) (*LibraryError, bool)

// translators run in order; the first match wins.
var translators = []translator{
	translateContext,
	translatePostgres,
	translateRedis,
}

// Translate returns err annotated with a status by the first translator that
// recognises it, or err unchanged. nil stays nil.
//
//	if err := repo.Reserve(ctx, sku, qty); err != nil {
//	    return adapter.Translate(err)
//	}
func Translate(err error) error {
	if err == nil {
		return nil
	}
	for _, t := range translators {
		if le, ok := t(err); ok {
			return le
		}
	}
	return err
}

// FromContext maps context.DeadlineExceeded to 504 and context.Canceled to
// 499. Other errors are returned unchanged.
func FromContext(err error) error { return apply(err, translateContext) }

// FromPostgres maps pgx / PostgreSQL errors to statuses:
//
//   - pgx.ErrNoRows: 404;
//   - unique, exclusion, serialization and deadlock conflicts: 409;
//   - not-null, foreign-key and check violations, data exceptions (22xxx): 400;
//   - query cancelled, too many connections, connection exceptions (08xxx): 503;
//   - any other server error: 500.
//
// Other errors are returned unchanged.
func FromPostgres(err error) error { return apply(err, translatePostgres) }

// FromRedis maps go-redis errors to statuses: redis.Nil is 404, a failed
// optimistic transaction is 409, any other redis error (server reply or
// closed client) is 503. Other errors are returned unchanged.
func FromRedis(err error) error { return apply(err, translateRedis) }

func apply(err error, t translator) error {
	if err == nil {
		return nil
	}
	if le, ok := t(err); ok {
		return le
	}
	return err
}

func translateContext(err error) (*LibraryError, bool) {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return &LibraryError{status: http.StatusGatewayTimeout, source: "context", err: err}, true
	case errors.Is(err, context.Canceled):
		return &LibraryError{status: StatusClientClosedRequest, source: "context", err: err}, true
	}
	return nil, false
}

// SQLSTATE codes, see https://www.postgresql.org/docs/current/errcodes-appendix.html.
var pgStatus = map[string]int{
	"23505": http.StatusConflict, // unique_violation
	"23P01": http.StatusConflict, // exclusion_violation
	"40001": http.StatusConflict, // serialization_failure
	"40P01": http.StatusConflict, // deadlock_detected

	"23502": http.StatusBadRequest, // not_null_violation
	"23503": http.StatusBadRequest, // foreign_key_violation
	"23514": http.StatusBadRequest, // check_violation

	"57014": http.StatusServiceUnavailable, // query_canceled
	"53300": http.StatusServiceUnavailable, // too_many_connections
}

// pgClassStatus maps a whole SQLSTATE class (first two characters).
var pgClassStatus = map[string]int{
	"22": http.StatusBadRequest,         // data_exception
	"08": http.StatusServiceUnavailable, // connection_exception
}

func translatePostgres(err error) (*LibraryError, bool) {
	if errors.Is(err, pgx.ErrNoRows) {
		return &LibraryError{status: http.StatusNotFound, source: "postgres", err: err}, true
	}
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return nil, false
	}
	status, ok := pgStatus[pgErr.Code]
	if !ok && len(pgErr.Code) >= 2 {
		status, ok = pgClassStatus[pgErr.Code[:2]]
	}
	if !ok {
		status = http.StatusInternalServerError
	}
	return &LibraryError{status: status, source: "postgres", err: err}, true
}

func translateRedis(err error) (*LibraryError, bool) {
	switch {
	case errors.Is(err, redis.Nil):
		return &LibraryError{status: http.StatusNotFound, source: "redis", err: err}, true
	case errors.Is(err, redis.TxFailedErr):
		return &LibraryError{status: http.StatusConflict, source: "redis", err: err}, true
	case errors.Is(err, redis.ErrClosed):
		return &LibraryError{status: http.StatusServiceUnavailable, source: "redis", err: err}, true
	}
	var rErr redis.Error
	if errors.As(err, &rErr) {
		return &LibraryError{status: http.StatusServiceUnavailable, source: "redis", err: err}, true
	}
	return nil, false
}
