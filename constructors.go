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

package apperr

import (
	"dirpx.dev/apperr/category"
	"dirpx.dev/apperr/code"
	"dirpx.dev/apperr/severity"
)

// The constructors below cover the common storefront failures. Each one uses
// the category's default HTTP status and a default severity: LOW for client
// errors, MEDIUM for failing dependencies, HIGH for database and internal
// errors. Use New when any of those need to differ.

// Validation reports rejected input (code VALIDATION_ERROR, 400).
func Validation(message string, opts ...Option) *AppError {
	return newAppError(1, message, category.DefaultStatus(category.Validation),
		code.ValidationError, category.Validation, severity.Low, opts)
}

// Unauthenticated reports missing or invalid credentials (UNAUTHORIZED, 401).
func Unauthenticated(message string, opts ...Option) *AppError {
	return newAppError(1, message, category.DefaultStatus(category.Authentication),
		code.Unauthorized, category.Authentication, severity.Low, opts)
}

// Forbidden reports a permission failure (FORBIDDEN, 403).
func Forbidden(message string, opts ...Option) *AppError {
	return newAppError(1, message, category.DefaultStatus(category.Authorization),
		code.Forbidden, category.Authorization, severity.Low, opts)
}

// NotFound reports a missing resource (NOT_FOUND, 404).
func NotFound(message string, opts ...Option) *AppError {
	return newAppError(1, message, category.DefaultStatus(category.NotFound),
		code.NotFound, category.NotFound, severity.Low, opts)
}

// Conflict reports a state clash (CONFLICT, 409).
func Conflict(message string, opts ...Option) *AppError {
	return newAppError(1, message, category.DefaultStatus(category.Conflict),
		code.Conflict, category.Conflict, severity.Low, opts)
}

// RateLimited reports throttling (RATE_LIMITED, 429). Pair it with
// WithRetryAfter.
func RateLimited(message string, opts ...Option) *AppError {
	return newAppError(1, message, category.DefaultStatus(category.RateLimit),
		code.RateLimited, category.RateLimit, severity.Low, opts)
}

// ExternalService reports a failing downstream service
// (EXTERNAL_SERVICE_ERROR, 502).
func ExternalService(message string, opts ...Option) *AppError {
	return newAppError(1, message, category.DefaultStatus(category.ExternalService),
		code.ExternalServiceError, category.ExternalService, severity.Medium, opts)
}

// Database reports a persistence failure (DATABASE_ERROR, 500).
func Database(message string, opts ...Option) *AppError {
	return newAppError(1, message, category.DefaultStatus(category.Database),
		code.DatabaseError, category.Database, severity.High, opts)
}

// Internal reports an anticipated server-side failure
// (INTERNAL_SERVER_ERROR, 500).
func Internal(message string, opts ...Option) *AppError {
	return newAppError(1, message, category.DefaultStatus(category.Internal),
		code.InternalServerError, category.Internal, severity.High, opts)
}
