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

import "time"

// Option is a functional option applied once, while New builds the error.
// There is no way to apply an Option to an existing AppError.
type Option func(*AppError)

// WithContext attaches the operation/resource/user context the failure
// happened in. The Extra map is copied.
func WithContext(ctx ErrorContext) Option {
	return func(e *AppError) {
		e.context = ctx.clone()
	}
}

// WithDetails attaches an opaque details payload that operational responses
// expose to the caller (field violations, limits, ids). Use []apis.Detail for
// field-level validation problems so gRPC can render them natively.
func WithDetails(details any) Option {
	return func(e *AppError) {
		e.details = details
	}
}

// WithCause attaches the underlying error. It is logged, never shown to the
// caller.
func WithCause(err error) Option {
	return func(e *AppError) {
		e.cause = err
	}
}

// WithRetryAfter attaches a client retry hint (Retry-After header over HTTP,
// RetryInfo over gRPC). Non-positive durations are ignored.
func WithRetryAfter(d time.Duration) Option {
	return func(e *AppError) {
		if d > 0 {
			e.retryAfter = d
		}
	}
}

// WithOperational overrides the operational flag. Passing false marks the
// error as a programming failure: callers get a generic message and the
// failure is logged as an incident.
func WithOperational(operational bool) Option {
	return func(e *AppError) {
		e.operational = operational
	}
}
