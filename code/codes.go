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

package code

import "net/http"

// Generic codes
//
// These cover the failure classes every handler can run into, independent of
// the storefront domain.
const (
	// InternalServerError is the fallback for server-side failures that have
	// no more specific code. Clients must treat it as "try again later or
	// contact support"; the message behind it is never an internal detail.
	//
	// Usually paired with category INTERNAL and HTTP 500.
	InternalServerError Code = "INTERNAL_SERVER_ERROR"

	// UnknownError is used when a failure carried no recognizable shape at all
	// (a panic with a non-error value, for instance).
	UnknownError Code = "UNKNOWN_ERROR"

	// BadRequest indicates a malformed request (unparsable body, wrong
	// content type, broken query string). Prefer ValidationError when the
	// request parsed but its contents violate a rule.
	//
	// Usually paired with category VALIDATION and HTTP 400.
	BadRequest Code = "BAD_REQUEST"

	// ValidationError indicates that the payload parsed but failed business
	// validation (missing field, out-of-range quantity, bad e-mail).
	//
	// Usually paired with category VALIDATION and HTTP 400.
	ValidationError Code = "VALIDATION_ERROR"

	// UnprocessableEntity indicates a semantically invalid request that cannot
	// be applied in the current state.
	//
	// Usually paired with category VALIDATION and HTTP 422.
	UnprocessableEntity Code = "UNPROCESSABLE_ENTITY"

	// PayloadTooLarge indicates that the request body exceeded the limit.
	//
	// Usually paired with category VALIDATION and HTTP 413.
	PayloadTooLarge Code = "PAYLOAD_TOO_LARGE"
)

// AuthN / AuthZ codes
const (
	// Unauthorized indicates missing or invalid credentials.
	//
	// Usually paired with category AUTHENTICATION and HTTP 401.
	Unauthorized Code = "UNAUTHORIZED"

	// TokenExpired indicates that the access token is structurally valid but
	// its lifetime is over; clients should refresh and retry.
	//
	// Usually paired with category AUTHENTICATION and HTTP 401.
	TokenExpired Code = "TOKEN_EXPIRED"

	// Forbidden indicates that the caller is authenticated but not allowed to
	// perform the action (e.g. a customer hitting an admin route).
	//
	// Usually paired with category AUTHORIZATION and HTTP 403.
	Forbidden Code = "FORBIDDEN"
)

// Resource state codes
const (
	// NotFound indicates that the target resource does not exist or is not
	// visible to the caller.
	NotFound Code = "NOT_FOUND"

	// Conflict indicates a conflicting update (concurrent cart edits,
	// optimistic lock failures).
	Conflict Code = "CONFLICT"

	// AlreadyExists indicates a creation clash, e.g. a duplicate e-mail on
	// registration.
	AlreadyExists Code = "ALREADY_EXISTS"

	// OutOfStock indicates that a product cannot be added or ordered in the
	// requested quantity.
	//
	// Usually paired with category CONFLICT and HTTP 409.
	OutOfStock Code = "OUT_OF_STOCK"

	// CartEmpty indicates a checkout attempt on an empty cart.
	//
	// Usually paired with category VALIDATION and HTTP 400.
	CartEmpty Code = "CART_EMPTY"
)

// Runtime / dependency codes
const (
	// RateLimited indicates that the caller hit a rate limit.
	//
	// Usually paired with category RATE_LIMIT and HTTP 429.
	RateLimited Code = "RATE_LIMITED"

	// ExternalServiceError indicates that a downstream service (payments,
	// shipping, e-mail) failed or returned an unusable answer.
	//
	// Usually paired with category EXTERNAL_SERVICE and HTTP 502.
	ExternalServiceError Code = "EXTERNAL_SERVICE_ERROR"

	// PaymentProviderError is the payment-specific refinement of
	// ExternalServiceError.
	PaymentProviderError Code = "PAYMENT_PROVIDER_ERROR"

	// DatabaseError indicates a persistence failure.
	//
	// Usually paired with category DATABASE and HTTP 500.
	DatabaseError Code = "DATABASE_ERROR"

	// ServiceUnavailable indicates that the service or one of its
	// dependencies is temporarily unreachable.
	//
	// Usually paired with category EXTERNAL_SERVICE and HTTP 503.
	ServiceUnavailable Code = "SERVICE_UNAVAILABLE"

	// Timeout indicates that the operation exceeded its time budget.
	//
	// Usually paired with category EXTERNAL_SERVICE and HTTP 504.
	Timeout Code = "TIMEOUT"

	// ClientClosedRequest indicates that the caller went away before the
	// response was ready (nginx-style 499).
	ClientClosedRequest Code = "CLIENT_CLOSED_REQUEST"
)

// registry holds every code declared in this package. Clients build on these
// values, so the set only grows.
var registry = map[Code]struct{}{
	InternalServerError:  {},
	UnknownError:         {},
	BadRequest:           {},
	ValidationError:      {},
	UnprocessableEntity:  {},
	PayloadTooLarge:      {},
	Unauthorized:         {},
	TokenExpired:         {},
	Forbidden:            {},
	NotFound:             {},
	Conflict:             {},
	AlreadyExists:        {},
	OutOfStock:           {},
	CartEmpty:            {},
	RateLimited:          {},
	ExternalServiceError: {},
	PaymentProviderError: {},
	DatabaseError:        {},
	ServiceUnavailable:   {},
	Timeout:              {},
	ClientClosedRequest:  {},
}

// Known reports whether c is one of the registered codes.
func Known(c Code) bool {
	_, ok := registry[c]
	return ok
}

// byStatus is the reverse table used when a failure carries only an HTTP
// status (library errors, panics).
var byStatus = map[int]Code{
	http.StatusBadRequest:            BadRequest,
	http.StatusUnauthorized:          Unauthorized,
	http.StatusForbidden:             Forbidden,
	http.StatusNotFound:              NotFound,
	http.StatusConflict:              Conflict,
	http.StatusRequestEntityTooLarge: PayloadTooLarge,
	http.StatusUnprocessableEntity:   UnprocessableEntity,
	http.StatusTooManyRequests:       RateLimited,
	499:                              ClientClosedRequest,
	http.StatusInternalServerError:   InternalServerError,
	http.StatusBadGateway:            ExternalServiceError,
	http.StatusServiceUnavailable:    ServiceUnavailable,
	http.StatusGatewayTimeout:        Timeout,
}

// FromStatus returns the registered code that best describes an HTTP status.
// Unlisted 4xx statuses map to BadRequest, everything else to
// InternalServerError.
func FromStatus(status int) Code {
	if c, ok := byStatus[status]; ok {
		return c
	}
	if status >= 400 && status < 500 {
		return BadRequest
	}
	return InternalServerError
}
