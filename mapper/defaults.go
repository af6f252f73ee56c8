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

package mapper

import (
	"net/http"

	"dirpx.dev/apperr/category"
	"dirpx.dev/apperr/code"
	"google.golang.org/grpc/codes"
)

// defaultHTTP defines the built-in HTTP mappings for registry codes whose
// status is more specific than their category's.
//
// Codes not listed here resolve through their category (see
// category.DefaultStatus).
var defaultHTTP = map[code.Code]int{
	// 5xx: server and dependency failures.
	code.InternalServerError:  http.StatusInternalServerError,
	code.UnknownError:         http.StatusInternalServerError,
	code.DatabaseError:        http.StatusInternalServerError,
	code.ExternalServiceError: http.StatusBadGateway,
	code.PaymentProviderError: http.StatusBadGateway,
	code.ServiceUnavailable:   http.StatusServiceUnavailable,
	code.Timeout:              http.StatusGatewayTimeout,
	// 499 is non-standard (nginx) but widely understood as "client closed request".
	code.ClientClosedRequest: 499,

	// 4xx: request shape and contents.
	code.BadRequest:          http.StatusBadRequest,
	code.ValidationError:     http.StatusBadRequest,
	code.UnprocessableEntity: http.StatusUnprocessableEntity,
	code.PayloadTooLarge:     http.StatusRequestEntityTooLarge,
	code.CartEmpty:           http.StatusBadRequest,

	// AuthN / AuthZ.
	code.Unauthorized: http.StatusUnauthorized,
	code.TokenExpired: http.StatusUnauthorized,
	code.Forbidden:    http.StatusForbidden,

	// Resources and state.
	code.NotFound:      http.StatusNotFound,
	code.Conflict:      http.StatusConflict,
	code.AlreadyExists: http.StatusConflict,
	code.OutOfStock:    http.StatusConflict,

	// Rate limiting.
	code.RateLimited: http.StatusTooManyRequests,
}

// defaultGRPC defines the built-in gRPC mappings for registry codes. The
// values follow the canonical meaning of gRPC status codes rather than a
// mechanical translation of the HTTP status.
var defaultGRPC = map[code.Code]codes.Code{
	code.InternalServerError:  codes.Internal,
	code.UnknownError:         codes.Unknown,
	code.DatabaseError:        codes.Internal,
	code.ExternalServiceError: codes.Unavailable,
	code.PaymentProviderError: codes.Unavailable,
	code.ServiceUnavailable:   codes.Unavailable,
	code.Timeout:              codes.DeadlineExceeded,
	code.ClientClosedRequest:  codes.Canceled,

	code.BadRequest:          codes.InvalidArgument,
	code.ValidationError:     codes.InvalidArgument,
	code.UnprocessableEntity: codes.FailedPrecondition,
	code.PayloadTooLarge:     codes.ResourceExhausted,
	code.CartEmpty:           codes.FailedPrecondition, // The cart state, not the request, is wrong.

	code.Unauthorized: codes.Unauthenticated,
	code.TokenExpired: codes.Unauthenticated,
	code.Forbidden:    codes.PermissionDenied,

	code.NotFound:      codes.NotFound,
	code.Conflict:      codes.Aborted,
	code.AlreadyExists: codes.AlreadyExists,
	code.OutOfStock:    codes.FailedPrecondition,

	code.RateLimited: codes.ResourceExhausted,
}

// defaultCategoryGRPC is the gRPC counterpart of category.DefaultStatus.
var defaultCategoryGRPC = map[category.Category]codes.Code{
	category.Validation:      codes.InvalidArgument,
	category.Authentication:  codes.Unauthenticated,
	category.Authorization:   codes.PermissionDenied,
	category.NotFound:        codes.NotFound,
	category.Conflict:        codes.Aborted,
	category.RateLimit:       codes.ResourceExhausted,
	category.ExternalService: codes.Unavailable,
	category.Database:        codes.Internal,
	category.Internal:        codes.Internal,
}

// grpcByHTTP translates bare HTTP statuses (library errors, recovered
// panics) into gRPC codes. Statuses not listed fall back by class: 4xx to
// InvalidArgument, everything else to Internal.
var grpcByHTTP = map[int]codes.Code{
	http.StatusBadRequest:            codes.InvalidArgument,
	http.StatusUnauthorized:          codes.Unauthenticated,
	http.StatusForbidden:             codes.PermissionDenied,
	http.StatusNotFound:              codes.NotFound,
	http.StatusGone:                  codes.NotFound,
	http.StatusRequestTimeout:        codes.DeadlineExceeded,
	http.StatusConflict:              codes.Aborted,
	http.StatusPreconditionFailed:    codes.FailedPrecondition,
	http.StatusRequestEntityTooLarge: codes.ResourceExhausted,
	http.StatusUnprocessableEntity:   codes.FailedPrecondition,
	http.StatusTooManyRequests:       codes.ResourceExhausted,
	499:                              codes.Canceled,
	http.StatusNotImplemented:        codes.Unimplemented,
	http.StatusBadGateway:            codes.Unavailable,
	http.StatusServiceUnavailable:    codes.Unavailable,
	http.StatusGatewayTimeout:        codes.DeadlineExceeded,
}
