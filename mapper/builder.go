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

// description is a (code, category) pair registered for a bare HTTP status.
type description struct {
	code     code.Code
	category category.Category
}

type builder struct {
	// user-provided adjustments (applied on top of library defaults)

	// httpDefaults holds per-code HTTP defaults that override library defaults.
	httpDefaults map[code.Code]int
	// grpcDefaults holds per-code gRPC defaults as ints; converted to codes.Code in New().
	grpcDefaults map[code.Code]int

	// httpOverride holds exact per-code HTTP overrides (higher than defaults).
	httpOverride map[code.Code]int
	// grpcOverride holds exact per-code gRPC overrides as ints; converted in New().
	grpcOverride map[code.Code]int

	// categoryHTTP / categoryGRPC are consulted when a code has neither an
	// override nor a default.
	categoryHTTP map[category.Category]int
	categoryGRPC map[category.Category]int

	// describe overrides the status -> (code, category) reverse lookup.
	describe map[int]description

	// global fallbacks used when neither code nor category is known.
	fallbackHTTP int
	fallbackGRPC codes.Code
}

// newBuilder creates an empty builder with maps pre-sized
// to hold typical numbers of entries.
func newBuilder() *builder {
	return &builder{
		// we size the maps roughly to the number of built-in defaults
		httpDefaults: make(map[code.Code]int, len(defaultHTTP)),
		grpcDefaults: make(map[code.Code]int, len(defaultGRPC)),
		categoryHTTP: make(map[category.Category]int, len(defaultCategoryGRPC)),
		categoryGRPC: make(map[category.Category]int, len(defaultCategoryGRPC)),

		// overrides and descriptions are usually few
		httpOverride: make(map[code.Code]int),
		grpcOverride: make(map[code.Code]int),
		describe:     make(map[int]description),

		// hard fallbacks if neither code nor category was ever seen
		fallbackHTTP: http.StatusInternalServerError,
		fallbackGRPC: codes.Internal,
	}
}
