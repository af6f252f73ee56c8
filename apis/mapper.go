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

package apis

import (
	"dirpx.dev/apperr/category"
	"dirpx.dev/apperr/code"
	"google.golang.org/grpc/codes"
)

// Mapper is an immutable, concurrency-safe view of the status mapping rules.
// It resolves a logical (code, category) pair into transport statuses for HTTP
// and gRPC, and describes bare HTTP statuses in the same vocabulary.
type Mapper interface {
	// HTTPStatus returns the HTTP status for the given code and category.
	// If no code-specific rule exists, the mapper must fall back to the
	// category-level rule.
	HTTPStatus(c code.Code, cat category.Category) int

	// GRPCStatus returns the gRPC status for the given code and category.
	GRPCStatus(c code.Code, cat category.Category) codes.Code

	// Status resolves both HTTP and gRPC in a single call, using the same
	// matching logic.
	Status(c code.Code, cat category.Category) Status

	// FromHTTP resolves the gRPC status for a failure that carries only an
	// HTTP status (library errors, recovered panics).
	FromHTTP(status int) Status

	// Describe returns the code and category that best explain a bare HTTP
	// status.
	Describe(status int) (code.Code, category.Category)

	// Explain returns a human-readable description of which rule matched.
	Explain(c code.Code, cat category.Category) string
}

// Status represents a resolved pair of transport statuses for a single error.
type Status struct {
	HTTP int        // Resolved HTTP status code (net/http compatible).
	GRPC codes.Code // Resolved gRPC status code.
}
