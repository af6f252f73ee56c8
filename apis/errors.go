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

// StatusCoder is implemented by errors that know which HTTP status they
// should surface as.
//
// The normalizer honours the status only when it is a valid HTTP status
// (100..599); anything else falls back to 500. Library adapters implement
// this interface so that, e.g., a unique-constraint violation keeps its 409
// even though it is not an operational AppError.
type StatusCoder interface {
	error

	// StatusCode returns the HTTP status for this failure.
	StatusCode() int
}

// StackTracer is implemented by failures that captured a stack trace at the
// point they were created (AppError at construction, recovered panics at the
// boundary).
//
// Stacks are logged and, outside production, echoed in error responses. They
// are never part of the stable client contract.
type StackTracer interface {
	// StackTrace returns a human-readable stack, or "" when unavailable.
	StackTrace() string
}
