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

// ErrorView is the "error" object of the canonical HTTP error body.
//
// This is *not* the internal error type: it is the shape we are comfortable
// exposing over the wire. Details and Context are only populated for
// operational failures; Stack only outside production.
type ErrorView struct {
	// Code is the stable machine-readable code, e.g. "NOT_FOUND".
	Code string `json:"code"`

	// StatusCode mirrors the HTTP status of the response.
	StatusCode int `json:"statusCode"`

	// Category is one of the closed category names, e.g. "VALIDATION".
	Category string `json:"category"`

	// Severity is one of LOW, MEDIUM, HIGH, CRITICAL.
	Severity string `json:"severity"`

	// Details is the opaque payload attached by the author of the error.
	Details any `json:"details,omitempty"`

	// Context is the sanitized, flattened error context.
	Context map[string]any `json:"context,omitempty"`

	// Stack is the captured stack trace (non-production only).
	Stack string `json:"stack,omitempty"`
}
