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

// Detail represents a single structured piece of information attached to an
// AppError through apperr.WithDetails([]apis.Detail{...}).
//
// Over HTTP a []Detail is rendered as-is in error.details. Over gRPC field
// details become google.rpc.BadRequest field violations.
//
// Typical usages:
//   - report which checkout field failed validation;
//   - report the available quantity of an out-of-stock product;
//   - report conflicting cart versions.
type Detail struct {
	// Type is a short classifier of the detail, e.g. "field", "conflict",
	// "extra", "missing", etc. Callers MAY leave it empty, but providing it
	// makes client-side handling simpler.
	Type string `json:"type,omitempty"`

	// Field carries the logical path to the failing field, e.g.
	// "shipping.address.zip" or "items[2].quantity". For non-field errors this may be
	// empty.
	Field string `json:"field,omitempty"`

	// Reason is a short, human-friendly explanation, e.g. "required",
	// "not_unique", "invalid_format". This is NOT the same as the top-level
	// error reason, but often corresponds to it.
	Reason string `json:"reason,omitempty"`

	// Info carries optional extra structured data (for example, allowed
	// values, maximum length, conflicting resource name, etc.). Keys and
	// values should be chosen so that they survive JSON/proto round-trips.
	Info map[string]string `json:"info,omitempty"`
}
