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

// Package mapper provides deterministic, immutable mappings from logical
// failure descriptions, a code (dirpx.dev/apperr/code) plus a category
// (dirpx.dev/apperr/category), to transport-level statuses for HTTP and
// gRPC.
//
// # Overview
//
// An AppError already carries the HTTP status its author chose, so HTTP
// responders mostly need the mapper for the other direction: describing a
// bare status (a library error, a recovered panic) in code/category terms.
// gRPC responders need it for everything, since an AppError never names a
// gRPC code. Package mapper does both in a way that is:
//
//   - immutable: a Mapper is a snapshot, safe for concurrent reuse;
//   - overridable: callers can change library defaults per code and per
//     category;
//   - dual: HTTP and gRPC are resolved with the same logic.
//
// # Resolution model
//
// A Mapper resolves statuses in the following order:
//
//  1. exact override for the code;
//  2. per-code default (library or user-adjusted);
//  3. per-category default (see category.DefaultStatus);
//  4. global fallback (500 / codes.Internal).
//
// The category tier is what lets product teams mint new codes (for example
// "GIFT_CARD_DECLINED") without registering them here: the code resolves
// through its category until someone adds a rule for it.
//
// # Building a mapper
//
// A Mapper is created once and reused:
//
//	m, err := mapper.New(
//	    mapper.WithHTTPOverride(code.ClientClosedRequest, 408),
//	    mapper.WithGRPCDefault(code.OutOfStock, int(codes.ResourceExhausted)),
//	)
//	if err != nil {
//	    // invalid code, category or status
//	}
//
//	st := m.Status(code.OutOfStock, category.Conflict)
//	// st.HTTP == 409, st.GRPC == codes.ResourceExhausted
//
// # Diagnostics
//
// For debugging and tests, Mapper.Explain returns a human-readable trace of how
// a particular (code, category) was resolved, including which tier matched.
//
// This is intended for inspection and logging, not for stable machine parsing.
//
// # Immutability
//
// All user-provided inputs are copied during New. After construction, the Mapper
// does not observe further changes to the caller's maps or slices. This makes it
// safe to share a single instance across handlers, goroutines, and requests.
package mapper
