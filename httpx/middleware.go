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

package httpx

import (
	"fmt"
	"net/http"

	"dirpx.dev/apperr"
	"dirpx.dev/apperr/boundary"
	"github.com/google/uuid"
)

// HeaderRequestID is the request correlation header.
const HeaderRequestID = "X-Request-ID"

// maxRequestIDLen bounds client-supplied request ids.
const maxRequestIDLen = 128

// RequestID makes sure every request has an id. A well-formed incoming
// X-Request-ID is kept, otherwise a random UUID is generated. The id is
// stored in the request context (see RequestIDFrom) and echoed in the
// response header.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(HeaderRequestID)
		if !validRequestID(id) {
			id = uuid.NewString()
		}
		w.Header().Set(HeaderRequestID, id)
		next.ServeHTTP(w, r.WithContext(WithRequestID(r.Context(), id)))
	})
}

// validRequestID accepts short, printable ASCII ids so that a client cannot
// inject control characters into logs.
func validRequestID(id string) bool {
	if id == "" || len(id) > maxRequestIDLen {
		return false
	}
	for i := 0; i < len(id); i++ {
		if c := id[i]; c < 0x21 || c > 0x7e {
			return false
		}
	}
	return true
}

// Recover returns middleware that sends panics from plain http.Handlers (the
// ones not behind Wrap) to eh.
func Recover(eh ErrorHandler) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tw := track(w)
			te := boundary.Guard(func() error {
				next.ServeHTTP(tw, r)
				return nil
			})
			if te == nil {
				return
			}
			if isAbort(te) {
				panic(http.ErrAbortHandler)
			}
			eh.Respond(tw, r, te)
		})
	}
}

// NotFound answers unmatched routes through eh with an operational 404.
func NotFound(eh ErrorHandler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		eh.Respond(w, r, apperr.NotFound(
			fmt.Sprintf("Route %s %s not found", r.Method, r.URL.Path),
			apperr.WithContext(apperr.ErrorContext{Operation: "route"}),
		))
	})
}
