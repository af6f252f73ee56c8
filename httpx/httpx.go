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

// Package httpx is the HTTP edge of the error pipeline.
//
// Handlers written as HandlerFunc return errors instead of writing error
// responses themselves. Wrap runs them, recovers panics, normalizes whatever
// failed and hands it to an ErrorHandler, normally a *Responder:
//
//	rs := httpx.NewResponder(httpx.WithSink(sink), httpx.WithProduction(true))
//	mux.Handle("GET /api/cart", httpx.Wrap(cart.Get, rs))
//
// The Responder answers every failure with the canonical JSON body (see
// Response) and forwards a sanitized log record to its sink. It never lets a
// second failure escape: if anything goes wrong while answering, a minimal
// 500 body is written instead.
package httpx

import (
	"errors"
	"net/http"

	"dirpx.dev/apperr/boundary"
)

// HandlerFunc is an HTTP handler that reports failure by returning it.
type HandlerFunc func(w http.ResponseWriter, r *http.Request) error

// ErrorHandler receives every failure that escaped a handler. failure is a
// *boundary.Error when it comes from Wrap or Recover, but implementations
// must accept any value.
type ErrorHandler interface {
	Respond(w http.ResponseWriter, r *http.Request, failure any)
}

// ErrorHandlerFunc adapts a function to the ErrorHandler interface.
type ErrorHandlerFunc func(w http.ResponseWriter, r *http.Request, failure any)

// Respond calls f.
func (f ErrorHandlerFunc) Respond(w http.ResponseWriter, r *http.Request, failure any) {
	f(w, r, failure)
}

// Wrap adapts h to http.Handler. On success the response is whatever h
// wrote. A returned error or a panic is normalized exactly once and passed
// to next; it never propagates further.
//
// http.ErrAbortHandler is re-panicked so net/http can abort the response as
// usual.
func Wrap(h HandlerFunc, next ErrorHandler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tw := track(w)
		te := boundary.Guard(func() error { return h(tw, r) })
		if te == nil {
			return
		}
		if isAbort(te) {
			panic(http.ErrAbortHandler)
		}
		next.Respond(tw, r, te)
	})
}

func isAbort(te *boundary.Error) bool {
	err, ok := te.Cause.(error)
	return ok && errors.Is(err, http.ErrAbortHandler)
}
