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

package boundary

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"

	"dirpx.dev/apperr"
	"dirpx.dev/apperr/apis"
)

// Normalize converts any value into a transport error. It is total: it never
// panics and never returns nil.
//
// Rules, first match wins:
//
//  1. v (or an error in its chain met before any AppError) is a Transporter
//     with a non-nil result: that result is returned unchanged;
//  2. an *apperr.AppError in the chain: its status if valid (else 500) and
//     its message;
//  3. any other error: the status of an apis.StatusCoder in the chain if
//     valid (else 500) and err.Error();
//  4. a string: 500 and the string;
//  5. anything else: 500 and UnknownMessage.
//
// Normalize(Normalize(v)) returns the same pointer as Normalize(v).
func Normalize(v any) *Error {
	return normalize(v, "")
}

// Classify reports which rule Normalize applies to v.
func Classify(v any) Kind {
	kind, _, _ := classify(v)
	return kind
}

// normalize is Normalize with a fallback stack for values that carry none
// (recovered panics).
func normalize(v any, stack string) *Error {
	kind, te, ae := classify(v)
	switch kind {
	case KindTransport:
		return te
	case KindAppFailure:
		out := &Error{
			Status:  validStatus(ae.StatusCode()),
			Message: orUnknown(ae.Message()),
			Kind:    KindAppFailure,
			Cause:   v,
			Stack:   ae.StackTrace(),
		}
		if out.Stack == "" {
			out.Stack = stack
		}
		return out
	case KindFault:
		err := v.(error)
		out := &Error{
			Status:  http.StatusInternalServerError,
			Message: orUnknown(safeMessage(err)),
			Kind:    KindFault,
			Cause:   v,
			Stack:   stack,
		}
		var sc apis.StatusCoder
		if errors.As(err, &sc) && !isNil(sc) {
			out.Status = validStatus(safeStatus(sc))
		}
		var st apis.StackTracer
		if errors.As(err, &st) && !isNil(st) {
			if s := st.StackTrace(); s != "" {
				out.Stack = s
			}
		}
		return out
	case KindText:
		return &Error{
			Status:  http.StatusInternalServerError,
			Message: orUnknown(v.(string)),
			Kind:    KindText,
			Cause:   v,
			Stack:   stack,
		}
	default:
		return &Error{
			Status:  http.StatusInternalServerError,
			Message: UnknownMessage,
			Kind:    KindUnknown,
			Cause:   v,
			Stack:   stack,
		}
	}
}

// classify is the single shape check of the pipeline.
func classify(v any) (Kind, *Error, *apperr.AppError) {
	if v == nil || isNil(v) {
		return KindUnknown, nil, nil
	}
	if t, ok := v.(Transporter); ok {
		if te := t.TransportError(); te != nil {
			return KindTransport, te, nil
		}
	}
	switch x := v.(type) {
	case error:
		var (
			te *Error
			ae *apperr.AppError
		)
		walk(x, func(err error) bool {
			if isNil(err) {
				return false
			}
			if t, ok := err.(Transporter); ok {
				if te = t.TransportError(); te != nil {
					return true
				}
			}
			if a, ok := err.(*apperr.AppError); ok {
				ae = a
				return true
			}
			return false
		})
		switch {
		case te != nil:
			return KindTransport, te, nil
		case ae != nil:
			return KindAppFailure, nil, ae
		default:
			return KindFault, nil, nil
		}
	case string:
		return KindText, nil, nil
	default:
		return KindUnknown, nil, nil
	}
}

// walk visits err's chain depth-first in the same order as errors.As and
// stops when visit returns true.
func walk(err error, visit func(error) bool) bool {
	for err != nil {
		if visit(err) {
			return true
		}
		switch u := err.(type) {
		case interface{ Unwrap() error }:
			err = u.Unwrap()
		case interface{ Unwrap() []error }:
			for _, e := range u.Unwrap() {
				if walk(e, visit) {
					return true
				}
			}
			return false
		default:
			return false
		}
	}
	return false
}

func orUnknown(msg string) string {
	if msg == "" {
		return UnknownMessage
	}
	return msg
}

// safeMessage calls err.Error, turning a panicking implementation into a
// generic message.
func safeMessage(err error) (msg string) {
	defer func() {
		if r := recover(); r != nil {
			msg = fmt.Sprintf("%T", err)
		}
	}()
	return err.Error()
}

func safeStatus(sc apis.StatusCoder) (status int) {
	defer func() {
		if recover() != nil {
			status = http.StatusInternalServerError
		}
	}()
	return sc.StatusCode()
}

// isNil reports whether v is a nil pointer, map, slice, func, chan or
// interface hidden behind a non-nil interface value.
func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface, reflect.UnsafePointer:
		return rv.IsNil()
	default:
		return false
	}
}
