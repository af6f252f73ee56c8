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
	"fmt"
	"net/http"
)

// UnknownMessage is the message used when a failure carries none.
const UnknownMessage = "Unknown error occurred"

// Kind tells where a transport error came from. It is computed once, by
// Normalize, and is the only shape discriminant the rest of the pipeline
// looks at.
type Kind uint8

const (
	// KindUnknown is a value of no recognised shape (nil, numbers, maps,
	// typed nil pointers).
	KindUnknown Kind = iota

	// KindTransport is a value that was already a transport error.
	KindTransport

	// KindAppFailure is an *apperr.AppError (possibly wrapped).
	KindAppFailure

	// KindFault is any other error value: library errors, runtime faults.
	KindFault

	// KindText is a bare string.
	KindText
)

var kindNames = [...]string{
	KindUnknown:    "UNKNOWN",
	KindTransport:  "TRANSPORT",
	KindAppFailure: "APP_FAILURE",
	KindFault:      "FAULT",
	KindText:       "TEXT",
}

// String returns the upper-case name of the kind.
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// Transporter is the capability of being an already-normalized transport
// error. Normalize returns the result of TransportError unchanged whenever it
// is non-nil.
type Transporter interface {
	TransportError() *Error
}

// Error is the canonical normalized failure: every value that reaches a
// responder has exactly this shape.
//
// Status is always within 100..599 for values produced by this package.
// Cause keeps the original value for logging; it is never serialized.
type Error struct {
	Status  int    `json:"statusCode"`
	Message string `json:"message"`
	Kind    Kind   `json:"-"`
	Cause   any    `json:"-"`
	Stack   string `json:"-"`
}

// New returns a library-style transport error with the given status.
//
// An invalid status becomes 500; an empty message becomes the status text.
//
//	return boundary.New(http.StatusBadRequest, "")  // 400 "Bad Request"
func New(status int, message string) *Error {
	status = validStatus(status)
	if message == "" {
		message = http.StatusText(status)
	}
	return &Error{Status: status, Message: message, Kind: KindTransport}
}

// Wrap is like New but keeps err as the cause and uses its text as message.
func Wrap(status int, err error) *Error {
	te := New(status, "")
	if err != nil {
		if msg := safeMessage(err); msg != "" {
			te.Message = msg
		}
		te.Cause = err
	}
	return te
}

// Error implements the built-in error interface.
func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	return e.Message
}

// Unwrap returns the cause when it is an error.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	err, _ := e.Cause.(error)
	return err
}

// StatusCode implements apis.StatusCoder.
func (e *Error) StatusCode() int { return e.Status }

// StackTrace implements apis.StackTracer.
func (e *Error) StackTrace() string { return e.Stack }

// TransportError implements Transporter. A nil receiver reports nil so that a
// typed nil never short-circuits normalization.
func (e *Error) TransportError() *Error { return e }

// ClientError reports whether the status is in the 4xx range.
func (e *Error) ClientError() bool { return e.Status >= 400 && e.Status < 500 }

func validStatus(status int) int {
	if status < 100 || status > 599 {
		return http.StatusInternalServerError
	}
	return status
}
