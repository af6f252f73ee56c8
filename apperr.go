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

// Package apperr is the canonical failure value of the storefront API.
//
// An AppError is constructed at the point where a handler or service detects
// an anticipated condition ("cart is empty", "product not found") and flows
// upward unchanged until the request boundary normalizes it. It carries four
// orthogonal axes:
//
//   - Code: stable machine identifier clients branch on (package code);
//   - Category: what kind of condition it is (package category);
//   - Severity: how bad it is (package severity);
//   - operational flag: expected business failure vs. bug.
//
// Anything raised through this package is operational by default. Faults that
// never went through here (runtime panics, raw library errors) are classified
// as programming failures by IsOperational.
package apperr

import (
	"fmt"
	"time"

	"dirpx.dev/apperr/category"
	"dirpx.dev/apperr/code"
	"dirpx.dev/apperr/severity"
)

// AppError is the canonical domain failure value.
//
// All fields are set once by New and exposed through read-only accessors.
// There are no mutators: an AppError can be shared between goroutines and
// compared structurally.
type AppError struct {
	message     string
	statusCode  int
	code        code.Code
	category    category.Category
	severity    severity.Severity
	operational bool
	details     any
	context     ErrorContext
	retryAfter  time.Duration
	cause       error
	stack       []uintptr
}

// New constructs an AppError and captures the caller's stack.
//
// Usage:
//
//	return apperr.New("This is a custom test error", http.StatusInternalServerError,
//	    code.InternalServerError, category.Internal, severity.Low,
//	    apperr.WithContext(apperr.ErrorContext{Operation: "cart.checkout"}),
//	)
//
// The error is operational unless WithOperational(false) is passed.
func New(message string, statusCode int, c code.Code, cat category.Category, sev severity.Severity, opts ...Option) *AppError {
	return newAppError(1, message, statusCode, c, cat, sev, opts)
}

// newAppError is shared by New and the category constructors. skip counts the
// exported frames between the caller and this function.
func newAppError(skip int, message string, statusCode int, c code.Code, cat category.Category, sev severity.Severity, opts []Option) *AppError {
	e := &AppError{
		message:     message,
		statusCode:  statusCode,
		code:        c,
		category:    cat,
		severity:    sev,
		operational: true,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.stack = callers(skip + 1)
	return e
}

// Error implements the built-in error interface.
//
// The format is:
//
//	<CODE>: <message>
func (e *AppError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("%s: %s", e.code, e.message)
}

// Unwrap returns the underlying cause, enabling errors.Is / errors.As chains.
func (e *AppError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.cause
}

// Message returns the human-readable message.
func (e *AppError) Message() string { return e.message }

// StatusCode returns the HTTP status chosen by the author of the error.
func (e *AppError) StatusCode() int { return e.statusCode }

// Code returns the machine-readable error code.
func (e *AppError) Code() code.Code { return e.code }

// Category returns the error category.
func (e *AppError) Category() category.Category { return e.category }

// Severity returns the error severity.
func (e *AppError) Severity() severity.Severity { return e.severity }

// IsOperational reports the flag fixed at construction.
func (e *AppError) IsOperational() bool { return e.operational }

// Details returns the opaque details payload, or nil.
func (e *AppError) Details() any { return e.details }

// Context returns a copy of the error context.
func (e *AppError) Context() ErrorContext { return e.context.clone() }

// RetryAfter returns the retry hint, or zero when none was given.
func (e *AppError) RetryAfter() time.Duration { return e.retryAfter }

// StackTrace returns the stack captured at construction, one frame per
// "function\n\tfile:line" pair.
func (e *AppError) StackTrace() string { return formatStack(e.stack) }

// Validate checks the taxonomy fields. The pipeline tolerates invalid values
// (it falls back to status-derived ones), so this is meant for tests and
// registries that want to catch mistakes early.
func (e *AppError) Validate() error {
	if err := code.Validate(e.code); err != nil {
		return fmt.Errorf("apperr: code %q: %w", e.code, err)
	}
	if err := category.Validate(e.category); err != nil {
		return fmt.Errorf("apperr: category %q: %w", e.category, err)
	}
	if err := severity.Validate(e.severity); err != nil {
		return fmt.Errorf("apperr: severity %d: %w", e.severity, err)
	}
	if e.statusCode < 100 || e.statusCode > 599 {
		return fmt.Errorf("apperr: status %d outside 100..599", e.statusCode)
	}
	return nil
}
