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

// Package adapter turns normalized failures into the descriptions the
// responders emit, and translates well-known library errors into failures
// that carry an HTTP status.
//
// Describe holds the operational / non-operational policy in one place so
// that the HTTP and gRPC responders cannot drift apart: operational failures
// surface their own message, code, details and context; everything else
// surfaces a generic message derived from the status, and its detail only
// reaches the logs.
package adapter

import (
	"fmt"
	"net/http"
	"time"

	"dirpx.dev/apperr"
	"dirpx.dev/apperr/apis"
	"dirpx.dev/apperr/boundary"
	"dirpx.dev/apperr/category"
	"dirpx.dev/apperr/code"
	"dirpx.dev/apperr/mapper"
	"dirpx.dev/apperr/sanitize"
	"dirpx.dev/apperr/severity"
	"google.golang.org/grpc/codes"
)

// Failure is everything a responder needs to answer and log one failure.
type Failure struct {
	// Status is the HTTP status of the response, always in 400..599.
	Status int
	// GRPC is the gRPC status code for the same failure.
	GRPC codes.Code

	// Message is the client-facing message.
	Message string
	// Detail is the full internal message; it is logged, never returned
	// for non-operational failures.
	Detail string

	Code        code.Code
	Category    category.Category
	Severity    severity.Severity
	Operational bool

	// LogCode and LogCategory are the taxonomy written to the error log.
	// They only differ from Code and Category for an AppError marked
	// non-operational, whose own taxonomy stays out of the response.
	LogCode     code.Code
	LogCategory category.Category

	// Details and Context are only set for operational failures. Context is
	// already sanitized.
	Details    any
	Context    map[string]any
	RetryAfter time.Duration

	// Name is the Go type of the original failure value.
	Name  string
	Stack string
	Kind  boundary.Kind
}

// ClientError reports whether the failure is the caller's fault (4xx).
func (f Failure) ClientError() bool { return f.Status < 500 }

// Describe applies the response policy to a normalized failure. A nil te is
// treated as boundary.Normalize(nil); a nil m as mapper.Default().
//
// Statuses below 400 are not failures from the client's point of view and
// are answered as 500.
func Describe(te *boundary.Error, m apis.Mapper) Failure {
	if te == nil {
		te = boundary.Normalize(nil)
	}
	if m == nil {
		m = mapper.Default()
	}

	status := te.Status
	if status < 400 || status > 599 {
		status = http.StatusInternalServerError
	}

	f := Failure{
		Status: status,
		Detail: te.Message,
		Name:   typeName(te),
		Stack:  te.Stack,
		Kind:   te.Kind,
	}

	ae, ok := apperr.As(te)
	if ok && ae.IsOperational() {
		f.Operational = true
		f.Message = te.Message
		if ae.Message() != "" {
			f.Message = ae.Message()
		}
		f.Code, f.Category = ae.Code(), ae.Category()
		if code.Validate(f.Code) != nil || category.Validate(f.Category) != nil {
			dc, dcat := m.Describe(status)
			if code.Validate(f.Code) != nil {
				f.Code = dc
			}
			if category.Validate(f.Category) != nil {
				f.Category = dcat
			}
		}
		f.Severity = ae.Severity()
		if severity.Validate(f.Severity) != nil {
			f.Severity = defaultSeverity(status)
		}
		f.GRPC = m.GRPCStatus(f.Code, f.Category)
		f.Details = ae.Details()
		if fields := ae.Context().Fields(); fields != nil {
			f.Context, _ = sanitize.Sanitize(fields).(map[string]any)
		}
		f.RetryAfter = ae.RetryAfter()
		f.LogCode, f.LogCategory = f.Code, f.Category
		return f
	}

	// Programming failure: nothing from the value reaches the client.
	f.Message = http.StatusText(status)
	if f.Message == "" {
		f.Message = boundary.UnknownMessage
	}
	f.Code, f.Category = m.Describe(status)
	f.LogCode, f.LogCategory = f.Code, f.Category
	f.Severity = incidentSeverity(status)
	if ok {
		// An AppError explicitly marked non-operational keeps its taxonomy
		// in the logs only, and never drops below the incident severity.
		f.LogCode = ae.Code().Or(f.Code)
		if category.Validate(ae.Category()) == nil {
			f.LogCategory = ae.Category()
		}
		f.Severity = severity.Max(ae.Severity(), f.Severity)
	}
	f.GRPC = m.FromHTTP(status).GRPC
	return f
}

// incidentSeverity is the severity of a non-operational failure.
func incidentSeverity(status int) severity.Severity {
	if status >= 500 {
		return severity.Critical
	}
	return severity.Medium
}

// defaultSeverity is used when an operational failure carries none.
func defaultSeverity(status int) severity.Severity {
	if status >= 500 {
		return severity.High
	}
	return severity.Low
}

// typeName reports the Go type of the value that originally failed.
func typeName(te *boundary.Error) string {
	switch {
	case te.Kind == boundary.KindTransport:
		if inner := te.Unwrap(); inner != nil {
			return fmt.Sprintf("%T", inner)
		}
		return fmt.Sprintf("%T", te)
	case te.Cause == nil:
		return "<nil>"
	default:
		return fmt.Sprintf("%T", te.Cause)
	}
}

// ShouldRecord reports whether a failure is sent to the error sink: every
// incident (non-operational or 5xx) and operational failures of at least
// MEDIUM severity.
func (f Failure) ShouldRecord() bool {
	return !f.Operational || f.Status >= 500 || f.Severity.AtLeast(severity.Medium)
}
