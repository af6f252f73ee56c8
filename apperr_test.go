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

package apperr

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"
	"time"

	"dirpx.dev/apperr/category"
	"dirpx.dev/apperr/code"
	"dirpx.dev/apperr/severity"
)

func customTestError() *AppError {
	return New("This is a custom test error", http.StatusInternalServerError,
		code.InternalServerError, category.Internal, severity.Low)
}

func TestAppError_Basics(t *testing.T) {
	e := customTestError()

	if e.Message() != "This is a custom test error" {
		t.Fatalf("message = %q", e.Message())
	}
	if e.StatusCode() != 500 || e.Code() != code.InternalServerError {
		t.Fatalf("status/code = %d/%q", e.StatusCode(), e.Code())
	}
	if e.Category() != category.Internal || e.Severity() != severity.Low {
		t.Fatalf("category/severity = %q/%v", e.Category(), e.Severity())
	}
	if !e.IsOperational() {
		t.Fatal("New must produce operational errors by default")
	}
	if e.Details() != nil || !e.Context().IsZero() {
		t.Fatal("details/context must be empty by default")
	}
	if err := e.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if got := e.Error(); got != "INTERNAL_SERVER_ERROR: This is a custom test error" {
		t.Fatalf("Error() = %q", got)
	}
}

func TestAppError_CapturesCallerStack(t *testing.T) {
	e := customTestError()
	st := e.StackTrace()
	if !strings.Contains(st, "customTestError") {
		t.Fatalf("stack must start at the constructing function, got:\n%s", st)
	}
	if strings.Contains(st, "newAppError") {
		t.Fatalf("stack must not include constructor internals, got:\n%s", st)
	}

	nf := NotFound("product not found")
	if !strings.Contains(nf.StackTrace(), "TestAppError_CapturesCallerStack") {
		t.Fatalf("category constructors must capture the caller, got:\n%s", nf.StackTrace())
	}
}

func TestAppError_Options(t *testing.T) {
	root := errors.New("connection reset")
	ctx := ErrorContext{Operation: "cart.add", Resource: "product", ResourceID: "sku-1"}
	e := ExternalService("payment provider unavailable",
		WithCause(root),
		WithContext(ctx.With("provider", "stripe")),
		WithDetails(map[string]any{"attempts": 3}),
		WithRetryAfter(30*time.Second),
	)

	if !errors.Is(e, root) || errors.Unwrap(e) != root {
		t.Fatal("cause must be reachable through Unwrap")
	}
	if e.Context().Operation != "cart.add" || e.Context().Extra["provider"] != "stripe" {
		t.Fatalf("context = %+v", e.Context())
	}
	if e.RetryAfter() != 30*time.Second {
		t.Fatalf("retry after = %v", e.RetryAfter())
	}
	if e.StatusCode() != http.StatusBadGateway || e.Severity() != severity.Medium {
		t.Fatalf("status/severity = %d/%v", e.StatusCode(), e.Severity())
	}
	if New("x", 429, code.RateLimited, category.RateLimit, severity.Low, WithRetryAfter(-time.Second)).RetryAfter() != 0 {
		t.Fatal("negative retry hints must be ignored")
	}
}

func TestAppError_ContextIsCopied(t *testing.T) {
	extra := map[string]any{"k": 1}
	e := Validation("bad", WithContext(ErrorContext{Extra: extra}))
	extra["k"] = 2

	if e.Context().Extra["k"] != 1 {
		t.Fatal("construction must copy the Extra map")
	}
	got := e.Context()
	got.Extra["k"] = 3
	if e.Context().Extra["k"] != 1 {
		t.Fatal("Context() must return a copy")
	}
}

func TestConstructors(t *testing.T) {
	tests := []struct {
		e        *AppError
		status   int
		code     code.Code
		category category.Category
		severity severity.Severity
	}{
		{Validation("x"), 400, code.ValidationError, category.Validation, severity.Low},
		{Unauthenticated("x"), 401, code.Unauthorized, category.Authentication, severity.Low},
		{Forbidden("x"), 403, code.Forbidden, category.Authorization, severity.Low},
		{NotFound("x"), 404, code.NotFound, category.NotFound, severity.Low},
		{Conflict("x"), 409, code.Conflict, category.Conflict, severity.Low},
		{RateLimited("x"), 429, code.RateLimited, category.RateLimit, severity.Low},
		{ExternalService("x"), 502, code.ExternalServiceError, category.ExternalService, severity.Medium},
		{Database("x"), 500, code.DatabaseError, category.Database, severity.High},
		{Internal("x"), 500, code.InternalServerError, category.Internal, severity.High},
	}
	for _, tt := range tests {
		if tt.e.StatusCode() != tt.status || tt.e.Code() != tt.code ||
			tt.e.Category() != tt.category || tt.e.Severity() != tt.severity {
			t.Fatalf("%s: got %d/%s/%s/%s", tt.code, tt.e.StatusCode(), tt.e.Code(), tt.e.Category(), tt.e.Severity())
		}
		if !tt.e.IsOperational() {
			t.Fatalf("%s: constructors must be operational", tt.code)
		}
		if err := tt.e.Validate(); err != nil {
			t.Fatalf("%s: Validate: %v", tt.code, err)
		}
	}
}

func TestValidate_RejectsBadTaxonomy(t *testing.T) {
	bad := []*AppError{
		New("x", 500, code.Code("lower"), category.Internal, severity.Low),
		New("x", 500, code.InternalServerError, category.Category("OTHER"), severity.Low),
		New("x", 500, code.InternalServerError, category.Internal, severity.Unspecified),
		New("x", 700, code.InternalServerError, category.Internal, severity.Low),
	}
	for i, e := range bad {
		if e.Validate() == nil {
			t.Fatalf("case %d: Validate must fail", i)
		}
	}
}

func TestIsOperational(t *testing.T) {
	if !IsOperational(customTestError()) {
		t.Fatal("AppError from New must be operational")
	}
	if !IsOperational(fmt.Errorf("checkout: %w", NotFound("cart"))) {
		t.Fatal("wrapped AppError must stay operational")
	}
	if IsOperational(Internal("x", WithOperational(false))) {
		t.Fatal("explicit WithOperational(false) must classify as programming failure")
	}

	var nilApp *AppError
	notOperational := []any{
		errors.New("boom"),
		"plain string",
		42,
		nil,
		nilApp,
		map[string]any{"isOperational": true},
		runtimeFault(t),
	}
	for _, v := range notOperational {
		if IsOperational(v) {
			t.Fatalf("IsOperational(%#v) = true, want false", v)
		}
	}
}

// runtimeFault returns the value recovered from a nil-map write.
func runtimeFault(t *testing.T) (fault any) {
	t.Helper()
	defer func() { fault = recover() }()
	var m map[string]int
	m["boom"] = 1
	return nil
}

func TestErrorContext_Fields(t *testing.T) {
	var zero ErrorContext
	if zero.Fields() != nil {
		t.Fatal("zero context must flatten to nil")
	}

	c := ErrorContext{UserID: "u1"}.
		WithOperation("order.create").
		WithResource("order", "o-9").
		WithRequestID("req-1").
		With("operation", "shadowed").
		With("items", 3)

	f := c.Fields()
	want := map[string]any{
		KeyUserID:     "u1",
		KeyOperation:  "order.create",
		KeyResource:   "order",
		KeyResourceID: "o-9",
		KeyRequestID:  "req-1",
		"items":       3,
	}
	if len(f) != len(want) {
		t.Fatalf("Fields() = %v", f)
	}
	for k, v := range want {
		if f[k] != v {
			t.Fatalf("Fields()[%q] = %v, want %v", k, f[k], v)
		}
	}

	b, err := json.Marshal(ErrorContext{Resource: "cart"})
	if err != nil || string(b) != `{"resource":"cart"}` {
		t.Fatalf("MarshalJSON = %s, %v", b, err)
	}
	if b, _ := json.Marshal(zero); string(b) != "{}" {
		t.Fatalf("zero MarshalJSON = %s", b)
	}
}

func TestErrorContext_CopyOnWrite(t *testing.T) {
	base := ErrorContext{}.With("a", 1)
	derived := base.With("b", 2)
	if _, ok := base.Extra["b"]; ok {
		t.Fatal("With must not mutate the receiver")
	}
	if len(derived.Extra) != 2 {
		t.Fatalf("derived extra = %v", derived.Extra)
	}
}
