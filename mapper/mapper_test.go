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

package mapper

import (
	"errors"
	"strings"
	"sync"
	"testing"

	"dirpx.dev/apperr/apis"
	"dirpx.dev/apperr/category"
	"dirpx.dev/apperr/code"
	"google.golang.org/grpc/codes"
)

func TestDefaults_Basic(t *testing.T) {
	m, err := New()
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	// Spot-check a few canonical defaults from defaults.go
	check := func(c code.Code, cat category.Category, wantHTTP int, wantGRPC codes.Code) {
		t.Helper()
		st := m.Status(c, cat)
		if st.HTTP != wantHTTP || st.GRPC != wantGRPC {
			t.Fatalf("Status(%q, %q) got HTTP=%d GRPC=%v; want HTTP=%d GRPC=%v",
				c, cat, st.HTTP, st.GRPC, wantHTTP, wantGRPC)
		}
	}
	check(code.ValidationError, category.Validation, 400, codes.InvalidArgument)
	check(code.NotFound, category.NotFound, 404, codes.NotFound)
	check(code.OutOfStock, category.Conflict, 409, codes.FailedPrecondition)
	check(code.PaymentProviderError, category.ExternalService, 502, codes.Unavailable)
	check(code.TokenExpired, category.Authentication, 401, codes.Unauthenticated)
	check(code.ClientClosedRequest, category.Internal, 499, codes.Canceled)
	check(code.InternalServerError, category.Internal, 500, codes.Internal)
}

func TestDefaults_EveryRegistryCodeHasBothTransports(t *testing.T) {
	for c := range defaultHTTP {
		if _, ok := defaultGRPC[c]; !ok {
			t.Fatalf("code %q has an HTTP default but no gRPC default", c)
		}
		if !code.Known(c) {
			t.Fatalf("code %q is not in the registry", c)
		}
	}
	for _, cat := range category.All() {
		if _, ok := defaultCategoryGRPC[cat]; !ok {
			t.Fatalf("category %q has no gRPC default", cat)
		}
	}
}

func TestCategoryTier(t *testing.T) {
	m := MustNew(WithCategoryHTTP(category.RateLimit, 503))
	custom := code.Code("COUPON_THROTTLED")
	if got := m.HTTPStatus(custom, category.RateLimit); got != 503 {
		t.Fatalf("category override: got %d, want 503", got)
	}
	if got := m.GRPCStatus(custom, category.RateLimit); got != codes.ResourceExhausted {
		t.Fatalf("category default: got %v, want ResourceExhausted", got)
	}
	// A registry code keeps its own rule.
	if got := m.HTTPStatus(code.RateLimited, category.RateLimit); got != 429 {
		t.Fatalf("code default must beat category; got %d", got)
	}
}

func TestPriority_OverrideOverDefaultOverCategory_HTTP(t *testing.T) {
	m, err := New(
		WithCategoryHTTP(category.Conflict, 422), // category
		WithHTTPDefault(code.OutOfStock, 409),    // default
		WithHTTPOverride(code.OutOfStock, 410),   // override
	)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	st := m.Status(code.OutOfStock, category.Conflict)
	if st.HTTP != 410 {
		t.Fatalf("override must win; got %d, want 410", st.HTTP)
	}
}

func TestPriority_OverrideOverDefaultOverCategory_GRPC(t *testing.T) {
	m, err := New(
		WithCategoryGRPC(category.Conflict, int(codes.Internal)),
		WithGRPCDefault(code.OutOfStock, int(codes.ResourceExhausted)),
		WithGRPCOverride(code.OutOfStock, int(codes.Aborted)),
	)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	st := m.Status(code.OutOfStock, category.Conflict)
	if st.GRPC != codes.Aborted {
		t.Fatalf("override must win; got %v, want %v", st.GRPC, codes.Aborted)
	}
}

func TestFallback(t *testing.T) {
	m := MustNew()
	st := m.Status(code.Code("NOT_REGISTERED"), category.Category("NOPE"))
	if st.HTTP != 500 || st.GRPC != codes.Internal {
		t.Fatalf("fallback: got %+v", st)
	}
}

func TestFromHTTP(t *testing.T) {
	m := MustNew()
	cases := []struct {
		in   int
		want apis.Status
	}{
		{400, apis.Status{HTTP: 400, GRPC: codes.InvalidArgument}},
		{404, apis.Status{HTTP: 404, GRPC: codes.NotFound}},
		{418, apis.Status{HTTP: 418, GRPC: codes.InvalidArgument}},
		{499, apis.Status{HTTP: 499, GRPC: codes.Canceled}},
		{503, apis.Status{HTTP: 503, GRPC: codes.Unavailable}},
		{507, apis.Status{HTTP: 507, GRPC: codes.Internal}},
		{42, apis.Status{HTTP: 500, GRPC: codes.Internal}},
	}
	for _, tc := range cases {
		if got := m.FromHTTP(tc.in); got != tc.want {
			t.Fatalf("FromHTTP(%d) = %+v; want %+v", tc.in, got, tc.want)
		}
	}
}

func TestDescribe(t *testing.T) {
	m := MustNew(WithDescription(402, code.PaymentProviderError, category.ExternalService))

	check := func(status int, wantCode code.Code, wantCat category.Category) {
		t.Helper()
		c, cat := m.Describe(status)
		if c != wantCode || cat != wantCat {
			t.Fatalf("Describe(%d) = (%q, %q); want (%q, %q)", status, c, cat, wantCode, wantCat)
		}
	}
	check(400, code.BadRequest, category.Validation)
	check(404, code.NotFound, category.NotFound)
	check(402, code.PaymentProviderError, category.ExternalService)
	check(500, code.InternalServerError, category.Internal)
}

func TestNew_RejectsInvalidOptions(t *testing.T) {
	_, err := New(
		WithHTTPOverride(code.Code("bad code"), 400),
		WithHTTPDefault(code.NotFound, 1000),
		WithGRPCDefault(code.NotFound, 99),
		WithCategoryHTTP(category.Category("NOPE"), 400),
		WithDescription(42, code.BadRequest, category.Validation),
	)
	if err == nil {
		t.Fatalf("expected error")
	}
	if !errors.Is(err, code.ErrCodeInvalid) || !errors.Is(err, category.ErrCategoryInvalid) {
		t.Fatalf("error must wrap the taxonomy sentinels: %v", err)
	}
	for _, want := range []string{"outside 100..599", "outside 0..16", "mapper:"} {
		if !strings.Contains(err.Error(), want) {
			t.Fatalf("error %q does not mention %q", err, want)
		}
	}
}

func TestMustNew_Panics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("MustNew must panic on invalid options")
		}
	}()
	MustNew(WithHTTPOverride(code.NotFound, 0))
}

func TestDefault_IsShared(t *testing.T) {
	if Default() != Default() {
		t.Fatalf("Default must return the same snapshot")
	}
}

func TestExplain_Sources(t *testing.T) {
	m := MustNew(WithGRPCOverride(code.NotFound, int(codes.Unimplemented)))
	exp := m.Explain(code.NotFound, category.NotFound)
	if !strings.Contains(exp, "http: source=code -> 404") {
		t.Fatalf("Explain must show the code tier for HTTP:\n%s", exp)
	}
	if !strings.Contains(exp, "grpc: source=override -> UNIMPLEMENTED(12)") {
		t.Fatalf("Explain must show the override tier for gRPC:\n%s", exp)
	}
}

func TestImmutability(t *testing.T) {
	opts := []Option{WithHTTPOverride(code.NotFound, 410)}
	m := MustNew(opts...)
	// Mutating the package defaults after build must not leak into m.
	orig := defaultHTTP[code.Conflict]
	defaultHTTP[code.Conflict] = 418
	defer func() { defaultHTTP[code.Conflict] = orig }()

	if got := m.HTTPStatus(code.Conflict, category.Conflict); got != 409 {
		t.Fatalf("snapshot changed after build: got %d", got)
	}
}

func TestConcurrency_MapperStatus(t *testing.T) {
	m, err := New(
		WithHTTPOverride(code.ClientClosedRequest, 408),
	)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 2000; j++ {
				_ = m.Status(code.OutOfStock, category.Conflict)
				_ = m.Status(code.ClientClosedRequest, category.Internal)
				_ = m.FromHTTP(503)
				_, _ = m.Describe(404)
			}
		}()
	}
	wg.Wait()
}

func BenchmarkMapperStatus_Default(t *testing.B) {
	m, _ := New()
	t.ReportAllocs()
	for i := 0; i < t.N; i++ {
		_ = m.Status(code.ValidationError, category.Validation)
	}
}

func BenchmarkMapperStatus_Category(t *testing.B) {
	m, _ := New()
	c := code.Code("GIFT_CARD_DECLINED")
	t.ReportAllocs()
	for i := 0; i < t.N; i++ {
		_ = m.Status(c, category.Validation)
	}
}

// Ensure mapper implements apis.Mapper
func TestMapper_InterfaceSatisfaction(t *testing.T) {
	var _ apis.Mapper = (*mapper)(nil)
}
