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
	"fmt"
	"strings"
	"sync"

	"dirpx.dev/apperr/apis"
	"dirpx.dev/apperr/category"
	"dirpx.dev/apperr/code"
	"google.golang.org/grpc/codes"
)

// maxGRPCCode is the highest canonical gRPC status code (Unauthenticated).
const maxGRPCCode = int(codes.Unauthenticated)

// New constructs an immutable apis.Mapper snapshot.
//
// The resulting apis.Mapper is fully thread-safe and designed for long-lived reuse.
// Each build creates a self-contained mapper instance: no shared references
// to global state or user-provided structures remain.
//
// Build process overview:
//
//  1. Seed the builder with library defaults (per code and per category).
//  2. Apply user-provided options (defaults, overrides, descriptions).
//  3. Validate every key and status.
//  4. Freeze all maps into immutable copies (fresh allocations).
//
// Errors returned from this function list every invalid code, category or
// status found in the options.
func New(opts ...Option) (apis.Mapper, error) {
	// (0) Start with an empty builder.
	b := newBuilder()

	// (1) Seed the builder with package-level defaults.
	// Copy into builder-owned maps to prevent external mutation.
	for k, v := range defaultHTTP {
		b.httpDefaults[k] = v
	}
	for k, v := range defaultGRPC {
		// Keep values as int for internal uniformity;
		// convert to codes.Code when freezing the final snapshot.
		b.grpcDefaults[k] = int(v)
	}
	for _, cat := range category.All() {
		b.categoryHTTP[cat] = category.DefaultStatus(cat)
		b.categoryGRPC[cat] = int(defaultCategoryGRPC[cat])
	}

	// (2) Apply user-supplied options.
	for _, opt := range opts {
		opt(b)
	}

	// (3) Validate.
	if err := b.validate(); err != nil {
		return nil, fmt.Errorf("mapper: %w", err)
	}

	// (4) Freeze everything into a read-only snapshot.
	m := &mapper{
		httpDefault:  freeze(b.httpDefaults, identity),
		grpcDefault:  freeze(b.grpcDefaults, toGRPC),
		httpOverride: freeze(b.httpOverride, identity),
		grpcOverride: freeze(b.grpcOverride, toGRPC),
		categoryHTTP: freeze(b.categoryHTTP, identity),
		categoryGRPC: freeze(b.categoryGRPC, toGRPC),
		describe:     freeze(b.describe, func(d description) description { return d }),

		fallbackHTTP: b.fallbackHTTP,
		fallbackGRPC: b.fallbackGRPC,
	}

	return m, nil
}

// MustNew is like New but panics on invalid options. Intended for
// package-level variables and tests.
func MustNew(opts ...Option) apis.Mapper {
	m, err := New(opts...)
	if err != nil {
		panic(err)
	}
	return m
}

var defaultMapper = sync.OnceValue(func() apis.Mapper { return MustNew() })

// Default returns the shared mapper built from library defaults only.
func Default() apis.Mapper { return defaultMapper() }

// validate collects every problem instead of stopping at the first one.
func (b *builder) validate() error {
	var errs []error
	checkCode := func(kind string, c code.Code) {
		if err := code.Validate(c); err != nil {
			errs = append(errs, fmt.Errorf("%s: code %q: %w", kind, c, err))
		}
	}
	checkCategory := func(kind string, cat category.Category) {
		if err := category.Validate(cat); err != nil {
			errs = append(errs, fmt.Errorf("%s: category %q: %w", kind, cat, err))
		}
	}
	checkHTTP := func(kind string, key any, v int) {
		if v < 100 || v > 599 {
			errs = append(errs, fmt.Errorf("%s: %v: HTTP status %d outside 100..599", kind, key, v))
		}
	}
	checkGRPC := func(kind string, key any, v int) {
		if v < 0 || v > maxGRPCCode {
			errs = append(errs, fmt.Errorf("%s: %v: gRPC code %d outside 0..%d", kind, key, v, maxGRPCCode))
		}
	}

	for c, v := range b.httpDefaults {
		checkCode("http default", c)
		checkHTTP("http default", c, v)
	}
	for c, v := range b.grpcDefaults {
		checkCode("grpc default", c)
		checkGRPC("grpc default", c, v)
	}
	for c, v := range b.httpOverride {
		checkCode("http override", c)
		checkHTTP("http override", c, v)
	}
	for c, v := range b.grpcOverride {
		checkCode("grpc override", c)
		checkGRPC("grpc override", c, v)
	}
	for cat, v := range b.categoryHTTP {
		checkCategory("category http", cat)
		checkHTTP("category http", cat, v)
	}
	for cat, v := range b.categoryGRPC {
		checkCategory("category grpc", cat)
		checkGRPC("category grpc", cat, v)
	}
	for status, d := range b.describe {
		checkHTTP("description", "status", status)
		checkCode("description", d.code)
		checkCategory("description", d.category)
	}
	return errors.Join(errs...)
}

// mapper is an immutable mapper implementation that combines per-code
// overrides, per-code defaults and per-category defaults. Lookups are a few
// map reads and safe for concurrent use once constructed.
type mapper struct {
	// httpOverride holds explicit HTTP statuses for specific codes.
	// These take precedence over everything else.
	httpOverride map[code.Code]int

	// grpcOverride holds explicit gRPC statuses for specific codes.
	grpcOverride map[code.Code]codes.Code

	// httpDefault holds the base HTTP status for a given logical error code.
	httpDefault map[code.Code]int

	// grpcDefault holds the base gRPC status for a given logical error code.
	grpcDefault map[code.Code]codes.Code

	// categoryHTTP / categoryGRPC resolve codes that have no rule of their
	// own, e.g. product-specific codes outside the registry.
	categoryHTTP map[category.Category]int
	categoryGRPC map[category.Category]codes.Code

	// describe holds user-registered answers for Describe.
	describe map[int]description

	// fallbackHTTP is used when neither code nor category resolves.
	fallbackHTTP int

	// fallbackGRPC is used when neither code nor category resolves.
	fallbackGRPC codes.Code
}

// HTTPStatus resolves an HTTP status for the given code and category.
//
// Resolution order (highest to lowest):
//  1. exact per-code override;
//  2. per-code default (library or user overridden);
//  3. per-category default;
//  4. hardcoded ultimate fallback (500).
func (m *mapper) HTTPStatus(c code.Code, cat category.Category) int {
	v, _ := m.resolveHTTP(c, cat)
	return v
}

// GRPCStatus resolves a gRPC status for the given code and category.
// Uses the same precedence as HTTPStatus, but returns gRPC codes.
func (m *mapper) GRPCStatus(c code.Code, cat category.Category) codes.Code {
	v, _ := m.resolveGRPC(c, cat)
	return v
}

// Status resolves both HTTP and gRPC using the same inputs.
// This keeps HTTP/GRPC decisions consistent for a single logical error.
func (m *mapper) Status(c code.Code, cat category.Category) apis.Status {
	return apis.Status{
		HTTP: m.HTTPStatus(c, cat),
		GRPC: m.GRPCStatus(c, cat),
	}
}

// FromHTTP resolves the gRPC counterpart of a bare HTTP status. Invalid
// statuses are treated as 500.
func (m *mapper) FromHTTP(status int) apis.Status {
	if status < 100 || status > 599 {
		status = m.fallbackHTTP
	}
	if v, ok := grpcByHTTP[status]; ok {
		return apis.Status{HTTP: status, GRPC: v}
	}
	if status >= 400 && status < 500 {
		return apis.Status{HTTP: status, GRPC: codes.InvalidArgument}
	}
	return apis.Status{HTTP: status, GRPC: m.fallbackGRPC}
}

// Describe returns the code and category that best explain a bare HTTP
// status: a registered description if any, otherwise code.FromStatus and
// category.FromStatus.
func (m *mapper) Describe(status int) (code.Code, category.Category) {
	if d, ok := m.describe[status]; ok {
		return d.code, d.category
	}
	return code.FromStatus(status), category.FromStatus(status)
}

func (m *mapper) resolveHTTP(c code.Code, cat category.Category) (int, string) {
	if v, ok := m.httpOverride[c]; ok {
		return v, "override"
	}
	if v, ok := m.httpDefault[c]; ok {
		return v, "code"
	}
	if v, ok := m.categoryHTTP[cat]; ok {
		return v, "category"
	}
	return m.fallbackHTTP, "fallback"
}

func (m *mapper) resolveGRPC(c code.Code, cat category.Category) (codes.Code, string) {
	if v, ok := m.grpcOverride[c]; ok {
		return v, "override"
	}
	if v, ok := m.grpcDefault[c]; ok {
		return v, "code"
	}
	if v, ok := m.categoryGRPC[cat]; ok {
		return v, "category"
	}
	return m.fallbackGRPC, "fallback"
}

// Explain produces a textual trace of how the mapper resolved HTTP and gRPC
// statuses for a particular (code, category) pair.
//
// This is primarily a diagnostic tool: it shows which tier matched.
//
// Example output:
//
//	code="OUT_OF_STOCK" category="CONFLICT"
//	http: source=code -> 409
//	grpc: source=code -> FAILEDPRECONDITION(9)
//
// Notes:
//   - source ∈ {override | code | category | fallback}
func (m *mapper) Explain(c code.Code, cat category.Category) string {
	var b strings.Builder
	_, _ = fmt.Fprintf(&b, "code=%q category=%q\n", c, cat)

	httpStatus, httpSrc := m.resolveHTTP(c, cat)
	_, _ = fmt.Fprintf(&b, "http: source=%s -> %d\n", httpSrc, httpStatus)

	grpcStatus, grpcSrc := m.resolveGRPC(c, cat)
	_, _ = fmt.Fprintf(&b, "grpc: source=%s -> %s(%d)", grpcSrc, strings.ToUpper(grpcStatus.String()), int(grpcStatus))

	return b.String()
}

// freeze makes an immutable copy of src, converting values with conv.
// Used when finalizing the mapper so later mutations to the builder
// (or caller-owned maps) cannot affect the mapper.
func freeze[K comparable, V, W any](src map[K]V, conv func(V) W) map[K]W {
	if len(src) == 0 {
		return nil
	}
	dst := make(map[K]W, len(src))
	for k, v := range src {
		dst[k] = conv(v)
	}
	return dst
}

func identity(v int) int { return v }

func toGRPC(v int) codes.Code { return codes.Code(v) }
