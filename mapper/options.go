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
	"dirpx.dev/apperr/category"
	"dirpx.dev/apperr/code"
)

// Option configures the Mapper at build time.
// All options are applied to an internal builder and then frozen into
// an immutable Mapper.
type Option func(*builder)

// WithHTTPDefault sets or replaces the library-level default HTTP status
// for the given error code.
func WithHTTPDefault(c code.Code, http int) Option {
	return func(b *builder) { b.httpDefaults[c] = http }
}

// WithGRPCDefault sets or replaces the library-level default gRPC status
// for the given error code.
func WithGRPCDefault(c code.Code, grpc int) Option {
	return func(b *builder) { b.grpcDefaults[c] = grpc }
}

// WithHTTPOverride registers an exact HTTP override for the given code.
// Overrides take precedence over every other rule.
func WithHTTPOverride(c code.Code, http int) Option {
	return func(b *builder) { b.httpOverride[c] = http }
}

// WithGRPCOverride registers an exact gRPC override for the given code.
// Overrides take precedence over every other rule.
func WithGRPCOverride(c code.Code, grpc int) Option {
	return func(b *builder) { b.grpcOverride[c] = grpc }
}

// WithCategoryHTTP replaces the HTTP status used for codes of the given
// category that have no rule of their own.
func WithCategoryHTTP(cat category.Category, http int) Option {
	return func(b *builder) { b.categoryHTTP[cat] = http }
}

// WithCategoryGRPC replaces the gRPC status used for codes of the given
// category that have no rule of their own.
func WithCategoryGRPC(cat category.Category, grpc int) Option {
	return func(b *builder) { b.categoryGRPC[cat] = grpc }
}

// WithDescription registers the code and category that Describe reports
// for a bare HTTP status, replacing code.FromStatus / category.FromStatus.
func WithDescription(status int, c code.Code, cat category.Category) Option {
	return func(b *builder) { b.describe[status] = description{code: c, category: cat} }
}
