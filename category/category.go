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

package category

import (
	"bytes"
	"encoding"
	"errors"
	"net/http"
	"strings"
)

// Category is one of the closed set of error categories.
type Category string

const (
	// Validation covers malformed or rule-violating input.
	Validation Category = "VALIDATION"
	// Authentication covers missing, invalid or expired credentials.
	Authentication Category = "AUTHENTICATION"
	// Authorization covers authenticated callers lacking permission.
	Authorization Category = "AUTHORIZATION"
	// NotFound covers references to absent resources.
	NotFound Category = "NOT_FOUND"
	// Conflict covers state clashes (duplicates, stale versions, stock).
	Conflict Category = "CONFLICT"
	// RateLimit covers throttling and quota exhaustion.
	RateLimit Category = "RATE_LIMIT"
	// ExternalService covers failing downstream services.
	ExternalService Category = "EXTERNAL_SERVICE"
	// Database covers persistence failures.
	Database Category = "DATABASE"
	// Internal covers everything unclassified on the server side.
	Internal Category = "INTERNAL"
)

var (
	// ErrCategoryInvalid is returned when a value is not one of the declared
	// categories.
	ErrCategoryInvalid = errors.New("apperr: invalid category")
)

var (
	_ encoding.TextMarshaler   = (*Category)(nil)
	_ encoding.TextUnmarshaler = (*Category)(nil)
)

// all lists the categories in declaration order.
var all = []Category{
	Validation,
	Authentication,
	Authorization,
	NotFound,
	Conflict,
	RateLimit,
	ExternalService,
	Database,
	Internal,
}

// defaultStatus is the HTTP status a category maps to when the error itself
// does not say otherwise.
var defaultStatus = map[Category]int{
	Validation:      http.StatusBadRequest,
	Authentication:  http.StatusUnauthorized,
	Authorization:   http.StatusForbidden,
	NotFound:        http.StatusNotFound,
	Conflict:        http.StatusConflict,
	RateLimit:       http.StatusTooManyRequests,
	ExternalService: http.StatusBadGateway,
	Database:        http.StatusInternalServerError,
	Internal:        http.StatusInternalServerError,
}

// All returns a fresh slice with every category in declaration order.
func All() []Category {
	out := make([]Category, len(all))
	copy(out, all)
	return out
}

// Normalize trims and uppercases s and replaces '-' and spaces with '_'.
// It does NOT guarantee validity.
func Normalize(s string) string {
	s = strings.TrimSpace(s)
	s = strings.ToUpper(s)
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, " ", "_")
	return s
}

// Parse normalizes s and returns the matching Category.
func Parse(s string) (Category, error) {
	c := Category(Normalize(s))
	if err := Validate(c); err != nil {
		return "", err
	}
	return c, nil
}

// MustParse is the panic-on-error variant of Parse.
func MustParse(s string) Category {
	c, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return c
}

// Validate reports whether c is one of the declared categories.
func Validate(c Category) error {
	if _, ok := defaultStatus[c]; !ok {
		return ErrCategoryInvalid
	}
	return nil
}

// String returns the canonical string representation of the category.
func (c Category) String() string {
	return string(c)
}

// MarshalText implements encoding.TextMarshaler.
func (c Category) MarshalText() ([]byte, error) {
	if err := Validate(c); err != nil {
		return nil, err
	}
	return []byte(c), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Category) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(bytes.TrimSpace(text)))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// DefaultStatus returns the conventional HTTP status for c, or 500 for an
// unknown category.
func DefaultStatus(c Category) int {
	if s, ok := defaultStatus[c]; ok {
		return s
	}
	return http.StatusInternalServerError
}

// FromStatus picks the category that best explains an HTTP status. It is used
// for failures that carry nothing but a status (library errors, panics).
func FromStatus(status int) Category {
	switch {
	case status == http.StatusUnauthorized:
		return Authentication
	case status == http.StatusForbidden:
		return Authorization
	case status == http.StatusNotFound || status == http.StatusGone:
		return NotFound
	case status == http.StatusConflict || status == http.StatusPreconditionFailed:
		return Conflict
	case status == http.StatusTooManyRequests:
		return RateLimit
	case status == http.StatusBadGateway || status == http.StatusServiceUnavailable || status == http.StatusGatewayTimeout:
		return ExternalService
	case status >= 400 && status < 500:
		return Validation
	default:
		return Internal
	}
}
