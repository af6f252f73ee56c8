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

package code

import (
	"bytes"
	"encoding"
	"errors"
	"fmt"
	"strings"
)

// Code is a stable, machine-readable error identifier in UPPER_SNAKE form,
// e.g. "OUT_OF_STOCK" or "PAYMENT_DECLINED". Storefront clients branch on it,
// so a code never changes once published.
type Code string

// Length bounds of a valid code.
const (
	MinLength = 3
	MaxLength = 64
)

// ErrCodeInvalid is wrapped by every Parse and Validate failure.
var ErrCodeInvalid = errors.New("apperr: invalid code")

var (
	_ encoding.TextMarshaler   = (*Code)(nil)
	_ encoding.TextUnmarshaler = (*Code)(nil)
)

// Empty is the zero-value code. Validate rejects it.
var Empty Code = ""

// Parse normalizes s and validates the result.
func Parse(s string) (Code, error) {
	s = Normalize(s)
	if err := validate(s); err != nil {
		return Empty, err
	}
	return Code(s), nil
}

// MustParse is the panic-on-error variant of Parse.
func MustParse(s string) Code {
	c, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return c
}

// Normalize rewrites the spellings older storefront clients and partner
// integrations send into UPPER_SNAKE form:
//
//	"outOfStock"        -> "OUT_OF_STOCK"
//	"HTTPTimeout"       -> "HTTP_TIMEOUT"
//	"gift-card.expired" -> "GIFT_CARD_EXPIRED"
//	" cart  empty "     -> "CART_EMPTY"
//
// Separators ('-', '.', '/', ':' and whitespace) become '_', runs of '_'
// collapse and leading or trailing '_' are dropped. Non-ASCII input is kept
// as-is and later rejected by Validate.
func Normalize(s string) string {
	s = strings.TrimSpace(s)
	var b strings.Builder
	b.Grow(len(s) + 4)
	pending := false // a separator is owed before the next character
	for i := 0; i < len(s); i++ {
		c := s[i]
		if isSeparator(c) {
			pending = b.Len() > 0
			continue
		}
		if isUpper(c) && i > 0 && wordBreak(s, i) {
			pending = b.Len() > 0
		}
		if pending {
			b.WriteByte('_')
			pending = false
		}
		if isLower(c) {
			c -= 'a' - 'A'
		}
		b.WriteByte(c)
	}
	return b.String()
}

// wordBreak reports whether the upper-case letter at s[i] starts a new word
// of a camelCase or PascalCase identifier.
func wordBreak(s string, i int) bool {
	prev := s[i-1]
	if isLower(prev) || isDigit(prev) {
		return true
	}
	// The last capital of an acronym starts the next word: "HTTPTimeout".
	return isUpper(prev) && i+1 < len(s) && isLower(s[i+1])
}

func isSeparator(c byte) bool {
	switch c {
	case '_', '-', '.', '/', ':', ' ', '\t':
		return true
	}
	return false
}

func isUpper(c byte) bool { return 'A' <= c && c <= 'Z' }
func isLower(c byte) bool { return 'a' <= c && c <= 'z' }
func isDigit(c byte) bool { return '0' <= c && c <= '9' }

// Validate checks c as stored, without normalizing it.
func Validate(c Code) error {
	return validate(string(c))
}

// String returns the code as stored.
func (c Code) String() string {
	return string(c)
}

// IsZero reports whether no code was provided.
func (c Code) IsZero() bool { return c == Empty }

// Or returns c when it is valid and fallback otherwise.
func (c Code) Or(fallback Code) Code {
	if validate(string(c)) != nil {
		return fallback
	}
	return c
}

// MarshalText implements encoding.TextMarshaler. Invalid codes are refused
// so they never reach a client payload.
func (c Code) MarshalText() ([]byte, error) {
	if err := Validate(c); err != nil {
		return nil, err
	}
	return []byte(c), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. The text is normalized
// before validation.
func (c *Code) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(bytes.TrimSpace(text)))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

func validate(s string) error {
	switch {
	case s == "":
		return fmt.Errorf("%w: empty", ErrCodeInvalid)
	case len(s) < MinLength || len(s) > MaxLength:
		return fmt.Errorf("%w: %q has %d characters, want %d..%d", ErrCodeInvalid, s, len(s), MinLength, MaxLength)
	case !isUpper(s[0]):
		return fmt.Errorf("%w: %q must start with an upper-case letter", ErrCodeInvalid, s)
	}
	for i := 1; i < len(s); i++ {
		if c := s[i]; !isUpper(c) && !isDigit(c) && c != '_' {
			return fmt.Errorf("%w: %q has invalid character %q at %d", ErrCodeInvalid, s, c, i)
		}
	}
	return nil
}
