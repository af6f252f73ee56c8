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

// Package severity defines the ordered error severity scale
// LOW < MEDIUM < HIGH < CRITICAL.
//
// Severity drives alerting and log-level decisions at the edges of the
// pipeline (responders and log sinks). The normalizer and the sanitizer never
// look at it.
package severity

import (
	"bytes"
	"encoding"
	"errors"
	"log/slog"
	"strings"
)

// Severity is an ordered severity level. The zero value is Unspecified and is
// not valid on an error.
type Severity uint8

const (
	// Unspecified is the zero value; Validate rejects it.
	Unspecified Severity = iota
	// Low marks expected conditions that need no attention.
	Low
	// Medium marks conditions worth looking at in aggregate.
	Medium
	// High marks conditions that need attention soon.
	High
	// Critical marks incidents. Non-operational server failures are always
	// raised to this level.
	Critical
)

var (
	// ErrSeverityInvalid is returned for values outside LOW..CRITICAL.
	ErrSeverityInvalid = errors.New("apperr: invalid severity")
)

var (
	_ encoding.TextMarshaler   = (*Severity)(nil)
	_ encoding.TextUnmarshaler = (*Severity)(nil)
)

var names = [...]string{
	Unspecified: "UNSPECIFIED",
	Low:         "LOW",
	Medium:      "MEDIUM",
	High:        "HIGH",
	Critical:    "CRITICAL",
}

// Parse returns the severity named by s (case-insensitive, surrounding
// spaces ignored).
func Parse(s string) (Severity, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	for i := Low; i <= Critical; i++ {
		if names[i] == s {
			return i, nil
		}
	}
	return Unspecified, ErrSeverityInvalid
}

// MustParse is the panic-on-error variant of Parse.
func MustParse(s string) Severity {
	v, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return v
}

// Validate reports whether s is one of LOW..CRITICAL.
func Validate(s Severity) error {
	if s < Low || s > Critical {
		return ErrSeverityInvalid
	}
	return nil
}

// String returns the upper-case name, or "UNSPECIFIED" for invalid values.
func (s Severity) String() string {
	if int(s) < len(names) {
		return names[s]
	}
	return names[Unspecified]
}

// MarshalText implements encoding.TextMarshaler.
func (s Severity) MarshalText() ([]byte, error) {
	if err := Validate(s); err != nil {
		return nil, err
	}
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Severity) UnmarshalText(text []byte) error {
	v, err := Parse(string(bytes.TrimSpace(text)))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// AtLeast reports whether s is at or above min.
func (s Severity) AtLeast(min Severity) bool {
	return s >= min
}

// Max returns the higher of a and b.
func Max(a, b Severity) Severity {
	if a > b {
		return a
	}
	return b
}

// Level maps the severity onto a slog level. CRITICAL sits above
// slog.LevelError so handlers can route incidents separately.
func (s Severity) Level() slog.Level {
	switch s {
	case Low:
		return slog.LevelInfo
	case Medium:
		return slog.LevelWarn
	case High:
		return slog.LevelError
	case Critical:
		return slog.LevelError + 4
	default:
		return slog.LevelError
	}
}
