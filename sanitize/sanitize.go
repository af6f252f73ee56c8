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

package sanitize

import (
	"reflect"
	"strings"
)

const (
	// Placeholder replaces the value of a sensitive key.
	Placeholder = "[REDACTED]"

	// CircularMarker replaces a map that is already being sanitized higher
	// up the same path.
	CircularMarker = "[CIRCULAR]"

	// TruncatedMarker replaces a map nested deeper than MaxDepth.
	TruncatedMarker = "[TRUNCATED]"

	// MaxDepth is the deepest map nesting level that is still walked. The
	// top-level value is at depth 0.
	MaxDepth = 32
)

// terms is fixed at process start and never modified.
var terms = [...]string{"password", "token", "apikey", "secret", "authorization"}

// Terms returns a copy of the sensitive key terms, lower-cased.
func Terms() []string {
	out := make([]string, len(terms))
	copy(out, terms[:])
	return out
}

// IsSensitiveKey reports whether key contains any of Terms, ignoring case.
func IsSensitiveKey(key string) bool {
	lower := strings.ToLower(key)
	for _, t := range terms {
		if strings.Contains(lower, t) {
			return true
		}
	}
	return false
}

// Sanitize returns v with every sensitive key redacted. Maps are copied,
// never modified in place. map[string]any and map[string]string keep their
// type; any other map with string keys becomes map[string]any; everything
// else is returned as is.
//
// Example:
//
//	sanitize.Sanitize(map[string]any{"password": "abc", "name": "bob"})
//	// map[string]any{"password": "[REDACTED]", "name": "bob"}
func Sanitize(v any) any {
	w := walker{path: make(map[uintptr]struct{})}
	return w.value(v, 0)
}

type walker struct {
	// path holds the maps on the current descent; a map may legitimately
	// appear twice on sibling branches.
	path map[uintptr]struct{}
}

func (w *walker) value(v any, depth int) any {
	switch m := v.(type) {
	case nil:
		return nil
	case map[string]any:
		if m == nil {
			return m
		}
		return w.enter(reflect.ValueOf(m), depth, func() any {
			out := make(map[string]any, len(m))
			for k, x := range m {
				if IsSensitiveKey(k) {
					out[k] = Placeholder
					continue
				}
				out[k] = w.value(x, depth+1)
			}
			return out
		})
	case map[string]string:
		if m == nil {
			return m
		}
		out := make(map[string]string, len(m))
		for k, x := range m {
			if IsSensitiveKey(k) {
				x = Placeholder
			}
			out[k] = x
		}
		return out
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Map || rv.Type().Key().Kind() != reflect.String || rv.IsNil() {
		return v
	}
	return w.enter(rv, depth, func() any {
		out := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			k := iter.Key().String()
			if IsSensitiveKey(k) {
				out[k] = Placeholder
				continue
			}
			out[k] = w.value(iter.Value().Interface(), depth+1)
		}
		return out
	})
}

// enter applies the depth and cycle guards around copying one map.
func (w *walker) enter(rv reflect.Value, depth int, copyMap func() any) any {
	if depth > MaxDepth {
		return TruncatedMarker
	}
	id := rv.Pointer()
	if _, seen := w.path[id]; seen {
		return CircularMarker
	}
	w.path[id] = struct{}{}
	defer delete(w.path, id)
	return copyMap()
}
