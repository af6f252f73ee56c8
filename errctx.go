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

import "encoding/json"

// Well-known ErrorContext keys as they appear in Fields and JSON.
const (
	KeyUserID     = "userId"
	KeyOperation  = "operation"
	KeyResource   = "resource"
	KeyResourceID = "resourceId"
	KeyRequestID  = "requestId"
)

// ErrorContext describes where a failure happened: which user, which
// operation, which resource, which request. It is purely descriptive and never
// affects control flow.
//
// The common fields are typed; anything else goes into Extra. All With*
// helpers return a copy, so a base context can be shared and specialised
// safely.
type ErrorContext struct {
	UserID     string
	Operation  string
	Resource   string
	ResourceID string
	RequestID  string

	// Extra holds arbitrary additional metadata. Keys that collide with the
	// well-known ones are shadowed by the typed fields in Fields.
	Extra map[string]any
}

// IsZero reports whether no field is set.
func (c ErrorContext) IsZero() bool {
	return c.UserID == "" && c.Operation == "" && c.Resource == "" &&
		c.ResourceID == "" && c.RequestID == "" && len(c.Extra) == 0
}

// With returns a copy of c with one extra key/value.
func (c ErrorContext) With(key string, v any) ErrorContext {
	cp := c.clone()
	if cp.Extra == nil {
		cp.Extra = make(map[string]any, 1)
	}
	cp.Extra[key] = v
	return cp
}

// WithUserID returns a copy of c with UserID set.
func (c ErrorContext) WithUserID(id string) ErrorContext {
	cp := c.clone()
	cp.UserID = id
	return cp
}

// WithOperation returns a copy of c with Operation set.
func (c ErrorContext) WithOperation(op string) ErrorContext {
	cp := c.clone()
	cp.Operation = op
	return cp
}

// WithResource returns a copy of c with Resource and ResourceID set.
func (c ErrorContext) WithResource(resource, id string) ErrorContext {
	cp := c.clone()
	cp.Resource = resource
	cp.ResourceID = id
	return cp
}

// WithRequestID returns a copy of c with RequestID set.
func (c ErrorContext) WithRequestID(id string) ErrorContext {
	cp := c.clone()
	cp.RequestID = id
	return cp
}

// Fields flattens c into a fresh map. Empty typed fields are omitted. Returns
// nil for a zero context.
func (c ErrorContext) Fields() map[string]any {
	if c.IsZero() {
		return nil
	}
	m := make(map[string]any, len(c.Extra)+5)
	for k, v := range c.Extra {
		m[k] = v
	}
	set := func(k, v string) {
		if v != "" {
			m[k] = v
		}
	}
	set(KeyUserID, c.UserID)
	set(KeyOperation, c.Operation)
	set(KeyResource, c.Resource)
	set(KeyResourceID, c.ResourceID)
	set(KeyRequestID, c.RequestID)
	return m
}

// MarshalJSON renders the flattened Fields.
func (c ErrorContext) MarshalJSON() ([]byte, error) {
	f := c.Fields()
	if f == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(f)
}

// clone copies the Extra map; values are shared.
func (c ErrorContext) clone() ErrorContext {
	if c.Extra == nil {
		return c
	}
	m := make(map[string]any, len(c.Extra))
	for k, v := range c.Extra {
		m[k] = v
	}
	c.Extra = m
	return c
}
