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

package errlog

import (
	"time"

	"dirpx.dev/apperr/category"
	"dirpx.dev/apperr/code"
	"dirpx.dev/apperr/severity"
)

// AnonymousUser is the user id recorded when the request is unauthenticated.
const AnonymousUser = "anonymous"

// ErrorInfo describes the failure itself.
type ErrorInfo struct {
	Name     string // Go type of the original failure value, e.g. "*apperr.AppError".
	Message  string
	Stack    string
	Code     code.Code
	Category category.Category
	Severity severity.Severity
}

// RequestInfo describes the request that failed. URL must already be
// redacted (see sanitize.URL).
type RequestInfo struct {
	RequestID string
	Method    string
	URL       string
	IP        string
	UserAgent string
}

// UserInfo identifies the caller.
type UserInfo struct {
	ID    string
	Email string
}

// Payload is the log record of a single failure. It is built fresh for every
// failure and not modified afterwards.
type Payload struct {
	Error     ErrorInfo
	Request   RequestInfo
	User      UserInfo
	Timestamp time.Time
}

// Map renders the payload in its wire form:
//
//	{
//	  "error":   {"name", "message", "stack"?, "code", "category", "severity"},
//	  "request": {"requestId"?, "method", "url", "ip"?, "userAgent"?},
//	  "user":    {"id", "email"},
//	  "timestamp": "2025-01-02T03:04:05.123456789Z"
//	}
//
// Optional fields are omitted when empty. A missing user id is rendered as
// AnonymousUser. The result is a fresh map on every call.
func (p Payload) Map() map[string]any {
	errMap := map[string]any{
		"name":     p.Error.Name,
		"message":  p.Error.Message,
		"code":     p.Error.Code.String(),
		"category": p.Error.Category.String(),
		"severity": p.Error.Severity.String(),
	}
	putOptional(errMap, "stack", p.Error.Stack)

	reqMap := map[string]any{
		"method": p.Request.Method,
		"url":    p.Request.URL,
	}
	putOptional(reqMap, "requestId", p.Request.RequestID)
	putOptional(reqMap, "ip", p.Request.IP)
	putOptional(reqMap, "userAgent", p.Request.UserAgent)

	userID := p.User.ID
	if userID == "" {
		userID = AnonymousUser
	}

	return map[string]any{
		"error":     errMap,
		"request":   reqMap,
		"user":      map[string]any{"id": userID, "email": p.User.Email},
		"timestamp": p.Timestamp.UTC().Format(time.RFC3339Nano),
	}
}

func putOptional(m map[string]any, key, v string) {
	if v != "" {
		m[key] = v
	}
}
