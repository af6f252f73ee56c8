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

package httpx

import (
	"encoding/json"
	"net/http"
	"time"

	"dirpx.dev/apperr/apis"
	"dirpx.dev/apperr/category"
	"dirpx.dev/apperr/code"
	"dirpx.dev/apperr/severity"
)

// Status values of Response.Status.
const (
	StatusFail  = "fail"  // 4xx: the caller's fault.
	StatusError = "error" // 5xx: the server's fault.
)

// Response is the canonical JSON error body.
//
//	{
//	  "success": false,
//	  "status": "fail",
//	  "message": "Cart is empty",
//	  "error": {"code": "CART_EMPTY", "statusCode": 400, "category": "VALIDATION", "severity": "LOW"},
//	  "method": "POST",
//	  "requestId": "5f0c...",
//	  "timestamp": "2025-01-02T03:04:05.678Z",
//	  "path": "/api/cart/checkout"
//	}
type Response struct {
	Success   bool           `json:"success"`
	Status    string         `json:"status"`
	Message   string         `json:"message"`
	Error     apis.ErrorView `json:"error"`
	Method    string         `json:"method"`
	RequestID string         `json:"requestId,omitempty"`
	Timestamp string         `json:"timestamp"`
	Path      string         `json:"path,omitempty"`
}

// StatusClass returns StatusFail for 4xx statuses and StatusError otherwise.
func StatusClass(status int) string {
	if status >= 400 && status < 500 {
		return StatusFail
	}
	return StatusError
}

// timestampLayout is RFC 3339 with millisecond precision, UTC.
const timestampLayout = "2006-01-02T15:04:05.000Z07:00"

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}

// fallbackBody is the last-resort 500 body. It is built from constants only
// and cannot fail to encode.
func fallbackBody(r *http.Request, now time.Time) []byte {
	resp := Response{
		Success: false,
		Status:  StatusError,
		Message: http.StatusText(http.StatusInternalServerError),
		Error: apis.ErrorView{
			Code:       code.InternalServerError.String(),
			StatusCode: http.StatusInternalServerError,
			Category:   category.Internal.String(),
			Severity:   severity.Critical.String(),
		},
		Timestamp: formatTimestamp(now),
	}
	if r != nil {
		resp.Method = r.Method
		resp.RequestID = RequestIDFrom(r.Context())
		if r.URL != nil {
			resp.Path = r.URL.Path
		}
	}
	b, err := json.Marshal(resp)
	if err != nil {
		return []byte(`{"success":false,"status":"error","message":"Internal Server Error"}`)
	}
	return b
}
