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

package demo

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"dirpx.dev/apperr/errlog"
	"dirpx.dev/apperr/httpx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServer(t *testing.T, production bool) *httptest.Server {
	t.Helper()
	logger := slog.New(slog.NewJSONHandler(&bytes.Buffer{}, nil))
	rs := httpx.NewResponder(
		httpx.WithLogger(logger),
		httpx.WithSink(errlog.Discard),
		httpx.WithProduction(production),
	)
	srv := httptest.NewServer(NewMux(rs))
	t.Cleanup(srv.Close)
	return srv
}

func get(t *testing.T, url string) (*http.Response, map[string]any) {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return resp, body
}

func TestCustomError(t *testing.T) {
	srv := newServer(t, true)
	resp, body := get(t, srv.URL+"/api/test/custom-error")

	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get(httpx.HeaderRequestID))
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "error", body["status"])
	assert.Equal(t, "This is a custom test error", body["message"])
	assert.Equal(t, "GET", body["method"])
	assert.Equal(t, "/api/test/custom-error", body["path"])
	assert.Equal(t, resp.Header.Get(httpx.HeaderRequestID), body["requestId"])
	assert.Equal(t, map[string]any{
		"code":       "INTERNAL_SERVER_ERROR",
		"statusCode": float64(500),
		"category":   "INTERNAL",
		"severity":   "LOW",
	}, body["error"])
}

func TestBadRequest(t *testing.T) {
	srv := newServer(t, true)
	resp, body := get(t, srv.URL+"/api/test/bad-request")

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "fail", body["status"])
	assert.Equal(t, "Bad Request", body["message"])
	errView := body["error"].(map[string]any)
	assert.Equal(t, float64(400), errView["statusCode"])
}

func TestPanicAndAsync(t *testing.T) {
	srv := newServer(t, false)

	resp, body := get(t, srv.URL+"/api/test/panic")
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, "Internal Server Error", body["message"])
	assert.NotEmpty(t, body["error"].(map[string]any)["stack"])

	resp, body = get(t, srv.URL+"/api/test/async")
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
	assert.Equal(t, "Inventory service did not respond", body["message"])
	ctx := body["error"].(map[string]any)["context"].(map[string]any)
	assert.Equal(t, "reserveStock", ctx["operation"])
}

func TestLibraryError(t *testing.T) {
	srv := newServer(t, true)

	tests := []struct {
		source  string
		status  int
		message string
		code    string
	}{
		{"postgres", http.StatusNotFound, "Not Found", "NOT_FOUND"},
		{"postgres-unique", http.StatusConflict, "Conflict", "CONFLICT"},
		{"redis", http.StatusNotFound, "Not Found", "NOT_FOUND"},
		{"timeout", http.StatusGatewayTimeout, "Gateway Timeout", "TIMEOUT"},
		{"ldap", http.StatusBadRequest, `Unknown source "ldap"`, "VALIDATION_ERROR"},
	}
	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			resp, body := get(t, srv.URL+"/api/test/library-error?source="+tt.source)
			assert.Equal(t, tt.status, resp.StatusCode)
			assert.Equal(t, tt.message, body["message"])
			assert.Equal(t, tt.code, body["error"].(map[string]any)["code"])
			assert.NotContains(t, body["message"], "order")
		})
	}
}

func TestHealthzAndNotFound(t *testing.T) {
	srv := newServer(t, true)

	resp, body := get(t, srv.URL+"/healthz")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", body["status"])

	resp, body = get(t, srv.URL+"/api/products/42")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "Route GET /api/products/42 not found", body["message"])

	// The catch-all route answers wrong methods too.
	resp, err := http.Post(srv.URL+"/api/test/custom-error", "application/json", nil)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
