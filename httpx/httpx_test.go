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
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"dirpx.dev/apperr"
	"dirpx.dev/apperr/apis"
	"dirpx.dev/apperr/boundary"
	"dirpx.dev/apperr/category"
	"dirpx.dev/apperr/code"
	"dirpx.dev/apperr/mapper"
	"dirpx.dev/apperr/sanitize"
	"dirpx.dev/apperr/severity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	grpccodes "google.golang.org/grpc/codes"
)

var fixedNow = time.Date(2025, 6, 1, 12, 30, 45, 123_000_000, time.UTC)

type captured struct {
	sev    severity.Severity
	record map[string]any
}

type captureSink struct {
	mu      sync.Mutex
	records []captured
}

func (c *captureSink) Write(_ context.Context, sev severity.Severity, rec map[string]any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.records = append(c.records, captured{sev, rec})
	return nil
}

func (c *captureSink) all() []captured {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]captured(nil), c.records...)
}

func newTestResponder(sink *captureSink, opts ...Option) *Responder {
	quiet := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	base := []Option{WithSink(sink), WithClock(func() time.Time { return fixedNow }), WithLogger(quiet)}
	return NewResponder(append(base, opts...)...)
}

func serve(t *testing.T, h http.Handler, req *http.Request) (*httptest.ResponseRecorder, Response) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	var body Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	return rec, body
}

func TestWrap_OperationalAppError(t *testing.T) {
	sink := &captureSink{}
	rs := newTestResponder(sink)
	h := RequestID(Wrap(func(http.ResponseWriter, *http.Request) error {
		return apperr.New("This is a custom test error", http.StatusInternalServerError,
			code.InternalServerError, category.Internal, severity.Low)
	}, rs))

	req := httptest.NewRequest(http.MethodGet, "/api/test/custom-error", nil)
	req.Header.Set(HeaderRequestID, "req-42")
	rec, body := serve(t, h, req)

	assert.Equal(t, 500, rec.Code)
	assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Equal(t, "req-42", rec.Header().Get(HeaderRequestID))
	assert.False(t, body.Success)
	assert.Equal(t, StatusError, body.Status)
	assert.Equal(t, "This is a custom test error", body.Message)
	assert.Equal(t, "INTERNAL_SERVER_ERROR", body.Error.Code)
	assert.Equal(t, 500, body.Error.StatusCode)
	assert.Equal(t, "INTERNAL", body.Error.Category)
	assert.Equal(t, "LOW", body.Error.Severity)
	assert.NotEmpty(t, body.Error.Stack, "stack is shown outside production")
	assert.Equal(t, "GET", body.Method)
	assert.Equal(t, "req-42", body.RequestID)
	assert.Equal(t, "2025-06-01T12:30:45.123Z", body.Timestamp)
	assert.Equal(t, "/api/test/custom-error", body.Path)

	// 5xx is always recorded.
	records := sink.all()
	require.Len(t, records, 1)
	assert.Equal(t, severity.Low, records[0].sev)
	errSection := records[0].record["error"].(map[string]any)
	assert.Equal(t, "This is a custom test error", errSection["message"])
	assert.Equal(t, "*apperr.AppError", errSection["name"])
	assert.Equal(t, "req-42", records[0].record["request"].(map[string]any)["requestId"])
	assert.Equal(t, "2025-06-01T12:30:45.123Z", records[0].record["timestamp"])
}

func TestWrap_LibraryBadRequest(t *testing.T) {
	sink := &captureSink{}
	rs := newTestResponder(sink, WithProduction(true))
	h := Wrap(func(http.ResponseWriter, *http.Request) error {
		return boundary.New(http.StatusBadRequest, "")
	}, rs)

	rec, body := serve(t, h, httptest.NewRequest(http.MethodGet, "/api/test/bad-request", nil))

	assert.Equal(t, 400, rec.Code)
	assert.Equal(t, StatusFail, body.Status)
	assert.Equal(t, "Bad Request", body.Message)
	assert.Equal(t, "BAD_REQUEST", body.Error.Code)
	assert.Equal(t, "VALIDATION", body.Error.Category)
	assert.Equal(t, "MEDIUM", body.Error.Severity)
	assert.Empty(t, body.Error.Stack)
	assert.Empty(t, body.RequestID)

	records := sink.all()
	require.Len(t, records, 1, "non-operational failures are always recorded")
	assert.Equal(t, severity.Medium, records[0].sev)
}

func TestWrap_NonOperationalHidesDetail(t *testing.T) {
	sink := &captureSink{}
	rs := newTestResponder(sink, WithProduction(true))
	h := Wrap(func(http.ResponseWriter, *http.Request) error {
		return errors.New("pq: password authentication failed for user \"shop\"")
	}, rs)

	rec, body := serve(t, h, httptest.NewRequest(http.MethodPost, "/api/orders", nil))

	assert.Equal(t, 500, rec.Code)
	assert.Equal(t, "Internal Server Error", body.Message)
	assert.Equal(t, "CRITICAL", body.Error.Severity)
	assert.NotContains(t, rec.Body.String(), "password authentication")
	assert.Nil(t, body.Error.Details)
	assert.Nil(t, body.Error.Context)

	records := sink.all()
	require.Len(t, records, 1)
	assert.Equal(t, severity.Critical, records[0].sev)
	assert.Contains(t, records[0].record["error"].(map[string]any)["message"], "password authentication")
}

func TestWrap_Panics(t *testing.T) {
	sink := &captureSink{}
	rs := newTestResponder(sink)

	t.Run("string", func(t *testing.T) {
		h := Wrap(func(http.ResponseWriter, *http.Request) error { panic("plain string") }, rs)
		rec, body := serve(t, h, httptest.NewRequest(http.MethodGet, "/x", nil))
		assert.Equal(t, 500, rec.Code)
		assert.Equal(t, "Internal Server Error", body.Message)
		assert.Contains(t, body.Error.Stack, "goroutine")
	})

	t.Run("nil map write", func(t *testing.T) {
		h := Wrap(func(http.ResponseWriter, *http.Request) error {
			var m map[string]int
			m["boom"]++
			return nil
		}, rs)
		rec, body := serve(t, h, httptest.NewRequest(http.MethodGet, "/x", nil))
		assert.Equal(t, 500, rec.Code)
		assert.Equal(t, "CRITICAL", body.Error.Severity)
	})

	t.Run("abort handler is re-panicked", func(t *testing.T) {
		h := Wrap(func(http.ResponseWriter, *http.Request) error { panic(http.ErrAbortHandler) }, rs)
		assert.PanicsWithValue(t, http.ErrAbortHandler, func() {
			h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/x", nil))
		})
	})
}

func TestWrap_Success(t *testing.T) {
	sink := &captureSink{}
	h := Wrap(func(w http.ResponseWriter, _ *http.Request) error {
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte("ok"))
		return nil
	}, newTestResponder(sink))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/x", nil))
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
	assert.Empty(t, sink.all())
}

func TestWrap_FailureAfterResponseStarted(t *testing.T) {
	sink := &captureSink{}
	h := Wrap(func(w http.ResponseWriter, _ *http.Request) error {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("partial"))
		return errors.New("stream broke")
	}, newTestResponder(sink))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/export", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "partial", rec.Body.String())
	assert.Len(t, sink.all(), 1, "the failure is still recorded")
}

func TestWrap_FailureAfterEarlyHints(t *testing.T) {
	sink := &captureSink{}
	h := Wrap(func(w http.ResponseWriter, _ *http.Request) error {
		w.Header().Set("Link", "</static/checkout.css>; rel=preload; as=style")
		w.WriteHeader(http.StatusEarlyHints)
		return apperr.Conflict("Cart was modified in another session")
	}, newTestResponder(sink))

	srv := httptest.NewServer(h)
	defer srv.Close()
	resp, err := http.Get(srv.URL + "/checkout")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	var body Response
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "Cart was modified in another session", body.Message)
	assert.Equal(t, "CONFLICT", body.Error.Code)
}

func TestTrackingWriter_Started(t *testing.T) {
	tw := track(httptest.NewRecorder())
	assert.False(t, started(tw))
	tw.WriteHeader(http.StatusEarlyHints)
	assert.False(t, started(tw), "1xx does not start the response")
	tw.WriteHeader(http.StatusAccepted)
	assert.True(t, started(tw))
	assert.Same(t, tw, track(tw))
	assert.False(t, started(httptest.NewRecorder()))
}

func TestRespond_OperationalDetailsContextAndRetryAfter(t *testing.T) {
	sink := &captureSink{}
	rs := newTestResponder(sink)
	ae := apperr.RateLimited("Too many checkout attempts",
		apperr.WithRetryAfter(1500*time.Millisecond),
		apperr.WithDetails([]apis.Detail{{Type: "quota", Reason: "checkout_per_minute"}}),
		apperr.WithContext(apperr.ErrorContext{UserID: "u-1", Extra: map[string]any{"cardToken": "tok_x"}}),
	)

	rec := httptest.NewRecorder()
	rs.Respond(rec, httptest.NewRequest(http.MethodPost, "/api/checkout", nil), ae)

	assert.Equal(t, 429, rec.Code)
	assert.Equal(t, "2", rec.Header().Get("Retry-After"))
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	errView := body["error"].(map[string]any)
	assert.Equal(t, "RATE_LIMITED", errView["code"])
	assert.Len(t, errView["details"], 1)
	ctx := errView["context"].(map[string]any)
	assert.Equal(t, "u-1", ctx["userId"])
	assert.Equal(t, sanitize.Placeholder, ctx["cardToken"])

	assert.Empty(t, sink.all(), "LOW operational 4xx is not recorded")
}

func TestRespond_RecordsUserAndRedactsURL(t *testing.T) {
	sink := &captureSink{}
	rs := newTestResponder(sink)

	req := httptest.NewRequest(http.MethodGet, "/api/orders?page=1&token=abc", nil)
	req.RemoteAddr = "203.0.113.9:51234"
	req.Header.Set("User-Agent", "shop-ios/3.1")
	req = req.WithContext(WithUser(req.Context(), User{ID: "u-9", Email: "nine@example.com"}))

	rs.Respond(httptest.NewRecorder(), req, apperr.ExternalService("Payment provider timed out"))

	records := sink.all()
	require.Len(t, records, 1)
	r := records[0].record
	reqSection := r["request"].(map[string]any)
	assert.Equal(t, "/api/orders?page=1&token="+sanitize.Placeholder, reqSection["url"])
	assert.Equal(t, "203.0.113.9", reqSection["ip"])
	assert.Equal(t, "shop-ios/3.1", reqSection["userAgent"])
	assert.Equal(t, map[string]any{"id": "u-9", "email": "nine@example.com"}, r["user"])
	assert.Equal(t, severity.Medium, records[0].sev)
}

func TestRespond_UnencodableDetailsAreDropped(t *testing.T) {
	rs := newTestResponder(&captureSink{})
	ae := apperr.Validation("bad input", apperr.WithDetails(map[string]any{"ch": make(chan int)}))

	rec := httptest.NewRecorder()
	rs.Respond(rec, httptest.NewRequest(http.MethodPost, "/x", nil), ae)

	assert.Equal(t, 400, rec.Code)
	var body Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "bad input", body.Message)
	assert.Nil(t, body.Error.Details)
}

// explodingMapper fails on every lookup the responder performs.
type explodingMapper struct{ apis.Mapper }

func (explodingMapper) GRPCStatus(code.Code, category.Category) grpccodes.Code {
	panic("mapper exploded")
}

func (explodingMapper) FromHTTP(int) apis.Status { panic("mapper exploded") }

func (explodingMapper) Describe(int) (code.Code, category.Category) { panic("mapper exploded") }

func TestRespond_FailSafe(t *testing.T) {
	var logBuf bytes.Buffer
	rs := NewResponder(
		WithMapper(explodingMapper{Mapper: mapper.Default()}),
		WithSink(&captureSink{}),
		WithClock(func() time.Time { return fixedNow }),
		WithLogger(slog.New(slog.NewTextHandler(&logBuf, nil))),
	)

	rec := httptest.NewRecorder()
	require.NotPanics(t, func() {
		rs.Respond(rec, httptest.NewRequest(http.MethodGet, "/x", nil), apperr.NotFound("gone"))
	})

	assert.Equal(t, 500, rec.Code)
	var body Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Internal Server Error", body.Message)
	assert.Equal(t, "INTERNAL_SERVER_ERROR", body.Error.Code)
	assert.Equal(t, "CRITICAL", body.Error.Severity)
	assert.Equal(t, "2025-06-01T12:30:45.123Z", body.Timestamp)
	assert.Contains(t, logBuf.String(), "fallback")
}

func TestRespond_SinkFailureDoesNotAffectResponse(t *testing.T) {
	var logBuf bytes.Buffer
	rs := NewResponder(
		WithSink(failingSink{}),
		WithLogger(slog.New(slog.NewTextHandler(&logBuf, nil))),
	)
	rec := httptest.NewRecorder()
	rs.Respond(rec, httptest.NewRequest(http.MethodGet, "/x", nil), errors.New("boom"))

	assert.Equal(t, 500, rec.Code)
	assert.Contains(t, logBuf.String(), "sink down")
}

type failingSink struct{}

func (failingSink) Write(context.Context, severity.Severity, map[string]any) error {
	return errors.New("sink down")
}

func TestRecoverAndNotFound(t *testing.T) {
	sink := &captureSink{}
	rs := newTestResponder(sink)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /legacy", func(http.ResponseWriter, *http.Request) { panic("legacy handler failed") })
	mux.Handle("/", NotFound(rs))
	h := RequestID(Recover(rs)(mux))

	rec, body := serve(t, h, httptest.NewRequest(http.MethodGet, "/legacy", nil))
	assert.Equal(t, 500, rec.Code)
	assert.NotEmpty(t, body.RequestID)
	assert.Equal(t, rec.Header().Get(HeaderRequestID), body.RequestID)

	rec, body = serve(t, h, httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Equal(t, 404, rec.Code)
	assert.Equal(t, StatusFail, body.Status)
	assert.Equal(t, "Route GET /nope not found", body.Message)
	assert.Equal(t, "NOT_FOUND", body.Error.Code)
}

func TestRequestID(t *testing.T) {
	var seen string
	h := RequestID(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		seen = RequestIDFrom(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderRequestID, "abc-123")
	h.ServeHTTP(httptest.NewRecorder(), req)
	assert.Equal(t, "abc-123", seen)

	for _, bad := range []string{"", "has space", "line\nbreak", string(make([]byte, 200))} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(HeaderRequestID, bad)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Len(t, seen, 36, "generated UUID for %q", bad)
		assert.Equal(t, seen, rec.Header().Get(HeaderRequestID))
	}
}

func TestStatusClass(t *testing.T) {
	assert.Equal(t, StatusFail, StatusClass(404))
	assert.Equal(t, StatusError, StatusClass(503))
}

func TestUserContext(t *testing.T) {
	_, ok := UserFrom(context.Background())
	assert.False(t, ok)
	u, ok := UserFrom(WithUser(context.Background(), User{ID: "1"}))
	assert.True(t, ok)
	assert.Equal(t, "1", u.ID)
}
