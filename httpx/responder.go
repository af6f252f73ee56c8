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
	"fmt"
	"log/slog"
	"math"
	"net"
	"net/http"
	"strconv"
	"time"

	"dirpx.dev/apperr/adapter"
	"dirpx.dev/apperr/apis"
	"dirpx.dev/apperr/boundary"
	"dirpx.dev/apperr/errlog"
	"dirpx.dev/apperr/mapper"
	"dirpx.dev/apperr/sanitize"
)

// Responder is the terminal stage of the HTTP error pipeline. It is safe for
// concurrent use and holds no per-request state.
type Responder struct {
	mapper     apis.Mapper
	sink       errlog.Sink
	production bool
	now        func() time.Time
	logger     *slog.Logger
}

// Option configures a Responder.
type Option func(*Responder)

// WithMapper sets the status mapper. Default: mapper.Default().
func WithMapper(m apis.Mapper) Option {
	return func(rs *Responder) {
		if m != nil {
			rs.mapper = m
		}
	}
}

// WithSink sets the destination of failure records. Default: an
// errlog.SlogSink on slog.Default().
func WithSink(s errlog.Sink) Option {
	return func(rs *Responder) {
		if s != nil {
			rs.sink = s
		}
	}
}

// WithProduction hides stack traces from response bodies.
func WithProduction(production bool) Option {
	return func(rs *Responder) { rs.production = production }
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(rs *Responder) {
		if now != nil {
			rs.now = now
		}
	}
}

// WithLogger sets the logger used for the responder's own problems (sink
// failures, responses that had already started). Default: slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(rs *Responder) {
		if l != nil {
			rs.logger = l
		}
	}
}

// NewResponder returns a Responder with the given options applied.
func NewResponder(opts ...Option) *Responder {
	rs := &Responder{now: time.Now}
	for _, opt := range opts {
		opt(rs)
	}
	if rs.mapper == nil {
		rs.mapper = mapper.Default()
	}
	if rs.logger == nil {
		rs.logger = slog.Default()
	}
	if rs.sink == nil {
		rs.sink = errlog.NewSlogSink(rs.logger)
	}
	return rs
}

var _ ErrorHandler = (*Responder)(nil)

// Respond answers failure. Steps:
//
//  1. normalize the failure and describe it (operational or not);
//  2. build the log payload, sanitize it and write it to the sink when the
//     failure warrants it;
//  3. write the JSON body with the failure's status.
//
// A panic in step 1 or 3 results in a minimal 500 body; a panic or error in
// step 2 is logged and does not affect the response.
func (rs *Responder) Respond(w http.ResponseWriter, r *http.Request, failure any) {
	now := rs.now()
	defer func() {
		if p := recover(); p != nil {
			rs.logger.Error("error responder failed, sending fallback response",
				slog.String("panic", fmt.Sprint(p)))
			rs.writeBody(w, http.StatusInternalServerError, fallbackBody(r, now))
		}
	}()

	f := adapter.Describe(boundary.Normalize(failure), rs.mapper)
	rs.record(r, f, now)

	if started(w) {
		rs.logger.Warn("response already started, error body dropped",
			slog.Int("status", f.Status),
			slog.String("requestId", RequestIDFrom(r.Context())))
		return
	}

	body, err := json.Marshal(rs.response(r, f, now))
	if err != nil {
		// Details that cannot be encoded are dropped rather than failing the
		// whole response.
		f.Details, f.Context = nil, nil
		if body, err = json.Marshal(rs.response(r, f, now)); err != nil {
			panic(err)
		}
	}
	if f.RetryAfter > 0 {
		secs := int64(math.Ceil(f.RetryAfter.Seconds()))
		w.Header().Set("Retry-After", strconv.FormatInt(secs, 10))
	}
	rs.writeBody(w, f.Status, body)
}

func (rs *Responder) response(r *http.Request, f adapter.Failure, now time.Time) Response {
	return Response{
		Success:   false,
		Status:    StatusClass(f.Status),
		Message:   f.Message,
		Error:     adapter.ToView(f, !rs.production),
		Method:    r.Method,
		RequestID: requestID(r),
		Timestamp: formatTimestamp(now),
		Path:      r.URL.Path,
	}
}

func (rs *Responder) writeBody(w http.ResponseWriter, status int, body []byte) {
	h := w.Header()
	h.Set("Content-Type", "application/json; charset=utf-8")
	h.Set("X-Content-Type-Options", "nosniff")
	h.Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

// record builds the sanitized payload and hands it to the sink.
func (rs *Responder) record(r *http.Request, f adapter.Failure, now time.Time) {
	if !f.ShouldRecord() {
		return
	}
	defer func() {
		if p := recover(); p != nil {
			rs.logger.Error("error record dropped", slog.String("panic", fmt.Sprint(p)))
		}
	}()

	payload := errlog.Payload{
		Error:     adapter.LogInfo(f),
		Request:   RequestInfo(r),
		Timestamp: now,
	}
	if u, ok := UserFrom(r.Context()); ok {
		payload.User = errlog.UserInfo{ID: u.ID, Email: u.Email}
	}
	rec, _ := sanitize.Sanitize(payload.Map()).(map[string]any)
	if err := rs.sink.Write(r.Context(), f.Severity, rec); err != nil {
		rs.logger.Warn("error record delivery failed", slog.String("error", err.Error()))
	}
}

// RequestInfo extracts the request section of a log payload. The URL is
// redacted with sanitize.URL.
func RequestInfo(r *http.Request) errlog.RequestInfo {
	return errlog.RequestInfo{
		RequestID: requestID(r),
		Method:    r.Method,
		URL:       sanitize.URL(r.URL.RequestURI()),
		IP:        remoteIP(r.RemoteAddr),
		UserAgent: r.UserAgent(),
	}
}

func requestID(r *http.Request) string {
	if id := RequestIDFrom(r.Context()); id != "" {
		return id
	}
	if id := r.Header.Get(HeaderRequestID); validRequestID(id) {
		return id
	}
	return ""
}

func remoteIP(addr string) string {
	if host, _, err := net.SplitHostPort(addr); err == nil {
		return host
	}
	return addr
}
