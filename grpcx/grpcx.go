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

// Package grpcx is the gRPC face of the error pipeline.
//
// The interceptors guard every handler with the boundary normalizer, describe
// the failure with the shared status mapper and convert it into a
// *status.Status carrying standard google.rpc error details:
//
//   - ErrorInfo (always): Reason is the error code, Metadata carries the
//     category, severity, HTTP status and request id;
//   - BadRequest: field violations built from []apis.Detail;
//   - RetryInfo: the retry hint of rate-limited failures;
//   - DebugInfo: stack and internal detail, outside production only.
//
// Failures are recorded through an errlog.Sink with the same routing rule as
// the HTTP responder. A handler error that already carries a gRPC status,
// such as one returned by a downstream client, is a programming failure like
// any other: its message stays in the logs and the caller gets a generic one.
package grpcx

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"strconv"
	"strings"
	"time"

	"dirpx.dev/apperr/adapter"
	"dirpx.dev/apperr/apis"
	"dirpx.dev/apperr/boundary"
	"dirpx.dev/apperr/errlog"
	"dirpx.dev/apperr/mapper"
	"dirpx.dev/apperr/sanitize"
	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/peer"
	gstatus "google.golang.org/grpc/status"
	"google.golang.org/protobuf/protoadapt"
	"google.golang.org/protobuf/types/known/durationpb"
)

// DefaultDomain is the ErrorInfo domain used when none is configured.
const DefaultDomain = "storefront"

// MetadataRequestID is the incoming metadata key read as the request id.
const MetadataRequestID = "x-request-id"

// ErrorInfo metadata keys.
const (
	MetaCategory   = "category"
	MetaSeverity   = "severity"
	MetaStatusCode = "statusCode"
	MetaRequestID  = "requestId"
)

type config struct {
	mapper     apis.Mapper
	sink       errlog.Sink
	production bool
	domain     string
	now        func() time.Time
	logger     *slog.Logger
}

// Option configures the interceptors.
type Option func(*config)

// WithMapper sets the status mapper. Defaults to mapper.Default().
func WithMapper(m apis.Mapper) Option {
	return func(c *config) {
		if m != nil {
			c.mapper = m
		}
	}
}

// WithSink sets the sink failures are recorded to.
func WithSink(s errlog.Sink) Option {
	return func(c *config) {
		if s != nil {
			c.sink = s
		}
	}
}

// WithProduction drops DebugInfo from outgoing statuses.
func WithProduction(production bool) Option {
	return func(c *config) { c.production = production }
}

// WithDomain sets the ErrorInfo domain.
func WithDomain(domain string) Option {
	return func(c *config) {
		if domain != "" {
			c.domain = domain
		}
	}
}

// WithClock overrides the time source of log payloads.
func WithClock(now func() time.Time) Option {
	return func(c *config) {
		if now != nil {
			c.now = now
		}
	}
}

// WithLogger sets the logger used for the default sink and for delivery
// failures.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

func newConfig(opts []Option) *config {
	c := &config{domain: DefaultDomain, now: time.Now}
	for _, opt := range opts {
		opt(c)
	}
	if c.mapper == nil {
		c.mapper = mapper.Default()
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	if c.sink == nil {
		c.sink = errlog.NewSlogSink(c.logger)
	}
	return c
}

// UnaryServerInterceptor returns an interceptor that converts handler errors
// and panics into gRPC statuses with error details.
func UnaryServerInterceptor(opts ...Option) grpc.UnaryServerInterceptor {
	c := newConfig(opts)
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		var resp any
		te := boundary.Guard(func() error {
			var err error
			resp, err = handler(ctx, req)
			return err
		})
		if te == nil {
			return resp, nil
		}
		return nil, c.fail(ctx, info.FullMethod, te)
	}
}

// StreamServerInterceptor is the streaming counterpart of
// UnaryServerInterceptor.
func StreamServerInterceptor(opts ...Option) grpc.StreamServerInterceptor {
	c := newConfig(opts)
	return func(srv any, ss grpc.ServerStream, info *grpc.StreamServerInfo, handler grpc.StreamHandler) error {
		te := boundary.Guard(func() error { return handler(srv, ss) })
		if te == nil {
			return nil
		}
		return c.fail(ss.Context(), info.FullMethod, te)
	}
}

func (c *config) fail(ctx context.Context, method string, te *boundary.Error) error {
	f := adapter.Describe(te, c.mapper)
	rid := requestID(ctx)
	c.record(ctx, method, rid, f)
	return Status(f, c.domain, rid, !c.production).Err()
}

// Status builds the outgoing status for a described failure. Details that
// cannot be attached are skipped; the base status is always returned.
func Status(f adapter.Failure, domain, requestID string, includeDebug bool) *gstatus.Status {
	st := gstatus.New(f.GRPC, f.Message)

	info := &errdetails.ErrorInfo{
		Reason: f.Code.String(),
		Domain: domain,
		Metadata: map[string]string{
			MetaCategory:   f.Category.String(),
			MetaSeverity:   f.Severity.String(),
			MetaStatusCode: strconv.Itoa(f.Status),
		},
	}
	if requestID != "" {
		info.Metadata[MetaRequestID] = requestID
	}
	st = withDetail(st, info)

	if f.Operational {
		if br := badRequest(f.Details); br != nil {
			st = withDetail(st, br)
		}
	}
	if f.RetryAfter > 0 {
		st = withDetail(st, &errdetails.RetryInfo{RetryDelay: durationpb.New(f.RetryAfter)})
	}
	if includeDebug && (f.Stack != "" || f.Detail != f.Message) {
		st = withDetail(st, &errdetails.DebugInfo{
			StackEntries: stackEntries(f.Stack),
			Detail:       f.Detail,
		})
	}
	return st
}

func withDetail(st *gstatus.Status, d protoadapt.MessageV1) *gstatus.Status {
	if next, err := st.WithDetails(d); err == nil {
		return next
	}
	return st
}

func badRequest(details any) *errdetails.BadRequest {
	var list []apis.Detail
	switch d := details.(type) {
	case []apis.Detail:
		list = d
	case apis.Detail:
		list = []apis.Detail{d}
	default:
		return nil
	}
	br := &errdetails.BadRequest{}
	for _, d := range list {
		if d.Field == "" {
			continue
		}
		br.FieldViolations = append(br.FieldViolations, &errdetails.BadRequest_FieldViolation{
			Field:       d.Field,
			Description: d.Reason,
		})
	}
	if len(br.FieldViolations) == 0 {
		return nil
	}
	return br
}

func stackEntries(stack string) []string {
	stack = strings.TrimSpace(stack)
	if stack == "" {
		return nil
	}
	return strings.Split(stack, "\n")
}

// ExtractErrorInfo pulls the ErrorInfo detail out of a gRPC error, if present.
// Useful in tests and client code.
func ExtractErrorInfo(err error) (*errdetails.ErrorInfo, bool) {
	if err == nil {
		return nil, false
	}
	st, ok := gstatus.FromError(err)
	if !ok {
		return nil, false
	}
	for _, d := range st.Details() {
		if info, ok := d.(*errdetails.ErrorInfo); ok {
			return info, true
		}
	}
	return nil, false
}

func (c *config) record(ctx context.Context, method, rid string, f adapter.Failure) {
	if !f.ShouldRecord() {
		return
	}
	defer func() {
		if p := recover(); p != nil {
			c.logger.Error("error record dropped", slog.String("panic", fmt.Sprint(p)))
		}
	}()

	payload := errlog.Payload{
		Error: adapter.LogInfo(f),
		Request: errlog.RequestInfo{
			RequestID: rid,
			Method:    "gRPC",
			URL:       method,
			IP:        peerIP(ctx),
			UserAgent: firstMD(ctx, "user-agent"),
		},
		Timestamp: c.now(),
	}
	rec, _ := sanitize.Sanitize(payload.Map()).(map[string]any)
	if err := c.sink.Write(context.WithoutCancel(ctx), f.Severity, rec); err != nil {
		c.logger.Warn("error record delivery failed", slog.String("error", err.Error()))
	}
}

func requestID(ctx context.Context) string {
	return firstMD(ctx, MetadataRequestID)
}

func firstMD(ctx context.Context, key string) string {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return ""
	}
	if v := md.Get(key); len(v) > 0 {
		return v[0]
	}
	return ""
}

func peerIP(ctx context.Context) string {
	p, ok := peer.FromContext(ctx)
	if !ok || p.Addr == nil {
		return ""
	}
	addr := p.Addr.String()
	if host, _, err := net.SplitHostPort(addr); err == nil {
		return host
	}
	return addr
}
