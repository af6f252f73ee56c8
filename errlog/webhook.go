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
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"dirpx.dev/apperr/severity"
	"github.com/cenkalti/backoff/v4"
)

const (
	webhookTimeout = 5 * time.Second

	// Bounds of the default retry policy.
	webhookInitialInterval = 500 * time.Millisecond
	webhookMaxInterval     = 5 * time.Second
	webhookMaxElapsed      = 30 * time.Second
)

// ErrInvalidWebhookURL is returned by NewWebhookSink for unusable URLs.
var ErrInvalidWebhookURL = errors.New("errlog: invalid webhook url")

// WebhookSink posts records to an alerting endpoint as JSON:
//
//	{"severity": "CRITICAL", "record": {...}}
//
// Records below the minimum severity are skipped. Delivery is retried with
// exponential backoff on transport errors, 429 and 5xx; any other non-2xx
// response is final.
//
// Write blocks for the whole retry sequence; wrap the sink in an AsyncSink to
// keep it off the request path.
type WebhookSink struct {
	url        string
	client     *http.Client
	min        severity.Severity
	newBackOff func() backoff.BackOff
}

// WebhookOption configures a WebhookSink.
type WebhookOption func(*WebhookSink)

// WithMinSeverity sets the lowest severity that is posted. Default: High.
func WithMinSeverity(min severity.Severity) WebhookOption {
	return func(s *WebhookSink) { s.min = min }
}

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(c *http.Client) WebhookOption {
	return func(s *WebhookSink) {
		if c != nil {
			s.client = c
		}
	}
}

// WithBackOff replaces the retry policy. newBackOff is called once per Write.
func WithBackOff(newBackOff func() backoff.BackOff) WebhookOption {
	return func(s *WebhookSink) {
		if newBackOff != nil {
			s.newBackOff = newBackOff
		}
	}
}

// NewWebhookSink validates rawURL (absolute http or https) and returns a sink.
func NewWebhookSink(rawURL string, opts ...WebhookOption) (*WebhookSink, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidWebhookURL, err)
	}
	if (u.Scheme != "https" && u.Scheme != "http") || u.Host == "" {
		return nil, fmt.Errorf("%w: %q must be an absolute http(s) url", ErrInvalidWebhookURL, u.Redacted())
	}

	s := &WebhookSink{
		url:        rawURL,
		client:     &http.Client{Timeout: webhookTimeout},
		min:        severity.High,
		newBackOff: defaultBackOff,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func defaultBackOff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = webhookInitialInterval
	b.MaxInterval = webhookMaxInterval
	b.MaxElapsedTime = webhookMaxElapsed
	return b
}

type webhookMessage struct {
	Severity string         `json:"severity"`
	Record   map[string]any `json:"record"`
}

// Write posts the record if sev reaches the threshold.
func (s *WebhookSink) Write(ctx context.Context, sev severity.Severity, record map[string]any) error {
	if !sev.AtLeast(s.min) {
		return nil
	}
	body, err := json.Marshal(webhookMessage{Severity: sev.String(), Record: record})
	if err != nil {
		return fmt.Errorf("errlog: encode webhook message: %w", err)
	}

	op := func() error { return s.post(ctx, body) }
	if err := backoff.Retry(op, backoff.WithContext(s.newBackOff(), ctx)); err != nil {
		return fmt.Errorf("errlog: webhook delivery: %w", err)
	}
	return nil
}

// post performs one delivery attempt. Non-retryable failures are wrapped in
// backoff.Permanent.
func (s *WebhookSink) post(ctx context.Context, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return backoff.Permanent(err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return backoff.Permanent(ctx.Err())
		}
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4<<10))

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return nil
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return fmt.Errorf("webhook responded %d", resp.StatusCode)
	default:
		return backoff.Permanent(fmt.Errorf("webhook responded %d", resp.StatusCode))
	}
}
