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
	"context"
	"log/slog"
)

// Handler is a slog.Handler decorator that applies the sanitizer's key policy
// to every attribute before forwarding the record.
//
// Attribute keys are matched with IsSensitiveKey; groups are walked up to
// MaxDepth; map values carried by slog.AnyValue go through Sanitize.
type Handler struct {
	next slog.Handler
}

var _ slog.Handler = (*Handler)(nil)

// NewHandler wraps next.
func NewHandler(next slog.Handler) *Handler {
	return &Handler{next: next}
}

// Enabled reports whether the wrapped handler handles records at level.
func (h *Handler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

// Handle redacts the record's attributes and forwards it.
func (h *Handler) Handle(ctx context.Context, record slog.Record) error {
	out := slog.NewRecord(record.Time, record.Level, record.Message, record.PC)
	record.Attrs(func(a slog.Attr) bool {
		out.AddAttrs(redactAttr(a, 0))
		return true
	})
	return h.next.Handle(ctx, out)
}

// WithAttrs returns a Handler whose pre-bound attributes are redacted.
func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	redacted := make([]slog.Attr, 0, len(attrs))
	for _, a := range attrs {
		redacted = append(redacted, redactAttr(a, 0))
	}
	return &Handler{next: h.next.WithAttrs(redacted)}
}

// WithGroup returns a Handler that opens a group on the wrapped handler.
func (h *Handler) WithGroup(name string) slog.Handler {
	return &Handler{next: h.next.WithGroup(name)}
}

func redactAttr(a slog.Attr, depth int) slog.Attr {
	if IsSensitiveKey(a.Key) {
		return slog.String(a.Key, Placeholder)
	}
	v := a.Value.Resolve()
	switch v.Kind() {
	case slog.KindGroup:
		if depth >= MaxDepth {
			return slog.String(a.Key, TruncatedMarker)
		}
		group := v.Group()
		redacted := make([]slog.Attr, 0, len(group))
		for _, ga := range group {
			redacted = append(redacted, redactAttr(ga, depth+1))
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(redacted...)}
	case slog.KindAny:
		return slog.Any(a.Key, Sanitize(v.Any()))
	default:
		return slog.Attr{Key: a.Key, Value: v}
	}
}
