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
	"context"
	"log/slog"
	"sort"

	"dirpx.dev/apperr/severity"
)

// DefaultMessage is the slog message of records written by SlogSink.
const DefaultMessage = "request failed"

// SlogSink writes records to a slog.Logger. The level follows the severity
// (see severity.Level); nested maps become groups, keys are sorted.
type SlogSink struct {
	logger  *slog.Logger
	message string
}

// NewSlogSink returns a sink writing to logger (slog.Default() when nil).
func NewSlogSink(logger *slog.Logger) *SlogSink {
	if logger == nil {
		logger = slog.Default()
	}
	return &SlogSink{logger: logger, message: DefaultMessage}
}

// Write logs record at the level of sev.
func (s *SlogSink) Write(ctx context.Context, sev severity.Severity, record map[string]any) error {
	level := sev.Level()
	if !s.logger.Enabled(ctx, level) {
		return nil
	}
	s.logger.LogAttrs(ctx, level, s.message, toAttrs(record)...)
	return nil
}

func toAttrs(m map[string]any) []slog.Attr {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	attrs := make([]slog.Attr, 0, len(keys))
	for _, k := range keys {
		if nested, ok := m[k].(map[string]any); ok {
			attrs = append(attrs, slog.Attr{Key: k, Value: slog.GroupValue(toAttrs(nested)...)})
			continue
		}
		attrs = append(attrs, slog.Any(k, m[k]))
	}
	return attrs
}
