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
	"errors"

	"dirpx.dev/apperr/severity"
)

// Sink receives sanitized failure records.
//
// record is owned by the sink after the call; implementations must not assume
// it stays valid for other callers and must be safe for concurrent use.
type Sink interface {
	Write(ctx context.Context, sev severity.Severity, record map[string]any) error
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(ctx context.Context, sev severity.Severity, record map[string]any) error

// Write calls f.
func (f SinkFunc) Write(ctx context.Context, sev severity.Severity, record map[string]any) error {
	return f(ctx, sev, record)
}

// Discard drops every record.
var Discard Sink = SinkFunc(func(context.Context, severity.Severity, map[string]any) error { return nil })

type multiSink []Sink

// Multi returns a Sink that writes to every sink in order. All sinks are
// attempted; their errors are joined.
func Multi(sinks ...Sink) Sink {
	out := make(multiSink, 0, len(sinks))
	for _, s := range sinks {
		if s != nil {
			out = append(out, s)
		}
	}
	return out
}

func (m multiSink) Write(ctx context.Context, sev severity.Severity, record map[string]any) error {
	var errs []error
	for _, s := range m {
		if err := s.Write(ctx, sev, record); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
