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
	"log/slog"
	"sync"
	"sync/atomic"

	"dirpx.dev/apperr/severity"
)

// ErrQueueFull is returned by AsyncSink.Write when the record was dropped.
var ErrQueueFull = errors.New("errlog: async queue full, record dropped")

// ErrSinkClosed is returned by AsyncSink.Write after Close.
var ErrSinkClosed = errors.New("errlog: sink closed")

type entry struct {
	ctx    context.Context
	sev    severity.Severity
	record map[string]any
}

// AsyncSink queues records and delivers them to another sink from a single
// background goroutine. When the queue is full, records are dropped rather
// than blocking the request.
type AsyncSink struct {
	next   Sink
	logger *slog.Logger
	queue  chan entry
	done   chan struct{}

	mu      sync.RWMutex
	closed  bool
	dropped atomic.Uint64
}

// NewAsyncSink starts the delivery goroutine. size is the queue capacity
// (minimum 1). Delivery errors from next are logged to logger
// (slog.Default() when nil).
func NewAsyncSink(next Sink, size int, logger *slog.Logger) *AsyncSink {
	if size < 1 {
		size = 1
	}
	if logger == nil {
		logger = slog.Default()
	}
	s := &AsyncSink{
		next:   next,
		logger: logger,
		queue:  make(chan entry, size),
		done:   make(chan struct{}),
	}
	go s.run()
	return s
}

func (s *AsyncSink) run() {
	defer close(s.done)
	for e := range s.queue {
		if err := s.next.Write(e.ctx, e.sev, e.record); err != nil {
			s.logger.LogAttrs(e.ctx, slog.LevelWarn, "error record delivery failed",
				slog.String("severity", e.sev.String()),
				slog.String("error", err.Error()))
		}
	}
}

// Write enqueues the record without blocking. The request context's values
// are kept, its cancellation is not.
func (s *AsyncSink) Write(ctx context.Context, sev severity.Severity, record map[string]any) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return ErrSinkClosed
	}
	select {
	case s.queue <- entry{ctx: context.WithoutCancel(ctx), sev: sev, record: record}:
		return nil
	default:
		s.dropped.Add(1)
		return ErrQueueFull
	}
}

// Dropped returns the number of records dropped because the queue was full.
func (s *AsyncSink) Dropped() uint64 { return s.dropped.Load() }

// Close stops accepting records and waits until the queue is drained or ctx
// is done. It is safe to call more than once.
func (s *AsyncSink) Close(ctx context.Context) error {
	s.mu.Lock()
	if !s.closed {
		s.closed = true
		close(s.queue)
	}
	s.mu.Unlock()

	select {
	case <-s.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
