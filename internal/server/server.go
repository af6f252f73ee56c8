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

// Package server assembles the storefront API process from a config.Config:
// the redacting logger, the error sinks, the HTTP responder and routes, and
// the optional gRPC server with health checks.
package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"

	"dirpx.dev/apperr/config"
	"dirpx.dev/apperr/errlog"
	"dirpx.dev/apperr/grpcx"
	"dirpx.dev/apperr/httpx"
	"dirpx.dev/apperr/internal/demo"
	"dirpx.dev/apperr/sanitize"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// NewLogger builds the process logger. Every record passes through the
// sanitizing handler before it is written.
func NewLogger(cfg config.Config, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.SlogLevel()}
	var h slog.Handler
	if cfg.LogFormat == config.FormatText {
		h = slog.NewTextHandler(w, opts)
	} else {
		h = slog.NewJSONHandler(w, opts)
	}
	return slog.New(sanitize.NewHandler(h))
}

// NewSink returns the error sink for cfg: the logger always, plus the alert
// webhook behind a bounded queue when configured. The returned close function
// drains the queue.
func NewSink(cfg config.Config, logger *slog.Logger) (errlog.Sink, func(context.Context) error, error) {
	logSink := errlog.NewSlogSink(logger)
	if cfg.AlertWebhookURL == "" {
		return logSink, func(context.Context) error { return nil }, nil
	}
	hook, err := errlog.NewWebhookSink(cfg.AlertWebhookURL, errlog.WithMinSeverity(cfg.AlertMinSeverity))
	if err != nil {
		return nil, nil, fmt.Errorf("server: alert sink: %w", err)
	}
	async := errlog.NewAsyncSink(hook, cfg.AlertQueueSize, logger)
	return errlog.Multi(logSink, async), async.Close, nil
}

// Server runs the HTTP API and, when configured, the gRPC server.
type Server struct {
	cfg       config.Config
	logger    *slog.Logger
	http      *http.Server
	grpc      *grpc.Server
	health    *health.Server
	closeSink func(context.Context) error
}

// New wires a Server from cfg. cfg must be valid.
func New(cfg config.Config, logger *slog.Logger) (*Server, error) {
	sink, closeSink, err := NewSink(cfg, logger)
	if err != nil {
		return nil, err
	}

	rs := httpx.NewResponder(
		httpx.WithSink(sink),
		httpx.WithLogger(logger),
		httpx.WithProduction(cfg.Production()),
	)
	s := &Server{
		cfg:    cfg,
		logger: logger,
		http: &http.Server{
			Addr:              cfg.Addr,
			Handler:           demo.NewMux(rs),
			ReadHeaderTimeout: 10 * time.Second,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       60 * time.Second,
			ErrorLog:          slog.NewLogLogger(logger.Handler(), slog.LevelWarn),
		},
		closeSink: closeSink,
	}

	if cfg.GRPCAddr != "" {
		opts := []grpcx.Option{
			grpcx.WithSink(sink),
			grpcx.WithLogger(logger),
			grpcx.WithProduction(cfg.Production()),
		}
		s.grpc = grpc.NewServer(
			grpc.ChainUnaryInterceptor(grpcx.UnaryServerInterceptor(opts...)),
			grpc.ChainStreamInterceptor(grpcx.StreamServerInterceptor(opts...)),
		)
		s.health = health.NewServer()
		healthpb.RegisterHealthServer(s.grpc, s.health)
	}
	return s, nil
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler { return s.http.Handler }

// Run listens on the configured addresses and serves until ctx is done.
func (s *Server) Run(ctx context.Context) error {
	httpLn, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("server: listen http: %w", err)
	}
	var grpcLn net.Listener
	if s.grpc != nil {
		if grpcLn, err = net.Listen("tcp", s.cfg.GRPCAddr); err != nil {
			_ = httpLn.Close()
			return fmt.Errorf("server: listen grpc: %w", err)
		}
	}
	return s.Serve(ctx, httpLn, grpcLn)
}

// Serve serves on the given listeners until ctx is done or a server fails,
// then shuts everything down within the configured timeout. grpcLn is
// ignored when gRPC is disabled.
func (s *Server) Serve(ctx context.Context, httpLn, grpcLn net.Listener) error {
	errCh := make(chan error, 2)

	go func() {
		s.logger.Info("http server listening", slog.String("addr", httpLn.Addr().String()))
		if err := s.http.Serve(httpLn); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("server: http: %w", err)
		}
	}()
	if s.grpc != nil && grpcLn != nil {
		go func() {
			s.logger.Info("grpc server listening", slog.String("addr", grpcLn.Addr().String()))
			if err := s.grpc.Serve(grpcLn); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
				errCh <- fmt.Errorf("server: grpc: %w", err)
			}
		}()
	}

	var runErr error
	select {
	case <-ctx.Done():
	case runErr = <-errCh:
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(s.cfg.ShutdownTimeout))
	defer cancel()
	return errors.Join(runErr, s.shutdown(shutdownCtx))
}

func (s *Server) shutdown(ctx context.Context) error {
	s.logger.Info("shutting down")
	var errs []error
	if s.grpc != nil {
		s.health.Shutdown()
		stopped := make(chan struct{})
		go func() {
			s.grpc.GracefulStop()
			close(stopped)
		}()
		select {
		case <-stopped:
		case <-ctx.Done():
			s.grpc.Stop()
		}
	}
	if err := s.http.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("server: http shutdown: %w", err))
	}
	if err := s.closeSink(ctx); err != nil {
		errs = append(errs, fmt.Errorf("server: close sink: %w", err))
	}
	return errors.Join(errs...)
}
