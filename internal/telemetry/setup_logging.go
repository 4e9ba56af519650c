// Copyright 2024 Google, LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package telemetry provides utilities for setting up and configuring
// application observability, including logging, tracing, and metrics.
// This file specifically handles the setup of structured logging that
// is compatible with Google Cloud Logging and integrates with OpenTelemetry traces.
package telemetry

import (
	"context"
	"io"
	"log"
	"log/slog"

	"github.com/jaycherian/gcp-go-movie-agent/internal/cloud"
	"go.opentelemetry.io/otel/trace"
	"gopkg.in/natefinch/lumberjack.v2"
)

// spanContextLogHandler is a custom slog.Handler that wraps another handler.
// It injects the OpenTelemetry trace and span IDs of the record's context so
// logs and traces can be correlated in Cloud Logging.
type spanContextLogHandler struct {
	slog.Handler
}

func handlerWithSpanContext(handler slog.Handler) *spanContextLogHandler {
	return &spanContextLogHandler{Handler: handler}
}

// Handle adds the trace fields Cloud Logging expects when the context carries
// a valid span.
// See: https://cloud.google.com/logging/docs/structured-logging#special-payload-fields
func (t *spanContextLogHandler) Handle(ctx context.Context, record slog.Record) error {
	if s := trace.SpanContextFromContext(ctx); s.IsValid() {
		record.AddAttrs(
			slog.Any("logging.googleapis.com/trace", s.TraceID()),
			slog.Any("logging.googleapis.com/spanId", s.SpanID()),
			slog.Bool("logging.googleapis.com/trace_sampled", s.TraceFlags().IsSampled()),
		)
	}
	return t.Handler.Handle(ctx, record)
}

// WithAttrs and WithGroup keep the span handler on the outside of derived loggers.
func (t *spanContextLogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return handlerWithSpanContext(t.Handler.WithAttrs(attrs))
}

func (t *spanContextLogHandler) WithGroup(name string) slog.Handler {
	return handlerWithSpanContext(t.Handler.WithGroup(name))
}

// replacer renames the default slog keys to the ones Cloud Logging parses
// ("severity", "timestamp", "message").
func replacer(_ []string, a slog.Attr) slog.Attr {
	switch a.Key {
	case slog.LevelKey:
		a.Key = "severity"
		// https://cloud.google.com/logging/docs/reference/v2/rest/v2/LogEntry#LogSeverity
		if level, ok := a.Value.Any().(slog.Level); ok && level == slog.LevelWarn {
			a.Value = slog.StringValue("WARNING")
		}
	case slog.TimeKey:
		a.Key = "timestamp"
	case slog.MessageKey:
		a.Key = "message"
	}
	return a
}

type closerFunc func() error

func (f closerFunc) Close() error { return f() }

// SetupLogging installs a JSON slog handler, with trace correlation, as the
// process default. Records go to console and, when settings.LogFile is set,
// to a size-rotated file. The standard log package is redirected to the same
// writers.
//
// The returned Closer releases the log file; it is safe to call when no file
// is configured.
func SetupLogging(console io.Writer, settings cloud.Telemetry) io.Closer {
	writer := console
	closer := io.Closer(closerFunc(func() error { return nil }))

	if settings.LogFile != "" {
		file := &lumberjack.Logger{
			Filename:   settings.LogFile,
			MaxSize:    settings.MaxSizeMB,
			MaxBackups: settings.MaxBackups,
			MaxAge:     settings.MaxAgeDays,
		}
		writer = io.MultiWriter(console, file)
		closer = file
	}

	log.SetOutput(writer)
	log.SetPrefix("[INFO] ")
	log.SetFlags(log.Ldate | log.Ltime)

	jsonHandler := slog.NewJSONHandler(writer, &slog.HandlerOptions{ReplaceAttr: replacer, Level: slog.LevelInfo})
	slog.SetDefault(slog.New(handlerWithSpanContext(jsonHandler)))
	return closer
}
