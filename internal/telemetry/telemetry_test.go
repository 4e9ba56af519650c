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

package telemetry_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/jaycherian/gcp-go-movie-agent/internal/cloud"
	"github.com/jaycherian/gcp-go-movie-agent/internal/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

func restoreDefaultLogger(t *testing.T) {
	previous := slog.Default()
	t.Cleanup(func() { slog.SetDefault(previous) })
}

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &out))
	return out
}

func TestSetupLogging_CloudLoggingKeys(t *testing.T) {
	restoreDefaultLogger(t)
	var buf bytes.Buffer
	closer := telemetry.SetupLogging(&buf, cloud.Telemetry{})
	defer closer.Close()

	slog.Warn("careful", "movie", "Inception")

	line := decodeLine(t, &buf)
	assert.Equal(t, "WARNING", line["severity"])
	assert.Equal(t, "careful", line["message"])
	assert.Equal(t, "Inception", line["movie"])
	assert.Contains(t, line, "timestamp")
}

func TestSetupLogging_TraceCorrelation(t *testing.T) {
	restoreDefaultLogger(t)
	var buf bytes.Buffer
	closer := telemetry.SetupLogging(&buf, cloud.Telemetry{})
	defer closer.Close()

	tp := sdktrace.NewTracerProvider()
	defer tp.Shutdown(context.Background())
	ctx, span := tp.Tracer("test").Start(context.Background(), "span")
	slog.InfoContext(ctx, "inside span")
	span.End()

	line := decodeLine(t, &buf)
	assert.Equal(t, span.SpanContext().TraceID().String(), line["logging.googleapis.com/trace"])
	assert.Equal(t, span.SpanContext().SpanID().String(), line["logging.googleapis.com/spanId"])
	assert.Equal(t, true, line["logging.googleapis.com/trace_sampled"])
}

func TestSetupLogging_RotatingFile(t *testing.T) {
	restoreDefaultLogger(t)
	path := filepath.Join(t.TempDir(), "agent.log")
	var buf bytes.Buffer
	closer := telemetry.SetupLogging(&buf, cloud.Telemetry{LogFile: path, MaxSizeMB: 1})

	slog.With("component", "test").Info("to file")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"message":"to file"`)
	assert.Contains(t, string(data), `"component":"test"`)
	assert.Equal(t, buf.String(), string(data))
}

func TestSetupOpenTelemetry_WithoutExporter(t *testing.T) {
	config := cloud.NewConfig()
	config.Application.Name = "movie-agent-test"

	shutdown, err := telemetry.SetupOpenTelemetry(context.Background(), config)
	require.NoError(t, err)
	require.NotNil(t, shutdown)
	assert.NoError(t, shutdown(context.Background()))
	assert.NoError(t, shutdown(context.Background()), "a second shutdown is a no-op")
}
