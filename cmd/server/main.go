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

package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jaycherian/gcp-go-movie-agent/internal/api"
	"github.com/jaycherian/gcp-go-movie-agent/internal/telemetry"
)

func main() {
	config := GetConfig()

	logCloser := telemetry.SetupLogging(os.Stdout, config.Telemetry)
	defer logCloser.Close()
	slog.Info("Logging initialized")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	shutdownTelemetry, err := telemetry.SetupOpenTelemetry(ctx, config)
	if err != nil {
		slog.Error("Failed to setup OpenTelemetry", "error", err)
		log.Fatal(err)
	}
	defer func() {
		if err := shutdownTelemetry(context.Background()); err != nil {
			slog.Error("Failed to shutdown OpenTelemetry", "error", err)
		}
	}()
	slog.Info("Tracing initialized")

	if err := InitState(ctx); err != nil {
		slog.Error("Failed to initialize state", "error", err)
		log.Fatal(err)
	}
	defer state.cloud.Close()
	slog.Info("Initialized State")

	var limiter *api.IPRateLimiter
	if config.RateLimit.RequestsPerMinute > 0 {
		limiter = api.NewIPRateLimiter(ctx, config.RateLimit.RequestsPerMinute, config.RateLimit.Burst)
	}

	gin.SetMode(gin.ReleaseMode)
	r := api.NewRouter(config, &api.Handler{Workflow: state.workflow, Posters: state.posters}, limiter)

	addr := config.Application.ListenAddress
	if addr == "" {
		addr = ":8080"
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("failed to listen", "error", err)
			cancel()
		}
	}()
	slog.Info("Server Ready", "address", addr)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case <-ctx.Done():
	}
	slog.Info("Shutdown Server ...")

	// Streaming answers can take a while; give in-flight requests 15 seconds.
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server Shutdown Failed", "error", err)
	}
	cancel()

	slog.Info("Server exiting")
}
