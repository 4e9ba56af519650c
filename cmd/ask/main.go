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

// Command ask answers one movie question from the command line.
//
// Usage:
//
//	ask [-json] [-quiet] [-timeout 60s] tell me about inception
//
// The answer is streamed to stdout as it is generated. Progress messages and
// logs go to stderr.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/jaycherian/gcp-go-movie-agent/internal/cloud"
	"github.com/jaycherian/gcp-go-movie-agent/internal/core/model"
	"github.com/jaycherian/gcp-go-movie-agent/internal/core/workflow"
	"github.com/jaycherian/gcp-go-movie-agent/internal/telemetry"
)

// consoleObserver prints progress to stderr and a header to stdout once the
// movie is known.
type consoleObserver struct {
	out   io.Writer
	err   io.Writer
	quiet bool
}

func (o consoleObserver) Status(message string) {
	if !o.quiet {
		fmt.Fprintf(o.err, "... %s\n", message)
	}
}

func (o consoleObserver) MovieResolved(details *model.MovieDetails, trailer *model.TrailerInfo) {
	fmt.Fprintf(o.out, "== %s ==\n", details.DisplayTitle())
	if trailer != nil {
		fmt.Fprintf(o.out, "Trailer: %s\n", trailer.URL)
	}
	fmt.Fprintln(o.out)
}

func loadConfig() (*cloud.Config, error) {
	if os.Getenv(cloud.EnvConfigFilePrefix) == "" {
		if err := os.Setenv(cloud.EnvConfigFilePrefix, "configs"); err != nil {
			return nil, err
		}
	}
	if os.Getenv(cloud.EnvConfigRuntime) == "" {
		if err := os.Setenv(cloud.EnvConfigRuntime, "local"); err != nil {
			return nil, err
		}
	}
	config := cloud.NewConfig()
	if err := cloud.LoadConfig(config); err != nil {
		return nil, err
	}
	cloud.ApplyEnvironment(config)
	return config, config.Validate()
}

func run(ctx context.Context, query string, asJSON bool, quiet bool) error {
	config, err := loadConfig()
	if err != nil {
		return err
	}
	logCloser := telemetry.SetupLogging(os.Stderr, config.Telemetry)
	defer logCloser.Close()

	clients, err := cloud.NewCloudServiceClients(ctx, config)
	if err != nil {
		return err
	}
	defer clients.Close()

	wf, err := workflow.NewQueryWorkflowFromClients(config, clients)
	if err != nil {
		return err
	}

	if asJSON {
		answer, err := wf.Handle(ctx, query, nil)
		if answer != nil {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			if encErr := enc.Encode(answer); encErr != nil {
				return encErr
			}
		}
		return err
	}

	observer := consoleObserver{out: os.Stdout, err: os.Stderr, quiet: quiet}
	sink := func(fragment string) { fmt.Fprint(os.Stdout, fragment) }
	answer, err := wf.HandleWithObserver(ctx, query, sink, observer)
	if answer != nil && answer.Text != "" && !strings.HasSuffix(answer.Text, "\n") {
		fmt.Fprintln(os.Stdout)
	}
	return err
}

func main() {
	asJSON := flag.Bool("json", false, "print the full answer as JSON instead of streaming text")
	quiet := flag.Bool("quiet", false, "suppress progress messages")
	timeout := flag.Duration("timeout", 2*time.Minute, "upper bound for answering")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [flags] <question>\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	query := strings.Join(flag.Args(), " ")
	if strings.TrimSpace(query) == "" {
		flag.Usage()
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, *timeout)
	defer cancel()

	if err := run(ctx, query, *asJSON, *quiet); err != nil {
		if errors.Is(err, model.ErrDetailsUnavailable) {
			log.New(os.Stderr, "", 0).Printf("Sorry, the details for that movie could not be loaded: %v", err)
			os.Exit(1)
		}
		log.New(os.Stderr, "", 0).Fatalf("ask: %v", err)
	}
}
