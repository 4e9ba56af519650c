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
	"fmt"
	"log"
	"os"

	"github.com/jaycherian/gcp-go-movie-agent/internal/cloud"
	"github.com/jaycherian/gcp-go-movie-agent/internal/core/services"
	"github.com/jaycherian/gcp-go-movie-agent/internal/core/workflow"
)

// StateManager holds the process wide dependencies.
type StateManager struct {
	config   *cloud.Config
	cloud    *cloud.ServiceClients
	workflow *workflow.QueryWorkflow
	posters  *services.PosterFetcher
}

var state = &StateManager{}

// SetupOS defaults the configuration directory to "configs" and the runtime
// to "local" unless the environment already names them.
func SetupOS() error {
	if os.Getenv(cloud.EnvConfigFilePrefix) == "" {
		if err := os.Setenv(cloud.EnvConfigFilePrefix, "configs"); err != nil {
			return err
		}
	}
	if os.Getenv(cloud.EnvConfigRuntime) == "" {
		return os.Setenv(cloud.EnvConfigRuntime, "local")
	}
	return nil
}

// GetConfig loads, completes and validates the configuration, exiting on failure.
func GetConfig() *cloud.Config {
	if state.config == nil {
		if err := SetupOS(); err != nil {
			log.Fatalf("failed to setup os: %v\n", err)
		}
		config := cloud.NewConfig()
		if err := cloud.LoadConfig(config); err != nil {
			log.Fatalf("failed to load configuration: %v\n", err)
		}
		cloud.ApplyEnvironment(config)
		if err := config.Validate(); err != nil {
			log.Fatalf("invalid configuration: %v\n", err)
		}
		state.config = config
	}
	return state.config
}

// InitState creates the service clients, the query workflow and the
// Pub/Sub listeners.
func InitState(ctx context.Context) error {
	config := GetConfig()

	cloudClients, err := cloud.NewCloudServiceClients(ctx, config)
	if err != nil {
		return err
	}
	state.cloud = cloudClients

	wf, err := workflow.NewQueryWorkflowFromClients(config, cloudClients)
	if err != nil {
		cloudClients.Close()
		return fmt.Errorf("failed to create query workflow: %w", err)
	}
	state.workflow = wf
	state.posters = services.NewPosterFetcher(
		cloudClients.CatalogHTTPClient,
		services.NewCatalogClient(cloudClients.CatalogHTTPClient, config.Catalog),
	)

	SetupListeners(ctx, cloudClients, wf)
	return nil
}
