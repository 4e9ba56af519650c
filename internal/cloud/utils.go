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

// Package cloud provides components for interacting with external services.
// This file contains the hierarchical configuration loader.
//
// Functions:
//   - LoadConfig: reads a base TOML file and then overlays an environment
//     specific file (e.g. .env.local.toml, .env.test.toml). Directory and
//     runtime come from environment variables.
//   - ApplyEnvironment: copies secrets from the process environment into a
//     loaded Config.
package cloud

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

const (
	ConfigFileBaseName  = ".env"              // The base name for configuration files (e.g., ".env.toml").
	ConfigFileExtension = ".toml"             // The file extension for configuration files.
	ConfigSeparator     = "."                 // The separator used in config file names (e.g., ".env.local.toml").
	EnvConfigFilePrefix = "GCP_CONFIG_PREFIX" // The environment variable for specifying the config directory.
	EnvConfigRuntime    = "GCP_RUNTIME"       // The environment variable for specifying the runtime (e.g., "local", "test", "prod").
	DefaultRuntime      = "test"

	EnvTMDBAPIKey      = "TMDB_API_KEY"
	EnvTMDBAccessToken = "TMDB_ACCESS_TOKEN"
	EnvGeminiAPIKey    = "GEMINI_API_KEY"
)

func fileExists(in string) bool {
	_, err := os.Stat(in)
	return !errors.Is(err, os.ErrNotExist)
}

// ConfigFiles returns the base and runtime specific file names LoadConfig reads.
func ConfigFiles() (base string, runtime string) {
	prefix := os.Getenv(EnvConfigFilePrefix)
	env := os.Getenv(EnvConfigRuntime)
	if env == "" {
		env = DefaultRuntime
	}
	base = filepath.Join(prefix, ConfigFileBaseName+ConfigFileExtension)
	runtime = filepath.Join(prefix, ConfigFileBaseName+ConfigSeparator+env+ConfigFileExtension)
	return base, runtime
}

// LoadConfig decodes the base configuration file and then the runtime file
// into baseConfig. Values in the runtime file overwrite the base values.
// Missing files are skipped; a file that exists but does not decode is an
// error.
//
// Inputs:
//   - baseConfig: pointer to the struct to populate, normally a *Config.
func LoadConfig(baseConfig any) error {
	base, runtime := ConfigFiles()
	for _, name := range []string{base, runtime} {
		if !fileExists(name) {
			slog.Debug("configuration file not found, skipping", "file", name)
			continue
		}
		if _, err := toml.DecodeFile(name, baseConfig); err != nil {
			return fmt.Errorf("failed to decode configuration file %s: %w", name, err)
		}
		slog.Debug("loaded configuration file", "file", name)
	}
	return nil
}

// ApplyEnvironment overrides credentials with values from the environment
// when they are set.
func ApplyEnvironment(config *Config) {
	if v := os.Getenv(EnvTMDBAPIKey); v != "" {
		config.Catalog.APIKey = v
	}
	if v := os.Getenv(EnvTMDBAccessToken); v != "" {
		config.Catalog.AccessToken = v
	}
	if v := os.Getenv(EnvGeminiAPIKey); v != "" {
		config.Application.GeminiAPIKey = v
	}
}

// Validate checks that the settings the pipeline cannot run without are present.
func (c *Config) Validate() error {
	var errs []error
	if c.Catalog.BaseURL == "" {
		errs = append(errs, errors.New("catalog.base_url is required"))
	}
	if c.Catalog.APIKey == "" && c.Catalog.AccessToken == "" {
		errs = append(errs, fmt.Errorf("one of %s or %s must be set", EnvTMDBAPIKey, EnvTMDBAccessToken))
	}
	for _, name := range []string{ModelClassifier, ModelSynthesizer} {
		if m, ok := c.AgentModels[name]; !ok || m.Model == "" {
			errs = append(errs, fmt.Errorf("agent_models.%s.model is required", name))
		}
	}
	switch c.Application.Backend {
	case BackendVertexAI:
		if c.Application.GoogleProjectId == "" {
			errs = append(errs, errors.New("application.google_project_id is required for the vertex backend"))
		}
	default:
		if c.Application.GeminiAPIKey == "" {
			errs = append(errs, fmt.Errorf("%s must be set for the gemini backend", EnvGeminiAPIKey))
		}
	}
	return errors.Join(errs...)
}
