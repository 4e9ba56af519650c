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

// Package test provides helpers shared by the package test suites: a cached
// test configuration, a scriptable text generator and fake TMDB and search
// servers built on httptest.
package test

import (
	"context"
	"iter"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"testing"

	"github.com/jaycherian/gcp-go-movie-agent/internal/cloud"
)

// StateManager caches the test configuration between calls.
type StateManager struct {
	once   sync.Once
	config *cloud.Config
}

var state = &StateManager{}

// HandleErr fails the test when err is not nil.
func HandleErr(err error, t *testing.T) {
	t.Helper()
	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

// ConfigDir returns the repository's configs directory, independent of the
// package directory the test runs in.
func ConfigDir() string {
	_, file, _, _ := runtime.Caller(0)
	return filepath.Join(filepath.Dir(file), "..", "..", "configs")
}

// SetupOS points the configuration loader at configs/.env.test.toml.
func SetupOS() error {
	if err := os.Setenv(cloud.EnvConfigFilePrefix, ConfigDir()); err != nil {
		return err
	}
	return os.Setenv(cloud.EnvConfigRuntime, "test")
}

// GetConfig loads the test configuration once and returns the cached copy.
func GetConfig() *cloud.Config {
	state.once.Do(func() {
		if err := SetupOS(); err != nil {
			log.Fatalf("failed to setup environment for test: %v\n", err)
		}
		config := cloud.NewConfig()
		if err := cloud.LoadConfig(config); err != nil {
			log.Fatalf("failed to load test configuration: %v\n", err)
		}
		state.config = config
	})
	return state.config
}

// FakeGenerator is a scriptable text generator. Respond decides the chunks
// for a prompt; GenerateText returns them joined and GenerateTextStream
// yields them one by one. When Err is set every call fails; when StreamErr
// is set streams fail after the chunks have been yielded.
type FakeGenerator struct {
	Respond   func(prompt string) []string
	Err       error
	StreamErr error

	mu      sync.Mutex
	prompts []string
}

// NewFakeGenerator answers every prompt with chunks.
func NewFakeGenerator(chunks ...string) *FakeGenerator {
	return &FakeGenerator{Respond: func(string) []string { return chunks }}
}

func (f *FakeGenerator) record(prompt string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prompts = append(f.prompts, prompt)
}

// Prompts returns every prompt received, in order.
func (f *FakeGenerator) Prompts() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.prompts...)
}

// Calls returns the number of prompts received.
func (f *FakeGenerator) Calls() int {
	return len(f.Prompts())
}

func (f *FakeGenerator) GenerateText(_ context.Context, prompt string) (string, error) {
	f.record(prompt)
	if f.Err != nil {
		return "", f.Err
	}
	return strings.Join(f.Respond(prompt), ""), nil
}

func (f *FakeGenerator) GenerateTextStream(_ context.Context, prompt string) iter.Seq2[string, error] {
	f.record(prompt)
	return func(yield func(string, error) bool) {
		if f.Err != nil {
			yield("", f.Err)
			return
		}
		for _, chunk := range f.Respond(prompt) {
			if !yield(chunk, nil) {
				return
			}
		}
		if f.StreamErr != nil {
			yield("", f.StreamErr)
		}
	}
}
