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

// Package cor (Chain of Responsibility) provides the building blocks the query
// pipeline is assembled from. A workflow is a Chain of Commands sharing one
// Context: each command reads what earlier commands stored, does one unit of
// work, and stores its result for the commands that follow. A command whose
// preconditions are not met reports so through IsExecutable and is skipped,
// which is how the pipeline branches without an explicit router.
package cor

import (
	"context"

	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// CtxIn and CtxOut are the keys a BaseChain uses to pipe the primary output of
// one command into the next.
const (
	// CtxIn holds the current command's primary input. The chain fills it with
	// the previous command's CtxOut value.
	CtxIn = "__IN__"
	// CtxOut is where a command places the value the next command should receive.
	CtxOut = "__OUT__"
)

// Context is the per-execution property bag carried through a chain. It is
// created fresh for every workflow run and is never shared between runs.
type Context interface {
	// SetContext replaces the Go context used for cancellation and tracing.
	SetContext(ctx context.Context)
	// GetContext returns the current Go context.
	GetContext() context.Context

	// Add stores a value and returns the Context for chaining.
	Add(key string, value any) Context
	// Get returns the stored value or nil.
	Get(key string) any
	// Remove deletes a stored value.
	Remove(key string)

	// AddError records a failure against the name of the command that produced it.
	AddError(key string, err error)
	// GetErrors returns every recorded failure keyed by command name.
	GetErrors() map[string]error
	// HasErrors reports whether any failure has been recorded.
	HasErrors() bool
	// Err joins the recorded failures into one error, or returns nil.
	Err() error
}

// Executable is anything with an Execute step.
type Executable interface {
	Execute(context Context)
}

// Command is one unit of work in a chain.
type Command interface {
	Executable

	GetName() string
	GetInputParam() string
	GetOutputParam() string

	// IsExecutable is checked by the chain before Execute. Returning false
	// skips the command without recording a failure.
	IsExecutable(context Context) bool

	GetTracer() trace.Tracer
	GetMeter() metric.Meter
	GetSuccessCounter() metric.Int64Counter
	GetErrorCounter() metric.Int64Counter
}

// Chain is an ordered sequence of commands and is itself a Command, so chains
// can be nested.
type Chain interface {
	Command

	// ContinueOnFailure controls whether commands after a recorded failure still run.
	ContinueOnFailure(bool) Chain
	// AddCommand appends a command to the sequence.
	AddCommand(command Command) Chain
}
