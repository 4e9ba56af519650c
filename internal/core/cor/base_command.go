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

package cor

import (
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// MeterName is the instrumentation scope for command counters.
const MeterName = "github.com/jaycherian/gcp-go-movie-agent"

// BaseCommand carries the name, parameter keys and telemetry every command
// needs. Concrete commands embed it and override Execute and, usually,
// IsExecutable.
type BaseCommand struct {
	Name            string
	InputParamName  string
	OutputParamName string
	Tracer          trace.Tracer
	Meter           metric.Meter
	SuccessCounter  metric.Int64Counter
	ErrorCounter    metric.Int64Counter
}

// NewBaseCommand creates a command named name with "<name>.counter.success"
// and "<name>.counter.error" counters registered on the global meter provider.
func NewBaseCommand(name string) *BaseCommand {
	meter := otel.Meter(MeterName)

	successCounter, err := meter.Int64Counter(fmt.Sprintf("%s.counter.success", name))
	if err != nil {
		slog.Warn("failed to create success counter", "command", name, "error", err)
	}
	errorCounter, err := meter.Int64Counter(fmt.Sprintf("%s.counter.error", name))
	if err != nil {
		slog.Warn("failed to create error counter", "command", name, "error", err)
	}

	return &BaseCommand{
		Name:           name,
		Tracer:         otel.Tracer(name),
		Meter:          meter,
		SuccessCounter: successCounter,
		ErrorCounter:   errorCounter,
	}
}

// GetName returns the command's name. The name labels the command's spans
// and keys any error it records on the context.
//
// Outputs:
//   - string: The name given to NewBaseCommand.
func (c *BaseCommand) GetName() string {
	return c.Name
}

// IsExecutable requires a Go context and a value under the input key.
func (c *BaseCommand) IsExecutable(context Context) bool {
	return context != nil && context.GetContext() != nil && context.Get(c.GetInputParam()) != nil
}

// GetInputParam defaults to CtxIn so a command picks up its predecessor's output.
func (c *BaseCommand) GetInputParam() string {
	if len(c.InputParamName) == 0 {
		return CtxIn
	}
	return c.InputParamName
}

// GetOutputParam defaults to CtxOut.
func (c *BaseCommand) GetOutputParam() string {
	if len(c.OutputParamName) == 0 {
		return CtxOut
	}
	return c.OutputParamName
}

// GetTracer returns the tracer created for this command.
//
// Outputs:
//   - trace.Tracer: A tracer named after the command.
func (c *BaseCommand) GetTracer() trace.Tracer {
	return c.Tracer
}

// GetMeter returns the meter the command's counters are registered on.
//
// Outputs:
//   - metric.Meter: The meter for MeterName.
func (c *BaseCommand) GetMeter() metric.Meter {
	return c.Meter
}

// GetSuccessCounter returns the "<name>.counter.success" counter.
//
// Outputs:
//   - metric.Int64Counter: The counter, or nil if it could not be created.
func (c *BaseCommand) GetSuccessCounter() metric.Int64Counter {
	return c.SuccessCounter
}

// GetErrorCounter returns the "<name>.counter.error" counter.
//
// Outputs:
//   - metric.Int64Counter: The counter, or nil if it could not be created.
func (c *BaseCommand) GetErrorCounter() metric.Int64Counter {
	return c.ErrorCounter
}

// Succeed increments the success counter.
//
// Inputs:
//   - context: The workflow context; its Go context is used for the metric.
func (c *BaseCommand) Succeed(context Context) {
	if c.SuccessCounter != nil {
		c.SuccessCounter.Add(context.GetContext(), 1)
	}
}

// Fail records err against this command on the context and increments the
// error counter. The chain stops at the next command unless it continues on
// failure.
//
// Inputs:
//   - context: The workflow context the error is recorded on.
//   - err: The failure, keyed by the command's name.
func (c *BaseCommand) Fail(context Context, err error) {
	context.AddError(c.GetName(), err)
	if c.ErrorCounter != nil {
		c.ErrorCounter.Add(context.GetContext(), 1)
	}
}
