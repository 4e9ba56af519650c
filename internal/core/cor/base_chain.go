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

// Package cor provides the chain of responsibility primitives. This file
// defines BaseChain, the default Chain.
//
// Execution:
//  1. A span named "<chain>_execute" wraps the whole run.
//  2. Each command gets a child span. If a failure has already been recorded
//     and the chain does not continue on failure, the loop stops.
//  3. Commands whose IsExecutable returns false are skipped. A skip is a
//     normal branch, not a failure, and is marked on the span as such.
//  4. Executable commands run with the Go context of their own span; the
//     chain's context is restored afterwards so sibling spans stay flat.
//  5. CtxOut is moved to CtxIn after every command to pipe results along.
package cor

import (
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// BaseChain runs its commands sequentially against one Context.
type BaseChain struct {
	BaseCommand
	continueOnFailure bool
	commands          []Command
}

// NewBaseChain creates an empty chain named name.
func NewBaseChain(name string) *BaseChain {
	return &BaseChain{BaseCommand: *NewBaseCommand(name)}
}

// ContinueOnFailure controls whether the chain keeps running after a command
// records an error. The default is to stop.
//
// Inputs:
//   - continueOnFailure: True to run every remaining command regardless.
//
// Outputs:
//   - Chain: The receiver, for chaining.
func (c *BaseChain) ContinueOnFailure(continueOnFailure bool) Chain {
	c.continueOnFailure = continueOnFailure
	return c
}

// AddCommand appends command to the sequence.
//
// Inputs:
//   - command: The next command to run.
//
// Outputs:
//   - Chain: The receiver, for chaining.
func (c *BaseChain) AddCommand(command Command) Chain {
	c.commands = append(c.commands, command)
	return c
}

// Commands returns the configured sequence.
func (c *BaseChain) Commands() []Command {
	return c.commands
}

// IsExecutable only requires a Go context; each command checks its own inputs.
func (c *BaseChain) IsExecutable(context Context) bool {
	return context != nil && context.GetContext() != nil
}

// Execute runs every command in order.
func (c *BaseChain) Execute(chCtx Context) {
	parentCtx := chCtx.GetContext()
	outerCtx, chainSpan := c.Tracer.Start(parentCtx, fmt.Sprintf("%s_execute", c.GetName()))
	defer func() {
		chCtx.SetContext(parentCtx)
		chainSpan.End()
	}()

	for _, command := range c.commands {
		if chCtx.HasErrors() && !c.continueOnFailure {
			break
		}
		if err := outerCtx.Err(); err != nil {
			chCtx.AddError(c.GetName(), err)
			break
		}

		commandContext, commandSpan := c.Tracer.Start(outerCtx, command.GetName())

		if !command.IsExecutable(chCtx) {
			commandSpan.SetAttributes(attribute.Bool("cor.skipped", true))
			commandSpan.End()
			continue
		}

		chCtx.SetContext(commandContext)
		command.Execute(chCtx)
		chCtx.SetContext(outerCtx)

		if err, failed := chCtx.GetErrors()[command.GetName()]; failed {
			commandSpan.RecordError(err)
			commandSpan.SetStatus(codes.Error, err.Error())
		} else {
			commandSpan.SetStatus(codes.Ok, "")
		}
		commandSpan.End()

		out := chCtx.Get(CtxOut)
		chCtx.Remove(CtxIn)
		if out != nil {
			chCtx.Add(CtxIn, out)
		}
		chCtx.Remove(CtxOut)
	}

	if chCtx.HasErrors() {
		chainSpan.SetStatus(codes.Error, "chain failed")
	} else {
		chainSpan.SetStatus(codes.Ok, "")
	}
}
