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
	"context"
	"errors"
	"sort"
)

// BaseContext is the default Context. It is not safe for concurrent use; a
// chain drives it from a single goroutine.
type BaseContext struct {
	data    map[string]any
	errors  map[string]error
	context context.Context
}

// NewBaseContext returns an empty Context bound to ctx.
func NewBaseContext(ctx context.Context) Context {
	return &BaseContext{
		data:    make(map[string]any),
		errors:  make(map[string]error),
		context: ctx,
	}
}

// SetContext replaces the Go context. The chain uses it to hand each command
// a context carrying that command's span.
//
// Inputs:
//   - ctx: The new Go context.
func (c *BaseContext) SetContext(ctx context.Context) {
	c.context = ctx
}

// GetContext returns the current Go context.
//
// Outputs:
//   - context.Context: The context set at construction or by SetContext.
func (c *BaseContext) GetContext() context.Context {
	return c.context
}

// Add stores value under key, replacing any previous value.
//
// Inputs:
//   - key: The parameter name.
//   - value: The value to store.
//
// Outputs:
//   - Context: The receiver, for chaining.
func (c *BaseContext) Add(key string, value any) Context {
	c.data[key] = value
	return c
}

// Get returns the value stored under key, or nil.
func (c *BaseContext) Get(key string) any {
	return c.data[key]
}

// Remove deletes key.
func (c *BaseContext) Remove(key string) {
	delete(c.data, key)
}

// AddError records err under key, usually the failing command's name.
// A later error under the same key replaces the earlier one.
//
// Inputs:
//   - key: The name the error is recorded under.
//   - err: The error.
func (c *BaseContext) AddError(key string, err error) {
	c.errors[key] = err
}

// GetErrors returns the recorded errors keyed by name. The map is the
// context's own; callers must not modify it.
func (c *BaseContext) GetErrors() map[string]error {
	return c.errors
}

// HasErrors reports whether any error has been recorded.
func (c *BaseContext) HasErrors() bool {
	return len(c.errors) > 0
}

// Err joins the recorded errors in command-name order so the result is stable.
func (c *BaseContext) Err() error {
	if len(c.errors) == 0 {
		return nil
	}
	keys := make([]string, 0, len(c.errors))
	for k := range c.errors {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	errs := make([]error, 0, len(keys))
	for _, k := range keys {
		errs = append(errs, c.errors[k])
	}
	return errors.Join(errs...)
}

// Value returns the value stored under key when it has type T.
func Value[T any](c Context, key string) (T, bool) {
	v, ok := c.Get(key).(T)
	return v, ok
}
