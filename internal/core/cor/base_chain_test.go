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

package cor_test

import (
	"context"
	"errors"
	"testing"

	"github.com/jaycherian/gcp-go-movie-agent/internal/core/cor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recorder appends its name to a shared log and optionally emits or fails.
type recorder struct {
	cor.BaseCommand
	log      *[]string
	out      any
	fail     error
	runnable bool
}

func newRecorder(name string, log *[]string) *recorder {
	return &recorder{BaseCommand: *cor.NewBaseCommand(name), log: log, runnable: true}
}

func (r *recorder) IsExecutable(_ cor.Context) bool { return r.runnable }

func (r *recorder) Execute(c cor.Context) {
	in := c.Get(cor.CtxIn)
	if in != nil {
		*r.log = append(*r.log, r.GetName()+"<"+in.(string))
	} else {
		*r.log = append(*r.log, r.GetName())
	}
	if r.fail != nil {
		r.Fail(c, r.fail)
		return
	}
	if r.out != nil {
		c.Add(cor.CtxOut, r.out)
	}
	r.Succeed(c)
}

func TestBaseChain_PipesOutputToNextInput(t *testing.T) {
	var log []string
	a := newRecorder("a", &log)
	a.out = "x"
	b := newRecorder("b", &log)

	chain := cor.NewBaseChain("pipe")
	chain.AddCommand(a).AddCommand(b)

	ctx := cor.NewBaseContext(context.Background())
	chain.Execute(ctx)

	assert.Equal(t, []string{"a", "b<x"}, log)
	assert.False(t, ctx.HasErrors())
	assert.Nil(t, ctx.Get(cor.CtxOut))
}

func TestBaseChain_SkipIsNotFailure(t *testing.T) {
	var log []string
	a := newRecorder("a", &log)
	a.runnable = false
	b := newRecorder("b", &log)

	chain := cor.NewBaseChain("skip")
	chain.AddCommand(a).AddCommand(b)

	ctx := cor.NewBaseContext(context.Background())
	chain.Execute(ctx)

	assert.Equal(t, []string{"b"}, log)
	assert.NoError(t, ctx.Err())
}

func TestBaseChain_StopsOnFailure(t *testing.T) {
	boom := errors.New("boom")
	var log []string
	a := newRecorder("a", &log)
	a.fail = boom
	b := newRecorder("b", &log)

	chain := cor.NewBaseChain("stop")
	chain.AddCommand(a).AddCommand(b)

	ctx := cor.NewBaseContext(context.Background())
	chain.Execute(ctx)

	assert.Equal(t, []string{"a"}, log)
	require.Error(t, ctx.Err())
	assert.ErrorIs(t, ctx.Err(), boom)
}

func TestBaseChain_ContinueOnFailure(t *testing.T) {
	var log []string
	a := newRecorder("a", &log)
	a.fail = errors.New("boom")
	b := newRecorder("b", &log)

	chain := cor.NewBaseChain("continue")
	chain.ContinueOnFailure(true).AddCommand(a).AddCommand(b)

	ctx := cor.NewBaseContext(context.Background())
	chain.Execute(ctx)

	assert.Equal(t, []string{"a", "b"}, log)
	assert.Len(t, ctx.GetErrors(), 1)
}

func TestBaseChain_CancelledContext(t *testing.T) {
	var log []string
	chain := cor.NewBaseChain("cancelled")
	chain.AddCommand(newRecorder("a", &log))

	cctx, cancel := context.WithCancel(context.Background())
	cancel()
	ctx := cor.NewBaseContext(cctx)
	chain.Execute(ctx)

	assert.Empty(t, log)
	assert.ErrorIs(t, ctx.Err(), context.Canceled)
}

func TestValue(t *testing.T) {
	ctx := cor.NewBaseContext(context.Background())
	ctx.Add("n", 3)

	n, ok := cor.Value[int](ctx, "n")
	assert.True(t, ok)
	assert.Equal(t, 3, n)

	_, ok = cor.Value[string](ctx, "n")
	assert.False(t, ok)
	_, ok = cor.Value[int](ctx, "missing")
	assert.False(t, ok)
}
