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

package commands

import (
	"fmt"

	"github.com/jaycherian/gcp-go-movie-agent/internal/core/cor"
)

// MovieAnswer synthesizes the answer about the matched movie, streaming to
// the sink when one is present.
type MovieAnswer struct {
	cor.BaseCommand
	synthesizer Synthesizer
}

// NewMovieAnswer creates the movie answer step.
func NewMovieAnswer(name string, synthesizer Synthesizer) *MovieAnswer {
	out := &MovieAnswer{BaseCommand: *cor.NewBaseCommand(name), synthesizer: synthesizer}
	out.InputParamName = ParamDetails
	out.OutputParamName = ParamAnswerText
	return out
}

func (c *MovieAnswer) Execute(context cor.Context) {
	details := detailsOf(context)
	observerOf(context).Status(fmt.Sprintf("Generating information about %s...", details.Title))

	text := c.synthesizer.SynthesizeMovie(context.GetContext(), details, trailerOf(context), sinkOf(context))
	context.Add(c.GetOutputParam(), text)
	c.Succeed(context)
}

// GeneralAnswer answers general questions and queries whose movie search
// found nothing. It always uses the original query text.
type GeneralAnswer struct {
	cor.BaseCommand
	synthesizer Synthesizer
}

// NewGeneralAnswer creates the general answer step.
func NewGeneralAnswer(name string, synthesizer Synthesizer) *GeneralAnswer {
	out := &GeneralAnswer{BaseCommand: *cor.NewBaseCommand(name), synthesizer: synthesizer}
	out.InputParamName = ParamQuery
	out.OutputParamName = ParamAnswerText
	return out
}

// IsExecutable is true for general classifications and re-routed searches.
func (c *GeneralAnswer) IsExecutable(context cor.Context) bool {
	if context.GetContext() == nil {
		return false
	}
	if reroutedOf(context) {
		return true
	}
	classification, ok := classificationOf(context)
	return ok && !classification.IsMovie()
}

func (c *GeneralAnswer) Execute(context cor.Context) {
	query := queryOf(context)
	observerOf(context).Status(fmt.Sprintf("Answering: %s", query))

	text := c.synthesizer.SynthesizeGeneral(context.GetContext(), query, sinkOf(context))
	context.Add(c.GetOutputParam(), text)
	c.Succeed(context)
}
