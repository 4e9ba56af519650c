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
	"github.com/jaycherian/gcp-go-movie-agent/internal/core/cor"
)

// ClassifyQuery is the first step of every query. It never fails: the
// classifier degrades to a movie search on its own.
type ClassifyQuery struct {
	cor.BaseCommand
	classifier Classifier
}

// NewClassifyQuery creates the classification step.
func NewClassifyQuery(name string, classifier Classifier) *ClassifyQuery {
	out := &ClassifyQuery{BaseCommand: *cor.NewBaseCommand(name), classifier: classifier}
	out.InputParamName = ParamQuery
	out.OutputParamName = ParamClassification
	return out
}

func (c *ClassifyQuery) Execute(context cor.Context) {
	observerOf(context).Status("Processing query...")

	classification := c.classifier.Classify(context.GetContext(), queryOf(context))
	context.Add(c.GetOutputParam(), classification)
	c.Succeed(context)
}
