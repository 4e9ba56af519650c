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

// TrailerLookup resolves a trailer for the matched movie and then tells the
// observer the movie is ready to display. A missing trailer is not a failure.
type TrailerLookup struct {
	cor.BaseCommand
	finder TrailerFinder
}

// NewTrailerLookup creates the trailer step.
func NewTrailerLookup(name string, finder TrailerFinder) *TrailerLookup {
	out := &TrailerLookup{BaseCommand: *cor.NewBaseCommand(name), finder: finder}
	out.InputParamName = ParamDetails
	out.OutputParamName = ParamTrailer
	return out
}

func (c *TrailerLookup) Execute(context cor.Context) {
	details := detailsOf(context)
	title, year := details.Title, details.ReleaseYear()
	if summary := summaryOf(context); summary != nil {
		title, year = summary.Title, summary.ReleaseYear()
	}

	trailer := c.finder.Resolve(context.GetContext(), title, year, details)
	if trailer != nil {
		context.Add(c.GetOutputParam(), trailer)
	}

	observer := observerOf(context)
	observer.MovieResolved(details, trailer)
	if trailer == nil {
		observer.Status("No trailer available")
	}
	c.Succeed(context)
}
