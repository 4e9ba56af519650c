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

// MovieDetailsFetch loads the full catalog record for the matched summary.
// A failure here is terminal for the query: it is recorded on the context,
// which stops the chain before any answer is synthesized.
type MovieDetailsFetch struct {
	cor.BaseCommand
	catalog MovieCatalog
}

// NewMovieDetailsFetch creates the details step.
func NewMovieDetailsFetch(name string, catalog MovieCatalog) *MovieDetailsFetch {
	out := &MovieDetailsFetch{BaseCommand: *cor.NewBaseCommand(name), catalog: catalog}
	out.InputParamName = ParamSummary
	out.OutputParamName = ParamDetails
	return out
}

func (c *MovieDetailsFetch) Execute(context cor.Context) {
	summary := summaryOf(context)

	details, err := c.catalog.GetDetails(context.GetContext(), summary.ID)
	if err != nil {
		observerOf(context).Status(fmt.Sprintf("Error fetching details for %s", summary.Title))
		c.Fail(context, err)
		return
	}
	context.Add(c.GetOutputParam(), details)
	c.Succeed(context)
}
