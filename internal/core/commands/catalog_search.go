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

// Package commands provides the concrete Commands of the query workflow. This
// file defines the catalog search step.
//
// Logic Flow:
//  1. Runs only when the query was classified as a movie.
//  2. Searches the catalog with the refined title.
//  3. On a match the summary is stored for the details step.
//  4. When nothing is found (including any transport failure) the query is
//     marked as re-routed. This is not a failure: the general answer step
//     picks the query up with the original, unrefined text.
package commands

import (
	"fmt"
	"log/slog"

	"github.com/jaycherian/gcp-go-movie-agent/internal/core/cor"
)

// CatalogSearch resolves the refined title to a catalog summary.
type CatalogSearch struct {
	cor.BaseCommand
	catalog MovieCatalog
}

// NewCatalogSearch creates the search step.
func NewCatalogSearch(name string, catalog MovieCatalog) *CatalogSearch {
	out := &CatalogSearch{BaseCommand: *cor.NewBaseCommand(name), catalog: catalog}
	out.InputParamName = ParamClassification
	out.OutputParamName = ParamSummary
	return out
}

// IsExecutable is true for movie classifications only.
func (c *CatalogSearch) IsExecutable(context cor.Context) bool {
	classification, ok := classificationOf(context)
	return ok && classification.IsMovie() && context.GetContext() != nil
}

func (c *CatalogSearch) Execute(context cor.Context) {
	classification, _ := classificationOf(context)
	title := classification.RefinedText
	observer := observerOf(context)
	observer.Status(fmt.Sprintf("Searching for movie: %s", title))

	summary, err := c.catalog.Search(context.GetContext(), title)
	if err != nil {
		slog.Debug("catalog search found nothing", "title", title, "error", err)
		observer.Status(fmt.Sprintf("Movie not found: %s", title))
		observer.Status(fmt.Sprintf("Treating '%s' as a general question...", queryOf(context)))
		context.Add(ParamRerouted, true)
		c.Succeed(context)
		return
	}

	observer.Status(fmt.Sprintf("Found: %s - Getting details...", summary.Title))
	context.Add(c.GetOutputParam(), summary)
	c.Succeed(context)
}
