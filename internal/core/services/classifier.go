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

package services

import (
	"context"
	"log/slog"
	"strings"

	"github.com/jaycherian/gcp-go-movie-agent/internal/core/model"
)

const movieMarker = "movie:"

// QueryClassifier decides whether a query names a specific movie.
type QueryClassifier struct {
	Generator TextGenerator
	Prompts   *Prompts
}

// NewQueryClassifier creates a classifier using generator and prompts.
func NewQueryClassifier(generator TextGenerator, prompts *Prompts) *QueryClassifier {
	return &QueryClassifier{Generator: generator, Prompts: prompts}
}

// Classify never fails. Any problem reaching the service yields
// {KindMovie, query}; the catalog search that follows re-routes to the
// general path when nothing is found.
//
// For a general result RefinedText is always query itself, never the
// service's echo of it.
func (c *QueryClassifier) Classify(ctx context.Context, query string) model.QueryClassification {
	fallback := model.QueryClassification{Kind: model.KindMovie, RefinedText: query}

	prompt, err := render(c.Prompts.Classification, queryData{Query: query, Examples: model.ClassificationExamples()})
	if err != nil {
		slog.Warn("failed to build classification prompt", "error", err)
		return fallback
	}
	response, err := c.Generator.GenerateText(ctx, prompt)
	if err != nil {
		slog.Warn("classification failed, treating query as a movie title", "query", query, "error", err)
		return fallback
	}
	return ParseClassification(query, response)
}

// ParseClassification interprets a classifier response for query. The
// marker is matched case-insensitively on the first non-empty line; the
// title keeps the service's casing.
func ParseClassification(query string, response string) model.QueryClassification {
	line := firstLine(response)
	if len(line) >= len(movieMarker) && strings.EqualFold(line[:len(movieMarker)], movieMarker) {
		title := strings.Trim(strings.TrimSpace(line[len(movieMarker):]), "\"'`[]")
		title = strings.TrimSpace(title)
		if title == "" {
			return model.QueryClassification{Kind: model.KindMovie, RefinedText: query}
		}
		return model.QueryClassification{Kind: model.KindMovie, RefinedText: title}
	}
	return model.QueryClassification{Kind: model.KindGeneral, RefinedText: query}
}

func firstLine(s string) string {
	for _, line := range strings.Split(s, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			return line
		}
	}
	return ""
}
