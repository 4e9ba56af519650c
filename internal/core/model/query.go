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

// Package model defines the data structures that flow through a single query.
// Every value here is query-scoped: it is created while one question is being
// answered and dropped afterwards. Nothing in this package is persisted or
// shared between queries.
package model

import "strings"

// QueryKind tells the orchestrator which branch of the pipeline to take.
type QueryKind string

const (
	KindMovie   QueryKind = "movie"   // The query names a specific film.
	KindGeneral QueryKind = "general" // Anything else: trivia, lists, recommendations.
)

// QueryClassification is the result of classifying one raw query.
//
// RefinedText holds the extracted movie title for KindMovie and the original,
// unmodified query for KindGeneral.
type QueryClassification struct {
	Kind        QueryKind `json:"kind"`
	RefinedText string    `json:"refined_text"`
}

// IsMovie reports whether the classification routes to the catalog lookup.
func (c QueryClassification) IsMovie() bool {
	return c.Kind == KindMovie
}

// StreamSink receives generated text fragments in the order they are produced.
// A nil sink means the caller wants the complete text only.
type StreamSink func(fragment string)

// Emit forwards a fragment to the sink when one is present.
func (s StreamSink) Emit(fragment string) {
	if s != nil {
		s(fragment)
	}
}

// NormalizeQuery trims surrounding whitespace. The trimmed text is the query
// used for every downstream call.
func NormalizeQuery(query string) string {
	return strings.TrimSpace(query)
}
