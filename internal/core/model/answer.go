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

package model

// Outcome is the externally observable result of one query.
type Outcome string

const (
	OutcomeMovie   Outcome = "movie"   // A movie answer, with or without trailer.
	OutcomeGeneral Outcome = "general" // A general answer, including re-routed searches.
	OutcomeFailed  Outcome = "failed"  // Details could not be fetched; no text was produced.
)

// Answer collects everything the orchestrator learned while handling a query.
// Summary, Movie and Trailer are only set on the movie path.
type Answer struct {
	ID             string              `json:"id"`
	Query          string              `json:"query"`
	Classification QueryClassification `json:"classification"`
	Outcome        Outcome             `json:"outcome"`
	Rerouted       bool                `json:"rerouted"`
	Summary        *MovieSummary       `json:"summary,omitempty"`
	Movie          *MovieDetails       `json:"movie,omitempty"`
	Trailer        *TrailerInfo        `json:"trailer,omitempty"`
	Text           string              `json:"text"`
}
