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

// Package commands provides the concrete Commands the query workflow is
// built from. Every command reads its inputs from, and writes its results to,
// the shared cor.Context under the keys declared in this file, and decides in
// IsExecutable whether the current query needs it at all. Together the
// IsExecutable checks form the branching of the pipeline:
//
//	classify -> search (movie only) -> details (found) -> trailer -> movie answer
//	                 \-> general answer (general, or search found nothing)
package commands

import (
	"context"

	"github.com/jaycherian/gcp-go-movie-agent/internal/core/cor"
	"github.com/jaycherian/gcp-go-movie-agent/internal/core/model"
)

// Context keys shared by the query commands.
const (
	ParamQuery          = "__query__"          // string: the normalized user query.
	ParamSink           = "__sink__"           // model.StreamSink: optional fragment consumer.
	ParamObserver       = "__observer__"       // model.QueryObserver: optional progress consumer.
	ParamClassification = "__classification__" // model.QueryClassification.
	ParamSummary        = "__summary__"        // *model.MovieSummary.
	ParamDetails        = "__details__"        // *model.MovieDetails.
	ParamTrailer        = "__trailer__"        // *model.TrailerInfo; absent when none was found.
	ParamRerouted       = "__rerouted__"       // bool: the movie search found nothing.
	ParamAnswerText     = "__answer_text__"    // string: the synthesized or fallback text.
	ParamAnswer         = "__answer__"         // *model.Answer: set when the workflow runs as a command.
	ParamAnswerError    = "__answer_error__"   // error: terminal failure returned with the answer.
)

// Classifier decides the kind of a query.
type Classifier interface {
	Classify(ctx context.Context, query string) model.QueryClassification
}

// MovieCatalog resolves titles and fetches details.
type MovieCatalog interface {
	Search(ctx context.Context, title string) (*model.MovieSummary, error)
	GetDetails(ctx context.Context, id int) (*model.MovieDetails, error)
}

// TrailerFinder looks up a trailer; nil means none was found.
type TrailerFinder interface {
	Resolve(ctx context.Context, title string, year string, details *model.MovieDetails) *model.TrailerInfo
}

// Synthesizer produces answer text for both paths.
type Synthesizer interface {
	SynthesizeMovie(ctx context.Context, details *model.MovieDetails, trailer *model.TrailerInfo, sink model.StreamSink) string
	SynthesizeGeneral(ctx context.Context, query string, sink model.StreamSink) string
}

func queryOf(c cor.Context) string {
	q, _ := cor.Value[string](c, ParamQuery)
	return q
}

func sinkOf(c cor.Context) model.StreamSink {
	s, _ := cor.Value[model.StreamSink](c, ParamSink)
	return s
}

func observerOf(c cor.Context) model.QueryObserver {
	if o, ok := cor.Value[model.QueryObserver](c, ParamObserver); ok && o != nil {
		return o
	}
	return model.NopObserver{}
}

func classificationOf(c cor.Context) (model.QueryClassification, bool) {
	return cor.Value[model.QueryClassification](c, ParamClassification)
}

func summaryOf(c cor.Context) *model.MovieSummary {
	s, _ := cor.Value[*model.MovieSummary](c, ParamSummary)
	return s
}

func detailsOf(c cor.Context) *model.MovieDetails {
	d, _ := cor.Value[*model.MovieDetails](c, ParamDetails)
	return d
}

func trailerOf(c cor.Context) *model.TrailerInfo {
	t, _ := cor.Value[*model.TrailerInfo](c, ParamTrailer)
	return t
}

func reroutedOf(c cor.Context) bool {
	r, _ := cor.Value[bool](c, ParamRerouted)
	return r
}
