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

// Package workflow composes commands into the end-to-end query pipeline.
// This file implements QueryWorkflow, the "ask a question, get an answer"
// flow.
//
// Logic Flow:
//  1. The query is classified as a movie or a general question.
//  2. Movie queries are searched in the catalog. A failed search re-routes
//     the query to the general path using the original query text.
//  3. A matched movie's details are fetched. Failing to fetch them ends the
//     query with OutcomeFailed and no text.
//  4. A trailer is resolved and the observer is told the movie is ready.
//  5. The answer is synthesized, streamed to the sink when one is given.
//
// All per-query state lives in a fresh cor.Context, so a QueryWorkflow can
// serve concurrent queries.
package workflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jaycherian/gcp-go-movie-agent/internal/cloud"
	"github.com/jaycherian/gcp-go-movie-agent/internal/core/commands"
	"github.com/jaycherian/gcp-go-movie-agent/internal/core/cor"
	"github.com/jaycherian/gcp-go-movie-agent/internal/core/model"
	"github.com/jaycherian/gcp-go-movie-agent/internal/core/services"
)

// ErrNoAnswer is returned if the pipeline ends without text and without a
// recorded failure. It indicates a wiring problem, not a service problem.
var ErrNoAnswer = errors.New("query produced no answer")

// QueryWorkflow answers one query at a time through a fixed command chain.
// The components are exported for callers that need partial control, such
// as looking up a poster before the answer streams.
type QueryWorkflow struct {
	cor.BaseCommand
	Classifier  commands.Classifier
	Catalog     commands.MovieCatalog
	Trailers    commands.TrailerFinder
	Synthesizer commands.Synthesizer
	chain       cor.Chain
}

// NewQueryWorkflow builds the workflow over the given components.
func NewQueryWorkflow(
	classifier commands.Classifier,
	catalog commands.MovieCatalog,
	trailers commands.TrailerFinder,
	synthesizer commands.Synthesizer) *QueryWorkflow {

	w := &QueryWorkflow{
		BaseCommand: *cor.NewBaseCommand("query-workflow"),
		Classifier:  classifier,
		Catalog:     catalog,
		Trailers:    trailers,
		Synthesizer: synthesizer,
	}
	w.InputParamName = commands.ParamQuery
	w.OutputParamName = commands.ParamAnswer
	w.initializeChain()
	return w
}

// NewQueryWorkflowFromClients wires the Gemini, TMDB and trailer search
// services described by config.
func NewQueryWorkflowFromClients(config *cloud.Config, clients *cloud.ServiceClients) (*QueryWorkflow, error) {
	prompts, err := services.NewPrompts(config.PromptTemplates)
	if err != nil {
		return nil, err
	}
	classifierModel, ok := clients.AgentModels[cloud.ModelClassifier]
	if !ok {
		return nil, fmt.Errorf("agent model %q is not configured", cloud.ModelClassifier)
	}
	synthesizerModel, ok := clients.AgentModels[cloud.ModelSynthesizer]
	if !ok {
		return nil, fmt.Errorf("agent model %q is not configured", cloud.ModelSynthesizer)
	}

	return NewQueryWorkflow(
		services.NewQueryClassifier(classifierModel, prompts),
		services.NewCatalogClient(clients.CatalogHTTPClient, config.Catalog),
		services.NewTrailerResolver(clients.SearchHTTPClient, config.TrailerSearch),
		services.NewResponseSynthesizer(synthesizerModel, prompts),
	), nil
}

func (w *QueryWorkflow) initializeChain() {
	out := cor.NewBaseChain(w.GetName())

	// Step 1: Decide whether the query names a movie. Never fails; an
	// unusable classifier response falls back to a movie lookup.
	out.AddCommand(commands.NewClassifyQuery("classify-query", w.Classifier))

	// Step 2: Look the refined title up in the catalog. Skipped for general
	// questions. A miss marks the query as re-routed.
	out.AddCommand(commands.NewCatalogSearch("catalog-search", w.Catalog))

	// Step 3: Fetch the full record. The only step whose failure ends the query.
	out.AddCommand(commands.NewMovieDetailsFetch("movie-details", w.Catalog))

	// Step 4: Metadata first, web search second. Absence is not an error.
	out.AddCommand(commands.NewTrailerLookup("trailer-lookup", w.Trailers))

	// Step 5 and 6: Exactly one of these runs, depending on what steps 1 to 3
	// stored on the context.
	out.AddCommand(commands.NewMovieAnswer("movie-answer", w.Synthesizer))
	out.AddCommand(commands.NewGeneralAnswer("general-answer", w.Synthesizer))

	w.chain = out
}

// Handle answers query. When sink is non-nil the answer text is streamed
// through it as it is generated.
//
// Outputs:
//   - *model.Answer: everything learned about the query; Text holds the
//     final answer. Returned together with the error when details could not
//     be fetched, with Outcome set to model.OutcomeFailed.
//   - error: model.ErrEmptyQuery for a blank query, or a wrapped
//     model.ErrDetailsUnavailable. Every other failure degrades silently.
func (w *QueryWorkflow) Handle(ctx context.Context, query string, sink model.StreamSink) (*model.Answer, error) {
	return w.HandleWithObserver(ctx, query, sink, nil)
}

// HandleWithObserver is Handle with progress reporting.
func (w *QueryWorkflow) HandleWithObserver(ctx context.Context, query string, sink model.StreamSink, observer model.QueryObserver) (*model.Answer, error) {
	return w.handle(ctx, uuid.NewString(), query, sink, observer)
}

func (w *QueryWorkflow) handle(ctx context.Context, id string, query string, sink model.StreamSink, observer model.QueryObserver) (*model.Answer, error) {
	query = model.NormalizeQuery(query)
	if query == "" {
		if observer != nil {
			observer.Status("Please enter a question or movie title")
		}
		return nil, model.ErrEmptyQuery
	}

	chCtx := cor.NewBaseContext(ctx)
	chCtx.Add(commands.ParamQuery, query)
	if sink != nil {
		chCtx.Add(commands.ParamSink, sink)
	}
	if observer != nil {
		chCtx.Add(commands.ParamObserver, observer)
	}

	w.chain.Execute(chCtx)

	answer := &model.Answer{ID: id, Query: query}
	answer.Classification, _ = cor.Value[model.QueryClassification](chCtx, commands.ParamClassification)
	answer.Rerouted, _ = cor.Value[bool](chCtx, commands.ParamRerouted)
	answer.Summary, _ = cor.Value[*model.MovieSummary](chCtx, commands.ParamSummary)
	answer.Movie, _ = cor.Value[*model.MovieDetails](chCtx, commands.ParamDetails)
	answer.Trailer, _ = cor.Value[*model.TrailerInfo](chCtx, commands.ParamTrailer)
	text, hasText := cor.Value[string](chCtx, commands.ParamAnswerText)
	answer.Text = text

	// Once text exists it has been delivered; only a details failure or a
	// missing answer is reported to the caller.
	err := chCtx.Err()
	if err != nil && (errors.Is(err, model.ErrDetailsUnavailable) || !hasText) {
		answer.Outcome = model.OutcomeFailed
		return answer, fmt.Errorf("query %s failed: %w", id, err)
	}
	if !hasText {
		answer.Outcome = model.OutcomeFailed
		return answer, fmt.Errorf("query %s: %w", id, ErrNoAnswer)
	}
	if err != nil {
		slog.Debug("query answered despite chain errors", "id", id, "error", err)
	}
	if answer.Movie != nil {
		answer.Outcome = model.OutcomeMovie
	} else {
		answer.Outcome = model.OutcomeGeneral
	}
	return answer, nil
}

// Execute runs the workflow as a command, reading the query from
// commands.ParamQuery. The answer id is the message's own id, then the
// Pub/Sub message id, then a fresh UUID. The answer and any terminal failure
// are stored for the following commands instead of being recorded as chain
// errors, so a failed query can still be reported back to the caller.
func (w *QueryWorkflow) Execute(context cor.Context) {
	query := queryParam(context)
	id, _ := cor.Value[string](context, commands.ParamMessageID)
	if id == "" {
		id, _ = cor.Value[string](context, cloud.CtxMessageID)
	}
	if id == "" {
		id = uuid.NewString()
	}

	answer, err := w.handle(context.GetContext(), id, query, nil, nil)
	if answer == nil {
		w.Fail(context, err)
		return
	}
	if err != nil {
		slog.Warn("query failed", "id", id, "query", query, "error", err)
		context.Add(commands.ParamAnswerError, err)
	}
	context.Add(w.GetOutputParam(), answer)
	w.Succeed(context)
}

func queryParam(context cor.Context) string {
	q, _ := cor.Value[string](context, commands.ParamQuery)
	return q
}
