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

package workflow_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/jaycherian/gcp-go-movie-agent/internal/cloud"
	"github.com/jaycherian/gcp-go-movie-agent/internal/core/model"
	"github.com/jaycherian/gcp-go-movie-agent/internal/core/services"
	"github.com/jaycherian/gcp-go-movie-agent/internal/core/workflow"
	test "github.com/jaycherian/gcp-go-movie-agent/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
)

const inceptionTrailerURL = "https://www.youtube.com/watch?v=" + test.InceptionTrailerKey

var movieChunks = []string{
	"Inception (2010) is a science fiction heist film directed by Christopher Nolan.\n\n",
	"Dom Cobb steals secrets from within the subconscious.\n\n",
	"Watch the trailer: " + inceptionTrailerURL + "\n",
}

var generalChunks = []string{
	"Film noir is a style of crime drama ",
	"known for its low-key lighting and moral ambiguity.",
}

// harness wires a QueryWorkflow to fake services.
type harness struct {
	tmdb        *test.TMDBFixture
	search      *test.SearchServer
	classifier  *test.FakeGenerator
	synthesizer *test.FakeGenerator
	workflow    *workflow.QueryWorkflow
}

func newHarness(t *testing.T, classification string) *harness {
	t.Helper()
	h := &harness{
		tmdb:       test.NewInceptionFixture(),
		search:     test.NewSearchServer(t, test.SearchResultsHTML),
		classifier: test.NewFakeGenerator(classification),
		synthesizer: &test.FakeGenerator{Respond: func(prompt string) []string {
			if strings.Contains(prompt, "Title: Inception") {
				return movieChunks
			}
			return generalChunks
		}},
	}
	srv := test.NewTMDBServer(t, h.tmdb)

	catalogConfig := config.Catalog
	catalogConfig.BaseURL = srv.URL + "/3"
	catalogConfig.ImageBaseURL = srv.URL + "/t/p/w500"
	searchConfig := config.TrailerSearch
	searchConfig.SearchURL = h.search.URL + "/search"

	prompts := services.DefaultPrompts()
	h.workflow = workflow.NewQueryWorkflow(
		services.NewQueryClassifier(h.classifier, prompts),
		services.NewCatalogClient(cloud.NewHTTPClient(catalogConfig.TimeoutInSeconds, ""), catalogConfig),
		services.NewTrailerResolver(cloud.NewHTTPClient(searchConfig.TimeoutInSeconds, searchConfig.UserAgent), searchConfig),
		services.NewResponseSynthesizer(h.synthesizer, prompts),
	)
	return h
}

// recorder is an observer and a sink writing to one ordered event log.
type recorder struct {
	mu        sync.Mutex
	events    []string
	fragments []string
	resolved  *model.MovieDetails
	trailer   *model.TrailerInfo
}

func (r *recorder) Status(message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, "status:"+message)
}

func (r *recorder) MovieResolved(details *model.MovieDetails, trailer *model.TrailerInfo) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, "resolved")
	r.resolved, r.trailer = details, trailer
}

func (r *recorder) Sink() model.StreamSink {
	return func(fragment string) {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.events = append(r.events, "fragment")
		r.fragments = append(r.fragments, fragment)
	}
}

func (r *recorder) index(event string) int {
	for i, e := range r.events {
		if e == event {
			return i
		}
	}
	return -1
}

func TestQueryWorkflow_Movie(t *testing.T) {
	traceContext, span := tracer.Start(ctx, "query-workflow-movie")
	defer span.End()

	h := newHarness(t, "movie: Inception")
	answer, err := h.workflow.Handle(traceContext, "  Tell me about Inception ", nil)
	require.NoError(t, err)

	assert.Equal(t, model.OutcomeMovie, answer.Outcome)
	assert.Equal(t, "Tell me about Inception", answer.Query)
	assert.Equal(t, model.QueryClassification{Kind: model.KindMovie, RefinedText: "Inception"}, answer.Classification)
	assert.False(t, answer.Rerouted)
	assert.NotEmpty(t, answer.ID)
	require.NotNil(t, answer.Summary)
	assert.Equal(t, test.InceptionID, answer.Summary.ID)
	require.NotNil(t, answer.Movie)
	assert.Equal(t, "Inception (2010)", answer.Movie.DisplayTitle())
	require.NotNil(t, answer.Trailer)
	assert.Equal(t, inceptionTrailerURL, answer.Trailer.URL)

	assert.Contains(t, answer.Text, "Inception")
	assert.Contains(t, answer.Text, inceptionTrailerURL)
	assert.NotContains(t, answer.Text, "**")
	assert.NotContains(t, answer.Text, "#")

	assert.Empty(t, h.search.Queries(), "metadata trailer should win over the search tier")
	prompts := h.synthesizer.Prompts()
	require.Len(t, prompts, 1)
	assert.Contains(t, prompts[0], "Trailer: "+inceptionTrailerURL)
	span.SetStatus(codes.Ok, "passed - query-workflow-movie")
}

func TestQueryWorkflow_General(t *testing.T) {
	h := newHarness(t, "general: What is film noir?")
	answer, err := h.workflow.Handle(ctx, "What is film noir?", nil)
	require.NoError(t, err)

	assert.Equal(t, model.OutcomeGeneral, answer.Outcome)
	assert.False(t, answer.Rerouted)
	assert.Nil(t, answer.Movie)
	assert.Nil(t, answer.Trailer)
	assert.Equal(t, strings.Join(generalChunks, ""), answer.Text)
	assert.Empty(t, h.tmdb.Requests(), "general questions never reach the catalog")

	prompts := h.synthesizer.Prompts()
	require.Len(t, prompts, 1)
	assert.Contains(t, prompts[0], `The user has asked: "What is film noir?"`)
}

func TestQueryWorkflow_ReroutesUnknownMovie(t *testing.T) {
	const query = "tell me about zzzqqqnonexistentfilm123"
	h := newHarness(t, "movie: zzzqqqnonexistentfilm123")
	rec := &recorder{}

	answer, err := h.workflow.HandleWithObserver(ctx, query, nil, rec)
	require.NoError(t, err)

	assert.Equal(t, model.OutcomeGeneral, answer.Outcome)
	assert.True(t, answer.Rerouted)
	assert.Nil(t, answer.Summary)
	assert.Equal(t, strings.Join(generalChunks, ""), answer.Text)

	prompts := h.synthesizer.Prompts()
	require.Len(t, prompts, 1)
	assert.Contains(t, prompts[0], fmt.Sprintf("The user has asked: %q", query), "re-routed queries keep the original text")

	assert.Contains(t, rec.events, "status:Movie not found: zzzqqqnonexistentfilm123")
	assert.Contains(t, rec.events, fmt.Sprintf("status:Treating '%s' as a general question...", query))
	assert.Equal(t, -1, rec.index("resolved"))
}

func TestQueryWorkflow_DetailsUnavailable(t *testing.T) {
	h := newHarness(t, "movie: Inception")
	h.tmdb.DetailsStatus = map[int]int{test.InceptionID: 500}
	rec := &recorder{}

	answer, err := h.workflow.HandleWithObserver(ctx, "Inception", rec.Sink(), rec)
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrDetailsUnavailable), "got %v", err)

	require.NotNil(t, answer)
	assert.Equal(t, model.OutcomeFailed, answer.Outcome)
	assert.NotNil(t, answer.Summary)
	assert.Nil(t, answer.Movie)
	assert.Empty(t, answer.Text)
	assert.Zero(t, h.synthesizer.Calls(), "no synthesis after a details failure")
	assert.Empty(t, rec.fragments)
	assert.Contains(t, rec.events, "status:Error fetching details for Inception")
}

func TestQueryWorkflow_TransientFailuresDegrade(t *testing.T) {
	h := newHarness(t, "")
	h.classifier.Err = errors.New("classifier unavailable")
	h.synthesizer.Err = errors.New("synthesizer unavailable")
	h.search.Status = 503

	answer, err := h.workflow.Handle(ctx, "Inception", nil)
	require.NoError(t, err)

	// The classifier fails open to a movie lookup of the whole query.
	assert.Equal(t, model.QueryClassification{Kind: model.KindMovie, RefinedText: "Inception"}, answer.Classification)
	assert.Equal(t, model.OutcomeMovie, answer.Outcome)
	assert.True(t, strings.HasPrefix(answer.Text, "Inception (2010)\n"), answer.Text)
	assert.Contains(t, answer.Text, "Watch Trailer:\n"+inceptionTrailerURL)
	assert.Contains(t, answer.Text, "Director: Christopher Nolan")
}

func TestQueryWorkflow_CancelledDuringSynthesis(t *testing.T) {
	h := newHarness(t, "movie: Inception")
	queryCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	h.synthesizer.Respond = func(string) []string {
		cancel()
		return nil
	}
	h.synthesizer.StreamErr = context.Canceled
	var fragments []string

	answer, err := h.workflow.Handle(queryCtx, "Inception", func(s string) { fragments = append(fragments, s) })
	require.NoError(t, err)
	assert.Equal(t, model.OutcomeMovie, answer.Outcome)
	assert.True(t, strings.HasPrefix(answer.Text, "Inception (2010)\n"), answer.Text)
	assert.Equal(t, []string{answer.Text}, fragments)
}

func TestQueryWorkflow_GeneralFallback(t *testing.T) {
	h := newHarness(t, "general: why do people like westerns")
	h.synthesizer.Err = errors.New("quota exhausted")
	var fragments []string

	answer, err := h.workflow.Handle(ctx, "Why do people like westerns", func(s string) { fragments = append(fragments, s) })
	require.NoError(t, err)
	assert.Equal(t, "I'm sorry, I couldn't process your query: 'Why do people like westerns'. Please try asking in a different way.", answer.Text)
	assert.Equal(t, []string{answer.Text}, fragments)
}

func TestQueryWorkflow_StreamingMatchesSingleShot(t *testing.T) {
	for _, tc := range []struct {
		name           string
		classification string
		query          string
	}{
		{"movie", "movie: Inception", "Inception"},
		{"general", "general: what is film noir", "what is film noir"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			single, err := newHarness(t, tc.classification).workflow.Handle(ctx, tc.query, nil)
			require.NoError(t, err)

			rec := &recorder{}
			streamed, err := newHarness(t, tc.classification).workflow.Handle(ctx, tc.query, rec.Sink())
			require.NoError(t, err)

			assert.Greater(t, len(rec.fragments), 1)
			assert.Equal(t, single.Text, strings.Join(rec.fragments, ""))
			assert.Equal(t, single.Text, streamed.Text)
		})
	}
}

func TestQueryWorkflow_ObserverOrdering(t *testing.T) {
	h := newHarness(t, "movie: Inception")
	rec := &recorder{}

	_, err := h.workflow.HandleWithObserver(ctx, "Inception", rec.Sink(), rec)
	require.NoError(t, err)

	require.NotNil(t, rec.resolved)
	assert.Equal(t, "Inception", rec.resolved.Title)
	require.NotNil(t, rec.trailer)

	assert.Equal(t, "status:Processing query...", rec.events[0])
	searching := rec.index("status:Searching for movie: Inception")
	found := rec.index("status:Found: Inception - Getting details...")
	resolved := rec.index("resolved")
	generating := rec.index("status:Generating information about Inception...")
	fragment := rec.index("fragment")
	assert.True(t, searching < found && found < resolved && resolved < generating && generating < fragment,
		"unexpected order: %v", rec.events)
}

func TestQueryWorkflow_EmptyQuery(t *testing.T) {
	h := newHarness(t, "movie: Inception")
	answer, err := h.workflow.Handle(ctx, " \t\n", nil)
	assert.ErrorIs(t, err, model.ErrEmptyQuery)
	assert.Nil(t, answer)
	assert.Zero(t, h.classifier.Calls())
}

func TestQueryWorkflow_Concurrent(t *testing.T) {
	h := newHarness(t, "movie: Inception")

	var wg sync.WaitGroup
	answers := make([]*model.Answer, 8)
	errs := make([]error, len(answers))
	for i := range answers {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			answers[i], errs[i] = h.workflow.Handle(ctx, "Inception", nil)
		}(i)
	}
	wg.Wait()

	ids := map[string]bool{}
	for i, answer := range answers {
		require.NoError(t, errs[i])
		assert.Equal(t, model.OutcomeMovie, answer.Outcome)
		assert.Equal(t, strings.Join(movieChunks, ""), answer.Text)
		ids[answer.ID] = true
	}
	assert.Len(t, ids, len(answers), "every query gets its own id")
}
