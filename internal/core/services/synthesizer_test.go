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

package services_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/jaycherian/gcp-go-movie-agent/internal/cloud"
	"github.com/jaycherian/gcp-go-movie-agent/internal/core/model"
	"github.com/jaycherian/gcp-go-movie-agent/internal/core/services"
	test "github.com/jaycherian/gcp-go-movie-agent/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serenity() *model.MovieDetails {
	runtime := 119
	rating := 7.4
	return &model.MovieDetails{
		Title:          "Serenity",
		ReleaseDate:    "2005-09-25",
		Overview:       "Captain Malcolm Reynolds and his crew.",
		VoteAverage:    &rating,
		RuntimeMinutes: &runtime,
		Genres:         []string{"Science Fiction", "Action"},
		Director:       "Joss Whedon",
		Cast:           []string{"Nathan Fillion", "Gina Torres", "Alan Tudyk", "Morena Baccarin", "Adam Baldwin", "Jewel Staite"},
		Budget:         39000000,
		Revenue:        40400000,
	}
}

func collect(fragments *[]string) model.StreamSink {
	return func(f string) { *fragments = append(*fragments, f) }
}

func TestResponseSynthesizer_MoviePrompt(t *testing.T) {
	gen := test.NewFakeGenerator("ok")
	s := services.NewResponseSynthesizer(gen, services.DefaultPrompts())
	trailer := &model.TrailerInfo{URL: "https://www.youtube.com/watch?v=abc"}

	s.SynthesizeMovie(context.Background(), serenity(), trailer, nil)

	prompt := gen.Prompts()[0]
	for _, want := range []string{
		"Title: Serenity",
		"Release Date: 2005-09-25",
		"Runtime: 119 minutes",
		"Rating: 7.4/10",
		"Director: Joss Whedon",
		"Main Cast: Nathan Fillion, Gina Torres, Alan Tudyk, Morena Baccarin, Adam Baldwin\n",
		"Budget: $39,000,000",
		"Revenue: $40,400,000",
		"Trailer: https://www.youtube.com/watch?v=abc",
		"DO NOT use markdown formatting",
	} {
		assert.Contains(t, prompt, want)
	}
	assert.NotContains(t, prompt, "Jewel Staite")
}

func TestResponseSynthesizer_StreamingMatchesSingleShot(t *testing.T) {
	chunks := []string{"Serenity ", "is a 2005 ", "space western."}
	s := services.NewResponseSynthesizer(test.NewFakeGenerator(chunks...), services.DefaultPrompts())

	single := s.SynthesizeMovie(context.Background(), serenity(), nil, nil)

	var fragments []string
	streamed := s.SynthesizeMovie(context.Background(), serenity(), nil, collect(&fragments))

	assert.Equal(t, single, streamed)
	assert.Equal(t, chunks, fragments)
	assert.Equal(t, strings.Join(fragments, ""), streamed)
}

func TestResponseSynthesizer_MovieFallback(t *testing.T) {
	gen := test.NewFakeGenerator()
	gen.Err = errors.New("service unavailable")
	s := services.NewResponseSynthesizer(gen, services.DefaultPrompts())

	text := s.SynthesizeMovie(context.Background(), serenity(), nil, nil)
	assert.Contains(t, text, "Serenity (2005)")
	assert.Contains(t, text, "Starring: Nathan Fillion, Gina Torres, Alan Tudyk, Morena Baccarin, Adam Baldwin\n")
	assert.Contains(t, text, "Watch Trailer:\n"+model.DefaultTrailer)
	assert.Contains(t, text, "Box Office: $40,400,000")

	var fragments []string
	streamed := s.SynthesizeMovie(context.Background(), serenity(), nil, collect(&fragments))
	assert.Equal(t, text, streamed)
	assert.Equal(t, []string{text}, fragments)
}

func TestResponseSynthesizer_MidStreamFailure(t *testing.T) {
	gen := test.NewFakeGenerator("Serenity is")
	gen.StreamErr = errors.New("stream reset")
	s := services.NewResponseSynthesizer(gen, services.DefaultPrompts())

	var fragments []string
	text := s.SynthesizeMovie(context.Background(), serenity(), nil, collect(&fragments))

	require.Len(t, fragments, 2)
	assert.Equal(t, "Serenity is", fragments[0])
	assert.Equal(t, text, fragments[1])
	assert.Contains(t, text, "Serenity")
}

func TestResponseSynthesizer_General(t *testing.T) {
	query := "what is the highest grossing film of all time?"
	gen := test.NewFakeGenerator("Avatar.")
	s := services.NewResponseSynthesizer(gen, services.DefaultPrompts())

	assert.Equal(t, "Avatar.", s.SynthesizeGeneral(context.Background(), query, nil))
	assert.Contains(t, gen.Prompts()[0], `The user has asked: "`+query+`"`)

	gen.Err = errors.New("boom")
	var fragments []string
	text := s.SynthesizeGeneral(context.Background(), query, collect(&fragments))
	assert.Equal(t, "I'm sorry, I couldn't process your query: '"+query+"'. Please try asking in a different way.", text)
	assert.Equal(t, []string{text}, fragments)
}

func TestResponseSynthesizer_FallbackWithEmptyDetails(t *testing.T) {
	gen := test.NewFakeGenerator()
	gen.Err = errors.New("boom")
	s := services.NewResponseSynthesizer(gen, services.DefaultPrompts())

	text := s.SynthesizeMovie(context.Background(), &model.MovieDetails{}, nil, nil)
	assert.NotEmpty(t, text)
	assert.True(t, strings.HasPrefix(text, model.DefaultUnknown+"\n"))
	assert.Contains(t, text, model.DefaultOverview)
}

func TestNewPrompts_Overrides(t *testing.T) {
	prompts, err := services.NewPrompts(cloud.PromptTemplates{General: "Q={{.Query}}"})
	require.NoError(t, err)

	gen := test.NewFakeGenerator("a")
	services.NewResponseSynthesizer(gen, prompts).SynthesizeGeneral(context.Background(), "hi", nil)
	assert.Equal(t, []string{"Q=hi"}, gen.Prompts())

	_, err = services.NewPrompts(cloud.PromptTemplates{Movie: "{{.Title"})
	assert.Error(t, err)
}
