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

// ResponseSynthesizer turns movie details or a general question into answer
// text. Both entry points always return text: when generation fails a
// deterministic fallback is produced instead.
type ResponseSynthesizer struct {
	Generator TextGenerator
	Prompts   *Prompts
}

// NewResponseSynthesizer creates a synthesizer using generator and prompts.
func NewResponseSynthesizer(generator TextGenerator, prompts *Prompts) *ResponseSynthesizer {
	return &ResponseSynthesizer{Generator: generator, Prompts: prompts}
}

// SynthesizeMovie answers about one movie. trailer may be nil. When sink is
// non-nil the response is streamed through it; the fallback summary, if
// needed, is delivered to the sink as a single fragment.
func (s *ResponseSynthesizer) SynthesizeMovie(ctx context.Context, details *model.MovieDetails, trailer *model.TrailerInfo, sink model.StreamSink) string {
	rc := model.NewResponseContext(details, trailer)
	prompt, err := render(s.Prompts.Movie, rc)
	if err != nil {
		slog.Error("failed to build movie prompt", "title", rc.Title, "error", err)
		return deliver(MovieFallback(rc), sink)
	}
	text, err := s.generate(ctx, prompt, sink)
	if err != nil {
		slog.Warn("movie synthesis failed, using fallback summary", "title", rc.Title, "error", err)
		return deliver(MovieFallback(rc), sink)
	}
	return text
}

// SynthesizeGeneral answers a question that is not about one movie. The
// fallback is an apology that quotes query.
func (s *ResponseSynthesizer) SynthesizeGeneral(ctx context.Context, query string, sink model.StreamSink) string {
	prompt, err := render(s.Prompts.General, queryData{Query: query})
	if err != nil {
		slog.Error("failed to build general prompt", "error", err)
		return deliver(GeneralFallback(query), sink)
	}
	text, err := s.generate(ctx, prompt, sink)
	if err != nil {
		slog.Warn("general synthesis failed, using fallback", "query", query, "error", err)
		return deliver(GeneralFallback(query), sink)
	}
	return text
}

// generate streams when sink is set and makes a single call otherwise.
// Fragments already passed to the sink before a mid-stream error stay
// delivered.
func (s *ResponseSynthesizer) generate(ctx context.Context, prompt string, sink model.StreamSink) (string, error) {
	if sink == nil {
		return s.Generator.GenerateText(ctx, prompt)
	}
	var acc strings.Builder
	for fragment, err := range s.Generator.GenerateTextStream(ctx, prompt) {
		if err != nil {
			return "", err
		}
		acc.WriteString(fragment)
		sink(fragment)
	}
	return acc.String(), nil
}

func deliver(text string, sink model.StreamSink) string {
	sink.Emit(text)
	return text
}
