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

	"github.com/jaycherian/gcp-go-movie-agent/internal/core/model"
	"github.com/jaycherian/gcp-go-movie-agent/internal/core/services"
	test "github.com/jaycherian/gcp-go-movie-agent/internal/testutil"
	"github.com/zeebo/assert"
)

func TestParseClassification(t *testing.T) {
	cases := []struct {
		name     string
		query    string
		response string
		want     model.QueryClassification
	}{
		{"movie", "tell me about inception", "movie: Inception", model.QueryClassification{Kind: model.KindMovie, RefinedText: "Inception"}},
		{"upper case marker", "inception", "MOVIE: inception", model.QueryClassification{Kind: model.KindMovie, RefinedText: "inception"}},
		{"brackets and quotes", "the matrix?", "movie: [\"The Matrix\"]", model.QueryClassification{Kind: model.KindMovie, RefinedText: "The Matrix"}},
		{"leading blank lines", "alien", "\n\n  movie: Alien\nextra", model.QueryClassification{Kind: model.KindMovie, RefinedText: "Alien"}},
		{"empty title", "something", "movie:   ", model.QueryClassification{Kind: model.KindMovie, RefinedText: "something"}},
		{"general keeps query", "What is the highest grossing film of all time?", "general: what is the highest grossing film", model.QueryClassification{Kind: model.KindGeneral, RefinedText: "What is the highest grossing film of all time?"}},
		{"unrecognised", "hello", "I am not sure.", model.QueryClassification{Kind: model.KindGeneral, RefinedText: "hello"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, services.ParseClassification(tc.query, tc.response))
		})
	}
}

func TestQueryClassifier_Classify(t *testing.T) {
	gen := test.NewFakeGenerator("movie: Inception")
	classifier := services.NewQueryClassifier(gen, services.DefaultPrompts())

	got := classifier.Classify(context.Background(), "tell me about inception")
	assert.Equal(t, model.QueryClassification{Kind: model.KindMovie, RefinedText: "Inception"}, got)

	prompts := gen.Prompts()
	assert.Equal(t, len(prompts), 1)
	assert.True(t, strings.Contains(prompts[0], `Query: "tell me about inception"`))
	assert.True(t, strings.Contains(prompts[0], "movie: [extracted movie title]"))
}

func TestQueryClassifier_FailsOpen(t *testing.T) {
	gen := test.NewFakeGenerator()
	gen.Err = errors.New("deadline exceeded")
	classifier := services.NewQueryClassifier(gen, services.DefaultPrompts())

	got := classifier.Classify(context.Background(), "  zzzqqq  ")
	assert.Equal(t, model.QueryClassification{Kind: model.KindMovie, RefinedText: "  zzzqqq  "}, got)
}
