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

// Package services contains the components that talk to the outside world on
// behalf of the query pipeline: the classifier and synthesizer (generative
// text), the catalog client (TMDB), the trailer resolver and the poster
// fetcher. Each is usable on its own; the workflow package composes them.
//
// This file, `prompts.go`, holds the prompt templates. Each template can be
// replaced from configuration; the defaults below are used otherwise.
package services

import (
	"bytes"
	"fmt"
	"text/template"

	"github.com/jaycherian/gcp-go-movie-agent/internal/cloud"
	"github.com/jaycherian/gcp-go-movie-agent/internal/core/model"
)

// DefaultClassificationPrompt asks for exactly one line in one of two shapes.
// Data: .Query and .Examples ([]model.ClassificationExample).
const DefaultClassificationPrompt = `Determine if the following query is asking about a specific movie or is a general question.

Query: "{{.Query}}"

If it's about a specific movie, respond with:
movie: [extracted movie title]

If it's a general question or request, respond with:
general: [original query]
{{- if .Examples}}

Examples:
{{- range .Examples}}
Query: "{{.Query}}"
{{.Response}}
{{- end}}
{{- end}}

Be very concise and only return one of the above formats.`

// DefaultMoviePrompt embeds every ResponseContext field. Data: model.ResponseContext.
const DefaultMoviePrompt = `Based on the following movie information, create a comprehensive and engaging summary:

Title: {{.Title}}
Release Date: {{.ReleaseDate}}
Runtime: {{.Runtime}}
Genres: {{.Genres}}
Rating: {{.Rating}}
Director: {{.Director}}
Main Cast: {{.Cast}}

Overview: {{.Overview}}

Budget: {{.Budget}}
Revenue: {{.Revenue}}

Trailer: {{.Trailer}}

Provide insights about the movie's reception, significance, and interesting facts if applicable.
Format the response in a clear, professional way for someone interested in learning about this movie.
Include the trailer link exactly as given when one is available.
DO NOT use markdown formatting. Use plain text formatting with clear section divisions.`

// DefaultGeneralPrompt answers anything that is not about one film. Data: .Query.
const DefaultGeneralPrompt = `The user has asked: "{{.Query}}"

Please provide a helpful, informative response. If this is a question about movies in general
(not about a specific film), provide relevant information about the topic.

If you're not sure what the user is asking for, try to interpret their query in the context
of movies, cinema, or entertainment.

Format your response in plain text with clear section divisions. DO NOT use markdown formatting.`

// movieFallbackLayout is used when generation fails. It is not configurable.
const movieFallbackLayout = `{{.Title}}{{if ne .ReleaseYear "Unknown"}} ({{.ReleaseYear}}){{end}}

Rating: {{.Rating}}
Runtime: {{.Runtime}}
Genres: {{.Genres}}

Overview:
{{.Overview}}

Cast & Crew:
Director: {{.Director}}
Starring: {{.Cast}}

Watch Trailer:
{{.Trailer}}

Budget: {{.Budget}}
Box Office: {{.Revenue}}
`

const generalFallbackLayout = `I'm sorry, I couldn't process your query: '{{.Query}}'. Please try asking in a different way.`

var (
	movieFallbackTemplate   = template.Must(template.New("movie-fallback").Parse(movieFallbackLayout))
	generalFallbackTemplate = template.Must(template.New("general-fallback").Parse(generalFallbackLayout))
)

// Prompts is the parsed set of prompt templates.
type Prompts struct {
	Classification *template.Template
	Movie          *template.Template
	General        *template.Template
}

// NewPrompts parses the configured templates, using the defaults for any
// that are empty.
func NewPrompts(overrides cloud.PromptTemplates) (*Prompts, error) {
	classification, err := parsePrompt("classification-template", overrides.Classification, DefaultClassificationPrompt)
	if err != nil {
		return nil, err
	}
	movie, err := parsePrompt("movie-template", overrides.Movie, DefaultMoviePrompt)
	if err != nil {
		return nil, err
	}
	general, err := parsePrompt("general-template", overrides.General, DefaultGeneralPrompt)
	if err != nil {
		return nil, err
	}
	return &Prompts{Classification: classification, Movie: movie, General: general}, nil
}

// DefaultPrompts returns the built-in templates.
func DefaultPrompts() *Prompts {
	p, err := NewPrompts(cloud.PromptTemplates{})
	if err != nil {
		panic(err)
	}
	return p
}

func parsePrompt(name string, text string, def string) (*template.Template, error) {
	if text == "" {
		text = def
	}
	t, err := template.New(name).Option("missingkey=error").Parse(text)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", name, err)
	}
	return t, nil
}

func render(t *template.Template, data any) (string, error) {
	var buffer bytes.Buffer
	if err := t.Execute(&buffer, data); err != nil {
		return "", fmt.Errorf("failed to execute %s: %w", t.Name(), err)
	}
	return buffer.String(), nil
}

type queryData struct {
	Query    string
	Examples []model.ClassificationExample
}

// MovieFallback renders the fixed plain-text summary used when generation fails.
func MovieFallback(rc model.ResponseContext) string {
	out, err := render(movieFallbackTemplate, rc)
	if err != nil {
		return rc.Title
	}
	return out
}

// GeneralFallback renders the apology used when generation fails.
func GeneralFallback(query string) string {
	out, err := render(generalFallbackTemplate, queryData{Query: query})
	if err != nil {
		return query
	}
	return out
}
