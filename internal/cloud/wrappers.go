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

// Package cloud provides components for interacting with external services.
// This file implements a decorator around the Gemini models API. The decorator
// binds a model name to its generation settings, exposes plain text single-shot
// and streaming calls, and records token usage on every response.
package cloud

import (
	"context"
	"iter"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"google.golang.org/genai"
)

const genAIInstrumentation = "github.com/jaycherian/gcp-go-movie-agent/genai"

// ContentGenerator is the subset of *genai.Models the decorator calls.
type ContentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
	GenerateContentStream(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) iter.Seq2[*genai.GenerateContentResponse, error]
}

// GenerativeAIModel is a named, configured Gemini model.
type GenerativeAIModel struct {
	ModelName               string
	GenerativeContentConfig *genai.GenerateContentConfig
	ModelHandle             ContentGenerator

	inputTokens  metric.Int64Counter
	outputTokens metric.Int64Counter
}

// NewGenerativeAIModel wraps handle for the model name with the given settings.
//
// Inputs:
//   - config: generation settings applied to every call; may be nil.
//   - name: the model name, e.g. "gemini-2.0-flash".
//   - handle: normally client.Models of a *genai.Client.
func NewGenerativeAIModel(config *genai.GenerateContentConfig, name string, handle ContentGenerator) *GenerativeAIModel {
	meter := otel.Meter(genAIInstrumentation)
	in, _ := meter.Int64Counter("genai.tokens.input")
	out, _ := meter.Int64Counter("genai.tokens.output")
	return &GenerativeAIModel{
		ModelName:               name,
		GenerativeContentConfig: config,
		ModelHandle:             handle,
		inputTokens:             in,
		outputTokens:            out,
	}
}

// NewGenerateContentConfig converts a GenerativeModel entry of the
// configuration into genai settings. Zero values are left unset so the
// service defaults apply.
func NewGenerateContentConfig(values GenerativeModel) *genai.GenerateContentConfig {
	out := &genai.GenerateContentConfig{
		SafetySettings: DefaultSafetySettings,
	}
	if values.Temperature > 0 {
		out.Temperature = genai.Ptr(values.Temperature)
	}
	if values.TopP > 0 {
		out.TopP = genai.Ptr(values.TopP)
	}
	if values.TopK > 0 {
		out.TopK = genai.Ptr(values.TopK)
	}
	if values.MaxTokens > 0 {
		out.MaxOutputTokens = values.MaxTokens
	}
	if values.SystemInstructions != "" {
		out.SystemInstruction = genai.NewContentFromText(values.SystemInstructions, genai.RoleUser)
	}
	return out
}

// GenerateContent issues one request with the bound model and settings.
func (m *GenerativeAIModel) GenerateContent(ctx context.Context, content []*genai.Content) (*genai.GenerateContentResponse, error) {
	resp, err := m.ModelHandle.GenerateContent(ctx, m.ModelName, content, m.GenerativeContentConfig)
	if err != nil {
		return nil, err
	}
	m.recordUsage(ctx, resp)
	return resp, nil
}

// GenerateText sends prompt as a single user turn and returns the complete text.
func (m *GenerativeAIModel) GenerateText(ctx context.Context, prompt string) (string, error) {
	ctx, span := otel.Tracer(genAIInstrumentation).Start(ctx, "generate_text")
	defer span.End()
	span.SetAttributes(attribute.String("genai.model", m.ModelName))

	resp, err := m.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", err
	}
	return ResponseText(resp), nil
}

// GenerateTextStream sends prompt as a single user turn and yields text
// fragments in arrival order. Chunks that carry no text are skipped. The
// sequence ends after the first error.
func (m *GenerativeAIModel) GenerateTextStream(ctx context.Context, prompt string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		ctx, span := otel.Tracer(genAIInstrumentation).Start(ctx, "generate_text_stream")
		defer span.End()
		span.SetAttributes(attribute.String("genai.model", m.ModelName))

		var last *genai.GenerateContentResponse
		defer func() { m.recordUsage(ctx, last) }()

		fragments := 0
		for resp, err := range m.ModelHandle.GenerateContentStream(ctx, m.ModelName, genai.Text(prompt), m.GenerativeContentConfig) {
			if err != nil {
				span.RecordError(err)
				span.SetStatus(codes.Error, err.Error())
				yield("", err)
				return
			}
			if resp != nil && resp.UsageMetadata != nil {
				last = resp
			}
			text := ResponseText(resp)
			if text == "" {
				continue
			}
			fragments++
			if !yield(text, nil) {
				return
			}
		}
		span.SetAttributes(attribute.Int("genai.fragments", fragments))
	}
}

// Usage metadata on a stream is cumulative; only the last chunk carrying it is recorded.
func (m *GenerativeAIModel) recordUsage(ctx context.Context, resp *genai.GenerateContentResponse) {
	if resp == nil || resp.UsageMetadata == nil {
		return
	}
	if m.inputTokens != nil {
		m.inputTokens.Add(ctx, int64(resp.UsageMetadata.PromptTokenCount), metric.WithAttributes(attribute.String("model", m.ModelName)))
	}
	if m.outputTokens != nil {
		m.outputTokens.Add(ctx, int64(resp.UsageMetadata.CandidatesTokenCount), metric.WithAttributes(attribute.String("model", m.ModelName)))
	}
}

// ResponseText concatenates the text parts of every candidate. Thought parts
// are excluded.
func ResponseText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}
	var sb strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part == nil || part.Thought {
				continue
			}
			sb.WriteString(part.Text)
		}
	}
	return sb.String()
}
