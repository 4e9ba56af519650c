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

// Package cloud contains the message payloads exchanged over Pub/Sub.
//
// Structs:
//   - QueryMessage: a question delivered on a query subscription.
//   - AnswerMessage: the reply published once the question has been handled.
package cloud

import (
	"encoding/json"
	"strings"

	"github.com/jaycherian/gcp-go-movie-agent/internal/core/model"
)

// QueryMessage is the JSON body of a query message. Messages that are not a
// JSON object are treated as the raw query text.
type QueryMessage struct {
	ID    string `json:"id,omitempty"` // Correlation id echoed on the answer. Generated when empty.
	Query string `json:"query"`        // The user's question.
}

// ParseQueryMessage decodes data as a QueryMessage, falling back to treating
// the whole payload as query text.
func ParseQueryMessage(data []byte) QueryMessage {
	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, "{") {
		var msg QueryMessage
		if err := json.Unmarshal([]byte(trimmed), &msg); err == nil {
			return msg
		}
	}
	return QueryMessage{Query: trimmed}
}

// AnswerMessage is published to a subscription's reply topic.
type AnswerMessage struct {
	ID      string        `json:"id"`
	Query   string        `json:"query"`
	Outcome model.Outcome `json:"outcome"`
	Title   string        `json:"title,omitempty"`
	Trailer string        `json:"trailer,omitempty"`
	Text    string        `json:"text,omitempty"`
	Error   string        `json:"error,omitempty"`
}

// NewAnswerMessage flattens an answer for publishing. err is the terminal
// failure returned with the answer, if any.
func NewAnswerMessage(answer *model.Answer, err error) AnswerMessage {
	out := AnswerMessage{
		ID:      answer.ID,
		Query:   answer.Query,
		Outcome: answer.Outcome,
		Text:    answer.Text,
	}
	if answer.Movie != nil {
		out.Title = answer.Movie.DisplayTitle()
	}
	if answer.Trailer != nil {
		out.Trailer = answer.Trailer.URL
	}
	if err != nil {
		out.Error = err.Error()
	}
	return out
}
