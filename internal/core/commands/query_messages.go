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

// Package commands provides the concrete Commands of the query workflow. This
// file defines the two commands that adapt the workflow to Pub/Sub.
//
// Logic Flow:
//  1. QueryMessageReader receives the raw message payload under cor.CtxIn,
//     decodes it as a cloud.QueryMessage (or plain text) and stores the query
//     for the workflow.
//  2. The query workflow runs and stores its *model.Answer.
//  3. AnswerPublisher serializes the answer as a cloud.AnswerMessage and
//     publishes it to the reply topic.
package commands

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jaycherian/gcp-go-movie-agent/internal/cloud"
	"github.com/jaycherian/gcp-go-movie-agent/internal/core/cor"
	"github.com/jaycherian/gcp-go-movie-agent/internal/core/model"
)

// ParamMessageID holds the correlation id of the message being handled.
const ParamMessageID = "__query_message_id__"

// Publisher sends one message and waits for the server to accept it.
type Publisher interface {
	Publish(ctx context.Context, data []byte) error
}

// QueryMessageReader decodes a query message.
type QueryMessageReader struct {
	cor.BaseCommand
}

// NewQueryMessageReader creates the message decoding step.
func NewQueryMessageReader(name string) *QueryMessageReader {
	out := &QueryMessageReader{BaseCommand: *cor.NewBaseCommand(name)}
	out.OutputParamName = ParamQuery
	return out
}

func (c *QueryMessageReader) Execute(context cor.Context) {
	in, ok := cor.Value[string](context, c.GetInputParam())
	if !ok {
		c.Fail(context, fmt.Errorf("unexpected message payload type %T", context.Get(c.GetInputParam())))
		return
	}
	msg := cloud.ParseQueryMessage([]byte(in))
	query := model.NormalizeQuery(msg.Query)
	if query == "" {
		c.Fail(context, model.ErrEmptyQuery)
		return
	}
	if msg.ID != "" {
		context.Add(ParamMessageID, msg.ID)
	}
	context.Add(c.GetOutputParam(), query)
	c.Succeed(context)
}

// AnswerPublisher publishes the workflow's answer.
type AnswerPublisher struct {
	cor.BaseCommand
	publisher Publisher
}

// NewAnswerPublisher creates the reply step.
func NewAnswerPublisher(name string, publisher Publisher) *AnswerPublisher {
	out := &AnswerPublisher{BaseCommand: *cor.NewBaseCommand(name), publisher: publisher}
	out.InputParamName = ParamAnswer
	return out
}

func (c *AnswerPublisher) Execute(context cor.Context) {
	answer, _ := cor.Value[*model.Answer](context, ParamAnswer)
	answerErr, _ := cor.Value[error](context, ParamAnswerError)

	data, err := json.Marshal(cloud.NewAnswerMessage(answer, answerErr))
	if err != nil {
		c.Fail(context, fmt.Errorf("failed to marshal answer: %w", err))
		return
	}
	if err := c.publisher.Publish(context.GetContext(), data); err != nil {
		c.Fail(context, fmt.Errorf("failed to publish answer %s: %w", answer.ID, err))
		return
	}
	c.Succeed(context)
}
