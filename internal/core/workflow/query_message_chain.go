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

package workflow

import (
	"github.com/jaycherian/gcp-go-movie-agent/internal/core/commands"
	"github.com/jaycherian/gcp-go-movie-agent/internal/core/cor"
)

// QueryMessageChain answers queries arriving as Pub/Sub messages and
// publishes the answers to a reply topic.
type QueryMessageChain struct {
	cor.BaseCommand
	chain cor.Chain
}

// NewQueryMessageChain wraps workflow with message decoding and reply
// publishing. The raw message payload is expected under cor.CtxIn.
func NewQueryMessageChain(workflow *QueryWorkflow, publisher commands.Publisher) *QueryMessageChain {
	out := cor.NewBaseChain("query-message-chain")
	out.AddCommand(commands.NewQueryMessageReader("query-message-reader"))
	out.AddCommand(workflow)
	out.AddCommand(commands.NewAnswerPublisher("answer-publisher", publisher))
	return &QueryMessageChain{
		BaseCommand: *cor.NewBaseCommand("query-message-chain"),
		chain:       out,
	}
}

func (q *QueryMessageChain) Execute(context cor.Context) {
	q.chain.Execute(context)
}
