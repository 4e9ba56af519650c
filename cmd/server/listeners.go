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

// Package main contains the logic for setting up and starting the Pub/Sub
// listeners that answer queries arriving as messages.
//
// Functions:
//   - SetupListeners: attaches the query workflow to every configured
//     subscription and starts listening.
package main

import (
	"context"
	"log/slog"

	"github.com/jaycherian/gcp-go-movie-agent/internal/cloud"
	"github.com/jaycherian/gcp-go-movie-agent/internal/core/commands"
	"github.com/jaycherian/gcp-go-movie-agent/internal/core/workflow"
)

// discardPublisher drops answers for subscriptions without a reply topic.
type discardPublisher struct {
	subscription string
}

func (d discardPublisher) Publish(_ context.Context, data []byte) error {
	slog.Debug("no reply topic configured, dropping answer", "subscription", d.subscription, "bytes", len(data))
	return nil
}

// SetupListeners configures and starts the background Pub/Sub listeners.
// Each subscription gets its own message chain sharing the one workflow.
//
// Inputs:
//   - ctx: the application's root context; listeners stop when it ends.
//   - cloudClients: the initialized clients, including the listeners and
//     reply topics created from topic_subscriptions.
//   - wf: the query workflow.
func SetupListeners(ctx context.Context, cloudClients *cloud.ServiceClients, wf *workflow.QueryWorkflow) {
	for key, listener := range cloudClients.PubSubListeners {
		var publisher commands.Publisher = discardPublisher{subscription: key}
		if topic, ok := cloudClients.ReplyTopics[key]; ok {
			publisher = &cloud.TopicPublisher{Topic: topic}
		}
		listener.SetCommand(workflow.NewQueryMessageChain(wf, publisher))
		listener.Listen(ctx)
	}
}
