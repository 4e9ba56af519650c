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
// This file defines the Pub/Sub listener that feeds queries into the agent.
//
// Logic Flow:
//  1. A PubSubListener is created for a subscription id.
//  2. A command, normally the query workflow wrapped for message input, is
//     attached with SetCommand.
//  3. Listen starts a goroutine receiving messages until the context ends.
//  4. Each message runs the command with the payload under cor.CtxIn.
//  5. Every message is acknowledged once the command returns, whether or not
//     it recorded errors. Each query gets a single best-effort attempt, so
//     redelivery would only repeat the same external calls.
package cloud

import (
	"context"
	"log/slog"
	"time"

	"cloud.google.com/go/pubsub"
	"github.com/jaycherian/gcp-go-movie-agent/internal/core/cor"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// CtxMessageID is the context key under which the listener stores the Pub/Sub message id.
const CtxMessageID = "__message_id__"

// PubSubListener connects one subscription to one command.
type PubSubListener struct {
	client       *pubsub.Client
	subscription *pubsub.Subscription
	command      cor.Command
	timeout      time.Duration
}

// NewPubSubListener creates a listener for subscriptionID. command may be nil
// and attached later with SetCommand. A zero timeout leaves message handling
// unbounded.
func NewPubSubListener(
	pubsubClient *pubsub.Client,
	subscriptionID string,
	timeout time.Duration,
	command cor.Command,
) (*PubSubListener, error) {
	return &PubSubListener{
		client:       pubsubClient,
		subscription: pubsubClient.Subscription(subscriptionID),
		command:      command,
		timeout:      timeout,
	}, nil
}

// SetCommand attaches command if none has been set yet.
func (m *PubSubListener) SetCommand(command cor.Command) {
	if m.command == nil {
		m.command = command
	}
}

// Listen starts receiving in the background. It returns immediately.
func (m *PubSubListener) Listen(ctx context.Context) {
	slog.Info("listening", "subscription", m.subscription.ID())

	go func() {
		tracer := otel.Tracer("message-listener")

		err := m.subscription.Receive(ctx, func(msgCtx context.Context, msg *pubsub.Message) {
			defer msg.Ack()

			if m.command == nil {
				slog.Error("no command attached to listener; dropping message", "subscription", m.subscription.ID(), "message_id", msg.ID)
				return
			}

			if m.timeout > 0 {
				var cancel context.CancelFunc
				msgCtx, cancel = context.WithTimeout(msgCtx, m.timeout)
				defer cancel()
			}

			spanCtx, span := tracer.Start(msgCtx, "receive-message")
			defer span.End()
			span.SetAttributes(
				attribute.String("subscription", m.subscription.ID()),
				attribute.String("message_id", msg.ID),
			)

			chainCtx := cor.NewBaseContext(spanCtx)
			chainCtx.Add(cor.CtxIn, string(msg.Data))
			chainCtx.Add(CtxMessageID, msg.ID)

			m.command.Execute(chainCtx)

			if err := chainCtx.Err(); err != nil {
				span.RecordError(err)
				span.SetStatus(codes.Error, "failed")
				slog.Error("error executing chain", "message_id", msg.ID, "error", err)
				return
			}
			span.SetStatus(codes.Ok, "success")
		})
		if err != nil {
			slog.Error("error receiving data", "subscription", m.subscription.ID(), "error", err)
		}
	}()
}
