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
// This file creates and holds every client the application needs, acting as
// the dependency container passed to the workflows, the API and the listeners.
//
// Logic Flow:
//  1. NewCloudServiceClients is called once at start-up with the loaded Config.
//  2. A genai client is created for the configured backend, and each entry of
//     agent_models is wrapped in a GenerativeAIModel.
//  3. HTTP clients for the catalog and the trailer search are created with
//     their own timeouts and tracing.
//  4. When topic subscriptions are configured, a Pub/Sub client, one listener
//     per subscription and the reply topics are created.
package cloud

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"cloud.google.com/go/pubsub"
	"google.golang.org/genai"
)

// ServiceClients holds the shared, read-only clients.
type ServiceClients struct {
	GenAIClient       *genai.Client
	AgentModels       map[string]*GenerativeAIModel // Keyed by the agent_models entry name.
	CatalogHTTPClient *http.Client
	SearchHTTPClient  *http.Client
	PubsubClient      *pubsub.Client             // Nil when no subscriptions are configured.
	PubSubListeners   map[string]*PubSubListener // Keyed by the topic_subscriptions entry name.
	ReplyTopics       map[string]*pubsub.Topic   // Keyed like PubSubListeners; absent when no reply topic is set.
}

// Close flushes the reply topics and closes the Pub/Sub client.
func (c *ServiceClients) Close() {
	for _, t := range c.ReplyTopics {
		t.Stop()
	}
	if c.PubsubClient != nil {
		_ = c.PubsubClient.Close()
	}
}

// NewGenAIClient creates a genai client for the configured backend.
func NewGenAIClient(ctx context.Context, config *Config, httpClient *http.Client) (*genai.Client, error) {
	cc := &genai.ClientConfig{HTTPClient: httpClient}
	switch config.Application.Backend {
	case BackendVertexAI:
		cc.Backend = genai.BackendVertexAI
		cc.Project = config.Application.GoogleProjectId
		cc.Location = config.Application.GoogleLocation
	default:
		cc.Backend = genai.BackendGeminiAPI
		cc.APIKey = config.Application.GeminiAPIKey
	}
	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("error creating genai client: %w", err)
	}
	return client, nil
}

// NewCloudServiceClients initializes every client described by config.
//
// Inputs:
//   - ctx: the application's root context.
//   - config: the loaded configuration.
//
// Outputs:
//   - *ServiceClients: the initialized clients.
//   - error: the first client that failed to initialize.
func NewCloudServiceClients(ctx context.Context, config *Config) (*ServiceClients, error) {
	gc, err := NewGenAIClient(ctx, config, NewStreamingHTTPClient())
	if err != nil {
		return nil, err
	}

	agentModels := make(map[string]*GenerativeAIModel)
	for key, values := range config.AgentModels {
		agentModels[key] = NewGenerativeAIModel(NewGenerateContentConfig(values), values.Model, gc.Models)
		slog.Debug("configured agent model", "name", key, "model", values.Model)
	}

	clients := &ServiceClients{
		GenAIClient:       gc,
		AgentModels:       agentModels,
		CatalogHTTPClient: NewHTTPClient(config.Catalog.TimeoutInSeconds, ""),
		SearchHTTPClient:  NewHTTPClient(config.TrailerSearch.TimeoutInSeconds, config.TrailerSearch.UserAgent),
		PubSubListeners:   make(map[string]*PubSubListener),
		ReplyTopics:       make(map[string]*pubsub.Topic),
	}

	if len(config.TopicSubscriptions) == 0 {
		return clients, nil
	}

	pc, err := pubsub.NewClient(ctx, config.Application.GoogleProjectId)
	if err != nil {
		return nil, fmt.Errorf("error creating pubsub client: %w", err)
	}
	clients.PubsubClient = pc

	for key, values := range config.TopicSubscriptions {
		timeout := time.Duration(values.TimeoutInSeconds) * time.Second
		listener, err := NewPubSubListener(pc, values.Name, timeout, nil)
		if err != nil {
			clients.Close()
			return nil, err
		}
		clients.PubSubListeners[key] = listener
		if values.ReplyTopic != "" {
			clients.ReplyTopics[key] = pc.Topic(values.ReplyTopic)
		}
	}
	return clients, nil
}
