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

// Package cloud holds the application's configuration model and the clients
// it needs to reach external services: the Gemini API, the movie catalog,
// the web search page used for trailer lookups and Pub/Sub.
//
// This file defines the configuration structs, decoded from TOML by
// LoadConfig. Secrets are never committed to the TOML files; they are read
// from the environment by ApplyEnvironment.
package cloud

import "google.golang.org/genai"

// DefaultSafetySettings leaves every harm category unblocked. Movie plots and
// trivia regularly mention violence, which the default thresholds would cut.
var DefaultSafetySettings = []*genai.SafetySetting{
	{
		Category:  genai.HarmCategoryDangerousContent,
		Threshold: genai.HarmBlockThresholdBlockNone,
	},
	{
		Category:  genai.HarmCategoryHarassment,
		Threshold: genai.HarmBlockThresholdBlockNone,
	},
	{
		Category:  genai.HarmCategoryHateSpeech,
		Threshold: genai.HarmBlockThresholdBlockNone,
	},
	{
		Category:  genai.HarmCategorySexuallyExplicit,
		Threshold: genai.HarmBlockThresholdBlockNone,
	},
}

// Logical names of the agent models the pipeline uses.
const (
	ModelClassifier  = "classifier"
	ModelSynthesizer = "synthesizer"
)

// Backends accepted by Application.Backend.
const (
	BackendGeminiAPI = "gemini"
	BackendVertexAI  = "vertex"
)

// Catalog configures the TMDB client.
type Catalog struct {
	BaseURL          string `toml:"base_url"`           // API root, e.g. "https://api.themoviedb.org/3".
	ImageBaseURL     string `toml:"image_base_url"`     // Poster root, e.g. "https://image.tmdb.org/t/p/w500".
	Language         string `toml:"language"`           // Sent as the language parameter, e.g. "en-US".
	APIKey           string `toml:"api_key"`            // v3 key, sent as a query parameter. Usually from TMDB_API_KEY.
	AccessToken      string `toml:"access_token"`       // v4 read token, sent as a bearer token. Usually from TMDB_ACCESS_TOKEN.
	TimeoutInSeconds int    `toml:"timeout_in_seconds"` // Per request timeout of the catalog HTTP client.
}

// TrailerSearch configures the trailer lookup.
type TrailerSearch struct {
	SearchURL        string `toml:"search_url"`         // Web search endpoint, e.g. "https://www.google.com/search".
	Site             string `toml:"site"`               // Domain the search is scoped to, e.g. "youtube.com".
	VideoSite        string `toml:"video_site"`         // Catalog video site accepted by the metadata tier.
	VideoType        string `toml:"video_type"`         // Catalog video type accepted by the metadata tier.
	UserAgent        string `toml:"user_agent"`         // Browser-like user agent sent to the search page.
	TimeoutInSeconds int    `toml:"timeout_in_seconds"` // Per request timeout of the search HTTP client.
}

// GenerativeModel represents the configuration for one Gemini model.
type GenerativeModel struct {
	Model              string  `toml:"model"`               // Model name, e.g. "gemini-2.0-flash".
	SystemInstructions string  `toml:"system_instructions"` // Optional system instruction.
	Temperature        float32 `toml:"temperature"`
	TopP               float32 `toml:"top_p"`
	TopK               float32 `toml:"top_k"`
	MaxTokens          int32   `toml:"max_tokens"`
}

// PromptTemplates holds text/template overrides for the three prompts. Empty
// values fall back to the built-in templates.
type PromptTemplates struct {
	Classification string `toml:"classification"`
	Movie          string `toml:"movie"`
	General        string `toml:"general"`
}

// Telemetry selects the exporters and the rotating log file.
type Telemetry struct {
	Exporter   string `toml:"exporter"`    // "gcp" exports to Cloud Trace and Cloud Monitoring; anything else disables export.
	LogFile    string `toml:"log_file"`    // Optional path of a rotating JSON log file.
	MaxSizeMB  int    `toml:"max_size_mb"` // Rotation threshold.
	MaxBackups int    `toml:"max_backups"`
	MaxAgeDays int    `toml:"max_age_days"`
}

// RateLimit bounds inbound API traffic per client IP.
type RateLimit struct {
	RequestsPerMinute int `toml:"requests_per_minute"` // Zero disables the limiter.
	Burst             int `toml:"burst"`
}

// TopicSubscription represents the configuration for a Pub/Sub subscription
// that feeds queries into the agent.
type TopicSubscription struct {
	Name             string `toml:"name"`               // Subscription id.
	ReplyTopic       string `toml:"reply_topic"`        // Topic answers are published to; empty disables replies.
	TimeoutInSeconds int    `toml:"timeout_in_seconds"` // Upper bound for handling one message.
}

// Config is the root of the TOML configuration.
type Config struct {
	Application struct {
		Name            string   `toml:"name"`
		GoogleProjectId string   `toml:"google_project_id"`
		GoogleLocation  string   `toml:"location"`
		Backend         string   `toml:"backend"` // "gemini" (API key) or "vertex".
		GeminiAPIKey    string   `toml:"gemini_api_key"`
		ListenAddress   string   `toml:"listen_address"`
		AllowedOrigins  []string `toml:"allowed_origins"`
	} `toml:"application"`
	Catalog            Catalog                      `toml:"catalog"`
	TrailerSearch      TrailerSearch                `toml:"trailer_search"`
	AgentModels        map[string]GenerativeModel   `toml:"agent_models"`        // Keyed by ModelClassifier / ModelSynthesizer.
	PromptTemplates    PromptTemplates              `toml:"prompt_templates"`
	Telemetry          Telemetry                    `toml:"telemetry"`
	RateLimit          RateLimit                    `toml:"rate_limit"`
	TopicSubscriptions map[string]TopicSubscription `toml:"topic_subscriptions"` // Keyed by a logical listener name.
}

// NewConfig creates a Config with its maps initialized so the TOML decoder
// can merge into them.
func NewConfig() *Config {
	return &Config{
		AgentModels:        make(map[string]GenerativeModel),
		TopicSubscriptions: make(map[string]TopicSubscription),
	}
}
