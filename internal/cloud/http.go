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

package cloud

import (
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// DefaultHTTPTimeout applies when a configuration leaves the timeout at zero.
const DefaultHTTPTimeout = 10 * time.Second

// userAgentTransport sets a User-Agent on requests that do not carry one.
type userAgentTransport struct {
	base      http.RoundTripper
	userAgent string
}

func (t *userAgentTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.userAgent == "" || req.Header.Get("User-Agent") != "" {
		return t.base.RoundTrip(req)
	}
	r := req.Clone(req.Context())
	r.Header.Set("User-Agent", t.userAgent)
	return t.base.RoundTrip(r)
}

// NewHTTPClient returns a traced client with the given per request timeout.
// A non-empty userAgent is applied to every request that does not set its own.
func NewHTTPClient(timeoutInSeconds int, userAgent string) *http.Client {
	timeout := DefaultHTTPTimeout
	if timeoutInSeconds > 0 {
		timeout = time.Duration(timeoutInSeconds) * time.Second
	}
	var base http.RoundTripper = http.DefaultTransport
	if userAgent != "" {
		base = &userAgentTransport{base: base, userAgent: userAgent}
	}
	return &http.Client{
		Timeout:   timeout,
		Transport: otelhttp.NewTransport(base),
	}
}

// NewStreamingHTTPClient returns a traced client without an overall timeout,
// for long streamed responses. Calls are bounded by their request context.
func NewStreamingHTTPClient() *http.Client {
	return &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)}
}
