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

package services

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/h2non/filetype"
	"github.com/jaycherian/gcp-go-movie-agent/internal/core/model"
)

// MaxPosterBytes caps how much of a poster response is read.
const MaxPosterBytes = 10 << 20

// PosterFetcher downloads poster images from the catalog's image host.
type PosterFetcher struct {
	HTTPClient *http.Client
	Catalog    *CatalogClient
}

// NewPosterFetcher creates a fetcher resolving paths through catalog.
func NewPosterFetcher(httpClient *http.Client, catalog *CatalogClient) *PosterFetcher {
	return &PosterFetcher{HTTPClient: httpClient, Catalog: catalog}
}

// Fetch downloads the poster at posterPath. The body must sniff as an image;
// the returned MIME type comes from the bytes, not the response header.
func (p *PosterFetcher) Fetch(ctx context.Context, posterPath string) (*model.Poster, error) {
	target := p.Catalog.PosterURL(posterPath)
	if target == "" {
		return nil, fmt.Errorf("%w: no poster path", model.ErrPosterUnavailable)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrPosterUnavailable, err)
	}
	resp, err := p.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrPosterUnavailable, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: unexpected status %d", model.ErrPosterUnavailable, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, MaxPosterBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrPosterUnavailable, err)
	}
	if !filetype.IsImage(data) {
		return nil, fmt.Errorf("%w: response is not an image", model.ErrPosterUnavailable)
	}
	kind, err := filetype.Match(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrPosterUnavailable, err)
	}
	return &model.Poster{Data: data, MIMEType: kind.MIME.Value}, nil
}
