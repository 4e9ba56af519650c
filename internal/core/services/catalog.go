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

// Package services contains the components of the query pipeline. This file,
// `catalog.go`, implements the TMDB catalog client: a title search that
// returns the first ranked match, and a combined details call that also
// brings back credits, reviews, similar titles and the video listing.
//
// Both calls make a single attempt. The search folds every failure into
// model.ErrMovieNotFound, which the workflow treats as a reason to answer
// the question generally; the details call reports model.ErrDetailsUnavailable,
// which ends the query.
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/jaycherian/gcp-go-movie-agent/internal/cloud"
	"github.com/jaycherian/gcp-go-movie-agent/internal/core/model"
)

// DetailsAppendToResponse is the append_to_response value of the details call.
const DetailsAppendToResponse = "credits,reviews,similar,videos"

// CatalogClient is a read-only TMDB client.
type CatalogClient struct {
	HTTPClient   *http.Client
	BaseURL      string
	ImageBaseURL string
	Language     string
	APIKey       string
	AccessToken  string
}

// NewCatalogClient creates a client from the catalog section of the configuration.
func NewCatalogClient(httpClient *http.Client, config cloud.Catalog) *CatalogClient {
	language := config.Language
	if language == "" {
		language = "en-US"
	}
	return &CatalogClient{
		HTTPClient:   httpClient,
		BaseURL:      strings.TrimSuffix(config.BaseURL, "/"),
		ImageBaseURL: strings.TrimSuffix(config.ImageBaseURL, "/"),
		Language:     language,
		APIKey:       config.APIKey,
		AccessToken:  config.AccessToken,
	}
}

type tmdbMovie struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	ReleaseDate string `json:"release_date"`
	PosterPath  string `json:"poster_path"`
}

func (m tmdbMovie) summary() model.MovieSummary {
	return model.MovieSummary{ID: m.ID, Title: m.Title, ReleaseDate: m.ReleaseDate, PosterPath: m.PosterPath}
}

type tmdbPage struct {
	Results []tmdbMovie `json:"results"`
}

type tmdbDetails struct {
	tmdbMovie
	Tagline     string   `json:"tagline"`
	Overview    string   `json:"overview"`
	VoteAverage *float64 `json:"vote_average"`
	Runtime     *int     `json:"runtime"`
	Budget      int64    `json:"budget"`
	Revenue     int64    `json:"revenue"`
	Genres      []struct {
		Name string `json:"name"`
	} `json:"genres"`
	Credits struct {
		Cast []struct {
			Name  string `json:"name"`
			Order int    `json:"order"`
		} `json:"cast"`
		Crew []struct {
			Name string `json:"name"`
			Job  string `json:"job"`
		} `json:"crew"`
	} `json:"credits"`
	Videos struct {
		Results []model.Video `json:"results"`
	} `json:"videos"`
	Similar tmdbPage `json:"similar"`
}

func (d *tmdbDetails) toModel() *model.MovieDetails {
	out := &model.MovieDetails{
		ID:             d.ID,
		Title:          d.Title,
		Tagline:        d.Tagline,
		ReleaseDate:    d.ReleaseDate,
		Overview:       d.Overview,
		VoteAverage:    d.VoteAverage,
		RuntimeMinutes: d.Runtime,
		Budget:         d.Budget,
		Revenue:        d.Revenue,
		PosterPath:     d.PosterPath,
		Genres:         make([]string, 0, len(d.Genres)),
		Cast:           make([]string, 0, len(d.Credits.Cast)),
		Videos:         d.Videos.Results,
	}
	for _, g := range d.Genres {
		out.Genres = append(out.Genres, g.Name)
	}

	cast := d.Credits.Cast
	sort.SliceStable(cast, func(i, j int) bool { return cast[i].Order < cast[j].Order })
	for _, c := range cast {
		out.Cast = append(out.Cast, c.Name)
	}

	for _, c := range d.Credits.Crew {
		if c.Job == "Director" {
			out.Director = c.Name
			break
		}
	}
	for _, s := range d.Similar.Results {
		out.Similar = append(out.Similar, s.summary())
	}
	if out.Videos == nil {
		out.Videos = []model.Video{}
	}
	return out
}

// Search returns the first ranked match for title.
//
// Outputs:
//   - *model.MovieSummary: the best match.
//   - error: wraps model.ErrMovieNotFound for an empty result set and for
//     every transport or decoding failure.
func (c *CatalogClient) Search(ctx context.Context, title string) (*model.MovieSummary, error) {
	params := url.Values{}
	params.Set("query", title)
	params.Set("include_adult", "false")

	var page tmdbPage
	if err := c.get(ctx, "/search/movie", params, &page); err != nil {
		slog.Warn("catalog search failed", "title", title, "error", err)
		return nil, fmt.Errorf("%w: %q: %v", model.ErrMovieNotFound, title, err)
	}
	if len(page.Results) == 0 {
		return nil, fmt.Errorf("%w: %q", model.ErrMovieNotFound, title)
	}
	s := page.Results[0].summary()
	return &s, nil
}

// GetDetails fetches the full record for id in one call.
//
// Outputs:
//   - *model.MovieDetails: the record, with cast in billing order.
//   - error: wraps model.ErrDetailsUnavailable on any failure.
func (c *CatalogClient) GetDetails(ctx context.Context, id int) (*model.MovieDetails, error) {
	params := url.Values{}
	params.Set("append_to_response", DetailsAppendToResponse)

	var details tmdbDetails
	if err := c.get(ctx, "/movie/"+strconv.Itoa(id), params, &details); err != nil {
		slog.Warn("catalog details failed", "id", id, "error", err)
		return nil, fmt.Errorf("%w: movie %d: %v", model.ErrDetailsUnavailable, id, err)
	}
	return details.toModel(), nil
}

// PosterURL returns the absolute poster URL for a catalog poster path, or ""
// when the movie has no poster.
func (c *CatalogClient) PosterURL(posterPath string) string {
	if posterPath == "" || c.ImageBaseURL == "" {
		return ""
	}
	return c.ImageBaseURL + posterPath
}

func (c *CatalogClient) get(ctx context.Context, path string, params url.Values, out any) error {
	params.Set("language", c.Language)
	if c.APIKey != "" {
		params.Set("api_key", c.APIKey)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if c.AccessToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.AccessToken)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d from %s", resp.StatusCode, path)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", path, err)
	}
	return nil
}
