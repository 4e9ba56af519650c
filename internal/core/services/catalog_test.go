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

package services_test

import (
	"context"
	"net/http"
	"strconv"
	"testing"

	"github.com/jaycherian/gcp-go-movie-agent/internal/cloud"
	"github.com/jaycherian/gcp-go-movie-agent/internal/core/model"
	"github.com/jaycherian/gcp-go-movie-agent/internal/core/services"
	test "github.com/jaycherian/gcp-go-movie-agent/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCatalog(t *testing.T, fixture *test.TMDBFixture) *services.CatalogClient {
	t.Helper()
	srv := test.NewTMDBServer(t, fixture)
	return services.NewCatalogClient(cloud.NewHTTPClient(2, ""), cloud.Catalog{
		BaseURL:      srv.URL + "/3",
		ImageBaseURL: srv.URL + "/t/p/w500",
		APIKey:       "test-key",
	})
}

func TestCatalogClient_Search(t *testing.T) {
	fixture := test.NewInceptionFixture()
	catalog := newCatalog(t, fixture)

	summary, err := catalog.Search(context.Background(), "Inception")
	require.NoError(t, err)
	assert.Equal(t, test.InceptionID, summary.ID)
	assert.Equal(t, "Inception", summary.Title)
	assert.Equal(t, "2010", summary.ReleaseYear())

	q := fixture.Requests()[0].Query()
	assert.Equal(t, "Inception", q.Get("query"))
	assert.Equal(t, "en-US", q.Get("language"))
	assert.Equal(t, "false", q.Get("include_adult"))
	assert.Equal(t, "test-key", q.Get("api_key"))
}

func TestCatalogClient_SearchNotFound(t *testing.T) {
	catalog := newCatalog(t, test.NewInceptionFixture())

	_, err := catalog.Search(context.Background(), "zzzqqqnonexistentfilm123")
	assert.ErrorIs(t, err, model.ErrMovieNotFound)
}

func TestCatalogClient_SearchTransportErrorIsNotFound(t *testing.T) {
	catalog := services.NewCatalogClient(cloud.NewHTTPClient(1, ""), cloud.Catalog{BaseURL: "http://127.0.0.1:1/3"})

	_, err := catalog.Search(context.Background(), "Inception")
	assert.ErrorIs(t, err, model.ErrMovieNotFound)
}

func TestCatalogClient_GetDetails(t *testing.T) {
	fixture := test.NewInceptionFixture()
	catalog := newCatalog(t, fixture)

	details, err := catalog.GetDetails(context.Background(), test.InceptionID)
	require.NoError(t, err)

	assert.Equal(t, "Inception", details.Title)
	assert.Equal(t, "Christopher Nolan", details.Director)
	assert.Equal(t, []string{"Leonardo DiCaprio", "Joseph Gordon-Levitt", "Ken Watanabe", "Tom Hardy", "Elliot Page", "Dileep Rao"}, details.Cast)
	assert.Equal(t, []string{"Action", "Science Fiction", "Adventure"}, details.Genres)
	require.NotNil(t, details.RuntimeMinutes)
	assert.Equal(t, 148, *details.RuntimeMinutes)
	require.NotNil(t, details.VoteAverage)
	assert.InDelta(t, 8.369, *details.VoteAverage, 1e-9)
	assert.Equal(t, int64(160000000), details.Budget)
	assert.Len(t, details.Videos, 3)
	require.Len(t, details.Similar, 1)
	assert.Equal(t, "Interstellar", details.Similar[0].Title)

	req := fixture.Requests()[0]
	assert.Equal(t, "/3/movie/"+strconv.Itoa(test.InceptionID), req.Path)
	assert.Equal(t, services.DetailsAppendToResponse, req.Query().Get("append_to_response"))
}

func TestCatalogClient_GetDetailsUnavailable(t *testing.T) {
	fixture := test.NewInceptionFixture()
	fixture.DetailsStatus = map[int]int{test.InceptionID: http.StatusInternalServerError}
	catalog := newCatalog(t, fixture)

	_, err := catalog.GetDetails(context.Background(), test.InceptionID)
	assert.ErrorIs(t, err, model.ErrDetailsUnavailable)
}

func TestCatalogClient_BearerToken(t *testing.T) {
	var auth string
	srv := test.NewTMDBServer(t, test.NewInceptionFixture())
	client := &http.Client{Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
		auth = r.Header.Get("Authorization")
		return http.DefaultTransport.RoundTrip(r)
	})}
	catalog := services.NewCatalogClient(client, cloud.Catalog{BaseURL: srv.URL + "/3", AccessToken: "v4-token"})

	_, err := catalog.Search(context.Background(), "inception")
	require.NoError(t, err)
	assert.Equal(t, "Bearer v4-token", auth)
}

func TestCatalogClient_PosterURL(t *testing.T) {
	catalog := services.NewCatalogClient(http.DefaultClient, cloud.Catalog{ImageBaseURL: "https://image.tmdb.org/t/p/w500/"})
	assert.Equal(t, "https://image.tmdb.org/t/p/w500/abc.jpg", catalog.PosterURL("/abc.jpg"))
	assert.Equal(t, "", catalog.PosterURL(""))
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }
