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
	"testing"

	"github.com/jaycherian/gcp-go-movie-agent/internal/cloud"
	"github.com/jaycherian/gcp-go-movie-agent/internal/core/model"
	"github.com/jaycherian/gcp-go-movie-agent/internal/core/services"
	test "github.com/jaycherian/gcp-go-movie-agent/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPosterFetcher(t *testing.T) {
	fixture := test.NewInceptionFixture()
	fixture.Posters["/not-an-image.jpg"] = []byte("<html>blocked</html>")
	catalog := newCatalog(t, fixture)
	fetcher := services.NewPosterFetcher(cloud.NewHTTPClient(2, ""), catalog)

	poster, err := fetcher.Fetch(context.Background(), "/inception.jpg")
	require.NoError(t, err)
	assert.Equal(t, "image/png", poster.MIMEType)
	assert.Equal(t, test.PNGBytes, poster.Data)

	_, err = fetcher.Fetch(context.Background(), "/not-an-image.jpg")
	assert.ErrorIs(t, err, model.ErrPosterUnavailable)

	_, err = fetcher.Fetch(context.Background(), "/missing.jpg")
	assert.ErrorIs(t, err, model.ErrPosterUnavailable)

	_, err = fetcher.Fetch(context.Background(), "")
	assert.ErrorIs(t, err, model.ErrPosterUnavailable)
}
