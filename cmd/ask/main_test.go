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

package main

import (
	"bytes"
	"testing"

	"github.com/jaycherian/gcp-go-movie-agent/internal/core/model"
	"github.com/stretchr/testify/assert"
)

func TestConsoleObserver(t *testing.T) {
	var out, errOut bytes.Buffer
	o := consoleObserver{out: &out, err: &errOut}

	o.Status("Processing query...")
	o.MovieResolved(&model.MovieDetails{Title: "Inception", ReleaseDate: "2010-07-15"},
		&model.TrailerInfo{URL: "https://www.youtube.com/watch?v=YoHD9XEInc0"})

	assert.Equal(t, "... Processing query...\n", errOut.String())
	assert.Equal(t, "== Inception (2010) ==\nTrailer: https://www.youtube.com/watch?v=YoHD9XEInc0\n\n", out.String())
}

func TestConsoleObserver_QuietWithoutTrailer(t *testing.T) {
	var out, errOut bytes.Buffer
	o := consoleObserver{out: &out, err: &errOut, quiet: true}

	o.Status("Searching for movie: Primer")
	o.MovieResolved(&model.MovieDetails{Title: "Primer"}, nil)

	assert.Empty(t, errOut.String())
	assert.Equal(t, "== Primer ==\n\n", out.String())
}
