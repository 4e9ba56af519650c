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

package model

import "errors"

var (
	// ErrEmptyQuery is returned when a blank query is submitted.
	ErrEmptyQuery = errors.New("query is empty")
	// ErrMovieNotFound covers an empty catalog result set as well as any
	// transport or decoding failure during the search.
	ErrMovieNotFound = errors.New("movie not found")
	// ErrDetailsUnavailable is the only failure that ends a query without text.
	ErrDetailsUnavailable = errors.New("movie details unavailable")
	// ErrTrailerNotFound is used by the HTTP surface when neither tier finds a trailer.
	ErrTrailerNotFound = errors.New("trailer not found")
	// ErrPosterUnavailable is returned when a poster cannot be fetched or is not an image.
	ErrPosterUnavailable = errors.New("poster unavailable")
)
