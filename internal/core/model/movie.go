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

import "fmt"

// MovieSummary is the minimal record returned by a catalog search. It is only
// used to obtain the catalog id and the release year for the follow-up calls.
type MovieSummary struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	ReleaseDate string `json:"release_date,omitempty"`
	PosterPath  string `json:"poster_path,omitempty"`
}

// ReleaseYear returns the four digit year of the release date, or "" when the
// date is missing or too short to contain a year.
func (m *MovieSummary) ReleaseYear() string {
	return yearOf(m.ReleaseDate)
}

// Video is one entry of the catalog's video listing for a movie.
type Video struct {
	Key      string `json:"key"`      // Platform specific id, e.g. the YouTube video id.
	Name     string `json:"name"`     // Display name given by the catalog.
	Site     string `json:"site"`     // Hosting platform, e.g. "YouTube".
	Type     string `json:"type"`     // Category, e.g. "Trailer", "Teaser", "Featurette".
	Official bool   `json:"official"` // Whether the catalog marks the video as official.
}

// MovieDetails is the full catalog record for one movie. Optional numeric
// values are pointers so that "absent" and "zero" stay distinguishable; the
// display defaults are applied once, by NewResponseContext.
type MovieDetails struct {
	ID             int            `json:"id"`
	Title          string         `json:"title"`
	Tagline        string         `json:"tagline,omitempty"`
	ReleaseDate    string         `json:"release_date,omitempty"`
	Overview       string         `json:"overview,omitempty"`
	VoteAverage    *float64       `json:"vote_average,omitempty"`
	Genres         []string       `json:"genres"`
	RuntimeMinutes *int           `json:"runtime_minutes,omitempty"`
	Budget         int64          `json:"budget"`
	Revenue        int64          `json:"revenue"`
	Director       string         `json:"director,omitempty"`
	Cast           []string       `json:"cast"`   // Ordered by billing.
	Videos         []Video        `json:"videos"` // Raw listing, trailers included.
	Similar        []MovieSummary `json:"similar,omitempty"`
	PosterPath     string         `json:"poster_path,omitempty"`
}

// ReleaseYear returns the four digit release year or "".
func (d *MovieDetails) ReleaseYear() string {
	return yearOf(d.ReleaseDate)
}

// DisplayTitle renders "Title (Year)", or just the title when the year is unknown.
//
// Outputs:
//   - string: The title used in headings, fallbacks and observer events.
func (d *MovieDetails) DisplayTitle() string {
	if year := d.ReleaseYear(); year != "" {
		return fmt.Sprintf("%s (%s)", d.Title, year)
	}
	return d.Title
}

// TopCast returns at most n cast members in billing order.
//
// Inputs:
//   - n: The maximum number of names to return.
//
// Outputs:
//   - []string: Cast names, fewer than n when the cast is short.
func (d *MovieDetails) TopCast(n int) []string {
	if len(d.Cast) <= n {
		return d.Cast
	}
	return d.Cast[:n]
}

func yearOf(date string) string {
	if len(date) < 4 {
		return ""
	}
	return date[:4]
}
