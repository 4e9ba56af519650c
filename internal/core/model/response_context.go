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

import (
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Display defaults. These are the only place missing catalog values are
// replaced, so prompts and fallback text always agree.
const (
	DefaultUnknown  = "Unknown"
	DefaultRating   = "N/A"
	DefaultOverview = "No overview available"
	DefaultTrailer  = "Trailer not available"
)

// TopCastSize is how many cast members are shown in prompts and fallback text.
const TopCastSize = 5

var moneyPrinter = message.NewPrinter(language.English)

// ResponseContext is the flattened, display-ready view of a movie and its
// trailer. It is the sole input of prompt construction and of the fallback
// template; every field is populated.
type ResponseContext struct {
	Title       string
	ReleaseDate string
	ReleaseYear string
	Runtime     string // "148 minutes" or "Unknown".
	Rating      string // "8.4/10" or "N/A".
	Genres      string // Comma separated.
	Director    string
	Cast        string // Top cast, comma separated.
	Overview    string
	Budget      string // "$160,000,000".
	Revenue     string
	Trailer     string // Trailer URL or DefaultTrailer.
}

// NewResponseContext projects details and an optional trailer onto a
// ResponseContext, applying the display defaults.
//
// Inputs:
//   - details: the catalog record; must not be nil.
//   - trailer: the resolved trailer, or nil.
//
// Outputs:
//   - ResponseContext with every field set.
func NewResponseContext(details *MovieDetails, trailer *TrailerInfo) ResponseContext {
	out := ResponseContext{
		Title:       orDefault(details.Title, DefaultUnknown),
		ReleaseDate: orDefault(details.ReleaseDate, DefaultUnknown),
		ReleaseYear: orDefault(details.ReleaseYear(), DefaultUnknown),
		Runtime:     DefaultUnknown,
		Rating:      DefaultRating,
		Genres:      orDefault(strings.Join(details.Genres, ", "), DefaultUnknown),
		Director:    orDefault(details.Director, DefaultUnknown),
		Cast:        orDefault(strings.Join(details.TopCast(TopCastSize), ", "), DefaultUnknown),
		Overview:    orDefault(details.Overview, DefaultOverview),
		Budget:      FormatMoney(details.Budget),
		Revenue:     FormatMoney(details.Revenue),
		Trailer:     DefaultTrailer,
	}
	if details.RuntimeMinutes != nil && *details.RuntimeMinutes > 0 {
		out.Runtime = strconv.Itoa(*details.RuntimeMinutes) + " minutes"
	}
	if details.VoteAverage != nil {
		out.Rating = strconv.FormatFloat(*details.VoteAverage, 'f', 1, 64) + "/10"
	}
	if trailer != nil && trailer.URL != "" {
		out.Trailer = trailer.URL
	}
	return out
}

// FormatMoney renders an amount as US dollars with thousands grouping.
//
// Inputs:
//   - amount: Whole dollars.
//
// Outputs:
//   - string: For example "$160,000,000".
func FormatMoney(amount int64) string {
	return moneyPrinter.Sprintf("$%d", amount)
}

func orDefault(value string, def string) string {
	if strings.TrimSpace(value) == "" {
		return def
	}
	return value
}
