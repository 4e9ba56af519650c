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
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/jaycherian/gcp-go-movie-agent/internal/cloud"
	"github.com/jaycherian/gcp-go-movie-agent/internal/core/model"
)

// Defaults for the trailer lookup.
const (
	DefaultVideoSite = "YouTube"
	DefaultVideoType = "Trailer"
	DefaultSearchURL = "https://www.google.com/search"
	DefaultSite      = "youtube.com"
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"
	watchURLPrefix   = "https://www.youtube.com/watch?v="
)

var watchURLPattern = regexp.MustCompile(`(?:^|[/.])youtube\.com/watch\?v=([A-Za-z0-9_-]+)`)

// TrailerResolver finds a trailer link for a movie. Catalog metadata is
// consulted first; a scoped web search is the fallback.
type TrailerResolver struct {
	HTTPClient *http.Client
	SearchURL  string
	Site       string
	VideoSite  string
	VideoType  string
	UserAgent  string
}

// NewTrailerResolver creates a resolver from the trailer_search section,
// filling in defaults for empty values.
func NewTrailerResolver(httpClient *http.Client, config cloud.TrailerSearch) *TrailerResolver {
	return &TrailerResolver{
		HTTPClient: httpClient,
		SearchURL:  orDefault(config.SearchURL, DefaultSearchURL),
		Site:       orDefault(config.Site, DefaultSite),
		VideoSite:  orDefault(config.VideoSite, DefaultVideoSite),
		VideoType:  orDefault(config.VideoType, DefaultVideoType),
		UserAgent:  orDefault(config.UserAgent, DefaultUserAgent),
	}
}

// Resolve returns a trailer for title, or nil when none can be found.
// Failures are never returned: a missing trailer is a normal outcome.
//
// Inputs:
//   - title: the catalog title, used in the search query and the trailer title.
//   - year: optional release year appended to the search query.
//   - details: optional catalog record whose video listing is checked first.
func (r *TrailerResolver) Resolve(ctx context.Context, title string, year string, details *model.MovieDetails) *model.TrailerInfo {
	if t := r.FromMetadata(title, details); t != nil {
		return t
	}
	t, err := r.FromSearch(ctx, title, year)
	if err != nil {
		slog.Warn("trailer search failed", "title", title, "error", err)
		return nil
	}
	return t
}

// FromMetadata returns the first catalog video hosted on the video site with
// the trailer type.
func (r *TrailerResolver) FromMetadata(title string, details *model.MovieDetails) *model.TrailerInfo {
	if details == nil {
		return nil
	}
	for _, v := range details.Videos {
		if v.Key == "" || !strings.EqualFold(v.Site, r.VideoSite) || !strings.EqualFold(v.Type, r.VideoType) {
			continue
		}
		return &model.TrailerInfo{
			Title:   title + " Official Trailer",
			URL:     watchURLPrefix + v.Key,
			VideoID: v.Key,
		}
	}
	return nil
}

// SearchQuery builds the web search text for title and an optional year.
func (r *TrailerResolver) SearchQuery(title string, year string) string {
	q := title + " official trailer"
	if year != "" {
		q += " " + year
	}
	return q + " site:" + r.Site
}

// FromSearch scrapes the search result page for the first watch link. It
// returns nil, nil when the page has no matching link.
func (r *TrailerResolver) FromSearch(ctx context.Context, title string, year string) (*model.TrailerInfo, error) {
	params := url.Values{}
	params.Set("q", r.SearchQuery(title, year))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.SearchURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", r.UserAgent)

	resp, err := r.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d from search", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse search results: %w", err)
	}

	var videoID string
	doc.Find("a[href]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		href, _ := s.Attr("href")
		videoID = MatchWatchURL(href)
		return videoID == ""
	})
	if videoID == "" {
		return nil, nil
	}
	return &model.TrailerInfo{
		Title:   title + " Trailer",
		URL:     watchURLPrefix + videoID,
		VideoID: videoID,
	}, nil
}

// MatchWatchURL returns the video id of a watch link, or "" when href is not
// one. Search engines often wrap the target in an escaped redirect, so the
// unescaped form is tried as well.
func MatchWatchURL(href string) string {
	if m := watchURLPattern.FindStringSubmatch(href); m != nil {
		return m[1]
	}
	if unescaped, err := url.QueryUnescape(href); err == nil && unescaped != href {
		if m := watchURLPattern.FindStringSubmatch(unescaped); m != nil {
			return m[1]
		}
	}
	return ""
}

func orDefault(value string, def string) string {
	if value == "" {
		return def
	}
	return value
}
