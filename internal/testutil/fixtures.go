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

package test

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"testing"
)

// InceptionID is the catalog id used by the fixtures.
const InceptionID = 27205

// InceptionTrailerKey is the video key of the fixture's trailer entry.
const InceptionTrailerKey = "YoHD9XEInc0"

// InceptionSearchJSON is a /search/movie page whose first result is Inception.
const InceptionSearchJSON = `{
  "page": 1,
  "results": [
    {"id": 27205, "title": "Inception", "release_date": "2010-07-15", "poster_path": "/inception.jpg"},
    {"id": 64956, "title": "Inception: The Cobol Job", "release_date": "2010-12-07"}
  ],
  "total_results": 2
}`

// InceptionDetailsJSON is a /movie/27205 response with credits, similar
// titles and a video list whose first entry is a teaser.
const InceptionDetailsJSON = `{
  "id": 27205,
  "title": "Inception",
  "tagline": "Your mind is the scene of the crime.",
  "release_date": "2010-07-15",
  "overview": "Cobb, a skilled thief who commits corporate espionage by infiltrating the subconscious of his targets.",
  "vote_average": 8.369,
  "runtime": 148,
  "budget": 160000000,
  "revenue": 839030630,
  "poster_path": "/inception.jpg",
  "genres": [{"id": 28, "name": "Action"}, {"id": 878, "name": "Science Fiction"}, {"id": 12, "name": "Adventure"}],
  "credits": {
    "cast": [
      {"name": "Joseph Gordon-Levitt", "order": 1},
      {"name": "Leonardo DiCaprio", "order": 0},
      {"name": "Ken Watanabe", "order": 2},
      {"name": "Tom Hardy", "order": 3},
      {"name": "Elliot Page", "order": 4},
      {"name": "Dileep Rao", "order": 5}
    ],
    "crew": [
      {"name": "Hans Zimmer", "job": "Original Music Composer"},
      {"name": "Christopher Nolan", "job": "Director"},
      {"name": "Emma Thomas", "job": "Producer"}
    ]
  },
  "videos": {
    "results": [
      {"key": "teaser01", "name": "Teaser", "site": "YouTube", "type": "Teaser", "official": true},
      {"key": "vimeo01", "name": "Trailer", "site": "Vimeo", "type": "Trailer", "official": true},
      {"key": "YoHD9XEInc0", "name": "Official Trailer", "site": "YouTube", "type": "Trailer", "official": true}
    ]
  },
  "similar": {"results": [{"id": 157336, "title": "Interstellar", "release_date": "2014-11-05"}]},
  "reviews": {"results": []}
}`

// SearchResultsHTML is a search result page whose only watch link is wrapped
// in an escaped redirect, preceded by links that must be ignored.
const SearchResultsHTML = `<html><body>
<a href="/search?q=inception&tbm=isch">Images</a>
<a href="https://www.youtube.com/results?search_query=inception">YouTube search</a>
<a href="/url?q=https://www.youtube.com/watch%3Fv%3D8hP9D6kZseM&amp;sa=U">Inception (2010) Official Trailer</a>
<a href="https://www.youtube.com/watch?v=second00001">Second result</a>
</body></html>`

// EmptySearchResultsHTML has no watch links.
const EmptySearchResultsHTML = `<html><body><a href="/about">About</a></body></html>`

// PNGBytes starts with the PNG signature and an IHDR chunk header.
var PNGBytes = []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A, 0x00, 0x00, 0x00, 0x0D, 0x49, 0x48, 0x44, 0x52}

// TMDBFixture scripts a fake TMDB server. Searches for titles without an
// entry return an empty page; details and posters without an entry return
// 404. Status overrides take precedence over bodies.
type TMDBFixture struct {
	Search        map[string]string // Lowercased query to response body.
	Details       map[int]string    // Movie id to response body.
	DetailsStatus map[int]int       // Movie id to forced status code.
	Posters       map[string][]byte // Poster path to body.

	mu       sync.Mutex
	requests []*url.URL
}

// NewInceptionFixture serves the Inception search, details and poster.
func NewInceptionFixture() *TMDBFixture {
	return &TMDBFixture{
		Search:  map[string]string{"inception": InceptionSearchJSON},
		Details: map[int]string{InceptionID: InceptionDetailsJSON},
		Posters: map[string][]byte{"/inception.jpg": PNGBytes},
	}
}

// Requests returns the URLs of every request served.
func (f *TMDBFixture) Requests() []*url.URL {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*url.URL(nil), f.requests...)
}

// NewTMDBServer serves f at "/3" for the API and "/t/p/w500" for posters.
// The server is closed when the test ends.
func NewTMDBServer(t *testing.T, f *TMDBFixture) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.requests = append(f.requests, r.URL)
		f.mu.Unlock()

		switch {
		case r.URL.Path == "/3/search/movie":
			body, ok := f.Search[strings.ToLower(r.URL.Query().Get("query"))]
			if !ok {
				body = `{"page":1,"results":[],"total_results":0}`
			}
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(body))
		case strings.HasPrefix(r.URL.Path, "/3/movie/"):
			id, err := strconv.Atoi(strings.TrimPrefix(r.URL.Path, "/3/movie/"))
			if err != nil {
				http.NotFound(w, r)
				return
			}
			if status, ok := f.DetailsStatus[id]; ok {
				w.WriteHeader(status)
				return
			}
			body, ok := f.Details[id]
			if !ok {
				http.NotFound(w, r)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(body))
		case strings.HasPrefix(r.URL.Path, "/t/p/w500/"):
			data, ok := f.Posters[strings.TrimPrefix(r.URL.Path, "/t/p/w500")]
			if !ok {
				http.NotFound(w, r)
				return
			}
			_, _ = w.Write(data)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

// SearchServer is a fake web search page that records the queries it sees.
type SearchServer struct {
	*httptest.Server
	Body   string
	Status int

	mu         sync.Mutex
	queries    []string
	userAgents []string
}

// NewSearchServer serves body at "/search". The server is closed when the test ends.
func NewSearchServer(t *testing.T, body string) *SearchServer {
	t.Helper()
	s := &SearchServer{Body: body, Status: http.StatusOK}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.queries = append(s.queries, r.URL.Query().Get("q"))
		s.userAgents = append(s.userAgents, r.UserAgent())
		s.mu.Unlock()
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(s.Status)
		_, _ = w.Write([]byte(s.Body))
	}))
	t.Cleanup(s.Close)
	return s
}

// Queries returns every q parameter received.
func (s *SearchServer) Queries() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.queries...)
}

// UserAgents returns every User-Agent received.
func (s *SearchServer) UserAgents() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.userAgents...)
}
