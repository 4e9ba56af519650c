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

// Package api exposes the movie agent over HTTP with gin.
//
// Routes (under /api/v1):
//   - GET  /healthz: liveness, never rate limited.
//   - GET  /ask?q=: answers a query as a Server-Sent Events stream of
//     "status", "movie", "fragment", "done" and "error" events.
//   - POST /ask: answers a query in one JSON response.
//   - GET  /movies/search?q=: the catalog's first match for a title.
//   - GET  /movies/:id: full movie details.
//   - GET  /movies/:id/trailer: the resolved trailer.
//   - GET  /movies/:id/poster: the poster image.
package api

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jaycherian/gcp-go-movie-agent/internal/cloud"
	"github.com/jaycherian/gcp-go-movie-agent/internal/core/model"
	"github.com/jaycherian/gcp-go-movie-agent/internal/core/services"
	"github.com/jaycherian/gcp-go-movie-agent/internal/core/workflow"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

// Handler serves the routes. Posters may be nil, in which case the poster
// route answers 404.
type Handler struct {
	Workflow *workflow.QueryWorkflow
	Posters  *services.PosterFetcher
}

// NewRouter builds the engine: recovery, tracing, CORS, then the /api/v1
// routes, rate limited when limiter is non-nil.
func NewRouter(config *cloud.Config, handler *Handler, limiter *IPRateLimiter) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(otelgin.Middleware(config.Application.Name))

	if len(config.Application.AllowedOrigins) > 0 {
		corsConfig := cors.DefaultConfig()
		corsConfig.AllowOrigins = config.Application.AllowedOrigins
		r.Use(cors.New(corsConfig))
	} else {
		r.Use(cors.Default())
	}

	apiV1 := r.Group("/api/v1")
	apiV1.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	limited := apiV1.Group("")
	if limiter != nil {
		limited.Use(limiter.Middleware())
	}
	QueryRouter(limited, handler)
	MovieRouter(limited, handler)
	return r
}

type askRequest struct {
	Query string `json:"query" binding:"required"`
}

type errorResponse struct {
	Error  string        `json:"error"`
	Answer *model.Answer `json:"answer,omitempty"`
}

// movieEvent is the payload of the SSE "movie" event.
type movieEvent struct {
	Title     string              `json:"title"`
	Movie     *model.MovieDetails `json:"movie"`
	Trailer   *model.TrailerInfo  `json:"trailer,omitempty"`
	PosterURL string              `json:"poster_url,omitempty"`
}

type fragmentEvent struct {
	Text string `json:"text"`
}

// sseObserver writes observer callbacks and fragments as SSE events. All
// calls happen on the request goroutine.
type sseObserver struct {
	c *gin.Context
}

func (o sseObserver) send(name string, payload any) {
	o.c.SSEvent(name, payload)
	o.c.Writer.Flush()
}

func (o sseObserver) Status(message string) {
	o.send("status", gin.H{"message": message})
}

func (o sseObserver) MovieResolved(details *model.MovieDetails, trailer *model.TrailerInfo) {
	event := movieEvent{Title: details.DisplayTitle(), Movie: details, Trailer: trailer}
	if details.PosterPath != "" {
		event.PosterURL = fmt.Sprintf("/api/v1/movies/%d/poster", details.ID)
	}
	o.send("movie", event)
}

func (o sseObserver) Fragment(text string) {
	o.send("fragment", fragmentEvent{Text: text})
}

// QueryRouter sets up the question answering routes.
func QueryRouter(r *gin.RouterGroup, h *Handler) {
	ask := r.Group("/ask")
	{
		ask.GET("", func(c *gin.Context) {
			query := model.NormalizeQuery(c.Query("q"))
			if query == "" {
				c.JSON(http.StatusBadRequest, errorResponse{Error: model.ErrEmptyQuery.Error()})
				return
			}

			c.Header("Cache-Control", "no-cache")
			c.Header("Connection", "keep-alive")
			c.Header("X-Accel-Buffering", "no")
			observer := sseObserver{c: c}

			answer, err := h.Workflow.HandleWithObserver(c.Request.Context(), query, observer.Fragment, observer)
			if err != nil {
				slog.WarnContext(c.Request.Context(), "query failed", "query", query, "error", err)
				observer.send("error", errorResponse{Error: err.Error(), Answer: answer})
				return
			}
			observer.send("done", answer)
		})

		ask.POST("", func(c *gin.Context) {
			var req askRequest
			if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Query) == "" {
				c.JSON(http.StatusBadRequest, errorResponse{Error: model.ErrEmptyQuery.Error()})
				return
			}
			answer, err := h.Workflow.Handle(c.Request.Context(), req.Query, nil)
			switch {
			case errors.Is(err, model.ErrDetailsUnavailable):
				c.JSON(http.StatusBadGateway, errorResponse{Error: err.Error(), Answer: answer})
			case err != nil:
				slog.ErrorContext(c.Request.Context(), "query failed", "query", req.Query, "error", err)
				c.JSON(http.StatusInternalServerError, errorResponse{Error: err.Error(), Answer: answer})
			default:
				c.JSON(http.StatusOK, answer)
			}
		})
	}
}

// MovieRouter sets up the catalog lookup routes.
func MovieRouter(r *gin.RouterGroup, h *Handler) {
	movies := r.Group("/movies")
	{
		movies.GET("/search", func(c *gin.Context) {
			title := strings.TrimSpace(c.Query("q"))
			if title == "" {
				c.JSON(http.StatusBadRequest, errorResponse{Error: "missing query parameter q"})
				return
			}
			summary, err := h.Workflow.Catalog.Search(c.Request.Context(), title)
			if err != nil {
				c.JSON(http.StatusNotFound, errorResponse{Error: err.Error()})
				return
			}
			c.JSON(http.StatusOK, summary)
		})

		movies.GET("/:id", func(c *gin.Context) {
			details, ok := h.details(c)
			if !ok {
				return
			}
			c.JSON(http.StatusOK, details)
		})

		movies.GET("/:id/trailer", func(c *gin.Context) {
			details, ok := h.details(c)
			if !ok {
				return
			}
			trailer := h.Workflow.Trailers.Resolve(c.Request.Context(), details.Title, details.ReleaseYear(), details)
			if trailer == nil {
				c.JSON(http.StatusNotFound, errorResponse{Error: model.ErrTrailerNotFound.Error()})
				return
			}
			c.JSON(http.StatusOK, trailer)
		})

		movies.GET("/:id/poster", func(c *gin.Context) {
			if h.Posters == nil {
				c.JSON(http.StatusNotFound, errorResponse{Error: model.ErrPosterUnavailable.Error()})
				return
			}
			details, ok := h.details(c)
			if !ok {
				return
			}
			poster, err := h.Posters.Fetch(c.Request.Context(), details.PosterPath)
			if err != nil {
				c.JSON(http.StatusNotFound, errorResponse{Error: err.Error()})
				return
			}
			c.Header("Cache-Control", "public, max-age=86400")
			c.Data(http.StatusOK, poster.MIMEType, poster.Data)
		})
	}
}

// details resolves the :id parameter, writing the error response itself
// when it returns false.
func (h *Handler) details(c *gin.Context) (*model.MovieDetails, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid movie id"})
		return nil, false
	}
	details, err := h.Workflow.Catalog.GetDetails(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusBadGateway, errorResponse{Error: err.Error()})
		return nil, false
	}
	return details, true
}
