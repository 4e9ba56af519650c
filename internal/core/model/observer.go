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

// QueryObserver follows a query's progress. Calls are made synchronously on
// the goroutine handling the query, before any answer text for the same
// stage is streamed.
type QueryObserver interface {
	// Status reports a short human readable progress message.
	Status(message string)
	// MovieResolved is called once the movie details and trailer are known,
	// before synthesis starts. trailer may be nil.
	MovieResolved(details *MovieDetails, trailer *TrailerInfo)
}

// NopObserver ignores every notification.
type NopObserver struct{}

// Status discards the message.
func (NopObserver) Status(string) {}

// MovieResolved discards the notification.
func (NopObserver) MovieResolved(*MovieDetails, *TrailerInfo) {}

// ObserverFuncs adapts plain functions to QueryObserver. Nil fields are skipped.
type ObserverFuncs struct {
	OnStatus        func(message string)
	OnMovieResolved func(details *MovieDetails, trailer *TrailerInfo)
}

// Status forwards message to OnStatus.
//
// Inputs:
//   - message: The progress message.
func (o ObserverFuncs) Status(message string) {
	if o.OnStatus != nil {
		o.OnStatus(message)
	}
}

// MovieResolved forwards the resolved movie to OnMovieResolved.
//
// Inputs:
//   - details: The movie's full details.
//   - trailer: The resolved trailer, or nil when none was found.
func (o ObserverFuncs) MovieResolved(details *MovieDetails, trailer *TrailerInfo) {
	if o.OnMovieResolved != nil {
		o.OnMovieResolved(details, trailer)
	}
}
