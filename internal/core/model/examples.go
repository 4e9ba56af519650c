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

// ClassificationExample pairs a user query with the exact line the
// classifier is expected to answer with.
type ClassificationExample struct {
	Query    string
	Response string
}

// ClassificationExamples returns the few-shot examples for the classifier.
//
// Outputs:
//   - []ClassificationExample: examples covering both query kinds.
func ClassificationExamples() []ClassificationExample {
	return []ClassificationExample{
		{Query: "tell me about inception", Response: "movie: Inception"},
		{Query: "who directed the dark knight?", Response: "movie: The Dark Knight"},
		{Query: "serenity 2005", Response: "movie: Serenity"},
		{Query: "what are the best sci-fi films of the 90s?", Response: "general: what are the best sci-fi films of the 90s?"},
		{Query: "how does the oscar voting work", Response: "general: how does the oscar voting work"},
	}
}
