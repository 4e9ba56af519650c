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
	"iter"
)

// TextGenerator is the generative-text service as the pipeline sees it.
// cloud.GenerativeAIModel implements it over Gemini.
type TextGenerator interface {
	// GenerateText returns the complete response to prompt.
	GenerateText(ctx context.Context, prompt string) (string, error)
	// GenerateTextStream yields response fragments in arrival order. A non-nil
	// error ends the sequence.
	GenerateTextStream(ctx context.Context, prompt string) iter.Seq2[string, error]
}
