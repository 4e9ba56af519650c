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

// TrailerInfo points at a playable trailer. A nil *TrailerInfo means no
// trailer was found, which is always a soft outcome.
type TrailerInfo struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	VideoID string `json:"video_id"`
}

// Poster holds raw poster image bytes and their sniffed MIME type.
type Poster struct {
	Data     []byte `json:"-"`
	MIMEType string `json:"mime_type"`
}
