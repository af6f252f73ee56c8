/*
   Copyright 2025 The DIRPX Authors

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

// Package sanitize removes secrets from structured values before they reach a
// log sink.
//
// The policy is key based: a map entry whose key contains one of Terms
// (case-insensitive) has its value replaced by Placeholder, whatever that
// value is. Non-map values are leaves and pass through untouched; slices and
// structs are leaves too.
//
// Unlike a naive recursive walk, Sanitize is bounded: a map that contains
// itself is cut with CircularMarker and maps nested deeper than MaxDepth are
// cut with TruncatedMarker. All markers are plain strings, so sanitizing an
// already sanitized value is a no-op.
package sanitize
