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

// Package boundary is the single point where a failure of unknown shape
// becomes a failure of known shape.
//
// Anything a request handler can produce (an *apperr.AppError, a library
// error, a recovered panic value, a bare string, nil) goes through Normalize
// and comes out as a *boundary.Error: an HTTP status in 100..599 plus a
// message. Downstream stages (responders, loggers) never see raw values.
//
// Guard and Go bridge code that may fail, including by panicking or on
// another goroutine, into that single channel. The transport-specific wraps
// live next to their transports: httpx.Wrap and the grpcx interceptors.
package boundary
