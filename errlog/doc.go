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

// Package errlog carries failure records from the responders to log sinks.
//
// A Payload is built once per failure from the normalized error and the
// request it happened in. Responders render it with Payload.Map, run the map
// through sanitize.Sanitize and hand the result to a Sink. Sinks never see
// unsanitized values.
//
// Sinks provided here:
//
//   - SlogSink writes the record as a structured slog entry;
//   - WebhookSink posts records at or above a severity threshold to an
//     alerting endpoint, retrying with exponential backoff;
//   - AsyncSink moves delivery off the request path;
//   - Multi fans out, Discard drops everything.
package errlog
