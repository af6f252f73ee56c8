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

// Package apis defines the small, dependency-light contracts shared by the
// error pipeline: capability interfaces that failure values may implement,
// the status mapper interface, and the transport-friendly view types.
//
// The normalizer and the responders program against these interfaces rather
// than against concrete library types. That keeps "does this value expose a
// status?" a single, explicit capability check instead of ad-hoc probing at
// every call site.
//
// This package must remain lightweight: it only contains interfaces and very
// small view types.
package apis
