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

// Package category defines the closed set of error categories.
//
// A category answers "what kind of condition is this?" and is orthogonal to
// the code (which exact condition), the severity (how bad) and the
// operational flag (expected vs. bug). Every AppError carries exactly one
// category and it never changes after construction.
//
// The set is closed: Parse rejects anything outside the constants declared
// here, so transports and dashboards can switch over it exhaustively.
package category
