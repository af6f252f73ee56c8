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

// Package code provides parsing, normalization and validation for error codes,
// plus the registry of codes the storefront API exposes.
//
// A "code" is the stable, machine-readable identifier clients branch on, such
// as "NOT_FOUND", "OUT_OF_STOCK" or "INTERNAL_SERVER_ERROR". It is distinct
// from the human-readable message, which may change freely. Codes are:
//
//   - short and stable;
//   - UPPER_SNAKE_CASE;
//   - treated as a registry, not free text (see Known).
//
// IMPORTANT: Empty codes ("") are NOT allowed on an error.
package code
