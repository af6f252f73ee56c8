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

package apperr

import "errors"

// IsOperational reports whether v is an anticipated failure that is safe to
// describe to the caller.
//
// It is true if and only if v is an error whose chain contains a non-nil
// *AppError with the operational flag set. Everything else (runtime faults,
// raw library errors, strings, nil) is a programming failure. The check is
// structural only; messages are never inspected.
func IsOperational(v any) bool {
	ae, ok := As(v)
	return ok && ae.operational
}

// As returns the first *AppError in v's error chain.
func As(v any) (*AppError, bool) {
	err, ok := v.(error)
	if !ok || err == nil {
		return nil, false
	}
	var ae *AppError
	if !errors.As(err, &ae) || ae == nil {
		return nil, false
	}
	return ae, true
}
