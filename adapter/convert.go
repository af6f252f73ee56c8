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

package adapter

import (
	"dirpx.dev/apperr/apis"
	"dirpx.dev/apperr/errlog"
)

// ToView converts a described failure into the public ErrorView. The stack is
// only copied when includeStack is set (non-production).
//
// Details are copied as-is; Context was sanitized by Describe.
func ToView(f Failure, includeStack bool) apis.ErrorView {
	v := apis.ErrorView{
		Code:       f.Code.String(),
		StatusCode: f.Status,
		Category:   f.Category.String(),
		Severity:   f.Severity.String(),
	}
	if f.Operational {
		v.Details = f.Details
		if len(f.Context) > 0 {
			v.Context = f.Context
		}
	}
	if includeStack {
		v.Stack = f.Stack
	}
	return v
}

// LogInfo converts a described failure into the error section of a log
// payload. The message is the internal detail, not the client message, and
// the taxonomy is the log taxonomy.
func LogInfo(f Failure) errlog.ErrorInfo {
	info := errlog.ErrorInfo{
		Name:     f.Name,
		Message:  f.Detail,
		Stack:    f.Stack,
		Code:     f.LogCode,
		Category: f.LogCategory,
		Severity: f.Severity,
	}
	if info.Code.IsZero() {
		info.Code = f.Code
	}
	if info.Category == "" {
		info.Category = f.Category
	}
	return info
}
