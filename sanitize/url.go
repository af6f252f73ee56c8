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

package sanitize

import (
	"net/url"
	"strings"
)

// URL redacts credentials from a URL or request URI: the value of every query
// parameter whose name is sensitive becomes Placeholder and a userinfo
// password becomes "xxxxx" (as url.URL.Redacted does). The order and encoding
// of the remaining parameters are preserved.
//
// A string that does not parse as a URL is returned unchanged.
func URL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	changed := false
	if _, ok := u.User.Password(); ok {
		changed = true
	}
	if u.RawQuery != "" {
		if q, ok := redactQuery(u.RawQuery); ok {
			u.RawQuery = q
			changed = true
		}
	}
	if !changed {
		return raw
	}
	return u.Redacted()
}

func redactQuery(raw string) (string, bool) {
	parts := strings.Split(raw, "&")
	changed := false
	for i, p := range parts {
		key, _, _ := strings.Cut(p, "=")
		name, err := url.QueryUnescape(key)
		if err != nil {
			name = key
		}
		if !IsSensitiveKey(name) {
			continue
		}
		parts[i] = key + "=" + Placeholder
		changed = true
	}
	return strings.Join(parts, "&"), changed
}
