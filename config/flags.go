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

package config

import (
	"errors"
	"strconv"

	"github.com/spf13/pflag"
)

// BindFlags registers one flag per setting on fs. Defaults shown in help come
// from Default; values only take effect through ApplyFlags.
func BindFlags(fs *pflag.FlagSet) {
	def := Default()
	defaults := map[string]string{
		"addr":               def.Addr,
		"mode":               string(def.Mode),
		"log-level":          def.LogLevel,
		"log-format":         def.LogFormat,
		"alert-min-severity": def.AlertMinSeverity.String(),
		"alert-queue-size":   strconv.Itoa(def.AlertQueueSize),
		"shutdown-timeout":   def.ShutdownTimeout.String(),
	}
	for _, s := range settings {
		fs.String(s.flag, defaults[s.flag], s.usage+" (env "+s.env()+")")
	}
}

// ApplyFlags overrides settings from flags that were set on the command line.
func (c *Config) ApplyFlags(fs *pflag.FlagSet) error {
	var errs []error
	for _, s := range settings {
		f := fs.Lookup(s.flag)
		if f == nil || !f.Changed {
			continue
		}
		if err := s.set(c, f.Value.String()); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
