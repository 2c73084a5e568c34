/*
   Copyright 2025 The DIRPX Authors.

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

package apis

// Config carries read-only knobs for discovery and lookup.
// It is passed by value and should be treated as immutable by implementations.
type Config struct {
	// Directory is the namespace prefix under which extension resources
	// are looked up: "<Directory>/<capability id>".
	Directory string `yaml:"directory"`

	// MaxUnwrap limits pointer unwrapping when normalizing implementation
	// types to their nearest named type.
	MaxUnwrap int `yaml:"max_unwrap"`

	// StrictFailureMatch makes a failed lookup report only the discovery
	// failure recorded for exactly that name. When false, any failure whose
	// offending text contains the name (case-insensitive) is reported.
	StrictFailureMatch bool `yaml:"strict_failure_match"`

	// MaxSuggestions caps the "did you mean" names attached to a not-found
	// error. Zero disables suggestions.
	MaxSuggestions int `yaml:"max_suggestions"`

	// ReportSourceErrors raises unreadable resource sources from debug to
	// warn level in logs. They never fail discovery.
	ReportSourceErrors bool `yaml:"report_source_errors"`

	// ReadConcurrency bounds how many sources are read in parallel during
	// discovery.
	ReadConcurrency int `yaml:"read_concurrency"`
}
