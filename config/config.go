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

package config

import (
	"strings"

	"dirpx.dev/spx/apis"
)

const (
	// DefaultDirectory is the namespace prefix for extension resources.
	DefaultDirectory = "extensions"
	// DefaultMaxUnwrap represents the default for MaxUnwrap.
	// A value of 8 should be sufficient for all practical purposes.
	DefaultMaxUnwrap = 8
	// DefaultMaxSuggestions represents the default for MaxSuggestions.
	DefaultMaxSuggestions = 3
	// DefaultReadConcurrency represents the default for ReadConcurrency.
	DefaultReadConcurrency = 4
)

// NewConfig constructs an apis.Config from the given options.
func NewConfig(opts ...Option) apis.Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return Sanitize(cfg)
}

// DefaultConfig is the default configuration used when none is provided.
func DefaultConfig() apis.Config {
	return apis.Config{
		Directory:       DefaultDirectory,
		MaxUnwrap:       DefaultMaxUnwrap,
		MaxSuggestions:  DefaultMaxSuggestions,
		ReadConcurrency: DefaultReadConcurrency,
	}
}

// Sanitize replaces out-of-range values with their defaults.
func Sanitize(cfg apis.Config) apis.Config {
	cfg.Directory = strings.Trim(strings.TrimSpace(cfg.Directory), "/")
	if cfg.Directory == "" {
		cfg.Directory = DefaultDirectory
	}
	if cfg.MaxUnwrap <= 0 {
		cfg.MaxUnwrap = DefaultMaxUnwrap
	}
	if cfg.MaxSuggestions < 0 {
		cfg.MaxSuggestions = 0
	}
	if cfg.ReadConcurrency <= 0 {
		cfg.ReadConcurrency = DefaultReadConcurrency
	}
	return cfg
}

// Option is a functional option that mutates an apis.Config during construction.
type Option func(*apis.Config)

// WithDirectory sets the resource namespace prefix.
// An empty value resets to the default.
func WithDirectory(dir string) Option {
	return func(c *apis.Config) {
		c.Directory = dir
	}
}

// WithMaxUnwrap sets the MaxUnwrap option.
// A non-positive value resets to the default.
func WithMaxUnwrap(max int) Option {
	return func(c *apis.Config) {
		c.MaxUnwrap = max
	}
}

// WithStrictFailureMatch sets the StrictFailureMatch option.
func WithStrictFailureMatch(strict bool) Option {
	return func(c *apis.Config) {
		c.StrictFailureMatch = strict
	}
}

// WithMaxSuggestions sets the MaxSuggestions option. Zero disables suggestions.
func WithMaxSuggestions(n int) Option {
	return func(c *apis.Config) {
		c.MaxSuggestions = n
	}
}

// WithReportSourceErrors sets the ReportSourceErrors option.
func WithReportSourceErrors(report bool) Option {
	return func(c *apis.Config) {
		c.ReportSourceErrors = report
	}
}

// WithReadConcurrency sets the ReadConcurrency option.
func WithReadConcurrency(n int) Option {
	return func(c *apis.Config) {
		c.ReadConcurrency = n
	}
}
