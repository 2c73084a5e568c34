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
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"dirpx.dev/spx/apis"
)

// ErrEmptyPath is returned when Load is called without a file path.
var ErrEmptyPath = errors.New("spx(config): empty config path")

// Load reads a YAML config file and layers it over DefaultConfig.
// Keys absent from the file keep their default values.
func Load(path string) (apis.Config, error) {
	if path == "" {
		return apis.Config{}, ErrEmptyPath
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return apis.Config{}, fmt.Errorf("spx(config): read %s: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return apis.Config{}, fmt.Errorf("spx(config): %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML data over DefaultConfig and sanitizes the result.
func Parse(data []byte) (apis.Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return apis.Config{}, err
	}
	return Sanitize(cfg), nil
}

// Marshal encodes cfg as YAML.
func Marshal(cfg apis.Config) ([]byte, error) {
	return yaml.Marshal(cfg)
}
