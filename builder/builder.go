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

package builder

import (
	"dirpx.dev/spx/apis"
	"dirpx.dev/spx/registry"
	"dirpx.dev/spx/resolver"
	"dirpx.dev/spx/strategy"
)

// New creates and returns a new instance of an apis.Builder.
func New() apis.Builder {
	return &builder{}
}

// builder is an empty struct to be used as a receiver for builder methods.
type builder struct{}

// BuildTable builds and returns a new apis.Table based on the provided
// configuration. If a previous table is provided, its factories are copied
// into the new one.
func (b *builder) BuildTable(cfg apis.Config, prev apis.Table) apis.Table {
	ntab := registry.New(cfg)
	if prev != nil {
		for _, f := range prev.Entries() {
			_ = ntab.Register(f)
		}
	}
	return ntab
}

// BuildResolver builds and returns a new apis.Resolver over table.
// Identifiers come from, in order: apis.Namer, an earlier registration
// in table, and finally the Go type itself.
func (b *builder) BuildResolver(_ apis.Config, table apis.Table, _ apis.Resolver) apis.Resolver {
	return resolver.New(
		strategy.NewNamerStrategy(),
		strategy.NewTableStrategy(table),
		strategy.NewReflectStrategy(),
	)
}
