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

package spx

import (
	"sync"
	"sync/atomic"

	"dirpx.dev/spx/apis"
	"dirpx.dev/spx/source"
)

// init publishes the default registry.
func init() {
	st.Store(New())
}

var (
	// buildMu serializes replacements of the default registry.
	buildMu sync.Mutex
	// st holds the current default registry.
	st atomic.Pointer[Registry]
)

// Default returns the process-wide registry.
func Default() *Registry {
	return st.Load()
}

// SetDefault replaces the process-wide registry. A nil r is ignored.
// Loaders obtained from the previous registry keep working against it.
func SetDefault(r *Registry) {
	if r == nil {
		return
	}
	buildMu.Lock()
	defer buildMu.Unlock()
	st.Store(r)
}

// Config returns the configuration of the default registry.
func Config() apis.Config {
	return st.Load().cfg
}

// SetConfig rebuilds the default registry with cfg.
//
// Registered implementations are migrated to the new table. Loaders start
// fresh: discovery and name resolution run again on first use. Constructed
// instances are kept in the instance store.
func SetConfig(cfg apis.Config) {
	replace(WithConfig(cfg))
}

// SetSources rebuilds the default registry with p as its resource provider.
func SetSources(p apis.SourceProvider) {
	replace(WithSources(p))
}

// AddSources rebuilds the default registry with p searched after the
// current providers. Later sources override earlier ones per name.
func AddSources(p ...apis.SourceProvider) {
	if len(p) == 0 {
		return
	}
	buildMu.Lock()
	defer buildMu.Unlock()

	old := st.Load()
	next := p
	if old.sources != nil {
		next = append([]apis.SourceProvider{old.sources}, p...)
	}
	st.Store(old.derive(WithSources(source.Chain(next...))))
}

// replace derives a new default registry from the current one.
func replace(opts ...Option) {
	buildMu.Lock()
	defer buildMu.Unlock()
	st.Store(st.Load().derive(opts...))
}

// Load returns the loader for capability T in the default registry.
func Load[T any]() (*Loader[T], error) {
	return LoaderOf[T](Default())
}

// MustLoad is like Load but panics on error.
func MustLoad[T any]() *Loader[T] {
	l, err := Load[T]()
	if err != nil {
		panic(err)
	}
	return l
}

// IDOf returns the identifier the default registry gives to v's type.
func IDOf(v any) string {
	return Default().IDOf(v)
}
