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
	"log/slog"
	"reflect"
	"sync"

	"dirpx.dev/spx/apis"
	"dirpx.dev/spx/builder"
	"dirpx.dev/spx/config"
	"dirpx.dev/spx/instance"
)

// Registry owns one loader per capability type together with everything
// those loaders need: configuration, the implementation table, the
// identity resolver, resource sources and the instance store.
//
// All fields except loaders are fixed at construction. Loaders are created
// on first request and live as long as the Registry.
type Registry struct {
	// cfg is the registry configuration.
	cfg apis.Config
	// bld built table and res.
	bld apis.Builder
	// table resolves implementation identifiers.
	table apis.Table
	// res resolves identifiers of Go types.
	res apis.Resolver
	// sources locates extension resources; may be nil.
	sources apis.SourceProvider
	// store holds constructed instances.
	store *instance.Store
	// base is the logger given by the caller; log adds the subsystem.
	base *slog.Logger
	log  *slog.Logger
	// loaders maps a capability reflect.Type to its *Loader[T].
	loaders sync.Map
}

// Option configures a Registry.
type Option func(*settings)

// settings collects Options before a Registry is built.
type settings struct {
	cfg     apis.Config
	bld     apis.Builder
	table   apis.Table
	sources apis.SourceProvider
	store   *instance.Store
	log     *slog.Logger
	// newBld is set when WithBuilder replaced the builder.
	newBld bool
}

// WithConfig sets the registry configuration.
func WithConfig(cfg apis.Config) Option {
	return func(s *settings) { s.cfg = cfg }
}

// WithBuilder sets the builder used to compose the table and resolver.
func WithBuilder(b apis.Builder) Option {
	return func(s *settings) {
		s.bld = b
		s.newBld = true
	}
}

// WithTable uses table as is instead of building one.
func WithTable(table apis.Table) Option {
	return func(s *settings) { s.table = table }
}

// WithSources sets the resource provider.
func WithSources(p apis.SourceProvider) Option {
	return func(s *settings) { s.sources = p }
}

// WithStore sets the instance store. The default is instance.Default().
func WithStore(store *instance.Store) Option {
	return func(s *settings) { s.store = store }
}

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(s *settings) { s.log = l }
}

// New builds a Registry.
func New(opts ...Option) *Registry {
	s := settings{cfg: config.DefaultConfig()}
	for _, opt := range opts {
		opt(&s)
	}
	return s.build(nil)
}

// derive builds a Registry from r with opts applied on top. The table is
// shared when configuration and builder are unchanged, migrated otherwise.
// The new Registry starts with no loaders.
func (r *Registry) derive(opts ...Option) *Registry {
	s := settings{
		cfg:     r.cfg,
		bld:     r.bld,
		sources: r.sources,
		store:   r.store,
		log:     r.base,
	}
	for _, opt := range opts {
		opt(&s)
	}
	return s.build(r)
}

// build assembles a Registry, migrating from prev when given.
func (s settings) build(prev *Registry) *Registry {
	cfg := config.Sanitize(s.cfg)
	bld := s.bld
	if bld == nil {
		bld = builder.New()
	}

	table := s.table
	if table == nil {
		switch {
		case prev == nil:
			table = bld.BuildTable(cfg, nil)
		case prev.cfg == cfg && !s.newBld:
			table = prev.table
		default:
			table = bld.BuildTable(cfg, prev.table)
		}
	}
	if table == nil {
		panic(ErrNilTable)
	}

	var prevRes apis.Resolver
	if prev != nil {
		prevRes = prev.res
	}
	res := bld.BuildResolver(cfg, table, prevRes)
	if res == nil {
		panic(ErrNilResolver)
	}

	store := s.store
	if store == nil {
		store = instance.Default()
	}
	base := s.log
	if base == nil {
		base = slog.Default()
	}

	return &Registry{
		cfg:     cfg,
		bld:     bld,
		table:   table,
		res:     res,
		sources: s.sources,
		store:   store,
		base:    base,
		log:     base.With("subsystem", "spx"),
	}
}

// Config returns the registry configuration.
func (r *Registry) Config() apis.Config { return r.cfg }

// Table returns the implementation table.
func (r *Registry) Table() apis.Table { return r.table }

// Resolver returns the identity resolver.
func (r *Registry) Resolver() apis.Resolver { return r.res }

// Sources returns the resource provider, or nil.
func (r *Registry) Sources() apis.SourceProvider { return r.sources }

// Store returns the instance store.
func (r *Registry) Store() *instance.Store { return r.store }

// IDOf returns the identifier r gives to v's type.
func (r *Registry) IDOf(v any) string { return r.res.Resolve(v, r.cfg) }

// IDOfType returns the identifier r gives to t.
func (r *Registry) IDOfType(t reflect.Type) string { return r.res.ResolveType(t, r.cfg) }

// LoaderOf returns the loader for capability T in r, creating it on first
// use. Concurrent first callers all receive the same Loader.
//
// T must be an interface type declared with Declare; otherwise a
// *ConfigurationError is returned and nothing is cached.
func LoaderOf[T any](r *Registry) (*Loader[T], error) {
	if r == nil {
		r = Default()
	}
	t := reflect.TypeFor[T]()

	// Fast path: only validated capabilities are ever stored.
	if l, ok := r.loaders.Load(t); ok {
		return l.(*Loader[T]), nil
	}

	if t.Kind() != reflect.Interface {
		return nil, &ConfigurationError{Capability: t.String(), Reason: "is not an interface"}
	}
	m, ok := MarkerOf(t)
	if !ok {
		return nil, &ConfigurationError{Capability: t.String(), Reason: "is not an extension, missing capability marker"}
	}

	// Racing callers each build a candidate; only one is retained.
	l, loaded := r.loaders.LoadOrStore(t, newLoader[T](r, t, m))
	if !loaded {
		r.log.Debug("Extension loader created.", "capability", l.(*Loader[T]).ID())
	}
	return l.(*Loader[T]), nil
}
