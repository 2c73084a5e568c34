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
	"errors"
	"fmt"
	"path"
	"reflect"
	"slices"
	"sync"

	"github.com/sahilm/fuzzy"

	"dirpx.dev/spx/apis"
	"dirpx.dev/spx/discovery"
	"dirpx.dev/spx/instance"
	"dirpx.dev/spx/lazy"
)

// DefaultAlias is the extension name that stands for the declared default.
const DefaultAlias = "true"

// Loader resolves named implementations of one capability T.
//
// Discovery runs once, on first use. Each name is resolved once; every
// later Get for that name returns the same instance. Instances are shared
// with every other name and loader that maps to the same implementation
// identifier through the registry's instance store.
type Loader[T any] struct {
	// reg is the owning registry.
	reg *Registry
	// capability is the interface type T.
	capability reflect.Type
	// marker is the declared capability marker.
	marker apis.Marker
	// id is the capability identifier; key is its resource key.
	id  string
	key string
	// discovered holds the discovery result once published.
	discovered lazy.Cell[*discovery.Result]
	// resolved maps an extension name to a *lazy.Cell[T].
	resolved sync.Map
}

// newLoader builds an unpublished loader for t.
func newLoader[T any](r *Registry, t reflect.Type, m apis.Marker) *Loader[T] {
	id := m.ID
	if id == "" {
		id = r.res.ResolveType(t, r.cfg)
	}
	if id == "" {
		id = t.String()
	}
	return &Loader[T]{
		reg:        r,
		capability: t,
		marker:     m,
		id:         id,
		key:        path.Join(r.cfg.Directory, id),
	}
}

// Capability returns the capability interface type.
func (l *Loader[T]) Capability() reflect.Type { return l.capability }

// ID returns the capability identifier.
func (l *Loader[T]) ID() string { return l.id }

// Key returns the resource key searched during discovery.
func (l *Loader[T]) Key() string { return l.key }

// Get returns the implementation registered under name.
//
// The empty name is ErrInvalidArgument. DefaultAlias returns the default
// extension; with no default declared it is a *NotFoundError wrapping
// ErrNoDefault, since Default reports absence through ok instead. A name with no usable mapping yields a *NotFoundError; a
// failed construction yields an *InstantiationError and is retried on the
// next call.
func (l *Loader[T]) Get(name string) (T, error) {
	var zero T
	if name == "" {
		return zero, fmt.Errorf("%w: extension name == \"\" (capability: %s)", ErrInvalidArgument, l.id)
	}
	if name == DefaultAlias {
		v, ok, err := l.Default()
		if err != nil {
			return zero, err
		}
		if !ok {
			return zero, &NotFoundError{Capability: l.id, Name: name, Err: ErrNoDefault}
		}
		return v, nil
	}
	return l.cell(name).Do(func() (T, error) {
		return l.create(name)
	})
}

// MustGet is like Get but panics on error.
func (l *Loader[T]) MustGet(name string) T {
	v, err := l.Get(name)
	if err != nil {
		panic(err)
	}
	return v
}

// Default returns the declared default extension. ok is false, with a nil
// error, when no default is declared or the declared default is
// DefaultAlias itself.
func (l *Loader[T]) Default() (v T, ok bool, err error) {
	res, err := l.discover()
	if err != nil {
		return v, false, err
	}
	if res.Default == "" || res.Default == DefaultAlias {
		return v, false, nil
	}
	v, err = l.Get(res.Default)
	if err != nil {
		return v, false, err
	}
	return v, true, nil
}

// DefaultName returns the parsed default extension name, or "".
func (l *Loader[T]) DefaultName() (string, error) {
	res, err := l.discover()
	if err != nil {
		return "", err
	}
	return res.Default, nil
}

// Names returns every discovered extension name in lexicographic order.
func (l *Loader[T]) Names() ([]string, error) {
	res, err := l.discover()
	if err != nil {
		return nil, err
	}
	return res.Names(), nil
}

// Has reports whether name is mapped to a usable implementation.
func (l *Loader[T]) Has(name string) (bool, error) {
	res, err := l.discover()
	if err != nil {
		return false, err
	}
	_, ok := res.Lookup(name)
	return ok, nil
}

// Failures returns the discovery failures in first-recorded order.
func (l *Loader[T]) Failures() ([]Failure, error) {
	res, err := l.discover()
	if err != nil {
		return nil, err
	}
	return slices.Clone(res.Failures), nil
}

// SourceErrors returns the errors of resources that could not be located
// or read. They never fail discovery.
func (l *Loader[T]) SourceErrors() ([]error, error) {
	res, err := l.discover()
	if err != nil {
		return nil, err
	}
	return slices.Clone(res.SourceErrors), nil
}

// cell returns the cell for name, inserting an empty one if absent.
// Racing callers may allocate a candidate each; only one is retained.
func (l *Loader[T]) cell(name string) *lazy.Cell[T] {
	if c, ok := l.resolved.Load(name); ok {
		return c.(*lazy.Cell[T])
	}
	c, _ := l.resolved.LoadOrStore(name, new(lazy.Cell[T]))
	return c.(*lazy.Cell[T])
}

// create resolves name to an instance. It runs inside the name's cell.
func (l *Loader[T]) create(name string) (T, error) {
	var zero T
	res, err := l.discover()
	if err != nil {
		return zero, err
	}
	m, ok := res.Lookup(name)
	if !ok {
		return zero, l.notFound(name, res)
	}

	f := m.Factory
	v, err := l.reg.store.GetOrCreate(instance.Key{ID: f.ID, Type: f.Type}, f.New)
	if err != nil {
		return zero, &InstantiationError{Capability: l.id, Name: name, ID: f.ID, Err: err}
	}
	t, ok := v.(T)
	if !ok {
		return zero, &InstantiationError{
			Capability: l.id,
			Name:       name,
			ID:         f.ID,
			Err:        fmt.Errorf("%T is not a subtype of %s", v, l.id),
		}
	}
	l.reg.log.Debug("Extension resolved.", "capability", l.id, "name", name, "implementation", f.ID, "source", m.Source)
	return t, nil
}

// discover runs discovery once. A failed run is not cached.
func (l *Loader[T]) discover() (*discovery.Result, error) {
	return l.discovered.Do(func() (*discovery.Result, error) {
		res, err := discovery.Discover(discovery.Request{
			Capability:      l.capability,
			CapabilityID:    l.id,
			DeclaredDefault: l.marker.Default,
			Key:             l.key,
			Sources:         l.reg.sources,
			Table:           l.reg.table,
			Config:          l.reg.cfg,
			Logger:          l.reg.log,
		})
		if err != nil {
			if errors.Is(err, discovery.ErrMultipleDefaults) {
				return nil, &ConfigurationError{Capability: l.id, Reason: "declares an invalid default", Err: err}
			}
			return nil, err
		}
		return res, nil
	})
}

// notFound builds the error for a name missing from res.
func (l *Loader[T]) notFound(name string, res *discovery.Result) error {
	e := &NotFoundError{Capability: l.id, Name: name}
	if f, ok := res.FindFailure(name, l.reg.cfg.StrictFailureMatch); ok {
		e.Cause = f
		return e
	}
	e.Failures = slices.Clone(res.Failures)
	e.Suggestions = suggest(name, res.Names(), l.reg.cfg.MaxSuggestions)
	return e
}

// suggest returns up to limit names fuzzy-matching name, best first.
func suggest(name string, names []string, limit int) []string {
	if limit <= 0 || len(names) == 0 {
		return nil
	}
	matches := fuzzy.Find(name, names)
	out := make([]string, 0, min(limit, len(matches)))
	for _, m := range matches {
		if len(out) == limit {
			break
		}
		out = append(out, m.Str)
	}
	return out
}
