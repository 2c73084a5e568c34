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

package registry

import (
	"errors"
	"reflect"
	"sort"
	"sync"

	"dirpx.dev/spx/apis"
	"dirpx.dev/spx/config"
	uref "dirpx.dev/spx/utils/reflect"
)

var (
	// ErrNilType is returned when a factory without a reflect.Type is provided.
	ErrNilType = errors.New("spx(registry): nil reflect.Type provided")
	// ErrEmptyID is returned when an empty identifier is provided.
	ErrEmptyID = errors.New("spx(registry): empty implementation id provided")
	// ErrNilConstructor is returned when a factory without a constructor is provided.
	ErrNilConstructor = errors.New("spx(registry): nil constructor provided")
	// ErrConflictingRegistration indicates an attempt to re-register an id
	// with a different type, or a type under a different id.
	ErrConflictingRegistration = errors.New("spx(registry): conflicting implementation registration")
)

// New constructs a Table that normalizes implementation types according to cfg.
// Only MaxUnwrap is used here.
func New(cfg apis.Config) apis.Table {
	if cfg.MaxUnwrap <= 0 {
		cfg.MaxUnwrap = config.DefaultMaxUnwrap
	}
	return &table{cfg: cfg}
}

// table is a simple Table implementation backed by sync.Map.
type table struct {
	// cfg is the configuration used for type normalization.
	cfg apis.Config
	// mu guards write-side consistency and counter
	mu sync.Mutex
	// byID maps implementation id to its factory.
	byID sync.Map // map[string]apis.Factory
	// byType maps the normalized implementation type to its id.
	byType sync.Map // map[reflect.Type]string
	// count tracks the number of registered factories.
	count int
}

// Register adds f to the table.
// It is idempotent for the same (id, type) pair.
func (r *table) Register(f apis.Factory) error {
	// Validate inputs early.
	if f.Type == nil {
		return ErrNilType
	}
	if f.ID == "" {
		return ErrEmptyID
	}
	if f.New == nil {
		return ErrNilConstructor
	}

	// Normalize to the nearest named type according to r.cfg.
	b, err := uref.Normalize(f.Type, r.cfg)
	if err != nil {
		return err
	}

	// Fast read path: idempotency / conflict check without locking.
	if done, err := r.check(f, b); done {
		return err
	}

	// Write path: guard with a mutex to keep both indexes and the counter
	// consistent.
	r.mu.Lock()
	defer r.mu.Unlock()

	// Re-check under lock in case another goroutine stored meanwhile.
	if done, err := r.check(f, b); done {
		return err
	}

	r.byID.Store(f.ID, f)
	r.byType.Store(b, f.ID)
	r.count++
	return nil
}

// check reports whether f (normalized to b) is already decided: an
// idempotent re-registration (nil error) or a conflict.
func (r *table) check(f apis.Factory, b reflect.Type) (bool, error) {
	if old, ok := r.byID.Load(f.ID); ok {
		if old.(apis.Factory).Type == f.Type {
			return true, nil
		}
		return true, ErrConflictingRegistration
	}
	if _, ok := r.byType.Load(b); ok {
		return true, ErrConflictingRegistration
	}
	return false, nil
}

// Lookup returns the factory registered under id.
func (r *table) Lookup(id string) (apis.Factory, bool) {
	if v, ok := r.byID.Load(id); ok {
		return v.(apis.Factory), true
	}
	return apis.Factory{}, false
}

// LookupType returns the id registered for the nearest named type of t.
func (r *table) LookupType(t reflect.Type) (string, bool) {
	if t == nil {
		return "", false
	}
	nt, err := uref.Normalize(t, r.cfg)
	if err != nil {
		return "", false
	}
	if v, ok := r.byType.Load(nt); ok {
		return v.(string), true
	}
	return "", false
}

// Entries returns a snapshot sorted by id.
func (r *table) Entries() []apis.Factory {
	entries := make([]apis.Factory, 0, r.Count())
	r.byID.Range(func(_, value any) bool {
		entries = append(entries, value.(apis.Factory))
		return true
	})
	sort.Slice(entries, func(i, j int) bool { return entries[i].ID < entries[j].ID })
	return entries
}

// Count returns the number of registered factories.
func (r *table) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.count
}

// Reset clears all registered factories.
func (r *table) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID.Clear()
	r.byType.Clear()
	r.count = 0
}
