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

// Package instance holds constructed extension instances, one per
// implementation, no matter how many capabilities or names reach it.
package instance

import (
	"errors"
	"fmt"
	"reflect"
	"sync"

	"dirpx.dev/spx/lazy"
)

var (
	// ErrEmptyID is returned when an empty implementation identifier is provided.
	ErrEmptyID = errors.New("spx(instance): empty implementation id")
	// ErrNilConstructor is returned when no constructor is provided.
	ErrNilConstructor = errors.New("spx(instance): nil constructor")
	// ErrNilInstance is returned when a constructor returns a nil value
	// without an error.
	ErrNilInstance = errors.New("spx(instance): constructor returned nil")
)

// PanicError reports a constructor that panicked.
type PanicError struct {
	ID    string
	Value any
}

// Error implements error.
func (e *PanicError) Error() string {
	return fmt.Sprintf("spx(instance): constructor for %q panicked: %v", e.ID, e.Value)
}

// Key identifies one implementation. Registries sharing a Store may bind
// the same ID to different types; each pair gets its own instance.
type Key struct {
	ID   string
	Type reflect.Type
}

// String returns the identifier and the type, when known.
func (k Key) String() string {
	if k.Type == nil {
		return k.ID
	}
	return k.ID + "(" + k.Type.String() + ")"
}

// Store is a concurrency-safe map from implementation key to its single
// instance. The zero Store is ready to use.
type Store struct {
	// cells maps Key to *lazy.Cell[any].
	cells sync.Map
}

// NewStore returns an empty Store.
func NewStore() *Store {
	return &Store{}
}

// defaultStore is the process-wide store.
var defaultStore = NewStore()

// Default returns the process-wide Store.
func Default() *Store {
	return defaultStore
}

// GetOrCreate returns the instance for k, constructing it with newFn on
// first use. Concurrent first callers for the same key run newFn at most
// once and all receive the same instance. A failed construction is not
// cached; a later call retries.
func (s *Store) GetOrCreate(k Key, newFn func() (any, error)) (any, error) {
	if k.ID == "" {
		return nil, ErrEmptyID
	}
	if newFn == nil {
		return nil, ErrNilConstructor
	}
	return s.cell(k).Do(func() (any, error) {
		return construct(k.ID, newFn)
	})
}

// Lookup returns the instance for k if it has been constructed.
func (s *Store) Lookup(k Key) (any, bool) {
	c, ok := s.cells.Load(k)
	if !ok {
		return nil, false
	}
	return c.(*lazy.Cell[any]).Get()
}

// Len returns the number of constructed instances.
func (s *Store) Len() int {
	n := 0
	s.cells.Range(func(_, c any) bool {
		if _, ok := c.(*lazy.Cell[any]).Get(); ok {
			n++
		}
		return true
	})
	return n
}

// cell returns the cell for k, inserting an empty one if absent.
// Racing callers may allocate a candidate each; only one is retained.
func (s *Store) cell(k Key) *lazy.Cell[any] {
	if c, ok := s.cells.Load(k); ok {
		return c.(*lazy.Cell[any])
	}
	c, _ := s.cells.LoadOrStore(k, new(lazy.Cell[any]))
	return c.(*lazy.Cell[any])
}

// construct runs newFn, turning a panic into a PanicError.
func construct(id string, newFn func() (any, error)) (v any, err error) {
	defer func() {
		if r := recover(); r != nil {
			v, err = nil, &PanicError{ID: id, Value: r}
		}
	}()
	v, err = newFn()
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, ErrNilInstance
	}
	return v, nil
}
