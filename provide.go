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
	"fmt"
	"reflect"

	"dirpx.dev/spx/apis"
)

// ProvideOption configures an implementation registration.
type ProvideOption func(*provideSettings)

// provideSettings collects ProvideOptions.
type provideSettings struct {
	id string
}

// As sets the implementation identifier referenced by resource files.
// Without it the identifier is resolved from the type: an ExtensionName
// method, an existing table entry, or the "pkgpath.Name" of the type.
func As(id string) ProvideOption {
	return func(s *provideSettings) { s.id = id }
}

// Provide registers t in r's table. newFn builds one instance of t; a nil
// newFn constructs the zero value, or a new zero value for pointer types.
//
// Providing the same type under the same identifier again is a no-op.
// It returns the identifier the implementation was registered under.
func (r *Registry) Provide(t reflect.Type, newFn func() (any, error), opts ...ProvideOption) (string, error) {
	if t == nil {
		return "", fmt.Errorf("%w: nil implementation type", ErrInvalidArgument)
	}
	var s provideSettings
	for _, opt := range opts {
		opt(&s)
	}
	if newFn == nil {
		fn, err := zeroConstructor(t)
		if err != nil {
			return "", err
		}
		newFn = fn
	}

	id := s.id
	if id == "" {
		id = r.res.ResolveType(t, r.cfg)
	}
	if err := r.table.Register(apis.Factory{ID: id, Type: t, New: newFn}); err != nil {
		return "", err
	}
	r.log.Debug("Extension implementation registered.", "implementation", id, "type", t.String())
	return id, nil
}

// ProvideTo registers implementation type T in r with its zero-argument
// construction.
func ProvideTo[T any](r *Registry, opts ...ProvideOption) (string, error) {
	if r == nil {
		r = Default()
	}
	return r.Provide(reflect.TypeFor[T](), nil, opts...)
}

// Provide registers implementation type T in the default registry.
func Provide[T any](opts ...ProvideOption) (string, error) {
	return ProvideTo[T](Default(), opts...)
}

// MustProvide is like Provide but panics on error. Useful from init() blocks.
func MustProvide[T any](opts ...ProvideOption) string {
	id, err := Provide[T](opts...)
	if err != nil {
		panic(err)
	}
	return id
}

// ProvideFunc registers implementation type T in the default registry
// with fn as its constructor.
func ProvideFunc[T any](fn func() (T, error), opts ...ProvideOption) (string, error) {
	if fn == nil {
		return "", fmt.Errorf("%w: nil constructor", ErrInvalidArgument)
	}
	return Default().Provide(reflect.TypeFor[T](), func() (any, error) {
		return fn()
	}, opts...)
}

// zeroConstructor returns the default construction of t.
func zeroConstructor(t reflect.Type) (func() (any, error), error) {
	switch t.Kind() {
	case reflect.Interface:
		return nil, fmt.Errorf("%w: %s", ErrNotConstructible, t)
	case reflect.Pointer:
		elem := t.Elem()
		return func() (any, error) {
			return reflect.New(elem).Interface(), nil
		}, nil
	default:
		return func() (any, error) {
			return reflect.Zero(t).Interface(), nil
		}, nil
	}
}
