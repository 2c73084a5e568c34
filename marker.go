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
	"reflect"
	"sync"

	"dirpx.dev/spx/apis"
)

var (
	// markersMu serializes marker declarations.
	markersMu sync.Mutex
	// markers maps a capability type to its marker.
	markers sync.Map // map[reflect.Type]apis.Marker
)

// MarkerOption configures a capability marker.
type MarkerOption func(*apis.Marker)

// WithDefault sets the default extension name of a capability.
func WithDefault(name string) MarkerOption {
	return func(m *apis.Marker) {
		m.Default = name
	}
}

// WithID pins the capability identifier used in resource keys.
func WithID(id string) MarkerOption {
	return func(m *apis.Marker) {
		m.ID = id
	}
}

// Declare marks T as a capability. Markers are process-wide and fixed:
// declaring T again with the same marker is a no-op, with a different one
// an error. T is validated when its loader is requested, not here.
func Declare[T any](opts ...MarkerOption) error {
	return DeclareType(reflect.TypeFor[T](), opts...)
}

// MustDeclare is like Declare but panics on error. Useful from init() blocks.
func MustDeclare[T any](opts ...MarkerOption) {
	if err := Declare[T](opts...); err != nil {
		panic(err)
	}
}

// DeclareType marks t as a capability.
func DeclareType(t reflect.Type, opts ...MarkerOption) error {
	if t == nil {
		return &ConfigurationError{Capability: "<nil>", Reason: "is nil"}
	}
	var m apis.Marker
	for _, opt := range opts {
		opt(&m)
	}

	// Fast read path.
	if done, err := checkMarker(t, m); done {
		return err
	}

	markersMu.Lock()
	defer markersMu.Unlock()

	// Re-check under lock in case another goroutine declared meanwhile.
	if done, err := checkMarker(t, m); done {
		return err
	}
	markers.Store(t, m)
	return nil
}

// checkMarker reports whether t already carries a marker and whether it
// conflicts with m.
func checkMarker(t reflect.Type, m apis.Marker) (bool, error) {
	old, ok := markers.Load(t)
	if !ok {
		return false, nil
	}
	if old.(apis.Marker) == m {
		return true, nil
	}
	return true, &ConfigurationError{Capability: t.String(), Reason: "is already declared with a different marker"}
}

// MarkerOf returns the marker declared for t.
func MarkerOf(t reflect.Type) (apis.Marker, bool) {
	if t == nil {
		return apis.Marker{}, false
	}
	m, ok := markers.Load(t)
	if !ok {
		return apis.Marker{}, false
	}
	return m.(apis.Marker), true
}
