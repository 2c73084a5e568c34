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

package reflect

import (
	"errors"
	"reflect"
	"strings"

	"dirpx.dev/spx/apis"
	"dirpx.dev/spx/config"
)

var (
	// ErrReflectNilType is returned when a nil reflect.Type is provided.
	ErrReflectNilType = errors.New("reflect: nil reflect.Type provided")
	// ErrReflectTypeNotNamed indicates that the provided type (after unwrapping
	// pointers) is not a named type (e.g., anonymous struct, func, interface{}).
	ErrReflectTypeNotNamed = errors.New("reflect: type has no name")
)

// Normalize unwraps unnamed pointers according to cfg.MaxUnwrap and returns
// the nearest named type, or an error if none is found.
//
// Unwrapping policy:
//   - named type (including named pointers, maps, funcs) -> returned as is
//   - unnamed ptr -> Elem()
//   - anything else unnamed -> ErrReflectTypeNotNamed
//
// If MaxUnwrap <= 0, DefaultMaxUnwrap is used.
func Normalize(t reflect.Type, cfg apis.Config) (reflect.Type, error) {
	if t == nil {
		return nil, ErrReflectNilType
	}
	maxUnwrap := cfg.MaxUnwrap
	if maxUnwrap <= 0 {
		maxUnwrap = config.DefaultMaxUnwrap
	}

	for i := 0; i <= maxUnwrap; i++ {
		if t.Name() != "" {
			return t, nil
		}
		if t.Kind() != reflect.Ptr {
			return nil, ErrReflectTypeNotNamed
		}
		t = t.Elem()
	}
	return nil, ErrReflectTypeNotNamed
}

// FullName returns "<pkgpath>.<Name>" for a named type with generic
// instantiation parameters stripped: "T[int,string]" -> "T".
// Predeclared types yield their bare name; unnamed types yield "".
func FullName(t reflect.Type) string {
	if t == nil || t.Name() == "" {
		return ""
	}
	name := StripTypeParams(t.Name())
	if p := t.PkgPath(); p != "" {
		return p + "." + name
	}
	return name
}

// StripTypeParams removes generic type instantiation suffix: "T[int,string]" -> "T".
func StripTypeParams(s string) string {
	if i := strings.IndexByte(s, '['); i >= 0 {
		return s[:i]
	}
	return s
}
