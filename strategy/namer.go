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

package strategy

import (
	"reflect"

	"dirpx.dev/spx/apis"
)

var namerType = reflect.TypeFor[apis.Namer]()

// NewNamerStrategy creates an apis.Strategy that uses apis.Namer.
func NewNamerStrategy() apis.Strategy {
	return &namerStrategy{}
}

// namerStrategy is a zero-cost fast path: if v implements apis.Namer,
// return its ExtensionName() and stop the chain.
type namerStrategy struct{}

// Ensure namerStrategy implements apis.Strategy.
var _ apis.Strategy = (*namerStrategy)(nil)

// TryResolve checks if v implements apis.Namer and returns its ExtensionName().
func (*namerStrategy) TryResolve(v any, _ apis.Config) (string, bool) {
	if v == nil {
		return "", false
	}
	if n, ok := v.(apis.Namer); ok {
		if id := n.ExtensionName(); id != "" {
			return id, true
		}
	}
	return "", false
}

// TryResolveType asks a zero value of t for its ExtensionName().
func (*namerStrategy) TryResolveType(t reflect.Type, _ apis.Config) (string, bool) {
	if t == nil {
		return "", false
	}
	n, ok := zeroNamer(t)
	if !ok {
		return "", false
	}
	if id := n.ExtensionName(); id != "" {
		return id, true
	}
	return "", false
}

// zeroNamer builds a zero value of t (or *t) that implements apis.Namer.
// Pointer types get a non-nil pointer to a zero element.
func zeroNamer(t reflect.Type) (apis.Namer, bool) {
	switch {
	case t.Kind() == reflect.Interface:
		return nil, false
	case t.Kind() == reflect.Ptr && t.Implements(namerType):
		return reflect.New(t.Elem()).Interface().(apis.Namer), true
	case t.Implements(namerType):
		return reflect.Zero(t).Interface().(apis.Namer), true
	case reflect.PointerTo(t).Implements(namerType):
		return reflect.New(t).Interface().(apis.Namer), true
	default:
		return nil, false
	}
}
