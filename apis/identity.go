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

package apis

import (
	"reflect"
)

// Namer lets an implementation type pin its own identifier instead of
// the one derived from its Go type. ExtensionName is called on a zero
// value and must not depend on instance state.
type Namer interface {
	ExtensionName() string
}

// Strategy is one step of identity resolution. Implementations answer
// (id, true) when they know the identifier and ("", false) to let the
// next step try.
type Strategy interface {
	// TryResolve answers for the dynamic type of v.
	TryResolve(v any, cfg Config) (id string, handled bool)
	// TryResolveType answers for t without needing a value.
	TryResolveType(t reflect.Type, cfg Config) (id string, handled bool)
}

// Resolver turns Go types into textual identifiers: the capability ids
// used in resource keys and the implementation ids named by resource
// entries. An empty result means no identifier could be derived.
//
// Implementations must be safe for concurrent use.
type Resolver interface {
	Resolve(v any, cfg Config) string
	ResolveType(t reflect.Type, cfg Config) string
}
