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
	"sync"

	"dirpx.dev/spx/apis"
	uref "dirpx.dev/spx/utils/reflect"
)

// NewReflectStrategy creates an apis.Strategy that derives identifiers via
// reflection using utils/reflect.Normalize and memoization.
func NewReflectStrategy() apis.Strategy {
	return reflectStrategy{}
}

// reflectStrategy is the universal fallback that computes a stable
// "<pkgpath>.<Type>" identifier. It unwraps unnamed pointers via Normalize
// and strips generic instantiation parameters.
type reflectStrategy struct{}

// Ensure reflectStrategy implements apis.Strategy.
var _ apis.Strategy = (*reflectStrategy)(nil)

// cacheKey ensures memoization respects all config knobs that affect resolution.
type cacheKey struct {
	t         reflect.Type
	maxUnwrap int16
}

// typeIDCache caches resolved identifiers by (type, config knobs).
var typeIDCache sync.Map // key: cacheKey, val: string

// TryResolve computes the identifier for v's type.
func (reflectStrategy) TryResolve(v any, cfg apis.Config) (string, bool) {
	if v == nil {
		return "", false
	}
	id := byType(reflect.TypeOf(v), cfg)
	return id, id != ""
}

// TryResolveType computes the identifier for t.
func (reflectStrategy) TryResolveType(t reflect.Type, cfg apis.Config) (string, bool) {
	if t == nil {
		return "", false
	}
	id := byType(t, cfg)
	return id, id != ""
}

// byType resolves the identifier for t with memoization.
func byType(t reflect.Type, cfg apis.Config) string {
	key := cacheKey{
		t:         t,
		maxUnwrap: int16(cfg.MaxUnwrap),
	}
	if v, ok := typeIDCache.Load(key); ok {
		return v.(string)
	}
	base, err := uref.Normalize(t, cfg)
	if err != nil || base == nil {
		typeIDCache.Store(key, "")
		return ""
	}
	id := uref.FullName(base)
	typeIDCache.Store(key, id)
	return id
}
