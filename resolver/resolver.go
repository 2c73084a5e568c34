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

// Package resolver chains identity strategies into an apis.Resolver.
package resolver

import (
	"reflect"

	"dirpx.dev/spx/apis"
)

// New returns a Resolver asking strategies in order; the first that
// handles a type wins. Nil strategies are dropped.
func New(strategies ...apis.Strategy) apis.Resolver {
	c := make(chain, 0, len(strategies))
	for _, s := range strategies {
		if s != nil {
			c = append(c, s)
		}
	}
	return c
}

// chain is immutable after New.
type chain []apis.Strategy

// Resolve implements apis.Resolver.
func (c chain) Resolve(v any, cfg apis.Config) string {
	if v == nil {
		return ""
	}
	return c.first(func(s apis.Strategy) (string, bool) { return s.TryResolve(v, cfg) })
}

// ResolveType implements apis.Resolver.
func (c chain) ResolveType(t reflect.Type, cfg apis.Config) string {
	if t == nil {
		return ""
	}
	return c.first(func(s apis.Strategy) (string, bool) { return s.TryResolveType(t, cfg) })
}

// first returns the answer of the first strategy that handles try.
func (c chain) first(try func(apis.Strategy) (string, bool)) string {
	for _, s := range c {
		if id, ok := try(s); ok && id != "" {
			return id
		}
	}
	return ""
}
