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

package strategy_test

import (
	"reflect"
	"runtime"
	"sync"
	"testing"

	"dirpx.dev/spx/apis"
	"dirpx.dev/spx/strategy"
)

type reflectTarget struct{}

type box[T any] struct{ v T }

const pkg = "dirpx.dev/spx/strategy_test"

func TestReflectStrategy(t *testing.T) {
	s := strategy.NewReflectStrategy()
	cfg := apis.Config{MaxUnwrap: 8}

	tests := []struct {
		name string
		typ  reflect.Type
		want string
		ok   bool
	}{
		{"named", reflect.TypeOf(reflectTarget{}), pkg + ".reflectTarget", true},
		{"pointer", reflect.TypeOf(&reflectTarget{}), pkg + ".reflectTarget", true},
		{"generic", reflect.TypeOf(box[string]{}), pkg + ".box", true},
		{"builtin", reflect.TypeOf(0), "int", true},
		{"slice", reflect.TypeOf([]reflectTarget{}), "", false},
		{"anonymous", reflect.TypeOf(struct{}{}), "", false},
		{"nil", nil, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := s.TryResolveType(tt.typ, cfg)
			if got != tt.want || ok != tt.ok {
				t.Fatalf("TryResolveType(%v): got (%q,%v), want (%q,%v)", tt.typ, got, ok, tt.want, tt.ok)
			}
		})
	}

	if got, ok := s.TryResolve(&reflectTarget{}, cfg); !ok || got != pkg+".reflectTarget" {
		t.Fatalf("TryResolve(&reflectTarget{}): got (%q,%v)", got, ok)
	}
	if got, ok := s.TryResolve(nil, cfg); ok {
		t.Fatalf("TryResolve(nil): got (%q,%v), want ('',false)", got, ok)
	}
}

func TestReflectStrategy_MaxUnwrapIsPartOfCacheKey(t *testing.T) {
	s := strategy.NewReflectStrategy()
	pp := reflect.TypeOf((**reflectTarget)(nil))

	if got, ok := s.TryResolveType(pp, apis.Config{MaxUnwrap: 1}); ok {
		t.Fatalf("MaxUnwrap=1: got (%q,%v), want ('',false)", got, ok)
	}
	if got, ok := s.TryResolveType(pp, apis.Config{MaxUnwrap: 2}); !ok || got != pkg+".reflectTarget" {
		t.Fatalf("MaxUnwrap=2: got (%q,%v)", got, ok)
	}
}

// TestReflectStrategy_Concurrent verifies memoization is race-free.
func TestReflectStrategy_Concurrent(t *testing.T) {
	s := strategy.NewReflectStrategy()
	cfg := apis.Config{MaxUnwrap: 8}
	types := []reflect.Type{
		reflect.TypeOf(reflectTarget{}), reflect.TypeOf(&reflectTarget{}),
		reflect.TypeOf(box[int]{}), reflect.TypeOf(namedType{}),
	}

	wg := sync.WaitGroup{}
	workers := runtime.GOMAXPROCS(0) * 4
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 2000; i++ {
				tt := types[(i+w)%len(types)]
				if got, ok := s.TryResolveType(tt, cfg); !ok || got == "" {
					t.Errorf("TryResolveType(%v): got (%q,%v)", tt, got, ok)
					return
				}
			}
		}(w)
	}
	wg.Wait()
}
