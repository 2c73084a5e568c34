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

package registry_test

import (
	"reflect"
	"runtime"
	"sync"
	"testing"

	"dirpx.dev/spx/apis"
	"dirpx.dev/spx/config"
	"dirpx.dev/spx/registry"
)

// A few named types to avoid anonymous/unnamed pitfalls.
type T0 struct{}
type T1 struct{}
type T2 struct{}
type T3 struct{}
type T4 struct{}
type T5 struct{}
type T6 struct{}
type T7 struct{}
type T8 struct{}
type T9 struct{}

// TestConcurrentRegisterAndLookup verifies that Register/Lookup/Entries/Count
// are race-free and consistent under concurrent use.
func TestConcurrentRegisterAndLookup(t *testing.T) {
	tab := registry.New(config.DefaultConfig())

	types := []reflect.Type{
		reflect.TypeOf(&T0{}), reflect.TypeOf(&T1{}), reflect.TypeOf(&T2{}),
		reflect.TypeOf(&T3{}), reflect.TypeOf(&T4{}), reflect.TypeOf(&T5{}),
		reflect.TypeOf(&T6{}), reflect.TypeOf(&T7{}), reflect.TypeOf(&T8{}),
		reflect.TypeOf(&T9{}),
	}
	ids := []string{"T0", "T1", "T2", "T3", "T4", "T5", "T6", "T7", "T8", "T9"}

	// Register once (sequential) to establish baseline.
	for i, tt := range types {
		if err := tab.Register(factory(ids[i], tt)); err != nil {
			t.Fatalf("register %s: %v", tt, err)
		}
	}

	// Hammer with concurrent lookups and idempotent re-registrations.
	wg := sync.WaitGroup{}
	workers := runtime.GOMAXPROCS(0) * 4

	// Readers
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for i := 0; i < 5000; i++ {
				j := i % len(types)
				if f, ok := tab.Lookup(ids[j]); !ok || f.Type != types[j] {
					t.Errorf("lookup failed for %s: ok=%v got=%v", ids[j], ok, f.Type)
					return
				}
				if id, ok := tab.LookupType(types[j]); !ok || id != ids[j] {
					t.Errorf("lookup type failed for %v: ok=%v got=%q", types[j], ok, id)
					return
				}
				_ = tab.Count()
				_ = tab.Entries()
			}
		}()
	}

	// Writers (idempotent re-register)
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func(id int) {
			defer wg.Done()
			for i := 0; i < 1000; i++ {
				j := (i + id) % len(types)
				_ = tab.Register(factory(ids[j], types[j])) // must be safe & idempotent
			}
		}(w)
	}

	wg.Wait()

	// Final consistency checks.
	if tab.Count() != len(types) {
		t.Fatalf("count mismatch: got %d want %d", tab.Count(), len(types))
	}
	got := map[string]reflect.Type{}
	for _, e := range tab.Entries() {
		got[e.ID] = e.Type
	}
	for i, tt := range types {
		if got[ids[i]] != tt {
			t.Fatalf("entry mismatch for %s: got %v want %v", ids[i], got[ids[i]], tt)
		}
	}
}

// TestConcurrentFirstRegister verifies that racing first registrations of
// one type under different ids leave exactly one winner.
func TestConcurrentFirstRegister(t *testing.T) {
	tab := registry.New(config.DefaultConfig())
	typ := reflect.TypeOf(&T8{})

	workers := runtime.GOMAXPROCS(0) * 4
	errs := make([]error, workers)
	wg := sync.WaitGroup{}
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func(w int) {
			defer wg.Done()
			errs[w] = tab.Register(factory(string(rune('a'+w%26))+"-"+typ.String(), typ))
		}(w)
	}
	wg.Wait()

	if tab.Count() != 1 {
		t.Fatalf("count: got %d want 1", tab.Count())
	}
	ok := 0
	for _, err := range errs {
		if err == nil {
			ok++
		}
	}
	// Workers sharing the winner's id re-register idempotently.
	if ok == 0 {
		t.Fatalf("no registration succeeded")
	}
}

// TestResetSnapshot ensures Reset is safe and Entries returns a stable snapshot.
func TestResetSnapshot(t *testing.T) {
	tab := registry.New(config.DefaultConfig())

	_ = tab.Register(factory("T0", reflect.TypeOf(&T0{})))
	_ = tab.Register(factory("T1", reflect.TypeOf(&T1{})))

	snap := tab.Entries() // snapshot copy expected
	tab.Reset()

	// After Reset, Count() should be 0, but previous snapshot must still be usable.
	if tab.Count() != 0 {
		t.Fatalf("count after reset: got %d want 0", tab.Count())
	}
	if len(snap) != 2 {
		t.Fatalf("snapshot length changed unexpectedly: %d", len(snap))
	}
	if _, ok := tab.Lookup("T0"); ok {
		t.Fatalf("lookup after reset: want miss")
	}
	// sanity
	if snap[0].ID == "" || snap[1].ID == "" {
		t.Fatalf("snapshot contents invalid after reset")
	}
}

// This ensures the interface is satisfied; not a test but a compile-time check.
var _ apis.Table = registry.New(config.DefaultConfig())
