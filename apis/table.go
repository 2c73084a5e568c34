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

import "reflect"

// Factory describes one constructible implementation.
type Factory struct {
	// ID is the textual implementation identifier referenced by resources.
	ID string
	// Type is the dynamic type of the values returned by New.
	Type reflect.Type
	// New constructs a fresh value with no arguments.
	New func() (any, error)
}

// Table resolves textual implementation identifiers to factories.
// Implementations must be safe for concurrent use.
type Table interface {
	// Register adds f. Re-registering the same (ID, Type) pair is a no-op;
	// a conflicting pair is an error.
	Register(f Factory) error
	// Lookup returns the factory registered under id.
	Lookup(id string) (Factory, bool)
	// LookupType returns the identifier registered for the (nearest named)
	// type t.
	LookupType(t reflect.Type) (id string, ok bool)
	// Entries returns a snapshot sorted by ID.
	Entries() []Factory
	// Count returns the number of registered factories.
	Count() int
	// Reset clears all registered factories.
	Reset()
}
