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

// Package spx is a capability registry: it maps names found in external
// configuration to implementations of a Go interface, and builds each
// implementation lazily and only once.
//
// A capability is an interface type tagged with a marker. Implementations
// are concrete types registered under a textual identifier. Resource files
// then bind short names to those identifiers:
//
//	# extensions/cars.Car
//	bigCar   = cars.BigCar
//	smallCar = cars.SmallCar   # the default
//
// Callers ask for "the implementation named X of capability T" without
// knowing X's concrete type at compile time:
//
//	car, err := spx.MustLoad[cars.Car]().Get("bigCar")
//
// # Design
//
// The package is layered the same way lookups flow:
//
//   - Registry owns one Loader per capability type, together with the
//     configuration, the implementation table (apis.Table), the identity
//     resolver (apis.Resolver), the resource provider (apis.SourceProvider)
//     and the instance store (instance.Store).
//
//   - Loader[T] owns the discovered name to implementation mapping of one
//     capability, the declared default name, the failures recorded while
//     discovering, and one lazily resolved cell per requested name.
//
//   - The discovery package reads every resource found under the
//     capability's key, in provider order, and builds the mapping. A line
//     that names an unknown identifier, or a type that does not implement
//     the capability, is recorded as a Failure and skipped. Unreadable
//     resources are kept as source errors but never fail discovery.
//
//   - The instance store constructs each implementation identifier at most
//     once, no matter how many names or capabilities refer to it.
//
// Identifiers are resolved by a strategy chain, first match wins:
//
//  1. If the type implements apis.Namer, use ExtensionName().
//  2. If the type is already in the table, use its registered identifier.
//  3. Otherwise use "<pkgpath>.<Name>" of the nearest named type.
//
// The same chain names capabilities without an explicit WithID, and
// implementations provided without As.
//
// # Global API
//
// Most programs use the process-wide registry:
//
//	func init() {
//		spx.MustDeclare[Car](spx.WithID("cars.Car"), spx.WithDefault("smallCar"))
//		spx.MustProvide[*BigCar](spx.As("cars.BigCar"))
//		spx.MustProvide[*SmallCar](spx.As("cars.SmallCar"))
//		spx.AddSources(source.Dirs("/etc/myapp"))
//	}
//
// Default, SetDefault, SetConfig, SetSources and AddSources read or swap
// the registry held in an atomic pointer. Readers never lock. Writers take
// a short build mutex, derive a new Registry and publish it. Provided
// implementations migrate to the new Registry; loaders and their
// discovered mappings do not, they are rebuilt on first use. Constructed
// instances live in the instance store and survive the swap.
//
// Isolated registries are built with New and used through LoaderOf. Tests
// normally do this, with their own instance.Store.
//
// # Concurrency model
//
// Every cache follows the same compute-once protocol, implemented by
// lazy.Cell: an atomic fast path, then a lock scoped to that one cell, a
// re-check, the computation and the publication. Different capabilities,
// names and identifiers never contend with each other. A computation that
// fails is not cached and the next caller retries it.
//
// A constructor must not request the implementation it is constructing,
// directly or through another name; the per-name and per-identifier locks
// are not reentrant.
//
// # Errors
//
//   - *ConfigurationError (ErrConfiguration): the capability is not an
//     interface, has no marker, or declares more than one default name.
//   - ErrInvalidArgument: empty extension name.
//   - *NotFoundError (ErrNotFound): no usable mapping for a name. It carries
//     the related discovery failure as Cause, or else every failure plus
//     fuzzy "did you mean" suggestions.
//   - *InstantiationError (ErrInstantiation): construction failed or
//     panicked. Retried on the next call.
package spx
