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

package spx_test

import (
	"io"
	"log/slog"
	"testing"
	"testing/fstest"

	"dirpx.dev/spx"
	"dirpx.dev/spx/apis"
	"dirpx.dev/spx/instance"
	"dirpx.dev/spx/source"
)

// Markers are process-wide, so every test capability is declared once here.
type (
	Car interface{ Wheels() int }
	// Vehicle shares implementations with Car.
	Vehicle interface{ Wheels() int }
	Plane   interface{ Fly() string }
	Boat    interface{ Sail() }
	Engine  interface{ Start() string }
	Toy     interface{ Play() string }
	// Truck is never declared.
	Truck interface{ Haul() }
)

type BigCar struct{ seats int }

func (*BigCar) Wheels() int { return 6 }

type SmallCar struct{ seats int }

func (*SmallCar) Wheels() int { return 4 }

// Bike satisfies none of the capabilities.
type Bike struct{ gears int }

type V8 struct{ cylinders int }

func (*V8) Start() string { return "vroom" }

type Robot struct{ batteries int }

func (*Robot) Play() string { return "beep" }

func init() {
	spx.MustDeclare[Car](spx.WithID("cars.Car"), spx.WithDefault("smallCar"))
	spx.MustDeclare[Vehicle](spx.WithID("vehicles.Vehicle"))
	spx.MustDeclare[Plane](spx.WithID("planes.Plane"))
	spx.MustDeclare[Boat](spx.WithID("boats.Boat"), spx.WithDefault("sloop, ketch"))
	spx.MustDeclare[Engine]()
	spx.MustDeclare[Toy](spx.WithID("toys.Toy"), spx.WithDefault(spx.DefaultAlias))
}

var quiet = slog.New(slog.NewTextHandler(io.Discard, nil))

// files maps resource keys to their contents.
type files map[string]string

func (f files) fs() fstest.MapFS {
	m := fstest.MapFS{}
	for k, v := range f {
		m[k] = &fstest.MapFile{Data: []byte(v)}
	}
	return m
}

// newRegistry returns an isolated registry over resource file systems.
func newRegistry(t *testing.T, opts []spx.Option, fsys ...files) *spx.Registry {
	t.Helper()
	var providers []apis.SourceProvider
	for _, f := range fsys {
		providers = append(providers, source.FS(f.fs()))
	}
	base := []spx.Option{
		spx.WithStore(instance.NewStore()),
		spx.WithLogger(quiet),
		spx.WithSources(source.Chain(providers...)),
	}
	return spx.New(append(base, opts...)...)
}

// useDefault installs r as the default registry for the duration of t.
func useDefault(t *testing.T, r *spx.Registry) {
	t.Helper()
	prev := spx.Default()
	spx.SetDefault(r)
	t.Cleanup(func() { spx.SetDefault(prev) })
}
