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

package discovery_test

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dirpx.dev/spx/apis"
	"dirpx.dev/spx/config"
	"dirpx.dev/spx/discovery"
	"dirpx.dev/spx/registry"
	"dirpx.dev/spx/source"
)

type Car interface{ Wheels() int }

type BigCar struct{}

func (*BigCar) Wheels() int { return 6 }

type SmallCar struct{}

func (*SmallCar) Wheels() int { return 4 }

// Bike does not implement Car.
type Bike struct{}

const key = "extensions/cars.Car"

var quiet = slog.New(slog.NewTextHandler(io.Discard, nil))

func newTable(t *testing.T) apis.Table {
	t.Helper()
	tab := registry.New(config.DefaultConfig())
	for id, v := range map[string]any{
		"cars.BigCar":   &BigCar{},
		"cars.SmallCar": &SmallCar{},
		"bikes.Bike":    &Bike{},
	} {
		typ := reflect.TypeOf(v)
		require.NoError(t, tab.Register(apis.Factory{
			ID:   id,
			Type: typ,
			New:  func() (any, error) { return reflect.New(typ.Elem()).Interface(), nil },
		}))
	}
	return tab
}

func request(t *testing.T, sources apis.SourceProvider) discovery.Request {
	return discovery.Request{
		Capability:   reflect.TypeFor[Car](),
		CapabilityID: "cars.Car",
		Key:          key,
		Sources:      sources,
		Table:        newTable(t),
		Config:       config.DefaultConfig(),
		Logger:       quiet,
	}
}

func TestDiscover_Mappings(t *testing.T) {
	req := request(t, source.Static(key, source.Text("cars", `
# the fleet
bigCar=cars.BigCar
smallCar = cars.SmallCar   # trailing comment stripped
alias=cars.BigCar
garbage line
`)))
	req.DeclaredDefault = " smallCar "

	res, err := discovery.Discover(req)
	require.NoError(t, err)

	assert.Equal(t, "smallCar", res.Default)
	assert.Equal(t, []string{"alias", "bigCar", "smallCar"}, res.Names())
	assert.Empty(t, res.Failures)
	assert.Empty(t, res.SourceErrors)

	m, ok := res.Lookup("bigCar")
	require.True(t, ok)
	assert.Equal(t, "cars.BigCar", m.Factory.ID)
	assert.Equal(t, "cars", m.Source)

	a, _ := res.Lookup("alias")
	assert.Equal(t, m.Factory.ID, a.Factory.ID)

	_, ok = res.Lookup("garbage line")
	assert.False(t, ok)
}

func TestDiscover_LastSourceWins(t *testing.T) {
	res, err := discovery.Discover(request(t, source.Static(key,
		source.Text("first", "car=cars.BigCar\nonly=cars.BigCar\n"),
		source.Text("second", "car=cars.SmallCar\n"),
	)))
	require.NoError(t, err)

	car, ok := res.Lookup("car")
	require.True(t, ok)
	assert.Equal(t, "cars.SmallCar", car.Factory.ID)
	assert.Equal(t, "second", car.Source)

	only, ok := res.Lookup("only")
	require.True(t, ok)
	assert.Equal(t, "first", only.Source)
}

func TestDiscover_ManySourcesKeepOrder(t *testing.T) {
	var srcs []apis.Source
	for i := 0; i < 32; i++ {
		id := "cars.BigCar"
		if i%2 == 1 {
			id = "cars.SmallCar"
		}
		srcs = append(srcs, source.Text(fmt.Sprintf("src-%02d", i), "car="+id))
	}
	req := request(t, source.Static(key, srcs...))
	req.Config = config.NewConfig(config.WithReadConcurrency(3))

	res, err := discovery.Discover(req)
	require.NoError(t, err)

	car, _ := res.Lookup("car")
	assert.Equal(t, "src-31", car.Source)
	assert.Equal(t, "cars.SmallCar", car.Factory.ID)
}

func TestDiscover_FailuresDoNotAbort(t *testing.T) {
	res, err := discovery.Discover(request(t, source.Static(key, source.Text("cars", `
bigCar=cars.BigCar
ghost=cars.GhostCar
bike=bikes.Bike
ghost2=cars.GhostCar
smallCar=cars.SmallCar
`))))
	require.NoError(t, err)

	assert.Equal(t, []string{"bigCar", "smallCar"}, res.Names())
	require.Len(t, res.Failures, 2)

	// keyed by identifier text, in first-recorded order, later record wins
	ghost := res.Failures[0]
	assert.Equal(t, "cars.GhostCar", ghost.Line)
	assert.Equal(t, "ghost2", ghost.Name)
	assert.ErrorIs(t, &ghost, discovery.ErrUnknownImplementation)

	bike := res.Failures[1]
	assert.Equal(t, "bikes.Bike", bike.Line)
	assert.ErrorIs(t, &bike, discovery.ErrNotImplemented)
	assert.Equal(t,
		"spx: failed to load extension (capability: cars.Car, line: bikes.Bike) in cars, cause: "+bike.Err.Error(),
		bike.Error())
}

func TestDiscover_UnreadableSourcesAreNotFailures(t *testing.T) {
	boom := errors.New("disk on fire")
	providerErr := errors.New("provider down")
	res, err := discovery.Discover(request(t, source.Chain(
		failingProvider{err: providerErr},
		source.Static(key,
			apis.Source{Name: "broken", Open: func() (io.ReadCloser, error) { return nil, boom }},
			apis.Source{Name: "no-opener"},
			source.Text("ok", "bigCar=cars.BigCar"),
		),
	)))
	require.NoError(t, err)

	assert.Equal(t, []string{"bigCar"}, res.Names())
	assert.Empty(t, res.Failures)
	require.Len(t, res.SourceErrors, 3)
	assert.ErrorIs(t, res.SourceErrors[0], providerErr)
	assert.ErrorIs(t, res.SourceErrors[1], boom)
	assert.Contains(t, res.SourceErrors[2].Error(), "no-opener")
}

func TestDiscover_LineTooLongKeepsEarlierEntries(t *testing.T) {
	long := make([]byte, 2<<20)
	for i := range long {
		long[i] = 'x'
	}
	res, err := discovery.Discover(request(t, source.Static(key,
		source.Text("big", "bigCar=cars.BigCar\n"+string(long)+"\nsmallCar=cars.SmallCar\n"),
	)))
	require.NoError(t, err)

	_, ok := res.Lookup("bigCar")
	assert.True(t, ok)
	require.Len(t, res.SourceErrors, 1)
	assert.Contains(t, res.SourceErrors[0].Error(), "scan big")
}

func TestDiscover_NoSources(t *testing.T) {
	res, err := discovery.Discover(request(t, nil))
	require.NoError(t, err)
	assert.Empty(t, res.Names())
	assert.Empty(t, res.Default)
}

func TestDiscover_InvalidRequests(t *testing.T) {
	req := request(t, nil)
	req.DeclaredDefault = "a, b"
	_, err := discovery.Discover(req)
	assert.ErrorIs(t, err, discovery.ErrMultipleDefaults)

	req = request(t, nil)
	req.Capability = nil
	_, err = discovery.Discover(req)
	assert.ErrorIs(t, err, discovery.ErrNilCapability)

	req = request(t, nil)
	req.Table = nil
	_, err = discovery.Discover(req)
	assert.ErrorIs(t, err, discovery.ErrNilTable)
}

func TestFindFailure(t *testing.T) {
	res := &discovery.Result{Failures: []discovery.Failure{
		{Line: "cars.Tractor", Name: "farm"},
		{Line: "cars.BigCarV2", Name: "big2"},
		{Line: "cars.BigCarV3", Name: "big3"},
	}}

	f, ok := res.FindFailure("bigcar", false)
	require.True(t, ok)
	assert.Equal(t, "big2", f.Name, "first match in record order")

	_, ok = res.FindFailure("bigcar", true)
	assert.False(t, ok)

	f, ok = res.FindFailure("big3", true)
	require.True(t, ok)
	assert.Equal(t, "cars.BigCarV3", f.Line)

	_, ok = res.FindFailure("plane", false)
	assert.False(t, ok)
}

// failingProvider always returns err.
type failingProvider struct{ err error }

func (p failingProvider) Sources(string) ([]apis.Source, error) { return nil, p.err }
