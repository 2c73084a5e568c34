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

package discovery

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"reflect"
	"sort"

	"golang.org/x/sync/errgroup"

	"dirpx.dev/spx/apis"
	"dirpx.dev/spx/config"
)

var (
	// ErrNilCapability is returned when a request has no capability type.
	ErrNilCapability = errors.New("spx(discovery): nil capability type")
	// ErrNilTable is returned when a request has no implementation table.
	ErrNilTable = errors.New("spx(discovery): nil implementation table")
)

// Request describes one discovery run.
type Request struct {
	// Capability is the interface type implementations must satisfy.
	Capability reflect.Type
	// CapabilityID is the textual identifier used in diagnostics.
	CapabilityID string
	// DeclaredDefault is the raw default-name string of the capability marker.
	DeclaredDefault string
	// Key is the resource path key handed to Sources.
	Key string
	// Sources locates the resources. Nil means no resources.
	Sources apis.SourceProvider
	// Table resolves implementation identifiers.
	Table apis.Table
	// Config supplies ReadConcurrency and ReportSourceErrors.
	Config apis.Config
	// Logger receives diagnostics. Nil means slog.Default().
	Logger *slog.Logger
}

// Mapping is a resolved resource entry.
type Mapping struct {
	// Name is the entry name.
	Name string
	// Factory constructs the implementation.
	Factory apis.Factory
	// Source names the resource that defined the entry last.
	Source string
}

// Result is the immutable outcome of a discovery run.
type Result struct {
	// Default is the parsed default name, or "".
	Default string
	// Mappings maps entry names to implementations.
	Mappings map[string]Mapping
	// Failures lists unusable entries in first-recorded order.
	Failures []Failure
	// SourceErrors lists resources that could not be located or read.
	SourceErrors []error
}

// Lookup returns the mapping for name.
func (r *Result) Lookup(name string) (Mapping, bool) {
	m, ok := r.Mappings[name]
	return m, ok
}

// Names returns the mapped names in lexicographic order.
func (r *Result) Names() []string {
	names := make([]string, 0, len(r.Mappings))
	for n := range r.Mappings {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Discover reads every source visible under req.Key and builds the mapping.
// Only a nil capability, a nil table, or an invalid default declaration
// return an error.
func Discover(req Request) (*Result, error) {
	if req.Capability == nil {
		return nil, ErrNilCapability
	}
	if req.Table == nil {
		return nil, ErrNilTable
	}
	def, err := DefaultName(req.DeclaredDefault)
	if err != nil {
		return nil, err
	}

	log := req.Logger
	if log == nil {
		log = slog.Default()
	}
	log = log.With("capability", req.CapabilityID)
	cfg := config.Sanitize(req.Config)

	res := &Result{
		Default:  def,
		Mappings: make(map[string]Mapping),
	}

	var srcs []apis.Source
	if req.Sources != nil {
		srcs, err = req.Sources.Sources(req.Key)
		if err != nil {
			res.SourceErrors = append(res.SourceErrors, err)
			logSourceError(log, cfg, req.Key, err)
		}
	}

	// Read concurrently, apply in source order so the last source wins.
	contents := make([][]byte, len(srcs))
	readErrs := make([]error, len(srcs))
	var g errgroup.Group
	g.SetLimit(cfg.ReadConcurrency)
	for i, src := range srcs {
		g.Go(func() error {
			contents[i], readErrs[i] = read(src)
			return nil
		})
	}
	_ = g.Wait()

	var fl failureLog
	for i, src := range srcs {
		if readErrs[i] != nil {
			err := fmt.Errorf("spx(discovery): read %s: %w", src.Name, readErrs[i])
			res.SourceErrors = append(res.SourceErrors, err)
			logSourceError(log, cfg, src.Name, err)
			continue
		}
		if err := apply(req, res, &fl, src.Name, contents[i]); err != nil {
			err = fmt.Errorf("spx(discovery): scan %s: %w", src.Name, err)
			res.SourceErrors = append(res.SourceErrors, err)
			logSourceError(log, cfg, src.Name, err)
		}
	}
	res.Failures = fl.items

	for _, f := range res.Failures {
		log.Warn("Extension entry failed to load.", "name", f.Name, "line", f.Line, "source", f.Source, "error", f.Err)
	}
	log.Info("Extensions discovered.",
		"key", req.Key,
		"sources", len(srcs),
		"entries", len(res.Mappings),
		"failures", len(res.Failures),
		"default", res.Default,
	)
	return res, nil
}

// read returns the full contents of src.
func read(src apis.Source) ([]byte, error) {
	if src.Open == nil {
		return nil, errors.New("no opener")
	}
	rc, err := src.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

// apply parses data line by line into res. Lines already applied stay
// applied if scanning stops early.
func apply(req Request, res *Result, fl *failureLog, source string, data []byte) error {
	return Scan(data, func(_ int, _ string, ln Line, kind Kind) {
		if kind != Entry {
			return
		}

		f, ok := req.Table.Lookup(ln.ID)
		switch {
		case !ok:
			fl.record(Failure{
				Line:       ln.ID,
				Name:       ln.Name,
				Source:     source,
				Capability: req.CapabilityID,
				Err:        ErrUnknownImplementation,
			})
		case f.Type == nil || !f.Type.Implements(req.Capability):
			fl.record(Failure{
				Line:       ln.ID,
				Name:       ln.Name,
				Source:     source,
				Capability: req.CapabilityID,
				Err:        fmt.Errorf("%w: %v is not a subtype of %s", ErrNotImplemented, f.Type, req.CapabilityID),
			})
		default:
			res.Mappings[ln.Name] = Mapping{Name: ln.Name, Factory: f, Source: source}
		}
	})
}

// logSourceError reports an unreadable source without failing discovery.
func logSourceError(log *slog.Logger, cfg apis.Config, source string, err error) {
	level := slog.LevelDebug
	if cfg.ReportSourceErrors {
		level = slog.LevelWarn
	}
	log.Log(context.Background(), level, "Extension source unreadable, skipped.", "source", source, "error", err)
}
