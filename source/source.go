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

// Package source locates extension resources on io/fs file systems.
//
// A provider is an ordered list of roots (embedded file systems, plugin
// directories, test fixtures). For a key such as
// "extensions/example.com/cars.Car" every root holding a regular file at
// that path contributes one apis.Source, in root order.
package source

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"dirpx.dev/spx/apis"
)

// ErrInvalidKey is returned for keys that are not valid io/fs paths.
var ErrInvalidKey = errors.New("spx(source): invalid resource key")

// Root is a named file system searched for resources.
type Root struct {
	// Name prefixes source names in diagnostics.
	Name string
	// FS is searched for resource keys.
	FS fs.FS
}

// FS returns a provider over fsyss, searched in order.
func FS(fsyss ...fs.FS) apis.SourceProvider {
	roots := make([]Root, 0, len(fsyss))
	for i, f := range fsyss {
		roots = append(roots, Root{Name: fmt.Sprintf("fs[%d]", i), FS: f})
	}
	return Roots(roots...)
}

// Dirs returns a provider over local directories, searched in order.
func Dirs(dirs ...string) apis.SourceProvider {
	roots := make([]Root, 0, len(dirs))
	for _, d := range dirs {
		roots = append(roots, Root{Name: d, FS: os.DirFS(d)})
	}
	return Roots(roots...)
}

// Roots returns a provider over the given roots. Roots with a nil FS are ignored.
func Roots(roots ...Root) apis.SourceProvider {
	out := make([]Root, 0, len(roots))
	for _, r := range roots {
		if r.FS != nil {
			out = append(out, r)
		}
	}
	return fsProvider{roots: out}
}

// fsProvider is an immutable, order-preserving provider over roots.
type fsProvider struct {
	roots []Root
}

// Sources returns one source per root holding a regular file at key.
// Missing files are skipped; other stat errors are joined into the
// returned error while the remaining roots are still searched.
func (p fsProvider) Sources(key string) ([]apis.Source, error) {
	if !fs.ValidPath(key) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}

	var (
		out  []apis.Source
		errs []error
	)
	for _, r := range p.roots {
		fi, err := fs.Stat(r.FS, key)
		if err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				errs = append(errs, fmt.Errorf("spx(source): %s: %w", r.Name, err))
			}
			continue
		}
		if fi.IsDir() {
			continue
		}
		fsys := r.FS
		out = append(out, apis.Source{
			Name: filepath.ToSlash(filepath.Join(r.Name, key)),
			Open: func() (io.ReadCloser, error) { return fsys.Open(key) },
		})
	}
	return out, errors.Join(errs...)
}

// Chain concatenates the sources of several providers, in order.
// Nil providers are ignored.
func Chain(providers ...apis.SourceProvider) apis.SourceProvider {
	out := make([]apis.SourceProvider, 0, len(providers))
	for _, p := range providers {
		if p != nil {
			out = append(out, p)
		}
	}
	return chain(out)
}

// chain is an immutable, order-preserving provider over providers.
type chain []apis.SourceProvider

// Sources collects the sources of every provider, joining their errors.
func (c chain) Sources(key string) ([]apis.Source, error) {
	var (
		out  []apis.Source
		errs []error
	)
	for _, p := range c {
		srcs, err := p.Sources(key)
		if err != nil {
			errs = append(errs, err)
		}
		out = append(out, srcs...)
	}
	return out, errors.Join(errs...)
}

// Static returns a provider serving fixed in-memory sources for a single key.
func Static(key string, sources ...apis.Source) apis.SourceProvider {
	return static{key: key, sources: sources}
}

// static serves a fixed list of sources for one key.
type static struct {
	key     string
	sources []apis.Source
}

// Sources returns the fixed sources when key matches.
func (s static) Sources(key string) ([]apis.Source, error) {
	if key != s.key {
		return nil, nil
	}
	return s.sources, nil
}

// Text returns an in-memory source serving content.
func Text(name, content string) apis.Source {
	return apis.Source{
		Name: name,
		Open: func() (io.ReadCloser, error) { return io.NopCloser(strings.NewReader(content)), nil },
	}
}
