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

import "io"

// Source is one readable extension resource.
type Source struct {
	// Name identifies the source in diagnostics (e.g. a file path).
	Name string
	// Open returns a fresh reader over the resource text.
	Open func() (io.ReadCloser, error)
}

// SourceProvider locates every resource visible under a path key.
// Order matters: later sources override earlier ones name by name.
type SourceProvider interface {
	Sources(key string) ([]Source, error)
}
