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
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrMultipleDefaults is returned when a capability declares more than one
// default name.
var ErrMultipleDefaults = errors.New("spx(discovery): multiple default names declared")

// Kind classifies a raw resource line.
type Kind int

const (
	// Blank lines are empty after comment stripping.
	Blank Kind = iota
	// Entry lines carry a name and an identifier.
	Entry
	// Unusable lines are skipped without being recorded as failures.
	Unusable
)

// String returns a human-readable representation of the Kind value.
func (k Kind) String() string {
	switch k {
	case Blank:
		return "blank"
	case Entry:
		return "entry"
	case Unusable:
		return "unusable"
	default:
		return fmt.Sprintf("Unknown(%d)", int(k))
	}
}

// Line is one parsed "name=identifier" entry.
type Line struct {
	Name string
	ID   string
}

// ParseLine strips the comment from raw, trims it and splits it on the
// first "=".
func ParseLine(raw string) (Line, Kind) {
	if i := strings.IndexByte(raw, '#'); i >= 0 {
		raw = raw[:i]
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Line{}, Blank
	}
	i := strings.IndexByte(raw, '=')
	if i < 0 {
		return Line{}, Unusable
	}
	ln := Line{
		Name: strings.TrimSpace(raw[:i]),
		ID:   strings.TrimSpace(raw[i+1:]),
	}
	if ln.Name == "" || ln.ID == "" {
		return Line{}, Unusable
	}
	return ln, Entry
}

// maxLineSize bounds a single resource line.
const maxLineSize = 1 << 20

// Scan calls fn for every line of a resource, with its 1-based number, raw
// text and parse result. A leading byte order mark is dropped.
func Scan(data []byte, fn func(n int, raw string, ln Line, kind Kind)) error {
	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 0, 4096), maxLineSize)
	n := 0
	for sc.Scan() {
		n++
		raw := sc.Text()
		if n == 1 {
			raw = strings.TrimPrefix(raw, "\ufeff")
		}
		ln, kind := ParseLine(raw)
		fn(n, raw, ln, kind)
	}
	return sc.Err()
}

// nameSeparator splits a declared default on commas and surrounding spaces.
var nameSeparator = regexp.MustCompile(`\s*,+\s*`)

// DefaultName parses the default-name declaration of a capability marker.
// An empty declaration yields "". More than one name is ErrMultipleDefaults.
func DefaultName(declared string) (string, error) {
	declared = strings.TrimSpace(declared)
	if declared == "" {
		return "", nil
	}
	var names []string
	for _, n := range nameSeparator.Split(declared, -1) {
		if n != "" {
			names = append(names, n)
		}
	}
	switch len(names) {
	case 0:
		return "", nil
	case 1:
		return names[0], nil
	default:
		return "", fmt.Errorf("%w: %v", ErrMultipleDefaults, names)
	}
}
