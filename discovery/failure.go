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
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnknownImplementation marks an identifier no factory is registered for.
	ErrUnknownImplementation = errors.New("spx(discovery): unknown implementation identifier")
	// ErrNotImplemented marks an implementation that does not satisfy the capability.
	ErrNotImplemented = errors.New("spx(discovery): implementation does not satisfy capability")
)

// Failure is a resource entry that could not be turned into a mapping.
type Failure struct {
	// Line is the offending identifier text; failures are keyed by it.
	Line string
	// Name is the entry name the identifier was declared under.
	Name string
	// Source names the resource the entry came from.
	Source string
	// Capability is the identifier of the capability being discovered.
	Capability string
	// Err is the reason.
	Err error
}

// Error implements error.
func (f *Failure) Error() string {
	return fmt.Sprintf("spx: failed to load extension (capability: %s, line: %s) in %s, cause: %v",
		f.Capability, f.Line, f.Source, f.Err)
}

// Unwrap returns the reason.
func (f *Failure) Unwrap() error { return f.Err }

// failureLog keeps failures in first-recorded order, keyed by Line.
// A later failure for the same Line replaces the earlier one in place.
type failureLog struct {
	items []Failure
	index map[string]int
}

func (l *failureLog) record(f Failure) {
	if l.index == nil {
		l.index = make(map[string]int)
	}
	if i, ok := l.index[f.Line]; ok {
		l.items[i] = f
		return
	}
	l.index[f.Line] = len(l.items)
	l.items = append(l.items, f)
}

// FindFailure returns the first failure related to name.
//
// By default this is a case-insensitive substring match of name against
// the offending identifier text, which is approximate: an unrelated entry
// whose identifier happens to contain name is reported too. With strict
// set only a failure declared under exactly name matches.
func (r *Result) FindFailure(name string, strict bool) (*Failure, bool) {
	lname := strings.ToLower(name)
	for i := range r.Failures {
		f := &r.Failures[i]
		if strict {
			if f.Name == name {
				return f, true
			}
			continue
		}
		if strings.Contains(strings.ToLower(f.Line), lname) {
			return f, true
		}
	}
	return nil, false
}
