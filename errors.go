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

package spx

import (
	"errors"
	"fmt"
	"strings"

	"dirpx.dev/spx/discovery"
)

var (
	// ErrConfiguration classifies invalid capability types: not an interface,
	// no marker, or more than one default name.
	ErrConfiguration = errors.New("spx: invalid capability")
	// ErrInvalidArgument is returned for an empty extension name.
	ErrInvalidArgument = errors.New("spx: invalid argument")
	// ErrNotFound classifies lookups of names with no usable implementation.
	ErrNotFound = errors.New("spx: no such extension")
	// ErrInstantiation classifies failed default construction.
	ErrInstantiation = errors.New("spx: extension could not be instantiated")
	// ErrNoDefault is wrapped by the NotFoundError of the "true" alias when
	// the capability declares no default.
	ErrNoDefault = errors.New("spx: no default extension declared")
	// ErrNilTable is raised when a builder returns a nil table.
	ErrNilTable = errors.New("spx: builder returned nil table")
	// ErrNilResolver is raised when a builder returns a nil resolver.
	ErrNilResolver = errors.New("spx: builder returned nil resolver")
	// ErrNotConstructible is returned when providing a type that has no
	// zero-argument construction (interfaces, nil types).
	ErrNotConstructible = errors.New("spx: type cannot be constructed without arguments")
)

// Failure is a resource entry that discovery could not map.
type Failure = discovery.Failure

// ConfigurationError reports an invalid capability type.
type ConfigurationError struct {
	// Capability names the offending type.
	Capability string
	// Reason says what is wrong with it.
	Reason string
	// Err is the underlying cause, if any.
	Err error
}

// Error implements error.
func (e *ConfigurationError) Error() string {
	msg := fmt.Sprintf("spx: extension type(%s) %s", e.Capability, e.Reason)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Is reports ErrConfiguration.
func (e *ConfigurationError) Is(target error) bool { return target == ErrConfiguration }

// Unwrap returns the underlying cause.
func (e *ConfigurationError) Unwrap() error { return e.Err }

// NotFoundError reports a name with no usable implementation.
//
// When a discovery failure looks related to the name it is the Cause.
// Otherwise every recorded failure is listed as context, even though none
// of them matched the name.
type NotFoundError struct {
	// Capability is the capability identifier.
	Capability string
	// Name is the requested extension name.
	Name string
	// Cause is the discovery failure matched to Name, if any.
	Cause *Failure
	// Failures lists all discovery failures when no Cause matched.
	Failures []Failure
	// Suggestions lists known names close to Name.
	Suggestions []string
	// Err is an additional reason such as ErrNoDefault.
	Err error
}

// Error implements error.
func (e *NotFoundError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("spx: no extension %s by name %s: %v", e.Capability, e.Name, e.Cause)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "spx: no such extension %s by name %s", e.Capability, e.Name)
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	for i := range e.Failures {
		if i == 0 {
			b.WriteString(", possible causes:")
		}
		fmt.Fprintf(&b, "\n(%d) %s:\n%v", i+1, e.Failures[i].Line, &e.Failures[i])
	}
	if len(e.Suggestions) > 0 {
		fmt.Fprintf(&b, "\ndid you mean: %s", strings.Join(e.Suggestions, ", "))
	}
	return b.String()
}

// Is reports ErrNotFound.
func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// Unwrap returns the matched failure, or Err.
func (e *NotFoundError) Unwrap() error {
	if e.Cause != nil {
		return e.Cause
	}
	return e.Err
}

// InstantiationError reports a failed default construction. It is never
// cached: the next lookup of the same name retries.
type InstantiationError struct {
	// Capability is the capability identifier.
	Capability string
	// Name is the requested extension name.
	Name string
	// ID is the implementation identifier.
	ID string
	// Err is the construction failure.
	Err error
}

// Error implements error.
func (e *InstantiationError) Error() string {
	return fmt.Sprintf("spx: extension instance (name: %s, implementation: %s, capability: %s) could not be instantiated: %v",
		e.Name, e.ID, e.Capability, e.Err)
}

// Is reports ErrInstantiation.
func (e *InstantiationError) Is(target error) bool { return target == ErrInstantiation }

// Unwrap returns the construction failure.
func (e *InstantiationError) Unwrap() error { return e.Err }
