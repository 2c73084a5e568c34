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

// Package lazy provides the publish-once cell behind every compute-once
// cache in spx.
package lazy

import (
	"fmt"
	"sync"
	"sync/atomic"
)

// State is the lifecycle of a Cell.
type State uint32

const (
	// Unresolved cells hold no value.
	Unresolved State = iota
	// InProgress cells are being computed by exactly one goroutine.
	InProgress
	// Resolved cells hold a published value that never changes.
	Resolved
)

// String returns a human-readable representation of the State value.
func (s State) String() string {
	switch s {
	case Unresolved:
		return "unresolved"
	case InProgress:
		return "in-progress"
	case Resolved:
		return "resolved"
	default:
		return fmt.Sprintf("Unknown(%d)", uint32(s))
	}
}

// Cell is a single-slot container that is published at most once.
//
// Reads after publication are lock-free. The value is written before the
// Resolved state is stored, so a reader observing Resolved also observes
// the value. The zero Cell is ready to use and must not be copied.
type Cell[V any] struct {
	state atomic.Uint32
	mu    sync.Mutex
	v     V
}

// Get returns the published value, if any.
func (c *Cell[V]) Get() (V, bool) {
	if State(c.state.Load()) == Resolved {
		return c.v, true
	}
	var zero V
	return zero, false
}

// Set publishes v. It returns false and leaves the cell untouched if a
// value was already published.
func (c *Cell[V]) Set(v V) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if State(c.state.Load()) == Resolved {
		return false
	}
	c.v = v
	c.state.Store(uint32(Resolved))
	return true
}

// Do returns the published value or computes it with fn.
//
// Concurrent callers serialize on the cell's own lock and fn runs at most
// once per successful publication. An error from fn is returned to the
// caller that ran it and the cell goes back to Unresolved, so a later call
// retries. fn must not call Do on the same cell.
func (c *Cell[V]) Do(fn func() (V, error)) (V, error) {
	if State(c.state.Load()) == Resolved {
		return c.v, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	// Re-check under lock in case another goroutine published meanwhile.
	if State(c.state.Load()) == Resolved {
		return c.v, nil
	}

	c.state.Store(uint32(InProgress))
	published := false
	defer func() {
		// fn failed or panicked: leave the cell retryable.
		if !published {
			c.state.Store(uint32(Unresolved))
		}
	}()

	v, err := fn()
	if err != nil {
		var zero V
		return zero, err
	}
	c.v = v
	c.state.Store(uint32(Resolved))
	published = true
	return v, nil
}

// State reports the current lifecycle state.
func (c *Cell[V]) State() State {
	return State(c.state.Load())
}
