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

// Marker is the declarative tag that turns an interface type into a
// capability. It is attached once per type and never changes afterwards.
type Marker struct {
	// Default names the implementation returned by Loader.Default.
	// It may be empty (no default).
	Default string
	// ID overrides the textual identifier of the capability. When empty
	// the identifier is derived from the Go type.
	ID string
}
