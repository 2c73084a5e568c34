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

// Package discovery reads extension resources for one capability and
// builds its name -> implementation mapping.
//
// Resource format, one entry per line:
//
//	# comment line, ignored
//	bigCar=example.com/cars.BigCar
//	smallCar = example.com/cars.SmallCar   # trailing comment stripped
//
// Lines without "=", or with an empty name or identifier, are skipped.
// Entries whose identifier cannot be resolved, or whose implementation does
// not satisfy the capability, are recorded as Failures and never abort
// discovery. Sources that cannot be read are kept as SourceErrors only.
// When several sources define the same name the last one wins.
package discovery
