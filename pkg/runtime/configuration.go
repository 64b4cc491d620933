// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package runtime

// Configuration holds the process-wide runtime tunables named in §E.3
// (mirroring HILTI's configuration.h/global-state.h): read once when a
// driver run starts and threaded explicitly into the components that
// consume them -- pkg/runtime/fiber, pkg/runtime/regexp, and
// pkg/runtime/sink each take one rather than reaching for a package-level
// var of their own.
type Configuration struct {
	// FiberStackDepth bounds how many nested sub-unit parse frames
	// (tracked via fiber.Control's Enter/Exit) a single fiber may hold
	// suspended at once. Go goroutines grow their own stack on demand and
	// expose no fixed size to configure the way a stackful-coroutine
	// library would, so this is reinterpreted as a nesting-depth ceiling:
	// the Go-idiomatic stand-in for "stack size" that still catches
	// unbounded recursive parsing the same way a real stack overflow
	// would, raising StackSizeExceeded. Zero means unbounded.
	FiberStackDepth uint

	// RegexCacheCapacity bounds how many distinct compiled patterns
	// pkg/runtime/regexp's process-wide cache retains before evicting the
	// least recently compiled. Zero means unbounded.
	RegexCacheCapacity uint

	// SinkGapBufferLimit is the gap-buffer byte ceiling pkg/runtime/sink.New
	// applies by default (§4.1's reassembly-buffer contract).
	SinkGapBufferLimit uint64
}

// DefaultConfiguration returns the tunables a driver run uses absent
// explicit overrides (e.g. CLI flags in pkg/cmd).
func DefaultConfiguration() Configuration {
	return Configuration{
		FiberStackDepth:    1024,
		RegexCacheCapacity: 256,
		SinkGapBufferLimit: 1 << 20,
	}
}
