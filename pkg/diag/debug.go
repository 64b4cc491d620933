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
package diag

import (
	"sync"

	log "github.com/sirupsen/logrus"
)

// Debug stream names (§E.4), mirroring the channel vocabulary HILTI's
// rt/logging.h exposes for its own `--debug=<stream>` flag: each names one
// compiler stage rather than one file, so enabling "grammar" lights up
// pkg/grammar's build regardless of which package logs through it.
const (
	StreamResolver = "resolver"
	StreamGrammar  = "grammar"
	StreamCodegen  = "codegen"
	StreamFiber    = "fiber"
)

// enabledStreams tracks which debug streams currently emit log lines.
// Guarded by a mutex rather than left as bare map access since
// EnableDebugStream can race with concurrent Debugf calls across packages
// the way logrus's own level switch would.
var (
	streamsMu      sync.RWMutex
	enabledStreams = map[string]bool{}
)

// EnableDebugStream turns on (or off) one named debug stream. Streams
// start disabled; a CLI invocation without --debug-stream=<stream> logs nothing
// through Debugf regardless of logrus's configured level.
func EnableDebugStream(stream string, enabled bool) {
	streamsMu.Lock()
	defer streamsMu.Unlock()

	if enabled {
		enabledStreams[stream] = true
		return
	}

	delete(enabledStreams, stream)
}

// DebugStreamEnabled reports whether stream currently emits log lines.
func DebugStreamEnabled(stream string) bool {
	streamsMu.RLock()
	defer streamsMu.RUnlock()

	return enabledStreams[stream]
}

// Debugf logs a line on the named stream as a dedicated logrus field
// (rather than a stdout print), but only when that stream has been
// enabled via EnableDebugStream -- the independently-toggleable-channel
// requirement of §E.4. logrus's own level gate still applies underneath,
// so Debugf is silent unless SetVerbose(true) was also called.
func Debugf(stream, format string, args ...any) {
	if !DebugStreamEnabled(stream) {
		return
	}

	log.WithField("stream", stream).Debugf(format, args...)
}
