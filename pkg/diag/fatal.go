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
	log "github.com/sirupsen/logrus"
)

// SetVerbose raises logrus's level to Debug, mirroring the teacher's
// `--verbose` flag handling in pkg/cmd.
func SetVerbose(verbose bool) {
	if verbose {
		log.SetLevel(log.DebugLevel)
		return
	}

	log.SetLevel(log.InfoLevel)
}

// Fatal reports an internal-error condition the compiler cannot recover
// from (a driver invariant violated, a cache read that returned corrupt
// data) and terminates the process, the same unconditional-exit path the
// teacher's CLI commands take on unrecoverable setup failures.
func Fatal(kind string, args log.Fields, msg string) {
	log.WithFields(args).WithField("kind", kind).Fatal(msg)
}

// Warnf logs a non-fatal structured warning outside the Bag/Printer
// diagnostic path, for conditions a human running the compiler should see
// on stderr immediately rather than only in the final report (e.g. a cache
// directory that could not be created, so caching is silently disabled).
func Warnf(kind string, args log.Fields, format string, a ...any) {
	log.WithFields(args).WithField("kind", kind).Warnf(format, a...)
}
