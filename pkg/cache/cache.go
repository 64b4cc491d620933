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

// Package cache resolves the on-disk directory used to store generated
// artifacts (§6): a path derived from the user's home directory and the
// compiler version, overridable by an environment variable. This is plain
// stdlib os/filepath path-joining; no example repo wraps it in a
// third-party directory-resolution library (no XDG helper appears anywhere
// in the pack), so there is nothing to ground the mechanics on beyond
// stdlib.
package cache

import (
	"os"
	"path/filepath"

	"github.com/zeek/spicy-sub007/pkg/diag"
)

// EnvVar is the environment variable that overrides the derived cache
// directory entirely.
const EnvVar = "SPICY_CACHE_DIR"

// Dir resolves the cache directory for a given compiler version without
// creating it. When EnvVar is set, its value is used verbatim; otherwise
// the directory is `$HOME/.cache/spicy/<version>`.
func Dir(version string) (string, error) {
	if v := os.Getenv(EnvVar); v != "" {
		return v, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(home, ".cache", "spicy", version), nil
}

// Ensure resolves the cache directory and creates it (and any missing
// parents) if absent. If creation fails, caching is silently disabled: a
// warning is logged via pkg/diag and an empty path is returned, letting a
// caller treat "" as "don't cache" rather than aborting the whole compile
// over a cache-directory permissions problem.
func Ensure(version string) string {
	dir, err := Dir(version)
	if err != nil {
		diag.Warnf("cache", nil, "could not resolve cache directory: %v", err)
		return ""
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		diag.Warnf("cache", nil, "could not create cache directory %q, disabling cache: %v", dir, err)
		return ""
	}

	return dir
}

// ArtifactPath returns the path a generated artifact named name would be
// cached at under dir (as returned by Ensure); dir == "" means caching is
// disabled and every lookup/store should be skipped.
func ArtifactPath(dir, name string) string {
	if dir == "" {
		return ""
	}

	return filepath.Join(dir, name)
}
