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
package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/zeek/spicy-sub007/pkg/cache"
	"github.com/zeek/spicy-sub007/pkg/diag"
	"github.com/zeek/spicy-sub007/pkg/driver"
	"github.com/zeek/spicy-sub007/pkg/loader"
)

var compileCmd = &cobra.Command{
	Use:   "compile [flags] module.json",
	Short: "compile a module description into C++ translation units.",
	Long: `Runs the full driver pipeline (rebuild scopes, resolve to a fixed point,
unify types, build grammars, generate code, emit a linker translation unit)
over a module description and writes the resulting translation units to the
output directory.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := driver.DefaultConfig()
		cfg.Stdlib = !GetFlag(cmd, "no-stdlib")
		cfg.Debug = GetFlag(cmd, "debug")
		cfg.Strict = GetFlag(cmd, "strict")
		cfg.MaxRounds = int(GetUint(cmd, "max-rounds"))
		cfg.Runtime.FiberStackDepth = GetUint(cmd, "fiber-stack-depth")
		cfg.Runtime.RegexCacheCapacity = GetUint(cmd, "regex-cache-capacity")
		cfg.Runtime.SinkGapBufferLimit = uint64(GetUint(cmd, "sink-gap-limit"))

		output := GetString(cmd, "output")
		if output == "" {
			output = "."
			if !GetFlag(cmd, "no-cache") {
				output = cacheOutputDefault()
			}
		}

		f, err := os.Open(args[0])
		if err != nil {
			diag.Fatal("compile", nil, fmt.Sprintf("could not open %s: %v", args[0], err))
		}
		defer f.Close()

		mod, err := loader.Load(f)
		if err != nil {
			diag.Fatal("compile", nil, err.Error())
		}

		res, err := driver.New(cfg).Compile([]*driver.Module{mod})
		if err != nil {
			diag.Fatal("compile", nil, err.Error())
		}

		for _, e := range res.Errors {
			fmt.Fprintf(os.Stderr, "error: %s\n", e)
		}

		var forceColor *bool
		if GetFlag(cmd, "no-color") {
			off := false
			forceColor = &off
		}
		diag.NewPrinter(os.Stderr, forceColor).Print(&res.Diagnostics)

		if len(res.Errors) > 0 || res.Diagnostics.HasErrors() {
			os.Exit(1)
		}

		writeOutputs(res, output)
	},
}

func writeOutputs(res *driver.Result, output string) {
	if err := os.MkdirAll(output, 0o755); err != nil {
		diag.Fatal("compile", nil, fmt.Sprintf("could not create output directory %s: %v", output, err))
	}

	for name, src := range res.Sources {
		path := filepath.Join(output, name)
		if err := os.WriteFile(path, src, 0o644); err != nil {
			diag.Fatal("compile", nil, fmt.Sprintf("could not write %s: %v", path, err))
		}
	}

	if len(res.Linker) > 0 {
		path := filepath.Join(output, "linker.cc")
		if err := os.WriteFile(path, res.Linker, 0o644); err != nil {
			diag.Fatal("compile", nil, fmt.Sprintf("could not write %s: %v", path, err))
		}
	}

	fmt.Printf("wrote %d translation unit(s) to %s\n", len(res.Sources), output)
}

func init() {
	rootCmd.AddCommand(compileCmd)
	compileCmd.Flags().StringP("output", "o", "", "output directory for generated translation units (defaults to the artifact cache, or the current directory with --no-cache)")
	compileCmd.Flags().Uint("fiber-stack-depth", 1024, "maximum nested sub-unit parse depth before a fiber raises StackSizeExceeded (0 means unbounded)")
	compileCmd.Flags().Uint("regex-cache-capacity", 256, "maximum number of compiled regex patterns the runtime cache retains (0 means unbounded)")
	compileCmd.Flags().Uint("sink-gap-limit", 1<<20, "default byte ceiling a sink buffers across a reassembly gap before reporting it undelivered")
}

// cacheOutputDefault resolves a sensible default output directory lazily
// via pkg/cache so a bare `spicyc compile module.json` has somewhere to
// write without requiring -o on every invocation.
func cacheOutputDefault() string {
	if dir := cache.Ensure("dev"); dir != "" {
		return dir
	}

	return "."
}
