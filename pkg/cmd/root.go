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

// Package cmd wires the spicyc command-line toolchain: a cobra root command
// plus one subcommand per top-level operation (compile, batch), grounded on
// pkg/cmd/root.go's rootCmd/Version/PersistentFlags shape.
package cmd

import (
	"fmt"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/zeek/spicy-sub007/pkg/diag"
)

// Version is filled when building with make, but *not* when installing via
// "go install".
var Version string

var rootCmd = &cobra.Command{
	Use:   "spicyc",
	Short: "A compiler for the HILTI/Spicy wire-format parser-generator language.",
	Long:  "A compiler (and reference batch driver) for the HILTI/Spicy wire-format parser-generator language.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		diag.SetVerbose(GetFlag(cmd, "verbose"))

		for _, stream := range GetStringArray(cmd, "debug-stream") {
			diag.EnableDebugStream(stream, true)
		}
	},
	Run: func(cmd *cobra.Command, args []string) {
		if GetFlag(cmd, "version") {
			fmt.Print("spicyc ")

			if Version != "" {
				fmt.Printf("%s", Version)
			} else if info, ok := debug.ReadBuildInfo(); ok {
				fmt.Printf("%s", info.Main.Version)
			} else {
				fmt.Printf("(unknown version)")
			}

			fmt.Println()

			return
		}

		_ = cmd.Help()
	},
}

// Execute adds all child commands to the root command and sets flags
// appropriately. Called once by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().Bool("version", false, "print version and exit")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "increase logging verbosity")
	rootCmd.PersistentFlags().Bool("debug", false, "set the driver's Debug option (the generated code is the same either way)")
	rootCmd.PersistentFlags().Bool("no-stdlib", false, "clear the driver's Stdlib option (no standard library module is imported either way)")
	rootCmd.PersistentFlags().Bool("strict", false, "reject a module whose grammar build reported any ambiguity")
	rootCmd.PersistentFlags().Uint("max-rounds", 8, "bound the resolve-to-fixed-point loop")
	rootCmd.PersistentFlags().Bool("no-color", false, "disable ANSI color in diagnostic output")
	rootCmd.PersistentFlags().Bool("no-cache", false, "bypass the artifact cache entirely")
	rootCmd.PersistentFlags().StringArray("debug-stream", nil, "enable a named debug stream (resolver, grammar, codegen, fiber); repeatable")
}
