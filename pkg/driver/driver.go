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

// Package driver runs the module compilation pipeline (§4.8): rebuild
// scopes, resolve to a fixed point, validate, unify types, build grammars,
// generate code, and emit a linker translation unit.
package driver

import (
	"fmt"

	"github.com/zeek/spicy-sub007/pkg/ast"
	"github.com/zeek/spicy-sub007/pkg/codegen"
	"github.com/zeek/spicy-sub007/pkg/diag"
	"github.com/zeek/spicy-sub007/pkg/grammar"
	"github.com/zeek/spicy-sub007/pkg/runtime"
	"github.com/zeek/spicy-sub007/pkg/runtime/regexp"
	"github.com/zeek/spicy-sub007/pkg/scope"
)

// Config mirrors the teacher's CompilationConfig shape (flags threaded down
// from the CLI into the driver).
type Config struct {
	// Stdlib is set from the CLI's --no-stdlib flag. The pipeline does not
	// read it; no standard library module is imported either way.
	Stdlib bool
	// Debug is set from the CLI's --debug flag. The pipeline does not read
	// it; the generated procedures are the same either way.
	Debug bool
	// Strict skips code generation for every unit once any unit's grammar
	// build failed (e.g. on an ambiguous look-ahead); without it, code is
	// still generated for every unit whose grammar built.
	Strict bool
	// MaxRounds bounds the resolve-to-fixed-point loop (§4.8 step 3); the
	// compiler gives up and reports whatever errors remain once this many
	// rounds have run without the error count reaching zero or stabilizing.
	MaxRounds int
	// Runtime holds the process-wide runtime tunables (§E.3). New applies
	// RegexCacheCapacity to pkg/runtime/regexp once; FiberStackDepth and
	// SinkGapBufferLimit are only carried here for
	// fiber.ExecuteWithConfig/sink.NewWithConfig, which the pipeline itself
	// does not call.
	Runtime runtime.Configuration
}

// DefaultConfig returns the zero-value-safe defaults a CLI invocation
// without explicit flags gets.
func DefaultConfig() Config {
	return Config{Stdlib: true, MaxRounds: 8, Runtime: runtime.DefaultConfiguration()}
}

// Module is one source file's already-parsed AST plus the unit bodies it
// declared -- the input the driver's pipeline consumes (§4.8 "parse" is a
// front-end concern upstream of this package; the driver picks up from its
// output).
type Module struct {
	AST   *ast.Module
	Units []*ast.Unit
}

// Result collects everything a successful (or partially successful)
// compilation run produced.
type Result struct {
	Scopes      map[string]*scope.Scope
	Grammars    map[string]*grammar.Grammar
	Sources     map[string][]byte
	Linker      []byte
	// Errors are resolve/grammar/codegen failures raised by packages that
	// don't (yet) carry a source span of their own; Diagnostics is reserved
	// for the span-carrying kind a front end can attach once one exists.
	Errors      []error
	Diagnostics diag.Bag
}

// Driver runs the fixed-point compilation pipeline over a set of modules.
type Driver struct {
	cfg Config
}

// New constructs a Driver, applying cfg.Runtime's process-wide tunables
// once (§E.3) -- e.g. bounding pkg/runtime/regexp's compiled-pattern cache
// -- before any compilation work runs.
func New(cfg Config) *Driver {
	regexp.SetCacheCapacity(cfg.Runtime.RegexCacheCapacity)

	return &Driver{cfg}
}

// Compile runs the full pipeline over modules, returning whatever partial
// Result it managed to build even when errors were recorded -- a caller
// decides whether HasErrors()/len(Errors) warrants aborting the build.
func (d *Driver) Compile(modules []*Module) (*Result, error) {
	if len(modules) == 0 {
		return nil, fmt.Errorf("driver: no modules to compile")
	}

	res := &Result{
		Scopes:   map[string]*scope.Scope{},
		Grammars: map[string]*grammar.Grammar{},
		Sources:  map[string][]byte{},
	}

	byID := make(map[string]*ast.Module, len(modules))
	for _, m := range modules {
		byID[m.AST.UID.ID.String()] = m.AST
	}

	d.resolveToFixedPoint(modules, byID, res)
	d.unifyTypes(modules, res)

	if len(res.Errors) > 0 {
		// §4.8 step 4: validate pre-codegen. A module whose scope didn't
		// resolve or whose field types aren't fully resolved cannot safely
		// feed the grammar builder (it would misclassify a not-yet-typed
		// field as a scalar Literal), so codegen is skipped entirely.
		return res, nil
	}

	d.buildGrammars(modules, res)

	if d.cfg.Strict && len(res.Errors) > 0 {
		return res, nil
	}

	d.generateCode(modules, res)

	return res, nil
}

// resolveToFixedPoint re-runs scope.Resolve over every module until the
// total error count stops changing or MaxRounds is hit (§4.8 step 3),
// grounded on the teacher's fixed-point re-run-until-no-changes shape for
// inter-module resolution.
func (d *Driver) resolveToFixedPoint(modules []*Module, byID map[string]*ast.Module, res *Result) {
	prevErrCount := -1

	for round := 0; round < d.cfg.MaxRounds; round++ {
		var roundErrors []error

		for _, m := range modules {
			imported := importedModules(m.AST, byID)

			s, errs := scope.Resolve(m.AST, imported)
			res.Scopes[m.AST.UID.ID.String()] = s
			roundErrors = append(roundErrors, errs...)
		}

		diag.Debugf(diag.StreamResolver, "round %d: %d error(s)", round, len(roundErrors))

		if len(roundErrors) == prevErrCount {
			res.Errors = roundErrors
			return
		}

		prevErrCount = len(roundErrors)
		res.Errors = roundErrors
	}
}

func importedModules(mod *ast.Module, byID map[string]*ast.Module) map[string]*ast.Module {
	imported := make(map[string]*ast.Module, len(mod.Imports))

	for _, id := range mod.Imports {
		if im, ok := byID[id.String()]; ok {
			imported[id.String()] = im
		}
	}

	return imported
}

// unifyTypes checks every field declaration's type made it through
// resolution fully qualified (§4.8 step 5); it does not itself coerce any
// expression (pkg/operator and pkg/types.Coerce own that, invoked at
// expression-resolution time, not as a separate bulk pass).
func (d *Driver) unifyTypes(modules []*Module, res *Result) {
	for _, m := range modules {
		for _, unit := range m.Units {
			for _, item := range unit.Body {
				walkUnitItemTypes(unit.TypeID, item, res)
			}
		}
	}
}

func walkUnitItemTypes(unitType string, item ast.UnitItem, res *Result) {
	switch it := item.(type) {
	case *ast.UnitField:
		if it.Field.Type == nil || !it.Field.Type.IsResolved() {
			res.Errors = append(res.Errors,
				fmt.Errorf("driver: unit %q field %q has an unresolved type", unitType, it.Field.ID()))
		}
	case *ast.UnitSwitch:
		for _, c := range it.Cases {
			for _, sub := range c.Items {
				walkUnitItemTypes(unitType, sub, res)
			}
		}
	case *ast.UnitBlock:
		for _, sub := range it.Items {
			walkUnitItemTypes(unitType, sub, res)
		}
	}
}

// buildGrammars runs §4.8 step 6 over every declared unit, caching each
// result on its type name.
func (d *Driver) buildGrammars(modules []*Module, res *Result) {
	for _, m := range modules {
		for _, unit := range m.Units {
			diag.Debugf(diag.StreamGrammar, "building grammar for unit %q", unit.TypeID)

			g, err := grammar.BuildAndCache(unit)
			if err != nil {
				res.Errors = append(res.Errors, err)
				continue
			}

			res.Grammars[unit.TypeID] = g
		}
	}
}

// generateCode runs §4.8 steps 7-8: lower every finalized grammar to a
// Procedure, emit its translation unit, then emit one linker translation
// unit per module, appending each to Result.Linker.
func (d *Driver) generateCode(modules []*Module, res *Result) {
	for _, m := range modules {
		var units []codegen.LinkerUnit

		for _, unit := range m.Units {
			g, ok := res.Grammars[unit.TypeID]
			if !ok {
				continue
			}

			diag.Debugf(diag.StreamCodegen, "lowering unit %q", unit.TypeID)

			proc, err := codegen.Lower(unit, g)
			if err != nil {
				res.Errors = append(res.Errors, err)
				continue
			}

			out, err := codegen.Emit(proc)
			if err != nil {
				res.Errors = append(res.Errors, err)
				continue
			}

			file := unit.TypeID + ".cc"
			res.Sources[file] = out
			units = append(units, codegen.LinkerUnit{UnitType: unit.TypeID, SourceFile: file})
		}

		if len(units) == 0 {
			continue
		}

		linker, err := codegen.EmitLinker(m.AST.UID.ID.String(), units)
		if err != nil {
			res.Errors = append(res.Errors, err)
			continue
		}

		res.Linker = append(res.Linker, linker...)
	}
}
