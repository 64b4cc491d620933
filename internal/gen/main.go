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

// Command gen drives the repo's bavard-based source generators: today, just
// the Tag.String() dispatch table in pkg/ast, kept in sync with node.go's
// Tag constant list by hand (bavard has no way to introspect a const block,
// so tags added there must be added to the list below too).
package main

import (
	"fmt"
	"os"
	"os/exec"
	"slices"
	"strings"

	"github.com/consensys/bavard"
)

const copyrightHolder = "Consensys Software Inc."

//go:generate go run main.go
func main() {
	bgen := bavard.NewBatchGenerator(copyrightHolder, 2025, "spicy-sub007")

	cfg := struct{ Tags []string }{Tags: tagNames}

	assertNoError(bgen.Generate(cfg, "ast", "templates",
		bavard.Entry{
			File:      "../../pkg/ast/tag_string.go",
			Templates: []string{"tag_string.go.tmpl"},
			BuildTag:  "",
		},
	), "generating tag_string.go")

	runCmd("gofmt", "-w", "../../pkg/ast/tag_string.go")
}

var tagNames = []string{
	"Module", "TypeDecl", "ConstantDecl", "GlobalVariableDecl", "LocalVariableDecl",
	"ParameterDecl", "ImportedModuleDecl", "FunctionDecl", "FieldDecl", "HookDecl",
	"PropertyDecl", "ExpressionDecl", "BlockStmt", "IfStmt", "WhileStmt", "ForEachStmt",
	"TryStmt", "ReturnStmt", "YieldStmt", "AssertStmt", "ExprStmt", "IdentifierExpr",
	"MemberExpr", "CallExpr", "MemberCallExpr", "UnresolvedOperatorExpr",
	"ResolvedOperatorExpr", "LiteralCtor", "TupleCtor", "VectorCtor", "StructCtor",
	"UnqualifiedType", "QualifiedType", "Unit", "UnitField", "UnitSwitch", "UnitBlock",
}

func runCmd(name string, arg ...string) {
	fmt.Println(name, strings.Join(arg, " "))
	cmd := exec.Command(name, arg...)
	cmd.Stdout, cmd.Stderr = os.Stdout, os.Stderr
	assertNoError(cmd.Run(), "")
}

func assertNoError(err error, contextAndArgs ...any) {
	if err != nil {
		msg := err.Error()

		if len(contextAndArgs) > 0 {
			allArgs := append(slices.Clone(contextAndArgs[1:]), err)
			msg = fmt.Sprintf(contextAndArgs[0].(string)+": %v", allArgs...)
		}

		fmt.Println(msg)
		os.Exit(1)
	}
}
