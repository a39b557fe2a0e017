// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package providers

import (
	"go/ast"
	"strings"

	"github.com/ualberta-smr/CryptoAnalysis/analysis/config"
	"github.com/ualberta-smr/CryptoAnalysis/analysis/lang"
)

const (
	conditionalMessage = "the provider parameter must be passed directly to the factory call, " +
		"and not through if-else statements"
	multiwayMessage = "the provider parameter must be passed directly to the factory call, " +
		"and not through switch statements"
)

// CheckGuards returns a diagnostic if a branch of fn mentions the provider value v. Two-way branches are checked
// before multi-way branches. The diagnostic has kind NoDiagnostic when no branch mentions v.
//
// With the default substring matching, a branch mentions v when the rendering of its head contains the rendering of
// v. With identifier matching, the head must contain an identifier denoting the same variable as v.
func CheckGuards(cfg *config.Config, fn *lang.Function, v lang.Value) Diagnostic {
	mentions := mentionsText
	if cfg.ProviderDetection.GuardMatch == config.GuardMatchIdentifier && v.Obj != nil {
		mentions = mentionsObject
	}
	for _, s := range fn.Stmts {
		if _, ok := s.(*lang.If); ok && mentions(fn, s, v) {
			return Diagnostic{Kind: AmbiguousConditional, Message: conditionalMessage, Pos: fn.Position(s.Pos())}
		}
	}
	for _, s := range fn.Stmts {
		if _, ok := s.(*lang.Switch); ok && mentions(fn, s, v) {
			return Diagnostic{Kind: AmbiguousMultiway, Message: multiwayMessage, Pos: fn.Position(s.Pos())}
		}
	}
	return Diagnostic{}
}

func mentionsText(_ *lang.Function, s lang.Stmt, v lang.Value) bool {
	text := v.String()
	return text != "" && strings.Contains(s.String(), text)
}

func mentionsObject(fn *lang.Function, s lang.Stmt, v lang.Value) bool {
	found := false
	for _, n := range branchHead(s.Node()) {
		ast.Inspect(n, func(n ast.Node) bool {
			if id, ok := n.(*ast.Ident); ok && lang.ObjectOf(fn.Info(), id) == v.Obj {
				found = true
			}
			_, isLit := n.(*ast.FuncLit)
			return !found && !isLit
		})
	}
	return found
}

// branchHead returns the parts of a branch statement that decide which branch is taken: the init statement, the
// condition or tag, and the case expressions.
func branchHead(n ast.Node) []ast.Node {
	var head []ast.Node
	add := func(nodes ...ast.Node) {
		for _, n := range nodes {
			if n != nil {
				head = append(head, n)
			}
		}
	}
	var body *ast.BlockStmt
	switch s := n.(type) {
	case *ast.IfStmt:
		add(s.Init, s.Cond)
	case *ast.SwitchStmt:
		add(s.Init, s.Tag)
		body = s.Body
	case *ast.TypeSwitchStmt:
		add(s.Init, s.Assign)
		body = s.Body
	}
	if body != nil {
		for _, c := range body.List {
			if cc, ok := c.(*ast.CaseClause); ok {
				for _, e := range cc.List {
					add(e)
				}
			}
		}
	}
	return head
}
