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

package lang

import (
	"bytes"
	"go/ast"
	"go/printer"
	"go/token"
	"go/types"
	"strings"
)

// renderNode prints a statement or a declaration on a single line.
func renderNode(fset *token.FileSet, n ast.Node) string {
	if n == nil {
		return ""
	}
	if e, ok := n.(ast.Expr); ok {
		return types.ExprString(e)
	}
	var buf bytes.Buffer
	if err := printer.Fprint(&buf, fset, n); err != nil {
		return ""
	}
	return strings.Join(strings.Fields(buf.String()), " ")
}

// renderValueSpec prints "var x, y = a, b" for a var declaration spec
func renderValueSpec(spec *ast.ValueSpec) string {
	var sb strings.Builder
	sb.WriteString("var ")
	for i, name := range spec.Names {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(name.Name)
	}
	if spec.Type != nil {
		sb.WriteString(" ")
		sb.WriteString(types.ExprString(spec.Type))
	}
	if len(spec.Values) > 0 {
		sb.WriteString(" = ")
		sb.WriteString(renderExprs(spec.Values))
	}
	return sb.String()
}

func renderExprs(exprs []ast.Expr) string {
	parts := make([]string, len(exprs))
	for i, e := range exprs {
		parts[i] = types.ExprString(e)
	}
	return strings.Join(parts, ", ")
}

// renderIfHead prints "if <init>; <cond>"
func renderIfHead(fset *token.FileSet, s *ast.IfStmt) string {
	var sb strings.Builder
	sb.WriteString("if ")
	if s.Init != nil {
		sb.WriteString(renderNode(fset, s.Init))
		sb.WriteString("; ")
	}
	sb.WriteString(types.ExprString(s.Cond))
	return sb.String()
}

// renderSwitchHead prints the head of an expression switch or a type switch, followed by the expressions of its
// cases: "switch <init>; <tag> { case a, b; case c; default }"
func renderSwitchHead(fset *token.FileSet, init ast.Stmt, tag ast.Node, body *ast.BlockStmt) string {
	var sb strings.Builder
	sb.WriteString("switch ")
	if init != nil {
		sb.WriteString(renderNode(fset, init))
		sb.WriteString("; ")
	}
	if tag != nil {
		sb.WriteString(renderNode(fset, tag))
		sb.WriteString(" ")
	}
	sb.WriteString("{")
	for i, s := range body.List {
		if i > 0 {
			sb.WriteString(";")
		}
		clause, ok := s.(*ast.CaseClause)
		if !ok {
			continue
		}
		if clause.List == nil {
			sb.WriteString(" default")
		} else {
			sb.WriteString(" case ")
			sb.WriteString(renderExprs(clause.List))
		}
	}
	sb.WriteString(" }")
	return sb.String()
}

// renderForHead prints "for <init>; <cond>; <post>"
func renderForHead(fset *token.FileSet, s *ast.ForStmt) string {
	var sb strings.Builder
	sb.WriteString("for")
	if s.Init != nil || s.Post != nil {
		sb.WriteString(" ")
		sb.WriteString(renderNode(fset, s.Init))
		sb.WriteString("; ")
		if s.Cond != nil {
			sb.WriteString(types.ExprString(s.Cond))
		}
		sb.WriteString("; ")
		sb.WriteString(renderNode(fset, s.Post))
	} else if s.Cond != nil {
		sb.WriteString(" ")
		sb.WriteString(types.ExprString(s.Cond))
	}
	return sb.String()
}

// renderRangeHead prints "for <key>, <value> := range <x>"
func renderRangeHead(s *ast.RangeStmt) string {
	var sb strings.Builder
	sb.WriteString("for ")
	if s.Key != nil {
		sb.WriteString(types.ExprString(s.Key))
		if s.Value != nil {
			sb.WriteString(", ")
			sb.WriteString(types.ExprString(s.Value))
		}
		sb.WriteString(" ")
		sb.WriteString(s.Tok.String())
		sb.WriteString(" ")
	}
	sb.WriteString("range ")
	sb.WriteString(types.ExprString(s.X))
	return sb.String()
}
