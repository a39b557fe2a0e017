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
	"go/ast"
	"go/token"

	"golang.org/x/tools/go/ast/astutil"
)

// Stmt is a statement of a function. The set of statement kinds is closed: *Assign, *If, *Switch and *Other.
type Stmt interface {
	// Node returns the syntax of the statement. For variable declarations, this is the *ast.ValueSpec.
	Node() ast.Node

	// Pos returns the position of the statement
	Pos() token.Pos

	// String returns the textual rendering of the statement. Branches are rendered by their head only.
	String() string

	stmt()
}

type stmtBase struct {
	node ast.Node
	text string
}

func (s stmtBase) Node() ast.Node { return s.node }
func (s stmtBase) Pos() token.Pos { return s.node.Pos() }
func (s stmtBase) String() string { return s.text }
func (s stmtBase) stmt()          {}

// Assign is an assignment or a variable declaration. For declarations without values, Rhs is empty.
type Assign struct {
	stmtBase
	// Lhs are the assigned expressions
	Lhs []ast.Expr
	// Rhs are the assigned values. When there is a single value on the right for several expressions on the left,
	// Rhs has length one.
	Rhs []ast.Expr
	// Tok is the assignment token (token.ASSIGN, token.DEFINE, an operation-assignment token, or token.VAR)
	Tok token.Token
}

// Call returns the call expression on the right of the assignment, if the right-hand side is a single call.
func (a *Assign) Call() (*ast.CallExpr, bool) {
	if len(a.Rhs) != 1 {
		return nil, false
	}
	call, ok := astutil.Unparen(a.Rhs[0]).(*ast.CallExpr)
	return call, ok
}

// ValueOf returns the expression assigned to the i-th left-hand side expression. It returns false if that value is
// not an expression of its own, e.g. it is an element of a tuple returned by a call, or the assignment has no value.
func (a *Assign) ValueOf(i int) (ast.Expr, bool) {
	if i < 0 || i >= len(a.Lhs) || len(a.Rhs) != len(a.Lhs) {
		return nil, false
	}
	if a.Tok != token.ASSIGN && a.Tok != token.DEFINE && a.Tok != token.VAR {
		return nil, false
	}
	return a.Rhs[i], true
}

// If is a two-way conditional branch. It is rendered as "if <init>; <cond>".
type If struct {
	stmtBase
	// Cond is the condition of the branch
	Cond ast.Expr
}

// Switch is a multi-way branch: an expression switch or a type switch. It is rendered as its head followed by the
// expressions of all its cases.
type Switch struct {
	stmtBase
}

// Other is any statement that is neither an assignment nor a branch
type Other struct {
	stmtBase
}
