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
	"go/constant"
	"go/types"

	"golang.org/x/tools/go/ast/astutil"
)

// Value is an expression of a function, with its static type.
type Value struct {
	// Expr is the expression, without parentheses
	Expr ast.Expr

	// Obj is the variable or constant denoted by Expr when Expr is an identifier, nil otherwise
	Obj types.Object

	// Type is the static type of the expression. It can be nil when type information is missing.
	Type types.Type

	// Const is the value of the expression when it is a constant expression, nil otherwise
	Const constant.Value
}

// NewValue returns the value of the expression e, using the type information of info.
func NewValue(info *types.Info, e ast.Expr) Value {
	e = astutil.Unparen(e)
	v := Value{Expr: e}
	if tv, ok := info.Types[e]; ok {
		v.Type = tv.Type
		v.Const = tv.Value
	}
	if id, ok := e.(*ast.Ident); ok {
		v.Obj = ObjectOf(info, id)
		if v.Type == nil && v.Obj != nil {
			v.Type = v.Obj.Type()
		}
	}
	return v
}

// ObjectOf returns the variable or constant an identifier denotes, either as a use or as a definition.
func ObjectOf(info *types.Info, id *ast.Ident) types.Object {
	obj := info.Uses[id]
	if obj == nil {
		obj = info.Defs[id]
	}
	switch obj.(type) {
	case *types.Var, *types.Const:
		return obj
	}
	return nil
}

// String returns the textual rendering of the value
func (v Value) String() string {
	if v.Expr == nil {
		return ""
	}
	return types.ExprString(v.Expr)
}

// TypeString returns the textual rendering of the static type of the value
func (v Value) TypeString() string {
	if v.Type == nil {
		return ""
	}
	return types.TypeString(v.Type, nil)
}

// Same returns true if v and w denote the same variable. Values that are not identifiers of variables are compared by
// their textual rendering.
func (v Value) Same(w Value) bool {
	if v.Obj != nil || w.Obj != nil {
		return v.Obj == w.Obj
	}
	return v.String() == w.String()
}

// IsLocal returns true if the value is a variable declared inside a function.
func (v Value) IsLocal() bool {
	obj, ok := v.Obj.(*types.Var)
	if !ok || obj.IsField() || obj.Parent() == nil {
		return false
	}
	return obj.Pkg() == nil || obj.Parent() != obj.Pkg().Scope()
}

// IsString returns true if the static type of the value is a string type
func (v Value) IsString() bool {
	if v.Type == nil {
		return false
	}
	b, ok := v.Type.Underlying().(*types.Basic)
	return ok && b.Info()&types.IsString != 0
}
