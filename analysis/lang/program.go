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

// Package lang provides the statement representation of the programs analyzed by the provider detection.
//
// A program is a list of packages, a package is a list of functions and a function is a flat list of statements in
// source order. Statements are a closed set of kinds: assignments, two-way branches, multi-way branches and every
// other statement. The representation is built from type-checked Go syntax and keeps pointers to the syntax, the type
// information and the SSA form of each function.
package lang

import (
	"fmt"
	"go/ast"
	"go/token"
	"go/types"

	"golang.org/x/tools/go/ast/astutil"
	"golang.org/x/tools/go/ssa"
)

// Program is the statement representation of the application packages of a program.
type Program struct {
	// Fset is the file set of all the files of the program
	Fset *token.FileSet

	// SSA is the SSA form of the whole program. It can be nil if the program has been built without SSA.
	SSA *ssa.Program

	// Packages are the application packages, in enumeration order
	Packages []*Package
}

// Functions returns all the functions of the program, in enumeration order
func (p *Program) Functions() []*Function {
	var res []*Function
	for _, pkg := range p.Packages {
		res = append(res, pkg.Functions...)
	}
	return res
}

// Package is an application package.
type Package struct {
	// Path is the import path of the package
	Path string

	// Types is the type-checked package
	Types *types.Package

	// Info is the type information of the package's syntax
	Info *types.Info

	// SSA is the SSA package, if SSA has been built
	SSA *ssa.Package

	// Files are the syntax trees of the package, sorted by file name
	Files []*ast.File

	// Functions are the functions with a body, in file order then declaration order. Function literals are placed
	// right after the function that contains them.
	Functions []*Function

	fset *token.FileSet
}

// Function is a function with a body: either a function declaration or a function literal.
type Function struct {
	// Name is the name of the function. Function literals are named after their enclosing function declaration with
	// a $n suffix.
	Name string

	// Package is the package of the function
	Package *Package

	// File is the file containing the function
	File *ast.File

	// Syntax is either a *ast.FuncDecl or a *ast.FuncLit
	Syntax ast.Node

	// Body is the body of the function
	Body *ast.BlockStmt

	// Stmts are the statements of the body in source order. Bodies of function literals are not included.
	Stmts []Stmt

	ssaFunction *ssa.Function
}

// Info returns the type information of the function's package
func (f *Function) Info() *types.Info {
	return f.Package.Info
}

// Type returns the syntax of the function's signature
func (f *Function) Type() *ast.FuncType {
	switch fn := f.Syntax.(type) {
	case *ast.FuncDecl:
		return fn.Type
	case *ast.FuncLit:
		return fn.Type
	}
	return nil
}

// Position returns the position of pos in the file set of the function
func (f *Function) Position(pos token.Pos) token.Position {
	return f.Package.fset.Position(pos)
}

// SSA returns the SSA function corresponding to the function, or nil if there is none.
func (f *Function) SSA() *ssa.Function {
	if f.ssaFunction != nil || f.Package.SSA == nil {
		return f.ssaFunction
	}
	path, _ := astutil.PathEnclosingInterval(f.File, f.Body.Pos(), f.Body.End())
	f.ssaFunction = ssa.EnclosingFunction(f.Package.SSA, path)
	return f.ssaFunction
}

func (f *Function) String() string {
	return fmt.Sprintf("%s.%s", f.Package.Path, f.Name)
}

// IndexOf returns the index of the statement whose syntax is n in the function, or -1 if there is none.
func (f *Function) IndexOf(n ast.Node) int {
	for i, s := range f.Stmts {
		if s.Node() == n {
			return i
		}
	}
	return -1
}
