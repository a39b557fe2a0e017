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
	"fmt"
	"go/ast"
	"go/token"
	"go/types"
	"sort"

	"golang.org/x/tools/go/ssa"
)

// NewProgram returns the program made of the packages provided, in the order provided.
func NewProgram(fset *token.FileSet, prog *ssa.Program, pkgs []*Package) *Program {
	return &Program{Fset: fset, SSA: prog, Packages: pkgs}
}

// NewPackage builds the statement representation of a type-checked package. The files are sorted by file name, and
// ssaPkg may be nil.
func NewPackage(fset *token.FileSet, pkg *types.Package, info *types.Info, files []*ast.File,
	ssaPkg *ssa.Package) *Package {
	sorted := make([]*ast.File, len(files))
	copy(sorted, files)
	sort.SliceStable(sorted, func(i, j int) bool {
		return fset.Position(sorted[i].Package).Filename < fset.Position(sorted[j].Package).Filename
	})

	p := &Package{
		Path:  pkg.Path(),
		Types: pkg,
		Info:  info,
		SSA:   ssaPkg,
		Files: sorted,
		fset:  fset,
	}
	for _, file := range sorted {
		for _, decl := range file.Decls {
			fd, ok := decl.(*ast.FuncDecl)
			if !ok || fd.Body == nil {
				continue
			}
			name := fd.Name.Name
			if fd.Recv != nil && len(fd.Recv.List) > 0 {
				name = fmt.Sprintf("(%s).%s", types.ExprString(fd.Recv.List[0].Type), name)
			}
			p.Functions = append(p.Functions, p.newFunction(name, file, fd, fd.Body))
			p.Functions = append(p.Functions, p.functionLiterals(name, file, fd.Body)...)
		}
	}
	return p
}

// functionLiterals returns the functions of all the function literals in body, in source order, at any depth.
func (p *Package) functionLiterals(parent string, file *ast.File, body *ast.BlockStmt) []*Function {
	var res []*Function
	ast.Inspect(body, func(n ast.Node) bool {
		if lit, ok := n.(*ast.FuncLit); ok {
			name := fmt.Sprintf("%s$%d", parent, len(res)+1)
			res = append(res, p.newFunction(name, file, lit, lit.Body))
		}
		return true
	})
	return res
}

func (p *Package) newFunction(name string, file *ast.File, syntax ast.Node, body *ast.BlockStmt) *Function {
	b := &builder{fset: p.fset}
	b.stmtList(body.List)
	return &Function{
		Name:    name,
		Package: p,
		File:    file,
		Syntax:  syntax,
		Body:    body,
		Stmts:   b.stmts,
	}
}

// builder flattens the statements of a function body in source order
type builder struct {
	fset  *token.FileSet
	stmts []Stmt
}

func (b *builder) stmtList(list []ast.Stmt) {
	for _, s := range list {
		b.stmt(s)
	}
}

func (b *builder) other(s ast.Stmt) {
	b.stmts = append(b.stmts, &Other{stmtBase{node: s, text: renderNode(b.fset, s)}})
}

func (b *builder) otherWithText(s ast.Stmt, text string) {
	b.stmts = append(b.stmts, &Other{stmtBase{node: s, text: text}})
}

//gocyclo:ignore
func (b *builder) stmt(s ast.Stmt) {
	if s == nil {
		return
	}
	switch s := s.(type) {
	case *ast.BlockStmt:
		b.stmtList(s.List)
	case *ast.AssignStmt:
		b.stmts = append(b.stmts, &Assign{
			stmtBase: stmtBase{node: s, text: renderNode(b.fset, s)},
			Lhs:      s.Lhs,
			Rhs:      s.Rhs,
			Tok:      s.Tok,
		})
	case *ast.DeclStmt:
		gd, ok := s.Decl.(*ast.GenDecl)
		if !ok || gd.Tok != token.VAR {
			b.other(s)
			return
		}
		for _, spec := range gd.Specs {
			vs, ok := spec.(*ast.ValueSpec)
			if !ok {
				continue
			}
			lhs := make([]ast.Expr, len(vs.Names))
			for i, name := range vs.Names {
				lhs[i] = name
			}
			b.stmts = append(b.stmts, &Assign{
				stmtBase: stmtBase{node: vs, text: renderValueSpec(vs)},
				Lhs:      lhs,
				Rhs:      vs.Values,
				Tok:      token.VAR,
			})
		}
	case *ast.IfStmt:
		b.stmt(s.Init)
		b.stmts = append(b.stmts, &If{
			stmtBase: stmtBase{node: s, text: renderIfHead(b.fset, s)},
			Cond:     s.Cond,
		})
		b.stmt(s.Body)
		b.stmt(s.Else)
	case *ast.SwitchStmt:
		b.stmt(s.Init)
		var tag ast.Node
		if s.Tag != nil {
			tag = s.Tag
		}
		b.stmts = append(b.stmts, &Switch{stmtBase{node: s, text: renderSwitchHead(b.fset, s.Init, tag, s.Body)}})
		b.clauses(s.Body)
	case *ast.TypeSwitchStmt:
		b.stmt(s.Init)
		b.stmts = append(b.stmts, &Switch{stmtBase{node: s, text: renderSwitchHead(b.fset, s.Init, s.Assign, s.Body)}})
		b.clauses(s.Body)
	case *ast.ForStmt:
		b.stmt(s.Init)
		b.otherWithText(s, renderForHead(b.fset, s))
		b.stmt(s.Body)
		b.stmt(s.Post)
	case *ast.RangeStmt:
		b.otherWithText(s, renderRangeHead(s))
		b.stmt(s.Body)
	case *ast.SelectStmt:
		b.otherWithText(s, "select")
		for _, c := range s.Body.List {
			if cc, ok := c.(*ast.CommClause); ok {
				b.stmt(cc.Comm)
				b.stmtList(cc.Body)
			}
		}
	case *ast.LabeledStmt:
		b.stmt(s.Stmt)
	default:
		b.other(s)
	}
}

func (b *builder) clauses(body *ast.BlockStmt) {
	for _, c := range body.List {
		if cc, ok := c.(*ast.CaseClause); ok {
			b.stmtList(cc.Body)
		}
	}
}
