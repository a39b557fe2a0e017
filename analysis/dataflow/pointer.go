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

package dataflow

import (
	"fmt"
	"go/ast"
	"go/types"

	"github.com/ualberta-smr/CryptoAnalysis/analysis/lang"
	"golang.org/x/tools/go/pointer"
	"golang.org/x/tools/go/ssa"
	"golang.org/x/tools/go/ssa/ssautil"
)

const pointerSolverName = "pointer"

// PointerEngine answers queries with a flow-insensitive points-to analysis of the whole program. Predecessors are
// computed on control-flow graphs the same way as in the FlowEngine.
type PointerEngine struct {
	prog *lang.Program
	cfgs *FlowEngine
}

// NewPointerEngine returns a pointer engine for the program. The program must have an SSA form.
func NewPointerEngine(prog *lang.Program) *PointerEngine {
	return &PointerEngine{prog: prog, cfgs: NewFlowEngine(prog)}
}

// PredecessorsOf returns the control-flow predecessors of s in fn
func (e *PointerEngine) PredecessorsOf(fn *lang.Function, s lang.Stmt) []ast.Node {
	return e.cfgs.PredecessorsOf(fn, s)
}

// NewSolver returns a fresh points-to solver
func (e *PointerEngine) NewSolver(opts Options) (Solver, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	if e.prog == nil || e.prog.SSA == nil {
		return nil, fmt.Errorf("pointer engine requires a program in SSA form")
	}
	return newPointerSolver(e.prog, opts), nil
}

// pointerSolver runs one pointer analysis per queried SSA value. The program point of a query is ignored.
type pointerSolver struct {
	prog  *lang.Program
	opts  Options
	cache map[ssa.Value]Results
}

func newPointerSolver(prog *lang.Program, opts Options) *pointerSolver {
	return &pointerSolver{prog: prog, opts: opts, cache: map[ssa.Value]Results{}}
}

func (s *pointerSolver) Solve(q BackwardQuery) (Results, error) {
	return s.sitesOf(q.Function, q.Value.Expr)
}

// sitesOf returns the allocation sites the expression e of fn may point to.
func (s *pointerSolver) sitesOf(fn *lang.Function, e ast.Expr) (Results, error) {
	ssaFn := fn.SSA()
	if ssaFn == nil {
		return nil, fmt.Errorf("no SSA function for %s", fn)
	}
	v, isAddr := ssaFn.ValueForExpr(e)
	if v == nil {
		return nil, fmt.Errorf("no SSA value for %s at %s", types.ExprString(e), fn.Position(e.Pos()))
	}
	if res, ok := s.cache[v]; ok {
		return res, nil
	}
	if _, isConst := v.(*ssa.Const); isConst {
		return Results{}, nil
	}

	mains := ssautil.MainPackages(s.prog.SSA.AllPackages())
	if len(mains) == 0 {
		return nil, ErrNoMainPackage
	}
	pCfg := &pointer.Config{
		Mains:          mains,
		Reflection:     false,
		BuildCallGraph: s.opts.DiscoverCallGraph,
	}
	if !addQuery(pCfg, v, isAddr) {
		s.cache[v] = Results{}
		return s.cache[v], nil
	}

	result, err := pointer.Analyze(pCfg)
	if err != nil {
		return nil, fmt.Errorf("pointer analysis failed: %w", err)
	}
	ptr := result.Queries[v]
	if isAddr {
		ptr = result.IndirectQueries[v]
	}
	res := Results{}
	for _, label := range ptr.PointsTo().Labels() {
		res[s.siteOf(label)] = s.contextOf(label)
	}
	s.cache[v] = res
	return res, nil
}

// addQuery adds a query for v to the pointer configuration. If isAddr, v is the address of the queried expression and
// an indirect query is added. Returns false if the queried value cannot point.
func addQuery(cfg *pointer.Config, v ssa.Value, isAddr bool) bool {
	if v.Type() == nil {
		return false
	}
	if !isAddr {
		if !pointer.CanPoint(v.Type()) {
			return false
		}
		cfg.AddQuery(v)
		return true
	}
	ptrType, ok := v.Type().Underlying().(*types.Pointer)
	if !ok || !pointer.CanPoint(ptrType.Elem()) {
		return false
	}
	cfg.AddIndirectQuery(v)
	return true
}

// siteOf returns the allocation site of a label. Labels of interface boxing report the type and the position of the
// boxed value.
func (s *pointerSolver) siteOf(label *pointer.Label) AllocationSite {
	site := AllocationSite{Value: label.String()}
	pos := label.Pos()
	if val := label.Value(); val != nil {
		typ := val.Type()
		if mi, ok := val.(*ssa.MakeInterface); ok {
			typ = mi.X.Type()
			if !pos.IsValid() {
				pos = mi.X.Pos()
			}
		}
		if !pos.IsValid() {
			pos = val.Pos()
		}
		if !pos.IsValid() && val.Parent() != nil {
			pos = val.Parent().Pos()
		}
		site.Type = types.TypeString(typ, nil)
	}
	site.Position = s.prog.Fset.Position(pos).String()
	return site
}

func (s *pointerSolver) contextOf(label *pointer.Label) Context {
	ctx := Context{Solver: pointerSolverName}
	if val := label.Value(); val != nil && val.Parent() != nil {
		ctx.Function = val.Parent().String()
	}
	return ctx
}
