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
	"go/ast"
	"go/token"
	"go/types"

	"github.com/ualberta-smr/CryptoAnalysis/analysis/lang"
	"golang.org/x/tools/go/ast/astutil"
)

const flowSolverName = "flow"

// FlowEngine is the default engine. Predecessors are computed on the control-flow graph of each function, and queries
// are answered by an intra-procedural backward reaching definitions analysis with copy propagation through local
// variables. Definitions the analysis cannot see through (call results, tuple results, range variables, parameters,
// globals) are resolved by the points-to solver when the program has an SSA form. An opaque redefinition is resolved
// at the use of the variable, so earlier definitions it kills are never reported.
type FlowEngine struct {
	prog   *lang.Program
	graphs map[*lang.Function]*blockGraph
}

// NewFlowEngine returns a flow engine for the program.
func NewFlowEngine(prog *lang.Program) *FlowEngine {
	return &FlowEngine{prog: prog, graphs: map[*lang.Function]*blockGraph{}}
}

func (e *FlowEngine) graphOf(fn *lang.Function) *blockGraph {
	if g, ok := e.graphs[fn]; ok {
		return g
	}
	g := newBlockGraph(fn)
	e.graphs[fn] = g
	return g
}

// PredecessorsOf returns the control-flow predecessors of s in fn
func (e *FlowEngine) PredecessorsOf(fn *lang.Function, s lang.Stmt) []ast.Node {
	g := e.graphOf(fn)
	if _, ok := g.index[s.Node()]; !ok {
		return nil
	}
	preds := g.predecessors(s.Node())
	if len(preds) == 0 {
		return []ast.Node{fn.Type()}
	}
	return preds
}

// NewSolver returns a fresh flow solver
func (e *FlowEngine) NewSolver(opts Options) (Solver, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	s := &flowSolver{engine: e}
	if e.prog != nil && e.prog.SSA != nil {
		s.fallback = newPointerSolver(e.prog, opts)
	}
	return s, nil
}

type flowSolver struct {
	engine   *FlowEngine
	fallback *pointerSolver
}

// Solve returns the allocation sites reaching q.Value at q.Point. The first error of the fallback solver is returned
// only when no site could be found.
func (s *flowSolver) Solve(q BackwardQuery) (Results, error) {
	w := &walker{
		solver:  s,
		fn:      q.Function,
		graph:   s.engine.graphOf(q.Function),
		res:     Results{},
		visited: map[walkKey]bool{},
	}
	if q.Value.IsLocal() && q.Value.Obj != nil {
		if q.Point == ast.Node(q.Function.Type()) {
			w.reachedEntry(q.Value.Expr)
		} else if loc, ok := w.graph.index[q.Point]; ok {
			w.walk(q.Value.Obj, q.Value.Expr, loc.block, loc.node)
		}
	} else {
		w.resolveExpr(q.Value.Expr, -1, -1)
	}
	if len(w.res) == 0 && w.err != nil {
		return nil, w.err
	}
	return w.res, nil
}

type walkKey struct {
	obj   types.Object
	block int
	node  int
}

// walker holds the state of a single query.
type walker struct {
	solver  *flowSolver
	fn      *lang.Function
	graph   *blockGraph
	res     Results
	visited map[walkKey]bool
	err     error
}

// walk searches backwards for the definitions of obj reaching the node at index node of block, inclusive. use is an
// expression denoting obj, used to resolve obj with the fallback solver.
func (w *walker) walk(obj types.Object, use ast.Expr, block int, node int) {
	key := walkKey{obj: obj, block: block, node: node}
	if w.visited[key] {
		return
	}
	w.visited[key] = true
	nodes := w.graph.blocks[block].Nodes
	for i := node; i >= 0; i-- {
		if rhs, opaque, def := w.definition(nodes[i], obj); def {
			switch {
			case opaque:
				// resolved at the use, never at an earlier definition
				w.resolveFallback(use)
			case rhs != nil:
				w.resolveExpr(rhs, block, i-1)
			}
			return
		}
	}
	preds := w.graph.predBlocks(block)
	if len(preds) == 0 {
		w.reachedEntry(use)
		return
	}
	for _, p := range preds {
		w.walk(obj, use, p, len(w.graph.blocks[p].Nodes)-1)
	}
}

// definition returns whether n defines obj, and the expression assigned to obj. A declaration without value defines
// the zero value, and the returned expression is nil. A definition is opaque when obj receives a value that no single
// expression denotes: a tuple result, a compound assignment or a range variable.
func (w *walker) definition(n ast.Node, obj types.Object) (rhs ast.Expr, opaque bool, ok bool) {
	info := w.fn.Info()
	switch n := n.(type) {
	case *ast.AssignStmt:
		for i, lhs := range n.Lhs {
			id, isIdent := astutil.Unparen(lhs).(*ast.Ident)
			if !isIdent || lang.ObjectOf(info, id) != obj {
				continue
			}
			if (n.Tok == token.ASSIGN || n.Tok == token.DEFINE) && len(n.Lhs) == len(n.Rhs) {
				return n.Rhs[i], false, true
			}
			return nil, true, true
		}
	case *ast.ValueSpec:
		for i, id := range n.Names {
			if lang.ObjectOf(info, id) != obj {
				continue
			}
			if len(n.Values) == 0 {
				return nil, false, true
			}
			if len(n.Values) == len(n.Names) {
				return n.Values[i], false, true
			}
			return nil, true, true
		}
	case *ast.Ident:
		if w.graph.rangeVars[n] && lang.ObjectOf(info, n) == obj {
			return nil, true, true
		}
	}
	return nil, false, false
}

// resolveExpr adds the allocation sites of e to the results. Local variables are resolved by continuing the backward
// walk from the node at index node of block; a negative node continues in the predecessors of block.
func (w *walker) resolveExpr(e ast.Expr, block int, node int) {
	info := w.fn.Info()
	e = astutil.Unparen(e)
	switch x := e.(type) {
	case *ast.CompositeLit:
		w.addSite(x)
		return
	case *ast.UnaryExpr:
		if _, ok := astutil.Unparen(x.X).(*ast.CompositeLit); ok && x.Op == token.AND {
			w.addSite(x)
			return
		}
	case *ast.CallExpr:
		if isBuiltin(info, x.Fun, "new") {
			w.addSite(x)
			return
		}
		if tv, ok := info.Types[x.Fun]; ok && tv.IsType() && len(x.Args) == 1 {
			w.resolveExpr(x.Args[0], block, node)
			return
		}
	case *ast.Ident:
		if _, ok := info.Uses[x].(*types.Nil); ok {
			return
		}
		v := lang.NewValue(info, x)
		if v.IsLocal() && block >= 0 {
			w.walk(v.Obj, x, block, node)
			return
		}
	}
	w.resolveFallback(e)
}

// reachedEntry handles a variable that has no definition in the function: a parameter, a receiver or a captured
// variable.
func (w *walker) reachedEntry(use ast.Expr) {
	w.resolveFallback(use)
}

func (w *walker) resolveFallback(e ast.Expr) {
	if w.solver.fallback == nil {
		return
	}
	res, err := w.solver.fallback.sitesOf(w.fn, e)
	if err != nil {
		if w.err == nil {
			w.err = err
		}
		return
	}
	w.res.Merge(res)
}

func (w *walker) addSite(e ast.Expr) {
	site := AllocationSite{
		Value:    types.ExprString(e),
		Position: w.fn.Position(e.Pos()).String(),
	}
	if t := w.fn.Info().TypeOf(e); t != nil {
		site.Type = types.TypeString(t, nil)
	}
	w.res[site] = Context{Function: w.fn.String(), Solver: flowSolverName}
}

func isBuiltin(info *types.Info, fun ast.Expr, name string) bool {
	id, ok := astutil.Unparen(fun).(*ast.Ident)
	if !ok {
		return false
	}
	b, ok := info.Uses[id].(*types.Builtin)
	return ok && b.Name() == name
}
