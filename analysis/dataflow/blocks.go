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
	"go/types"

	"github.com/ualberta-smr/CryptoAnalysis/analysis/lang"
	"github.com/yourbasic/graph"
	"golang.org/x/exp/slices"
	"golang.org/x/tools/go/cfg"
	"gonum.org/v1/gonum/graph/simple"
)

// nodeLoc is the location of a node in a control-flow graph: the index of its block and its index in the block.
type nodeLoc struct {
	block int
	node  int
}

// blockGraph is the control-flow graph of a function, indexed for backward traversals.
type blockGraph struct {
	blocks []*cfg.Block

	// preds is the block graph. Self loops are kept in selfLoops since simple graphs do not allow them.
	preds     *simple.DirectedGraph
	selfLoops map[int]bool

	// reachable are the blocks reachable from the entry block
	reachable map[int]bool

	// index locates every node of the blocks
	index map[ast.Node]nodeLoc

	// rangeVars are the key and value expressions of range statements
	rangeVars map[ast.Expr]bool
}

// succIterator exposes the successor relation of the blocks as a graph.Iterator
type succIterator []*cfg.Block

func (s succIterator) Order() int { return len(s) }

func (s succIterator) Visit(v int, do func(w int, c int64) bool) bool {
	for _, succ := range s[v].Succs {
		if do(int(succ.Index), 0) {
			return true
		}
	}
	return false
}

func newBlockGraph(fn *lang.Function) *blockGraph {
	info := fn.Info()
	g := cfg.New(fn.Body, func(call *ast.CallExpr) bool { return !isPanic(info, call) })
	bg := &blockGraph{
		blocks:    g.Blocks,
		preds:     simple.NewDirectedGraph(),
		selfLoops: map[int]bool{},
		reachable: map[int]bool{},
		index:     map[ast.Node]nodeLoc{},
		rangeVars: map[ast.Expr]bool{},
	}
	for _, b := range g.Blocks {
		bg.preds.AddNode(simple.Node(b.Index))
	}
	for _, b := range g.Blocks {
		for i, n := range b.Nodes {
			bg.index[n] = nodeLoc{block: int(b.Index), node: i}
		}
		for _, succ := range b.Succs {
			if succ.Index == b.Index {
				bg.selfLoops[int(b.Index)] = true
				continue
			}
			bg.preds.SetEdge(bg.preds.NewEdge(simple.Node(b.Index), simple.Node(succ.Index)))
		}
	}
	if len(g.Blocks) > 0 {
		bg.reachable[0] = true
		graph.BFS(succIterator(g.Blocks), 0, func(_, w int, _ int64) { bg.reachable[w] = true })
	}
	ast.Inspect(fn.Body, func(n ast.Node) bool {
		switch n := n.(type) {
		case *ast.FuncLit:
			return false
		case *ast.RangeStmt:
			if n.Key != nil {
				bg.rangeVars[n.Key] = true
			}
			if n.Value != nil {
				bg.rangeVars[n.Value] = true
			}
		}
		return true
	})
	return bg
}

// predBlocks returns the reachable predecessors of block b, sorted by index.
func (bg *blockGraph) predBlocks(b int) []int {
	var res []int
	it := bg.preds.To(int64(b))
	for it.Next() {
		if p := int(it.Node().ID()); bg.reachable[p] {
			res = append(res, p)
		}
	}
	if bg.selfLoops[b] {
		res = append(res, b)
	}
	slices.Sort(res)
	return res
}

// predecessors returns the nodes that immediately precede n. Empty blocks are traversed. The result is empty when n is
// not in the graph or when n is the first node of the function.
func (bg *blockGraph) predecessors(n ast.Node) []ast.Node {
	loc, ok := bg.index[n]
	if !ok {
		return nil
	}
	if loc.node > 0 {
		return []ast.Node{bg.blocks[loc.block].Nodes[loc.node-1]}
	}
	var res []ast.Node
	visited := map[int]bool{}
	var visit func(b int)
	visit = func(b int) {
		for _, p := range bg.predBlocks(b) {
			if visited[p] {
				continue
			}
			visited[p] = true
			if nodes := bg.blocks[p].Nodes; len(nodes) > 0 {
				res = append(res, nodes[len(nodes)-1])
			} else {
				visit(p)
			}
		}
	}
	visit(loc.block)
	return res
}

func isPanic(info *types.Info, call *ast.CallExpr) bool {
	id, ok := call.Fun.(*ast.Ident)
	if !ok {
		return false
	}
	b, ok := info.Uses[id].(*types.Builtin)
	return ok && b.Name() == "panic"
}
