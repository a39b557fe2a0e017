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

package dataflow_test

import (
	"errors"
	"go/ast"
	"strings"
	"testing"

	"github.com/ualberta-smr/CryptoAnalysis/analysis/dataflow"
	"github.com/ualberta-smr/CryptoAnalysis/analysis/lang"
	"golang.org/x/exp/maps"
)

const program = `package main

type Provider interface{ Name() string }

type BouncyCastleProvider struct{}

func (p *BouncyCastleProvider) Name() string { return "BC" }

type SunProvider struct{}

func (p SunProvider) Name() string { return "SUN" }

func GetInstance(alg string, p Provider) string { return alg }

func newProvider() Provider { return &BouncyCastleProvider{} }

func direct() {
	p := &BouncyCastleProvider{}
	q := p
	c := GetInstance("AES", q)
	_ = c
}

func branches(b bool) {
	var p Provider
	if b {
		p = &BouncyCastleProvider{}
	} else {
		p = SunProvider{}
	}
	c := GetInstance("AES", p)
	_ = c
}

func loop(n int) {
	var p Provider = SunProvider{}
	for i := 0; i < n; i++ {
		p = &BouncyCastleProvider{}
	}
	c := GetInstance("AES", p)
	_ = c
}

func viaCall() {
	p := newProvider()
	c := GetInstance("AES", p)
	_ = c
}

func viaParam(p Provider) {
	c := GetInstance("AES", p)
	_ = c
}

func makeSun() (Provider, error) { return SunProvider{}, nil }

func tupleRedefinition() {
	var p Provider = &BouncyCastleProvider{}
	p, err := makeSun()
	c := GetInstance("AES", p)
	_, _ = c, err
}

func rangeRedefinition(ps []Provider) {
	var p Provider = &BouncyCastleProvider{}
	for _, p = range ps {
	}
	c := GetInstance("AES", p)
	_ = c
}

func main() {
	tupleRedefinition()
	rangeRedefinition([]Provider{SunProvider{}})
	direct()
	branches(true)
	loop(1)
	viaCall()
	viaParam(new(BouncyCastleProvider))
}
`

func loadProgram(t *testing.T) *lang.Program {
	prog, err := lang.LoadSource("example.com/app", map[string]string{"main.go": program})
	if err != nil {
		t.Fatalf("failed to load program: %v", err)
	}
	return prog
}

// callSite returns the function named name, the statement calling GetInstance in it and the provider argument.
func callSite(t *testing.T, prog *lang.Program, name string) (*lang.Function, lang.Stmt, lang.Value) {
	for _, fn := range prog.Functions() {
		if fn.Name != name {
			continue
		}
		for _, s := range fn.Stmts {
			a, ok := s.(*lang.Assign)
			if !ok {
				continue
			}
			if call, ok := a.Call(); ok && calleeName(call) == "GetInstance" {
				return fn, s, lang.NewValue(fn.Info(), call.Args[1])
			}
		}
		t.Fatalf("no call site in %s", name)
	}
	t.Fatalf("function %s not found", name)
	return nil, nil, lang.Value{}
}

func calleeName(call *ast.CallExpr) string {
	if id, ok := call.Fun.(*ast.Ident); ok {
		return id.Name
	}
	return ""
}

func solveAll(t *testing.T, e dataflow.Engine, fn *lang.Function, s lang.Stmt, v lang.Value) dataflow.Results {
	solver, err := e.NewSolver(dataflow.Options{})
	if err != nil {
		t.Fatalf("failed to create solver: %v", err)
	}
	res := dataflow.Results{}
	for _, pred := range e.PredecessorsOf(fn, s) {
		r, err := solver.Solve(dataflow.BackwardQuery{Function: fn, Point: pred, Value: v})
		if err != nil {
			t.Fatalf("query from %v failed: %v", pred, err)
		}
		res.Merge(r)
	}
	return res
}

func siteTypes(res dataflow.Results) []string {
	var typs []string
	for _, site := range maps.Keys(res) {
		typs = append(typs, site.Type)
	}
	return typs
}

func expectSites(t *testing.T, res dataflow.Results, typeNames ...string) {
	t.Helper()
	if len(res) != len(typeNames) {
		t.Fatalf("expected %d sites, got %v", len(typeNames), res)
	}
	for _, name := range typeNames {
		found := false
		for _, typ := range siteTypes(res) {
			found = found || strings.HasSuffix(typ, name)
		}
		if !found {
			t.Errorf("expected a site of type %s in %v", name, siteTypes(res))
		}
	}
}

func TestPredecessorsOfFirstStatement(t *testing.T) {
	prog := loadProgram(t)
	e := dataflow.NewFlowEngine(prog)
	fn, _, _ := callSite(t, prog, "direct")
	preds := e.PredecessorsOf(fn, fn.Stmts[0])
	if len(preds) != 1 || preds[0] != ast.Node(fn.Type()) {
		t.Errorf("expected function entry as predecessor, got %v", preds)
	}
}

func TestPredecessorsSequential(t *testing.T) {
	prog := loadProgram(t)
	e := dataflow.NewFlowEngine(prog)
	fn, s, _ := callSite(t, prog, "direct")
	preds := e.PredecessorsOf(fn, s)
	if len(preds) != 1 || preds[0] != fn.Stmts[1].Node() {
		t.Errorf("expected %q as predecessor, got %v", fn.Stmts[1], preds)
	}
}

func TestPredecessorsJoin(t *testing.T) {
	prog := loadProgram(t)
	e := dataflow.NewFlowEngine(prog)
	fn, s, _ := callSite(t, prog, "branches")
	preds := e.PredecessorsOf(fn, s)
	if len(preds) != 2 {
		t.Fatalf("expected 2 predecessors, got %d", len(preds))
	}
	for _, pred := range preds {
		if _, ok := pred.(*ast.AssignStmt); !ok {
			t.Errorf("expected assignment predecessor, got %T", pred)
		}
	}
}

func TestPredecessorsLoop(t *testing.T) {
	prog := loadProgram(t)
	e := dataflow.NewFlowEngine(prog)
	fn, s, _ := callSite(t, prog, "loop")
	preds := e.PredecessorsOf(fn, s)
	if len(preds) != 1 {
		t.Fatalf("expected 1 predecessor, got %d", len(preds))
	}
	if _, ok := preds[0].(*ast.BinaryExpr); !ok {
		t.Errorf("expected loop condition as predecessor, got %T", preds[0])
	}
}

func TestFlowCopyPropagation(t *testing.T) {
	prog := loadProgram(t)
	fn, s, v := callSite(t, prog, "direct")
	res := solveAll(t, dataflow.NewFlowEngine(prog), fn, s, v)
	expectSites(t, res, "*example.com/app.BouncyCastleProvider")
	for site, ctx := range res {
		if site.Value != "&BouncyCastleProvider{}" {
			t.Errorf("unexpected site value %q", site.Value)
		}
		if ctx.Solver != "flow" || ctx.Function != "example.com/app.direct" {
			t.Errorf("unexpected context %+v", ctx)
		}
	}
}

func TestFlowBranches(t *testing.T) {
	prog := loadProgram(t)
	e := dataflow.NewFlowEngine(prog)
	fn, s, v := callSite(t, prog, "branches")
	solver, err := e.NewSolver(dataflow.Options{})
	if err != nil {
		t.Fatal(err)
	}
	for _, pred := range e.PredecessorsOf(fn, s) {
		res, err := solver.Solve(dataflow.BackwardQuery{Function: fn, Point: pred, Value: v})
		if err != nil {
			t.Fatal(err)
		}
		if len(res) != 1 {
			t.Errorf("expected one site per branch, got %v", res)
		}
	}
	expectSites(t, solveAll(t, e, fn, s, v), "BouncyCastleProvider", "SunProvider")
}

func TestFlowLoop(t *testing.T) {
	prog := loadProgram(t)
	fn, s, v := callSite(t, prog, "loop")
	expectSites(t, solveAll(t, dataflow.NewFlowEngine(prog), fn, s, v), "BouncyCastleProvider", "SunProvider")
}

func TestFlowFallbackOnCall(t *testing.T) {
	prog := loadProgram(t)
	fn, s, v := callSite(t, prog, "viaCall")
	res := solveAll(t, dataflow.NewFlowEngine(prog), fn, s, v)
	expectSites(t, res, "*example.com/app.BouncyCastleProvider")
	for _, ctx := range res {
		if ctx.Solver != "pointer" || ctx.Function != "example.com/app.newProvider" {
			t.Errorf("unexpected context %+v", ctx)
		}
	}
}

func TestFlowParameter(t *testing.T) {
	prog := loadProgram(t)
	e := dataflow.NewFlowEngine(prog)
	fn, s, v := callSite(t, prog, "viaParam")
	if preds := e.PredecessorsOf(fn, s); len(preds) != 1 || preds[0] != ast.Node(fn.Type()) {
		t.Fatalf("expected function entry as predecessor, got %v", preds)
	}
	expectSites(t, solveAll(t, e, fn, s, v), "*example.com/app.BouncyCastleProvider")
}

func TestFlowOpaqueRedefinition(t *testing.T) {
	prog := loadProgram(t)
	tests := []struct {
		function string
		types    []string
	}{
		{"tupleRedefinition", []string{"example.com/app.SunProvider"}},
		{"rangeRedefinition", []string{"*example.com/app.BouncyCastleProvider", "example.com/app.SunProvider"}},
	}
	for _, test := range tests {
		t.Run(test.function, func(t *testing.T) {
			fn, s, v := callSite(t, prog, test.function)
			res := solveAll(t, dataflow.NewFlowEngine(prog), fn, s, v)
			expectSites(t, res, test.types...)
			for site, ctx := range res {
				if ctx.Solver != "pointer" {
					t.Errorf("site %s should be resolved by the points-to solver, got %+v", site, ctx)
				}
			}
		})
	}
}

func TestFlowOpaqueRedefinitionWithoutSSA(t *testing.T) {
	prog := loadProgram(t)
	e := dataflow.NewFlowEngine(&lang.Program{Fset: prog.Fset, Packages: prog.Packages})
	for _, name := range []string{"tupleRedefinition", "rangeRedefinition"} {
		fn, s, v := callSite(t, prog, name)
		if res := solveAll(t, e, fn, s, v); len(res) != 0 {
			t.Errorf("%s: the killed definition must not be reported, got %v", name, res)
		}
	}
}

func TestFlowWithoutSSA(t *testing.T) {
	prog := loadProgram(t)
	fn, s, v := callSite(t, prog, "viaCall")
	e := dataflow.NewFlowEngine(&lang.Program{Fset: prog.Fset, Packages: prog.Packages})
	if res := solveAll(t, e, fn, s, v); len(res) != 0 {
		t.Errorf("expected no site without SSA, got %v", res)
	}
}

func TestPointerEngine(t *testing.T) {
	prog := loadProgram(t)
	e := dataflow.NewPointerEngine(prog)
	tests := []struct {
		function string
		types    []string
	}{
		{"direct", []string{"*example.com/app.BouncyCastleProvider"}},
		{"branches", []string{"*example.com/app.BouncyCastleProvider", "example.com/app.SunProvider"}},
		{"viaCall", []string{"*example.com/app.BouncyCastleProvider"}},
		{"viaParam", []string{"*example.com/app.BouncyCastleProvider"}},
		{"tupleRedefinition", []string{"example.com/app.SunProvider"}},
		{"rangeRedefinition", []string{"*example.com/app.BouncyCastleProvider", "example.com/app.SunProvider"}},
	}
	for _, test := range tests {
		t.Run(test.function, func(t *testing.T) {
			fn, s, v := callSite(t, prog, test.function)
			expectSites(t, solveAll(t, e, fn, s, v), test.types...)
		})
	}
}

func TestPointerSitePositions(t *testing.T) {
	prog := loadProgram(t)
	fn, s, v := callSite(t, prog, "branches")
	res := solveAll(t, dataflow.NewPointerEngine(prog), fn, s, v)
	expectSites(t, res, "*example.com/app.BouncyCastleProvider", "example.com/app.SunProvider")
	for site := range res {
		if !strings.HasPrefix(site.Position, "main.go:") {
			t.Errorf("site %s has no source position", site)
		}
		if strings.HasSuffix(site.Type, "BouncyCastleProvider") && !strings.HasPrefix(site.Position, "main.go:27:") {
			t.Errorf("site %s should be located at the composite literal", site)
		}
	}
}

type seeds struct{}

func (seeds) Seeds(*lang.Program) []dataflow.BackwardQuery { return nil }

func TestSolverOptions(t *testing.T) {
	prog := loadProgram(t)
	for _, kind := range []string{"flow", "pointer"} {
		e, err := dataflow.NewEngine(kind, prog)
		if err != nil {
			t.Fatalf("failed to create engine %s: %v", kind, err)
		}
		if _, err := e.NewSolver(dataflow.Options{DiscoverCallGraph: true}); !errors.Is(err, dataflow.ErrNoSeedFactory) {
			t.Errorf("%s: expected ErrNoSeedFactory, got %v", kind, err)
		}
		if _, err := e.NewSolver(dataflow.Options{DiscoverCallGraph: true, SeedFactory: seeds{}}); err != nil {
			t.Errorf("%s: unexpected error %v", kind, err)
		}
	}
	if _, err := dataflow.NewEngine("oracle", prog); err == nil {
		t.Errorf("expected error for unknown engine")
	}
	if _, err := dataflow.NewPointerEngine(&lang.Program{}).NewSolver(dataflow.Options{}); err == nil {
		t.Errorf("expected error for pointer engine without SSA")
	}
}
