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
	"errors"
	"fmt"
	"go/ast"

	"github.com/ualberta-smr/CryptoAnalysis/analysis/config"
	"github.com/ualberta-smr/CryptoAnalysis/analysis/lang"
	"github.com/ualberta-smr/CryptoAnalysis/internal/funcutil"
)

var (
	// ErrNoSeedFactory is returned when call graph discovery is requested without a seed factory.
	ErrNoSeedFactory = errors.New("call graph discovery requires a seed factory")

	// ErrNoMainPackage is returned by the points-to solver when the program has no main package to start from.
	ErrNoMainPackage = errors.New("no main package in program")
)

// Engine is a control-flow oracle over a program.
type Engine interface {
	// PredecessorsOf returns the syntax nodes that immediately precede the statement s in the control-flow graph of
	// fn. The first statement of a function is preceded by the function entry, represented by the signature of fn.
	PredecessorsOf(fn *lang.Function, s lang.Stmt) []ast.Node

	// NewSolver returns a fresh solver for backward allocation-site queries.
	NewSolver(opts Options) (Solver, error)
}

// Solver answers backward allocation-site queries.
type Solver interface {
	Solve(q BackwardQuery) (Results, error)
}

// SeedFactory produces the queries from which a call graph is discovered.
type SeedFactory interface {
	Seeds(prog *lang.Program) []BackwardQuery
}

// Options configures a solver.
type Options struct {
	// DiscoverCallGraph enables on-the-fly call graph construction while solving.
	DiscoverCallGraph bool

	// SeedFactory is required when DiscoverCallGraph is set.
	SeedFactory SeedFactory
}

func (o Options) validate() error {
	if o.DiscoverCallGraph && o.SeedFactory == nil {
		return ErrNoSeedFactory
	}
	return nil
}

// BackwardQuery asks for the allocation sites that may flow into Value right after the program point Point of
// Function.
type BackwardQuery struct {
	Function *lang.Function
	Point    ast.Node
	Value    lang.Value
}

// AllocationSite is a place in the program where an object is created.
type AllocationSite struct {
	// Value is the rendering of the allocating expression
	Value string

	// Type is the type of the allocated object. Interface boxing sites report the boxed concrete type.
	Type string

	// Position is the source position of the allocation
	Position string
}

func (a AllocationSite) String() string {
	return fmt.Sprintf("%s (%s) at %s", a.Value, a.Type, a.Position)
}

// Context describes how an allocation site was reached.
type Context struct {
	// Function is the function in which the allocation happens, if known
	Function string

	// Solver is the name of the solver that found the site
	Solver string
}

// Results maps allocation sites to the context in which they were found.
type Results map[AllocationSite]Context

// Merge adds all the entries of other to r. Existing entries are kept.
func (r Results) Merge(other Results) {
	funcutil.Merge(r, other, func(x Context, _ Context) Context { return x })
}

// NewEngine returns the engine named by kind, one of config.EngineFlow or config.EnginePointer.
func NewEngine(kind string, prog *lang.Program) (Engine, error) {
	switch kind {
	case config.EngineFlow, "":
		return NewFlowEngine(prog), nil
	case config.EnginePointer:
		return NewPointerEngine(prog), nil
	default:
		return nil, fmt.Errorf("unknown engine %q", kind)
	}
}
