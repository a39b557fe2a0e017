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

/*
Package dataflow implements the control-flow oracle used by the provider detection. An [Engine] computes the
control-flow predecessors of statements and creates [Solver]s answering backward allocation-site queries.

Two engines are available. The [FlowEngine] is built on the control-flow graph of each function:

	engine := dataflow.NewFlowEngine(prog)
	solver, err := engine.NewSolver(dataflow.Options{})
	for _, pred := range engine.PredecessorsOf(fn, stmt) {
		sites, err := solver.Solve(dataflow.BackwardQuery{Function: fn, Point: pred, Value: v})
		...
	}

The [PointerEngine] answers every query with the points-to analysis of golang.org/x/tools/go/pointer and ignores
the program point of the query.
*/
package dataflow
