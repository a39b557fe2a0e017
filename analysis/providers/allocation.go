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

package providers

import (
	"fmt"
	"strings"

	"github.com/ualberta-smr/CryptoAnalysis/analysis/config"
	"github.com/ualberta-smr/CryptoAnalysis/analysis/dataflow"
	"github.com/ualberta-smr/CryptoAnalysis/internal/funcutil"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

const ambiguousAllocationMessage = "the provider parameter must be passed directly to the factory call, " +
	"and not through if-else or switch statements"

// resolveAllocation maps the allocation site of an object provider to a vendor. A backward query is solved from each
// control-flow predecessor of the call site, and the allocation sites of all the queries are pooled. The provider is
// only resolved when the pool has exactly one site.
func resolveAllocation(lg *config.LogGroup, cfg *config.Config, engine dataflow.Engine,
	site *CallSite) (funcutil.Optional[string], Diagnostic) {
	pos := site.Function.Position(site.Stmt.Pos())
	none := funcutil.None[string]()

	solver, err := engine.NewSolver(dataflow.Options{DiscoverCallGraph: false, SeedFactory: nil})
	if err != nil {
		return none, Diagnostic{Kind: Unresolved, Message: fmt.Sprintf("could not create solver: %v", err), Pos: pos}
	}

	pooled := dataflow.Results{}
	var errs []string
	for _, pred := range engine.PredecessorsOf(site.Function, site.Stmt) {
		q := dataflow.BackwardQuery{Function: site.Function, Point: pred, Value: site.Provider}
		res, err := solver.Solve(q)
		if err != nil {
			lg.Debugf("Query for %s failed: %v\n", site.Provider, err)
			errs = append(errs, err.Error())
			continue
		}
		pooled.Merge(res)
	}

	switch len(pooled) {
	case 0:
		msg := "could not resolve an allocation site of the provider"
		if len(errs) > 0 {
			msg += ": " + strings.Join(errs, "; ")
		}
		return none, Diagnostic{Kind: Unresolved, Message: msg, Pos: pos}
	case 1:
		alloc := maps.Keys(pooled)[0]
		lg.Debugf("Provider allocated at %s\n", alloc)
		vendor := cfg.VendorForType(alloc.Type)
		if vendor.IsNone() {
			return vendor, Diagnostic{
				Kind:    UnrecognizedType,
				Message: fmt.Sprintf("unrecognized allocation type %s", alloc.Type),
				Pos:     pos,
			}
		}
		return vendor, Diagnostic{}
	default:
		sites := funcutil.Map(maps.Keys(pooled), dataflow.AllocationSite.String)
		slices.Sort(sites)
		return none, Diagnostic{
			Kind:    AmbiguousAllocation,
			Message: fmt.Sprintf("%s; allocation sites: %s", ambiguousAllocationMessage, strings.Join(sites, ", ")),
			Pos:     pos,
		}
	}
}
