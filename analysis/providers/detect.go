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

// Package providers detects the cryptographic provider passed to the first factory call of a program, in order to
// select the rule set matching that provider.
//
// The detection stops at the first factory call found in the program, whether the provider can be resolved there or
// not. Provider arguments are either objects, resolved through their allocation sites with a [dataflow.Engine], or
// text, resolved through the constant string assigned to them. A provider flowing through branches is never guessed:
// the detection returns no provider and a [Diagnostic] explaining why.
package providers

import (
	"github.com/ualberta-smr/CryptoAnalysis/analysis/config"
	"github.com/ualberta-smr/CryptoAnalysis/analysis/dataflow"
	"github.com/ualberta-smr/CryptoAnalysis/analysis/lang"
	"github.com/ualberta-smr/CryptoAnalysis/internal/funcutil"
)

// Analyze returns the provider passed to the first factory call of prog. The result has no call site when prog has
// no factory call.
func Analyze(lg *config.LogGroup, cfg *config.Config, prog *lang.Program, engine dataflow.Engine) Result {
	site, ok := FindCallSite(cfg, prog)
	if !ok {
		lg.Infof("No factory call found\n")
		return notFound()
	}
	lg.Debugf("Factory call %s\n", site)

	res := Result{CallSite: site, Provider: funcutil.None[string]()}
	switch Classify(cfg, site.Provider) {
	case Object:
		res.Provider, res.Diagnostic = resolveAllocation(lg, cfg, engine, site)
	case Text:
		if d := CheckGuards(cfg, site.Function, site.Provider); d.Kind != NoDiagnostic {
			res.Diagnostic = d
		} else {
			res.Provider, res.Diagnostic = resolveLiteral(cfg, site)
		}
	default:
		res.Diagnostic = Diagnostic{
			Kind:    UntypedArgument,
			Message: "provider argument of type " + site.Provider.TypeString() + " is not analyzed",
			Pos:     site.Function.Position(site.Stmt.Pos()),
		}
	}
	report(lg, res)
	return res
}

func report(lg *config.LogGroup, res Result) {
	d := res.Diagnostic
	switch {
	case res.Provider.IsSome():
		lg.Infof("Detected provider %s at %s\n", res.Provider.Value(), res.CallSite)
	case d.Kind.IsAmbiguous() || d.Kind == Unresolved:
		lg.Errorf("%s\n", d)
	case d.Kind == UntypedArgument:
		lg.Debugf("%s\n", d)
	default:
		lg.Warnf("%s\n", d)
	}
}
