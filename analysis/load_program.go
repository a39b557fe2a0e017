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

package analysis

import (
	"fmt"
	"go/token"
	"os"
	"sort"
	"strings"

	"github.com/ualberta-smr/CryptoAnalysis/analysis/config"
	"github.com/ualberta-smr/CryptoAnalysis/analysis/lang"
	"golang.org/x/tools/go/packages"
	"golang.org/x/tools/go/ssa"
	"golang.org/x/tools/go/ssa/ssautil"
)

// PkgLoadMode is the default loading mode of the provider detection. We load syntax and type information for all the
// packages since the SSA form of the dependencies is needed by the points-to analysis.
const PkgLoadMode = packages.NeedName |
	packages.NeedFiles |
	packages.NeedCompiledGoFiles |
	packages.NeedImports |
	packages.NeedDeps |
	packages.NeedTypes |
	packages.NeedSyntax |
	packages.NeedTypesInfo |
	packages.NeedTypesSizes |
	packages.NeedModule

// LoadOptions are the options of LoadProgram
type LoadOptions struct {
	// Platform is the GOOS of the loaded program. The host platform is used when empty.
	Platform string

	// Tests indicates whether the test files of the packages should be loaded
	Tests bool

	// BuildTags are passed to the build system with -tags
	BuildTags string
}

// LoadProgram loads the packages named by args and returns the statement representation of the ones matching the
// package filter of cfg. The SSA form of the whole program is built in debug mode.
// To understand how to specify the args, look at the documentation of packages.Load.
func LoadProgram(pcfg *packages.Config, cfg *config.Config, opts LoadOptions, args []string) (*lang.Program, error) {
	if pcfg == nil {
		pcfg = &packages.Config{
			Mode:  PkgLoadMode,
			Tests: opts.Tests,
			Fset:  token.NewFileSet(),
		}
	}
	if opts.Platform != "" {
		pcfg.Env = append(os.Environ(), fmt.Sprintf("GOOS=%s", opts.Platform))
	}
	if opts.BuildTags != "" {
		pcfg.BuildFlags = append(pcfg.BuildFlags, "-tags="+opts.BuildTags)
	}

	// load, parse and type check the given packages
	initialPackages, err := packages.Load(pcfg, args...)
	if err != nil {
		return nil, fmt.Errorf("could not load program: %w", err)
	}
	if len(initialPackages) == 0 {
		return nil, fmt.Errorf("could not load program: no packages")
	}
	if packages.PrintErrors(initialPackages) > 0 {
		return nil, fmt.Errorf("could not load program: errors found, exiting")
	}

	// Construct SSA for all the packages we have loaded
	program, ssaPackages := ssautil.AllPackages(initialPackages, ssa.GlobalDebug)
	for i, p := range ssaPackages {
		if p == nil {
			return nil, fmt.Errorf("cannot build SSA for package %s", initialPackages[i])
		}
	}
	program.Build()

	var pkgs []*lang.Package
	for _, i := range applicationPackages(initialPackages) {
		p := initialPackages[i]
		if !cfg.MatchPkgFilter(p.PkgPath) {
			continue
		}
		pkgs = append(pkgs, lang.NewPackage(program.Fset, p.Types, p.TypesInfo, p.Syntax, ssaPackages[i]))
	}
	return lang.NewProgram(program.Fset, program, pkgs), nil
}

// applicationPackages returns the indexes of the packages to analyze, sorted by import path. When tests are loaded,
// the test variant of a package replaces the package and generated test mains are dropped.
func applicationPackages(pkgs []*packages.Package) []int {
	hasTestVariant := map[string]bool{}
	for _, p := range pkgs {
		if isTestVariant(p) {
			hasTestVariant[p.PkgPath] = true
		}
	}
	var res []int
	for i, p := range pkgs {
		if strings.HasSuffix(p.PkgPath, ".test") || (!isTestVariant(p) && hasTestVariant[p.PkgPath]) {
			continue
		}
		res = append(res, i)
	}
	sort.SliceStable(res, func(i, j int) bool {
		return pkgs[res[i]].PkgPath < pkgs[res[j]].PkgPath
	})
	return res
}

// isTestVariant returns true for packages augmented with their test files, which have an ID of the form
// "path [path.test]"
func isTestVariant(p *packages.Package) bool {
	return p.ID == fmt.Sprintf("%s [%s.test]", p.PkgPath, p.PkgPath)
}
