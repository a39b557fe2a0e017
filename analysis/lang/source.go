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
	"go/importer"
	"go/parser"
	"go/token"
	"go/types"
	"sort"

	"golang.org/x/exp/maps"
	"golang.org/x/tools/go/ssa"
	"golang.org/x/tools/go/ssa/ssautil"
)

// LoadSource type-checks the files provided as a single package with import path pkgPath, builds its SSA form in
// debug mode and returns its statement representation. The keys of files are file names and the values their
// contents. Imports are type-checked from source.
func LoadSource(pkgPath string, files map[string]string) (*Program, error) {
	if len(files) == 0 {
		return nil, fmt.Errorf("no files for package %s", pkgPath)
	}
	fset := token.NewFileSet()
	names := maps.Keys(files)
	sort.Strings(names)

	var syntax []*ast.File
	for _, name := range names {
		f, err := parser.ParseFile(fset, name, files[name], parser.ParseComments)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", name, err)
		}
		syntax = append(syntax, f)
	}

	tc := &types.Config{Importer: importer.ForCompiler(fset, "source", nil)}
	pkg := types.NewPackage(pkgPath, syntax[0].Name.Name)
	ssaPkg, info, err := ssautil.BuildPackage(tc, fset, pkg, syntax, ssa.GlobalDebug)
	if err != nil {
		return nil, fmt.Errorf("failed to build package %s: %w", pkgPath, err)
	}
	p := NewPackage(fset, pkg, info, syntax, ssaPkg)
	return NewProgram(fset, ssaPkg.Prog, []*Package{p}), nil
}
