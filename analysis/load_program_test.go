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
	"strings"
	"testing"

	"github.com/ualberta-smr/CryptoAnalysis/analysis/config"
	"github.com/ualberta-smr/CryptoAnalysis/analysis/lang"
	"golang.org/x/exp/slices"
)

const loadprog = "github.com/ualberta-smr/CryptoAnalysis/analysis/testdata/src/loadprog"

func packagePaths(prog *lang.Program) []string {
	var paths []string
	for _, p := range prog.Packages {
		paths = append(paths, p.Path)
	}
	return paths
}

func TestLoadProgram(t *testing.T) {
	prog, err := LoadProgram(nil, config.NewDefault(), LoadOptions{}, []string{"./testdata/src/loadprog/..."})
	if err != nil {
		t.Fatalf("error loading packages: %s", err)
	}
	want := []string{loadprog, loadprog + "/crypto"}
	if got := packagePaths(prog); !slices.Equal(got, want) {
		t.Fatalf("got packages %v, want %v", got, want)
	}
	if prog.SSA == nil {
		t.Fatalf("SSA should be built")
	}
	for _, fn := range prog.Functions() {
		if fn.SSA() == nil {
			t.Errorf("no SSA function for %s", fn)
		}
	}
}

func TestLoadProgramFilter(t *testing.T) {
	cfg, err := config.Parse([]byte("options:\n  pkg-filter: .*/crypto$\n"))
	if err != nil {
		t.Fatalf("failed to parse config: %v", err)
	}
	prog, err := LoadProgram(nil, cfg, LoadOptions{}, []string{"./testdata/src/loadprog/..."})
	if err != nil {
		t.Fatalf("error loading packages: %s", err)
	}
	if got := packagePaths(prog); !slices.Equal(got, []string{loadprog + "/crypto"}) {
		t.Errorf("package filter not applied: %v", got)
	}
}

func TestLoadProgramWithTests(t *testing.T) {
	prog, err := LoadProgram(nil, config.NewDefault(), LoadOptions{Tests: true},
		[]string{"./testdata/src/loadprog/crypto"})
	if err != nil {
		t.Fatalf("error loading packages: %s", err)
	}
	if len(prog.Packages) != 1 {
		t.Fatalf("the test variant should replace the package, got %v", packagePaths(prog))
	}
	if slices.IndexFunc(prog.Packages[0].Functions, func(f *lang.Function) bool {
		return f.Name == "TestGetInstance"
	}) < 0 {
		t.Errorf("test functions should be loaded")
	}
}

func TestLoadProgramError(t *testing.T) {
	_, err := LoadProgram(nil, config.NewDefault(), LoadOptions{}, []string{"./testdata/src/nonexistent"})
	if err == nil || !strings.Contains(err.Error(), "could not load program") {
		t.Errorf("expected load error, got %v", err)
	}
}
