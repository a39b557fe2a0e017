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

// Package analysistest loads the test programs of the provider detection and the expectations annotated in their
// comments.
package analysistest

import (
	"errors"
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/ualberta-smr/CryptoAnalysis/analysis/config"
	"github.com/ualberta-smr/CryptoAnalysis/analysis/lang"
	"github.com/ualberta-smr/CryptoAnalysis/internal/funcutil"
	"golang.org/x/exp/maps"
)

// LoadTest loads the Go files of the directory dir as a single main package, and the config.yaml of dir if there is
// one. Otherwise, the default configuration is returned.
func LoadTest(t *testing.T, dir string) (*lang.Program, *config.Config) {
	files, err := readGoFiles(dir)
	if err != nil {
		t.Fatalf("error reading test files: %v", err)
	}
	prog, err := lang.LoadSource("example.com/"+filepath.Base(dir), files)
	if err != nil {
		t.Fatalf("error loading test program: %v", err)
	}

	configFile := filepath.Join(dir, "config.yaml")
	if _, err := os.Stat(configFile); errors.Is(err, fs.ErrNotExist) {
		return prog, config.NewDefault()
	}
	config.SetGlobalConfig(configFile)
	cfg, err := config.LoadGlobal()
	if err != nil {
		t.Fatalf("error loading global config: %v", err)
	}
	return prog, cfg
}

func readGoFiles(dir string) (map[string]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	files := map[string]string{}
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || filepath.Ext(name) != ".go" || strings.HasSuffix(name, "_test.go") {
			continue
		}
		b, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, err
		}
		files[filepath.Join(dir, name)] = string(b)
	}
	return files, nil
}

// ProviderRegex matches annotations of the form "@Provider(id)", where id is a provider identifier or none
var ProviderRegex = regexp.MustCompile(`//.*@Provider\(\s*([\w.-]+)\s*\)`)

// DiagnosticRegex matches annotations of the form "@Diagnostic(kind)"
var DiagnosticRegex = regexp.MustCompile(`//.*@Diagnostic\(\s*([\w-]+)\s*\)`)

// LPos is a position without column
type LPos struct {
	Filename string
	Line     int
}

func (p LPos) String() string {
	return fmt.Sprintf("%s:%d", p.Filename, p.Line)
}

// RemoveColumn returns the position pos without its column
func RemoveColumn(pos token.Position) LPos {
	return LPos{Line: pos.Line, Filename: pos.Filename}
}

// Expectation is the expected outcome of the detection on a test program
type Expectation struct {
	// Provider is the expected provider
	Provider funcutil.Optional[string]

	// Diagnostic is the name of the expected diagnostic kind. It is empty when not annotated.
	Diagnostic string

	// Pos is the position of the @Provider annotation, which is on the line of the expected call site
	Pos LPos
}

// GetExpectation reads the @Provider and @Diagnostic annotations of the Go files of dir. It is an error for the
// directory to have no @Provider annotation or more than one.
func GetExpectation(dir string) (Expectation, error) {
	files, err := readGoFiles(dir)
	if err != nil {
		return Expectation{}, err
	}
	fset := token.NewFileSet()
	var exp Expectation
	found := false
	for _, name := range maps.Keys(files) {
		f, err := parser.ParseFile(fset, name, files[name], parser.ParseComments)
		if err != nil {
			return Expectation{}, err
		}
		err = forEachComment(f, func(c *ast.Comment) error {
			if a := ProviderRegex.FindStringSubmatch(c.Text); len(a) > 1 {
				if found {
					return fmt.Errorf("%s: more than one @Provider annotation", fset.Position(c.Pos()))
				}
				found = true
				exp.Pos = RemoveColumn(fset.Position(c.Pos()))
				exp.Provider = funcutil.Some(a[1])
				if a[1] == "none" {
					exp.Provider = funcutil.None[string]()
				}
			}
			if a := DiagnosticRegex.FindStringSubmatch(c.Text); len(a) > 1 {
				exp.Diagnostic = a[1]
			}
			return nil
		})
		if err != nil {
			return Expectation{}, err
		}
	}
	if !found {
		return Expectation{}, fmt.Errorf("no @Provider annotation in %s", dir)
	}
	return exp, nil
}

func forEachComment(f *ast.File, do func(c *ast.Comment) error) error {
	for _, group := range f.Comments {
		for _, c := range group.List {
			if err := do(c); err != nil {
				return err
			}
		}
	}
	return nil
}
