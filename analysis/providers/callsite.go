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
	"go/ast"
	"go/types"

	"github.com/ualberta-smr/CryptoAnalysis/analysis/config"
	"github.com/ualberta-smr/CryptoAnalysis/analysis/lang"
	"golang.org/x/tools/go/types/typeutil"
)

// CallSite is an assignment whose right-hand side is a call to a provider factory.
type CallSite struct {
	Function *lang.Function
	Stmt     *lang.Assign
	Call     *ast.CallExpr

	// Algorithm and Provider are the two arguments of the call
	Algorithm lang.Value
	Provider  lang.Value

	// Callee is the name of the factory and CalleePackage the name of the package declaring it
	Callee        string
	CalleePackage string
}

func (c *CallSite) String() string {
	return fmt.Sprintf("%s.%s in %s at %s", c.CalleePackage, c.Callee, c.Function,
		c.Function.Position(c.Stmt.Pos()))
}

// FindCallSite returns the first factory call of the program. Packages, functions and statements are enumerated in
// the program order. A factory call is an assignment from a call to a package-level function matching one of the
// configured factories, with exactly two arguments.
func FindCallSite(cfg *config.Config, prog *lang.Program) (*CallSite, bool) {
	for _, fn := range prog.Functions() {
		for _, s := range fn.Stmts {
			if a, ok := s.(*lang.Assign); ok {
				if site, ok := factoryCall(cfg, fn, a); ok {
					return site, true
				}
			}
		}
	}
	return nil, false
}

func factoryCall(cfg *config.Config, fn *lang.Function, a *lang.Assign) (*CallSite, bool) {
	call, ok := a.Call()
	if !ok || len(call.Args) != 2 {
		return nil, false
	}
	info := fn.Info()
	callee := typeutil.StaticCallee(info, call)
	cid, ok := config.FuncIdentifier(callee)
	if !ok || !cfg.IsFactory(cid) {
		return nil, false
	}
	if sig := callee.Type().(*types.Signature); sig.Params().Len() != 2 {
		return nil, false
	}
	site := &CallSite{
		Function:  fn,
		Stmt:      a,
		Call:      call,
		Algorithm: lang.NewValue(info, call.Args[0]),
		Provider:  lang.NewValue(info, call.Args[1]),
		Callee:    callee.Name(),
	}
	if callee.Pkg() != nil {
		site.CalleePackage = callee.Pkg().Name()
	}
	return site, true
}

// ArgumentKind is the resolution path of a provider argument
type ArgumentKind int

const (
	// Untyped arguments are not resolved
	Untyped ArgumentKind = iota
	// Object arguments are provider values resolved through their allocation sites
	Object
	// Text arguments are provider names resolved through their literal value
	Text
)

func (k ArgumentKind) String() string {
	switch k {
	case Object:
		return "object"
	case Text:
		return "text"
	default:
		return "untyped"
	}
}

// Classify returns the kind of the provider argument v, based on its static type. Types matching the configured
// provider types are objects, string types are text and other types are untyped.
func Classify(cfg *config.Config, v lang.Value) ArgumentKind {
	if v.Type == nil {
		return Untyped
	}
	if cfg.IsProviderType(config.TypeIdentifier(v.Type)) {
		return Object
	}
	if v.IsString() {
		return Text
	}
	return Untyped
}
