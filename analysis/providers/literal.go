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
	"go/constant"
	"go/token"

	"github.com/ualberta-smr/CryptoAnalysis/analysis/config"
	"github.com/ualberta-smr/CryptoAnalysis/analysis/lang"
	"github.com/ualberta-smr/CryptoAnalysis/internal/funcutil"
)

// resolveLiteral maps the string assigned to a text provider to a vendor. A constant argument is used directly;
// otherwise the first assignment of a constant string to the provider in its function is used and later assignments
// are not inspected.
func resolveLiteral(cfg *config.Config, site *CallSite) (funcutil.Optional[string], Diagnostic) {
	pos := site.Function.Position(site.Stmt.Pos())
	code, ok := stringConst(site.Provider.Const)
	if !ok {
		var at token.Position
		if code, at, ok = firstLiteral(site.Function, site.Provider); ok {
			pos = at
		}
	}
	if !ok {
		return funcutil.None[string](), Diagnostic{
			Kind:    NoLiteral,
			Message: fmt.Sprintf("no literal is assigned to provider %s", site.Provider),
			Pos:     pos,
		}
	}
	vendor := cfg.VendorForCode(code)
	if vendor.IsNone() {
		return vendor, Diagnostic{
			Kind:    UnknownLiteral,
			Message: fmt.Sprintf("provider code %q is not known", code),
			Pos:     pos,
		}
	}
	return vendor, Diagnostic{}
}

// firstLiteral returns the first constant string assigned to v in fn, and the position of the assignment
func firstLiteral(fn *lang.Function, v lang.Value) (string, token.Position, bool) {
	info := fn.Info()
	for _, s := range fn.Stmts {
		a, ok := s.(*lang.Assign)
		if !ok {
			continue
		}
		for i, lhs := range a.Lhs {
			if !lang.NewValue(info, lhs).Same(v) {
				continue
			}
			rhs, ok := a.ValueOf(i)
			if !ok {
				continue
			}
			if code, ok := stringConst(lang.NewValue(info, rhs).Const); ok {
				return code, fn.Position(s.Pos()), true
			}
		}
	}
	return "", token.Position{}, false
}

func stringConst(c constant.Value) (string, bool) {
	if c == nil || c.Kind() != constant.String {
		return "", false
	}
	return constant.StringVal(c), true
}
