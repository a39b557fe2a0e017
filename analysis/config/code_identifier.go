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

package config

import (
	"go/types"
	"regexp"
)

// CodeIdentifier identifies a code element that is the factory of a provider detection problem, or the type of the
// provider argument. The fields are seen as regexes if they can be compiled, otherwise as plain strings.
// An empty field matches anything.
type CodeIdentifier struct {
	// Package is the import path of the package declaring the element
	Package string `yaml:"package"`
	// Method is the name of a function
	Method string `yaml:"method"`
	// Type is the name of a type
	Type string `yaml:"type"`
	// This will not be part of the yaml config
	computedRegexs *codeIdentifierRegex
}

type codeIdentifierRegex struct {
	packageRegex *regexp.Regexp
	methodRegex  *regexp.Regexp
	typeRegex    *regexp.Regexp
}

// compileRegexes compiles the strings in the code identifier into regexes. It compiles all identifiers into regexes
// or none.
func compileRegexes(cid CodeIdentifier) CodeIdentifier {
	packageRegex, err := regexp.Compile(cid.Package)
	if err != nil {
		return cid
	}
	methodRegex, err := regexp.Compile(cid.Method)
	if err != nil {
		return cid
	}
	typeRegex, err := regexp.Compile(cid.Type)
	if err != nil {
		return cid
	}
	cid.computedRegexs = &codeIdentifierRegex{
		packageRegex: packageRegex,
		methodRegex:  methodRegex,
		typeRegex:    typeRegex,
	}
	return cid
}

// equalOnNonEmptyFields returns true if each of the receiver's fields are either equal to (or matched by) the
// corresponding argument's field, or the argument's field is empty
func (cid CodeIdentifier) equalOnNonEmptyFields(cidRef CodeIdentifier) bool {
	if cidRef.computedRegexs != nil {
		return (cidRef.Package == "" || cidRef.computedRegexs.packageRegex.MatchString(cid.Package)) &&
			(cidRef.Method == "" || cidRef.computedRegexs.methodRegex.MatchString(cid.Method)) &&
			(cidRef.Type == "" || cidRef.computedRegexs.typeRegex.MatchString(cid.Type))
	}
	return (cidRef.Package == "" || cid.Package == cidRef.Package) &&
		(cidRef.Method == "" || cid.Method == cidRef.Method) &&
		(cidRef.Type == "" || cid.Type == cidRef.Type)
}

// FuncIdentifier returns the code identifier of a function. Methods have no identifier in the provider detection
// problems and return false.
func FuncIdentifier(f *types.Func) (CodeIdentifier, bool) {
	if f == nil {
		return CodeIdentifier{}, false
	}
	if sig, ok := f.Type().(*types.Signature); ok && sig.Recv() != nil {
		return CodeIdentifier{}, false
	}
	cid := CodeIdentifier{Method: f.Name()}
	if f.Pkg() != nil {
		cid.Package = f.Pkg().Path()
	}
	return cid, true
}

// TypeIdentifier returns the code identifier of a type. Pointers are dereferenced once; named types are identified
// by their package path and name, other types by their string representation.
func TypeIdentifier(t types.Type) CodeIdentifier {
	if ptr, ok := t.(*types.Pointer); ok {
		t = ptr.Elem()
	}
	if named, ok := t.(*types.Named); ok {
		obj := named.Obj()
		cid := CodeIdentifier{Type: obj.Name()}
		if obj.Pkg() != nil {
			cid.Package = obj.Pkg().Path()
		}
		return cid
	}
	return CodeIdentifier{Type: types.TypeString(t, nil)}
}

// ExistsCid is true if there is some x in a such that f(x) is true.
func ExistsCid(a []CodeIdentifier, f func(identifier CodeIdentifier) bool) bool {
	for _, x := range a {
		if f(x) {
			return true
		}
	}
	return false
}
