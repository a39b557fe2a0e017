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
	"go/token"

	"github.com/ualberta-smr/CryptoAnalysis/internal/funcutil"
)

// DiagnosticKind explains why no provider has been detected at a call site
type DiagnosticKind int

const (
	// NoDiagnostic is the kind of detections that succeeded, or that found no call site
	NoDiagnostic DiagnosticKind = iota
	// AmbiguousConditional is reported when a two-way branch mentions a text provider
	AmbiguousConditional
	// AmbiguousMultiway is reported when a multi-way branch mentions a text provider
	AmbiguousMultiway
	// AmbiguousAllocation is reported when more than one allocation site reaches an object provider
	AmbiguousAllocation
	// Unresolved is reported when no allocation site reaches an object provider
	Unresolved
	// UnrecognizedType is reported when the only allocation site has a type of no known vendor
	UnrecognizedType
	// UnknownLiteral is reported when a text provider is assigned a code of no known vendor
	UnknownLiteral
	// NoLiteral is reported when a text provider is never assigned a literal
	NoLiteral
	// UntypedArgument is reported when the provider argument is neither an object provider nor text
	UntypedArgument
)

var diagnosticNames = map[DiagnosticKind]string{
	NoDiagnostic:         "none",
	AmbiguousConditional: "ambiguous-conditional",
	AmbiguousMultiway:    "ambiguous-multiway",
	AmbiguousAllocation:  "ambiguous-allocation",
	Unresolved:           "unresolved",
	UnrecognizedType:     "unrecognized-type",
	UnknownLiteral:       "unknown-literal",
	NoLiteral:            "no-literal",
	UntypedArgument:      "untyped-argument",
}

func (k DiagnosticKind) String() string {
	if name, ok := diagnosticNames[k]; ok {
		return name
	}
	return fmt.Sprintf("diagnostic(%d)", int(k))
}

// ParseDiagnosticKind returns the kind named name
func ParseDiagnosticKind(name string) (DiagnosticKind, bool) {
	for kind, kindName := range diagnosticNames {
		if kindName == name {
			return kind, true
		}
	}
	return NoDiagnostic, false
}

// IsAmbiguous returns true for the kinds reporting a value flowing through more than one path
func (k DiagnosticKind) IsAmbiguous() bool {
	return k == AmbiguousConditional || k == AmbiguousMultiway || k == AmbiguousAllocation
}

// Diagnostic explains a detection without provider
type Diagnostic struct {
	Kind    DiagnosticKind
	Message string
	Pos     token.Position
}

func (d Diagnostic) String() string {
	if d.Kind == NoDiagnostic {
		return "none"
	}
	return fmt.Sprintf("%s: %s: %s", d.Pos, d.Kind, d.Message)
}

// Result is the outcome of a provider detection
type Result struct {
	// Provider is the identifier of the detected provider, if any
	Provider funcutil.Optional[string]

	// CallSite is the factory call the detection stopped at. It is nil when the program has none.
	CallSite *CallSite

	// Diagnostic explains why Provider is none when a call site has been found
	Diagnostic Diagnostic
}

func notFound() Result {
	return Result{Provider: funcutil.None[string]()}
}

func (r Result) String() string {
	if r.CallSite == nil {
		return "no factory call"
	}
	if r.Provider.IsSome() {
		return fmt.Sprintf("%s at %s", r.Provider.Value(), r.CallSite)
	}
	return fmt.Sprintf("no provider at %s (%s)", r.CallSite, r.Diagnostic.Kind)
}
