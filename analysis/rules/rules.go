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

// Package rules contains the representation of the cryptographic API usage rules and the loader reading rule sets
// from a directory.
//
// A rule set is a directory in which every YAML file contains one rule specifying the correct usage of one class of
// a cryptographic API:
//
//	spec: javax.crypto.Cipher
//	objects:
//	  - {type: String, name: transformation}
//	events:
//	  - {label: g1, method: getInstance, params: [transformation]}
//	order: g1
//	constraints:
//	  - transformation in {"AES/GCM/NoPadding"}
package rules

import (
	"golang.org/x/exp/slices"
)

// Rule is the usage rule of one class.
type Rule struct {
	// ClassName is the fully qualified name of the class the rule specifies
	ClassName string `yaml:"spec"`

	// Objects are the variables used in the rest of the rule
	Objects []Object `yaml:"objects"`

	// Events are the labelled method calls of the rule
	Events []Event `yaml:"events"`

	// Order is the regular expression over event labels that usages must follow
	Order string `yaml:"order"`

	Constraints []string `yaml:"constraints"`
	Requires    []string `yaml:"requires"`
	Ensures     []string `yaml:"ensures"`
	Negates     []string `yaml:"negates"`
	Forbidden   []string `yaml:"forbidden"`

	file string
}

// Object is a typed variable of a rule
type Object struct {
	Type string `yaml:"type"`
	Name string `yaml:"name"`
}

// Event is a labelled method call
type Event struct {
	Label  string   `yaml:"label"`
	Method string   `yaml:"method"`
	Params []string `yaml:"params"`
}

// File returns the file the rule has been loaded from
func (r *Rule) File() string {
	return r.file
}

// Labels returns the labels of the events of the rule
func (r *Rule) Labels() []string {
	labels := make([]string, 0, len(r.Events))
	for _, e := range r.Events {
		labels = append(labels, e.Label)
	}
	return labels
}

// Complete returns the rules of a provider completed with the default rules of the classes the provider has no rule
// for. The provider rules come first.
func Complete(provider []*Rule, defaults []*Rule) []*Rule {
	res := slices.Clone(provider)
	for _, d := range defaults {
		if slices.IndexFunc(provider, func(r *Rule) bool { return r.ClassName == d.ClassName }) < 0 {
			res = append(res, d)
		}
	}
	return res
}
