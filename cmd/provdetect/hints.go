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

package main

import "regexp"

// Captures errors happening before any analysis starts (program could not load)
var regexCouldNotLoad = regexp.MustCompile("could not load program")

// Captures the kind of error that happen when you put a flag at the end instead of go files
var namedFilesMustBeGoFiles = regexp.MustCompile("-: named files must be .go files: -(\\w)")

// Captures errors of the pointer engine, which requires a main package
var missingMainPackage = regexp.MustCompile("no main package in program")

// Captures malformed rule files
var regexRuleFile = regexp.MustCompile("could not parse rule file|does not name the class it specifies")

// HintForErrorMessage looks for specific error message and returns some other message that might help the user
// resolve the problem.
func HintForErrorMessage(errMsg string) string {
	if regexCouldNotLoad.MatchString(errMsg) {
		if namedFilesMustBeGoFiles.MatchString(errMsg) {
			return "all command line flags should be before the path to the Go files to analyze"
		}
		return "make sure you have provided the right package patterns or Go files to load a Go program"
	}
	if missingMainPackage.MatchString(errMsg) {
		return "the pointer engine analyzes executables; the path should lead to a main package or use --engine=flow"
	}
	if regexRuleFile.MatchString(errMsg) {
		return "rule files are YAML documents whose spec key names the class they specify"
	}
	return ""
}
