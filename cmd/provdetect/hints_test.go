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

import (
	"strings"
	"testing"
)

func validateHint(t *testing.T, errorMsg string, containedHint string) {
	hint := HintForErrorMessage(errorMsg)
	if !strings.Contains(hint, containedHint) {
		t.Fatalf("incorrect hint %q; check and update error message if necessary", hint)
	}
}

func TestHintForFlagAfterFiles(t *testing.T) {
	errorMsg := "could not load program:\n -: named files must be .go files: -v"
	validateHint(t, errorMsg, "all command line flags should be before the path")
}

func TestHintForFailedLoadProgram(t *testing.T) {
	errorMsg := "could not load program: errors found, exiting"
	validateHint(t, errorMsg, "right package patterns")
}

func TestHintForPointerEngine(t *testing.T) {
	validateHint(t, "no main package in program", "--engine=flow")
}

func TestHintForRuleFile(t *testing.T) {
	validateHint(t, "could not load rules from rules/default: rule file Cipher.yaml does not name the class it specifies",
		"spec key")
}

func TestNoHint(t *testing.T) {
	if hint := HintForErrorMessage("something else"); hint != "" {
		t.Errorf("unexpected hint %q", hint)
	}
}
