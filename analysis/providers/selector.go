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
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/ualberta-smr/CryptoAnalysis/analysis/rules"
	"github.com/ualberta-smr/CryptoAnalysis/internal/funcutil"
)

// RuleSelection is a rule set and the directory it has been loaded from. The zero value is the empty selection.
type RuleSelection struct {
	Directory string
	Rules     []*rules.Rule
}

// Found returns true if a rule directory has been selected
func (s RuleSelection) Found() bool {
	return s.Directory != ""
}

// ChooseRules loads the rules of dir in source format. A missing directory is not an error: the empty selection is
// returned and the caller may retry with another directory.
func ChooseRules(loader rules.Loader, dir string) (RuleSelection, error) {
	if _, err := os.Stat(dir); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return RuleSelection{}, nil
		}
		return RuleSelection{}, fmt.Errorf("could not access rule directory: %w", err)
	}
	rs, err := loader.Load(dir, rules.FormatSource)
	if err != nil {
		return RuleSelection{}, fmt.Errorf("could not load rules from %s: %w", dir, err)
	}
	return RuleSelection{Directory: dir, Rules: rs}, nil
}

// SelectRules returns the rules of the detected provider, read from the directory named after it in base, and
// completed with the default rules of the classes it has no rule for. When no provider has been detected or its
// directory does not exist, the default rule set is returned.
func SelectRules(loader rules.Loader, base string, provider funcutil.Optional[string],
	defaultSet string) (RuleSelection, error) {
	defaults, err := ChooseRules(loader, filepath.Join(base, defaultSet))
	if err != nil {
		return RuleSelection{}, err
	}
	if provider.IsNone() || provider.Value() == defaultSet {
		return defaults, nil
	}
	sel, err := ChooseRules(loader, filepath.Join(base, provider.Value()))
	if err != nil {
		return RuleSelection{}, err
	}
	if !sel.Found() {
		return defaults, nil
	}
	sel.Rules = rules.Complete(sel.Rules, defaults.Rules)
	return sel, nil
}
