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

package rules

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/exp/slices"
	"gopkg.in/yaml.v3"
)

// Format is the format of the files of a rule set
type Format int

const (
	// FormatSource is the YAML source format, one rule per .yaml or .yml file
	FormatSource Format = iota
	// FormatSerialized is a precompiled rule set format
	FormatSerialized
)

func (f Format) String() string {
	switch f {
	case FormatSource:
		return "source"
	case FormatSerialized:
		return "serialized"
	default:
		return fmt.Sprintf("format(%d)", int(f))
	}
}

// ErrUnsupportedFormat is returned by loaders that cannot read a format
var ErrUnsupportedFormat = errors.New("unsupported rule format")

// A Loader reads the rules of a directory
type Loader interface {
	Load(dir string, format Format) ([]*Rule, error)
}

// SourceLoader reads rule sets in the source format
type SourceLoader struct{}

// Load reads all the rule files of dir in file name order. Files with other extensions and subdirectories are
// ignored.
func (SourceLoader) Load(dir string, format Format) ([]*Rule, error) {
	if format != FormatSource {
		return nil, fmt.Errorf("cannot load %s rules from %s: %w", format, dir, ErrUnsupportedFormat)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("could not read rule directory: %w", err)
	}
	var names []string
	for _, entry := range entries {
		ext := filepath.Ext(entry.Name())
		if !entry.IsDir() && (ext == ".yaml" || ext == ".yml") {
			names = append(names, entry.Name())
		}
	}
	slices.Sort(names)

	rules := make([]*Rule, 0, len(names))
	for _, name := range names {
		rule, err := loadRule(filepath.Join(dir, name))
		if err != nil {
			return nil, err
		}
		rules = append(rules, rule)
	}
	return rules, nil
}

func loadRule(filename string) (*Rule, error) {
	b, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("could not read rule file: %w", err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	rule := &Rule{}
	if err := dec.Decode(rule); err != nil {
		return nil, fmt.Errorf("could not parse rule file %s: %w", filename, err)
	}
	if rule.ClassName == "" {
		return nil, fmt.Errorf("rule file %s does not name the class it specifies", filename)
	}
	rule.file = filename
	return rule, nil
}
