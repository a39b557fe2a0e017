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
	"fmt"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/ualberta-smr/CryptoAnalysis/internal/funcutil"
	"gopkg.in/yaml.v3"
)

var (
	// The global config file
	configFile string
)

// SetGlobalConfig sets the global config filename
func SetGlobalConfig(filename string) {
	configFile = filename
}

// LoadGlobal loads the config file that has been set by SetGlobalConfig
func LoadGlobal() (*Config, error) {
	return Load(configFile)
}

// Config contains the options and the provider detection problem.
// To add elements to a config file, add fields to this struct.
// If some field is not defined in the config file, it will keep its default value.
// private fields are not populated from a yaml file, but computed after initialization
type Config struct {
	Options `yaml:"options"`

	sourceFile string

	// if the PkgFilter is specified
	pkgFilterRegex *regexp.Regexp

	// ProviderDetection specifies the factory calls and how providers are identified
	ProviderDetection ProviderDetectionSpec `yaml:"provider-detection"`
}

// ProviderDetectionSpec contains the code identifiers and tables of the provider detection problem
type ProviderDetectionSpec struct {
	// Factories identifies the factory functions. A factory call must have exactly two arguments, the second being
	// the provider.
	Factories []CodeIdentifier `yaml:"factories"`

	// ProviderTypes identifies the types of provider objects. A provider argument whose static type matches is
	// resolved through its allocation site.
	ProviderTypes []CodeIdentifier `yaml:"provider-types"`

	// Engine is the control-flow oracle used to resolve allocation sites: "flow" or "pointer"
	Engine string `yaml:"engine"`

	// GuardMatch controls how branches are matched against the provider value: "substring" or "identifier"
	GuardMatch string `yaml:"guard-match"`

	// Vendors lists the supported providers, in priority order
	Vendors []VendorSpec `yaml:"vendors"`

	// RulesDir is the directory containing one rule directory per provider. Relative paths are relative to the
	// config file.
	RulesDir string `yaml:"rules-dir"`

	// DefaultRules is the name of the rule directory used when no provider is detected
	DefaultRules string `yaml:"default-rules"`
}

// VendorSpec describes how a supported provider is recognized
type VendorSpec struct {
	// ID is the identifier returned when the provider is detected
	ID string `yaml:"id"`

	// TypeMarkers are substrings of the allocated type name that identify the provider
	TypeMarkers []string `yaml:"type-markers"`

	// Codes are the string codes that name the provider
	Codes []string `yaml:"codes"`

	// Match is an optional boolean expression over VendorEnv. The vendor is recognized when the expression
	// evaluates to true.
	Match string `yaml:"match"`

	// compiled Match expression
	program *vm.Program
}

// VendorEnv is the environment of the vendor Match expressions. When matching an allocation site, Code is empty;
// when matching a string code, Type is empty.
type VendorEnv struct {
	Type string
	Code string
}

// Options holds the general options of the analysis
type Options struct {
	// PkgFilter is a filter on the packages scanned for factory calls. Only packages whose path matches the filter
	// are scanned.
	PkgFilter string `yaml:"pkg-filter"`

	// Loglevel controls the verbosity of the tool
	LogLevel int `yaml:"log-level"`

	// Suppress warnings
	SilenceWarn bool `yaml:"silence-warn"`
}

// NewDefault returns a default config. The defaults recognize the Bouncy Castle provider passed to GetInstance
// functions.
func NewDefault() *Config {
	cfg := &Config{
		sourceFile: "",
		Options: Options{
			PkgFilter:   "",
			LogLevel:    int(InfoLevel),
			SilenceWarn: false,
		},
		ProviderDetection: ProviderDetectionSpec{
			Factories:     []CodeIdentifier{{Method: DefaultFactoryMethod}},
			ProviderTypes: []CodeIdentifier{{Type: DefaultProviderType}},
			Engine:        EngineFlow,
			GuardMatch:    GuardMatchSubstring,
			Vendors: []VendorSpec{
				{
					ID:          BouncyCastle,
					TypeMarkers: []string{"BouncyCastle"},
					Codes:       []string{"BC", "BCPQC", "BCJSSE"},
				},
			},
			RulesDir:     "",
			DefaultRules: DefaultRuleSet,
		},
	}
	funcutil.MapInPlace(cfg.ProviderDetection.Factories, compileRegexes)
	funcutil.MapInPlace(cfg.ProviderDetection.ProviderTypes, compileRegexes)
	return cfg
}

// Load reads a configuration from a file
func Load(filename string) (*Config, error) {
	b, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("could not read config file: %w", err)
	}
	cfg, err := Parse(b)
	if err != nil {
		return nil, fmt.Errorf("could not load config file %s: %w", filename, err)
	}
	cfg.sourceFile = filename
	return cfg, nil
}

// Parse reads a configuration from the yaml content b. Missing fields keep their default values.
func Parse(b []byte) (*Config, error) {
	cfg := NewDefault()
	if err := yaml.Unmarshal(b, cfg); err != nil {
		return nil, fmt.Errorf("could not unmarshal config: %w", err)
	}
	if err := cfg.initialize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// initialize sets the defaults of the unspecified options, validates the enumerations and compiles the regexes and
// the expressions.
func (c *Config) initialize() error {
	// If logLevel has not been specified (i.e. it is 0) set the default to Info
	if c.LogLevel == 0 {
		c.LogLevel = int(InfoLevel)
	}

	if c.PkgFilter != "" {
		r, err := regexp.Compile(c.PkgFilter)
		if err == nil {
			c.pkgFilterRegex = r
		}
	}

	pd := &c.ProviderDetection
	if len(pd.Factories) == 0 {
		pd.Factories = []CodeIdentifier{{Method: DefaultFactoryMethod}}
	}
	if len(pd.ProviderTypes) == 0 {
		pd.ProviderTypes = []CodeIdentifier{{Type: DefaultProviderType}}
	}
	funcutil.MapInPlace(pd.Factories, compileRegexes)
	funcutil.MapInPlace(pd.ProviderTypes, compileRegexes)

	switch pd.Engine {
	case "":
		pd.Engine = EngineFlow
	case EngineFlow, EnginePointer:
	default:
		return fmt.Errorf("unknown engine %q, expected %q or %q", pd.Engine, EngineFlow, EnginePointer)
	}

	switch pd.GuardMatch {
	case "":
		pd.GuardMatch = GuardMatchSubstring
	case GuardMatchSubstring, GuardMatchIdentifier:
	default:
		return fmt.Errorf("unknown guard-match %q, expected %q or %q", pd.GuardMatch, GuardMatchSubstring,
			GuardMatchIdentifier)
	}

	if pd.DefaultRules == "" {
		pd.DefaultRules = DefaultRuleSet
	}

	for i := range pd.Vendors {
		v := &pd.Vendors[i]
		if v.ID == "" {
			return fmt.Errorf("vendor %d has no id", i)
		}
		if v.Match == "" {
			continue
		}
		program, err := expr.Compile(v.Match, expr.Env(VendorEnv{}), expr.AsBool())
		if err != nil {
			return fmt.Errorf("invalid match expression for vendor %s: %w", v.ID, err)
		}
		v.program = program
	}
	return nil
}

// RelPath returns filename path relative to the config source file
func (c Config) RelPath(filename string) string {
	return path.Join(path.Dir(c.sourceFile), filename)
}

// SourceFile returns the name of the file the config has been loaded from, or the empty string for configs that
// have not been read from a file
func (c Config) SourceFile() string {
	return c.sourceFile
}

// RulesDirectory returns the directory containing the rule sets. Relative directories are resolved against the
// directory of the config file.
func (c Config) RulesDirectory() string {
	dir := c.ProviderDetection.RulesDir
	if dir == "" || filepath.IsAbs(dir) || c.sourceFile == "" {
		return dir
	}
	return c.RelPath(dir)
}

// MatchPkgFilter returns true if the package name pkgname matches the package filter set in the config file. If no
// package filter has been set in the config file, the regex will match anything and return true. This function safely
// considers the case where a filter has been specified by the user, but it could not be compiled to a regex. The safe
// case is to check whether the package filter string is a prefix of the pkgname
func (c Config) MatchPkgFilter(pkgname string) bool {
	if c.pkgFilterRegex != nil {
		return c.pkgFilterRegex.MatchString(pkgname)
	} else if c.PkgFilter != "" {
		return strings.HasPrefix(pkgname, c.PkgFilter)
	} else {
		return true
	}
}

// IsFactory returns true if the code identifier matches a factory function of the provider detection problem
func (c Config) IsFactory(cid CodeIdentifier) bool {
	return ExistsCid(c.ProviderDetection.Factories, cid.equalOnNonEmptyFields)
}

// IsProviderType returns true if the code identifier matches a provider object type
func (c Config) IsProviderType(cid CodeIdentifier) bool {
	return ExistsCid(c.ProviderDetection.ProviderTypes, cid.equalOnNonEmptyFields)
}

// VendorForType returns the identifier of the first vendor recognizing the allocated type name, or none.
func (c Config) VendorForType(typeName string) funcutil.Optional[string] {
	for _, v := range c.ProviderDetection.Vendors {
		for _, marker := range v.TypeMarkers {
			if marker != "" && strings.Contains(typeName, marker) {
				return funcutil.Some(v.ID)
			}
		}
		if v.matches(VendorEnv{Type: typeName}) {
			return funcutil.Some(v.ID)
		}
	}
	return funcutil.None[string]()
}

// VendorForCode returns the identifier of the first vendor named by the string code, or none.
func (c Config) VendorForCode(code string) funcutil.Optional[string] {
	for _, v := range c.ProviderDetection.Vendors {
		if funcutil.Contains(v.Codes, code) || v.matches(VendorEnv{Code: code}) {
			return funcutil.Some(v.ID)
		}
	}
	return funcutil.None[string]()
}

func (v VendorSpec) matches(env VendorEnv) bool {
	if v.program == nil {
		return false
	}
	res, err := expr.Run(v.program, env)
	if err != nil {
		return false
	}
	b, ok := res.(bool)
	return ok && b
}

// Verbose returns true is the configuration verbosity setting is larger than Info (i.e. Debug or Trace)
func (c Config) Verbose() bool {
	return c.LogLevel >= int(DebugLevel)
}
