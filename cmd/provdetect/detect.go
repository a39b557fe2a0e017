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
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/ualberta-smr/CryptoAnalysis/analysis"
	"github.com/ualberta-smr/CryptoAnalysis/analysis/config"
	"github.com/ualberta-smr/CryptoAnalysis/analysis/dataflow"
	"github.com/ualberta-smr/CryptoAnalysis/analysis/providers"
	"github.com/ualberta-smr/CryptoAnalysis/analysis/rules"
	"github.com/ualberta-smr/CryptoAnalysis/internal/formatutil"
	"github.com/ualberta-smr/CryptoAnalysis/internal/watcher"
	"golang.org/x/exp/slices"
)

type detectFlags struct {
	configPath string
	engine     string
	rulesDir   string
	buildTags  string
	watch      bool
	verbose    bool
	withTest   bool
}

func newDetectCmd() *cobra.Command {
	flags := &detectFlags{}
	cmd := &cobra.Command{
		Use:   "detect [packages]",
		Short: "Detect the crypto provider passed to the first factory call and select its rules",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				args = []string{"."}
			}
			return runDetect(cmd, flags, args)
		},
	}
	cmd.Flags().StringVarP(&flags.configPath, "config", "c", "", "Path to the configuration file")
	cmd.Flags().StringVar(&flags.engine, "engine", "", "Override the control-flow engine (flow or pointer)")
	cmd.Flags().StringVar(&flags.rulesDir, "rules-dir", "", "Override the directory containing one rule set per provider")
	cmd.Flags().StringVar(&flags.buildTags, "build-tags", "", "Build tags used when loading the packages")
	cmd.Flags().BoolVarP(&flags.watch, "watch", "w", false, "Rerun the detection when Go files change")
	cmd.Flags().BoolVarP(&flags.verbose, "verbose", "v", false, "Verbose printing on standard output")
	cmd.Flags().BoolVar(&flags.withTest, "with-test", false, "Load the test files of the packages")
	return cmd
}

// loadConfig returns the config file named by the flags, or the default config, with the command line overrides
func loadConfig(configPath string, engine string, rulesDir string, verbose bool) (*config.Config, error) {
	cfg := config.NewDefault()
	if configPath != "" {
		config.SetGlobalConfig(configPath)
		c, err := config.LoadGlobal()
		if err != nil {
			return nil, fmt.Errorf("could not load config %q: %w", configPath, err)
		}
		cfg = c
	}
	if engine != "" {
		if engine != config.EngineFlow && engine != config.EnginePointer {
			return nil, fmt.Errorf("unknown engine %q, expected %s or %s", engine, config.EngineFlow, config.EnginePointer)
		}
		cfg.ProviderDetection.Engine = engine
	}
	if rulesDir != "" {
		abs, err := filepath.Abs(rulesDir)
		if err != nil {
			return nil, fmt.Errorf("invalid rules directory %q: %w", rulesDir, err)
		}
		cfg.ProviderDetection.RulesDir = abs
	}
	if verbose {
		cfg.LogLevel = int(config.DebugLevel)
	}
	return cfg, nil
}

func runDetect(cmd *cobra.Command, flags *detectFlags, args []string) error {
	cfg, err := loadConfig(flags.configPath, flags.engine, flags.rulesDir, flags.verbose)
	if err != nil {
		return err
	}
	lg := config.NewLogGroup(cfg)
	out := cmd.OutOrStdout()
	opts := analysis.LoadOptions{Tests: flags.withTest, BuildTags: flags.buildTags}

	if _, err := detect(out, lg, cfg, opts, args); err != nil || !flags.watch {
		return err
	}

	fw, err := watcher.NewFileWatcher(lg, watcher.Options{IncludeTests: flags.withTest})
	if err != nil {
		return err
	}
	defer fw.Close()
	dirs := watchedDirs(args)
	err = fw.Watch(dirs, func(changed []string) error {
		fmt.Fprintf(out, "\n%s %s\n", formatutil.Cyan("changed:"), strings.Join(changed, ", "))
		_, err := detect(out, lg, cfg, opts, args)
		return err
	})
	if err != nil {
		return err
	}
	lg.Infof("Watching %s, press Ctrl-C to stop\n", strings.Join(dirs, ", "))
	select {
	case <-cmd.Context().Done():
	case <-fw.Done():
	}
	return nil
}

// detect runs one provider detection over the packages and prints the result and the selected rules to out
func detect(out io.Writer, lg *config.LogGroup, cfg *config.Config, opts analysis.LoadOptions,
	args []string) (providers.Result, error) {
	prog, err := analysis.LoadProgram(nil, cfg, opts, args)
	if err != nil {
		return providers.Result{}, err
	}
	lg.Debugf("Loaded %d packages\n", len(prog.Packages))
	engine, err := dataflow.NewEngine(cfg.ProviderDetection.Engine, prog)
	if err != nil {
		return providers.Result{}, err
	}
	res := providers.Analyze(lg, cfg, prog, engine)

	var sel providers.RuleSelection
	if base := cfg.RulesDirectory(); base != "" {
		sel, err = providers.SelectRules(rules.SourceLoader{}, base, res.Provider, cfg.ProviderDetection.DefaultRules)
		if err != nil {
			return res, err
		}
	}
	printResult(out, res, sel)
	if lg.Level() >= config.DebugLevel {
		for _, r := range sel.Rules {
			fmt.Fprintf(out, "  %s %s\n", formatutil.Cyan(r.ClassName), formatutil.Faint(r.File()))
		}
	}
	return res, nil
}

func printResult(out io.Writer, res providers.Result, sel providers.RuleSelection) {
	switch {
	case res.CallSite == nil:
		fmt.Fprintf(out, "%s no factory call found\n", formatutil.Faint("provider:"))
	case res.Provider.IsSome():
		fmt.Fprintf(out, "%s %s\n", formatutil.Bold("provider:"), formatutil.Green(res.Provider.Value()))
		fmt.Fprintf(out, "%s %s\n", formatutil.Bold("call:"), res.CallSite)
	default:
		kind := res.Diagnostic.Kind.String()
		if res.Diagnostic.Kind.IsAmbiguous() || res.Diagnostic.Kind == providers.Unresolved {
			kind = formatutil.Red(kind)
		} else {
			kind = formatutil.Yellow(kind)
		}
		fmt.Fprintf(out, "%s none (%s)\n", formatutil.Bold("provider:"), kind)
		fmt.Fprintf(out, "%s %s\n", formatutil.Bold("call:"), res.CallSite)
		fmt.Fprintf(out, "  %s\n", formatutil.Sanitize(res.Diagnostic.Message))
	}
	if sel.Found() {
		fmt.Fprintf(out, "%s %s (%d rules)\n", formatutil.Bold("rules:"), sel.Directory, len(sel.Rules))
	} else {
		fmt.Fprintf(out, "%s %s\n", formatutil.Bold("rules:"), formatutil.Faint("none"))
	}
}

// watchedDirs returns the directories of the package patterns and files in args. Import paths that are not
// local directories are ignored.
func watchedDirs(args []string) []string {
	var dirs []string
	for _, arg := range args {
		dir := strings.TrimSuffix(strings.TrimSuffix(arg, "..."), "/")
		if dir == "" {
			dir = "."
		}
		if strings.HasSuffix(dir, ".go") {
			dir = filepath.Dir(dir)
		}
		dir = filepath.Clean(dir)
		if info, err := os.Stat(dir); err == nil && info.IsDir() && !slices.Contains(dirs, dir) {
			dirs = append(dirs, dir)
		}
	}
	if len(dirs) == 0 {
		dirs = []string{"."}
	}
	return dirs
}
