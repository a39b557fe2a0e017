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
	"strings"

	"github.com/spf13/cobra"
	"github.com/ualberta-smr/CryptoAnalysis/analysis/providers"
	"github.com/ualberta-smr/CryptoAnalysis/analysis/rules"
	"github.com/ualberta-smr/CryptoAnalysis/internal/formatutil"
	"github.com/ualberta-smr/CryptoAnalysis/internal/funcutil"
)

func newRulesCmd() *cobra.Command {
	var configPath, rulesDir, provider string
	cmd := &cobra.Command{
		Use:   "rules",
		Short: "List the rules selected for a provider",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(configPath, "", rulesDir, false)
			if err != nil {
				return err
			}
			base := cfg.RulesDirectory()
			if base == "" {
				return fmt.Errorf("no rules directory: set rules-dir in the config or use --rules-dir")
			}
			p := funcutil.None[string]()
			if provider != "" {
				p = funcutil.Some(provider)
			}
			sel, err := providers.SelectRules(rules.SourceLoader{}, base, p, cfg.ProviderDetection.DefaultRules)
			if err != nil {
				return err
			}
			printRules(cmd.OutOrStdout(), sel)
			return nil
		},
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to the configuration file")
	cmd.Flags().StringVar(&rulesDir, "rules-dir", "", "Directory containing one rule set per provider")
	cmd.Flags().StringVar(&provider, "provider", "", "Provider identifier; the default rule set is listed when empty")
	return cmd
}

func printRules(out io.Writer, sel providers.RuleSelection) {
	if !sel.Found() {
		fmt.Fprintf(out, "no rule set found\n")
		return
	}
	fmt.Fprintf(out, "%s %s\n", formatutil.Bold("rules:"), sel.Directory)
	for _, r := range sel.Rules {
		fmt.Fprintf(out, "  %s %s [%s]\n", formatutil.Cyan(r.ClassName), formatutil.Faint(r.File()),
			strings.Join(r.Labels(), " "))
	}
}
