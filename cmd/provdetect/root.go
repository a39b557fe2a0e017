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
	"github.com/spf13/cobra"
	"github.com/ualberta-smr/CryptoAnalysis/analysis"
)

const longUsage = `provdetect detects which cryptographic provider a Go program passes to its
GetInstance-style factory calls, and selects the usage rules of that provider.

Examples:
  provdetect detect ./...                              # detect the provider of the module
  provdetect detect --config=config.yaml ./cmd/app     # use a custom config
  provdetect detect --engine=pointer --watch ./cmd/app # rerun on changes with the pointer engine
  provdetect rules --rules-dir=rules --provider=BouncyCastle-JCA`

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "provdetect",
		Short:         "Crypto provider detection for Go programs",
		Long:          longUsage,
		Version:       analysis.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newDetectCmd(), newRulesCmd())
	return root
}
