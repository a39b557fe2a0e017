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

const (
	// EngineFlow selects the flow-sensitive intraprocedural engine, which delegates to the pointer analysis for
	// definitions it cannot see through.
	EngineFlow = "flow"
	// EnginePointer selects the flow-insensitive pointer analysis engine.
	EnginePointer = "pointer"

	// GuardMatchSubstring reports a branch as guarding the provider value when the rendering of the branch contains
	// the rendering of the value.
	GuardMatchSubstring = "substring"
	// GuardMatchIdentifier reports a branch as guarding the provider value when the branch refers to the same
	// variable.
	GuardMatchIdentifier = "identifier"

	// DefaultRuleSet is the name of the rule directory used when no provider has been detected
	DefaultRuleSet = "default"

	// BouncyCastle is the identifier of the Bouncy Castle provider
	BouncyCastle = "BouncyCastle-JCA"

	// DefaultFactoryMethod is the name of the factory functions when none is configured
	DefaultFactoryMethod = "^GetInstance$"

	// DefaultProviderType matches the type names of provider objects when none is configured
	DefaultProviderType = "Provider$"
)
