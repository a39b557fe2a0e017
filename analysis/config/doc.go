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

/*
Package config provides a simple way to manage configuration files.

Use [Load](filename) to load a configuration from a specific filename, or [Parse] to read it from memory.

Use [SetGlobalConfig](filename) to set filename as the global config, and then [LoadGlobal]() to load the global config.

A config file should be in yaml format. The top-level fields can be any of the fields defined in the Config
struct type. Unspecified fields keep the values of [NewDefault]. For example, a valid config file is as follows:

	options:
	  log-level: 4
	provider-detection:
	  factories:
	    - method: "^GetInstance$"
	  provider-types:
	    - type: "Provider$"
	  engine: flow
	  vendors:
	    - id: BouncyCastle-JCA
	      type-markers: [BouncyCastle]
	      codes: [BC, BCPQC, BCJSSE]
	    - id: Conscrypt
	      match: 'Type contains "conscrypt" || Code == "AndroidOpenSSL"'
	  rules-dir: rules

# Identifying code elements

The config uses [CodeIdentifier] to identify the factory functions and the provider types. An important feature of
the code identifiers is that the string specifications are seen as regexes if they can be compiled to regexes,
otherwise they are strings.

# Vendor expressions

The match field of a vendor is an expression of the expr language evaluated against [VendorEnv]. It must evaluate to
a boolean; it is compiled when the config is loaded.
*/
package config
