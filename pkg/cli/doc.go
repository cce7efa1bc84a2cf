// Copyright (c) 2025, Diego Verzolla.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package cli implements the command-line interface of kubectl-topd.
//
// # Overview
//
// kubectl-topd prints CPU, memory and ephemeral disk usage per node, with
// extra label columns and client-side ordering:
//
//	kubectl topd
//	kubectl topd -L topology.kubernetes.io/zone -O "zone,cpu%:desc"
//	kubectl topd -l node-role.kubernetes.io/worker= -O disk%:desc
//
// # Backends
//
//	--backend proxy       Start `kubectl proxy` and query the API through it (default)
//	--proxy-url URL       Use an already running proxy instead of starting one
//	--backend kubeconfig  Query the API server directly with kubeconfig credentials
//	--backend kubectl     Run kubectl for every request
//
// # Ordering
//
// --order-by takes a comma-separated list of columns, each optionally
// suffixed with :asc or :desc. The first column has the highest priority.
// Columns are builtin (name, cpu, cpu%, memory, memory%, disk%, and
// synonyms such as "mem" or "disk usage%") or one of the --label-columns
// keys. Unknown columns are ignored (logged at debug level) unless --strict
// is set.
//
// # Output Formats
//
// Table (default):
//   - Fixed-width columns, usage above --threshold highlighted in red
//
// JSON / YAML:
//   - The full report, including the report ID and degraded flags
//
// # Exit Codes
//
//	0  success (including an empty node listing)
//	1  any failure
//	2  interrupted or timed out
package cli
