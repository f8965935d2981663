// Copyright 2026 Google LLC
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

package benchmark

import (
	"fmt"
	"sort"
)

// Environment variable names the suite entrypoint consumes.
const (
	EnvPytestFilter = "PYTEST_FILTER"
	EnvTestRuns     = "TEST_RUNS"
	EnvWarmupRuns   = "WARMUP_RUNS"
	EnvUploadGCP    = "UPLOAD_GCP"
	EnvRunID        = "RUN_ID"
	EnvCredentials  = "GOOGLE_APPLICATION_CREDENTIALS"
)

// credMountPath is where the materialized cloud-auth file appears inside the
// benchmark container.
const credMountPath = "/secrets/cloud/credentials.json"

// RunParams are the per-run values shared read-only by all benchmark jobs:
// the run identifier, the image under test and the fixed iteration counts.
type RunParams struct {
	RunID      string
	ImageRef   string
	TestRuns   int
	WarmupRuns int
	Upload     bool
}

// Env assembles the environment for one job. All four jobs receive identical
// values except for the filter expression.
func (p RunParams) Env(filter string) map[string]string {
	upload := "0"
	if p.Upload {
		upload = "1"
	}
	return map[string]string{
		EnvPytestFilter: filter,
		EnvTestRuns:     fmt.Sprintf("%d", p.TestRuns),
		EnvWarmupRuns:   fmt.Sprintf("%d", p.WarmupRuns),
		EnvUploadGCP:    upload,
		EnvRunID:        p.RunID,
		EnvCredentials:  credMountPath,
	}
}

// sortedEnv returns the environment as sorted KEY=VALUE pairs for stable
// command lines and manifests.
func sortedEnv(env map[string]string) []string {
	keys := make([]string, 0, len(env))
	for k := range env {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(env))
	for _, k := range keys {
		pairs = append(pairs, fmt.Sprintf("%s=%s", k, env[k]))
	}
	return pairs
}
