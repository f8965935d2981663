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

package orchestrator

import (
	"context"

	"scorecard-toolkit/pkg/config"
	"scorecard-toolkit/pkg/pipeline"
)

// Definition holds all the necessary parameters for one pipeline run.
type Definition struct {
	Config  *config.Config
	Trigger pipeline.Trigger
	// ForceCredentialRefresh bypasses the trigger guard on the
	// credential-refresh stage, for explicit manual refreshes.
	ForceCredentialRefresh bool
}

// Orchestrator executes a benchmark pipeline run end to end.
type Orchestrator interface {
	// Execute runs the pipeline stages in order: prepare-auth (guarded),
	// build-docker, test, collect-results.
	Execute(ctx context.Context, def Definition) error
}
