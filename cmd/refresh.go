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

package cmd

import (
	"context"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"scorecard-toolkit/pkg/logging"
	"scorecard-toolkit/pkg/orchestrator/scorecard"
	"scorecard-toolkit/pkg/pipeline"
)

var refreshForce bool

func init() {
	rootCmd.AddCommand(refreshCmd)

	refreshCmd.Flags().BoolVar(&refreshForce, "force", false, "Refresh even when the trigger conditions are not met.")
}

var refreshCmd = &cobra.Command{
	Use:   "refresh-creds",
	Short: "Refreshes the container registry credential.",
	Long: `The 'refresh-creds' command fetches a fresh registry access token and
publishes it to the pipeline variable store for later build stages.

The refresh only runs for web-triggered runs on the main branch; pass
--force to refresh regardless of the configured trigger.`,
	Run:          runRefreshCmd,
	SilenceUsage: true,
}

func runRefreshCmd(cmd *cobra.Command, args []string) {
	cfg, err := loadConfigLoose()
	if err != nil {
		logging.Fatal("Failed to load configuration: %v", err)
	}

	trigger := pipeline.Trigger{Source: cfg.Trigger.Source, Branch: cfg.Trigger.Branch}
	if !refreshForce && !trigger.ShouldRefreshCredentials() {
		logging.Fatal("Credential refresh only runs for %q-triggered runs on branch %q (got source=%q branch=%q); use --force to override.",
			pipeline.SourceWeb, pipeline.MainBranch, trigger.Source, trigger.Branch)
	}

	orch, err := scorecard.New()
	if err != nil {
		logging.Fatal("Failed to create scorecard orchestrator: %v", err)
	}
	if _, err := orch.RefreshCredentials(context.Background(), cfg); err != nil {
		logging.Fatal("Credential refresh failed: %v", err)
	}
	color.Green("Registry credential refreshed and published.")
}
