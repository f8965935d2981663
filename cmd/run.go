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
	"scorecard-toolkit/pkg/orchestrator"
	"scorecard-toolkit/pkg/orchestrator/scorecard"
	"scorecard-toolkit/pkg/pipeline"
)

var (
	triggerSource     string
	triggerBranch     string
	forceRefresh      bool
	commitSHA         string
	disableCache      bool
	outputManifestDir string
)

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVar(&triggerSource, "trigger-source", "", "What triggered this run (e.g. 'web', 'push'). Overrides trigger.source from the config.")
	runCmd.Flags().StringVar(&triggerBranch, "trigger-branch", "", "Branch the run was triggered on. Overrides trigger.branch from the config.")
	runCmd.Flags().BoolVar(&forceRefresh, "force-refresh", false, "Refresh the registry credential even when the trigger conditions are not met.")
	runCmd.Flags().StringVar(&commitSHA, "commit-sha", "", "Commit to stamp and tag the benchmark image with. Overrides build.commit_sha from the config.")
	runCmd.Flags().BoolVar(&disableCache, "no-cache", false, "Force a fresh image build.")
	runCmd.Flags().StringVarP(&outputManifestDir, "output-manifest-dir", "o", "", "Save generated Kubernetes manifests to this directory instead of applying them.")
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Runs the full benchmark pipeline.",
	Long: `The 'run' command executes every pipeline stage in order: credential
refresh (when the trigger conditions are met or --force-refresh is given),
image build and push, the benchmark slices, and result collection.`,
	Run:          runRunCmd,
	SilenceUsage: true,
}

func runRunCmd(cmd *cobra.Command, args []string) {
	logging.Info("Executing scorecard run command...")

	cfg := loadConfig()
	if cmd.Flags().Changed("trigger-source") {
		cfg.Trigger.Source = triggerSource
	}
	if cmd.Flags().Changed("trigger-branch") {
		cfg.Trigger.Branch = triggerBranch
	}
	if cmd.Flags().Changed("commit-sha") {
		cfg.Build.CommitSHA = commitSHA
	}
	if cmd.Flags().Changed("no-cache") {
		cfg.Build.DisableCache = disableCache
	}
	if cmd.Flags().Changed("output-manifest-dir") {
		cfg.Benchmark.OutputManifestDir = outputManifestDir
	}

	orch, err := scorecard.New()
	if err != nil {
		logging.Fatal("Failed to create scorecard orchestrator: %v", err)
	}

	def := orchestrator.Definition{
		Config: cfg,
		Trigger: pipeline.Trigger{
			Source: cfg.Trigger.Source,
			Branch: cfg.Trigger.Branch,
		},
		ForceCredentialRefresh: forceRefresh,
	}

	if err := orch.Execute(context.Background(), def); err != nil {
		logging.Fatal("scorecard run failed: %v", err)
	}
	color.Green("Pipeline run complete.")
}
